package schema

// Kind identifies one variant of the closed SqlType lattice. Adding a
// kind is an intentional source change, never a plug-in extension: the
// type resolver type-switches over the concrete variant types and
// reports any variant it has no case for as UnsupportedType.
type Kind int

const (
	KindTinyInt Kind = iota
	KindSmallInt
	KindMediumInt
	KindInt
	KindBigInt
	KindFloat
	KindDouble
	KindDecimal
	KindBit
	KindChar
	KindVarChar
	KindText
	KindBinary
	KindVarBinary
	KindBlob
	KindDate
	KindTime
	KindDateTime
	KindTimestamp
	KindJSON
	KindEnum
	KindSet
)

var kindNames = map[Kind]string{
	KindTinyInt:   "TINYINT",
	KindSmallInt:  "SMALLINT",
	KindMediumInt: "MEDIUMINT",
	KindInt:       "INT",
	KindBigInt:    "BIGINT",
	KindFloat:     "FLOAT",
	KindDouble:    "DOUBLE",
	KindDecimal:   "DECIMAL",
	KindBit:       "BIT",
	KindChar:      "CHAR",
	KindVarChar:   "VARCHAR",
	KindText:      "TEXT",
	KindBinary:    "BINARY",
	KindVarBinary: "VARBINARY",
	KindBlob:      "BLOB",
	KindDate:      "DATE",
	KindTime:      "TIME",
	KindDateTime:  "DATETIME",
	KindTimestamp: "TIMESTAMP",
	KindJSON:      "JSON",
	KindEnum:      "ENUM",
	KindSet:       "SET",
}

// String renders the MySQL type keyword a Kind stands for, used by the
// inspect command's table listing.
func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "UNKNOWN"
}

// SqlType is a tagged variant of one MySQL column type, carrying only the
// parameters that affect type resolution. It is sealed: no package
// outside schema may implement it, keeping the lattice closed.
type SqlType interface {
	Kind() Kind
	sealed()
}

type baseType struct{ kind Kind }

func (b baseType) Kind() Kind { return b.kind }
func (baseType) sealed()      {}

// TinyInt is MySQL's TINYINT, carrying its declared display width (used
// to distinguish TINYINT(1), which resolves to bool) and signedness.
type TinyInt struct {
	baseType
	Width    int
	Unsigned bool
}

func NewTinyInt(width int, unsigned bool) TinyInt {
	return TinyInt{baseType: baseType{KindTinyInt}, Width: width, Unsigned: unsigned}
}

type SmallInt struct {
	baseType
	Unsigned bool
}

func NewSmallInt(unsigned bool) SmallInt {
	return SmallInt{baseType: baseType{KindSmallInt}, Unsigned: unsigned}
}

type MediumInt struct {
	baseType
	Unsigned bool
}

func NewMediumInt(unsigned bool) MediumInt {
	return MediumInt{baseType: baseType{KindMediumInt}, Unsigned: unsigned}
}

type Int struct {
	baseType
	Unsigned bool
}

func NewInt(unsigned bool) Int {
	return Int{baseType: baseType{KindInt}, Unsigned: unsigned}
}

type BigInt struct {
	baseType
	Unsigned bool
}

func NewBigInt(unsigned bool) BigInt {
	return BigInt{baseType: baseType{KindBigInt}, Unsigned: unsigned}
}

type Float struct{ baseType }

func NewFloat() Float { return Float{baseType{KindFloat}} }

type Double struct{ baseType }

func NewDouble() Double { return Double{baseType{KindDouble}} }

// Decimal carries the declared precision and scale; rdbigen does not
// round-trip them into the resolved Go type (DECIMAL always resolves to
// string, see internal/types) but keeps them for inspect/debug output.
type Decimal struct {
	baseType
	Precision int
	Scale     int
}

func NewDecimal(precision, scale int) Decimal {
	return Decimal{baseType: baseType{KindDecimal}, Precision: precision, Scale: scale}
}

type Bit struct {
	baseType
	Width int
}

func NewBit(width int) Bit { return Bit{baseType: baseType{KindBit}, Width: width} }

type Char struct{ baseType }

func NewChar() Char { return Char{baseType{KindChar}} }

type VarChar struct{ baseType }

func NewVarChar() VarChar { return VarChar{baseType{KindVarChar}} }

// Text carries the declared storage size class (TEXT, MEDIUMTEXT, ...);
// it has no bearing on type resolution but is preserved for inspect.
type Text struct {
	baseType
	Size string
}

func NewText(size string) Text { return Text{baseType: baseType{KindText}, Size: size} }

type Binary struct{ baseType }

func NewBinary() Binary { return Binary{baseType{KindBinary}} }

type VarBinary struct{ baseType }

func NewVarBinary() VarBinary { return VarBinary{baseType{KindVarBinary}} }

type Blob struct {
	baseType
	Size string
}

func NewBlob(size string) Blob { return Blob{baseType: baseType{KindBlob}, Size: size} }

type Date struct{ baseType }

func NewDate() Date { return Date{baseType{KindDate}} }

type Time struct{ baseType }

func NewTime() Time { return Time{baseType{KindTime}} }

type DateTime struct{ baseType }

func NewDateTime() DateTime { return DateTime{baseType{KindDateTime}} }

type Timestamp struct{ baseType }

func NewTimestamp() Timestamp { return Timestamp{baseType{KindTimestamp}} }

type JSON struct{ baseType }

func NewJSON() JSON { return JSON{baseType{KindJSON}} }

// Enum carries the ordered, non-empty list of variant labels exactly as
// declared. Two Enum columns with identical Variants do not share a
// synthetic type; equality of variant ordering is not a semantic signal.
type Enum struct {
	baseType
	Variants []string
}

func NewEnum(variants []string) Enum {
	return Enum{baseType: baseType{KindEnum}, Variants: append([]string(nil), variants...)}
}

// Set is accepted by the parser but always downgraded to Text at
// resolution time; it is kept as its own Kind (rather than collapsed
// into Text immediately) so inspect output can still show it was a SET.
type Set struct {
	baseType
	Variants []string
}

func NewSet(variants []string) Set {
	return Set{baseType: baseType{KindSet}, Variants: append([]string(nil), variants...)}
}
