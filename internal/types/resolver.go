// Package types resolves a schema.SqlType (plus its column's nullability
// and primary-key membership) to the Go type reference the Struct/Record
// Generator and DAO Emitter both key off of. The mapping is the closed
// table of spec.md §4.3: every schema.Kind has exactly one entry, and an
// unrecognized schema.SqlType implementation (impossible under the
// sealed lattice, but the switch is written defensively) is reported as
// internal/rdbierr.UnsupportedType rather than panicking.
package types

import (
	"fmt"

	"github.com/a4501150/rdbigen/internal/naming"
	"github.com/a4501150/rdbigen/internal/rdbierr"
	"github.com/a4501150/rdbigen/internal/schema"
)

// Ref is a resolved Go type reference: a package-qualified type name plus
// whatever import it needs (empty for predeclared types and anything in
// the same package as the generated enum, e.g. the enum type itself).
type Ref struct {
	// Name is the type as it appears in generated source, e.g. "int32",
	// "*string", "time.Time", "OrderStatus".
	Name string

	// ImportPath is the import this Name requires, or "" if none
	// (predeclared types, []byte, or a locally generated enum type).
	ImportPath string

	// Nullable reports whether the column itself may hold NULL; Name
	// already reflects this (a nullable non-slice type is pointer-
	// wrapped), but callers generating NULL-branching SQL need the flag
	// directly rather than re-deriving it from a leading "*".
	Nullable bool
}

// Resolve maps one column's declared type to the Go type the generated
// struct field and DAO bind parameter both use. table and column are
// used only to build the EnumTypeName for ENUM columns and to label a
// rejection; the returned error, when non-nil, is always
// rdbierr.ErrUnsupportedType.
func Resolve(table string, col *schema.Column) (Ref, error) {
	base, importPath, err := baseRef(table, col.Name, col.Type)
	if err != nil {
		return Ref{}, err
	}

	// Primary-key columns are never nullable regardless of the parsed
	// NOT NULL state (schema.Column.Nullable already encodes this rule,
	// see internal/schema). The two reference types that are already
	// nil-able in Go are never pointer-wrapped, though Nullable still
	// reports the column's own nullability.
	nullable := col.Nullable
	if base == "[]byte" || base == "json.RawMessage" {
		return Ref{Name: base, ImportPath: importPath, Nullable: nullable}, nil
	}
	if nullable {
		base = "*" + base
	}
	return Ref{Name: base, ImportPath: importPath, Nullable: nullable}, nil
}

func baseRef(table, column string, t schema.SqlType) (name string, importPath string, err error) {
	switch v := t.(type) {
	case schema.TinyInt:
		if v.Width == 1 {
			return "bool", "", nil
		}
		return "int32", "", nil
	case schema.SmallInt:
		return "int32", "", nil
	case schema.MediumInt:
		if v.Unsigned {
			return "int64", "", nil
		}
		return "int32", "", nil
	case schema.Int:
		if v.Unsigned {
			return "int64", "", nil
		}
		return "int32", "", nil
	case schema.BigInt:
		// BIGINT UNSIGNED still resolves to a signed 64-bit field: the
		// generated DAO layer has no unsigned 64-bit bind path through
		// database/sql, so values above math.MaxInt64 are out of scope.
		return "int64", "", nil
	case schema.Float:
		return "float32", "", nil
	case schema.Double:
		return "float64", "", nil
	case schema.Decimal:
		return "string", "", nil
	case schema.Bit:
		if v.Width == 1 {
			return "bool", "", nil
		}
		return "[]byte", "", nil
	case schema.Char, schema.VarChar, schema.Text, schema.Set:
		return "string", "", nil
	case schema.Binary, schema.VarBinary, schema.Blob:
		return "[]byte", "", nil
	case schema.Date, schema.Time, schema.DateTime, schema.Timestamp:
		return "time.Time", "time", nil
	case schema.JSON:
		return "json.RawMessage", "encoding/json", nil
	case schema.Enum:
		return naming.EnumTypeName(table, column), "", nil
	default:
		return "", "", rdbierr.UnsupportedType(table, column, fmt.Sprintf("%T", t), "no Go type mapping for this SQL type")
	}
}
