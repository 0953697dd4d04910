// Package schema holds the closed, immutable semantic model that every
// later stage of the generator (naming, type resolution, planning,
// emission) consumes read-only. Each value is built once by the Schema
// Parser and never mutated afterwards.
package schema

// Schema is the ordered sequence of tables parsed from one DDL file, in
// the order they appeared in the source text.
type Schema struct {
	Tables []*Table
}

// TableByName looks up a table case-insensitively, mirroring the
// case-insensitive uniqueness rule enforced at parse time.
func (s *Schema) TableByName(name string) *Table {
	for _, t := range s.Tables {
		if equalFold(t.Name, name) {
			return t
		}
	}
	return nil
}

func equalFold(a, b string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := 0; i < len(a); i++ {
		ca, cb := a[i], b[i]
		if 'A' <= ca && ca <= 'Z' {
			ca += 'a' - 'A'
		}
		if 'A' <= cb && cb <= 'Z' {
			cb += 'a' - 'A'
		}
		if ca != cb {
			return false
		}
	}
	return true
}

// Table is one CREATE TABLE statement lowered into the semantic model.
// Name is the raw database identifier, exactly as declared (it may be a
// reserved word; re-quoting it for emitted SQL is the Emitter's job, not
// the model's).
type Table struct {
	Name             string
	Columns          []*Column
	PrimaryKey       []string // ordered column names; empty if the table has no PK
	UniqueIndexes    []Index
	NonUniqueIndexes []Index
	ForeignKeys      []ForeignKey
}

// ColumnByName looks up a column by its raw database name.
func (t *Table) ColumnByName(name string) *Column {
	for _, c := range t.Columns {
		if c.Name == name {
			return c
		}
	}
	return nil
}

// HasPrimaryKey reports whether the table declared a PRIMARY KEY.
func (t *Table) HasPrimaryKey() bool { return len(t.PrimaryKey) > 0 }

// Column is one column definition within a table.
type Column struct {
	Name string
	Type SqlType

	// Nullable is false whenever NOT NULL was declared, and also
	// whenever the column is itself part of the table's primary key
	// (primary-key columns are implicitly non-nullable regardless of
	// what was written).
	Nullable bool

	AutoIncrement bool

	// HasDefault is true when the column carries a DEFAULT clause, or is
	// AUTO_INCREMENT (which supplies an implicit default for the
	// purposes of insert_plain's column-omission rule).
	HasDefault bool
}

// Index is a named, ordered sequence of columns; Unique distinguishes a
// UNIQUE index from a plain (non-unique) one. The PK is modeled
// separately on Table (spec.md keeps "at most one PK" as a table-level
// fact, not an Index entry).
type Index struct {
	Name    string
	Columns []string
	Unique  bool
}

// ForeignKey references another table's columns for the sole purpose of
// contributing lookup-method candidates to the DAO Planner; it is never
// used to resolve the referenced table's record type, and referential
// integrity is never enforced by generated code.
type ForeignKey struct {
	Columns           []string
	ReferencedTable   string
	ReferencedColumns []string
}
