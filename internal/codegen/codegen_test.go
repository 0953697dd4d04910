package codegen

import (
	"bytes"

	"github.com/dave/jennifer/jen"

	"github.com/a4501150/rdbigen/internal/schema"
)

// render is the shared test helper every _test.go file in this package
// uses to turn a *jen.File into the Go source text it would write to
// disk, the same Render call internal/writer's writeFile makes.
func render(f *jen.File) string {
	var buf bytes.Buffer
	if err := f.Render(&buf); err != nil {
		panic(err)
	}
	return buf.String()
}

// usersTable is the fixture most codegen tests build on: a primary key,
// a unique-indexed lookup column, a nullable (non-key) column, and an
// ENUM column.
func usersTable() *schema.Table {
	return &schema.Table{
		Name:       "users",
		PrimaryKey: []string{"id"},
		Columns: []*schema.Column{
			{Name: "id", Type: schema.NewBigInt(false), AutoIncrement: true, HasDefault: true},
			{Name: "email", Type: schema.NewVarChar()},
			{Name: "nickname", Type: schema.NewVarChar(), Nullable: true},
			{Name: "status", Type: schema.NewEnum([]string{"active", "suspended"})},
			{Name: "created_at", Type: schema.NewDateTime()},
		},
		UniqueIndexes: []schema.Index{
			{Name: "uk_email", Columns: []string{"email"}, Unique: true},
		},
	}
}

// reservedWordTable covers spec.md §8 scenario 5: a table named after a
// reserved SQL keyword with reserved-word columns, plus a column ("type")
// that collides with a Go keyword rather than a SQL one, to exercise
// naming.ArgName's escaping alongside Quote's backtick-quoting.
func reservedWordTable() *schema.Table {
	return &schema.Table{
		Name:       "order",
		PrimaryKey: []string{"id"},
		Columns: []*schema.Column{
			{Name: "id", Type: schema.NewBigInt(false), AutoIncrement: true, HasDefault: true},
			{Name: "key", Type: schema.NewVarChar()},
			{Name: "group", Type: schema.NewVarChar()},
			{Name: "type", Type: schema.NewVarChar()},
		},
		UniqueIndexes: []schema.Index{
			{Name: "uk_type", Columns: []string{"type"}, Unique: true},
		},
	}
}
