// Package codegen renders the semantic model (internal/schema), the
// resolved field types (internal/types), and the planned DAO methods
// (internal/planner) into Go source using dave/jennifer/jen, the way
// the teacher's own generator renders its entql and mutation builder
// files. Nothing here re-derives naming or planning decisions; it only
// turns already-made decisions into jen statements.
package codegen

import (
	"github.com/dave/jennifer/jen"

	"github.com/a4501150/rdbigen/internal/naming"
	"github.com/a4501150/rdbigen/internal/schema"
	"github.com/a4501150/rdbigen/internal/types"
)

// field binds one column to its resolved Go type and escaped struct
// field identifier, computed once and shared between GenerateRecord and
// the DAO Emitter's bind/scan code.
type field struct {
	Column *schema.Column
	Name   string // exported struct field identifier, reserved-word escaped
	Ref    types.Ref
}

func planFields(table *schema.Table) ([]field, error) {
	fields := make([]field, len(table.Columns))
	for i, c := range table.Columns {
		ref, err := types.Resolve(table.Name, c)
		if err != nil {
			return nil, err
		}
		fields[i] = field{
			Column: c,
			Name:   escapeExported(naming.FieldName(c.Name)),
			Ref:    ref,
		}
	}
	return fields, nil
}

// escapeExported is the struct-field counterpart of naming.EscapeIdent:
// kept separate because an exported identifier can never literally equal
// a (lowercase) Go keyword, but it can equal a predeclared identifier
// like "Type" reused from another generated const block within the same
// package, which the enum type-name derivation already keeps distinct
// per table. No case currently triggers here; the escape point exists so
// a future reserved-name rule has one place to live.
func escapeExported(name string) string {
	return name
}

// GenerateRecord builds the record type, its ENUM-backed synthetic
// types, and the read-columns list for one table, mirroring the closed
// field ordering of the DDL itself. packageName is the shared models
// package every table's record file belongs to (config.StructsPackage),
// not derived from the table name: every generated record lives in one
// importable package, per SPEC_FULL.md's models/models.go aggregator.
func GenerateRecord(table *schema.Table, packageName string) (*jen.File, error) {
	fields, err := planFields(table)
	if err != nil {
		return nil, err
	}

	typeName := naming.TypeName(table.Name)
	f := jen.NewFile(packageName)
	f.HeaderComment("Code generated by rdbigen. DO NOT EDIT.")

	for _, fl := range fields {
		enum, ok := fl.Column.Type.(schema.Enum)
		if !ok {
			continue
		}
		genEnum(f, table.Name, fl.Column.Name, enum)
	}

	f.Commentf("%s is the record type for the %s table.", typeName, table.Name)
	f.Type().Id(typeName).StructFunc(func(g *jen.Group) {
		for _, fl := range fields {
			stmt := g.Id(fl.Name)
			applyType(stmt, fl.Ref)
			stmt.Tag(map[string]string{"db": fl.Column.Name})
		}
	})

	f.Commentf("%sColumns is the ordered column list every %s query selects,", typeName, typeName)
	f.Comment("matching the declaration order Scan below relies on.")
	f.Var().Id(typeName + "Columns").Op("=").Index().String().ValuesFunc(func(g *jen.Group) {
		for _, fl := range fields {
			g.Lit(fl.Column.Name)
		}
	})

	f.Commentf("ScanArgs returns pointers to every field of r in %sColumns order,", typeName)
	f.Comment("for use as the destination list of a single sql.Rows.Scan call. The")
	f.Comment("generated DAO package calls this rather than repeating the field list.")
	f.Func().Params(jen.Id("r").Op("*").Id(typeName)).Id("ScanArgs").Params().Index().Any().Block(
		jen.Return(jen.Index().Any().ValuesFunc(func(g *jen.Group) {
			for _, fl := range fields {
				g.Op("&").Id("r").Dot(fl.Name)
			}
		})),
	)

	f.Commentf("BindArgs flattens r to its bind values in %sColumns order, the", typeName)
	f.Comment("parameter-binding counterpart of ScanArgs.")
	f.Func().Params(jen.Id("r").Op("*").Id(typeName)).Id("BindArgs").Params().Index().Any().Block(
		jen.Return(jen.Index().Any().ValuesFunc(func(g *jen.Group) {
			for _, fl := range fields {
				g.Id("r").Dot(fl.Name)
			}
		})),
	)

	return f, nil
}

// applyType appends the jen type expression for ref onto stmt, handling
// the pointer wrap and the cross-package qualified reference for
// time.Time/json.RawMessage without letting either concern leak into the
// caller.
func applyType(stmt *jen.Statement, ref types.Ref) {
	name := ref.Name
	pointer := false
	if len(name) > 0 && name[0] == '*' {
		pointer = true
		name = name[1:]
	}
	if pointer {
		stmt.Op("*")
	}
	switch {
	case ref.ImportPath != "" && name == "time.Time":
		stmt.Qual("time", "Time")
	case ref.ImportPath != "" && name == "json.RawMessage":
		stmt.Qual("encoding/json", "RawMessage")
	case name == "[]byte":
		stmt.Index().Byte()
	default:
		stmt.Id(name)
	}
}

// genEnum emits the synthetic Go string type and one const per declared
// variant for a single ENUM column, in declaration order.
func genEnum(f *jen.File, table, column string, enum schema.Enum) {
	typeName := naming.EnumTypeName(table, column)
	f.Commentf("%s is the enumeration of %s.%s.", typeName, table, column)
	f.Type().Id(typeName).String()

	f.Const().DefsFunc(func(g *jen.Group) {
		for _, variant := range enum.Variants {
			constName := typeName + naming.EnumVariant(variant)
			g.Id(constName).Id(typeName).Op("=").Lit(variant)
		}
	})
}
