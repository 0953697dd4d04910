package codegen

import "github.com/dave/jennifer/jen"

// dbtxTypeName is the one connection abstraction every generated DAO
// method depends on: something that can execute a parameterised query,
// whether that is a pool, a single connection, or an open transaction.
const dbtxTypeName = "DBTX"

// GenerateRuntime builds the single runtime.go shared by every generated
// DAO file: the DBTX interface *sql.DB and *sql.Tx both already satisfy
// structurally, so no adapter type is needed at call sites.
func GenerateRuntime(packageName string) *jen.File {
	f := jen.NewFile(packageName)
	f.HeaderComment("Code generated by rdbigen. DO NOT EDIT.")
	f.ImportName("context", "context")
	f.ImportName("database/sql", "sql")

	f.Commentf("%s is the one pool/connection abstraction every generated method", dbtxTypeName)
	f.Comment("depends on. *sql.DB and *sql.Tx both satisfy it without adaptation, so")
	f.Comment("a DAO built over a *sql.DB works unchanged inside a transaction.")
	f.Type().Id(dbtxTypeName).Interface(
		jen.Id("ExecContext").Params(
			jen.Id("ctx").Qual("context", "Context"),
			jen.Id("query").String(),
			jen.Id("args").Op("...").Any(),
		).Params(jen.Qual("database/sql", "Result"), jen.Error()),
		jen.Id("QueryContext").Params(
			jen.Id("ctx").Qual("context", "Context"),
			jen.Id("query").String(),
			jen.Id("args").Op("...").Any(),
		).Params(jen.Op("*").Qual("database/sql", "Rows"), jen.Error()),
		jen.Id("QueryRowContext").Params(
			jen.Id("ctx").Qual("context", "Context"),
			jen.Id("query").String(),
			jen.Id("args").Op("...").Any(),
		).Params(jen.Op("*").Qual("database/sql", "Row")),
	)

	return f
}
