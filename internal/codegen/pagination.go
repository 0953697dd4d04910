package codegen

import "github.com/dave/jennifer/jen"

// SortDirection and PaginatedResult are shared across every generated
// DAO package, so GeneratePagination is emitted exactly once per output
// tree (internal/writer decides where) rather than once per table.
const (
	sortDirectionTypeName = "SortDirection"
	paginatedResultName   = "PaginatedResult"
)

// GeneratePagination builds the single pagination.go shared by every
// generated DAO file: the SortDirection enum and the generic
// PaginatedResult[T] carrier find_all_paginated/get_paginated_result
// return.
func GeneratePagination(packageName string) *jen.File {
	f := jen.NewFile(packageName)
	f.HeaderComment("Code generated by rdbigen. DO NOT EDIT.")

	f.Commentf("%s orders a paginated result set.", sortDirectionTypeName)
	f.Type().Id(sortDirectionTypeName).Int()

	f.Const().DefsFunc(func(g *jen.Group) {
		g.Id("Ascending").Id(sortDirectionTypeName).Op("=").Iota()
		g.Id("Descending")
	})

	f.Commentf("%s carries one page of T alongside the total row count and", paginatedResultName)
	f.Comment("whether a further page is available, so a caller never has to issue a")
	f.Comment("separate count_all query to know when to stop paging.")
	f.Type().Id(paginatedResultName).Index(jen.Id("T").Any()).Struct(
		jen.Id("Items").Index().Id("T"),
		jen.Id("Total").Int64(),
		jen.Id("Page").Int(),
		jen.Id("PageSize").Int(),
		jen.Id("HasNext").Bool(),
	)

	return f
}
