package codegen

import (
	"strings"

	"github.com/dave/jennifer/jen"

	"github.com/a4501150/rdbigen/internal/naming"
	"github.com/a4501150/rdbigen/internal/planner"
	"github.com/a4501150/rdbigen/internal/schema"
)

// GenerateDAO builds the DAO file for one table: one exported method per
// planner.Method, a constructor, and the table's own record type
// qualified from modelsImportPath. packageName is the shared DAO package
// every table's DAO file belongs to (config.DAOPackage).
func GenerateDAO(table *schema.Table, dao *planner.DAO, packageName, modelsImportPath string) (*jen.File, error) {
	fields, err := planFields(table)
	if err != nil {
		return nil, err
	}
	byColumn := map[string]field{}
	for _, fl := range fields {
		byColumn[fl.Column.Name] = fl
	}

	e := &emitter{
		table:            table,
		fields:           fields,
		byColumn:         byColumn,
		typeName:         naming.TypeName(table.Name),
		modelsImportPath: modelsImportPath,
	}
	e.daoType = e.typeName + "DAO"

	f := jen.NewFile(packageName)
	f.HeaderComment("Code generated by rdbigen. DO NOT EDIT.")
	f.ImportName("context", "context")
	f.ImportName("database/sql", "sql")
	f.ImportName("strings", "strings")

	e.genStruct(f)
	e.genConstructor(f)
	e.genSortByEnum(f)

	for _, m := range dao.Methods {
		if err := e.genMethod(f, m); err != nil {
			return nil, err
		}
	}

	return f, nil
}

// emitter carries the per-table state every method body needs: the
// resolved field list, the record type's cross-package qualification,
// and the table's own name for SQL text.
type emitter struct {
	table            *schema.Table
	fields           []field
	byColumn         map[string]field
	typeName         string
	daoType          string
	modelsImportPath string
}

func (e *emitter) recordType() *jen.Statement {
	return jen.Op("*").Qual(e.modelsImportPath, e.typeName)
}

func (e *emitter) genStruct(f *jen.File) {
	f.Commentf("%s is the generated data-access object for the %s table.", e.daoType, e.table.Name)
	f.Type().Id(e.daoType).Struct(
		jen.Id("db").Id(dbtxTypeName),
	)
}

func (e *emitter) genConstructor(f *jen.File) {
	ctor := "New" + e.daoType
	f.Commentf("%s builds a %s over db, which may be a *sql.DB, a *sql.Tx,", ctor, e.daoType)
	f.Comment("or anything else satisfying DBTX.")
	f.Func().Id(ctor).Params(jen.Id("db").Id(dbtxTypeName)).Op("*").Id(e.daoType).Block(
		jen.Return(jen.Op("&").Id(e.daoType).Values(jen.Dict{jen.Id("db"): jen.Id("db")})),
	)
}

// genSortByEnum emits the per-table sort-key enum find_all_paginated and
// get_paginated_result key on, one variant per column in declaration
// order, plus the Column method translating a variant to its
// backtick-quoted SQL fragment.
func (e *emitter) genSortByEnum(f *jen.File) {
	enumName := e.typeName + "SortBy"
	f.Commentf("%s is a sortable column of %s.", enumName, e.typeName)
	f.Type().Id(enumName).Int()

	f.Const().DefsFunc(func(g *jen.Group) {
		for i, fl := range e.fields {
			name := enumName + fl.Name
			if i == 0 {
				g.Id(name).Id(enumName).Op("=").Iota()
				continue
			}
			g.Id(name)
		}
	})

	f.Commentf("Column returns the backtick-quoted SQL column %s orders by.", enumName)
	f.Func().Params(jen.Id("s").Id(enumName)).Id("Column").Params().String().Block(
		jen.Switch(jen.Id("s")).BlockFunc(func(g *jen.Group) {
			for _, fl := range e.fields {
				g.Case(jen.Id(enumName + fl.Name)).Block(
					jen.Return(jen.Lit(Quote(fl.Column.Name))),
				)
			}
			g.Default().Block(
				jen.Return(jen.Lit(Quote(e.fields[0].Column.Name))),
			)
		}),
	)
}

func (e *emitter) genMethod(f *jen.File, m planner.Method) error {
	name := naming.Pascal(m.Name)
	switch m.Kind {
	case planner.KindFindAll:
		e.genFindAll(f, name)
	case planner.KindCountAll:
		e.genCountAll(f, name)
	case planner.KindInsert:
		e.genInsert(f, name)
	case planner.KindInsertPlain:
		e.genInsertPlain(f, name, m)
	case planner.KindInsertAll:
		e.genInsertAll(f, name)
	case planner.KindFindByPK:
		e.genFindByKey(f, name, m, true)
	case planner.KindDeleteByPK:
		e.genDeleteByKey(f, name, m)
	case planner.KindUpdate:
		e.genUpdate(f, name)
	case planner.KindUpsert:
		e.genUpsert(f, name)
	case planner.KindFindByLookup:
		e.genFindByKey(f, name, m, m.Return == planner.ReturnOptionalRecord)
	case planner.KindFindByBulk:
		e.genFindByBulk(f, name, m)
	case planner.KindFindByCompositeEnumBulk:
		e.genFindByCompositeEnumBulk(f, name, m)
	case planner.KindFindAllPaginated:
		e.genFindAllPaginated(f, name)
	case planner.KindGetPaginatedResult:
		e.genGetPaginatedResult(f, name)
	}
	return nil
}

func (e *emitter) selectColumns() []string {
	cols := make([]string, len(e.fields))
	for i, fl := range e.fields {
		cols[i] = fl.Column.Name
	}
	return cols
}

func (e *emitter) selectSQL() string {
	return "SELECT " + strings.Join(QuoteAll(e.selectColumns()), ", ") + " FROM " + Quote(e.table.Name)
}

func (e *emitter) scanLoopBlock() []jen.Code {
	return []jen.Code{
		jen.Var().Id("out").Index().Add(e.recordType()),
		jen.For(jen.Id("rows").Dot("Next").Call()).Block(
			jen.Var().Id("r").Qual(e.modelsImportPath, e.typeName),
			jen.If(
				jen.Id("err").Op(":=").Id("rows").Dot("Scan").Call(jen.Id("r").Dot("ScanArgs").Call().Op("...")),
				jen.Id("err").Op("!=").Nil(),
			).Block(
				jen.Return(jen.Nil(), jen.Id("err")),
			),
			jen.Id("out").Op("=").Append(jen.Id("out"), jen.Op("&").Id("r")),
		),
		jen.If(
			jen.Id("err").Op(":=").Id("rows").Dot("Err").Call(),
			jen.Id("err").Op("!=").Nil(),
		).Block(
			jen.Return(jen.Nil(), jen.Id("err")),
		),
	}
}

func (e *emitter) genFindAll(f *jen.File, name string) {
	constName := name + "SQL"
	f.Const().Id(constName).Op("=").Lit(e.selectSQL())

	f.Commentf("%s returns every row of %s, in no particular order.", name, e.table.Name)
	f.Func().Params(jen.Id("d").Op("*").Id(e.daoType)).Id(name).Params(jen.Id("ctx").Qual("context", "Context")).Params(jen.Index().Add(e.recordType()), jen.Error()).BlockFunc(func(g *jen.Group) {
		g.List(jen.Id("rows"), jen.Id("err")).Op(":=").Id("d").Dot("db").Dot("QueryContext").Call(jen.Id("ctx"), jen.Id(constName))
		g.If(jen.Id("err").Op("!=").Nil()).Block(jen.Return(jen.Nil(), jen.Id("err")))
		g.Defer().Id("rows").Dot("Close").Call()
		for _, c := range e.scanLoopBlock() {
			g.Add(c)
		}
		g.Return(jen.Id("out"), jen.Nil())
	})
}

func (e *emitter) genCountAll(f *jen.File, name string) {
	constName := name + "SQL"
	f.Const().Id(constName).Op("=").Lit("SELECT COUNT(*) FROM " + Quote(e.table.Name))

	f.Commentf("%s returns the total row count of %s.", name, e.table.Name)
	f.Func().Params(jen.Id("d").Op("*").Id(e.daoType)).Id(name).Params(jen.Id("ctx").Qual("context", "Context")).Params(jen.Int64(), jen.Error()).BlockFunc(func(g *jen.Group) {
		g.Var().Id("count").Int64()
		g.Id("err").Op(":=").Id("d").Dot("db").Dot("QueryRowContext").Call(jen.Id("ctx"), jen.Id(constName)).Dot("Scan").Call(jen.Op("&").Id("count"))
		g.Return(jen.Id("count"), jen.Id("err"))
	})
}

// insertColumns returns the table's columns eligible for INSERT: every
// column that is not AUTO_INCREMENT, in declaration order.
func (e *emitter) insertColumns() []field {
	var cols []field
	for _, fl := range e.fields {
		if !fl.Column.AutoIncrement {
			cols = append(cols, fl)
		}
	}
	return cols
}

func (e *emitter) pkColumns() map[string]bool {
	pk := map[string]bool{}
	for _, c := range e.table.PrimaryKey {
		pk[c] = true
	}
	return pk
}

func (e *emitter) genInsert(f *jen.File, name string) {
	insertCols := e.insertColumns()
	if len(insertCols) == 0 {
		return
	}
	constName := name + "SQL"
	names := make([]string, len(insertCols))
	for i, fl := range insertCols {
		names[i] = fl.Column.Name
	}
	sql := "INSERT INTO " + Quote(e.table.Name) + " (" + strings.Join(QuoteAll(names), ", ") + ") VALUES (" + Placeholders(len(insertCols)) + ")"
	f.Const().Id(constName).Op("=").Lit(sql)

	f.Commentf("%s inserts entity and returns the auto-generated primary key.", name)
	f.Func().Params(jen.Id("d").Op("*").Id(e.daoType)).Id(name).Params(
		jen.Id("ctx").Qual("context", "Context"),
		jen.Id("entity").Add(e.recordType()),
	).Params(jen.Int64(), jen.Error()).BlockFunc(func(g *jen.Group) {
		g.List(jen.Id("res"), jen.Id("err")).Op(":=").Id("d").Dot("db").Dot("ExecContext").Call(jen.ListFunc(func(args *jen.Group) {
			args.Id("ctx")
			args.Id(constName)
			for _, fl := range insertCols {
				args.Id("entity").Dot(fl.Name)
			}
		}))
		g.If(jen.Id("err").Op("!=").Nil()).Block(jen.Return(jen.Lit(0), jen.Id("err")))
		g.Return(jen.Id("res").Dot("LastInsertId").Call())
	})
}

func (e *emitter) genInsertPlain(f *jen.File, name string, m planner.Method) {
	insertCols := e.insertColumns()
	if len(insertCols) == 0 {
		return
	}
	constName := name + "SQL"
	names := make([]string, len(insertCols))
	for i, fl := range insertCols {
		names[i] = fl.Column.Name
	}
	sql := "INSERT INTO " + Quote(e.table.Name) + " (" + strings.Join(QuoteAll(names), ", ") + ") VALUES (" + Placeholders(len(insertCols)) + ")"
	f.Const().Id(constName).Op("=").Lit(sql)

	f.Commentf("%s inserts one row from individual column values and returns the", name)
	f.Comment("auto-generated primary key.")
	f.Func().Params(jen.Id("d").Op("*").Id(e.daoType)).Id(name).ParamsFunc(func(g *jen.Group) {
		g.Id("ctx").Qual("context", "Context")
		for _, p := range m.Params {
			fl := e.byColumn[p.Column]
			g.Id(p.Name).Add(fieldTypeStmt(fl))
		}
	}).Params(jen.Int64(), jen.Error()).BlockFunc(func(g *jen.Group) {
		g.List(jen.Id("res"), jen.Id("err")).Op(":=").Id("d").Dot("db").Dot("ExecContext").Call(jen.ListFunc(func(args *jen.Group) {
			args.Id("ctx")
			args.Id(constName)
			for _, p := range m.Params {
				args.Id(p.Name)
			}
		}))
		g.If(jen.Id("err").Op("!=").Nil()).Block(jen.Return(jen.Lit(0), jen.Id("err")))
		g.Return(jen.Id("res").Dot("LastInsertId").Call())
	})
}

func (e *emitter) genInsertAll(f *jen.File, name string) {
	insertCols := e.insertColumns()
	if len(insertCols) == 0 {
		return
	}
	constName := name + "SQL"
	names := make([]string, len(insertCols))
	for i, fl := range insertCols {
		names[i] = fl.Column.Name
	}
	sql := "INSERT INTO " + Quote(e.table.Name) + " (" + strings.Join(QuoteAll(names), ", ") + ") VALUES (" + Placeholders(len(insertCols)) + ")"
	f.Const().Id(constName).Op("=").Lit(sql)

	f.Commentf("%s inserts every row of entities, one INSERT per row over d.db, and", name)
	f.Comment("returns the total number of rows affected. It stops at the first failing")
	f.Comment("row; rows inserted before it are not rolled back.")
	f.Func().Params(jen.Id("d").Op("*").Id(e.daoType)).Id(name).Params(
		jen.Id("ctx").Qual("context", "Context"),
		jen.Id("entities").Index().Add(e.recordType()),
	).Params(jen.Int64(), jen.Error()).BlockFunc(func(g *jen.Group) {
		g.If(jen.Len(jen.Id("entities")).Op("==").Lit(0)).Block(jen.Return(jen.Lit(0), jen.Nil()))
		g.Var().Id("affected").Int64()
		g.For(jen.List(jen.Id("_"), jen.Id("entity")).Op(":=").Range().Id("entities")).Block(
			jen.List(jen.Id("res"), jen.Id("err")).Op(":=").Id("d").Dot("db").Dot("ExecContext").Call(jen.ListFunc(func(args *jen.Group) {
				args.Id("ctx")
				args.Id(constName)
				for _, fl := range insertCols {
					args.Id("entity").Dot(fl.Name)
				}
			})),
			jen.If(jen.Id("err").Op("!=").Nil()).Block(jen.Return(jen.Lit(0), jen.Id("err"))),
			jen.List(jen.Id("n"), jen.Id("err")).Op(":=").Id("res").Dot("RowsAffected").Call(),
			jen.If(jen.Id("err").Op("!=").Nil()).Block(jen.Return(jen.Lit(0), jen.Id("err"))),
			jen.Id("affected").Op("+=").Id("n"),
		)
		g.Return(jen.Id("affected"), jen.Nil())
	})
}

func (e *emitter) genUpsert(f *jen.File, name string) {
	insertCols := e.insertColumns()
	if len(insertCols) == 0 {
		return
	}
	pk := e.pkColumns()
	var updateCols []field
	for _, fl := range insertCols {
		if !pk[fl.Column.Name] {
			updateCols = append(updateCols, fl)
		}
	}
	if len(updateCols) == 0 {
		return
	}

	names := make([]string, len(insertCols))
	for i, fl := range insertCols {
		names[i] = fl.Column.Name
	}
	updateClauses := make([]string, len(updateCols))
	for i, fl := range updateCols {
		q := Quote(fl.Column.Name)
		updateClauses[i] = q + " = VALUES(" + q + ")"
	}
	sql := "INSERT INTO " + Quote(e.table.Name) + " (" + strings.Join(QuoteAll(names), ", ") + ") VALUES (" +
		Placeholders(len(insertCols)) + ") ON DUPLICATE KEY UPDATE " + strings.Join(updateClauses, ", ")
	constName := name + "SQL"
	f.Const().Id(constName).Op("=").Lit(sql)

	f.Commentf("%s inserts entity, or updates the non-key columns of the existing", name)
	f.Comment("row on a primary-key or unique-index collision. Returns rows affected:")
	f.Comment("1 when inserted, 2 when an existing row was updated (MySQL's own")
	f.Comment("ON DUPLICATE KEY UPDATE convention).")
	f.Func().Params(jen.Id("d").Op("*").Id(e.daoType)).Id(name).Params(
		jen.Id("ctx").Qual("context", "Context"),
		jen.Id("entity").Add(e.recordType()),
	).Params(jen.Int64(), jen.Error()).BlockFunc(func(g *jen.Group) {
		g.List(jen.Id("res"), jen.Id("err")).Op(":=").Id("d").Dot("db").Dot("ExecContext").Call(jen.ListFunc(func(args *jen.Group) {
			args.Id("ctx")
			args.Id(constName)
			for _, fl := range insertCols {
				args.Id("entity").Dot(fl.Name)
			}
		}))
		g.If(jen.Id("err").Op("!=").Nil()).Block(jen.Return(jen.Lit(0), jen.Id("err")))
		g.Return(jen.Id("res").Dot("RowsAffected").Call())
	})
}

func (e *emitter) genUpdate(f *jen.File, name string) {
	pk := e.pkColumns()
	var updateCols []field
	for _, fl := range e.fields {
		if !pk[fl.Column.Name] {
			updateCols = append(updateCols, fl)
		}
	}
	if len(updateCols) == 0 {
		return
	}

	setClauses := make([]string, len(updateCols))
	for i, fl := range updateCols {
		setClauses[i] = equalsClause(fl.Column.Name)
	}
	whereClauses := make([]string, len(e.table.PrimaryKey))
	for i, c := range e.table.PrimaryKey {
		whereClauses[i] = equalsClause(c)
	}
	sql := "UPDATE " + Quote(e.table.Name) + " SET " + strings.Join(setClauses, ", ") + " WHERE " + andJoin(whereClauses)
	constName := name + "SQL"
	f.Const().Id(constName).Op("=").Lit(sql)

	f.Commentf("%s updates every non-key column of entity, keyed on its primary", name)
	f.Comment("key, and returns rows affected.")
	f.Func().Params(jen.Id("d").Op("*").Id(e.daoType)).Id(name).Params(
		jen.Id("ctx").Qual("context", "Context"),
		jen.Id("entity").Add(e.recordType()),
	).Params(jen.Int64(), jen.Error()).BlockFunc(func(g *jen.Group) {
		g.List(jen.Id("res"), jen.Id("err")).Op(":=").Id("d").Dot("db").Dot("ExecContext").Call(jen.ListFunc(func(args *jen.Group) {
			args.Id("ctx")
			args.Id(constName)
			for _, fl := range updateCols {
				args.Id("entity").Dot(fl.Name)
			}
			for _, c := range e.table.PrimaryKey {
				args.Id("entity").Dot(e.byColumn[c].Name)
			}
		}))
		g.If(jen.Id("err").Op("!=").Nil()).Block(jen.Return(jen.Lit(0), jen.Id("err")))
		g.Return(jen.Id("res").Dot("RowsAffected").Call())
	})
}

// genFindByKey emits a find_by_<...> method. When none of the key
// columns is nullable, the SQL text is a package-level const built once
// at generation time; otherwise the WHERE clause is assembled at call
// time so a nil pointer parameter switches its own clause to IS NULL,
// per the runtime NULL-branching rule.
func (e *emitter) genFindByKey(f *jen.File, name string, m planner.Method, optional bool) {
	nullable := e.anyNullable(m.Columns)
	returnType := jen.Index().Add(e.recordType())
	if optional {
		returnType = e.recordType()
	}

	if !nullable {
		whereClauses := make([]string, len(m.Columns))
		for i, c := range m.Columns {
			whereClauses[i] = equalsClause(c)
		}
		sql := e.selectSQL() + " WHERE " + andJoin(whereClauses)
		constName := name + "SQL"
		f.Const().Id(constName).Op("=").Lit(sql)

		f.Commentf("%s looks up %s by %s.", name, e.typeName, strings.Join(m.Columns, ", "))
		f.Func().Params(jen.Id("d").Op("*").Id(e.daoType)).Id(name).ParamsFunc(func(g *jen.Group) {
			g.Id("ctx").Qual("context", "Context")
			for _, p := range m.Params {
				g.Id(p.Name).Add(fieldTypeStmt(e.byColumn[p.Column]))
			}
		}).Params(returnType, jen.Error()).BlockFunc(func(g *jen.Group) {
			if optional {
				g.Var().Id("r").Qual(e.modelsImportPath, e.typeName)
				g.Id("err").Op(":=").Id("d").Dot("db").Dot("QueryRowContext").Call(jen.ListFunc(func(args *jen.Group) {
					args.Id("ctx")
					args.Id(constName)
					for _, p := range m.Params {
						args.Id(p.Name)
					}
				})).Dot("Scan").Call(jen.Id("r").Dot("ScanArgs").Call().Op("..."))
				g.If(jen.Id("err").Op("==").Qual("database/sql", "ErrNoRows")).Block(jen.Return(jen.Nil(), jen.Nil()))
				g.If(jen.Id("err").Op("!=").Nil()).Block(jen.Return(jen.Nil(), jen.Id("err")))
				g.Return(jen.Op("&").Id("r"), jen.Nil())
				return
			}
			g.List(jen.Id("rows"), jen.Id("err")).Op(":=").Id("d").Dot("db").Dot("QueryContext").Call(jen.ListFunc(func(args *jen.Group) {
				args.Id("ctx")
				args.Id(constName)
				for _, p := range m.Params {
					args.Id(p.Name)
				}
			}))
			g.If(jen.Id("err").Op("!=").Nil()).Block(jen.Return(jen.Nil(), jen.Id("err")))
			g.Defer().Id("rows").Dot("Close").Call()
			for _, c := range e.scanLoopBlock() {
				g.Add(c)
			}
			g.Return(jen.Id("out"), jen.Nil())
		})
		return
	}

	e.genFindByKeyNullable(f, name, m, optional, returnType)
}

func (e *emitter) anyNullable(columns []string) bool {
	for _, c := range columns {
		if e.byColumn[c].Ref.Nullable {
			return true
		}
	}
	return false
}

// genFindByKeyNullable is the runtime-NULL-branching sibling of
// genFindByKey: every key column's clause and bind value are chosen at
// call time from the parameter's own nil-ness, per spec.md §4.5/§8.
func (e *emitter) genFindByKeyNullable(f *jen.File, name string, m planner.Method, optional bool, returnType *jen.Statement) {
	f.Commentf("%s looks up %s by %s, branching to IS NULL for any nil", name, e.typeName, strings.Join(m.Columns, ", "))
	f.Comment("parameter.")
	f.Func().Params(jen.Id("d").Op("*").Id(e.daoType)).Id(name).ParamsFunc(func(g *jen.Group) {
		g.Id("ctx").Qual("context", "Context")
		for _, p := range m.Params {
			g.Id(p.Name).Add(fieldTypeStmt(e.byColumn[p.Column]))
		}
	}).Params(returnType, jen.Error()).BlockFunc(func(g *jen.Group) {
		g.Id("clauses").Op(":=").Make(jen.Index().String(), jen.Lit(0), jen.Lit(len(m.Columns)))
		g.Id("args").Op(":=").Make(jen.Index().Any(), jen.Lit(0), jen.Lit(len(m.Columns)))
		for _, p := range m.Params {
			fl := e.byColumn[p.Column]
			if fl.Ref.Nullable {
				g.If(jen.Id(p.Name).Op("!=").Nil()).Block(
					jen.Id("clauses").Op("=").Append(jen.Id("clauses"), jen.Lit(equalsClause(p.Column))),
					jen.Id("args").Op("=").Append(jen.Id("args"), jen.Id(p.Name)),
				).Else().Block(
					jen.Id("clauses").Op("=").Append(jen.Id("clauses"), jen.Lit(isNullClause(p.Column))),
				)
			} else {
				g.Id("clauses").Op("=").Append(jen.Id("clauses"), jen.Lit(equalsClause(p.Column)))
				g.Id("args").Op("=").Append(jen.Id("args"), jen.Id(p.Name))
			}
		}
		g.Id("query").Op(":=").Lit(e.selectSQL()+" WHERE ").Op("+").Qual("strings", "Join").Call(jen.Id("clauses"), jen.Lit(" AND "))

		if optional {
			g.Var().Id("r").Qual(e.modelsImportPath, e.typeName)
			g.Id("err").Op(":=").Id("d").Dot("db").Dot("QueryRowContext").Call(jen.Id("ctx"), jen.Id("query"), jen.Id("args").Op("...")).Dot("Scan").Call(jen.Id("r").Dot("ScanArgs").Call().Op("..."))
			g.If(jen.Id("err").Op("==").Qual("database/sql", "ErrNoRows")).Block(jen.Return(jen.Nil(), jen.Nil()))
			g.If(jen.Id("err").Op("!=").Nil()).Block(jen.Return(jen.Nil(), jen.Id("err")))
			g.Return(jen.Op("&").Id("r"), jen.Nil())
			return
		}
		g.List(jen.Id("rows"), jen.Id("err")).Op(":=").Id("d").Dot("db").Dot("QueryContext").Call(jen.Id("ctx"), jen.Id("query"), jen.Id("args").Op("..."))
		g.If(jen.Id("err").Op("!=").Nil()).Block(jen.Return(jen.Nil(), jen.Id("err")))
		g.Defer().Id("rows").Dot("Close").Call()
		for _, c := range e.scanLoopBlock() {
			g.Add(c)
		}
		g.Return(jen.Id("out"), jen.Nil())
	})
}

func (e *emitter) genDeleteByKey(f *jen.File, name string, m planner.Method) {
	whereClauses := make([]string, len(m.Columns))
	for i, c := range m.Columns {
		whereClauses[i] = equalsClause(c)
	}
	sql := "DELETE FROM " + Quote(e.table.Name) + " WHERE " + andJoin(whereClauses)
	constName := name + "SQL"
	f.Const().Id(constName).Op("=").Lit(sql)

	f.Commentf("%s deletes the row keyed by %s and returns rows affected.", name, strings.Join(m.Columns, ", "))
	f.Func().Params(jen.Id("d").Op("*").Id(e.daoType)).Id(name).ParamsFunc(func(g *jen.Group) {
		g.Id("ctx").Qual("context", "Context")
		for _, p := range m.Params {
			g.Id(p.Name).Add(fieldTypeStmt(e.byColumn[p.Column]))
		}
	}).Params(jen.Int64(), jen.Error()).BlockFunc(func(g *jen.Group) {
		g.List(jen.Id("res"), jen.Id("err")).Op(":=").Id("d").Dot("db").Dot("ExecContext").Call(jen.ListFunc(func(args *jen.Group) {
			args.Id("ctx")
			args.Id(constName)
			for _, p := range m.Params {
				args.Id(p.Name)
			}
		}))
		g.If(jen.Id("err").Op("!=").Nil()).Block(jen.Return(jen.Lit(0), jen.Id("err")))
		g.Return(jen.Id("res").Dot("RowsAffected").Call())
	})
}

// genFindByBulk emits the IN-clause variant of a single-column lookup:
// find_by_<columns>(ctx, <columns>), named with the pluralized column.
// An empty slice short-circuits before any SQL executes, per spec.md
// §4.5/§8 invariant 4.
func (e *emitter) genFindByBulk(f *jen.File, name string, m planner.Method) {
	col := m.Columns[0]
	p := m.Params[0]
	fl := e.byColumn[col]

	f.Commentf("%s returns every row whose %s is in %s; an empty %s", name, col, p.Name, p.Name)
	f.Comment("returns an empty result without issuing a query.")
	f.Func().Params(jen.Id("d").Op("*").Id(e.daoType)).Id(name).Params(
		jen.Id("ctx").Qual("context", "Context"),
		jen.Id(p.Name).Add(bulkTypeStmt(fl)),
	).Params(jen.Index().Add(e.recordType()), jen.Error()).BlockFunc(func(g *jen.Group) {
		g.If(jen.Len(jen.Id(p.Name)).Op("==").Lit(0)).Block(jen.Return(jen.Nil(), jen.Nil()))
		g.Id("args").Op(":=").Make(jen.Index().Any(), jen.Len(jen.Id(p.Name)))
		g.For(jen.List(jen.Id("i"), jen.Id("v")).Op(":=").Range().Id(p.Name)).Block(
			jen.Id("args").Index(jen.Id("i")).Op("=").Id("v"),
		)
		g.Id("query").Op(":=").Lit(e.selectSQL()+" WHERE "+Quote(col)+" IN (").Op("+").Qual("strings", "TrimSuffix").Call(
			jen.Qual("strings", "Repeat").Call(jen.Lit("?,"), jen.Len(jen.Id(p.Name))),
			jen.Lit(","),
		).Op("+").Lit(")")
		g.List(jen.Id("rows"), jen.Id("err")).Op(":=").Id("d").Dot("db").Dot("QueryContext").Call(jen.Id("ctx"), jen.Id("query"), jen.Id("args").Op("..."))
		g.If(jen.Id("err").Op("!=").Nil()).Block(jen.Return(jen.Nil(), jen.Id("err")))
		g.Defer().Id("rows").Dot("Close").Call()
		for _, c := range e.scanLoopBlock() {
			g.Add(c)
		}
		g.Return(jen.Id("out"), jen.Nil())
	})
}

// genFindByCompositeEnumBulk emits the composite variant whose last
// column takes a slice of enum values: the leading columns bind as
// scalars, the trailing column expands into its own IN-clause.
func (e *emitter) genFindByCompositeEnumBulk(f *jen.File, name string, m planner.Method) {
	leading := m.Params[:len(m.Params)-1]
	last := m.Params[len(m.Params)-1]
	lastCol := m.Columns[len(m.Columns)-1]
	lastField := e.byColumn[lastCol]

	f.Commentf("%s scopes by %s and returns every row whose %s is in %s;", name, columnList(leading), lastCol, last.Name)
	f.Comment("an empty " + last.Name + " returns an empty result without issuing a query.")
	f.Func().Params(jen.Id("d").Op("*").Id(e.daoType)).Id(name).ParamsFunc(func(g *jen.Group) {
		g.Id("ctx").Qual("context", "Context")
		for _, p := range leading {
			g.Id(p.Name).Add(fieldTypeStmt(e.byColumn[p.Column]))
		}
		g.Id(last.Name).Add(bulkTypeStmt(lastField))
	}).Params(jen.Index().Add(e.recordType()), jen.Error()).BlockFunc(func(g *jen.Group) {
		g.If(jen.Len(jen.Id(last.Name)).Op("==").Lit(0)).Block(jen.Return(jen.Nil(), jen.Nil()))
		g.Id("args").Op(":=").Make(jen.Index().Any(), jen.Lit(0), jen.Len(jen.Id(last.Name)).Op("+").Lit(len(leading)))
		for _, p := range leading {
			g.Id("args").Op("=").Append(jen.Id("args"), jen.Id(p.Name))
		}
		g.For(jen.List(jen.Id("_"), jen.Id("v")).Op(":=").Range().Id(last.Name)).Block(
			jen.Id("args").Op("=").Append(jen.Id("args"), jen.Id("v")),
		)
		leadingClauses := make([]string, len(leading))
		for i, p := range leading {
			leadingClauses[i] = equalsClause(p.Column)
		}
		prefix := e.selectSQL() + " WHERE " + andJoin(leadingClauses)
		if len(leading) > 0 {
			prefix += " AND "
		}
		prefix += Quote(lastCol) + " IN ("
		g.Id("query").Op(":=").Lit(prefix).Op("+").Qual("strings", "TrimSuffix").Call(
			jen.Qual("strings", "Repeat").Call(jen.Lit("?,"), jen.Len(jen.Id(last.Name))),
			jen.Lit(","),
		).Op("+").Lit(")")
		g.List(jen.Id("rows"), jen.Id("err")).Op(":=").Id("d").Dot("db").Dot("QueryContext").Call(jen.Id("ctx"), jen.Id("query"), jen.Id("args").Op("..."))
		g.If(jen.Id("err").Op("!=").Nil()).Block(jen.Return(jen.Nil(), jen.Id("err")))
		g.Defer().Id("rows").Dot("Close").Call()
		for _, c := range e.scanLoopBlock() {
			g.Add(c)
		}
		g.Return(jen.Id("out"), jen.Nil())
	})
}

func columnList(params []planner.Param) string {
	names := make([]string, len(params))
	for i, p := range params {
		names[i] = p.Column
	}
	return strings.Join(names, ", ")
}

func (e *emitter) genFindAllPaginated(f *jen.File, name string) {
	sortByEnum := e.typeName + "SortBy"
	f.Commentf("%s returns one page of %s, ordered by sortBy/direction.", name, e.typeName)
	f.Func().Params(jen.Id("d").Op("*").Id(e.daoType)).Id(name).Params(
		jen.Id("ctx").Qual("context", "Context"),
		jen.Id("offset").Int(),
		jen.Id("limit").Int(),
		jen.Id("sortBy").Id(sortByEnum),
		jen.Id("direction").Id(sortDirectionTypeName),
	).Params(jen.Index().Add(e.recordType()), jen.Error()).BlockFunc(func(g *jen.Group) {
		g.Id("dir").Op(":=").Lit("ASC")
		g.If(jen.Id("direction").Op("==").Id("Descending")).Block(jen.Id("dir").Op("=").Lit("DESC"))
		g.Id("query").Op(":=").Lit(e.selectSQL()+" ORDER BY ").Op("+").Id("sortBy").Dot("Column").Call().
			Op("+").Lit(" ").Op("+").Id("dir").Op("+").Lit(" LIMIT ? OFFSET ?")
		g.List(jen.Id("rows"), jen.Id("err")).Op(":=").Id("d").Dot("db").Dot("QueryContext").Call(jen.Id("ctx"), jen.Id("query"), jen.Id("limit"), jen.Id("offset"))
		g.If(jen.Id("err").Op("!=").Nil()).Block(jen.Return(jen.Nil(), jen.Id("err")))
		g.Defer().Id("rows").Dot("Close").Call()
		for _, c := range e.scanLoopBlock() {
			g.Add(c)
		}
		g.Return(jen.Id("out"), jen.Nil())
	})
}

func (e *emitter) genGetPaginatedResult(f *jen.File, name string) {
	sortByEnum := e.typeName + "SortBy"
	f.Commentf("%s returns up to limit rows of %s starting at offset, alongside", name, e.typeName)
	f.Comment("the total row count, the 1-based page number offset falls on, and")
	f.Comment("whether more rows follow, so a caller never needs a separate count_all call.")
	f.Func().Params(jen.Id("d").Op("*").Id(e.daoType)).Id(name).Params(
		jen.Id("ctx").Qual("context", "Context"),
		jen.Id("offset").Int(),
		jen.Id("limit").Int(),
		jen.Id("sortBy").Id(sortByEnum),
		jen.Id("direction").Id(sortDirectionTypeName),
	).Params(jen.Op("*").Id(paginatedResultName).Index(e.recordType()), jen.Error()).BlockFunc(func(g *jen.Group) {
		g.If(jen.Id("limit").Op("<").Lit(1)).Block(jen.Id("limit").Op("=").Lit(1))
		g.If(jen.Id("offset").Op("<").Lit(0)).Block(jen.Id("offset").Op("=").Lit(0))

		g.List(jen.Id("total"), jen.Id("err")).Op(":=").Id("d").Dot("CountAll").Call(jen.Id("ctx"))
		g.If(jen.Id("err").Op("!=").Nil()).Block(jen.Return(jen.Nil(), jen.Id("err")))

		g.List(jen.Id("items"), jen.Id("err")).Op(":=").Id("d").Dot("FindAllPaginated").Call(jen.Id("ctx"), jen.Id("offset"), jen.Id("limit"), jen.Id("sortBy"), jen.Id("direction"))
		g.If(jen.Id("err").Op("!=").Nil()).Block(jen.Return(jen.Nil(), jen.Id("err")))

		g.Id("hasNext").Op(":=").Int64().Call(jen.Id("offset").Op("+").Len(jen.Id("items"))).Op("<").Id("total")
		g.Return(jen.Op("&").Id(paginatedResultName).Index(e.recordType()).Values(jen.Dict{
			jen.Id("Items"):    jen.Id("items"),
			jen.Id("Total"):    jen.Id("total"),
			jen.Id("Page"):     jen.Id("offset").Op("/").Id("limit").Op("+").Lit(1),
			jen.Id("PageSize"): jen.Id("limit"),
			jen.Id("HasNext"):  jen.Id("hasNext"),
		}), jen.Nil())
	})
}

// fieldTypeStmt renders the scalar Go type of one field, pointer-wrapped
// for a nullable column exactly as internal/types resolved it.
func fieldTypeStmt(fl field) *jen.Statement {
	stmt := jen.Empty()
	applyType(stmt, fl.Ref)
	return stmt
}

// bulkTypeStmt renders the slice type an IN-clause parameter takes:
// always the column's base type, never pointer-wrapped, since a SQL IN
// list has no notion of a NULL element.
func bulkTypeStmt(fl field) *jen.Statement {
	base := fl.Ref
	base.Name = strings.TrimPrefix(base.Name, "*")
	stmt := jen.Index()
	applyType(stmt, base)
	return stmt
}
