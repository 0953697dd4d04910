// Package sqlparse lowers a MySQL DDL script into the semantic model
// defined by internal/schema, the way metas.TableDdlHandle walks a
// *ast.CreateTableStmt in the reference CDC tooling this package is
// grounded on, except here the walk builds a whole schema.Schema up
// front instead of mutating one table incrementally.
package sqlparse

import (
	"strings"

	"github.com/pingcap/tidb/pkg/parser"
	"github.com/pingcap/tidb/pkg/parser/ast"
	"github.com/pingcap/tidb/pkg/parser/mysql"
	_ "github.com/pingcap/tidb/pkg/parser/test_driver" // registers literal expression evaluation used by DEFAULT clauses

	"github.com/a4501150/rdbigen/internal/rdbierr"
	"github.com/a4501150/rdbigen/internal/schema"
)

// Parse lowers every CREATE TABLE statement in ddl into a schema.Schema.
// Statements of any other kind (ALTER, DROP, ...) are silently skipped;
// a DDL file accompanying a generator invocation is expected to be a
// pure table dump, but tooling that emits trailing housekeeping
// statements should not have to be edited before it works here.
func Parse(ddl string) (*schema.Schema, error) {
	p := parser.New()
	stmts, _, err := p.ParseSQL(ddl)
	if err != nil {
		return nil, rdbierr.InvalidSchemaWrap("", "", "could not parse DDL", err)
	}

	creates := make([]*ast.CreateTableStmt, 0, len(stmts))
	for _, stmt := range stmts {
		if create, ok := stmt.(*ast.CreateTableStmt); ok {
			creates = append(creates, create)
		}
	}
	if len(creates) == 0 {
		return nil, rdbierr.InvalidSchema("", "", "DDL contains no CREATE TABLE statement")
	}

	byName := map[string]*ast.CreateTableStmt{}
	order := make([]string, 0, len(creates))
	for _, create := range creates {
		name := create.Table.Name.String()
		fold := strings.ToLower(name)
		if _, dup := byName[fold]; dup {
			return nil, rdbierr.InvalidSchema(name, "", "duplicate table name (case-insensitive)")
		}
		byName[fold] = create
		order = append(order, fold)
	}

	tables := make([]*schema.Table, 0, len(creates))
	for _, fold := range order {
		create := byName[fold]
		table, err := lowerTable(create, byName)
		if err != nil {
			return nil, err
		}
		tables = append(tables, table)
	}
	return &schema.Schema{Tables: tables}, nil
}

// lowerTable lowers one CREATE TABLE statement, expanding CREATE TABLE
// ... LIKE into a full copy of the referenced table's columns and keys
// (MySQL's own semantics for LIKE: everything but foreign keys carries
// over).
func lowerTable(create *ast.CreateTableStmt, byName map[string]*ast.CreateTableStmt) (*schema.Table, error) {
	name := create.Table.Name.String()

	source := create
	if create.ReferTable != nil {
		refName := strings.ToLower(create.ReferTable.Name.String())
		refStmt, ok := byName[refName]
		if !ok {
			return nil, rdbierr.InvalidSchema(name, "", "CREATE TABLE ... LIKE references an unknown table: "+create.ReferTable.Name.String())
		}
		source = refStmt
	}

	if len(source.Cols) == 0 {
		return nil, rdbierr.InvalidSchema(name, "", "table has no columns")
	}

	table := &schema.Table{Name: name}
	seen := map[string]bool{}
	pkSeen := map[string]bool{}

	addPK := func(colName string) {
		fold := strings.ToLower(colName)
		if pkSeen[fold] {
			return
		}
		pkSeen[fold] = true
		table.PrimaryKey = append(table.PrimaryKey, colName)
	}

	for _, colDef := range source.Cols {
		col, isPK, err := lowerColumn(name, colDef)
		if err != nil {
			return nil, err
		}
		fold := strings.ToLower(col.Name)
		if seen[fold] {
			return nil, rdbierr.InvalidSchema(name, col.Name, "duplicate column name (case-insensitive)")
		}
		seen[fold] = true
		table.Columns = append(table.Columns, col)
		if isPK {
			addPK(col.Name)
		}
		for _, opt := range colDef.Options {
			if opt.Tp == ast.ColumnOptionUniqKey {
				table.UniqueIndexes = append(table.UniqueIndexes, schema.Index{Columns: []string{col.Name}, Unique: true})
			}
		}
	}

	for _, constraint := range source.Constraints {
		switch constraint.Tp {
		case ast.ConstraintPrimaryKey:
			for _, key := range constraint.Keys {
				addPK(key.Column.Name.String())
			}
		case ast.ConstraintUniq, ast.ConstraintUniqKey, ast.ConstraintUniqIndex:
			table.UniqueIndexes = append(table.UniqueIndexes, lowerIndex(constraint, true))
		case ast.ConstraintKey, ast.ConstraintIndex:
			table.NonUniqueIndexes = append(table.NonUniqueIndexes, lowerIndex(constraint, false))
		case ast.ConstraintForeignKey:
			if source != create {
				// CREATE TABLE ... LIKE does not copy foreign keys.
				continue
			}
			fk := schema.ForeignKey{ReferencedTable: constraint.Refer.Table.Name.String()}
			for _, key := range constraint.Keys {
				fk.Columns = append(fk.Columns, key.Column.Name.String())
			}
			for _, refCol := range constraint.Refer.IndexPartSpecifications {
				fk.ReferencedColumns = append(fk.ReferencedColumns, refCol.Column.Name.String())
			}
			table.ForeignKeys = append(table.ForeignKeys, fk)
		}
	}

	// A column-level PRIMARY KEY option makes the column itself
	// non-nullable; this has to happen after the full PK list is known,
	// since a table-level PRIMARY KEY constraint can name a column whose
	// own ColumnDef never carried the option.
	pkSet := map[string]bool{}
	for _, c := range table.PrimaryKey {
		pkSet[strings.ToLower(c)] = true
	}
	for _, c := range table.Columns {
		if pkSet[strings.ToLower(c.Name)] {
			c.Nullable = false
		}
	}

	return table, nil
}

func lowerIndex(constraint *ast.Constraint, unique bool) schema.Index {
	idx := schema.Index{Name: constraint.Name, Unique: unique}
	for _, key := range constraint.Keys {
		idx.Columns = append(idx.Columns, key.Column.Name.String())
	}
	return idx
}

func lowerColumn(table string, colDef *ast.ColumnDef) (*schema.Column, bool, error) {
	sqlType, err := lowerType(table, colDef)
	if err != nil {
		return nil, false, err
	}

	col := &schema.Column{
		Name:     colDef.Name.String(),
		Type:     sqlType,
		Nullable: true,
	}
	var isPK bool
	for _, opt := range colDef.Options {
		switch opt.Tp {
		case ast.ColumnOptionNotNull:
			col.Nullable = false
		case ast.ColumnOptionPrimaryKey:
			isPK = true
			col.Nullable = false
		case ast.ColumnOptionAutoIncrement:
			col.AutoIncrement = true
			col.HasDefault = true
		case ast.ColumnOptionDefaultValue:
			col.HasDefault = true
		}
	}
	return col, isPK, nil
}

func lowerType(table string, colDef *ast.ColumnDef) (schema.SqlType, error) {
	ft := colDef.Tp
	flag := ft.GetFlag()
	unsigned := mysql.HasUnsignedFlag(flag)
	name := colDef.Name.String()

	switch ft.GetType() {
	case mysql.TypeTiny:
		return schema.NewTinyInt(ft.GetFlen(), unsigned), nil
	case mysql.TypeShort:
		return schema.NewSmallInt(unsigned), nil
	case mysql.TypeInt24:
		return schema.NewMediumInt(unsigned), nil
	case mysql.TypeLong:
		return schema.NewInt(unsigned), nil
	case mysql.TypeLonglong:
		return schema.NewBigInt(unsigned), nil
	case mysql.TypeFloat:
		return schema.NewFloat(), nil
	case mysql.TypeDouble:
		return schema.NewDouble(), nil
	case mysql.TypeNewDecimal:
		return schema.NewDecimal(ft.GetFlen(), ft.GetDecimal()), nil
	case mysql.TypeBit:
		return schema.NewBit(ft.GetFlen()), nil
	case mysql.TypeVarchar, mysql.TypeVarString:
		return charOrBinary(ft, schema.NewVarChar(), schema.NewVarBinary()), nil
	case mysql.TypeString:
		return charOrBinary(ft, schema.NewChar(), schema.NewBinary()), nil
	case mysql.TypeTinyBlob:
		return textOrBlob(ft, "tinytext", "tinyblob"), nil
	case mysql.TypeBlob:
		return textOrBlob(ft, "text", "blob"), nil
	case mysql.TypeMediumBlob:
		return textOrBlob(ft, "mediumtext", "mediumblob"), nil
	case mysql.TypeLongBlob:
		return textOrBlob(ft, "longtext", "longblob"), nil
	case mysql.TypeDate:
		return schema.NewDate(), nil
	case mysql.TypeDuration:
		return schema.NewTime(), nil
	case mysql.TypeDatetime:
		return schema.NewDateTime(), nil
	case mysql.TypeTimestamp:
		return schema.NewTimestamp(), nil
	case mysql.TypeJSON:
		return schema.NewJSON(), nil
	case mysql.TypeEnum:
		return schema.NewEnum(ft.GetElems()), nil
	case mysql.TypeSet:
		return schema.NewSet(ft.GetElems()), nil
	default:
		return nil, rdbierr.UnsupportedType(table, name, ft.String(), "no schema.SqlType mapping for this MySQL column type")
	}
}

// textOrBlob distinguishes TEXT-family from BLOB-family columns that
// share a single tidb token by checking the declared charset: a BLOB
// column is parsed with the binary charset, a TEXT column is not.
func textOrBlob(ft interface{ GetCharset() string }, textSize, blobSize string) schema.SqlType {
	if ft.GetCharset() == "binary" {
		return schema.NewBlob(blobSize)
	}
	return schema.NewText(textSize)
}

// charOrBinary is textOrBlob's fixed-width counterpart: CHAR and BINARY
// share the TypeString token, VARCHAR and VARBINARY share TypeVarchar/
// TypeVarString, and in both pairs only the declared charset tells them
// apart.
func charOrBinary(ft interface{ GetCharset() string }, char, binary schema.SqlType) schema.SqlType {
	if ft.GetCharset() == "binary" {
		return binary
	}
	return char
}
