// Package planner is the heart of the generator: it turns a
// schema.Table into the ordered list of DAO methods spec.md §4.6 names,
// applying priority deduplication across indexes and foreign keys. It
// never reaches into internal/codegen — Plan decides *what* methods
// exist; rendering *how* each one is emitted (SQL text, jennifer
// statements) is entirely the Emitter's concern.
package planner

import (
	"strings"

	"github.com/a4501150/rdbigen/internal/naming"
	"github.com/a4501150/rdbigen/internal/rdbierr"
	"github.com/a4501150/rdbigen/internal/schema"
)

// Kind identifies the shape of one generated method.
type Kind int

const (
	KindFindAll Kind = iota
	KindCountAll
	KindInsert
	KindInsertPlain
	KindInsertAll
	KindFindByPK
	KindDeleteByPK
	KindUpdate
	KindUpsert
	KindFindByLookup
	KindFindByBulk
	KindFindByCompositeEnumBulk
	KindFindAllPaginated
	KindGetPaginatedResult
)

// Return identifies the shape of a method's result.
type Return int

const (
	ReturnRecordSlice Return = iota
	ReturnOptionalRecord
	ReturnCount
	ReturnLastInsertID
	ReturnRowsAffected
	ReturnPaginatedResult
)

// Param is one method parameter. Column is the raw database column name
// this parameter binds to, empty for synthetic parameters (offset,
// limit, sort_by, direction) that have no column of their own. Bulk
// marks a parameter as a sequence of Column's type rather than a scalar.
type Param struct {
	Name   string
	Column string
	Bulk   bool
}

// Method is one planned DAO function.
type Method struct {
	Name    string
	Kind    Kind
	Return  Return
	Columns []string // ordered, raw column names this method keys on; nil when not applicable
	Params  []Param
}

// DAO is the complete, ordered method list for one table.
type DAO struct {
	Table   *schema.Table
	Methods []Method
}

// candidate is one deduplication unit: a column set contributed by a PK,
// a unique index, a non-unique index, or a foreign key.
type candidate struct {
	columns  []string
	priority int // 0 PK, 1 Unique, 2 NonUnique, 3 ForeignKey
	unique   bool
}

const (
	priorityPK = iota
	priorityUnique
	priorityNonUnique
	priorityForeignKey
)

// Plan builds the ordered MethodSpec list for one table.
func Plan(t *schema.Table) (*DAO, error) {
	dao := &DAO{Table: t}

	insertColumns := nonAutoIncrementColumns(t)

	if len(insertColumns) > 0 {
		dao.Methods = append(dao.Methods,
			Method{Name: "insert", Kind: KindInsert, Return: ReturnLastInsertID},
			Method{Name: "insert_plain", Kind: KindInsertPlain, Return: ReturnLastInsertID, Params: columnParams(insertColumns)},
			Method{Name: "insert_all", Kind: KindInsertAll, Return: ReturnRowsAffected},
		)
	}

	dao.Methods = append(dao.Methods,
		Method{Name: "find_all", Kind: KindFindAll, Return: ReturnRecordSlice},
		Method{Name: "count_all", Kind: KindCountAll, Return: ReturnCount},
	)

	if t.HasPrimaryKey() {
		dao.Methods = append(dao.Methods,
			Method{Name: naming.FindByMethod(t.PrimaryKey), Kind: KindFindByPK, Return: ReturnOptionalRecord, Columns: t.PrimaryKey, Params: keyParams(t.PrimaryKey)},
			Method{Name: naming.DeleteByMethod(t.PrimaryKey), Kind: KindDeleteByPK, Return: ReturnRowsAffected, Columns: t.PrimaryKey, Params: keyParams(t.PrimaryKey)},
		)

		updateColumns := nonPKColumns(t)
		if len(updateColumns) > 0 {
			dao.Methods = append(dao.Methods, Method{Name: "update", Kind: KindUpdate, Return: ReturnRowsAffected})
		}
	}

	// upsert needs a non-key column to place in its ON DUPLICATE KEY
	// UPDATE clause; a table whose only non-auto-increment columns are
	// all primary-key columns has nothing to update on collision, which
	// is exactly the guard the Emitter's genUpsert applies before
	// writing a method body. Checking it here too keeps the Planner the
	// sole arbiter of which methods exist, rather than the Emitter
	// silently disagreeing by skipping one.
	if t.HasPrimaryKey() || len(t.UniqueIndexes) > 0 {
		if hasUpsertableColumn(insertColumns, t.PrimaryKey) {
			dao.Methods = append(dao.Methods, Method{Name: "upsert", Kind: KindUpsert, Return: ReturnRowsAffected})
		}
	}

	candidates, order := collectCandidates(t)

	for _, key := range order {
		cand := candidates[key]
		if cand.priority == priorityPK {
			// find_by_<pk>/delete_by_<pk> above already cover this
			// column set under its dedicated base-method identity.
			continue
		}
		name := naming.FindByMethod(cand.columns)
		ret := ReturnRecordSlice
		if cand.unique {
			ret = ReturnOptionalRecord
		}
		dao.Methods = append(dao.Methods, Method{
			Name:    name,
			Kind:    KindFindByLookup,
			Return:  ret,
			Columns: cand.columns,
			Params:  keyParams(cand.columns),
		})
	}

	for _, key := range order {
		cand := candidates[key]
		if len(cand.columns) == 1 {
			dao.Methods = append(dao.Methods, Method{
				Name:    naming.BulkMethodName(cand.columns),
				Kind:    KindFindByBulk,
				Return:  ReturnRecordSlice,
				Columns: cand.columns,
				Params:  []Param{{Name: naming.ArgName(naming.Pluralize(naming.Snake(cand.columns[0]))), Column: cand.columns[0], Bulk: true}},
			})
			continue
		}
		last := cand.columns[len(cand.columns)-1]
		lastCol := t.ColumnByName(last)
		if lastCol == nil {
			continue
		}
		if _, isEnum := lastCol.Type.(schema.Enum); !isEnum {
			continue
		}
		params := keyParams(cand.columns)
		params[len(params)-1].Bulk = true
		dao.Methods = append(dao.Methods, Method{
			Name:    naming.BulkMethodName(cand.columns),
			Kind:    KindFindByCompositeEnumBulk,
			Return:  ReturnRecordSlice,
			Columns: cand.columns,
			Params:  params,
		})
	}

	dao.Methods = append(dao.Methods,
		Method{
			Name:   "find_all_paginated",
			Kind:   KindFindAllPaginated,
			Return: ReturnRecordSlice,
			Params: []Param{{Name: "offset"}, {Name: "limit"}, {Name: "sort_by"}, {Name: "direction"}},
		},
		Method{
			Name:   "get_paginated_result",
			Kind:   KindGetPaginatedResult,
			Return: ReturnPaginatedResult,
			Params: []Param{{Name: "offset"}, {Name: "limit"}, {Name: "sort_by"}, {Name: "direction"}},
		},
	)

	if err := disambiguate(t.Name, dao); err != nil {
		return nil, err
	}
	return dao, nil
}

func nonAutoIncrementColumns(t *schema.Table) []*schema.Column {
	var cols []*schema.Column
	for _, c := range t.Columns {
		if !c.AutoIncrement {
			cols = append(cols, c)
		}
	}
	return cols
}

// hasUpsertableColumn reports whether at least one of cols (the table's
// non-auto-increment columns) falls outside the primary key, mirroring
// the check genUpsert applies before it builds an ON DUPLICATE KEY
// UPDATE clause.
func hasUpsertableColumn(cols []*schema.Column, pk []string) bool {
	pkSet := map[string]bool{}
	for _, c := range pk {
		pkSet[c] = true
	}
	for _, c := range cols {
		if !pkSet[c.Name] {
			return true
		}
	}
	return false
}

func nonPKColumns(t *schema.Table) []*schema.Column {
	pk := map[string]bool{}
	for _, c := range t.PrimaryKey {
		pk[c] = true
	}
	var cols []*schema.Column
	for _, c := range t.Columns {
		if !pk[c.Name] {
			cols = append(cols, c)
		}
	}
	return cols
}

func columnParams(cols []*schema.Column) []Param {
	params := make([]Param, len(cols))
	for i, c := range cols {
		params[i] = Param{Name: naming.ArgName(c.Name), Column: c.Name}
	}
	return params
}

func keyParams(columns []string) []Param {
	params := make([]Param, len(columns))
	for i, c := range columns {
		params[i] = Param{Name: naming.ArgName(c), Column: c}
	}
	return params
}

// collectCandidates applies priority deduplication across the table's
// primary key, unique indexes, non-unique indexes, and foreign keys,
// keyed on the exact ordered column set (column order matters: (a,b) and
// (b,a) are distinct groups).
func collectCandidates(t *schema.Table) (map[string]*candidate, []string) {
	candidates := map[string]*candidate{}
	var order []string

	add := func(columns []string, priority int, unique bool) {
		key := strings.Join(columns, "\x00")
		existing, ok := candidates[key]
		if !ok {
			candidates[key] = &candidate{columns: columns, priority: priority, unique: unique}
			order = append(order, key)
			return
		}
		if priority < existing.priority {
			candidates[key] = &candidate{columns: columns, priority: priority, unique: unique}
		}
	}

	if t.HasPrimaryKey() {
		add(t.PrimaryKey, priorityPK, true)
	}
	for _, idx := range t.UniqueIndexes {
		add(idx.Columns, priorityUnique, true)
	}
	for _, idx := range t.NonUniqueIndexes {
		add(idx.Columns, priorityNonUnique, false)
	}
	for _, fk := range t.ForeignKeys {
		add(fk.Columns, priorityForeignKey, false)
	}

	return candidates, order
}

// disambiguate detects method-name collisions across the planned list
// and resolves them by appending the method's full column list; a
// collision that survives disambiguation is reported as PlanConflict.
func disambiguate(table string, dao *DAO) error {
	byName := map[string][]int{}
	for i, m := range dao.Methods {
		byName[m.Name] = append(byName[m.Name], i)
	}

	for name, indexes := range byName {
		if len(indexes) < 2 {
			continue
		}
		for _, i := range indexes[1:] {
			m := &dao.Methods[i]
			if len(m.Columns) == 0 {
				return rdbierr.PlanConflict(table, name, name, "duplicate method name with no column list to disambiguate by")
			}
			m.Name = name + "_by_" + strings.Join(m.Columns, "_")
		}
	}

	seen := map[string]bool{}
	for _, m := range dao.Methods {
		if seen[m.Name] {
			return rdbierr.PlanConflict(table, m.Name, m.Name, "method name collides even after column-list disambiguation")
		}
		seen[m.Name] = true
	}
	return nil
}
