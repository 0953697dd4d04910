package planner

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/a4501150/rdbigen/internal/schema"
)

func methodNames(dao *DAO) []string {
	names := make([]string, len(dao.Methods))
	for i, m := range dao.Methods {
		names[i] = m.Name
	}
	return names
}

func TestPlanBaseMethodsWithPrimaryKey(t *testing.T) {
	require := require.New(t)

	table := &schema.Table{
		Name:       "users",
		PrimaryKey: []string{"id"},
		Columns: []*schema.Column{
			{Name: "id", Type: schema.NewBigInt(false), AutoIncrement: true, HasDefault: true},
			{Name: "email", Type: schema.NewVarChar()},
		},
		UniqueIndexes: []schema.Index{{Name: "uk_email", Columns: []string{"email"}, Unique: true}},
	}

	dao, err := Plan(table)
	require.NoError(err)

	names := methodNames(dao)
	require.Contains(names, "insert")
	require.Contains(names, "insert_plain")
	require.Contains(names, "insert_all")
	require.Contains(names, "find_all")
	require.Contains(names, "count_all")
	require.Contains(names, "find_by_id")
	require.Contains(names, "delete_by_id")
	require.Contains(names, "update")
	require.Contains(names, "upsert")
	require.Contains(names, "find_by_email")
	require.Contains(names, "find_by_emails")
	require.Contains(names, "find_by_ids")
	require.Contains(names, "find_all_paginated")
	require.Contains(names, "get_paginated_result")
}

func TestPlanSkipsUpdateWhenOnlyPKColumnExists(t *testing.T) {
	require := require.New(t)

	table := &schema.Table{
		Name:       "flags",
		PrimaryKey: []string{"id"},
		Columns: []*schema.Column{
			{Name: "id", Type: schema.NewInt(false)},
		},
	}

	dao, err := Plan(table)
	require.NoError(err)
	require.NotContains(methodNames(dao), "update")
}

func TestPlanSkipsInsertWhenAllColumnsAreAutoIncrement(t *testing.T) {
	require := require.New(t)

	table := &schema.Table{
		Name:       "counters",
		PrimaryKey: []string{"id"},
		Columns: []*schema.Column{
			{Name: "id", Type: schema.NewInt(false), AutoIncrement: true},
		},
	}

	dao, err := Plan(table)
	require.NoError(err)
	names := methodNames(dao)
	require.NotContains(names, "insert")
	require.NotContains(names, "insert_plain")
	require.NotContains(names, "insert_all")
	require.NotContains(names, "upsert", "an all-auto-increment table has no non-key column to upsert into")
}

func TestPlanSkipsUpsertWhenEveryColumnIsPrimaryKey(t *testing.T) {
	require := require.New(t)

	table := &schema.Table{
		Name:       "user_roles",
		PrimaryKey: []string{"user_id", "role_id"},
		Columns: []*schema.Column{
			{Name: "user_id", Type: schema.NewBigInt(false)},
			{Name: "role_id", Type: schema.NewBigInt(false)},
		},
	}

	dao, err := Plan(table)
	require.NoError(err)
	names := methodNames(dao)
	require.NotContains(names, "upsert", "every non-auto-increment column is already part of the primary key, leaving nothing for ON DUPLICATE KEY UPDATE to set")
	require.Contains(names, "insert", "insert is unaffected: it writes the key columns, it just has no update fallback to offer")
}

func TestPlanUpsertWithoutPrimaryKeyButWithUniqueIndex(t *testing.T) {
	require := require.New(t)

	table := &schema.Table{
		Name: "sessions",
		Columns: []*schema.Column{
			{Name: "token", Type: schema.NewVarChar()},
		},
		UniqueIndexes: []schema.Index{{Name: "uk_token", Columns: []string{"token"}, Unique: true}},
	}

	dao, err := Plan(table)
	require.NoError(err)
	names := methodNames(dao)
	require.Contains(names, "upsert")
	require.NotContains(names, "find_by_id")
	require.NotContains(names, "update")
}

func TestPlanPriorityDeduplicationPrefersUniqueOverForeignKey(t *testing.T) {
	require := require.New(t)

	table := &schema.Table{
		Name:       "orders",
		PrimaryKey: []string{"id"},
		Columns: []*schema.Column{
			{Name: "id", Type: schema.NewBigInt(false)},
			{Name: "user_id", Type: schema.NewBigInt(false)},
		},
		UniqueIndexes: []schema.Index{{Name: "uk_user", Columns: []string{"user_id"}, Unique: true}},
		ForeignKeys:   []schema.ForeignKey{{Columns: []string{"user_id"}, ReferencedTable: "users", ReferencedColumns: []string{"id"}}},
	}

	dao, err := Plan(table)
	require.NoError(err)

	var lookups int
	for _, m := range dao.Methods {
		if m.Name == "find_by_user_id" {
			lookups++
			require.Equal(ReturnOptionalRecord, m.Return, "the unique index must win over the foreign key, giving an optional single record")
		}
	}
	require.Equal(1, lookups, "the foreign key candidate must be collapsed into the unique index candidate, not produce a second method")
}

func TestPlanCompositeEnumBulkVariant(t *testing.T) {
	require := require.New(t)

	table := &schema.Table{
		Name:       "devices",
		PrimaryKey: []string{"id"},
		Columns: []*schema.Column{
			{Name: "id", Type: schema.NewBigInt(false)},
			{Name: "user_id", Type: schema.NewBigInt(false)},
			{Name: "device_type", Type: schema.NewEnum([]string{"phone", "tablet"})},
		},
		NonUniqueIndexes: []schema.Index{{Name: "idx_user_device", Columns: []string{"user_id", "device_type"}}},
	}

	dao, err := Plan(table)
	require.NoError(err)

	names := methodNames(dao)
	require.Contains(names, "find_by_user_id_and_device_type")
	require.Contains(names, "find_by_user_id_and_device_types")
}

func TestPlanDifferentColumnOrderingsAreDistinctMethods(t *testing.T) {
	require := require.New(t)

	table := &schema.Table{
		Name:       "pairs",
		PrimaryKey: []string{"id"},
		Columns: []*schema.Column{
			{Name: "id", Type: schema.NewBigInt(false)},
			{Name: "a", Type: schema.NewInt(false)},
			{Name: "b", Type: schema.NewInt(false)},
		},
		UniqueIndexes: []schema.Index{
			{Name: "uk_ab", Columns: []string{"a", "b"}, Unique: true},
			{Name: "uk_ba", Columns: []string{"b", "a"}, Unique: true},
		},
	}

	dao, err := Plan(table)
	require.NoError(err)
	names := methodNames(dao)
	require.Contains(names, "find_by_a_and_b")
	require.Contains(names, "find_by_b_and_a")
}

func TestPlanNoPrimaryKeyNoUniqueIndexHasNoUpsert(t *testing.T) {
	require := require.New(t)

	table := &schema.Table{
		Name: "logs",
		Columns: []*schema.Column{
			{Name: "message", Type: schema.NewText("text")},
		},
		NonUniqueIndexes: []schema.Index{{Name: "idx_message", Columns: []string{"message"}}},
	}

	dao, err := Plan(table)
	require.NoError(err)
	names := methodNames(dao)
	require.NotContains(names, "upsert")
	require.Contains(names, "find_by_message")
}
