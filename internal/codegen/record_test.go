package codegen

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGenerateRecordEmitsStructTagsAndColumns(t *testing.T) {
	require := require.New(t)

	f, err := GenerateRecord(usersTable(), "models")
	require.NoError(err)
	src := render(f)

	require.Contains(src, "package models")
	require.Contains(src, "type User struct")
	require.Contains(src, "`db:\"id\"`")
	require.Contains(src, "`db:\"email\"`")
	require.Contains(src, "`db:\"nickname\"`")
	require.Contains(src, "Nickname *string")
	require.Contains(src, "var UserColumns = []string{")
	require.Contains(src, `"id"`)
	require.Contains(src, `"created_at"`)
}

func TestGenerateRecordEmitsScanAndBindArgs(t *testing.T) {
	require := require.New(t)

	f, err := GenerateRecord(usersTable(), "models")
	require.NoError(err)
	src := render(f)

	require.Contains(src, "func (r *User) ScanArgs() []any")
	require.Contains(src, "func (r *User) BindArgs() []any")
	require.Contains(src, "&r.ID")
	require.Contains(src, "r.Email")
}

func TestGenerateRecordEmitsEnumTypeAndConstants(t *testing.T) {
	require := require.New(t)

	f, err := GenerateRecord(usersTable(), "models")
	require.NoError(err)
	src := render(f)

	require.Contains(src, "type UserStatus string")
	require.Contains(src, `= "active"`)
	require.Contains(src, `= "suspended"`)
}

func TestGenerateRecordUsesSharedPackageNameNotTableName(t *testing.T) {
	require := require.New(t)

	f, err := GenerateRecord(usersTable(), "generatedmodels")
	require.NoError(err)
	src := render(f)

	require.Contains(src, "package generatedmodels")
}
