package writer

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/a4501150/rdbigen/internal/config"
	"github.com/a4501150/rdbigen/internal/schema"
)

func testSchema() *schema.Schema {
	return &schema.Schema{
		Tables: []*schema.Table{
			{
				Name:       "users",
				PrimaryKey: []string{"id"},
				Columns: []*schema.Column{
					{Name: "id", Type: schema.NewBigInt(false), AutoIncrement: true, HasDefault: true},
					{Name: "email", Type: schema.NewVarChar()},
				},
				UniqueIndexes: []schema.Index{
					{Name: "uk_email", Columns: []string{"email"}, Unique: true},
				},
			},
			{
				Name:       "orders",
				PrimaryKey: []string{"id"},
				Columns: []*schema.Column{
					{Name: "id", Type: schema.NewBigInt(false), AutoIncrement: true, HasDefault: true},
					{Name: "user_id", Type: schema.NewBigInt(false)},
				},
			},
		},
	}
}

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	dir := t.TempDir()
	cfg := config.Defaults()
	cfg.SchemaFile = "schema.sql"
	cfg.ModulePath = "example.com/app/generated"
	cfg.OutputStructsDir = filepath.Join(dir, "models")
	cfg.OutputDAODir = filepath.Join(dir, "dao")
	return cfg
}

func TestWriteProducesOneFilePerTablePlusAggregatorsAndSharedFiles(t *testing.T) {
	require := require.New(t)

	cfg := testConfig(t)
	require.NoError(Write(context.Background(), testSchema(), cfg))

	require.FileExists(filepath.Join(cfg.OutputStructsDir, "user.go"))
	require.FileExists(filepath.Join(cfg.OutputStructsDir, "order.go"))
	require.FileExists(filepath.Join(cfg.OutputStructsDir, "models.go"))

	require.FileExists(filepath.Join(cfg.OutputDAODir, "users.go"))
	require.FileExists(filepath.Join(cfg.OutputDAODir, "orders.go"))
	require.FileExists(filepath.Join(cfg.OutputDAODir, "runtime.go"))
	require.FileExists(filepath.Join(cfg.OutputDAODir, "pagination.go"))
	require.FileExists(filepath.Join(cfg.OutputDAODir, "dao.go"))
}

func TestWriteLeavesNoTempFilesBehindOnSuccess(t *testing.T) {
	require := require.New(t)

	cfg := testConfig(t)
	require.NoError(Write(context.Background(), testSchema(), cfg))

	entries, err := os.ReadDir(cfg.OutputDAODir)
	require.NoError(err)
	for _, e := range entries {
		require.NotContains(e.Name(), ".tmp-")
	}
}

func TestWriteRespectsIncludeAndExcludeTables(t *testing.T) {
	require := require.New(t)

	cfg := testConfig(t)
	cfg.IncludeTables = []string{"users"}
	require.NoError(Write(context.Background(), testSchema(), cfg))

	require.FileExists(filepath.Join(cfg.OutputStructsDir, "user.go"))
	require.NoFileExists(filepath.Join(cfg.OutputStructsDir, "order.go"))
}

func TestWriteSkipsDAOGenerationWhenDisabled(t *testing.T) {
	require := require.New(t)

	cfg := testConfig(t)
	cfg.GenerateDAO = false
	require.NoError(Write(context.Background(), testSchema(), cfg))

	require.FileExists(filepath.Join(cfg.OutputStructsDir, "user.go"))
	_, err := os.Stat(cfg.OutputDAODir)
	require.True(os.IsNotExist(err))
}

func TestWriteAggregatorListsEverySymbol(t *testing.T) {
	require := require.New(t)

	cfg := testConfig(t)
	require.NoError(Write(context.Background(), testSchema(), cfg))

	data, err := os.ReadFile(filepath.Join(cfg.OutputStructsDir, "models.go"))
	require.NoError(err)
	require.Contains(string(data), "User")
	require.Contains(string(data), "Order")
}

func TestWriteReturnsContextErrorWhenCancelledBeforeStart(t *testing.T) {
	require := require.New(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	cfg := testConfig(t)
	err := Write(ctx, testSchema(), cfg)
	require.Error(err)
}
