package codegen

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/a4501150/rdbigen/internal/planner"
)

func usersDAO(t *testing.T) *planner.DAO {
	t.Helper()
	dao, err := planner.Plan(usersTable())
	require.NoError(t, err)
	return dao
}

func TestGenerateDAOEmitsStructAndConstructor(t *testing.T) {
	require := require.New(t)

	f, err := GenerateDAO(usersTable(), usersDAO(t), "dao", "example.com/gen/models")
	require.NoError(err)
	src := render(f)

	require.Contains(src, "package dao")
	require.Contains(src, "type UserDAO struct")
	require.Contains(src, "db DBTX")
	require.Contains(src, "func NewUserDAO(db DBTX) *UserDAO")
}

func TestGenerateDAOEmitsInsertAndUsesModelsQualifier(t *testing.T) {
	require := require.New(t)

	f, err := GenerateDAO(usersTable(), usersDAO(t), "dao", "example.com/gen/models")
	require.NoError(err)
	src := render(f)

	require.Contains(src, `"example.com/gen/models"`)
	require.Contains(src, "func (d *UserDAO) Insert(ctx context.Context, entity *models.User) (int64, error)")
	require.Contains(src, "INSERT INTO `users`")
	require.Contains(src, "entity.Email")
}

func TestGenerateDAOEmitsInsertPlainForInsertableColumns(t *testing.T) {
	require := require.New(t)

	f, err := GenerateDAO(usersTable(), usersDAO(t), "dao", "example.com/gen/models")
	require.NoError(err)
	src := render(f)

	require.Contains(src, "func (d *UserDAO) InsertPlain(")
}

func TestGenerateDAOEmitsFindByPKAsOptionalRecord(t *testing.T) {
	require := require.New(t)

	f, err := GenerateDAO(usersTable(), usersDAO(t), "dao", "example.com/gen/models")
	require.NoError(err)
	src := render(f)

	require.Contains(src, "func (d *UserDAO) FindByID(ctx context.Context, id int64) (*models.User, error)")
	require.Contains(src, "sql.ErrNoRows")
}

func TestGenerateDAOEmitsFindByEmailAsUniqueLookup(t *testing.T) {
	require := require.New(t)

	f, err := GenerateDAO(usersTable(), usersDAO(t), "dao", "example.com/gen/models")
	require.NoError(err)
	src := render(f)

	require.Contains(src, "func (d *UserDAO) FindByEmail(ctx context.Context, email string) (*models.User, error)")
}

func TestGenerateDAOEmitsBulkLookupWithEmptySliceGuard(t *testing.T) {
	require := require.New(t)

	f, err := GenerateDAO(usersTable(), usersDAO(t), "dao", "example.com/gen/models")
	require.NoError(err)
	src := render(f)

	require.Contains(src, "func (d *UserDAO) FindByEmails(ctx context.Context, emails []string) ([]*models.User, error)")
	require.Contains(src, "if len(emails) == 0")
	require.Contains(src, `strings.Repeat("?,"`)
}

func TestGenerateDAOEmitsUpsertWithOnDuplicateKeyUpdate(t *testing.T) {
	require := require.New(t)

	f, err := GenerateDAO(usersTable(), usersDAO(t), "dao", "example.com/gen/models")
	require.NoError(err)
	src := render(f)

	require.Contains(src, "func (d *UserDAO) Upsert(")
	require.Contains(src, "ON DUPLICATE KEY UPDATE")
	require.Contains(src, "VALUES(`email`)")
}

func TestGenerateDAOEmitsUpdateBindingSetColumnsBeforeKeyColumns(t *testing.T) {
	require := require.New(t)

	f, err := GenerateDAO(usersTable(), usersDAO(t), "dao", "example.com/gen/models")
	require.NoError(err)
	src := render(f)

	require.Contains(src, "func (d *UserDAO) Update(")
	require.Contains(src, "SET `email` = ?")
	require.Contains(src, "WHERE `id` = ?")
}

func TestGenerateDAOEmitsPaginationMethods(t *testing.T) {
	require := require.New(t)

	f, err := GenerateDAO(usersTable(), usersDAO(t), "dao", "example.com/gen/models")
	require.NoError(err)
	src := render(f)

	require.Contains(src, "func (d *UserDAO) FindAllPaginated(")
	require.Contains(src, "ORDER BY ")
	require.Contains(src, "LIMIT ? OFFSET ?")
	require.Contains(src, "func (d *UserDAO) GetPaginatedResult(")
	require.Contains(src, "d.CountAll(ctx)")
	require.Contains(src, "&PaginatedResult[*models.User]{")
}

func TestGenerateDAOEscapesGoKeywordColumnInMethodSignature(t *testing.T) {
	require := require.New(t)

	table := reservedWordTable()
	dao, err := planner.Plan(table)
	require.NoError(err)

	f, err := GenerateDAO(table, dao, "dao", "example.com/gen/models")
	require.NoError(err)
	src := render(f)

	// "type" is a Go keyword: the generated parameter must be escaped to
	// "type_", never emitted bare, or the file would not compile.
	require.Contains(src, "func (d *OrderDAO) FindByType(ctx context.Context, type_ string) (*models.Order, error)")
	require.NotContains(src, "ctx context.Context, type string")
}

func TestGenerateDAOBackquotesReservedWordTableAndColumns(t *testing.T) {
	require := require.New(t)

	table := reservedWordTable()
	dao, err := planner.Plan(table)
	require.NoError(err)

	f, err := GenerateDAO(table, dao, "dao", "example.com/gen/models")
	require.NoError(err)
	src := render(f)

	require.Contains(src, "type OrderDAO struct")
	require.Contains(src, "FROM `order`")
	require.Contains(src, "`key`")
	require.Contains(src, "`group`")
}

func TestGenerateDAOEmitsSortByEnumWithOneVariantPerColumn(t *testing.T) {
	require := require.New(t)

	f, err := GenerateDAO(usersTable(), usersDAO(t), "dao", "example.com/gen/models")
	require.NoError(err)
	src := render(f)

	require.Contains(src, "type UserSortBy int")
	require.Contains(src, "UserSortByID UserSortBy = iota")
	require.Contains(src, "UserSortByEmail")
	require.Contains(src, "func (s UserSortBy) Column() string")
}
