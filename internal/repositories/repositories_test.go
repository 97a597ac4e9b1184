package repositories

import (
	"context"
	"testing"

	"shopadmin/internal/config"
	"shopadmin/internal/domain"
	"shopadmin/internal/domain/models"
	"shopadmin/internal/query"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// setupTestDB creates an in-memory SQLite database for testing.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	// every connection to :memory: is a separate database
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, config.Migrate(db))
	return db
}

func mustPage(t *testing.T, page, size int) query.PageRequest {
	t.Helper()
	p, err := query.NewPageRequest(page, size, query.MaxPageSize)
	require.NoError(t, err)
	return p
}

func mustOrder(t *testing.T, raw string) query.Directive {
	t.Helper()
	d, err := query.ParseOrder(raw)
	require.NoError(t, err)
	return d
}

func seedCatalog(t *testing.T, db *gorm.DB) (models.Category, []models.Product) {
	t.Helper()
	ctx := context.Background()

	cat := models.Category{Name: "Books"}
	require.NoError(t, CategoryRepository{DB: db}.Create(ctx, &cat))

	products := []models.Product{
		{Title: "Go in Action", Price: decimal.RequireFromString("35.50"), Stock: 4, CategoryID: cat.ID},
		{Title: "The Go Programming Language", Price: decimal.RequireFromString("42.00"), Stock: 2, CategoryID: cat.ID},
		{Title: "Concurrency in Go", Price: decimal.RequireFromString("35.50"), Stock: 7, CategoryID: cat.ID},
		{Title: "100% Test Coverage", Price: decimal.RequireFromString("12.00"), Stock: 1, CategoryID: cat.ID},
	}
	repo := ProductRepository{DB: db}
	for i := range products {
		require.NoError(t, repo.Create(ctx, &products[i]))
	}
	return cat, products
}

func TestProductListOrdersAndPages(t *testing.T) {
	db := setupTestDB(t)
	seedCatalog(t, db)
	repo := ProductRepository{DB: db}

	page, err := repo.List(context.Background(), ProductFilter{}, mustOrder(t, "price desc,title asc"), mustPage(t, 1, 3))
	require.NoError(t, err)

	assert.EqualValues(t, 4, page.TotalCount)
	assert.Equal(t, 2, page.TotalPages())
	require.Len(t, page.Items, 3)
	assert.Equal(t, "The Go Programming Language", page.Items[0].Title)
	assert.Equal(t, "Concurrency in Go", page.Items[1].Title)
	assert.Equal(t, "Go in Action", page.Items[2].Title)

	last, err := repo.List(context.Background(), ProductFilter{}, mustOrder(t, "price desc,title asc"), mustPage(t, 2, 3))
	require.NoError(t, err)
	require.Len(t, last.Items, 1)
	assert.Equal(t, "100% Test Coverage", last.Items[0].Title)
	assert.False(t, last.HasNext())
	assert.True(t, last.HasPrevious())
}

func TestProductListBeyondLastPage(t *testing.T) {
	db := setupTestDB(t)
	seedCatalog(t, db)

	page, err := ProductRepository{DB: db}.List(context.Background(), ProductFilter{}, nil, mustPage(t, 5, 10))
	require.NoError(t, err)
	assert.Empty(t, page.Items)
	assert.NotNil(t, page.Items)
	assert.EqualValues(t, 4, page.TotalCount)
}

func TestProductListHugePageIsEmpty(t *testing.T) {
	db := setupTestDB(t)
	seedCatalog(t, db)

	req := query.PageRequest{Page: 100000000000000001, Size: 100}
	page, err := ProductRepository{DB: db}.List(context.Background(), ProductFilter{}, nil, req)
	require.NoError(t, err)
	assert.Empty(t, page.Items)
	assert.EqualValues(t, 4, page.TotalCount)
	assert.Equal(t, 1, page.TotalPages())
}

func TestProductListFilters(t *testing.T) {
	db := setupTestDB(t)
	cat, _ := seedCatalog(t, db)
	repo := ProductRepository{DB: db}
	ctx := context.Background()

	min := decimal.RequireFromString("30")
	max := decimal.RequireFromString("40")
	page, err := repo.List(ctx, ProductFilter{MinPrice: &min, MaxPrice: &max, CategoryID: cat.ID}, nil, mustPage(t, 1, 10))
	require.NoError(t, err)
	assert.EqualValues(t, 2, page.TotalCount)

	page, err = repo.List(ctx, ProductFilter{Title: "GO "}, nil, mustPage(t, 1, 10))
	require.NoError(t, err)
	assert.EqualValues(t, 3, page.TotalCount, "title filter is a case-insensitive substring match")

	page, err = repo.List(ctx, ProductFilter{Title: "%"}, nil, mustPage(t, 1, 10))
	require.NoError(t, err)
	require.EqualValues(t, 1, page.TotalCount, "wildcards are matched literally")
	assert.Equal(t, "100% Test Coverage", page.Items[0].Title)
}

func TestProductListUnknownOrderField(t *testing.T) {
	db := setupTestDB(t)
	_, err := ProductRepository{DB: db}.List(context.Background(), ProductFilter{}, mustOrder(t, "weight asc"), mustPage(t, 1, 10))
	var nf query.FieldNotFoundError
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, "weight", nf.Field)
}

func TestProductGetByIDNotFound(t *testing.T) {
	db := setupTestDB(t)
	_, err := ProductRepository{DB: db}.GetByID(context.Background(), 99)
	assert.True(t, domain.IsNotFound(err))
}

func TestCategoryDuplicateNameIsConflict(t *testing.T) {
	db := setupTestDB(t)
	repo := CategoryRepository{DB: db}
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, &models.Category{Name: "Games"}))
	err := repo.Create(ctx, &models.Category{Name: "Games"})
	assert.True(t, domain.IsConflict(err), "got %v", err)
}

func TestUserLoginLookupAndTaken(t *testing.T) {
	db := setupTestDB(t)
	repo := UserRepository{DB: db}
	ctx := context.Background()

	u := models.User{Name: "Ada", Username: "ada", Email: "ada@example.com", PasswordHash: "x"}
	require.NoError(t, repo.Create(ctx, &u))

	byEmail, err := repo.GetByLogin(ctx, " ADA@example.com ")
	require.NoError(t, err)
	assert.Equal(t, u.ID, byEmail.ID)

	byName, err := repo.GetByLogin(ctx, "ada")
	require.NoError(t, err)
	assert.Equal(t, u.ID, byName.ID)
	assert.Equal(t, domain.RoleUser, byName.Role)

	taken, err := repo.Taken(ctx, "ada", "other@example.com", 0)
	require.NoError(t, err)
	assert.True(t, taken)

	taken, err = repo.Taken(ctx, "ada", "ada@example.com", u.ID)
	require.NoError(t, err)
	assert.False(t, taken)
}

func TestUserListFilterByRole(t *testing.T) {
	db := setupTestDB(t)
	repo := UserRepository{DB: db}
	ctx := context.Background()

	for _, u := range []models.User{
		{Name: "A", Username: "root", Email: "root@example.com", PasswordHash: "x", Role: domain.RoleAdmin},
		{Name: "B", Username: "bob", Email: "bob@example.com", PasswordHash: "x"},
		{Name: "C", Username: "carol", Email: "carol@example.com", PasswordHash: "x"},
	} {
		require.NoError(t, repo.Create(ctx, &u))
	}

	page, err := repo.List(ctx, UserFilter{Role: "USER"}, mustOrder(t, "username desc"), mustPage(t, 1, 10))
	require.NoError(t, err)
	require.Len(t, page.Items, 2)
	assert.Equal(t, "carol", page.Items[0].Username)
	assert.Equal(t, "bob", page.Items[1].Username)
}

func TestCartItemsLifecycle(t *testing.T) {
	db := setupTestDB(t)
	_, products := seedCatalog(t, db)
	repo := CartRepository{DB: db}
	ctx := context.Background()

	cart := models.Cart{UserID: 7}
	require.NoError(t, repo.Create(ctx, &cart))

	item := models.CartItem{CartID: cart.ID, ProductID: products[0].ID, UnitPrice: products[0].Price, Quantity: 4}
	require.NoError(t, repo.SaveItem(ctx, &item))

	bad := models.CartItem{CartID: cart.ID, ProductID: products[1].ID, UnitPrice: products[1].Price, Quantity: 21}
	require.Error(t, repo.SaveItem(ctx, &bad), "quantity above the cap never reaches storage")

	dup := models.CartItem{CartID: cart.ID, ProductID: products[0].ID, UnitPrice: products[0].Price, Quantity: 1}
	assert.True(t, domain.IsConflict(repo.SaveItem(ctx, &dup)))

	loaded, err := repo.GetByID(ctx, cart.ID)
	require.NoError(t, err)
	require.Len(t, loaded.Items, 1)
	require.NotNil(t, loaded.Items[0].Product)
	assert.Equal(t, "Go in Action", loaded.Items[0].Product.Title)

	assert.True(t, domain.IsNotFound(repo.DeleteItem(ctx, cart.ID+1, item.ID)), "item must belong to the cart")
	require.NoError(t, repo.DeleteItem(ctx, cart.ID, item.ID))

	require.NoError(t, repo.SaveItem(ctx, &models.CartItem{CartID: cart.ID, ProductID: products[2].ID, UnitPrice: products[2].Price, Quantity: 2}))
	require.NoError(t, repo.Delete(ctx, cart.ID))

	var left int64
	require.NoError(t, db.Model(&models.CartItem{}).Count(&left).Error)
	assert.Zero(t, left)
	assert.True(t, domain.IsNotFound(repo.Delete(ctx, cart.ID)))
}

func TestCartListByUser(t *testing.T) {
	db := setupTestDB(t)
	repo := CartRepository{DB: db}
	ctx := context.Background()

	for _, uid := range []uint{1, 2, 1} {
		require.NoError(t, repo.Create(ctx, &models.Cart{UserID: uid}))
	}

	page, err := repo.List(ctx, CartFilter{UserID: 1}, mustOrder(t, "id desc"), mustPage(t, 1, 10))
	require.NoError(t, err)
	require.Len(t, page.Items, 2)
	assert.Greater(t, page.Items[0].ID, page.Items[1].ID)
}

func TestStorageFailureIsInternal(t *testing.T) {
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer sqlDB.Close()

	db, err := gorm.Open(mysql.New(mysql.Config{Conn: sqlDB, SkipInitializeWithVersion: true}), &gorm.Config{
		DisableAutomaticPing: true,
		Logger:               logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	mock.ExpectQuery("SELECT (.+) FROM `categories`").WillReturnError(assert.AnError)

	_, err = CategoryRepository{DB: db}.GetByID(context.Background(), 1)
	assert.True(t, domain.IsInternal(err))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCartGetForUpdateLocksRow(t *testing.T) {
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer sqlDB.Close()

	db, err := gorm.Open(mysql.New(mysql.Config{Conn: sqlDB, SkipInitializeWithVersion: true}), &gorm.Config{
		DisableAutomaticPing: true,
		Logger:               logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT (.+) FROM `carts` (.+) FOR UPDATE").
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id"}).AddRow(3, 7))
	mock.ExpectQuery("SELECT (.+) FROM `cart_items`").
		WillReturnRows(sqlmock.NewRows([]string{"id", "cart_id", "product_id", "unit_price", "quantity"}))
	mock.ExpectCommit()

	repo := CartRepository{DB: db}
	err = repo.WithTx(context.Background(), func(tx CartRepository) error {
		c, err := tx.GetForUpdate(context.Background(), 3)
		if err != nil {
			return err
		}
		assert.EqualValues(t, 7, c.UserID)
		return nil
	})
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestLikePatternEscapes(t *testing.T) {
	assert.Equal(t, "%50!%!_off!!%", likePattern(" 50%_OFF! "))
}
