package repo

import (
	"context"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/avolkov/storefront/internal/models"
	"github.com/avolkov/storefront/internal/transport"
)

func newTestRepo(t *testing.T) *GormRepo {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.Product{}, &models.Order{}, &models.OrderItem{}))
	return &GormRepo{DB: db}
}

func seedProduct(t *testing.T, r *GormRepo, name, category, vendor string, price float64, inventory int) *models.Product {
	t.Helper()

	prod := &models.Product{
		Name:        name,
		Description: "test product",
		Price:       price,
		Category:    category,
		VendorID:    vendor,
		Inventory:   inventory,
	}
	created, err := r.CreateProduct(context.Background(), prod)
	require.NoError(t, err)
	return created
}

func TestGormRepo_ProductCRUD(t *testing.T) {
	t.Parallel()

	r := newTestRepo(t)
	ctx := context.Background()

	created := seedProduct(t, r, "lamp", "lighting", "vendor-a", 19.5, 4)
	require.NotEqual(t, uuid.Nil, created.ID)

	got, err := r.GetProduct(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "lamp", got.Name)
	assert.Equal(t, 19.5, got.Price)
	assert.Equal(t, 4, got.Inventory)

	newName := "desk lamp"
	newPrice := 21.0
	patched, err := r.PatchProduct(ctx, transport.PatchProductRequest{Name: &newName, Price: &newPrice}, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "desk lamp", patched.Name)
	assert.Equal(t, 21.0, patched.Price)
	assert.Equal(t, "lighting", patched.Category, "unset fields stay untouched")

	require.NoError(t, r.DeleteProduct(ctx, created.ID))
	_, err = r.GetProduct(ctx, created.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestGormRepo_GetProductNotFound(t *testing.T) {
	t.Parallel()

	r := newTestRepo(t)
	_, err := r.GetProduct(context.Background(), uuid.New())
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestGormRepo_DeleteProductNotFound(t *testing.T) {
	t.Parallel()

	r := newTestRepo(t)
	err := r.DeleteProduct(context.Background(), uuid.New())
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestGormRepo_GetProductsPagination(t *testing.T) {
	t.Parallel()

	r := newTestRepo(t)
	ctx := context.Background()

	seedProduct(t, r, "a", "c1", "v", 1, 1)
	seedProduct(t, r, "b", "c1", "v", 2, 1)
	seedProduct(t, r, "c", "c2", "v", 3, 1)

	total, items, err := r.GetProducts(ctx, 0, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	require.Len(t, items, 2)
	assert.Equal(t, "a", items[0].Name)
	assert.Equal(t, "b", items[1].Name)

	_, rest, err := r.GetProducts(ctx, 2, 2)
	require.NoError(t, err)
	require.Len(t, rest, 1)
	assert.Equal(t, "c", rest[0].Name)
}

func TestGormRepo_DecrementInventory(t *testing.T) {
	t.Parallel()

	r := newTestRepo(t)
	ctx := context.Background()

	prod := seedProduct(t, r, "lamp", "lighting", "vendor-a", 10, 5)

	require.NoError(t, r.DecrementInventory(ctx, prod.ID, 3))

	got, err := r.GetProduct(ctx, prod.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, got.Inventory)
}

func TestGormRepo_DecrementInventoryInsufficient(t *testing.T) {
	t.Parallel()

	r := newTestRepo(t)
	ctx := context.Background()

	prod := seedProduct(t, r, "lamp", "lighting", "vendor-a", 10, 2)

	err := r.DecrementInventory(ctx, prod.ID, 3)
	assert.ErrorIs(t, err, ErrInsufficientStock)

	got, getErr := r.GetProduct(ctx, prod.ID)
	require.NoError(t, getErr)
	assert.Equal(t, 2, got.Inventory, "a rejected decrement must not change stock")
}

func TestGormRepo_DecrementInventoryExactStockThenEmpty(t *testing.T) {
	t.Parallel()

	r := newTestRepo(t)
	ctx := context.Background()

	prod := seedProduct(t, r, "lamp", "lighting", "vendor-a", 10, 2)

	require.NoError(t, r.DecrementInventory(ctx, prod.ID, 2))
	assert.ErrorIs(t, r.DecrementInventory(ctx, prod.ID, 1), ErrInsufficientStock)
}

func TestGormRepo_DecrementInventoryMissingProduct(t *testing.T) {
	t.Parallel()

	r := newTestRepo(t)
	err := r.DecrementInventory(context.Background(), uuid.New(), 1)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestGormRepo_ListCategories(t *testing.T) {
	t.Parallel()

	r := newTestRepo(t)
	ctx := context.Background()

	seedProduct(t, r, "a", "lighting", "v", 1, 1)
	seedProduct(t, r, "b", "furniture", "v", 2, 1)
	seedProduct(t, r, "c", "lighting", "v", 3, 1)
	// Dedup is case-sensitive: a differently cased label is distinct.
	seedProduct(t, r, "d", "Lighting", "v", 4, 1)

	categories, err := r.ListCategories(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"lighting", "furniture", "Lighting"}, categories)
}

func TestGormRepo_ListCategoriesEmptyCatalog(t *testing.T) {
	t.Parallel()

	r := newTestRepo(t)
	categories, err := r.ListCategories(context.Background())
	require.NoError(t, err)
	assert.Empty(t, categories)
}
