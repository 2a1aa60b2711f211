package catalog

import (
	"context"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/avolkov/storefront/internal/models"
	"github.com/avolkov/storefront/internal/repo"
	"github.com/avolkov/storefront/internal/transport"
)

func newTestService(t *testing.T) *Service {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.Product{}, &models.Order{}, &models.OrderItem{}))
	return &Service{Repo: &repo.GormRepo{DB: db}}
}

func validCreate() transport.CreateProductRequest {
	return transport.CreateProductRequest{
		Name:        "ceramic mug",
		Description: "a mug made of ceramic",
		Price:       "12.50",
		Category:    "kitchen",
		ImageURL:    "https://example.com/mug.jpg",
		VendorID:    "vendor-a",
		Inventory:   10,
	}
}

func TestCreateProduct(t *testing.T) {
	t.Parallel()

	svc := newTestService(t)
	prod, err := svc.CreateProduct(context.Background(), validCreate())
	require.NoError(t, err)

	assert.Equal(t, "ceramic mug", prod.Name)
	assert.Equal(t, 12.5, prod.Price)
	assert.Equal(t, "kitchen", prod.Category)
	assert.Equal(t, 10, prod.Inventory)
}

func TestCreateProduct_Validation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		mutate func(*transport.CreateProductRequest)
	}{
		{name: "empty name", mutate: func(r *transport.CreateProductRequest) { r.Name = "  " }},
		{name: "empty description", mutate: func(r *transport.CreateProductRequest) { r.Description = "" }},
		{name: "empty category", mutate: func(r *transport.CreateProductRequest) { r.Category = "" }},
		{name: "malformed price", mutate: func(r *transport.CreateProductRequest) { r.Price = "12,50" }},
		{name: "non-numeric price", mutate: func(r *transport.CreateProductRequest) { r.Price = "free" }},
		{name: "negative price", mutate: func(r *transport.CreateProductRequest) { r.Price = "-3" }},
		{name: "negative inventory", mutate: func(r *transport.CreateProductRequest) { r.Inventory = -1 }},
		{name: "bad image url", mutate: func(r *transport.CreateProductRequest) { r.ImageURL = "not a url" }},
		{name: "ftp image url", mutate: func(r *transport.CreateProductRequest) { r.ImageURL = "ftp://example.com/x" }},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			svc := newTestService(t)
			req := validCreate()
			tt.mutate(&req)

			_, err := svc.CreateProduct(context.Background(), req)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrValidation)
		})
	}
}

func TestPatchProduct_Validation(t *testing.T) {
	t.Parallel()

	svc := newTestService(t)
	prod, err := svc.CreateProduct(context.Background(), validCreate())
	require.NoError(t, err)

	negative := -1.0
	_, err = svc.PatchProduct(context.Background(), transport.PatchProductRequest{Price: &negative}, prod.ID)
	assert.ErrorIs(t, err, ErrValidation)

	empty := " "
	_, err = svc.PatchProduct(context.Background(), transport.PatchProductRequest{Category: &empty}, prod.ID)
	assert.ErrorIs(t, err, ErrValidation)
}

func TestPatchProduct_NotFound(t *testing.T) {
	t.Parallel()

	svc := newTestService(t)
	name := "x"
	_, err := svc.PatchProduct(context.Background(), transport.PatchProductRequest{Name: &name}, uuid.New())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDeleteProduct_NotFound(t *testing.T) {
	t.Parallel()

	svc := newTestService(t)
	err := svc.DeleteProduct(context.Background(), uuid.New())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestListCategories(t *testing.T) {
	t.Parallel()

	svc := newTestService(t)
	ctx := context.Background()

	for _, category := range []string{"kitchen", "garden", "kitchen"} {
		req := validCreate()
		req.Category = category
		_, err := svc.CreateProduct(ctx, req)
		require.NoError(t, err)
	}

	categories, err := svc.ListCategories(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"kitchen", "garden"}, categories)
}
