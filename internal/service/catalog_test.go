package service

import (
	"context"
	"testing"

	"lasercraft-pos/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCatalogService(f *fakeStore) (*CatalogService, *fakeCache) {
	cache := newFakeCache()
	return NewCatalogService(f, cache, &fakeAudit{}), cache
}

func TestAddProductNormalizesName(t *testing.T) {
	f := newFakeStore()
	svc, _ := newTestCatalogService(f)

	p, err := svc.AddProduct(context.Background(), &ProductRequest{
		Name: "  Walnut Coaster ", Price: 10, Stock: 5,
	})
	require.NoError(t, err)
	assert.Equal(t, "walnut coaster", p.Name)
	assert.Equal(t, "uncategorized", p.Category)
}

func TestAddProductDuplicateName(t *testing.T) {
	f := newFakeStore()
	svc, _ := newTestCatalogService(f)
	ctx := context.Background()

	_, err := svc.AddProduct(ctx, &ProductRequest{Name: "walnut coaster", Price: 10, Stock: 5})
	require.NoError(t, err)

	// Collides after normalization.
	_, err = svc.AddProduct(ctx, &ProductRequest{Name: "Walnut Coaster", Price: 12, Stock: 1})
	assert.ErrorIs(t, err, models.ErrDuplicateName)
}

func TestAddProductNameFreeAfterSoftDelete(t *testing.T) {
	f := newFakeStore()
	svc, _ := newTestCatalogService(f)
	ctx := context.Background()

	p, err := svc.AddProduct(ctx, &ProductRequest{Name: "walnut coaster", Price: 10, Stock: 5})
	require.NoError(t, err)
	require.NoError(t, svc.DeleteProduct(ctx, p.ID))

	_, err = svc.AddProduct(ctx, &ProductRequest{Name: "walnut coaster", Price: 11, Stock: 2})
	assert.NoError(t, err)
}

func TestUpdateProductKeepsOwnName(t *testing.T) {
	f := newFakeStore()
	svc, _ := newTestCatalogService(f)
	ctx := context.Background()

	p, err := svc.AddProduct(ctx, &ProductRequest{Name: "walnut coaster", Price: 10, Stock: 5})
	require.NoError(t, err)

	// Re-saving under its own name is not a collision.
	_, err = svc.UpdateProduct(ctx, p.ID, &ProductRequest{Name: "walnut coaster", Price: 12, Stock: 8})
	require.NoError(t, err)
	assert.Equal(t, 12.0, f.product(p.ID).Price)

	other, err := svc.AddProduct(ctx, &ProductRequest{Name: "oak sign", Price: 25, Stock: 3})
	require.NoError(t, err)

	// Renaming onto another active product is.
	_, err = svc.UpdateProduct(ctx, other.ID, &ProductRequest{Name: "walnut coaster", Price: 25, Stock: 3})
	assert.ErrorIs(t, err, models.ErrDuplicateName)
}

func TestAddProductValidation(t *testing.T) {
	f := newFakeStore()
	svc, _ := newTestCatalogService(f)
	ctx := context.Background()

	_, err := svc.AddProduct(ctx, &ProductRequest{Name: "  ", Price: 10})
	assert.True(t, models.IsValidation(err), "blank name")

	_, err = svc.AddProduct(ctx, &ProductRequest{Name: "x", Price: -1})
	assert.True(t, models.IsValidation(err), "negative price")

	_, err = svc.AddProduct(ctx, &ProductRequest{Name: "x", Price: 1, Stock: -1})
	assert.True(t, models.IsValidation(err), "negative stock")
}

func TestStockLevelsServedFromCache(t *testing.T) {
	f := newFakeStore()
	svc, cache := newTestCatalogService(f)
	ctx := context.Background()

	p, err := svc.AddProduct(ctx, &ProductRequest{Name: "walnut coaster", Price: 10, Stock: 5})
	require.NoError(t, err)

	// AddProduct warmed the cache; mutate the cached value to prove the
	// read path prefers the cache.
	require.NoError(t, cache.SetStock(ctx, p.ID, 3))

	levels, err := svc.StockLevels(ctx)
	require.NoError(t, err)
	require.Len(t, levels, 1)
	assert.Equal(t, 3, levels[0].Stock)
}

func TestStockLevelsFallBackToStore(t *testing.T) {
	f := newFakeStore()
	id := f.addProduct("walnut coaster", 10, 5)
	svc, cache := newTestCatalogService(f)
	cache.broken = true

	levels, err := svc.StockLevels(context.Background())
	require.NoError(t, err)
	require.Len(t, levels, 1)
	assert.Equal(t, id, levels[0].ProductID)
	assert.Equal(t, 5, levels[0].Stock)
}

func TestDeleteProductDropsCacheEntry(t *testing.T) {
	f := newFakeStore()
	svc, cache := newTestCatalogService(f)
	ctx := context.Background()

	p, err := svc.AddProduct(ctx, &ProductRequest{Name: "walnut coaster", Price: 10, Stock: 5})
	require.NoError(t, err)
	require.NoError(t, svc.DeleteProduct(ctx, p.ID))

	cached, err := cache.GetAllStock(ctx)
	require.NoError(t, err)
	assert.NotContains(t, cached, p.ID)
}
