package repos_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront/internal/domain"
	"storefront/internal/repos"
)

func openTestDB(t *testing.T) *repos.ProductRepo {
	t.Helper()
	db, err := repos.OpenDB(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return repos.NewProductRepo(db)
}

func TestProductRepoLifecycle(t *testing.T) {
	r := openTestDB(t)
	ctx := context.Background()

	created, err := r.Create(ctx, domain.Product{Name: "Pen", Category: "Stationery", Price: 12.5, Quantity: 4})
	require.NoError(t, err)
	require.NotEmpty(t, created.ID)
	assert.Equal(t, 12.5, created.Price)

	got, err := r.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created, got)

	got.Description = "Refillable"
	got.Price = 15
	replaced, err := r.Replace(ctx, created.ID, got)
	require.NoError(t, err)
	assert.Equal(t, "Refillable", replaced.Description)
	assert.Equal(t, float64(15), replaced.Price)

	patched, err := r.SetQuantity(ctx, created.ID, 1)
	require.NoError(t, err)
	assert.Equal(t, 1, patched.Quantity)
	assert.Equal(t, "Refillable", patched.Description)

	all, err := r.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)

	require.NoError(t, r.Delete(ctx, created.ID))
	_, err = r.Get(ctx, created.ID)
	assert.ErrorIs(t, err, repos.ErrProductNotFound)
	assert.ErrorIs(t, r.Delete(ctx, created.ID), repos.ErrProductNotFound)
}

func TestProductRepoMissing(t *testing.T) {
	r := openTestDB(t)
	ctx := context.Background()

	_, err := r.Replace(ctx, "77", domain.Product{Name: "Ghost"})
	assert.ErrorIs(t, err, repos.ErrProductNotFound)
	_, err = r.SetQuantity(ctx, "77", 3)
	assert.ErrorIs(t, err, repos.ErrProductNotFound)
}

func TestProductRepoRejectsNegativeStock(t *testing.T) {
	r := openTestDB(t)
	ctx := context.Background()
	created, err := r.Create(ctx, domain.Product{Name: "Pen", Price: 1, Quantity: 1})
	require.NoError(t, err)

	_, err = r.SetQuantity(ctx, created.ID, -1)
	assert.Error(t, err)
}

func TestOrderRepoCreateAndList(t *testing.T) {
	db, err := repos.OpenDB(":memory:")
	require.NoError(t, err)
	defer db.Close()
	orders := repos.NewOrderRepo(db)
	ctx := context.Background()

	for _, name := range []string{"Pen", "Lamp"} {
		_, err := orders.Create(ctx, domain.OrderRecord{ProductID: "1", Name: name, Quantity: 2, Price: 10, Date: "2026-01-02T03:04:05Z"})
		require.NoError(t, err)
	}
	latest, err := orders.ListLatest(ctx, 1)
	require.NoError(t, err)
	require.Len(t, latest, 1)
	assert.Equal(t, "Lamp", latest[0].Name)
	assert.Equal(t, domain.ProductID("1"), latest[0].ProductID)
}

func TestSeedIfEmpty(t *testing.T) {
	db, err := repos.OpenDB(":memory:")
	require.NoError(t, err)
	defer db.Close()

	require.NoError(t, repos.SeedIfEmpty(db))
	require.NoError(t, repos.SeedIfEmpty(db))
	all, err := repos.NewProductRepo(db).List(context.Background())
	require.NoError(t, err)
	assert.Len(t, all, 4)
}
