// Package catalogtest holds the behaviour every catalog.Repository must share.
package catalogtest

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/catalog"
)

func ids(products []catalog.Product) []string {
	out := make([]string, len(products))
	for i, p := range products {
		out[i] = p.ID
	}
	return out
}

func ptr[T any](v T) *T { return &v }

// RunRepositorySuite seeds a fresh repository from newRepo with catalog.SeedProducts and checks the read contract.
func RunRepositorySuite(t *testing.T, newRepo func(t *testing.T) catalog.Repository) {
	t.Helper()
	ctx := context.Background()

	seeded := func(t *testing.T) catalog.Repository {
		repo := newRepo(t)
		require.NoError(t, repo.ReplaceAll(ctx, catalog.SeedProducts()))
		return repo
	}

	t.Run("list newest first", func(t *testing.T) {
		got, err := seeded(t).List(ctx, catalog.Filter{})
		require.NoError(t, err)
		assert.Equal(t, []string{"10", "9", "8", "7", "6", "5", "4", "3", "2", "1"}, ids(got))
	})

	t.Run("list by category", func(t *testing.T) {
		got, err := seeded(t).List(ctx, catalog.Filter{Category: "Electronics"})
		require.NoError(t, err)
		assert.Equal(t, []string{"7", "5", "2", "1"}, ids(got))
	})

	t.Run("list by stock", func(t *testing.T) {
		repo := seeded(t)
		got, err := repo.List(ctx, catalog.Filter{InStock: ptr(false)})
		require.NoError(t, err)
		assert.Equal(t, []string{"4"}, ids(got))

		got, err = repo.List(ctx, catalog.Filter{Category: "Home & Garden", InStock: ptr(true)})
		require.NoError(t, err)
		assert.Equal(t, []string{"9"}, ids(got))
	})

	t.Run("get", func(t *testing.T) {
		repo := seeded(t)
		p, err := repo.Get(ctx, "3")
		require.NoError(t, err)
		assert.Equal(t, "Organic Cotton T-Shirt", p.Name)
		assert.Equal(t, 29.99, p.Price)
		assert.Equal(t, "Clothing", p.Category)

		_, err = repo.Get(ctx, "404")
		require.ErrorIs(t, err, catalog.ErrNotFound)
	})

	t.Run("categories distinct and sorted", func(t *testing.T) {
		got, err := seeded(t).Categories(ctx)
		require.NoError(t, err)
		assert.Equal(t, []string{"Accessories", "Clothing", "Electronics", "Home & Garden", "Sports & Fitness"}, got)
	})

	t.Run("search is case insensitive across fields", func(t *testing.T) {
		repo := seeded(t)
		got, err := repo.Search(ctx, catalog.Query{Text: "BLUETOOTH"})
		require.NoError(t, err)
		assert.Equal(t, []string{"7", "1"}, ids(got))

		got, err = repo.Search(ctx, catalog.Query{Text: "fitness"})
		require.NoError(t, err)
		assert.Equal(t, []string{"10", "8", "2"}, ids(got))
	})

	t.Run("search treats input literally", func(t *testing.T) {
		repo := seeded(t)
		for _, text := range []string{".*", "a_b", "(", `\`} {
			got, err := repo.Search(ctx, catalog.Query{Text: text})
			require.NoError(t, err, text)
			assert.Empty(t, got, text)
		}

		for _, text := range []string{"%", "100%"} {
			got, err := repo.Search(ctx, catalog.Query{Text: text})
			require.NoError(t, err, text)
			assert.Equal(t, []string{"3"}, ids(got), text)
		}
	})

	t.Run("search price bounds", func(t *testing.T) {
		got, err := seeded(t).Search(ctx, catalog.Query{Text: "electronics", MinPrice: ptr(50.0), MaxPrice: ptr(100.0)})
		require.NoError(t, err)
		assert.Equal(t, []string{"7", "1"}, ids(got))
	})

	t.Run("replace all", func(t *testing.T) {
		repo := seeded(t)
		only := catalog.SeedProducts()[:1]
		require.NoError(t, repo.ReplaceAll(ctx, only))

		got, err := repo.List(ctx, catalog.Filter{})
		require.NoError(t, err)
		assert.Equal(t, []string{"1"}, ids(got))
	})
}
