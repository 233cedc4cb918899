package catalog_test

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/catalog"
)

var productCols = []string{"id", "name", "price", "image", "description", "category", "rating", "in_stock", "created_at", "updated_at"}

func productRow(rows *pgxmock.Rows, p catalog.Product) *pgxmock.Rows {
	return rows.AddRow(p.ID, p.Name, p.Price, p.Image, p.Description, p.Category, p.Rating, p.InStock, p.CreatedAt, p.UpdatedAt)
}

func newMockPool(t *testing.T) pgxmock.PgxPoolIface {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)
	return mock
}

func TestPostgresRepositoryList(t *testing.T) {
	ctx := context.Background()
	seed := catalog.SeedProducts()
	inStock := true

	mock := newMockPool(t)
	rows := productRow(pgxmock.NewRows(productCols), seed[6])
	rows = productRow(rows, seed[0])
	mock.ExpectQuery(`FROM products WHERE category=\$1 AND in_stock=\$2 ORDER BY created_at DESC`).
		WithArgs("Electronics", true).
		WillReturnRows(rows)

	got, err := catalog.NewPostgresRepository(mock).List(ctx, catalog.Filter{Category: "Electronics", InStock: &inStock})
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "7", got[0].ID)
	assert.Equal(t, seed[0].CreatedAt, got[1].CreatedAt)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresRepositoryListUnfiltered(t *testing.T) {
	mock := newMockPool(t)
	mock.ExpectQuery(`FROM products ORDER BY created_at DESC`).
		WillReturnRows(pgxmock.NewRows(productCols))

	got, err := catalog.NewPostgresRepository(mock).List(context.Background(), catalog.Filter{})
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestPostgresRepositoryGet(t *testing.T) {
	ctx := context.Background()

	t.Run("found", func(t *testing.T) {
		mock := newMockPool(t)
		p := catalog.SeedProducts()[3]
		mock.ExpectQuery(`FROM products WHERE id=\$1`).
			WithArgs("4").
			WillReturnRows(productRow(pgxmock.NewRows(productCols), p))

		got, err := catalog.NewPostgresRepository(mock).Get(ctx, "4")
		require.NoError(t, err)
		assert.False(t, got.InStock)
		assert.Equal(t, p.Name, got.Name)
	})

	t.Run("missing", func(t *testing.T) {
		mock := newMockPool(t)
		mock.ExpectQuery(`FROM products WHERE id=\$1`).
			WithArgs("404").
			WillReturnError(pgx.ErrNoRows)

		_, err := catalog.NewPostgresRepository(mock).Get(ctx, "404")
		require.ErrorIs(t, err, catalog.ErrNotFound)
	})
}

func TestPostgresRepositoryCategories(t *testing.T) {
	mock := newMockPool(t)
	mock.ExpectQuery(`SELECT DISTINCT category FROM products`).
		WillReturnRows(pgxmock.NewRows([]string{"category"}).AddRow("Clothing").AddRow("Electronics"))

	got, err := catalog.NewPostgresRepository(mock).Categories(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"Clothing", "Electronics"}, got)
}

func TestPostgresRepositorySearchEscapesWildcards(t *testing.T) {
	mock := newMockPool(t)
	lo := 10.0
	mock.ExpectQuery(`ILIKE \$1 .* AND price >= \$2 ORDER BY`).
		WithArgs(`%100\%\_off%`, 10.0).
		WillReturnRows(pgxmock.NewRows(productCols))

	_, err := catalog.NewPostgresRepository(mock).Search(context.Background(), catalog.Query{Text: "100%_off", MinPrice: &lo})
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresRepositoryReplaceAll(t *testing.T) {
	mock := newMockPool(t)
	products := catalog.SeedProducts()[:2]
	created := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)

	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM products`).WillReturnResult(pgxmock.NewResult("DELETE", 10))
	mock.ExpectExec(`INSERT INTO products`).
		WithArgs("1", products[0].Name, 99.99, products[0].Image, products[0].Description, "Electronics", 4.5, true, created, created).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectExec(`INSERT INTO products`).
		WithArgs("2", pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectCommit()

	require.NoError(t, catalog.NewPostgresRepository(mock).ReplaceAll(context.Background(), products))
	require.NoError(t, mock.ExpectationsWereMet())
}
