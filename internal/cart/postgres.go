package cart

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// DBPool matches the methods from *pgxpool.Pool that we use.
// This allows us to mock the database in tests.
type DBPool interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	BeginTx(ctx context.Context, txOptions pgx.TxOptions) (pgx.Tx, error)
}

type PostgresStore struct {
	pool DBPool
}

func NewPostgresStore(pool DBPool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

func (s *PostgresStore) Get(ctx context.Context, cartID string) (*Cart, error) {
	c := &Cart{ID: cartID, Items: []Item{}}

	err := s.pool.QueryRow(ctx, `SELECT updated_at FROM carts WHERE id=$1`, cartID).Scan(&c.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("select cart: %w", err)
	}

	rows, err := s.pool.Query(ctx, `
		SELECT product_id, name, price, quantity, image
		FROM cart_items
		WHERE cart_id=$1
		ORDER BY position
	`, cartID)
	if err != nil {
		return nil, fmt.Errorf("select cart items: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var it Item
		if err := rows.Scan(&it.ID, &it.Name, &it.Price, &it.Quantity, &it.Image); err != nil {
			return nil, fmt.Errorf("scan cart item: %w", err)
		}
		c.Items = append(c.Items, it)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate cart items: %w", err)
	}

	c.Recalculate()
	return c, nil
}

// Put replaces the cart row and all of its items in one transaction.
func (s *PostgresStore) Put(ctx context.Context, c *Cart) error {
	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	_, err = tx.Exec(ctx, `
		INSERT INTO carts (id, total, item_count, updated_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (id) DO UPDATE
		SET total=EXCLUDED.total, item_count=EXCLUDED.item_count, updated_at=EXCLUDED.updated_at
	`, c.ID, c.Total, c.ItemCount, c.UpdatedAt)
	if err != nil {
		return fmt.Errorf("upsert cart: %w", err)
	}

	if _, err := tx.Exec(ctx, `DELETE FROM cart_items WHERE cart_id=$1`, c.ID); err != nil {
		return fmt.Errorf("delete cart items: %w", err)
	}

	for i, it := range c.Items {
		_, err := tx.Exec(ctx, `
			INSERT INTO cart_items (cart_id, product_id, position, name, price, quantity, image)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
		`, c.ID, it.ID, i, it.Name, it.Price, it.Quantity, it.Image)
		if err != nil {
			return fmt.Errorf("insert cart item: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

func (s *PostgresStore) Delete(ctx context.Context, cartID string) error {
	if _, err := s.pool.Exec(ctx, `DELETE FROM carts WHERE id=$1`, cartID); err != nil {
		return fmt.Errorf("delete cart: %w", err)
	}
	return nil
}
