package cart

import "context"

// Store persists whole carts. Get returns ErrNotFound for an unknown id.
type Store interface {
	Get(ctx context.Context, cartID string) (*Cart, error)
	Put(ctx context.Context, c *Cart) error
	Delete(ctx context.Context, cartID string) error
}
