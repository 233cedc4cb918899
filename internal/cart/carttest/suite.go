// Package carttest holds the behaviour every cart.Store must share.
package carttest

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/cart"
)

// RecordingPublisher captures checked-out carts.
type RecordingPublisher struct {
	Published []*cart.Cart
	Err       error
}

func (p *RecordingPublisher) PublishCartCheckedOut(_ context.Context, c *cart.Cart, _ cart.CheckoutMeta) error {
	if p.Err != nil {
		return p.Err
	}
	p.Published = append(p.Published, c)
	return nil
}

// RunStoreSuite runs the shared store contract and the cart update contract against stores built by newStore.
// Each subtest gets a fresh store.
func RunStoreSuite(t *testing.T, newStore func(t *testing.T) cart.Store) {
	t.Helper()

	ctx := context.Background()
	shirt := cart.Item{ID: "1", Name: "Classic White T-Shirt", Price: 29.99, Quantity: 1, Image: "https://example.com/shirt.jpg"}
	jeans := cart.Item{ID: "2", Name: "Denim Jeans", Price: 79.99, Quantity: 2}

	newService := func(t *testing.T) *cart.Service {
		return cart.NewService(newStore(t), &RecordingPublisher{}, zerolog.Nop())
	}

	t.Run("get missing cart", func(t *testing.T) {
		_, err := newStore(t).Get(ctx, "missing")
		require.True(t, errors.Is(err, cart.ErrNotFound), "got %v", err)
	})

	t.Run("put then get keeps item order", func(t *testing.T) {
		store := newStore(t)
		c := cart.New("c1")
		c.Items = []cart.Item{jeans, shirt}
		c.Recalculate()
		c.UpdatedAt = time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)
		require.NoError(t, store.Put(ctx, c))

		got, err := store.Get(ctx, "c1")
		require.NoError(t, err)
		require.Len(t, got.Items, 2)
		assert.Equal(t, "2", got.Items[0].ID)
		assert.Equal(t, "1", got.Items[1].ID)
		assert.Equal(t, shirt.Image, got.Items[1].Image)
		got.Recalculate()
		assert.Equal(t, 189.97, got.Total)
		assert.Equal(t, 3, got.ItemCount)
		assert.True(t, c.UpdatedAt.Equal(got.UpdatedAt.UTC()), "updatedAt %v", got.UpdatedAt)
	})

	t.Run("put overwrites", func(t *testing.T) {
		store := newStore(t)
		c := cart.New("c1")
		c.Items = []cart.Item{jeans, shirt}
		require.NoError(t, store.Put(ctx, c))

		c.Items = []cart.Item{shirt}
		require.NoError(t, store.Put(ctx, c))

		got, err := store.Get(ctx, "c1")
		require.NoError(t, err)
		require.Len(t, got.Items, 1)
		assert.Equal(t, "1", got.Items[0].ID)
	})

	t.Run("delete", func(t *testing.T) {
		store := newStore(t)
		require.NoError(t, store.Put(ctx, cart.New("c1")))
		require.NoError(t, store.Delete(ctx, "c1"))
		require.NoError(t, store.Delete(ctx, "c1"))

		_, err := store.Get(ctx, "c1")
		require.ErrorIs(t, err, cart.ErrNotFound)
	})

	t.Run("adding the same id twice sums quantities", func(t *testing.T) {
		svc := newService(t)
		_, err := svc.Add(ctx, shirt)
		require.NoError(t, err)
		again := shirt
		again.Quantity = 3
		c, err := svc.Add(ctx, again)
		require.NoError(t, err)

		require.Len(t, c.Items, 1)
		assert.Equal(t, 4, c.Items[0].Quantity)
		assert.Equal(t, 119.96, c.Total)
		assert.Equal(t, 4, c.ItemCount)

		stored, err := svc.Get(ctx)
		require.NoError(t, err)
		assert.Equal(t, c.Items, stored.Items)
	})

	t.Run("total follows every mutation", func(t *testing.T) {
		svc := newService(t)
		_, err := svc.Add(ctx, shirt)
		require.NoError(t, err)
		c, err := svc.Add(ctx, jeans)
		require.NoError(t, err)
		assert.Equal(t, 189.97, c.Total)

		c, err = svc.Update(ctx, "2", 1)
		require.NoError(t, err)
		assert.Equal(t, 109.98, c.Total)
		assert.Equal(t, 2, c.ItemCount)

		c, err = svc.Remove(ctx, "1")
		require.NoError(t, err)
		assert.Equal(t, 79.99, c.Total)
		assert.Equal(t, 1, c.ItemCount)
	})

	t.Run("remove", func(t *testing.T) {
		svc := newService(t)
		_, err := svc.Add(ctx, shirt)
		require.NoError(t, err)
		_, err = svc.Add(ctx, jeans)
		require.NoError(t, err)

		_, err = svc.Remove(ctx, "missing")
		require.ErrorIs(t, err, cart.ErrItemNotFound)

		c, err := svc.Remove(ctx, "1")
		require.NoError(t, err)
		require.Len(t, c.Items, 1)
		assert.Equal(t, "2", c.Items[0].ID)
	})

	t.Run("clear", func(t *testing.T) {
		svc := newService(t)
		_, err := svc.Add(ctx, jeans)
		require.NoError(t, err)

		c, err := svc.Clear(ctx)
		require.NoError(t, err)
		assert.Empty(t, c.Items)

		stored, err := svc.Get(ctx)
		require.NoError(t, err)
		assert.Empty(t, stored.Items)
		assert.Zero(t, stored.Total)
		assert.Zero(t, stored.ItemCount)
	})

	t.Run("quantity validation", func(t *testing.T) {
		svc := newService(t)
		_, err := svc.Add(ctx, shirt)
		require.NoError(t, err)

		for _, q := range []int{0, -1, 101} {
			_, err := svc.Update(ctx, "1", q)
			var verr *cart.ValidationError
			require.ErrorAs(t, err, &verr, "quantity %d", q)

			bad := jeans
			bad.Quantity = q
			_, err = svc.Add(ctx, bad)
			require.ErrorAs(t, err, &verr, "quantity %d", q)
		}

		c, err := svc.Get(ctx)
		require.NoError(t, err)
		require.Len(t, c.Items, 1)
		assert.Equal(t, 1, c.Items[0].Quantity)
	})

	t.Run("prices outside whole cents up to the ceiling are rejected", func(t *testing.T) {
		svc := newService(t)
		for _, price := range []float64{0.001, 19.999, cart.MaxPrice + 0.01, 1e10, 1e308} {
			bad := shirt
			bad.Price = price
			_, err := svc.Add(ctx, bad)
			var verr *cart.ValidationError
			require.ErrorAs(t, err, &verr, "price %v", price)
		}

		ok := shirt
		ok.Price = cart.MaxPrice
		c, err := svc.Add(ctx, ok)
		require.NoError(t, err)
		assert.Equal(t, cart.MaxPrice, c.Total)

		got, err := svc.Get(ctx)
		require.NoError(t, err)
		require.Len(t, got.Items, 1)
		assert.Equal(t, cart.MaxPrice, got.Items[0].Price)
	})

	t.Run("total ceiling leaves the cart unchanged", func(t *testing.T) {
		svc := newService(t)
		for i := 0; i < 10; i++ {
			it := cart.Item{ID: fmt.Sprintf("gold-%d", i), Name: "Gold Bar", Price: cart.MaxPrice, Quantity: cart.MaxQuantity}
			_, err := svc.Add(ctx, it)
			require.NoError(t, err)
		}

		_, err := svc.Add(ctx, cart.Item{ID: "gold-10", Name: "Gold Bar", Price: 0.01, Quantity: 1})
		var verr *cart.ValidationError
		require.ErrorAs(t, err, &verr)

		_, err = svc.Update(ctx, "gold-0", cart.MaxQuantity)
		require.NoError(t, err)

		c, err := svc.Get(ctx)
		require.NoError(t, err)
		assert.Len(t, c.Items, 10)
		assert.Equal(t, cart.MaxTotal, c.Total)
	})

	t.Run("reset deletes the stored cart", func(t *testing.T) {
		store := newStore(t)
		svc := cart.NewService(store, &RecordingPublisher{}, zerolog.Nop())
		_, err := svc.Add(ctx, shirt)
		require.NoError(t, err)

		require.NoError(t, svc.Reset(ctx))
		_, err = store.Get(ctx, cart.DefaultCartID)
		require.True(t, errors.Is(err, cart.ErrNotFound), "got %v", err)

		c, err := svc.Get(ctx)
		require.NoError(t, err)
		assert.Empty(t, c.Items)
	})
}
