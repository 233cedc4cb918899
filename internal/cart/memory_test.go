package cart_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/cart"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/cart/carttest"
)

func TestMemoryStore(t *testing.T) {
	carttest.RunStoreSuite(t, func(t *testing.T) cart.Store {
		return cart.NewMemoryStore()
	})
}

func TestMemoryStoreReturnsCopies(t *testing.T) {
	ctx := context.Background()
	store := cart.NewMemoryStore()

	c := cart.New("c1")
	c.Items = []cart.Item{{ID: "1", Name: "Shirt", Price: 10, Quantity: 1}}
	require.NoError(t, store.Put(ctx, c))
	c.Items[0].Quantity = 50

	got, err := store.Get(ctx, "c1")
	require.NoError(t, err)
	got.Items[0].Quantity = 70

	again, err := store.Get(ctx, "c1")
	require.NoError(t, err)
	require.Equal(t, 1, again.Items[0].Quantity)
}
