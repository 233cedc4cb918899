package httpapi

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/cart"
)

type CartService interface {
	Get(ctx context.Context) (*cart.Cart, error)
	Item(ctx context.Context, id string) (cart.Item, error)
	Add(ctx context.Context, item cart.Item) (*cart.Cart, error)
	Update(ctx context.Context, id string, quantity int) (*cart.Cart, error)
	Remove(ctx context.Context, id string) (*cart.Cart, error)
	Clear(ctx context.Context) (*cart.Cart, error)
	Checkout(ctx context.Context, meta cart.CheckoutMeta) (*cart.Cart, error)
}

type CartHandler struct {
	svc     CartService
	timeout time.Duration
}

func NewCartHandler(svc CartService, timeout time.Duration) *CartHandler {
	return &CartHandler{svc: svc, timeout: timeout}
}

func (h *CartHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	c, err := h.svc.Get(ctx)
	if err != nil {
		writeError(w, r, err, "Failed to retrieve cart data")
		return
	}
	writeSuccess(w, c, "Cart retrieved successfully")
}

func (h *CartHandler) GetItem(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	it, err := h.svc.Item(ctx, chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err, "Failed to retrieve cart item")
		return
	}
	writeSuccess(w, it, "Cart item retrieved successfully")
}

func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	var body cart.Item
	if !decodeJSON(w, r, &body) {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	c, err := h.svc.Add(ctx, body)
	if err != nil {
		writeError(w, r, err, "Failed to add item to cart")
		return
	}
	writeSuccess(w, c, "Item added to cart successfully")
}

func (h *CartHandler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Quantity int `json:"quantity"`
	}
	if !decodeJSON(w, r, &body) {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	c, err := h.svc.Update(ctx, chi.URLParam(r, "id"), body.Quantity)
	if err != nil {
		writeError(w, r, err, "Failed to update cart item")
		return
	}
	writeSuccess(w, c, "Cart item updated successfully")
}

func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	c, err := h.svc.Remove(ctx, chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err, "Failed to remove item from cart")
		return
	}
	writeSuccess(w, c, "Item removed from cart successfully")
}

func (h *CartHandler) Clear(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	c, err := h.svc.Clear(ctx)
	if err != nil {
		writeError(w, r, err, "Failed to clear cart")
		return
	}
	writeSuccess(w, c, "Cart cleared successfully")
}

func (h *CartHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	meta := cart.CheckoutMeta{
		CorrelationID: GetCorrelationID(r.Context()),
		CausationID:   middleware.GetReqID(r.Context()),
	}
	c, err := h.svc.Checkout(ctx, meta)
	if err != nil {
		writeError(w, r, err, "Failed to check out cart")
		return
	}
	writeSuccess(w, c, "Checkout completed successfully")
}
