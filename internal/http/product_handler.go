package httpapi

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/catalog"
)

type ProductService interface {
	List(ctx context.Context, f catalog.Filter) ([]catalog.Product, error)
	Get(ctx context.Context, id string) (catalog.Product, error)
	Categories(ctx context.Context) ([]string, error)
	Search(ctx context.Context, q catalog.Query) ([]catalog.Product, error)
}

type ProductHandler struct {
	svc     ProductService
	timeout time.Duration
}

func NewProductHandler(svc ProductService, timeout time.Duration) *ProductHandler {
	return &ProductHandler{svc: svc, timeout: timeout}
}

func (h *ProductHandler) List(w http.ResponseWriter, r *http.Request) {
	var f catalog.Filter
	f.Category = strings.TrimSpace(r.URL.Query().Get("category"))
	if raw := r.URL.Query().Get("inStock"); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			writeError(w, r, &catalog.ValidationError{Message: "Invalid inStock filter", Errors: []string{"inStock must be true or false"}}, "")
			return
		}
		f.InStock = &v
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	products, err := h.svc.List(ctx, f)
	if err != nil {
		writeError(w, r, err, "Failed to fetch products")
		return
	}
	writeList(w, products, "Products retrieved successfully")
}

func (h *ProductHandler) Get(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	p, err := h.svc.Get(ctx, chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err, "Failed to fetch product")
		return
	}
	writeSuccess(w, p, "Product retrieved successfully")
}

func (h *ProductHandler) Categories(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	categories, err := h.svc.Categories(ctx)
	if err != nil {
		writeError(w, r, err, "Failed to fetch categories")
		return
	}
	writeSuccess(w, categories, "Categories retrieved successfully")
}

func (h *ProductHandler) Search(w http.ResponseWriter, r *http.Request) {
	q := catalog.Query{Text: r.URL.Query().Get("q")}

	var bad []string
	q.MinPrice = parsePrice(r, "minPrice", &bad)
	q.MaxPrice = parsePrice(r, "maxPrice", &bad)
	if len(bad) > 0 {
		writeError(w, r, &catalog.ValidationError{Message: "Invalid price filter", Errors: bad}, "")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	products, err := h.svc.Search(ctx, q)
	if err != nil {
		writeError(w, r, err, "Failed to search products")
		return
	}
	writeList(w, products, fmt.Sprintf("Found %d products matching %q", len(products), strings.TrimSpace(q.Text)))
}

func parsePrice(r *http.Request, key string, bad *[]string) *float64 {
	raw := strings.TrimSpace(r.URL.Query().Get(key))
	if raw == "" {
		return nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || v < 0 {
		*bad = append(*bad, key+" must be a non-negative number")
		return nil
	}
	return &v
}
