package catalog

import (
	"context"
	"sort"
	"sync"

	"golang.org/x/text/cases"
)

type MemoryRepository struct {
	mu       sync.RWMutex
	products []Product
}

// NewMemoryRepository returns a repository holding a copy of products.
func NewMemoryRepository(products []Product) *MemoryRepository {
	r := &MemoryRepository{}
	r.set(products)
	return r
}

func (r *MemoryRepository) List(_ context.Context, f Filter) ([]Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := []Product{}
	for _, p := range r.products {
		if f.matches(p) {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *MemoryRepository) Get(_ context.Context, id string) (Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, p := range r.products {
		if p.ID == id {
			return p, nil
		}
	}
	return Product{}, ErrNotFound
}

func (r *MemoryRepository) Categories(_ context.Context) ([]string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	seen := make(map[string]struct{})
	out := []string{}
	for _, p := range r.products {
		if _, ok := seen[p.Category]; ok || p.Category == "" {
			continue
		}
		seen[p.Category] = struct{}{}
		out = append(out, p.Category)
	}
	sort.Strings(out)
	return out, nil
}

func (r *MemoryRepository) Search(_ context.Context, q Query) ([]Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	fold := cases.Fold()
	out := []Product{}
	for _, p := range r.products {
		if q.matches(p, fold) {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *MemoryRepository) ReplaceAll(_ context.Context, products []Product) error {
	r.set(products)
	return nil
}

func (r *MemoryRepository) set(products []Product) {
	sorted := make([]Product, len(products))
	copy(sorted, products)
	sortNewestFirst(sorted)

	r.mu.Lock()
	r.products = sorted
	r.mu.Unlock()
}

// sortNewestFirst orders by CreatedAt descending, breaking ties by id so results are stable.
func sortNewestFirst(products []Product) {
	sort.SliceStable(products, func(i, j int) bool {
		if !products[i].CreatedAt.Equal(products[j].CreatedAt) {
			return products[i].CreatedAt.After(products[j].CreatedAt)
		}
		return products[i].ID < products[j].ID
	})
}
