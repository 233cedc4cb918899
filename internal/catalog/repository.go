package catalog

import "context"

// Repository is the storage side of the catalog. List and Search return newest first.
type Repository interface {
	List(ctx context.Context, f Filter) ([]Product, error)
	Get(ctx context.Context, id string) (Product, error)
	Categories(ctx context.Context) ([]string, error)
	Search(ctx context.Context, q Query) ([]Product, error)
	ReplaceAll(ctx context.Context, products []Product) error
}
