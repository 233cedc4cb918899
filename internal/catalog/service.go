package catalog

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

type Service struct {
	repo   Repository
	logger zerolog.Logger
	now    func() time.Time
}

func NewService(repo Repository, logger zerolog.Logger) *Service {
	return &Service{
		repo:   repo,
		logger: logger.With().Str("component", "catalog").Logger(),
		now:    time.Now,
	}
}

// WithClock replaces the clock used to derive IsNew.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

func (s *Service) List(ctx context.Context, f Filter) ([]Product, error) {
	products, err := s.repo.List(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	return s.decorate(products), nil
}

func (s *Service) Get(ctx context.Context, id string) (Product, error) {
	if strings.TrimSpace(id) == "" {
		return Product{}, &ValidationError{Message: "Product ID is required"}
	}
	p, err := s.repo.Get(ctx, id)
	if err != nil {
		return Product{}, fmt.Errorf("get product %s: %w", id, err)
	}
	return p.withIsNew(s.now()), nil
}

func (s *Service) Categories(ctx context.Context) ([]string, error) {
	categories, err := s.repo.Categories(ctx)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	if categories == nil {
		categories = []string{}
	}
	return categories, nil
}

func (s *Service) Search(ctx context.Context, q Query) ([]Product, error) {
	q.Text = strings.TrimSpace(q.Text)
	if q.Text == "" {
		return nil, &ValidationError{Message: "Search query is required", Errors: []string{"Please provide a search term"}}
	}
	if q.MinPrice != nil && q.MaxPrice != nil && *q.MinPrice > *q.MaxPrice {
		return nil, &ValidationError{Message: "Invalid price range", Errors: []string{"minPrice cannot be greater than maxPrice"}}
	}

	products, err := s.repo.Search(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("search products: %w", err)
	}
	return s.decorate(products), nil
}

// Seed validates products and replaces the whole catalog with them.
func (s *Service) Seed(ctx context.Context, products []Product) error {
	for _, p := range products {
		if err := p.Validate(); err != nil {
			return fmt.Errorf("seed product %q: %w", p.ID, err)
		}
	}
	if err := s.repo.ReplaceAll(ctx, products); err != nil {
		return fmt.Errorf("replace catalog: %w", err)
	}
	s.logger.Info().Int("count", len(products)).Msg("catalog seeded")
	return nil
}

func (s *Service) decorate(products []Product) []Product {
	now := s.now()
	out := make([]Product, len(products))
	for i, p := range products {
		out[i] = p.withIsNew(now)
	}
	return out
}
