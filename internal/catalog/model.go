package catalog

import (
	"errors"
	"strings"
	"time"

	"golang.org/x/text/cases"
)

// NewWindow is how long after creation a product is flagged as new.
const NewWindow = 10 * 24 * time.Hour

var ErrNotFound = errors.New("product not found")

type Product struct {
	ID          string    `json:"id" bson:"_id"`
	Name        string    `json:"name" bson:"name"`
	Price       float64   `json:"price" bson:"price"`
	Image       string    `json:"image" bson:"image"`
	Description string    `json:"description" bson:"description"`
	Category    string    `json:"category" bson:"category"`
	Rating      float64   `json:"rating" bson:"rating"`
	InStock     bool      `json:"inStock" bson:"inStock"`
	CreatedAt   time.Time `json:"createdAt" bson:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt" bson:"updatedAt"`
	IsNew       bool      `json:"isNew" bson:"-"`
}

// Validate checks the fields a stored product must always satisfy.
func (p Product) Validate() error {
	var errs []string
	if strings.TrimSpace(p.ID) == "" {
		errs = append(errs, "Product ID is required")
	}
	if strings.TrimSpace(p.Name) == "" {
		errs = append(errs, "Product name is required")
	}
	if p.Price <= 0 {
		errs = append(errs, "Product price must be a positive number")
	}
	if p.Rating < 0 || p.Rating > 5 {
		errs = append(errs, "Product rating must be between 0 and 5")
	}
	if len(errs) > 0 {
		return &ValidationError{Message: "Invalid product data", Errors: errs}
	}
	return nil
}

func (p Product) withIsNew(now time.Time) Product {
	p.IsNew = p.CreatedAt.After(now.Add(-NewWindow))
	return p
}

// Filter narrows List. Zero values match everything.
type Filter struct {
	Category string
	InStock  *bool
}

func (f Filter) matches(p Product) bool {
	if f.Category != "" && p.Category != f.Category {
		return false
	}
	if f.InStock != nil && p.InStock != *f.InStock {
		return false
	}
	return true
}

// Query is a case-insensitive literal match on name, description and category,
// optionally bounded by price.
type Query struct {
	Text     string
	MinPrice *float64
	MaxPrice *float64
}

// matches compares Unicode case-folded text. A Caser is stateful, so callers pass one per goroutine.
func (q Query) matches(p Product, fold cases.Caser) bool {
	if q.MinPrice != nil && p.Price < *q.MinPrice {
		return false
	}
	if q.MaxPrice != nil && p.Price > *q.MaxPrice {
		return false
	}
	needle := fold.String(q.Text)
	return strings.Contains(fold.String(p.Name), needle) ||
		strings.Contains(fold.String(p.Description), needle) ||
		strings.Contains(fold.String(p.Category), needle)
}

type ValidationError struct {
	Message string
	Errors  []string
}

func (e *ValidationError) Error() string {
	if len(e.Errors) == 0 {
		return e.Message
	}
	return e.Message + ": " + strings.Join(e.Errors, "; ")
}
