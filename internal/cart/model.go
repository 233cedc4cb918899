package cart

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	// DefaultCartID identifies the single storefront cart.
	DefaultCartID = "default"

	MinQuantity = 1
	MaxQuantity = 100

	// Prices are whole cents up to MaxPrice and a cart total stays below MaxTotal, so every
	// backend (Postgres stores NUMERIC(12,2) and NUMERIC(14,2)) round-trips the same amounts.
	MaxPrice = 1_000_000.0
	MaxTotal = 1_000_000_000.0
)

type Item struct {
	ID       string  `json:"id" bson:"id"`
	Name     string  `json:"name" bson:"name"`
	Price    float64 `json:"price" bson:"price"`
	Quantity int     `json:"quantity" bson:"quantity"`
	Image    string  `json:"image,omitempty" bson:"image,omitempty"`
}

type Cart struct {
	ID        string    `json:"-" bson:"_id"`
	Items     []Item    `json:"items" bson:"items"`
	Total     float64   `json:"total" bson:"total"`
	ItemCount int       `json:"itemCount" bson:"itemCount"`
	UpdatedAt time.Time `json:"updatedAt" bson:"updatedAt"`
}

// New returns an empty cart with the given id.
func New(id string) *Cart {
	return &Cart{
		ID:        id,
		Items:     []Item{},
		UpdatedAt: time.Now().UTC(),
	}
}

// Recalculate derives Total and ItemCount from Items. Stored totals are never trusted.
func (c *Cart) Recalculate() {
	if c.Items == nil {
		c.Items = []Item{}
	}

	total := decimal.Zero
	count := 0
	for _, it := range c.Items {
		line := decimal.NewFromFloat(it.Price).Mul(decimal.NewFromInt(int64(it.Quantity)))
		total = total.Add(line)
		count += it.Quantity
	}

	c.Total = total.Round(2).InexactFloat64()
	c.ItemCount = count
}

// wholeCents reports whether p has no more than two decimal places.
func wholeCents(p float64) bool {
	d := decimal.NewFromFloat(p)
	return d.Equal(d.Round(2))
}

func (c *Cart) indexOf(id string) int {
	for i := range c.Items {
		if c.Items[i].ID == id {
			return i
		}
	}
	return -1
}

// Clone returns a deep copy so callers can't mutate a stored cart through a shared slice.
func (c *Cart) Clone() *Cart {
	if c == nil {
		return nil
	}
	cp := *c
	cp.Items = make([]Item, len(c.Items))
	copy(cp.Items, c.Items)
	return &cp
}
