package cart

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// CheckoutMeta carries tracing identifiers from the request that triggered a checkout.
type CheckoutMeta struct {
	CorrelationID string
	CausationID   string
}

type Publisher interface {
	PublishCartCheckedOut(ctx context.Context, c *Cart, meta CheckoutMeta) error
}

// Service implements the cart update contract on top of a Store.
// Mutations are serialised so a read-modify-write never interleaves with another one
// inside this process.
type Service struct {
	store  Store
	pub    Publisher
	logger zerolog.Logger
	cartID string
	now    func() time.Time

	mu sync.Mutex
}

type Option func(*Service)

// WithCartID scopes the service to a cart other than DefaultCartID.
func WithCartID(id string) Option {
	return func(s *Service) { s.cartID = id }
}

func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

func NewService(store Store, pub Publisher, logger zerolog.Logger, opts ...Option) *Service {
	s := &Service{
		store:  store,
		pub:    pub,
		logger: logger.With().Str("component", "cart").Logger(),
		cartID: DefaultCartID,
		now:    func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Get returns the cart, creating and persisting an empty one on first access.
func (s *Service) Get(ctx context.Context) (*Cart, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, created, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	if created {
		if err := s.save(ctx, c); err != nil {
			return nil, err
		}
	}
	return c, nil
}

func (s *Service) Item(ctx context.Context, id string) (Item, error) {
	if strings.TrimSpace(id) == "" {
		return Item{}, invalid("Item ID is required")
	}

	c, err := s.Get(ctx)
	if err != nil {
		return Item{}, err
	}
	idx := c.indexOf(id)
	if idx == -1 {
		return Item{}, ErrItemNotFound
	}
	return c.Items[idx], nil
}

// Add merges the item into the cart: an existing id accumulates quantity, a new id is appended.
func (s *Service) Add(ctx context.Context, item Item) (*Cart, error) {
	if err := validateItem(item); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	c, _, err := s.load(ctx)
	if err != nil {
		return nil, err
	}

	if idx := c.indexOf(item.ID); idx != -1 {
		merged := c.Items[idx].Quantity + item.Quantity
		if merged > MaxQuantity {
			return nil, invalid(fmt.Sprintf("Total quantity cannot exceed %d for a single item", MaxQuantity))
		}
		c.Items[idx].Quantity = merged
	} else {
		c.Items = append(c.Items, item)
	}
	if err := checkTotal(c); err != nil {
		return nil, err
	}

	if err := s.save(ctx, c); err != nil {
		return nil, err
	}
	s.logger.Debug().Str("item_id", item.ID).Int("quantity", item.Quantity).Msg("item added")
	return c, nil
}

// Update replaces the quantity of an existing item. Quantities outside [1,100] are rejected;
// removal goes through Remove.
func (s *Service) Update(ctx context.Context, id string, quantity int) (*Cart, error) {
	if strings.TrimSpace(id) == "" {
		return nil, invalid("Item ID is required")
	}
	if quantity < MinQuantity {
		return nil, invalid("Quantity must be a positive number")
	}
	if quantity > MaxQuantity {
		return nil, invalid(fmt.Sprintf("Quantity cannot exceed %d", MaxQuantity))
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	c, _, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	idx := c.indexOf(id)
	if idx == -1 {
		return nil, ErrItemNotFound
	}
	c.Items[idx].Quantity = quantity
	if err := checkTotal(c); err != nil {
		return nil, err
	}

	if err := s.save(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *Service) Remove(ctx context.Context, id string) (*Cart, error) {
	if strings.TrimSpace(id) == "" {
		return nil, invalid("Item ID is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	c, _, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	idx := c.indexOf(id)
	if idx == -1 {
		return nil, ErrItemNotFound
	}
	c.Items = append(c.Items[:idx], c.Items[idx+1:]...)

	if err := s.save(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

// Reset deletes the stored cart. The next access starts from an empty one.
func (s *Service) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.store.Delete(ctx, s.cartID); err != nil {
		return fmt.Errorf("delete cart: %w", err)
	}
	s.logger.Info().Str("cart_id", s.cartID).Msg("cart reset")
	return nil
}

func (s *Service) Clear(ctx context.Context) (*Cart, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c := New(s.cartID)
	if err := s.save(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

// Checkout publishes a CartCheckedOut event for the current cart and then clears it.
// The returned cart is the snapshot that was checked out.
func (s *Service) Checkout(ctx context.Context, meta CheckoutMeta) (*Cart, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, _, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	if len(c.Items) == 0 {
		return nil, ErrEmptyCart
	}

	snapshot := c.Clone()
	if err := s.pub.PublishCartCheckedOut(ctx, snapshot, meta); err != nil {
		return nil, fmt.Errorf("publish cart checked out: %w", err)
	}

	if err := s.save(ctx, New(s.cartID)); err != nil {
		return nil, err
	}

	s.logger.Info().
		Str("correlation_id", meta.CorrelationID).
		Int("item_count", snapshot.ItemCount).
		Float64("total", snapshot.Total).
		Msg("cart checked out")
	return snapshot, nil
}

func (s *Service) load(ctx context.Context) (*Cart, bool, error) {
	c, err := s.store.Get(ctx, s.cartID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return New(s.cartID), true, nil
		}
		return nil, false, fmt.Errorf("load cart: %w", err)
	}
	c.ID = s.cartID
	c.Recalculate()
	return c, false, nil
}

func (s *Service) save(ctx context.Context, c *Cart) error {
	c.Recalculate()
	c.UpdatedAt = s.now()
	if err := s.store.Put(ctx, c); err != nil {
		return fmt.Errorf("save cart: %w", err)
	}
	return nil
}

// checkTotal recomputes c and rejects a total no backend can store.
func checkTotal(c *Cart) error {
	c.Recalculate()
	if math.IsInf(c.Total, 0) || math.IsNaN(c.Total) || c.Total > MaxTotal {
		return invalid(fmt.Sprintf("Cart total cannot exceed %.2f", MaxTotal))
	}
	return nil
}

func validateItem(item Item) error {
	var errs []string
	if strings.TrimSpace(item.ID) == "" {
		errs = append(errs, "Item ID is required and must be a string")
	}
	if strings.TrimSpace(item.Name) == "" {
		errs = append(errs, "Item name is required and must be a string")
	}
	switch {
	case !(item.Price > 0):
		errs = append(errs, "Item price is required and must be a positive number")
	case item.Price > MaxPrice:
		errs = append(errs, fmt.Sprintf("Item price cannot exceed %.2f", MaxPrice))
	case !wholeCents(item.Price):
		errs = append(errs, "Item price must have at most two decimal places")
	}
	if item.Quantity < MinQuantity {
		errs = append(errs, "Item quantity is required and must be a positive number")
	}
	if item.Quantity > MaxQuantity {
		errs = append(errs, fmt.Sprintf("Item quantity cannot exceed %d", MaxQuantity))
	}
	if len(errs) > 0 {
		return invalid("Invalid cart item data", errs...)
	}
	return nil
}
