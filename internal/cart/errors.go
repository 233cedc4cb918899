package cart

import (
	"errors"
	"strings"
)

var (
	// ErrNotFound is returned by a Store when no cart is stored under the id.
	ErrNotFound = errors.New("cart not found")
	// ErrItemNotFound is returned when an operation targets an id that isn't in the cart.
	ErrItemNotFound = errors.New("item not found in cart")
	ErrEmptyCart    = errors.New("cart is empty")
)

// ValidationError carries every rule a request broke.
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

func invalid(message string, errs ...string) *ValidationError {
	return &ValidationError{Message: message, Errors: errs}
}
