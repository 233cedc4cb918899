package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/cart"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/catalog"
)

// maxBodyBytes caps request bodies.
const maxBodyBytes = 1 << 20

// Envelope is the JSON wrapper every /api response uses.
type Envelope struct {
	Success   bool   `json:"success"`
	Data      any    `json:"data,omitempty"`
	Message   string `json:"message,omitempty"`
	Error     string `json:"error,omitempty"`
	Details   any    `json:"details,omitempty"`
	Count     *int   `json:"count,omitempty"`
	Timestamp string `json:"timestamp"`
}

type validationDetails struct {
	ValidationErrors []string `json:"validationErrors"`
}

func timestamp() string {
	return time.Now().UTC().Format(time.RFC3339Nano)
}

// writeJSON encodes v before touching the response so a value that can't be encoded
// becomes an enveloped 500 instead of a status line with an empty body.
func writeJSON(w http.ResponseWriter, status int, v any) {
	body, err := json.Marshal(v)
	if err != nil {
		status = http.StatusInternalServerError
		body, _ = json.Marshal(Envelope{
			Success:   false,
			Error:     "Failed to encode response",
			Message:   "Internal server error",
			Timestamp: timestamp(),
		})
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(append(body, '\n'))
}

func writeSuccess(w http.ResponseWriter, data any, message string) {
	writeJSON(w, http.StatusOK, Envelope{Success: true, Data: data, Message: message, Timestamp: timestamp()})
}

func writeList[T any](w http.ResponseWriter, items []T, message string) {
	n := len(items)
	writeJSON(w, http.StatusOK, Envelope{Success: true, Data: items, Message: message, Count: &n, Timestamp: timestamp()})
}

func writeFailure(w http.ResponseWriter, status int, errMsg, message string, details any) {
	writeJSON(w, status, Envelope{Success: false, Error: errMsg, Message: message, Details: details, Timestamp: timestamp()})
}

// writeError maps domain errors to status codes. Anything unrecognised is a 500 whose cause is
// logged under the request's logger and replaced by fallback in the response.
func writeError(w http.ResponseWriter, r *http.Request, err error, fallback string) {
	var (
		cartInvalid    *cart.ValidationError
		catalogInvalid *catalog.ValidationError
	)

	switch {
	case errors.As(err, &cartInvalid):
		writeFailure(w, http.StatusBadRequest, cartInvalid.Message, "Validation failed", detailsFor(cartInvalid.Errors))
	case errors.As(err, &catalogInvalid):
		writeFailure(w, http.StatusBadRequest, catalogInvalid.Message, "Validation failed", detailsFor(catalogInvalid.Errors))
	case errors.Is(err, cart.ErrEmptyCart):
		writeFailure(w, http.StatusBadRequest, "Cart is empty", "Add items to the cart before checking out", nil)
	case errors.Is(err, cart.ErrItemNotFound):
		writeFailure(w, http.StatusNotFound, "Item not found in cart", "Not found", nil)
	case errors.Is(err, catalog.ErrNotFound):
		writeFailure(w, http.StatusNotFound, "Product not found", "Not found", nil)
	default:
		ev := zerolog.Ctx(r.Context()).Error().Err(err).Str("path", r.URL.Path)
		if errors.Is(err, context.DeadlineExceeded) {
			ev = ev.Bool("timeout", true)
		}
		ev.Msg(fallback)
		writeFailure(w, http.StatusInternalServerError, fallback, "Internal server error", nil)
	}
}

func detailsFor(errs []string) any {
	if len(errs) == 0 {
		return nil
	}
	return validationDetails{ValidationErrors: errs}
}

// decodeJSON reads a capped JSON body into v.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeFailure(w, http.StatusRequestEntityTooLarge, "Request body too large", "Bad request", nil)
			return false
		}
		writeFailure(w, http.StatusBadRequest, "Invalid JSON body", "Bad request", nil)
		return false
	}
	return true
}
