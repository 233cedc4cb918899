// Package client is a Go client for the storefront REST API.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/cart"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/catalog"
)

const HeaderCorrelationID = "X-Correlation-Id"

// APIError is returned for any non-2xx response that was not retried away.
type APIError struct {
	Status  int
	Message string
	Details []string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("storefront: %d %s", e.Status, e.Message)
}

// IsNotFound reports whether err is a 404 from the API.
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status == http.StatusNotFound
}

type Client struct {
	baseURL *url.URL
	http    *http.Client
	retry   RetryPolicy
	sleep   func(ctx context.Context, d time.Duration) error
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

func WithRetryPolicy(p RetryPolicy) Option {
	return func(c *Client) { c.retry = p }
}

func New(baseURL string, opts ...Option) (*Client, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid base url %q: %w", baseURL, err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid base url %q: scheme and host are required", baseURL)
	}
	c := &Client{
		baseURL: u,
		http:    &http.Client{Timeout: 10 * time.Second},
		retry:   DefaultRetryPolicy,
		sleep:   sleep,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

type ctxKey struct{}

// WithCorrelationID attaches an id that is sent as X-Correlation-Id on every request made with ctx.
func WithCorrelationID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, ctxKey{}, id)
}

func correlationID(ctx context.Context) string {
	id, _ := ctx.Value(ctxKey{}).(string)
	return id
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message"`
	Error   string          `json:"error"`
	Details struct {
		ValidationErrors []string `json:"validationErrors"`
	} `json:"details"`
}

// request describes one API call. path is already escaped.
type request struct {
	method    string
	path      string
	query     url.Values
	body      any
	out       any
	enveloped bool
	// accept lists non-2xx statuses whose body is decoded into out like a success.
	accept []int
}

// retryable reports whether a failed attempt may be sent again. POSTs change state on the
// server, so a 5xx or a dropped connection may already have added an item or published a checkout.
func (r request) retryable() bool {
	return r.method != http.MethodPost
}

func (r request) accepts(status int) bool {
	for _, s := range r.accept {
		if s == status {
			return true
		}
	}
	return false
}

// do sends the request, retrying transport errors and 5xx responses when the call is retryable.
// When enveloped is true the response's data field is decoded into out; otherwise the whole body is.
func (c *Client) do(ctx context.Context, r request) error {
	var payload []byte
	if r.body != nil {
		b, err := json.Marshal(r.body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		payload = b
	}

	escaped := strings.TrimSuffix(c.baseURL.EscapedPath(), "/") + r.path
	unescaped, err := url.PathUnescape(escaped)
	if err != nil {
		return fmt.Errorf("invalid path %q: %w", r.path, err)
	}
	u := c.baseURL.ResolveReference(&url.URL{Path: unescaped, RawPath: escaped, RawQuery: r.query.Encode()})

	attempts := c.retry.attempts()
	if !r.retryable() {
		attempts = 1
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		if attempt > 1 {
			if err := c.sleep(ctx, c.retry.Delay(attempt-1)); err != nil {
				return errors.Join(lastErr, err)
			}
		}

		status, raw, err := c.send(ctx, r.method, u.String(), payload)
		if err != nil {
			if ctx.Err() != nil {
				return err
			}
			lastErr = err
			continue
		}
		if status >= http.StatusBadRequest && r.accepts(status) {
			return decode(raw, r.out, r.enveloped)
		}
		if status >= http.StatusInternalServerError {
			lastErr = apiError(status, raw)
			continue
		}
		if status >= http.StatusBadRequest {
			return apiError(status, raw)
		}
		return decode(raw, r.out, r.enveloped)
	}
	return lastErr
}

func (c *Client) send(ctx context.Context, method, target string, payload []byte) (int, []byte, error) {
	var body io.Reader
	if payload != nil {
		body = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return 0, nil, err
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if cid := correlationID(ctx); cid != "" {
		req.Header.Set(HeaderCorrelationID, cid)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return 0, nil, err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, fmt.Errorf("read response: %w", err)
	}
	return resp.StatusCode, raw, nil
}

func apiError(status int, raw []byte) *APIError {
	e := &APIError{Status: status, Message: http.StatusText(status)}
	var env envelope
	if json.Unmarshal(raw, &env) == nil && env.Error != "" {
		e.Message = env.Error
		e.Details = env.Details.ValidationErrors
	}
	return e
}

func decode(raw []byte, out any, enveloped bool) error {
	if out == nil {
		return nil
	}
	if !enveloped {
		if err := json.Unmarshal(raw, out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
		return nil
	}
	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return fmt.Errorf("decode envelope: %w", err)
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return fmt.Errorf("decode data: %w", err)
	}
	return nil
}

func (c *Client) Products(ctx context.Context, f catalog.Filter) ([]catalog.Product, error) {
	q := url.Values{}
	if f.Category != "" {
		q.Set("category", f.Category)
	}
	if f.InStock != nil {
		q.Set("inStock", strconv.FormatBool(*f.InStock))
	}
	var out []catalog.Product
	err := c.do(ctx, request{method: http.MethodGet, path: "/api/products", query: q, out: &out, enveloped: true})
	return out, err
}

func (c *Client) Product(ctx context.Context, id string) (catalog.Product, error) {
	var out catalog.Product
	err := c.do(ctx, request{method: http.MethodGet, path: "/api/products/" + url.PathEscape(id), out: &out, enveloped: true})
	return out, err
}

func (c *Client) Categories(ctx context.Context) ([]string, error) {
	var out []string
	err := c.do(ctx, request{method: http.MethodGet, path: "/api/products/categories", out: &out, enveloped: true})
	return out, err
}

func (c *Client) Search(ctx context.Context, q catalog.Query) ([]catalog.Product, error) {
	v := url.Values{}
	v.Set("q", q.Text)
	if q.MinPrice != nil {
		v.Set("minPrice", strconv.FormatFloat(*q.MinPrice, 'f', -1, 64))
	}
	if q.MaxPrice != nil {
		v.Set("maxPrice", strconv.FormatFloat(*q.MaxPrice, 'f', -1, 64))
	}
	var out []catalog.Product
	err := c.do(ctx, request{method: http.MethodGet, path: "/api/products/search", query: v, out: &out, enveloped: true})
	return out, err
}

func (c *Client) Cart(ctx context.Context) (*cart.Cart, error) {
	return c.cartCall(ctx, http.MethodGet, "/api/cart", nil)
}

func (c *Client) AddItem(ctx context.Context, item cart.Item) (*cart.Cart, error) {
	return c.cartCall(ctx, http.MethodPost, "/api/cart", item)
}

func (c *Client) UpdateItem(ctx context.Context, id string, quantity int) (*cart.Cart, error) {
	return c.cartCall(ctx, http.MethodPut, "/api/cart/"+url.PathEscape(id), map[string]int{"quantity": quantity})
}

// SetQuantity updates an item, or removes it when quantity is zero or negative.
func (c *Client) SetQuantity(ctx context.Context, id string, quantity int) (*cart.Cart, error) {
	if quantity <= 0 {
		return c.RemoveItem(ctx, id)
	}
	return c.UpdateItem(ctx, id, quantity)
}

func (c *Client) RemoveItem(ctx context.Context, id string) (*cart.Cart, error) {
	return c.cartCall(ctx, http.MethodDelete, "/api/cart/"+url.PathEscape(id), nil)
}

func (c *Client) ClearCart(ctx context.Context) (*cart.Cart, error) {
	return c.cartCall(ctx, http.MethodDelete, "/api/cart", nil)
}

// Checkout returns the cart snapshot that was checked out. It is sent once: a failed checkout
// may still have published its event.
func (c *Client) Checkout(ctx context.Context) (*cart.Cart, error) {
	return c.cartCall(ctx, http.MethodPost, "/api/cart/checkout", nil)
}

func (c *Client) cartCall(ctx context.Context, method, path string, body any) (*cart.Cart, error) {
	var out cart.Cart
	if err := c.do(ctx, request{method: method, path: path, body: body, out: &out, enveloped: true}); err != nil {
		return nil, err
	}
	return &out, nil
}

type Health struct {
	Status      string  `json:"status"`
	Timestamp   string  `json:"timestamp"`
	Uptime      float64 `json:"uptime"`
	Environment string  `json:"environment"`
	Storage     string  `json:"storage"`
}

// Health returns the service's health report. A 503 carrying a DEGRADED report is returned
// without error so callers can read which status the service reported.
func (c *Client) Health(ctx context.Context) (Health, error) {
	var out Health
	err := c.do(ctx, request{method: http.MethodGet, path: "/health", out: &out, accept: []int{http.StatusServiceUnavailable}})
	return out, err
}
