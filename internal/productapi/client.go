package productapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"storefront/internal/domain"
	applog "storefront/internal/log"
	"storefront/internal/metrics"
)

const (
	defaultTimeout       = 10 * time.Second
	errorBodyLimit int64 = 1024
)

// StatusError is returned when the product API answers with a non-2xx status.
type StatusError struct {
	Op     string
	Status int
	Body   string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("%s: status %d", e.Op, e.Status)
	}
	return fmt.Sprintf("%s: status %d: %s", e.Op, e.Status, e.Body)
}

// IsNotFound reports whether err is a 404 from the product API.
func IsNotFound(err error) bool {
	var se *StatusError
	return errors.As(err, &se) && se.Status == http.StatusNotFound
}

// Client talks to the products/orders REST API. Calls are single request/response:
// no retry, no backoff, no idempotency key.
type Client struct {
	httpClient *http.Client
	baseURL    string
	metrics    *metrics.Metrics
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.httpClient = &http.Client{Timeout: d}
		}
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(c *Client) { c.metrics = m }
}

func NewClient(baseURL string, opts ...Option) (*Client, error) {
	trimmed := strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if trimmed == "" {
		return nil, errors.New("product api base url is required")
	}
	if _, err := url.ParseRequestURI(trimmed); err != nil {
		return nil, fmt.Errorf("invalid product api base url: %w", err)
	}
	c := &Client{
		baseURL:    trimmed,
		httpClient: &http.Client{Timeout: defaultTimeout},
	}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	return c, nil
}

// List returns every product. Failures are logged and yield an empty list.
func (c *Client) List(ctx context.Context) []domain.Product {
	products, err := c.Fetch(ctx)
	if err != nil {
		applog.Error(nil, "productapi.list.fail", err, nil)
		return []domain.Product{}
	}
	return products
}

// Fetch is List with the error surfaced.
func (c *Client) Fetch(ctx context.Context) ([]domain.Product, error) {
	var out []domain.Product
	err := c.do(ctx, "list products", http.MethodGet, "/products", nil, &out)
	c.metrics.ObserveRemote("list", err)
	if err != nil {
		return nil, err
	}
	if out == nil {
		out = []domain.Product{}
	}
	return out, nil
}

// Create posts p without its id and returns the stored product.
func (c *Client) Create(ctx context.Context, p domain.Product) (domain.Product, error) {
	p.ID = ""
	var out domain.Product
	err := c.do(ctx, "create product", http.MethodPost, "/products", p, &out)
	c.metrics.ObserveRemote("create", err)
	return out, err
}

// Replace sends the full product payload for id.
func (c *Client) Replace(ctx context.Context, id domain.ProductID, p domain.Product) (domain.Product, error) {
	p.ID = id
	var out domain.Product
	err := c.do(ctx, "replace product", http.MethodPut, productPath(id), p, &out)
	c.metrics.ObserveRemote("replace", err)
	return out, err
}

// PatchQuantity sets only the stock level of id.
func (c *Client) PatchQuantity(ctx context.Context, id domain.ProductID, quantity int) (domain.Product, error) {
	body := struct {
		Quantity int `json:"quantity"`
	}{quantity}
	var out domain.Product
	err := c.do(ctx, "patch product quantity", http.MethodPatch, productPath(id), body, &out)
	c.metrics.ObserveRemote("patch_quantity", err)
	return out, err
}

func (c *Client) Delete(ctx context.Context, id domain.ProductID) error {
	err := c.do(ctx, "delete product", http.MethodDelete, productPath(id), nil, nil)
	c.metrics.ObserveRemote("delete", err)
	return err
}

// CreateOrder appends one order record.
func (c *Client) CreateOrder(ctx context.Context, o domain.OrderRecord) (domain.OrderRecord, error) {
	o.ID = ""
	var out domain.OrderRecord
	err := c.do(ctx, "create order", http.MethodPost, "/orders", o, &out)
	c.metrics.ObserveRemote("create_order", err)
	return out, err
}

func productPath(id domain.ProductID) string {
	return "/products/" + url.PathEscape(string(id))
}

func (c *Client) do(ctx context.Context, op, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		payload, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("%s: marshal request: %w", op, err)
		}
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("%s: build request: %w", op, err)
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, errorBodyLimit))
		return &StatusError{Op: op, Status: resp.StatusCode, Body: strings.TrimSpace(string(msg))}
	}
	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("%s: decode response: %w", op, err)
	}
	return nil
}
