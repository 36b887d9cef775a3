// Package shopify is a minimal read-only client for the Shopify Admin REST
// API. Every method issues exactly one GET and never retries.
package shopify

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"shopifymcp/pkg/credentials"
	"shopifymcp/pkg/metrics"
)

const (
	maxResponseSize = 4 << 20
	// MaxLimit is the largest page size the Admin API accepts.
	MaxLimit     = 250
	DefaultLimit = 10
)

type Client struct {
	baseURL string
	creds   credentials.Set
	http    *http.Client
	log     *zap.SugaredLogger
}

type Option func(*Client)

// WithTransport replaces the HTTP transport, e.g. with an otelhttp transport.
func WithTransport(rt http.RoundTripper) Option {
	return func(c *Client) { c.http.Transport = rt }
}

// New builds a client for creds. ShopURL may carry an explicit scheme; a bare
// host is reached over https.
func New(creds credentials.Set, timeout time.Duration, log *zap.SugaredLogger, opts ...Option) (*Client, error) {
	if err := creds.Validate(); err != nil {
		return nil, err
	}
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	scheme := "https://"
	if strings.HasPrefix(strings.ToLower(strings.TrimSpace(creds.ShopURL)), "http://") {
		scheme = "http://"
	}
	version := creds.APIVersion
	if version == "" {
		version = credentials.DefaultAPIVersion
	}
	base := scheme + creds.Host() + "/admin/api/" + url.PathEscape(version)
	if _, err := url.Parse(base); err != nil {
		return nil, fmt.Errorf("invalid shop url %q: %w", creds.ShopURL, err)
	}
	c := &Client{
		baseURL: base,
		creds:   creds,
		http:    &http.Client{Timeout: timeout},
		log:     log,
	}
	for _, o := range opts {
		o(c)
	}
	return c, nil
}

// BaseURL is the versioned Admin API root, without trailing slash.
func (c *Client) BaseURL() string { return c.baseURL }

// ClampLimit maps non-positive values to DefaultLimit and caps at MaxLimit.
func ClampLimit(limit int) int {
	if limit <= 0 {
		return DefaultLimit
	}
	if limit > MaxLimit {
		return MaxLimit
	}
	return limit
}

func (c *Client) ListProducts(ctx context.Context, limit int) ([]Product, error) {
	var out struct {
		Products []Product `json:"products"`
	}
	q := url.Values{"limit": {strconv.Itoa(ClampLimit(limit))}}
	if err := c.get(ctx, "products", "/products.json", q, &out); err != nil {
		return nil, err
	}
	return out.Products, nil
}

func (c *Client) GetProduct(ctx context.Context, id string) (Product, error) {
	var out struct {
		Product Product `json:"product"`
	}
	if err := c.get(ctx, "product", "/products/"+url.PathEscape(id)+".json", nil, &out); err != nil {
		return Product{}, err
	}
	return out.Product, nil
}

func (c *Client) ListCustomers(ctx context.Context, limit int) ([]Customer, error) {
	var out struct {
		Customers []Customer `json:"customers"`
	}
	q := url.Values{"limit": {strconv.Itoa(ClampLimit(limit))}}
	if err := c.get(ctx, "customers", "/customers.json", q, &out); err != nil {
		return nil, err
	}
	return out.Customers, nil
}

func (c *Client) GetCustomer(ctx context.Context, id string) (Customer, error) {
	var out struct {
		Customer Customer `json:"customer"`
	}
	if err := c.get(ctx, "customer", "/customers/"+url.PathEscape(id)+".json", nil, &out); err != nil {
		return Customer{}, err
	}
	return out.Customer, nil
}

// ListOrders includes closed and cancelled orders; the API default is open only.
func (c *Client) ListOrders(ctx context.Context, limit int) ([]Order, error) {
	var out struct {
		Orders []Order `json:"orders"`
	}
	q := url.Values{"limit": {strconv.Itoa(ClampLimit(limit))}}
	if err := c.get(ctx, "orders", "/orders.json", q, &out); err != nil {
		return nil, err
	}
	return out.Orders, nil
}

func (c *Client) GetShop(ctx context.Context) (Shop, error) {
	var out struct {
		Shop Shop `json:"shop"`
	}
	if err := c.get(ctx, "shop", "/shop.json", nil, &out); err != nil {
		return Shop{}, err
	}
	return out.Shop, nil
}

func (c *Client) get(ctx context.Context, resource, path string, q url.Values, out any) error {
	u := c.baseURL + path
	if len(q) > 0 {
		u += "?" + q.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return &APIError{Op: resource, Kind: KindTransport, Err: err}
	}
	req.Header.Set("Accept", "application/json")
	switch c.creds.Mode() {
	case credentials.AuthAccessToken:
		req.Header.Set("X-Shopify-Access-Token", c.creds.AccessToken)
	case credentials.AuthBasic:
		req.SetBasicAuth(c.creds.APIKey, c.creds.Password)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	metrics.UpstreamLatency.WithLabelValues(resource).Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.UpstreamRequests.WithLabelValues(resource, "0").Inc()
		c.log.Debugw("shopify request failed", "resource", resource, "err", err)
		return &APIError{Op: resource, Kind: KindTransport, Err: err}
	}
	defer resp.Body.Close()
	metrics.UpstreamRequests.WithLabelValues(resource, strconv.Itoa(resp.StatusCode)).Inc()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return &APIError{Op: resource, Status: resp.StatusCode, Kind: KindTransport, Err: err}
	}
	c.log.Debugw("shopify response", "resource", resource, "status", resp.StatusCode, "bytes", len(body), "duration", time.Since(start))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &APIError{
			Op:         resource,
			Status:     resp.StatusCode,
			Kind:       kindForStatus(resp.StatusCode),
			Message:    errorMessage(body),
			RetryAfter: resp.Header.Get("Retry-After"),
		}
	}
	if err := json.Unmarshal(body, out); err != nil {
		return &APIError{Op: resource, Status: resp.StatusCode, Kind: KindDecode, Err: err}
	}
	return nil
}
