// Package tools is the fixed, read-only tool table exposed to assistants.
// Each tool performs exactly one Shopify GET and reshapes the result.
package tools

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"shopifymcp/pkg/metrics"
	"shopifymcp/pkg/shopify"
)

const (
	defaultLimit = shopify.DefaultLimit
	maxLimit     = shopify.MaxLimit
	// searchPool is how many products search_products scans client-side.
	searchPool = 50
)

// Store is the subset of *shopify.Client the tools call.
type Store interface {
	ListProducts(ctx context.Context, limit int) ([]shopify.Product, error)
	GetProduct(ctx context.Context, id string) (shopify.Product, error)
	ListCustomers(ctx context.Context, limit int) ([]shopify.Customer, error)
	GetCustomer(ctx context.Context, id string) (shopify.Customer, error)
	ListOrders(ctx context.Context, limit int) ([]shopify.Order, error)
	GetShop(ctx context.Context) (shopify.Shop, error)
}

type Param struct {
	Name        string `json:"name" yaml:"name"`
	Type        string `json:"type" yaml:"type"` // JSON Schema type
	Description string `json:"description" yaml:"description"`
	Required    bool   `json:"required,omitempty" yaml:"required,omitempty"`
	Default     any    `json:"default,omitempty" yaml:"default,omitempty"`
}

type Handler func(ctx context.Context, args Args) (any, error)

type Tool struct {
	Name        string  `json:"name" yaml:"name"`
	Description string  `json:"description" yaml:"description"`
	Params      []Param `json:"params" yaml:"params"`
	Handler     Handler `json:"-" yaml:"-"`
}

// InputSchema renders Params as a JSON Schema object.
func (t Tool) InputSchema() map[string]any {
	props := map[string]any{}
	required := []string{}
	for _, p := range t.Params {
		prop := map[string]any{"type": p.Type, "description": p.Description}
		if p.Default != nil {
			prop["default"] = p.Default
		}
		if p.Type == "integer" {
			prop["minimum"] = 1
			prop["maximum"] = maxLimit
		}
		props[p.Name] = prop
		if p.Required {
			required = append(required, p.Name)
		}
	}
	schema := map[string]any{"type": "object", "properties": props}
	if len(required) > 0 {
		schema["required"] = required
	}
	return schema
}

type Request struct {
	Name      string
	Arguments Args
}

type Dispatcher struct {
	store Store
	log   *zap.SugaredLogger
	tools map[string]Tool
	order []string
}

func NewDispatcher(store Store, log *zap.SugaredLogger) *Dispatcher {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	d := &Dispatcher{store: store, log: log, tools: map[string]Tool{}}
	limitParam := Param{Name: "limit", Type: "integer", Description: "Maximum number of results to return", Default: defaultLimit}
	d.register(Tool{
		Name:        "get_products",
		Description: "Get a list of products from the Shopify store.",
		Params:      []Param{limitParam},
		Handler:     d.getProducts,
	})
	d.register(Tool{
		Name:        "get_product_details",
		Description: "Get detailed information about a specific product.",
		Params:      []Param{{Name: "product_id", Type: "string", Description: "The ID of the product to retrieve", Required: true}},
		Handler:     d.getProductDetails,
	})
	d.register(Tool{
		Name:        "get_customers",
		Description: "Get a list of customers from the Shopify store.",
		Params:      []Param{limitParam},
		Handler:     d.getCustomers,
	})
	d.register(Tool{
		Name:        "get_customer_details",
		Description: "Get detailed information about a specific customer.",
		Params:      []Param{{Name: "customer_id", Type: "string", Description: "The ID of the customer to retrieve", Required: true}},
		Handler:     d.getCustomerDetails,
	})
	d.register(Tool{
		Name:        "get_orders",
		Description: "Get a list of orders from the Shopify store.",
		Params:      []Param{limitParam},
		Handler:     d.getOrders,
	})
	d.register(Tool{
		Name:        "search_products",
		Description: "Search for products by title, vendor, product type or tags.",
		Params: []Param{
			{Name: "query", Type: "string", Description: "Search term to query products", Required: true},
			limitParam,
		},
		Handler: d.searchProducts,
	})
	d.register(Tool{
		Name:        "get_store_info",
		Description: "Get information about the Shopify store.",
		Handler:     d.getStoreInfo,
	})
	return d
}

func (d *Dispatcher) register(t Tool) {
	if _, dup := d.tools[t.Name]; dup {
		panic("tools: duplicate tool " + t.Name)
	}
	d.tools[t.Name] = t
	d.order = append(d.order, t.Name)
}

// Tools lists the table in registration order.
func (d *Dispatcher) Tools() []Tool {
	out := make([]Tool, 0, len(d.order))
	for _, n := range d.order {
		out = append(out, d.tools[n])
	}
	return out
}

// Names is sorted, for error messages.
func (d *Dispatcher) Names() []string {
	out := append([]string(nil), d.order...)
	sort.Strings(out)
	return out
}

// Call runs one tool. Errors are returned as-is; use Problem to render them.
func (d *Dispatcher) Call(ctx context.Context, req Request) (any, error) {
	t, ok := d.tools[req.Name]
	if !ok {
		metrics.ToolCalls.WithLabelValues("unknown", "error").Inc()
		return nil, fmt.Errorf("%w %q (available: %s)", ErrUnknownTool, req.Name, strings.Join(d.Names(), ", "))
	}
	args := req.Arguments
	if args == nil {
		args = Args{}
	}
	start := time.Now()
	res, err := t.Handler(ctx, args)
	if err != nil {
		metrics.ToolCalls.WithLabelValues(t.Name, "error").Inc()
		d.log.Errorw("tool failed", "tool", t.Name, "err", err, "duration", time.Since(start))
		return nil, err
	}
	metrics.ToolCalls.WithLabelValues(t.Name, "ok").Inc()
	d.log.Debugw("tool ok", "tool", t.Name, "duration", time.Since(start))
	return res, nil
}

func (d *Dispatcher) getProducts(ctx context.Context, args Args) (any, error) {
	limit, err := args.limit()
	if err != nil {
		return nil, err
	}
	products, err := d.store.ListProducts(ctx, limit)
	if err != nil {
		return nil, err
	}
	out := make([]ProductRecord, 0, len(products))
	for _, p := range products {
		out = append(out, productRecord(p))
	}
	return out, nil
}

func (d *Dispatcher) getProductDetails(ctx context.Context, args Args) (any, error) {
	id, err := args.String("product_id", true)
	if err != nil {
		return nil, err
	}
	p, err := d.store.GetProduct(ctx, id)
	if err != nil {
		return nil, err
	}
	return productRecord(p), nil
}

func (d *Dispatcher) getCustomers(ctx context.Context, args Args) (any, error) {
	limit, err := args.limit()
	if err != nil {
		return nil, err
	}
	customers, err := d.store.ListCustomers(ctx, limit)
	if err != nil {
		return nil, err
	}
	out := make([]CustomerRecord, 0, len(customers))
	for _, c := range customers {
		out = append(out, customerRecord(c))
	}
	return out, nil
}

func (d *Dispatcher) getCustomerDetails(ctx context.Context, args Args) (any, error) {
	id, err := args.String("customer_id", true)
	if err != nil {
		return nil, err
	}
	c, err := d.store.GetCustomer(ctx, id)
	if err != nil {
		return nil, err
	}
	return customerRecord(c), nil
}

func (d *Dispatcher) getOrders(ctx context.Context, args Args) (any, error) {
	limit, err := args.limit()
	if err != nil {
		return nil, err
	}
	orders, err := d.store.ListOrders(ctx, limit)
	if err != nil {
		return nil, err
	}
	out := make([]OrderRecord, 0, len(orders))
	for _, o := range orders {
		out = append(out, orderRecord(o))
	}
	return out, nil
}

// searchProducts fetches one page of searchPool products and filters it
// locally; the Admin REST API has no free-text product search. The query
// argument must be present, but an empty query matches every product.
func (d *Dispatcher) searchProducts(ctx context.Context, args Args) (any, error) {
	if _, ok := args["query"]; !ok {
		return nil, invalidArg("query", "is required")
	}
	query, err := args.String("query", false)
	if err != nil {
		return nil, err
	}
	limit, err := args.limit()
	if err != nil {
		return nil, err
	}
	products, err := d.store.ListProducts(ctx, searchPool)
	if err != nil {
		return nil, err
	}
	q := strings.ToLower(query)
	out := make([]SearchHit, 0, limit)
	for _, p := range products {
		if !matches(p, q) {
			continue
		}
		out = append(out, searchHit(p))
		if len(out) >= limit {
			break
		}
	}
	return out, nil
}

func matches(p shopify.Product, q string) bool {
	for _, f := range []string{p.Title, p.Vendor, p.ProductType, p.Tags} {
		if strings.Contains(strings.ToLower(f), q) {
			return true
		}
	}
	return false
}

func (d *Dispatcher) getStoreInfo(ctx context.Context, _ Args) (any, error) {
	s, err := d.store.GetShop(ctx)
	if err != nil {
		return nil, err
	}
	return storeInfo(s), nil
}

// CheckConnection fetches the shop once and logs the outcome. Failures are
// returned for the caller to report; they are not fatal to serving.
func (d *Dispatcher) CheckConnection(ctx context.Context) error {
	s, err := d.store.GetShop(ctx)
	if err != nil {
		p := Problem(err)
		d.log.Warnw("shopify connection check failed", "kind", p.Kind, "status", p.Status, "err", err)
		return err
	}
	d.log.Debugw("shopify connection ok", "shop", s.Name, "domain", s.Domain)
	return nil
}
