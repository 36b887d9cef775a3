package rest

import "shopifymcp/pkg/openapi"

func buildOpenAPI(serverURL string) *openapi.Registry {
	limit := openapi.Parameter{Name: "limit", In: "query", Description: "Maximum number of results (1-250, default 10)", Schema: map[string]any{"type": "integer", "minimum": 1, "maximum": 250}}
	sel := openapi.Parameter{Name: "select", In: "query", Description: "Optional JMESPath projection applied to the result", Schema: map[string]any{"type": "string"}}
	ok := map[string]any{
		"200":     map[string]any{"description": "OK"},
		"default": map[string]any{"description": "Problem", "content": map[string]any{"application/problem+json": map[string]any{"schema": map[string]any{"$ref": "#/components/schemas/Problem"}}}},
	}
	id := func(name string) openapi.Parameter {
		return openapi.Parameter{Name: name, In: "path", Required: true, Schema: map[string]any{"type": "string"}}
	}

	reg := openapi.NewRegistry()
	reg.ServerURL = serverURL
	reg.Register(openapi.Operation{Method: "GET", Path: "/health", OperationID: "health", Summary: "Liveness check", Responses: map[string]any{"200": map[string]any{"description": "OK"}}})
	reg.Register(openapi.Operation{Method: "GET", Path: "/api/products", OperationID: "get_products", Summary: "List products", Tags: []string{"products"}, Parameters: []openapi.Parameter{limit, sel}, Responses: ok})
	reg.Register(openapi.Operation{Method: "GET", Path: "/api/products/{id}", OperationID: "get_product_details", Summary: "Product details", Tags: []string{"products"}, Parameters: []openapi.Parameter{id("id"), sel}, Responses: ok})
	reg.Register(openapi.Operation{Method: "GET", Path: "/api/customers", OperationID: "get_customers", Summary: "List customers", Tags: []string{"customers"}, Parameters: []openapi.Parameter{limit, sel}, Responses: ok})
	reg.Register(openapi.Operation{Method: "GET", Path: "/api/customers/{id}", OperationID: "get_customer_details", Summary: "Customer details", Tags: []string{"customers"}, Parameters: []openapi.Parameter{id("id"), sel}, Responses: ok})
	reg.Register(openapi.Operation{Method: "GET", Path: "/api/orders", OperationID: "get_orders", Summary: "List orders", Tags: []string{"orders"}, Parameters: []openapi.Parameter{limit, sel}, Responses: ok})
	reg.Register(openapi.Operation{Method: "GET", Path: "/api/search", OperationID: "search_products", Summary: "Search products by title, vendor, type or tags", Tags: []string{"products"}, Parameters: []openapi.Parameter{
		{Name: "q", In: "query", Required: true, Schema: map[string]any{"type": "string"}}, limit, sel,
	}, Responses: ok})
	reg.Register(openapi.Operation{Method: "GET", Path: "/api/store", OperationID: "get_store_info", Summary: "Store information", Tags: []string{"store"}, Parameters: []openapi.Parameter{sel}, Responses: ok})
	reg.Register(openapi.Operation{Method: "POST", Path: "/mcp", OperationID: "legacy_call", Summary: "Method call: {\"method\": ..., \"params\": {...}}", Responses: ok})
	return reg
}
