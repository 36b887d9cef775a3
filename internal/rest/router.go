// Package rest mirrors the tool table as plain GET endpoints, plus the legacy
// POST /mcp method-call endpoint.
package rest

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	jmes "github.com/jmespath/go-jmespath"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"shopifymcp/internal/tools"
	"shopifymcp/pkg/config"
	"shopifymcp/pkg/middleware"
	"shopifymcp/pkg/problems"
)

const maxBodySize = 1 << 20

// legacyMethods maps the older POST /mcp method names onto tools.
var legacyMethods = map[string]string{
	"get_product_list":  "get_products",
	"get_customer_list": "get_customers",
	"get_order_list":    "get_orders",
}

type handler struct {
	tools *tools.Dispatcher
	log   *zap.SugaredLogger
}

// NewRouter builds the REST mirror.
func NewRouter(cfg config.Config, d *tools.Dispatcher, log *zap.SugaredLogger, version string) http.Handler {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	h := &handler{tools: d, log: log}

	r := chi.NewRouter()
	r.Use(chimw.RealIP)
	r.Use(middleware.RequestID())
	r.Use(middleware.Recover(log))
	r.Use(middleware.DebugWriteHeader(log, cfg.Debug))
	r.Use(middleware.CORS())
	r.Use(middleware.Tracing())

	r.NotFound(func(w http.ResponseWriter, req *http.Request) {
		problems.Write(w, problems.New("not_found", "Not found", http.StatusNotFound, req.URL.Path))
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, req *http.Request) {
		problems.Write(w, problems.New("method_not_allowed", "Method not allowed", http.StatusMethodNotAllowed, req.Method+" "+req.URL.Path))
	})

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, map[string]any{"status": "ok"}, http.StatusOK)
	})
	r.Get("/.well-known/openapi.json", buildOpenAPI(cfg.BasePublicURL).ServeHandler("shopify-mcp", version))
	r.Get("/metrics", promhttp.Handler().ServeHTTP)

	r.Route("/api", func(ar chi.Router) {
		ar.Get("/products", h.tool("get_products", queryArgs("limit")))
		ar.Get("/products/{id}", h.tool("get_product_details", pathArg("id", "product_id")))
		ar.Get("/customers", h.tool("get_customers", queryArgs("limit")))
		ar.Get("/customers/{id}", h.tool("get_customer_details", pathArg("id", "customer_id")))
		ar.Get("/orders", h.tool("get_orders", queryArgs("limit")))
		ar.Get("/search", h.tool("search_products", searchArgs))
		ar.Get("/store", h.tool("get_store_info", queryArgs()))
	})
	r.Post("/mcp", h.legacyCall)
	return r
}

type argsFunc func(*http.Request) tools.Args

func queryArgs(names ...string) argsFunc {
	return func(req *http.Request) tools.Args {
		a := tools.Args{}
		q := req.URL.Query()
		for _, n := range names {
			if q.Has(n) {
				a[n] = q.Get(n)
			}
		}
		return a
	}
}

func pathArg(param, arg string) argsFunc {
	return func(req *http.Request) tools.Args {
		return tools.Args{arg: chi.URLParam(req, param)}
	}
}

func searchArgs(req *http.Request) tools.Args {
	q := req.URL.Query()
	a := tools.Args{"query": q.Get("q")}
	if q.Has("limit") {
		a["limit"] = q.Get("limit")
	}
	return a
}

func (h *handler) tool(name string, args argsFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		res, err := h.tools.Call(req.Context(), tools.Request{Name: name, Arguments: args(req)})
		if err != nil {
			h.fail(w, req, err)
			return
		}
		out, err := project(res, req.URL.Query().Get("select"))
		if err != nil {
			problems.Write(w, problems.New("invalid_argument", "Invalid select expression", http.StatusBadRequest, err.Error()))
			return
		}
		writeJSON(w, out, http.StatusOK)
	}
}

// project applies an optional JMESPath expression to a tool result.
func project(res any, expr string) (any, error) {
	expr = strings.TrimSpace(expr)
	if expr == "" {
		return res, nil
	}
	jp, err := jmes.Compile(expr)
	if err != nil {
		return nil, err
	}
	// jmespath walks generic JSON values, not tagged structs
	b, err := json.Marshal(res)
	if err != nil {
		return nil, err
	}
	var doc any
	if err := json.Unmarshal(b, &doc); err != nil {
		return nil, err
	}
	return jp.Search(doc)
}

type legacyRequest struct {
	Method string         `json:"method"`
	Params map[string]any `json:"params"`
}

func (h *handler) legacyCall(w http.ResponseWriter, req *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, req.Body, maxBodySize))
	if err != nil {
		problems.Write(w, problems.New("invalid_request", "Request body too large", http.StatusRequestEntityTooLarge, err.Error()))
		return
	}
	var lr legacyRequest
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()
	if err := dec.Decode(&lr); err != nil {
		problems.Write(w, problems.New("invalid_request", "Invalid JSON in request", http.StatusBadRequest, err.Error()))
		return
	}
	if lr.Method == "" {
		problems.Write(w, problems.New("invalid_request", "Invalid MCP request format", http.StatusBadRequest, "method is required"))
		return
	}
	name := lr.Method
	if alias, ok := legacyMethods[name]; ok {
		name = alias
	}
	res, err := h.tools.Call(req.Context(), tools.Request{Name: name, Arguments: tools.Args(lr.Params)})
	if err != nil {
		if errors.Is(err, tools.ErrUnknownTool) {
			problems.Write(w, problems.New("unknown_tool", "Unknown method", http.StatusBadRequest, fmt.Sprintf("unknown method: %s", lr.Method)))
			return
		}
		h.fail(w, req, err)
		return
	}
	writeJSON(w, map[string]any{"result": res}, http.StatusOK)
}

func (h *handler) fail(w http.ResponseWriter, req *http.Request, err error) {
	p := tools.Problem(err)
	h.log.Warnw("request failed", "path", req.URL.Path, "reqid", middleware.RequestIDFrom(req.Context()), "kind", p.Kind, "status", p.Status)
	problems.Write(w, p)
}

func writeJSON(w http.ResponseWriter, v any, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
