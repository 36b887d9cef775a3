// Package mcp serves the tool table over the Model Context Protocol on a
// line-delimited stdio stream.
package mcp

import (
	"context"
	"encoding/json"
	"io"

	"github.com/google/uuid"
	mcpgo "github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"

	"shopifymcp/internal/tools"
)

const (
	ServerName = "shopify_mcp_server"

	instructions = "Read-only access to a Shopify store: products, customers, orders and store information."
)

type Server struct {
	mcp   *server.MCPServer
	tools *tools.Dispatcher
	log   *zap.SugaredLogger
}

func NewServer(d *tools.Dispatcher, log *zap.SugaredLogger, version string) *Server {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	s := &Server{tools: d, log: log}

	hooks := &server.Hooks{}
	hooks.AddBeforeAny(func(ctx context.Context, id any, method mcpgo.MCPMethod, _ any) {
		log.Debugw("mcp: request", "method", method, "id", id)
	})
	hooks.AddAfterInitialize(func(ctx context.Context, _ any, req *mcpgo.InitializeRequest, res *mcpgo.InitializeResult) {
		log.Infow("mcp: initialize", "client", req.Params.ClientInfo.Name, "client_version", req.Params.ClientInfo.Version,
			"protocol", res.ProtocolVersion)
	})
	hooks.AddOnError(func(ctx context.Context, id any, method mcpgo.MCPMethod, _ any, err error) {
		log.Warnw("mcp: request failed", "method", method, "id", id, "err", err)
	})

	s.mcp = server.NewMCPServer(ServerName, version,
		server.WithToolCapabilities(false),
		server.WithInstructions(instructions),
		server.WithRecovery(),
		server.WithHooks(hooks),
	)
	for _, t := range d.Tools() {
		s.mcp.AddTool(descriptor(t), s.handler(t.Name))
	}
	return s
}

// descriptor publishes the dispatcher's own JSON Schema for a tool.
func descriptor(t tools.Tool) mcpgo.Tool {
	schema, err := json.Marshal(t.InputSchema())
	if err != nil {
		schema = json.RawMessage(`{"type":"object"}`)
	}
	tool := mcpgo.NewToolWithRawSchema(t.Name, t.Description, schema)
	tool.Annotations = mcpgo.ToolAnnotation{
		ReadOnlyHint:    mcpgo.ToBoolPtr(true),
		DestructiveHint: mcpgo.ToBoolPtr(false),
		IdempotentHint:  mcpgo.ToBoolPtr(true),
		OpenWorldHint:   mcpgo.ToBoolPtr(true),
	}
	return tool
}

// handler runs one tool. Dispatcher errors become an isError result carrying
// the problem body, never a JSON-RPC error.
func (s *Server) handler(name string) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcpgo.CallToolRequest) (*mcpgo.CallToolResult, error) {
		cid := uuid.NewString()
		res, err := s.tools.Call(ctx, tools.Request{Name: name, Arguments: tools.Args(req.GetArguments())})
		if err != nil {
			prob := tools.Problem(err)
			s.log.Warnw("mcp: tool error", "tool", name, "cid", cid, "kind", prob.Kind, "status", prob.Status)
			b, _ := json.Marshal(map[string]any{"error": prob})
			return mcpgo.NewToolResultError(string(b)), nil
		}
		b, err := json.Marshal(res)
		if err != nil {
			return nil, err
		}
		s.log.Debugw("mcp: tool ok", "tool", name, "cid", cid)
		return mcpgo.NewToolResultText(string(b)), nil
	}
}

// Handle processes one raw JSON-RPC message. It returns nil for notifications.
func (s *Server) Handle(ctx context.Context, raw json.RawMessage) mcpgo.JSONRPCMessage {
	return s.mcp.HandleMessage(ctx, raw)
}

// Serve reads requests from r until EOF or ctx is done, writing responses to
// w. It returns nil on EOF and ctx.Err() on cancellation.
func (s *Server) Serve(ctx context.Context, r io.Reader, w io.Writer) error {
	stdio := server.NewStdioServer(s.mcp)
	stdio.SetErrorLogger(zap.NewStdLog(s.log.Desugar()))
	s.log.Debugw("mcp: waiting for input")
	if err := stdio.Listen(ctx, r, w); err != nil {
		return err
	}
	s.log.Infow("mcp: stdin closed")
	return nil
}
