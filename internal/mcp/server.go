// Package mcp exposes the registry index and design resolution as Model
// Context Protocol tools.
package mcp

import (
	"context"

	"github.com/goccy/go-json"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/hanzoai/design-registry/internal/domain/design"
	"github.com/hanzoai/design-registry/internal/domain/registry"
	"github.com/hanzoai/design-registry/internal/log"
	"github.com/hanzoai/design-registry/internal/tracing"
)

// ServerName identifies the server during the MCP handshake.
const ServerName = "design-registry"

// Registry is what the tools need from the registry service.
type Registry interface {
	Index() *registry.Index
	Validate(ctx context.Context, cfg design.Config) error
	Resolve(ctx context.Context, cfg design.Config) (design.Resolution, error)
	ResolveTree(ctx context.Context, name, style string) (registry.Tree, error)
}

// Option configures the tool set.
type Option func(*toolset)

// WithTracer opens a span per tool call.
func WithTracer(t trace.Tracer) Option {
	return func(ts *toolset) {
		if t != nil {
			ts.tracer = t
		}
	}
}

// WithDefaults sets the config that fills fields a design tool call omits.
func WithDefaults(cfg design.Config) Option {
	return func(ts *toolset) {
		ts.defaults = cfg
	}
}

type toolset struct {
	reg      Registry
	tracer   trace.Tracer
	defaults design.Config
}

// NewServer returns an MCP server with every registry tool registered.
func NewServer(reg Registry, version string, opts ...Option) *server.MCPServer {
	s := server.NewMCPServer(
		ServerName,
		version,
		server.WithToolCapabilities(true),
	)
	RegisterTools(s, reg, opts...)
	return s
}

// RegisterTools adds the registry tools to s.
func RegisterTools(s *server.MCPServer, reg Registry, opts ...Option) {
	ts := &toolset{
		reg:      reg,
		tracer:   noop.NewTracerProvider().Tracer("noop"),
		defaults: design.DefaultConfig(),
	}
	for _, opt := range opts {
		opt(ts)
	}

	for _, t := range ts.tools() {
		s.AddTool(t.tool, ts.traced(t.tool.Name, t.handler))
	}
}

// ServeStdio serves s over stdin and stdout until the input closes.
func ServeStdio(s *server.MCPServer) error {
	log.Info(log.CatMCP, "MCP server starting on stdio")
	return server.ServeStdio(s)
}

func (ts *toolset) traced(name string, h server.ToolHandlerFunc) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		ctx, span := ts.tracer.Start(ctx, tracing.SpanPrefixMCP+name,
			trace.WithAttributes(attribute.String(tracing.AttrMCPToolName, name)))
		defer span.End()

		res, err := h(ctx, req)
		switch {
		case err != nil:
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		case res != nil && res.IsError:
			span.SetStatus(codes.Error, "tool error")
		}
		log.Debug(log.CatMCP, "Tool called", "tool", name, "error", res != nil && res.IsError)
		return res, err
	}
}

func toolError(err error) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultError(err.Error()), nil
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return toolError(err)
	}
	return mcp.NewToolResultText(string(data)), nil
}
