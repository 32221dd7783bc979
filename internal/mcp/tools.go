package mcp

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/hanzoai/design-registry/internal/domain/design"
	"github.com/hanzoai/design-registry/internal/domain/registry"
)

type tool struct {
	tool    mcp.Tool
	handler server.ToolHandlerFunc
}

func (ts *toolset) tools() []tool {
	return []tool{
		{listStylesTool(), ts.listStyles},
		{listItemsTool(), ts.listItems},
		{getItemTool(), ts.getItem},
		{resolveTreeTool(), ts.resolveTree},
		{designTool("validate_design", "Validate a design config against the vocabulary. Omitted fields take their defaults."), ts.validateDesign},
		{designTool("build_theme", "Build the registry:theme item for a design config."), ts.buildTheme},
		{designTool("build_base", "Build the registry:base item, with dependencies and project config, for a design config."), ts.buildBase},
	}
}

// --- list_styles ---

func listStylesTool() mcp.Tool {
	return mcp.NewTool("list_styles",
		mcp.WithDescription("List every style key of the registry index (base-style) with its item count."),
	)
}

func (ts *toolset) listStyles(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return jsonResult(ts.reg.Index().StyleInfos())
}

// --- list_items ---

func listItemsTool() mcp.Tool {
	return mcp.NewTool("list_items",
		mcp.WithDescription("List the items of a style, optionally filtered by type."),
		styleParam(),
		mcp.WithString("type",
			mcp.Description("Item type such as ui, block, ai or registry:hook. Omit for all items."),
		),
	)
}

func (ts *toolset) listItems(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	idx := ts.reg.Index()
	style := ts.style(req)
	if !idx.HasStyle(style) {
		return toolError(fmt.Errorf("%w: %s", registry.ErrUnknownStyle, style))
	}

	raw := req.GetString("type", "")
	if raw == "" {
		return jsonResult(idx.Items(style))
	}
	t, err := registry.ParseItemType(raw)
	if err != nil {
		return toolError(err)
	}
	return jsonResult(idx.ItemsByType(t, style))
}

// --- get_item ---

func getItemTool() mcp.Tool {
	return mcp.NewTool("get_item",
		mcp.WithDescription("Get one registry item as resolved for a style."),
		nameParam(),
		styleParam(),
	)
}

func (ts *toolset) getItem(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name := req.GetString("name", "")
	if name == "" {
		return toolError(fmt.Errorf("name is required"))
	}
	style := ts.style(req)

	idx := ts.reg.Index()
	if !idx.HasStyle(style) {
		return toolError(fmt.Errorf("%w: %s", registry.ErrUnknownStyle, style))
	}
	item, ok := idx.Item(name, style)
	if !ok {
		return toolError(fmt.Errorf("%w: %s in %s", registry.ErrItemNotFound, name, style))
	}
	return jsonResult(item)
}

// --- resolve_tree ---

func resolveTreeTool() mcp.Tool {
	return mcp.NewTool("resolve_tree",
		mcp.WithDescription("Flatten an item and its registry dependencies, dependencies first, with merged npm dependencies and CSS variables."),
		nameParam(),
		styleParam(),
	)
}

func (ts *toolset) resolveTree(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name := req.GetString("name", "")
	if name == "" {
		return toolError(fmt.Errorf("name is required"))
	}
	tree, err := ts.reg.ResolveTree(ctx, name, ts.style(req))
	if err != nil {
		return toolError(err)
	}
	return jsonResult(tree)
}

// --- design tools ---

func designTool(name, description string) mcp.Tool {
	opts := []mcp.ToolOption{mcp.WithDescription(description)}
	for _, field := range design.FieldNames() {
		opts = append(opts, mcp.WithString(field,
			mcp.Description(fmt.Sprintf("Design %s. Omit for the default.", field)),
		))
	}
	return mcp.NewTool(name, opts...)
}

func (ts *toolset) validateDesign(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg, err := ts.config(req)
	if err != nil {
		return toolError(err)
	}
	if err := ts.reg.Validate(ctx, cfg); err != nil {
		return toolError(err)
	}
	return jsonResult(map[string]any{
		"valid":     true,
		"styleName": cfg.StyleName(),
		"config":    cfg,
	})
}

func (ts *toolset) buildTheme(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg, err := ts.config(req)
	if err != nil {
		return toolError(err)
	}
	res, err := ts.reg.Resolve(ctx, cfg)
	if err != nil {
		return toolError(err)
	}
	return jsonResult(res.Theme)
}

func (ts *toolset) buildBase(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg, err := ts.config(req)
	if err != nil {
		return toolError(err)
	}
	res, err := ts.reg.Resolve(ctx, cfg)
	if err != nil {
		return toolError(err)
	}
	return jsonResult(res.Base)
}

// config reads the design fields of req over the default config. Empty
// strings keep the default.
func (ts *toolset) config(req mcp.CallToolRequest) (design.Config, error) {
	cfg := ts.defaults
	args := req.GetArguments()
	for _, field := range design.FieldNames() {
		raw, ok := args[field]
		if !ok || raw == nil {
			continue
		}
		v, ok := raw.(string)
		if !ok {
			return design.Config{}, fmt.Errorf("%s must be a string, got %T", field, raw)
		}
		if v == "" {
			continue
		}
		if err := cfg.Set(field, v); err != nil {
			return design.Config{}, err
		}
	}
	return cfg, nil
}

// style returns the style argument, or the style of the default config.
func (ts *toolset) style(req mcp.CallToolRequest) string {
	return req.GetString("style", ts.defaults.StyleName())
}

func nameParam() mcp.ToolOption {
	return mcp.WithString("name",
		mcp.Description("Registry item name, e.g. button or ai-chat"),
		mcp.Required(),
	)
}

func styleParam() mcp.ToolOption {
	return mcp.WithString("style",
		mcp.Description("Style key such as radix-hanzo. Omit for the default style."),
	)
}
