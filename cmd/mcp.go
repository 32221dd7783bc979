package cmd

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/hanzoai/design-registry/internal/mcp"
	"github.com/hanzoai/design-registry/internal/tracing"
)

func newMCPCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "mcp",
		Short: "Serve the registry as MCP tools over stdio",
		Long: `Serve the registry as Model Context Protocol tools over stdin and stdout.

Tools: list_styles, list_items, get_item, resolve_tree, validate_design,
build_theme and build_base. Design fields omitted by a tool call are taken
from the design section of the config.

Example MCP client entry:
  {"command": "design-registry", "args": ["mcp"]}`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			// Stdout carries the protocol.
			if c.cfg.Tracing.Enabled && c.cfg.Tracing.Exporter == tracing.ExporterStdout {
				return errors.New("the stdout trace exporter cannot be used with mcp")
			}
			svc, err := c.service()
			if err != nil {
				return err
			}
			tp, err := c.tracerProvider()
			if err != nil {
				return err
			}
			s := mcp.NewServer(svc, version,
				mcp.WithTracer(tp.Tracer()),
				mcp.WithDefaults(c.cfg.Design),
			)
			return mcp.ServeStdio(s)
		},
	}
}
