package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hanzoai/design-registry/internal/domain/registry"
	"github.com/hanzoai/design-registry/internal/presentation"
)

func newRegistryStylesCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "registry:styles",
		Short: "List every base and style combination in the index",
		Long: `List every style of the index with its base, visual style and item count.

Examples:
  # List styles as JSON
  design-registry registry:styles

  # Show them as a table
  design-registry registry:styles --format table

  # Extract the style names with jq
  design-registry registry:styles | jq -r '.[].name'`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			svc, err := c.service()
			if err != nil {
				return err
			}
			f, err := c.formatter(cmd)
			if err != nil {
				return err
			}
			return f.Write(presentation.StylesView(svc.Index().StyleInfos()))
		},
	}
}

func newRegistryListCmd(c *cli) *cobra.Command {
	var style, itemType string
	cmd := &cobra.Command{
		Use:   "registry:list",
		Short: "List the items of a style",
		Long: `List the items resolved for one style in insertion order.

The style defaults to the one selected by the design section of the config.
Use --type to keep only one item type; both "ui" and "registry:ui" work.

Examples:
  # Items of the configured style
  design-registry registry:list

  # UI components of radix-vega
  design-registry registry:list --style radix-vega --type ui

  # AI extension components as a table
  design-registry registry:list --type ai --format table`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			svc, err := c.service()
			if err != nil {
				return err
			}
			idx := svc.Index()
			style = c.styleOrDefault(style)
			if !idx.HasStyle(style) {
				return fmt.Errorf("%w: %s", registry.ErrUnknownStyle, style)
			}

			items := idx.Items(style)
			if itemType != "" {
				t, err := registry.ParseItemType(itemType)
				if err != nil {
					return err
				}
				items = idx.ItemsByType(t, style)
			}

			f, err := c.formatter(cmd)
			if err != nil {
				return err
			}
			return f.Write(presentation.ItemsView(items))
		},
	}
	cmd.Flags().StringVarP(&style, "style", "s", "", "style name, e.g. radix-hanzo (default: from design config)")
	cmd.Flags().StringVarP(&itemType, "type", "t", "", "filter by item type, e.g. ui or registry:block")
	return cmd
}

func newRegistryGetCmd(c *cli) *cobra.Command {
	var style string
	cmd := &cobra.Command{
		Use:   "registry:get NAME",
		Short: "Show one registry item",
		Long: `Show one registry item as resolved for a style.

Examples:
  # The button of the configured style
  design-registry registry:get button

  # The same item for another base
  design-registry registry:get button --style base-hanzo --format yaml`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := c.service()
			if err != nil {
				return err
			}
			idx := svc.Index()
			style = c.styleOrDefault(style)
			if !idx.HasStyle(style) {
				return fmt.Errorf("%w: %s", registry.ErrUnknownStyle, style)
			}
			item, ok := idx.Item(args[0], style)
			if !ok {
				return fmt.Errorf("%w: %s in %s", registry.ErrItemNotFound, args[0], style)
			}

			f, err := c.formatter(cmd)
			if err != nil {
				return err
			}
			return f.Write(presentation.ItemView(item))
		},
	}
	cmd.Flags().StringVarP(&style, "style", "s", "", "style name (default: from design config)")
	return cmd
}

func newRegistryTreeCmd(c *cli) *cobra.Command {
	var style string
	cmd := &cobra.Command{
		Use:   "registry:tree NAME",
		Short: "Resolve an item with all of its registry dependencies",
		Long: `Resolve an item and its registry dependencies, dependencies first.

The output lists each item once with the merged npm dependencies and CSS
variables. External references such as @scope/item or URLs are reported
but not followed.

Examples:
  # Everything ai-chat needs
  design-registry registry:tree ai-chat

  # Install order as a table
  design-registry registry:tree ai-chat --format table`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := c.service()
			if err != nil {
				return err
			}
			tree, err := svc.ResolveTree(cmd.Context(), args[0], c.styleOrDefault(style))
			if err != nil {
				return err
			}

			f, err := c.formatter(cmd)
			if err != nil {
				return err
			}
			return f.Write(presentation.TreeView(tree))
		},
	}
	cmd.Flags().StringVarP(&style, "style", "s", "", "style name (default: from design config)")
	return cmd
}

// styleOrDefault returns style, or the style selected by the design config.
func (c *cli) styleOrDefault(style string) string {
	if style != "" {
		return style
	}
	return c.cfg.Design.StyleName()
}
