package cmd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/hanzoai/design-registry/internal/config"
	"github.com/hanzoai/design-registry/internal/domain/design"
	"github.com/hanzoai/design-registry/internal/presentation"
)

const designFlagsHelp = `
The selection comes from the design section of the config. Every field can
be overridden with a flag: --base --style --icon-library --base-color
--theme --font --menu-accent --menu-color --radius --template.`

func newDesignValidateCmd(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "design:validate",
		Short: "Check a design system selection against the vocabulary",
		Long: `Check a design system selection against the vocabulary.

Every field is checked and all problems are reported together. The command
fails when the selection is invalid.
` + designFlagsHelp + `

Examples:
  # Validate the configured selection
  design-registry design:validate

  # Try a theme that does not fit the base color
  design-registry design:validate --base-color zinc --theme rose --format table`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := c.design(cmd)
			if err != nil {
				return err
			}
			svc, err := c.service()
			if err != nil {
				return err
			}
			f, err := c.formatter(cmd)
			if err != nil {
				return err
			}

			if err := svc.Validate(cmd.Context(), cfg); err != nil {
				var verr *design.ConfigValidationError
				if errors.As(err, &verr) {
					if werr := f.Write(presentation.FieldErrorsView(verr.Fields)); werr != nil {
						return werr
					}
				}
				return err
			}
			return f.Write(presentation.KeyValues{
				{"valid", "true"},
				{"styleName", cfg.StyleName()},
			})
		},
	}
	addDesignFlags(cmd)
	return cmd
}

func newDesignThemeCmd(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "design:theme",
		Short: "Build the registry theme for a design system selection",
		Long: `Build the registry:theme item for a design system selection.

The theme carries the light and dark CSS variables of the base color with
the theme and radius applied.
` + designFlagsHelp + `

Examples:
  # Theme of the configured selection
  design-registry design:theme

  # Blue theme with a large radius as a table
  design-registry design:theme --theme blue --radius large --format table`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			res, err := c.resolve(cmd)
			if err != nil {
				return err
			}
			f, err := c.formatter(cmd)
			if err != nil {
				return err
			}
			return f.Write(presentation.ThemeView(res.Theme))
		},
	}
	addDesignFlags(cmd)
	return cmd
}

func newDesignBaseCmd(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "design:base",
		Short: "Build the registry base for a design system selection",
		Long: `Build the registry:base item for a design system selection.

The base bundles the theme, the icon library and font dependencies and the
components.json settings of the selection.
` + designFlagsHelp + `

Examples:
  # Base of the configured selection
  design-registry design:base

  # Base for the Base UI primitives in YAML
  design-registry design:base --base base --format yaml`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			res, err := c.resolve(cmd)
			if err != nil {
				return err
			}
			f, err := c.formatter(cmd)
			if err != nil {
				return err
			}
			return f.Write(presentation.BaseView(res.Base))
		},
	}
	addDesignFlags(cmd)
	return cmd
}

func newDesignDiffCmd(c *cli) *cobra.Command {
	var (
		sets         []string
		contextLines int
	)
	cmd := &cobra.Command{
		Use:   "design:diff --set FIELD=VALUE...",
		Short: "Show how changing design fields changes the registry base",
		Long: `Show how changing design fields changes the generated registry base.

The current selection is resolved before and after applying every --set
and the two JSON documents are compared line by line.
` + designFlagsHelp + `

Examples:
  # What switching the theme changes
  design-registry design:diff --set theme=blue

  # Several fields at once, whole document
  design-registry design:diff --set base=base --set font=geist --context -1`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if len(sets) == 0 {
				return errors.New("at least one --set FIELD=VALUE is required")
			}
			before, err := c.design(cmd)
			if err != nil {
				return err
			}
			after := before
			for _, s := range sets {
				field, value, ok := strings.Cut(s, "=")
				if !ok {
					return fmt.Errorf("invalid --set %q: want FIELD=VALUE", s)
				}
				if err := after.Set(strings.TrimSpace(field), strings.TrimSpace(value)); err != nil {
					return err
				}
			}

			svc, err := c.service()
			if err != nil {
				return err
			}
			var docs [2]string
			for i, cfg := range []design.Config{before, after} {
				res, err := svc.Resolve(cmd.Context(), cfg)
				if err != nil {
					return err
				}
				data, err := json.MarshalIndent(res.Base, "", "  ")
				if err != nil {
					return err
				}
				docs[i] = string(data) + "\n"
			}

			diff := presentation.LineDiff(docs[0], docs[1])
			if !presentation.Changed(diff) {
				_, err := fmt.Fprintln(cmd.OutOrStdout(), "No changes")
				return err
			}
			return presentation.WriteDiff(cmd.OutOrStdout(), diff, contextLines)
		},
	}
	cmd.Flags().StringArrayVar(&sets, "set", nil, "design field to change, e.g. --set theme=blue (repeatable)")
	cmd.Flags().IntVarP(&contextLines, "context", "C", 3, "unchanged lines shown around each change (-1 shows all)")
	addDesignFlags(cmd)
	return cmd
}

func newDesignSaveCmd(c *cli) *cobra.Command {
	var path string
	cmd := &cobra.Command{
		Use:   "design:save",
		Short: "Validate a design system selection and store it in the config file",
		Long: `Validate a design system selection and write it to the design section
of the config file. Comments and the other sections are kept.
` + designFlagsHelp + `

Examples:
  # Make blue the default theme
  design-registry design:save --theme blue

  # Write to a specific file
  design-registry design:save --base base --path ./registry.yaml`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := c.design(cmd)
			if err != nil {
				return err
			}
			svc, err := c.service()
			if err != nil {
				return err
			}
			if err := svc.Validate(cmd.Context(), cfg); err != nil {
				return err
			}

			if path == "" {
				path = c.v.ConfigFileUsed()
			}
			if path == "" {
				path = localConfigPath
			}
			if err := config.SaveDesign(path, cfg); err != nil {
				return err
			}

			f, err := c.formatter(cmd)
			if err != nil {
				return err
			}
			return f.Write(presentation.KeyValues{
				{"path", path},
				{"styleName", cfg.StyleName()},
			})
		},
	}
	cmd.Flags().StringVarP(&path, "path", "p", "", "config file to update (default: the loaded config)")
	addDesignFlags(cmd)
	return cmd
}

// resolve validates the selected design config and builds its artifacts.
func (c *cli) resolve(cmd *cobra.Command) (design.Resolution, error) {
	cfg, err := c.design(cmd)
	if err != nil {
		return design.Resolution{}, err
	}
	svc, err := c.service()
	if err != nil {
		return design.Resolution{}, err
	}
	return svc.Resolve(cmd.Context(), cfg)
}
