package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/hanzoai/design-registry/internal/config"
)

func newConfigInitCmd(_ *cli) *cobra.Command {
	var (
		path  string
		force bool
	)
	cmd := &cobra.Command{
		Use:   "config:init",
		Short: "Write a commented default config file",
		Long: `Write a commented default config file.

Examples:
  # Project config in .design-registry/config.yaml
  design-registry config:init

  # User config
  design-registry config:init --path ~/.config/design-registry/config.yaml`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if path == "" {
				path = localConfigPath
			}
			if _, err := os.Stat(path); err == nil && !force {
				return fmt.Errorf("%s already exists (use --force to overwrite)", path)
			}
			if err := config.WriteDefaultConfig(path); err != nil {
				return err
			}
			_, err := fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", path)
			return err
		},
	}
	cmd.Flags().StringVarP(&path, "path", "p", "", "file to write (default: .design-registry/config.yaml)")
	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing file")
	return cmd
}
