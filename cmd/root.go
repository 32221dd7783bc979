package cmd

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"unicode"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	appreg "github.com/hanzoai/design-registry/internal/application/registry"
	"github.com/hanzoai/design-registry/internal/catalog"
	"github.com/hanzoai/design-registry/internal/config"
	"github.com/hanzoai/design-registry/internal/domain/design"
	"github.com/hanzoai/design-registry/internal/domain/registry"
	"github.com/hanzoai/design-registry/internal/log"
	"github.com/hanzoai/design-registry/internal/presentation"
	"github.com/hanzoai/design-registry/internal/tracing"
)

var version = "dev"

// localConfigPath is checked before the user config directory.
var localConfigPath = filepath.Join("."+config.AppName, "config.yaml")

// cli carries the state shared by one invocation of the command tree.
type cli struct {
	v       *viper.Viper
	cfgFile string
	cfg     config.Config

	svc      *appreg.RegistryService
	tracer   *tracing.Provider
	closeLog func()
}

// newRootCmd builds the command tree. The returned cli must be closed once
// the command has run.
func newRootCmd() (*cobra.Command, *cli) {
	c := &cli{v: viper.New()}

	root := &cobra.Command{
		Use:   config.AppName,
		Short: "Resolve and serve the Hanzo design system registry",
		Long: `Resolve and serve the Hanzo design system registry.

The registry merges the base provider registries with the extension
registries into one index per base and visual style, and derives theme and
base artifacts from a design system selection.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return c.initConfig()
		},
	}

	flags := root.PersistentFlags()
	flags.StringVarP(&c.cfgFile, "config", "c", "",
		"config file (default: .design-registry/config.yaml or ~/.config/design-registry/config.yaml)")
	flags.StringP("format", "f", string(presentation.FormatJSON),
		"output format: json, yaml, toml or table")
	flags.String("catalog", "", "catalog directory to use instead of the embedded catalog")
	flags.Bool("debug", false, "enable debug logging")
	_ = c.v.BindPFlag("format", flags.Lookup("format"))
	_ = c.v.BindPFlag("catalog_dir", flags.Lookup("catalog"))
	_ = c.v.BindPFlag("debug", flags.Lookup("debug"))

	root.AddCommand(
		newRegistryStylesCmd(c),
		newRegistryListCmd(c),
		newRegistryGetCmd(c),
		newRegistryTreeCmd(c),
		newDesignValidateCmd(c),
		newDesignThemeCmd(c),
		newDesignBaseCmd(c),
		newDesignDiffCmd(c),
		newDesignSaveCmd(c),
		newConfigInitCmd(c),
		newServeCmd(c),
		newMCPCmd(c),
		newBuildCmd(c),
	)
	return root, c
}

func (c *cli) initConfig() error {
	v := c.v
	setDefaults(v, config.Defaults())
	v.SetEnvPrefix(config.EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Config lookup order:
	// 1. --config
	// 2. .design-registry/config.yaml (current directory)
	// 3. ~/.config/design-registry/config.yaml (user config)
	if c.cfgFile != "" {
		v.SetConfigFile(c.cfgFile)
	} else if _, err := os.Stat(localConfigPath); err == nil {
		v.SetConfigFile(localConfigPath)
	} else {
		if dir := config.UserConfigDir(); dir != "" {
			v.AddConfigPath(dir)
		}
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return fmt.Errorf("reading config: %w", err)
		}
		// No config file anywhere: run on defaults.
	}

	if err := v.Unmarshal(&c.cfg); err != nil {
		return fmt.Errorf("decoding config: %w", err)
	}
	if c.cfg.Tracing.FilePath == "" {
		c.cfg.Tracing.FilePath = config.DefaultTracesFilePath()
	}
	if err := config.Validate(c.cfg); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return c.initLog()
}

// initLog sends log output to stderr or log.file. Stdout stays reserved for
// command output and the MCP stdio transport.
func (c *cli) initLog() error {
	level, err := log.ParseLevel(c.cfg.Log.Level)
	if err != nil {
		return err
	}
	if c.v.GetBool("debug") {
		level = log.LevelDebug
	}
	if c.cfg.Log.File != "" {
		closeLog, err := log.Init(c.cfg.Log.File, level)
		if err != nil {
			return fmt.Errorf("opening log file: %w", err)
		}
		c.closeLog = closeLog
		return nil
	}
	log.InitWriter(os.Stderr, level)
	return nil
}

func setDefaults(v *viper.Viper, d config.Config) {
	v.SetDefault("format", string(presentation.FormatJSON))
	v.SetDefault("debug", false)
	v.SetDefault("catalog_dir", d.CatalogDir)
	v.SetDefault("collisions.policy", d.Collisions.Policy)
	for _, field := range design.FieldNames() {
		value, _ := d.Design.Get(field)
		v.SetDefault("design."+snakeCase(field), value)
	}
	v.SetDefault("server.addr", d.Server.Addr)
	v.SetDefault("server.read_timeout", d.Server.ReadTimeout)
	v.SetDefault("server.write_timeout", d.Server.WriteTimeout)
	v.SetDefault("server.watch", d.Server.Watch)
	v.SetDefault("server.watch_debounce", d.Server.WatchDebounce)
	v.SetDefault("cache.enabled", d.Cache.Enabled)
	v.SetDefault("cache.ttl", d.Cache.TTL)
	v.SetDefault("tracing.enabled", d.Tracing.Enabled)
	v.SetDefault("tracing.exporter", d.Tracing.Exporter)
	v.SetDefault("tracing.file_path", d.Tracing.FilePath)
	v.SetDefault("tracing.otlp_endpoint", d.Tracing.OTLPEndpoint)
	v.SetDefault("tracing.sample_rate", d.Tracing.SampleRate)
	v.SetDefault("tracing.service_name", d.Tracing.ServiceName)
	v.SetDefault("export.dir", d.Export.Dir)
	v.SetDefault("export.sqlite_path", d.Export.SQLitePath)
	v.SetDefault("export.s3.bucket", d.Export.S3.Bucket)
	v.SetDefault("export.s3.prefix", d.Export.S3.Prefix)
	v.SetDefault("export.s3.region", d.Export.S3.Region)
	v.SetDefault("export.s3.endpoint", d.Export.S3.Endpoint)
	v.SetDefault("export.s3.use_path_style", d.Export.S3.UsePathStyle)
	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.file", d.Log.File)
}

// catalogFS returns the configured catalog directory, or the embedded one.
func (c *cli) catalogFS() fs.FS {
	if c.cfg.CatalogDir != "" {
		return os.DirFS(c.cfg.CatalogDir)
	}
	return catalog.FS()
}

// tracerProvider returns the tracer provider, creating it on first use.
func (c *cli) tracerProvider() (*tracing.Provider, error) {
	if c.tracer != nil {
		return c.tracer, nil
	}
	p, err := tracing.NewProvider(c.cfg.Tracing)
	if err != nil {
		return nil, fmt.Errorf("initializing tracing: %w", err)
	}
	c.tracer = p
	return p, nil
}

// service builds the registry service on first use.
func (c *cli) service() (*appreg.RegistryService, error) {
	if c.svc != nil {
		return c.svc, nil
	}
	policy, err := registry.ParseCollisionPolicy(c.cfg.Collisions.Policy)
	if err != nil {
		return nil, err
	}
	tp, err := c.tracerProvider()
	if err != nil {
		return nil, err
	}
	svc, err := appreg.NewRegistryService(c.catalogFS(),
		appreg.WithCollisionPolicy(policy),
		appreg.WithCache(c.cfg.Cache.Enabled, c.cfg.Cache.TTL),
		appreg.WithTracer(tp.Tracer()),
	)
	if err != nil {
		return nil, fmt.Errorf("loading registry: %w", err)
	}
	c.svc = svc
	return svc, nil
}

func (c *cli) formatter(cmd *cobra.Command) (*presentation.Formatter, error) {
	format, err := presentation.ParseFormat(c.v.GetString("format"))
	if err != nil {
		return nil, err
	}
	return presentation.NewFormatter(cmd.OutOrStdout(), format), nil
}

// addDesignFlags registers one flag per design field, e.g. --base-color.
func addDesignFlags(cmd *cobra.Command) {
	for _, field := range design.FieldNames() {
		cmd.Flags().String(kebabCase(field), "", "override design."+snakeCase(field))
	}
}

// design returns the configured design selection with flag overrides.
func (c *cli) design(cmd *cobra.Command) (design.Config, error) {
	cfg := c.cfg.Design
	for _, field := range design.FieldNames() {
		name := kebabCase(field)
		if !cmd.Flags().Changed(name) {
			continue
		}
		value, err := cmd.Flags().GetString(name)
		if err != nil {
			return design.Config{}, err
		}
		if err := cfg.Set(field, value); err != nil {
			return design.Config{}, err
		}
	}
	return cfg, nil
}

// close releases resources acquired during the run.
func (c *cli) close() {
	if c.tracer != nil {
		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := c.tracer.Shutdown(ctx); err != nil {
			log.ErrorErr(log.CatConfig, "Tracing shutdown failed", err)
		}
	}
	if c.closeLog != nil {
		c.closeLog()
	}
}

func kebabCase(s string) string { return splitCamel(s, '-') }
func snakeCase(s string) string { return splitCamel(s, '_') }

func splitCamel(s string, sep rune) string {
	var b strings.Builder
	for i, r := range s {
		if unicode.IsUpper(r) {
			if i > 0 {
				b.WriteRune(sep)
			}
			r = unicode.ToLower(r)
		}
		b.WriteRune(r)
	}
	return b.String()
}

// Execute runs the root command.
func Execute() error {
	root, c := newRootCmd()
	defer c.close()
	err := root.Execute()
	if err != nil {
		fmt.Fprintln(root.ErrOrStderr(), "Error:", err)
	}
	return err
}

// SetVersion sets the version string (called from main with ldflags).
func SetVersion(v string) {
	version = v
}
