// Package config provides configuration types, defaults and validation for
// the design registry.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/hanzoai/design-registry/internal/domain/design"
	"github.com/hanzoai/design-registry/internal/domain/registry"
	"github.com/hanzoai/design-registry/internal/log"
	"github.com/hanzoai/design-registry/internal/tracing"
)

// AppName names the config directories and env prefix.
const AppName = "design-registry"

// EnvPrefix is the prefix viper binds environment variables under.
const EnvPrefix = "DESIGN_REGISTRY"

// Config holds all configuration options for the registry.
type Config struct {
	// CatalogDir replaces the embedded catalog with an on-disk directory of
	// the same layout. Empty uses the embedded catalog.
	CatalogDir string `mapstructure:"catalog_dir"`

	Collisions CollisionsConfig `mapstructure:"collisions"`
	Design     design.Config    `mapstructure:"design"`
	Server     ServerConfig     `mapstructure:"server"`
	Cache      CacheConfig      `mapstructure:"cache"`
	Tracing    tracing.Config   `mapstructure:"tracing"`
	Export     ExportConfig     `mapstructure:"export"`
	Log        LogConfig        `mapstructure:"log"`
}

// CollisionsConfig controls how name collisions during index build are handled.
type CollisionsConfig struct {
	Policy string `mapstructure:"policy"` // "extensions-win" (default), "strict", "last-wins"
}

// ServerConfig holds HTTP server settings for `serve`.
type ServerConfig struct {
	Addr          string        `mapstructure:"addr"`
	ReadTimeout   time.Duration `mapstructure:"read_timeout"`
	WriteTimeout  time.Duration `mapstructure:"write_timeout"`
	Watch         bool          `mapstructure:"watch"`          // Reload when catalog_dir changes
	WatchDebounce time.Duration `mapstructure:"watch_debounce"` // Coalesce bursts of file events
}

// CacheConfig holds resolved-artifact cache settings.
type CacheConfig struct {
	Enabled bool          `mapstructure:"enabled"`
	TTL     time.Duration `mapstructure:"ttl"`
}

// ExportConfig holds defaults for `build`.
type ExportConfig struct {
	Dir        string   `mapstructure:"dir"`
	SQLitePath string   `mapstructure:"sqlite_path"`
	S3         S3Config `mapstructure:"s3"`
}

// S3Config selects an S3 bucket as publish target.
type S3Config struct {
	Bucket       string `mapstructure:"bucket"`
	Prefix       string `mapstructure:"prefix"`
	Region       string `mapstructure:"region"`
	Endpoint     string `mapstructure:"endpoint"`       // Custom endpoint for S3-compatible stores
	UsePathStyle bool   `mapstructure:"use_path_style"` // Required by most S3-compatible stores
}

// LogConfig holds logger settings.
type LogConfig struct {
	Level string `mapstructure:"level"` // debug, info, warn (default), error
	File  string `mapstructure:"file"`  // Empty logs to stderr
}

// UserConfigDir returns ~/.config/design-registry, or "" when the home
// directory cannot be determined.
func UserConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", AppName)
}

// DefaultTracesFilePath returns the default JSONL trace output path.
func DefaultTracesFilePath() string {
	dir := UserConfigDir()
	if dir == "" {
		return ""
	}
	return filepath.Join(dir, "traces", "traces.jsonl")
}

// Defaults returns the default configuration.
func Defaults() Config {
	tc := tracing.DefaultConfig()
	tc.FilePath = "" // Derived from config dir at runtime
	return Config{
		Collisions: CollisionsConfig{Policy: string(registry.PolicyExtensionsWin)},
		Design:     design.DefaultConfig(),
		Server: ServerConfig{
			Addr:          "127.0.0.1:8080",
			ReadTimeout:   10 * time.Second,
			WriteTimeout:  30 * time.Second,
			Watch:         false,
			WatchDebounce: 200 * time.Millisecond,
		},
		Cache: CacheConfig{
			Enabled: true,
			TTL:     10 * time.Minute,
		},
		Tracing: tc,
		Export: ExportConfig{
			Dir: "public/r",
			S3: S3Config{
				Prefix: "r",
				Region: "us-east-1",
			},
		},
		Log: LogConfig{Level: "warn"},
	}
}

// Validate runs every section validator and joins the failures.
func Validate(cfg Config) error {
	return errors.Join(
		ValidateCollisions(cfg.Collisions),
		ValidateServer(cfg.Server),
		ValidateCache(cfg.Cache),
		ValidateTracing(cfg.Tracing),
		ValidateExport(cfg.Export),
		ValidateLog(cfg.Log),
	)
}

// ValidateCollisions checks the collision policy name.
func ValidateCollisions(c CollisionsConfig) error {
	if _, err := registry.ParseCollisionPolicy(c.Policy); err != nil {
		return fmt.Errorf("collisions.policy: %w", err)
	}
	return nil
}

// ValidateServer checks server timeouts and the debounce window.
func ValidateServer(s ServerConfig) error {
	if s.ReadTimeout < 0 {
		return fmt.Errorf("server.read_timeout must not be negative, got %s", s.ReadTimeout)
	}
	if s.WriteTimeout < 0 {
		return fmt.Errorf("server.write_timeout must not be negative, got %s", s.WriteTimeout)
	}
	if s.WatchDebounce < 0 {
		return fmt.Errorf("server.watch_debounce must not be negative, got %s", s.WatchDebounce)
	}
	return nil
}

// ValidateCache checks the cache TTL.
func ValidateCache(c CacheConfig) error {
	if c.Enabled && c.TTL <= 0 {
		return fmt.Errorf("cache.ttl must be positive when the cache is enabled, got %s", c.TTL)
	}
	return nil
}

// ValidateTracing checks tracing configuration values.
func ValidateTracing(t tracing.Config) error {
	if t.SampleRate < 0.0 || t.SampleRate > 1.0 {
		return fmt.Errorf("tracing.sample_rate must be between 0.0 and 1.0, got %v", t.SampleRate)
	}

	if t.Exporter != "" {
		switch t.Exporter {
		case tracing.ExporterNone, tracing.ExporterFile, tracing.ExporterStdout, tracing.ExporterOTLP:
		default:
			return fmt.Errorf("tracing.exporter must be \"none\", \"file\", \"stdout\", or \"otlp\", got %q", t.Exporter)
		}
	}

	// Path requirements only matter once tracing is on.
	if t.Enabled {
		if t.Exporter == tracing.ExporterFile && t.FilePath == "" {
			return fmt.Errorf("tracing.file_path is required when exporter is \"file\"")
		}
		if t.Exporter == tracing.ExporterOTLP && t.OTLPEndpoint == "" {
			return fmt.Errorf("tracing.otlp_endpoint is required when exporter is \"otlp\"")
		}
	}

	return nil
}

// ValidateExport checks the S3 section is complete when a bucket is set.
func ValidateExport(e ExportConfig) error {
	if e.S3.Bucket != "" && e.S3.Region == "" {
		return fmt.Errorf("export.s3.region is required when export.s3.bucket is set")
	}
	return nil
}

// ValidateLog checks the log level name.
func ValidateLog(l LogConfig) error {
	if _, err := log.ParseLevel(l.Level); err != nil {
		return fmt.Errorf("log.level: %w", err)
	}
	return nil
}

// DefaultConfigTemplate returns the commented config written by `config:init`.
func DefaultConfigTemplate() string {
	return `# Design Registry Configuration

# Serve the catalog from a directory instead of the embedded copy.
# The directory needs catalog.yaml, vocabulary.yaml and registries/.
# catalog_dir: ./catalog

# How name collisions are handled while building the index:
#   extensions-win  - extensions override provider items, clashing extensions fail (default)
#   strict          - any collision fails the build
#   last-wins       - the later registry silently replaces the earlier item
collisions:
  policy: extensions-win

# Default design system selection used by design:* commands and MCP tools.
# Flags such as --theme or --base-color override individual fields.
design:
  base: radix
  style: hanzo
  icon_library: lucide
  base_color: neutral
  theme: hanzo
  font: inter
  menu_accent: subtle
  menu_color: default
  radius: default
  template: next

# HTTP server for 'design-registry serve'
server:
  addr: 127.0.0.1:8080
  read_timeout: 10s
  write_timeout: 30s
  watch: false          # Reload when catalog_dir changes (requires catalog_dir)
  watch_debounce: 200ms

# Cache for resolved theme and base artifacts
cache:
  enabled: true
  ttl: 10m

# OpenTelemetry tracing
tracing:
  enabled: false
  exporter: file        # none, file, stdout, otlp
  # file_path: ~/.config/design-registry/traces/traces.jsonl
  otlp_endpoint: localhost:4317
  sample_rate: 1.0
  service_name: design-registry

# Static publish for 'design-registry build'
export:
  dir: public/r
  # sqlite_path: registry.db
  s3:
    # bucket: my-registry
    prefix: r
    region: us-east-1
    # endpoint: http://localhost:9000
    # use_path_style: true

log:
  level: warn           # debug, info, warn, error
  # file: design-registry.log
`
}

// WriteDefaultConfig creates a config file with default settings.
func WriteDefaultConfig(configPath string) error {
	log.Debug(log.CatConfig, "Writing default config", "path", configPath)

	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		log.ErrorErr(log.CatConfig, "Failed to create config directory", err, "dir", dir)
		return fmt.Errorf("creating config directory: %w", err)
	}

	if err := os.WriteFile(configPath, []byte(DefaultConfigTemplate()), 0o600); err != nil {
		log.ErrorErr(log.CatConfig, "Failed to write config file", err, "path", configPath)
		return fmt.Errorf("writing config file: %w", err)
	}

	log.Info(log.CatConfig, "Created default config", "path", configPath)
	return nil
}
