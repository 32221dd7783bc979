package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/require"

	"github.com/hanzoai/design-registry/internal/domain/design"
	"github.com/hanzoai/design-registry/internal/tracing"
)

func TestDefaults(t *testing.T) {
	cfg := Defaults()

	require.Empty(t, cfg.CatalogDir, "embedded catalog by default")
	require.Equal(t, "extensions-win", cfg.Collisions.Policy)
	require.Equal(t, design.DefaultConfig(), cfg.Design)
	require.Equal(t, "127.0.0.1:8080", cfg.Server.Addr)
	require.Equal(t, 200*time.Millisecond, cfg.Server.WatchDebounce)
	require.True(t, cfg.Cache.Enabled)
	require.Equal(t, 10*time.Minute, cfg.Cache.TTL)
	require.False(t, cfg.Tracing.Enabled)
	require.Equal(t, "warn", cfg.Log.Level)
	require.NoError(t, Validate(cfg))
}

func TestDefaultConfigTemplate_MatchesDefaults(t *testing.T) {
	v := viper.New()
	v.SetConfigType("yaml")
	require.NoError(t, v.ReadConfig(strings.NewReader(DefaultConfigTemplate())))

	var cfg Config
	require.NoError(t, v.Unmarshal(&cfg))
	require.Equal(t, Defaults(), cfg)
}

func TestWriteDefaultConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	require.NoError(t, WriteDefaultConfig(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, DefaultConfigTemplate(), string(data))
}

func TestValidateCollisions(t *testing.T) {
	for _, policy := range []string{"", "extensions-win", "strict", "last-wins"} {
		require.NoError(t, ValidateCollisions(CollisionsConfig{Policy: policy}), policy)
	}
	err := ValidateCollisions(CollisionsConfig{Policy: "first-wins"})
	require.ErrorContains(t, err, "collisions.policy")
}

func TestValidateServer(t *testing.T) {
	tests := []struct {
		name    string
		cfg     ServerConfig
		wantErr string
	}{
		{name: "zero", cfg: ServerConfig{}},
		{name: "negative read", cfg: ServerConfig{ReadTimeout: -time.Second}, wantErr: "server.read_timeout"},
		{name: "negative write", cfg: ServerConfig{WriteTimeout: -time.Second}, wantErr: "server.write_timeout"},
		{name: "negative debounce", cfg: ServerConfig{WatchDebounce: -time.Millisecond}, wantErr: "server.watch_debounce"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateServer(tt.cfg)
			if tt.wantErr == "" {
				require.NoError(t, err)
				return
			}
			require.ErrorContains(t, err, tt.wantErr)
		})
	}
}

func TestValidateCache(t *testing.T) {
	require.NoError(t, ValidateCache(CacheConfig{Enabled: false}))
	require.NoError(t, ValidateCache(CacheConfig{Enabled: true, TTL: time.Second}))
	require.ErrorContains(t, ValidateCache(CacheConfig{Enabled: true}), "cache.ttl")
}

func TestValidateTracing(t *testing.T) {
	tests := []struct {
		name    string
		cfg     tracing.Config
		wantErr string
	}{
		{name: "defaults", cfg: tracing.DefaultConfig()},
		{name: "sample rate too high", cfg: tracing.Config{SampleRate: 1.5}, wantErr: "sample_rate"},
		{name: "sample rate negative", cfg: tracing.Config{SampleRate: -0.1}, wantErr: "sample_rate"},
		{name: "bad exporter", cfg: tracing.Config{Exporter: "jaeger"}, wantErr: "tracing.exporter"},
		{name: "file without path when disabled", cfg: tracing.Config{Exporter: "file"}},
		{name: "file without path when enabled", cfg: tracing.Config{Enabled: true, Exporter: "file"}, wantErr: "file_path is required"},
		{name: "otlp without endpoint", cfg: tracing.Config{Enabled: true, Exporter: "otlp"}, wantErr: "otlp_endpoint is required"},
		{name: "stdout", cfg: tracing.Config{Enabled: true, Exporter: "stdout", SampleRate: 0.5}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateTracing(tt.cfg)
			if tt.wantErr == "" {
				require.NoError(t, err)
				return
			}
			require.ErrorContains(t, err, tt.wantErr)
		})
	}
}

func TestValidateExport(t *testing.T) {
	require.NoError(t, ValidateExport(ExportConfig{}))
	require.NoError(t, ValidateExport(ExportConfig{S3: S3Config{Bucket: "b", Region: "eu-west-1"}}))
	require.ErrorContains(t, ValidateExport(ExportConfig{S3: S3Config{Bucket: "b"}}), "export.s3.region")
}

func TestValidateLog(t *testing.T) {
	require.NoError(t, ValidateLog(LogConfig{Level: "debug"}))
	require.ErrorContains(t, ValidateLog(LogConfig{Level: "verbose"}), "log.level")
}

func TestValidate_JoinsSections(t *testing.T) {
	cfg := Defaults()
	cfg.Collisions.Policy = "nope"
	cfg.Log.Level = "loud"

	err := Validate(cfg)
	require.ErrorContains(t, err, "collisions.policy")
	require.ErrorContains(t, err, "log.level")
}

func TestDefaultTracesFilePath(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	path := DefaultTracesFilePath()
	require.True(t, strings.HasSuffix(path, filepath.Join(".config", "design-registry", "traces", "traces.jsonl")), path)
}
