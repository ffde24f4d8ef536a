package config_test

import (
	"os"
	"path/filepath"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rshade/lcacost/internal/config"
	"github.com/rshade/lcacost/internal/engine"
	"github.com/rshade/lcacost/internal/logging"
	"github.com/rshade/lcacost/internal/material"
)

// isolateHome points the global config at an empty temp dir.
func isolateHome(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv(config.EnvHome, home)
	for _, env := range []string{
		config.EnvProjectDir, config.EnvLogLevel, config.EnvLogFormat,
		config.EnvDataset, config.EnvCatalog, config.EnvOutputFormat,
	} {
		t.Setenv(env, "")
	}
	config.ResetGlobalConfigForTest()
	t.Cleanup(config.ResetGlobalConfigForTest)
	return home
}

func TestDefault_IsValid(t *testing.T) {
	cfg := config.Default()
	require.NoError(t, cfg.Validate())

	params, err := cfg.Analysis.DisplayParameters()
	require.NoError(t, err)
	assert.Equal(t, engine.DefaultDisplayParameters(), params)
}

func TestNew_ReadsGlobalFileAndEnv(t *testing.T) {
	home := isolateHome(t)
	require.NoError(t, os.WriteFile(filepath.Join(home, "config.yaml"), []byte(`
analysis:
  impact_category: water
  chart_mode: percentage
  view_mode: cpi
  horizon_years: 40
  discount_rate_percent: 5
  baseline: 2x6 Wall
`), 0o600))
	t.Setenv(config.EnvOutputFormat, "json")
	t.Setenv(config.EnvDataset, "/tmp/materials.yaml")

	cfg := config.New()
	assert.Equal(t, filepath.Join(home, "config.yaml"), cfg.ConfigPath())
	assert.Equal(t, "json", cfg.Output.DefaultFormat)
	assert.Equal(t, "/tmp/materials.yaml", cfg.Dataset.Path)

	params, err := cfg.Analysis.DisplayParameters()
	require.NoError(t, err)
	assert.Equal(t, material.CategoryWater, params.ImpactCategory)
	assert.Equal(t, engine.ChartPercentage, params.ChartMode)
	assert.Equal(t, engine.ViewCostPerImpact, params.ViewMode)
	assert.Equal(t, 40, params.HorizonYears)
	assert.InDelta(t, 5.0, params.DiscountRatePercent, 1e-12)
	assert.Equal(t, "2x6 Wall", params.BaselineName)
}

func TestNew_CorruptGlobalFileFallsBackToDefaults(t *testing.T) {
	home := isolateHome(t)
	require.NoError(t, os.WriteFile(filepath.Join(home, "config.yaml"), []byte("{{{"), 0o600))

	cfg := config.New()
	assert.Equal(t, config.Default().Output, cfg.Output)

	_, err := config.Load(filepath.Join(home, "config.yaml"))
	assert.Error(t, err)
}

func TestSaveAndLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	cfg := config.Default()
	cfg.SetConfigPath(path)
	cfg.Server.Addr = ":9999"
	require.NoError(t, cfg.Save())

	loaded, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, ":9999", loaded.Server.Addr)
	assert.Equal(t, cfg.Analysis, loaded.Analysis)

	assert.Error(t, (&config.Config{}).Save())
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *config.Config)
		wantErr error
	}{
		{"bad output format", func(c *config.Config) { c.Output.DefaultFormat = "xml" }, config.ErrInvalidOutputFormat},
		{"bad precision", func(c *config.Config) { c.Output.Precision = 11 }, config.ErrInvalidPrecision},
		{"bad log level", func(c *config.Config) { c.Logging.Level = "loud" }, config.ErrInvalidLogLevel},
		{"bad log format", func(c *config.Config) { c.Logging.Format = "xml" }, config.ErrInvalidLogFormat},
		{"bad category", func(c *config.Config) { c.Analysis.ImpactCategory = "noise" }, config.ErrInvalidAnalysis},
		{"negative horizon", func(c *config.Config) { c.Analysis.HorizonYears = -1 }, engine.ErrInvalidParameter},
		{"rate of minus one hundred", func(c *config.Config) { c.Analysis.DiscountRatePercent = -100 }, config.ErrInvalidAnalysis},
		{"bad addr", func(c *config.Config) { c.Server.Addr = "localhost" }, config.ErrInvalidServerAddr},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.Default()
			tt.mutate(cfg)
			assert.ErrorIs(t, cfg.Validate(), tt.wantErr)
		})
	}
}

func TestGetSet(t *testing.T) {
	cfg := config.Default()

	v, err := cfg.Get("analysis.horizon_years")
	require.NoError(t, err)
	assert.Equal(t, "30", v)

	require.NoError(t, cfg.Set("analysis.discount_rate_percent", "4.5"))
	v, err = cfg.Get("analysis.discount_rate_percent")
	require.NoError(t, err)
	assert.Equal(t, "4.5", v)

	require.NoError(t, cfg.Set("dataset.path", "m.yaml"))
	assert.Equal(t, "m.yaml", cfg.Dataset.Path)

	assert.Error(t, cfg.Set("output.precision", "two"))
	_, err = cfg.Get("dataset.url")
	assert.ErrorIs(t, err, config.ErrUnknownKey)
	assert.ErrorIs(t, cfg.Set("nope", "1"), config.ErrUnknownKey)

	assert.True(t, slices.Contains(config.Keys(), "server.addr"))
}

func TestLoggingConfig_ToLoggingConfig(t *testing.T) {
	lc := config.LoggingConfig{Level: "debug", Format: "json"}
	assert.Equal(t, logging.OutputStderr, lc.ToLoggingConfig().Output)

	lc.File = "/var/log/lcacost.log"
	got := lc.ToLoggingConfig()
	assert.Equal(t, logging.OutputFile, got.Output)
	assert.Equal(t, "/var/log/lcacost.log", got.File)
	assert.Equal(t, "debug", got.Level)
}

func TestGlobalConfig(t *testing.T) {
	isolateHome(t)
	t.Setenv(config.EnvLogLevel, "error")

	assert.Equal(t, "error", config.GetLoggingConfig().Level)
	assert.Equal(t, config.FormatTable, config.GetDefaultOutputFormat())
	assert.Equal(t, 2, config.GetOutputPrecision())

	custom := config.Default()
	custom.Output.Precision = 5
	config.SetGlobalConfig(custom)
	assert.Equal(t, 5, config.GetOutputPrecision())
}

func TestEnsureGitignore(t *testing.T) {
	dir := filepath.Join(t.TempDir(), ".lcacost")

	created, err := config.EnsureGitignore(dir)
	require.NoError(t, err)
	assert.True(t, created)

	data, err := os.ReadFile(filepath.Join(dir, ".gitignore"))
	require.NoError(t, err)
	assert.Equal(t, config.GitignoreContent(), string(data))
	assert.Contains(t, string(data), "*.db")

	created, err = config.EnsureGitignore(dir)
	require.NoError(t, err)
	assert.False(t, created)
}
