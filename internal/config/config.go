package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/rshade/lcacost/internal/engine"
	"github.com/rshade/lcacost/internal/logging"
	"github.com/rshade/lcacost/internal/material"
)

// Environment variables that override configuration.
const (
	EnvHome         = "LCACOST_HOME"
	EnvProjectDir   = "LCACOST_PROJECT_DIR"
	EnvLogLevel     = "LCACOST_LOG_LEVEL"
	EnvLogFormat    = "LCACOST_LOG_FORMAT"
	EnvDataset      = "LCACOST_DATASET"
	EnvCatalog      = "LCACOST_CATALOG"
	EnvOutputFormat = "LCACOST_OUTPUT_FORMAT"
)

// Output formats.
const (
	FormatTable = "table"
	FormatJSON  = "json"
	FormatCSV   = "csv"
)

const (
	configFileName  = "config.yaml"
	configFilePerm  = 0o600
	maxPrecision    = 10
	defaultAddr     = "127.0.0.1:8080"
	defaultLogLevel = "warn"
)

// Validation errors.
var (
	ErrInvalidOutputFormat = errors.New("output format must be 'table', 'json' or 'csv'")
	ErrInvalidPrecision    = errors.New("output precision must be between 0 and 10")
	ErrInvalidLogLevel     = errors.New("log level must be trace, debug, info, warn or error")
	ErrInvalidLogFormat    = errors.New("log format must be 'json', 'console' or 'text'")
	ErrInvalidAnalysis     = errors.New("invalid analysis defaults")
	ErrInvalidServerAddr   = errors.New("server address must be host:port")
	ErrUnknownKey          = errors.New("unknown configuration key")
)

// Config is the lcacost configuration file.
type Config struct {
	Dataset  DatasetConfig  `yaml:"dataset"  json:"dataset"`
	Analysis AnalysisConfig `yaml:"analysis" json:"analysis"`
	Output   OutputConfig   `yaml:"output"   json:"output"`
	Logging  LoggingConfig  `yaml:"logging"  json:"logging"`
	Server   ServerConfig   `yaml:"server"   json:"server"`

	configPath string
}

// DatasetConfig locates the material table. An empty Path uses the
// built-in table. CatalogDB, when set, is the SQLite catalog.
type DatasetConfig struct {
	Path      string `yaml:"path,omitempty"       json:"path,omitempty"`
	CatalogDB string `yaml:"catalog_db,omitempty" json:"catalog_db,omitempty"`
}

// AnalysisConfig holds default display parameters for analysis commands.
type AnalysisConfig struct {
	ImpactCategory      string  `yaml:"impact_category"       json:"impact_category"`
	ChartMode           string  `yaml:"chart_mode"            json:"chart_mode"`
	ViewMode            string  `yaml:"view_mode"             json:"view_mode"`
	HorizonYears        int     `yaml:"horizon_years"         json:"horizon_years"`
	DiscountRatePercent float64 `yaml:"discount_rate_percent" json:"discount_rate_percent"`
	Baseline            string  `yaml:"baseline,omitempty"    json:"baseline,omitempty"`
}

// OutputConfig controls CLI output.
type OutputConfig struct {
	DefaultFormat string `yaml:"default_format" json:"default_format"`
	Precision     int    `yaml:"precision"      json:"precision"`
}

// ServerConfig controls the HTTP API.
type ServerConfig struct {
	Addr string `yaml:"addr" json:"addr"`
}

// Default returns the built-in configuration without reading any file.
func Default() *Config {
	params := engine.DefaultDisplayParameters()
	return &Config{
		Analysis: AnalysisConfig{
			ImpactCategory:      string(params.ImpactCategory),
			ChartMode:           string(params.ChartMode),
			ViewMode:            string(params.ViewMode),
			HorizonYears:        params.HorizonYears,
			DiscountRatePercent: params.DiscountRatePercent,
		},
		Output: OutputConfig{
			DefaultFormat: FormatTable,
			Precision:     2,
		},
		Logging: LoggingConfig{
			Level:  defaultLogLevel,
			Format: logging.FormatConsole,
		},
		Server: ServerConfig{Addr: defaultAddr},
	}
}

// New returns the default configuration overlaid with the global config
// file, if present, and environment overrides. A config file that cannot be
// parsed is ignored here; Load reports the error.
func New() *Config {
	cfg := loadGlobal()
	cfg.applyEnvOverrides()
	return cfg
}

func loadGlobal() *Config {
	cfg := Default()
	dir, err := GetConfigDir()
	if err != nil {
		return cfg
	}
	cfg.configPath = filepath.Join(dir, configFileName)
	if loaded, loadErr := Load(cfg.configPath); loadErr == nil {
		return loaded
	}
	return cfg
}

// Load reads a config file over the defaults. Sections absent from the file
// keep their defaults.
func Load(path string) (*Config, error) {
	cfg := Default()
	cfg.configPath = path
	if err := ShallowMergeYAML(cfg, path); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ConfigPath returns where Save writes.
func (c *Config) ConfigPath() string {
	return c.configPath
}

// SetConfigPath changes where Save writes.
func (c *Config) SetConfigPath(path string) {
	c.configPath = path
}

// Save writes the configuration as YAML, creating the directory.
func (c *Config) Save() error {
	if c.configPath == "" {
		return errors.New("config path not set")
	}
	if err := os.MkdirAll(filepath.Dir(c.configPath), 0o700); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshalling config: %w", err)
	}
	if err = os.WriteFile(c.configPath, data, configFilePerm); err != nil {
		return fmt.Errorf("writing config %s: %w", c.configPath, err)
	}
	return nil
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv(EnvLogLevel); v != "" {
		c.Logging.Level = v
	}
	if v := os.Getenv(EnvLogFormat); v != "" {
		c.Logging.Format = v
	}
	if v := os.Getenv(EnvDataset); v != "" {
		c.Dataset.Path = v
	}
	if v := os.Getenv(EnvCatalog); v != "" {
		c.Dataset.CatalogDB = v
	}
	if v := os.Getenv(EnvOutputFormat); v != "" {
		c.Output.DefaultFormat = v
	}
}

// Validate checks every section and joins all problems.
func (c *Config) Validate() error {
	var errs []error

	switch c.Output.DefaultFormat {
	case FormatTable, FormatJSON, FormatCSV:
	default:
		errs = append(errs, fmt.Errorf("%w, got %q", ErrInvalidOutputFormat, c.Output.DefaultFormat))
	}
	if c.Output.Precision < 0 || c.Output.Precision > maxPrecision {
		errs = append(errs, fmt.Errorf("%w, got %d", ErrInvalidPrecision, c.Output.Precision))
	}

	if err := c.Logging.Validate(); err != nil {
		errs = append(errs, err)
	}

	if _, err := c.Analysis.DisplayParameters(); err != nil {
		errs = append(errs, err)
	}

	if c.Server.Addr != "" && !strings.Contains(c.Server.Addr, ":") {
		errs = append(errs, fmt.Errorf("%w, got %q", ErrInvalidServerAddr, c.Server.Addr))
	}

	return errors.Join(errs...)
}

// DisplayParameters converts the analysis defaults to engine parameters.
func (a AnalysisConfig) DisplayParameters() (engine.DisplayParameters, error) {
	params, err := a.parse()
	if err != nil {
		return engine.DisplayParameters{}, fmt.Errorf("%w: %w", ErrInvalidAnalysis, err)
	}
	if err = params.Validate(); err != nil {
		return engine.DisplayParameters{}, fmt.Errorf("%w: %w", ErrInvalidAnalysis, err)
	}
	return params, nil
}

func (a AnalysisConfig) parse() (engine.DisplayParameters, error) {
	params := engine.DefaultDisplayParameters()
	if a.ImpactCategory != "" {
		c, err := material.ParseImpactCategory(a.ImpactCategory)
		if err != nil {
			return params, err
		}
		params.ImpactCategory = c
	}
	if a.ChartMode != "" {
		m, err := engine.ParseChartMode(a.ChartMode)
		if err != nil {
			return params, err
		}
		params.ChartMode = m
	}
	if a.ViewMode != "" {
		v, err := engine.ParseViewMode(a.ViewMode)
		if err != nil {
			return params, err
		}
		params.ViewMode = v
	}
	params.HorizonYears = a.HorizonYears
	params.DiscountRatePercent = a.DiscountRatePercent
	params.BaselineName = a.Baseline
	return params, nil
}

// configKey binds a dotted key to a field.
type configKey struct {
	get func(c *Config) string
	set func(c *Config, v string) error
}

func stringKey(field func(c *Config) *string) configKey {
	return configKey{
		get: func(c *Config) string { return *field(c) },
		set: func(c *Config, v string) error { *field(c) = v; return nil },
	}
}

//nolint:gochecknoglobals // Key table is read-only after init.
var configKeys = map[string]configKey{
	"dataset.path":             stringKey(func(c *Config) *string { return &c.Dataset.Path }),
	"dataset.catalog_db":       stringKey(func(c *Config) *string { return &c.Dataset.CatalogDB }),
	"analysis.impact_category": stringKey(func(c *Config) *string { return &c.Analysis.ImpactCategory }),
	"analysis.chart_mode":      stringKey(func(c *Config) *string { return &c.Analysis.ChartMode }),
	"analysis.view_mode":       stringKey(func(c *Config) *string { return &c.Analysis.ViewMode }),
	"analysis.baseline":        stringKey(func(c *Config) *string { return &c.Analysis.Baseline }),
	"analysis.horizon_years": {
		get: func(c *Config) string { return strconv.Itoa(c.Analysis.HorizonYears) },
		set: func(c *Config, v string) error {
			n, err := strconv.Atoi(v)
			if err != nil {
				return fmt.Errorf("horizon_years must be an integer: %w", err)
			}
			c.Analysis.HorizonYears = n
			return nil
		},
	},
	"analysis.discount_rate_percent": {
		get: func(c *Config) string {
			return strconv.FormatFloat(c.Analysis.DiscountRatePercent, 'f', -1, 64)
		},
		set: func(c *Config, v string) error {
			f, err := strconv.ParseFloat(v, 64)
			if err != nil {
				return fmt.Errorf("discount_rate_percent must be a number: %w", err)
			}
			c.Analysis.DiscountRatePercent = f
			return nil
		},
	},
	"output.default_format": stringKey(func(c *Config) *string { return &c.Output.DefaultFormat }),
	"output.precision": {
		get: func(c *Config) string { return strconv.Itoa(c.Output.Precision) },
		set: func(c *Config, v string) error {
			n, err := strconv.Atoi(v)
			if err != nil {
				return fmt.Errorf("precision must be an integer: %w", err)
			}
			c.Output.Precision = n
			return nil
		},
	},
	"logging.level":  stringKey(func(c *Config) *string { return &c.Logging.Level }),
	"logging.format": stringKey(func(c *Config) *string { return &c.Logging.Format }),
	"logging.file":   stringKey(func(c *Config) *string { return &c.Logging.File }),
	"server.addr":    stringKey(func(c *Config) *string { return &c.Server.Addr }),
}

// Keys returns every settable key.
func Keys() []string {
	keys := make([]string, 0, len(configKeys))
	for k := range configKeys {
		keys = append(keys, k)
	}
	return keys
}

// Get returns the value of a dotted key such as "analysis.horizon_years".
func (c *Config) Get(key string) (string, error) {
	k, ok := configKeys[key]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnknownKey, key)
	}
	return k.get(c), nil
}

// Set assigns a dotted key. The caller validates and saves.
func (c *Config) Set(key, value string) error {
	k, ok := configKeys[key]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownKey, key)
	}
	return k.set(c, value)
}
