package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v2"
)

// Version is the industry-codes release version.
const Version = "0.3.0"

// Config holds all industry-codes configuration.
type Config struct {
	Catalog  CatalogConfig  `yaml:"catalog"`
	Engine   EngineConfig   `yaml:"engine"`
	Pipeline PipelineConfig `yaml:"pipeline"`
	Output   OutputConfig   `yaml:"output"`
	Server   ServerConfig   `yaml:"server"`
	Log      LogConfig      `yaml:"log"`
}

// CatalogConfig selects where the industry catalog comes from.
type CatalogConfig struct {
	Source    string        `yaml:"source"` // "cdn", "scrape", "file"
	Path      string        `yaml:"path"`   // file source
	URL       string        `yaml:"url"`    // remote sources; empty uses the source default
	Timeout   time.Duration `yaml:"timeout"`
	CachePath string        `yaml:"cache_path"` // bbolt file; empty disables the cache
	CacheTTL  time.Duration `yaml:"cache_ttl"`
}

// EngineConfig holds matching defaults.
type EngineConfig struct {
	Workers int    `yaml:"workers"` // 0 = GOMAXPROCS
	TopN    int    `yaml:"top_n"`
	Field   string `yaml:"field"` // "label", "hierarchy", "both"
}

// PipelineConfig holds batch query settings.
type PipelineConfig struct {
	BatchSize int `yaml:"batch_size"`
}

// OutputConfig holds result output settings.
type OutputConfig struct {
	Verbosity string `yaml:"verbosity"` // "minimal", "standard", "full"
	Pretty    bool   `yaml:"pretty"`
	Path      string `yaml:"path"` // NDJSON file; empty writes to stdout only
	MaxSize   int64  `yaml:"max_size"`
}

// ServerConfig holds RESP server settings.
type ServerConfig struct {
	Addr string `yaml:"addr"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level string `yaml:"level"`
	JSON  bool   `yaml:"json"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Catalog: CatalogConfig{
			Source:   "cdn",
			Timeout:  10 * time.Second,
			CacheTTL: 24 * time.Hour,
		},
		Engine: EngineConfig{
			TopN:  1,
			Field: "label",
		},
		Pipeline: PipelineConfig{BatchSize: 64},
		Output:   OutputConfig{Verbosity: "standard"},
		Server:   ServerConfig{Addr: ":6380"},
		Log:      LogConfig{Level: "info", JSON: true},
	}
}

// Load builds a Config from defaults, then the YAML file at path (skipped
// when path is empty), then INDUSTRY_CODES_* environment variables.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("failed to unmarshal config: %w", err)
		}
	}
	applyEnv(&cfg)
	return cfg, nil
}

func applyEnv(cfg *Config) {
	cfg.Catalog.Source = getenv("INDUSTRY_CODES_SOURCE", cfg.Catalog.Source)
	cfg.Catalog.Path = getenv("INDUSTRY_CODES_CATALOG", cfg.Catalog.Path)
	cfg.Catalog.URL = getenv("INDUSTRY_CODES_URL", cfg.Catalog.URL)
	cfg.Catalog.Timeout = getenvDuration("INDUSTRY_CODES_TIMEOUT", cfg.Catalog.Timeout)
	cfg.Catalog.CachePath = getenv("INDUSTRY_CODES_CACHE", cfg.Catalog.CachePath)
	cfg.Catalog.CacheTTL = getenvDuration("INDUSTRY_CODES_CACHE_TTL", cfg.Catalog.CacheTTL)

	cfg.Engine.Workers = getenvInt("INDUSTRY_CODES_WORKERS", cfg.Engine.Workers)
	cfg.Engine.TopN = getenvInt("INDUSTRY_CODES_TOP_N", cfg.Engine.TopN)
	cfg.Engine.Field = getenv("INDUSTRY_CODES_FIELD", cfg.Engine.Field)

	cfg.Pipeline.BatchSize = getenvInt("INDUSTRY_CODES_BATCH_SIZE", cfg.Pipeline.BatchSize)

	cfg.Output.Verbosity = getenv("INDUSTRY_CODES_VERBOSITY", cfg.Output.Verbosity)
	cfg.Output.Pretty = getenvBool("INDUSTRY_CODES_PRETTY", cfg.Output.Pretty)
	cfg.Output.Path = getenv("INDUSTRY_CODES_OUTPUT", cfg.Output.Path)

	cfg.Server.Addr = getenv("INDUSTRY_CODES_ADDR", cfg.Server.Addr)

	cfg.Log.Level = getenv("INDUSTRY_CODES_LOG_LEVEL", cfg.Log.Level)
	cfg.Log.JSON = getenvBool("INDUSTRY_CODES_LOG_JSON", cfg.Log.JSON)
}

// Validate checks the configuration for errors. Returns all problems found.
func (c Config) Validate() error {
	var errs []error

	switch c.Catalog.Source {
	case "cdn", "scrape":
	case "file":
		if c.Catalog.Path == "" {
			errs = append(errs, errors.New("catalog source \"file\" requires a catalog path (INDUSTRY_CODES_CATALOG)"))
		}
	default:
		errs = append(errs, fmt.Errorf("catalog source must be cdn, scrape or file, got %q", c.Catalog.Source))
	}
	if c.Catalog.Timeout < 0 {
		errs = append(errs, fmt.Errorf("catalog timeout must be >= 0, got %v", c.Catalog.Timeout))
	}
	if c.Catalog.CacheTTL < 0 {
		errs = append(errs, fmt.Errorf("cache ttl must be >= 0, got %v", c.Catalog.CacheTTL))
	}

	if c.Engine.Workers < 0 {
		errs = append(errs, fmt.Errorf("workers must be >= 0, got %d", c.Engine.Workers))
	}
	if c.Engine.TopN < 0 {
		errs = append(errs, fmt.Errorf("top_n must be >= 0, got %d", c.Engine.TopN))
	}
	switch c.Engine.Field {
	case "label", "hierarchy", "both":
	default:
		errs = append(errs, fmt.Errorf("field must be label, hierarchy or both, got %q", c.Engine.Field))
	}

	if c.Pipeline.BatchSize <= 0 {
		errs = append(errs, fmt.Errorf("batch size must be > 0, got %d", c.Pipeline.BatchSize))
	}

	switch c.Output.Verbosity {
	case "minimal", "standard", "full":
	default:
		errs = append(errs, fmt.Errorf("verbosity must be minimal, standard or full, got %q", c.Output.Verbosity))
	}
	if c.Output.MaxSize < 0 {
		errs = append(errs, fmt.Errorf("output max size must be >= 0, got %d", c.Output.MaxSize))
	}

	return errors.Join(errs...)
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getenvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func getenvBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return b
}

func getenvDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fallback
	}
	return d
}
