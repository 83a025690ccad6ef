package model

import (
	"os"
	"path/filepath"
	"time"
)

// Config is the complete runtime configuration
type Config struct {
	Catalog      CatalogConfig      `yaml:"catalog" mapstructure:"catalog"`
	Store        StoreConfig        `yaml:"store" mapstructure:"store"`
	Cache        CacheConfig        `yaml:"cache" mapstructure:"cache"`
	HTTP         HTTPConfig         `yaml:"http" mapstructure:"http"`
	Concurrency  ConcurrencyConfig  `yaml:"concurrency" mapstructure:"concurrency"`
	RateLimiting RateLimitingConfig `yaml:"rate_limiting" mapstructure:"rate_limiting"`
	Output       OutputConfig       `yaml:"output" mapstructure:"output"`
	Logging      LoggingConfig      `yaml:"logging" mapstructure:"logging"`
	Server       ServerConfig       `yaml:"server" mapstructure:"server"`
}

// CatalogConfig points at optional replacements for the built-in tables
type CatalogConfig struct {
	KeywordsFile string `yaml:"keywords_file" mapstructure:"keywords_file"` // YAML: type -> terms
	SectorsFile  string `yaml:"sectors_file" mapstructure:"sectors_file"`   // YAML: ordered sector list
	// Courts overrides court names by "J-TR" segment, e.g. "8-26": "TJSP - Capital"
	Courts map[string]string `yaml:"courts,omitempty" mapstructure:"courts"`
}

// StoreConfig configures persistence
type StoreConfig struct {
	Driver string `yaml:"driver" mapstructure:"driver"` // "sqlite" or "memory"
	Path   string `yaml:"path" mapstructure:"path"`
}

// CacheConfig configures the extracted-text cache
type CacheConfig struct {
	Enabled        bool          `yaml:"enabled" mapstructure:"enabled"`
	MemoryTTL      time.Duration `yaml:"memory_ttl" mapstructure:"memory_ttl"`
	MemoryMaxBytes int64         `yaml:"memory_max_bytes" mapstructure:"memory_max_bytes"` // 0 for unbounded
	DiskTTL        time.Duration `yaml:"disk_ttl" mapstructure:"disk_ttl"`
	Dir            string        `yaml:"dir" mapstructure:"dir"`
}

// HTTPConfig configures remote document fetching
type HTTPConfig struct {
	Timeout       time.Duration `yaml:"timeout" mapstructure:"timeout"`
	UserAgent     string        `yaml:"user_agent" mapstructure:"user_agent"`
	MaxBodyBytes  int64         `yaml:"max_body_bytes" mapstructure:"max_body_bytes"`
	RespectRobots bool          `yaml:"respect_robots" mapstructure:"respect_robots"`
	HTTPProxy     string        `yaml:"http_proxy,omitempty" mapstructure:"http_proxy"`
	HTTPSProxy    string        `yaml:"https_proxy,omitempty" mapstructure:"https_proxy"`
	NoProxy       string        `yaml:"no_proxy,omitempty" mapstructure:"no_proxy"`
}

// ConcurrencyConfig configures batch workers
type ConcurrencyConfig struct {
	Workers int `yaml:"workers" mapstructure:"workers"`
}

// RateLimitingConfig throttles remote fetches per host
type RateLimitingConfig struct {
	RequestsPerSecond float64          `yaml:"requests_per_second" mapstructure:"requests_per_second"`
	BurstSize         int              `yaml:"burst_size" mapstructure:"burst_size"`
	Hosts             []HostRateConfig `yaml:"hosts,omitempty" mapstructure:"hosts"` // A list, since viper splits map keys on dots
}

// HostRateConfig overrides the rate for one court portal
type HostRateConfig struct {
	Host              string  `yaml:"host" mapstructure:"host"`
	RequestsPerSecond float64 `yaml:"requests_per_second" mapstructure:"requests_per_second"`
	BurstSize         int     `yaml:"burst_size" mapstructure:"burst_size"`
}

// OutputConfig controls rendering and the caller-side record policy
type OutputConfig struct {
	Verbose        bool `yaml:"verbose" mapstructure:"verbose"`
	IncludeFooter  bool `yaml:"include_footer" mapstructure:"include_footer"`
	SkipUnresolved bool `yaml:"skip_unresolved" mapstructure:"skip_unresolved"` // Drop N/A-sector records before persisting/reporting
	StoreContent   bool `yaml:"store_content" mapstructure:"store_content"`     // Keep block text on persisted records
}

// LoggingConfig configures the structured logger
type LoggingConfig struct {
	Level       string   `yaml:"level" mapstructure:"level"`
	Development bool     `yaml:"development" mapstructure:"development"`
	OutputPaths []string `yaml:"output_paths" mapstructure:"output_paths"`
}

// ServerConfig configures the HTTP API
type ServerConfig struct {
	Addr             string        `yaml:"addr" mapstructure:"addr"`
	ReadTimeout      time.Duration `yaml:"read_timeout" mapstructure:"read_timeout"`
	WriteTimeout     time.Duration `yaml:"write_timeout" mapstructure:"write_timeout"`
	MaxUploadBytes   int64         `yaml:"max_upload_bytes" mapstructure:"max_upload_bytes"`
	MaxMultipleBytes int64         `yaml:"max_multiple_bytes" mapstructure:"max_multiple_bytes"`
}

// DefaultConfig returns the built-in defaults
func DefaultConfig() *Config {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	base := filepath.Join(home, ".juridico")

	return &Config{
		Store: StoreConfig{
			Driver: "sqlite",
			Path:   filepath.Join(base, "juridico.db"),
		},
		Cache: CacheConfig{
			Enabled:        true,
			MemoryTTL:      30 * time.Minute,
			MemoryMaxBytes: 256 << 20,
			DiskTTL:        7 * 24 * time.Hour,
			Dir:            filepath.Join(base, "cache"),
		},
		HTTP: HTTPConfig{
			Timeout:       time.Minute,
			UserAgent:     "Juridico/0.1 (+https://github.com/ppiankov/juridico)",
			MaxBodyBytes:  50_000_000,
			RespectRobots: true,
		},
		Concurrency: ConcurrencyConfig{
			Workers: 4,
		},
		RateLimiting: RateLimitingConfig{
			RequestsPerSecond: 2,
			BurstSize:         5,
		},
		Output: OutputConfig{
			IncludeFooter: true,
		},
		Logging: LoggingConfig{
			Level:       "warn",
			OutputPaths: []string{"stderr"},
		},
		Server: ServerConfig{
			Addr:             ":8080",
			ReadTimeout:      2 * time.Minute,
			WriteTimeout:     5 * time.Minute,
			MaxUploadBytes:   50_000_000,
			MaxMultipleBytes: 200_000_000,
		},
	}
}
