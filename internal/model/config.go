package model

import "time"

// Config holds the complete runtime configuration
type Config struct {
	KB          KBConfig          `yaml:"kb"`
	Cache       CacheConfig       `yaml:"cache"`
	Concurrency ConcurrencyConfig `yaml:"concurrency"`
	Output      OutputConfig      `yaml:"output"`
}

// KBConfig configures the knowledge base and query backend
type KBConfig struct {
	Backend string `yaml:"backend"` // "pattern" or "fallback"
	Path    string `yaml:"path"`    // External fact listing; empty uses the embedded one
}

// CacheConfig configures report caching for batch runs
type CacheConfig struct {
	Enabled bool          `yaml:"enabled"`
	Dir     string        `yaml:"dir"`
	TTL     time.Duration `yaml:"ttl"`
}

// ConcurrencyConfig configures batch processing
type ConcurrencyConfig struct {
	Workers int `yaml:"workers"`
}

// OutputConfig configures report rendering
type OutputConfig struct {
	Verbose bool `yaml:"verbose"`
	Pretty  bool `yaml:"pretty"` // Indent JSON output
}

// DefaultConfig returns the built-in defaults
func DefaultConfig() *Config {
	return &Config{
		KB: KBConfig{
			Backend: "pattern",
		},
		Cache: CacheConfig{
			Enabled: true,
			Dir:     "", // Resolved to ~/.triage/cache at startup
			TTL:     24 * time.Hour,
		},
		Concurrency: ConcurrencyConfig{
			Workers: 4,
		},
		Output: OutputConfig{
			Verbose: false,
			Pretty:  true,
		},
	}
}
