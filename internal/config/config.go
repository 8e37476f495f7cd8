package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v2"

	"github.com/palvalidator/core/internal/logger"
	"github.com/palvalidator/core/internal/metrics"
	"github.com/palvalidator/core/internal/monitor"
)

// Config contains all application configuration for a validation run.
type Config struct {
	Universe   UniverseConfig       `yaml:"universe"`
	Bootstrap  BootstrapConfig      `yaml:"bootstrap"`
	Masters    MastersConfig        `yaml:"masters"`
	AnalysisDB AnalysisDBConfig     `yaml:"analysis_db"`
	Logging    logger.LoggingConfig `yaml:"logging"`
	Metrics    metrics.Config       `yaml:"metrics"`
	Monitor    monitor.Config       `yaml:"monitor"`
	Notify     NotifyConfig         `yaml:"notify"`
}

// UniverseConfig controls pattern universe generation defaults.
type UniverseConfig struct {
	SearchMode string `yaml:"search_mode"` // BASIC, EXTENDED, DEEP, CLOSE, HIGH_LOW, OPEN_CLOSE, MIXED
	OutputPath string `yaml:"output_path"`
}

// BootstrapConfig controls the BCa bootstrap statistics engine.
type BootstrapConfig struct {
	NumResamples    int     `yaml:"num_resamples"`
	ConfidenceLevel float64 `yaml:"confidence_level"`
	IntervalType    string  `yaml:"interval_type"` // "bca" or "percentile"
	BlockLength     int     `yaml:"block_length"`
}

// MastersConfig controls the Masters Monte Carlo / multiple-testing
// correction pass.
type MastersConfig struct {
	SignificanceLevel float64 `yaml:"significance_level"`
	NumPermutations   int     `yaml:"num_permutations"`
	CorrectionMethod  string  `yaml:"correction_method"` // "holm-rw", "romano-wolf", "unadjusted"
}

// AnalysisDBConfig controls the persistent analysis database.
type AnalysisDBConfig struct {
	Path string `yaml:"path"`
}

// NotifyConfig controls outbound alerting on validation outcomes.
type NotifyConfig struct {
	Enabled    bool   `yaml:"enabled"`
	WebhookURL string `yaml:"webhook_url"`
}

// DefaultConfig returns a Config populated with reasonable defaults for
// a research workstation.
func DefaultConfig() *Config {
	return &Config{
		Universe: UniverseConfig{
			SearchMode: "EXTENDED",
			OutputPath: "universe.bin",
		},
		Bootstrap: BootstrapConfig{
			NumResamples:    2000,
			ConfidenceLevel: 0.95,
			IntervalType:    "bca",
			BlockLength:     1,
		},
		Masters: MastersConfig{
			SignificanceLevel: 0.05,
			NumPermutations:   1000,
			CorrectionMethod:  "holm-rw",
		},
		AnalysisDB: AnalysisDBConfig{
			Path: "analysis.json",
		},
		Logging: *logger.GetDefaultLoggingConfig(),
		Metrics: metrics.DefaultConfig(),
		Monitor: monitor.DefaultConfig(),
		Notify: NotifyConfig{
			Enabled: false,
		},
	}
}

// Load reads and parses a YAML configuration file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: reading %s: %w", path, err)
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: parsing %s: %w", path, err)
	}

	if err := Validate(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks that a Config is internally consistent.
func Validate(cfg *Config) error {
	if cfg.Bootstrap.ConfidenceLevel <= 0 || cfg.Bootstrap.ConfidenceLevel >= 1 {
		return fmt.Errorf("config: bootstrap confidence_level must be in (0,1), got %v", cfg.Bootstrap.ConfidenceLevel)
	}
	if cfg.Bootstrap.NumResamples <= 0 {
		return fmt.Errorf("config: bootstrap num_resamples must be positive, got %d", cfg.Bootstrap.NumResamples)
	}
	if cfg.Masters.SignificanceLevel <= 0 || cfg.Masters.SignificanceLevel >= 1 {
		return fmt.Errorf("config: masters significance_level must be in (0,1), got %v", cfg.Masters.SignificanceLevel)
	}
	if cfg.Masters.NumPermutations <= 0 {
		return fmt.Errorf("config: masters num_permutations must be positive, got %d", cfg.Masters.NumPermutations)
	}
	switch cfg.Masters.CorrectionMethod {
	case "holm-rw", "romano-wolf", "unadjusted":
	default:
		return fmt.Errorf("config: unknown correction_method %q", cfg.Masters.CorrectionMethod)
	}
	if err := logger.ValidateConfig(&cfg.Logging); err != nil {
		return err
	}
	if err := cfg.Metrics.Validate(); err != nil {
		return err
	}
	return nil
}
