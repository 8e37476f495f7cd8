package logger

import (
	"fmt"
	"strings"
	"time"
)

// ComponentConfig overrides the global config for a specific component
// (e.g. "universe", "bootstrap", "correction").
type ComponentConfig struct {
	Level  LogLevel `yaml:"level"`
	Format string   `yaml:"format"`
	Output string   `yaml:"output"`
}

// LoggingConfig holds the complete logging configuration.
type LoggingConfig struct {
	Global     *Config                    `yaml:"global"`
	Audit      *AuditConfig               `yaml:"audit"`
	Rotation   *RotationConfig            `yaml:"rotation"`
	Components map[string]ComponentConfig `yaml:"components"`
}

// GetDefaultLoggingConfig returns a default logging configuration
// suitable for a research workstation running a validation batch.
func GetDefaultLoggingConfig() *LoggingConfig {
	return &LoggingConfig{
		Global: &Config{
			Level:           INFO,
			Format:          "json",
			Output:          "logs/palvalidator.log",
			EnableAudit:     true,
			AuditFile:       "logs/audit.log",
			MaxFileSizeMB:   100,
			MaxBackupFiles:  10,
			CompressBackups: true,
			EnableTrace:     true,
			TraceHeaderName: "X-Trace-ID",
		},
		Audit: GetDefaultAuditConfig(),
		Rotation: &RotationConfig{
			MaxSizeBytes: 100 * 1024 * 1024,
			MaxBackups:   10,
			Compress:     true,
		},
		Components: map[string]ComponentConfig{
			"universe":    {Level: INFO, Format: "json", Output: "stdout"},
			"bootstrap":   {Level: INFO, Format: "json", Output: "stdout"},
			"correction":  {Level: INFO, Format: "json", Output: "stdout"},
			"analysisdb":  {Level: WARN, Format: "json", Output: "stdout"},
		},
	}
}

// GetComponentConfig resolves the effective config for a component. Output
// and Format fall back to the global config when the override leaves them
// empty; Level is always taken from the override.
func (lc *LoggingConfig) GetComponentConfig(component string) Config {
	cfg := *lc.Global
	if override, ok := lc.Components[component]; ok {
		if override.Output != "" {
			cfg.Output = override.Output
		}
		if override.Format != "" {
			cfg.Format = override.Format
		}
		cfg.Level = override.Level
	}
	return cfg
}

// ValidateConfig checks that a LoggingConfig is internally consistent.
func ValidateConfig(lc *LoggingConfig) error {
	if lc.Global == nil {
		return fmt.Errorf("logger: global config is required")
	}
	if lc.Global.Format != "json" && lc.Global.Format != "text" {
		return fmt.Errorf("logger: unsupported format %q", lc.Global.Format)
	}
	if lc.Global.EnableAudit && lc.Global.AuditFile == "" {
		return fmt.Errorf("logger: audit enabled but audit_file is empty")
	}
	if lc.Rotation != nil && lc.Rotation.MaxSizeBytes < 0 {
		return fmt.Errorf("logger: rotation max_size_bytes must be non-negative")
	}
	return nil
}

// MergeConfigs layers override on top of base, returning a new config.
// Zero-valued fields in override are treated as "not set".
func MergeConfigs(base, override Config) Config {
	merged := base
	if override.Output != "" {
		merged.Output = override.Output
	}
	if override.Format != "" {
		merged.Format = override.Format
	}
	if override.AuditFile != "" {
		merged.AuditFile = override.AuditFile
	}
	if override.MaxFileSizeMB != 0 {
		merged.MaxFileSizeMB = override.MaxFileSizeMB
	}
	if override.MaxBackupFiles != 0 {
		merged.MaxBackupFiles = override.MaxBackupFiles
	}
	return merged
}

// ParseLogLevel parses a level name into a LogLevel.
func ParseLogLevel(s string) (LogLevel, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "DEBUG":
		return DEBUG, nil
	case "INFO":
		return INFO, nil
	case "WARN", "WARNING":
		return WARN, nil
	case "ERROR":
		return ERROR, nil
	case "FATAL":
		return FATAL, nil
	default:
		return 0, fmt.Errorf("logger: unknown log level %q", s)
	}
}

// ParseDuration parses a duration string, returning a descriptive error
// on failure rather than the stdlib's terse one.
func ParseDuration(s string) (time.Duration, error) {
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("logger: invalid duration %q: %w", s, err)
	}
	return d, nil
}
