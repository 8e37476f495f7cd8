package main

import (
	"fmt"
	"strconv"

	"github.com/palvalidator/core/internal/config"
	"github.com/palvalidator/core/internal/logger"
	"github.com/palvalidator/core/internal/metrics"
	"github.com/palvalidator/core/internal/notify"
)

// loadConfig returns the defaults when path is empty, matching the
// teacher's config.Load(*configPath) call with an empty-string fallback
// made explicit for subcommands that can run standalone.
func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		return config.DefaultConfig(), nil
	}
	return config.Load(path)
}

// buildLogger constructs a PALLogger from a config's logging section.
func buildLogger(cfg *config.Config) (*logger.PALLogger, error) {
	return logger.New(cfg.Logging.Global)
}

// buildMetrics constructs the Prometheus registry and its typed wrapper.
func buildMetrics(cfg *config.Config) (*metrics.Metrics, *metrics.Wrapper) {
	m := metrics.New()
	return m, metrics.NewWrapper(m, cfg.Metrics.Enabled)
}

// metricsServerConfig adapts the lightweight metrics.Config into the
// metrics HTTP server's ServerConfig, converting its string port field
// into the numeric field ServerConfig expects.
func metricsServerConfig(cfg metrics.Config) (metrics.ServerConfig, error) {
	sc := metrics.DefaultServerConfig()
	sc.Enabled = cfg.Enabled
	sc.Address = cfg.Address
	sc.Path = cfg.Path
	if cfg.Port != "" {
		port, err := strconv.Atoi(cfg.Port)
		if err != nil {
			return sc, fmt.Errorf("cmd: invalid metrics port %q: %w", cfg.Port, err)
		}
		sc.Port = port
	}
	return sc, nil
}

// buildNotifier constructs a notify.Manager with a console channel always
// registered and an optional webhook channel when configured.
func buildNotifier(cfg *config.Config) *notify.Manager {
	mgr := notify.NewManager(256)
	mgr.RegisterChannel(notify.NewConsoleChannel("console"))
	if cfg.Notify.Enabled && cfg.Notify.WebhookURL != "" {
		mgr.RegisterChannel(notify.NewWebhookChannel("webhook", cfg.Notify.WebhookURL))
	}
	return mgr
}
