package main

import (
	"context"
	"fmt"
	"math/rand"
	"os"
	"os/signal"
	"sort"
	"syscall"

	"github.com/shopspring/decimal"

	"github.com/palvalidator/core/internal/backtester"
	"github.com/palvalidator/core/internal/config"
	"github.com/palvalidator/core/internal/correction"
	"github.com/palvalidator/core/internal/executor"
	"github.com/palvalidator/core/internal/metrics"
	"github.com/palvalidator/core/internal/monitor"
	"github.com/palvalidator/core/internal/notify"
	"github.com/palvalidator/core/internal/pal/pattern"
	"github.com/palvalidator/core/internal/pal/universe"
	"github.com/palvalidator/core/internal/policy"
)

// syntheticReturns builds a deterministic return series standing in for a
// real backtest's trade history, since the production event loop that
// would compute one is an external collaborator outside this module's
// scope. Every template gets its own RNG stream seeded off seed and its
// ordinal so runs are reproducible given the same universe and seed.
func syntheticReturns(seed int64, ordinal int, n int) []decimal.Decimal {
	rng := rand.New(rand.NewSource(seed + int64(ordinal)))
	returns := make([]decimal.Decimal, n)
	for i := range returns {
		returns[i] = decimal.NewFromFloat(rng.NormFloat64() * 0.01)
	}
	return returns
}

func selectorForMethod(method string) (correction.StrategySelector[string], error) {
	switch method {
	case "holm-rw":
		return correction.NewHolmRomanoWolfCorrection[string](), nil
	case "romano-wolf":
		return correction.NewRomanoWolfStepdownCorrection[string](), nil
	case "unadjusted":
		return correction.NewUnadjustedPValueStrategySelection[string](), nil
	default:
		return nil, fmt.Errorf("cmd: unknown correction method %q", method)
	}
}

func runValidate(args []string) error {
	fs, configPath := flagSetWithConfig("validate")
	universePath := fs.String("universe", "", "path to a binary pattern universe file (defaults to the config file's output_path)")
	tradesPerPattern := fs.Int("trades-per-pattern", 60, "synthetic trade count generated per pattern when no real backtest is available")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := loadConfig(*configPath)
	if err != nil {
		return err
	}

	// A configured -config path gets a live watcher for the duration of
	// this run; see the OnChange registration below for what it is
	// allowed to touch. Structural fields (search mode, permutation
	// count, output paths) are already baked into strategies and the
	// driver by the time a reload could land, so they stay fixed for
	// the life of the process.
	var cfgManager *config.Manager
	if *configPath != "" {
		mgr, err := config.NewManager(*configPath, cfg)
		if err != nil {
			return fmt.Errorf("cmd: starting config watcher: %w", err)
		}
		if err := mgr.Watch(); err != nil {
			return fmt.Errorf("cmd: watching %s: %w", *configPath, err)
		}
		cfgManager = mgr
		defer cfgManager.Stop()
	}

	path := cfg.Universe.OutputPath
	if *universePath != "" {
		path = *universePath
	}

	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("cmd: opening universe file %s: %w", path, err)
	}
	templates, err := universe.ReadUniverse(f)
	f.Close()
	if err != nil {
		return fmt.Errorf("cmd: reading universe file %s: %w", path, err)
	}
	if len(templates) == 0 {
		return fmt.Errorf("cmd: universe file %s contains no templates", path)
	}

	log, err := buildLogger(cfg)
	if err != nil {
		return fmt.Errorf("cmd: initializing logger: %w", err)
	}
	defer log.Close()

	metricsRegistry, metricsWrapper := buildMetrics(cfg)
	notifier := buildNotifier(cfg)

	if cfg.Metrics.Enabled {
		serverCfg, err := metricsServerConfig(cfg.Metrics)
		if err != nil {
			return err
		}
		metricsServer := metrics.NewServer(serverCfg, metricsRegistry)
		metricsCtx, cancelMetrics := context.WithCancel(context.Background())
		go func() {
			if err := metricsServer.Start(metricsCtx); err != nil {
				log.Error("validate", fmt.Sprintf("metrics server stopped: %v", err))
			}
		}()
		defer cancelMetrics()
	}

	exec := executor.NewThreadPoolExecutor()
	policyCfg := policy.Config{
		NumResamples:    cfg.Bootstrap.NumResamples,
		ConfidenceLevel: cfg.Bootstrap.ConfidenceLevel,
		Exec:            exec,
		RNGSeed:         1,
	}
	scorer := policy.NewBootStrappedProfitFactor(policyCfg)

	strategies := make([]correction.StrategyUnderTest[string], 0, len(templates))
	for i, tmpl := range templates {
		returns := syntheticReturns(1, i, *tradesPerPattern)
		strategies = append(strategies, correction.StrategyUnderTest[string]{
			Strategy:   templateIdentity(tmpl, i),
			Policy:     scorer,
			Backtester: backtester.NewDouble(returns, true),
		})
	}

	selector, err := selectorForMethod(cfg.Masters.CorrectionMethod)
	if err != nil {
		return err
	}
	selector.SetSignificanceLevel(decimal.NewFromFloat(cfg.Masters.SignificanceLevel))

	// notify.Manager is safe for concurrent use, so it is the one piece
	// of state this command lets the watcher touch directly while the
	// permutation loop below is running: a webhook added or removed in
	// the config file takes effect on the very next alert. The
	// correction selector above has no such guarantee, so its
	// significance level is only ever read once, up front.
	if cfgManager != nil {
		cfgManager.OnChange(func(next *config.Config) {
			notifier.RemoveChannel("webhook")
			if next.Notify.Enabled && next.Notify.WebhookURL != "" {
				notifier.RegisterChannel(notify.NewWebhookChannel("webhook", next.Notify.WebhookURL))
			}
		})
	}

	aggregator := correction.NewStatisticsAggregator[string](func(s string) string { return s })
	var collector correction.PermutationStatisticsCollector[string] = aggregator

	if cfg.Monitor.Enabled {
		stream := monitor.NewServer()
		collector = monitor.NewCollector[string](stream, func(s string) string { return s })
		monitorServer := monitor.NewHTTPServer(cfg.Monitor, stream)
		ctx, cancel := context.WithCancel(context.Background())
		go func() {
			if err := monitorServer.Start(ctx); err != nil {
				log.Error("validate", fmt.Sprintf("permutation monitor stopped: %v", err))
			}
		}()
		defer cancel()
	}

	driver := correction.PALMastersMonteCarloValidation[string]{
		NumPermutations: cfg.Masters.NumPermutations,
		Exec:            exec,
		RNGSeed:         2,
		Collector:       collector,
		SearchMode:      cfg.Universe.SearchMode,
		Notifier:        notifier,
	}

	if _, err := driver.Run(strategies, selector); err != nil {
		return fmt.Errorf("cmd: running validation: %w", err)
	}

	metricsWrapper.RecordCorrectionSurvivors(cfg.Universe.SearchMode, cfg.Masters.CorrectionMethod, selector.NumSurvivingStrategies())
	log.LogSurvivorsChosen(cfg.Universe.SearchMode, selector.NumSurvivingStrategies(), map[string]interface{}{
		"num_strategies": len(strategies),
		"method":         cfg.Masters.CorrectionMethod,
	})

	printResults(selector.Results())

	if cfg.Monitor.Enabled {
		waitForShutdownSignal()
	}
	return nil
}

// templateIdentity returns a stable display name for a template, falling
// back to its ordinal position when the universe generator left the
// template unnamed.
func templateIdentity(tmpl *pattern.Template, ordinal int) string {
	if tmpl.Name != "" {
		return tmpl.Name
	}
	return fmt.Sprintf("pattern-%d", ordinal)
}

func printResults(results []correction.Result[string]) {
	sort.Slice(results, func(i, j int) bool { return results[i].AdjustedP.LessThan(results[j].AdjustedP) })
	for _, r := range results {
		status := "rejected"
		if r.Survived {
			status = "survived"
		}
		fmt.Printf("%-40s p=%-10s %s\n", r.Strategy, r.AdjustedP.StringFixed(4), status)
	}
}

func waitForShutdownSignal() {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan
}
