package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/palvalidator/core/internal/analysisdb"
)

func runAnalyze(args []string) error {
	fs, configPath := flagSetWithConfig("analyze")
	file := fs.String("file", "", "path to a PAL pattern file to analyze")
	searchType := fs.String("search-type", "", "explicit search type override (defaults to filename inference)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *file == "" {
		return fmt.Errorf("cmd: -file is required")
	}

	cfg, err := loadConfig(*configPath)
	if err != nil {
		return err
	}

	log, err := buildLogger(cfg)
	if err != nil {
		return fmt.Errorf("cmd: initializing logger: %w", err)
	}
	defer log.Close()

	_, metricsWrapper := buildMetrics(cfg)
	notifier := buildNotifier(cfg)

	db := analysisdb.New(cfg.AnalysisDB.Path)
	if err := db.Load(); err != nil {
		return fmt.Errorf("cmd: loading analysis database: %w", err)
	}
	db.Logger = log
	db.Metrics = metricsWrapper
	if cfg.Notify.Enabled {
		db.Notifier = notifier
	}

	analyzer := analysisdb.NewAnalyzer(db)
	if err := analyzer.AnalyzeFile(*file, *searchType); err != nil {
		return err
	}
	if err := db.Close(); err != nil {
		return fmt.Errorf("cmd: saving analysis database: %w", err)
	}

	stats := db.GetStats()
	log.Info("analyze", fmt.Sprintf("database now holds %d patterns across %d files", stats.TotalPatterns, stats.TotalFiles))
	return nil
}

func runAnalyzeBatch(args []string) error {
	fs, configPath := flagSetWithConfig("analyze-batch")
	dir := fs.String("dir", "", "directory of PAL pattern files to analyze")
	pattern := fs.String("pattern", "*.txt", "glob pattern matched against files in -dir")
	searchType := fs.String("search-type", "", "explicit search type override (defaults to filename inference)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *dir == "" {
		return fmt.Errorf("cmd: -dir is required")
	}

	matches, err := filepath.Glob(filepath.Join(*dir, *pattern))
	if err != nil {
		return fmt.Errorf("cmd: globbing %s: %w", *dir, err)
	}
	if len(matches) == 0 {
		return fmt.Errorf("cmd: no files matched %s in %s", *pattern, *dir)
	}

	cfg, err := loadConfig(*configPath)
	if err != nil {
		return err
	}

	log, err := buildLogger(cfg)
	if err != nil {
		return fmt.Errorf("cmd: initializing logger: %w", err)
	}
	defer log.Close()

	_, metricsWrapper := buildMetrics(cfg)
	notifier := buildNotifier(cfg)

	db := analysisdb.New(cfg.AnalysisDB.Path)
	if err := db.Load(); err != nil {
		return fmt.Errorf("cmd: loading analysis database: %w", err)
	}
	db.Logger = log
	db.Metrics = metricsWrapper
	if cfg.Notify.Enabled {
		db.Notifier = notifier
	}

	analyzer := analysisdb.NewAnalyzer(db)
	succeeded, batchErr := analyzer.AnalyzeBatch(matches, *searchType)
	if err := db.Close(); err != nil {
		return fmt.Errorf("cmd: saving analysis database: %w", err)
	}

	stats := db.GetStats()
	log.Info("analyze-batch", fmt.Sprintf("analyzed %d/%d files, database now holds %d patterns", succeeded, len(matches), stats.TotalPatterns))

	if batchErr != nil {
		fmt.Fprintf(os.Stderr, "palvalidator: analyze-batch: first failure: %v\n", batchErr)
	}
	return nil
}
