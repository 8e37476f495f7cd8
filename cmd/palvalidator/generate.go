package main

import (
	"fmt"
	"os"

	"github.com/palvalidator/core/internal/executor"
	"github.com/palvalidator/core/internal/pal/universe"
)

// searchModeByName resolves one of the seven canonical search modes by
// its configuration-file/flag name, matching PatternUniverseGenerator's
// --mode EXTENDED|DEEP|... surface from spec.md §6.6.
func searchModeByName(name string) (universe.SearchMode, error) {
	switch name {
	case "BASIC":
		return universe.BasicMode, nil
	case "EXTENDED":
		return universe.ExtendedMode, nil
	case "DEEP":
		return universe.DeepMode, nil
	case "CLOSE":
		return universe.CloseMode, nil
	case "HIGH_LOW":
		return universe.HighLowMode, nil
	case "OPEN_CLOSE":
		return universe.OpenCloseMode, nil
	case "MIXED":
		return universe.MixedMode, nil
	default:
		return universe.SearchMode{}, fmt.Errorf("cmd: unknown search mode %q", name)
	}
}

func runGenerateUniverse(args []string) error {
	fs, configPath := flagSetWithConfig("generate-universe")
	mode := fs.String("mode", "", "search mode: BASIC, EXTENDED, DEEP, CLOSE, HIGH_LOW, OPEN_CLOSE, MIXED (defaults to the config file's value)")
	output := fs.String("output", "", "output path for the binary universe file (defaults to the config file's value)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := loadConfig(*configPath)
	if err != nil {
		return err
	}

	modeName := cfg.Universe.SearchMode
	if *mode != "" {
		modeName = *mode
	}
	outputPath := cfg.Universe.OutputPath
	if *output != "" {
		outputPath = *output
	}

	searchMode, err := searchModeByName(modeName)
	if err != nil {
		return err
	}

	log, err := buildLogger(cfg)
	if err != nil {
		return fmt.Errorf("cmd: initializing logger: %w", err)
	}
	defer log.Close()

	_, metricsWrapper := buildMetrics(cfg)

	gen := universe.Generator{Mode: searchMode, Exec: executor.NewThreadPoolExecutor()}
	templates := gen.Generate()
	metricsWrapper.RecordUniverseGenerated(searchMode.Name.String(), len(templates))

	f, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("cmd: creating %s: %w", outputPath, err)
	}
	defer f.Close()

	if err := universe.WriteUniverse(f, templates); err != nil {
		return fmt.Errorf("cmd: writing universe: %w", err)
	}

	log.Info("generate-universe", fmt.Sprintf("wrote %d templates for search mode %s to %s", len(templates), searchMode.Name, outputPath))
	return nil
}
