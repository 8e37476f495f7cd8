package analysisdb

import (
	"fmt"
	"time"

	"github.com/palvalidator/core/internal/pal/parser"
)

// Analyzer orchestrates parsing PAL pattern files and recording their
// structural analysis into a Database, mirroring PALAnalyzer's role as
// the driver that glues the parser, the structure extractor, and the
// database together.
type Analyzer struct {
	DB *Database
}

// NewAnalyzer builds an Analyzer backed by db.
func NewAnalyzer(db *Database) *Analyzer {
	return &Analyzer{DB: db}
}

// AnalyzeFile parses filePath and records every pattern it contains.
// explicitSearchType overrides filename inference when non-empty,
// mirroring PALAnalyzer::analyzeFile's explicitSearchType parameter.
// Already-analyzed files are skipped, supporting incremental re-runs.
func (a *Analyzer) AnalyzeFile(filePath string, explicitSearchType string) error {
	if a.DB.IsFileAnalyzed(filePath) {
		return nil
	}

	driver := parser.NewDriver()
	if err := driver.ParseFile(filePath); err != nil {
		return fmt.Errorf("analysisdb: parsing %s: %w", filePath, err)
	}

	strategies := driver.GetPalStrategies()
	searchType := explicitSearchType
	if searchType == "" {
		searchType = DetermineSearchType(filePath)
	}

	uniqueIndices := make(map[uint32]struct{})
	for _, p := range strategies {
		analysis, err := ExtractPatternAnalysis(p, filePath, searchType)
		if err != nil {
			return fmt.Errorf("analysisdb: analyzing pattern in %s: %w", filePath, err)
		}
		a.DB.AddPattern(analysis)

		info := ExtractBarCombinationInfo(analysis.Components, searchType, filePath)
		a.DB.AddPatternToIndexGroup(analysis.Index, info)
		uniqueIndices[analysis.Index] = struct{}{}
	}

	a.DB.AddAnalyzedFile(FileAnalysisInfo{
		FilePath:      filePath,
		AnalyzedAt:    time.Now().UTC(),
		PatternCount:  uint32(len(strategies)),
		UniqueIndices: uint32(len(uniqueIndices)),
	})
	return nil
}

// AnalyzeBatch analyzes every file in filePaths, continuing past
// individual failures and returning the count that succeeded alongside
// the first error encountered, mirroring PALAnalyzer::analyzeBatch.
func (a *Analyzer) AnalyzeBatch(filePaths []string, explicitSearchType string) (int, error) {
	succeeded := 0
	var firstErr error
	for _, path := range filePaths {
		if err := a.AnalyzeFile(path, explicitSearchType); err != nil {
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		succeeded++
	}
	return succeeded, firstErr
}
