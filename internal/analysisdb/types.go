// Package analysisdb implements the Analysis Database: a persistent JSON
// store of per-pattern and per-file analysis results, grounded on
// src/palanalyzer/{PALAnalyzer,PatternStructureExtractor}.{h,cpp} from the
// original source (AnalysisDatabase.h itself was not part of the retrieved
// source; its shape is reconstructed from PALAnalyzer's calls into it and
// from the JSON schema spec.md §6.3 documents directly).
package analysisdb

import (
	"strings"
	"time"

	"github.com/palvalidator/core/internal/pal/component"
)

// BarCombinationInfo records the distinct bar offsets and component types
// used by every pattern sharing a given pattern index, plus which source
// files have contributed to that index. Grounded on
// PatternStructureExtractor::extractBarCombinationInfo.
type BarCombinationInfo struct {
	BarOffsets     []uint8         `json:"barOffsets"`
	ComponentTypes []component.Type `json:"componentTypes"`
	SearchType     string          `json:"searchType"`
	SourceFiles    []string        `json:"sourceFiles"`
}

// componentTypeSet and barOffsetSet return info's fields as sets, used by
// sameComponentTypes and sameBarOffsets to compare two observations
// order-independently.
func (info BarCombinationInfo) componentTypeSet() map[component.Type]struct{} {
	set := make(map[component.Type]struct{}, len(info.ComponentTypes))
	for _, c := range info.ComponentTypes {
		set[c] = struct{}{}
	}
	return set
}

func (info BarCombinationInfo) barOffsetSet() map[uint8]struct{} {
	set := make(map[uint8]struct{}, len(info.BarOffsets))
	for _, o := range info.BarOffsets {
		set[o] = struct{}{}
	}
	return set
}

// sameComponentTypes reports whether a and b reference exactly the same
// set of component types, ignoring order and duplicates.
func sameComponentTypes(a, b BarCombinationInfo) bool {
	as, bs := a.componentTypeSet(), b.componentTypeSet()
	if len(as) != len(bs) {
		return false
	}
	for c := range as {
		if _, ok := bs[c]; !ok {
			return false
		}
	}
	return true
}

// sameBarOffsets reports whether a and b reference exactly the same set of
// bar offsets, ignoring order and duplicates.
func sameBarOffsets(a, b BarCombinationInfo) bool {
	as, bs := a.barOffsetSet(), b.barOffsetSet()
	if len(as) != len(bs) {
		return false
	}
	for o := range as {
		if _, ok := bs[o]; !ok {
			return false
		}
	}
	return true
}

// PatternAnalysis is the per-pattern structural record the database keeps:
// which index it belongs to, which components and bar offsets it
// references, and a handful of derived descriptive properties. Grounded on
// PatternStructureExtractor::extractPatternAnalysis.
type PatternAnalysis struct {
	Index          uint32                  `json:"index"`
	SourceFile     string                  `json:"sourceFile"`
	SearchType     string                  `json:"searchType"`
	Components     []component.Descriptor `json:"components"`
	ConditionCount uint8                  `json:"conditionCount"`
	MaxBarOffset   uint8                  `json:"maxBarOffset"`
	BarSpread      uint8                  `json:"barSpread"`
	Chaining       bool                   `json:"chaining"`
	PatternString  string                 `json:"patternString"`
}

// FileAnalysisInfo records bookkeeping for a single analyzed PAL file.
// Grounded on PALAnalyzer::updateFileAnalysis's FileAnalysisInfo literal.
type FileAnalysisInfo struct {
	FilePath      string    `json:"filePath"`
	AnalyzedAt    time.Time `json:"analyzedAt"`
	PatternCount  uint32    `json:"patternCount"`
	UniqueIndices uint32    `json:"uniqueIndices"`
}

// SearchTypeStats aggregates how many files and patterns have been
// contributed under a given search type.
type SearchTypeStats struct {
	SearchType   string `json:"searchType"`
	FileCount    int    `json:"fileCount"`
	PatternCount int    `json:"patternCount"`
}

// AnalysisStats is the overall summary PALAnalyzer::getStats returns.
type AnalysisStats struct {
	TotalPatterns      int            `json:"totalPatterns"`
	TotalFiles         int            `json:"totalFiles"`
	TotalIndices       int            `json:"totalIndices"`
	SearchTypeBreakdown map[string]int `json:"searchTypeBreakdown"`
}

// DetermineSearchType infers a PAL search mode from a file name, matching
// PatternStructureExtractor::determineSearchType's filename-inference
// fallback. Returns "UNKNOWN" when nothing recognizable is found; callers
// with an explicit search type should pass it directly instead of calling
// this.
func DetermineSearchType(filename string) string {
	lower := strings.ToLower(filename)
	switch {
	case strings.Contains(lower, "extended"):
		return "EXTENDED"
	case strings.Contains(lower, "deep"):
		return "DEEP"
	case strings.Contains(lower, "highlow"), strings.Contains(lower, "high_low"):
		return "HIGH_LOW"
	case strings.Contains(lower, "openclose"), strings.Contains(lower, "open_close"):
		return "OPEN_CLOSE"
	case strings.Contains(lower, "mixed"):
		return "MIXED"
	case strings.Contains(lower, "close"):
		return "CLOSE"
	case strings.Contains(lower, "basic"):
		return "BASIC"
	default:
		return "UNKNOWN"
	}
}
