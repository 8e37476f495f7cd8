package analysisdb

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/palvalidator/core/internal/logger"
	"github.com/palvalidator/core/internal/metrics"
	"github.com/palvalidator/core/internal/notify"
)

// document is the on-disk JSON shape, rooted exactly as spec.md §6.3
// documents: {"patterns":[…], "indexMappings":{…}, "analyzedFiles":[…],
// "searchTypeStats":{…}}.
type document struct {
	Patterns        []PatternAnalysis             `json:"patterns"`
	IndexMappings   map[string]BarCombinationInfo `json:"indexMappings"`
	AnalyzedFiles   []FileAnalysisInfo            `json:"analyzedFiles"`
	SearchTypeStats map[string]SearchTypeStats    `json:"searchTypeStats"`
}

// Database is the persistent, re-openable analysis store. It is the only
// persisted core state (spec.md §6.7): every mutation happens in memory
// under mu and Save performs one atomic rewrite of the backing file.
// Grounded on PALAnalyzer's ownership of an AnalysisDatabase plus its
// auto-save-on-destruct behavior (reproduced here as an explicit Close
// rather than a finalizer, since Go has no deterministic destructors).
type Database struct {
	mu       sync.RWMutex
	path     string
	doc      document
	modified bool

	Logger   logger.AuditLogger
	Metrics  *metrics.Wrapper
	Notifier *notify.Manager
}

// New creates an empty Database backed by path. Callers typically follow
// this with Load to pick up any pre-existing file.
func New(path string) *Database {
	return &Database{
		path: path,
		doc: document{
			IndexMappings:   make(map[string]BarCombinationInfo),
			SearchTypeStats: make(map[string]SearchTypeStats),
		},
	}
}

// Load reads the database's backing JSON file, if present. A missing file
// is not an error: the database starts empty and re-openable from partial
// data, matching spec.md §6.7's incremental-analysis requirement.
func (d *Database) Load() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	data, err := os.ReadFile(d.path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("analysisdb: reading %s: %w", d.path, err)
	}

	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("analysisdb: parsing %s: %w", d.path, err)
	}
	if doc.IndexMappings == nil {
		doc.IndexMappings = make(map[string]BarCombinationInfo)
	}
	if doc.SearchTypeStats == nil {
		doc.SearchTypeStats = make(map[string]SearchTypeStats)
	}
	d.doc = doc
	d.modified = false
	return nil
}

// Save atomically rewrites the database's backing JSON file: the document
// is written to a temp file in the same directory, then renamed over the
// destination, so a crash mid-write never leaves a corrupt database.
func (d *Database) Save() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.saveLocked()
}

func (d *Database) saveLocked() error {
	data, err := json.MarshalIndent(d.doc, "", "  ")
	if err != nil {
		return fmt.Errorf("analysisdb: marshaling document: %w", err)
	}

	dir := filepath.Dir(d.path)
	tmp, err := os.CreateTemp(dir, ".analysisdb-*.tmp")
	if err != nil {
		return fmt.Errorf("analysisdb: creating temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("analysisdb: writing temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("analysisdb: closing temp file: %w", err)
	}
	if err := os.Rename(tmpPath, d.path); err != nil {
		return fmt.Errorf("analysisdb: renaming into place: %w", err)
	}

	d.modified = false
	return nil
}

// Modified reports whether the database has unsaved changes.
func (d *Database) Modified() bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.modified
}

// Close saves the database if it has unsaved changes, mirroring
// PALAnalyzer's destructor auto-save.
func (d *Database) Close() error {
	if !d.Modified() {
		return nil
	}
	return d.Save()
}

// AddPattern appends a pattern's analysis record.
func (d *Database) AddPattern(analysis PatternAnalysis) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.doc.Patterns = append(d.doc.Patterns, analysis)
	d.modified = true
	if d.Metrics != nil {
		d.Metrics.RecordAnalysisDBPatternCount(len(d.doc.Patterns))
	}
}

// AddPatternToIndexGroup folds a pattern's bar-combination info into the
// index it belongs to. If the index has prior contributions whose
// component set or bar-offset set disagrees with info, a consistency
// warning is logged (not
// returned as an error) per spec.md §7, and the new source file is still
// recorded against the existing entry rather than discarded.
func (d *Database) AddPatternToIndexGroup(index uint32, info BarCombinationInfo) {
	d.mu.Lock()
	key := fmt.Sprintf("%d", index)
	existing, ok := d.doc.IndexMappings[key]

	if !ok {
		d.doc.IndexMappings[key] = info
		d.bumpSearchTypeLocked(info.SearchType, false)
		d.modified = true
		d.mu.Unlock()
		return
	}

	consistent := sameComponentTypes(existing, info) && sameBarOffsets(existing, info)
	merged := existing
	merged.SourceFiles = append(merged.SourceFiles, info.SourceFiles...)
	d.doc.IndexMappings[key] = merged
	d.modified = true
	d.mu.Unlock()

	if !consistent {
		d.raiseConsistencyWarning(index, existing, info)
	}
}

func (d *Database) bumpSearchTypeLocked(searchType string, patternOnly bool) {
	stats := d.doc.SearchTypeStats[searchType]
	stats.SearchType = searchType
	if !patternOnly {
		stats.FileCount++
	}
	stats.PatternCount++
	d.doc.SearchTypeStats[searchType] = stats
}

// raiseConsistencyWarning logs, notifies, and records a metric for an
// index whose component set or bar-offset set disagrees across
// contributing files. It never
// returns an error: per spec.md §7, consistency warnings are logged, not
// thrown.
func (d *Database) raiseConsistencyWarning(index uint32, existing, newInfo BarCombinationInfo) {
	details := map[string]interface{}{
		"index":               index,
		"existingComponents":  existing.ComponentTypes,
		"newComponents":       newInfo.ComponentTypes,
		"existingBarOffsets":  existing.BarOffsets,
		"newBarOffsets":       newInfo.BarOffsets,
	}

	if d.Logger != nil {
		d.Logger.LogConsistencyWarning(fmt.Sprintf("index=%d", index), details)
	}
	if d.Metrics != nil {
		d.Metrics.RecordConsistencyWarning()
	}
	if d.Notifier != nil {
		d.Notifier.Notify(notify.SeverityWarning, notify.CategoryConsistencyWarning,
			fmt.Sprintf("pattern index %d has inconsistent bar/component usage across files", index),
			details)
	}
}

// AddAnalyzedFile records bookkeeping for a processed file.
func (d *Database) AddAnalyzedFile(info FileAnalysisInfo) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.doc.AnalyzedFiles = append(d.doc.AnalyzedFiles, info)
	d.modified = true
}

// IsFileAnalyzed reports whether filePath has already been recorded,
// supporting PALAnalyzer's incremental-analysis "skip already-seen files"
// behavior.
func (d *Database) IsFileAnalyzed(filePath string) bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	for _, f := range d.doc.AnalyzedFiles {
		if f.FilePath == filePath {
			return true
		}
	}
	return false
}

// AllPatterns returns every recorded pattern analysis.
func (d *Database) AllPatterns() []PatternAnalysis {
	d.mu.RLock()
	defer d.mu.RUnlock()
	out := make([]PatternAnalysis, len(d.doc.Patterns))
	copy(out, d.doc.Patterns)
	return out
}

// GetStats summarizes the database's current contents, mirroring
// PALAnalyzer::getStats.
func (d *Database) GetStats() AnalysisStats {
	d.mu.RLock()
	defer d.mu.RUnlock()

	breakdown := make(map[string]int, len(d.doc.SearchTypeStats))
	for k, v := range d.doc.SearchTypeStats {
		breakdown[k] = v.PatternCount
	}

	return AnalysisStats{
		TotalPatterns:       len(d.doc.Patterns),
		TotalFiles:          len(d.doc.AnalyzedFiles),
		TotalIndices:        len(d.doc.IndexMappings),
		SearchTypeBreakdown: breakdown,
	}
}
