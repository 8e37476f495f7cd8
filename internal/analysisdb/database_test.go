package analysisdb

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/palvalidator/core/internal/logger"
	"github.com/palvalidator/core/internal/pal/component"
)

func TestDatabaseLoadMissingFileStartsEmpty(t *testing.T) {
	db := New(filepath.Join(t.TempDir(), "does-not-exist.json"))
	require.NoError(t, db.Load())
	assert.Equal(t, 0, db.GetStats().TotalPatterns)
}

func TestDatabaseSaveThenLoadRoundTrips(t *testing.T) {
	path := filepath.Join(t.TempDir(), "analysis.json")
	db := New(path)

	db.AddPattern(PatternAnalysis{Index: 1, SourceFile: "a.txt", SearchType: "EXTENDED"})
	db.AddPatternToIndexGroup(1, BarCombinationInfo{
		BarOffsets:     []uint8{0, 3},
		ComponentTypes: []component.Type{component.Close},
		SearchType:     "EXTENDED",
		SourceFiles:    []string{"a.txt"},
	})
	db.AddAnalyzedFile(FileAnalysisInfo{FilePath: "a.txt", PatternCount: 1, UniqueIndices: 1})
	require.NoError(t, db.Save())
	assert.False(t, db.Modified())

	reloaded := New(path)
	require.NoError(t, reloaded.Load())
	stats := reloaded.GetStats()
	assert.Equal(t, 1, stats.TotalPatterns)
	assert.Equal(t, 1, stats.TotalFiles)
	assert.Equal(t, 1, stats.TotalIndices)
	assert.True(t, reloaded.IsFileAnalyzed("a.txt"))
}

func TestAddPatternToIndexGroupMergesSourceFiles(t *testing.T) {
	db := New(filepath.Join(t.TempDir(), "analysis.json"))
	info := BarCombinationInfo{
		BarOffsets:     []uint8{0, 1},
		ComponentTypes: []component.Type{component.Close},
		SearchType:     "EXTENDED",
		SourceFiles:    []string{"a.txt"},
	}
	db.AddPatternToIndexGroup(1, info)

	info2 := info
	info2.SourceFiles = []string{"b.txt"}
	db.AddPatternToIndexGroup(1, info2)

	stats := db.GetStats()
	assert.Equal(t, 1, stats.TotalIndices)
}

type recordingAuditLogger struct {
	warnings int
}

func (r *recordingAuditLogger) LogEvent(entry logger.AuditEntry) {}
func (r *recordingAuditLogger) LogConsistencyWarning(security string, details interface{}) {
	r.warnings++
}
func (r *recordingAuditLogger) LogSurvivorsChosen(searchMode string, survivorCount int, metadata interface{}) {
}

func TestAddPatternToIndexGroupRaisesWarningOnDisagreement(t *testing.T) {
	db := New(filepath.Join(t.TempDir(), "analysis.json"))
	al := &recordingAuditLogger{}
	db.Logger = al

	db.AddPatternToIndexGroup(1, BarCombinationInfo{
		BarOffsets:     []uint8{0, 1},
		ComponentTypes: []component.Type{component.Close},
		SearchType:     "EXTENDED",
		SourceFiles:    []string{"a.txt"},
	})
	db.AddPatternToIndexGroup(1, BarCombinationInfo{
		BarOffsets:     []uint8{0, 1},
		ComponentTypes: []component.Type{component.Open},
		SearchType:     "EXTENDED",
		SourceFiles:    []string{"b.txt"},
	})

	assert.Equal(t, 1, al.warnings)
}
