package analysisdb

import (
	"os"
	"path/filepath"
	"testing"
)

const sampleAnalyzerFile = `
{File:SAMPLE_EXTENDED.TXT Index: 7 Index Date: 12/23/2020 PL: 55.50 PS: 44.50 TRADES: 9 CL: 3}
IF CLOSE[5] > CLOSE[6]
AND CLOSE[6] > CLOSE[3]
THEN BUY NEXT BAR ON THE OPEN WITH PROFIT TARGET AT 2.10 % AND STOP LOSS AT 1.50 %

{File:SAMPLE_EXTENDED.TXT Index: 8 Index Date: 12/24/2020 PL: 50.0 PS: 50.0 TRADES: 6 CL: 2}
IF HIGH[0] > HIGH[1]
THEN SELL SHORT NEXT BAR ON THE OPEN WITH PROFIT TARGET AT 3.00 % AND STOP LOSS AT 1.00 %
`

func writeSampleFile(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "SAMPLE_EXTENDED.TXT")
	if err := os.WriteFile(path, []byte(sampleAnalyzerFile), 0o644); err != nil {
		t.Fatalf("failed to write sample file: %v", err)
	}
	return path
}

func TestAnalyzeFileRecordsPatternsAndBookkeeping(t *testing.T) {
	path := writeSampleFile(t)
	db := New(filepath.Join(t.TempDir(), "analysis.json"))
	a := NewAnalyzer(db)

	if err := a.AnalyzeFile(path, ""); err != nil {
		t.Fatalf("AnalyzeFile() error = %v", err)
	}

	stats := db.GetStats()
	if stats.TotalPatterns != 2 {
		t.Errorf("expected 2 patterns, got %d", stats.TotalPatterns)
	}
	if stats.TotalFiles != 1 {
		t.Errorf("expected 1 analyzed file, got %d", stats.TotalFiles)
	}
	if stats.TotalIndices != 2 {
		t.Errorf("expected 2 distinct indices, got %d", stats.TotalIndices)
	}
	if !db.IsFileAnalyzed(path) {
		t.Errorf("expected file to be marked analyzed")
	}

	patterns := db.AllPatterns()
	for _, p := range patterns {
		if p.SearchType != "EXTENDED" {
			t.Errorf("expected inferred search type EXTENDED, got %q", p.SearchType)
		}
	}
}

func TestAnalyzeFileSkipsAlreadyAnalyzedFiles(t *testing.T) {
	path := writeSampleFile(t)
	db := New(filepath.Join(t.TempDir(), "analysis.json"))
	a := NewAnalyzer(db)

	if err := a.AnalyzeFile(path, ""); err != nil {
		t.Fatalf("first AnalyzeFile() error = %v", err)
	}
	if err := a.AnalyzeFile(path, ""); err != nil {
		t.Fatalf("second AnalyzeFile() error = %v", err)
	}

	stats := db.GetStats()
	if stats.TotalPatterns != 2 {
		t.Errorf("expected re-analysis to be skipped, still 2 patterns, got %d", stats.TotalPatterns)
	}
	if stats.TotalFiles != 1 {
		t.Errorf("expected 1 analyzed file entry, got %d", stats.TotalFiles)
	}
}

func TestAnalyzeBatchContinuesPastFailures(t *testing.T) {
	good := writeSampleFile(t)
	missing := filepath.Join(t.TempDir(), "does-not-exist.txt")

	db := New(filepath.Join(t.TempDir(), "analysis.json"))
	a := NewAnalyzer(db)

	succeeded, err := a.AnalyzeBatch([]string{good, missing}, "")
	if succeeded != 1 {
		t.Errorf("expected 1 file to succeed, got %d", succeeded)
	}
	if err == nil {
		t.Errorf("expected an error for the missing file")
	}
}
