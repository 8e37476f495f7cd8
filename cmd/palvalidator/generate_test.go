package main

import (
	"testing"

	"github.com/palvalidator/core/internal/pal/universe"
)

func TestSearchModeByNameResolvesAllCanonicalModes(t *testing.T) {
	cases := map[string]universe.Name{
		"BASIC":      universe.Basic,
		"EXTENDED":   universe.Extended,
		"DEEP":       universe.Deep,
		"CLOSE":      universe.Close,
		"HIGH_LOW":   universe.HighLow,
		"OPEN_CLOSE": universe.OpenClose,
		"MIXED":      universe.Mixed,
	}
	for name, want := range cases {
		mode, err := searchModeByName(name)
		if err != nil {
			t.Fatalf("searchModeByName(%q) error = %v", name, err)
		}
		if mode.Name != want {
			t.Errorf("searchModeByName(%q).Name = %v, want %v", name, mode.Name, want)
		}
	}
}

func TestSearchModeByNameRejectsUnknown(t *testing.T) {
	if _, err := searchModeByName("BOGUS"); err == nil {
		t.Error("expected an error for an unknown search mode")
	}
}
