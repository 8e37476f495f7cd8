package universe

import (
	"testing"

	"github.com/palvalidator/core/internal/executor"
	"github.com/palvalidator/core/internal/pal/component"
)

// tinyMode keeps the combinatorial search small enough for a unit test:
// two component types, offsets 0..1, at most 2 conditions per template.
var tinyMode = SearchMode{
	Name:          Basic,
	Components:    []component.Type{component.Close, component.Open},
	MaxOffset:     1,
	MaxConditions: 2,
	MinLength:     1,
	MaxLength:     2,
}

func TestGenerateProducesNonEmptyDedupedSet(t *testing.T) {
	g := Generator{Mode: tinyMode, Exec: executor.NewSingleThreadExecutor()}
	templates := g.Generate()

	if len(templates) == 0 {
		t.Fatal("expected at least one generated template")
	}

	seen := make(map[uint64]bool)
	for _, tmpl := range templates {
		h := tmpl.Hash()
		if seen[h] {
			t.Errorf("duplicate template hash %d in generated set", h)
		}
		seen[h] = true
	}
}

func TestGenerateRejectsDegenerateAndRepeatedPairs(t *testing.T) {
	g := Generator{Mode: tinyMode, Exec: executor.NewSingleThreadExecutor()}
	templates := g.Generate()

	for _, tmpl := range templates {
		for _, c := range tmpl.Conditions {
			if c.Degenerate() {
				t.Errorf("generated a degenerate condition in %q", tmpl.Name)
			}
		}
		for i := range tmpl.Conditions {
			for j := range tmpl.Conditions {
				if i == j {
					continue
				}
				if tmpl.Conditions[i].SharesDescriptorPair(tmpl.Conditions[j]) {
					t.Errorf("template %q reuses a descriptor pair across conditions", tmpl.Name)
				}
			}
		}
	}
}

func TestGenerateRespectsMaxConditionsLength(t *testing.T) {
	g := Generator{Mode: tinyMode, Exec: executor.NewSingleThreadExecutor()}
	templates := g.Generate()

	for _, tmpl := range templates {
		if len(tmpl.Conditions) < tinyMode.MinLength || len(tmpl.Conditions) > tinyMode.MaxLength {
			t.Errorf("template %q has %d conditions, outside [%d,%d]", tmpl.Name, len(tmpl.Conditions), tinyMode.MinLength, tinyMode.MaxLength)
		}
	}
}

func TestGenerateIsDeterministicUnderSingleThreadExecutor(t *testing.T) {
	g1 := Generator{Mode: tinyMode, Exec: executor.NewSingleThreadExecutor()}
	g2 := Generator{Mode: tinyMode, Exec: executor.NewSingleThreadExecutor()}

	t1 := g1.Generate()
	t2 := g2.Generate()

	if len(t1) != len(t2) {
		t.Fatalf("expected the same number of templates across runs, got %d and %d", len(t1), len(t2))
	}
	hashes1 := make(map[uint64]bool)
	for _, tmpl := range t1 {
		hashes1[tmpl.Hash()] = true
	}
	for _, tmpl := range t2 {
		if !hashes1[tmpl.Hash()] {
			t.Errorf("hash %d present in second run but not first", tmpl.Hash())
		}
	}
}
