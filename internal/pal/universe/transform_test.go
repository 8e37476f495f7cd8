package universe

import (
	"testing"

	"github.com/palvalidator/core/internal/pal/component"
	"github.com/palvalidator/core/internal/pal/condition"
	"github.com/palvalidator/core/internal/pal/pattern"
)

func TestDelayShiftsEveryOffsetAndChangesHash(t *testing.T) {
	tmpl := pattern.NewTemplate("base")
	tmpl.AddCondition(condition.New(component.New(component.Close, 0), condition.GreaterThan, component.New(component.Open, 1)))

	delayed := Delay(tmpl, 3)

	if delayed.Name != "base[Delay: 3]" {
		t.Errorf("expected delayed name suffix, got %q", delayed.Name)
	}
	if delayed.Conditions[0].Lhs.BarOffset != 3 || delayed.Conditions[0].Rhs.BarOffset != 4 {
		t.Errorf("expected offsets shifted by 3, got lhs=%d rhs=%d", delayed.Conditions[0].Lhs.BarOffset, delayed.Conditions[0].Rhs.BarOffset)
	}
	if delayed.Hash() == tmpl.Hash() {
		t.Error("expected the delayed template to have an independent hash")
	}
}

func TestSplitChainsConditionsAcrossTwoTemplates(t *testing.T) {
	a := pattern.NewTemplate("a")
	a.AddCondition(condition.New(component.New(component.Close, 0), condition.GreaterThan, component.New(component.Open, 0)))

	b := pattern.NewTemplate("b")
	b.AddCondition(condition.New(component.New(component.High, 0), condition.GreaterThan, component.New(component.Low, 0)))

	chained := Split(a, b)
	if len(chained) != 1 {
		t.Fatalf("expected 1 chained template, got %d", len(chained))
	}
	if len(chained[0].Conditions) != 2 {
		t.Errorf("expected 2 conditions in the chained template, got %d", len(chained[0].Conditions))
	}
	if chained[0].Name[:6] != "Split_" {
		t.Errorf("expected Split_ name prefix, got %q", chained[0].Name)
	}
}

func TestSplitSkipsSharedDescriptorPairs(t *testing.T) {
	a := pattern.NewTemplate("a")
	a.AddCondition(condition.New(component.New(component.Close, 0), condition.GreaterThan, component.New(component.Open, 0)))

	b := pattern.NewTemplate("b")
	b.AddCondition(condition.New(component.New(component.Open, 0), condition.LessThan, component.New(component.Close, 0)))

	chained := Split(a, b)
	if len(chained) != 0 {
		t.Errorf("expected 0 chained templates when the pair is shared, got %d", len(chained))
	}
}
