package pattern

import (
	"testing"

	"github.com/palvalidator/core/internal/pal/component"
	"github.com/palvalidator/core/internal/pal/condition"
)

func sampleConditions() (condition.Condition, condition.Condition) {
	a := component.New(component.Close, 0)
	b := component.New(component.Close, 1)
	c := component.New(component.Open, 2)

	c1 := condition.New(a, condition.GreaterThan, b)
	c2 := condition.New(b, condition.GreaterThan, c)
	return c1, c2
}

func TestTemplateMaxBarOffset(t *testing.T) {
	c1, c2 := sampleConditions()
	tpl := NewTemplate("sample")
	tpl.AddCondition(c1)
	tpl.AddCondition(c2)

	if got := tpl.MaxBarOffset(); got != 2 {
		t.Errorf("expected max bar offset 2, got %d", got)
	}
}

func TestTemplateNumUniqueComponents(t *testing.T) {
	c1, c2 := sampleConditions()
	tpl := NewTemplate("sample")
	tpl.AddCondition(c1)
	tpl.AddCondition(c2)

	// Close[0], Close[1], Open[2] -> 3 distinct descriptors.
	if got := tpl.NumUniqueComponents(); got != 3 {
		t.Errorf("expected 3 unique components, got %d", got)
	}
}

func TestTemplateEqualIgnoresConditionOrder(t *testing.T) {
	c1, c2 := sampleConditions()

	a := NewTemplate("sample")
	a.AddCondition(c1)
	a.AddCondition(c2)

	b := NewTemplate("sample")
	b.AddCondition(c2)
	b.AddCondition(c1)

	if !a.Equal(b) {
		t.Error("expected templates with permuted conditions to be equal")
	}
}

func TestTemplateEqualRequiresSameName(t *testing.T) {
	c1, c2 := sampleConditions()

	a := NewTemplate("sample-a")
	a.AddCondition(c1)
	a.AddCondition(c2)

	b := NewTemplate("sample-b")
	b.AddCondition(c1)
	b.AddCondition(c2)

	if a.Equal(b) {
		t.Error("expected templates with different names to be unequal")
	}
}

func TestTemplateHashOrderIndependent(t *testing.T) {
	c1, c2 := sampleConditions()

	a := NewTemplate("sample")
	a.AddCondition(c1)
	a.AddCondition(c2)

	b := NewTemplate("sample")
	b.AddCondition(c2)
	b.AddCondition(c1)

	if a.Hash() != b.Hash() {
		t.Error("expected permuted condition order to produce the same hash")
	}
}

func TestTemplateHashDiffersOnDistinctConditions(t *testing.T) {
	c1, c2 := sampleConditions()

	a := NewTemplate("sample")
	a.AddCondition(c1)

	b := NewTemplate("sample")
	b.AddCondition(c2)

	if a.Hash() == b.Hash() {
		t.Error("expected distinct single-condition templates to hash differently")
	}
}
