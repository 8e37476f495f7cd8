package universe

import (
	"fmt"

	"github.com/palvalidator/core/internal/pal/component"
	"github.com/palvalidator/core/internal/pal/condition"
	"github.com/palvalidator/core/internal/pal/pattern"
)

// Delay produces the lagged variant of tmpl: every bar offset in every
// condition is shifted forward by k bars, yielding a template with an
// independent canonical hash and the name suffix "[Delay: k]", per
// spec.md §4.C's split/delay generators.
func Delay(tmpl *pattern.Template, k uint8) *pattern.Template {
	delayed := pattern.NewTemplate(fmt.Sprintf("%s[Delay: %d]", tmpl.Name, k))
	for _, c := range tmpl.Conditions {
		lhs := component.New(c.Lhs.ComponentType, c.Lhs.BarOffset+k)
		rhs := component.New(c.Rhs.ComponentType, c.Rhs.BarOffset+k)
		delayed.AddCondition(condition.New(lhs, c.Op, rhs))
	}
	return delayed
}

// Split chains the conditions of two exact templates into derived
// templates that exercise the transitive relations between them,
// named with the "Split_" prefix. Each output conjoins one condition
// from a with one from b in turn, skipping any pairing that would
// reference the same descriptor pair twice (the same degenerate
// rejection the generator's stage 3 applies).
func Split(a, b *pattern.Template) []*pattern.Template {
	var out []*pattern.Template
	for i, ca := range a.Conditions {
		for j, cb := range b.Conditions {
			if ca.SharesDescriptorPair(cb) {
				continue
			}
			name := fmt.Sprintf("Split_%s_%d_%s_%d", a.Name, i, b.Name, j)
			chained := pattern.NewTemplate(name)
			chained.AddCondition(ca)
			chained.AddCondition(cb)
			out = append(out, chained)
		}
	}
	return out
}
