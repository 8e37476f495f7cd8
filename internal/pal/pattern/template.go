// Package pattern implements PatternTemplate, the name-plus-conjunction
// shape produced by the universe generator and the textual-grammar parser,
// and PriceActionLabPattern, the fully-dressed executable pattern a
// backtester consumes. Both are grounded on PatternTemplate.{h,cpp} from
// the pattern-discovery library.
package pattern

import (
	"sort"

	"github.com/palvalidator/core/internal/pal/condition"
)

// Template is an ordered, implicitly-AND-conjoined sequence of conditions
// carrying a human-readable name. Two templates are equal when they share
// a name and their conditions are a permutation of one another: condition
// order never affects meaning, but the name is part of identity.
type Template struct {
	Name       string
	Conditions []condition.Condition
}

// NewTemplate builds an empty, named template.
func NewTemplate(name string) *Template {
	return &Template{Name: name}
}

// AddCondition appends a condition to the template's conjunction.
func (t *Template) AddCondition(c condition.Condition) {
	t.Conditions = append(t.Conditions, c)
}

// MaxBarOffset returns the largest BarOffset referenced by any condition's
// descriptors, across both sides of every condition.
func (t *Template) MaxBarOffset() uint8 {
	var max uint8
	for _, c := range t.Conditions {
		if c.Lhs.BarOffset > max {
			max = c.Lhs.BarOffset
		}
		if c.Rhs.BarOffset > max {
			max = c.Rhs.BarOffset
		}
	}
	return max
}

// NumUniqueComponents returns the count of distinct descriptors referenced
// across the template's conditions.
func (t *Template) NumUniqueComponents() int {
	seen := make(map[string]struct{})
	for _, c := range t.Conditions {
		seen[c.Lhs.String()] = struct{}{}
		seen[c.Rhs.String()] = struct{}{}
	}
	return len(seen)
}

// Equal reports whether t and other share a name and whether their
// condition lists are permutations of one another (structurally equal
// conditions, same multiplicities, any order).
func (t *Template) Equal(other *Template) bool {
	if t.Name != other.Name {
		return false
	}
	if len(t.Conditions) != len(other.Conditions) {
		return false
	}

	remaining := make([]condition.Condition, len(other.Conditions))
	copy(remaining, other.Conditions)

	for _, c := range t.Conditions {
		matched := -1
		for i, r := range remaining {
			if c.Equal(r) {
				matched = i
				break
			}
		}
		if matched == -1 {
			return false
		}
		remaining = append(remaining[:matched], remaining[matched+1:]...)
	}
	return true
}

// Hash computes the canonical, order-independent hash of the template's
// conditions: every condition hash is collected, sorted, then folded
// together, so a template and any permutation of its conditions collide.
func (t *Template) Hash() uint64 {
	hashes := make([]uint64, len(t.Conditions))
	for i, c := range t.Conditions {
		hashes[i] = c.Hash()
	}
	sort.Slice(hashes, func(i, j int) bool { return hashes[i] < hashes[j] })

	h := uint64(14695981039346656037)
	for _, ch := range hashes {
		h = (h ^ ch) * 1099511628211
	}
	return h
}
