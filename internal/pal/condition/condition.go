// Package condition implements PatternCondition: a single comparison
// between two price components, and its canonicalization rules. Ground
// truth for the semantics is PatternCondition.h from the pattern-discovery
// library.
package condition

import (
	"fmt"

	"github.com/palvalidator/core/internal/pal/component"
)

// Operator enumerates the comparison operators a condition may use.
type Operator uint8

const (
	GreaterThan Operator = iota
	LessThan
	GreaterThanOrEqual
	LessThanOrEqual
	Equal
	NotEqual
)

func (op Operator) String() string {
	switch op {
	case GreaterThan:
		return ">"
	case LessThan:
		return "<"
	case GreaterThanOrEqual:
		return ">="
	case LessThanOrEqual:
		return "<="
	case Equal:
		return "=="
	case NotEqual:
		return "!="
	default:
		return "?"
	}
}

// Flipped returns the operator that preserves truth value when lhs and rhs
// are swapped: (A > B) == (B < A). Used by canonical hashing so that
// semantically-equivalent conditions collide.
func (op Operator) Flipped() Operator {
	switch op {
	case GreaterThan:
		return LessThan
	case LessThan:
		return GreaterThan
	case GreaterThanOrEqual:
		return LessThanOrEqual
	case LessThanOrEqual:
		return GreaterThanOrEqual
	default:
		return op // Equal/NotEqual are symmetric
	}
}

// Condition is a single comparison between two price components.
type Condition struct {
	Lhs component.Descriptor
	Op  Operator
	Rhs component.Descriptor
}

// New constructs a Condition.
func New(lhs component.Descriptor, op Operator, rhs component.Descriptor) Condition {
	return Condition{Lhs: lhs, Op: op, Rhs: rhs}
}

// Degenerate reports whether the condition compares a descriptor to
// itself — trivially always-true or always-false and rejected by the
// universe generator.
func (c Condition) Degenerate() bool {
	return c.Lhs.Equal(c.Rhs)
}

// Equal reports structural equality (same lhs, rhs, operator).
func (c Condition) Equal(other Condition) bool {
	return c.Lhs.Equal(other.Lhs) && c.Rhs.Equal(other.Rhs) && c.Op == other.Op
}

func (c Condition) String() string {
	return fmt.Sprintf("%s %s %s", c.Lhs, c.Op, c.Rhs)
}

// Hash computes the canonical hash of the condition: the unordered
// {lhs, rhs} pair is ordered first (applying the operator flip so the
// semantic meaning is preserved), then mixed with the operator. Two
// conditions that mean the same thing under direction swap — "A>B" and
// "B<A" — collide.
func (c Condition) Hash() uint64 {
	lh, rh := c.Lhs.Hash(), c.Rhs.Hash()
	op := c.Op

	// Canonicalize direction: always order by the smaller descriptor hash,
	// flipping the operator if that means swapping sides.
	if rh < lh {
		lh, rh = rh, lh
		op = op.Flipped()
	}

	h := uint64(14695981039346656037)
	h = (h ^ lh) * 1099511628211
	h = (h ^ rh) * 1099511628211
	h = (h ^ uint64(op)) * 1099511628211
	return h
}

// SharesDescriptorPair reports whether two conditions reference the same
// unordered pair of descriptors (regardless of operator). Used by the
// universe generator to reject combinations that compare the same pair
// twice under different operators.
func (c Condition) SharesDescriptorPair(other Condition) bool {
	same := func(a, b Condition) bool {
		return a.Lhs.Equal(b.Lhs) && a.Rhs.Equal(b.Rhs)
	}
	swapped := func(a, b Condition) bool {
		return a.Lhs.Equal(b.Rhs) && a.Rhs.Equal(b.Lhs)
	}
	return same(c, other) || swapped(c, other)
}
