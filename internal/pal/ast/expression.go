// Package ast implements the pattern expression tree: the executable,
// interned form of a PAL pattern's boolean logic. It is grounded on
// AstResourceManager.{h,cpp} and PalAst's node taxonomy from the
// priceactionlab library, translated into closed Go sum types (Reference,
// GreaterThanExpr, AndExpr) with a narrow Expression interface standing in
// for the one genuinely open dispatch point the spec calls out: a caller
// handing MaxBarsBack a node type this package has never seen.
package ast

import "github.com/palvalidator/core/internal/pal/component"

// Expression is satisfied by the two node kinds that may appear inside a
// pattern's AND-tree: *GreaterThanExpr (leaf) and *AndExpr (internal node).
type Expression interface {
	Hash() uint64
	isExpression()
}

// Reference is the executable form of a PriceComponentDescriptor: one leaf
// per (ComponentType, BarOffset) pair, with its hash computed once at
// construction since instances are immutable and shared via interning.
type Reference struct {
	Descriptor component.Descriptor
	hash       uint64
}

// NewReference builds a Reference for the given descriptor.
func NewReference(d component.Descriptor) *Reference {
	return &Reference{Descriptor: d, hash: d.Hash()}
}

func (r *Reference) BarOffset() uint8             { return r.Descriptor.BarOffset }
func (r *Reference) ReferenceType() component.Type { return r.Descriptor.ComponentType }
func (r *Reference) ExtraBarsNeeded() uint8        { return r.Descriptor.ComponentType.ExtraBarsNeeded() }
func (r *Reference) RequiredLookback() uint8       { return r.Descriptor.RequiredLookback() }
func (r *Reference) Hash() uint64                  { return r.hash }

// GreaterThanExpr is the sole comparison leaf in the executable AST: all
// PatternCondition operators are canonicalized to this form by the builder
// in builder.go (B<A becomes GreaterThanExpr(A,B), etc).
type GreaterThanExpr struct {
	Lhs, Rhs *Reference
	hash     uint64
}

// NewGreaterThanExpr builds and hashes a comparison leaf.
func NewGreaterThanExpr(lhs, rhs *Reference) *GreaterThanExpr {
	h := uint64(14695981039346656037)
	h = (h ^ lhs.Hash()) * 1099511628211
	h = (h ^ rhs.Hash()) * 1099511628211
	h = (h ^ 0x47544845) * 1099511628211 // "GTHE" tag
	return &GreaterThanExpr{Lhs: lhs, Rhs: rhs, hash: h}
}

func (e *GreaterThanExpr) Hash() uint64 { return e.hash }
func (*GreaterThanExpr) isExpression()  {}

// AndExpr conjoins two subexpressions. Its hash is order-independent in
// its two children so that AndExpr(a,b) and AndExpr(b,a) — which denote
// the same conjunction — collide, mirroring the template-level rule that
// condition order does not affect pattern identity.
type AndExpr struct {
	Lhs, Rhs Expression
	hash     uint64
}

// NewAndExpr builds and hashes a conjunction node.
func NewAndExpr(lhs, rhs Expression) *AndExpr {
	lh, rh := lhs.Hash(), rhs.Hash()
	if rh < lh {
		lh, rh = rh, lh
	}
	h := uint64(14695981039346656037)
	h = (h ^ lh) * 1099511628211
	h = (h ^ rh) * 1099511628211
	h = (h ^ 0x414e4445) * 1099511628211 // "ANDE" tag
	return &AndExpr{Lhs: lhs, Rhs: rhs, hash: h}
}

func (e *AndExpr) Hash() uint64 { return e.hash }
func (*AndExpr) isExpression()  {}

// MaxBarsBack walks expr and returns the largest lookback (bar offset plus
// any derived-component extra bars) required by any leaf. An expression
// containing a node type neither GreaterThanExpr nor AndExpr is a domain
// error: the tree is malformed for a pattern AST.
func MaxBarsBack(expr Expression) (uint8, error) {
	switch e := expr.(type) {
	case *GreaterThanExpr:
		l, r := e.Lhs.RequiredLookback(), e.Rhs.RequiredLookback()
		if r > l {
			return r, nil
		}
		return l, nil
	case *AndExpr:
		a, err := MaxBarsBack(e.Lhs)
		if err != nil {
			return 0, err
		}
		b, err := MaxBarsBack(e.Rhs)
		if err != nil {
			return 0, err
		}
		if b > a {
			return b, nil
		}
		return a, nil
	default:
		return 0, &DomainError{Operation: "MaxBarsBack", Detail: "unknown expression node type"}
	}
}
