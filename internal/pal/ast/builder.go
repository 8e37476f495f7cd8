package ast

import "github.com/palvalidator/core/internal/pal/condition"

// FromCondition translates a single condition.Condition into the
// equivalent *GreaterThanExpr, canonicalizing its operator to ">" against
// the factory's interned references. Only GreaterThan and LessThan (via
// flip) have a direct executable representation; GreaterThanOrEqual,
// LessThanOrEqual, Equal, and NotEqual have none in the AST and yield a
// DomainError, matching the executable AST's GreaterThanExpr-only leaf
// taxonomy.
func FromCondition(f *Factory, c condition.Condition) (*GreaterThanExpr, error) {
	switch c.Op {
	case condition.GreaterThan:
		return NewGreaterThanExpr(f.GetReference(c.Lhs), f.GetReference(c.Rhs)), nil
	case condition.LessThan:
		return NewGreaterThanExpr(f.GetReference(c.Rhs), f.GetReference(c.Lhs)), nil
	default:
		return nil, &DomainError{
			Operation: "FromCondition",
			Detail:    "operator " + c.Op.String() + " has no executable AST representation",
		}
	}
}

// FromConjunction folds a non-empty slice of conditions into a left-leaning
// AndExpr tree built from canonicalized GreaterThanExpr leaves. Passing an
// empty slice is a domain error: a pattern must test at least one
// condition.
func FromConjunction(f *Factory, conds []condition.Condition) (Expression, error) {
	if len(conds) == 0 {
		return nil, &DomainError{Operation: "FromConjunction", Detail: "no conditions to conjoin"}
	}

	root, err := FromCondition(f, conds[0])
	if err != nil {
		return nil, err
	}
	var expr Expression = root
	for _, c := range conds[1:] {
		leaf, err := FromCondition(f, c)
		if err != nil {
			return nil, err
		}
		expr = NewAndExpr(expr, leaf)
	}
	return expr, nil
}
