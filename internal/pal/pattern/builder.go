package pattern

import "github.com/palvalidator/core/internal/pal/ast"

// BuildExpression converts a Template's conditions into the equivalent
// executable AST, canonicalizing operators and interning leaves through f.
func BuildExpression(f *ast.Factory, t *Template) (ast.Expression, error) {
	return ast.FromConjunction(f, t.Conditions)
}
