package eval

import "github.com/pwithnall/bendy-bus/internal/ast"

// ExprWeight returns the fuzz weight an expression contributes: a
// DataLiteral reports its own Meta.Weight and nothing from its children
// (an array literal's weight does not depend on its elements' weights —
// those are used independently when the fuzzer mutates individual
// elements). A compound, non-literal expression reports the largest
// weight among its operands, so that a precondition or assignment built
// out of a heavily-weighted sub-expression is treated as heavily-weighted
// overall.
func ExprWeight(expr ast.Expression) float64 {
	switch n := expr.(type) {
	case ast.DataLiteral:
		return n.Metadata().Weight
	case *ast.UnaryExpr:
		return ExprWeight(n.Operand)
	case *ast.BinaryExpr:
		return maxWeight(ExprWeight(n.Left), ExprWeight(n.Right))
	case *ast.FunctionCallExpr:
		w := 0.0
		for _, a := range n.Args {
			w = maxWeight(w, ExprWeight(a))
		}
		return w
	default:
		return 0
	}
}

func maxWeight(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}
