package eval

import (
	"testing"

	"github.com/pwithnall/bendy-bus/internal/ast"
	"github.com/pwithnall/bendy-bus/internal/env"
	"github.com/pwithnall/bendy-bus/internal/types"
)

func intLit(n int64, kind types.Kind) *ast.IntegerLiteral {
	l := &ast.IntegerLiteral{Value: n}
	l.Computed = types.Type{Kind: kind}
	if kind != types.KindInt16 && kind != types.KindInt32 && kind != types.KindInt64 {
		l.UValue = uint64(n)
	}
	return l
}

func TestEvaluateIntegerLiteralDefaultsToInt32(t *testing.T) {
	l := &ast.IntegerLiteral{Value: 7}
	l.Computed = types.Int32
	v, err := Evaluate(l, env.New(nil))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v.Type().Kind != types.KindInt32 || v.Int() != 7 {
		t.Fatalf("got %v", v)
	}
}

func TestEvaluateBoolLiteral(t *testing.T) {
	v, err := Evaluate(&ast.BoolLiteral{Value: true}, env.New(nil))
	if err != nil || !v.Bool() {
		t.Fatalf("got %v, %v", v, err)
	}
}

func TestEvaluateStringLiteralAnnotatedAsObjectPath(t *testing.T) {
	l := &ast.StringLiteral{Value: "/com/example/Foo"}
	l.Computed = types.ObjectPath
	v, err := Evaluate(l, env.New(nil))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v.Type().Kind != types.KindObjectPath {
		t.Fatalf("expected object-path value, got %s", v.Type())
	}
}

func TestEvaluateVariableLookup(t *testing.T) {
	e := env.New(nil)
	e.DeclareType(env.ScopeObject, "count", types.Int32)
	e.SetValue(env.ScopeObject, "count", types.NewInt32(3))

	v, err := Evaluate(&ast.VariableLiteral{Name: "count"}, e)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v.Int() != 3 {
		t.Fatalf("got %d", v.Int())
	}
}

func TestEvaluateUndeclaredVariableErrors(t *testing.T) {
	_, err := Evaluate(&ast.VariableLiteral{Name: "missing"}, env.New(nil))
	if err == nil {
		t.Fatalf("expected error for undeclared variable")
	}
}

func TestEvaluateUnassignedVariableErrors(t *testing.T) {
	e := env.New(nil)
	e.DeclareType(env.ScopeObject, "count", types.Int32)
	_, err := Evaluate(&ast.VariableLiteral{Name: "count"}, e)
	if err == nil {
		t.Fatalf("expected error for unassigned variable")
	}
}

func TestEvaluateArrayLiteralHomogeneous(t *testing.T) {
	lit := &ast.ArrayLiteral{Elements: []ast.Expression{
		intLit(1, types.KindInt32),
		intLit(2, types.KindInt32),
	}}
	lit.Computed = types.ArrayOf(types.Int32)

	v, err := Evaluate(lit, env.New(nil))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(v.Items()) != 2 || v.Type().Elem.Kind != types.KindInt32 {
		t.Fatalf("got %v", v)
	}
}

func TestEvaluateTupleLiteral(t *testing.T) {
	lit := &ast.TupleLiteral{Elements: []ast.Expression{
		&ast.BoolLiteral{Value: true},
		intLit(5, types.KindInt32),
	}}
	v, err := Evaluate(lit, env.New(nil))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(v.Items()) != 2 {
		t.Fatalf("got %v", v)
	}
}

func TestEvaluateDictLiteral(t *testing.T) {
	lit := &ast.DictLiteral{Entries: []ast.DictEntryNode{
		{Key: &ast.StringLiteral{Value: "a"}, Value: intLit(1, types.KindInt32)},
	}}
	lit.Computed = types.DictOf(types.String, types.Int32)

	v, err := Evaluate(lit, env.New(nil))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(v.Entries()) != 1 {
		t.Fatalf("got %v", v)
	}
}

func TestEvaluateVariantWrap(t *testing.T) {
	lit := &ast.VariantLiteral{Inner: intLit(9, types.KindInt32)}
	v, err := Evaluate(lit, env.New(nil))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v.Type().Kind != types.KindVariant || v.Inner().Int() != 9 {
		t.Fatalf("got %v", v)
	}
}

func TestEvaluateUnaryNot(t *testing.T) {
	expr := &ast.UnaryExpr{Op: ast.OpNot, Operand: &ast.BoolLiteral{Value: false}}
	v, err := Evaluate(expr, env.New(nil))
	if err != nil || !v.Bool() {
		t.Fatalf("got %v, %v", v, err)
	}
}

func TestEvaluateBinaryEquality(t *testing.T) {
	expr := &ast.BinaryExpr{Op: ast.OpEq, Left: intLit(1, types.KindInt32), Right: intLit(1, types.KindInt32)}
	v, err := Evaluate(expr, env.New(nil))
	if err != nil || !v.Bool() {
		t.Fatalf("got %v, %v", v, err)
	}
}

func TestEvaluateBinaryComparison(t *testing.T) {
	expr := &ast.BinaryExpr{Op: ast.OpLT, Left: intLit(1, types.KindInt32), Right: intLit(2, types.KindInt32)}
	v, err := Evaluate(expr, env.New(nil))
	if err != nil || !v.Bool() {
		t.Fatalf("got %v, %v", v, err)
	}
}

func TestEvaluateBinaryLogicalIsNotShortCircuiting(t *testing.T) {
	// Both branches reference an undeclared variable; OR must still
	// evaluate and error on the right operand rather than short-circuit
	// after a true left operand.
	expr := &ast.BinaryExpr{
		Op:    ast.OpOr,
		Left:  &ast.BoolLiteral{Value: true},
		Right: &ast.VariableLiteral{Name: "missing"},
	}
	if _, err := Evaluate(expr, env.New(nil)); err == nil {
		t.Fatalf("expected right operand to be evaluated and error")
	}
}

func TestEvaluateFunctionCallKeys(t *testing.T) {
	dictLit := &ast.DictLiteral{Entries: []ast.DictEntryNode{
		{Key: &ast.StringLiteral{Value: "a"}, Value: intLit(1, types.KindInt32)},
	}}
	dictLit.Computed = types.DictOf(types.String, types.Int32)
	call := &ast.FunctionCallExpr{Name: "keys", Args: []ast.Expression{dictLit}}

	v, err := Evaluate(call, env.New(nil))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(v.Items()) != 1 || v.Items()[0].Str() != "a" {
		t.Fatalf("got %v", v)
	}
}

func TestExprWeightLiteralIgnoresChildren(t *testing.T) {
	inner := intLit(1, types.KindInt32)
	inner.Weight = 5
	arr := &ast.ArrayLiteral{Elements: []ast.Expression{inner}}
	arr.Weight = 2
	if w := ExprWeight(arr); w != 2 {
		t.Fatalf("expected array's own weight 2, got %v", w)
	}
}

func TestExprWeightBinaryPropagatesMax(t *testing.T) {
	left := intLit(1, types.KindInt32)
	left.Weight = 1
	right := intLit(2, types.KindInt32)
	right.Weight = 4
	expr := &ast.BinaryExpr{Op: ast.OpAdd, Left: left, Right: right}
	if w := ExprWeight(expr); w != 4 {
		t.Fatalf("expected max weight 4, got %v", w)
	}
}

func TestExprWeightUnaryPropagatesOperand(t *testing.T) {
	operand := &ast.BoolLiteral{Value: true}
	operand.Weight = 3
	expr := &ast.UnaryExpr{Op: ast.OpNot, Operand: operand}
	if w := ExprWeight(expr); w != 3 {
		t.Fatalf("expected operand weight 3, got %v", w)
	}
}
