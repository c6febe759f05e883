// Package eval evaluates AST expressions to types.Values against an
// environment. Evaluation is pure: it never mutates the environment or
// any value it reads from it.
package eval

import (
	"fmt"

	"github.com/pwithnall/bendy-bus/internal/ast"
	"github.com/pwithnall/bendy-bus/internal/env"
	"github.com/pwithnall/bendy-bus/internal/types"
)

// Evaluate computes the value of expr. expr's literal nodes must already
// have had their Meta.Computed type filled in by internal/check's phase
// B — Evaluate trusts that annotation without re-deriving it.
func Evaluate(expr ast.Expression, e *env.Environment) (types.Value, error) {
	switch n := expr.(type) {
	case *ast.IntegerLiteral:
		return integerLiteralValue(n), nil
	case *ast.DoubleLiteral:
		return types.NewDouble(n.Value), nil
	case *ast.BoolLiteral:
		return types.NewBool(n.Value), nil
	case *ast.StringLiteral:
		return stringLiteralValue(n), nil
	case *ast.UnixFDLiteral:
		return types.Value{}, fmt.Errorf("unix-fd literals have no literal value to evaluate")
	case *ast.VariableLiteral:
		return lookupVariable(n.Name, e)
	case *ast.ArrayLiteral:
		return evalArray(n, e)
	case *ast.TupleLiteral:
		return evalTuple(n, e)
	case *ast.DictLiteral:
		return evalDict(n, e)
	case *ast.VariantLiteral:
		inner, err := Evaluate(n.Inner, e)
		if err != nil {
			return types.Value{}, err
		}
		return types.NewVariant(inner), nil
	case *ast.UnaryExpr:
		return evalUnary(n, e)
	case *ast.BinaryExpr:
		return evalBinary(n, e)
	case *ast.FunctionCallExpr:
		return evalFunctionCall(n, e)
	default:
		return types.Value{}, fmt.Errorf("eval: unsupported expression type %T", expr)
	}
}

func integerLiteralValue(n *ast.IntegerLiteral) types.Value {
	switch n.Computed.Kind {
	case types.KindByte:
		return types.NewByte(uint8(n.UValue))
	case types.KindUint16:
		return types.NewUint16(uint16(n.UValue))
	case types.KindUint32:
		return types.NewUint32(uint32(n.UValue))
	case types.KindUint64:
		return types.NewUint64(n.UValue)
	case types.KindUnixFD:
		return types.NewUnixFD(uint32(n.UValue))
	case types.KindInt16:
		return types.NewInt16(int16(n.Value))
	case types.KindInt64:
		return types.NewInt64(n.Value)
	default:
		return types.NewInt32(int32(n.Value))
	}
}

func stringLiteralValue(n *ast.StringLiteral) types.Value {
	switch n.Computed.Kind {
	case types.KindObjectPath:
		return types.NewObjectPath(n.Value)
	case types.KindSignature:
		return types.NewSignature(n.Value)
	default:
		return types.NewString(n.Value)
	}
}

func lookupVariable(name string, e *env.Environment) (types.Value, error) {
	if e.Has(env.ScopeLocal, name) {
		v, ok := e.Value(env.ScopeLocal, name)
		if !ok {
			return types.Value{}, fmt.Errorf("variable %q has not been assigned a value", name)
		}
		return v, nil
	}
	if e.Has(env.ScopeObject, name) {
		v, ok := e.Value(env.ScopeObject, name)
		if !ok {
			return types.Value{}, fmt.Errorf("variable %q has not been assigned a value", name)
		}
		return v, nil
	}
	return types.Value{}, fmt.Errorf("undeclared variable %q", name)
}

func evalArray(n *ast.ArrayLiteral, e *env.Environment) (types.Value, error) {
	items := make([]types.Value, len(n.Elements))
	for i, el := range n.Elements {
		v, err := Evaluate(el, e)
		if err != nil {
			return types.Value{}, err
		}
		items[i] = v
	}
	elemType := types.WildcardAny
	switch {
	case n.Computed.Kind == types.KindArray:
		elemType = *n.Computed.Elem
	case len(items) > 0:
		ts := make([]types.Type, len(items))
		for i, it := range items {
			ts[i] = it.Type()
		}
		elemType = types.LeastGeneralSupertype(ts)
	}
	return types.NewArray(elemType, items), nil
}

func evalTuple(n *ast.TupleLiteral, e *env.Environment) (types.Value, error) {
	items := make([]types.Value, len(n.Elements))
	for i, el := range n.Elements {
		v, err := Evaluate(el, e)
		if err != nil {
			return types.Value{}, err
		}
		items[i] = v
	}
	return types.NewTuple(items), nil
}

func evalDict(n *ast.DictLiteral, e *env.Environment) (types.Value, error) {
	entries := make([]types.DictEntry, len(n.Entries))
	for i, ent := range n.Entries {
		k, err := Evaluate(ent.Key, e)
		if err != nil {
			return types.Value{}, err
		}
		v, err := Evaluate(ent.Value, e)
		if err != nil {
			return types.Value{}, err
		}
		entries[i] = types.DictEntry{Key: k, Value: v}
	}
	keyType, valType := types.WildcardBasic, types.WildcardAny
	switch {
	case n.Computed.Kind == types.KindDict:
		keyType, valType = *n.Computed.Key, *n.Computed.Value
	case len(entries) > 0:
		kts := make([]types.Type, len(entries))
		vts := make([]types.Type, len(entries))
		for i, ent := range entries {
			kts[i] = ent.Key.Type()
			vts[i] = ent.Value.Type()
		}
		keyType = types.LeastGeneralSupertype(kts)
		valType = types.LeastGeneralSupertype(vts)
	}
	return types.NewDict(keyType, valType, entries), nil
}

func evalUnary(n *ast.UnaryExpr, e *env.Environment) (types.Value, error) {
	v, err := Evaluate(n.Operand, e)
	if err != nil {
		return types.Value{}, err
	}
	if v.Type().Kind != types.KindBoolean {
		return types.Value{}, fmt.Errorf("operator ! requires a boolean operand, got %s", v.Type())
	}
	return types.NewBool(!v.Bool()), nil
}

func evalBinary(n *ast.BinaryExpr, e *env.Environment) (types.Value, error) {
	// Both operands are evaluated unconditionally: the language's boolean
	// operators are non-short-circuiting.
	left, err := Evaluate(n.Left, e)
	if err != nil {
		return types.Value{}, err
	}
	right, err := Evaluate(n.Right, e)
	if err != nil {
		return types.Value{}, err
	}

	switch {
	case n.Op.IsLogical():
		return evalLogical(n.Op, left, right)
	case n.Op == ast.OpEq:
		return types.NewBool(left.Equal(right)), nil
	case n.Op == ast.OpNe:
		return types.NewBool(!left.Equal(right)), nil
	case n.Op.IsComparison():
		return types.NewBool(compareOp(n.Op, left.Compare(right))), nil
	case n.Op.IsArithmetic():
		return evalArithmetic(n.Op, left, right)
	default:
		return types.Value{}, fmt.Errorf("eval: unsupported binary operator %s", n.Op)
	}
}

func evalLogical(op ast.BinaryOp, left, right types.Value) (types.Value, error) {
	if left.Type().Kind != types.KindBoolean || right.Type().Kind != types.KindBoolean {
		return types.Value{}, fmt.Errorf("operator %s requires boolean operands", op)
	}
	if op == ast.OpAnd {
		return types.NewBool(left.Bool() && right.Bool()), nil
	}
	return types.NewBool(left.Bool() || right.Bool()), nil
}

func compareOp(op ast.BinaryOp, cmp int) bool {
	switch op {
	case ast.OpLT:
		return cmp < 0
	case ast.OpLE:
		return cmp <= 0
	case ast.OpGT:
		return cmp > 0
	default:
		return cmp >= 0
	}
}

func evalFunctionCall(n *ast.FunctionCallExpr, e *env.Environment) (types.Value, error) {
	fi, ok := env.LookupFunction(n.Name)
	if !ok {
		return types.Value{}, fmt.Errorf("call to undeclared function %q", n.Name)
	}
	args := make([]types.Value, len(n.Args))
	for i, a := range n.Args {
		v, err := Evaluate(a, e)
		if err != nil {
			return types.Value{}, err
		}
		args[i] = v
	}
	var params types.Value
	if len(args) == 1 {
		params = args[0]
	} else {
		params = types.NewTuple(args)
	}
	return fi.Evaluate(params)
}
