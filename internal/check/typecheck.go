package check

import (
	"github.com/pwithnall/bendy-bus/internal/ast"
	"github.com/pwithnall/bendy-bus/internal/dbus"
	"github.com/pwithnall/bendy-bus/internal/env"
	"github.com/pwithnall/bendy-bus/internal/types"
)

// typecheckObject is phase C: full context type-checking of every
// transition bound to obj, run after phase B has resolved every literal's
// type and registered every variable. This phase never mutates an AST
// node — it reads Meta.Computed, cached during phase B, and the
// environment's declared types. Its only writes to obj.Env are to the
// local scope: each transition's trigger variables are declared before
// that transition is checked and the local scope is reset afterwards.
func (c *checker) typecheckObject(obj *CheckedObject) []error {
	var errs []error
	seen := make(map[*ast.TransitionDef]bool)
	for _, t := range obj.Transitions {
		if seen[t.Def] {
			continue
		}
		seen[t.Def] = true
		errs = append(errs, c.typecheckTransition(obj, t.Def)...)
	}
	return errs
}

func (c *checker) typecheckTransition(obj *CheckedObject, def *ast.TransitionDef) []error {
	var errs []error

	if err := c.declareTriggerScope(obj.Env, obj.Interfaces, def.Trigger); err != nil {
		errs = append(errs, c.checkErrorf(toDiagPos(def), "%s", err))
	}
	if def.Trigger.Kind == ast.TriggerProperty {
		if err := c.checkPropertyExactMatch(obj, def.Trigger.Member); err != nil {
			errs = append(errs, err)
		}
	}

	for _, pre := range def.Preconditions {
		t, err := c.inferType(obj.Env, pre.Condition)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if t.Kind != types.KindBoolean {
			errs = append(errs, c.checkErrorf(toDiagPos(pre), "precondition must be boolean, got %s", t))
		}
	}
	for _, stmt := range def.Statements {
		if err := c.typecheckStatement(obj.Env, stmt); err != nil {
			errs = append(errs, err)
		}
	}

	obj.Env.ResetLocalScope()
	return errs
}

// checkPropertyExactMatch enforces that a property-set transition's
// object has a variable named after the property whose declared type
// exactly matches the property's parsed D-Bus signature — a subtype
// relationship is not enough, since the object variable is understood to
// stand in for the property's wire value itself.
func (c *checker) checkPropertyExactMatch(obj *CheckedObject, property string) error {
	node := dbus.NodeInfo{Interfaces: obj.Interfaces}
	_, prop, ok := node.FindProperty(property)
	if !ok {
		return c.checkErrorf(toDiagPos(obj.Decl), "transition on unknown property %q", property)
	}
	propType, ok := types.ParseWholeSignature(prop.Signature)
	if !ok {
		return c.checkErrorf(toDiagPos(obj.Decl), "property %q has an invalid signature %q", property, prop.Signature)
	}
	varType, ok := obj.Env.Type(env.ScopeObject, property)
	if !ok {
		return c.checkErrorf(toDiagPos(obj.Decl), "property %q has no matching object variable of the same name", property)
	}
	if !types.Equal(varType, propType) {
		return c.checkErrorf(toDiagPos(obj.Decl), "object variable %q has type %s, which does not exactly match property %q's type %s", property, varType, property, propType)
	}
	return nil
}

func (c *checker) typecheckStatement(e *env.Environment, stmt ast.Statement) error {
	switch s := stmt.(type) {
	case *ast.AssignStmt:
		return c.typecheckAssign(e, s)
	case *ast.EmitStmt:
		_, err := c.inferType(e, s.Value)
		return err
	case *ast.ReplyStmt:
		_, err := c.inferType(e, s.Value)
		return err
	case *ast.ThrowStmt:
		return nil
	default:
		return c.checkErrorf(toDiagPos(stmt), "check: unsupported statement type %T", stmt)
	}
}

// typecheckAssign validates an assignment's lvalue shape (a variable, or a
// tree of array/tuple/dict constructor literals whose leaves are
// variables) and that the right-hand side's type is a subtype of the
// left-hand side's, checked component-wise through that tree so each leaf
// variable only ever receives a compatible value.
func (c *checker) typecheckAssign(e *env.Environment, s *ast.AssignStmt) error {
	rhsType, err := c.inferType(e, s.RHS)
	if err != nil {
		return err
	}
	return c.typecheckLValue(e, s.LHS, rhsType)
}

func (c *checker) typecheckLValue(e *env.Environment, lhs ast.Expression, rhsType types.Type) error {
	switch l := lhs.(type) {
	case *ast.VariableLiteral:
		lhsType, ok := e.Type(env.ScopeLocal, l.Name)
		if !ok {
			lhsType, ok = e.Type(env.ScopeObject, l.Name)
		}
		if !ok {
			return c.checkErrorf(toDiagPos(l), "undeclared variable %q", l.Name)
		}
		if !types.IsSubtypeOf(rhsType, lhsType) {
			return c.checkErrorf(toDiagPos(l), "cannot assign value of type %s to variable %q of type %s", rhsType, l.Name, lhsType)
		}
		return nil

	case *ast.ArrayLiteral:
		if rhsType.Kind != types.KindArray {
			return c.checkErrorf(toDiagPos(l), "cannot destructure a value of type %s into an array pattern", rhsType)
		}
		for _, el := range l.Elements {
			if err := c.typecheckLValue(e, el, *rhsType.Elem); err != nil {
				return err
			}
		}
		return nil

	case *ast.TupleLiteral:
		if rhsType.Kind != types.KindTuple || len(rhsType.Items) != len(l.Elements) {
			return c.checkErrorf(toDiagPos(l), "cannot destructure a value of type %s into a %d-element tuple pattern", rhsType, len(l.Elements))
		}
		for i, el := range l.Elements {
			if err := c.typecheckLValue(e, el, rhsType.Items[i]); err != nil {
				return err
			}
		}
		return nil

	case *ast.DictLiteral:
		if rhsType.Kind != types.KindDict {
			return c.checkErrorf(toDiagPos(l), "cannot destructure a value of type %s into a dict pattern", rhsType)
		}
		for _, ent := range l.Entries {
			if err := c.typecheckLValue(e, ent.Value, *rhsType.Value); err != nil {
				return err
			}
		}
		return nil

	default:
		return c.checkErrorf(toDiagPos(lhs), "assignment target must be a variable or a destructuring pattern of variables")
	}
}

// inferType computes the type of expr in context. Literal nodes return
// their Meta.Computed type, cached by phase B; everything else is derived
// here from its operands according to the operator's typing rule.
func (c *checker) inferType(e *env.Environment, expr ast.Expression) (types.Type, error) {
	switch n := expr.(type) {
	case ast.DataLiteral:
		return n.Metadata().Computed, nil

	case *ast.UnaryExpr:
		t, err := c.inferType(e, n.Operand)
		if err != nil {
			return types.Type{}, err
		}
		if t.Kind != types.KindBoolean {
			return types.Type{}, c.checkErrorf(toDiagPos(n), "operator %s requires a boolean operand, got %s", n.Op, t)
		}
		return types.Boolean, nil

	case *ast.BinaryExpr:
		return c.inferBinary(e, n)

	case *ast.FunctionCallExpr:
		return c.inferFunctionCall(e, n)

	default:
		return types.Type{}, c.checkErrorf(toDiagPos(expr), "check: unsupported expression type %T", expr)
	}
}

func (c *checker) inferBinary(e *env.Environment, n *ast.BinaryExpr) (types.Type, error) {
	left, err := c.inferType(e, n.Left)
	if err != nil {
		return types.Type{}, err
	}
	right, err := c.inferType(e, n.Right)
	if err != nil {
		return types.Type{}, err
	}

	switch {
	case n.Op.IsLogical():
		if left.Kind != types.KindBoolean || right.Kind != types.KindBoolean {
			return types.Type{}, c.checkErrorf(toDiagPos(n), "operator %s requires boolean operands, got %s and %s", n.Op, left, right)
		}
		return types.Boolean, nil

	case n.Op == ast.OpEq || n.Op == ast.OpNe:
		if !types.Equal(left, right) {
			return types.Type{}, c.checkErrorf(toDiagPos(n), "operator %s requires both operands to share a type, got %s and %s", n.Op, left, right)
		}
		return types.Boolean, nil

	case n.Op.IsComparison():
		if !types.Equal(left, right) {
			return types.Type{}, c.checkErrorf(toDiagPos(n), "operator %s requires both operands to share a type, got %s and %s", n.Op, left, right)
		}
		return types.Boolean, nil

	case n.Op.IsArithmetic():
		if !left.Kind.IsNumeric() {
			return types.Type{}, c.checkErrorf(toDiagPos(n), "operator %s requires numeric operands, got %s", n.Op, left)
		}
		if !types.Equal(left, right) {
			return types.Type{}, c.checkErrorf(toDiagPos(n), "operator %s requires both operands to share a type, got %s and %s", n.Op, left, right)
		}
		return left, nil

	default:
		return types.Type{}, c.checkErrorf(toDiagPos(n), "check: unsupported binary operator %s", n.Op)
	}
}

func (c *checker) inferFunctionCall(e *env.Environment, n *ast.FunctionCallExpr) (types.Type, error) {
	fi, ok := env.LookupFunction(n.Name)
	if !ok {
		return types.Type{}, c.checkErrorf(toDiagPos(n), "call to undeclared function %q", n.Name)
	}
	argTypes := make([]types.Type, len(n.Args))
	for i, a := range n.Args {
		t, err := c.inferType(e, a)
		if err != nil {
			return types.Type{}, err
		}
		argTypes[i] = t
	}
	var paramsType types.Type
	if len(argTypes) == 1 {
		paramsType = argTypes[0]
	} else {
		paramsType = types.TupleOf(argTypes...)
	}
	if !types.IsSubtypeOf(paramsType, fi.ParametersSupertype) {
		return types.Type{}, c.checkErrorf(toDiagPos(n), "call to %q: arguments of type %s are not a subtype of %s", n.Name, paramsType, fi.ParametersSupertype)
	}
	retType, err := fi.CalculateType(paramsType)
	if err != nil {
		return types.Type{}, c.checkErrorf(toDiagPos(n), "%s", err)
	}
	return retType, nil
}
