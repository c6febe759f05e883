package check

import (
	"fmt"
	"strconv"
	"unicode/utf8"

	"github.com/pwithnall/bendy-bus/internal/ast"
	"github.com/pwithnall/bendy-bus/internal/dbus"
	"github.com/pwithnall/bendy-bus/internal/env"
	"github.com/pwithnall/bendy-bus/internal/eval"
	"github.com/pwithnall/bendy-bus/internal/types"
)

// precheckObject is phase B for one object declaration: it validates
// names, resolves interfaces, builds the state table, declares and
// evaluates every data-block variable, and resolves every transition's
// state bindings to indices. It never type-checks an expression in
// context — that is phase C's job, run afterwards by Check.
func (c *checker) precheckObject(decl *ast.ObjectDecl) (*CheckedObject, []error) {
	var errs []error

	if !dbus.IsValidObjectPath(decl.ObjectPath) {
		errs = append(errs, c.posErrorf(toDiagPos(decl), "object path %q is not a valid D-Bus object path", decl.ObjectPath))
	}
	for _, bus := range decl.BusNames {
		if !dbus.IsValidWellKnownBusName(bus) {
			errs = append(errs, c.posErrorf(toDiagPos(decl), "%q is not a valid well-known D-Bus bus name", bus))
		}
	}

	interfaces, ierrs := c.resolveInterfaces(decl)
	errs = append(errs, ierrs...)

	e := env.New(interfaces)

	for _, block := range decl.DataBlocks {
		errs = append(errs, c.precheckDataBlock(e, block)...)
	}

	stateNames, stateIndex, serrs := c.buildStateTable(decl)
	errs = append(errs, serrs...)

	var transitions []*ast.ObjectTransition
	for _, block := range decl.TransitionBlocks {
		ts, terrs := c.precheckTransitionBlock(e, interfaces, stateIndex, block)
		errs = append(errs, terrs...)
		transitions = append(transitions, ts...)
	}

	if len(errs) > 0 {
		return nil, errs
	}

	return &CheckedObject{
		Decl:        decl,
		StateNames:  stateNames,
		Env:         e,
		Interfaces:  interfaces,
		Transitions: transitions,
	}, nil
}

// resolveInterfaces validates and looks up, in declared order, every
// interface name an object claims to implement.
func (c *checker) resolveInterfaces(decl *ast.ObjectDecl) ([]dbus.InterfaceInfo, []error) {
	var errs []error
	var out []dbus.InterfaceInfo
	seen := make(map[string]bool)
	for _, name := range decl.InterfaceNames {
		if !dbus.IsValidInterfaceName(name) {
			errs = append(errs, c.posErrorf(toDiagPos(decl), "%q is not a valid D-Bus interface name", name))
			continue
		}
		if seen[name] {
			errs = append(errs, c.posErrorf(toDiagPos(decl), "interface %q is implemented twice", name))
			continue
		}
		seen[name] = true
		iface, ok := c.registry[name]
		if !ok {
			errs = append(errs, c.posErrorf(toDiagPos(decl), "no introspection data supplied for interface %q", name))
			continue
		}
		out = append(out, iface)
	}
	return out, errs
}

// precheckDataBlock declares and evaluates every entry of one data block
// into e's object scope.
func (c *checker) precheckDataBlock(e *env.Environment, block []ast.DataEntry) []error {
	var errs []error
	for _, entry := range block {
		if e.Has(env.ScopeObject, entry.Name) {
			errs = append(errs, c.posErrorf(fromLexerPos(entry.Position), "variable %q is already declared", entry.Name))
			continue
		}
		t, err := c.precheckLiteral(e, entry.Literal)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if declErr := e.DeclareType(env.ScopeObject, entry.Name, t); declErr != nil {
			errs = append(errs, c.posErrorf(fromLexerPos(entry.Position), "%s", declErr))
			continue
		}
		v, err := eval.Evaluate(entry.Literal, e)
		if err != nil {
			errs = append(errs, c.posErrorf(fromLexerPos(entry.Position), "%s", err))
			continue
		}
		if err := e.SetValue(env.ScopeObject, entry.Name, v); err != nil {
			errs = append(errs, c.posErrorf(fromLexerPos(entry.Position), "%s", err))
		}
	}
	return errs
}

// precheckTransitionBlock pre-declares the trigger's local scope, walks
// the transition body for literal caching, resolves the throw error
// names' syntax, and resolves every binding's state names to indices,
// producing one ObjectTransition per binding.
func (c *checker) precheckTransitionBlock(e *env.Environment, interfaces []dbus.InterfaceInfo, stateIndex map[string]int, block *ast.TransitionBlockDecl) ([]*ast.ObjectTransition, []error) {
	var errs []error
	def := block.Def

	if err := c.declareTriggerScope(e, interfaces, def.Trigger); err != nil {
		errs = append(errs, c.posErrorf(toDiagPos(def), "%s", err))
	}

	for _, pre := range def.Preconditions {
		if err := c.walkLiteralsInExpr(e, pre.Condition); err != nil {
			errs = append(errs, err)
		}
		if pre.ErrorName != "" && !dbus.IsValidInterfaceName(pre.ErrorName) {
			errs = append(errs, c.posErrorf(toDiagPos(pre), "%q is not a valid D-Bus error name", pre.ErrorName))
		}
	}
	for _, stmt := range def.Statements {
		if err := c.walkLiteralsInStmt(e, stmt); err != nil {
			errs = append(errs, err)
		}
		if throw, ok := stmt.(*ast.ThrowStmt); ok && !dbus.IsValidInterfaceName(throw.ErrorName) {
			errs = append(errs, c.posErrorf(toDiagPos(throw), "%q is not a valid D-Bus error name", throw.ErrorName))
		}
	}

	e.ResetLocalScope()

	var out []*ast.ObjectTransition
	for _, binding := range block.Bindings {
		from, ok := stateIndex[binding.FromState]
		if !ok {
			errs = append(errs, c.posErrorf(fromLexerPos(binding.Position), "unknown from-state %q", binding.FromState))
			continue
		}
		to, ok := stateIndex[binding.ToState]
		if !ok {
			errs = append(errs, c.posErrorf(fromLexerPos(binding.Position), "unknown to-state %q", binding.ToState))
			continue
		}
		out = append(out, &ast.ObjectTransition{
			Def:       def,
			FromState: from,
			ToState:   to,
			Nickname:  binding.Nickname,
			FromName:  binding.FromState,
			ToName:    binding.ToState,
		})
	}
	return out, errs
}

// declareTriggerScope pre-declares, into e's local scope, the variables a
// transition's statements may reference during execution: a method
// trigger's in-arguments, or the single "value" variable of a property-set
// trigger. An arbitrary trigger declares nothing.
func (c *checker) declareTriggerScope(e *env.Environment, interfaces []dbus.InterfaceInfo, trig ast.Trigger) error {
	node := dbus.NodeInfo{Interfaces: interfaces}
	switch trig.Kind {
	case ast.TriggerMethod:
		_, method, ok := node.FindMethod(trig.Member)
		if !ok {
			return fmt.Errorf("transition on unknown method %q", trig.Member)
		}
		for _, arg := range method.In {
			t, ok := types.ParseWholeSignature(arg.Signature)
			if !ok {
				return fmt.Errorf("method %q in-argument %q has an invalid signature %q", trig.Member, arg.Name, arg.Signature)
			}
			if err := e.DeclareType(env.ScopeLocal, arg.Name, t); err != nil {
				return err
			}
		}
	case ast.TriggerProperty:
		_, prop, ok := node.FindProperty(trig.Member)
		if !ok {
			return fmt.Errorf("transition on unknown property %q", trig.Member)
		}
		t, ok := types.ParseWholeSignature(prop.Signature)
		if !ok {
			return fmt.Errorf("property %q has an invalid signature %q", trig.Member, prop.Signature)
		}
		return e.DeclareType(env.ScopeLocal, "value", t)
	}
	return nil
}

// walkLiteralsInStmt dispatches to walkLiteralsInExpr over every
// expression a statement holds.
func (c *checker) walkLiteralsInStmt(e *env.Environment, stmt ast.Statement) error {
	switch s := stmt.(type) {
	case *ast.AssignStmt:
		if err := c.walkLiteralsInExpr(e, s.LHS); err != nil {
			return err
		}
		return c.walkLiteralsInExpr(e, s.RHS)
	case *ast.EmitStmt:
		return c.walkLiteralsInExpr(e, s.Value)
	case *ast.ReplyStmt:
		return c.walkLiteralsInExpr(e, s.Value)
	case *ast.ThrowStmt:
		return nil
	default:
		return fmt.Errorf("check: unsupported statement type %T", stmt)
	}
}

// walkLiteralsInExpr finds every DataLiteral descendant of expr and
// resolves/caches its type via precheckLiteral, without itself assigning
// a type to a non-literal node (BinaryExpr, UnaryExpr, FunctionCallExpr) —
// that is phase C's inferType job, run once the whole tree's literals
// have been pre-checked.
func (c *checker) walkLiteralsInExpr(e *env.Environment, expr ast.Expression) error {
	switch n := expr.(type) {
	case ast.DataLiteral:
		_, err := c.precheckLiteral(e, n)
		return err
	case *ast.UnaryExpr:
		return c.walkLiteralsInExpr(e, n.Operand)
	case *ast.BinaryExpr:
		if err := c.walkLiteralsInExpr(e, n.Left); err != nil {
			return err
		}
		return c.walkLiteralsInExpr(e, n.Right)
	case *ast.FunctionCallExpr:
		for _, a := range n.Args {
			if err := c.walkLiteralsInExpr(e, a); err != nil {
				return err
			}
		}
		return nil
	default:
		return fmt.Errorf("check: unsupported expression type %T", expr)
	}
}

// precheckLiteral resolves and caches lit's Meta.Computed type, validating
// its value against that type (integer range, UTF-8, object-path and
// signature syntax) and, for composite literals, recursing into its
// children — which must themselves be DataLiteral nodes; a composite
// literal whose child is an arbitrary expression (e.g. a binary
// expression or a function call) is rejected here, since there would
// be no way to fold it into the container's element/key/value type at
// this stage.
func (c *checker) precheckLiteral(e *env.Environment, lit ast.DataLiteral) (types.Type, error) {
	pos := toDiagPos(lit)
	meta := lit.Metadata()

	switch n := lit.(type) {
	case *ast.IntegerLiteral:
		t := types.Int32
		if n.Annotation != nil {
			t = *n.Annotation
		}
		if !t.Kind.IsInteger() {
			return types.Type{}, c.posErrorf(pos, "integer literal annotated with non-integer type %s", t)
		}
		limits := types.LimitsOf(t.Kind)
		if limits.Signed {
			val, err := parseSignedDecimal(n.Raw, limits)
			if err != nil {
				return types.Type{}, c.posErrorf(pos, "%s", err)
			}
			n.Value = val
		} else {
			val, err := parseUnsignedDecimal(n.Raw, limits)
			if err != nil {
				return types.Type{}, c.posErrorf(pos, "%s", err)
			}
			n.UValue = val
		}
		meta.Computed = t
		return t, nil

	case *ast.DoubleLiteral:
		t := types.Double
		if n.Annotation != nil && n.Annotation.Kind != types.KindDouble {
			return types.Type{}, c.posErrorf(pos, "double literal annotated with non-double type %s", *n.Annotation)
		}
		meta.Computed = t
		return t, nil

	case *ast.BoolLiteral:
		t := types.Boolean
		if n.Annotation != nil && n.Annotation.Kind != types.KindBoolean {
			return types.Type{}, c.posErrorf(pos, "boolean literal annotated with non-boolean type %s", *n.Annotation)
		}
		meta.Computed = t
		return t, nil

	case *ast.StringLiteral:
		t := types.String
		if n.Annotation != nil {
			t = *n.Annotation
		}
		switch t.Kind {
		case types.KindString:
			if !utf8.ValidString(n.Value) {
				return types.Type{}, c.posErrorf(pos, "string literal is not valid UTF-8")
			}
		case types.KindObjectPath:
			if !dbus.IsValidObjectPath(n.Value) {
				return types.Type{}, c.posErrorf(pos, "%q is not a valid D-Bus object path", n.Value)
			}
		case types.KindSignature:
			if !dbus.IsValidSignature(n.Value) {
				return types.Type{}, c.posErrorf(pos, "%q is not a valid D-Bus signature", n.Value)
			}
		default:
			return types.Type{}, c.posErrorf(pos, "string literal annotated with non-string-family type %s", t)
		}
		meta.Computed = t
		return t, nil

	case *ast.UnixFDLiteral:
		meta.Computed = types.UnixFD
		return types.UnixFD, nil

	case *ast.VariableLiteral:
		t, ok := e.Type(env.ScopeLocal, n.Name)
		if !ok {
			t, ok = e.Type(env.ScopeObject, n.Name)
		}
		if !ok {
			return types.Type{}, c.posErrorf(pos, "undeclared variable %q", n.Name)
		}
		meta.Computed = t
		return t, nil

	case *ast.ArrayLiteral:
		elemType, err := c.precheckChildren(e, n.Elements)
		if err != nil {
			return types.Type{}, err
		}
		t := types.ArrayOf(elemType)
		if n.Annotation != nil {
			t = *n.Annotation
			if !types.IsSubtypeOf(types.ArrayOf(elemType), t) {
				return types.Type{}, c.posErrorf(pos, "array literal's inferred type %s does not match its annotation %s", types.ArrayOf(elemType), t)
			}
		}
		meta.Computed = t
		return t, nil

	case *ast.TupleLiteral:
		items := make([]types.Type, len(n.Elements))
		for i, el := range n.Elements {
			dl, ok := el.(ast.DataLiteral)
			if !ok {
				return types.Type{}, c.posErrorf(pos, "tuple element %d must be a literal", i)
			}
			t, err := c.precheckLiteral(e, dl)
			if err != nil {
				return types.Type{}, err
			}
			items[i] = t
		}
		inferred := types.TupleOf(items...)
		t := inferred
		if n.Annotation != nil {
			t = *n.Annotation
			if !types.IsSubtypeOf(inferred, t) {
				return types.Type{}, c.posErrorf(pos, "tuple literal's inferred type %s does not match its annotation %s", inferred, t)
			}
		}
		meta.Computed = t
		return t, nil

	case *ast.DictLiteral:
		keys := make([]ast.Expression, len(n.Entries))
		vals := make([]ast.Expression, len(n.Entries))
		for i, ent := range n.Entries {
			keys[i] = ent.Key
			vals[i] = ent.Value
		}
		keyType, err := c.precheckChildren(e, keys)
		if err != nil {
			return types.Type{}, err
		}
		if !keyType.Kind.IsBasic() && keyType.Kind != types.KindWildcardBasic {
			return types.Type{}, c.posErrorf(pos, "dict key type %s is not a basic type", keyType)
		}
		valType, err := c.precheckChildren(e, vals)
		if err != nil {
			return types.Type{}, err
		}
		inferred := types.DictOf(keyType, valType)
		t := inferred
		if n.Annotation != nil {
			t = *n.Annotation
			if !types.IsSubtypeOf(inferred, t) {
				return types.Type{}, c.posErrorf(pos, "dict literal's inferred type %s does not match its annotation %s", inferred, t)
			}
		}
		meta.Computed = t
		return t, nil

	case *ast.VariantLiteral:
		inner, ok := n.Inner.(ast.DataLiteral)
		if !ok {
			return types.Type{}, c.posErrorf(pos, "variant-wrapped value must be a literal")
		}
		if _, err := c.precheckLiteral(e, inner); err != nil {
			return types.Type{}, err
		}
		meta.Computed = types.Variant
		return types.Variant, nil

	default:
		return types.Type{}, c.posErrorf(pos, "check: unsupported literal type %T", lit)
	}
}

// precheckChildren pre-checks each of exprs (which must all be
// DataLiteral nodes) and returns the least-general-supertype of their
// resolved types, or the appropriate wildcard for an empty list.
func (c *checker) precheckChildren(e *env.Environment, exprs []ast.Expression) (types.Type, error) {
	ts := make([]types.Type, 0, len(exprs))
	for i, expr := range exprs {
		dl, ok := expr.(ast.DataLiteral)
		if !ok {
			return types.Type{}, c.posErrorf(toDiagPos(expr), "element %d must be a literal", i)
		}
		t, err := c.precheckLiteral(e, dl)
		if err != nil {
			return types.Type{}, err
		}
		ts = append(ts, t)
	}
	return types.LeastGeneralSupertype(ts), nil
}

// parseSignedDecimal parses raw (always a non-negative decimal string —
// the expression grammar has no unary minus) into a signed integer, checking it
// against limits.MaxSigned. Negative values can only ever arise at
// runtime, from subtraction.
func parseSignedDecimal(raw string, limits types.Limits) (int64, error) {
	u, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("integer literal %q is out of range", raw)
	}
	if u > uint64(limits.MaxSigned) {
		return 0, fmt.Errorf("integer literal %q exceeds the maximum value %d for its type", raw, limits.MaxSigned)
	}
	return int64(u), nil
}

// parseUnsignedDecimal parses raw into an unsigned integer, checking it
// against limits.Max.
func parseUnsignedDecimal(raw string, limits types.Limits) (uint64, error) {
	u, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("integer literal %q is out of range", raw)
	}
	if u > limits.Max {
		return 0, fmt.Errorf("integer literal %q exceeds the maximum value %d for its type", raw, limits.Max)
	}
	return u, nil
}

// buildStateTable flattens decl's state blocks into an ordered name list
// and a name-to-index map. The default (starting) state is the last name
// of the first block, placed at index 0; every other name is appended in
// first-occurrence order across all blocks, with duplicates silently
// deduped rather than rejected.
func (c *checker) buildStateTable(decl *ast.ObjectDecl) ([]string, map[string]int, []error) {
	if len(decl.StateBlocks) == 0 || len(decl.StateBlocks[0]) == 0 {
		return nil, nil, []error{c.posErrorf(toDiagPos(decl), "object declares no states")}
	}

	first := decl.StateBlocks[0]
	defaultName := first[len(first)-1]

	seen := map[string]bool{defaultName: true}
	names := []string{defaultName}
	for _, block := range decl.StateBlocks {
		for _, name := range block {
			if seen[name] {
				continue
			}
			seen[name] = true
			names = append(names, name)
		}
	}

	index := make(map[string]int, len(names))
	for i, name := range names {
		index[name] = i
	}
	return names, index, nil
}
