// Package exec executes a transition's statement list (assign/emit/reply/
// throw) against an Environment, appending events to an outputseq.Sequence.
// Execution is synchronous: every statement runs to completion, or to the
// point of an Aborted runtime-assertion violation, before control returns
// to the caller (internal/machine).
package exec

import (
	"fmt"
	"log"

	"github.com/pwithnall/bendy-bus/internal/ast"
	"github.com/pwithnall/bendy-bus/internal/dbus"
	"github.com/pwithnall/bendy-bus/internal/diag"
	"github.com/pwithnall/bendy-bus/internal/env"
	"github.com/pwithnall/bendy-bus/internal/eval"
	"github.com/pwithnall/bendy-bus/internal/outputseq"
	"github.com/pwithnall/bendy-bus/internal/types"
)

// Executor runs statement lists. warn receives logged RuntimeWarnings; nil
// discards them.
type Executor struct {
	warn *log.Logger
}

// New builds an Executor that logs runtime warnings to warn (nil discards
// them).
func New(warn *log.Logger) *Executor {
	return &Executor{warn: warn}
}

func (x *Executor) warnf(format string, args ...any) {
	diag.NewRuntimeWarning(format, args...).Log(x.warn)
}

// Aborted is returned by Run when a statement hits a runtime assertion
// violation — currently only an array-literal assignment target whose
// length disagrees with its right-hand-side value's length at runtime,
// since array types carry no static length. The caller must stop executing
// the transition's remaining statements and leave the machine's state
// unchanged; events already appended to the sequence are not rolled back.
type Aborted struct {
	Warning diag.RuntimeWarning
}

func (a *Aborted) Error() string { return a.Warning.Message }

// Run executes stmts in order against e, appending reply/throw/emit events
// to seq. methodCall is true only while executing a method-call-triggered
// transition; it gates whether a Reply statement is meaningful. Run stops
// and returns an *Aborted error the first time a statement hits a runtime
// assertion violation; any other non-nil error indicates a bug in an
// already-checked program (e.g. a reference to an undeclared variable) and
// should not occur in practice.
func (x *Executor) Run(stmts []ast.Statement, e *env.Environment, seq *outputseq.Sequence, methodCall bool) error {
	for _, stmt := range stmts {
		if err := x.execStatement(stmt, e, seq, methodCall); err != nil {
			return err
		}
	}
	return nil
}

func (x *Executor) execStatement(stmt ast.Statement, e *env.Environment, seq *outputseq.Sequence, methodCall bool) error {
	switch s := stmt.(type) {
	case *ast.AssignStmt:
		return x.execAssign(s, e)
	case *ast.EmitStmt:
		return x.execEmit(s, e, seq)
	case *ast.ReplyStmt:
		return x.execReply(s, e, seq, methodCall)
	case *ast.ThrowStmt:
		return x.execThrow(s, seq)
	default:
		return fmt.Errorf("exec: unrecognised statement type %T", stmt)
	}
}

func (x *Executor) execAssign(s *ast.AssignStmt, e *env.Environment) error {
	rhs, err := eval.Evaluate(s.RHS, e)
	if err != nil {
		return err
	}
	return x.assignTree(s.LHS, rhs, e)
}

// assignTree walks lhs, a tree of array/tuple/dict constructor literals
// whose leaves are variable references, assigning the matching component
// of rhs into each leaf.
func (x *Executor) assignTree(lhs ast.Expression, rhs types.Value, e *env.Environment) error {
	switch n := lhs.(type) {
	case *ast.VariableLiteral:
		return assignVariable(e, n.Name, rhs)

	case *ast.ArrayLiteral:
		items := rhs.Items()
		if rhs.Type().Kind != types.KindArray || len(items) != len(n.Elements) {
			msg := fmt.Sprintf("array assignment target has %d element(s), value has %d; leaving the transition's remaining statements unexecuted", len(n.Elements), len(items))
			x.warnf(msg)
			return &Aborted{Warning: diag.NewRuntimeWarning(msg)}
		}
		for i, el := range n.Elements {
			if err := x.assignTree(el, items[i], e); err != nil {
				return err
			}
		}
		return nil

	case *ast.TupleLiteral:
		// Tuple arity is part of a tuple's type, so phase C's
		// rvalue_type ⊑ lvalue_type check already guarantees this
		// matches; a mismatch here means the checker let an invalid
		// program through.
		items := rhs.Items()
		if rhs.Type().Kind != types.KindTuple || len(items) != len(n.Elements) {
			return fmt.Errorf("exec: tuple assignment target has %d element(s), value has %d (should have been caught by the checker)", len(n.Elements), len(items))
		}
		for i, el := range n.Elements {
			if err := x.assignTree(el, items[i], e); err != nil {
				return err
			}
		}
		return nil

	case *ast.DictLiteral:
		if rhs.Type().Kind != types.KindDict {
			return fmt.Errorf("exec: dict assignment target expects a dict value, got %s", rhs.Type())
		}
		// Evaluate every key expression once, mapping its value's
		// printed form to the corresponding lhs leaf.
		keyed := make(map[string]ast.Expression, len(n.Entries))
		for _, ent := range n.Entries {
			k, err := eval.Evaluate(ent.Key, e)
			if err != nil {
				return err
			}
			keyed[k.String()] = ent.Value
		}
		// Only variables whose keys appear on the rhs are touched;
		// keys present only on the lhs are left unchanged, and keys
		// present only on the rhs are dropped.
		for _, re := range rhs.Entries() {
			leaf, ok := keyed[re.Key.String()]
			if !ok {
				continue
			}
			if err := x.assignTree(leaf, re.Value, e); err != nil {
				return err
			}
		}
		return nil

	default:
		return fmt.Errorf("exec: unsupported assignment target %T", lhs)
	}
}

func assignVariable(e *env.Environment, name string, v types.Value) error {
	scope := env.ScopeObject
	if e.Has(env.ScopeLocal, name) {
		scope = env.ScopeLocal
	}
	return e.SetValue(scope, name, v)
}

func (x *Executor) execEmit(s *ast.EmitStmt, e *env.Environment, seq *outputseq.Sequence) error {
	iface, _, ok := dbus.NodeInfo{Interfaces: e.Interfaces()}.FindSignal(s.Signal)
	if !ok {
		x.warnf("emit of unknown signal %q: no implemented interface declares it; skipping", s.Signal)
		return nil
	}
	v, err := eval.Evaluate(s.Value, e)
	if err != nil {
		return err
	}
	seq.AddEmit(iface.Name, s.Signal, v)
	return nil
}

func (x *Executor) execReply(s *ast.ReplyStmt, e *env.Environment, seq *outputseq.Sequence, methodCall bool) error {
	if !methodCall {
		x.warnf("reply statement used outside a method-call context; skipping")
		return nil
	}
	v, err := eval.Evaluate(s.Value, e)
	if err != nil {
		return err
	}
	// A method's out-args are always a tuple; "reply expr" need not
	// spell one out explicitly when there's exactly one out-arg (see
	// DESIGN.md's grouping-vs-tuple-literal Open Question decision).
	if v.Type().Kind != types.KindTuple {
		v = types.NewTuple([]types.Value{v})
	}
	seq.AddReply(v)
	return nil
}

func (x *Executor) execThrow(s *ast.ThrowStmt, seq *outputseq.Sequence) error {
	seq.AddThrow(s.ErrorName, fmt.Sprintf("%s thrown by the simulated object", s.ErrorName))
	return nil
}
