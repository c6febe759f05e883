// Package machine implements the transition selector: the per-object
// state machine that picks and runs one transition in response to a
// method call, a property set, or an arbitrary tick, against the
// environment and checked transition table produced by internal/check.
package machine

import (
	"fmt"
	"log"

	"github.com/pwithnall/bendy-bus/internal/ast"
	"github.com/pwithnall/bendy-bus/internal/check"
	"github.com/pwithnall/bendy-bus/internal/config"
	"github.com/pwithnall/bendy-bus/internal/dbus"
	"github.com/pwithnall/bendy-bus/internal/diag"
	"github.com/pwithnall/bendy-bus/internal/env"
	"github.com/pwithnall/bendy-bus/internal/eval"
	"github.com/pwithnall/bendy-bus/internal/exec"
	"github.com/pwithnall/bendy-bus/internal/fuzz"
	"github.com/pwithnall/bendy-bus/internal/outputseq"
	"github.com/pwithnall/bendy-bus/internal/types"
)

// throwSkipProbability is the chance a fuzzing-enabled selector skips a
// transition whose statement list contains a throw, in favour of trying
// another candidate first.
const throwSkipProbability = 0.8

// Filter is the host's pre-execution hook: given a transition the
// selector is about to consider, it returns false to reject it. The
// default (nil) accepts every candidate; test harnesses may supply one
// that denies some or all transitions to exercise dead-state behaviour.
type Filter func(t *ast.ObjectTransition) bool

// Machine runs one checked object's transitions against its environment.
// It is not safe for concurrent use: the core is single-threaded and
// cooperative, and the host must serialise invocations against the same
// object.
type Machine struct {
	obj     *check.CheckedObject
	node    dbus.NodeInfo
	state   int
	initial env.Snapshot
	fuzzer  *fuzz.Fuzzer
	exec    *exec.Executor
	warn    *log.Logger
	filter  Filter
}

// New builds a Machine for obj, configured per cfg. warn receives logged
// RuntimeWarnings (nil discards them). The machine starts in state 0 and
// remembers the environment's current values as the snapshot Reset
// restores.
func New(obj *check.CheckedObject, cfg config.EngineConfig, warn *log.Logger) *Machine {
	return &Machine{
		obj:     obj,
		node:    dbus.NodeInfo{Interfaces: obj.Interfaces},
		state:   0,
		initial: obj.Env.Snapshot(),
		fuzzer:  fuzz.New(cfg.RNGSeed, cfg.FuzzEnabled, warn),
		exec:    exec.New(warn),
		warn:    warn,
	}
}

// SetFilter installs the host's pre-execution filter hook. A nil filter
// accepts every candidate.
func (m *Machine) SetFilter(f Filter) { m.filter = f }

// State returns the machine's current state index into
// CheckedObject.StateNames.
func (m *Machine) State() int { return m.state }

// StateName returns the name of the machine's current state.
func (m *Machine) StateName() string { return m.obj.StateNames[m.state] }

// Reset restores state to 0 and the environment to the snapshot taken at
// construction time.
func (m *Machine) Reset() {
	m.state = 0
	m.obj.Env.ResetToSnapshot(m.initial)
}

func (m *Machine) warnf(format string, args ...any) {
	diag.NewRuntimeWarning(format, args...).Log(m.warn)
}

// transitionsFor returns every ObjectTransition in declaration order whose
// trigger matches kind/member.
func (m *Machine) transitionsFor(kind ast.TriggerKind, member string) []*ast.ObjectTransition {
	var out []*ast.ObjectTransition
	for _, t := range m.obj.Transitions {
		if t.Def.Trigger.Kind == kind && t.Def.Trigger.Member == member {
			out = append(out, t)
		}
	}
	return out
}

// CallMethod invokes method. The selector's candidate list is keyed purely
// on method name, looked up across the object's implemented-interfaces
// introspection; no interface name is taken. args is the tuple
// of call arguments in declared order. Locals bound from args are
// unset again before CallMethod returns, win or lose.
func (m *Machine) CallMethod(method string, args types.Value, seq *outputseq.Sequence) error {
	_, info, ok := m.node.FindMethod(method)
	if !ok {
		m.warnf("method call to unknown method %q; synthesising an empty reply", method)
		seq.AddReply(types.NewTuple(nil))
		return nil
	}

	if err := m.bindMethodArgs(info, args); err != nil {
		return err
	}
	defer m.obj.Env.ResetLocalScope()

	executed, err := m.runSelector(m.transitionsFor(ast.TriggerMethod, method), true, seq)
	if err != nil {
		return err
	}
	if !executed {
		m.warnf("no transition executed for method %q; synthesising an empty reply", method)
		seq.AddReply(types.NewTuple(nil))
	}
	return nil
}

// bindMethodArgs declares and assigns args into the environment's local
// scope, one per in-argument name. A call with more or fewer arguments
// than the method declares binds as many as line up positionally and
// logs a RuntimeWarning for the mismatch, continuing with what was
// bound rather than failing the call outright.
func (m *Machine) bindMethodArgs(info dbus.MethodInfo, args types.Value) error {
	items := args.Items()
	if len(items) != len(info.In) {
		m.warnf("method %q expects %d argument(s), got %d; continuing with what was bound", info.Name, len(info.In), len(items))
	}
	n := len(info.In)
	if len(items) < n {
		n = len(items)
	}
	for i := 0; i < n; i++ {
		t, ok := types.ParseWholeSignature(info.In[i].Signature)
		if !ok {
			return fmt.Errorf("machine: method %q in-argument %q has an invalid signature %q", info.Name, info.In[i].Name, info.In[i].Signature)
		}
		if err := m.obj.Env.DeclareType(env.ScopeLocal, info.In[i].Name, t); err != nil {
			return err
		}
		if err := m.obj.Env.SetValue(env.ScopeLocal, info.In[i].Name, items[i]); err != nil {
			return err
		}
	}
	return nil
}

// SetProperty sets property to newValue. A property name missing from the
// object's introspection is logged and otherwise ignored. For a known
// property where no transition executes (none exists, or none is
// selected), SetProperty falls through to the default compare-and-set of
// the object variable of the same name.
func (m *Machine) SetProperty(property string, newValue types.Value, seq *outputseq.Sequence) error {
	_, _, ok := m.node.FindProperty(property)
	if !ok {
		m.warnf("property set on unknown property %q; ignoring", property)
		return nil
	}

	if err := m.bindPropertyValue(property, newValue); err != nil {
		return err
	}
	defer m.obj.Env.ResetLocalScope()

	executed, err := m.runSelector(m.transitionsFor(ast.TriggerProperty, property), false, seq)
	if err != nil {
		return err
	}
	if !executed {
		cur, ok := m.obj.Env.Value(env.ScopeObject, property)
		if ok && cur.Equal(newValue) {
			return nil
		}
		return m.obj.Env.SetValue(env.ScopeObject, property, newValue)
	}
	return nil
}

func (m *Machine) bindPropertyValue(property string, newValue types.Value) error {
	t, ok := m.obj.Env.Type(env.ScopeObject, property)
	if !ok {
		return fmt.Errorf("machine: property %q has no backing object variable", property)
	}
	if err := m.obj.Env.DeclareType(env.ScopeLocal, "value", t); err != nil {
		return err
	}
	return m.obj.Env.SetValue(env.ScopeLocal, "value", newValue)
}

// Tick runs one arbitrary-trigger selection round. "none" does nothing.
func (m *Machine) Tick(seq *outputseq.Sequence) error {
	_, err := m.runSelector(m.transitionsFor(ast.TriggerArbitrary, ""), false, seq)
	return err
}

// runSelector implements the selection algorithm shared by all three
// trigger contexts: drop candidates whose from_state doesn't match, drop
// any the host filter rejects, then iterate cyclically from a random
// offset evaluating preconditions, with the fuzzing-aware throw-skip
// rule and the first-error-candidate/throw-candidate fallbacks. Returns
// whether any transition was executed (including the "executed-as-error"
// fallback, which runs no statements but still counts).
func (m *Machine) runSelector(candidates []*ast.ObjectTransition, methodCall bool, seq *outputseq.Sequence) (bool, error) {
	var filtered []*ast.ObjectTransition
	for _, t := range candidates {
		if t.FromState != m.state {
			continue
		}
		if m.filter != nil && !m.filter(t) {
			continue
		}
		filtered = append(filtered, t)
	}
	if len(filtered) == 0 {
		return false, nil
	}

	start := m.fuzzer.Intn(len(filtered))
	var firstErrorCandidate, throwCandidate *ast.ObjectTransition

	for i := 0; i < len(filtered); i++ {
		t := filtered[(start+i)%len(filtered)]

		ok, errName, err := m.evalPreconditions(t)
		if err != nil {
			return false, err
		}
		if !ok {
			if errName != "" && firstErrorCandidate == nil {
				firstErrorCandidate = t
			}
			continue
		}
		if t.Def.HasThrow() && m.fuzzer.Enabled() && m.fuzzer.CoinFlip(throwSkipProbability) {
			if throwCandidate == nil {
				throwCandidate = t
			}
			continue
		}
		if err := m.executeTransition(t, methodCall, seq); err != nil {
			return false, err
		}
		return true, nil
	}

	if firstErrorCandidate != nil {
		if err := m.throwFirstError(firstErrorCandidate, seq); err != nil {
			return false, err
		}
		return true, nil
	}
	if throwCandidate != nil {
		if err := m.executeTransition(throwCandidate, methodCall, seq); err != nil {
			return false, err
		}
		return true, nil
	}
	return false, nil
}

// evalPreconditions evaluates t's preconditions in declaration order.
// ok is true only if every precondition held; if a precondition fails
// and declares an error_name, errName carries it (used by the selector's
// first-error-candidate rule), otherwise errName is empty.
func (m *Machine) evalPreconditions(t *ast.ObjectTransition) (ok bool, errName string, err error) {
	for _, p := range t.Def.Preconditions {
		v, err := eval.Evaluate(p.Condition, m.obj.Env)
		if err != nil {
			return false, "", err
		}
		if !v.Bool() {
			return false, p.ErrorName, nil
		}
	}
	return true, "", nil
}

// executeTransition runs t's statements and advances the machine to its
// to_state, unless the statement list contains a throw: a throwing
// transition leaves the machine state unchanged. An exec.Aborted error
// is swallowed and also leaves the state unchanged.
func (m *Machine) executeTransition(t *ast.ObjectTransition, methodCall bool, seq *outputseq.Sequence) error {
	if err := m.exec.Run(t.Def.Statements, m.obj.Env, seq, methodCall); err != nil {
		if _, aborted := err.(*exec.Aborted); aborted {
			return nil
		}
		return err
	}
	if !t.Def.HasThrow() {
		m.state = t.ToState
	}
	return nil
}

// throwFirstError re-evaluates t's preconditions, pushing the first
// failing one's D-Bus error as a throw event. The machine state is left
// unchanged, matching the rule that a throw never changes state.
func (m *Machine) throwFirstError(t *ast.ObjectTransition, seq *outputseq.Sequence) error {
	for _, p := range t.Def.Preconditions {
		v, err := eval.Evaluate(p.Condition, m.obj.Env)
		if err != nil {
			return err
		}
		if !v.Bool() {
			if p.ErrorName != "" {
				seq.AddThrow(p.ErrorName, fmt.Sprintf("%s thrown by the simulated object", p.ErrorName))
			}
			return nil
		}
	}
	return nil
}
