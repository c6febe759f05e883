// Package env holds the per-object runtime state a simulation program
// reads and writes: persistent object-scope variables, ephemeral
// per-invocation local-scope variables (method arguments, or the special
// name "value" during a property-set transition), and the introspection
// data describing the interfaces the owning object implements.
package env

import (
	"fmt"

	"github.com/pwithnall/bendy-bus/internal/dbus"
	"github.com/pwithnall/bendy-bus/internal/types"
)

// Scope selects which of an Environment's two variable maps an operation
// applies to.
type Scope int

const (
	// ScopeObject holds variables that persist across transitions and
	// survive a machine reset only via an explicit Snapshot/ResetToSnapshot
	// round trip.
	ScopeObject Scope = iota
	// ScopeLocal holds variables scoped to a single method call or
	// property access: its arguments, or "value" for a property set.
	ScopeLocal
)

// VariableInfo is the (type, optional value) pair tracked for one
// variable. Value is nil until the variable has been assigned at least
// once; reading an unset variable is a caller bug, not a recoverable
// condition.
type VariableInfo struct {
	Type  types.Type
	Value *types.Value
}

// Environment is the scoped variable store for one simulated object.
type Environment struct {
	object     map[string]*VariableInfo
	local      map[string]*VariableInfo
	interfaces []dbus.InterfaceInfo
}

// New creates an empty Environment describing an object that implements
// interfaces.
func New(interfaces []dbus.InterfaceInfo) *Environment {
	return &Environment{
		object:     make(map[string]*VariableInfo),
		local:      make(map[string]*VariableInfo),
		interfaces: interfaces,
	}
}

func (e *Environment) scopeMap(scope Scope) map[string]*VariableInfo {
	if scope == ScopeLocal {
		return e.local
	}
	return e.object
}

// Interfaces returns the introspection data passed to New.
func (e *Environment) Interfaces() []dbus.InterfaceInfo {
	return e.interfaces
}

// Has reports whether name has been declared (given a type, whether or
// not it has been assigned a value yet) in scope.
func (e *Environment) Has(scope Scope, name string) bool {
	_, ok := e.scopeMap(scope)[name]
	return ok
}

// DeclareType registers name in scope with type t. It is an error to
// declare the same name twice in the same scope.
func (e *Environment) DeclareType(scope Scope, name string, t types.Type) error {
	m := e.scopeMap(scope)
	if _, ok := m[name]; ok {
		return fmt.Errorf("variable %q is already declared in this scope", name)
	}
	m[name] = &VariableInfo{Type: t}
	return nil
}

// Type returns the declared type of name in scope.
func (e *Environment) Type(scope Scope, name string) (types.Type, bool) {
	vi, ok := e.scopeMap(scope)[name]
	if !ok {
		return types.Type{}, false
	}
	return vi.Type, true
}

// Value returns the current value of name in scope. The second result is
// false if the variable is undeclared or has never been assigned.
func (e *Environment) Value(scope Scope, name string) (types.Value, bool) {
	vi, ok := e.scopeMap(scope)[name]
	if !ok || vi.Value == nil {
		return types.Value{}, false
	}
	return *vi.Value, true
}

// SetValue assigns v to the already-declared variable name in scope. v's
// type must be a subtype of the variable's declared type; the variable's
// declared type itself never changes.
func (e *Environment) SetValue(scope Scope, name string, v types.Value) error {
	vi, ok := e.scopeMap(scope)[name]
	if !ok {
		return fmt.Errorf("variable %q has no declared type", name)
	}
	if !v.Matches(vi.Type) {
		return fmt.Errorf("value of type %s does not match declared type %s for variable %q", v.Type(), vi.Type, name)
	}
	cp := v
	vi.Value = &cp
	return nil
}

// Unset removes name from scope entirely, including its declared type.
func (e *Environment) Unset(scope Scope, name string) {
	delete(e.scopeMap(scope), name)
}

// ResetLocalScope clears every local-scope variable, ready for the next
// method call or property access. Object-scope variables are untouched.
func (e *Environment) ResetLocalScope() {
	e.local = make(map[string]*VariableInfo)
}

// Snapshot is a point-in-time copy of every object-scope variable's
// value, captured by Snapshot and restored by ResetToSnapshot.
type Snapshot map[string]*types.Value

// Snapshot captures the current value of every object-scope variable.
// Declared-but-unassigned variables snapshot as a nil entry.
func (e *Environment) Snapshot() Snapshot {
	snap := make(Snapshot, len(e.object))
	for name, vi := range e.object {
		if vi.Value == nil {
			snap[name] = nil
			continue
		}
		cp := *vi.Value
		snap[name] = &cp
	}
	return snap
}

// ResetToSnapshot restores every object-scope variable named in snap to
// the value it held when the snapshot was taken. Variables declared after
// the snapshot was taken are left alone.
func (e *Environment) ResetToSnapshot(snap Snapshot) {
	for name, val := range snap {
		vi, ok := e.object[name]
		if !ok {
			continue
		}
		if val == nil {
			vi.Value = nil
			continue
		}
		cp := *val
		vi.Value = &cp
	}
}
