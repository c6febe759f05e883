// Package object binds one machine.Machine to the identity the host
// exports it under: an object path, the well-known bus names it owns,
// and the interfaces it implements. It is a thin adapter — all
// selection and execution logic lives in internal/machine.
package object

import (
	"github.com/pwithnall/bendy-bus/internal/dbus"
	"github.com/pwithnall/bendy-bus/internal/machine"
	"github.com/pwithnall/bendy-bus/internal/outputseq"
	"github.com/pwithnall/bendy-bus/internal/types"
)

// Object mediates calls from the host into its Machine, tagging them
// with the path/interfaces/bus names a real D-Bus connection would use
// to route them. It never touches a bus connection itself: that belongs
// to the host (pkg/bendybus), which owns the transport-facing
// outputseq.Sink this package's callers are expected to flush to.
type Object struct {
	ObjectPath string
	BusNames   []string
	Interfaces []dbus.InterfaceInfo

	machine *machine.Machine
}

// New binds m to the given identity.
func New(m *machine.Machine, objectPath string, busNames []string, interfaces []dbus.InterfaceInfo) *Object {
	return &Object{
		ObjectPath: objectPath,
		BusNames:   busNames,
		Interfaces: interfaces,
		machine:    m,
	}
}

// Machine returns the bound machine, for callers (reachability tooling,
// dump commands) that need direct access beyond the three entry points
// below.
func (o *Object) Machine() *machine.Machine { return o.machine }

// CallMethod mirrors C8's method-call context, tagged with the calling
// interface for the host's own bookkeeping; interfaceName is otherwise
// unused here since the selector resolves methods by name alone.
func (o *Object) CallMethod(interfaceName, method string, args types.Value, seq *outputseq.Sequence) error {
	return o.machine.CallMethod(method, args, seq)
}

// SetProperty mirrors C8's property-set context.
func (o *Object) SetProperty(interfaceName, property string, newValue types.Value, seq *outputseq.Sequence) error {
	return o.machine.SetProperty(property, newValue, seq)
}

// Tick mirrors C8's arbitrary-tick context.
func (o *Object) Tick(seq *outputseq.Sequence) error {
	return o.machine.Tick(seq)
}
