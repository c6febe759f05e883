package bendybus

import (
	"github.com/pwithnall/bendy-bus/internal/outputseq"
	"github.com/pwithnall/bendy-bus/internal/types"
)

// Conn is the minimal surface a real bus connection needs to expose for
// BusSink to flush an object's buffered events onto it: sending back a
// method reply or error in response to the call currently being handled,
// and emitting a signal from an object path. No concrete D-Bus client
// library is wired into this module — the reference corpus carries none
// — so a host picks one (e.g. by wrapping a godbus connection) and
// supplies it here, keeping bendy-bus itself transport-agnostic.
type Conn interface {
	SendReply(params types.Value) error
	SendError(errorName, message string) error
	EmitSignal(objectPath, iface, signal string, params types.Value) error
}

// BusSink adapts a Conn to outputseq.Sink for one object path, so a host
// can do:
//
//	var seq outputseq.Sequence
//	obj.CallMethod(iface, method, args, &seq)
//	seq.Flush(bendybus.NewBusSink(conn, obj.ObjectPath))
type BusSink struct {
	conn       Conn
	objectPath string
}

// NewBusSink builds a BusSink that emits signals tagged with objectPath
// and forwards replies/errors to conn unchanged.
func NewBusSink(conn Conn, objectPath string) *BusSink {
	return &BusSink{conn: conn, objectPath: objectPath}
}

func (s *BusSink) Reply(params types.Value) error { return s.conn.SendReply(params) }

func (s *BusSink) Throw(errorName, message string) error {
	return s.conn.SendError(errorName, message)
}

func (s *BusSink) Emit(iface, signal string, params types.Value) error {
	return s.conn.EmitSignal(s.objectPath, iface, signal, params)
}

var _ outputseq.Sink = (*BusSink)(nil)
