// Package outputseq buffers the reply/throw/emit events produced by one
// engine invocation and replays them, in the order they were appended, to
// a host-supplied Sink. Appending is infallible; only Flush can fail, and
// it aborts at the first transport error rather than attempting the rest.
package outputseq

import (
	"fmt"

	"github.com/pwithnall/bendy-bus/internal/types"
)

// Event is one buffered reply, throw or emit.
type Event interface {
	fmt.Stringer
	eventNode()
}

// ReplyEvent is a successful method-call reply.
type ReplyEvent struct{ Params types.Value }

func (ReplyEvent) eventNode()       {}
func (e ReplyEvent) String() string { return fmt.Sprintf("reply %s", e.Params) }

// ThrowEvent is a D-Bus error reply. Message is synthesised by the
// statement executor; it is not part of the simulation language.
type ThrowEvent struct {
	ErrorName string
	Message   string
}

func (ThrowEvent) eventNode()       {}
func (e ThrowEvent) String() string { return fmt.Sprintf("throw %s: %s", e.ErrorName, e.Message) }

// EmitEvent is a signal emission.
type EmitEvent struct {
	Interface string
	Signal    string
	Params    types.Value
}

func (EmitEvent) eventNode() {}
func (e EmitEvent) String() string {
	return fmt.Sprintf("emit %s.%s %s", e.Interface, e.Signal, e.Params)
}

// Sink is the abstract destination a Sequence flushes to: a test harness
// asserting an expected script, or an adapter the host wires up to an
// actual bus connection.
type Sink interface {
	Reply(params types.Value) error
	Throw(errorName, message string) error
	Emit(iface, signal string, params types.Value) error
}

// Sequence buffers events appended during a single method call, property
// set or arbitrary tick until the host is ready to flush them to the bus.
type Sequence struct {
	events []Event
}

// AddReply appends a reply event. Infallible.
func (s *Sequence) AddReply(params types.Value) {
	s.events = append(s.events, ReplyEvent{Params: params})
}

// AddThrow appends a throw event. Infallible.
func (s *Sequence) AddThrow(errorName, message string) {
	s.events = append(s.events, ThrowEvent{ErrorName: errorName, Message: message})
}

// AddEmit appends a signal-emission event. Infallible.
func (s *Sequence) AddEmit(iface, signal string, params types.Value) {
	s.events = append(s.events, EmitEvent{Interface: iface, Signal: signal, Params: params})
}

// Events returns the currently buffered events in append order, without
// consuming them. Used by callers (tests, dump tooling) that want to
// inspect a sequence before or instead of flushing it.
func (s *Sequence) Events() []Event { return s.events }

// Flush replays every buffered event to sink in FIFO order. It stops and
// returns the first transport error encountered; the buffer is cleared
// regardless of outcome, so a failed flush is never silently retried.
func (s *Sequence) Flush(sink Sink) error {
	events := s.events
	s.events = nil
	for _, ev := range events {
		var err error
		switch e := ev.(type) {
		case ReplyEvent:
			err = sink.Reply(e.Params)
		case ThrowEvent:
			err = sink.Throw(e.ErrorName, e.Message)
		case EmitEvent:
			err = sink.Emit(e.Interface, e.Signal, e.Params)
		default:
			err = fmt.Errorf("outputseq: unrecognised event type %T", ev)
		}
		if err != nil {
			return err
		}
	}
	return nil
}
