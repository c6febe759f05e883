package outputseq

import (
	"errors"
	"testing"

	"github.com/pwithnall/bendy-bus/internal/types"
)

type recordingSink struct {
	replies []types.Value
	throws  []string
	emits   []string
	failAt  int
	calls   int
}

func (s *recordingSink) Reply(params types.Value) error {
	s.calls++
	if s.calls == s.failAt {
		return errors.New("transport failure")
	}
	s.replies = append(s.replies, params)
	return nil
}

func (s *recordingSink) Throw(errorName, message string) error {
	s.calls++
	if s.calls == s.failAt {
		return errors.New("transport failure")
	}
	s.throws = append(s.throws, errorName)
	return nil
}

func (s *recordingSink) Emit(iface, signal string, params types.Value) error {
	s.calls++
	if s.calls == s.failAt {
		return errors.New("transport failure")
	}
	s.emits = append(s.emits, iface+"."+signal)
	return nil
}

func TestSequenceFlushOrdering(t *testing.T) {
	var seq Sequence
	seq.AddEmit("org.example.Foo", "Started", types.NewBool(true))
	seq.AddReply(types.NewTuple(nil))

	sink := &recordingSink{}
	if err := seq.Flush(sink); err != nil {
		t.Fatalf("unexpected flush error: %v", err)
	}
	if len(sink.emits) != 1 || sink.emits[0] != "org.example.Foo.Started" {
		t.Fatalf("emit not delivered in order: %+v", sink.emits)
	}
	if len(sink.replies) != 1 {
		t.Fatalf("reply not delivered: %+v", sink.replies)
	}
	if got := len(seq.Events()); got != 0 {
		t.Fatalf("expected Flush to clear the buffer, got %d remaining events", got)
	}
}

func TestSequenceFlushAbortsOnFirstError(t *testing.T) {
	var seq Sequence
	seq.AddReply(types.NewTuple(nil))
	seq.AddEmit("org.example.Foo", "Started", types.NewBool(true))
	seq.AddThrow("org.example.Err", "boom")

	sink := &recordingSink{failAt: 2}
	err := seq.Flush(sink)
	if err == nil {
		t.Fatal("expected an error from the second event")
	}
	if len(sink.replies) != 1 {
		t.Fatalf("expected exactly the first event delivered, got %+v", sink.replies)
	}
	if len(sink.emits) != 0 || len(sink.throws) != 0 {
		t.Fatalf("events after the failing one should not have been delivered: emits=%+v throws=%+v", sink.emits, sink.throws)
	}
}

func TestScriptSinkMatchesExpectedEvents(t *testing.T) {
	script := `[
		{"kind": "reply", "repr": "reply ()"},
		{"kind": "emit", "repr": "emit org.example.Foo.Started true"}
	]`
	var seq Sequence
	seq.AddReply(types.NewTuple(nil))
	seq.AddEmit("org.example.Foo", "Started", types.NewBool(true))

	sink := NewScriptSink(script)
	if err := seq.Flush(sink); err != nil {
		t.Fatalf("unexpected flush error: %v", err)
	}
	if err := sink.Done(); err != nil {
		t.Fatalf("script should be fully consumed: %v", err)
	}
}

func TestScriptSinkReportsMismatch(t *testing.T) {
	script := `[{"kind": "reply", "repr": "reply (true)"}]`
	var seq Sequence
	seq.AddReply(types.NewTuple(nil))

	sink := NewScriptSink(script)
	if err := seq.Flush(sink); err == nil {
		t.Fatal("expected a mismatch error")
	}
}

func TestScriptSinkReportsUnconsumedEvents(t *testing.T) {
	script := `[
		{"kind": "reply", "repr": "reply ()"},
		{"kind": "reply", "repr": "reply ()"}
	]`
	var seq Sequence
	seq.AddReply(types.NewTuple(nil))

	sink := NewScriptSink(script)
	if err := seq.Flush(sink); err != nil {
		t.Fatalf("unexpected flush error: %v", err)
	}
	if err := sink.Done(); err == nil {
		t.Fatal("expected Done to report the unconsumed second event")
	}
}
