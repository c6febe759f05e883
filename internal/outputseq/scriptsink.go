package outputseq

import (
	"fmt"

	"github.com/pwithnall/bendy-bus/internal/types"
	"github.com/tidwall/gjson"
)

// ScriptSink is a test-harness Sink asserting that flushed events match an
// expected JSON array, in order. Each script element has the shape
// {"kind": "reply"|"throw"|"emit", "repr": "..."}, where "repr" is matched
// against the event's String() form — the same round-trippable rendering
// internal/types.Value uses, so fixtures stay readable as plain text rather
// than a bespoke wire encoding.
type ScriptSink struct {
	expected []gjson.Result
	idx      int
	mismatch error
}

// NewScriptSink parses script (a JSON array) as the expected event
// sequence. A malformed or non-array script behaves as an empty one; any
// event flushed against it is reported as unexpected.
func NewScriptSink(script string) *ScriptSink {
	return &ScriptSink{expected: gjson.Parse(script).Array()}
}

func (s *ScriptSink) check(kind, repr string) error {
	if s.mismatch != nil {
		return s.mismatch
	}
	if s.idx >= len(s.expected) {
		s.mismatch = fmt.Errorf("outputseq: unexpected %s event %q: script exhausted after %d event(s)", kind, repr, len(s.expected))
		return s.mismatch
	}
	want := s.expected[s.idx]
	s.idx++
	wantKind := want.Get("kind").String()
	wantRepr := want.Get("repr").String()
	if wantKind != kind || wantRepr != repr {
		s.mismatch = fmt.Errorf("outputseq: script mismatch at event %d: want %s %q, got %s %q", s.idx-1, wantKind, wantRepr, kind, repr)
		return s.mismatch
	}
	return nil
}

func (s *ScriptSink) Reply(params types.Value) error {
	return s.check("reply", ReplyEvent{Params: params}.String())
}

func (s *ScriptSink) Throw(errorName, message string) error {
	return s.check("throw", ThrowEvent{ErrorName: errorName, Message: message}.String())
}

func (s *ScriptSink) Emit(iface, signal string, params types.Value) error {
	return s.check("emit", EmitEvent{Interface: iface, Signal: signal, Params: params}.String())
}

// Done reports whether every event in the expected script was consumed and
// no mismatch occurred along the way; call it after the run under test has
// finished flushing to catch a script that expected more events than it got.
func (s *ScriptSink) Done() error {
	if s.mismatch != nil {
		return s.mismatch
	}
	if s.idx != len(s.expected) {
		return fmt.Errorf("outputseq: script expected %d more event(s)", len(s.expected)-s.idx)
	}
	return nil
}
