package bendybus

import (
	"errors"
	"testing"

	"github.com/pwithnall/bendy-bus/internal/types"
)

type fakeConn struct {
	replies []types.Value
	thrown  []string
	emitted []string
	failAll bool
}

func (c *fakeConn) SendReply(params types.Value) error {
	if c.failAll {
		return errors.New("fake: send failed")
	}
	c.replies = append(c.replies, params)
	return nil
}

func (c *fakeConn) SendError(errorName, message string) error {
	if c.failAll {
		return errors.New("fake: send failed")
	}
	c.thrown = append(c.thrown, errorName)
	return nil
}

func (c *fakeConn) EmitSignal(objectPath, iface, signal string, params types.Value) error {
	if c.failAll {
		return errors.New("fake: send failed")
	}
	c.emitted = append(c.emitted, objectPath+" "+iface+"."+signal)
	return nil
}

func TestBusSinkForwardsEventsToConn(t *testing.T) {
	conn := &fakeConn{}
	sink := NewBusSink(conn, "/org/example/Foo")

	if err := sink.Reply(types.NewString("hi")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := sink.Throw("org.example.Error", "boom"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := sink.Emit("org.example.Foo", "Pinged", types.NewUint32(1)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(conn.replies) != 1 {
		t.Fatalf("expected 1 reply, got %d", len(conn.replies))
	}
	if len(conn.thrown) != 1 || conn.thrown[0] != "org.example.Error" {
		t.Fatalf("unexpected thrown errors: %v", conn.thrown)
	}
	if len(conn.emitted) != 1 || conn.emitted[0] != "/org/example/Foo org.example.Foo.Pinged" {
		t.Fatalf("unexpected emitted signals: %v", conn.emitted)
	}
}

func TestBusSinkPropagatesConnErrors(t *testing.T) {
	conn := &fakeConn{failAll: true}
	sink := NewBusSink(conn, "/org/example/Foo")
	if err := sink.Reply(types.NewString("hi")); err == nil {
		t.Fatalf("expected an error from a failing conn")
	}
}
