package object

import (
	"testing"

	"github.com/pwithnall/bendy-bus/internal/ast"
	"github.com/pwithnall/bendy-bus/internal/check"
	"github.com/pwithnall/bendy-bus/internal/config"
	"github.com/pwithnall/bendy-bus/internal/dbus"
	"github.com/pwithnall/bendy-bus/internal/env"
	"github.com/pwithnall/bendy-bus/internal/machine"
	"github.com/pwithnall/bendy-bus/internal/outputseq"
	"github.com/pwithnall/bendy-bus/internal/types"
)

func TestObjectCallMethodDelegatesToMachine(t *testing.T) {
	ifaces := []dbus.InterfaceInfo{{
		Name: "org.example.Foo",
		Methods: []dbus.MethodInfo{{
			Name: "Echo",
			In:   []dbus.ArgInfo{{Name: "value", Signature: "s"}},
			Out:  []dbus.ArgInfo{{Name: "value", Signature: "s"}},
		}},
	}}
	transition := &ast.ObjectTransition{
		Def: &ast.TransitionDef{
			Trigger:    ast.Trigger{Kind: ast.TriggerMethod, Member: "Echo"},
			Statements: []ast.Statement{&ast.ReplyStmt{Value: &ast.VariableLiteral{Name: "value"}}},
		},
		FromState: 0,
		ToState:   0,
	}
	e := env.New(ifaces)
	obj := &check.CheckedObject{
		StateNames:  []string{"Main"},
		Env:         e,
		Interfaces:  ifaces,
		Transitions: []*ast.ObjectTransition{transition},
	}
	m := machine.New(obj, config.Default(), nil)
	o := New(m, "/org/example/Foo", []string{"org.example.FooService"}, ifaces)

	var seq outputseq.Sequence
	err := o.CallMethod("org.example.Foo", "Echo", types.NewTuple([]types.Value{types.NewString("hi")}), &seq)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	events := seq.Events()
	if len(events) != 1 {
		t.Fatalf("expected exactly one event, got %d", len(events))
	}
	if _, ok := events[0].(outputseq.ReplyEvent); !ok {
		t.Fatalf("expected a ReplyEvent, got %T", events[0])
	}
	if o.ObjectPath != "/org/example/Foo" {
		t.Fatalf("unexpected object path: %s", o.ObjectPath)
	}
	if o.Machine() != m {
		t.Fatal("expected Machine() to return the bound machine")
	}
}
