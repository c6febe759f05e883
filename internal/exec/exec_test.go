package exec

import (
	"bytes"
	"log"
	"testing"

	"github.com/pwithnall/bendy-bus/internal/ast"
	"github.com/pwithnall/bendy-bus/internal/dbus"
	"github.com/pwithnall/bendy-bus/internal/env"
	"github.com/pwithnall/bendy-bus/internal/outputseq"
	"github.com/pwithnall/bendy-bus/internal/types"
)

func intLit(v int64) *ast.IntegerLiteral {
	l := &ast.IntegerLiteral{Value: v}
	l.Computed = types.Int32
	return l
}

func varLit(name string) *ast.VariableLiteral {
	return &ast.VariableLiteral{Name: name}
}

func newEnvWithObjectVar(name string, t types.Type, v types.Value) *env.Environment {
	e := env.New([]dbus.InterfaceInfo{
		{
			Name: "org.example.Foo",
			Signals: []dbus.SignalInfo{
				{Name: "Started"},
			},
		},
	})
	_ = e.DeclareType(env.ScopeObject, name, t)
	_ = e.SetValue(env.ScopeObject, name, v)
	return e
}

func TestExecAssignSimpleVariable(t *testing.T) {
	e := newEnvWithObjectVar("counter", types.Uint32, types.NewUint32(0))
	x := New(nil)

	rhs := &ast.IntegerLiteral{Raw: "5", UValue: 5}
	rhs.Computed = types.Uint32
	stmt := &ast.AssignStmt{LHS: varLit("counter"), RHS: rhs}

	if err := x.Run([]ast.Statement{stmt}, e, &outputseq.Sequence{}, false); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	v, ok := e.Value(env.ScopeObject, "counter")
	if !ok || v.Uint() != 5 {
		t.Fatalf("expected counter == 5, got %+v (ok=%v)", v, ok)
	}
}

func TestExecReplyOutsideMethodContextIsSkipped(t *testing.T) {
	var buf bytes.Buffer
	x := New(log.New(&buf, "", 0))
	e := env.New(nil)
	var seq outputseq.Sequence

	stmt := &ast.ReplyStmt{Value: &ast.BoolLiteral{Value: true}}
	if err := x.Run([]ast.Statement{stmt}, e, &seq, false); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(seq.Events()) != 0 {
		t.Fatalf("expected no reply event outside method context, got %+v", seq.Events())
	}
	if buf.Len() == 0 {
		t.Fatal("expected a warning to be logged")
	}
}

func TestExecReplyWrapsNonTupleInSingletonTuple(t *testing.T) {
	x := New(nil)
	e := env.New(nil)
	var seq outputseq.Sequence

	stmt := &ast.ReplyStmt{Value: &ast.StringLiteral{Value: "hi"}}
	if err := x.Run([]ast.Statement{stmt}, e, &seq, true); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	events := seq.Events()
	if len(events) != 1 {
		t.Fatalf("expected exactly one event, got %d", len(events))
	}
	reply, ok := events[0].(outputseq.ReplyEvent)
	if !ok {
		t.Fatalf("expected a ReplyEvent, got %T", events[0])
	}
	if reply.Params.Type().Kind != types.KindTuple || len(reply.Params.Items()) != 1 {
		t.Fatalf("expected a singleton tuple, got %s", reply.Params)
	}
}

func TestExecEmitUnknownSignalWarnsAndSkips(t *testing.T) {
	var buf bytes.Buffer
	x := New(log.New(&buf, "", 0))
	e := env.New(nil)
	var seq outputseq.Sequence

	stmt := &ast.EmitStmt{Signal: "NoSuchSignal", Value: &ast.BoolLiteral{Value: true}}
	if err := x.Run([]ast.Statement{stmt}, e, &seq, false); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(seq.Events()) != 0 {
		t.Fatalf("expected no emit event for an unknown signal, got %+v", seq.Events())
	}
	if buf.Len() == 0 {
		t.Fatal("expected a warning to be logged")
	}
}

func TestExecEmitKnownSignal(t *testing.T) {
	x := New(nil)
	e := env.New([]dbus.InterfaceInfo{
		{Name: "org.example.Foo", Signals: []dbus.SignalInfo{{Name: "Started"}}},
	})
	var seq outputseq.Sequence

	stmt := &ast.EmitStmt{Signal: "Started", Value: &ast.BoolLiteral{Value: true}}
	if err := x.Run([]ast.Statement{stmt}, e, &seq, false); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	events := seq.Events()
	if len(events) != 1 {
		t.Fatalf("expected exactly one event, got %d", len(events))
	}
	emit, ok := events[0].(outputseq.EmitEvent)
	if !ok || emit.Interface != "org.example.Foo" || emit.Signal != "Started" {
		t.Fatalf("unexpected emit event: %+v", events[0])
	}
}

func TestExecThrow(t *testing.T) {
	x := New(nil)
	e := env.New(nil)
	var seq outputseq.Sequence

	stmt := &ast.ThrowStmt{ErrorName: "org.example.Err"}
	if err := x.Run([]ast.Statement{stmt}, e, &seq, true); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	events := seq.Events()
	if len(events) != 1 {
		t.Fatalf("expected exactly one event, got %d", len(events))
	}
	th, ok := events[0].(outputseq.ThrowEvent)
	if !ok || th.ErrorName != "org.example.Err" {
		t.Fatalf("unexpected throw event: %+v", events[0])
	}
}

func TestExecAssignArrayDestructuring(t *testing.T) {
	e := env.New(nil)
	_ = e.DeclareType(env.ScopeObject, "a", types.Int32)
	_ = e.DeclareType(env.ScopeObject, "b", types.Int32)

	x := New(nil)
	lhs := &ast.ArrayLiteral{Elements: []ast.Expression{varLit("a"), varLit("b")}}
	rhs := &ast.ArrayLiteral{Elements: []ast.Expression{intLit(1), intLit(2)}}
	rhs.Computed = types.ArrayOf(types.Int32)
	stmt := &ast.AssignStmt{LHS: lhs, RHS: rhs}

	if err := x.Run([]ast.Statement{stmt}, e, &outputseq.Sequence{}, false); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	av, _ := e.Value(env.ScopeObject, "a")
	bv, _ := e.Value(env.ScopeObject, "b")
	if av.Int() != 1 || bv.Int() != 2 {
		t.Fatalf("expected a=1, b=2, got a=%d b=%d", av.Int(), bv.Int())
	}
}

func TestExecAssignArrayLengthMismatchAborts(t *testing.T) {
	var buf bytes.Buffer
	e := env.New(nil)
	_ = e.DeclareType(env.ScopeObject, "a", types.Int32)
	_ = e.DeclareType(env.ScopeObject, "b", types.Int32)

	x := New(log.New(&buf, "", 0))
	lhs := &ast.ArrayLiteral{Elements: []ast.Expression{varLit("a"), varLit("b")}}
	rhs := &ast.ArrayLiteral{Elements: []ast.Expression{intLit(1)}}
	rhs.Computed = types.ArrayOf(types.Int32)
	stmt := &ast.AssignStmt{LHS: lhs, RHS: rhs}

	err := x.Run([]ast.Statement{stmt}, e, &outputseq.Sequence{}, false)
	if err == nil {
		t.Fatal("expected an Aborted error for mismatched array lengths")
	}
	if _, ok := err.(*Aborted); !ok {
		t.Fatalf("expected *Aborted, got %T: %v", err, err)
	}
	if buf.Len() == 0 {
		t.Fatal("expected a warning to be logged")
	}
}

func TestExecAssignDictOnlyTouchesKeysPresentOnRHS(t *testing.T) {
	e := env.New(nil)
	_ = e.DeclareType(env.ScopeObject, "onKey", types.Boolean)
	_ = e.SetValue(env.ScopeObject, "onKey", types.NewBool(false))
	_ = e.DeclareType(env.ScopeObject, "offKey", types.Boolean)
	_ = e.SetValue(env.ScopeObject, "offKey", types.NewBool(true))

	x := New(nil)
	lhs := &ast.DictLiteral{Entries: []ast.DictEntryNode{
		{Key: &ast.StringLiteral{Value: "on"}, Value: varLit("onKey")},
		{Key: &ast.StringLiteral{Value: "off"}, Value: varLit("offKey")},
	}}
	rhs := &ast.DictLiteral{Entries: []ast.DictEntryNode{
		{Key: &ast.StringLiteral{Value: "on"}, Value: &ast.BoolLiteral{Value: true}},
	}}
	rhs.Computed = types.DictOf(types.String, types.Boolean)
	stmt := &ast.AssignStmt{LHS: lhs, RHS: rhs}

	if err := x.Run([]ast.Statement{stmt}, e, &outputseq.Sequence{}, false); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	onV, _ := e.Value(env.ScopeObject, "onKey")
	offV, _ := e.Value(env.ScopeObject, "offKey")
	if !onV.Bool() {
		t.Fatal("expected onKey to be updated to true")
	}
	if !offV.Bool() {
		t.Fatal("expected offKey (absent from rhs) to remain unchanged at true")
	}
}
