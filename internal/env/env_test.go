package env

import (
	"testing"

	"github.com/pwithnall/bendy-bus/internal/types"
)

func TestDeclareAndSetValue(t *testing.T) {
	e := New(nil)
	if err := e.DeclareType(ScopeObject, "counter", types.Uint32); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := e.Value(ScopeObject, "counter"); ok {
		t.Fatalf("expected no value before assignment")
	}
	if err := e.SetValue(ScopeObject, "counter", types.NewUint32(5)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	v, ok := e.Value(ScopeObject, "counter")
	if !ok || v.Uint() != 5 {
		t.Fatalf("got %v, %v", v, ok)
	}
}

func TestDeclareTwiceFails(t *testing.T) {
	e := New(nil)
	if err := e.DeclareType(ScopeObject, "x", types.Int32); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := e.DeclareType(ScopeObject, "x", types.Int32); err == nil {
		t.Fatalf("expected error on duplicate declaration")
	}
}

func TestSetValueRejectsTypeMismatch(t *testing.T) {
	e := New(nil)
	if err := e.DeclareType(ScopeObject, "greeting", types.String); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := e.SetValue(ScopeObject, "greeting", types.NewInt32(1)); err == nil {
		t.Fatalf("expected type mismatch error")
	}
}

func TestLocalAndObjectScopesAreIndependent(t *testing.T) {
	e := New(nil)
	if err := e.DeclareType(ScopeObject, "n", types.Int32); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if e.Has(ScopeLocal, "n") {
		t.Fatalf("local scope should not see object-scope declarations")
	}
	if err := e.DeclareType(ScopeLocal, "n", types.String); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	typ, _ := e.Type(ScopeLocal, "n")
	if typ.Kind != types.KindString {
		t.Fatalf("expected local n to be string, got %s", typ)
	}
}

func TestResetLocalScopeClearsOnlyLocal(t *testing.T) {
	e := New(nil)
	e.DeclareType(ScopeObject, "persisted", types.Int32)
	e.SetValue(ScopeObject, "persisted", types.NewInt32(42))
	e.DeclareType(ScopeLocal, "arg", types.Int32)
	e.SetValue(ScopeLocal, "arg", types.NewInt32(1))

	e.ResetLocalScope()

	if e.Has(ScopeLocal, "arg") {
		t.Fatalf("expected local scope to be cleared")
	}
	v, ok := e.Value(ScopeObject, "persisted")
	if !ok || v.Int() != 42 {
		t.Fatalf("expected persisted object variable to survive, got %v %v", v, ok)
	}
}

func TestSnapshotRoundTrip(t *testing.T) {
	e := New(nil)
	e.DeclareType(ScopeObject, "counter", types.Uint32)
	e.SetValue(ScopeObject, "counter", types.NewUint32(1))

	snap := e.Snapshot()

	e.SetValue(ScopeObject, "counter", types.NewUint32(99))
	e.ResetToSnapshot(snap)

	v, ok := e.Value(ScopeObject, "counter")
	if !ok || v.Uint() != 1 {
		t.Fatalf("expected counter restored to 1, got %v", v)
	}
}

func TestSnapshotCapturesUnassignedAsUnset(t *testing.T) {
	e := New(nil)
	e.DeclareType(ScopeObject, "counter", types.Uint32)
	snap := e.Snapshot()

	e.SetValue(ScopeObject, "counter", types.NewUint32(7))
	e.ResetToSnapshot(snap)

	if _, ok := e.Value(ScopeObject, "counter"); ok {
		t.Fatalf("expected counter to be unset again after reset")
	}
}

func TestUnsetRemovesVariableEntirely(t *testing.T) {
	e := New(nil)
	e.DeclareType(ScopeObject, "x", types.Int32)
	e.SetValue(ScopeObject, "x", types.NewInt32(1))
	e.Unset(ScopeObject, "x")
	if e.Has(ScopeObject, "x") {
		t.Fatalf("expected x to be gone after Unset")
	}
}
