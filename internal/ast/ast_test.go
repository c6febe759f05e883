package ast

import (
	"testing"

	"github.com/pwithnall/bendy-bus/internal/lexer"
)

func TestLiteralStringRoundTrip(t *testing.T) {
	lit := &IntegerLiteral{Raw: "42"}
	if lit.String() != "42" {
		t.Fatalf("got %q", lit.String())
	}
}

func TestBinaryExprString(t *testing.T) {
	expr := &BinaryExpr{
		Op:   OpAdd,
		Left: &IntegerLiteral{Raw: "1"},
		Right: &IntegerLiteral{Raw: "2"},
	}
	if got, want := expr.String(), "(1 + 2)"; got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestTransitionDefHasThrow(t *testing.T) {
	d := &TransitionDef{Statements: []Statement{&ThrowStmt{ErrorName: "org.example.Err"}}}
	if !d.HasThrow() {
		t.Fatalf("expected HasThrow to be true")
	}
	d2 := &TransitionDef{Statements: []Statement{&ReplyStmt{Value: &BoolLiteral{Value: true}}}}
	if d2.HasThrow() {
		t.Fatalf("expected HasThrow to be false")
	}
}

func TestDataLiteralIsExpression(t *testing.T) {
	var e Expression = &StringLiteral{Value: "hi"}
	if e.Pos() != (lexer.Position{}) {
		t.Fatalf("expected zero position")
	}
	if _, ok := e.(DataLiteral); !ok {
		t.Fatalf("StringLiteral must satisfy DataLiteral")
	}
}
