package lexer

import "testing"

func TestTokenizeBasicObject(t *testing.T) {
	src := `object at "/org/example/Foo" implements org.example.Foo {
  data { counter<"u"> = 0; }
  states { Main; }
  transition on method Echo { reply (value); }
}`
	tokens, errs := Tokenize(src)
	if len(errs) != 0 {
		t.Fatalf("unexpected lex errors: %v", errs)
	}
	wantTypes := []TokenType{
		OBJECT, AT_KW, STRING, IMPLEMENTS, IDENT, DOT, IDENT, DOT, IDENT, LBRACE,
		DATA, LBRACE, IDENT, LT, STRING, GT, ASSIGN, INT, SEMI, RBRACE,
		STATES, LBRACE, IDENT, SEMI, RBRACE,
		TRANSITION, ON, METHOD, IDENT, LBRACE, REPLY, LPAREN, IDENT, RPAREN, SEMI, RBRACE,
		RBRACE, EOF,
	}
	if len(tokens) != len(wantTypes) {
		t.Fatalf("got %d tokens, want %d:\n%v", len(tokens), len(wantTypes), tokens)
	}
	for i, want := range wantTypes {
		if tokens[i].Type != want {
			t.Fatalf("token %d: got %v, want %v", i, tokens[i].Type, want)
		}
	}
}

func TestTokenizeOperators(t *testing.T) {
	src := `<= >= == != && || ! <`
	tokens, errs := Tokenize(src)
	if len(errs) != 0 {
		t.Fatalf("unexpected lex errors: %v", errs)
	}
	want := []TokenType{LE, GE, EQ, NE, AND, OR, NOT, LT, EOF}
	for i, w := range want {
		if tokens[i].Type != w {
			t.Fatalf("token %d: got %v, want %v", i, tokens[i].Type, w)
		}
	}
}

func TestStringEscapes(t *testing.T) {
	tokens, errs := Tokenize(`"hi\n\"there\""`)
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	if tokens[0].Literal != "hi\n\"there\"" {
		t.Fatalf("got %q", tokens[0].Literal)
	}
}

func TestBadEscapeSequenceIsRejected(t *testing.T) {
	_, errs := Tokenize(`"bad\qescape"`)
	if len(errs) == 0 {
		t.Fatalf("expected an error for unrecognised escape sequence")
	}
}

func TestNumberLiterals(t *testing.T) {
	tokens, _ := Tokenize(`42 3.14 2.5e10 7 .`)
	if tokens[0].Type != INT || tokens[0].Literal != "42" {
		t.Fatalf("got %+v", tokens[0])
	}
	if tokens[1].Type != FLOAT || tokens[1].Literal != "3.14" {
		t.Fatalf("got %+v", tokens[1])
	}
	if tokens[2].Type != FLOAT || tokens[2].Literal != "2.5e10" {
		t.Fatalf("got %+v", tokens[2])
	}
	if tokens[3].Type != INT || tokens[3].Literal != "7" {
		t.Fatalf("got %+v", tokens[3])
	}
	if tokens[4].Type != DOT {
		t.Fatalf("got %+v", tokens[4])
	}
}

func TestLineAndColumnTracking(t *testing.T) {
	tokens, _ := Tokenize("object\nat")
	if tokens[0].Pos.Line != 1 {
		t.Fatalf("expected line 1, got %d", tokens[0].Pos.Line)
	}
	if tokens[1].Pos.Line != 2 {
		t.Fatalf("expected line 2, got %d", tokens[1].Pos.Line)
	}
}

func TestIllegalCharacter(t *testing.T) {
	_, errs := Tokenize("$")
	if len(errs) != 1 {
		t.Fatalf("expected exactly one lex error, got %d", len(errs))
	}
}

func TestKeywordsNotShadowableCheck(t *testing.T) {
	if !IsKeyword("transition") {
		t.Fatalf("transition should be a keyword")
	}
	if IsKeyword("Main") {
		t.Fatalf("Main should not be a keyword")
	}
}
