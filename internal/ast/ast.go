// Package ast defines the abstract syntax tree for the simulation
// language. Nodes are modelled the idiomatic Go way — small marker
// interfaces (Node, Expression, Statement, DataLiteral) implemented by
// concrete structs, with callers pattern-matching via type switches —
// rather than a class-hierarchy virtual dispatch.
//
// The tree is built once by internal/parser, mutated exactly once by
// internal/check's three phases (which resolve literal text to typed
// values and cache inferred types on literal nodes), and is immutable for
// the remainder of the program's life.
package ast

import (
	"fmt"
	"strings"

	"github.com/pwithnall/bendy-bus/internal/lexer"
	"github.com/pwithnall/bendy-bus/internal/types"
)

// Node is the base interface implemented by every AST node.
type Node interface {
	Pos() lexer.Position
	String() string
}

// Expression is any node that evaluates to a Value.
type Expression interface {
	Node
	exprNode()
}

// Statement is any node executed for effect against an Environment and an
// OutputSequence.
type Statement interface {
	Node
	stmtNode()
}

// DataLiteral is the subset of Expression produced directly by literal
// syntax (the "DataLiteral" node family): basic-kind literals, strings,
// arrays, tuples, dicts, variant wrapping, variable references and the
// unix-fd placeholder. Every DataLiteral carries the shared metadata in
// Meta (annotation, nickname, fuzz weight, and the type computed for it
// by the checker).
type DataLiteral interface {
	Expression
	dataLiteralNode()
	Metadata() *Meta
}

// Meta is the metadata shared by every DataLiteral, populated as follows:
// Annotation and Weight come straight from the parser (the "@T" and
// "?weight" syntax); the parser never sets Nickname, so it stays empty;
// Computed is filled in by
// internal/check's phase B once the literal's type has been inferred or
// validated against its annotation.
type Meta struct {
	Position   lexer.Position
	Annotation *types.Type // "@T"; nil if absent
	Nickname   string      // "" if absent
	Weight     float64     // fuzz weight in [0, +Inf); 0 disables fuzzing
	Computed   types.Type  // filled in during phase B
}

func (m *Meta) Pos() lexer.Position  { return m.Position }
func (m *Meta) Metadata() *Meta      { return m }
func (m *Meta) dataLiteralNode()     {}
func (m *Meta) exprNode()            {}

// IntegerLiteral is an integer-kind literal. Raw holds the unparsed
// decimal text from the parser; Value/UValue are populated by phase B
// once the literal's width is known (from its annotation, or the Int32
// default documented as an Open Question resolution in DESIGN.md) and
// the text has been range-checked.
type IntegerLiteral struct {
	Meta
	Raw    string
	Value  int64  // meaningful when Meta.Computed.Kind is a signed kind
	UValue uint64 // meaningful when Meta.Computed.Kind is byte/unsigned/unix-fd
}

func (l *IntegerLiteral) String() string { return l.Raw }

// DoubleLiteral is a floating-point literal.
type DoubleLiteral struct {
	Meta
	Raw   string
	Value float64
}

func (l *DoubleLiteral) String() string { return l.Raw }

// BoolLiteral is a "true"/"false" literal.
type BoolLiteral struct {
	Meta
	Value bool
}

func (l *BoolLiteral) String() string {
	if l.Value {
		return "true"
	}
	return "false"
}

// StringLiteral covers the string, object-path and signature literal
// forms: lexically identical (a quoted string), distinguished by the
// Meta.Annotation ("@o", "@g") attached to them — see DESIGN.md for why
// this grammar choice was made over dedicated lexical forms.
type StringLiteral struct {
	Meta
	Value string
}

func (l *StringLiteral) String() string { return fmt.Sprintf("%q", l.Value) }

// UnixFDLiteral is the unix-fd placeholder literal. It carries no value —
// unix-fds are host-supplied handles the simulation language can declare
// variables of but never fabricate a literal instance of.
type UnixFDLiteral struct{ Meta }

func (l *UnixFDLiteral) String() string { return "<unix-fd>" }

// VariableLiteral is a bare variable reference used in literal position
// (e.g. a dict value copied from another variable, or an lvalue leaf).
type VariableLiteral struct {
	Meta
	Name string
}

func (l *VariableLiteral) String() string { return l.Name }

// ArrayLiteral is an "[e1, e2, ...]" literal.
type ArrayLiteral struct {
	Meta
	Elements []Expression
}

func (l *ArrayLiteral) String() string {
	parts := make([]string, len(l.Elements))
	for i, e := range l.Elements {
		parts[i] = e.String()
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

// TupleLiteral is a "(e1, e2, ...)" literal.
type TupleLiteral struct {
	Meta
	Elements []Expression
}

func (l *TupleLiteral) String() string {
	parts := make([]string, len(l.Elements))
	for i, e := range l.Elements {
		parts[i] = e.String()
	}
	if len(parts) == 1 {
		return "(" + parts[0] + ",)"
	}
	return "(" + strings.Join(parts, ", ") + ")"
}

// DictEntryNode is one "key: value" entry of a DictLiteral.
type DictEntryNode struct {
	Key   Expression
	Value Expression
}

// DictLiteral is a "{k1: v1, k2: v2, ...}" literal.
type DictLiteral struct {
	Meta
	Entries []DictEntryNode
}

func (l *DictLiteral) String() string {
	parts := make([]string, len(l.Entries))
	for i, e := range l.Entries {
		parts[i] = e.Key.String() + ": " + e.Value.String()
	}
	return "{" + strings.Join(parts, ", ") + "}"
}

// VariantLiteral is a "<expr>" wrapped-value literal.
type VariantLiteral struct {
	Meta
	Inner Expression
}

func (l *VariantLiteral) String() string { return "<" + l.Inner.String() + ">" }
