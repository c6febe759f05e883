package ast

import (
	"fmt"
	"strings"

	"github.com/pwithnall/bendy-bus/internal/lexer"
)

// TriggerKind identifies what fires a transition.
type TriggerKind int

const (
	TriggerMethod TriggerKind = iota
	TriggerProperty
	TriggerArbitrary
)

func (k TriggerKind) String() string {
	switch k {
	case TriggerMethod:
		return "method"
	case TriggerProperty:
		return "property"
	default:
		return "random"
	}
}

// Trigger identifies the event kind a transition fires on and, for method
// and property triggers, the member name. Member is empty for
// TriggerArbitrary.
type Trigger struct {
	Kind   TriggerKind
	Member string
}

func (t Trigger) String() string {
	if t.Kind == TriggerArbitrary {
		return "random"
	}
	return fmt.Sprintf("%s %s", t.Kind, t.Member)
}

// Precondition is a guard evaluated before a transition's statements run.
// ErrorName is non-empty when the precondition is declared "throwing" a
// named D-Bus error; a failing precondition with ErrorName set is a
// candidate for the selector's first-error-candidate remembering rule
// instead of simply being skipped.
type Precondition struct {
	Position  lexer.Position
	ErrorName string
	Condition Expression
}

func (p *Precondition) Pos() lexer.Position { return p.Position }
func (p *Precondition) String() string {
	if p.ErrorName != "" {
		return fmt.Sprintf("precondition throwing %s { %s }", p.ErrorName, p.Condition)
	}
	return fmt.Sprintf("precondition { %s }", p.Condition)
}

// TransitionDef is the shared body of a transition: its trigger,
// preconditions and statements. One TransitionDef may be bound to several
// (from_state, to_state) pairs through ObjectTransition, so it is kept as
// a single value referenced by index/pointer rather than duplicated per
// binding.
type TransitionDef struct {
	Position      lexer.Position
	Trigger       Trigger
	Preconditions []*Precondition
	Statements    []Statement
}

func (d *TransitionDef) Pos() lexer.Position { return d.Position }
func (d *TransitionDef) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "transition on %s {", d.Trigger)
	for _, p := range d.Preconditions {
		sb.WriteString(" " + p.String())
	}
	for _, s := range d.Statements {
		sb.WriteString(" " + s.String())
	}
	sb.WriteString(" }")
	return sb.String()
}

// HasThrow reports whether the transition's statement list contains a
// throw statement, used by the selector's fuzzing-aware skip rule
// before the transition is taken.
func (d *TransitionDef) HasThrow() bool {
	for _, s := range d.Statements {
		if _, ok := s.(*ThrowStmt); ok {
			return true
		}
	}
	return false
}

// ObjectTransition binds a TransitionDef to one (from_state, to_state)
// pair and an optional nickname, resolved to state indices once phase B
// has built the state table.
type ObjectTransition struct {
	Def        *TransitionDef
	FromState  int
	ToState    int
	Nickname   string
	FromName   string // retained for diagnostics/dump tooling
	ToName     string
}

// TransitionBinding is one (from_state, to_state, nickname) clause parsed
// for a transition block, before state names have been resolved to
// indices.
type TransitionBinding struct {
	Position  lexer.Position
	FromState string
	ToState   string
	Nickname  string
}

// TransitionBlockDecl pairs one TransitionDef with its non-empty set of
// bindings, as parsed.
type TransitionBlockDecl struct {
	Def      *TransitionDef
	Bindings []TransitionBinding
}
