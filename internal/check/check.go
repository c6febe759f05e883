// Package check implements the three-phase static check of a parsed
// Program: a structural sanity assertion, a pre-check-and-register pass
// that resolves literal values, variable types and state tables, and a
// full type check of every transition's expressions and statements.
package check

import (
	"github.com/pwithnall/bendy-bus/internal/ast"
	"github.com/pwithnall/bendy-bus/internal/dbus"
	"github.com/pwithnall/bendy-bus/internal/diag"
	"github.com/pwithnall/bendy-bus/internal/env"
	"github.com/pwithnall/bendy-bus/internal/lexer"
)

// CheckedObject is one ObjectDecl after a successful three-phase check:
// its state table, a populated Environment (variable types and initial
// values), its resolved interface introspection, and its transitions
// with state names resolved to indices into StateNames.
type CheckedObject struct {
	Decl        *ast.ObjectDecl
	StateNames  []string // index 0 is the default/starting state
	Env         *env.Environment
	Interfaces  []dbus.InterfaceInfo
	Transitions []*ast.ObjectTransition
}

// checker threads the shared inputs (introspection registry, source text
// and file name for diagnostics) through every phase.
type checker struct {
	registry map[string]dbus.InterfaceInfo
	source   string
	file     string
}

// Check runs phases B and C over prog. registry maps every interface name
// any object in prog might implement to its introspection data; it is the
// host's responsibility to have built this from introspection XML. Phase
// A (sanity) is not run here — it is an assertion layer exercised
// directly by tests against deliberately-constructed ASTs, not by this
// entry point, since a correct parser can never violate it.
func Check(prog *ast.Program, registry map[string]dbus.InterfaceInfo, source, file string) ([]*CheckedObject, []error) {
	c := &checker{registry: registry, source: source, file: file}

	var objects []*CheckedObject
	var errs []error
	for _, decl := range prog.Objects {
		obj, oerrs := c.precheckObject(decl)
		errs = append(errs, oerrs...)
		if obj == nil {
			continue
		}
		errs = append(errs, c.typecheckObject(obj)...)
		objects = append(objects, obj)
	}
	if len(errs) > 0 {
		return nil, errs
	}
	return objects, nil
}

func (c *checker) posErrorf(pos diag.Position, msg string, args ...any) error {
	return diag.NewPreCheckError(pos, c.source, c.file, msg, args...)
}

func (c *checker) checkErrorf(pos diag.Position, msg string, args ...any) error {
	return diag.NewCheckError(pos, c.source, c.file, msg, args...)
}

func toDiagPos(p ast.Node) diag.Position {
	return diag.Position(p.Pos())
}

func fromLexerPos(p lexer.Position) diag.Position {
	return diag.Position(p)
}
