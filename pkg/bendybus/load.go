// Package bendybus is the public API surface of the simulator: loading a
// simulation program against a set of introspected D-Bus interfaces,
// constructing the per-object machines it describes, and driving them
// through method calls, property sets and ticks. cmd/bendybus loads and
// checks programs through this package; its reachability command also
// calls internal/reach directly.
package bendybus

import (
	"fmt"

	"github.com/pwithnall/bendy-bus/internal/ast"
	"github.com/pwithnall/bendy-bus/internal/check"
	"github.com/pwithnall/bendy-bus/internal/dbus"
	"github.com/pwithnall/bendy-bus/internal/diag"
	"github.com/pwithnall/bendy-bus/internal/parser"
)

// LoadResult is the outcome of parsing and checking one source file: a
// successfully checked object per "object at ..." declaration, or the
// diagnostics explaining why it could not be.
type LoadResult struct {
	Program     *ast.Program
	Objects     []*check.CheckedObject
	Diagnostics []error
}

// OK reports whether prog checked cleanly: Objects is only meaningful
// when this is true.
func (r *LoadResult) OK() bool { return len(r.Diagnostics) == 0 }

// FormatDiagnostics renders every diagnostic in r with Diagnostic.Format,
// one per line, in color when the target is a terminal (color is the
// caller's call, typically based on whether stderr is a TTY).
func FormatDiagnostics(diags []error, color bool) string {
	var out string
	for i, err := range diags {
		if i > 0 {
			out += "\n"
		}
		if d, ok := asDiagnostic(err); ok {
			out += d.Format(color)
		} else {
			out += err.Error()
		}
	}
	return out
}

// asDiagnostic unwraps one of diag's three error kinds, each of which
// embeds *diag.Diagnostic directly, back to the shared type so callers
// can call Format on it regardless of which phase raised it.
func asDiagnostic(err error) (*diag.Diagnostic, bool) {
	switch e := err.(type) {
	case *diag.ParseError:
		return e.Diagnostic, true
	case *diag.PreCheckError:
		return e.Diagnostic, true
	case *diag.CheckError:
		return e.Diagnostic, true
	}
	return nil, false
}

// Load parses source (named file for diagnostics) and checks it against
// registry, which must map every interface name any "implements" clause
// in source might reference to its introspection data. A non-empty
// Diagnostics means Objects is nil: phases A-C never return a partial
// result alongside errors.
func Load(source, file string, registry map[string]dbus.InterfaceInfo) *LoadResult {
	prog, parseErrs := parser.Parse(source, file)
	if len(parseErrs) > 0 {
		diags := make([]error, len(parseErrs))
		for i, e := range parseErrs {
			diags[i] = e
		}
		return &LoadResult{Diagnostics: diags}
	}

	objects, checkErrs := check.Check(prog, registry, source, file)
	if len(checkErrs) > 0 {
		return &LoadResult{Program: prog, Diagnostics: checkErrs}
	}
	return &LoadResult{Program: prog, Objects: objects}
}

// Parse parses source without checking it, for tooling (dump) that wants
// the raw AST regardless of whether introspection is available.
func Parse(source, file string) (*ast.Program, error) {
	prog, errs := parser.Parse(source, file)
	if len(errs) > 0 {
		msgs := make([]error, len(errs))
		for i, e := range errs {
			msgs[i] = e
		}
		return nil, fmt.Errorf("%s", FormatDiagnostics(msgs, false))
	}
	return prog, nil
}
