package check

import (
	"fmt"

	"github.com/pwithnall/bendy-bus/internal/ast"
)

// Sanity asserts the structural well-formedness invariants a correct
// parser always upholds: no nil children where the grammar guarantees
// one, non-empty slices where the grammar guarantees at least one
// element, and trigger members present/absent according to their kind.
// It is not called by Check — a parsed Program can never violate it — but
// is exercised directly by tests against deliberately-malformed ASTs, so
// that a future change to internal/parser or internal/ast that would
// break this invariant is caught here rather than as a confusing panic
// deep inside phase B or C.
func Sanity(prog *ast.Program) []error {
	var errs []error
	for _, decl := range prog.Objects {
		errs = append(errs, sanityObject(decl)...)
	}
	return errs
}

func sanityObject(decl *ast.ObjectDecl) []error {
	var errs []error
	if decl.ObjectPath == "" {
		errs = append(errs, fmt.Errorf("object declaration has an empty object path"))
	}
	if len(decl.InterfaceNames) == 0 {
		errs = append(errs, fmt.Errorf("object at %q implements no interfaces", decl.ObjectPath))
	}
	if len(decl.StateBlocks) == 0 {
		errs = append(errs, fmt.Errorf("object at %q declares no state blocks", decl.ObjectPath))
	}
	for _, block := range decl.StateBlocks {
		if len(block) == 0 {
			errs = append(errs, fmt.Errorf("object at %q has an empty state block", decl.ObjectPath))
		}
	}
	for _, block := range decl.DataBlocks {
		for _, entry := range block {
			if entry.Name == "" {
				errs = append(errs, fmt.Errorf("object at %q has a data entry with an empty name", decl.ObjectPath))
			}
			if entry.Literal == nil {
				errs = append(errs, fmt.Errorf("object at %q: data entry %q has a nil literal", decl.ObjectPath, entry.Name))
			}
		}
	}
	for _, block := range decl.TransitionBlocks {
		errs = append(errs, sanityTransitionBlock(decl, block)...)
	}
	return errs
}

func sanityTransitionBlock(decl *ast.ObjectDecl, block *ast.TransitionBlockDecl) []error {
	var errs []error
	if block.Def == nil {
		errs = append(errs, fmt.Errorf("object at %q has a transition block with a nil definition", decl.ObjectPath))
		return errs
	}
	if len(block.Bindings) == 0 {
		errs = append(errs, fmt.Errorf("object at %q has a transition with no (from, to) bindings", decl.ObjectPath))
	}
	errs = append(errs, sanityTrigger(decl, block.Def.Trigger)...)
	for _, pre := range block.Def.Preconditions {
		if pre.Condition == nil {
			errs = append(errs, fmt.Errorf("object at %q has a precondition with a nil condition", decl.ObjectPath))
		}
	}
	for _, stmt := range block.Def.Statements {
		errs = append(errs, sanityStatement(decl, stmt)...)
	}
	return errs
}

func sanityTrigger(decl *ast.ObjectDecl, trig ast.Trigger) []error {
	var errs []error
	switch trig.Kind {
	case ast.TriggerMethod, ast.TriggerProperty:
		if trig.Member == "" {
			errs = append(errs, fmt.Errorf("object at %q has a %s trigger with no member name", decl.ObjectPath, trig.Kind))
		}
	case ast.TriggerArbitrary:
		if trig.Member != "" {
			errs = append(errs, fmt.Errorf("object at %q has a random trigger with a non-empty member name %q", decl.ObjectPath, trig.Member))
		}
	}
	return errs
}

func sanityStatement(decl *ast.ObjectDecl, stmt ast.Statement) []error {
	var errs []error
	switch s := stmt.(type) {
	case *ast.AssignStmt:
		if s.LHS == nil || s.RHS == nil {
			errs = append(errs, fmt.Errorf("object at %q has an assignment with a nil side", decl.ObjectPath))
		}
	case *ast.EmitStmt:
		if s.Signal == "" {
			errs = append(errs, fmt.Errorf("object at %q has an emit statement with an empty signal name", decl.ObjectPath))
		}
		if s.Value == nil {
			errs = append(errs, fmt.Errorf("object at %q has an emit statement with a nil value", decl.ObjectPath))
		}
	case *ast.ReplyStmt:
		if s.Value == nil {
			errs = append(errs, fmt.Errorf("object at %q has a reply statement with a nil value", decl.ObjectPath))
		}
	case *ast.ThrowStmt:
		if s.ErrorName == "" {
			errs = append(errs, fmt.Errorf("object at %q has a throw statement with an empty error name", decl.ObjectPath))
		}
	default:
		errs = append(errs, fmt.Errorf("object at %q has an unrecognised statement type %T", decl.ObjectPath, stmt))
	}
	return errs
}
