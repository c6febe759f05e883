package check

import (
	"testing"

	"github.com/pwithnall/bendy-bus/internal/ast"
)

func minimalObject() *ast.ObjectDecl {
	return &ast.ObjectDecl{
		ObjectPath:     "/com/example/Foo",
		InterfaceNames: []string{"com.example.Foo"},
		StateBlocks:    [][]string{{"start"}},
	}
}

func TestSanityAcceptsMinimalObject(t *testing.T) {
	prog := &ast.Program{Objects: []*ast.ObjectDecl{minimalObject()}}
	if errs := Sanity(prog); len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
}

func TestSanityRejectsEmptyObjectPath(t *testing.T) {
	decl := minimalObject()
	decl.ObjectPath = ""
	prog := &ast.Program{Objects: []*ast.ObjectDecl{decl}}
	if errs := Sanity(prog); len(errs) == 0 {
		t.Fatalf("expected an error for empty object path")
	}
}

func TestSanityRejectsNoInterfaces(t *testing.T) {
	decl := minimalObject()
	decl.InterfaceNames = nil
	prog := &ast.Program{Objects: []*ast.ObjectDecl{decl}}
	if errs := Sanity(prog); len(errs) == 0 {
		t.Fatalf("expected an error for no interfaces")
	}
}

func TestSanityRejectsEmptyStateBlock(t *testing.T) {
	decl := minimalObject()
	decl.StateBlocks = [][]string{{}}
	prog := &ast.Program{Objects: []*ast.ObjectDecl{decl}}
	if errs := Sanity(prog); len(errs) == 0 {
		t.Fatalf("expected an error for an empty state block")
	}
}

func TestSanityRejectsNilDataLiteral(t *testing.T) {
	decl := minimalObject()
	decl.DataBlocks = [][]ast.DataEntry{{{Name: "x", Literal: nil}}}
	prog := &ast.Program{Objects: []*ast.ObjectDecl{decl}}
	if errs := Sanity(prog); len(errs) == 0 {
		t.Fatalf("expected an error for a nil data literal")
	}
}

func TestSanityRejectsMethodTriggerWithNoMember(t *testing.T) {
	decl := minimalObject()
	decl.TransitionBlocks = []*ast.TransitionBlockDecl{{
		Def:      &ast.TransitionDef{Trigger: ast.Trigger{Kind: ast.TriggerMethod}},
		Bindings: []ast.TransitionBinding{{FromState: "start", ToState: "start"}},
	}}
	prog := &ast.Program{Objects: []*ast.ObjectDecl{decl}}
	if errs := Sanity(prog); len(errs) == 0 {
		t.Fatalf("expected an error for a method trigger with no member")
	}
}

func TestSanityRejectsArbitraryTriggerWithMember(t *testing.T) {
	decl := minimalObject()
	decl.TransitionBlocks = []*ast.TransitionBlockDecl{{
		Def:      &ast.TransitionDef{Trigger: ast.Trigger{Kind: ast.TriggerArbitrary, Member: "Oops"}},
		Bindings: []ast.TransitionBinding{{FromState: "start", ToState: "start"}},
	}}
	prog := &ast.Program{Objects: []*ast.ObjectDecl{decl}}
	if errs := Sanity(prog); len(errs) == 0 {
		t.Fatalf("expected an error for a random trigger carrying a member name")
	}
}

func TestSanityRejectsTransitionWithNoBindings(t *testing.T) {
	decl := minimalObject()
	decl.TransitionBlocks = []*ast.TransitionBlockDecl{{
		Def: &ast.TransitionDef{Trigger: ast.Trigger{Kind: ast.TriggerArbitrary}},
	}}
	prog := &ast.Program{Objects: []*ast.ObjectDecl{decl}}
	if errs := Sanity(prog); len(errs) == 0 {
		t.Fatalf("expected an error for a transition with no bindings")
	}
}

func TestSanityRejectsEmitWithNoSignalName(t *testing.T) {
	decl := minimalObject()
	decl.TransitionBlocks = []*ast.TransitionBlockDecl{{
		Def: &ast.TransitionDef{
			Trigger:    ast.Trigger{Kind: ast.TriggerArbitrary},
			Statements: []ast.Statement{&ast.EmitStmt{Value: &ast.BoolLiteral{Value: true}}},
		},
		Bindings: []ast.TransitionBinding{{FromState: "start", ToState: "start"}},
	}}
	prog := &ast.Program{Objects: []*ast.ObjectDecl{decl}}
	if errs := Sanity(prog); len(errs) == 0 {
		t.Fatalf("expected an error for an emit statement with no signal name")
	}
}
