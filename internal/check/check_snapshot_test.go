package check

import (
	"os"
	"testing"

	"github.com/gkampitakis/go-snaps/snaps"
	"github.com/pwithnall/bendy-bus/internal/ast"
)

func TestMain(m *testing.M) {
	v := m.Run()
	snaps.Clean(m)
	os.Exit(v)
}

// TestCheckSnapshotReportsEveryDiagnosticMessage pins the rendered
// messages for a handful of unrelated phase B/C mistakes in one object,
// so a wording or ordering change in the checker's diagnostics shows up
// as a snapshot diff instead of silently drifting.
func TestCheckSnapshotReportsEveryDiagnosticMessage(t *testing.T) {
	decl := &ast.ObjectDecl{
		ObjectPath:     "not-a-path",
		InterfaceNames: []string{"com.example.Foo", "com.example.Unknown"},
		StateBlocks:    [][]string{{"start"}},
		TransitionBlocks: []*ast.TransitionBlockDecl{{
			Def: &ast.TransitionDef{Trigger: ast.Trigger{Kind: ast.TriggerArbitrary}},
			Bindings: []ast.TransitionBinding{
				{FromState: "start", ToState: "nowhere"},
			},
		}},
	}
	prog := &ast.Program{Objects: []*ast.ObjectDecl{decl}}

	_, errs := Check(prog, fooRegistry(), "", "snapshot.sim")
	messages := make([]string, len(errs))
	for i, e := range errs {
		messages[i] = e.Error()
	}
	snaps.MatchSnapshot(t, messages)
}
