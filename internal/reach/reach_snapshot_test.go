package reach

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

// TestAnalyzeSnapshotMatchesRecordedClassification pins the full
// per-state classification of a scenario with a mix of reachable,
// possibly-reachable and unreachable states, so a change to the
// relaxation algorithm shows up as a diff against a recorded table
// rather than requiring a new hand-written assertion per state.
func TestAnalyzeSnapshotMatchesRecordedClassification(t *testing.T) {
	gated := []*ast.Precondition{{Condition: &ast.BoolLiteral{Value: false}}}
	transitions := []*ast.ObjectTransition{
		transition(0, 1, nil),
		transition(1, 2, gated),
		transition(2, 0, nil),
	}
	reports := Analyze([]string{"Idle", "Active", "Draining", "Orphaned"}, transitions)
	snaps.MatchSnapshot(t, reports)
}
