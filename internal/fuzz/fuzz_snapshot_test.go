package fuzz

import (
	"os"
	"testing"

	"github.com/gkampitakis/go-snaps/snaps"
	"github.com/pwithnall/bendy-bus/internal/ast"
	"github.com/pwithnall/bendy-bus/internal/env"
	"github.com/pwithnall/bendy-bus/internal/types"
)

func TestMain(m *testing.M) {
	v := m.Run()
	snaps.Clean(m)
	os.Exit(v)
}

// TestLiteralSnapshotBoolDistribution pins the true/false split a fixed
// seed produces over many draws of a fuzzed boolean literal, so a change
// to fuzzBool's bias shows up as a snapshot diff rather than only as a
// statistical test that might pass by chance.
func TestLiteralSnapshotBoolDistribution(t *testing.T) {
	f := New(99, true, nil)
	e := env.New(nil)
	lit := &ast.BoolLiteral{Meta: ast.Meta{Weight: 1, Computed: types.Boolean}, Value: false}

	counts := map[string]int{}
	for i := 0; i < 1000; i++ {
		v, err := f.Literal(lit, e)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if v.Bool() {
			counts["true"]++
		} else {
			counts["false"]++
		}
	}
	snaps.MatchSnapshot(t, counts)
}
