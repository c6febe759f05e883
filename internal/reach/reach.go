// Package reach computes, for one checked object, which states are
// definitely reachable from the start state, which are only possibly
// reachable (every path to them crosses a transition with at least one
// precondition, whatever that precondition is), and
// which are unreachable altogether — used by dump/visualisation tooling
// to warn about dead states in a simulation program.
package reach

import "github.com/pwithnall/bendy-bus/internal/ast"

// Reachability is an ordered classification; larger values are "more
// reachable", which is what lets the analyser use plain integer
// min/max as its combining operators.
type Reachability int

const (
	Unreachable Reachability = iota
	PossiblyReachable
	Reachable
)

func (r Reachability) String() string {
	switch r {
	case Reachable:
		return "REACHABLE"
	case PossiblyReachable:
		return "POSSIBLY_REACHABLE"
	default:
		return "UNREACHABLE"
	}
}

// StateReport pairs a state's name with its computed reachability.
type StateReport struct {
	State        string
	Reachability Reachability
}

// startState is the machine's fixed starting state index; internal/machine
// and internal/check both treat state 0 as the default/starting state.
const startState = 0

// Analyze classifies every state in stateNames, given transitions between
// state indices. It first condenses parallel transitions into a
// per-state-pair label of highest reachability weight — REACHABLE if any
// transition between that pair has no preconditions, else
// POSSIBLY_REACHABLE if any transition exists at all — then runs a
// modified Dijkstra from the start state using min along a path and max
// as the relaxation operator, yielding the best reachability attainable
// to each state.
func Analyze(stateNames []string, transitions []*ast.ObjectTransition) []StateReport {
	n := len(stateNames)
	matrix := buildMatrix(n, transitions)

	reach := make([]Reachability, n)
	if n > 0 {
		reach[startState] = Reachable
	}
	visited := make([]bool, n)

	for {
		best := mostReachableUnvisited(reach, visited)
		if best < 0 || reach[best] == Unreachable {
			break
		}
		visited[best] = true
		for neighbour := 0; neighbour < n; neighbour++ {
			candidate := min(reach[best], matrix[best][neighbour])
			if candidate > reach[neighbour] {
				reach[neighbour] = candidate
			}
		}
	}

	reports := make([]StateReport, n)
	for i, name := range stateNames {
		reports[i] = StateReport{State: name, Reachability: reach[i]}
	}
	return reports
}

func buildMatrix(n int, transitions []*ast.ObjectTransition) [][]Reachability {
	matrix := make([][]Reachability, n)
	for i := range matrix {
		matrix[i] = make([]Reachability, n)
	}
	for _, t := range transitions {
		r := PossiblyReachable
		if len(t.Def.Preconditions) == 0 {
			r = Reachable
		}
		if r > matrix[t.FromState][t.ToState] {
			matrix[t.FromState][t.ToState] = r
		}
	}
	return matrix
}

// mostReachableUnvisited returns the unvisited state with the highest
// current reachability, or -1 if every state has been visited.
func mostReachableUnvisited(reach []Reachability, visited []bool) int {
	best := -1
	for s, v := range visited {
		if v {
			continue
		}
		if best < 0 || reach[s] > reach[best] {
			best = s
		}
	}
	return best
}
