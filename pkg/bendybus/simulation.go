package bendybus

import (
	"fmt"
	"log"

	"github.com/pwithnall/bendy-bus/internal/check"
	"github.com/pwithnall/bendy-bus/internal/config"
	"github.com/pwithnall/bendy-bus/internal/machine"
	"github.com/pwithnall/bendy-bus/internal/object"
	"github.com/pwithnall/bendy-bus/internal/reach"
)

// Simulation is a running set of simulated objects, built from a
// LoadResult's checked objects, each with its own machine (and therefore
// its own independent fuzzing RNG, per cfg).
type Simulation struct {
	objects []*object.Object
	checked map[*object.Object]*check.CheckedObject
}

// NewSimulation builds one machine.Machine and object.Object per checked
// object, all sharing cfg (and therefore the same fuzzing switch, but
// each with its own seeded PRNG — see internal/config). warn receives
// every RuntimeWarning raised by any object; nil discards them.
func NewSimulation(objects []*check.CheckedObject, cfg config.EngineConfig, warn *log.Logger) *Simulation {
	sim := &Simulation{checked: make(map[*object.Object]*check.CheckedObject, len(objects))}
	for _, co := range objects {
		m := machine.New(co, cfg, warn)
		o := object.New(m, co.Decl.ObjectPath, co.Decl.BusNames, co.Interfaces)
		sim.objects = append(sim.objects, o)
		sim.checked[o] = co
	}
	return sim
}

// Objects returns every simulated object, in declaration order.
func (s *Simulation) Objects() []*object.Object { return s.objects }

// Object looks up a simulated object by its D-Bus object path.
func (s *Simulation) Object(path string) (*object.Object, bool) {
	for _, o := range s.objects {
		if o.ObjectPath == path {
			return o, true
		}
	}
	return nil, false
}

// Reachability runs the C11 reachability analysis for o, whose current
// machine state is irrelevant to the result: the analysis always
// classifies states reachability from the fixed start state.
func (s *Simulation) Reachability(o *object.Object) ([]reach.StateReport, error) {
	co, ok := s.checked[o]
	if !ok {
		return nil, fmt.Errorf("bendybus: object %q does not belong to this simulation", o.ObjectPath)
	}
	return reach.Analyze(co.StateNames, co.Transitions), nil
}
