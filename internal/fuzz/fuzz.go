package fuzz

import (
	"log"
	"math/rand"

	"github.com/pwithnall/bendy-bus/internal/ast"
	"github.com/pwithnall/bendy-bus/internal/env"
	"github.com/pwithnall/bendy-bus/internal/eval"
	"github.com/pwithnall/bendy-bus/internal/types"
)

// Fuzzer owns the per-machine PRNG and enablement switch. The original
// kept both as process-wide globals marked explicitly "not thread safe";
// here they're threaded explicitly through machine construction instead,
// so independent machines never share mutable RNG state.
type Fuzzer struct {
	rng     *rand.Rand
	enabled bool
	warn    *log.Logger
}

// New builds a Fuzzer seeded deterministically from seed. warn may be nil,
// in which case warnings about un-fuzzable literal kinds are discarded.
func New(seed int64, enabled bool, warn *log.Logger) *Fuzzer {
	return &Fuzzer{rng: rand.New(rand.NewSource(seed)), enabled: enabled, warn: warn}
}

// Enabled reports whether this Fuzzer will ever mutate a value.
func (f *Fuzzer) Enabled() bool { return f.enabled }

// Intn draws a uniform integer in [0, n) from the Fuzzer's PRNG. The
// selector uses this for its random starting offset into a candidate
// list, independent of whether literal fuzzing is enabled: the original
// drew both from the same process-global generator, and splitting them
// into separate instances would only cost reproducibility for no benefit.
func (f *Fuzzer) Intn(n int) int {
	if n <= 0 {
		return 0
	}
	return f.rng.Intn(n)
}

// CoinFlip reports true with probability p, drawn from the Fuzzer's
// PRNG. The selector uses this for the fuzzing-aware throw-skip rule.
func (f *Fuzzer) CoinFlip(p float64) bool {
	return biasedCoinFlip(f.rng, p)
}

func (f *Fuzzer) warnf(format string, args ...any) {
	if f.warn != nil {
		f.warn.Printf(format, args...)
	}
}

// Literal evaluates lit to its default value and, if fuzzing is enabled
// and lit carries a positive weight, mutates it per the structural
// fuzzer's per-kind probability mix. Literals that can't meaningfully be
// fuzzed (tuple, unix-fd, variable) are returned unmutated with a logged
// warning, matching the original's "ignoring the indication to fuzz"
// behaviour.
func (f *Fuzzer) Literal(lit ast.DataLiteral, e *env.Environment) (types.Value, error) {
	def, err := eval.Evaluate(lit, e)
	if err != nil {
		return types.Value{}, err
	}
	if !f.enabled || lit.Metadata().Weight <= 0 {
		return def, nil
	}
	return f.mutate(lit, def, e)
}

func (f *Fuzzer) mutate(lit ast.DataLiteral, def types.Value, e *env.Environment) (types.Value, error) {
	switch n := lit.(type) {
	case *ast.IntegerLiteral:
		return f.mutateInteger(def), nil
	case *ast.BoolLiteral:
		return types.NewBool(f.fuzzBool(def.Bool())), nil
	case *ast.DoubleLiteral:
		return types.NewDouble(f.fuzzDouble(def.Float())), nil
	case *ast.StringLiteral:
		return f.mutateString(def), nil
	case *ast.ArrayLiteral:
		return f.fuzzArray(n, def, e)
	case *ast.DictLiteral:
		return f.fuzzDict(n, def, e)
	case *ast.VariantLiteral:
		return f.fuzzVariant(n, e)
	case *ast.TupleLiteral, *ast.UnixFDLiteral, *ast.VariableLiteral:
		f.warnf("fuzz: can't fuzz %T; ignoring the indication to fuzz it", lit)
		return def, nil
	default:
		f.warnf("fuzz: unrecognised literal type %T; leaving it unfuzzed", lit)
		return def, nil
	}
}

// pickInterval draws a uniform float64 in [0,1) and locates the interval
// it falls in, given weights that should sum to (approximately) 1. The
// final interval always catches the remainder, so the selector tolerates
// float summation error of more than the one ULP the interface promises.
func pickInterval(rng *rand.Rand, weights []float64) int {
	r := rng.Float64()
	acc := 0.0
	for i, w := range weights {
		acc += w
		if r < acc || i == len(weights)-1 {
			return i
		}
	}
	return len(weights) - 1
}

func biasedCoinFlip(rng *rand.Rand, p float64) bool {
	if p <= 0 {
		return false
	}
	if p >= 1 {
		return true
	}
	return rng.Float64() < p
}
