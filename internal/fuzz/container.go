package fuzz

import (
	"github.com/pwithnall/bendy-bus/internal/ast"
	"github.com/pwithnall/bendy-bus/internal/env"
	"github.com/pwithnall/bendy-bus/internal/eval"
	"github.com/pwithnall/bendy-bus/internal/types"
)

// fuzzArray mutates each element independently (delete/clone/clone-and-
// mutate, scaled by the element's own weight, clamped to a minimum of
// 1.0) and additionally empties the whole array with probability
// arrayEmptyWholeP, matching the original's "effective_array_length"
// short-circuit. Clone and clone-and-mutate each independently *append*
// an extra entry alongside the kept original; they never replace it.
func (f *Fuzzer) fuzzArray(n *ast.ArrayLiteral, def types.Value, e *env.Environment) (types.Value, error) {
	elemType := *def.Type().Elem
	if biasedCoinFlip(f.rng, arrayEmptyWholeP) {
		return types.NewArray(elemType, nil), nil
	}

	var items []types.Value
	for _, el := range n.Elements {
		lit, ok := el.(ast.DataLiteral)
		if !ok {
			// Phase B guarantees array children are DataLiterals; this
			// branch is unreachable for a checked program.
			v, err := eval.Evaluate(el, e)
			if err != nil {
				return types.Value{}, err
			}
			items = append(items, v)
			continue
		}
		w := maxWeight1(lit.Metadata().Weight)

		if biasedCoinFlip(f.rng, arrayDeleteP*w) {
			continue
		}

		v, err := eval.Evaluate(lit, e)
		if err != nil {
			return types.Value{}, err
		}
		items = append(items, v)

		if biasedCoinFlip(f.rng, arrayCloneP*w) {
			items = append(items, v)
		}
		if biasedCoinFlip(f.rng, arrayCloneMutateP*w) {
			mutated, err := f.Literal(lit, e)
			if err != nil {
				return types.Value{}, err
			}
			items = append(items, mutated)
		}
	}
	return types.NewArray(elemType, items), nil
}

// fuzzDict mutates each entry independently: delete keyed on the key
// expression's weight, and independently append a clone-and-mutated
// entry (key only, or key and value) alongside the kept original. Empties
// the whole dict with probability dictEmptyWholeP.
func (f *Fuzzer) fuzzDict(n *ast.DictLiteral, def types.Value, e *env.Environment) (types.Value, error) {
	keyType, valType := *def.Type().Key, *def.Type().Value
	if biasedCoinFlip(f.rng, dictEmptyWholeP) {
		return types.NewDict(keyType, valType, nil), nil
	}

	var entries []types.DictEntry
	for _, ent := range n.Entries {
		keyLit, keyOK := ent.Key.(ast.DataLiteral)
		valLit, valOK := ent.Value.(ast.DataLiteral)
		if !keyOK || !valOK {
			k, err := eval.Evaluate(ent.Key, e)
			if err != nil {
				return types.Value{}, err
			}
			v, err := eval.Evaluate(ent.Value, e)
			if err != nil {
				return types.Value{}, err
			}
			entries = append(entries, types.DictEntry{Key: k, Value: v})
			continue
		}

		kw := maxWeight1(keyLit.Metadata().Weight)
		if biasedCoinFlip(f.rng, dictDeleteP*kw) {
			continue
		}

		k, err := eval.Evaluate(keyLit, e)
		if err != nil {
			return types.Value{}, err
		}
		v, err := eval.Evaluate(valLit, e)
		if err != nil {
			return types.Value{}, err
		}
		entries = append(entries, types.DictEntry{Key: k, Value: v})

		if biasedCoinFlip(f.rng, dictCloneMutateKeyP*kw) {
			mutatedKey, err := f.Literal(keyLit, e)
			if err != nil {
				return types.Value{}, err
			}
			mutatedVal := v
			vw := maxWeight1(valLit.Metadata().Weight)
			if biasedCoinFlip(f.rng, dictCloneMutateValP*vw) {
				mutatedVal, err = f.Literal(valLit, e)
				if err != nil {
					return types.Value{}, err
				}
			}
			entries = append(entries, types.DictEntry{Key: mutatedKey, Value: mutatedVal})
		}
	}
	return types.NewDict(keyType, valType, entries), nil
}

// fuzzVariant replaces the wrapped value with a value of a different
// basic type with probability variantRetypeP: a uint32 becomes a fuzzed
// string, anything else becomes a fuzzed uint32. Otherwise the wrapped
// value is produced by recursively fuzzing the inner literal, so it
// relies on its own nested weight rather than n's.
func (f *Fuzzer) fuzzVariant(n *ast.VariantLiteral, e *env.Environment) (types.Value, error) {
	if !biasedCoinFlip(f.rng, variantRetypeP) {
		innerLit, ok := n.Inner.(ast.DataLiteral)
		if !ok {
			v, err := eval.Evaluate(n.Inner, e)
			if err != nil {
				return types.Value{}, err
			}
			return types.NewVariant(v), nil
		}
		inner, err := f.Literal(innerLit, e)
		if err != nil {
			return types.Value{}, err
		}
		return types.NewVariant(inner), nil
	}

	inner, err := eval.Evaluate(n.Inner, e)
	if err != nil {
		return types.Value{}, err
	}
	if inner.Type().Kind == types.KindUint32 {
		return types.NewVariant(types.NewString(f.fuzzString(""))), nil
	}
	return types.NewVariant(types.NewUint32(f.fuzzUnsignedInt(0, types.LimitsOf(types.KindUint32)))), nil
}

func maxWeight1(w float64) float64 {
	if w < 1 {
		return 1
	}
	return w
}
