package env

import (
	"fmt"

	"github.com/pwithnall/bendy-bus/internal/types"
)

// FunctionInfo describes one built-in function available to expressions:
// the supertype its (possibly tupled) actual parameter must conform to,
// a function deriving its return type from the actual parameter type,
// and an evaluator producing its result value.
type FunctionInfo struct {
	Name                string
	ParametersSupertype types.Type
	CalculateType       func(paramsType types.Type) (types.Type, error)
	Evaluate            func(params types.Value) (types.Value, error)
}

var functionRegistry = map[string]*FunctionInfo{}

func init() {
	register(keysFunction())
	register(pairKeysFunction())
	register(inArrayFunction())
}

func register(fi *FunctionInfo) {
	functionRegistry[fi.Name] = fi
}

// LookupFunction finds a built-in function by name.
func LookupFunction(name string) (*FunctionInfo, bool) {
	fi, ok := functionRegistry[name]
	return fi, ok
}

func typeMismatchError(name string, supertype, actual types.Type) error {
	return fmt.Errorf("type mismatch calling function %q: expected a subtype of %s, got %s", name, supertype, actual)
}

// keysFunction implements "keys : a{?*} -> a?": given a dict, return an
// array of its keys.
func keysFunction() *FunctionInfo {
	super := types.DictOf(types.WildcardBasic, types.WildcardAny)
	return &FunctionInfo{
		Name:                "keys",
		ParametersSupertype: super,
		CalculateType: func(paramsType types.Type) (types.Type, error) {
			if !types.IsSubtypeOf(paramsType, super) {
				return types.Type{}, typeMismatchError("keys", super, paramsType)
			}
			return types.ArrayOf(*paramsType.Key), nil
		},
		Evaluate: func(params types.Value) (types.Value, error) {
			entries := params.Entries()
			keyType := *params.Type().Key
			items := make([]types.Value, len(entries))
			for i, e := range entries {
				items[i] = e.Key
			}
			return types.NewArray(keyType, items), nil
		},
	}
}

// pairKeysFunction implements "pairKeys : (a? a*) -> a{?*}": zip two
// arrays of equal length into a dict mapping the first array's elements
// to the second's.
func pairKeysFunction() *FunctionInfo {
	super := types.TupleOf(types.ArrayOf(types.WildcardBasic), types.ArrayOf(types.WildcardAny))
	return &FunctionInfo{
		Name:                "pairKeys",
		ParametersSupertype: super,
		CalculateType: func(paramsType types.Type) (types.Type, error) {
			if !types.IsSubtypeOf(paramsType, super) {
				return types.Type{}, typeMismatchError("pairKeys", super, paramsType)
			}
			keyArr := paramsType.Items[0]
			valArr := paramsType.Items[1]
			return types.DictOf(*keyArr.Elem, *valArr.Elem), nil
		},
		Evaluate: func(params types.Value) (types.Value, error) {
			items := params.Items()
			keys := items[0].Items()
			vals := items[1].Items()
			if len(keys) != len(vals) {
				return types.Value{}, fmt.Errorf("pairKeys requires two arrays of equal length, got %d and %d", len(keys), len(vals))
			}
			entries := make([]types.DictEntry, len(keys))
			for i := range keys {
				entries[i] = types.DictEntry{Key: keys[i], Value: vals[i]}
			}
			keyType := *items[0].Type().Elem
			valType := *items[1].Type().Elem
			return types.NewDict(keyType, valType, entries), nil
		},
	}
}

// inArrayFunction implements "inArray : (* a*) -> b": report whether the
// first value occurs in the array passed as the second, requiring the
// first value's type to be a subtype of the array's element type.
func inArrayFunction() *FunctionInfo {
	super := types.TupleOf(types.WildcardAny, types.ArrayOf(types.WildcardAny))
	return &FunctionInfo{
		Name:                "inArray",
		ParametersSupertype: super,
		CalculateType: func(paramsType types.Type) (types.Type, error) {
			if !types.IsSubtypeOf(paramsType, super) {
				return types.Type{}, typeMismatchError("inArray", super, paramsType)
			}
			needleType := paramsType.Items[0]
			elemType := *paramsType.Items[1].Elem
			if !types.IsSubtypeOf(needleType, elemType) {
				return types.Type{}, fmt.Errorf(
					"type mismatch calling function \"inArray\": first argument of type %s is not a subtype of the array's element type %s",
					needleType, elemType)
			}
			return types.Boolean, nil
		},
		Evaluate: func(params types.Value) (types.Value, error) {
			items := params.Items()
			needle := items[0]
			for _, it := range items[1].Items() {
				if it.Equal(needle) {
					return types.NewBool(true), nil
				}
			}
			return types.NewBool(false), nil
		},
	}
}
