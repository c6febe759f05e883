package types

import "math"

// Limits holds the inclusive [Min, Max] range for an integer Kind, used by
// the saturating evaluator (C5) and the fuzzer's BOUNDARY alternative
// (C6). Unsigned kinds have Min == 0.
type Limits struct {
	Min int64
	Max uint64
	// Signed is true for int16/32/64; for signed kinds Max never exceeds
	// math.MaxInt64 and must be read through MaxSigned, not Max.
	Signed    bool
	MaxSigned int64
}

// LimitsOf returns the saturation bounds for an integer kind. Panics if k
// is not an integer kind; callers must only invoke it after checking
// Kind.IsInteger.
func LimitsOf(k Kind) Limits {
	switch k {
	case KindByte:
		return Limits{Min: 0, Max: math.MaxUint8}
	case KindUint16:
		return Limits{Min: 0, Max: math.MaxUint16}
	case KindUint32:
		return Limits{Min: 0, Max: math.MaxUint32}
	case KindUint64:
		return Limits{Min: 0, Max: math.MaxUint64}
	case KindInt16:
		return Limits{Signed: true, MaxSigned: math.MaxInt16, Min: math.MinInt16}
	case KindInt32:
		return Limits{Signed: true, MaxSigned: math.MaxInt32, Min: math.MinInt32}
	case KindInt64:
		return Limits{Signed: true, MaxSigned: math.MaxInt64, Min: math.MinInt64}
	default:
		panic("types: LimitsOf called on non-integer kind")
	}
}
