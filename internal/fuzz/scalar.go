package fuzz

import (
	"math"

	"github.com/pwithnall/bendy-bus/internal/types"
)

func (f *Fuzzer) mutateInteger(def types.Value) types.Value {
	k := def.Type().Kind
	limits := types.LimitsOf(k)
	if limits.Signed {
		return rewrapSigned(k, f.fuzzSignedInt(def.Int(), limits))
	}
	return rewrapUnsigned(k, f.fuzzUnsignedInt(def.Uint(), limits))
}

func (f *Fuzzer) fuzzSignedInt(def int64, limits types.Limits) int64 {
	switch pickInterval(f.rng, []float64{intSmallP, intDefaultP, intBoundaryP, intLargeP}) {
	case 0: // SMALL: [-5, 5]
		return int64(f.rng.Intn(11)) - 5
	case 1: // DEFAULT
		return def
	case 2: // BOUNDARY: min or max
		if f.rng.Intn(2) == 0 {
			return limits.Min
		}
		return limits.MaxSigned
	default: // LARGE: uniform in [min, max]
		return randInt64InRange(f, limits.Min, limits.MaxSigned)
	}
}

func (f *Fuzzer) fuzzUnsignedInt(def uint64, limits types.Limits) uint64 {
	switch pickInterval(f.rng, []float64{intSmallP, intDefaultP, intBoundaryP, intLargeP}) {
	case 0: // SMALL: [0, 10]
		return uint64(f.rng.Intn(11))
	case 1: // DEFAULT
		return def
	case 2: // BOUNDARY: 0 or max
		if f.rng.Intn(2) == 0 {
			return 0
		}
		return limits.Max
	default: // LARGE: uniform in [0, max]
		return randUint64InRange(f, 0, limits.Max)
	}
}

func randInt64InRange(f *Fuzzer, min, max int64) int64 {
	span := uint64(max) - uint64(min)
	if span == math.MaxUint64 {
		return int64(f.rng.Uint64())
	}
	return min + int64(f.rng.Uint64()%(span+1))
}

func randUint64InRange(f *Fuzzer, min, max uint64) uint64 {
	span := max - min
	if span == math.MaxUint64 {
		return f.rng.Uint64()
	}
	return min + f.rng.Uint64()%(span+1)
}

func rewrapSigned(k types.Kind, v int64) types.Value {
	switch k {
	case types.KindInt16:
		return types.NewInt16(int16(v))
	case types.KindInt64:
		return types.NewInt64(v)
	default:
		return types.NewInt32(int32(v))
	}
}

func rewrapUnsigned(k types.Kind, v uint64) types.Value {
	switch k {
	case types.KindByte:
		return types.NewByte(uint8(v))
	case types.KindUint16:
		return types.NewUint16(uint16(v))
	case types.KindUint64:
		return types.NewUint64(v)
	case types.KindUnixFD:
		return types.NewUnixFD(uint32(v))
	default:
		return types.NewUint32(uint32(v))
	}
}

func (f *Fuzzer) fuzzBool(def bool) bool {
	if pickInterval(f.rng, []float64{boolDefaultP, boolFlipP}) == 1 {
		return !def
	}
	return def
}

func (f *Fuzzer) fuzzDouble(def float64) float64 {
	switch pickInterval(f.rng, []float64{doubleSmallP, doubleDefaultP, doubleLargeP}) {
	case 0: // SMALL: [-5, 5)
		return -5 + f.rng.Float64()*10
	case 1: // DEFAULT
		return def
	default: // LARGE: drawn across the full double range without overflow
		sign := 1.0
		if f.rng.Intn(2) == 0 {
			sign = -1.0
		}
		return sign * f.rng.Float64() * math.MaxFloat64
	}
}
