package eval

import (
	"fmt"

	"github.com/pwithnall/bendy-bus/internal/ast"
	"github.com/pwithnall/bendy-bus/internal/types"
)

// evalArithmetic evaluates one of the numeric binary operators. Integer
// arithmetic saturates at the operand kind's min/max instead of wrapping;
// double arithmetic uses ordinary IEEE semantics except that division and
// modulus are given defined results at zero instead of producing NaN/Inf.
func evalArithmetic(op ast.BinaryOp, left, right types.Value) (types.Value, error) {
	kind := left.Type().Kind
	if right.Type().Kind != kind {
		return types.Value{}, fmt.Errorf("arithmetic requires operands of the same type, got %s and %s", left.Type(), right.Type())
	}

	if kind == types.KindDouble {
		return evalDoubleArithmetic(op, left.Float(), right.Float()), nil
	}
	if !kind.IsInteger() {
		return types.Value{}, fmt.Errorf("operator %s requires numeric operands, got %s", op, left.Type())
	}

	limits := types.LimitsOf(kind)
	if limits.Signed {
		return newSignedValue(kind, evalSignedArithmetic(op, left.Int(), right.Int(), limits)), nil
	}
	return newUnsignedValue(kind, evalUnsignedArithmetic(op, left.Uint(), right.Uint(), limits)), nil
}

func newSignedValue(kind types.Kind, n int64) types.Value {
	switch kind {
	case types.KindInt16:
		return types.NewInt16(int16(n))
	case types.KindInt64:
		return types.NewInt64(n)
	default:
		return types.NewInt32(int32(n))
	}
}

func newUnsignedValue(kind types.Kind, n uint64) types.Value {
	switch kind {
	case types.KindByte:
		return types.NewByte(uint8(n))
	case types.KindUint16:
		return types.NewUint16(uint16(n))
	case types.KindUint32:
		return types.NewUint32(uint32(n))
	case types.KindUnixFD:
		return types.NewUnixFD(uint32(n))
	default:
		return types.NewUint64(n)
	}
}

// evalUnsignedArithmetic implements saturating multiply/add/subtract,
// truncating divide and sign-of-dividend (always non-negative, so simply
// truncating) modulus for an unsigned width described by limits.
func evalUnsignedArithmetic(op ast.BinaryOp, a, b uint64, limits types.Limits) uint64 {
	max := limits.Max
	switch op {
	case ast.OpMul:
		if a == 0 || b == 0 {
			return 0
		}
		if a > max/b {
			return max
		}
		return a * b
	case ast.OpAdd:
		if a > max-b {
			return max
		}
		return a + b
	case ast.OpSub:
		if a < b {
			return 0
		}
		return a - b
	case ast.OpDiv:
		if b == 0 {
			if a == 0 {
				return 0
			}
			return max
		}
		return a / b
	case ast.OpMod:
		if b == 0 {
			return 0
		}
		return a % b
	default:
		return 0
	}
}

// evalSignedArithmetic implements the signed equivalents, including the
// min/-1 overflow case and the division-by-zero rule that follows the
// dividend's sign.
func evalSignedArithmetic(op ast.BinaryOp, a, b int64, limits types.Limits) int64 {
	min, max := limits.Min, limits.MaxSigned
	switch op {
	case ast.OpMul:
		if a == 0 || b == 0 {
			return 0
		}
		if a > 0 {
			if b > 0 {
				if a > max/b {
					return max
				}
			} else {
				if b < min/a {
					return min
				}
			}
		} else {
			if b > 0 {
				if a < min/b {
					return min
				}
			} else {
				if a != 0 && b < max/a {
					return max
				}
			}
		}
		return a * b
	case ast.OpAdd:
		if b > 0 && a > max-b {
			return max
		}
		if b < 0 && a < min-b {
			return min
		}
		return a + b
	case ast.OpSub:
		if b < 0 && a > max+b {
			return max
		}
		if b > 0 && a < min+b {
			return min
		}
		return a - b
	case ast.OpDiv:
		if b == 0 {
			if a == 0 {
				return 0
			}
			if a < 0 {
				return min
			}
			return max
		}
		if a == min && b == -1 {
			return max
		}
		return a / b
	case ast.OpMod:
		if b == 0 {
			return 0
		}
		if a == min && b == -1 {
			// a/b would overflow; a mod -1 is always 0.
			return 0
		}
		return a % b
	default:
		return 0
	}
}

// evalDoubleArithmetic implements IEEE arithmetic for +, -, * and the
// evaluator's defined results for / and % at a zero divisor. % truncates
// both operands to int64 first, matching the signed integer modulus rule.
func evalDoubleArithmetic(op ast.BinaryOp, a, b float64) types.Value {
	switch op {
	case ast.OpMul:
		return types.NewDouble(a * b)
	case ast.OpAdd:
		return types.NewDouble(a + b)
	case ast.OpSub:
		return types.NewDouble(a - b)
	case ast.OpDiv:
		if b == 0.0 {
			return types.NewDouble(0.0)
		}
		return types.NewDouble(a / b)
	case ast.OpMod:
		ai, bi := int64(a), int64(b)
		if bi == 0 {
			return types.NewDouble(0.0)
		}
		if ai == int64(types.LimitsOf(types.KindInt64).Min) && bi == -1 {
			return types.NewDouble(0.0)
		}
		return types.NewDouble(float64(ai % bi))
	default:
		return types.NewDouble(0.0)
	}
}
