package bendybus

import (
	"fmt"

	"github.com/pwithnall/bendy-bus/internal/ast"
	"github.com/pwithnall/bendy-bus/internal/env"
	"github.com/pwithnall/bendy-bus/internal/fuzz"
	"github.com/pwithnall/bendy-bus/internal/types"
)

// FuzzSample fuzzes count independent values of the type named by
// signature (a D-Bus type signature, e.g. "s", "ai", "a{sv}"), seeded
// from seed, and returns their rendered forms. It exists for the
// fuzz-demo CLI command, to let a developer eyeball what the structural
// fuzzer produces for a given shape without writing a simulation program
// around it.
func FuzzSample(signature string, seed int64, count int) ([]string, error) {
	t, ok := types.ParseWholeSignature(signature)
	if !ok {
		return nil, fmt.Errorf("bendybus: %q is not a valid D-Bus type signature", signature)
	}

	f := fuzz.New(seed, true, nil)
	e := env.New(nil)

	out := make([]string, count)
	for i := 0; i < count; i++ {
		lit := zeroLiteral(t, 1)
		v, err := f.Literal(lit, e)
		if err != nil {
			return nil, fmt.Errorf("bendybus: fuzzing %q: %w", signature, err)
		}
		out[i] = v.String()
	}
	return out, nil
}

// zeroLiteral builds the default-valued literal AST node for t, with
// weight attached so internal/fuzz.Literal treats it as fuzzable. It
// mirrors the defaulting rules internal/check's phase B applies once a
// variable's declared type is known, just run directly from a bare type
// instead of from parsed source text.
func zeroLiteral(t types.Type, weight float64) ast.DataLiteral {
	meta := ast.Meta{Weight: weight, Computed: t}
	switch t.Kind {
	case types.KindByte, types.KindUint16, types.KindUint32, types.KindUint64, types.KindUnixFD:
		return &ast.IntegerLiteral{Meta: meta, Raw: "0"}
	case types.KindInt16, types.KindInt32, types.KindInt64:
		return &ast.IntegerLiteral{Meta: meta, Raw: "0"}
	case types.KindBoolean:
		return &ast.BoolLiteral{Meta: meta}
	case types.KindDouble:
		return &ast.DoubleLiteral{Meta: meta, Raw: "0"}
	case types.KindString, types.KindObjectPath, types.KindSignature:
		def := ""
		if t.Kind == types.KindObjectPath {
			def = "/"
		}
		return &ast.StringLiteral{Meta: meta, Value: def}
	case types.KindVariant:
		return &ast.VariantLiteral{Meta: meta, Inner: zeroLiteral(types.String, 0)}
	case types.KindArray:
		return &ast.ArrayLiteral{Meta: meta}
	case types.KindDict:
		return &ast.DictLiteral{Meta: meta}
	case types.KindTuple:
		elems := make([]ast.Expression, len(t.Items))
		for i, it := range t.Items {
			elems[i] = zeroLiteral(it, 0)
		}
		return &ast.TupleLiteral{Meta: meta, Elements: elems}
	default:
		return &ast.StringLiteral{Meta: meta}
	}
}
