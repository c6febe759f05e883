package fuzz

import (
	"strconv"
	"strings"
	"unicode"

	"github.com/pwithnall/bendy-bus/internal/dbus"
	"github.com/pwithnall/bendy-bus/internal/types"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// blockSeparators mirrors random_block_separators: characters considered
// natural boundaries within structured strings (paths, timestamps, CSV).
var blockSeparators = []rune{'/', '.', ':', ',', ';', '=', '\n'}

func (f *Fuzzer) mutateString(def types.Value) types.Value {
	switch def.Type().Kind {
	case types.KindObjectPath:
		return types.NewObjectPath(f.fuzzObjectPath(def.Str()))
	case types.KindSignature:
		return types.NewSignature(f.fuzzSignature(def.Str()))
	default:
		return types.NewString(f.fuzzString(def.Str()))
	}
}

func (f *Fuzzer) fuzzObjectPath(def string) string {
	if pickInterval(f.rng, []float64{objectPathDefaultP, objectPathAppendedP}) == 0 {
		return def
	}
	candidate := def + strconv.Itoa(f.rng.Intn(100))
	if dbus.IsValidObjectPath(candidate) {
		return candidate
	}
	// Appending a digit to the root path, or to a path whose structure
	// doesn't tolerate a bare suffix, can produce something invalid;
	// fall back to the unmutated value rather than emit a bad path.
	return def
}

func (f *Fuzzer) fuzzSignature(def string) string {
	if pickInterval(f.rng, []float64{signatureDefaultP, signatureGeneratedP}) == 0 {
		return def
	}
	return f.generateSignature(0)
}

func (f *Fuzzer) generateSignature(depth int) string {
	if depth >= sigMaxRecurse {
		return "y"
	}
	switch pickInterval(f.rng, []float64{sigBasicP, sigVariantP, sigArrayP, sigTupleP, sigDictP}) {
	case 0:
		return string(basicSignatureChars[f.rng.Intn(len(basicSignatureChars))])
	case 1:
		return "v"
	case 2:
		return "a" + f.generateSignature(depth+1)
	case 3:
		n := f.rng.Intn(sigTupleMaxN)
		var sb strings.Builder
		sb.WriteByte('(')
		for i := 0; i < n; i++ {
			sb.WriteString(f.generateSignature(depth + 1))
		}
		sb.WriteByte(')')
		return sb.String()
	default:
		return "a{" + string(basicSignatureChars[f.rng.Intn(len(basicSignatureChars))]) + f.generateSignature(depth+1) + "}"
	}
}

var basicSignatureChars = []byte{'y', 'b', 'n', 'q', 'i', 'u', 'x', 't', 'd', 's', 'o', 'g', 'h'}

func (f *Fuzzer) fuzzString(def string) string {
	var out string
	if def == "" {
		if pickInterval(f.rng, []float64{strEmptyKeepP, strEmptyGenerateP}) == 1 {
			out = f.generateRandomString(1 + f.rng.Intn(256))
		}
	} else {
		out = f.mutateNonEmptyString(def)
	}

	if biasedCoinFlip(f.rng, strWhitespacePadP/2) {
		out = " " + out
	}
	if biasedCoinFlip(f.rng, strWhitespacePadP/2) {
		out = out + " "
	}
	return out
}

func (f *Fuzzer) generateRandomString(numChars int) string {
	var sb strings.Builder
	for i := 0; i < numChars; i++ {
		sb.WriteRune(f.generateCharacter())
	}
	return sb.String()
}

// generateCharacter draws from: ASCII non-NUL 0.5, assigned non-NUL
// Unicode from planes 0-2 0.4, defined "invalid" ranges (PUA and its two
// supplementary planes, plus the replacement character) 0.1.
func (f *Fuzzer) generateCharacter() rune {
	switch pickInterval(f.rng, []float64{charASCIIP, charValidUnicodeP, charInvalidUnicodeP}) {
	case 0:
		return rune(1 + f.rng.Intn(0x7F))
	case 1:
		for {
			r := rune(1 + f.rng.Intn(0x2FFFF))
			if unicode.IsGraphic(r) || unicode.In(r, unicode.C, unicode.M, unicode.Z) {
				if !isSurrogate(r) {
					return r
				}
			}
		}
	default:
		i := f.rng.Intn(6400 + 65534 + 65534 + 1)
		switch {
		case i < 6400:
			return rune(0xE000 + i)
		case i < 6400+65534:
			return rune(0xF0000 + (i - 6400))
		case i < 6400+65534+65534:
			return rune(0x100000 + (i - 6400 - 65534))
		default:
			return 0xFFFD // replacement character
		}
	}
}

func isSurrogate(r rune) bool { return r >= 0xD800 && r <= 0xDFFF }

func (f *Fuzzer) mutateNonEmptyString(def string) string {
	runes := []rune(def)
	switch pickInterval(f.rng, []float64{
		strCaseChangeP, strReplaceP, strDeleteBlockP, strOverwriteP,
		strCloneBlockP, strSwapBlocksP, strAddSeparatorsP,
	}) {
	case 0:
		return f.caseChange(runes)
	case 1:
		return f.replaceLetters(runes)
	case 2:
		start, end := f.randomBlock(runes)
		return string(append(append([]rune{}, runes[:start]...), runes[end:]...))
	case 3:
		start, end := f.randomBlock(runes)
		replacement := []rune(f.generateRandomString(end - start))
		out := append([]rune{}, runes[:start]...)
		out = append(out, replacement...)
		out = append(out, runes[end:]...)
		return string(out)
	case 4:
		start, end := f.randomBlock(runes)
		block := runes[start:end]
		insertAt := f.rng.Intn(len(runes) + 1)
		out := append([]rune{}, runes[:insertAt]...)
		out = append(out, block...)
		out = append(out, runes[insertAt:]...)
		return string(out)
	case 5:
		return f.swapBlocks(runes)
	default:
		return f.addSeparators(runes)
	}
}

var titleCaser = cases.Title(language.Und)

func (f *Fuzzer) caseChange(runes []rune) string {
	out := make([]rune, len(runes))
	copy(out, runes)
	start := f.rng.Intn(len(out) + 1)
	for i := start; i < len(out); i += 1 + f.rng.Intn(len(out)-i+1) {
		r := out[i]
		switch {
		case unicode.IsUpper(r):
			out[i] = []rune(cases.Lower(language.Und).String(string(r)))[0]
		case unicode.IsLower(r):
			out[i] = []rune(titleCaser.String(string(r)))[0]
		}
	}
	return string(out)
}

func (f *Fuzzer) replaceLetters(runes []rune) string {
	out := make([]rune, len(runes))
	copy(out, runes)
	start := f.rng.Intn(len(out) + 1)
	for i := start; i < len(out); i += 1 + f.rng.Intn(len(out)-i+1) {
		out[i] = f.generateCharacter()
	}
	return string(out)
}

func (f *Fuzzer) addSeparators(runes []rune) string {
	out := make([]rune, len(runes))
	copy(out, runes)
	start := f.rng.Intn(len(out) + 1)
	for i := start; i < len(out); i += 1 + f.rng.Intn(len(out)-i+1) {
		out[i] = blockSeparators[f.rng.Intn(len(blockSeparators))]
	}
	return string(out)
}

func (f *Fuzzer) swapBlocks(runes []rune) string {
	s1, e1 := f.randomBlock(runes)
	s2, e2 := f.randomBlock(runes)
	if s1 > s2 || (s1 == s2 && e1 > e2) {
		s1, e1, s2, e2 = s2, e2, s1, e1
	}
	if e1 > s2 {
		// Overlapping picks: not swappable, return unmutated.
		return string(runes)
	}
	out := append([]rune{}, runes[:s1]...)
	out = append(out, runes[s2:e2]...)
	out = append(out, runes[e1:s2]...)
	out = append(out, runes[s1:e1]...)
	out = append(out, runes[e2:]...)
	return string(out)
}

// randomBlock picks a [start, end) range of runes delimited by one of
// blockSeparators if the string contains any, falling back to two random
// code-point offsets otherwise.
func (f *Fuzzer) randomBlock(runes []rune) (int, int) {
	var positions []int
	for _, sep := range blockSeparators {
		for i, r := range runes {
			if r == sep {
				positions = append(positions, i)
			}
		}
	}
	if len(positions) == 0 {
		a := f.rng.Intn(len(runes) + 1)
		b := f.rng.Intn(len(runes) + 1)
		if a > b {
			a, b = b, a
		}
		return a, b
	}
	boundaries := append([]int{0}, positions...)
	boundaries = append(boundaries, len(runes))
	i := f.rng.Intn(len(boundaries))
	j := f.rng.Intn(len(boundaries))
	a, b := boundaries[i], boundaries[j]
	if a > b {
		a, b = b, a
	}
	return a, b
}
