package types

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// DictEntry is one key/value pair of a Value of KindDict.
type DictEntry struct {
	Key   Value
	Value Value
}

// Value is the tagged union of D-Bus values. Every Value carries a
// concrete (IsDefinite) type; Matches is the primitive the checker and
// evaluator use to confirm a Value may be stored where a given Type is
// declared.
type Value struct {
	typ     Type
	b       bool
	signed  int64
	unsign  uint64
	f       float64
	str     string
	items   []Value // KindArray, KindTuple
	entries []DictEntry
	inner   *Value // KindVariant
}

// Type returns the value's concrete type.
func (v Value) Type() Type { return v.typ }

// Matches reports whether v may be stored in a variable declared with type t.
func (v Value) Matches(t Type) bool { return IsSubtypeOf(v.typ, t) }

// Bool returns the boolean payload; only meaningful for KindBoolean.
func (v Value) Bool() bool { return v.b }

// Int returns the signed integer payload; only meaningful for signed
// integer kinds.
func (v Value) Int() int64 { return v.signed }

// Uint returns the unsigned integer payload; meaningful for KindByte and
// the unsigned integer/unix-fd kinds.
func (v Value) Uint() uint64 { return v.unsign }

// Float returns the double payload.
func (v Value) Float() float64 { return v.f }

// Str returns the string/object-path/signature payload.
func (v Value) Str() string { return v.str }

// Items returns the element slice of an array or tuple value.
func (v Value) Items() []Value { return v.items }

// Entries returns the entry slice of a dict value.
func (v Value) Entries() []DictEntry { return v.entries }

// Inner returns the wrapped value of a variant; nil for any other kind.
func (v Value) Inner() *Value { return v.inner }

// Constructors.

func NewBool(b bool) Value { return Value{typ: Boolean, b: b} }

func NewByte(n uint8) Value { return Value{typ: Byte, unsign: uint64(n)} }

func NewInt16(n int16) Value { return Value{typ: Int16, signed: int64(n)} }
func NewInt32(n int32) Value { return Value{typ: Int32, signed: int64(n)} }
func NewInt64(n int64) Value { return Value{typ: Int64, signed: n} }

func NewUint16(n uint16) Value { return Value{typ: Uint16, unsign: uint64(n)} }
func NewUint32(n uint32) Value { return Value{typ: Uint32, unsign: uint64(n)} }
func NewUint64(n uint64) Value { return Value{typ: Uint64, unsign: n} }
func NewUnixFD(n uint32) Value { return Value{typ: UnixFD, unsign: uint64(n)} }

func NewDouble(f float64) Value { return Value{typ: Double, f: f} }

func NewString(s string) Value     { return Value{typ: String, str: s} }
func NewObjectPath(s string) Value { return Value{typ: ObjectPath, str: s} }
func NewSignature(s string) Value  { return Value{typ: Signature, str: s} }

// NewVariant wraps inner in a KindVariant value.
func NewVariant(inner Value) Value {
	iv := inner
	return Value{typ: Variant, inner: &iv}
}

// NewArray builds an array value of the given element type. elemType must
// be a supertype of every item's type (the caller — evaluator or
// fuzzer — is responsible for having checked this).
func NewArray(elemType Type, items []Value) Value {
	cp := make([]Value, len(items))
	copy(cp, items)
	return Value{typ: ArrayOf(elemType), items: cp}
}

// NewTuple builds a tuple value from an ordered sequence of members.
func NewTuple(items []Value) Value {
	cp := make([]Value, len(items))
	copy(cp, items)
	ts := make([]Type, len(items))
	for i, it := range items {
		ts[i] = it.typ
	}
	return Value{typ: TupleOf(ts...), items: cp}
}

// NewDict builds a dict value with the declared key/value types.
func NewDict(keyType, valueType Type, entries []DictEntry) Value {
	cp := make([]DictEntry, len(entries))
	copy(cp, entries)
	return Value{typ: DictOf(keyType, valueType), entries: cp}
}

// Equal reports deep structural equality between v and other, including
// recursively through containers and variants. Dict equality is
// order-independent (a dict is conceptually a set of entries).
func (v Value) Equal(other Value) bool {
	if !Equal(v.typ, other.typ) {
		return false
	}
	switch v.typ.Kind {
	case KindBoolean:
		return v.b == other.b
	case KindByte, KindUint16, KindUint32, KindUint64, KindUnixFD:
		return v.unsign == other.unsign
	case KindInt16, KindInt32, KindInt64:
		return v.signed == other.signed
	case KindDouble:
		return v.f == other.f
	case KindString, KindObjectPath, KindSignature:
		return v.str == other.str
	case KindVariant:
		return v.inner.Equal(*other.inner)
	case KindArray, KindTuple:
		if len(v.items) != len(other.items) {
			return false
		}
		for i := range v.items {
			if !v.items[i].Equal(other.items[i]) {
				return false
			}
		}
		return true
	case KindDict:
		if len(v.entries) != len(other.entries) {
			return false
		}
		used := make([]bool, len(other.entries))
		for _, e := range v.entries {
			found := false
			for j, oe := range other.entries {
				if used[j] {
					continue
				}
				if e.Key.Equal(oe.Key) && e.Value.Equal(oe.Value) {
					used[j] = true
					found = true
					break
				}
			}
			if !found {
				return false
			}
		}
		return true
	default:
		return true
	}
}

// Compare provides a total order over values of the same basic type, used
// by the "<", "<=", ">", ">=" operators. The ordering of containers
// (lexicographic by element) is defined for completeness but arithmetic only
// requires it of basic types.
func (v Value) Compare(other Value) int {
	switch v.typ.Kind {
	case KindBoolean:
		if v.b == other.b {
			return 0
		}
		if !v.b {
			return -1
		}
		return 1
	case KindByte, KindUint16, KindUint32, KindUint64, KindUnixFD:
		switch {
		case v.unsign < other.unsign:
			return -1
		case v.unsign > other.unsign:
			return 1
		default:
			return 0
		}
	case KindInt16, KindInt32, KindInt64:
		switch {
		case v.signed < other.signed:
			return -1
		case v.signed > other.signed:
			return 1
		default:
			return 0
		}
	case KindDouble:
		switch {
		case v.f < other.f:
			return -1
		case v.f > other.f:
			return 1
		default:
			return 0
		}
	case KindString, KindObjectPath, KindSignature:
		return strings.Compare(v.str, other.str)
	case KindArray, KindTuple:
		n := len(v.items)
		if len(other.items) < n {
			n = len(other.items)
		}
		for i := 0; i < n; i++ {
			if c := v.items[i].Compare(other.items[i]); c != 0 {
				return c
			}
		}
		return len(v.items) - len(other.items)
	case KindVariant:
		return v.inner.Compare(*other.inner)
	default:
		return 0
	}
}

// String renders v in the simulation language's literal syntax, chosen so
// that parsing the result back (given the same declared type) reproduces
// an equal value — String output round-trips through the parser.
func (v Value) String() string {
	switch v.typ.Kind {
	case KindBoolean:
		if v.b {
			return "true"
		}
		return "false"
	case KindByte, KindUint16, KindUint32, KindUint64, KindUnixFD:
		return strconv.FormatUint(v.unsign, 10)
	case KindInt16, KindInt32, KindInt64:
		return strconv.FormatInt(v.signed, 10)
	case KindDouble:
		return strconv.FormatFloat(v.f, 'g', -1, 64)
	case KindString, KindObjectPath, KindSignature:
		return quoteString(v.str)
	case KindVariant:
		return "<" + v.inner.String() + ">"
	case KindArray:
		parts := make([]string, len(v.items))
		for i, it := range v.items {
			parts[i] = it.String()
		}
		return "[" + strings.Join(parts, ", ") + "]"
	case KindTuple:
		parts := make([]string, len(v.items))
		for i, it := range v.items {
			parts[i] = it.String()
		}
		if len(parts) == 1 {
			return "(" + parts[0] + ",)"
		}
		return "(" + strings.Join(parts, ", ") + ")"
	case KindDict:
		entries := make([]DictEntry, len(v.entries))
		copy(entries, v.entries)
		sort.Slice(entries, func(i, j int) bool {
			return entries[i].Key.String() < entries[j].Key.String()
		})
		parts := make([]string, len(entries))
		for i, e := range entries {
			parts[i] = e.Key.String() + ": " + e.Value.String()
		}
		return "{" + strings.Join(parts, ", ") + "}"
	default:
		return fmt.Sprintf("<invalid:%d>", v.typ.Kind)
	}
}

func quoteString(s string) string {
	var sb strings.Builder
	sb.WriteByte('"')
	for _, r := range s {
		switch r {
		case '"':
			sb.WriteString(`\"`)
		case '\\':
			sb.WriteString(`\\`)
		case '\n':
			sb.WriteString(`\n`)
		case '\t':
			sb.WriteString(`\t`)
		default:
			sb.WriteRune(r)
		}
	}
	sb.WriteByte('"')
	return sb.String()
}
