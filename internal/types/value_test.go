package types

import (
	"testing"

	"github.com/kr/pretty"
)

func TestValueEqual(t *testing.T) {
	a := NewArray(Int32, []Value{NewInt32(1), NewInt32(2)})
	b := NewArray(Int32, []Value{NewInt32(1), NewInt32(2)})
	c := NewArray(Int32, []Value{NewInt32(2), NewInt32(1)})
	if !a.Equal(b) {
		t.Fatalf("expected equal arrays")
	}
	if a.Equal(c) {
		t.Fatalf("expected unequal arrays (order matters for arrays)")
	}
}

func TestValueEqualDictIsOrderIndependent(t *testing.T) {
	d1 := NewDict(String, Int32, []DictEntry{
		{Key: NewString("a"), Value: NewInt32(1)},
		{Key: NewString("b"), Value: NewInt32(2)},
	})
	d2 := NewDict(String, Int32, []DictEntry{
		{Key: NewString("b"), Value: NewInt32(2)},
		{Key: NewString("a"), Value: NewInt32(1)},
	})
	if !d1.Equal(d2) {
		t.Fatalf("dict equality must ignore entry order")
	}
}

// TestValueEqualDictEntriesReportsPrettyDiffOnFailure compares two equal
// one-entry DictEntry slices with kr/pretty's Diff rather than
// Value.Equal, and reports the structural diff instead of a bare %v if
// they ever differ.
func TestValueEqualDictEntriesReportsPrettyDiffOnFailure(t *testing.T) {
	got := []DictEntry{{Key: NewString("a"), Value: NewInt32(1)}}
	want := []DictEntry{{Key: NewString("a"), Value: NewInt32(1)}}
	if diff := pretty.Diff(got, want); len(diff) != 0 {
		t.Fatalf("unexpected diff between equal entry slices: %v", diff)
	}
}

func TestValueCompare(t *testing.T) {
	if NewInt32(1).Compare(NewInt32(2)) >= 0 {
		t.Fatalf("1 should compare less than 2")
	}
	if NewString("a").Compare(NewString("b")) >= 0 {
		t.Fatalf(`"a" should compare less than "b"`)
	}
}

func TestValueStringIsNonEmpty(t *testing.T) {
	values := []Value{
		NewInt32(-5),
		NewUint32(5),
		NewBool(true),
		NewString("hi \"there\"\n"),
		NewDouble(1.5),
	}
	for _, v := range values {
		s := v.String()
		if s == "" {
			t.Fatalf("String() returned empty for %v", v)
		}
	}
}
