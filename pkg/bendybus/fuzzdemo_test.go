package bendybus

import (
	"testing"
)

func TestFuzzSampleProducesRequestedCount(t *testing.T) {
	samples, err := FuzzSample("s", 1, 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(samples) != 5 {
		t.Fatalf("expected 5 samples, got %d", len(samples))
	}
}

func TestFuzzSampleIsDeterministicForASeed(t *testing.T) {
	a, err := FuzzSample("ai", 7, 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	b, err := FuzzSample("ai", 7, 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("expected same seed to reproduce the same samples, got %q vs %q", a[i], b[i])
		}
	}
}

func TestFuzzSampleRejectsInvalidSignature(t *testing.T) {
	if _, err := FuzzSample("(", 1, 1); err == nil {
		t.Fatalf("expected an error for an invalid signature")
	}
}
