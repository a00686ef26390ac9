package random_test

import (
	"testing"

	"github.com/jenkify/jenkify/internal/random"
)

func TestGenerate_Length(t *testing.T) {
	for _, length := range []int{2, random.DefaultIDLength, random.DefaultTokenLength} {
		s, err := random.Generate(length)
		if err != nil {
			t.Fatalf("Generate(%d): %v", length, err)
		}
		if len(s) != length {
			t.Errorf("Generate(%d) returned %d chars", length, len(s))
		}
	}
}

func TestGenerate_HexAlphabet(t *testing.T) {
	s, err := random.Generate(random.DefaultTokenLength)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, r := range s {
		if !(r >= '0' && r <= '9' || r >= 'a' && r <= 'f') {
			t.Fatalf("non-hex character %q in %q", r, s)
		}
	}
}

func TestGenerate_Unique(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		s, err := random.Generate(random.DefaultIDLength)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if seen[s] {
			t.Fatalf("duplicate value %q", s)
		}
		seen[s] = true
	}
}

func TestGenerate_RejectsBadLengths(t *testing.T) {
	for _, length := range []int{0, -2, 1, 33} {
		if _, err := random.Generate(length); err == nil {
			t.Errorf("Generate(%d) succeeded, want error", length)
		}
	}
}
