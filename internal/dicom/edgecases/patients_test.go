package edgecases

import (
	"math/rand/v2"
	"strings"
	"testing"
	"unicode/utf8"
)

func TestGenerateSpecialCharName(t *testing.T) {
	rng := rand.New(rand.NewPCG(42, 42))
	for i := 0; i < 20; i++ {
		name := GenerateSpecialCharName("M", rng)
		family, given, ok := strings.Cut(name, "^")
		if !ok || family == "" || given == "" {
			t.Fatalf("name %q is not Family^Given", name)
		}
		if !utf8.ValidString(name) {
			t.Errorf("name %q is not valid UTF-8", name)
		}
		if !strings.ContainsAny(name, "-'") && utf8.RuneCountInString(name) == len(name) {
			t.Errorf("name %q has no special character", name)
		}
	}

	a := GenerateSpecialCharName("F", rand.New(rand.NewPCG(7, 7)))
	b := GenerateSpecialCharName("F", rand.New(rand.NewPCG(7, 7)))
	if a != b {
		t.Errorf("same seed produced %q and %q", a, b)
	}
}

func TestGenerateLongPatientNameAndID(t *testing.T) {
	rng := rand.New(rand.NewPCG(42, 42))

	name := GenerateLongPatientName(rng)
	if len(name) < 50 || len(name) > LOMaxLength {
		t.Errorf("long name length = %d, want 50-%d: %s", len(name), LOMaxLength, name)
	}
	if !strings.Contains(name, "^") {
		t.Errorf("long name %q has no component separator", name)
	}

	if id := GenerateLongPatientID(rng); len(id) != LOMaxLength {
		t.Errorf("long ID length = %d, want %d", len(id), LOMaxLength)
	}
}

func TestGenerateVariedPatientID(t *testing.T) {
	tests := []struct {
		format IDFormat
		check  func(string) bool
	}{
		{IDDashed, func(id string) bool { return strings.Count(id, "-") == 2 }},
		{IDAlternated, func(id string) bool { return len(id) == 10 && id[0] >= 'A' && id[1] >= '0' && id[1] <= '9' }},
		{IDSpaced, func(id string) bool { return strings.Count(id, " ") == 2 }},
		{IDSlashed, func(id string) bool { return strings.HasPrefix(id, "RT/") && strings.Count(id, "/") == 2 }},
		{IDMixed, func(id string) bool { return strings.HasPrefix(id, "PT-") && strings.Contains(id, " ") }},
	}
	rng := rand.New(rand.NewPCG(42, 42))
	for _, tt := range tests {
		if id := GenerateVariedPatientID(tt.format, rng); !tt.check(id) {
			t.Errorf("format %d produced %q", tt.format, id)
		}
	}

	for i := 0; i < 50; i++ {
		if GenerateRandomVariedPatientID(rng) == "" {
			t.Fatal("generated an empty ID")
		}
	}
}
