package textutil

import (
	"math"
	"testing"
)

func TestSanitizeFileName(t *testing.T) {
	tests := map[string]string{
		"Spinward Marches": "Spinward Marches",
		"  Deneb  ":        "Deneb",
		"Ley/Sector":       "Ley-Sector",
		"What?<>|\"":       "What",
		"../escape":        "-escape",
		"C:\\Sector":       "C--Sector",
		"":                 "",
	}
	for input, want := range tests {
		if got := SanitizeFileName(input); got != want {
			t.Errorf("SanitizeFileName(%q) = %q, want %q", input, got, want)
		}
	}
}

func TestCosineSimilarityIdentical(t *testing.T) {
	a := NewFingerprint("Spinward Marches")
	b := NewFingerprint("spinward   marches")
	if got := CosineSimilarity(a, b); math.Abs(got-1) > 1e-9 {
		t.Fatalf("CosineSimilarity(identical) = %v, want 1", got)
	}
}

func TestCosineSimilarityNil(t *testing.T) {
	if got := CosineSimilarity(nil, NewFingerprint("Deneb")); got != 0 {
		t.Fatalf("expected 0 for nil fingerprint, got %v", got)
	}
	if NewFingerprint("  --  ") != nil {
		t.Fatal("expected nil fingerprint for punctuation-only text")
	}
}

func TestSuggestNamesRanksClosestFirst(t *testing.T) {
	candidates := []string{"Deneb", "Trojan Reach", "Spinward Marches", "Solomani Rim", "Spica"}
	got := SuggestNames("spinward marchs", candidates, 2)
	if len(got) == 0 || got[0] != "Spinward Marches" {
		t.Fatalf("expected Spinward Marches first, got %v", got)
	}
	if len(got) > 2 {
		t.Fatalf("limit not honoured: %v", got)
	}
}

func TestSuggestNamesNoMatch(t *testing.T) {
	if got := SuggestNames("zzzz", []string{"Deneb", "Core"}, 3); len(got) != 0 {
		t.Fatalf("expected no suggestions, got %v", got)
	}
	if got := SuggestNames("Deneb", []string{"Deneb"}, 0); got != nil {
		t.Fatalf("expected nil for zero limit, got %v", got)
	}
}
