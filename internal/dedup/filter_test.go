package dedup

import (
	"math"
	"strings"
	"testing"
)

func TestTokenOverlap_Symmetric(t *testing.T) {
	scorer := TokenOverlap{}

	a := "we decided to use PostgreSQL for the main database"
	b := "the main database uses PostgreSQL as decided"

	ab := scorer.Score(a, b)
	ba := scorer.Score(b, a)
	if math.Abs(ab-ba) > 1e-12 {
		t.Errorf("Score(a,b) = %v, Score(b,a) = %v, want equal", ab, ba)
	}
}

func TestTokenOverlap_Identical(t *testing.T) {
	scorer := TokenOverlap{}

	if got := scorer.Score("use tabs not spaces", "use tabs not spaces"); got != 1.0 {
		t.Errorf("identical texts scored %v, want 1.0", got)
	}
	// Normalization differences should not matter.
	if got := scorer.Score("Use   Tabs not SPACES", "use tabs not spaces"); got != 1.0 {
		t.Errorf("case/whitespace variants scored %v, want 1.0", got)
	}
}

func TestTokenOverlap_Disjoint(t *testing.T) {
	scorer := TokenOverlap{}

	if got := scorer.Score("alpha beta gamma", "delta epsilon zeta"); got != 0.0 {
		t.Errorf("disjoint texts scored %v, want 0.0", got)
	}
}

func TestTokenOverlap_Empty(t *testing.T) {
	scorer := TokenOverlap{}

	if got := scorer.Score("", ""); got != 1.0 {
		t.Errorf("two empty texts scored %v, want 1.0", got)
	}
	if got := scorer.Score("something", ""); got != 0.0 {
		t.Errorf("empty vs non-empty scored %v, want 0.0", got)
	}
}

func TestFilter_DuplicateAtThreshold(t *testing.T) {
	f := NewFilter(nil)

	text := "always run golangci-lint before pushing to main"
	recent := []string{"always run golangci-lint before pushing to main"}

	// Exact duplicate scores 1.0, at or above any threshold <= 1.
	if !f.IsDuplicateOrLowValue(text, recent, 0.8) {
		t.Error("exact duplicate should be flagged")
	}
	// Boundary is inclusive: a score exactly at the threshold counts.
	if !f.IsDuplicateOrLowValue(text, recent, 1.0) {
		t.Error("score equal to threshold should be flagged")
	}
}

func TestFilter_DistinctContentPasses(t *testing.T) {
	f := NewFilter(nil)

	recent := []string{
		"we chose Redis for session caching because of TTL support",
		"the frontend build uses Vite with TypeScript strict mode",
	}

	text := "prefer table-driven tests for parser edge cases"
	if f.IsDuplicateOrLowValue(text, recent, 0.8) {
		t.Error("unrelated content should not be flagged")
	}
}

func TestFilter_EmptyWindow(t *testing.T) {
	f := NewFilter(nil)

	if f.IsDuplicateOrLowValue("we decided to use PostgreSQL for persistence", nil, 0.8) {
		t.Error("nothing to compare against, should not be flagged")
	}
}

func TestFilter_SpamLikeContent(t *testing.T) {
	f := NewFilter(nil)

	repeated := strings.Repeat("spam ham ", 20)
	if !f.IsDuplicateOrLowValue(repeated, nil, 0.8) {
		t.Error("heavily repeated content should be flagged")
	}

	if !f.IsDuplicateOrLowValue("!!! ??? ... ---", nil, 0.8) {
		t.Error("punctuation-only content should be flagged")
	}
}

func TestFilter_CustomScorer(t *testing.T) {
	// A scorer that flags everything proves the filter delegates.
	f := NewFilter(scorerFunc(func(a, b string) float64 { return 1.0 }))

	if !f.IsDuplicateOrLowValue("anything", []string{"else"}, 0.5) {
		t.Error("filter should use the injected scorer")
	}
}

type scorerFunc func(a, b string) float64

func (fn scorerFunc) Score(a, b string) float64 { return fn(a, b) }
