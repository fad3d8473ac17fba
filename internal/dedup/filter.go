package dedup

import (
	"regexp"
	"strings"

	"github.com/hpungsan/mnemo/internal/memory"
)

// Scorer computes a similarity score in [0,1] between two texts. The
// filter only consumes the score, so callers can plug in an
// embedding-based scorer without touching the filter.
type Scorer interface {
	Score(a, b string) float64
}

// TokenOverlap is the default scorer: Jaccard similarity over the
// normalized word sets of both texts. Symmetric by construction.
type TokenOverlap struct{}

// Score implements Scorer.
func (TokenOverlap) Score(a, b string) float64 {
	setA := tokenSet(a)
	setB := tokenSet(b)
	if len(setA) == 0 && len(setB) == 0 {
		return 1.0
	}
	if len(setA) == 0 || len(setB) == 0 {
		return 0.0
	}

	intersection := 0
	for token := range setA {
		if setB[token] {
			intersection++
		}
	}
	union := len(setA) + len(setB) - intersection

	return float64(intersection) / float64(union)
}

func tokenSet(text string) map[string]bool {
	set := make(map[string]bool)
	for _, token := range strings.Fields(memory.Normalize(text)) {
		set[token] = true
	}
	return set
}

// Filter detects near-duplicate or low-value content against a recent
// window of stored and suggested texts.
type Filter struct {
	scorer Scorer
}

// NewFilter creates a Filter. A nil scorer falls back to TokenOverlap.
func NewFilter(scorer Scorer) *Filter {
	if scorer == nil {
		scorer = TokenOverlap{}
	}
	return &Filter{scorer: scorer}
}

// IsDuplicateOrLowValue reports whether the text is a near-duplicate of
// anything in the recent window (similarity >= threshold) or is
// spam-like filler. A true verdict forces discard downstream regardless
// of confidence.
func (f *Filter) IsDuplicateOrLowValue(text string, recent []string, threshold float64) bool {
	if isSpamLike(text) {
		return true
	}

	for _, existing := range recent {
		if f.scorer.Score(text, existing) >= threshold {
			return true
		}
	}

	return false
}

// punctuationOnly matches content with no letters or digits at all.
var punctuationOnly = regexp.MustCompile(`^[^\p{L}\p{N}]*$`)

// isSpamLike flags content that is mostly repetition or carries no
// words: such text can score well on keywords but has no storage value.
func isSpamLike(text string) bool {
	if punctuationOnly.MatchString(text) {
		return true
	}

	words := strings.Fields(memory.Normalize(text))
	if len(words) <= 10 {
		return false
	}

	unique := make(map[string]bool, len(words))
	for _, w := range words {
		unique[w] = true
	}

	// Heavy repetition: fewer than 30% unique words.
	return float64(len(unique))/float64(len(words)) < 0.3
}
