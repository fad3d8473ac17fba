package analysis

import (
	"log"
	"sort"
	"strings"

	"github.com/hpungsan/mnemo/internal/config"
	"github.com/hpungsan/mnemo/internal/memory"
)

// Result is the analyzer's verdict for one category: how confident the
// engine is that the sample carries storable value of that kind, which
// heuristics fired, and the structured fields pulled out of the text.
type Result struct {
	Category   memory.Category `json:"category"`
	Confidence float64         `json:"confidence"`
	Fields     map[string]any  `json:"fields,omitempty"`
	Signals    []string        `json:"signals,omitempty"`
}

// Analyze classifies a sample into zero or more categories, highest
// confidence first (ties broken by category priority). It is a pure
// function of the sample and settings: no I/O, safe to call
// concurrently across samples.
//
// Internal faults never propagate: the analyzer recovers, logs, and
// returns no results, which downstream treats as "no signal" (discard,
// never auto-store).
func Analyze(sample memory.Sample, settings config.Settings) (results []Result) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("analysis: recovered from fault, treating as no signal: %v", r)
			results = nil
		}
	}()

	trimmed := strings.TrimSpace(sample.Text)
	if trimmed == "" || memory.CountChars(trimmed) < settings.MinContentLength {
		return nil
	}

	// Explicit storage requests bypass scoring entirely.
	for _, pattern := range explicitPatterns {
		if pattern.MatchString(trimmed) {
			return []Result{{
				Category:   memory.CategoryExplicit,
				Confidence: 1.0,
				Fields: map[string]any{
					"request_type": "explicit",
					"user_intent":  "remember_for_later",
				},
				Signals: []string{"explicit_request"},
			}}
		}
	}

	// Content with no technical substance scores near zero so the
	// decision policy discards it.
	for _, pattern := range lowValuePatterns {
		if pattern.MatchString(trimmed) {
			return []Result{{
				Category:   memory.CategoryLowValue,
				Confidence: minSignal,
				Signals:    []string{"low_value"},
			}}
		}
	}

	// Content-level bonuses apply to every matched category.
	var bonus float64
	var bonusSignals []string
	if memory.CountChars(trimmed) > lengthBonusChars {
		bonus += lengthBonus
		bonusSignals = append(bonusSignals, "content_length")
	}
	if hasCodeContent(trimmed) {
		bonus += codeBonus
		bonusSignals = append(bonusSignals, "code_block")
	}
	if hasQuestionAnswerShape(trimmed) {
		bonus += questionAnswerBonus
		bonusSignals = append(bonusSignals, "question_answer")
	}

	lower := strings.ToLower(trimmed)
	for category, h := range heuristics {
		base, signals := baseScore(trimmed, lower, h)
		if base < minSignal {
			continue
		}

		confidence := clamp(base + bonus)
		result := Result{
			Category:   category,
			Confidence: confidence,
			Signals:    append(signals, bonusSignals...),
		}

		// Extraction below the suggestion threshold is wasted work:
		// the result would be discarded anyway.
		if confidence >= settings.SuggestionThreshold {
			result.Fields = h.extract(trimmed)
		}

		results = append(results, result)
	}

	sort.Slice(results, func(i, j int) bool {
		if results[i].Confidence != results[j].Confidence {
			return results[i].Confidence > results[j].Confidence
		}
		return results[i].Category.Priority() > results[j].Category.Priority()
	})

	return results
}

// baseScore computes the pre-bonus score for one category: pattern
// coverage plus tiered keyword hits.
func baseScore(text, lower string, h heuristic) (float64, []string) {
	var score float64
	var signals []string

	matches := 0
	for _, pattern := range h.patterns {
		if pattern.MatchString(text) {
			matches++
		}
	}
	if matches > 0 {
		score += patternMatchWeight * ratio(matches, len(h.patterns))
		signals = append(signals, "pattern_match")
	}

	for _, tier := range []struct {
		name   string
		weight float64
		words  []string
	}{
		{"keyword_high", keywordHighWeight, h.keywords.high},
		{"keyword_medium", keywordMediumWeight, h.keywords.medium},
		{"keyword_low", keywordLowWeight, h.keywords.low},
	} {
		hits := 0
		for _, word := range tier.words {
			if strings.Contains(lower, word) {
				hits++
			}
		}
		if hits > 0 {
			score += tier.weight * tierRatio(hits)
			signals = append(signals, tier.name)
		}
	}

	return score, signals
}

// ratio returns hits/total capped at 1.
func ratio(hits, total int) float64 {
	r := float64(hits) / float64(total)
	if r > 1 {
		return 1
	}
	return r
}

// tierRatio saturates keyword scoring at three hits: real content
// rarely matches more, and one tier shouldn't need every keyword to
// reach full weight.
func tierRatio(hits int) float64 {
	if hits >= 3 {
		return 1
	}
	return float64(hits) / 3
}

func clamp(v float64) float64 {
	if v > 1 {
		return 1
	}
	if v < 0 {
		return 0
	}
	return v
}
