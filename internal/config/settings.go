package config

import (
	"github.com/hpungsan/mnemo/internal/memory"
)

// Prefix namespaces every engine setting key.
const Prefix = "intelligent_storage."

// Setting keys. Values round-trip as their declared types.
const (
	KeyEnabled               = Prefix + "enabled"
	KeyPrivacyMode           = Prefix + "privacy_mode"
	KeyAutoStoreThreshold    = Prefix + "auto_store_threshold"
	KeySuggestionThreshold   = Prefix + "suggestion_threshold"
	KeyMinContentLength      = Prefix + "min_content_length"
	KeyMaxSuggestionsPerSess = Prefix + "max_suggestions_per_session"
	KeyDuplicateSimThreshold = Prefix + "duplicate_similarity_threshold"
	KeyLearnFromFeedback     = Prefix + "learn_from_feedback"
	KeyFeedbackWeight        = Prefix + "feedback_weight"
)

// AutoStoreKey returns the per-category auto-store toggle key.
func AutoStoreKey(c memory.Category) string {
	return Prefix + "auto_store_" + string(c)
}

// ThresholdKey returns the per-category learned threshold override key.
// The learning feedback loop mutates these; the base thresholds above
// stay pristine.
func ThresholdKey(c memory.Category) string {
	return Prefix + string(c) + "_threshold"
}

// Settings is an immutable snapshot of the engine configuration. Pure
// functions (analyze, decide) take it as a value so a decision never
// observes half-updated thresholds.
type Settings struct {
	Enabled                  bool
	PrivacyMode              bool
	AutoStoreThreshold       float64
	SuggestionThreshold      float64
	MinContentLength         int
	MaxSuggestionsPerSession int
	DuplicateSimThreshold    float64
	LearnFromFeedback        bool
	FeedbackWeight           float64

	// AutoStore holds per-category auto-store toggles. Missing entries
	// default to enabled.
	AutoStore map[memory.Category]bool

	// CategoryThresholds holds learned per-category auto-store
	// threshold overrides. Missing entries fall back to
	// AutoStoreThreshold.
	CategoryThresholds map[memory.Category]float64
}

// DefaultSettings returns the documented engine defaults.
func DefaultSettings() Settings {
	return Settings{
		Enabled:                  true,
		PrivacyMode:              false,
		AutoStoreThreshold:       0.85,
		SuggestionThreshold:      0.60,
		MinContentLength:         50,
		MaxSuggestionsPerSession: 5,
		DuplicateSimThreshold:    0.8,
		LearnFromFeedback:        true,
		FeedbackWeight:           0.1,
	}
}

// AutoStoreEnabled reports whether the category's auto-store toggle is on.
func (s Settings) AutoStoreEnabled(c memory.Category) bool {
	if s.AutoStore == nil {
		return true
	}
	enabled, ok := s.AutoStore[c]
	if !ok {
		return true
	}
	return enabled
}

// AutoStoreThresholdFor returns the effective auto-store threshold for a
// category: the learned override when one exists, the global threshold
// otherwise. Toggles and learned thresholds are independent axes: a
// disabled toggle does not stop learning from adjusting the override.
func (s Settings) AutoStoreThresholdFor(c memory.Category) float64 {
	if s.CategoryThresholds != nil {
		if t, ok := s.CategoryThresholds[c]; ok {
			return t
		}
	}
	return s.AutoStoreThreshold
}

// valueKind describes the declared type of a setting.
type valueKind int

const (
	kindBool valueKind = iota
	kindFloat
	kindInt
)

// rule validates one setting key.
type rule struct {
	kind valueKind
	min  float64
	max  float64
}

// rules maps static setting keys to their validation rules.
var rules = map[string]rule{
	KeyEnabled:               {kind: kindBool},
	KeyPrivacyMode:           {kind: kindBool},
	KeyAutoStoreThreshold:    {kind: kindFloat, min: 0, max: 1},
	KeySuggestionThreshold:   {kind: kindFloat, min: 0, max: 1},
	KeyMinContentLength:      {kind: kindInt, min: 0, max: 10000},
	KeyMaxSuggestionsPerSess: {kind: kindInt, min: 0, max: 100},
	KeyDuplicateSimThreshold: {kind: kindFloat, min: 0, max: 1},
	KeyLearnFromFeedback:     {kind: kindBool},
	KeyFeedbackWeight:        {kind: kindFloat, min: 0, max: 1},
}

// ruleFor resolves the validation rule for a key, including the dynamic
// per-category keys. Returns false for unknown keys.
func ruleFor(key string) (rule, bool) {
	if r, ok := rules[key]; ok {
		return r, true
	}
	for _, c := range memory.StorableCategories() {
		switch key {
		case AutoStoreKey(c):
			return rule{kind: kindBool}, true
		case ThresholdKey(c):
			return rule{kind: kindFloat, min: 0, max: 1}, true
		}
	}
	return rule{}, false
}

// KnownKeys lists every valid setting key: the static keys plus the
// per-category toggles and threshold overrides.
func KnownKeys() []string {
	keys := []string{
		KeyEnabled,
		KeyPrivacyMode,
		KeyAutoStoreThreshold,
		KeySuggestionThreshold,
		KeyMinContentLength,
		KeyMaxSuggestionsPerSess,
		KeyDuplicateSimThreshold,
		KeyLearnFromFeedback,
		KeyFeedbackWeight,
	}
	for _, c := range memory.StorableCategories() {
		keys = append(keys, AutoStoreKey(c), ThresholdKey(c))
	}
	return keys
}
