package config

import (
	"strings"
	"testing"

	"github.com/hpungsan/mnemo/internal/memory"
)

func TestDefaultSettings(t *testing.T) {
	s := DefaultSettings()

	if !s.Enabled {
		t.Error("Enabled should default to true")
	}
	if s.PrivacyMode {
		t.Error("PrivacyMode should default to false")
	}
	if s.AutoStoreThreshold != 0.85 {
		t.Errorf("AutoStoreThreshold = %v, want 0.85", s.AutoStoreThreshold)
	}
	if s.SuggestionThreshold != 0.60 {
		t.Errorf("SuggestionThreshold = %v, want 0.60", s.SuggestionThreshold)
	}
	if s.MinContentLength != 50 {
		t.Errorf("MinContentLength = %d, want 50", s.MinContentLength)
	}
	if s.MaxSuggestionsPerSession != 5 {
		t.Errorf("MaxSuggestionsPerSession = %d, want 5", s.MaxSuggestionsPerSession)
	}
	if s.DuplicateSimThreshold != 0.8 {
		t.Errorf("DuplicateSimThreshold = %v, want 0.8", s.DuplicateSimThreshold)
	}
	if !s.LearnFromFeedback {
		t.Error("LearnFromFeedback should default to true")
	}
	if s.FeedbackWeight != 0.1 {
		t.Errorf("FeedbackWeight = %v, want 0.1", s.FeedbackWeight)
	}
}

func TestAutoStoreEnabled_DefaultsOn(t *testing.T) {
	s := DefaultSettings()

	if !s.AutoStoreEnabled(memory.CategoryPreference) {
		t.Error("nil toggle map should default to enabled")
	}

	s.AutoStore = map[memory.Category]bool{memory.CategorySolution: false}
	if s.AutoStoreEnabled(memory.CategorySolution) {
		t.Error("explicit false toggle should disable auto-store")
	}
	if !s.AutoStoreEnabled(memory.CategoryDecision) {
		t.Error("categories absent from the map should stay enabled")
	}
}

func TestAutoStoreThresholdFor(t *testing.T) {
	s := DefaultSettings()

	if got := s.AutoStoreThresholdFor(memory.CategoryPreference); got != 0.85 {
		t.Errorf("threshold = %v, want the global 0.85 without overrides", got)
	}

	s.CategoryThresholds = map[memory.Category]float64{memory.CategoryPreference: 0.95}
	if got := s.AutoStoreThresholdFor(memory.CategoryPreference); got != 0.95 {
		t.Errorf("threshold = %v, want the learned 0.95", got)
	}
	if got := s.AutoStoreThresholdFor(memory.CategoryDecision); got != 0.85 {
		t.Errorf("threshold = %v, want the global fallback for unlearned categories", got)
	}
}

func TestRuleFor_DynamicKeys(t *testing.T) {
	if _, ok := ruleFor(AutoStoreKey(memory.CategoryPattern)); !ok {
		t.Error("per-category toggle keys should validate")
	}
	if _, ok := ruleFor(ThresholdKey(memory.CategorySolution)); !ok {
		t.Error("per-category threshold keys should validate")
	}
	if _, ok := ruleFor(Prefix + "no_such_setting"); ok {
		t.Error("unknown keys should not validate")
	}
	if _, ok := ruleFor(AutoStoreKey(memory.CategoryLowValue)); ok {
		t.Error("low_value is not storable and gets no toggle key")
	}
}

func TestKnownKeys(t *testing.T) {
	keys := KnownKeys()

	// 9 static keys plus a toggle and a threshold per storable category.
	want := 9 + 2*len(memory.StorableCategories())
	if len(keys) != want {
		t.Errorf("got %d keys, want %d", len(keys), want)
	}
	for _, key := range keys {
		if !strings.HasPrefix(key, Prefix) {
			t.Errorf("key %q missing the %q prefix", key, Prefix)
		}
		if _, ok := ruleFor(key); !ok {
			t.Errorf("key %q has no validation rule", key)
		}
	}
}
