package config

import (
	"database/sql"
	"fmt"
	"log"
	"strconv"
	"sync"

	"github.com/hpungsan/mnemo/internal/db"
	"github.com/hpungsan/mnemo/internal/errors"
	"github.com/hpungsan/mnemo/internal/memory"
)

// Store is the persisted engine configuration: a cached view over the
// settings table. Values are validated at the Set boundary and never
// silently clamped. Reads go through Snapshot so every decision sees a
// consistent set of thresholds.
type Store struct {
	database *sql.DB

	mu    sync.RWMutex
	cache map[string]string
}

// NewStore loads the persisted settings into the cache.
func NewStore(database *sql.DB) (*Store, error) {
	cache, err := db.AllSettings(database)
	if err != nil {
		return nil, err
	}
	return &Store{database: database, cache: cache}, nil
}

// Get returns the effective value for a key and whether it was
// explicitly set. Unset keys return their documented default.
func (s *Store) Get(key string) (any, bool, error) {
	r, ok := ruleFor(key)
	if !ok {
		return nil, false, errors.NewInvalidRequest(fmt.Sprintf("unknown setting: %s", key))
	}

	s.mu.RLock()
	raw, set := s.cache[key]
	s.mu.RUnlock()

	if !set {
		return defaultValue(key, r), false, nil
	}

	value, err := parseValue(key, raw, r)
	if err != nil {
		// A corrupt stored value falls back to the default rather than
		// failing the read.
		log.Printf("settings: unreadable value for %s, using default: %v", key, err)
		return defaultValue(key, r), false, nil
	}
	return value, true, nil
}

// Set validates and persists a setting. Values arrive as their declared
// type or as strings (from the CLI); out-of-range values are rejected.
func (s *Store) Set(key string, value any) error {
	r, ok := ruleFor(key)
	if !ok {
		return errors.NewInvalidRequest(fmt.Sprintf("unknown setting: %s", key))
	}

	raw, err := encodeValue(key, value, r)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// Threshold ordering invariant: suggestion_threshold <= auto_store_threshold.
	if err := s.checkThresholdOrderLocked(key, raw); err != nil {
		return err
	}

	if err := db.SetSetting(s.database, key, raw); err != nil {
		return err
	}
	s.cache[key] = raw

	// Raising suggestion_threshold lifts any learned per-category
	// override sitting below the new floor, keeping every override
	// within [suggestion_threshold, 1.0].
	if key == KeySuggestionThreshold {
		if floor, err := strconv.ParseFloat(raw, 64); err == nil {
			if err := s.raiseLearnedFloorLocked(floor); err != nil {
				return err
			}
		}
	}
	return nil
}

// raiseLearnedFloorLocked rewrites learned category thresholds below the
// floor. Caller holds s.mu.
func (s *Store) raiseLearnedFloorLocked(floor float64) error {
	for _, c := range memory.StorableCategories() {
		key := ThresholdKey(c)
		raw, ok := s.cache[key]
		if !ok {
			continue
		}
		current, err := strconv.ParseFloat(raw, 64)
		if err != nil || current >= floor {
			continue
		}
		lifted := strconv.FormatFloat(floor, 'g', -1, 64)
		if err := db.SetSetting(s.database, key, lifted); err != nil {
			return err
		}
		s.cache[key] = lifted
	}
	return nil
}

// Reset deletes every engine setting, restoring documented defaults.
// Returns the number of settings removed.
func (s *Store) Reset() (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed, err := db.DeleteSettingsPrefix(s.database, Prefix)
	if err != nil {
		return 0, err
	}
	s.cache = make(map[string]string)
	return removed, nil
}

// Snapshot builds an immutable Settings value from the cached state.
// Taken once per pipeline run so no decision reads half-updated values.
func (s *Store) Snapshot() Settings {
	s.mu.RLock()
	defer s.mu.RUnlock()

	settings := DefaultSettings()

	settings.Enabled = s.boolLocked(KeyEnabled, settings.Enabled)
	settings.PrivacyMode = s.boolLocked(KeyPrivacyMode, settings.PrivacyMode)
	settings.AutoStoreThreshold = s.floatLocked(KeyAutoStoreThreshold, settings.AutoStoreThreshold)
	settings.SuggestionThreshold = s.floatLocked(KeySuggestionThreshold, settings.SuggestionThreshold)
	settings.MinContentLength = s.intLocked(KeyMinContentLength, settings.MinContentLength)
	settings.MaxSuggestionsPerSession = s.intLocked(KeyMaxSuggestionsPerSess, settings.MaxSuggestionsPerSession)
	settings.DuplicateSimThreshold = s.floatLocked(KeyDuplicateSimThreshold, settings.DuplicateSimThreshold)
	settings.LearnFromFeedback = s.boolLocked(KeyLearnFromFeedback, settings.LearnFromFeedback)
	settings.FeedbackWeight = s.floatLocked(KeyFeedbackWeight, settings.FeedbackWeight)

	settings.AutoStore = make(map[memory.Category]bool)
	settings.CategoryThresholds = make(map[memory.Category]float64)
	for _, c := range memory.StorableCategories() {
		settings.AutoStore[c] = s.boolLocked(AutoStoreKey(c), true)
		if raw, ok := s.cache[ThresholdKey(c)]; ok {
			if t, err := strconv.ParseFloat(raw, 64); err == nil {
				settings.CategoryThresholds[c] = t
			}
		}
	}

	return settings
}

// All returns the effective value of every known setting.
func (s *Store) All() map[string]any {
	values := make(map[string]any)
	for _, key := range KnownKeys() {
		if value, _, err := s.Get(key); err == nil {
			values[key] = value
		}
	}
	return values
}

// checkThresholdOrderLocked rejects a threshold write that would break
// suggestion_threshold <= auto_store_threshold. Caller holds s.mu.
func (s *Store) checkThresholdOrderLocked(key, raw string) error {
	switch key {
	case KeyAutoStoreThreshold:
		newVal, _ := strconv.ParseFloat(raw, 64)
		suggestion := s.floatLocked(KeySuggestionThreshold, DefaultSettings().SuggestionThreshold)
		if newVal < suggestion {
			return errors.NewValidation(key,
				fmt.Sprintf("must be >= suggestion_threshold (%.2f)", suggestion))
		}
	case KeySuggestionThreshold:
		newVal, _ := strconv.ParseFloat(raw, 64)
		autoStore := s.floatLocked(KeyAutoStoreThreshold, DefaultSettings().AutoStoreThreshold)
		if newVal > autoStore {
			return errors.NewValidation(key,
				fmt.Sprintf("must be <= auto_store_threshold (%.2f)", autoStore))
		}
	}
	return nil
}

func (s *Store) boolLocked(key string, fallback bool) bool {
	raw, ok := s.cache[key]
	if !ok {
		return fallback
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return fallback
	}
	return v
}

func (s *Store) floatLocked(key string, fallback float64) float64 {
	raw, ok := s.cache[key]
	if !ok {
		return fallback
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return fallback
	}
	return v
}

func (s *Store) intLocked(key string, fallback int) int {
	raw, ok := s.cache[key]
	if !ok {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return v
}

// defaultValue returns the documented default for a key.
func defaultValue(key string, r rule) any {
	d := DefaultSettings()
	switch key {
	case KeyEnabled:
		return d.Enabled
	case KeyPrivacyMode:
		return d.PrivacyMode
	case KeyAutoStoreThreshold:
		return d.AutoStoreThreshold
	case KeySuggestionThreshold:
		return d.SuggestionThreshold
	case KeyMinContentLength:
		return d.MinContentLength
	case KeyMaxSuggestionsPerSess:
		return d.MaxSuggestionsPerSession
	case KeyDuplicateSimThreshold:
		return d.DuplicateSimThreshold
	case KeyLearnFromFeedback:
		return d.LearnFromFeedback
	case KeyFeedbackWeight:
		return d.FeedbackWeight
	}
	// Per-category keys: toggles default on, learned thresholds default
	// to the global auto-store threshold.
	switch r.kind {
	case kindBool:
		return true
	case kindFloat:
		return d.AutoStoreThreshold
	}
	return nil
}

// encodeValue coerces and validates a value for storage.
func encodeValue(key string, value any, r rule) (string, error) {
	switch r.kind {
	case kindBool:
		b, err := coerceBool(value)
		if err != nil {
			return "", errors.NewValidation(key, "must be a boolean")
		}
		return strconv.FormatBool(b), nil

	case kindFloat:
		f, err := coerceFloat(value)
		if err != nil {
			return "", errors.NewValidation(key, "must be a number")
		}
		if f < r.min || f > r.max {
			return "", errors.NewValidation(key,
				fmt.Sprintf("must be between %g and %g", r.min, r.max))
		}
		return strconv.FormatFloat(f, 'g', -1, 64), nil

	case kindInt:
		n, err := coerceInt(value)
		if err != nil {
			return "", errors.NewValidation(key, "must be an integer")
		}
		if float64(n) < r.min || float64(n) > r.max {
			return "", errors.NewValidation(key,
				fmt.Sprintf("must be between %d and %d", int(r.min), int(r.max)))
		}
		return strconv.Itoa(n), nil
	}
	return "", errors.NewInternal(fmt.Errorf("unhandled setting kind for %s", key))
}

// parseValue decodes a stored string into its declared type.
func parseValue(key, raw string, r rule) (any, error) {
	switch r.kind {
	case kindBool:
		return strconv.ParseBool(raw)
	case kindFloat:
		return strconv.ParseFloat(raw, 64)
	case kindInt:
		return strconv.Atoi(raw)
	}
	return nil, fmt.Errorf("unhandled setting kind for %s", key)
}

func coerceBool(value any) (bool, error) {
	switch v := value.(type) {
	case bool:
		return v, nil
	case string:
		return strconv.ParseBool(v)
	}
	return false, fmt.Errorf("not a boolean: %v", value)
}

func coerceFloat(value any) (float64, error) {
	switch v := value.(type) {
	case float64:
		return v, nil
	case int:
		return float64(v), nil
	case string:
		return strconv.ParseFloat(v, 64)
	}
	return 0, fmt.Errorf("not a number: %v", value)
}

func coerceInt(value any) (int, error) {
	switch v := value.(type) {
	case int:
		return v, nil
	case float64:
		if v != float64(int(v)) {
			return 0, fmt.Errorf("not an integer: %v", v)
		}
		return int(v), nil
	case string:
		return strconv.Atoi(v)
	}
	return 0, fmt.Errorf("not an integer: %v", value)
}
