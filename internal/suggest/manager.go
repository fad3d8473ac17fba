package suggest

import (
	"database/sql"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/hpungsan/mnemo/internal/analysis"
	"github.com/hpungsan/mnemo/internal/config"
	"github.com/hpungsan/mnemo/internal/db"
	"github.com/hpungsan/mnemo/internal/errors"
	"github.com/hpungsan/mnemo/internal/memory"
)

// Manager owns the suggestion lifecycle: creation under the per-session
// cap, approval into durable storage, rejection, and expiry of stale
// pending entries. Approve and Reject feed the learning loop that
// adjusts per-category auto-store thresholds.
type Manager struct {
	database *sql.DB
	settings *config.Store

	mu sync.Mutex
	// sessionCounts caches how many suggestions each session has ever
	// created. Lazily seeded from the suggestions table so the cap
	// survives restarts.
	sessionCounts map[string]int
}

// Edits are optional caller overrides applied at approval time.
type Edits struct {
	Text     string          `json:"text,omitempty"`
	Category memory.Category `json:"category,omitempty"`
	Fields   map[string]any  `json:"fields,omitempty"`
}

// NewManager creates a Manager backed by the given database and
// settings store.
func NewManager(database *sql.DB, settings *config.Store) *Manager {
	return &Manager{
		database:      database,
		settings:      settings,
		sessionCounts: make(map[string]int),
	}
}

// SessionCount returns how many suggestions the session has created so
// far, counting decided ones. The cap is on creation, not on what is
// still pending.
func (m *Manager) SessionCount(sessionID string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.sessionCountLocked(sessionID)
}

func (m *Manager) sessionCountLocked(sessionID string) (int, error) {
	if count, ok := m.sessionCounts[sessionID]; ok {
		return count, nil
	}
	count, err := db.CountSessionSuggestions(m.database, sessionID)
	if err != nil {
		return 0, err
	}
	m.sessionCounts[sessionID] = count
	return count, nil
}

// Create persists a new pending suggestion for the sample and result.
// The caller has already routed the sample through the decision policy;
// Create re-checks the session cap under the lock so two concurrent
// creates can't both slip under it.
func (m *Manager) Create(sample memory.Sample, result analysis.Result, reason string) (*memory.Suggestion, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	count, err := m.sessionCountLocked(sample.SessionID)
	if err != nil {
		return nil, err
	}
	if cap := m.settings.Snapshot().MaxSuggestionsPerSession; count >= cap {
		return nil, errors.NewInvalidRequest(
			fmt.Sprintf("session %s reached the suggestion cap (%d)", sample.SessionID, cap))
	}

	s := &memory.Suggestion{
		ID:         ulid.Make().String(),
		SessionID:  sample.SessionID,
		Text:       sample.Text,
		SourceTool: sample.SourceTool,
		ProjectID:  sample.ProjectID,
		Category:   result.Category,
		Confidence: result.Confidence,
		Fields:     result.Fields,
		Reason:     reason,
		Status:     memory.StatusPending,
		CreatedAt:  time.Now().Unix(),
	}

	if err := db.InsertSuggestion(m.database, s); err != nil {
		return nil, err
	}
	m.sessionCounts[sample.SessionID] = count + 1

	return s, nil
}

// Approve promotes a pending suggestion into a stored memory, applying
// any caller edits. Exactly one concurrent decision wins; the rest get
// a conflict carrying the suggestion's settled status.
func (m *Manager) Approve(id string, edits *Edits) (*memory.Memory, error) {
	s, err := db.GetSuggestion(m.database, id)
	if err != nil {
		return nil, err
	}
	if s.Status != memory.StatusPending {
		return nil, errors.NewConflict(id, string(s.Status))
	}

	if edits != nil && edits.Category != "" && !edits.Category.Storable() {
		return nil, errors.NewValidation("category",
			fmt.Sprintf("not a storable category: %s", edits.Category))
	}

	// The transition and the memory insert commit together: a failed
	// write rolls back and leaves the suggestion pending for a retry.
	tx, err := m.database.Begin()
	if err != nil {
		return nil, errors.NewInternal(err)
	}
	defer tx.Rollback() //nolint:errcheck

	won, err := db.TransitionSuggestion(tx, id, memory.StatusApproved, nil)
	if err != nil {
		return nil, err
	}
	if !won {
		return nil, m.conflictFor(id)
	}

	stored := &memory.Memory{
		ID:         ulid.Make().String(),
		Text:       s.Text,
		Category:   s.Category,
		Confidence: s.Confidence,
		Fields:     s.Fields,
		SourceTool: s.SourceTool,
		ProjectID:  s.ProjectID,
		SessionID:  s.SessionID,
		CreatedAt:  time.Now().Unix(),
	}
	if edits != nil {
		if edits.Text != "" {
			stored.Text = edits.Text
		}
		if edits.Category != "" {
			stored.Category = edits.Category
		}
		if edits.Fields != nil {
			stored.Fields = edits.Fields
		}
	}

	if err := db.InsertMemory(tx, stored); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, errors.NewStorageFault(err)
	}

	m.learn(stored.Category, true)

	return stored, nil
}

// Reject marks a pending suggestion rejected, recording an optional
// feedback note. Loses to any concurrent decision with a conflict.
func (m *Manager) Reject(id string, note string) (*memory.Suggestion, error) {
	s, err := db.GetSuggestion(m.database, id)
	if err != nil {
		return nil, err
	}
	if s.Status != memory.StatusPending {
		return nil, errors.NewConflict(id, string(s.Status))
	}

	var notePtr *string
	if note != "" {
		notePtr = &note
	}

	won, err := db.TransitionSuggestion(m.database, id, memory.StatusRejected, notePtr)
	if err != nil {
		return nil, err
	}
	if !won {
		return nil, m.conflictFor(id)
	}

	m.learn(s.Category, false)

	return db.GetSuggestion(m.database, id)
}

// ExpireStale transitions pending suggestions older than the retention
// period to expired. Idempotent: a second sweep over the same window
// finds nothing pending and expires zero. Races with concurrent
// approvals are lost quietly; the approval wins.
func (m *Manager) ExpireStale(retention time.Duration) (int, error) {
	cutoff := time.Now().Add(-retention).Unix()

	ids, err := db.StalePendingIDs(m.database, cutoff)
	if err != nil {
		return 0, err
	}

	expired := 0
	for _, id := range ids {
		won, err := db.TransitionSuggestion(m.database, id, memory.StatusExpired, nil)
		if err != nil {
			return expired, err
		}
		if won {
			expired++
		}
	}

	return expired, nil
}

// conflictFor builds the conflict error for a lost transition race,
// reporting the status the winner settled on.
func (m *Manager) conflictFor(id string) error {
	s, err := db.GetSuggestion(m.database, id)
	if err != nil {
		return errors.NewConflict(id, "decided")
	}
	return errors.NewConflict(id, string(s.Status))
}

// learn nudges the category's auto-store threshold after a decision:
// approvals lower it so similar content auto-stores sooner, rejections
// raise it so the engine suggests less of what the user refuses. The
// override stays within [suggestion_threshold, 1.0]. A failed write
// only costs the nudge, never the decision, so it is logged and dropped.
func (m *Manager) learn(category memory.Category, approved bool) {
	settings := m.settings.Snapshot()
	if !settings.LearnFromFeedback {
		return
	}

	current := settings.AutoStoreThresholdFor(category)
	next := current
	if approved {
		next -= settings.FeedbackWeight
		if next < settings.SuggestionThreshold {
			next = settings.SuggestionThreshold
		}
	} else {
		next += settings.FeedbackWeight
		if next > 1.0 {
			next = 1.0
		}
	}
	if next == current {
		return
	}

	if err := m.settings.Set(config.ThresholdKey(category), next); err != nil {
		log.Printf("suggest: feedback nudge for %s failed: %v", category, err)
	}
}
