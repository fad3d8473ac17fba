package ops

import (
	"context"
	"testing"
	"time"

	"github.com/hpungsan/mnemo/internal/db"
	"github.com/hpungsan/mnemo/internal/decision"
	"github.com/hpungsan/mnemo/internal/errors"
	"github.com/hpungsan/mnemo/internal/memory"
)

func TestCleanup_ExpiresStalePending(t *testing.T) {
	env := testEnv(t)
	ctx := context.Background()

	out := suggestText(t, env, preferenceText, "s1")
	if out.Outcome != decision.OutcomeSuggest {
		t.Fatalf("Outcome = %s, want suggest", out.Outcome)
	}

	// Backdate the suggestion past the retention window.
	tenDaysAgo := time.Now().Add(-10 * 24 * time.Hour).Unix()
	if _, err := env.DB.Exec(`UPDATE suggestions SET created_at = ? WHERE id = ?`, tenDaysAgo, out.Suggestion.ID); err != nil {
		t.Fatalf("backdate failed: %v", err)
	}

	result, err := Cleanup(ctx, env, CleanupInput{})
	if err != nil {
		t.Fatalf("Cleanup failed: %v", err)
	}
	if result.Expired != 1 {
		t.Errorf("Expired = %d, want 1", result.Expired)
	}
	if result.RetentionDays != env.Cfg.RetentionDays {
		t.Errorf("RetentionDays = %d, want the configured default %d", result.RetentionDays, env.Cfg.RetentionDays)
	}

	s, err := db.GetSuggestion(env.DB, out.Suggestion.ID)
	if err != nil {
		t.Fatalf("GetSuggestion failed: %v", err)
	}
	if s.Status != memory.StatusExpired {
		t.Errorf("Status = %s, want expired", s.Status)
	}

	// Idempotent: a second run expires nothing.
	result, err = Cleanup(ctx, env, CleanupInput{})
	if err != nil {
		t.Fatalf("second Cleanup failed: %v", err)
	}
	if result.Expired != 0 {
		t.Errorf("second run Expired = %d, want 0", result.Expired)
	}
}

func TestCleanup_KeepsFreshPending(t *testing.T) {
	env := testEnv(t)

	out := suggestText(t, env, preferenceText, "s1")
	if out.Outcome != decision.OutcomeSuggest {
		t.Fatalf("Outcome = %s, want suggest", out.Outcome)
	}

	result, err := Cleanup(context.Background(), env, CleanupInput{RetentionDays: 7})
	if err != nil {
		t.Fatalf("Cleanup failed: %v", err)
	}
	if result.Expired != 0 {
		t.Errorf("Expired = %d, want 0 for fresh suggestions", result.Expired)
	}
}

func TestCleanup_NegativeRetention(t *testing.T) {
	env := testEnv(t)

	_, err := Cleanup(context.Background(), env, CleanupInput{RetentionDays: -1})
	if !errors.Is(err, errors.ErrInvalidRequest) {
		t.Errorf("err = %v, want INVALID_REQUEST", err)
	}
}
