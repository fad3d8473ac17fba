package ops

import (
	"context"
	"testing"

	"github.com/hpungsan/mnemo/internal/decision"
)

func TestPending_SessionFilter(t *testing.T) {
	env := testEnv(t)
	ctx := context.Background()

	a := suggestText(t, env, preferenceText, "session-a")
	if a.Outcome != decision.OutcomeSuggest {
		t.Fatalf("Outcome = %s, want suggest", a.Outcome)
	}
	b := suggestText(t, env, "I always use strict mode and prefer explicit return types in TypeScript functions", "session-b")
	if b.Outcome != decision.OutcomeSuggest {
		t.Fatalf("Outcome = %s, want suggest", b.Outcome)
	}

	all, err := Pending(ctx, env, PendingInput{})
	if err != nil {
		t.Fatalf("Pending failed: %v", err)
	}
	if all.Count != 2 {
		t.Errorf("all Count = %d, want 2", all.Count)
	}

	onlyA, err := Pending(ctx, env, PendingInput{SessionID: "session-a"})
	if err != nil {
		t.Fatalf("Pending failed: %v", err)
	}
	if onlyA.Count != 1 {
		t.Fatalf("session-a Count = %d, want 1", onlyA.Count)
	}
	if onlyA.Suggestions[0].SessionID != "session-a" {
		t.Errorf("SessionID = %q, want session-a", onlyA.Suggestions[0].SessionID)
	}
}

func TestPending_ExcludesDecided(t *testing.T) {
	env := testEnv(t)
	ctx := context.Background()

	out := suggestText(t, env, preferenceText, "s1")
	if _, err := Approve(ctx, env, ApproveInput{ID: out.Suggestion.ID}); err != nil {
		t.Fatalf("Approve failed: %v", err)
	}

	pending, err := Pending(ctx, env, PendingInput{})
	if err != nil {
		t.Fatalf("Pending failed: %v", err)
	}
	if pending.Count != 0 {
		t.Errorf("Count = %d, want 0 after approval", pending.Count)
	}
}
