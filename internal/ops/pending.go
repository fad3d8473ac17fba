package ops

import (
	"context"
	"strings"

	"github.com/hpungsan/mnemo/internal/db"
	"github.com/hpungsan/mnemo/internal/memory"
)

// PendingInput contains parameters for the Pending operation.
type PendingInput struct {
	SessionID string // optional: restrict to one session
}

// PendingOutput lists pending suggestions, newest first.
type PendingOutput struct {
	Suggestions []memory.Suggestion `json:"suggestions"`
	Count       int                 `json:"count"`
}

// Pending lists suggestions awaiting a decision.
func Pending(ctx context.Context, env *Env, input PendingInput) (*PendingOutput, error) {
	suggestions, err := db.ListSuggestions(env.DB, memory.StatusPending, strings.TrimSpace(input.SessionID))
	if err != nil {
		return nil, err
	}

	return &PendingOutput{
		Suggestions: suggestions,
		Count:       len(suggestions),
	}, nil
}
