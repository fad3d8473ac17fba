package ops

import (
	"context"
	"strings"

	"github.com/hpungsan/mnemo/internal/errors"
	"github.com/hpungsan/mnemo/internal/memory"
)

// RejectInput contains parameters for the Reject operation.
type RejectInput struct {
	ID       string
	Feedback string // optional note stored with the rejection
}

// RejectOutput contains the rejected suggestion.
type RejectOutput struct {
	Suggestion *memory.Suggestion `json:"suggestion"`
}

// Reject declines a pending suggestion, feeding the learning loop.
func Reject(ctx context.Context, env *Env, input RejectInput) (*RejectOutput, error) {
	if strings.TrimSpace(input.ID) == "" {
		return nil, errors.NewInvalidRequest("id is required")
	}

	s, err := env.Suggestions.Reject(strings.TrimSpace(input.ID), strings.TrimSpace(input.Feedback))
	if err != nil {
		return nil, err
	}

	return &RejectOutput{Suggestion: s}, nil
}
