package ops

import (
	"context"
	"strings"

	"github.com/hpungsan/mnemo/internal/errors"
	"github.com/hpungsan/mnemo/internal/memory"
	"github.com/hpungsan/mnemo/internal/suggest"
)

// ApproveInput contains parameters for the Approve operation.
type ApproveInput struct {
	ID    string
	Edits *suggest.Edits // optional overrides applied at approval
}

// ApproveOutput contains the stored memory.
type ApproveOutput struct {
	Memory *memory.Memory `json:"memory"`
}

// Approve promotes a pending suggestion into durable storage.
func Approve(ctx context.Context, env *Env, input ApproveInput) (*ApproveOutput, error) {
	if strings.TrimSpace(input.ID) == "" {
		return nil, errors.NewInvalidRequest("id is required")
	}

	m, err := env.Suggestions.Approve(strings.TrimSpace(input.ID), input.Edits)
	if err != nil {
		return nil, err
	}

	return &ApproveOutput{Memory: m}, nil
}
