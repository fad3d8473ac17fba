package ops

import (
	"context"
	"time"

	"github.com/hpungsan/mnemo/internal/errors"
)

// CleanupInput contains parameters for the Cleanup operation.
type CleanupInput struct {
	RetentionDays int // 0 means the configured default
}

// CleanupOutput reports how many suggestions were expired.
type CleanupOutput struct {
	Expired       int `json:"expired"`
	RetentionDays int `json:"retention_days"`
}

// Cleanup expires pending suggestions older than the retention period.
// Safe to run repeatedly: an already-swept window expires zero.
func Cleanup(ctx context.Context, env *Env, input CleanupInput) (*CleanupOutput, error) {
	days := input.RetentionDays
	if days == 0 {
		days = env.Cfg.RetentionDays
	}
	if days < 0 {
		return nil, errors.NewInvalidRequest("retention_days must not be negative")
	}

	expired, err := env.Suggestions.ExpireStale(time.Duration(days) * 24 * time.Hour)
	if err != nil {
		return nil, err
	}

	return &CleanupOutput{Expired: expired, RetentionDays: days}, nil
}
