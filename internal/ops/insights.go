package ops

import (
	"context"

	"github.com/hpungsan/mnemo/internal/db"
	"github.com/hpungsan/mnemo/internal/memory"
)

// CategoryInsight summarizes the feedback history for one category.
type CategoryInsight struct {
	Approved  int     `json:"approved"`
	Rejected  int     `json:"rejected"`
	Expired   int     `json:"expired"`
	Pending   int     `json:"pending"`
	Threshold float64 `json:"effective_auto_store_threshold"`
	Learned   bool    `json:"learned"`
}

// InsightsOutput reports suggestion outcomes and the learned threshold
// state per category.
type InsightsOutput struct {
	Totals     map[string]int                      `json:"totals"`
	Categories map[memory.Category]CategoryInsight `json:"categories"`
}

// Insights reports how the feedback loop has shaped the engine: per
// category, how suggestions were decided and where the effective
// auto-store threshold now sits.
func Insights(ctx context.Context, env *Env) (*InsightsOutput, error) {
	totals, err := db.CountSuggestionsByStatus(env.DB, "")
	if err != nil {
		return nil, err
	}

	settings := env.Settings.Snapshot()

	categories := make(map[memory.Category]CategoryInsight)
	for _, c := range memory.StorableCategories() {
		counts, err := db.CountSuggestionsByStatus(env.DB, string(c))
		if err != nil {
			return nil, err
		}

		_, learned := settings.CategoryThresholds[c]
		categories[c] = CategoryInsight{
			Approved:  counts[string(memory.StatusApproved)],
			Rejected:  counts[string(memory.StatusRejected)],
			Expired:   counts[string(memory.StatusExpired)],
			Pending:   counts[string(memory.StatusPending)],
			Threshold: settings.AutoStoreThresholdFor(c),
			Learned:   learned,
		}
	}

	return &InsightsOutput{Totals: totals, Categories: categories}, nil
}
