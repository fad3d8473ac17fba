package decision

import (
	"fmt"

	"github.com/hpungsan/mnemo/internal/analysis"
	"github.com/hpungsan/mnemo/internal/config"
	"github.com/hpungsan/mnemo/internal/memory"
)

// Outcome is the routing verdict for an analyzed sample.
type Outcome string

const (
	OutcomeAutoStore Outcome = "auto_store"
	OutcomeSuggest   Outcome = "suggest"
	OutcomeDiscard   Outcome = "discard"
)

// Decision pairs the routing outcome with the winning analysis result
// and a human-readable reason.
type Decision struct {
	Outcome Outcome          `json:"outcome"`
	Result  *analysis.Result `json:"result,omitempty"`
	Reason  string           `json:"reason"`
}

// Decide routes analysis results to an outcome. Pure: every input the
// verdict depends on is a parameter, so the same inputs always produce
// the same decision.
//
// Both threshold boundaries are inclusive: confidence equal to the
// suggestion threshold suggests, equal to the auto-store threshold
// auto-stores.
func Decide(results []analysis.Result, isDuplicate bool, settings config.Settings, sessionCount int) Decision {
	if !settings.Enabled {
		return Decision{Outcome: OutcomeDiscard, Reason: "intelligent storage disabled"}
	}
	if isDuplicate {
		return Decision{Outcome: OutcomeDiscard, Reason: "duplicate or low-value content"}
	}
	if len(results) == 0 {
		return Decision{Outcome: OutcomeDiscard, Reason: "no signal"}
	}

	best := pickBest(results)
	if best == nil {
		return Decision{Outcome: OutcomeDiscard, Reason: "no storable category matched"}
	}

	if best.Confidence < settings.SuggestionThreshold {
		return Decision{
			Outcome: OutcomeDiscard,
			Result:  best,
			Reason:  fmt.Sprintf("confidence %.2f below suggestion threshold %.2f", best.Confidence, settings.SuggestionThreshold),
		}
	}

	threshold := settings.AutoStoreThresholdFor(best.Category)
	if best.Confidence >= threshold && settings.AutoStoreEnabled(best.Category) && !settings.PrivacyMode {
		return Decision{
			Outcome: OutcomeAutoStore,
			Result:  best,
			Reason:  fmt.Sprintf("confidence %.2f meets auto-store threshold %.2f", best.Confidence, threshold),
		}
	}

	if sessionCount >= settings.MaxSuggestionsPerSession {
		return Decision{
			Outcome: OutcomeDiscard,
			Result:  best,
			Reason:  "suggestion cap reached for session",
		}
	}

	reason := fmt.Sprintf("confidence %.2f meets suggestion threshold %.2f", best.Confidence, settings.SuggestionThreshold)
	if settings.PrivacyMode && best.Confidence >= threshold {
		reason = "privacy mode downgrades auto-store to suggestion"
	}

	return Decision{Outcome: OutcomeSuggest, Result: best, Reason: reason}
}

// pickBest returns the highest-ranked storable result. Results arrive
// pre-sorted by confidence then category priority, so the first
// storable entry wins.
func pickBest(results []analysis.Result) *analysis.Result {
	for i := range results {
		if results[i].Category.Storable() {
			return &results[i]
		}
	}
	return nil
}

// Storable reports whether the decision leads to persisted content,
// either immediately or pending approval.
func (d Decision) Storable() bool {
	return d.Outcome == OutcomeAutoStore || d.Outcome == OutcomeSuggest
}

// Memory materializes the decision into a memory record for the given
// sample. Only meaningful for storable decisions with a result.
func (d Decision) Memory(id string, sample memory.Sample, createdAt int64) memory.Memory {
	m := memory.Memory{
		ID:         id,
		Text:       sample.Text,
		SourceTool: sample.SourceTool,
		ProjectID:  sample.ProjectID,
		SessionID:  sample.SessionID,
		CreatedAt:  createdAt,
	}
	if d.Result != nil {
		m.Category = d.Result.Category
		m.Confidence = d.Result.Confidence
		m.Fields = d.Result.Fields
	}
	return m
}
