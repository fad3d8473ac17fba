package ops

import (
	"context"
	"time"

	"github.com/hpungsan/mnemo/internal/analysis"
	"github.com/hpungsan/mnemo/internal/db"
	"github.com/hpungsan/mnemo/internal/decision"
	"github.com/hpungsan/mnemo/internal/errors"
	"github.com/hpungsan/mnemo/internal/memory"
)

// SuggestInput contains parameters for the Suggest operation.
type SuggestInput struct {
	Text       string
	SourceTool string
	ProjectID  string
	SessionID  string
}

// SuggestOutput reports what the engine did with the sample.
type SuggestOutput struct {
	Outcome    decision.Outcome   `json:"outcome"`
	Reason     string             `json:"reason"`
	Category   memory.Category    `json:"category,omitempty"`
	Confidence float64            `json:"confidence,omitempty"`
	MemoryID   string             `json:"memory_id,omitempty"`
	Suggestion *memory.Suggestion `json:"suggestion,omitempty"`
	Warning    string             `json:"warning,omitempty"`
}

// Suggest runs the full pipeline: classify, filter duplicates, route,
// and act. Auto-stored content returns the new memory id; suggested
// content returns the pending suggestion; discarded content returns
// only the reason.
//
// The settings snapshot is taken once at the top so the whole run sees
// one consistent configuration.
func Suggest(ctx context.Context, env *Env, input SuggestInput) (*SuggestOutput, error) {
	sample, err := buildSample(input.Text, input.SourceTool, input.ProjectID, input.SessionID)
	if err != nil {
		return nil, err
	}

	settings := env.Settings.Snapshot()
	results := analysis.Analyze(sample, settings)

	recent, err := db.RecentTexts(env.DB, env.Cfg.RecentWindow)
	if err != nil {
		return nil, err
	}
	isDup := env.Filter.IsDuplicateOrLowValue(sample.Text, recent, settings.DuplicateSimThreshold)

	count, err := env.Suggestions.SessionCount(sample.SessionID)
	if err != nil {
		return nil, err
	}

	d := decision.Decide(results, isDup, settings, count)

	out := &SuggestOutput{Outcome: d.Outcome, Reason: d.Reason}
	if d.Result != nil {
		out.Category = d.Result.Category
		out.Confidence = d.Result.Confidence
	}

	switch d.Outcome {
	case decision.OutcomeAutoStore:
		return autoStore(env, sample, d, out)

	case decision.OutcomeSuggest:
		s, err := env.Suggestions.Create(sample, *d.Result, d.Reason)
		if err != nil {
			// Losing a cap race between Decide and Create degrades to a
			// discard, mirroring what Decide would have returned.
			if errors.Is(err, errors.ErrInvalidRequest) {
				out.Outcome = decision.OutcomeDiscard
				out.Reason = "suggestion cap reached for session"
				return out, nil
			}
			return nil, err
		}
		out.Suggestion = s
		return out, nil

	default:
		return out, nil
	}
}

// autoStore persists the memory for an auto-store decision. A storage
// fault degrades to a pending suggestion with a warning so high-value
// content is not lost outright.
func autoStore(env *Env, sample memory.Sample, d decision.Decision, out *SuggestOutput) (*SuggestOutput, error) {
	id, err := generateULID()
	if err != nil {
		return nil, errors.NewInternal(err)
	}

	m := d.Memory(id, sample, time.Now().Unix())
	storeErr := db.InsertMemory(env.DB, &m)
	if storeErr == nil {
		out.MemoryID = id
		return out, nil
	}
	if !errors.Is(storeErr, errors.ErrStorageFault) {
		return nil, storeErr
	}

	s, err := env.Suggestions.Create(sample, *d.Result, "auto-store degraded by storage fault")
	if err != nil {
		return nil, storeErr
	}

	out.Outcome = decision.OutcomeSuggest
	out.Suggestion = s
	out.Warning = "storage fault during auto-store, degraded to suggestion"
	return out, nil
}
