package ops

import (
	"context"

	"github.com/hpungsan/mnemo/internal/analysis"
	"github.com/hpungsan/mnemo/internal/db"
	"github.com/hpungsan/mnemo/internal/decision"
)

// AnalyzeInput contains parameters for the Analyze operation.
type AnalyzeInput struct {
	Text       string
	SourceTool string
	ProjectID  string
	SessionID  string
}

// AnalyzeOutput contains the analysis results and the decision the
// engine would make, without acting on it.
type AnalyzeOutput struct {
	Results   []analysis.Result `json:"results"`
	Duplicate bool              `json:"duplicate"`
	Decision  decision.Decision `json:"decision"`
}

// Analyze runs classification and decision routing without side
// effects: nothing is stored, no suggestion is created, and the session
// suggestion count is left untouched. Useful for previewing what the
// engine would do with a piece of content.
func Analyze(ctx context.Context, env *Env, input AnalyzeInput) (*AnalyzeOutput, error) {
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

	return &AnalyzeOutput{
		Results:   results,
		Duplicate: isDup,
		Decision:  decision.Decide(results, isDup, settings, count),
	}, nil
}
