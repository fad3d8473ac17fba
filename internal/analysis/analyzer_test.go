package analysis

import (
	"strings"
	"testing"

	"github.com/hpungsan/mnemo/internal/config"
	"github.com/hpungsan/mnemo/internal/memory"
)

func analyzeText(text string) []Result {
	return Analyze(memory.Sample{Text: text, SessionID: "s1"}, config.DefaultSettings())
}

func top(t *testing.T, results []Result) Result {
	t.Helper()
	if len(results) == 0 {
		t.Fatal("no results")
	}
	return results[0]
}

func TestAnalyze_ExplicitRequest(t *testing.T) {
	results := analyzeText("Remember that our API key rotation happens every 90 days and the staging environment uses the old keys")

	if len(results) != 1 {
		t.Fatalf("got %d results, want exactly 1 for explicit requests", len(results))
	}
	r := results[0]
	if r.Category != memory.CategoryExplicit {
		t.Errorf("Category = %s, want explicit_request", r.Category)
	}
	if r.Confidence != 1.0 {
		t.Errorf("Confidence = %v, want exactly 1.0", r.Confidence)
	}
	if r.Fields["request_type"] != "explicit" {
		t.Errorf("Fields[request_type] = %v, want explicit", r.Fields["request_type"])
	}
}

func TestAnalyze_ExplicitVariants(t *testing.T) {
	variants := []string{
		"Please remember the database password rotation schedule for the production environment",
		"Don't forget that we deploy to staging every Thursday afternoon before the weekly review",
		"For future reference, the load balancer health check endpoint is /healthz on port 8080",
	}

	for _, text := range variants {
		results := analyzeText(text)
		if len(results) != 1 || results[0].Category != memory.CategoryExplicit {
			t.Errorf("%q: got %+v, want a single explicit_request result", text, results)
		}
	}
}

func TestAnalyze_BelowMinLength(t *testing.T) {
	if results := analyzeText("ok thanks"); results != nil {
		t.Errorf("got %d results for sub-minimum content, want none", len(results))
	}
	if results := analyzeText(""); results != nil {
		t.Errorf("got %d results for empty content, want none", len(results))
	}
	if results := analyzeText(strings.Repeat(" ", 100)); results != nil {
		t.Errorf("got %d results for whitespace content, want none", len(results))
	}
}

func TestAnalyze_MinLengthCountsRunes(t *testing.T) {
	// 49 multi-byte runes: below the 50-rune minimum even though the
	// byte length is far larger.
	text := strings.Repeat("日", 49)
	if results := analyzeText(text); results != nil {
		t.Errorf("got %d results for 49-rune content, want none", len(results))
	}
}

func TestAnalyze_LowValue(t *testing.T) {
	// A lowered minimum lets short pleasantries through to the
	// low-value matcher instead of the length gate.
	settings := config.DefaultSettings()
	settings.MinContentLength = 10

	results := Analyze(memory.Sample{Text: "thanks, that was really helpful!", SessionID: "s"}, settings)

	if len(results) != 1 {
		t.Fatalf("got %d results, want 1 low_value marker", len(results))
	}
	if results[0].Category != memory.CategoryLowValue {
		t.Errorf("Category = %s, want low_value", results[0].Category)
	}
	if results[0].Confidence >= 0.60 {
		t.Errorf("Confidence = %v, want below the suggestion threshold", results[0].Confidence)
	}
}

func TestAnalyze_PreferenceScenario(t *testing.T) {
	r := top(t, analyzeText("I prefer 2-space indentation and always use const over let"))

	if r.Category != memory.CategoryPreference {
		t.Fatalf("Category = %s, want preference", r.Category)
	}
	if r.Confidence < 0.60 {
		t.Errorf("Confidence = %v, want >= 0.60 so the content is suggested", r.Confidence)
	}
	if r.Confidence >= 0.85 {
		t.Errorf("Confidence = %v, want < 0.85 so the content is not auto-stored", r.Confidence)
	}
	if r.Fields["strength"] != "strong" {
		t.Errorf("Fields[strength] = %v, want strong (contains 'always')", r.Fields["strength"])
	}
}

func TestAnalyze_SolutionWithSteps(t *testing.T) {
	text := "To fix the flaky webhook delivery bug, here's how we solved the problem: step 1, add retries " +
		"with backoff. Step 2, make the handler idempotent. You can verify with a curl request against " +
		"the staging PostgreSQL replica. The workaround held until the upstream issue was resolved."

	r := top(t, analyzeText(text))
	if r.Category != memory.CategorySolution {
		t.Fatalf("Category = %s, want solution", r.Category)
	}
	if r.Fields["problem_type"] != "error" {
		t.Errorf("Fields[problem_type] = %v, want error (matched on 'bug')", r.Fields["problem_type"])
	}
	if _, ok := r.Fields["technologies"]; !ok {
		t.Error("Fields should include technologies (PostgreSQL)")
	}
}

func TestAnalyze_CodeBonusMonotonic(t *testing.T) {
	settings := config.DefaultSettings()
	base := "We always use early returns in our handlers and never nest conditionals more than two levels deep"
	withCode := base + "\n\n```go\nfunc handler() { return }\n```"

	plain := Analyze(memory.Sample{Text: base, SessionID: "s"}, settings)
	fenced := Analyze(memory.Sample{Text: withCode, SessionID: "s"}, settings)

	if len(plain) == 0 || len(fenced) == 0 {
		t.Fatal("both variants should classify")
	}
	if fenced[0].Confidence < plain[0].Confidence {
		t.Errorf("code block lowered confidence: %v -> %v", plain[0].Confidence, fenced[0].Confidence)
	}
}

func TestAnalyze_ConfidenceClamped(t *testing.T) {
	// Long decision-heavy text with code and Q&A shape stacks every
	// bonus; confidence must still cap at 1.0.
	text := "Why did we choose PostgreSQL over MongoDB? We decided on PostgreSQL because the relational model " +
		"fits our data, the trade-off analysis favored JSONB for the flexible parts, and the alternative " +
		"considered, MongoDB, lost on transactional guarantees. The rationale was durability. " +
		"We also evaluated `COPY` for bulk import. The decision was made after benchmarks. " +
		strings.Repeat("Details of the decision follow. ", 10)

	for _, r := range analyzeText(text) {
		if r.Confidence > 1.0 {
			t.Errorf("%s: Confidence = %v, exceeds 1.0", r.Category, r.Confidence)
		}
	}
}

func TestAnalyze_SortedByConfidence(t *testing.T) {
	text := "We decided to use Redis for caching because the workflow requires fast lookups every time a " +
		"request hits the API, and the architecture pattern we follow is event-driven"

	results := analyzeText(text)
	if len(results) < 2 {
		t.Skipf("need at least 2 categories, got %d", len(results))
	}
	for i := 1; i < len(results); i++ {
		if results[i-1].Confidence < results[i].Confidence {
			t.Errorf("results not sorted: %v before %v", results[i-1].Confidence, results[i].Confidence)
		}
	}
}

func TestAnalyze_NoExtractionBelowThreshold(t *testing.T) {
	settings := config.DefaultSettings()
	settings.SuggestionThreshold = 0.99

	results := Analyze(memory.Sample{
		Text:      "I prefer 2-space indentation and always use const over let",
		SessionID: "s",
	}, settings)

	for _, r := range results {
		if r.Confidence < 0.99 && r.Fields != nil {
			t.Errorf("%s: fields extracted below the suggestion threshold", r.Category)
		}
	}
}

func TestAnalyze_DisabledSettingsStillClassify(t *testing.T) {
	// Analyze is pure classification; the enabled toggle is a routing
	// concern and must not change analysis output.
	settings := config.DefaultSettings()
	settings.Enabled = false

	results := Analyze(memory.Sample{
		Text:      "I prefer 2-space indentation and always use const over let",
		SessionID: "s",
	}, settings)
	if len(results) == 0 {
		t.Error("disabled engine should not change classification results")
	}
}
