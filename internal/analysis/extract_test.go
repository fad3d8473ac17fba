package analysis

import (
	"strings"
	"testing"
)

func TestExtractPreference(t *testing.T) {
	fields := extractPreference("I always use tabs when working with Go projects")

	if fields["strength"] != "strong" {
		t.Errorf("strength = %v, want strong", fields["strength"])
	}

	fields = extractPreference("I generally prefer a lighter formatting style")
	if fields["strength"] != "medium" {
		t.Errorf("strength = %v, want medium", fields["strength"])
	}
	if fields["preference_type"] != "formatting" {
		t.Errorf("preference_type = %v, want formatting", fields["preference_type"])
	}
}

func TestExtractDecision(t *testing.T) {
	text := "We decided on PostgreSQL as our database technology because the relational model fits our data. " +
		"Instead of MongoDB, which we considered at first. " +
		"This resulted in simpler migrations."

	fields := extractDecision(text)

	if fields["decision_type"] != "technology" {
		t.Errorf("decision_type = %v, want technology", fields["decision_type"])
	}
	rationale, ok := fields["rationale"].([]string)
	if !ok || len(rationale) == 0 {
		t.Fatalf("rationale = %v, want at least one capture", fields["rationale"])
	}
	if rationale[0] != "the relational model fits our data" {
		t.Errorf("rationale[0] = %q", rationale[0])
	}
	if _, ok := fields["alternatives"]; !ok {
		t.Error("alternatives should capture MongoDB")
	}
	if _, ok := fields["outcome"]; !ok {
		t.Error("outcome should capture the result clause")
	}
}

func TestExtractProjectContext(t *testing.T) {
	text := "The backend API uses Django with PostgreSQL and Redis, following a microservices architecture " +
		"with auth and logging handled per service"

	fields := extractProjectContext(text)

	if fields["project_type"] != "api" {
		t.Errorf("project_type = %v, want api", fields["project_type"])
	}
	techs, ok := fields["technologies"].([]string)
	if !ok || len(techs) < 2 {
		t.Errorf("technologies = %v, want Django, PostgreSQL, Redis", fields["technologies"])
	}
	if _, ok := fields["architecture_patterns"]; !ok {
		t.Error("architecture_patterns should capture microservices")
	}
	if _, ok := fields["components"]; !ok {
		t.Error("components should capture auth and logging")
	}
}

func TestExtractPattern(t *testing.T) {
	fields := extractPattern("Every time the deploy finishes, we run the smoke tests against staging with Docker")

	triggers, ok := fields["triggers"].([]string)
	if !ok || len(triggers) == 0 {
		t.Fatalf("triggers = %v, want the deploy clause", fields["triggers"])
	}
	if _, ok := fields["technologies"]; !ok {
		t.Error("technologies should capture Docker")
	}
}

func TestCaptureAll_Deduplicates(t *testing.T) {
	text := "The build failed because the cache was cold. It failed again because the cache was cold. " +
		"Then it failed because the index was missing."

	captures := captureAll(text, rationalePatterns, 5, 3)
	if len(captures) != 2 {
		t.Fatalf("got %d captures, want 2 distinct rationales: %v", len(captures), captures)
	}
	if captures[0] == captures[1] {
		t.Error("captures should be deduplicated")
	}
}

func TestHasCodeContent(t *testing.T) {
	tests := []struct {
		name string
		text string
		want bool
	}{
		{"fenced block", "run this:\n```\nmake test\n```", true},
		{"unbalanced fence", "```go\nfunc main() {}", true},
		{"inline span", "set the `timeout` field", true},
		{"bare keyword", "the function signature takes func as an argument", true},
		{"file extension", "edit server.go before deploying", true},
		{"plain prose", "we talked about the deployment schedule", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := hasCodeContent(tt.text); got != tt.want {
				t.Errorf("hasCodeContent(%q) = %v, want %v", tt.text, got, tt.want)
			}
		})
	}
}

func TestHasQuestionAnswerShape(t *testing.T) {
	qa := "How do we rotate the signing keys? First fetch the current key set from the KMS, then issue a new key version."
	if !hasQuestionAnswerShape(qa) {
		t.Error("question followed by a substantial answer should match")
	}

	if hasQuestionAnswerShape("How do we rotate keys? Easy.") {
		t.Error("question with a trivial answer should not match")
	}
	if hasQuestionAnswerShape("The keys rotate automatically every ninety days in production.") {
		t.Error("statement with no question should not match")
	}

	// The answer bar counts runes, not bytes: 40 multi-byte runes are
	// 120 bytes but still a short answer.
	if hasQuestionAnswerShape("何をしますか? " + strings.Repeat("日", 40)) {
		t.Error("40-rune answer should not match")
	}
	if !hasQuestionAnswerShape("何をしますか? " + strings.Repeat("日", 60)) {
		t.Error("60-rune answer should match")
	}
}
