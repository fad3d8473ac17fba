package analysis

import (
	"regexp"
	"strings"
)

// Extractors pull category-specific structured fields out of matched
// content. A field that cannot be found is omitted, never an error.

// class labels content when its pattern matches; classify picks the
// first hit.
type class struct {
	name    string
	pattern *regexp.Regexp
}

func classify(lower string, classes []class, fallback string) string {
	for _, c := range classes {
		if c.pattern.MatchString(lower) {
			return c.name
		}
	}
	return fallback
}

var (
	strongPrefWords = []string{"always", "never", "must", "required", "essential"}
	mediumPrefWords = []string{"prefer", "usually", "typically", "generally"}

	prefTypeClasses = []class{
		{"coding", regexp.MustCompile(`\b(?:code|coding|programming)\b`)},
		{"formatting", regexp.MustCompile(`\b(?:format|formatting|style|indent)\b`)},
		{"tooling", regexp.MustCompile(`\b(?:tool|tools|software)\b`)},
		{"workflow", regexp.MustCompile(`\b(?:workflow|process|method)\b`)},
	}

	problemTypeClasses = []class{
		{"error", regexp.MustCompile(`\b(?:error|exception|bug|crash|fail)\b`)},
		{"performance", regexp.MustCompile(`\b(?:performance|slow|speed|optimize)\b`)},
		{"security", regexp.MustCompile(`\b(?:security|secure|vulnerability|auth)\b`)},
		{"design", regexp.MustCompile(`\b(?:design|architecture|structure)\b`)},
		{"implementation", regexp.MustCompile(`\b(?:implement|create|build|develop)\b`)},
	}

	projectTypeClasses = []class{
		{"web", regexp.MustCompile(`\b(?:web|website|webapp|frontend)\b`)},
		{"mobile", regexp.MustCompile(`\b(?:mobile|ios|android|react native|flutter)\b`)},
		{"api", regexp.MustCompile(`\b(?:api|service|microservice|backend|server)\b`)},
		{"data", regexp.MustCompile(`\b(?:data|analytics|ml|ai|machine learning)\b`)},
	}

	decisionTypeClasses = []class{
		{"architectural", regexp.MustCompile(`\b(?:architecture|design|structure|pattern)\b`)},
		{"technology", regexp.MustCompile(`\b(?:technology|tool|framework|library)\b`)},
		{"process", regexp.MustCompile(`\b(?:process|workflow|methodology)\b`)},
	}

	prefContextPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)\bwhen\s+(?:working|coding|developing|building)\s+(?:with|on|in)\s+([^.!?\n]+)`),
		regexp.MustCompile(`(?i)\bfor\s+([^.!?\n]+?)\s+(?:projects|development|work)`),
	}

	techPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)\b(?:Python|JavaScript|TypeScript|Java|C\+\+|C#|Go|Rust|PHP|Ruby)\b`),
		regexp.MustCompile(`(?i)\b(?:React|Vue|Angular|Django|Flask|Express|Spring|Laravel)\b`),
		regexp.MustCompile(`(?i)\b(?:MySQL|PostgreSQL|MongoDB|Redis|SQLite|Docker|Kubernetes)\b`),
		regexp.MustCompile(`(?i)\b(?:AWS|Azure|GCP|Heroku|Vercel|Netlify)\b`),
	}

	stepPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)(?:step\s+)?(?:\d+[.)]\s*|first|second|third|next|then|finally)[,:]?\s*([^.!?\n]+)`),
		regexp.MustCompile(`(?i)(?:you\s+(?:can|should|need to)|try)\s+([^.!?\n]+)`),
	}

	archPatterns = []*regexp.Regexp{
		regexp.MustCompile(`\b(?:mvc|mvp|mvvm|microservices|monolith|serverless|event-driven)\b`),
		regexp.MustCompile(`\b(?:rest|graphql|grpc|soap)\b`),
		regexp.MustCompile(`\b(?:spa|ssr|ssg|pwa)\b`),
	}

	componentPatterns = []*regexp.Regexp{
		regexp.MustCompile(`\b(?:database|cache|queue|storage)\b`),
		regexp.MustCompile(`\b(?:auth|authentication|authorization)\b`),
		regexp.MustCompile(`\b(?:logging|monitoring|metrics)\b`),
		regexp.MustCompile(`\b(?:testing|ci|cd|deployment)\b`),
	}

	rationalePatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)(?:because|since|due to)\s+([^.!?\n]+)`),
		regexp.MustCompile(`(?i)(?:advantage|benefit)\s+(?:is|of)\s*([^.!?\n]+)`),
	}

	alternativePatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)(?:instead of|rather than|could have used)\s+([^.!?\n,]+)`),
		regexp.MustCompile(`(?i)(?:considered|evaluated|looked at)\s+([^.!?\n]+)`),
		regexp.MustCompile(`(?i)(?:vs|versus|compared to)\s+([^.!?\n,]+)`),
	}

	outcomePatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)(?:result|outcome|consequence)\s+(?:is|was|will be)\s+([^.!?\n]+)`),
		regexp.MustCompile(`(?i)(?:this|it)\s+(?:resulted in|led to|caused)\s+([^.!?\n]+)`),
	}

	triggerPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)\b(?:every time|each time|whenever)\s+([^.!?\n,]+)`),
	}
)

func extractPreference(text string) map[string]any {
	fields := make(map[string]any)
	lower := strings.ToLower(text)

	strength := "weak"
	if containsAny(lower, strongPrefWords) {
		strength = "strong"
	} else if containsAny(lower, mediumPrefWords) {
		strength = "medium"
	}
	fields["strength"] = strength
	fields["preference_type"] = classify(lower, prefTypeClasses, "general")

	if contexts := captureAll(text, prefContextPatterns, 5, 3); len(contexts) > 0 {
		fields["context"] = contexts
	}

	return fields
}

func extractSolution(text string) map[string]any {
	fields := make(map[string]any)
	lower := strings.ToLower(text)

	fields["problem_type"] = classify(lower, problemTypeClasses, "general")

	if steps := captureAll(text, stepPatterns, 10, 5); len(steps) > 0 {
		fields["steps"] = steps
	}
	if techs := captureMatches(text, techPatterns, 10); len(techs) > 0 {
		fields["technologies"] = techs
	}

	return fields
}

func extractProjectContext(text string) map[string]any {
	fields := make(map[string]any)
	lower := strings.ToLower(text)

	fields["project_type"] = classify(lower, projectTypeClasses, "general")

	if techs := captureMatches(text, techPatterns, 10); len(techs) > 0 {
		fields["technologies"] = techs
	}
	if arch := captureMatches(lower, archPatterns, 5); len(arch) > 0 {
		fields["architecture_patterns"] = arch
	}
	if components := captureMatches(lower, componentPatterns, 10); len(components) > 0 {
		fields["components"] = components
	}

	return fields
}

func extractDecision(text string) map[string]any {
	fields := make(map[string]any)
	lower := strings.ToLower(text)

	fields["decision_type"] = classify(lower, decisionTypeClasses, "technical")

	if rationale := captureAll(text, rationalePatterns, 10, 3); len(rationale) > 0 {
		fields["rationale"] = rationale
	}
	if alternatives := captureAll(text, alternativePatterns, 3, 3); len(alternatives) > 0 {
		fields["alternatives"] = alternatives
	}
	if outcomes := captureAll(text, outcomePatterns, 5, 1); len(outcomes) > 0 {
		fields["outcome"] = outcomes[0]
	}

	return fields
}

func extractPattern(text string) map[string]any {
	fields := make(map[string]any)

	if triggers := captureAll(text, triggerPatterns, 3, 3); len(triggers) > 0 {
		fields["triggers"] = triggers
	}
	if techs := captureMatches(text, techPatterns, 5); len(techs) > 0 {
		fields["technologies"] = techs
	}

	return fields
}

// captureAll collects the first capture group of every pattern match,
// trimmed, keeping captures longer than minLen runes, up to max entries.
func captureAll(text string, patterns []*regexp.Regexp, minLen, max int) []string {
	var captures []string
	seen := make(map[string]bool)

	for _, pattern := range patterns {
		for _, match := range pattern.FindAllStringSubmatch(text, -1) {
			if len(match) < 2 {
				continue
			}
			capture := strings.TrimSpace(match[1])
			if len(capture) <= minLen || seen[capture] {
				continue
			}
			seen[capture] = true
			captures = append(captures, capture)
			if len(captures) >= max {
				return captures
			}
		}
	}

	return captures
}

// captureMatches collects whole-match hits, deduplicated
// case-insensitively, up to max entries.
func captureMatches(text string, patterns []*regexp.Regexp, max int) []string {
	var matches []string
	seen := make(map[string]bool)

	for _, pattern := range patterns {
		for _, match := range pattern.FindAllString(text, -1) {
			key := strings.ToLower(match)
			if seen[key] {
				continue
			}
			seen[key] = true
			matches = append(matches, match)
			if len(matches) >= max {
				return matches
			}
		}
	}

	return matches
}

func containsAny(text string, words []string) bool {
	for _, w := range words {
		if strings.Contains(text, w) {
			return true
		}
	}
	return false
}
