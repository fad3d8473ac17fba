package analysis

import (
	"regexp"

	"github.com/hpungsan/mnemo/internal/memory"
)

// Confidence weights. Base score comes from pattern and keyword
// matches; bonuses are additive and the total is capped at 1.0.
const (
	patternMatchWeight  = 0.5
	keywordHighWeight   = 0.4
	keywordMediumWeight = 0.25
	keywordLowWeight    = 0.15
	lengthBonus         = 0.1
	codeBonus           = 0.15
	questionAnswerBonus = 0.2

	// minSignal is the floor below which a category score is treated
	// as no signal at all.
	minSignal = 0.05

	// lengthBonusChars is the rune count above which content earns the
	// substantial-content bonus.
	lengthBonusChars = 200
)

// keywordTiers holds per-tier keyword lists for a category.
type keywordTiers struct {
	high   []string
	medium []string
	low    []string
}

// heuristic binds a category to its matcher and extractor. The table
// below is the single source of truth for classification: each category
// is matched by its regex signals and tiered keywords, and extracted by
// its dedicated field extractor.
type heuristic struct {
	patterns []*regexp.Regexp
	keywords keywordTiers
	extract  func(text string) map[string]any
}

// explicitPatterns short-circuit classification: content matching any of
// these is an explicit storage request with maximum confidence.
var explicitPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\b(?:remember|save|store|keep|note)\s+(?:this|that)\b`),
	regexp.MustCompile(`(?i)\b(?:don't forget|make sure to remember|important to note)\b`),
	regexp.MustCompile(`(?i)\b(?:for future reference|for later|remember for next time)\b`),
	regexp.MustCompile(`(?i)\b(?:store|save)\s+(?:this\s+)?(?:in|to|for)\s+(?:memory|context|notes|later)\b`),
	regexp.MustCompile(`(?i)\bplease\s+(?:remember|save|store)\b`),
}

// lowValuePatterns match content with no technical substance: bare
// greetings, acknowledgements, and pleasantries.
var lowValuePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)^\s*(?:ok(?:ay)?|sure|yes|no|yep|nope|cool|nice|great|got it|sounds good|will do|done)\s*[.!?]*\s*$`),
	regexp.MustCompile(`(?i)^\s*(?:hi|hello|hey|good (?:morning|afternoon|evening)|bye|goodbye|see you)\b[^\n]{0,30}$`),
	regexp.MustCompile(`(?i)^\s*(?:thanks|thank you|thx|ty|no problem|you're welcome|np)\b[^\n]{0,30}$`),
}

// heuristics is the static lookup table binding each storable category
// to its matcher and extractor. explicit_request is handled by the
// short-circuit above and low_value by its own patterns, so neither
// appears here.
var heuristics = map[memory.Category]heuristic{
	memory.CategoryPreference: {
		patterns: []*regexp.Regexp{
			regexp.MustCompile(`(?i)\b(?:prefer|like|dislike)\b`),
			regexp.MustCompile(`(?i)\b(?:always|never|usually|typically)\b.*(?:use|do|write|format|choose)`),
			regexp.MustCompile(`(?i)\b(?:my|our)\s+(?:style|approach|way|method|preference)\b`),
			regexp.MustCompile(`(?i)\b(?:i|we)\s+(?:always|never|usually|typically|prefer|like)\b`),
			regexp.MustCompile(`(?i)\b(?:default|standard|usual|normal)\s+(?:approach|method|way)\b`),
		},
		keywords: keywordTiers{
			high:   []string{"prefer", "always", "never", "style", "approach", "method"},
			medium: []string{"like", "dislike", "usually", "typically", "way", "standard"},
			low:    []string{"default", "normal", "common", "general"},
		},
		extract: extractPreference,
	},
	memory.CategorySolution: {
		patterns: []*regexp.Regexp{
			regexp.MustCompile(`(?i)\b(?:solution|fix|resolve|solve|answer)\b.*(?:problem|issue|error|bug)`),
			regexp.MustCompile(`(?i)\b(?:here's how|try this|you can|to fix)\b`),
			regexp.MustCompile(`(?i)\b(?:error|exception|bug|issue)\b.*(?:fix|solve|resolve|fixed|solved|resolved)`),
			regexp.MustCompile(`(?i)\b(?:problem|issue)\b.*(?:solution|fix|resolve)`),
			regexp.MustCompile(`(?i)\b(?:step|steps)\s+(?:\d+|one|two|three|first|second|third)\b`),
			regexp.MustCompile(`(?i)\b(?:workaround|alternative|instead)\b`),
		},
		keywords: keywordTiers{
			high:   []string{"solution", "fix", "resolve", "solve", "error", "bug", "issue"},
			medium: []string{"problem", "workaround", "alternative", "try", "step"},
			low:    []string{"help", "assist", "support", "guide"},
		},
		extract: extractSolution,
	},
	memory.CategoryProjectContext: {
		patterns: []*regexp.Regexp{
			regexp.MustCompile(`(?i)\b(?:project|application|app|system|codebase)\b.*(?:uses|built|written|developed)`),
			regexp.MustCompile(`(?i)\b(?:architecture|structure|design|framework|stack)\b`),
			regexp.MustCompile(`(?i)\b(?:database|api|frontend|backend|server|client)\b`),
			regexp.MustCompile(`(?i)\b(?:technology|tech|framework|library|tool)\b.*(?:stack|choice|decision)`),
			regexp.MustCompile(`(?i)\b(?:repository|repo|git|github|gitlab)\b`),
			regexp.MustCompile(`(?i)\b(?:deployment|production|staging|environment)\b`),
		},
		keywords: keywordTiers{
			high:   []string{"architecture", "framework", "database", "api", "system"},
			medium: []string{"project", "application", "codebase", "technology", "stack"},
			low:    []string{"code", "development", "build", "structure"},
		},
		extract: extractProjectContext,
	},
	memory.CategoryDecision: {
		patterns: []*regexp.Regexp{
			regexp.MustCompile(`(?i)\b(?:decided|chosen|selected|picked)\b.*(?:because|since|due to)`),
			regexp.MustCompile(`(?i)\b(?:decision|choice|option)\b.*(?:made|taken|selected)`),
			regexp.MustCompile(`(?i)\b(?:rationale|reason|reasoning|justification)\b`),
			regexp.MustCompile(`(?i)\b(?:trade-off|tradeoff|pros and cons|advantages|disadvantages)\b`),
			regexp.MustCompile(`(?i)\b(?:alternative|option|approach)\b.*(?:considered|evaluated|rejected)`),
			regexp.MustCompile(`(?i)\b(?:why|because|since|due to)\b.*(?:chose|selected|decided|picked)\b`),
		},
		keywords: keywordTiers{
			high:   []string{"decision", "decided", "chosen", "rationale", "trade-off"},
			medium: []string{"choice", "selected", "reason", "because", "alternative"},
			low:    []string{"option", "approach", "consider", "evaluate"},
		},
		extract: extractDecision,
	},
	memory.CategoryPattern: {
		patterns: []*regexp.Regexp{
			regexp.MustCompile(`(?i)\b(?:every time|each time|whenever)\b`),
			regexp.MustCompile(`(?i)\b(?:recurring|repeatedly|routinely|habitually)\b`),
			regexp.MustCompile(`(?i)\b(?:workflow|routine|habit|ritual)\b`),
			regexp.MustCompile(`(?i)\b(?:pattern|convention)\b.*(?:follow|use|apply|notice)`),
			regexp.MustCompile(`(?i)\b(?:as usual|like before|same as last time)\b`),
		},
		keywords: keywordTiers{
			high:   []string{"workflow", "recurring", "whenever", "convention"},
			medium: []string{"pattern", "routine", "habit", "repeatedly"},
			low:    []string{"usual", "regular", "often"},
		},
		extract: extractPattern,
	},
}
