package memory

// Sample is a single conversational turn handed to the engine for
// analysis. Immutable once created; callers build a new Sample per turn.
type Sample struct {
	Text       string            `json:"text"`
	SourceTool string            `json:"source_tool,omitempty"`
	ProjectID  string            `json:"project_id,omitempty"`
	SessionID  string            `json:"session_id,omitempty"`
	Metadata   map[string]string `json:"metadata,omitempty"`
}

// Category classifies what kind of value a piece of content carries.
type Category string

const (
	CategoryPreference     Category = "preference"
	CategorySolution       Category = "solution"
	CategoryProjectContext Category = "project_context"
	CategoryDecision       Category = "decision"
	CategoryExplicit       Category = "explicit_request"
	CategoryPattern        Category = "pattern"
	CategoryLowValue       Category = "low_value"
)

// categoryPriority orders categories for confidence tie-breaking.
// Higher wins.
var categoryPriority = map[Category]int{
	CategoryExplicit:       6,
	CategoryDecision:       5,
	CategorySolution:       4,
	CategoryProjectContext: 3,
	CategoryPreference:     2,
	CategoryPattern:        1,
	CategoryLowValue:       0,
}

// Priority returns the tie-break rank for the category. Unknown
// categories rank below everything.
func (c Category) Priority() int {
	return categoryPriority[c]
}

// Valid reports whether c is a known category.
func (c Category) Valid() bool {
	_, ok := categoryPriority[c]
	return ok
}

// Storable reports whether content in this category may be persisted.
// Low-value content is only ever discarded.
func (c Category) Storable() bool {
	return c.Valid() && c != CategoryLowValue
}

// StorableCategories lists every category eligible for persistence, in
// priority order. Used for per-category settings enumeration.
func StorableCategories() []Category {
	return []Category{
		CategoryExplicit,
		CategoryDecision,
		CategorySolution,
		CategoryProjectContext,
		CategoryPreference,
		CategoryPattern,
	}
}

// Status is the lifecycle state of a storage suggestion. Pending is the
// only non-terminal state; transitions out of it are one-way.
type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
	StatusExpired  Status = "expired"
)

// Memory is a durably stored piece of content.
type Memory struct {
	ID         string         `json:"id"`
	Text       string         `json:"text"`
	Category   Category       `json:"category"`
	Confidence float64        `json:"confidence"`
	Fields     map[string]any `json:"fields,omitempty"`
	SourceTool string         `json:"source_tool,omitempty"`
	ProjectID  string         `json:"project_id,omitempty"`
	SessionID  string         `json:"session_id,omitempty"`
	CreatedAt  int64          `json:"created_at"`
}

// Suggestion is a pending, reviewable proposal to store a Sample.
type Suggestion struct {
	ID           string         `json:"id"`
	SessionID    string         `json:"session_id"`
	Text         string         `json:"text"`
	SourceTool   string         `json:"source_tool,omitempty"`
	ProjectID    string         `json:"project_id,omitempty"`
	Category     Category       `json:"category"`
	Confidence   float64        `json:"confidence"`
	Fields       map[string]any `json:"fields,omitempty"`
	Reason       string         `json:"reason,omitempty"`
	Status       Status         `json:"status"`
	CreatedAt    int64          `json:"created_at"`
	DecidedAt    *int64         `json:"decided_at,omitempty"`
	FeedbackNote *string        `json:"feedback_note,omitempty"`
}
