package domain

// PlanConfidence is the planner's self-reported confidence for a
// product descriptor.
type PlanConfidence string

const (
	ConfidenceLow    PlanConfidence = "low"
	ConfidenceMedium PlanConfidence = "medium"
	ConfidenceHigh   PlanConfidence = "high"
)

// ValidConfidence reports whether c is one of the declared levels.
func ValidConfidence(c PlanConfidence) bool {
	return c == ConfidenceLow || c == ConfidenceMedium || c == ConfidenceHigh
}

// PlannedProduct describes one product the planner proposes to search
// for. Keywords are the executable part; everything else is context.
type PlannedProduct struct {
	Name       string            `json:"name"`
	Category   string            `json:"category,omitempty"`
	Keywords   []string          `json:"keywords"`
	Filters    map[string]string `json:"filters,omitempty"`
	Retailers  []string          `json:"retailers,omitempty"`
	Rationale  string            `json:"rationale,omitempty"`
	Confidence PlanConfidence    `json:"confidence"`
}

// ProductPlan is the structured planner output for one chat turn: an
// intro for the user, at most one primary product and up to five
// recommendations. A plan with a nil primary product and no
// recommendations is the degraded-success shape, not an error.
type ProductPlan struct {
	AnswerIntro         string           `json:"answerIntro"`
	PrimaryProduct      *PlannedProduct  `json:"primaryProduct"`
	RecommendedProducts []PlannedProduct `json:"recommendedProducts"`
	SearchStrategy      string           `json:"searchStrategy,omitempty"`
}
