// Package ambiguity implements the heuristic ambiguity detector.
//
// The detector runs an ordered table of independent rules over a piece of
// text (a code comment, a requirement, a chat prompt) and reports what is
// vague or underspecified as typed findings. Detection is total: every
// input, including the empty string, yields at least one finding.
package ambiguity

// Category classifies a finding.
type Category string

const (
	CategoryVagueness             Category = "vagueness"
	CategoryUnspecifiedConstraint Category = "unspecified-constraint"
	CategoryNonFunctional         Category = "non-functional"
	CategoryCompatibility         Category = "compatibility"
	CategoryErrorHandling         Category = "error-handling"
	CategoryNone                  Category = "none"
)

// validCategories is the set of categories a rule may emit.
var validCategories = map[Category]bool{
	CategoryVagueness:             true,
	CategoryUnspecifiedConstraint: true,
	CategoryNonFunctional:         true,
	CategoryCompatibility:         true,
	CategoryErrorHandling:         true,
	CategoryNone:                  true,
}

// Valid reports whether c is a known category.
func (c Category) Valid() bool {
	return validCategories[c]
}

// Finding is one unit of detected ambiguity. Findings are plain values and
// are never mutated after a rule produces them.
type Finding struct {
	Category Category `json:"category"`
	Message  string   `json:"message"`
	Score    float64  `json:"score,omitempty"` // 0 means unscored (e.g. a remote result without scores)
}

// IsNone reports whether f is the synthetic "no issues" finding.
func (f Finding) IsNone() bool {
	return f.Category == CategoryNone
}

// NoIssues is the synthetic finding returned when no rule fires.
func NoIssues() Finding {
	return Finding{
		Category: CategoryNone,
		Message:  "No obvious ambiguities detected. Proceed or request specific details if needed.",
		Score:    0.2,
	}
}
