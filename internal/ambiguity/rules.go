package ambiguity

import (
	"fmt"
	"regexp"
	"strings"
)

// Rule is one declarative detector: a predicate over the whole text and the
// finding it emits when the predicate holds. A rule fires at most once per
// evaluation.
type Rule struct {
	ID       string   `json:"id"`
	Category Category `json:"category"`
	Score    float64  `json:"score"`
	Message  string   `json:"message"`

	match func(text string) bool
}

// NewRule builds a rule from an arbitrary predicate. It is the extension
// point for callers that want to run additional rules through a Detector.
func NewRule(id string, category Category, score float64, message string, match func(text string) bool) Rule {
	return Rule{ID: id, Category: category, Score: score, Message: message, match: match}
}

// Evaluate runs the rule against text. The second return value reports
// whether the rule fired.
func (r Rule) Evaluate(text string) (Finding, bool) {
	if r.match == nil || !r.match(text) {
		return Finding{}, false
	}
	return Finding{Category: r.Category, Message: r.Message, Score: r.Score}, true
}

// ─── Patterns ────────────────────────────────────────────────────────────────

var (
	// numericLiteral matches integers and simple decimals starting at a word
	// boundary: "18", "3.11", and the number in "200ms".
	numericLiteral = regexp.MustCompile(`\b\d+(?:\.\d+)?`)

	constraintKeyword = regexp.MustCompile(`(?i)\b(?:min|max|limit|timeout|retries)\b`)

	performanceKeyword = regexp.MustCompile(`(?i)\b(?:performance|latency|throughput|memory)\b`)

	// unitToken counts a unit only when no letter or apostrophe precedes it:
	// "200ms", "(ms)" and "req/s" match, "member" and "it's" do not.
	unitToken = regexp.MustCompile(`(?i)(?:^|[^a-z'])(?:ms|s|mb|gb|rps)\b`)

	compatibilityKeyword = regexp.MustCompile(`(?i)\b(?:compatible|compatibility|support|supports|supported)\b`)

	platformToken = regexp.MustCompile(`(?i)\b(?:node|nodejs|python|java|browser|browsers)\b`)

	errorKeyword = regexp.MustCompile(`(?i)\b(?:error|errors|exception|exceptions|fail|fails|failed|failing|failure|failures)\b`)

	mitigationKeyword = regexp.MustCompile(`(?i)\b(?:retry|retries|retried|retrying|fallback|fallbacks|log|logs|logged|logging|return|returns|returned|throw|throws|thrown)\b`)
)

// vagueTerms is the fixed vocabulary scanned by containment, in evaluation order.
var vagueTerms = []string{
	"quick", "fast", "soon", "later", "optimize", "clean up", "handle", "support",
	"should", "maybe", "probably", "etc", "tbd", "todo", "edge case", "some", "many",
}

// VagueTerms returns a copy of the vague-term vocabulary.
func VagueTerms() []string {
	out := make([]string, len(vagueTerms))
	copy(out, vagueTerms)
	return out
}

// containsFold reports whether term occurs in text, ignoring case.
func containsFold(term string) func(string) bool {
	needle := strings.ToLower(term)
	return func(text string) bool {
		return strings.Contains(strings.ToLower(text), needle)
	}
}

// pattern fires when every required expression matches and no forbidden
// expression does.
func pattern(require []*regexp.Regexp, forbid []*regexp.Regexp) func(string) bool {
	return func(text string) bool {
		for _, re := range require {
			if !re.MatchString(text) {
				return false
			}
		}
		for _, re := range forbid {
			if re.MatchString(text) {
				return false
			}
		}
		return true
	}
}

// ─── Default rule set ────────────────────────────────────────────────────────

// defaultRules is built once at package init and never mutated.
var defaultRules = buildDefaultRules()

func buildDefaultRules() []Rule {
	rules := make([]Rule, 0, len(vagueTerms)+4)

	for _, term := range vagueTerms {
		rules = append(rules, NewRule(
			"vague/"+strings.ReplaceAll(term, " ", "-"),
			CategoryVagueness,
			0.6,
			fmt.Sprintf("Vague term detected: %q. What is the precise expectation?", term),
			containsFold(term),
		))
	}

	rules = append(rules,
		NewRule(
			"constraint/unspecified-value",
			CategoryUnspecifiedConstraint,
			0.7,
			"Constraint mentioned without a concrete value. What value should be used?",
			pattern(
				[]*regexp.Regexp{constraintKeyword},
				[]*regexp.Regexp{numericLiteral},
			),
		),
		NewRule(
			"non-functional/missing-units",
			CategoryNonFunctional,
			0.65,
			"Non-functional requirement without units. Provide target and units (e.g., 200ms).",
			pattern(
				[]*regexp.Regexp{performanceKeyword},
				[]*regexp.Regexp{unitToken},
			),
		),
		NewRule(
			"compatibility/missing-versions",
			CategoryCompatibility,
			0.6,
			"Compatibility mentioned without versions. Which versions must be supported?",
			pattern(
				[]*regexp.Regexp{compatibilityKeyword, platformToken},
				[]*regexp.Regexp{numericLiteral},
			),
		),
		NewRule(
			"error-handling/missing-behavior",
			CategoryErrorHandling,
			0.6,
			"Error scenario mentioned without behavior. What should happen on failure?",
			pattern(
				[]*regexp.Regexp{errorKeyword},
				[]*regexp.Regexp{mitigationKeyword},
			),
		),
	)

	return rules
}

// DefaultRules returns a copy of the built-in rule table in evaluation order.
func DefaultRules() []Rule {
	out := make([]Rule, len(defaultRules))
	copy(out, defaultRules)
	return out
}
