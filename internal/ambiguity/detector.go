package ambiguity

// Detector applies an ordered rule table to text.
// A Detector is immutable after construction and safe for concurrent use.
type Detector struct {
	rules []Rule
}

// NewDetector creates a detector over the given rules, evaluated in order.
// With no rules it uses DefaultRules.
func NewDetector(rules ...Rule) *Detector {
	if len(rules) == 0 {
		return &Detector{rules: DefaultRules()}
	}
	own := make([]Rule, len(rules))
	copy(own, rules)
	return &Detector{rules: own}
}

// defaultDetector backs the package-level Detect.
var defaultDetector = NewDetector()

// Detect runs the default rule set against text.
func Detect(text string) []Finding {
	return defaultDetector.Detect(text)
}

// Rules returns a copy of the detector's rule table.
func (d *Detector) Rules() []Rule {
	out := make([]Rule, len(d.rules))
	copy(out, d.rules)
	return out
}

// Detect evaluates every rule in order and collects what fires. When nothing
// fires the result is the single NoIssues finding, so the list is never
// empty. The result is not capped; callers truncate if they need to.
func (d *Detector) Detect(text string) []Finding {
	var findings []Finding
	for _, r := range d.rules {
		if f, ok := r.Evaluate(text); ok {
			findings = append(findings, f)
		}
	}
	if len(findings) == 0 {
		return []Finding{NoIssues()}
	}
	return findings
}
