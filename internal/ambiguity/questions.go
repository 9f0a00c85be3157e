package ambiguity

import "strings"

// ProceedQuestion is asked when the text raised no ambiguity.
const ProceedQuestion = "No obvious ambiguities. Do you want me to proceed with implementation?"

// Questions turns findings into clarifying questions, skipping the synthetic
// "none" finding. It returns false when no real question was raised, in which
// case the single question is ProceedQuestion.
func Questions(findings []Finding) ([]string, bool) {
	var questions []string
	for _, f := range findings {
		if f.IsNone() {
			continue
		}
		questions = append(questions, f.Message)
	}
	if len(questions) == 0 {
		return []string{ProceedQuestion}, false
	}
	return questions, true
}

// BulletList renders questions as a "- " prefixed list, one per line.
func BulletList(questions []string) string {
	var sb strings.Builder
	for i, q := range questions {
		if i > 0 {
			sb.WriteByte('\n')
		}
		sb.WriteString("- ")
		sb.WriteString(q)
	}
	return sb.String()
}
