package mcptools

import (
	"fmt"
	"strconv"
	"strings"
)

// detailLevel controls how much of each thread clarify_threads prints.
type detailLevel string

const (
	detailSummary  detailLevel = "summary"  // ids, projects and turn counts
	detailStandard detailLevel = "standard" // adds the latest turn
	detailFull     detailLevel = "full"     // whole transcripts
)

func detailLevelValues() []string {
	return []string{string(detailSummary), string(detailStandard), string(detailFull)}
}

// parseDetailLevel accepts any case and falls back to standard.
func parseDetailLevel(s string) detailLevel {
	switch l := detailLevel(strings.ToLower(strings.TrimSpace(s))); l {
	case detailSummary, detailFull:
		return l
	default:
		return detailStandard
	}
}

// moreHint tells the model a list was capped. Empty when nothing was left out.
func moreHint(showing, total int, advice string) string {
	if total <= 0 || showing >= total {
		return ""
	}
	hint := fmt.Sprintf("\n📊 Showing %d of %d.", showing, total)
	if advice != "" {
		hint += " " + advice
	}
	return hint
}

// estimateTokens uses the chars/4 rule. Non-empty text is at least one token.
func estimateTokens(text string) int {
	if text == "" {
		return 0
	}
	return max(len(text)/4, 1)
}

func tokenFooter(tokens int) string {
	return "\n📏 ~" + groupThousands(tokens) + " tokens"
}

func groupThousands(n int) string {
	digits := strconv.Itoa(n)
	var b strings.Builder
	for i, d := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(d)
	}
	return b.String()
}
