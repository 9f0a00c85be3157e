package ambiguity

// SummaryItem aggregates identical findings.
type SummaryItem struct {
	Category Category `json:"category"`
	Message  string   `json:"message"`
	Count    int      `json:"count"`
}

// Summarize groups findings by category and message, keeping the order in
// which each group was first seen.
func Summarize(findings []Finding) []SummaryItem {
	index := make(map[string]int)
	items := make([]SummaryItem, 0, len(findings))

	for _, f := range findings {
		key := string(f.Category) + ":" + f.Message
		if i, ok := index[key]; ok {
			items[i].Count++
			continue
		}
		index[key] = len(items)
		items = append(items, SummaryItem{Category: f.Category, Message: f.Message, Count: 1})
	}
	return items
}

// Limit returns at most max findings. A non-positive max means no limit.
// The input slice is never modified.
func Limit(findings []Finding, max int) []Finding {
	if max <= 0 || len(findings) <= max {
		out := make([]Finding, len(findings))
		copy(out, findings)
		return out
	}
	out := make([]Finding, max)
	copy(out, findings[:max])
	return out
}
