package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/HendryAvila/clarify/internal/ambiguity"
	"github.com/HendryAvila/clarify/internal/analysis"
	"github.com/HendryAvila/clarify/internal/dialogue"
	"github.com/HendryAvila/clarify/internal/projectmem"
	"github.com/charmbracelet/lipgloss"
)

// Styles
var headerStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(lipgloss.Color("#FAFAFA")).
	Background(lipgloss.Color("#7D56F4")).
	PaddingLeft(1).
	PaddingRight(1)

var categoryStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("208"))
var okStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
var dimStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
var userStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39"))
var assistantStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))

func renderResult(w io.Writer, r analysis.Result) {
	if len(r.Findings) == 1 && r.Findings[0].Category == ambiguity.CategoryNone {
		fmt.Fprintln(w, okStyle.Render("No obvious ambiguities."))
		return
	}

	clarity := fmt.Sprintf("clarity %d/100", r.Clarity.OverallScore)
	if r.Clarity.GatePassed {
		clarity = okStyle.Render(clarity)
	} else {
		clarity = categoryStyle.Render(clarity)
	}
	fmt.Fprintln(w, headerStyle.Render(fmt.Sprintf("Ambiguities (%d)", r.Total)), clarity)
	for i, f := range r.Findings {
		fmt.Fprintf(w, "%d. %s %s %s\n", i+1,
			categoryStyle.Render(string(f.Category)),
			dimStyle.Render(fmt.Sprintf("%.2f", f.Score)),
			f.Message,
		)
	}
	if r.Truncated() {
		fmt.Fprintln(w, dimStyle.Render(fmt.Sprintf("%d more not shown", r.Total-len(r.Findings))))
	}
	if r.RemoteErr != nil {
		fmt.Fprintln(w, dimStyle.Render("service unavailable, local heuristics used"))
	}
}

func renderSummary(w io.Writer, items []ambiguity.SummaryItem) {
	fmt.Fprintln(w, headerStyle.Render("Summary"))
	for _, it := range items {
		fmt.Fprintf(w, "%3d  %s %s\n", it.Count, categoryStyle.Render(string(it.Category)), it.Message)
	}
}

func renderTurns(w io.Writer, turns []dialogue.Turn) {
	for _, t := range turns {
		style := assistantStyle
		if t.Role == dialogue.RoleUser {
			style = userStyle
		}
		fmt.Fprintf(w, "%s %s\n", style.Render(string(t.Role)+":"), strings.TrimRight(t.Content, "\n"))
	}
}

func renderEntries(w io.Writer, project string, entries []projectmem.Entry) {
	if len(entries) == 0 {
		fmt.Fprintln(w, dimStyle.Render(fmt.Sprintf("no memory for project %s", project)))
		return
	}
	fmt.Fprintln(w, headerStyle.Render("Memory: "+project))
	for _, e := range entries {
		fmt.Fprintf(w, "%s = %s\n", categoryStyle.Render(e.Key), e.Value)
	}
}
