package report

import (
	"fmt"
	"strings"

	"deckgen/internal/verify"

	"github.com/charmbracelet/glamour"
)

// VerifyMarkdown renders a verification summary as a markdown document.
func VerifyMarkdown(s *verify.Summary) string {
	var b strings.Builder
	passed, failed := s.Counts()

	fmt.Fprintf(&b, "# Verification %s\n\n", s.RunID)
	fmt.Fprintf(&b, "%d sample(s), %d pass(es): **%d passed, %d failed**\n\n", len(s.Samples), s.Passes, passed, failed)
	b.WriteString("| ID | Status | Requirement | Category | Units | Failed |\n")
	b.WriteString("|---|---|---|---|---|---|\n")
	for _, r := range s.Results {
		fmt.Fprintf(&b, "| %s | %s | %s | %s | %d | %d |\n", r.ID, r.Status(), r.Name, r.Category, r.Units, r.FailedUnits)
	}

	for _, r := range s.Failed() {
		fmt.Fprintf(&b, "\n## %s %s\n\n", r.ID, r.Name)
		for i, si := range r.Issues {
			if i == MaxIssuesPerRequirement {
				fmt.Fprintf(&b, "- ... %d more\n", len(r.Issues)-i)
				break
			}
			fmt.Fprintf(&b, "- `%s` %s\n", si.Sample, escapeMarkdown(si.Issue.String()))
		}
		for _, e := range r.Errors {
			fmt.Fprintf(&b, "- error: %s\n", escapeMarkdown(e))
		}
	}
	return b.String()
}

var markdownEscaper = strings.NewReplacer("[", `\[`, "]", `\]`, "*", `\*`, "_", `\_`, "|", `\|`)

func escapeMarkdown(s string) string {
	return markdownEscaper.Replace(s)
}

// RenderMarkdown renders markdown for the terminal at the given wrap width.
// color false uses the notty style so output is stable in pipes and logs.
func RenderMarkdown(md string, width int, color bool) (string, error) {
	if width <= 0 {
		width = 80
	}
	style := glamour.WithStylePath("notty")
	if color {
		style = glamour.WithAutoStyle()
	}
	r, err := glamour.NewTermRenderer(style, glamour.WithWordWrap(width))
	if err != nil {
		return "", fmt.Errorf("failed to create markdown renderer: %w", err)
	}
	out, err := r.Render(md)
	if err != nil {
		return "", fmt.Errorf("failed to render markdown: %w", err)
	}
	return out, nil
}
