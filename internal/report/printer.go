package report

import (
	"fmt"
	"io"
	"strings"
	"time"

	"deckgen/internal/pacing"
	"deckgen/internal/validate"
	"deckgen/internal/verify"
)

// MaxIssuesPerRequirement caps the issues listed under one requirement.
const MaxIssuesPerRequirement = 5

// Printer writes styled text reports.
type Printer struct {
	w      io.Writer
	styles Styles
}

// NewPrinter creates a printer. color selects ColorStyles over PlainStyles.
func NewPrinter(w io.Writer, color bool) *Printer {
	styles := PlainStyles()
	if color {
		styles = ColorStyles()
	}
	return &Printer{w: w, styles: styles}
}

func (p *Printer) status(ok bool, pass, fail string) string {
	if ok {
		return p.styles.Pass.Render(pass)
	}
	return p.styles.Fail.Render(fail)
}

// Verify writes a verification summary. Failing requirements in a critical
// category are flagged.
func (p *Printer) Verify(s *verify.Summary, critical []string) {
	crit := make(map[verify.Category]bool, len(critical))
	for _, c := range critical {
		crit[verify.Category(strings.ToLower(c))] = true
	}

	fmt.Fprintln(p.w, p.styles.Title.Render("Verification "+s.RunID))
	fmt.Fprintln(p.w, p.styles.Muted.Render(fmt.Sprintf("%d sample(s) x %d pass(es), %d worker(s), %s",
		len(s.Samples), s.Passes, s.Workers, s.Duration.Round(time.Millisecond))))
	fmt.Fprintln(p.w)

	for _, r := range s.Results {
		line := fmt.Sprintf("%-4s %s  %s (%s)", r.ID, p.status(r.Passed, "PASS", "FAIL"), r.Name, r.Category)
		if !r.Passed && crit[r.Category] {
			line += " " + p.styles.Fail.Render("[critical]")
		}
		if r.Inconsistent {
			line += " " + p.styles.Warn.Render("[inconsistent across passes]")
		}
		fmt.Fprintln(p.w, line)

		for i, si := range r.Issues {
			if i == MaxIssuesPerRequirement {
				fmt.Fprintln(p.w, p.styles.Muted.Render(fmt.Sprintf("       ... %d more", len(r.Issues)-i)))
				break
			}
			fmt.Fprintf(p.w, "       %s: %s\n", si.Sample, si.Issue)
		}
		for _, e := range r.Errors {
			fmt.Fprintf(p.w, "       %s\n", p.styles.Warn.Render(e))
		}
	}

	passed, failed := s.Counts()
	fmt.Fprintln(p.w)
	fmt.Fprintf(p.w, "%s %d passed, %d failed\n", p.status(failed == 0, "OK", "FAILED"), passed, failed)
}

// Issues writes a flat issue list, or a success line when empty.
func (p *Printer) Issues(title string, issues []validate.Issue) {
	if len(issues) == 0 {
		fmt.Fprintf(p.w, "%s %s\n", p.styles.Pass.Render("OK"), title)
		return
	}
	fmt.Fprintf(p.w, "%s %s: %d issue(s)\n", p.styles.Fail.Render("FAIL"), title, len(issues))
	for _, is := range issues {
		style := p.styles.Fail
		if is.Severity == validate.SeverityWarning {
			style = p.styles.Warn
		}
		fmt.Fprintf(p.w, "  %s %s\n", style.Render(string(is.Severity)), is)
	}
}

// Pacing writes a deck pacing analysis.
func (p *Printer) Pacing(a pacing.DeckAnalysis) {
	fmt.Fprintln(p.w, p.styles.Title.Render("Pacing"))
	for _, s := range a.Slides {
		fmt.Fprintf(p.w, "  slide %-3d %-9s %4d words  %5.2f min  %s\n",
			s.Number, s.Type, s.Words, s.Duration, p.statusWord(s.Status))
		for _, sg := range s.Suggestions {
			fmt.Fprintf(p.w, "            %s %+d: %s\n", p.styles.Muted.Render(string(sg.Action)), sg.WordImpact, sg.Description)
		}
	}
	fmt.Fprintf(p.w, "  total     %d words (%s, band %d-%d), %.2f min (%s, band %.0f-%.0f)\n",
		a.TotalWords, p.statusWord(a.WordStatus), pacing.DeckWords.Min, pacing.DeckWords.Max,
		a.Duration, p.statusWord(a.DurationStatus), pacing.DeckDuration.Min, pacing.DeckDuration.Max)
}

func (p *Printer) statusWord(s pacing.Status) string {
	switch s {
	case pacing.StatusOK:
		return p.styles.Pass.Render(string(s))
	case pacing.StatusOver:
		return p.styles.Fail.Render(string(s))
	default:
		return p.styles.Warn.Render(string(s))
	}
}
