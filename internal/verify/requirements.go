// Package verify runs numbered requirement checks over blueprint samples
// with a bounded worker pool and aggregates a pass/fail verdict.
package verify

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"deckgen/internal/blueprint"
	"deckgen/internal/pacing"
	"deckgen/internal/validate"
)

// Category groups requirements for the exit-code policy.
type Category string

const (
	CategoryLayout       Category = "layout"
	CategoryPacing       Category = "pacing"
	CategoryStructure    Category = "structure"
	CategoryCoverage     Category = "coverage"
	CategoryCompleteness Category = "completeness"
)

// CheckFunc inspects a parsed deck and returns its violations.
type CheckFunc func(deck *blueprint.Deck) []validate.Issue

// Requirement is one numbered check.
type Requirement struct {
	ID       string
	Name     string
	Category Category
	Check    CheckFunc
}

// Requirements returns R1 through R14. Layout checks use checker and
// pacing checks use engine.
func Requirements(checker *validate.Checker, engine *pacing.Engine) []Requirement {
	perSlide := func(f func(s blueprint.Slide) []validate.Issue) CheckFunc {
		return func(d *blueprint.Deck) []validate.Issue {
			var out []validate.Issue
			for _, s := range d.Slides {
				out = append(out, f(s)...)
			}
			return out
		}
	}
	return []Requirement{
		{"R1", "header line cap", CategoryLayout, perSlide(func(s blueprint.Slide) []validate.Issue {
			return checker.HeaderLines(s.Number, s.Header)
		})},
		{"R2", "header character cap", CategoryLayout, perSlide(func(s blueprint.Slide) []validate.Issue {
			return checker.HeaderChars(s.Number, s.Header)
		})},
		{"R3", "body line cap", CategoryLayout, perSlide(func(s blueprint.Slide) []validate.Issue {
			return checker.BodyLines(s.Number, s.Body)
		})},
		{"R4", "body character cap", CategoryLayout, perSlide(func(s blueprint.Slide) []validate.Issue {
			return checker.BodyChars(s.Number, s.Body)
		})},
		{"R5", "tip line and character caps", CategoryLayout, perSlide(func(s blueprint.Slide) []validate.Issue {
			if !s.HasTip() {
				return nil
			}
			return checker.CheckTip(s.Number, s.Tip)
		})},
		{"R6", "notes word cap per slide type", CategoryPacing, perSlide(func(s blueprint.Slide) []validate.Issue {
			return validate.CheckNotesLength(s.Number, s.Type, s.Notes)
		})},
		{"R7", "required sections present in order", CategoryStructure, perSlide(checkSections)},
		{"R8", "anchor coverage", CategoryCoverage, checkCoverage},
		{"R9", "fixed slide ordering", CategoryStructure, checkOrdering},
		{"R10", "sequential numbering", CategoryStructure, checkNumbering},
		{"R11", "complete sentences in notes", CategoryCompleteness, perSlide(func(s blueprint.Slide) []validate.Issue {
			return validate.CheckNotes(s.Number, s.Notes)
		})},
		{"R12", "content slides carry a pause marker", CategoryPacing, perSlide(checkPause)},
		{"R13", "deck word and duration bands", CategoryPacing, deckBands(engine)},
		{"R14", "bullet minimum length", CategoryLayout, perSlide(func(s blueprint.Slide) []validate.Issue {
			return checker.CheckBullets(s.Number, s.Body)
		})},
	}
}

func issue(slide int, field, rule, format string, args ...any) validate.Issue {
	return validate.Issue{
		Slide:    slide,
		Field:    field,
		Rule:     rule,
		Severity: validate.SeverityError,
		Message:  fmt.Sprintf(format, args...),
	}
}

func checkSections(s blueprint.Slide) []validate.Issue {
	var out []validate.Issue
	seen := make(map[string]int)
	var order []string
	for _, sec := range s.Sections {
		seen[sec]++
		if seen[sec] == 1 {
			order = append(order, sec)
		} else if seen[sec] == 2 {
			out = append(out, issue(s.Number, "sections", "sections", "section %s appears more than once", sec))
		}
	}
	for _, req := range blueprint.RequiredSections {
		if seen[req] == 0 {
			out = append(out, issue(s.Number, "sections", "sections", "missing section %s", req))
		}
	}

	var present []string
	for _, sec := range order {
		for _, req := range blueprint.RequiredSections {
			if sec == req {
				present = append(present, sec)
			}
		}
	}
	want := 0
	for _, sec := range present {
		for want < len(blueprint.RequiredSections) && blueprint.RequiredSections[want] != sec {
			want++
		}
		if want == len(blueprint.RequiredSections) {
			out = append(out, issue(s.Number, "sections", "sections",
				"sections out of order: %s", strings.Join(present, ", ")))
			break
		}
	}
	return out
}

// checkCoverage applies only when the deck declares TOTAL ANCHORS.
func checkCoverage(d *blueprint.Deck) []validate.Issue {
	if d.TotalAnchors <= 0 {
		return nil
	}
	var out []validate.Issue
	covered := d.CoveredAnchors()

	var missing []string
	for n := 1; n <= d.TotalAnchors; n++ {
		if !covered[n] {
			missing = append(missing, strconv.Itoa(n))
		}
	}
	if len(missing) > 0 {
		out = append(out, issue(0, "anchors", "coverage",
			"%d of %d anchors not covered: %s", len(missing), d.TotalAnchors, strings.Join(missing, ", ")))
	}

	for _, s := range d.Slides {
		for _, n := range s.Anchors {
			if n < 1 || n > d.TotalAnchors {
				out = append(out, issue(s.Number, "anchors", "coverage",
					"anchor %d outside declared range 1-%d", n, d.TotalAnchors))
			}
		}
	}
	return out
}

func checkOrdering(d *blueprint.Deck) []validate.Issue {
	n := len(d.Slides)
	if n < 3 {
		return []validate.Issue{issue(0, "deck", "ordering",
			"deck has %d slides; needs title, intro and summary", n)}
	}
	var out []validate.Issue
	expect := func(s blueprint.Slide, want pacing.SlideType, pos string) {
		if s.Type != want {
			out = append(out, issue(s.Number, "type", "ordering",
				"%s slide must be %s, got %s", pos, want, s.Type))
		}
	}
	expect(d.Slides[0], pacing.SlideTitle, "first")
	expect(d.Slides[1], pacing.SlideIntro, "second")
	expect(d.Slides[n-1], pacing.SlideSummary, "last")

	for _, s := range d.Slides[2 : n-1] {
		switch s.Type {
		case pacing.SlideTitle, pacing.SlideIntro, pacing.SlideSummary:
			out = append(out, issue(s.Number, "type", "ordering",
				"%s slide in the middle of the deck", s.Type))
		}
	}
	return out
}

func checkNumbering(d *blueprint.Deck) []validate.Issue {
	var out []validate.Issue
	for i, s := range d.Slides {
		if s.Number != i+1 {
			out = append(out, issue(s.Number, "number", "numbering",
				"slide at position %d is numbered %d", i+1, s.Number))
		}
	}
	return out
}

func checkPause(s blueprint.Slide) []validate.Issue {
	if s.Type != pacing.SlideContent {
		return nil
	}
	if pacing.CountMarkers(s.Notes).Pause > 0 {
		return nil
	}
	return []validate.Issue{issue(s.Number, validate.FieldNotes, "pause_marker", "content slide has no [PAUSE] marker")}
}

func deckBands(engine *pacing.Engine) CheckFunc {
	return func(d *blueprint.Deck) []validate.Issue {
		a := engine.AnalyzeDeck(d.SlideNotes())
		var out []validate.Issue
		if a.WordStatus != pacing.StatusOK {
			out = append(out, issue(0, "deck", "deck_words",
				"deck has %d words, %s band %d-%d",
				a.TotalWords, a.WordStatus, pacing.DeckWords.Min, pacing.DeckWords.Max))
		}
		if a.DurationStatus != pacing.StatusOK {
			out = append(out, issue(0, "deck", "deck_duration",
				"deck runs %.2f minutes, %s band %.0f-%.0f",
				a.Duration, a.DurationStatus, pacing.DeckDuration.Min, pacing.DeckDuration.Max))
		}
		return out
	}
}

// Select returns the requirements whose ids are listed, in their original
// order. An empty list selects everything. Unknown ids are an error.
func Select(reqs []Requirement, ids []string) ([]Requirement, error) {
	if len(ids) == 0 {
		return reqs, nil
	}
	want := make(map[string]bool, len(ids))
	for _, id := range ids {
		want[strings.ToUpper(strings.TrimSpace(id))] = true
	}
	var out []Requirement
	for _, r := range reqs {
		if want[r.ID] {
			out = append(out, r)
			delete(want, r.ID)
		}
	}
	if len(want) > 0 {
		unknown := make([]string, 0, len(want))
		for id := range want {
			unknown = append(unknown, id)
		}
		sort.Strings(unknown)
		return nil, fmt.Errorf("unknown requirement(s): %s", strings.Join(unknown, ", "))
	}
	return out, nil
}
