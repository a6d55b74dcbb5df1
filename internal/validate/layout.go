package validate

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"deckgen/internal/config"
	"deckgen/internal/pacing"
)

// Checker applies layout limits to slide fields.
type Checker struct {
	limits config.LayoutConfig
}

// NewChecker creates a checker. Zero limits fall back to the defaults.
func NewChecker(limits config.LayoutConfig) *Checker {
	def := config.DefaultConfig().Layout
	if limits.HeaderMaxLines <= 0 {
		limits.HeaderMaxLines = def.HeaderMaxLines
	}
	if limits.HeaderMaxChars <= 0 {
		limits.HeaderMaxChars = def.HeaderMaxChars
	}
	if limits.BodyMaxLines <= 0 {
		limits.BodyMaxLines = def.BodyMaxLines
	}
	if limits.BodyMaxChars <= 0 {
		limits.BodyMaxChars = def.BodyMaxChars
	}
	if limits.TipMaxLines <= 0 {
		limits.TipMaxLines = def.TipMaxLines
	}
	if limits.TipMaxChars <= 0 {
		limits.TipMaxChars = def.TipMaxChars
	}
	if limits.BulletMinLength <= 0 {
		limits.BulletMinLength = def.BulletMinLength
	}
	return &Checker{limits: limits}
}

// NonEmptyLines returns the lines of s that contain more than whitespace,
// with their 1-based line numbers.
func NonEmptyLines(s string) (lines []string, numbers []int) {
	for i, l := range strings.Split(s, "\n") {
		l = strings.TrimRight(l, "\r")
		if strings.TrimSpace(l) == "" {
			continue
		}
		lines = append(lines, l)
		numbers = append(numbers, i+1)
	}
	return lines, numbers
}

// LineCount checks that field has at most limit non-empty lines.
func LineCount(slide int, field, text string, limit int) []Issue {
	lines, _ := NonEmptyLines(text)
	if len(lines) <= limit {
		return nil
	}
	return []Issue{{
		Slide:    slide,
		Field:    field,
		Rule:     field + "_lines",
		Severity: SeverityError,
		Message:  fmt.Sprintf("%d lines exceeds limit of %d", len(lines), limit),
	}}
}

// LineLength checks that every non-empty line of field has at most limit characters.
func LineLength(slide int, field, text string, limit int) []Issue {
	var issues []Issue
	lines, numbers := NonEmptyLines(text)
	for i, l := range lines {
		if n := utf8.RuneCountInString(l); n > limit {
			issues = append(issues, Issue{
				Slide:    slide,
				Field:    field,
				Line:     numbers[i],
				Rule:     field + "_chars",
				Severity: SeverityError,
				Message:  fmt.Sprintf("%d characters exceeds limit of %d", n, limit),
			})
		}
	}
	return issues
}

// HeaderLines applies the header line cap.
func (c *Checker) HeaderLines(slide int, header string) []Issue {
	return LineCount(slide, FieldHeader, header, c.limits.HeaderMaxLines)
}

// HeaderChars applies the per-line header character cap.
func (c *Checker) HeaderChars(slide int, header string) []Issue {
	return LineLength(slide, FieldHeader, header, c.limits.HeaderMaxChars)
}

// BodyLines applies the body cap on non-empty lines.
func (c *Checker) BodyLines(slide int, body string) []Issue {
	return LineCount(slide, FieldBody, body, c.limits.BodyMaxLines)
}

// BodyChars applies the per-line body character cap.
func (c *Checker) BodyChars(slide int, body string) []Issue {
	return LineLength(slide, FieldBody, body, c.limits.BodyMaxChars)
}

// CheckTip applies the tip caps. An empty tip passes.
func (c *Checker) CheckTip(slide int, tip string) []Issue {
	issues := LineCount(slide, FieldTip, tip, c.limits.TipMaxLines)
	return append(issues, LineLength(slide, FieldTip, tip, c.limits.TipMaxChars)...)
}

// CheckBullets applies the bullet length floor to bullet lines of body.
func (c *Checker) CheckBullets(slide int, body string) []Issue {
	var issues []Issue
	lines, numbers := NonEmptyLines(body)
	for i, l := range lines {
		if !IsBullet(l) {
			continue
		}
		if utf8.RuneCountInString(bulletContent(l)) < c.limits.BulletMinLength {
			issues = append(issues, Issue{
				Slide:    slide,
				Field:    FieldBody,
				Line:     numbers[i],
				Rule:     "bullet_length",
				Severity: SeverityWarning,
				Message:  ReasonBulletTooShort,
			})
		}
	}
	return issues
}

// CheckNotesLength checks the notes word count against the slide type's
// band maximum.
func CheckNotesLength(slide int, typ pacing.SlideType, notes string) []Issue {
	words := pacing.CountWords(notes)
	band := pacing.BandFor(typ)
	if words <= band.Max {
		return nil
	}
	return []Issue{{
		Slide:    slide,
		Field:    FieldNotes,
		Rule:     "notes_words",
		Severity: SeverityError,
		Message:  fmt.Sprintf("%d words exceeds %s maximum of %d", words, typ, band.Max),
	}}
}
