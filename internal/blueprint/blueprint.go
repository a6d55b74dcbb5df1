// Package blueprint reads and writes the line-oriented slide blueprint
// format: slide blocks separated by a rule line, each with labeled
// HEADER, BODY, NCLEX TIP and PRESENTER NOTES sections.
package blueprint

import (
	"regexp"
	"strings"

	"deckgen/internal/pacing"
)

// RuleLine separates slide blocks.
var RuleLine = strings.Repeat("=", 80)

// Section labels in their required order.
const (
	SectionHeader = "HEADER"
	SectionBody   = "BODY"
	SectionTip    = "NCLEX TIP"
	SectionNotes  = "PRESENTER NOTES"
)

// RequiredSections lists the labels every slide carries, in order.
var RequiredSections = []string{SectionHeader, SectionBody, SectionTip, SectionNotes}

// Slide is one parsed slide block.
type Slide struct {
	Number   int              `json:"slide_number"`
	Type     pacing.SlideType `json:"slide_type"`
	Label    string           `json:"label,omitempty"` // type as written
	Header   string           `json:"header"`
	Body     string           `json:"body"`
	Tip      string           `json:"tip"`
	Notes    string           `json:"notes"`
	Anchors  []int            `json:"anchors,omitempty"`
	Sections []string         `json:"sections"` // labels in the order found
	Line     int              `json:"line"`     // source line of the SLIDE heading
}

// HasTip reports whether the slide carries a real tip.
func (s Slide) HasTip() bool {
	return !IsPlaceholderTip(s.Tip)
}

// Has reports whether the labeled section was present.
func (s Slide) Has(section string) bool {
	for _, sec := range s.Sections {
		if sec == section {
			return true
		}
	}
	return false
}

var placeholderPattern = regexp.MustCompile(`(?i)^\[\s*none\b[^\]]*\]$`)

// IsPlaceholderTip reports whether tip stands for "no tip": empty text,
// none, n/a, or any bracketed [none ...] value, case-insensitive.
func IsPlaceholderTip(tip string) bool {
	t := strings.TrimSpace(tip)
	switch strings.ToLower(t) {
	case "", "none", "n/a":
		return true
	}
	return placeholderPattern.MatchString(t)
}

// Deck is a parsed blueprint.
type Deck struct {
	Name         string   `json:"name,omitempty"`
	TotalAnchors int      `json:"total_anchors,omitempty"` // zero when undeclared
	Slides       []Slide  `json:"slides"`
	Warnings     []string `json:"warnings,omitempty"`
}

// SlideNotes converts slides to pacing input.
func (d *Deck) SlideNotes() []pacing.SlideNotes {
	out := make([]pacing.SlideNotes, 0, len(d.Slides))
	for _, s := range d.Slides {
		out = append(out, pacing.SlideNotes{Number: s.Number, Type: s.Type, Notes: s.Notes})
	}
	return out
}

// CoveredAnchors returns the set of anchor numbers referenced by slides.
func (d *Deck) CoveredAnchors() map[int]bool {
	out := make(map[int]bool)
	for _, s := range d.Slides {
		for _, n := range s.Anchors {
			out[n] = true
		}
	}
	return out
}
