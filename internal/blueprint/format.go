package blueprint

import (
	"fmt"
	"strconv"
	"strings"
)

// Format writes deck in blueprint layout. Sections are written in the order
// they were parsed, or in the required order for slides built in code.
func Format(deck *Deck) string {
	var b strings.Builder
	if deck.Name != "" {
		fmt.Fprintf(&b, "DECK: %s\n", deck.Name)
	}
	if deck.TotalAnchors > 0 {
		fmt.Fprintf(&b, "TOTAL ANCHORS: %d\n", deck.TotalAnchors)
	}

	for _, s := range deck.Slides {
		b.WriteString(RuleLine)
		b.WriteByte('\n')

		label := s.Label
		if label == "" {
			label = strings.ToUpper(string(s.Type))
		}
		if label != "" {
			fmt.Fprintf(&b, "SLIDE %d (%s)\n", s.Number, label)
		} else {
			fmt.Fprintf(&b, "SLIDE %d\n", s.Number)
		}
		if len(s.Anchors) > 0 {
			nums := make([]string, len(s.Anchors))
			for i, n := range s.Anchors {
				nums[i] = strconv.Itoa(n)
			}
			fmt.Fprintf(&b, "ANCHORS: %s\n", strings.Join(nums, ", "))
		}

		sections := s.Sections
		if len(sections) == 0 {
			sections = RequiredSections
		}
		for _, sec := range sections {
			fmt.Fprintf(&b, "%s:\n", sec)
			if text := s.field(sec); text != "" {
				b.WriteString(text)
				b.WriteByte('\n')
			}
		}
	}
	if len(deck.Slides) > 0 {
		b.WriteString(RuleLine)
		b.WriteByte('\n')
	}
	return b.String()
}

func (s Slide) field(section string) string {
	switch section {
	case SectionHeader:
		return s.Header
	case SectionBody:
		return s.Body
	case SectionTip:
		return s.Tip
	case SectionNotes:
		return s.Notes
	}
	return ""
}
