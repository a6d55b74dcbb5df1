package validate

import (
	"regexp"
	"strings"
)

var (
	fixEllipsis  = regexp.MustCompile(`(\.{3,}|…)+$`)
	fixSeparator = regexp.MustCompile(`[,;]+$`)
)

// maxFixPasses bounds the fixed-point loop in AutoFix.
const maxFixPasses = 8

// AutoFix repairs the mechanical truncation signatures of one line: a
// trailing ellipsis or comma/semicolon becomes a period and a period is
// appended when terminal punctuation is missing. Bullets get the ellipsis
// and separator normalization only; a bullet without either is returned
// unchanged, and a bare bullet glyph never gains a period. A dangling last
// word is not removed, it only gains the period. AutoFix is idempotent.
func AutoFix(text string) string {
	for i := 0; i < maxFixPasses; i++ {
		next := fixOnce(text)
		if next == text {
			break
		}
		text = next
	}
	return text
}

func fixOnce(s string) string {
	if IsBullet(s) {
		if !truncated(s) {
			return s
		}
		s = trimTruncation(s)
		if bulletContent(s) == "" {
			return s
		}
		return terminate(s)
	}
	s = strings.TrimRight(s, " \t")
	if truncated(s) {
		s = trimTruncation(s)
	}
	if s == "" {
		return s
	}
	return terminate(s)
}

func truncated(s string) bool {
	return fixEllipsis.MatchString(s) || fixSeparator.MatchString(s)
}

// trimTruncation strips trailing ellipses, separators and blanks until none remain.
func trimTruncation(s string) string {
	for {
		next := strings.TrimRight(fixEllipsis.ReplaceAllString(s, ""), " \t,;")
		if next == s {
			return s
		}
		s = next
	}
}

func terminate(s string) string {
	if endsWithTerminal(s) || endsWithMarker(s) {
		return s
	}
	return s + "."
}

// FixNotes applies AutoFix to every non-empty line of notes.
func FixNotes(notes string) string {
	lines := strings.Split(notes, "\n")
	for i, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		lines[i] = AutoFix(line)
	}
	return strings.Join(lines, "\n")
}
