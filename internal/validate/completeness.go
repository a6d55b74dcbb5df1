package validate

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// MinBulletLength is the minimum length of a bullet's text.
const MinBulletLength = 3

// Reasons reported by IsCompleteSentence.
const (
	ReasonEmpty              = "empty text"
	ReasonEllipsis           = "trailing ellipsis indicates truncation"
	ReasonWhitespace         = "trailing whitespace indicates truncation"
	ReasonSeparator          = "trailing comma or semicolon indicates truncation"
	ReasonDanglingWord       = "ends with a conjunction, preposition or article"
	ReasonHyphen             = "trailing hyphen indicates truncation"
	ReasonMissingPunctuation = "missing terminal punctuation"
	ReasonBulletTooShort     = "bullet text is too short"
)

// DanglingWords are words a complete sentence never ends with.
var DanglingWords = []string{
	"and", "or", "but", "nor", "so", "yet", "for",
	"with", "to", "of", "in", "on", "at", "by", "from",
	"the", "a", "an",
	"that", "which", "who", "whom", "whose",
}

type truncation struct {
	pattern *regexp.Regexp
	reason  string
}

// truncations are checked in order, before terminal punctuation.
var truncations = []truncation{
	{regexp.MustCompile(`(\.\.\.|…)$`), ReasonEllipsis},
	{regexp.MustCompile(`\s$`), ReasonWhitespace},
	{regexp.MustCompile(`[,;]$`), ReasonSeparator},
	{regexp.MustCompile(`(?i)\b(` + strings.Join(DanglingWords, "|") + `)$`), ReasonDanglingWord},
	{regexp.MustCompile(`[-‐‑–—]$`), ReasonHyphen},
}

var (
	bulletPattern         = regexp.MustCompile(`^\s*[-•*](\s+|$)`)
	trailingMarkerPattern = regexp.MustCompile(`\[[^\]]*\]$`)
)

// IsBullet reports whether line is a bullet point. A bare glyph counts.
func IsBullet(line string) bool {
	return bulletPattern.MatchString(line)
}

func bulletContent(line string) string {
	return strings.TrimSpace(bulletPattern.ReplaceAllString(line, ""))
}

func truncationReason(text string) (string, bool) {
	for _, t := range truncations {
		if t.pattern.MatchString(text) {
			return t.reason, true
		}
	}
	return "", false
}

func endsWithTerminal(s string) bool {
	r, _ := utf8.DecodeLastRuneInString(s)
	switch r {
	case '.', '!', '?', ':':
		return true
	}
	return false
}

func endsWithMarker(s string) bool {
	return trailingMarkerPattern.MatchString(s)
}

// IsCompleteSentence reports whether text reads as a finished sentence and,
// if not, why. Truncation signatures take precedence over terminal
// punctuation. Text ending in a bracketed marker such as [PAUSE] is
// complete. Bullet lines only get the truncation and length checks.
func IsCompleteSentence(text string) (bool, string) {
	if strings.TrimSpace(text) == "" {
		return false, ReasonEmpty
	}
	if reason, ok := truncationReason(text); ok {
		return false, reason
	}
	if IsBullet(text) {
		if utf8.RuneCountInString(bulletContent(text)) < MinBulletLength {
			return false, ReasonBulletTooShort
		}
		return true, ""
	}
	if endsWithMarker(text) || endsWithTerminal(text) {
		return true, ""
	}
	return false, ReasonMissingPunctuation
}

// CheckNotes checks every non-empty line of notes.
func CheckNotes(slide int, notes string) []Issue {
	var issues []Issue
	for i, line := range strings.Split(notes, "\n") {
		line = strings.TrimSuffix(line, "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		if ok, reason := IsCompleteSentence(line); !ok {
			issues = append(issues, Issue{
				Slide:    slide,
				Field:    FieldNotes,
				Line:     i + 1,
				Rule:     "complete_sentence",
				Severity: SeverityError,
				Message:  reason + ": " + excerpt(line),
			})
		}
	}
	return issues
}

func excerpt(s string) string {
	const limit = 40
	s = strings.TrimSpace(s)
	if utf8.RuneCountInString(s) <= limit {
		return `"` + s + `"`
	}
	r := []rune(s)
	return `"…` + string(r[len(r)-limit:]) + `"`
}
