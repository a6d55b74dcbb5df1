package blueprint

import (
	"errors"
	"fmt"
	"os"
	"regexp"
	"strconv"
	"strings"

	"deckgen/internal/pacing"
)

// ErrNoSlides is returned by Load when a file holds no slide blocks.
var ErrNoSlides = errors.New("no slide blocks found")

var (
	rulePattern    = regexp.MustCompile(`^={20,}\s*$`)
	slidePattern   = regexp.MustCompile(`(?i)^SLIDE\s+(\d+)\s*(?:\(([^)]*)\))?\s*(?:[:\-–]\s*(.*))?$`)
	anchorsPattern = regexp.MustCompile(`(?i)^ANCHORS?\s*:\s*(.*)$`)
	deckPattern    = regexp.MustCompile(`(?i)^DECK\s*:\s*(.*)$`)
	totalPattern   = regexp.MustCompile(`(?i)^TOTAL\s+ANCHORS\s*:\s*(\d+)\s*$`)
	labelPattern   = regexp.MustCompile(`(?i)^(HEADER|BODY|NCLEX\s+TIP|PRESENTER\s+NOTES)\s*:\s*(.*)$`)
	spacePattern   = regexp.MustCompile(`\s+`)
)

// Load reads and parses a blueprint file.
func Load(path string) (*Deck, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read blueprint %s: %w", path, err)
	}
	deck := Parse(string(data))
	if len(deck.Slides) == 0 {
		return deck, fmt.Errorf("%s: %w", path, ErrNoSlides)
	}
	return deck, nil
}

// Parse parses blueprint text. It never fails: malformed blocks are skipped
// with a warning.
func Parse(text string) *Deck {
	deck := &Deck{Slides: []Slide{}}
	lines := strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")

	i := 0
	for ; i < len(lines) && !rulePattern.MatchString(lines[i]); i++ {
		line := strings.TrimSpace(lines[i])
		if m := deckPattern.FindStringSubmatch(line); m != nil {
			deck.Name = strings.TrimSpace(m[1])
		} else if m := totalPattern.FindStringSubmatch(line); m != nil {
			deck.TotalAnchors, _ = strconv.Atoi(m[1])
		}
	}

	var block []string
	start := 0
	flush := func() {
		if s, ok := parseBlock(block, start, deck); ok {
			deck.Slides = append(deck.Slides, s)
		}
		block = nil
	}
	for ; i < len(lines); i++ {
		if rulePattern.MatchString(lines[i]) {
			flush()
			start = i + 2
			continue
		}
		block = append(block, lines[i])
	}
	flush()
	return deck
}

// parseBlock parses the lines between two rule lines. first is the 1-based
// source line of block[0].
func parseBlock(block []string, first int, deck *Deck) (Slide, bool) {
	j := 0
	for j < len(block) && strings.TrimSpace(block[j]) == "" {
		j++
	}
	if j == len(block) {
		return Slide{}, false
	}

	heading := strings.TrimSpace(block[j])
	m := slidePattern.FindStringSubmatch(heading)
	if m == nil {
		deck.Warnings = append(deck.Warnings,
			fmt.Sprintf("line %d: block without SLIDE heading skipped: %q", first+j, heading))
		return Slide{}, false
	}

	n, _ := strconv.Atoi(m[1])
	s := Slide{
		Number:   n,
		Label:    strings.TrimSpace(m[2]),
		Sections: []string{},
		Line:     first + j,
	}
	s.Type = pacing.ParseSlideType(s.Label)

	content := map[string][]string{}
	current := ""
	for _, raw := range block[j+1:] {
		line := strings.TrimRight(raw, "\r")
		trimmed := strings.TrimSpace(line)
		if lm := labelPattern.FindStringSubmatch(trimmed); lm != nil {
			current = canonicalLabel(lm[1])
			s.Sections = append(s.Sections, current)
			if rest := strings.TrimSpace(lm[2]); rest != "" {
				content[current] = append(content[current], rest)
			}
			continue
		}
		if current == "" {
			if am := anchorsPattern.FindStringSubmatch(trimmed); am != nil {
				s.Anchors = parseAnchorList(am[1])
			}
			continue
		}
		content[current] = append(content[current], line)
	}

	s.Header = joinSection(content[SectionHeader])
	s.Body = joinSection(content[SectionBody])
	s.Tip = joinSection(content[SectionTip])
	s.Notes = joinSection(content[SectionNotes])
	return s, true
}

func canonicalLabel(l string) string {
	return strings.ToUpper(spacePattern.ReplaceAllString(l, " "))
}

// parseAnchorList reads "3, 4, 7-9" style lists.
func parseAnchorList(s string) []int {
	var out []int
	for _, part := range strings.FieldsFunc(s, func(r rune) bool { return r == ',' || r == ' ' || r == ';' }) {
		if lo, hi, ok := strings.Cut(part, "-"); ok {
			a, errA := strconv.Atoi(lo)
			b, errB := strconv.Atoi(hi)
			if errA == nil && errB == nil && a <= b {
				for k := a; k <= b; k++ {
					out = append(out, k)
				}
			}
			continue
		}
		if n, err := strconv.Atoi(part); err == nil {
			out = append(out, n)
		}
	}
	return out
}

// joinSection drops leading and trailing blank lines.
func joinSection(lines []string) string {
	for len(lines) > 0 && strings.TrimSpace(lines[0]) == "" {
		lines = lines[1:]
	}
	for len(lines) > 0 && strings.TrimSpace(lines[len(lines)-1]) == "" {
		lines = lines[:len(lines)-1]
	}
	return strings.Join(lines, "\n")
}
