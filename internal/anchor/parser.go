package anchor

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"go.uber.org/zap"
)

// HeadingPattern recognizes an anchor heading line.
// Number is the submatch index of an explicit number (0 if none); Title is the
// submatch index of the title.
type HeadingPattern struct {
	Name   string
	Regex  *regexp.Regexp
	Number int
	Title  int
}

// DefaultPatterns are tried in order; the first match wins.
var DefaultPatterns = []HeadingPattern{
	{Name: "explicit", Regex: regexp.MustCompile(`(?i)^anchor\s+(\d+)\s*[:.\-–]\s*(.+)$`), Number: 1, Title: 2},
	{Name: "numbered", Regex: regexp.MustCompile(`^(\d+)\.\s+(.+)$`), Number: 1, Title: 2},
	{Name: "markdown", Regex: regexp.MustCompile(`^#{2,3}\s+(.+?)\s*#*$`), Title: 1},
	{Name: "bold", Regex: regexp.MustCompile(`^\*\*(.+?)\*\*:?$`), Title: 1},
	{Name: "topic", Regex: regexp.MustCompile(`(?i)^(?:topic|concept|point)\s+(\d+)\s*:\s*(.+)$`), Number: 1, Title: 2},
}

// headingStyles are paragraph style hints treated as anchor boundaries.
var headingStyles = map[string]bool{
	"title":     true,
	"heading 1": true,
	"heading 2": true,
	"heading 3": true,
	"heading1":  true,
	"heading2":  true,
	"heading3":  true,
	"h1":        true,
	"h2":        true,
	"h3":        true,
}

// Paragraph is one pre-segmented block of source text with an optional style hint.
type Paragraph struct {
	Text  string
	Style string
}

// ParseResult is the outcome of a parse.
type ParseResult struct {
	Anchors  []Anchor `json:"anchors"`
	Warnings []string `json:"warnings,omitempty"`
}

// Parser splits document text into anchors.
type Parser struct {
	patterns []HeadingPattern
	logger   *zap.Logger
}

// NewParser creates a parser with the default heading patterns.
func NewParser(logger *zap.Logger) *Parser {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Parser{patterns: DefaultPatterns, logger: logger}
}

// WithPatterns returns a copy of the parser using the given patterns in order.
func (p *Parser) WithPatterns(patterns []HeadingPattern) *Parser {
	cp := *p
	cp.patterns = patterns
	return &cp
}

// Parse extracts anchors from raw text, one paragraph per line.
func (p *Parser) Parse(text string) ParseResult {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	lines := strings.Split(text, "\n")
	paras := make([]Paragraph, len(lines))
	for i, l := range lines {
		paras[i] = Paragraph{Text: l}
	}
	return p.ParseParagraphs(paras)
}

type heading struct {
	title  string
	number int
	hasNum bool
	style  string
}

// match tries each pattern in order, then the paragraph style hint.
func (p *Parser) match(para Paragraph) (heading, bool) {
	line := strings.TrimSpace(para.Text)
	if line == "" {
		return heading{}, false
	}
	for _, pat := range p.patterns {
		m := pat.Regex.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		h := heading{title: strings.TrimSpace(m[pat.Title]), style: pat.Name}
		if pat.Number > 0 {
			if n, err := strconv.Atoi(m[pat.Number]); err == nil {
				h.number = n
				h.hasNum = true
			}
		}
		if h.title == "" {
			continue
		}
		return h, true
	}
	style := strings.ToLower(strings.TrimSpace(para.Style))
	if headingStyles[style] {
		return heading{title: line, style: style}, true
	}
	return heading{}, false
}

// ParseParagraphs extracts anchors from pre-segmented paragraphs.
func (p *Parser) ParseParagraphs(paras []Paragraph) ParseResult {
	var result ParseResult

	var (
		current  *heading
		body     []string
		counter  int
		preamble int
	)

	flush := func() {
		if current == nil {
			return
		}
		a, err := New(IDFor(len(result.Anchors)), current.number, current.title, strings.Join(body, "\n"))
		if err != nil {
			result.Warnings = append(result.Warnings, err.Error())
		} else {
			a.Style = current.style
			result.Anchors = append(result.Anchors, a)
		}
		body = body[:0]
	}

	for _, para := range paras {
		if h, ok := p.match(para); ok {
			flush()
			if h.hasNum {
				counter = h.number
			} else {
				counter++
				h.number = counter
			}
			hc := h
			current = &hc
			continue
		}
		line := strings.TrimSpace(para.Text)
		if line == "" {
			continue
		}
		if current == nil {
			preamble++
			continue
		}
		body = append(body, line)
	}
	flush()

	if len(result.Anchors) == 0 {
		result.Warnings = append(result.Warnings, "no anchor headings found")
		p.logger.Warn("no anchors found", zap.Int("paragraphs", len(paras)))
		return result
	}
	if preamble > 0 {
		result.Warnings = append(result.Warnings,
			fmt.Sprintf("%d line(s) before the first anchor heading were ignored", preamble))
	}
	p.logger.Debug("anchors parsed",
		zap.Int("anchors", len(result.Anchors)),
		zap.Int("warnings", len(result.Warnings)))
	return result
}
