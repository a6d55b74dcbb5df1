// Package anchor models discrete units of source content ("anchors") and
// extracts them from raw document text.
package anchor

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrInvalidAnchor is returned by New when required fields are missing.
	ErrInvalidAnchor = errors.New("invalid anchor")
)

// Anchor is one unit of source content with a title and body.
// Anchors are immutable after parsing; analysis packages derive new records
// from them and never modify them.
type Anchor struct {
	ID       string            `json:"id"`
	Number   int               `json:"number"`
	Title    string            `json:"title"`
	Body     string            `json:"body"`
	Style    string            `json:"style,omitempty"`
	Metadata map[string]string `json:"metadata,omitempty"`
}

// New validates and builds an Anchor.
func New(id string, number int, title, body string) (Anchor, error) {
	id = strings.TrimSpace(id)
	title = strings.TrimSpace(title)
	if id == "" {
		return Anchor{}, fmt.Errorf("%w: empty id", ErrInvalidAnchor)
	}
	if title == "" {
		return Anchor{}, fmt.Errorf("%w: anchor %s has empty title", ErrInvalidAnchor, id)
	}
	return Anchor{
		ID:     id,
		Number: number,
		Title:  title,
		Body:   strings.TrimSpace(body),
	}, nil
}

// FullText returns title and body joined by a newline, trimmed.
func (a Anchor) FullText() string {
	return strings.TrimSpace(a.Title + "\n" + a.Body)
}

// MatchSurface is the lower-cased text keyword matchers run against.
func (a Anchor) MatchSurface() string {
	return strings.ToLower(a.Title + " " + a.Body)
}

// IDFor returns the stable id for the anchor at position idx (0-based).
func IDFor(idx int) string {
	return fmt.Sprintf("anchor_%03d", idx+1)
}

// IDs returns the ids of anchors in order.
func IDs(anchors []Anchor) []string {
	ids := make([]string, len(anchors))
	for i, a := range anchors {
		ids[i] = a.ID
	}
	return ids
}
