package anchor

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_ExplicitAnchors(t *testing.T) {
	p := NewParser(nil)
	res := p.Parse("Anchor 1: Topic A\nline one\nAnchor 2: Topic B\nline two")

	require.Len(t, res.Anchors, 2)
	assert.Equal(t, "Topic A", res.Anchors[0].Title)
	assert.Equal(t, "line one", res.Anchors[0].Body)
	assert.Equal(t, 1, res.Anchors[0].Number)
	assert.Equal(t, "Topic B", res.Anchors[1].Title)
	assert.Equal(t, "line two", res.Anchors[1].Body)
	assert.Equal(t, 2, res.Anchors[1].Number)
	assert.Empty(t, res.Warnings)
}

func TestParse_PatternPrecedence(t *testing.T) {
	tests := []struct {
		line  string
		style string
		title string
	}{
		{"Anchor 3: Heart Failure", "explicit", "Heart Failure"},
		{"anchor 4 - Insulin", "explicit", "Insulin"},
		{"7. Fluid Balance", "numbered", "Fluid Balance"},
		{"## Delegation", "markdown", "Delegation"},
		{"### Isolation ###", "markdown", "Isolation"},
		{"**Lab Values**", "bold", "Lab Values"},
		{"**Lab Values**:", "bold", "Lab Values"},
		{"Concept 2: Blocking", "topic", "Blocking"},
		{"Point 9: Projection", "topic", "Projection"},
	}
	p := NewParser(nil)
	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			res := p.Parse(tt.line + "\nbody")
			require.Len(t, res.Anchors, 1)
			assert.Equal(t, tt.style, res.Anchors[0].Style)
			assert.Equal(t, tt.title, res.Anchors[0].Title)
		})
	}
}

func TestParse_ExplicitNumberOverridesCounter(t *testing.T) {
	text := "## Intro\na\nAnchor 5: Jump\nb\n## After\nc\n## Again\nd"
	res := NewParser(nil).Parse(text)

	var numbers []int
	for _, a := range res.Anchors {
		numbers = append(numbers, a.Number)
	}
	if diff := cmp.Diff([]int{1, 5, 6, 7}, numbers); diff != "" {
		t.Errorf("numbers mismatch (-want +got):\n%s", diff)
	}
	// IDs stay positional and unique.
	assert.Equal(t, []string{"anchor_001", "anchor_002", "anchor_003", "anchor_004"}, IDs(res.Anchors))
}

func TestParse_DuplicateExplicitNumbersKeepUniqueIDs(t *testing.T) {
	res := NewParser(nil).Parse("Anchor 1: A\nx\nAnchor 1: B\ny")
	require.Len(t, res.Anchors, 2)
	assert.NotEqual(t, res.Anchors[0].ID, res.Anchors[1].ID)
	assert.Equal(t, 1, res.Anchors[1].Number)
}

func TestParse_NoHeadings(t *testing.T) {
	res := NewParser(nil).Parse("just prose\nwith no headings")
	assert.Empty(t, res.Anchors)
	require.Len(t, res.Warnings, 1)
	assert.Contains(t, res.Warnings[0], "no anchor headings")
}

func TestParse_PreambleWarning(t *testing.T) {
	res := NewParser(nil).Parse("Course notes\n\n## First\nbody")
	require.Len(t, res.Anchors, 1)
	require.Len(t, res.Warnings, 1)
	assert.Contains(t, res.Warnings[0], "1 line(s)")
}

func TestParse_BodySkipsBlankLinesAndTrims(t *testing.T) {
	res := NewParser(nil).Parse("## A\n\n   first  \n\nsecond\r\n## B")
	require.Len(t, res.Anchors, 2)
	assert.Equal(t, "first\nsecond", res.Anchors[0].Body)
	assert.Equal(t, "", res.Anchors[1].Body)
	assert.Equal(t, "B", res.Anchors[1].FullText())
}

func TestParseParagraphs_StyleHints(t *testing.T) {
	paras := []Paragraph{
		{Text: "Stage Combat", Style: "Heading 2"},
		{Text: "Safety first in every fight call."},
		{Text: "Anchor 9: Lighting", Style: "Heading 2"},
		{Text: "Gels and gobos."},
		{Text: "Not a heading", Style: "Normal"},
	}
	res := NewParser(nil).ParseParagraphs(paras)
	require.Len(t, res.Anchors, 2)
	assert.Equal(t, "heading 2", res.Anchors[0].Style)
	assert.Equal(t, "Stage Combat", res.Anchors[0].Title)
	// Text pattern wins over the style hint.
	assert.Equal(t, "explicit", res.Anchors[1].Style)
	assert.Equal(t, 9, res.Anchors[1].Number)
	assert.Equal(t, "Gels and gobos.\nNot a heading", res.Anchors[1].Body)
}

func TestWithPatterns_OrderIsPrecedence(t *testing.T) {
	// With only the markdown pattern, numbered lines become body text.
	p := NewParser(nil).WithPatterns([]HeadingPattern{DefaultPatterns[2]})
	res := p.Parse("## Only\n1. not a heading")
	require.Len(t, res.Anchors, 1)
	assert.Equal(t, "1. not a heading", res.Anchors[0].Body)
}

func TestNew_Validation(t *testing.T) {
	_, err := New("", 1, "Title", "")
	assert.ErrorIs(t, err, ErrInvalidAnchor)

	_, err = New("anchor_001", 1, "  ", "")
	assert.ErrorIs(t, err, ErrInvalidAnchor)

	a, err := New("anchor_001", 1, " Title ", " body ")
	require.NoError(t, err)
	assert.Equal(t, "Title\nbody", a.FullText())
	assert.Equal(t, "title body", a.MatchSurface())
}
