package blueprint

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"deckgen/internal/pacing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var rule = strings.Repeat("=", 80)

var sample = strings.Join([]string{
	"DECK: Cardiac Module",
	"TOTAL ANCHORS: 3",
	rule,
	"SLIDE 1 (TITLE)",
	"HEADER:",
	"Cardiac Care",
	"BODY:",
	"Module 2",
	"NCLEX TIP:",
	"[none - omit for intro slides]",
	"PRESENTER NOTES:",
	"Welcome to the cardiac module.",
	rule,
	"SLIDE 2 (CONTENT)",
	"ANCHORS: 1, 2-3",
	"HEADER:",
	"Heart Failure",
	"BODY:",
	"- Left-sided: pulmonary",
	"",
	"- Right-sided: systemic",
	"NCLEX TIP:",
	"Daily weight is the best indicator.",
	"PRESENTER NOTES:",
	"Left-sided failure backs up into the lungs. [PAUSE]",
	"Right-sided failure backs up into the body.",
	"",
	rule,
	"",
}, "\n")

func TestParse(t *testing.T) {
	deck := Parse(sample)

	assert.Equal(t, "Cardiac Module", deck.Name)
	assert.Equal(t, 3, deck.TotalAnchors)
	assert.Empty(t, deck.Warnings)
	require.Len(t, deck.Slides, 2)

	title := deck.Slides[0]
	assert.Equal(t, 1, title.Number)
	assert.Equal(t, pacing.SlideTitle, title.Type)
	assert.Equal(t, "TITLE", title.Label)
	assert.Equal(t, "Cardiac Care", title.Header)
	assert.False(t, title.HasTip())
	assert.Equal(t, 4, title.Line)
	assert.Equal(t, RequiredSections, title.Sections)

	content := deck.Slides[1]
	assert.Equal(t, pacing.SlideContent, content.Type)
	assert.Equal(t, []int{1, 2, 3}, content.Anchors)
	assert.Equal(t, "- Left-sided: pulmonary\n\n- Right-sided: systemic", content.Body)
	assert.True(t, content.HasTip())
	assert.Equal(t, "Left-sided failure backs up into the lungs. [PAUSE]\nRight-sided failure backs up into the body.", content.Notes)
	assert.True(t, content.Has(SectionNotes))
}

func TestParse_InlineLabelsAndCRLF(t *testing.T) {
	text := rule + "\r\nslide 5 (summary)\r\nheader: Wrap Up\r\nPresenter  Notes: That is all.\r\n" + rule
	deck := Parse(text)

	require.Len(t, deck.Slides, 1)
	s := deck.Slides[0]
	assert.Equal(t, 5, s.Number)
	assert.Equal(t, pacing.SlideSummary, s.Type)
	assert.Equal(t, "Wrap Up", s.Header)
	assert.Equal(t, "That is all.", s.Notes)
	assert.Equal(t, []string{SectionHeader, SectionNotes}, s.Sections)
	assert.False(t, s.Has(SectionBody))
}

func TestParse_SkipsBlocksWithoutHeading(t *testing.T) {
	deck := Parse(rule + "\nHEADER:\nOrphan\n" + rule + "\nSLIDE 1\nHEADER:\nKept\n" + rule)

	require.Len(t, deck.Slides, 1)
	assert.Equal(t, "Kept", deck.Slides[0].Header)
	assert.Equal(t, pacing.SlideContent, deck.Slides[0].Type)
	require.Len(t, deck.Warnings, 1)
	assert.Contains(t, deck.Warnings[0], "line 2")
}

func TestParse_Empty(t *testing.T) {
	deck := Parse("")
	assert.Empty(t, deck.Slides)
	assert.NotNil(t, deck.Slides)
}

func TestIsPlaceholderTip(t *testing.T) {
	for _, tip := range []string{"", "  ", "[none]", "[NONE]", "[none - omit for intro slides]", "None", "n/a", "N/A", "[ none ]"} {
		assert.True(t, IsPlaceholderTip(tip), "%q", tip)
	}
	for _, tip := range []string{"Nonetheless check potassium.", "[PAUSE]", "none of the above is safe."} {
		assert.False(t, IsPlaceholderTip(tip), "%q", tip)
	}
}

func TestParseAnchorList(t *testing.T) {
	assert.Equal(t, []int{3, 4, 7, 8, 9}, parseAnchorList("3, 4, 7-9"))
	assert.Equal(t, []int{1, 2}, parseAnchorList("1;2; x"))
	assert.Empty(t, parseAnchorList("9-3"))
}

func TestFormat_RoundTrip(t *testing.T) {
	deck := Parse(sample)
	again := Parse(Format(deck))

	// Source lines shift when a deck is reformatted.

	if diff := cmp.Diff(deck.Slides, again.Slides, cmpopts.IgnoreFields(Slide{}, "Line")); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, deck.Name, again.Name)
	assert.Equal(t, deck.TotalAnchors, again.TotalAnchors)
}

func TestFormat_BuiltSlides(t *testing.T) {
	deck := &Deck{Slides: []Slide{{Number: 1, Type: pacing.SlideIntro, Header: "Hi", Notes: "Hello."}}}
	out := Format(deck)

	assert.True(t, strings.HasPrefix(out, rule+"\nSLIDE 1 (INTRO)\nHEADER:\nHi\nBODY:\nNCLEX TIP:\nPRESENTER NOTES:\nHello.\n"))
	assert.True(t, strings.HasSuffix(out, rule+"\n"))
	assert.Equal(t, RequiredSections, Parse(out).Slides[0].Sections)
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "deck.txt")
	require.NoError(t, os.WriteFile(path, []byte(sample), 0644))

	deck, err := Load(path)
	require.NoError(t, err)
	assert.Len(t, deck.Slides, 2)

	empty := filepath.Join(dir, "empty.txt")
	require.NoError(t, os.WriteFile(empty, []byte("nothing here"), 0644))
	_, err = Load(empty)
	assert.ErrorIs(t, err, ErrNoSlides)

	_, err = Load(filepath.Join(dir, "missing.txt"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestDeckHelpers(t *testing.T) {
	deck := Parse(sample)
	notes := deck.SlideNotes()
	require.Len(t, notes, 2)
	assert.Equal(t, pacing.SlideTitle, notes[0].Type)
	assert.Equal(t, map[int]bool{1: true, 2: true, 3: true}, deck.CoveredAnchors())
}
