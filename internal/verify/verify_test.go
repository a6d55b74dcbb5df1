package verify

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"

	"deckgen/internal/blueprint"
	"deckgen/internal/config"
	"deckgen/internal/pacing"
	"deckgen/internal/validate"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func words(n int) string {
	return strings.TrimSpace(strings.Repeat("word ", n))
}

// goodDeck builds a deck that satisfies every requirement: 16 slides,
// 2050 notes words and twelve pauses, about 15 minutes at 140 wpm.
func goodDeck() *blueprint.Deck {
	d := &blueprint.Deck{Name: "Good", TotalAnchors: 12}
	add := func(typ pacing.SlideType, notes string, anchors ...int) {
		d.Slides = append(d.Slides, blueprint.Slide{
			Number:   len(d.Slides) + 1,
			Type:     typ,
			Label:    strings.ToUpper(string(typ)),
			Header:   "Heading",
			Body:     "- First point\n- Second point",
			Tip:      "[none]",
			Notes:    notes,
			Anchors:  anchors,
			Sections: append([]string(nil), blueprint.RequiredSections...),
		})
	}
	add(pacing.SlideTitle, words(74)+".")
	add(pacing.SlideIntro, words(74)+".")
	for i := 1; i <= 12; i++ {
		add(pacing.SlideContent, words(150)+". [PAUSE]", i)
	}
	add(pacing.SlideAuxiliary, words(2)+".")
	add(pacing.SlideSummary, words(100)+".")
	return d
}

func requirements() []Requirement {
	return Requirements(validate.NewChecker(config.LayoutConfig{}), pacing.NewEngine(140, nil))
}

func byID(t *testing.T, id string) Requirement {
	t.Helper()
	for _, r := range requirements() {
		if r.ID == id {
			return r
		}
	}
	t.Fatalf("no requirement %s", id)
	return Requirement{}
}

func TestRequirements_Catalog(t *testing.T) {
	reqs := requirements()
	require.Len(t, reqs, 14)
	for i, r := range reqs {
		assert.Equal(t, fmt.Sprintf("R%d", i+1), r.ID)
		assert.NotEmpty(t, r.Name)
		assert.NotNil(t, r.Check)
	}
}

func TestRequirements_GoodDeckPassesAll(t *testing.T) {
	d := goodDeck()
	for _, r := range requirements() {
		assert.Empty(t, r.Check(d), "%s %s", r.ID, r.Name)
	}
}

func TestRequirements_Violations(t *testing.T) {
	tests := []struct {
		id     string
		mutate func(d *blueprint.Deck)
		want   string
	}{
		{"R1", func(d *blueprint.Deck) { d.Slides[3].Header = "a\nb\nc" }, "3 lines"},
		{"R2", func(d *blueprint.Deck) { d.Slides[3].Header = strings.Repeat("h", 40) }, "40 characters"},
		{"R3", func(d *blueprint.Deck) { d.Slides[3].Body = strings.Repeat("- item\n", 9) }, "9 lines"},
		{"R4", func(d *blueprint.Deck) { d.Slides[3].Body = strings.Repeat("b", 70) }, "70 characters"},
		{"R5", func(d *blueprint.Deck) { d.Slides[3].Tip = strings.Repeat("t", 70) }, "70 characters"},
		{"R6", func(d *blueprint.Deck) { d.Slides[0].Notes = words(120) + "." }, "title maximum"},
		{"R7", func(d *blueprint.Deck) { d.Slides[3].Sections = []string{"HEADER", "BODY", "PRESENTER NOTES"} }, "missing section NCLEX TIP"},
		{"R8", func(d *blueprint.Deck) { d.Slides[5].Anchors = nil }, "anchors not covered: 4"},
		{"R9", func(d *blueprint.Deck) { d.Slides[1].Type = pacing.SlideContent }, "second slide must be intro"},
		{"R10", func(d *blueprint.Deck) { d.Slides[4].Number = 9 }, "numbered 9"},
		{"R11", func(d *blueprint.Deck) { d.Slides[4].Notes = "We now turn to the..." }, "trailing ellipsis"},
		{"R12", func(d *blueprint.Deck) { d.Slides[4].Notes = words(150) + "." }, "[PAUSE]"},
		{"R13", func(d *blueprint.Deck) { d.Slides[4].Notes = words(10) + ". [PAUSE]" }, "under band"}, // 1910 words
		{"R14", func(d *blueprint.Deck) { d.Slides[3].Body = "- IV\n- Oxygen" }, "too short"},
	}
	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			d := goodDeck()
			tt.mutate(d)
			issues := byID(t, tt.id).Check(d)
			require.NotEmpty(t, issues)
			assert.Contains(t, issues[0].Message, tt.want)
		})
	}
}

func TestRequirement_PlaceholderTipSkipped(t *testing.T) {
	d := goodDeck()
	d.Slides[0].Tip = "[none - omit for intro slides]"
	assert.Empty(t, byID(t, "R5").Check(d))
}

func TestRequirement_CoverageOnlyWhenDeclared(t *testing.T) {
	d := goodDeck()
	d.TotalAnchors = 0
	for i := range d.Slides {
		d.Slides[i].Anchors = nil
	}
	assert.Empty(t, byID(t, "R8").Check(d))

	d = goodDeck()
	d.Slides[3].Anchors = []int{99}
	issues := byID(t, "R8").Check(d)
	require.NotEmpty(t, issues)
	assert.Contains(t, issues[len(issues)-1].Message, "outside declared range")
}

func TestRequirement_SectionOrder(t *testing.T) {
	d := goodDeck()
	d.Slides[2].Sections = []string{"BODY", "HEADER", "NCLEX TIP", "PRESENTER NOTES"}
	issues := byID(t, "R7").Check(d)
	require.Len(t, issues, 1)
	assert.Contains(t, issues[0].Message, "out of order")

	d.Slides[2].Sections = []string{"HEADER", "HEADER", "BODY", "NCLEX TIP", "PRESENTER NOTES"}
	issues = byID(t, "R7").Check(d)
	require.Len(t, issues, 1)
	assert.Contains(t, issues[0].Message, "more than once")
}

func TestRequirement_OrderingShortDeck(t *testing.T) {
	d := goodDeck()
	d.Slides = d.Slides[:2]
	issues := byID(t, "R9").Check(d)
	require.Len(t, issues, 1)
	assert.Equal(t, 0, issues[0].Slide)
}

func TestSelect(t *testing.T) {
	got, err := Select(requirements(), []string{"r11", " R1 "})
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "R1", got[0].ID)
	assert.Equal(t, "R11", got[1].ID)

	all, err := Select(requirements(), nil)
	require.NoError(t, err)
	assert.Len(t, all, 14)

	_, err = Select(requirements(), []string{"R99", "R1"})
	assert.ErrorContains(t, err, "R99")
}

func memLoader(decks map[string]*blueprint.Deck) LoadFunc {
	return func(path string) (*blueprint.Deck, error) {
		d, ok := decks[path]
		if !ok {
			return nil, fmt.Errorf("open %s: %w", path, os.ErrNotExist)
		}
		return d, nil
	}
}

func TestRunner_AllPass(t *testing.T) {
	r := NewRunner(requirements(), 4, nil).WithLoader(memLoader(map[string]*blueprint.Deck{
		"a.txt": goodDeck(),
		"b.txt": goodDeck(),
	}))
	s, err := r.Run(context.Background(), []string{"b.txt", "a.txt"}, 3)
	require.NoError(t, err)

	assert.NotEmpty(t, s.RunID)
	assert.True(t, s.Passed())
	require.Len(t, s.Results, 14)
	for _, rr := range s.Results {
		assert.Equal(t, 6, rr.Units, rr.ID)
		assert.Equal(t, "PASS", rr.Status())
	}
	passed, failed := s.Counts()
	assert.Equal(t, 14, passed)
	assert.Equal(t, 0, failed)
	assert.Equal(t, 0, s.ExitCode(config.DefaultCriticalCategories))
}

func TestRunner_LogsTiming(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	r := NewRunner(requirements(), 2, zap.New(core)).WithLoader(memLoader(map[string]*blueprint.Deck{
		"a.txt": goodDeck(),
	}))
	s, err := r.Run(context.Background(), []string{"a.txt"}, 1)
	require.NoError(t, err)

	timed := logs.FilterMessage("operation completed").FilterField(zap.String("op", "verification run"))
	require.Equal(t, 1, timed.Len())
	assert.Equal(t, s.RunID, timed.All()[0].ContextMap()["run_id"])
}

func TestRunner_FailureInOneSampleFailsRequirement(t *testing.T) {
	bad := goodDeck()
	bad.Slides[4].Notes = "Incomplete thought... [PAUSE]\nAnd then the"
	r := NewRunner(requirements(), 3, nil).WithLoader(memLoader(map[string]*blueprint.Deck{
		"good.txt": goodDeck(),
		"bad.txt":  bad,
	}))
	s, err := r.Run(context.Background(), []string{"good.txt", "bad.txt"}, 2)
	require.NoError(t, err)

	var r11 RequirementResult
	for _, rr := range s.Results {
		if rr.ID == "R11" {
			r11 = rr
		}
	}
	assert.False(t, r11.Passed)
	assert.Equal(t, 4, r11.Units)
	assert.Equal(t, 2, r11.FailedUnits)
	// Two passes over bad.txt report one distinct issue set.
	require.Len(t, r11.Issues, 1)
	assert.Equal(t, "bad.txt", r11.Issues[0].Sample)
	assert.Equal(t, 5, r11.Issues[0].Issue.Slide)
	assert.False(t, r11.Inconsistent)

	assert.Equal(t, 1, s.ExitCode([]string{"completeness"}))
	assert.Equal(t, 0, s.ExitCode([]string{"layout"}))
}

func TestRunner_UnreadableSampleFails(t *testing.T) {
	r := NewRunner(requirements(), 2, nil).WithLoader(memLoader(map[string]*blueprint.Deck{
		"ok.txt": goodDeck(),
	}))
	s, err := r.Run(context.Background(), []string{"ok.txt", "missing.txt"}, 1)
	require.NoError(t, err)
	assert.False(t, s.Passed())
	for _, rr := range s.Results {
		assert.False(t, rr.Passed, rr.ID)
		require.Len(t, rr.Errors, 1)
		assert.Contains(t, rr.Errors[0], "missing.txt")
	}
	assert.Equal(t, 1, s.ExitCode(config.DefaultCriticalCategories))
}

func TestRunner_BoundedConcurrency(t *testing.T) {
	var inFlight, peak int64
	slow := func(path string) (*blueprint.Deck, error) {
		n := atomic.AddInt64(&inFlight, 1)
		for {
			p := atomic.LoadInt64(&peak)
			if n <= p || atomic.CompareAndSwapInt64(&peak, p, n) {
				break
			}
		}
		defer atomic.AddInt64(&inFlight, -1)
		return goodDeck(), nil
	}
	r := NewRunner(requirements(), 2, nil).WithLoader(slow)
	s, err := r.Run(context.Background(), []string{"x", "y", "z"}, 4)
	require.NoError(t, err)
	assert.True(t, s.Passed())
	assert.LessOrEqual(t, atomic.LoadInt64(&peak), int64(2))
}

func TestRunner_Inconsistent(t *testing.T) {
	var calls int64
	flaky := func(path string) (*blueprint.Deck, error) {
		d := goodDeck()
		if atomic.AddInt64(&calls, 1)%2 == 0 {
			d.Slides[3].Header = strings.Repeat("h", 40)
		}
		return d, nil
	}
	r := NewRunner([]Requirement{byID(t, "R2")}, 1, nil).WithLoader(flaky)
	s, err := r.Run(context.Background(), []string{"s"}, 2)
	require.NoError(t, err)
	require.Len(t, s.Results, 1)
	assert.True(t, s.Results[0].Inconsistent)
	assert.False(t, s.Results[0].Passed)
}

func TestRunner_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	r := NewRunner(requirements(), 2, nil).WithLoader(memLoader(nil))
	_, err := r.Run(ctx, []string{"a"}, 1)
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestRunner_LoadsFromDisk(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "deck.txt")
	require.NoError(t, os.WriteFile(path, []byte(blueprint.Format(goodDeck())), 0644))

	s, err := NewRunner(requirements(), 2, nil).Run(context.Background(), []string{path}, 1)
	require.NoError(t, err)
	for _, rr := range s.Results {
		assert.True(t, rr.Passed, "%s: %v %v", rr.ID, rr.Issues, rr.Errors)
	}
}

func TestLoadSuite(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"one.txt", "two.txt"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("x"), 0644))
	}
	suite := filepath.Join(dir, "suite.yaml")
	require.NoError(t, os.WriteFile(suite, []byte(`version: 1
samples:
  - "*.txt"
  - absent.txt
passes: 5
critical: [structure]
requirements: [R1, R11]
`), 0644))

	s, err := LoadSuite(suite)
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(dir, "one.txt"),
		filepath.Join(dir, "two.txt"),
		filepath.Join(dir, "absent.txt"),
	}, s.Samples)
	assert.Equal(t, 5, s.Passes)
	assert.Equal(t, []string{"structure"}, s.Critical)
	assert.Equal(t, []string{"R1", "R11"}, s.Requirements)

	require.NoError(t, os.WriteFile(suite, []byte("samples: [unclosed"), 0644))
	_, err = LoadSuite(suite)
	assert.ErrorContains(t, err, "parse suite")
}
