package outline

import (
	"testing"

	"deckgen/internal/anchor"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSectionCount(t *testing.T) {
	tests := []struct {
		name  string
		total int
		want  int
	}{
		{"75 anchors rounds to 4", 75, 4},
		{"zero clamps to min", 0, 4},
		{"small clamps to min", 20, 4},
		{"rounds down below half", 96, 5}, // 5.49
		{"rounds 105 to 6", 105, 6},
		{"mid range", 140, 8},
		{"clamps to max", 400, 12},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SectionCount(tt.total, DefaultOptions()))
		})
	}
}

func TestSectionCount_NormalizesBadOptions(t *testing.T) {
	assert.Equal(t, 4, SectionCount(75, Options{}))
	assert.Equal(t, 6, SectionCount(75, Options{AnchorsPerSection: 10, MinSections: 6, MaxSections: 2}))
}

func anchors(n int) []anchor.Anchor {
	out := make([]anchor.Anchor, n)
	for i := range out {
		out[i] = anchor.Anchor{ID: anchor.IDFor(i), Number: i + 1, Title: "T"}
	}
	return out
}

func TestBuild_NearEqualChunks(t *testing.T) {
	plan := Build(anchors(75), DefaultOptions())

	require.Len(t, plan.Sections, 4)
	assert.Equal(t, 4, plan.SectionCount)
	assert.Equal(t, 75, plan.TotalAnchors)

	sizes := make([]int, 0, 4)
	var all []string
	for i, s := range plan.Sections {
		assert.Equal(t, i+1, s.Number)
		sizes = append(sizes, len(s.AnchorIDs))
		all = append(all, s.AnchorIDs...)
	}
	assert.Equal(t, []int{19, 19, 19, 18}, sizes)
	assert.Equal(t, anchor.IDs(anchors(75)), all)
	assert.Equal(t, "Section 1: T", plan.Sections[0].Title)
}

func TestBuild_FewerAnchorsThanSections(t *testing.T) {
	plan := Build(anchors(3), DefaultOptions())
	assert.Equal(t, 4, plan.SectionCount)
	require.Len(t, plan.Sections, 3)
	for _, s := range plan.Sections {
		assert.Len(t, s.AnchorIDs, 1)
	}
}

func TestBuild_Empty(t *testing.T) {
	plan := Build(nil, DefaultOptions())
	assert.Empty(t, plan.Sections)
	assert.NotNil(t, plan.Sections)
}
