package deps

import (
	"testing"

	"deckgen/internal/anchor"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mk(id, title, body string) anchor.Anchor {
	return anchor.Anchor{ID: id, Title: title, Body: body}
}

func sample() []anchor.Anchor {
	return []anchor.Anchor{
		mk("a1", "Cardiac Anatomy Overview", "Normal heart chambers and valves."),
		mk("a2", "Heart Failure Assessment", "Signs such as edema and crackles."),
		mk("a3", "Heart Failure Treatment", "Administer diuretics and monitor weight."),
		mk("a4", "Cardiac Emergencies", "Complex arrhythmia complications."),
	}
}

func TestClassify(t *testing.T) {
	got := Classify(sample())

	assert.Equal(t, []string{"a1"}, got[CategoryFoundational])
	assert.Equal(t, []string{"a4"}, got[CategoryAdvanced])
	assert.Equal(t, []string{"a2", "a3"}, got[CategoryAssessment]) // a3 mentions "monitor"
	assert.Equal(t, []string{"a3"}, got[CategoryIntervention])
	assert.Empty(t, got[CategoryOther])
}

func TestClassify_Other(t *testing.T) {
	got := Classify([]anchor.Anchor{mk("x", "Stage Blocking", "Left and right.")})
	assert.Equal(t, []string{"x"}, got[CategoryOther])
}

func TestMap_FoundationalEdges(t *testing.T) {
	res := NewMapper(Options{IncludeWeak: true}, nil).Map(sample())

	for _, to := range []string{"a2", "a3", "a4"} {
		assert.True(t, hasEdge(res.Dependencies, "a1", to), "a1 -> %s", to)
	}
	for _, d := range res.Dependencies {
		if d.From == "a1" && d.Strength == StrengthSuggested {
			assert.Equal(t, TypeBuildsOn, d.Type)
			assert.InDelta(t, 0.6, d.Confidence, 1e-9)
		}
	}
	assert.Equal(t, []string{"a1"}, res.Foundational)
}

func TestMap_AssessmentEdgesSkipSelf(t *testing.T) {
	res := NewMapper(Options{}, nil).Map(sample())

	// a3 is both assessment and intervention; no self edge.
	assert.True(t, hasEdge(res.Dependencies, "a2", "a3"))
	assert.False(t, hasEdge(res.Dependencies, "a3", "a3"))
	for _, d := range res.Dependencies {
		assert.NotEqual(t, d.From, d.To)
		if d.Type == TypePrerequisite {
			assert.InDelta(t, 0.7, d.Confidence, 1e-9)
		}
	}
}

func TestMap_TopicChainIsWeak(t *testing.T) {
	anchors := []anchor.Anchor{
		mk("h1", "Heart Complications", "x"),
		mk("h2", "Heart Basics", "y"),
		mk("h3", "Heart Rhythm", "z"),
	}
	res := NewMapper(Options{IncludeWeak: true}, nil).Map(anchors)

	var chain []Dependency
	for _, d := range res.Dependencies {
		if d.Strength == StrengthWeak {
			chain = append(chain, d)
		}
	}
	// Complexity: h2 30, h3 50, h1 70.
	require.Len(t, chain, 2)
	assert.Equal(t, [2]string{"h2", "h3"}, [2]string{chain[0].From, chain[0].To})
	assert.Equal(t, [2]string{"h3", "h1"}, [2]string{chain[1].From, chain[1].To})
	assert.Equal(t, TypeBuildsOn, chain[0].Type)

	filtered := NewMapper(Options{IncludeWeak: false}, nil).Map(anchors)
	for _, d := range filtered.Dependencies {
		assert.NotEqual(t, StrengthWeak, d.Strength)
	}
}

func TestTopicToken(t *testing.T) {
	tests := []struct {
		title string
		want  string
	}{
		{"Heart Failure", "heart"},
		{"An Old Way", ""},
		{"ABG: Interpretation", "interpretation"},
		{"Care of Burns", "care"},
		{"", ""},
	}
	for _, tt := range tests {
		t.Run(tt.title, func(t *testing.T) {
			assert.Equal(t, tt.want, TopicToken(tt.title))
		})
	}
}

func TestComplexity(t *testing.T) {
	assert.Equal(t, 50, Complexity("Heart Rhythm"))
	assert.Equal(t, 30, Complexity("Basic Heart Rhythm"))
	assert.Equal(t, 70, Complexity("Advanced Heart Rhythm"))
	assert.Equal(t, 50, Complexity("Basic and Advanced"))
}

func TestTopologicalOrder(t *testing.T) {
	ids := []string{"a", "b", "c", "d"}
	edges := []Dependency{
		{From: "c", To: "a"},
		{From: "a", To: "b"},
	}
	got := TopologicalOrder(ids, edges)
	if diff := cmp.Diff([]string{"c", "d", "a", "b"}, got); diff != "" {
		t.Errorf("order mismatch (-want +got):\n%s", diff)
	}
}

func TestTopologicalOrder_CycleAppended(t *testing.T) {
	ids := []string{"x", "y", "z", "w"}
	edges := []Dependency{
		{From: "x", To: "y"},
		{From: "y", To: "x"},
		{From: "w", To: "z"},
	}
	got := TopologicalOrder(ids, edges)
	if diff := cmp.Diff([]string{"w", "z", "x", "y"}, got); diff != "" {
		t.Errorf("order mismatch (-want +got):\n%s", diff)
	}
}

func TestTopologicalOrder_IgnoresUnknownIDs(t *testing.T) {
	got := TopologicalOrder([]string{"a"}, []Dependency{{From: "ghost", To: "a"}})
	assert.Equal(t, []string{"a"}, got)
}

func hasEdge(edges []Dependency, from, to string) bool {
	for _, e := range edges {
		if e.From == from && e.To == to {
			return true
		}
	}
	return false
}

func TestTopologicalOrder_EdgeLeavingCycle(t *testing.T) {
	edges := []Dependency{
		{From: "a", To: "b"},
		{From: "b", To: "a"},
		{From: "b", To: "c"},
	}
	got := TopologicalOrder([]string{"c", "a", "b"}, edges)
	if diff := cmp.Diff([]string{"a", "b", "c"}, got); diff != "" {
		t.Errorf("order mismatch (-want +got):\n%s", diff)
	}
}

func TestTopologicalOrder_CycleFeedingCycle(t *testing.T) {
	ids := []string{"p", "q", "x", "y", "z"}
	edges := []Dependency{
		{From: "p", To: "q"},
		{From: "q", To: "p"},
		{From: "x", To: "y"},
		{From: "y", To: "x"},
		{From: "y", To: "p"},
		{From: "q", To: "z"},
	}
	got := TopologicalOrder(ids, edges)
	if diff := cmp.Diff([]string{"x", "y", "p", "q", "z"}, got); diff != "" {
		t.Errorf("order mismatch (-want +got):\n%s", diff)
	}
}

func TestTopologicalOrder_SelfLoop(t *testing.T) {
	got := TopologicalOrder([]string{"b", "a"}, []Dependency{{From: "a", To: "a"}, {From: "a", To: "b"}})
	assert.Equal(t, []string{"a", "b"}, got)
}

func TestTopologicalOrder_DuplicateIDs(t *testing.T) {
	got := TopologicalOrder([]string{"a", "a", "b"}, []Dependency{{From: "a", To: "b"}, {From: "b", To: "a"}})
	assert.ElementsMatch(t, []string{"a", "b"}, got)
}

func TestComponents(t *testing.T) {
	comp := Components([]string{"a", "b", "c", "d"}, []Dependency{
		{From: "a", To: "b"},
		{From: "b", To: "c"},
		{From: "c", To: "a"},
		{From: "c", To: "d"},
		{From: "ghost", To: "d"},
	})
	assert.Equal(t, comp["a"], comp["b"])
	assert.Equal(t, comp["a"], comp["c"])
	assert.NotEqual(t, comp["a"], comp["d"])
}

func TestMap_OrderRespectsEdges(t *testing.T) {
	sets := map[string][]anchor.Anchor{
		"cardiac": append(sample(),
			mk("a5", "Heart Sounds Basics", "Normal S1 and S2."),
			mk("a6", "Insulin Administration", "Technique and site rotation."),
			mk("a7", "Glucose Monitoring", "Assess finger-stick values."),
		),
		"assessment cycle": {
			mk("w1", "Wound Dressing", "Dressing change technique is a nursing action."),
			mk("w2", "Pain", "Assess pain, then manage it."),
			mk("w3", "Sepsis", "Assess for fever, then start treatment."),
		},
	}
	for name, anchors := range sets {
		for _, weak := range []bool{true, false} {
			res := NewMapper(Options{IncludeWeak: weak}, nil).Map(anchors)
			require.ElementsMatch(t, anchor.IDs(anchors), res.Order, name)

			pos := make(map[string]int, len(res.Order))
			for i, id := range res.Order {
				pos[id] = i
			}
			g := Graph(res.Dependencies)
			for _, d := range res.Dependencies {
				if reaches(g, d.To, d.From) {
					continue // both ends on one cycle
				}
				assert.Less(t, pos[d.From], pos[d.To], "%s: %s -> %s", name, d.From, d.To)
			}
		}
	}
}

func TestMap_AssessmentCycleOrder(t *testing.T) {
	res := NewMapper(Options{}, nil).Map([]anchor.Anchor{
		mk("w1", "Wound Dressing", "Dressing change technique is a nursing action."),
		mk("w2", "Pain", "Assess pain, then manage it."),
		mk("w3", "Sepsis", "Assess for fever, then start treatment."),
	})
	assert.True(t, hasEdge(res.Dependencies, "w2", "w3"))
	assert.True(t, hasEdge(res.Dependencies, "w3", "w2"))
	assert.Equal(t, []string{"w2", "w3", "w1"}, res.Order)
}

// reaches reports whether to is reachable from from.
func reaches(g map[string][]string, from, to string) bool {
	seen := map[string]bool{from: true}
	stack := []string{from}
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if n == to {
			return true
		}
		for _, m := range g[n] {
			if !seen[m] {
				seen[m] = true
				stack = append(stack, m)
			}
		}
	}
	return false
}

func TestMap_Terminal(t *testing.T) {
	res := NewMapper(Options{}, nil).Map(sample())
	// a3 and a4 have no outgoing suggested edges.
	assert.Equal(t, []string{"a3", "a4"}, res.Terminal)
}

func TestMap_Empty(t *testing.T) {
	res := NewMapper(Options{}, nil).Map(nil)
	assert.Empty(t, res.Dependencies)
	assert.Empty(t, res.Order)
	assert.Empty(t, res.Terminal)
	assert.NotNil(t, res.Dependencies)
}

func TestGraph_Dedupes(t *testing.T) {
	g := Graph([]Dependency{{From: "a", To: "b"}, {From: "a", To: "b"}, {From: "a", To: "c"}})
	assert.Equal(t, []string{"b", "c"}, g["a"])
}
