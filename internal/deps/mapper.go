// Package deps classifies anchors into content categories, infers directed
// prerequisite/builds-on relationships and orders anchors topologically.
package deps

import (
	"fmt"
	"sort"
	"strings"

	"deckgen/internal/anchor"

	"go.uber.org/zap"
)

// Type is the kind of dependency.
type Type string

const (
	TypePrerequisite Type = "prerequisite"
	TypeBuildsOn     Type = "builds_on"
	TypeParallel     Type = "parallel"
	TypeOptional     Type = "optional"
)

// Strength grades how binding a dependency is.
type Strength string

const (
	StrengthRequired  Strength = "required"
	StrengthSuggested Strength = "suggested"
	StrengthWeak      Strength = "weak"
)

// Dependency is a directed edge between two anchors.
type Dependency struct {
	From       string   `json:"from_anchor"`
	To         string   `json:"to_anchor"`
	Type       Type     `json:"dependency_type"`
	Strength   Strength `json:"strength"`
	Reason     string   `json:"reason"`
	Confidence float64  `json:"confidence"`
}

// Options controls mapping.
type Options struct {
	// IncludeWeak keeps weak edges; when false they are dropped before ordering.
	IncludeWeak bool
}

// Result is the outcome of Map.
type Result struct {
	Dependencies []Dependency          `json:"dependencies"`
	Categories   map[Category][]string `json:"categories"`
	Foundational []string              `json:"foundational"`
	Terminal     []string              `json:"terminal"`
	Order        []string              `json:"order"`
}

// Mapper infers dependencies between anchors.
type Mapper struct {
	opts   Options
	logger *zap.Logger
}

// NewMapper creates a mapper.
func NewMapper(opts Options, logger *zap.Logger) *Mapper {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Mapper{opts: opts, logger: logger}
}

type classified struct {
	anchor       anchor.Anchor
	foundational bool
	advanced     bool
	assessment   bool
	intervention bool
}

func containsAny(s string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(s, kw) {
			return true
		}
	}
	return false
}

func classify(a anchor.Anchor) classified {
	s := a.MatchSurface()
	return classified{
		anchor:       a,
		foundational: containsAny(s, FoundationalKeywords),
		advanced:     containsAny(s, AdvancedKeywords),
		assessment:   containsAny(s, AssessmentKeywords),
		intervention: containsAny(s, InterventionKeywords),
	}
}

// Classify returns anchor ids per category, in input order.
func Classify(anchors []anchor.Anchor) map[Category][]string {
	out := make(map[Category][]string, len(Categories))
	for _, c := range Categories {
		out[c] = []string{}
	}
	for _, a := range anchors {
		c := classify(a)
		matched := false
		if c.foundational {
			out[CategoryFoundational] = append(out[CategoryFoundational], a.ID)
			matched = true
		}
		if c.advanced {
			out[CategoryAdvanced] = append(out[CategoryAdvanced], a.ID)
			matched = true
		}
		if c.assessment {
			out[CategoryAssessment] = append(out[CategoryAssessment], a.ID)
			matched = true
		}
		if c.intervention {
			out[CategoryIntervention] = append(out[CategoryIntervention], a.ID)
			matched = true
		}
		if !matched {
			out[CategoryOther] = append(out[CategoryOther], a.ID)
		}
	}
	return out
}

// Map classifies anchors, generates dependencies and computes a suggested order.
func (m *Mapper) Map(anchors []anchor.Anchor) Result {
	cls := make([]classified, len(anchors))
	for i, a := range anchors {
		cls[i] = classify(a)
	}

	var edges []Dependency
	edges = append(edges, foundationalEdges(cls)...)
	edges = append(edges, assessmentEdges(cls)...)
	edges = append(edges, topicChainEdges(cls)...)

	if !m.opts.IncludeWeak {
		edges = FilterWeak(edges)
	}

	ids := anchor.IDs(anchors)
	res := Result{
		Dependencies: edges,
		Categories:   Classify(anchors),
		Terminal:     terminal(ids, edges),
		Order:        TopologicalOrder(ids, edges),
	}
	res.Foundational = res.Categories[CategoryFoundational]
	if res.Dependencies == nil {
		res.Dependencies = []Dependency{}
	}

	m.logger.Debug("dependencies mapped",
		zap.Int("anchors", len(anchors)),
		zap.Int("edges", len(edges)),
		zap.Int("terminal", len(res.Terminal)))
	return res
}

// foundationalEdges links every foundational anchor to every non-foundational one.
func foundationalEdges(cls []classified) []Dependency {
	var out []Dependency
	for _, f := range cls {
		if !f.foundational {
			continue
		}
		for _, o := range cls {
			if o.foundational {
				continue
			}
			out = append(out, Dependency{
				From:       f.anchor.ID,
				To:         o.anchor.ID,
				Type:       TypeBuildsOn,
				Strength:   StrengthSuggested,
				Reason:     fmt.Sprintf("foundational %q supports %q", f.anchor.Title, o.anchor.Title),
				Confidence: foundationalConfidence,
			})
		}
	}
	return out
}

// assessmentEdges links assessment anchors to intervention anchors.
func assessmentEdges(cls []classified) []Dependency {
	var out []Dependency
	for _, a := range cls {
		if !a.assessment {
			continue
		}
		for _, i := range cls {
			if !i.intervention || i.anchor.ID == a.anchor.ID {
				continue
			}
			out = append(out, Dependency{
				From:       a.anchor.ID,
				To:         i.anchor.ID,
				Type:       TypePrerequisite,
				Strength:   StrengthSuggested,
				Reason:     fmt.Sprintf("assessment %q precedes intervention %q", a.anchor.Title, i.anchor.Title),
				Confidence: assessmentConfidence,
			})
		}
	}
	return out
}

// TopicToken returns the first title word longer than 3 characters,
// lower-cased, or "" if there is none.
func TopicToken(title string) string {
	for _, w := range strings.Fields(title) {
		w = strings.ToLower(strings.Trim(w, ".,:;!?()[]\"'"))
		if len([]rune(w)) >= topicTokenMinLen {
			return w
		}
	}
	return ""
}

// Complexity scores a title: harder material sorts later.
func Complexity(title string) int {
	t := strings.ToLower(title)
	score := complexityBase
	if containsAny(t, FoundationalKeywords) {
		score += complexityFoundational
	}
	if containsAny(t, AdvancedKeywords) {
		score += complexityAdvanced
	}
	return score
}

// topicChainEdges chains anchors that share a topic token, easiest first.
func topicChainEdges(cls []classified) []Dependency {
	groups := make(map[string][]anchor.Anchor)
	var order []string
	for _, c := range cls {
		tok := TopicToken(c.anchor.Title)
		if tok == "" {
			continue
		}
		if _, ok := groups[tok]; !ok {
			order = append(order, tok)
		}
		groups[tok] = append(groups[tok], c.anchor)
	}

	var out []Dependency
	for _, tok := range order {
		members := groups[tok]
		if len(members) < 2 {
			continue
		}
		sorted := append([]anchor.Anchor(nil), members...)
		sort.SliceStable(sorted, func(i, j int) bool {
			return Complexity(sorted[i].Title) < Complexity(sorted[j].Title)
		})
		for i := 0; i+1 < len(sorted); i++ {
			out = append(out, Dependency{
				From:       sorted[i].ID,
				To:         sorted[i+1].ID,
				Type:       TypeBuildsOn,
				Strength:   StrengthWeak,
				Reason:     fmt.Sprintf("shared topic %q, increasing complexity", tok),
				Confidence: topicChainConfidence,
			})
		}
	}
	return out
}

// FilterWeak drops weak edges.
func FilterWeak(edges []Dependency) []Dependency {
	out := make([]Dependency, 0, len(edges))
	for _, e := range edges {
		if e.Strength != StrengthWeak {
			out = append(out, e)
		}
	}
	return out
}

// terminal returns ids with no outgoing edges, in input order.
func terminal(ids []string, edges []Dependency) []string {
	hasOut := make(map[string]bool, len(ids))
	for _, e := range edges {
		hasOut[e.From] = true
	}
	out := []string{}
	for _, id := range ids {
		if !hasOut[id] {
			out = append(out, id)
		}
	}
	return out
}

// TopologicalOrder orders ids with Kahn's algorithm. Zero in-degree nodes
// are processed FIFO in input order. When the queue drains with nodes left,
// every remaining node sits in or behind a cycle: the first cycle (in input
// order of its members) that no other remaining node points into is placed
// whole, members in input order, and Kahn resumes. Every edge between two
// different cycles, or touching a node outside any cycle, is respected; the
// function never fails. Edges naming unknown ids are ignored. Duplicate
// edges count once per occurrence.
func TopologicalOrder(ids []string, edges []Dependency) []string {
	known := make(map[string]bool, len(ids))
	for _, id := range ids {
		known[id] = true
	}
	outgoing := make(map[string][]string, len(ids))
	indegree := make(map[string]int, len(ids))
	var kept []Dependency
	for _, e := range edges {
		if !known[e.From] || !known[e.To] {
			continue
		}
		kept = append(kept, e)
		outgoing[e.From] = append(outgoing[e.From], e.To)
		indegree[e.To]++
	}

	order := make([]string, 0, len(ids))
	placed := make(map[string]bool, len(ids))
	var queue []string
	place := func(id string) {
		order = append(order, id)
		placed[id] = true
	}
	release := func(id string) {
		for _, to := range outgoing[id] {
			indegree[to]--
			if indegree[to] == 0 && !placed[to] {
				queue = append(queue, to)
			}
		}
	}

	for _, id := range ids {
		if indegree[id] == 0 {
			queue = append(queue, id)
		}
	}

	var comp map[string]int
	for len(order) < len(ids) {
		for len(queue) > 0 {
			id := queue[0]
			queue = queue[1:]
			if placed[id] {
				continue
			}
			place(id)
			release(id)
		}
		if len(order) == len(ids) {
			break
		}

		if comp == nil {
			comp = Components(ids, kept)
		}
		members := sourceComponent(ids, kept, comp, placed)
		if len(members) == 0 {
			break
		}
		for _, id := range members {
			place(id)
		}
		for _, id := range members {
			release(id)
		}
	}
	return order
}

// sourceComponent returns the members, in input order, of the first
// unplaced component with no incoming edge from another unplaced component.
func sourceComponent(ids []string, edges []Dependency, comp map[string]int, placed map[string]bool) []string {
	fed := make(map[int]bool)
	for _, e := range edges {
		if !placed[e.From] && !placed[e.To] && comp[e.From] != comp[e.To] {
			fed[comp[e.To]] = true
		}
	}
	target := -1
	var members []string
	taken := make(map[string]bool)
	for _, id := range ids {
		if placed[id] || taken[id] {
			continue
		}
		c := comp[id]
		if target == -1 && !fed[c] {
			target = c
		}
		if c == target {
			members = append(members, id)
			taken[id] = true
		}
	}
	return members
}

// Components labels each id with its strongly connected component
// (Tarjan). Two ids share a label exactly when each reaches the other.
// Edges naming unknown ids are ignored.
func Components(ids []string, edges []Dependency) map[string]int {
	known := make(map[string]bool, len(ids))
	for _, id := range ids {
		known[id] = true
	}
	g := make(map[string][]string, len(ids))
	for _, e := range edges {
		if known[e.From] && known[e.To] {
			g[e.From] = append(g[e.From], e.To)
		}
	}

	index := make(map[string]int, len(ids))
	low := make(map[string]int, len(ids))
	onStack := make(map[string]bool, len(ids))
	comp := make(map[string]int, len(ids))
	var stack []string
	next, label := 0, 0

	var visit func(v string)
	visit = func(v string) {
		index[v] = next
		low[v] = next
		next++
		stack = append(stack, v)
		onStack[v] = true
		for _, w := range g[v] {
			if _, seen := index[w]; !seen {
				visit(w)
				low[v] = min(low[v], low[w])
			} else if onStack[w] {
				low[v] = min(low[v], index[w])
			}
		}
		if low[v] == index[v] {
			for {
				w := stack[len(stack)-1]
				stack = stack[:len(stack)-1]
				onStack[w] = false
				comp[w] = label
				if w == v {
					break
				}
			}
			label++
		}
	}
	for _, id := range ids {
		if _, seen := index[id]; !seen {
			visit(id)
		}
	}
	return comp
}

// Graph returns outgoing adjacency (target ids in edge order, duplicates removed).
func Graph(edges []Dependency) map[string][]string {
	g := make(map[string][]string)
	seen := make(map[[2]string]bool)
	for _, e := range edges {
		k := [2]string{e.From, e.To}
		if seen[k] {
			continue
		}
		seen[k] = true
		g[e.From] = append(g[e.From], e.To)
	}
	return g
}
