// Package ranking scores anchors against a weighted exam-blueprint taxonomy
// plus safety-critical and high-yield keyword tables.
package ranking

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"deckgen/internal/anchor"

	"go.uber.org/zap"
)

// Level is a priority bucket.
type Level string

const (
	LevelCritical Level = "critical"
	LevelHigh     Level = "high"
	LevelMedium   Level = "medium"
	LevelLow      Level = "low"
)

// Levels lists levels from highest to lowest.
var Levels = []Level{LevelCritical, LevelHigh, LevelMedium, LevelLow}

// Rank returns the ordinal of a level, 0 being most urgent.
func (l Level) Rank() int {
	for i, v := range Levels {
		if v == l {
			return i
		}
	}
	return len(Levels)
}

// PriorityRanking is the ranking of one anchor.
type PriorityRanking struct {
	AnchorID            string   `json:"anchor_id"`
	PriorityScore       float64  `json:"priority_score"`
	PriorityLevel       Level    `json:"priority_level"`
	ExamRelevance       float64  `json:"exam_relevance"`
	SafetyRelevance     bool     `json:"safety_relevance"`
	MatchedIndicators   []string `json:"matched_indicators"`
	ClientNeedsCategory string   `json:"client_needs_category"`
	Rationale           string   `json:"rationale"`
}

// Ranker scores anchors. The keyword tables are fixed, so ranking is
// deterministic.
type Ranker struct {
	categories []ClientNeedsCategory
	highYield  []string
	safety     []string
	logger     *zap.Logger
}

// NewRanker creates a ranker over the package tables.
func NewRanker(logger *zap.Logger) *Ranker {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Ranker{
		categories: ClientNeeds,
		highYield:  HighYieldIndicators,
		safety:     SafetyCritical,
		logger:     logger,
	}
}

// indicatorSet keeps matched keywords in first-seen order, deduplicated and capped.
type indicatorSet struct {
	seen  map[string]bool
	items []string
}

func (s *indicatorSet) add(kw string) {
	if s.seen == nil {
		s.seen = make(map[string]bool)
	}
	if s.seen[kw] || len(s.items) >= maxMatchedIndicators {
		return
	}
	s.seen[kw] = true
	s.items = append(s.items, kw)
}

// Rank scores one anchor.
func (r *Ranker) Rank(a anchor.Anchor) PriorityRanking {
	surface := a.MatchSurface()
	title := strings.ToLower(a.Title)
	var matched indicatorSet

	// Client Needs
	primary := ""
	best := 0.0
	for _, cat := range r.categories {
		hits := 0
		for _, kw := range cat.Keywords {
			if strings.Contains(surface, kw) {
				hits++
				matched.add(kw)
			}
		}
		score := math.Min(float64(hits)*cat.Weight*categoryMultiplier, maxScore)
		if score > best {
			best = score
			primary = cat.Key
		}
	}
	cnScore := best
	if primary == "" {
		cnScore = unclassifiedBase
	}

	// High-yield
	hyHits := 0
	titleHits := 0
	for _, kw := range r.highYield {
		if strings.Contains(surface, kw) {
			hyHits++
			matched.add(kw)
		}
		if strings.Contains(title, kw) {
			titleHits++
		}
	}
	hyScore := math.Min(float64(hyHits)*highYieldPerHit, maxScore)

	// Safety
	var safetyHits []string
	for _, kw := range r.safety {
		if strings.Contains(surface, kw) {
			safetyHits = append(safetyHits, kw)
			matched.add(kw)
		}
	}
	safety := len(safetyHits) > 0

	score := clientNeedsShare*cnScore + highYieldShare*hyScore
	if safety {
		score = math.Min(score+safetyBonus, maxScore)
	}
	score = math.Min(score+float64(titleHits)*titleHighYieldBonus, maxScore)

	level := levelFor(score, safety)

	// Relevance counts only real category matches, never the unclassified floor.
	relevance := 0.0
	if primary != "" {
		relevance = math.Min(1, (clientNeedsShare*best+highYieldShare*hyScore)/(clientNeedsShare*maxScore+highYieldShare*maxScore))
	}

	ranking := PriorityRanking{
		AnchorID:            a.ID,
		PriorityScore:       round2(score),
		PriorityLevel:       level,
		ExamRelevance:       round2(relevance),
		SafetyRelevance:     safety,
		MatchedIndicators:   matched.items,
		ClientNeedsCategory: primary,
		Rationale:           rationale(primary, cnScore, hyHits, titleHits, safetyHits),
	}
	if ranking.MatchedIndicators == nil {
		ranking.MatchedIndicators = []string{}
	}
	r.logger.Debug("anchor ranked",
		zap.String("anchor", a.ID),
		zap.Float64("score", ranking.PriorityScore),
		zap.String("level", string(level)))
	return ranking
}

// RankAll ranks anchors and sorts by score descending. Equal scores put the
// more urgent level first, then keep input order.
func (r *Ranker) RankAll(anchors []anchor.Anchor) []PriorityRanking {
	out := make([]PriorityRanking, len(anchors))
	for i, a := range anchors {
		out[i] = r.Rank(a)
	}
	sort.SliceStable(out, func(i, j int) bool { return ahead(out[i], out[j]) })
	return out
}

func ahead(a, b PriorityRanking) bool {
	if a.PriorityScore != b.PriorityScore {
		return a.PriorityScore > b.PriorityScore
	}
	return a.PriorityLevel.Rank() < b.PriorityLevel.Rank()
}

func levelFor(score float64, safety bool) Level {
	switch {
	case safety || score >= criticalThreshold:
		return LevelCritical
	case score >= highThreshold:
		return LevelHigh
	case score >= mediumThreshold:
		return LevelMedium
	default:
		return LevelLow
	}
}

func rationale(primary string, cn float64, hy, titleHits int, safety []string) string {
	var parts []string
	if primary == "" {
		parts = append(parts, fmt.Sprintf("no Client Needs match (base %.0f)", cn))
	} else {
		parts = append(parts, fmt.Sprintf("primary category %s (%.1f)", categoryName(primary), cn))
	}
	if hy > 0 {
		parts = append(parts, fmt.Sprintf("%d high-yield indicator(s)", hy))
	}
	if titleHits > 0 {
		parts = append(parts, fmt.Sprintf("%d in title", titleHits))
	}
	if len(safety) > 0 {
		parts = append(parts, "safety-critical: "+strings.Join(safety, ", "))
	}
	return strings.Join(parts, "; ")
}

func categoryName(key string) string {
	for _, c := range ClientNeeds {
		if c.Key == key {
			return c.Name
		}
	}
	return key
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// Summary aggregates a ranked list.
type Summary struct {
	Taxonomy   string            `json:"taxonomy_version"`
	Total      int               `json:"total"`
	ByLevel    map[Level]int     `json:"by_level"`
	ByCategory map[string]int    `json:"by_category"`
	Safety     int               `json:"safety"`
	Top        []PriorityRanking `json:"top"`
}

// Summarize counts rankings per level and category and keeps the first topN.
// rankings are expected in RankAll order.
func Summarize(rankings []PriorityRanking, topN int) Summary {
	s := Summary{
		Taxonomy:   TaxonomyVersion,
		Total:      len(rankings),
		ByLevel:    make(map[Level]int, len(Levels)),
		ByCategory: make(map[string]int),
	}
	for _, l := range Levels {
		s.ByLevel[l] = 0
	}
	for _, r := range rankings {
		s.ByLevel[r.PriorityLevel]++
		cat := r.ClientNeedsCategory
		if cat == "" {
			cat = "unclassified"
		}
		s.ByCategory[cat]++
		if r.SafetyRelevance {
			s.Safety++
		}
	}
	if topN > len(rankings) {
		topN = len(rankings)
	}
	if topN > 0 {
		s.Top = append([]PriorityRanking(nil), rankings[:topN]...)
	}
	return s
}
