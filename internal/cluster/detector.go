// Package cluster groups anchors into thematic clusters by shared keywords.
package cluster

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"deckgen/internal/anchor"
	"deckgen/internal/logging"

	"go.uber.org/zap"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

const (
	// DefaultMinClusterSize is the smallest group materialized as a cluster.
	DefaultMinClusterSize = 2
	// MaxKeywords caps Cluster.Keywords.
	MaxKeywords = 5

	minKeywordLen = 3
)

var wordPattern = regexp.MustCompile(`[a-z]+`)

// Cluster is a group of anchors sharing a theme keyword.
type Cluster struct {
	ID        string   `json:"cluster_id"`
	Theme     string   `json:"theme"`
	AnchorIDs []string `json:"anchor_ids"`
	Keywords  []string `json:"keywords"`
	Cohesion  float64  `json:"cohesion_score"`
	Size      int      `json:"size"`
}

// Result holds the clusters and the anchors left out of every cluster.
type Result struct {
	Clusters            []Cluster `json:"clusters"`
	Unclustered         []string  `json:"unclustered"`
	MinClusterSize      int       `json:"min_cluster_size"`
	SimilarityThreshold float64   `json:"similarity_threshold"`

	ids    []string
	sets   map[string]map[string]bool
	global map[string]int // keyword -> first appearance rank
}

// Detector finds clusters.
type Detector struct {
	logger *zap.Logger
	title  cases.Caser
}

// NewDetector creates a detector.
func NewDetector(logger *zap.Logger) *Detector {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Detector{logger: logger, title: cases.Title(language.English)}
}

// Keywords returns the distinct keywords of text in first-appearance order:
// lower-cased alphabetic runs of three or more letters, minus stop words.
func Keywords(text string) []string {
	var out []string
	seen := make(map[string]bool)
	for _, w := range wordPattern.FindAllString(strings.ToLower(text), -1) {
		if len(w) < minKeywordLen || StopWords[w] || seen[w] {
			continue
		}
		seen[w] = true
		out = append(out, w)
	}
	return out
}

// pool is the set of anchors not yet assigned to a cluster. take never
// mutates the receiver; it returns the remaining pool.
type pool map[string]bool

func newPool(ids []string) pool {
	p := make(pool, len(ids))
	for _, id := range ids {
		p[id] = true
	}
	return p
}

func (p pool) take(ids []string) pool {
	next := make(pool, len(p))
	for id := range p {
		next[id] = true
	}
	for _, id := range ids {
		delete(next, id)
	}
	return next
}

func (p pool) filter(ids []string) []string {
	var out []string
	for _, id := range ids {
		if p[id] {
			out = append(out, id)
		}
	}
	return out
}

// Detect clusters anchors greedily: seed keywords are visited by descending
// document frequency (ties by first appearance); each seed claims its
// still-unclustered anchors when at least minClusterSize remain.
// similarityThreshold is recorded on the result but not used for grouping.
func (d *Detector) Detect(anchors []anchor.Anchor, minClusterSize int, similarityThreshold float64) Result {
	if minClusterSize < 1 {
		minClusterSize = DefaultMinClusterSize
	}
	defer logging.StartTimer(d.logger, "cluster detection").Stop()

	ids := anchor.IDs(anchors)
	sets := make(map[string]map[string]bool, len(anchors))
	global := make(map[string]int)
	index := make(map[string][]string)
	var vocab []string

	for _, a := range anchors {
		kws := Keywords(a.FullText())
		set := make(map[string]bool, len(kws))
		for _, kw := range kws {
			set[kw] = true
			if _, ok := global[kw]; !ok {
				global[kw] = len(vocab)
				vocab = append(vocab, kw)
			}
			index[kw] = append(index[kw], a.ID)
		}
		sets[a.ID] = set
	}

	seeds := append([]string(nil), vocab...)
	sort.SliceStable(seeds, func(i, j int) bool {
		return len(index[seeds[i]]) > len(index[seeds[j]])
	})

	res := Result{
		Clusters:            []Cluster{},
		MinClusterSize:      minClusterSize,
		SimilarityThreshold: similarityThreshold,
		ids:                 ids,
		sets:                sets,
		global:              global,
	}

	remaining := newPool(ids)
	for _, seed := range seeds {
		if len(index[seed]) < minClusterSize {
			break
		}
		members := remaining.filter(index[seed])
		if len(members) < minClusterSize {
			continue
		}
		remaining = remaining.take(members)
		res.Clusters = append(res.Clusters, res.build(clusterID(len(res.Clusters)), d.title.String(seed), members))
	}

	res.Unclustered = remaining.filter(ids)
	if res.Unclustered == nil {
		res.Unclustered = []string{}
	}

	d.logger.Debug("clusters detected",
		zap.Int("anchors", len(anchors)),
		zap.Int("keywords", len(vocab)),
		zap.Int("clusters", len(res.Clusters)),
		zap.Int("unclustered", len(res.Unclustered)))
	return res
}

func clusterID(i int) string {
	return fmt.Sprintf("cluster_%03d", i+1)
}

func (r *Result) build(id, theme string, members []string) Cluster {
	return Cluster{
		ID:        id,
		Theme:     theme,
		AnchorIDs: members,
		Keywords:  r.topKeywords(members),
		Cohesion:  r.cohesion(members),
		Size:      len(members),
	}
}

// topKeywords returns up to MaxKeywords member keywords by descending count,
// ties broken by first appearance in the input.
func (r *Result) topKeywords(members []string) []string {
	counts := make(map[string]int)
	for _, id := range members {
		for kw := range r.sets[id] {
			counts[kw]++
		}
	}
	kws := make([]string, 0, len(counts))
	for kw := range counts {
		kws = append(kws, kw)
	}
	sort.Slice(kws, func(i, j int) bool {
		if counts[kws[i]] != counts[kws[j]] {
			return counts[kws[i]] > counts[kws[j]]
		}
		return r.global[kws[i]] < r.global[kws[j]]
	})
	if len(kws) > MaxKeywords {
		kws = kws[:MaxKeywords]
	}
	return kws
}

// cohesion is the mean pairwise Jaccard similarity of member keyword sets.
func (r *Result) cohesion(members []string) float64 {
	if len(members) < 2 {
		return 0
	}
	var sum float64
	pairs := 0
	for i := 0; i < len(members); i++ {
		for j := i + 1; j < len(members); j++ {
			sum += Jaccard(r.sets[members[i]], r.sets[members[j]])
			pairs++
		}
	}
	return sum / float64(pairs)
}

// Jaccard returns |a ∩ b| / |a ∪ b|, or 0 when both sets are empty.
func Jaccard(a, b map[string]bool) float64 {
	if len(a) == 0 && len(b) == 0 {
		return 0
	}
	inter := 0
	for k := range a {
		if b[k] {
			inter++
		}
	}
	union := len(a) + len(b) - inter
	return float64(inter) / float64(union)
}
