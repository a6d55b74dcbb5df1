package main

import (
	"fmt"
	"sort"
	"strings"

	"deckgen/internal/anchor"
	"deckgen/internal/cluster"
	"deckgen/internal/deps"
	"deckgen/internal/logging"
	"deckgen/internal/outline"
	"deckgen/internal/ranking"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	topN        int
	includeWeak bool
	minSize     int
	mergeBelow  int
	orderByDeps bool
)

var anchorsCmd = &cobra.Command{
	Use:   "anchors <source>...",
	Short: "Extract anchors from source documents",
	Long: `Loads each source (.txt, .md, .html, .docx) and splits it into anchors.
A source that fails to load is reported and skipped; the command fails only
when every source failed.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runAnchors,
}

var rankCmd = &cobra.Command{
	Use:   "rank <source>",
	Short: "Rank anchors by exam priority",
	Args:  cobra.ExactArgs(1),
	RunE:  runRank,
}

var depsCmd = &cobra.Command{
	Use:   "deps <source>",
	Short: "Infer prerequisite edges and a teaching order",
	Args:  cobra.ExactArgs(1),
	RunE:  runDeps,
}

var clustersCmd = &cobra.Command{
	Use:   "clusters <source>",
	Short: "Group anchors that share keywords",
	Args:  cobra.ExactArgs(1),
	RunE:  runClusters,
}

var outlineCmd = &cobra.Command{
	Use:   "outline <source>",
	Short: "Split anchors into presentation sections",
	Args:  cobra.ExactArgs(1),
	RunE:  runOutline,
}

func init() {
	rankCmd.Flags().IntVarP(&topN, "top", "n", 0, "Rankings to list (0 uses ranking.top_n)")
	depsCmd.Flags().BoolVar(&includeWeak, "weak", true, "Include weak topic-chain edges")
	clustersCmd.Flags().IntVar(&minSize, "min-size", 0, "Minimum cluster size (0 uses clustering.min_cluster_size)")
	clustersCmd.Flags().IntVar(&mergeBelow, "merge-below", -1, "Fold clusters smaller than this into a neighbour (-1 uses clustering.merge_below)")
	outlineCmd.Flags().BoolVar(&orderByDeps, "order", true, "Order anchors by dependencies before sectioning")
}

// loadAnchors loads one source and parses it into anchors.
func loadAnchors(path string) (anchor.ParseResult, error) {
	loader, err := anchor.NewLoader(currentConfig().Parser.FallbackEncoding)
	if err != nil {
		return anchor.ParseResult{}, err
	}
	return parseDocument(loader.Load(path))
}

func parseDocument(doc *anchor.Document) (anchor.ParseResult, error) {
	if err := doc.Err(); err != nil {
		return anchor.ParseResult{}, err
	}
	res := anchor.NewParser(categoryLogger(logging.CategoryParser)).ParseParagraphs(doc.Paragraphs)
	res.Warnings = append(doc.Warnings, res.Warnings...)
	if len(res.Anchors) == 0 {
		return res, fmt.Errorf("no anchors found in %s", doc.Path)
	}
	return res, nil
}

type sourceAnchors struct {
	Source   string          `json:"source"`
	Anchors  []anchor.Anchor `json:"anchors"`
	Warnings []string        `json:"warnings,omitempty"`
	Error    string          `json:"error,omitempty"`
}

func runAnchors(cmd *cobra.Command, args []string) error {
	log := categoryLogger(logging.CategoryParser)
	out := cmd.OutOrStdout()

	loader, err := anchor.NewLoader(currentConfig().Parser.FallbackEncoding)
	if err != nil {
		return err
	}
	docs, loadErr := loader.LoadBatch(args)
	if loadErr != nil {
		log.Debug("batch load finished with errors", zap.Error(loadErr))
	}

	var results []sourceAnchors
	failed := 0
	for _, doc := range docs {
		res, err := parseDocument(doc)
		sa := sourceAnchors{Source: doc.Path, Anchors: res.Anchors, Warnings: res.Warnings}
		if err != nil {
			failed++
			sa.Error = err.Error()
			log.Warn("source skipped", zap.String("path", doc.Path), zap.Error(err))
		}
		results = append(results, sa)
	}

	if jsonOutput {
		if err := printJSON(out, results); err != nil {
			return err
		}
	} else {
		for _, sa := range results {
			if sa.Error != "" {
				fmt.Fprintf(out, "%s: error: %s\n", sa.Source, sa.Error)
				continue
			}
			fmt.Fprintf(out, "%s: %d anchor(s)\n", sa.Source, len(sa.Anchors))
			for _, a := range sa.Anchors {
				fmt.Fprintf(out, "  %s  %3d  %s\n", a.ID, a.Number, a.Title)
			}
			for _, w := range sa.Warnings {
				fmt.Fprintf(out, "  warning: %s\n", w)
			}
		}
	}

	if failed == len(args) {
		return fmt.Errorf("no source could be loaded")
	}
	return nil
}

func runRank(cmd *cobra.Command, args []string) error {
	res, err := loadAnchors(args[0])
	if err != nil {
		return err
	}
	n := topN
	if n <= 0 {
		n = currentConfig().Ranking.TopN
	}

	rankings := ranking.NewRanker(categoryLogger(logging.CategoryRanker)).RankAll(res.Anchors)
	summary := ranking.Summarize(rankings, n)

	out := cmd.OutOrStdout()
	if jsonOutput {
		return printJSON(out, summary)
	}

	fmt.Fprintf(out, "%d anchor(s), %d safety-relevant (taxonomy %s)\n", summary.Total, summary.Safety, summary.Taxonomy)
	for _, l := range ranking.Levels {
		fmt.Fprintf(out, "  %-8s %d\n", l, summary.ByLevel[l])
	}
	cats := make([]string, 0, len(summary.ByCategory))
	for c := range summary.ByCategory {
		cats = append(cats, c)
	}
	sort.Strings(cats)
	fmt.Fprintln(out, "Categories:")
	for _, c := range cats {
		fmt.Fprintf(out, "  %-40s %d\n", c, summary.ByCategory[c])
	}
	fmt.Fprintf(out, "Top %d:\n", len(summary.Top))
	for _, r := range summary.Top {
		fmt.Fprintf(out, "  %s  %-8s %5.2f  %s\n", r.AnchorID, r.PriorityLevel, r.PriorityScore, r.Rationale)
	}
	return nil
}

func runDeps(cmd *cobra.Command, args []string) error {
	res, err := loadAnchors(args[0])
	if err != nil {
		return err
	}
	weak := includeWeak
	if !cmd.Flags().Changed("weak") {
		weak = currentConfig().Deps.IncludeWeak
	}

	mapper := deps.NewMapper(deps.Options{IncludeWeak: weak}, categoryLogger(logging.CategoryDeps))
	result := mapper.Map(res.Anchors)

	out := cmd.OutOrStdout()
	if jsonOutput {
		return printJSON(out, result)
	}

	fmt.Fprintf(out, "Order: %s\n", strings.Join(result.Order, " -> "))
	fmt.Fprintf(out, "Foundational: %s\n", strings.Join(result.Foundational, ", "))
	fmt.Fprintf(out, "Terminal: %s\n", strings.Join(result.Terminal, ", "))
	fmt.Fprintf(out, "%d dependencies:\n", len(result.Dependencies))
	for _, d := range result.Dependencies {
		fmt.Fprintf(out, "  %s -> %s  %s/%s %.2f  %s\n", d.From, d.To, d.Type, d.Strength, d.Confidence, d.Reason)
	}

	graph := deps.Graph(result.Dependencies)
	if len(graph) == 0 {
		return nil
	}
	fmt.Fprintln(out, "Graph:")
	for _, id := range result.Order {
		if next := graph[id]; len(next) > 0 {
			fmt.Fprintf(out, "  %s: %s\n", id, strings.Join(next, ", "))
		}
	}
	return nil
}

func runClusters(cmd *cobra.Command, args []string) error {
	res, err := loadAnchors(args[0])
	if err != nil {
		return err
	}
	c := currentConfig().Clustering
	size := minSize
	if size <= 0 {
		size = c.MinClusterSize
	}
	below := mergeBelow
	if below < 0 {
		below = c.MergeBelow
	}

	detector := cluster.NewDetector(categoryLogger(logging.CategoryCluster))
	result := detector.Detect(res.Anchors, size, c.SimilarityThreshold)
	if below > 0 {
		result = detector.Merge(result, below)
	}

	out := cmd.OutOrStdout()
	if jsonOutput {
		return printJSON(out, result)
	}

	fmt.Fprintf(out, "%d cluster(s), %d unclustered\n", len(result.Clusters), len(result.Unclustered))
	for _, cl := range result.Clusters {
		fmt.Fprintf(out, "  %s  %-24s size %-3d cohesion %.3f  [%s]\n",
			cl.ID, cl.Theme, cl.Size, cl.Cohesion, strings.Join(cl.Keywords, ", "))
		fmt.Fprintf(out, "      %s\n", strings.Join(cl.AnchorIDs, " "))
	}
	if len(result.Unclustered) > 0 {
		fmt.Fprintf(out, "Unclustered: %s\n", strings.Join(result.Unclustered, " "))
	}
	return nil
}

func runOutline(cmd *cobra.Command, args []string) error {
	res, err := loadAnchors(args[0])
	if err != nil {
		return err
	}
	c := currentConfig()
	anchors := res.Anchors
	if orderByDeps {
		result := deps.NewMapper(deps.Options{IncludeWeak: c.Deps.IncludeWeak}, categoryLogger(logging.CategoryDeps)).Map(anchors)
		anchors = reorder(anchors, result.Order)
	}

	plan := outline.Build(anchors, outline.OptionsFrom(c.Outline))
	categoryLogger(logging.CategoryOutline).Debug("outline built",
		zap.Int("anchors", plan.TotalAnchors),
		zap.Int("sections", plan.SectionCount))

	out := cmd.OutOrStdout()
	if jsonOutput {
		return printJSON(out, plan)
	}

	fmt.Fprintf(out, "%d anchor(s) in %d section(s)\n", plan.TotalAnchors, len(plan.Sections))
	for _, s := range plan.Sections {
		fmt.Fprintf(out, "  %s (%d)\n      %s\n", s.Title, len(s.AnchorIDs), strings.Join(s.AnchorIDs, " "))
	}
	return nil
}

// reorder returns anchors in the order of ids. Anchors missing from ids keep
// their relative order at the end.
func reorder(anchors []anchor.Anchor, ids []string) []anchor.Anchor {
	byID := make(map[string]anchor.Anchor, len(anchors))
	for _, a := range anchors {
		byID[a.ID] = a
	}
	out := make([]anchor.Anchor, 0, len(anchors))
	seen := make(map[string]bool, len(ids))
	for _, id := range ids {
		if a, ok := byID[id]; ok && !seen[id] {
			out = append(out, a)
			seen[id] = true
		}
	}
	for _, a := range anchors {
		if !seen[a.ID] {
			out = append(out, a)
		}
	}
	return out
}
