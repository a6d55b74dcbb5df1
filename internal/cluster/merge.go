package cluster

import "go.uber.org/zap"

// Merge folds every cluster smaller than minSize into the cluster of at
// least minSize that shares the most keywords with it. The first candidate
// wins ties. Clusters with no overlapping candidate are kept as they are.
// Merged clusters get recomputed keywords and cohesion. The input is not
// modified.
func (d *Detector) Merge(res Result, minSize int) Result {
	if minSize <= 0 || len(res.Clusters) == 0 {
		return res
	}

	clusters := make([]Cluster, len(res.Clusters))
	for i, c := range res.Clusters {
		c.AnchorIDs = append([]string(nil), c.AnchorIDs...)
		c.Keywords = append([]string(nil), c.Keywords...)
		clusters[i] = c
	}

	absorbed := make([]bool, len(clusters))
	merges := 0
	for i := range clusters {
		if clusters[i].Size >= minSize {
			continue
		}
		best, bestOverlap := -1, 0
		for j := range clusters {
			if j == i || absorbed[j] || clusters[j].Size < minSize {
				continue
			}
			if n := overlap(clusters[i].Keywords, clusters[j].Keywords); n > bestOverlap {
				best, bestOverlap = j, n
			}
		}
		if best < 0 {
			continue
		}
		target := &clusters[best]
		members := append(target.AnchorIDs, clusters[i].AnchorIDs...)
		*target = res.build(target.ID, target.Theme, members)
		absorbed[i] = true
		merges++
	}

	out := res
	out.Clusters = make([]Cluster, 0, len(clusters))
	for i, c := range clusters {
		if !absorbed[i] {
			out.Clusters = append(out.Clusters, c)
		}
	}

	d.logger.Debug("clusters merged",
		zap.Int("merged", merges),
		zap.Int("clusters", len(out.Clusters)))
	return out
}

func overlap(a, b []string) int {
	set := make(map[string]bool, len(b))
	for _, k := range b {
		set[k] = true
	}
	n := 0
	for _, k := range a {
		if set[k] {
			n++
		}
	}
	return n
}
