// Package outline turns an ordered anchor list into presentation sections.
package outline

import (
	"fmt"
	"math"

	"deckgen/internal/anchor"
	"deckgen/internal/config"
)

// Options controls section math.
type Options struct {
	AnchorsPerSection float64
	MinSections       int
	MaxSections       int
}

// DefaultOptions returns the default section math.
func DefaultOptions() Options {
	return Options{
		AnchorsPerSection: config.DefaultAnchorsPerSection,
		MinSections:       config.DefaultMinSections,
		MaxSections:       config.DefaultMaxSections,
	}
}

// OptionsFrom builds Options from configuration.
func OptionsFrom(cfg config.OutlineConfig) Options {
	return Options{
		AnchorsPerSection: cfg.AnchorsPerSection,
		MinSections:       cfg.MinSections,
		MaxSections:       cfg.MaxSections,
	}
}

func (o Options) normalized() Options {
	def := DefaultOptions()
	if o.AnchorsPerSection <= 0 {
		o.AnchorsPerSection = def.AnchorsPerSection
	}
	if o.MinSections < 1 {
		o.MinSections = def.MinSections
	}
	if o.MaxSections < o.MinSections {
		o.MaxSections = o.MinSections
	}
	return o
}

// SectionCount returns round(total / AnchorsPerSection) clamped to
// [MinSections, MaxSections].
func SectionCount(total int, opts Options) int {
	opts = opts.normalized()
	n := int(math.Round(float64(total) / opts.AnchorsPerSection))
	if n < opts.MinSections {
		return opts.MinSections
	}
	if n > opts.MaxSections {
		return opts.MaxSections
	}
	return n
}

// Section is a contiguous run of anchors.
type Section struct {
	Number    int      `json:"number"`
	Title     string   `json:"title"`
	AnchorIDs []string `json:"anchor_ids"`
}

// Plan is a sectioned outline.
type Plan struct {
	TotalAnchors int       `json:"total_anchors"`
	SectionCount int       `json:"section_count"`
	Sections     []Section `json:"sections"`
}

// Build partitions anchors, in the given order, into SectionCount
// near-equal contiguous sections. The first total%k sections get one extra
// anchor. Fewer anchors than sections yields one section per anchor.
func Build(anchors []anchor.Anchor, opts Options) Plan {
	k := SectionCount(len(anchors), opts)
	plan := Plan{TotalAnchors: len(anchors), SectionCount: k, Sections: []Section{}}
	if len(anchors) == 0 {
		return plan
	}
	if k > len(anchors) {
		k = len(anchors)
	}

	size, extra := len(anchors)/k, len(anchors)%k
	start := 0
	for i := 0; i < k; i++ {
		n := size
		if i < extra {
			n++
		}
		chunk := anchors[start : start+n]
		start += n

		plan.Sections = append(plan.Sections, Section{
			Number:    i + 1,
			Title:     fmt.Sprintf("Section %d: %s", i+1, chunk[0].Title),
			AnchorIDs: anchor.IDs(chunk),
		})
	}
	return plan
}
