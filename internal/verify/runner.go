package verify

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"deckgen/internal/blueprint"
	"deckgen/internal/logging"
	"deckgen/internal/validate"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// LoadFunc reads and parses one sample.
type LoadFunc func(path string) (*blueprint.Deck, error)

// SlowRunThreshold is the run duration above which a warning is logged.
const SlowRunThreshold = 2 * time.Minute

// unitResult is the outcome of one requirement × sample × pass unit.
type unitResult struct {
	requirement string
	sample      string
	pass        int
	issues      []validate.Issue
	err         error
}

// Runner fans requirement checks across samples and passes.
type Runner struct {
	reqs    []Requirement
	workers int
	load    LoadFunc
	logger  *zap.Logger
}

// NewRunner creates a runner with at most workers concurrent units.
func NewRunner(reqs []Requirement, workers int, logger *zap.Logger) *Runner {
	if workers < 1 {
		workers = 1
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Runner{reqs: reqs, workers: workers, load: blueprint.Load, logger: logger}
}

// WithLoader replaces the sample loader.
func (r *Runner) WithLoader(load LoadFunc) *Runner {
	r.load = load
	return r
}

// Run executes every requirement against every sample, passes times.
// Each unit loads and parses its own copy of the sample. A sample that
// fails to load fails every requirement for that sample; it does not stop
// the run. Run returns an error only when ctx is cancelled.
func (r *Runner) Run(ctx context.Context, samples []string, passes int) (*Summary, error) {
	if passes < 1 {
		passes = 1
	}
	started := time.Now()
	runID := uuid.NewString()
	log := r.logger.With(zap.String("run_id", runID))
	timer := logging.StartTimer(log, "verification run")
	log.Info("verification started",
		zap.Int("requirements", len(r.reqs)),
		zap.Int("samples", len(samples)),
		zap.Int("passes", passes),
		zap.Int("workers", r.workers))

	var mu sync.Mutex
	results := make([]unitResult, 0, len(r.reqs)*len(samples)*passes)
	record := func(u unitResult) {
		mu.Lock()
		results = append(results, u)
		mu.Unlock()
	}

	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(r.workers)

dispatch:
	for _, req := range r.reqs {
		for _, sample := range samples {
			for pass := 1; pass <= passes; pass++ {
				if egCtx.Err() != nil {
					break dispatch
				}
				eg.Go(func() error {
					if err := egCtx.Err(); err != nil {
						return err
					}
					record(r.runUnit(req, sample, pass))
					return nil
				})
			}
		}
	}

	if err := eg.Wait(); err != nil {
		return nil, fmt.Errorf("verification run %s interrupted: %w", runID, err)
	}
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("verification run %s interrupted: %w", runID, err)
	}

	summary := r.aggregate(results, samples, passes)
	summary.RunID = runID
	summary.StartedAt = started
	summary.Duration = timer.StopWithThreshold(SlowRunThreshold)

	log.Info("verification finished",
		zap.Int("units", len(results)),
		zap.Int("failed", len(summary.Failed())),
		zap.Duration("took", summary.Duration))
	return summary, nil
}

func (r *Runner) runUnit(req Requirement, sample string, pass int) unitResult {
	u := unitResult{requirement: req.ID, sample: sample, pass: pass}
	deck, err := r.load(sample)
	if err != nil {
		u.err = err
		return u
	}
	u.issues = req.Check(deck)
	return u
}

// aggregate folds unit results into per-requirement verdicts. Output is
// sorted so reports are deterministic regardless of scheduling.
func (r *Runner) aggregate(results []unitResult, samples []string, passes int) *Summary {
	sort.Slice(results, func(i, j int) bool {
		a, b := results[i], results[j]
		if a.requirement != b.requirement {
			return a.requirement < b.requirement
		}
		if a.sample != b.sample {
			return a.sample < b.sample
		}
		return a.pass < b.pass
	})

	byReq := make(map[string][]unitResult, len(r.reqs))
	for _, u := range results {
		byReq[u.requirement] = append(byReq[u.requirement], u)
	}

	expected := len(samples) * passes
	s := &Summary{
		Samples: append([]string(nil), samples...),
		Passes:  passes,
		Workers: r.workers,
	}
	for _, req := range r.reqs {
		units := byReq[req.ID]
		rr := RequirementResult{
			ID:       req.ID,
			Name:     req.Name,
			Category: req.Category,
			Units:    len(units),
		}

		seen := make(map[string]bool)
		counts := make(map[string]map[int]bool) // sample -> distinct issue counts
		for _, u := range units {
			if u.err != nil {
				rr.Errors = append(rr.Errors, fmt.Sprintf("%s (pass %d): %v", u.sample, u.pass, u.err))
				rr.FailedUnits++
				continue
			}
			if counts[u.sample] == nil {
				counts[u.sample] = make(map[int]bool)
			}
			counts[u.sample][len(u.issues)] = true
			if len(u.issues) > 0 {
				rr.FailedUnits++
			}
			for _, is := range u.issues {
				key := u.sample + "\x00" + is.String()
				if seen[key] {
					continue
				}
				seen[key] = true
				rr.Issues = append(rr.Issues, SampleIssue{Sample: u.sample, Issue: is})
			}
		}
		for _, c := range counts {
			if len(c) > 1 {
				rr.Inconsistent = true
			}
		}
		rr.Passed = rr.Units == expected && rr.FailedUnits == 0
		s.Results = append(s.Results, rr)
	}
	return s
}
