package verify

import (
	"strings"
	"time"

	"deckgen/internal/validate"
)

// SampleIssue is an issue found in one sample.
type SampleIssue struct {
	Sample string         `json:"sample"`
	Issue  validate.Issue `json:"issue"`
}

// RequirementResult is the verdict for one requirement across all units.
type RequirementResult struct {
	ID           string        `json:"id"`
	Name         string        `json:"name"`
	Category     Category      `json:"category"`
	Passed       bool          `json:"passed"`
	Units        int           `json:"units"`
	FailedUnits  int           `json:"failed_units"`
	Issues       []SampleIssue `json:"issues,omitempty"` // distinct per sample
	Errors       []string      `json:"errors,omitempty"`
	Inconsistent bool          `json:"inconsistent,omitempty"` // repeated passes over a sample disagreed
}

// Status returns PASS or FAIL.
func (r RequirementResult) Status() string {
	if r.Passed {
		return "PASS"
	}
	return "FAIL"
}

// Summary is the outcome of a verification run.
type Summary struct {
	RunID     string              `json:"run_id"`
	StartedAt time.Time           `json:"started_at"`
	Duration  time.Duration       `json:"duration"`
	Samples   []string            `json:"samples"`
	Passes    int                 `json:"passes"`
	Workers   int                 `json:"workers"`
	Results   []RequirementResult `json:"results"`
}

// Passed reports whether every requirement passed.
func (s *Summary) Passed() bool {
	return len(s.Failed()) == 0
}

// Failed returns the failing requirements in order.
func (s *Summary) Failed() []RequirementResult {
	var out []RequirementResult
	for _, r := range s.Results {
		if !r.Passed {
			out = append(out, r)
		}
	}
	return out
}

// Counts returns the number of passing and failing requirements.
func (s *Summary) Counts() (passed, failed int) {
	for _, r := range s.Results {
		if r.Passed {
			passed++
		} else {
			failed++
		}
	}
	return passed, failed
}

// ExitCode is 1 when a failing requirement belongs to a critical category,
// 0 otherwise. Non-critical failures are reported but never block.
func (s *Summary) ExitCode(critical []string) int {
	set := make(map[Category]bool, len(critical))
	for _, c := range critical {
		set[Category(strings.ToLower(strings.TrimSpace(c)))] = true
	}
	for _, r := range s.Failed() {
		if set[r.Category] {
			return 1
		}
	}
	return 0
}
