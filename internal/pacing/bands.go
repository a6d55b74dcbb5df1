package pacing

import "strings"

// Speaking rate and marker timing. These values are a public contract.
const (
	WordsPerMinute = 140

	PauseSeconds    = 2.0
	EmphasisSeconds = 0.5
	CheckSeconds    = 5.0
)

// Band is a min/target/max range.
type Band struct {
	Min    int `json:"min" yaml:"min"`
	Target int `json:"target" yaml:"target"`
	Max    int `json:"max" yaml:"max"`
}

// DurationBand is a min/target/max range in minutes.
type DurationBand struct {
	Min    float64 `json:"min"`
	Target float64 `json:"target"`
	Max    float64 `json:"max"`
}

// Whole-deck bands.
var (
	DeckWords    = Band{Min: 1950, Target: 2100, Max: 2250}
	DeckDuration = DurationBand{Min: 14, Target: 15, Max: 16}
)

// SlideType classifies a slide for pacing purposes.
type SlideType string

const (
	SlideTitle     SlideType = "title"
	SlideIntro     SlideType = "intro"
	SlideContent   SlideType = "content"
	SlideSummary   SlideType = "summary"
	SlideAuxiliary SlideType = "auxiliary"
)

// SlideBands holds per-type word bands for presenter notes.
var SlideBands = map[SlideType]Band{
	SlideTitle:     {Min: 50, Target: 75, Max: 100},
	SlideIntro:     {Min: 50, Target: 75, Max: 100},
	SlideContent:   {Min: 120, Target: 150, Max: 180},
	SlideSummary:   {Min: 80, Target: 110, Max: 140},
	SlideAuxiliary: {Min: 60, Target: 90, Max: 120},
}

// BandFor returns the word band for a slide type; unknown types use content.
func BandFor(t SlideType) Band {
	if b, ok := SlideBands[t]; ok {
		return b
	}
	return SlideBands[SlideContent]
}

// ParseSlideType maps a free-form label to a SlideType. Case-study style
// slides (vignette, answer, case, auxiliary) are auxiliary; anything
// unrecognized is content.
func ParseSlideType(s string) SlideType {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "title":
		return SlideTitle
	case "intro", "introduction":
		return SlideIntro
	case "summary", "conclusion", "wrap-up":
		return SlideSummary
	case "auxiliary", "aux", "vignette", "answer", "case", "case study":
		return SlideAuxiliary
	default:
		return SlideContent
	}
}

// Status is a band classification.
type Status string

const (
	StatusUnder Status = "under"
	StatusOK    Status = "ok"
	StatusOver  Status = "over"
)

// Recommendation returns the action implied by a status.
func (s Status) Recommendation() string {
	switch s {
	case StatusUnder:
		return "expand"
	case StatusOver:
		return "condense"
	default:
		return "none"
	}
}

// Classify places n within band: below Min is under, above Max is over.
func Classify(n int, band Band) Status {
	switch {
	case n < band.Min:
		return StatusUnder
	case n > band.Max:
		return StatusOver
	default:
		return StatusOK
	}
}

// ClassifyDuration places minutes within band.
func ClassifyDuration(minutes float64, band DurationBand) Status {
	switch {
	case minutes < band.Min:
		return StatusUnder
	case minutes > band.Max:
		return StatusOver
	default:
		return StatusOK
	}
}
