// Package pacing counts words and markers in presenter notes, estimates
// speaking time and grades notes against per-slide and whole-deck bands.
// Everything here is read-only over its inputs.
package pacing

import (
	"math"

	"go.uber.org/zap"
)

// SlideNotes is the pacing input for one slide.
type SlideNotes struct {
	Number int
	Type   SlideType
	Notes  string
}

// SlideAnalysis is the pacing report for one slide.
type SlideAnalysis struct {
	Number         int          `json:"slide_number"`
	Type           SlideType    `json:"slide_type"`
	Words          int          `json:"word_count"`
	Markers        MarkerCounts `json:"markers"`
	Duration       float64      `json:"duration_minutes"`
	Band           Band         `json:"band"`
	Status         Status       `json:"status"`
	Recommendation string       `json:"recommendation"`
	Suggestions    []Suggestion `json:"suggestions,omitempty"`
}

// DeckAnalysis is the pacing report for a whole deck.
type DeckAnalysis struct {
	Slides         []SlideAnalysis `json:"slides"`
	TotalWords     int             `json:"total_words"`
	TotalMarkers   MarkerCounts    `json:"total_markers"`
	Duration       float64         `json:"duration_minutes"`
	WordStatus     Status          `json:"word_status"`
	DurationStatus Status          `json:"duration_status"`
	Under          []int           `json:"under,omitempty"`
	Over           []int           `json:"over,omitempty"`
}

// Engine analyzes notes at a fixed speaking rate.
type Engine struct {
	wpm    int
	logger *zap.Logger
}

// NewEngine creates an engine. A non-positive wpm uses WordsPerMinute.
func NewEngine(wpm int, logger *zap.Logger) *Engine {
	if wpm <= 0 {
		wpm = WordsPerMinute
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{wpm: wpm, logger: logger}
}

// WPM returns the engine's speaking rate.
func (e *Engine) WPM() int { return e.wpm }

// AnalyzeSlide grades one slide's notes against its type band.
func (e *Engine) AnalyzeSlide(s SlideNotes) SlideAnalysis {
	words := CountWords(s.Notes)
	markers := CountMarkers(s.Notes)
	band := BandFor(s.Type)
	status := Classify(words, band)

	return SlideAnalysis{
		Number:         s.Number,
		Type:           s.Type,
		Words:          words,
		Markers:        markers,
		Duration:       round2(EstimateDuration(s.Notes, e.wpm)),
		Band:           band,
		Status:         status,
		Recommendation: status.Recommendation(),
		Suggestions:    Suggest(words, band),
	}
}

// AnalyzeDeck grades every slide and the deck totals.
func (e *Engine) AnalyzeDeck(slides []SlideNotes) DeckAnalysis {
	out := DeckAnalysis{Slides: make([]SlideAnalysis, 0, len(slides))}
	var seconds float64
	for _, s := range slides {
		a := e.AnalyzeSlide(s)
		out.Slides = append(out.Slides, a)
		out.TotalWords += a.Words
		out.TotalMarkers.Pause += a.Markers.Pause
		out.TotalMarkers.Emphasis += a.Markers.Emphasis
		out.TotalMarkers.Check += a.Markers.Check
		out.TotalMarkers.Other += a.Markers.Other
		seconds += a.Markers.Seconds()
		switch a.Status {
		case StatusUnder:
			out.Under = append(out.Under, a.Number)
		case StatusOver:
			out.Over = append(out.Over, a.Number)
		}
	}
	out.Duration = round2(float64(out.TotalWords)/float64(e.wpm) + seconds/60)
	out.WordStatus = Classify(out.TotalWords, DeckWords)
	out.DurationStatus = ClassifyDuration(out.Duration, DeckDuration)

	e.logger.Debug("deck paced",
		zap.Int("slides", len(slides)),
		zap.Int("words", out.TotalWords),
		zap.Float64("minutes", out.Duration),
		zap.String("word_status", string(out.WordStatus)))
	return out
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
