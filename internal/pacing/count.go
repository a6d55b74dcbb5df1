package pacing

import (
	"regexp"
	"strings"
)

var markerPattern = regexp.MustCompile(`\[[^\]]*\]`)

// MarkerCounts counts bracketed control markers by type.
type MarkerCounts struct {
	Pause    int `json:"pause"`
	Emphasis int `json:"emphasis"`
	Check    int `json:"check_understanding"`
	Other    int `json:"other"`
}

// Total returns the number of markers of every type.
func (m MarkerCounts) Total() int {
	return m.Pause + m.Emphasis + m.Check + m.Other
}

// Seconds returns the speaking time the markers add.
func (m MarkerCounts) Seconds() float64 {
	return float64(m.Pause)*PauseSeconds +
		float64(m.Emphasis)*EmphasisSeconds +
		float64(m.Check)*CheckSeconds
}

// StripMarkers removes every bracketed marker from text.
func StripMarkers(text string) string {
	return markerPattern.ReplaceAllString(text, "")
}

// CountWords counts whitespace-separated words with bracketed markers
// removed. Markers are deleted rather than replaced with a space, so a word
// glued to a marker still counts once.
func CountWords(text string) int {
	return len(strings.Fields(StripMarkers(text)))
}

// CountMarkers classifies every bracketed token in text.
func CountMarkers(text string) MarkerCounts {
	var m MarkerCounts
	for _, tok := range markerPattern.FindAllString(text, -1) {
		inner := strings.ToUpper(strings.TrimSpace(tok[1 : len(tok)-1]))
		switch {
		case inner == "PAUSE":
			m.Pause++
		case strings.HasPrefix(inner, "EMPHASIS"):
			m.Emphasis++
		case strings.HasPrefix(inner, "CHECK FOR UNDERSTANDING"):
			m.Check++
		default:
			m.Other++
		}
	}
	return m
}

// EstimateDuration returns speaking time in minutes at wpm words per minute
// plus marker time.
func EstimateDuration(text string, wpm int) float64 {
	if wpm <= 0 {
		wpm = WordsPerMinute
	}
	return float64(CountWords(text))/float64(wpm) + CountMarkers(text).Seconds()/60
}
