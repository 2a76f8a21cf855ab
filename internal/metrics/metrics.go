// Package metrics converts raw session counters into reading speed and
// speed categories.
package metrics

import "math"

// Category bands a reading speed.
type Category string

// Speed categories, slowest to fastest.
const (
	CategorySlow        Category = "slow"
	CategoryAverage     Category = "average"
	CategoryGood        Category = "good"
	CategoryExcellent   Category = "excellent"
	CategoryExceptional Category = "exceptional"
)

// DefaultWPM is the assumed reading speed for time estimates.
const DefaultWPM = 250

// Speed computes words per minute, rounded to the nearest integer.
// Returns 0 when elapsed is not positive.
func Speed(wordsRead, elapsedSeconds int) int {
	if elapsedSeconds <= 0 {
		return 0
	}
	wpm := float64(wordsRead) / float64(elapsedSeconds) * 60.0
	if wpm < 0 {
		return 0
	}
	return int(math.Round(wpm))
}

// ReadingTime estimates reading time in whole minutes for a word count
// at the given speed. Returns 0 when wpm is not positive.
func ReadingTime(wordCount, wpm int) int {
	if wpm <= 0 {
		return 0
	}
	return int(math.Ceil(float64(wordCount) / float64(wpm)))
}

// Classify bands a speed. Bands are inclusive-low, exclusive-high with
// an open top band.
func Classify(wpm int) Category {
	switch {
	case wpm < 200:
		return CategorySlow
	case wpm < 300:
		return CategoryAverage
	case wpm < 400:
		return CategoryGood
	case wpm < 500:
		return CategoryExcellent
	default:
		return CategoryExceptional
	}
}

// Message returns the motivational message shown with the category.
func (c Category) Message() string {
	switch c {
	case CategorySlow:
		return "Keep practicing! You're building your foundation."
	case CategoryAverage:
		return "You're reading at an average pace. Great start!"
	case CategoryGood:
		return "Good speed! You're faster than most readers."
	case CategoryExcellent:
		return "Excellent! Your speed is impressive."
	case CategoryExceptional:
		return "Exceptional! You're a speed reading master!"
	default:
		return ""
	}
}

// Color returns the ANSI-friendly color name used by presentation.
func (c Category) Color() string {
	switch c {
	case CategorySlow:
		return "red"
	case CategoryAverage:
		return "yellow"
	case CategoryGood:
		return "cyan"
	case CategoryExcellent:
		return "green"
	case CategoryExceptional:
		return "magenta"
	default:
		return ""
	}
}
