// Package model defines shared data structures.
package model

import "time"

// ExerciseKind identifies a training exercise variant.
type ExerciseKind string

// Exercise kinds persisted with session records.
const (
	KindExposure      ExerciseKind = "exposure"
	KindGridSearch    ExerciseKind = "grid_search"
	KindChunkedReveal ExerciseKind = "chunked_reveal"
	KindFreeReading   ExerciseKind = "free_reading"
)

// Difficulty grades exercise content.
type Difficulty string

// Difficulty levels.
const (
	DifficultyBeginner     Difficulty = "beginner"
	DifficultyIntermediate Difficulty = "intermediate"
	DifficultyAdvanced     Difficulty = "advanced"
)

// Theme selects the UI color scheme.
type Theme string

// Themes.
const (
	ThemeLight  Theme = "light"
	ThemeDark   Theme = "dark"
	ThemeSystem Theme = "system"
)

// FontSize selects the reading text size.
type FontSize string

// Font sizes.
const (
	FontSmall  FontSize = "small"
	FontMedium FontSize = "medium"
	FontLarge  FontSize = "large"
)

// Weekday names a reminder day.
type Weekday string

// Reminder weekdays.
const (
	Monday    Weekday = "monday"
	Tuesday   Weekday = "tuesday"
	Wednesday Weekday = "wednesday"
	Thursday  Weekday = "thursday"
	Friday    Weekday = "friday"
	Saturday  Weekday = "saturday"
	Sunday    Weekday = "sunday"
)

// SessionSettings snapshots the exercise configuration a record was
// produced under. Fields are optional and exercise-dependent.
type SessionSettings struct {
	Speed      *int
	ChunkSize  *int
	Difficulty *Difficulty
	TextID     *string
}

// SessionRecord is the immutable outcome of one completed exercise.
// Created atomically at completion, never mutated afterwards.
type SessionRecord struct {
	ID            string
	UserID        string
	Date          time.Time
	Kind          ExerciseKind
	Duration      int // seconds
	WordsRead     *int
	WPM           *int
	Comprehension *float64 // fraction in [0,1]
	Settings      SessionSettings
}

// SessionSummary is a per-session line in the derived statistics.
type SessionSummary struct {
	Date          time.Time
	WPM           *int
	Comprehension *float64
	WordsRead     int
}

// Statistics is derived from the full session history on demand and is
// never stored.
type Statistics struct {
	UserID               string
	TotalSessions        int
	TotalWordsRead       int
	TotalTrainingSeconds int
	CurrentWPM           int
	BestWPM              int
	AverageComprehension float64
	BestComprehension    float64
	History              []SessionSummary
}

// Preferences holds per-user presentation and training defaults.
type Preferences struct {
	Theme               Theme
	FontSize            FontSize
	FontFamily          string
	DefaultDuration     int // minutes
	PreferredDifficulty Difficulty
	NotificationsOn     bool
	ReminderTime        *time.Time
	ReminderDays        []Weekday
}

// DefaultPreferences returns the preferences assigned to a new profile.
func DefaultPreferences() Preferences {
	return Preferences{
		Theme:               ThemeSystem,
		FontSize:            FontMedium,
		FontFamily:          "System",
		DefaultDuration:     5,
		PreferredDifficulty: DifficultyIntermediate,
	}
}

// UserProfile is the single per-installation profile. The streak fields
// are maintained by the stats service.
type UserProfile struct {
	ID               string
	Username         string
	CreatedAt        time.Time
	Language         string
	CurrentStreak    int
	LongestStreak    int
	LastTrainingDate *time.Time
	Preferences      Preferences
}
