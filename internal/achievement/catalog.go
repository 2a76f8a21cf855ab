// Package achievement holds the fixed achievement catalog and the
// unlock evaluator.
package achievement

import "time"

// Category groups achievements for presentation.
type Category string

// Catalog categories.
const (
	CategoryGettingStarted Category = "getting_started"
	CategorySpeed          Category = "speed"
	CategoryComprehension  Category = "comprehension"
	CategoryReading        Category = "reading"
	CategoryConsistency    Category = "consistency"
	CategoryVariety        Category = "variety"
)

// RequirementType names the statistic a requirement is compared to.
type RequirementType string

// Requirement types. ComprehensionCount, TextsRead, ExercisesCompleted,
// and CategoriesRead reference dimensions the statistics do not track
// and are never evaluated.
const (
	SessionsCompleted  RequirementType = "sessions_completed"
	SpeedReached       RequirementType = "speed_reached"
	ComprehensionCount RequirementType = "comprehension_count"
	WordsRead          RequirementType = "words_read"
	StreakDays         RequirementType = "streak_days"
	TextsRead          RequirementType = "texts_read"
	ExercisesCompleted RequirementType = "exercises_completed"
	CategoriesRead     RequirementType = "categories_read"
)

// Requirement is the single threshold an achievement unlocks on.
type Requirement struct {
	Type         RequirementType
	TargetValue  int
	CurrentValue int
}

// Progress returns the completion fraction in [0,1].
func (r Requirement) Progress() float64 {
	if r.TargetValue <= 0 {
		return 0
	}
	p := float64(r.CurrentValue) / float64(r.TargetValue)
	if p > 1 {
		return 1
	}
	return p
}

// Achievement is one catalog entry plus its live unlock state. Name and
// description are localization keys; text resolution belongs to the
// presentation layer.
type Achievement struct {
	ID             string
	NameKey        string
	DescriptionKey string
	Icon           string
	Category       Category
	Requirement    Requirement
	Unlocked       bool
	UnlockedAt     *time.Time
	Progress       float64
}

func entry(id string, icon string, category Category, reqType RequirementType, target int) Achievement {
	return Achievement{
		ID:             id,
		NameKey:        "achievement." + id + ".name",
		DescriptionKey: "achievement." + id + ".description",
		Icon:           icon,
		Category:       category,
		Requirement:    Requirement{Type: reqType, TargetValue: target},
	}
}

// Catalog returns the fixed achievement list in evaluation order.
func Catalog() []Achievement {
	return []Achievement{
		entry("first_steps", "star", CategoryGettingStarted, SessionsCompleted, 1),
		entry("speed_reader", "bolt", CategoryGettingStarted, SessionsCompleted, 10),
		entry("dedicated_learner", "book", CategoryGettingStarted, SessionsCompleted, 50),
		entry("speed_master", "crown", CategoryGettingStarted, SessionsCompleted, 100),

		entry("fast_reader", "hare", CategorySpeed, SpeedReached, 300),
		entry("super_speedy", "flame", CategorySpeed, SpeedReached, 400),
		entry("lightning_fast", "bolt-circle", CategorySpeed, SpeedReached, 500),
		entry("unstoppable_speed", "sparkles", CategorySpeed, SpeedReached, 600),

		entry("good_understanding", "brain-outline", CategoryComprehension, ComprehensionCount, 5),
		entry("great_comprehension", "brain", CategoryComprehension, ComprehensionCount, 5),
		entry("perfect_score", "star-circle", CategoryComprehension, ComprehensionCount, 1),

		entry("book_worm", "book-closed", CategoryReading, WordsRead, 10000),
		entry("avid_reader", "books", CategoryReading, WordsRead, 50000),
		entry("reading_champion", "trophy", CategoryReading, WordsRead, 100000),
		entry("library_master", "columns", CategoryReading, TextsRead, 20),

		entry("week_warrior", "calendar", CategoryConsistency, StreakDays, 7),
		entry("month_master", "calendar-clock", CategoryConsistency, StreakDays, 30),
		entry("unstoppable_streak", "flame-circle", CategoryConsistency, StreakDays, 100),

		entry("explorer", "map", CategoryVariety, ExercisesCompleted, 3),
		entry("well_rounded", "grid", CategoryVariety, CategoriesRead, 5),
	}
}
