package achievement

import (
	"time"

	"github.com/speedrd/rapida/internal/clock"
	"github.com/speedrd/rapida/internal/model"
)

// Evaluator tracks unlock state for the fixed catalog. Evaluation is
// idempotent: re-checking with the same statistics never re-unlocks or
// re-stamps an achievement.
type Evaluator struct {
	clk          clock.Clock
	achievements []Achievement
}

// NewEvaluator returns an evaluator over the fixed catalog. A nil clock
// means wall time.
func NewEvaluator(clk clock.Clock) *Evaluator {
	if clk == nil {
		clk = clock.System{}
	}
	return &Evaluator{clk: clk, achievements: Catalog()}
}

// Unlock is a previously persisted unlock to restore.
type Unlock struct {
	UnlockedAt time.Time
	Value      int
}

// Restore marks previously unlocked achievements, preserving their
// original unlock timestamps and values.
func (e *Evaluator) Restore(unlocks map[string]Unlock) {
	for i := range e.achievements {
		a := &e.achievements[i]
		u, ok := unlocks[a.ID]
		if !ok {
			continue
		}
		at := u.UnlockedAt
		a.Unlocked = true
		a.UnlockedAt = &at
		a.Requirement.CurrentValue = u.Value
		a.Progress = a.Requirement.Progress()
	}
}

// Check evaluates every locked achievement against the statistics and
// streak and returns the achievements newly unlocked by this call in
// catalog order, or nil when nothing new unlocked. Callers present the
// last entry and must persist every entry.
func (e *Evaluator) Check(stats model.Statistics, currentStreak int) []Achievement {
	var newlyUnlocked []Achievement
	for i := range e.achievements {
		a := &e.achievements[i]
		if a.Unlocked {
			continue
		}

		var current int
		switch a.Requirement.Type {
		case SessionsCompleted:
			current = stats.TotalSessions
		case SpeedReached:
			current = stats.BestWPM
		case WordsRead:
			current = stats.TotalWordsRead
		case StreakDays:
			current = currentStreak
		default:
			// The remaining requirement types reference dimensions the
			// statistics do not track; leave them untouched.
			continue
		}

		a.Requirement.CurrentValue = current
		a.Progress = a.Requirement.Progress()

		if current >= a.Requirement.TargetValue {
			now := e.clk.Now()
			a.Unlocked = true
			a.UnlockedAt = &now
			newlyUnlocked = append(newlyUnlocked, *a)
		}
	}
	return newlyUnlocked
}

// Achievements returns a copy of the catalog with live state.
func (e *Evaluator) Achievements() []Achievement {
	out := make([]Achievement, len(e.achievements))
	copy(out, e.achievements)
	return out
}

// ByCategory filters the catalog.
func (e *Evaluator) ByCategory(cat Category) []Achievement {
	var out []Achievement
	for _, a := range e.achievements {
		if a.Category == cat {
			out = append(out, a)
		}
	}
	return out
}

// UnlockedCount returns how many achievements are unlocked.
func (e *Evaluator) UnlockedCount() int {
	n := 0
	for _, a := range e.achievements {
		if a.Unlocked {
			n++
		}
	}
	return n
}

// TotalCount returns the catalog size.
func (e *Evaluator) TotalCount() int {
	return len(e.achievements)
}
