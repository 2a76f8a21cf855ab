// Package training runs the post-session pipeline: persist the record,
// recompute statistics, update the streak, and evaluate achievements.
package training

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/speedrd/rapida/internal/achievement"
	"github.com/speedrd/rapida/internal/clock"
	"github.com/speedrd/rapida/internal/engine"
	"github.com/speedrd/rapida/internal/metrics"
	"github.com/speedrd/rapida/internal/model"
	"github.com/speedrd/rapida/internal/stats"
)

// Store is the persistence surface the pipeline writes to.
type Store interface {
	AppendSession(ctx context.Context, rec model.SessionRecord) error
	SaveUnlock(ctx context.Context, userID, achievementID string, at time.Time, value int) error
}

// Outcome is everything the presentation layer needs after a completed
// session.
type Outcome struct {
	Record        model.SessionRecord
	Statistics    model.Statistics
	CurrentStreak int
	LongestStreak int
	Category      metrics.Category
	Unlocked      *achievement.Achievement
}

// Service executes the pipeline. Steps run sequentially; a persistence
// failure aborts before any derived state is touched so statistics are
// never computed from a history missing the just-finished session.
type Service struct {
	store        Store
	stats        *stats.Service
	achievements *achievement.Evaluator
	clk          clock.Clock
}

// NewService constructs the pipeline service. A nil clock means wall
// time.
func NewService(store Store, statsSvc *stats.Service, achievements *achievement.Evaluator, clk clock.Clock) *Service {
	if clk == nil {
		clk = clock.System{}
	}
	return &Service{store: store, stats: statsSvc, achievements: achievements, clk: clk}
}

// Complete turns a raw engine result into a persisted record and runs
// the derived-state pipeline. Cancelled sessions must not reach here.
func (s *Service) Complete(ctx context.Context, userID string, res engine.Result, comprehension *float64, settings model.SessionSettings) (*Outcome, error) {
	rec := s.buildRecord(userID, res, comprehension, settings)
	if err := s.store.AppendSession(ctx, rec); err != nil {
		return nil, fmt.Errorf("failed to save session: %w", err)
	}

	statistics, err := s.stats.Compute(ctx, userID)
	if err != nil {
		return nil, err
	}
	current, longest, err := s.stats.UpdateStreak(ctx, userID)
	if err != nil {
		return nil, err
	}

	// Every crossing is persisted so unlock timestamps survive a
	// restart; only the last one is surfaced in the outcome.
	newlyUnlocked := s.achievements.Check(statistics, current)
	for _, a := range newlyUnlocked {
		if err := s.store.SaveUnlock(ctx, userID, a.ID, *a.UnlockedAt, a.Requirement.CurrentValue); err != nil {
			return nil, fmt.Errorf("failed to save unlock: %w", err)
		}
	}
	var unlocked *achievement.Achievement
	if len(newlyUnlocked) > 0 {
		unlocked = &newlyUnlocked[len(newlyUnlocked)-1]
	}

	wpm := 0
	if rec.WPM != nil {
		wpm = *rec.WPM
	}
	return &Outcome{
		Record:        rec,
		Statistics:    statistics,
		CurrentStreak: current,
		LongestStreak: longest,
		Category:      metrics.Classify(wpm),
		Unlocked:      unlocked,
	}, nil
}

func (s *Service) buildRecord(userID string, res engine.Result, comprehension *float64, settings model.SessionSettings) model.SessionRecord {
	rec := model.SessionRecord{
		ID:            uuid.NewString(),
		UserID:        userID,
		Date:          s.clk.Now(),
		Kind:          res.Kind,
		Duration:      res.ElapsedSeconds,
		Comprehension: comprehension,
		Settings:      settings,
	}
	// The grid exercise has no word counters; its record carries only
	// duration and settings.
	if res.Kind != model.KindGridSearch {
		words := res.WordsRead
		wpm := metrics.Speed(words, res.ElapsedSeconds)
		rec.WordsRead = &words
		rec.WPM = &wpm
	}
	return rec
}
