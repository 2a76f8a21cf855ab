// Package stats derives statistics, streaks, and progress views from
// the session record history.
package stats

import (
	"context"
	"fmt"
	"time"

	"github.com/speedrd/rapida/internal/clock"
	"github.com/speedrd/rapida/internal/model"
)

// RecordSource reads session records for a user, newest-first.
type RecordSource interface {
	ListSessionsByUser(ctx context.Context, userID string, limit int) ([]model.SessionRecord, error)
}

// ProfileSource reads and writes the user profile.
type ProfileSource interface {
	GetProfile(ctx context.Context, userID string) (*model.UserProfile, error)
	UpsertProfile(ctx context.Context, p model.UserProfile) error
}

// Service computes derived statistics. Statistics are recomputed from
// the full history on every request and never stored, so they are
// always consistent with the record store.
type Service struct {
	records  RecordSource
	profiles ProfileSource
	clk      clock.Clock
}

// NewService constructs a stats service. A nil clock means wall time.
func NewService(records RecordSource, profiles ProfileSource, clk clock.Clock) *Service {
	if clk == nil {
		clk = clock.System{}
	}
	return &Service{records: records, profiles: profiles, clk: clk}
}

// Compute folds the user's full history into statistics. An empty
// history yields all-zero fields and an empty summary list.
func (s *Service) Compute(ctx context.Context, userID string) (model.Statistics, error) {
	records, err := s.records.ListSessionsByUser(ctx, userID, 0)
	if err != nil {
		return model.Statistics{}, fmt.Errorf("failed to load session history: %w", err)
	}

	stats := model.Statistics{UserID: userID, TotalSessions: len(records)}
	var comprehensionSum float64
	var comprehensionCount int
	for _, rec := range records {
		if rec.WordsRead != nil {
			stats.TotalWordsRead += *rec.WordsRead
		}
		stats.TotalTrainingSeconds += rec.Duration
		if rec.WPM != nil && *rec.WPM > stats.BestWPM {
			stats.BestWPM = *rec.WPM
		}
		if rec.Comprehension != nil {
			comprehensionSum += *rec.Comprehension
			comprehensionCount++
			if *rec.Comprehension > stats.BestComprehension {
				stats.BestComprehension = *rec.Comprehension
			}
		}
		stats.History = append(stats.History, summarize(rec))
	}
	if len(records) > 0 && records[0].WPM != nil {
		stats.CurrentWPM = *records[0].WPM
	}
	if comprehensionCount > 0 {
		stats.AverageComprehension = comprehensionSum / float64(comprehensionCount)
	}
	return stats, nil
}

func summarize(rec model.SessionRecord) model.SessionSummary {
	words := 0
	if rec.WordsRead != nil {
		words = *rec.WordsRead
	}
	return model.SessionSummary{
		Date:          rec.Date,
		WPM:           rec.WPM,
		Comprehension: rec.Comprehension,
		WordsRead:     words,
	}
}

// Progress returns summaries for the last N days, oldest first, for
// chart display.
func (s *Service) Progress(ctx context.Context, userID string, days int) ([]model.SessionSummary, error) {
	records, err := s.records.ListSessionsByUser(ctx, userID, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to load session history: %w", err)
	}
	cutoff := s.clk.Now().AddDate(0, 0, -days)
	var out []model.SessionSummary
	for _, rec := range records {
		if rec.Date.Before(cutoff) {
			continue
		}
		out = append(out, summarize(rec))
	}
	// Records arrive newest-first; charts want oldest-first.
	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	return out, nil
}

// ComprehensionProgress is Progress filtered to sessions that carry a
// comprehension score.
func (s *Service) ComprehensionProgress(ctx context.Context, userID string, days int) ([]model.SessionSummary, error) {
	summaries, err := s.Progress(ctx, userID, days)
	if err != nil {
		return nil, err
	}
	var out []model.SessionSummary
	for _, sum := range summaries {
		if sum.Comprehension != nil {
			out = append(out, sum)
		}
	}
	return out, nil
}

// ActivityCalendar maps local calendar days to session counts.
func (s *Service) ActivityCalendar(ctx context.Context, userID string) (map[time.Time]int, error) {
	records, err := s.records.ListSessionsByUser(ctx, userID, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to load session history: %w", err)
	}
	calendar := map[time.Time]int{}
	for _, rec := range records {
		calendar[startOfDay(rec.Date)]++
	}
	return calendar, nil
}

func startOfDay(t time.Time) time.Time {
	local := t.Local()
	return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, time.Local)
}
