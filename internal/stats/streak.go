package stats

import (
	"context"
	"fmt"
)

// UpdateStreak recomputes the consecutive-day streak and writes it back
// to the profile. The streak is evaluated relative to the current
// moment: a day with no session breaks it immediately, and "not yet
// trained today" reports a current streak of zero.
func (s *Service) UpdateStreak(ctx context.Context, userID string) (current, longest int, err error) {
	profile, err := s.profiles.GetProfile(ctx, userID)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to load profile: %w", err)
	}
	if profile == nil {
		return 0, 0, nil
	}

	records, err := s.records.ListSessionsByUser(ctx, userID, 0)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to load session history: %w", err)
	}
	if len(records) == 0 {
		return 0, profile.LongestStreak, nil
	}

	// Distinct local days with at least one session, newest-first.
	// Records already arrive newest-first.
	seen := map[int64]struct{}{}
	var days []int64
	for _, rec := range records {
		day := startOfDay(rec.Date).Unix()
		if _, ok := seen[day]; ok {
			continue
		}
		seen[day] = struct{}{}
		days = append(days, day)
	}

	today := startOfDay(s.clk.Now())
	current = 0
	for i, day := range days {
		expected := today.AddDate(0, 0, -i)
		if day != expected.Unix() {
			break
		}
		current++
	}

	profile.CurrentStreak = current
	if current > profile.LongestStreak {
		profile.LongestStreak = current
	}
	last := records[0].Date
	profile.LastTrainingDate = &last
	if err := s.profiles.UpsertProfile(ctx, *profile); err != nil {
		return 0, 0, fmt.Errorf("failed to update profile: %w", err)
	}
	return current, profile.LongestStreak, nil
}
