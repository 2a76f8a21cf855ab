package stats

import (
	"context"
	"testing"
	"time"

	"github.com/speedrd/rapida/internal/clock"
	"github.com/speedrd/rapida/internal/model"
)

func streakFixture(dayOffsets []int, longest int) (*fakeRecords, *fakeProfiles, *clock.Fake) {
	now := time.Date(2026, 8, 31, 15, 0, 0, 0, time.Local)
	records := &fakeRecords{}
	for _, off := range dayOffsets {
		records.records = append(records.records,
			record("u1", now.AddDate(0, 0, -off), intp(250), intp(250), nil))
	}
	profiles := &fakeProfiles{profile: &model.UserProfile{
		ID:            "u1",
		Username:      "Reader",
		CreatedAt:     now.AddDate(0, -1, 0),
		LongestStreak: longest,
	}}
	return records, profiles, clock.NewFake(now)
}

func TestStreakConsecutiveDays(t *testing.T) {
	records, profiles, clk := streakFixture([]int{0, 1, 2}, 0)
	svc := NewService(records, profiles, clk)
	current, longest, err := svc.UpdateStreak(context.Background(), "u1")
	if err != nil {
		t.Fatal(err)
	}
	if current != 3 || longest != 3 {
		t.Fatalf("streak = (%d, %d), want (3, 3)", current, longest)
	}
	if profiles.profile.CurrentStreak != 3 {
		t.Fatalf("profile streak not written: %d", profiles.profile.CurrentStreak)
	}
	if profiles.profile.LastTrainingDate == nil {
		t.Fatal("last training date not written")
	}
}

func TestStreakGapBreaks(t *testing.T) {
	records, profiles, clk := streakFixture([]int{0, 2}, 0)
	svc := NewService(records, profiles, clk)
	current, _, err := svc.UpdateStreak(context.Background(), "u1")
	if err != nil {
		t.Fatal(err)
	}
	if current != 1 {
		t.Fatalf("streak = %d, want 1 (gap at yesterday)", current)
	}
}

func TestStreakZeroWithoutSessionToday(t *testing.T) {
	records, profiles, clk := streakFixture([]int{1, 2, 3}, 0)
	svc := NewService(records, profiles, clk)
	current, _, err := svc.UpdateStreak(context.Background(), "u1")
	if err != nil {
		t.Fatal(err)
	}
	if current != 0 {
		t.Fatalf("streak = %d, want 0 when not yet trained today", current)
	}
}

func TestStreakLongestMonotone(t *testing.T) {
	records, profiles, clk := streakFixture([]int{0}, 9)
	svc := NewService(records, profiles, clk)
	current, longest, err := svc.UpdateStreak(context.Background(), "u1")
	if err != nil {
		t.Fatal(err)
	}
	if current != 1 {
		t.Fatalf("current = %d, want 1", current)
	}
	if longest != 9 {
		t.Fatalf("longest = %d, want previous high water 9", longest)
	}
}

func TestStreakMultipleSessionsSameDay(t *testing.T) {
	records, profiles, clk := streakFixture([]int{0, 0, 0, 1}, 0)
	svc := NewService(records, profiles, clk)
	current, _, err := svc.UpdateStreak(context.Background(), "u1")
	if err != nil {
		t.Fatal(err)
	}
	if current != 2 {
		t.Fatalf("streak = %d, want 2 (distinct days only)", current)
	}
}

func TestStreakEmptyHistory(t *testing.T) {
	records, profiles, clk := streakFixture(nil, 4)
	svc := NewService(records, profiles, clk)
	current, longest, err := svc.UpdateStreak(context.Background(), "u1")
	if err != nil {
		t.Fatal(err)
	}
	if current != 0 || longest != 4 {
		t.Fatalf("streak = (%d, %d), want (0, 4)", current, longest)
	}
}
