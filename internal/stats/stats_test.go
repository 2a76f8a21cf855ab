package stats

import (
	"context"
	"testing"
	"time"

	"github.com/speedrd/rapida/internal/clock"
	"github.com/speedrd/rapida/internal/model"
)

type fakeRecords struct {
	records []model.SessionRecord
	err     error
}

func (f *fakeRecords) ListSessionsByUser(_ context.Context, userID string, limit int) ([]model.SessionRecord, error) {
	if f.err != nil {
		return nil, f.err
	}
	var out []model.SessionRecord
	for _, rec := range f.records {
		if rec.UserID == userID {
			out = append(out, rec)
		}
	}
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

type fakeProfiles struct {
	profile *model.UserProfile
}

func (f *fakeProfiles) GetProfile(context.Context, string) (*model.UserProfile, error) {
	return f.profile, nil
}

func (f *fakeProfiles) UpsertProfile(_ context.Context, p model.UserProfile) error {
	f.profile = &p
	return nil
}

func intp(v int) *int { return &v }

func floatp(v float64) *float64 { return &v }

func record(userID string, date time.Time, wpm *int, words *int, comprehension *float64) model.SessionRecord {
	return model.SessionRecord{
		ID:            date.Format(time.RFC3339Nano),
		UserID:        userID,
		Date:          date,
		Kind:          model.KindExposure,
		Duration:      60,
		WordsRead:     words,
		WPM:           wpm,
		Comprehension: comprehension,
	}
}

func TestComputeEmptyHistory(t *testing.T) {
	svc := NewService(&fakeRecords{}, &fakeProfiles{}, clock.NewFake(time.Now()))
	stats, err := svc.Compute(context.Background(), "u1")
	if err != nil {
		t.Fatal(err)
	}
	if stats.TotalSessions != 0 || stats.TotalWordsRead != 0 || stats.TotalTrainingSeconds != 0 {
		t.Fatalf("expected zero totals, got %+v", stats)
	}
	if stats.CurrentWPM != 0 || stats.BestWPM != 0 {
		t.Fatalf("expected zero speeds, got %+v", stats)
	}
	if stats.AverageComprehension != 0 || stats.BestComprehension != 0 {
		t.Fatalf("expected zero comprehension, got %+v", stats)
	}
	if len(stats.History) != 0 {
		t.Fatalf("expected empty history, got %d entries", len(stats.History))
	}
}

func TestComputeFoldsHistory(t *testing.T) {
	now := time.Now()
	// Newest-first, as the store returns them.
	records := &fakeRecords{records: []model.SessionRecord{
		record("u1", now, intp(280), intp(280), floatp(0.8)),
		record("u1", now.Add(-time.Hour), intp(350), intp(350), nil),
		record("u1", now.Add(-2*time.Hour), intp(220), intp(220), floatp(0.6)),
		record("u2", now, intp(999), intp(999), nil),
	}}
	svc := NewService(records, &fakeProfiles{}, clock.NewFake(now))
	stats, err := svc.Compute(context.Background(), "u1")
	if err != nil {
		t.Fatal(err)
	}
	if stats.TotalSessions != 3 {
		t.Fatalf("sessions = %d, want 3", stats.TotalSessions)
	}
	if stats.TotalWordsRead != 850 {
		t.Fatalf("words = %d, want 850", stats.TotalWordsRead)
	}
	if stats.TotalTrainingSeconds != 180 {
		t.Fatalf("seconds = %d, want 180", stats.TotalTrainingSeconds)
	}
	if stats.CurrentWPM != 280 {
		t.Fatalf("current = %d, want 280 (most recent)", stats.CurrentWPM)
	}
	if stats.BestWPM != 350 {
		t.Fatalf("best = %d, want 350", stats.BestWPM)
	}
	if got := stats.AverageComprehension; got < 0.699 || got > 0.701 {
		t.Fatalf("avg comprehension = %f, want 0.7", got)
	}
	if stats.BestComprehension != 0.8 {
		t.Fatalf("best comprehension = %f, want 0.8", stats.BestComprehension)
	}
	if len(stats.History) != 3 {
		t.Fatalf("history = %d entries, want 3", len(stats.History))
	}
	if !stats.History[0].Date.Equal(now) {
		t.Fatal("history is not in input order")
	}
}

func TestComputeNoSpeedOnMostRecent(t *testing.T) {
	now := time.Now()
	records := &fakeRecords{records: []model.SessionRecord{
		record("u1", now, nil, nil, nil),
		record("u1", now.Add(-time.Hour), intp(300), intp(300), nil),
	}}
	svc := NewService(records, &fakeProfiles{}, clock.NewFake(now))
	stats, err := svc.Compute(context.Background(), "u1")
	if err != nil {
		t.Fatal(err)
	}
	if stats.CurrentWPM != 0 {
		t.Fatalf("current = %d, want 0 when most recent has no speed", stats.CurrentWPM)
	}
	if stats.BestWPM != 300 {
		t.Fatalf("best = %d, want 300", stats.BestWPM)
	}
}

func TestProgressWindowOldestFirst(t *testing.T) {
	now := time.Now()
	records := &fakeRecords{records: []model.SessionRecord{
		record("u1", now, intp(300), intp(300), nil),
		record("u1", now.AddDate(0, 0, -2), intp(250), intp(250), nil),
		record("u1", now.AddDate(0, 0, -40), intp(200), intp(200), nil),
	}}
	svc := NewService(records, &fakeProfiles{}, clock.NewFake(now))
	out, err := svc.Progress(context.Background(), "u1", 30)
	if err != nil {
		t.Fatal(err)
	}
	if len(out) != 2 {
		t.Fatalf("expected 2 summaries within window, got %d", len(out))
	}
	if !out[0].Date.Before(out[1].Date) {
		t.Fatal("progress is not oldest-first")
	}
}

func TestActivityCalendar(t *testing.T) {
	now := time.Now()
	records := &fakeRecords{records: []model.SessionRecord{
		record("u1", now, intp(300), intp(300), nil),
		record("u1", now.Add(-time.Minute), intp(250), intp(250), nil),
		record("u1", now.AddDate(0, 0, -1), intp(200), intp(200), nil),
	}}
	svc := NewService(records, &fakeProfiles{}, clock.NewFake(now))
	calendar, err := svc.ActivityCalendar(context.Background(), "u1")
	if err != nil {
		t.Fatal(err)
	}
	if calendar[startOfDay(now)] != 2 {
		t.Fatalf("today count = %d, want 2", calendar[startOfDay(now)])
	}
	if calendar[startOfDay(now.AddDate(0, 0, -1))] != 1 {
		t.Fatalf("yesterday count = %d, want 1", calendar[startOfDay(now.AddDate(0, 0, -1))])
	}
}
