package training

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/speedrd/rapida/internal/achievement"
	"github.com/speedrd/rapida/internal/clock"
	"github.com/speedrd/rapida/internal/engine"
	"github.com/speedrd/rapida/internal/model"
	"github.com/speedrd/rapida/internal/stats"
)

// memStore is an in-memory stand-in for the SQLite store.
type memStore struct {
	records   []model.SessionRecord
	profile   *model.UserProfile
	unlocks   map[string]time.Time
	appendErr error
}

func newMemStore(userID string) *memStore {
	return &memStore{
		profile: &model.UserProfile{ID: userID, Username: "Reader", CreatedAt: time.Now()},
		unlocks: map[string]time.Time{},
	}
}

func (m *memStore) AppendSession(_ context.Context, rec model.SessionRecord) error {
	if m.appendErr != nil {
		return m.appendErr
	}
	// Prepend: the store contract is newest-first.
	m.records = append([]model.SessionRecord{rec}, m.records...)
	return nil
}

func (m *memStore) ListSessionsByUser(_ context.Context, userID string, limit int) ([]model.SessionRecord, error) {
	var out []model.SessionRecord
	for _, rec := range m.records {
		if rec.UserID == userID {
			out = append(out, rec)
		}
	}
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *memStore) GetProfile(context.Context, string) (*model.UserProfile, error) {
	return m.profile, nil
}

func (m *memStore) UpsertProfile(_ context.Context, p model.UserProfile) error {
	m.profile = &p
	return nil
}

func (m *memStore) SaveUnlock(_ context.Context, _, achievementID string, at time.Time, _ int) error {
	if _, ok := m.unlocks[achievementID]; !ok {
		m.unlocks[achievementID] = at
	}
	return nil
}

func newPipeline(store *memStore, clk clock.Clock) *Service {
	statsSvc := stats.NewService(store, store, clk)
	return NewService(store, statsSvc, achievement.NewEvaluator(clk), clk)
}

func TestCompleteRunsFullPipeline(t *testing.T) {
	clk := clock.NewFake(time.Date(2026, 8, 31, 10, 0, 0, 0, time.Local))
	store := newMemStore("u1")
	svc := newPipeline(store, clk)

	speed := 250
	outcome, err := svc.Complete(context.Background(), "u1", engine.Result{
		Kind:           model.KindExposure,
		ElapsedSeconds: 60,
		WordsRead:      250,
	}, nil, model.SessionSettings{Speed: &speed})
	if err != nil {
		t.Fatal(err)
	}

	if len(store.records) != 1 {
		t.Fatalf("records persisted = %d, want 1", len(store.records))
	}
	rec := store.records[0]
	if rec.ID == "" {
		t.Fatal("record has no id")
	}
	if rec.WPM == nil || *rec.WPM != 250 {
		t.Fatalf("record wpm = %v, want 250", rec.WPM)
	}
	if outcome.Statistics.TotalSessions != 1 {
		t.Fatalf("statistics sessions = %d, want 1", outcome.Statistics.TotalSessions)
	}
	if outcome.CurrentStreak != 1 {
		t.Fatalf("streak = %d, want 1 (trained today)", outcome.CurrentStreak)
	}
	if outcome.Category != "average" {
		t.Fatalf("category = %s, want average for 250 WPM", outcome.Category)
	}
	if outcome.Unlocked == nil {
		t.Fatal("expected first_steps unlock on first session")
	}
	if _, ok := store.unlocks[outcome.Unlocked.ID]; !ok {
		t.Fatal("unlock not persisted")
	}
	if store.profile.CurrentStreak != 1 {
		t.Fatalf("profile streak = %d, want 1", store.profile.CurrentStreak)
	}
}

func TestCompleteGridRecordHasNoSpeed(t *testing.T) {
	clk := clock.NewFake(time.Now())
	store := newMemStore("u1")
	svc := newPipeline(store, clk)

	outcome, err := svc.Complete(context.Background(), "u1", engine.Result{
		Kind:           model.KindGridSearch,
		ElapsedSeconds: 45,
		Mistakes:       2,
		RoundDurations: []time.Duration{45 * time.Second},
	}, nil, model.SessionSettings{})
	if err != nil {
		t.Fatal(err)
	}
	if outcome.Record.WPM != nil || outcome.Record.WordsRead != nil {
		t.Fatalf("grid record carries word counters: %+v", outcome.Record)
	}
	if outcome.Record.Duration != 45 {
		t.Fatalf("duration = %d, want 45", outcome.Record.Duration)
	}
}

func TestCompletePersistFailureSkipsPipeline(t *testing.T) {
	clk := clock.NewFake(time.Now())
	store := newMemStore("u1")
	store.appendErr = errors.New("disk full")
	svc := newPipeline(store, clk)

	_, err := svc.Complete(context.Background(), "u1", engine.Result{
		Kind:           model.KindExposure,
		ElapsedSeconds: 60,
		WordsRead:      100,
	}, nil, model.SessionSettings{})
	if err == nil {
		t.Fatal("expected persistence error")
	}
	if store.profile.CurrentStreak != 0 || store.profile.LastTrainingDate != nil {
		t.Fatal("streak updated despite persistence failure")
	}
	if len(store.unlocks) != 0 {
		t.Fatal("achievements evaluated despite persistence failure")
	}
}

func TestCompleteComprehensionRecorded(t *testing.T) {
	clk := clock.NewFake(time.Now())
	store := newMemStore("u1")
	svc := newPipeline(store, clk)

	score := 0.8
	outcome, err := svc.Complete(context.Background(), "u1", engine.Result{
		Kind:           model.KindFreeReading,
		ElapsedSeconds: 120,
		WordsRead:      400,
	}, &score, model.SessionSettings{})
	if err != nil {
		t.Fatal(err)
	}
	if outcome.Record.Comprehension == nil || *outcome.Record.Comprehension != 0.8 {
		t.Fatalf("comprehension = %v, want 0.8", outcome.Record.Comprehension)
	}
	if outcome.Statistics.BestComprehension != 0.8 {
		t.Fatalf("best comprehension = %f, want 0.8", outcome.Statistics.BestComprehension)
	}
}

func TestCompleteSimultaneousUnlocksAllPersisted(t *testing.T) {
	clk := clock.NewFake(time.Date(2026, 8, 31, 10, 0, 0, 0, time.Local))
	store := newMemStore("u1")
	svc := newPipeline(store, clk)

	// 300 words in 60 s crosses the first-session and the 300 WPM
	// thresholds in the same completion.
	res := engine.Result{Kind: model.KindExposure, ElapsedSeconds: 60, WordsRead: 300}
	outcome, err := svc.Complete(context.Background(), "u1", res, nil, model.SessionSettings{})
	if err != nil {
		t.Fatal(err)
	}
	for _, id := range []string{"first_steps", "fast_reader"} {
		if _, ok := store.unlocks[id]; !ok {
			t.Fatalf("unlock %q not persisted", id)
		}
	}
	if outcome.Unlocked == nil || outcome.Unlocked.ID != "fast_reader" {
		t.Fatalf("outcome unlock = %+v, want fast_reader (last in catalog order)", outcome.Unlocked)
	}
	firstStamp := store.unlocks["first_steps"]

	// A fresh evaluator restored from the persisted unlocks stands in
	// for a process restart; neither unlock may be re-stamped.
	clk.Advance(24 * time.Hour)
	restored := map[string]achievement.Unlock{}
	for id, at := range store.unlocks {
		restored[id] = achievement.Unlock{UnlockedAt: at, Value: 1}
	}
	eval := achievement.NewEvaluator(clk)
	eval.Restore(restored)
	svc2 := NewService(store, stats.NewService(store, store, clk), eval, clk)
	if _, err := svc2.Complete(context.Background(), "u1", res, nil, model.SessionSettings{}); err != nil {
		t.Fatal(err)
	}
	if !store.unlocks["first_steps"].Equal(firstStamp) {
		t.Fatal("first_steps re-stamped after restart")
	}
}

func TestCompleteSecondCallUnlocksNothingNew(t *testing.T) {
	clk := clock.NewFake(time.Now())
	store := newMemStore("u1")
	svc := newPipeline(store, clk)

	res := engine.Result{Kind: model.KindExposure, ElapsedSeconds: 60, WordsRead: 100}
	first, err := svc.Complete(context.Background(), "u1", res, nil, model.SessionSettings{})
	if err != nil {
		t.Fatal(err)
	}
	if first.Unlocked == nil {
		t.Fatal("expected unlock on first completion")
	}
	firstStamp := store.unlocks[first.Unlocked.ID]

	clk.Advance(time.Minute)
	second, err := svc.Complete(context.Background(), "u1", res, nil, model.SessionSettings{})
	if err != nil {
		t.Fatal(err)
	}
	if second.Unlocked != nil && second.Unlocked.ID == first.Unlocked.ID {
		t.Fatal("same achievement unlocked twice")
	}
	if !store.unlocks[first.Unlocked.ID].Equal(firstStamp) {
		t.Fatal("unlock timestamp re-stamped")
	}
}
