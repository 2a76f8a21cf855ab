// Package store handles SQLite persistence.
package store

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/speedrd/rapida/internal/model"

	_ "modernc.org/sqlite" // SQLite driver.
)

// Store wraps SQLite access for session records, the user profile, and
// achievement unlock state.
type Store struct {
	db *sql.DB
}

// Open opens or creates the SQLite database and applies migrations.
func Open(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		if cerr := db.Close(); cerr != nil {
			// Best-effort close on migration failure.
			_ = cerr
		}
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS sessions (
			id TEXT PRIMARY KEY,
			user_id TEXT NOT NULL,
			date TEXT NOT NULL,
			kind TEXT NOT NULL,
			duration INTEGER NOT NULL,
			words_read INTEGER,
			wpm INTEGER,
			comprehension REAL,
			speed INTEGER,
			chunk_size INTEGER,
			difficulty TEXT,
			text_id TEXT
		);`,
		`CREATE TABLE IF NOT EXISTS profiles (
			id TEXT PRIMARY KEY,
			username TEXT NOT NULL,
			created_at TEXT NOT NULL,
			language TEXT NOT NULL,
			current_streak INTEGER NOT NULL,
			longest_streak INTEGER NOT NULL,
			last_training_date TEXT,
			theme TEXT NOT NULL,
			font_size TEXT NOT NULL,
			font_family TEXT NOT NULL,
			default_duration INTEGER NOT NULL,
			preferred_difficulty TEXT NOT NULL,
			notifications_on INTEGER NOT NULL,
			reminder_time TEXT,
			reminder_days TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS achievement_unlocks (
			user_id TEXT NOT NULL,
			achievement_id TEXT NOT NULL,
			unlocked_at TEXT NOT NULL,
			current_value INTEGER NOT NULL,
			PRIMARY KEY (user_id, achievement_id)
		);`,
		`CREATE INDEX IF NOT EXISTS idx_sessions_user_date ON sessions(user_id, date);`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// AppendSession stores one completed session record.
func (s *Store) AppendSession(ctx context.Context, rec model.SessionRecord) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO sessions (id, user_id, date, kind, duration, words_read, wpm, comprehension, speed, chunk_size, difficulty, text_id)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ID,
		rec.UserID,
		rec.Date.Format(time.RFC3339Nano),
		string(rec.Kind),
		rec.Duration,
		nullInt(rec.WordsRead),
		nullInt(rec.WPM),
		nullFloat(rec.Comprehension),
		nullInt(rec.Settings.Speed),
		nullInt(rec.Settings.ChunkSize),
		nullDifficulty(rec.Settings.Difficulty),
		nullString(rec.Settings.TextID),
	)
	return err
}

// ListSessionsByUser returns a user's records ordered newest-first.
// A non-positive limit returns the full history.
func (s *Store) ListSessionsByUser(ctx context.Context, userID string, limit int) ([]model.SessionRecord, error) {
	query := `SELECT id, user_id, date, kind, duration, words_read, wpm, comprehension, speed, chunk_size, difficulty, text_id
		FROM sessions
		WHERE user_id = ?
		ORDER BY date DESC`
	args := []any{userID}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	var records []model.SessionRecord
	for rows.Next() {
		var (
			rec           model.SessionRecord
			date          string
			kind          string
			wordsRead     sql.NullInt64
			wpm           sql.NullInt64
			comprehension sql.NullFloat64
			speed         sql.NullInt64
			chunkSize     sql.NullInt64
			difficulty    sql.NullString
			textID        sql.NullString
		)
		if err := rows.Scan(&rec.ID, &rec.UserID, &date, &kind, &rec.Duration, &wordsRead, &wpm, &comprehension, &speed, &chunkSize, &difficulty, &textID); err != nil {
			return nil, err
		}
		parsed, err := time.Parse(time.RFC3339Nano, date)
		if err != nil {
			return nil, err
		}
		rec.Date = parsed
		rec.Kind = model.ExerciseKind(kind)
		rec.WordsRead = intPtr(wordsRead)
		rec.WPM = intPtr(wpm)
		rec.Comprehension = floatPtr(comprehension)
		rec.Settings = model.SessionSettings{
			Speed:      intPtr(speed),
			ChunkSize:  intPtr(chunkSize),
			Difficulty: difficultyPtr(difficulty),
			TextID:     stringPtr(textID),
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return records, nil
}

// DeleteAllForUser wipes a user's session history and unlock state.
func (s *Store) DeleteAllForUser(ctx context.Context, userID string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			if rerr := tx.Rollback(); rerr != nil {
				// Best-effort rollback.
				_ = rerr
			}
		}
	}()
	if _, err = tx.ExecContext(ctx, `DELETE FROM sessions WHERE user_id = ?`, userID); err != nil {
		return err
	}
	if _, err = tx.ExecContext(ctx, `DELETE FROM achievement_unlocks WHERE user_id = ?`, userID); err != nil {
		return err
	}
	err = tx.Commit()
	return err
}

// GetProfile returns the stored profile or nil when none exists.
func (s *Store) GetProfile(ctx context.Context, userID string) (*model.UserProfile, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, username, created_at, language, current_streak, longest_streak, last_training_date,
			theme, font_size, font_family, default_duration, preferred_difficulty, notifications_on, reminder_time, reminder_days
		 FROM profiles WHERE id = ?`, userID)

	var (
		p            model.UserProfile
		createdAt    string
		lastTraining sql.NullString
		reminderTime sql.NullString
		reminderDays string
		notifyOn     int
	)
	err := row.Scan(&p.ID, &p.Username, &createdAt, &p.Language, &p.CurrentStreak, &p.LongestStreak, &lastTraining,
		&p.Preferences.Theme, &p.Preferences.FontSize, &p.Preferences.FontFamily, &p.Preferences.DefaultDuration,
		&p.Preferences.PreferredDifficulty, &notifyOn, &reminderTime, &reminderDays)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if p.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt); err != nil {
		return nil, err
	}
	if lastTraining.Valid {
		parsed, err := time.Parse(time.RFC3339Nano, lastTraining.String)
		if err != nil {
			return nil, err
		}
		p.LastTrainingDate = &parsed
	}
	if reminderTime.Valid {
		parsed, err := time.Parse(time.RFC3339Nano, reminderTime.String)
		if err != nil {
			return nil, err
		}
		p.Preferences.ReminderTime = &parsed
	}
	p.Preferences.NotificationsOn = notifyOn != 0
	if reminderDays != "" {
		for _, day := range strings.Split(reminderDays, ",") {
			p.Preferences.ReminderDays = append(p.Preferences.ReminderDays, model.Weekday(day))
		}
	}
	return &p, nil
}

// UpsertProfile inserts or replaces the profile row.
func (s *Store) UpsertProfile(ctx context.Context, p model.UserProfile) error {
	days := make([]string, len(p.Preferences.ReminderDays))
	for i, d := range p.Preferences.ReminderDays {
		days[i] = string(d)
	}
	notifyOn := 0
	if p.Preferences.NotificationsOn {
		notifyOn = 1
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO profiles (id, username, created_at, language, current_streak, longest_streak, last_training_date,
			theme, font_size, font_family, default_duration, preferred_difficulty, notifications_on, reminder_time, reminder_days)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
			username = excluded.username,
			language = excluded.language,
			current_streak = excluded.current_streak,
			longest_streak = excluded.longest_streak,
			last_training_date = excluded.last_training_date,
			theme = excluded.theme,
			font_size = excluded.font_size,
			font_family = excluded.font_family,
			default_duration = excluded.default_duration,
			preferred_difficulty = excluded.preferred_difficulty,
			notifications_on = excluded.notifications_on,
			reminder_time = excluded.reminder_time,
			reminder_days = excluded.reminder_days`,
		p.ID,
		p.Username,
		p.CreatedAt.Format(time.RFC3339Nano),
		p.Language,
		p.CurrentStreak,
		p.LongestStreak,
		nullTime(p.LastTrainingDate),
		string(p.Preferences.Theme),
		string(p.Preferences.FontSize),
		p.Preferences.FontFamily,
		p.Preferences.DefaultDuration,
		string(p.Preferences.PreferredDifficulty),
		notifyOn,
		nullTime(p.Preferences.ReminderTime),
		strings.Join(days, ","),
	)
	return err
}

// Unlock is a persisted achievement unlock.
type Unlock struct {
	UnlockedAt time.Time
	Value      int
}

// ListUnlocks returns the user's unlocked achievements keyed by id.
func (s *Store) ListUnlocks(ctx context.Context, userID string) (map[string]Unlock, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT achievement_id, unlocked_at, current_value FROM achievement_unlocks WHERE user_id = ?`, userID)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	unlocks := map[string]Unlock{}
	for rows.Next() {
		var id, at string
		var value int
		if err := rows.Scan(&id, &at, &value); err != nil {
			return nil, err
		}
		parsed, err := time.Parse(time.RFC3339Nano, at)
		if err != nil {
			return nil, err
		}
		unlocks[id] = Unlock{UnlockedAt: parsed, Value: value}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return unlocks, nil
}

// SaveUnlock records an unlock. An existing row is left untouched so
// the unlock timestamp is stamped exactly once.
func (s *Store) SaveUnlock(ctx context.Context, userID, achievementID string, at time.Time, value int) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO achievement_unlocks (user_id, achievement_id, unlocked_at, current_value)
		 VALUES (?, ?, ?, ?)`,
		userID, achievementID, at.Format(time.RFC3339Nano), value)
	return err
}

func nullInt(v *int) any {
	if v == nil {
		return nil
	}
	return *v
}

func nullFloat(v *float64) any {
	if v == nil {
		return nil
	}
	return *v
}

func nullString(v *string) any {
	if v == nil {
		return nil
	}
	return *v
}

func nullDifficulty(v *model.Difficulty) any {
	if v == nil {
		return nil
	}
	return string(*v)
}

func nullTime(v *time.Time) any {
	if v == nil {
		return nil
	}
	return v.Format(time.RFC3339Nano)
}

func intPtr(v sql.NullInt64) *int {
	if !v.Valid {
		return nil
	}
	n := int(v.Int64)
	return &n
}

func floatPtr(v sql.NullFloat64) *float64 {
	if !v.Valid {
		return nil
	}
	f := v.Float64
	return &f
}

func stringPtr(v sql.NullString) *string {
	if !v.Valid {
		return nil
	}
	s := v.String
	return &s
}

func difficultyPtr(v sql.NullString) *model.Difficulty {
	if !v.Valid {
		return nil
	}
	d := model.Difficulty(v.String)
	return &d
}
