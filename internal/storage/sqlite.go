// Package storage provides SQLite-based persistence for scores, unlocked
// achievements, gameplay events and crash reports.
// Uses the pure-Go modernc.org/sqlite driver to avoid CGO dependencies.
package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/vmihailenco/msgpack/v5"
	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

// Store manages the SQLite database connection.
type Store struct {
	db *sql.DB
}

// ScoreEntry is one finished run.
type ScoreEntry struct {
	ID          int64
	GameID      string
	Name        string
	Score       int
	Level       int
	ElapsedSecs int
	Swaps       int
	AvgPPM      float64
	Version     string
	CreatedAt   time.Time
}

// UnlockRecord is an achievement unlocked on this machine.
type UnlockRecord struct {
	ID         string
	UnlockedAt time.Time
}

// EventRecord is a stored gameplay event. Params round-trip through msgpack,
// so integers come back as the narrowest msgpack type.
type EventRecord struct {
	ID        int64
	SessionID string
	Name      string
	Params    map[string]any
	CreatedAt time.Time
}

// CrashRecord is a stored panic report.
type CrashRecord struct {
	ID        int64
	Version   string
	Trace     string
	Snapshot  []byte
	CreatedAt time.Time
}

const timeLayout = "2006-01-02 15:04:05"

// Open creates or opens a SQLite database at the given path.
// It creates the parent directories if needed and runs migrations.
func Open(dbPath string) (*Store, error) {
	// Expand ~ to home directory
	if dbPath != "" && dbPath[0] == '~' {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("storage: cannot expand home directory: %w", err)
		}
		dbPath = filepath.Join(home, dbPath[1:])
	}

	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("storage: cannot create directory %s: %w", dir, err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: cannot connect to database: %w", err)
	}

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: migration failed: %w", err)
	}

	return store, nil
}

// migrate creates the database schema if it doesn't exist.
func (s *Store) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS scores (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			game_id TEXT NOT NULL,
			name TEXT NOT NULL DEFAULT '',
			score INTEGER NOT NULL,
			level INTEGER NOT NULL DEFAULT 1,
			elapsed_secs INTEGER NOT NULL DEFAULT 0,
			swaps INTEGER NOT NULL DEFAULT 0,
			avg_ppm REAL NOT NULL DEFAULT 0,
			version TEXT NOT NULL DEFAULT '',
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_scores_top ON scores(game_id, score DESC);

		CREATE TABLE IF NOT EXISTS achievements (
			id TEXT PRIMARY KEY,
			unlocked_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);

		CREATE TABLE IF NOT EXISTS events (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			session_id TEXT NOT NULL,
			name TEXT NOT NULL,
			params BLOB,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_events_name ON events(name);

		CREATE TABLE IF NOT EXISTS crashes (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			version TEXT NOT NULL DEFAULT '',
			trace TEXT NOT NULL,
			snapshot BLOB,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// parseTime accepts what the driver hands back for a DATETIME column.
func parseTime(v any) time.Time {
	switch t := v.(type) {
	case time.Time:
		return t
	case string:
		if parsed, err := time.Parse(timeLayout, t); err == nil {
			return parsed
		}
	}
	return time.Time{}
}

// SaveScore records a finished run and returns the new row id.
func (s *Store) SaveScore(e ScoreEntry) (int64, error) {
	result, err := s.db.Exec(
		`INSERT INTO scores (game_id, name, score, level, elapsed_secs, swaps, avg_ppm, version)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		e.GameID, e.Name, e.Score, e.Level, e.ElapsedSecs, e.Swaps, e.AvgPPM, e.Version,
	)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot save score: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("storage: cannot get inserted ID: %w", err)
	}

	return id, nil
}

// TopScores retrieves the top N scores for the given game, best first.
// Equal scores keep insertion order.
func (s *Store) TopScores(gameID string, limit int) ([]ScoreEntry, error) {
	if limit <= 0 {
		limit = 10
	}

	rows, err := s.db.Query(
		`SELECT id, game_id, name, score, level, elapsed_secs, swaps, avg_ppm, version, created_at
		 FROM scores
		 WHERE game_id = ?
		 ORDER BY score DESC, id ASC
		 LIMIT ?`,
		gameID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query scores: %w", err)
	}
	defer rows.Close()

	var entries []ScoreEntry
	for rows.Next() {
		var e ScoreEntry
		var createdAt any
		if err := rows.Scan(&e.ID, &e.GameID, &e.Name, &e.Score, &e.Level, &e.ElapsedSecs,
			&e.Swaps, &e.AvgPPM, &e.Version, &createdAt); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		e.CreatedAt = parseTime(createdAt)
		entries = append(entries, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return entries, nil
}

// HighScore returns the highest score for the given game.
// Returns 0 if no scores exist.
func (s *Store) HighScore(gameID string) (int, error) {
	var score sql.NullInt64
	err := s.db.QueryRow(
		"SELECT MAX(score) FROM scores WHERE game_id = ?",
		gameID,
	).Scan(&score)

	if err != nil {
		return 0, fmt.Errorf("storage: cannot query high score: %w", err)
	}

	if !score.Valid {
		return 0, nil
	}

	return int(score.Int64), nil
}

// ClearScores deletes all scores for the given game.
func (s *Store) ClearScores(gameID string) error {
	_, err := s.db.Exec("DELETE FROM scores WHERE game_id = ?", gameID)
	if err != nil {
		return fmt.Errorf("storage: cannot clear scores: %w", err)
	}
	return nil
}

// GameStats contains aggregated statistics for a game.
type GameStats struct {
	GameID     string
	GamesCount int
	HighScore  int
	AvgScore   float64
	TotalScore int64
	BestLevel  int
	LastPlayed time.Time
}

// GetGameStats retrieves aggregated statistics for a specific game.
func (s *Store) GetGameStats(gameID string) (*GameStats, error) {
	stats := &GameStats{GameID: gameID}

	err := s.db.QueryRow(
		`SELECT COUNT(*), COALESCE(MAX(score), 0), COALESCE(AVG(score), 0),
		        COALESCE(SUM(score), 0), COALESCE(MAX(level), 0)
		 FROM scores WHERE game_id = ?`,
		gameID,
	).Scan(&stats.GamesCount, &stats.HighScore, &stats.AvgScore, &stats.TotalScore, &stats.BestLevel)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot get game stats: %w", err)
	}

	var lastPlayed any
	err = s.db.QueryRow(
		`SELECT created_at FROM scores WHERE game_id = ? ORDER BY id DESC LIMIT 1`,
		gameID,
	).Scan(&lastPlayed)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("storage: cannot get last played: %w", err)
	}
	if err == nil {
		stats.LastPlayed = parseTime(lastPlayed)
	}

	return stats, nil
}

// UnlockAchievement stores an unlock. It reports whether the id was new;
// unlocking twice keeps the first timestamp.
func (s *Store) UnlockAchievement(id string) (bool, error) {
	res, err := s.db.Exec("INSERT OR IGNORE INTO achievements (id) VALUES (?)", id)
	if err != nil {
		return false, fmt.Errorf("storage: cannot unlock achievement: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("storage: cannot read affected rows: %w", err)
	}
	return n > 0, nil
}

// UnlockedAchievements lists every stored unlock, oldest first.
func (s *Store) UnlockedAchievements() ([]UnlockRecord, error) {
	rows, err := s.db.Query("SELECT id, unlocked_at FROM achievements ORDER BY unlocked_at ASC, rowid ASC")
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query achievements: %w", err)
	}
	defer rows.Close()

	var out []UnlockRecord
	for rows.Next() {
		var r UnlockRecord
		var at any
		if err := rows.Scan(&r.ID, &at); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		r.UnlockedAt = parseTime(at)
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}
	return out, nil
}

// LogEvent appends a gameplay event; params are stored msgpack-encoded.
func (s *Store) LogEvent(sessionID, name string, params map[string]any) error {
	var blob []byte
	if len(params) > 0 {
		b, err := msgpack.Marshal(params)
		if err != nil {
			return fmt.Errorf("storage: cannot encode event params: %w", err)
		}
		blob = b
	}
	_, err := s.db.Exec(
		"INSERT INTO events (session_id, name, params) VALUES (?, ?, ?)",
		sessionID, name, blob,
	)
	if err != nil {
		return fmt.Errorf("storage: cannot log event: %w", err)
	}
	return nil
}

// Events returns the most recent events named name, newest first. An empty
// name matches every event.
func (s *Store) Events(name string, limit int) ([]EventRecord, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.Query(
		`SELECT id, session_id, name, params, created_at
		 FROM events
		 WHERE ? = '' OR name = ?
		 ORDER BY id DESC
		 LIMIT ?`,
		name, name, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query events: %w", err)
	}
	defer rows.Close()

	var out []EventRecord
	for rows.Next() {
		var e EventRecord
		var blob []byte
		var at any
		if err := rows.Scan(&e.ID, &e.SessionID, &e.Name, &blob, &at); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		if len(blob) > 0 {
			if err := msgpack.Unmarshal(blob, &e.Params); err != nil {
				return nil, fmt.Errorf("storage: cannot decode event %d: %w", e.ID, err)
			}
		}
		e.CreatedAt = parseTime(at)
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}
	return out, nil
}

// CountEvents counts stored events named name.
func (s *Store) CountEvents(name string) (int, error) {
	var n int
	if err := s.db.QueryRow("SELECT COUNT(*) FROM events WHERE name = ?", name).Scan(&n); err != nil {
		return 0, fmt.Errorf("storage: cannot count events: %w", err)
	}
	return n, nil
}

// SaveCrash stores a panic trace with the encoded world snapshot.
func (s *Store) SaveCrash(version, trace string, snapshot []byte) (int64, error) {
	res, err := s.db.Exec(
		"INSERT INTO crashes (version, trace, snapshot) VALUES (?, ?, ?)",
		version, trace, snapshot,
	)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot save crash: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("storage: cannot get inserted ID: %w", err)
	}
	return id, nil
}

// Crashes returns the most recent crash reports, newest first.
func (s *Store) Crashes(limit int) ([]CrashRecord, error) {
	if limit <= 0 {
		limit = 10
	}
	rows, err := s.db.Query(
		"SELECT id, version, trace, snapshot, created_at FROM crashes ORDER BY id DESC LIMIT ?",
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query crashes: %w", err)
	}
	defer rows.Close()

	var out []CrashRecord
	for rows.Next() {
		var c CrashRecord
		var at any
		if err := rows.Scan(&c.ID, &c.Version, &c.Trace, &c.Snapshot, &at); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		c.CreatedAt = parseTime(at)
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}
	return out, nil
}
