// Package storage provides SQLite-based persistence for finished runs and
// lobby score submissions.
// Uses the pure-Go modernc.org/sqlite driver to avoid CGO dependencies.
package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"github.com/vovakirdan/hyperspeed/internal/multiplayer"
)

const sqliteTimeLayout = "2006-01-02 15:04:05"

// Store manages the SQLite database connection.
type Store struct {
	db *sql.DB
}

// RunEntry is one finished local run.
type RunEntry struct {
	ID        int64
	Player    string
	Score     int
	Distance  int
	CreatedAt time.Time
}

// LobbyScoreEntry is one score submitted to a lobby game.
type LobbyScoreEntry struct {
	ID         int64
	GameID     string
	GameName   string
	ClientID   string
	ClientName string
	Score      int
	Distance   int
	CreatedAt  time.Time
}

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
		CREATE TABLE IF NOT EXISTS runs (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			player TEXT NOT NULL,
			score INTEGER NOT NULL,
			distance INTEGER NOT NULL,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_runs_top ON runs(score DESC, distance DESC);
		CREATE INDEX IF NOT EXISTS idx_runs_player ON runs(player);

		CREATE TABLE IF NOT EXISTS lobby_scores (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			game_id TEXT NOT NULL,
			game_name TEXT NOT NULL,
			client_id TEXT NOT NULL,
			client_name TEXT NOT NULL,
			score INTEGER NOT NULL,
			distance INTEGER NOT NULL,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_lobby_scores_game ON lobby_scores(game_id);
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

// parseCreatedAt accepts both driver-native times and SQLite text timestamps.
func parseCreatedAt(v any) time.Time {
	switch t := v.(type) {
	case time.Time:
		return t
	case string:
		if parsed, err := time.Parse(sqliteTimeLayout, t); err == nil {
			return parsed
		}
		if parsed, err := time.Parse(time.RFC3339, t); err == nil {
			return parsed
		}
	}
	return time.Time{}
}

// SaveRun records a finished run. Returns the ID of the inserted record.
func (s *Store) SaveRun(player string, score, distance int) (int64, error) {
	result, err := s.db.Exec(
		"INSERT INTO runs (player, score, distance) VALUES (?, ?, ?)",
		player, score, distance,
	)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot save run: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("storage: cannot get inserted ID: %w", err)
	}

	return id, nil
}

// TopRuns retrieves the best N runs, by score and then distance.
func (s *Store) TopRuns(limit int) ([]RunEntry, error) {
	if limit <= 0 {
		limit = 10
	}

	rows, err := s.db.Query(
		`SELECT id, player, score, distance, created_at
		 FROM runs
		 ORDER BY score DESC, distance DESC, id ASC
		 LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query runs: %w", err)
	}
	defer rows.Close()

	var entries []RunEntry
	for rows.Next() {
		var e RunEntry
		var createdAt any
		if err := rows.Scan(&e.ID, &e.Player, &e.Score, &e.Distance, &createdAt); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		e.CreatedAt = parseCreatedAt(createdAt)
		entries = append(entries, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return entries, nil
}

// HighScore returns the best score ever recorded, or 0 if there are no runs.
func (s *Store) HighScore() (int, error) {
	var score sql.NullInt64
	err := s.db.QueryRow("SELECT MAX(score) FROM runs").Scan(&score)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot query high score: %w", err)
	}

	if !score.Valid {
		return 0, nil
	}

	return int(score.Int64), nil
}

// ClearRuns deletes every recorded run.
func (s *Store) ClearRuns() error {
	if _, err := s.db.Exec("DELETE FROM runs"); err != nil {
		return fmt.Errorf("storage: cannot clear runs: %w", err)
	}
	return nil
}

// SaveLobbyScore implements multiplayer.ScoreSaver.
func (s *Store) SaveLobbyScore(data multiplayer.LobbyScoreData) error {
	_, err := s.db.Exec(
		`INSERT INTO lobby_scores
		 (game_id, game_name, client_id, client_name, score, distance)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		data.GameID,
		data.GameName,
		data.ClientID,
		data.ClientName,
		data.Score,
		data.Distance,
	)
	if err != nil {
		return fmt.Errorf("storage: cannot save lobby score: %w", err)
	}
	return nil
}

// Ensure Store implements ScoreSaver
var _ multiplayer.ScoreSaver = (*Store)(nil)

// LobbyScores returns the latest submission of each client in a game,
// best first.
func (s *Store) LobbyScores(gameID string) ([]LobbyScoreEntry, error) {
	return s.queryLobbyScores(
		`SELECT id, game_id, game_name, client_id, client_name, score, distance, created_at
		 FROM lobby_scores
		 WHERE id IN (
			SELECT MAX(id) FROM lobby_scores WHERE game_id = ? GROUP BY client_id
		 )
		 ORDER BY score DESC, distance DESC`,
		gameID,
	)
}

// RecentLobbyScores returns the most recent submissions across all games.
func (s *Store) RecentLobbyScores(limit int) ([]LobbyScoreEntry, error) {
	if limit <= 0 {
		limit = 20
	}
	return s.queryLobbyScores(
		`SELECT id, game_id, game_name, client_id, client_name, score, distance, created_at
		 FROM lobby_scores
		 ORDER BY id DESC
		 LIMIT ?`,
		limit,
	)
}

func (s *Store) queryLobbyScores(query string, args ...any) ([]LobbyScoreEntry, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query lobby scores: %w", err)
	}
	defer rows.Close()

	var entries []LobbyScoreEntry
	for rows.Next() {
		var e LobbyScoreEntry
		var createdAt any
		if err := rows.Scan(
			&e.ID,
			&e.GameID,
			&e.GameName,
			&e.ClientID,
			&e.ClientName,
			&e.Score,
			&e.Distance,
			&createdAt,
		); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		e.CreatedAt = parseCreatedAt(createdAt)
		entries = append(entries, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return entries, nil
}

// RunStats contains aggregated statistics over all runs.
type RunStats struct {
	Runs          int
	HighScore     int
	AvgScore      float64
	LongestRun    int
	TotalDistance int64
	LastPlayed    time.Time
}

// Stats aggregates every recorded run.
func (s *Store) Stats() (*RunStats, error) {
	stats := &RunStats{}

	err := s.db.QueryRow(
		`SELECT COUNT(*), COALESCE(MAX(score), 0), COALESCE(AVG(score), 0),
		        COALESCE(MAX(distance), 0), COALESCE(SUM(distance), 0)
		 FROM runs`,
	).Scan(&stats.Runs, &stats.HighScore, &stats.AvgScore, &stats.LongestRun, &stats.TotalDistance)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot get run stats: %w", err)
	}

	var lastPlayed any
	err = s.db.QueryRow(`SELECT created_at FROM runs ORDER BY id DESC LIMIT 1`).Scan(&lastPlayed)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("storage: cannot get last played: %w", err)
	}
	if err == nil {
		stats.LastPlayed = parseCreatedAt(lastPlayed)
	}

	return stats, nil
}
