package game

import (
	"context"
	"database/sql"
	"log/slog"
	"time"

	"gamezone/internal/adapters/storage"
	domain "gamezone/internal/domain/game"
)

const timeLayout = "2006-01-02T15:04:05Z07:00"

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db storage.SQLDB
}

// NewSQLiteStore creates a new SQLiteStore.
func NewSQLiteStore(db storage.SQLDB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

const gameColumns = `id, name, size, url, description, created_at`

// List returns all games, newest first.
// POST: Games ordered by created_at DESC, then id DESC
func (s *SQLiteStore) List(ctx context.Context) ([]domain.Game, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+gameColumns+` FROM games ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanGames(rows)
}

// Insert stores a new game, assigning created_at.
// PRE: g has been validated
// POST: Returns the autoincrement id of the new row; text fields stored trimmed
func (s *SQLiteStore) Insert(ctx context.Context, g domain.Game) (int64, error) {
	g.Normalize()
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO games (name, size, url, description, created_at) VALUES (?, ?, ?, ?, ?)`,
		g.Name, g.Size, g.URL, g.Description, time.Now().UTC().Format(timeLayout))
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// Delete removes a game by id.
// POST: Row with given id is gone; deleting a missing id is a no-op
func (s *SQLiteStore) Delete(ctx context.Context, id int64) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM games WHERE id = ?`, id)
	return err
}

// Count returns the number of stored games.
func (s *SQLiteStore) Count(ctx context.Context) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM games`).Scan(&n)
	return n, err
}

// scanGames scans rows into a slice of Games.
func scanGames(rows *sql.Rows) ([]domain.Game, error) {
	var games []domain.Game
	for rows.Next() {
		var g domain.Game
		var createdAt string
		if err := rows.Scan(&g.ID, &g.Name, &g.Size, &g.URL, &g.Description, &createdAt); err != nil {
			return nil, err
		}
		g.CreatedAt = parseTime(createdAt, g.ID)
		games = append(games, g)
	}
	return games, rows.Err()
}

// parseTime parses a stored timestamp, logging a warning on failure.
func parseTime(value string, id int64) time.Time {
	t, err := time.Parse(timeLayout, value)
	if err != nil {
		slog.Warn("bad_created_at", "game_id", id, "value", value, "error", err)
		return time.Time{}
	}
	return t
}
