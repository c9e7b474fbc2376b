// Package sqlite provides a SQLite-backed store for saved games.
package sqlite

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/jaminalder/duell/internal/storage"
	_ "modernc.org/sqlite"
)

//go:embed schema.sql
var schema string

// Store persists saved games in SQLite.
type Store struct {
	sqlDB *sql.DB
}

func toMillis(value time.Time) int64 {
	return value.UTC().UnixMilli()
}

func fromMillis(value int64) time.Time {
	return time.UnixMilli(value).UTC()
}

// Open opens a SQLite store at path and creates the schema.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}
	dsn := filepath.Clean(path) + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if _, err := sqlDB.Exec(schema); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}
	return &Store{sqlDB: sqlDB}, nil
}

// Close closes the SQLite handle.
func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

// PutSave inserts or replaces the save for a game.
func (s *Store) PutSave(ctx context.Context, save storage.SavedGame) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}
	gameID := strings.TrimSpace(save.GameID)
	if gameID == "" {
		return fmt.Errorf("game id is required")
	}
	if strings.TrimSpace(save.Text) == "" {
		return fmt.Errorf("save text is required")
	}
	savedAt := save.SavedAt
	if savedAt.IsZero() {
		savedAt = time.Now()
	}

	_, err := s.sqlDB.ExecContext(
		ctx,
		`INSERT INTO saved_games (game_id, body, saved_at) VALUES (?, ?, ?)
		 ON CONFLICT(game_id) DO UPDATE SET body = excluded.body, saved_at = excluded.saved_at`,
		gameID,
		save.Text,
		toMillis(savedAt),
	)
	if err != nil {
		return fmt.Errorf("put save: %w", err)
	}
	return nil
}

// GetSave returns the save for a game.
func (s *Store) GetSave(ctx context.Context, gameID string) (storage.SavedGame, error) {
	if err := ctx.Err(); err != nil {
		return storage.SavedGame{}, err
	}
	if s == nil || s.sqlDB == nil {
		return storage.SavedGame{}, fmt.Errorf("storage is not configured")
	}

	var (
		save    storage.SavedGame
		savedAt int64
	)
	err := s.sqlDB.QueryRowContext(
		ctx,
		`SELECT game_id, body, saved_at FROM saved_games WHERE game_id = ?`,
		strings.TrimSpace(gameID),
	).Scan(&save.GameID, &save.Text, &savedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return storage.SavedGame{}, storage.ErrNotFound
	}
	if err != nil {
		return storage.SavedGame{}, fmt.Errorf("get save: %w", err)
	}
	save.SavedAt = fromMillis(savedAt)
	return save, nil
}

// ListSaves returns up to limit saves, newest first.
func (s *Store) ListSaves(ctx context.Context, limit int) ([]storage.SavedGame, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s == nil || s.sqlDB == nil {
		return nil, fmt.Errorf("storage is not configured")
	}
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.sqlDB.QueryContext(
		ctx,
		`SELECT game_id, body, saved_at FROM saved_games ORDER BY saved_at DESC, game_id LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("list saves: %w", err)
	}
	defer rows.Close()

	var saves []storage.SavedGame
	for rows.Next() {
		var (
			save    storage.SavedGame
			savedAt int64
		)
		if err := rows.Scan(&save.GameID, &save.Text, &savedAt); err != nil {
			return nil, fmt.Errorf("scan save: %w", err)
		}
		save.SavedAt = fromMillis(savedAt)
		saves = append(saves, save)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list saves: %w", err)
	}
	return saves, nil
}
