// Package storage defines the persistence contract for saved Duell games.
package storage

import (
	"errors"
	"time"
)

// ErrNotFound is returned when no save exists for a game.
var ErrNotFound = errors.New("save not found")

// SavedGame is one game written in the save file layout.
type SavedGame struct {
	GameID  string
	Text    string
	SavedAt time.Time
}
