package game

import (
	"context"

	domain "gamezone/internal/domain/game"
)

// Store persists Game entries.
type Store interface {
	// List returns all games ordered by created_at descending
	// (newest first); ties break on id descending.
	List(ctx context.Context) ([]domain.Game, error)
	// Insert stores a new game and returns its assigned id.
	// created_at is assigned by the store at insert time.
	Insert(ctx context.Context, g domain.Game) (int64, error)
	// Delete removes a game by id. A missing id is a no-op, not an error.
	Delete(ctx context.Context, id int64) error
	// Count returns the number of stored games.
	Count(ctx context.Context) (int, error)
}
