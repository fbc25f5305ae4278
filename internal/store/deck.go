package store

import (
	"context"

	"github.com/google/uuid"

	"github.com/jrenard/flashdeck-api/internal/domain"
)

// DeckStore defines the interface for deck persistence. Every operation is
// scoped to an authenticated user; implementations must never return or
// mutate another user's decks.
type DeckStore interface {
	// Create saves a new deck record. The deck's CreatedAt is a client-side
	// approximation written as-is; acceptable skew against the database clock
	// is not corrected later.
	// Returns ErrInvalidEntity if the owning user does not exist.
	Create(ctx context.Context, deck *domain.Deck) error

	// ListByUser returns all decks owned by the given user, ordered by
	// creation time descending. An empty slice (not an error) is returned
	// when the user has no decks.
	ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.Deck, error)

	// GetByID retrieves one of the user's decks by id.
	// Returns ErrDeckNotFound if no such deck exists for this user.
	GetByID(ctx context.Context, userID uuid.UUID, id string) (*domain.Deck, error)

	// Delete removes one of the user's decks by id.
	// Returns ErrDeckNotFound if no such deck exists for this user; callers
	// that want idempotent semantics treat that as success.
	Delete(ctx context.Context, userID uuid.UUID, id string) error
}
