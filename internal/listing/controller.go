package listing

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/jrenard/flashdeck-api/internal/domain"
	"github.com/jrenard/flashdeck-api/internal/store"
)

// Controller holds one user's fetched deck snapshot. It has no write access
// to decks beyond delete-by-id, which is forwarded to the store; a failed
// delete leaves the snapshot exactly as it was.
type Controller struct {
	mu     sync.Mutex
	decks  []domain.Deck
	loaded bool

	userID uuid.UUID
	store  store.DeckStore
	logger *slog.Logger
}

// NewController creates a listing controller for the given user.
func NewController(userID uuid.UUID, deckStore store.DeckStore, logger *slog.Logger) *Controller {
	if logger == nil {
		logger = slog.Default()
	}
	return &Controller{
		userID: userID,
		store:  deckStore,
		logger: logger.With(slog.String("component", "listing")),
	}
}

// Refresh fetches the user's decks from the store, replacing the snapshot.
// On failure the previous snapshot is kept and the error is reported.
func (c *Controller) Refresh(ctx context.Context) error {
	if c.userID == uuid.Nil {
		return store.ErrUnauthenticated
	}

	decks, err := c.store.ListByUser(ctx, c.userID)
	if err != nil {
		c.logger.ErrorContext(ctx, "failed to load decks", "error", err)
		return err
	}

	c.mu.Lock()
	c.decks = decks
	c.loaded = true
	c.mu.Unlock()
	return nil
}

// Decks returns the snapshot, fetching it first if it has never been loaded.
func (c *Controller) Decks(ctx context.Context) ([]domain.Deck, error) {
	c.mu.Lock()
	loaded := c.loaded
	c.mu.Unlock()

	if !loaded {
		if err := c.Refresh(ctx); err != nil {
			return nil, err
		}
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]domain.Deck, len(c.decks))
	copy(out, c.decks)
	return out, nil
}

// Get returns one deck from the snapshot by id.
// Returns store.ErrDeckNotFound if the snapshot has no such deck.
func (c *Controller) Get(id string) (*domain.Deck, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for i := range c.decks {
		if c.decks[i].ID == id {
			deck := c.decks[i]
			return &deck, nil
		}
	}
	return nil, store.ErrDeckNotFound
}

// Delete removes a deck by id, after the client has confirmed intent.
//
// On success the deck is removed from the local snapshot without a re-fetch.
// A store-side "not found" is treated as already-deleted: the snapshot is
// left unchanged and no error is raised. Any other failure leaves the
// snapshot unchanged; the item is never removed optimistically.
func (c *Controller) Delete(ctx context.Context, id string) error {
	if c.userID == uuid.Nil {
		return store.ErrUnauthenticated
	}

	if err := c.store.Delete(ctx, c.userID, id); err != nil {
		if errors.Is(err, store.ErrDeckNotFound) {
			c.logger.DebugContext(ctx, "deck already gone", "deck_id", id)
			return nil
		}
		c.logger.ErrorContext(ctx, "failed to delete deck", "error", err, "deck_id", id)
		return err
	}

	c.mu.Lock()
	for i := range c.decks {
		if c.decks[i].ID == id {
			c.decks = append(c.decks[:i], c.decks[i+1:]...)
			break
		}
	}
	c.mu.Unlock()

	c.logger.InfoContext(ctx, "deck deleted", "deck_id", id)
	return nil
}
