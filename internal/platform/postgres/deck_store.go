package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/jrenard/flashdeck-api/internal/domain"
	"github.com/jrenard/flashdeck-api/internal/platform/logger"
	"github.com/jrenard/flashdeck-api/internal/store"
)

// DeckStore implements the store.DeckStore interface using a PostgreSQL
// database as the storage backend. Cards are stored as a JSONB array in
// study order.
type DeckStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewDeckStore creates a new PostgreSQL implementation of the DeckStore
// interface. It accepts a database connection or transaction that should be
// managed by the caller. If logger is nil, a default logger will be used.
func NewDeckStore(db store.DBTX, logger *slog.Logger) *DeckStore {
	if db == nil {
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &DeckStore{
		db:     db,
		logger: logger.With(slog.String("component", "deck_store")),
	}
}

// Ensure DeckStore implements store.DeckStore interface
var _ store.DeckStore = (*DeckStore)(nil)

// Create implements store.DeckStore.Create
// Guest decks are rejected outright: they must never reach the store.
// Returns store.ErrInvalidEntity if the owning user does not exist.
func (s *DeckStore) Create(ctx context.Context, deck *domain.Deck) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if deck.IsGuest() {
		return fmt.Errorf("%w: guest decks are never persisted", store.ErrInvalidEntity)
	}

	if err := deck.Validate(); err != nil {
		log.Warn("deck validation failed during create",
			slog.String("error", err.Error()),
			slog.String("deck_id", deck.ID))
		return err
	}

	deckID, err := uuid.Parse(deck.ID)
	if err != nil {
		return fmt.Errorf("%w: deck id must be a UUID: %v", store.ErrInvalidEntity, err)
	}
	userID, err := uuid.Parse(deck.UserID)
	if err != nil {
		return fmt.Errorf("%w: deck user id must be a UUID: %v", store.ErrInvalidEntity, err)
	}

	cardsJSON, err := json.Marshal(deck.Cards)
	if err != nil {
		return fmt.Errorf("failed to marshal deck cards: %w", err)
	}

	query := `
		INSERT INTO decks (id, user_id, topic, cards, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`
	_, err = s.db.ExecContext(
		ctx,
		query,
		deckID,
		userID,
		deck.Topic,
		cardsJSON,
		deck.CreatedAt,
	)

	if err != nil {
		if isForeignKeyViolation(err) {
			log.Warn("foreign key violation during deck creation",
				slog.String("deck_id", deck.ID),
				slog.String("user_id", deck.UserID))
			return fmt.Errorf("%w: user with ID %s not found",
				store.ErrInvalidEntity, deck.UserID)
		}

		log.Error("failed to create deck",
			slog.String("error", err.Error()),
			slog.String("deck_id", deck.ID),
			slog.String("user_id", deck.UserID))
		return err
	}

	log.Info("deck created successfully",
		slog.String("deck_id", deck.ID),
		slog.String("user_id", deck.UserID),
		slog.Int("card_count", len(deck.Cards)))
	return nil
}

// ListByUser implements store.DeckStore.ListByUser
// Decks are returned ordered by creation time descending; a user with no
// decks gets an empty slice, not an error.
func (s *DeckStore) ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.Deck, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if userID == uuid.Nil {
		return nil, store.ErrUnauthenticated
	}

	query := `
		SELECT id, user_id, topic, cards, created_at
		FROM decks
		WHERE user_id = $1
		ORDER BY created_at DESC
	`

	rows, err := s.db.QueryContext(ctx, query, userID)
	if err != nil {
		log.Error("failed to list decks",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			log.Warn("failed to close rows", slog.String("error", cerr.Error()))
		}
	}()

	decks := make([]domain.Deck, 0)
	for rows.Next() {
		deck, err := scanDeck(rows)
		if err != nil {
			log.Error("failed to scan deck row",
				slog.String("error", err.Error()),
				slog.String("user_id", userID.String()))
			return nil, err
		}
		decks = append(decks, *deck)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	log.Debug("decks listed",
		slog.String("user_id", userID.String()),
		slog.Int("deck_count", len(decks)))
	return decks, nil
}

// GetByID implements store.DeckStore.GetByID
// Returns store.ErrDeckNotFound if no such deck exists for this user. A
// non-UUID id (e.g. a guest deck id) can never match a stored deck and maps
// to the same error.
func (s *DeckStore) GetByID(ctx context.Context, userID uuid.UUID, id string) (*domain.Deck, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if userID == uuid.Nil {
		return nil, store.ErrUnauthenticated
	}

	deckID, err := uuid.Parse(id)
	if err != nil {
		return nil, store.ErrDeckNotFound
	}

	query := `
		SELECT id, user_id, topic, cards, created_at
		FROM decks
		WHERE id = $1 AND user_id = $2
	`

	row := s.db.QueryRowContext(ctx, query, deckID, userID)
	deck, err := scanDeck(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("deck not found",
				slog.String("deck_id", id),
				slog.String("user_id", userID.String()))
			return nil, store.ErrDeckNotFound
		}
		log.Error("failed to get deck by ID",
			slog.String("error", err.Error()),
			slog.String("deck_id", id))
		return nil, err
	}

	return deck, nil
}

// Delete implements store.DeckStore.Delete
// The delete is scoped to the owning user. Returns store.ErrDeckNotFound
// when no row matched.
func (s *DeckStore) Delete(ctx context.Context, userID uuid.UUID, id string) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if userID == uuid.Nil {
		return store.ErrUnauthenticated
	}

	deckID, err := uuid.Parse(id)
	if err != nil {
		return store.ErrDeckNotFound
	}

	query := `
		DELETE FROM decks
		WHERE id = $1 AND user_id = $2
	`

	result, err := s.db.ExecContext(ctx, query, deckID, userID)
	if err != nil {
		log.Error("failed to delete deck",
			slog.String("error", err.Error()),
			slog.String("deck_id", id),
			slog.String("user_id", userID.String()))
		return err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		log.Debug("deck not found during delete",
			slog.String("deck_id", id),
			slog.String("user_id", userID.String()))
		return store.ErrDeckNotFound
	}

	log.Info("deck deleted",
		slog.String("deck_id", id),
		slog.String("user_id", userID.String()))
	return nil
}

// rowScanner covers *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

// scanDeck reads one deck row, unmarshalling the JSONB cards column.
func scanDeck(row rowScanner) (*domain.Deck, error) {
	var (
		deckID    uuid.UUID
		userID    uuid.UUID
		deck      domain.Deck
		cardsJSON []byte
	)

	if err := row.Scan(&deckID, &userID, &deck.Topic, &cardsJSON, &deck.CreatedAt); err != nil {
		return nil, err
	}

	if err := json.Unmarshal(cardsJSON, &deck.Cards); err != nil {
		return nil, fmt.Errorf("failed to unmarshal deck cards: %w", err)
	}

	deck.ID = deckID.String()
	deck.UserID = userID.String()
	return &deck, nil
}
