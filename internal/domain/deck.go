package domain

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	gonanoid "github.com/matoous/go-nanoid/v2"
)

// Deck-specific validation errors
var (
	// ErrDeckIDEmpty is returned when a deck ID is empty.
	ErrDeckIDEmpty = errors.New("deck ID cannot be empty")

	// ErrDeckUserIDEmpty is returned when a deck's user ID is empty.
	ErrDeckUserIDEmpty = errors.New("deck user ID cannot be empty")

	// ErrDeckTopicEmpty is returned when a deck's topic is empty after trimming.
	ErrDeckTopicEmpty = errors.New("deck topic cannot be empty")

	// ErrDeckNoCards is returned when a deck contains no cards.
	ErrDeckNoCards = errors.New("deck must contain at least one card")
)

// GuestUserID is the sentinel owner of ephemeral decks created in guest mode.
// Guest decks are never persisted.
const GuestUserID = "guest"

// guestIDPrefix marks client-synthesized ids of ephemeral decks.
const guestIDPrefix = "guest-"

// Deck is a named, ordered collection of flashcards owned by exactly one
// user. Persisted decks carry a UUID id and a real user UUID; guest decks
// carry a synthesized "guest-" id and GuestUserID, and only ever live in
// memory.
type Deck struct {
	ID        string      `json:"id"`
	UserID    string      `json:"user_id"`
	Topic     string      `json:"topic"`
	Cards     []Flashcard `json:"cards"`
	CreatedAt time.Time   `json:"created_at"`
}

// NewDeck creates a Deck owned by the given user, ready for persistence.
// The CreatedAt timestamp is a client-side approximation; the value the store
// writes is authoritative and acceptable skew is not corrected later.
func NewDeck(userID uuid.UUID, topic string, cards []Flashcard) (*Deck, error) {
	if userID == uuid.Nil {
		return nil, ErrDeckUserIDEmpty
	}

	deck := &Deck{
		ID:        uuid.New().String(),
		UserID:    userID.String(),
		Topic:     strings.TrimSpace(topic),
		Cards:     cards,
		CreatedAt: time.Now().UTC(),
	}

	if err := deck.Validate(); err != nil {
		return nil, err
	}

	return deck, nil
}

// NewGuestDeck creates an ephemeral deck for a guest session. The id is
// synthesized client-side and the deck must never reach the store.
func NewGuestDeck(topic string, cards []Flashcard) (*Deck, error) {
	suffix, err := gonanoid.New()
	if err != nil {
		return nil, fmt.Errorf("failed to generate guest deck id: %w", err)
	}

	deck := &Deck{
		ID:        guestIDPrefix + suffix,
		UserID:    GuestUserID,
		Topic:     strings.TrimSpace(topic),
		Cards:     cards,
		CreatedAt: time.Now().UTC(),
	}

	if err := deck.Validate(); err != nil {
		return nil, err
	}

	return deck, nil
}

// Validate checks if the Deck has valid data.
// Returns an error if any field fails validation.
func (d *Deck) Validate() error {
	if d.ID == "" {
		return ErrDeckIDEmpty
	}

	if d.UserID == "" {
		return ErrDeckUserIDEmpty
	}

	if strings.TrimSpace(d.Topic) == "" {
		return ErrDeckTopicEmpty
	}

	if len(d.Cards) == 0 {
		return ErrDeckNoCards
	}

	for _, card := range d.Cards {
		if err := card.Validate(); err != nil {
			return err
		}
	}

	return nil
}

// IsGuest reports whether the deck is an ephemeral guest deck.
func (d *Deck) IsGuest() bool {
	return d.UserID == GuestUserID
}
