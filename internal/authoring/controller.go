package authoring

import (
	"context"
	"log/slog"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/jrenard/flashdeck-api/internal/domain"
	"github.com/jrenard/flashdeck-api/internal/generation"
	"github.com/jrenard/flashdeck-api/internal/store"
)

// Card fields addressable by EditCard.
const (
	FieldQuestion = "question"
	FieldAnswer   = "answer"
)

// Controller owns the in-progress card list of one setup screen: the topic,
// the working cards, and the save-or-commit decision. The working list is
// owned exclusively by this controller until Commit hands the resulting deck
// onward.
//
// Concurrent calls are serialized; a second call racing a pending one is
// allowed, with last-response-wins semantics on the shared list.
type Controller struct {
	mu    sync.Mutex
	topic string
	cards []domain.Flashcard

	generator generation.Generator
	decks     store.DeckStore
	logger    *slog.Logger
}

// NewController creates an authoring controller with an empty working list.
func NewController(generator generation.Generator, decks store.DeckStore, logger *slog.Logger) *Controller {
	if logger == nil {
		logger = slog.Default()
	}
	return &Controller{
		generator: generator,
		decks:     decks,
		logger:    logger.With(slog.String("component", "authoring")),
	}
}

// SetTopic replaces the working topic.
func (c *Controller) SetTopic(topic string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.topic = strings.TrimSpace(topic)
}

// Topic returns the current working topic.
func (c *Controller) Topic() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.topic
}

// Cards returns a copy of the working card list in study order.
func (c *Controller) Cards() []domain.Flashcard {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]domain.Flashcard, len(c.cards))
	copy(out, c.cards)
	return out
}

// AddManualCard appends a card if both fields are non-empty after trimming.
// An empty field rejects the card with a validation error and leaves the
// working list unchanged.
func (c *Controller) AddManualCard(question, answer string) error {
	card, err := domain.NewFlashcard(question, answer)
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.cards = append(c.cards, card)
	return nil
}

// DeleteCard removes the card at the given position. Positions of the
// remaining cards shift down; only study order is meaningful.
func (c *Controller) DeleteCard(index int) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if index < 0 || index >= len(c.cards) {
		return ErrCardIndexOutOfRange
	}

	c.cards = append(c.cards[:index], c.cards[index+1:]...)
	return nil
}

// EditCard replaces one field of one card in place. The value is trimmed but
// may be empty while editing; Commit validates the finished cards.
func (c *Controller) EditCard(index int, field, value string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if index < 0 || index >= len(c.cards) {
		return ErrCardIndexOutOfRange
	}

	switch field {
	case FieldQuestion:
		c.cards[index].Question = strings.TrimSpace(value)
	case FieldAnswer:
		c.cards[index].Answer = strings.TrimSpace(value)
	default:
		return ErrUnknownCardField
	}

	return nil
}

// Generate requests flashcards for the working topic, optionally with an
// image as extra context, and merges the generated cards into the working
// list. Manual cards already present are kept; generated cards are appended
// after them. Requires a non-empty topic; the single failed call is reported
// upward immediately, leaving the working list unchanged.
func (c *Controller) Generate(ctx context.Context, image *generation.Image) ([]domain.Flashcard, error) {
	c.mu.Lock()
	topic := c.topic
	c.mu.Unlock()

	if topic == "" {
		return nil, ErrEmptyTopic
	}

	generated, err := c.generator.GenerateFlashcards(ctx, topic, image)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.cards = append(c.cards, generated...)
	total := len(c.cards)
	c.mu.Unlock()

	c.logger.InfoContext(ctx, "generated cards merged into working list",
		"generated", len(generated),
		"total", total)
	return generated, nil
}

// Commit turns the working list into a deck and hands it onward.
//
// A guest commit constructs an ephemeral deck without any persistence call.
// An authenticated commit persists through the deck store. Validation
// failures (empty topic, empty card list, a card left empty by editing)
// block the commit without clearing any entered data and without issuing a
// network call.
func (c *Controller) Commit(ctx context.Context, userID uuid.UUID, isGuest bool) (*domain.Deck, error) {
	c.mu.Lock()
	topic := c.topic
	cards := make([]domain.Flashcard, len(c.cards))
	copy(cards, c.cards)
	c.mu.Unlock()

	if topic == "" {
		return nil, ErrEmptyTopic
	}
	if len(cards) == 0 {
		return nil, ErrNoCards
	}
	for _, card := range cards {
		if err := card.Validate(); err != nil {
			return nil, err
		}
	}

	if isGuest {
		deck, err := domain.NewGuestDeck(topic, cards)
		if err != nil {
			return nil, err
		}
		c.logger.InfoContext(ctx, "guest deck committed",
			"deck_id", deck.ID,
			"card_count", len(deck.Cards))
		return deck, nil
	}

	if userID == uuid.Nil {
		return nil, store.ErrUnauthenticated
	}

	deck, err := domain.NewDeck(userID, topic, cards)
	if err != nil {
		return nil, err
	}

	if err := c.decks.Create(ctx, deck); err != nil {
		return nil, err
	}

	c.logger.InfoContext(ctx, "deck committed",
		"deck_id", deck.ID,
		"user_id", deck.UserID,
		"card_count", len(deck.Cards))
	return deck, nil
}
