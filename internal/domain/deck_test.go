package domain

import (
	"strings"
	"testing"

	"github.com/google/uuid"
)

func TestNewDeck(t *testing.T) {
	userID := uuid.New()
	cards := []Flashcard{{Question: "Q1", Answer: "A1"}}

	deck, err := NewDeck(userID, "  European capitals  ", cards)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if _, err := uuid.Parse(deck.ID); err != nil {
		t.Errorf("Expected UUID deck id, got %q", deck.ID)
	}
	if deck.UserID != userID.String() {
		t.Errorf("Expected user id %s, got %s", userID, deck.UserID)
	}
	if deck.Topic != "European capitals" {
		t.Errorf("Expected trimmed topic, got %q", deck.Topic)
	}
	if deck.IsGuest() {
		t.Error("Expected persisted deck not to be a guest deck")
	}
	if deck.CreatedAt.IsZero() {
		t.Error("Expected non-zero CreatedAt time")
	}

	if _, err := NewDeck(uuid.Nil, "topic", cards); err != ErrDeckUserIDEmpty {
		t.Errorf("Expected error %v, got %v", ErrDeckUserIDEmpty, err)
	}
	if _, err := NewDeck(userID, "  ", cards); err != ErrDeckTopicEmpty {
		t.Errorf("Expected error %v, got %v", ErrDeckTopicEmpty, err)
	}
	if _, err := NewDeck(userID, "topic", nil); err != ErrDeckNoCards {
		t.Errorf("Expected error %v, got %v", ErrDeckNoCards, err)
	}
}

func TestNewGuestDeck(t *testing.T) {
	cards := []Flashcard{{Question: "Q1", Answer: "A1"}}

	deck, err := NewGuestDeck("Capitals of Europe", cards)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if !strings.HasPrefix(deck.ID, "guest-") {
		t.Errorf("Expected guest- prefixed id, got %q", deck.ID)
	}
	if deck.UserID != GuestUserID {
		t.Errorf("Expected user id %q, got %q", GuestUserID, deck.UserID)
	}
	if !deck.IsGuest() {
		t.Error("Expected IsGuest to report true")
	}

	// Two guest decks never share an id
	other, err := NewGuestDeck("Capitals of Europe", cards)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if deck.ID == other.ID {
		t.Errorf("Expected distinct guest ids, both were %q", deck.ID)
	}
}

func TestDeckValidate(t *testing.T) {
	valid := Deck{
		ID:     uuid.New().String(),
		UserID: uuid.New().String(),
		Topic:  "topic",
		Cards:  []Flashcard{{Question: "Q", Answer: "A"}},
	}
	if err := valid.Validate(); err != nil {
		t.Errorf("Expected no error, got %v", err)
	}

	invalid := valid
	invalid.ID = ""
	if err := invalid.Validate(); err != ErrDeckIDEmpty {
		t.Errorf("Expected error %v, got %v", ErrDeckIDEmpty, err)
	}

	invalid = valid
	invalid.Cards = []Flashcard{{Question: "Q", Answer: ""}}
	if err := invalid.Validate(); err != ErrEmptyAnswer {
		t.Errorf("Expected error %v, got %v", ErrEmptyAnswer, err)
	}
}
