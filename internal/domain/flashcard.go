package domain

import (
	"errors"
	"strings"
)

// Flashcard-specific validation errors
var (
	// ErrEmptyQuestion is returned when a card's question is empty after trimming.
	ErrEmptyQuestion = errors.New("flashcard question cannot be empty")

	// ErrEmptyAnswer is returned when a card's answer is empty after trimming.
	ErrEmptyAnswer = errors.New("flashcard answer cannot be empty")
)

// Flashcard is a single question/answer pair. Cards have no identity of their
// own; their position within a deck is the study order.
type Flashcard struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// NewFlashcard creates a Flashcard from the given question and answer,
// trimming surrounding whitespace. Returns an error if either side is empty
// after trimming.
func NewFlashcard(question, answer string) (Flashcard, error) {
	card := Flashcard{
		Question: strings.TrimSpace(question),
		Answer:   strings.TrimSpace(answer),
	}

	if err := card.Validate(); err != nil {
		return Flashcard{}, err
	}

	return card, nil
}

// Validate checks that both sides of the card are non-empty.
func (c Flashcard) Validate() error {
	if strings.TrimSpace(c.Question) == "" {
		return ErrEmptyQuestion
	}

	if strings.TrimSpace(c.Answer) == "" {
		return ErrEmptyAnswer
	}

	return nil
}
