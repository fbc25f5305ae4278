package study

import (
	"errors"
	"sync"

	"github.com/jrenard/flashdeck-api/internal/domain"
)

// ErrWalkFinished is returned when an interaction targets a finished walk.
var ErrWalkFinished = errors.New("study session is finished")

// CardView is what the client sees of the current card. The answer is
// withheld until it has been revealed.
type CardView struct {
	Position int    `json:"position"` // 1-based
	Total    int    `json:"total"`
	Question string `json:"question"`
	Answer   string `json:"answer,omitempty"`
	Revealed bool   `json:"revealed"`
	Done     bool   `json:"done"`
}

// Walk presents one deck's cards one at a time in stored order. There is no
// shuffling or scoring; the walk is restartable only by creating a new Walk
// over the same deck.
type Walk struct {
	mu       sync.Mutex
	deck     *domain.Deck
	index    int
	revealed bool
	done     bool
}

// NewWalk starts a study walk over the given deck. The deck must have been
// validated by its producer; an empty deck yields an immediately finished
// walk.
func NewWalk(deck *domain.Deck) *Walk {
	return &Walk{
		deck: deck,
		done: len(deck.Cards) == 0,
	}
}

// Deck returns the deck being studied.
func (w *Walk) Deck() *domain.Deck {
	return w.deck
}

// Current returns the view of the card being studied.
func (w *Walk) Current() CardView {
	w.mu.Lock()
	defer w.mu.Unlock()

	view := CardView{
		Total: len(w.deck.Cards),
		Done:  w.done,
	}
	if w.done {
		view.Position = len(w.deck.Cards)
		return view
	}

	card := w.deck.Cards[w.index]
	view.Position = w.index + 1
	view.Question = card.Question
	view.Revealed = w.revealed
	if w.revealed {
		view.Answer = card.Answer
	}
	return view
}

// Reveal uncovers the answer of the current card.
func (w *Walk) Reveal() (CardView, error) {
	w.mu.Lock()
	if w.done {
		w.mu.Unlock()
		return w.Current(), ErrWalkFinished
	}
	w.revealed = true
	w.mu.Unlock()

	return w.Current(), nil
}

// Advance moves to the next card. Advancing past the last card finishes the
// walk; the returned view has Done set so the caller can signal completion
// to the application router.
func (w *Walk) Advance() (CardView, error) {
	w.mu.Lock()
	if w.done {
		w.mu.Unlock()
		return w.Current(), ErrWalkFinished
	}

	w.index++
	w.revealed = false
	if w.index >= len(w.deck.Cards) {
		w.done = true
	}
	w.mu.Unlock()

	return w.Current(), nil
}

// Done reports whether the walk has reached the end of the deck.
func (w *Walk) Done() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.done
}
