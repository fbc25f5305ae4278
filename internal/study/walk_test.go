package study

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jrenard/flashdeck-api/internal/domain"
)

func testDeck(t *testing.T, cards ...domain.Flashcard) *domain.Deck {
	t.Helper()
	deck, err := domain.NewDeck(uuid.New(), "Capitals of Europe", cards)
	require.NoError(t, err)
	return deck
}

func TestWalkStartsOnFirstCardHidden(t *testing.T) {
	t.Parallel()

	walk := NewWalk(testDeck(t,
		domain.Flashcard{Question: "Q1", Answer: "A1"},
		domain.Flashcard{Question: "Q2", Answer: "A2"},
	))

	view := walk.Current()
	assert.Equal(t, 1, view.Position)
	assert.Equal(t, 2, view.Total)
	assert.Equal(t, "Q1", view.Question)
	assert.Empty(t, view.Answer, "answer stays hidden until revealed")
	assert.False(t, view.Revealed)
	assert.False(t, view.Done)
}

func TestRevealUncoversAnswer(t *testing.T) {
	t.Parallel()

	walk := NewWalk(testDeck(t, domain.Flashcard{Question: "Q1", Answer: "A1"}))

	view, err := walk.Reveal()
	require.NoError(t, err)
	assert.True(t, view.Revealed)
	assert.Equal(t, "A1", view.Answer)
}

func TestAdvanceHidesNextAnswer(t *testing.T) {
	t.Parallel()

	walk := NewWalk(testDeck(t,
		domain.Flashcard{Question: "Q1", Answer: "A1"},
		domain.Flashcard{Question: "Q2", Answer: "A2"},
	))

	_, err := walk.Reveal()
	require.NoError(t, err)

	view, err := walk.Advance()
	require.NoError(t, err)
	assert.Equal(t, 2, view.Position)
	assert.Equal(t, "Q2", view.Question)
	assert.False(t, view.Revealed, "reveal state resets on advance")
	assert.Empty(t, view.Answer)
}

func TestAdvancePastLastCardFinishes(t *testing.T) {
	t.Parallel()

	walk := NewWalk(testDeck(t, domain.Flashcard{Question: "Q1", Answer: "A1"}))

	view, err := walk.Advance()
	require.NoError(t, err)
	assert.True(t, view.Done)
	assert.True(t, walk.Done())

	// Further interaction is rejected
	_, err = walk.Reveal()
	assert.ErrorIs(t, err, ErrWalkFinished)
	_, err = walk.Advance()
	assert.ErrorIs(t, err, ErrWalkFinished)
}

func TestWalkOrderFollowsDeck(t *testing.T) {
	t.Parallel()

	cards := []domain.Flashcard{
		{Question: "Q1", Answer: "A1"},
		{Question: "Q2", Answer: "A2"},
		{Question: "Q3", Answer: "A3"},
	}
	walk := NewWalk(testDeck(t, cards...))

	for i, card := range cards {
		view := walk.Current()
		assert.Equal(t, i+1, view.Position)
		assert.Equal(t, card.Question, view.Question)
		_, err := walk.Advance()
		require.NoError(t, err)
	}
	assert.True(t, walk.Done())
}
