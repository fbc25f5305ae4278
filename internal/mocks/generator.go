package mocks

import (
	"context"
	"sync"

	"github.com/jrenard/flashdeck-api/internal/domain"
	"github.com/jrenard/flashdeck-api/internal/generation"
)

// MockGenerator implements generation.Generator for testing.
type MockGenerator struct {
	// GenerateFlashcardsFn allows test cases to mock the generation behavior
	GenerateFlashcardsFn func(ctx context.Context, topic string, image *generation.Image) ([]domain.Flashcard, error)

	// Default response values
	Cards []domain.Flashcard
	Err   error

	// Call tracking for verification
	mu     sync.Mutex
	Calls  int
	Topics []string
	Images []*generation.Image
}

var _ generation.Generator = (*MockGenerator)(nil)

// GenerateFlashcards implements the generation.Generator interface.
func (m *MockGenerator) GenerateFlashcards(
	ctx context.Context,
	topic string,
	image *generation.Image,
) ([]domain.Flashcard, error) {
	m.mu.Lock()
	m.Calls++
	m.Topics = append(m.Topics, topic)
	m.Images = append(m.Images, image)
	m.mu.Unlock()

	if m.GenerateFlashcardsFn != nil {
		return m.GenerateFlashcardsFn(ctx, topic, image)
	}
	return m.Cards, m.Err
}

// NewMockGeneratorWithCards creates a MockGenerator that returns the given cards.
func NewMockGeneratorWithCards(cards []domain.Flashcard) *MockGenerator {
	return &MockGenerator{Cards: cards}
}

// NewMockGeneratorWithError creates a MockGenerator that returns the given error.
func NewMockGeneratorWithError(err error) *MockGenerator {
	return &MockGenerator{Err: err}
}

// MockGeneratorThatFails creates a MockGenerator that simulates a generation
// failure.
func MockGeneratorThatFails() *MockGenerator {
	return &MockGenerator{Err: generation.ErrGenerationFailed}
}

// Reset resets the call tracking state.
func (m *MockGenerator) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Calls = 0
	m.Topics = nil
	m.Images = nil
}
