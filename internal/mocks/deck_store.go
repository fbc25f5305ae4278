package mocks

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/jrenard/flashdeck-api/internal/domain"
	"github.com/jrenard/flashdeck-api/internal/store"
)

// MockDeckStore implements store.DeckStore for testing.
type MockDeckStore struct {
	// Function fields for customizable behavior
	CreateFn     func(ctx context.Context, deck *domain.Deck) error
	ListByUserFn func(ctx context.Context, userID uuid.UUID) ([]domain.Deck, error)
	GetByIDFn    func(ctx context.Context, userID uuid.UUID, id string) (*domain.Deck, error)
	DeleteFn     func(ctx context.Context, userID uuid.UUID, id string) error

	// Data for the default implementation, keyed by deck id
	mu    sync.Mutex
	Decks map[string]*domain.Deck

	CreateError error
	ListError   error
	DeleteError error

	// Call tracking for verification
	CreateCalls int
	DeleteCalls int
}

var _ store.DeckStore = (*MockDeckStore)(nil)

// NewMockDeckStore creates a new mock store with initialized defaults.
func NewMockDeckStore() *MockDeckStore {
	return &MockDeckStore{
		Decks: make(map[string]*domain.Deck),
	}
}

// Create implements the DeckStore interface.
func (m *MockDeckStore) Create(ctx context.Context, deck *domain.Deck) error {
	m.mu.Lock()
	m.CreateCalls++
	m.mu.Unlock()

	if m.CreateFn != nil {
		return m.CreateFn(ctx, deck)
	}
	if m.CreateError != nil {
		return m.CreateError
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.Decks[deck.ID]; exists {
		return store.ErrDuplicate
	}
	m.Decks[deck.ID] = deck
	return nil
}

// ListByUser implements the DeckStore interface.
func (m *MockDeckStore) ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.Deck, error) {
	if m.ListByUserFn != nil {
		return m.ListByUserFn(ctx, userID)
	}
	if m.ListError != nil {
		return nil, m.ListError
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	decks := []domain.Deck{}
	for _, deck := range m.Decks {
		if deck.UserID == userID.String() {
			decks = append(decks, *deck)
		}
	}
	return decks, nil
}

// GetByID implements the DeckStore interface.
func (m *MockDeckStore) GetByID(ctx context.Context, userID uuid.UUID, id string) (*domain.Deck, error) {
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, userID, id)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	deck, exists := m.Decks[id]
	if !exists || deck.UserID != userID.String() {
		return nil, store.ErrDeckNotFound
	}
	return deck, nil
}

// Delete implements the DeckStore interface.
func (m *MockDeckStore) Delete(ctx context.Context, userID uuid.UUID, id string) error {
	m.mu.Lock()
	m.DeleteCalls++
	m.mu.Unlock()

	if m.DeleteFn != nil {
		return m.DeleteFn(ctx, userID, id)
	}
	if m.DeleteError != nil {
		return m.DeleteError
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	deck, exists := m.Decks[id]
	if !exists || deck.UserID != userID.String() {
		return store.ErrDeckNotFound
	}
	delete(m.Decks, id)
	return nil
}
