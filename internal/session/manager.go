package session

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"
	gonanoid "github.com/matoous/go-nanoid/v2"

	"github.com/jrenard/flashdeck-api/internal/events"
	"github.com/jrenard/flashdeck-api/internal/generation"
	"github.com/jrenard/flashdeck-api/internal/store"
)

// Manager owns the live sessions. It hands each new session its dependencies,
// registers it with the identity event emitter, and unregisters it on close.
type Manager struct {
	mu       sync.RWMutex
	sessions map[string]*Session

	emitter   events.EventEmitter
	generator generation.Generator
	decks     store.DeckStore
	logger    *slog.Logger
}

// NewManager creates a session manager.
func NewManager(
	emitter events.EventEmitter,
	generator generation.Generator,
	decks store.DeckStore,
	logger *slog.Logger,
) *Manager {
	if logger == nil {
		logger = slog.Default()
	}
	return &Manager{
		sessions:  make(map[string]*Session),
		emitter:   emitter,
		generator: generator,
		decks:     decks,
		logger:    logger.With(slog.String("component", "session")),
	}
}

// Create starts a new session and subscribes it to identity events.
//
// A session created with a known identity lands directly on the deck
// overview. A guest session lands on deck setup. Without either, the session
// waits on the auth screen. Identity and guest mode are mutually exclusive;
// asking for both is rejected.
func (m *Manager) Create(ctx context.Context, userID uuid.UUID, guest bool) (*Session, error) {
	if guest && userID != uuid.Nil {
		return nil, ErrInvalidTransition
	}

	id, err := gonanoid.New()
	if err != nil {
		return nil, fmt.Errorf("failed to generate session id: %w", err)
	}

	s := &Session{
		id:        id,
		state:     StateLoading,
		generator: m.generator,
		decks:     m.decks,
		logger:    m.logger,
	}

	// Resolve the initial screen before the session becomes reachable.
	switch {
	case userID != uuid.Nil:
		s.observeIdentity(ctx, userID)
	case guest:
		if err := s.EnterGuest(ctx); err != nil {
			return nil, err
		}
	default:
		s.mu.Lock()
		s.state = StateAuth
		s.mu.Unlock()
	}

	m.mu.Lock()
	m.sessions[id] = s
	m.mu.Unlock()

	m.emitter.RegisterHandler(s)

	m.logger.InfoContext(ctx, "session created",
		"session_id", id,
		"state", s.Snapshot().State)
	return s, nil
}

// Get returns the session with the given id.
func (m *Manager) Get(id string) (*Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	s, ok := m.sessions[id]
	if !ok {
		return nil, ErrNotFound
	}
	return s, nil
}

// Close tears down one session, releasing its event subscription.
func (m *Manager) Close(ctx context.Context, id string) error {
	m.mu.Lock()
	s, ok := m.sessions[id]
	if ok {
		delete(m.sessions, id)
	}
	m.mu.Unlock()

	if !ok {
		return ErrNotFound
	}

	m.emitter.UnregisterHandler(s)
	m.logger.InfoContext(ctx, "session closed", "session_id", id)
	return nil
}

// CloseAll tears down every live session. Used on server shutdown.
func (m *Manager) CloseAll(ctx context.Context) {
	m.mu.Lock()
	sessions := m.sessions
	m.sessions = make(map[string]*Session)
	m.mu.Unlock()

	for _, s := range sessions {
		m.emitter.UnregisterHandler(s)
	}
	if len(sessions) > 0 {
		m.logger.InfoContext(ctx, "all sessions closed", "count", len(sessions))
	}
}

// Count returns the number of live sessions.
func (m *Manager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}
