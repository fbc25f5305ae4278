package session

import (
	"context"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/jrenard/flashdeck-api/internal/authoring"
	"github.com/jrenard/flashdeck-api/internal/domain"
	"github.com/jrenard/flashdeck-api/internal/events"
	"github.com/jrenard/flashdeck-api/internal/generation"
	"github.com/jrenard/flashdeck-api/internal/listing"
	"github.com/jrenard/flashdeck-api/internal/store"
	"github.com/jrenard/flashdeck-api/internal/study"
)

// Session is the lifecycle of one connected client. It tracks which screen is
// active, who the client is (a real identity or the guest flag, never both),
// and owns the controllers of whichever workflow is running.
//
// Sessions receive identity events from the credential layer via HandleEvent
// and must be Closed so the event subscription is released.
type Session struct {
	id string

	mu      sync.Mutex
	state   State
	userID  uuid.UUID // uuid.Nil when no identity
	isGuest bool

	authoring *authoring.Controller
	listing   *listing.Controller
	walk      *study.Walk

	generator generation.Generator
	decks     store.DeckStore
	logger    *slog.Logger
}

var _ events.EventHandler = (*Session)(nil)

// Snapshot is a read-only view of a session, shaped for the client to decide
// which screen to render.
type Snapshot struct {
	ID      string    `json:"id"`
	State   State     `json:"state"`
	UserID  uuid.UUID `json:"user_id,omitempty"`
	IsGuest bool      `json:"is_guest"`
}

// ID returns the session identifier.
func (s *Session) ID() string {
	return s.id
}

// Snapshot returns the session's current state and identity.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Snapshot{
		ID:      s.id,
		State:   s.state,
		UserID:  s.userID,
		IsGuest: s.isGuest,
	}
}

// HandleEvent reacts to identity changes from the credential layer. An
// observed identity applies only to the session it names; it is never
// broadcast, otherwise one client's sign-in would overwrite every other live
// session's identity. A cleared identity applies to the named session, or,
// when no session is named, to the sessions currently holding that exact
// identity.
func (s *Session) HandleEvent(ctx context.Context, event *events.IdentityEvent) error {
	var payload events.IdentityPayload
	if err := event.UnmarshalPayload(&payload); err != nil {
		return err
	}

	switch event.Type {
	case events.TypeIdentityObserved:
		if payload.SessionID != s.id {
			return nil
		}
		s.observeIdentity(ctx, payload.UserID)
	case events.TypeIdentityCleared:
		if payload.SessionID != s.id {
			if payload.SessionID != "" || payload.UserID == uuid.Nil || !s.holdsIdentity(payload.UserID) {
				return nil
			}
		}
		s.clearIdentity(ctx)
	}
	return nil
}

// holdsIdentity reports whether the session is signed in as the given user.
func (s *Session) holdsIdentity(userID uuid.UUID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.userID == userID
}

// observeIdentity records a signed-in identity and lands the session on the
// deck overview. Any in-flight setup or study state is discarded; the guest
// flag cannot coexist with a real identity.
func (s *Session) observeIdentity(ctx context.Context, userID uuid.UUID) {
	if userID == uuid.Nil {
		return
	}

	s.mu.Lock()
	s.userID = userID
	s.isGuest = false
	s.state = StateDecks
	s.listing = listing.NewController(userID, s.decks, s.logger)
	s.authoring = nil
	s.walk = nil
	s.mu.Unlock()

	s.logger.InfoContext(ctx, "identity observed",
		"session_id", s.id,
		"user_id", userID)
}

// clearIdentity drops a real identity and returns the session to the auth
// screen. A guest session has no identity to clear and is left untouched.
func (s *Session) clearIdentity(ctx context.Context) {
	s.mu.Lock()
	if s.isGuest {
		s.mu.Unlock()
		return
	}
	s.userID = uuid.Nil
	s.state = StateAuth
	s.listing = nil
	s.authoring = nil
	s.walk = nil
	s.mu.Unlock()

	s.logger.InfoContext(ctx, "identity cleared", "session_id", s.id)
}

// EnterGuest marks the session as guest and moves straight to deck setup.
// Only allowed while unauthenticated on the auth screen.
func (s *Session) EnterGuest(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateAuth && s.state != StateLoading {
		return ErrInvalidTransition
	}
	if s.userID != uuid.Nil {
		return ErrInvalidTransition
	}

	s.isGuest = true
	s.state = StateSetup
	s.authoring = authoring.NewController(s.generator, s.decks, s.logger)

	s.logger.InfoContext(ctx, "guest mode entered", "session_id", s.id)
	return nil
}

// StartSetup opens a fresh deck setup screen from the deck overview.
func (s *Session) StartSetup(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateDecks {
		return ErrInvalidTransition
	}

	s.state = StateSetup
	s.authoring = authoring.NewController(s.generator, s.decks, s.logger)

	s.logger.DebugContext(ctx, "setup started", "session_id", s.id)
	return nil
}

// CancelSetup abandons the working list and returns to the deck overview.
// A guest has no overview to return to, so guest setup cannot be cancelled.
func (s *Session) CancelSetup(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateSetup || s.isGuest {
		return ErrInvalidTransition
	}

	s.state = StateDecks
	s.authoring = nil

	s.logger.DebugContext(ctx, "setup cancelled", "session_id", s.id)
	return nil
}

// Authoring returns the active setup controller.
func (s *Session) Authoring() (*authoring.Controller, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateSetup || s.authoring == nil {
		return nil, ErrInvalidTransition
	}
	return s.authoring, nil
}

// Listing returns the deck overview controller.
func (s *Session) Listing() (*listing.Controller, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateDecks || s.listing == nil {
		return nil, ErrInvalidTransition
	}
	return s.listing, nil
}

// CommitSetup turns the working list into a deck and starts studying it.
// Validation and persistence failures leave the session on the setup screen
// with the working list intact.
func (s *Session) CommitSetup(ctx context.Context) (*domain.Deck, error) {
	s.mu.Lock()
	if s.state != StateSetup || s.authoring == nil {
		s.mu.Unlock()
		return nil, ErrInvalidTransition
	}
	ctrl := s.authoring
	userID := s.userID
	isGuest := s.isGuest
	s.mu.Unlock()

	// Commit may issue a store call; keep it outside the session lock.
	deck, err := ctrl.Commit(ctx, userID, isGuest)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.walk = study.NewWalk(deck)
	s.state = StateStudying
	s.authoring = nil
	s.mu.Unlock()

	s.logger.InfoContext(ctx, "studying committed deck",
		"session_id", s.id,
		"deck_id", deck.ID,
		"card_count", len(deck.Cards))
	return deck, nil
}

// StartStudy begins a study walk over one deck from the overview.
func (s *Session) StartStudy(ctx context.Context, deckID string) error {
	s.mu.Lock()
	if s.state != StateDecks || s.listing == nil {
		s.mu.Unlock()
		return ErrInvalidTransition
	}
	ctrl := s.listing
	s.mu.Unlock()

	deck, err := ctrl.Get(deckID)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.walk = study.NewWalk(deck)
	s.state = StateStudying
	s.mu.Unlock()

	s.logger.InfoContext(ctx, "studying deck",
		"session_id", s.id,
		"deck_id", deck.ID)
	return nil
}

// Walk returns the active study walk.
func (s *Session) Walk() (*study.Walk, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateStudying || s.walk == nil {
		return nil, ErrInvalidTransition
	}
	return s.walk, nil
}

// AdvanceStudy moves the walk to the next card. Advancing past the last card
// ends the walk: a signed-in user lands back on the deck overview, a guest on
// a fresh setup screen.
func (s *Session) AdvanceStudy(ctx context.Context) (study.CardView, error) {
	walk, err := s.Walk()
	if err != nil {
		return study.CardView{}, err
	}

	view, err := walk.Advance()
	if err != nil {
		return view, err
	}
	if view.Done {
		s.finishStudy(ctx)
	}
	return view, nil
}

// RevealStudy uncovers the answer of the current card.
func (s *Session) RevealStudy(ctx context.Context) (study.CardView, error) {
	walk, err := s.Walk()
	if err != nil {
		return study.CardView{}, err
	}
	return walk.Reveal()
}

// FinishStudy ends the walk early, landing where a completed walk would.
func (s *Session) FinishStudy(ctx context.Context) error {
	s.mu.Lock()
	if s.state != StateStudying {
		s.mu.Unlock()
		return ErrInvalidTransition
	}
	s.mu.Unlock()

	s.finishStudy(ctx)
	return nil
}

func (s *Session) finishStudy(ctx context.Context) {
	s.mu.Lock()
	s.walk = nil
	if s.isGuest {
		s.state = StateSetup
		s.authoring = authoring.NewController(s.generator, s.decks, s.logger)
	} else {
		s.state = StateDecks
		if s.listing == nil && s.userID != uuid.Nil {
			s.listing = listing.NewController(s.userID, s.decks, s.logger)
		}
	}
	s.mu.Unlock()

	s.logger.InfoContext(ctx, "study finished", "session_id", s.id)
}

// SignOut drops identity and guest status from any state and returns to the
// auth screen. Idempotent.
func (s *Session) SignOut(ctx context.Context) {
	s.mu.Lock()
	s.userID = uuid.Nil
	s.isGuest = false
	s.state = StateAuth
	s.listing = nil
	s.authoring = nil
	s.walk = nil
	s.mu.Unlock()

	s.logger.InfoContext(ctx, "signed out", "session_id", s.id)
}
