package session

import "errors"

// State enumerates the mutually exclusive screens of the application.
// Exactly one is active per session at any time.
type State string

const (
	// StateLoading is the initial state before the first identity
	// observation.
	StateLoading State = "loading"

	// StateAuth is the sign-in/sign-up screen; no identity and no guest
	// flag.
	StateAuth State = "auth"

	// StateDecks is the deck overview of a signed-in user.
	StateDecks State = "decks"

	// StateSetup is the deck authoring screen.
	StateSetup State = "setup"

	// StateStudying is an active study walk.
	StateStudying State = "studying"
)

var (
	// ErrNotFound is returned when a session id is unknown.
	ErrNotFound = errors.New("session not found")

	// ErrInvalidTransition is returned when an operation is not allowed in
	// the session's current state. The session is left unchanged.
	ErrInvalidTransition = errors.New("operation not allowed in current state")
)
