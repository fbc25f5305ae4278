package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Event types emitted by the credential layer.
const (
	// TypeIdentityObserved is emitted when a real identity is established
	// (sign-in or sign-up).
	TypeIdentityObserved = "identity.observed"

	// TypeIdentityCleared is emitted when the current identity goes away
	// (sign-out).
	TypeIdentityCleared = "identity.cleared"
)

// IdentityEvent notifies subscribers that the identity associated with a
// client session changed. Delivery scoping lives in the payload: see
// IdentityPayload.
type IdentityEvent struct {
	// ID is a unique identifier for this event
	ID uuid.UUID `json:"id"`

	// Type is one of the Type* constants above
	Type string `json:"type"`

	// Payload contains the event-specific data serialized as JSON
	Payload json.RawMessage `json:"payload"`

	// CreatedAt is the timestamp when the event was created
	CreatedAt time.Time `json:"created_at"`
}

// IdentityPayload is the payload carried by identity events.
type IdentityPayload struct {
	// SessionID targets a specific client session. An observed identity is
	// only ever delivered to the session it names. A cleared identity with no
	// SessionID addresses the sessions signed in as UserID.
	SessionID string `json:"session_id,omitempty"`

	// UserID is the observed identity, or, for a cleared identity with no
	// SessionID, the identity being cleared.
	UserID uuid.UUID `json:"user_id,omitempty"`
}

// UnmarshalPayload decodes the event payload into the provided structure.
func (e *IdentityEvent) UnmarshalPayload(v interface{}) error {
	return json.Unmarshal(e.Payload, v)
}

// NewIdentityEvent creates a new IdentityEvent with the specified type and
// payload.
func NewIdentityEvent(eventType string, payload IdentityPayload) (*IdentityEvent, error) {
	payloadBytes, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	return &IdentityEvent{
		ID:        uuid.New(),
		Type:      eventType,
		Payload:   payloadBytes,
		CreatedAt: time.Now(),
	}, nil
}

// EventHandler defines an interface for components that can handle events.
type EventHandler interface {
	// HandleEvent processes the given event within the provided context.
	// Returns an error if the event cannot be handled successfully.
	HandleEvent(ctx context.Context, event *IdentityEvent) error
}

// EventEmitter defines an interface for components that can emit events and
// manage subscriptions. Subscribers must unregister on teardown so that no
// handler outlives the component it mutates.
type EventEmitter interface {
	// EmitEvent publishes the given event to all registered handlers.
	EmitEvent(ctx context.Context, event *IdentityEvent) error

	// RegisterHandler adds a handler to receive future events.
	RegisterHandler(handler EventHandler)

	// UnregisterHandler removes a previously registered handler.
	UnregisterHandler(handler EventHandler)
}
