package api

import (
	"time"

	"github.com/google/uuid"

	"github.com/jrenard/flashdeck-api/internal/domain"
)

// Common request/response structures

// RegisterRequest defines the payload for the user registration endpoint.
type RegisterRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=6,max=72"`

	// SessionID optionally names the session that should observe the new
	// identity.
	SessionID string `json:"session_id,omitempty"`
}

// LoginRequest defines the payload for the user login endpoint.
type LoginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=1"`

	// SessionID optionally names the session that should observe the
	// identity.
	SessionID string `json:"session_id,omitempty"`
}

// AuthResponse defines the successful response for authentication endpoints.
type AuthResponse struct {
	UserID       uuid.UUID `json:"user_id"`
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token,omitempty"`

	// ExpiresAt is the ISO 8601 timestamp when the access token expires.
	ExpiresAt string `json:"expires_at,omitempty"`
}

// RefreshTokenRequest defines the payload for the token refresh endpoint.
type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// SignOutRequest optionally names the session whose identity to clear. With
// no session named, clearing applies to the sessions signed in as the bearer
// of the request's token.
type SignOutRequest struct {
	SessionID string `json:"session_id,omitempty"`
}

// CreateSessionRequest defines the payload for opening a session. Guest mode
// and a bearer token are mutually exclusive.
type CreateSessionRequest struct {
	Guest bool `json:"guest"`
}

// SessionResponse reports a session's id, screen, and identity.
type SessionResponse struct {
	ID      string    `json:"id"`
	State   string    `json:"state"`
	UserID  uuid.UUID `json:"user_id,omitempty"`
	IsGuest bool      `json:"is_guest"`
}

// CardPayload is one flashcard in request and response bodies.
type CardPayload struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// SetupTopicRequest sets the working topic of the setup screen.
type SetupTopicRequest struct {
	Topic string `json:"topic" validate:"required,min=1"`
}

// AddCardRequest appends one manually written card to the working list.
type AddCardRequest struct {
	Question string `json:"question" validate:"required,min=1"`
	Answer   string `json:"answer"   validate:"required,min=1"`
}

// EditCardRequest replaces one field of the card at the addressed position.
type EditCardRequest struct {
	Field string `json:"field" validate:"required,oneof=question answer"`
	Value string `json:"value"`
}

// GenerateRequest asks for cards on the working topic, optionally grounding
// the request with an image.
type GenerateRequest struct {
	// ImageData is the base64-encoded image bytes, if any.
	ImageData string `json:"image_data,omitempty"`

	// ImageMimeType qualifies ImageData, e.g. "image/png".
	ImageMimeType string `json:"image_mime_type,omitempty" validate:"required_with=ImageData"`
}

// GenerateResponse reports the cards added by one generation call and the
// resulting working list size.
type GenerateResponse struct {
	Generated []CardPayload `json:"generated"`
	Total     int           `json:"total"`
}

// SetupResponse is the working state of the setup screen.
type SetupResponse struct {
	Topic string        `json:"topic"`
	Cards []CardPayload `json:"cards"`
}

// StartStudyRequest selects a saved deck to study.
type StartStudyRequest struct {
	DeckID string `json:"deck_id" validate:"required"`
}

// DeckSummary is one deck in list responses; cards are omitted.
type DeckSummary struct {
	ID        string    `json:"id"`
	Topic     string    `json:"topic"`
	CardCount int       `json:"card_count"`
	CreatedAt time.Time `json:"created_at"`
}

// DeckResponse is a full deck including its cards.
type DeckResponse struct {
	ID        string        `json:"id"`
	Topic     string        `json:"topic"`
	Cards     []CardPayload `json:"cards"`
	CreatedAt time.Time     `json:"created_at"`
}

func newCardPayloads(cards []domain.Flashcard) []CardPayload {
	out := make([]CardPayload, len(cards))
	for i, card := range cards {
		out[i] = CardPayload{Question: card.Question, Answer: card.Answer}
	}
	return out
}

func newDeckSummary(deck domain.Deck) DeckSummary {
	return DeckSummary{
		ID:        deck.ID,
		Topic:     deck.Topic,
		CardCount: len(deck.Cards),
		CreatedAt: deck.CreatedAt,
	}
}

func newDeckResponse(deck *domain.Deck) DeckResponse {
	return DeckResponse{
		ID:        deck.ID,
		Topic:     deck.Topic,
		Cards:     newCardPayloads(deck.Cards),
		CreatedAt: deck.CreatedAt,
	}
}
