package generation

import (
	"context"

	"github.com/jrenard/flashdeck-api/internal/domain"
)

// Image is an optional inline image payload passed to the model as
// additional generation context.
type Image struct {
	// MimeType is the media type of the image, e.g. "image/png".
	MimeType string

	// Data holds the raw image bytes.
	Data []byte
}

// Generator defines the interface for generating flashcards from a topic.
// This interface serves as a boundary between the application core and
// external AI/LLM services.
//
// A Generator makes exactly one attempt per call: failures are reported
// upward immediately and never retried.
type Generator interface {
	// GenerateFlashcards creates question/answer flashcards for the given
	// topic, optionally using an image as additional context.
	//
	// The topic must be non-empty. Returns the generated cards in model
	// order, or an error: ErrMissingAPIKey when the service credential is
	// absent, ErrInvalidResponse when the model output cannot be used, or
	// ErrGenerationFailed for provider/network failures.
	GenerateFlashcards(ctx context.Context, topic string, image *Image) ([]domain.Flashcard, error)
}
