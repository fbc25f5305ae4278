package generation

import "errors"

// Common errors returned by the generation package
var (
	// ErrGenerationFailed is returned when card generation fails for any
	// general provider or network reason.
	ErrGenerationFailed = errors.New("failed to generate flashcards")

	// ErrInvalidResponse is returned when the model response cannot be
	// parsed or does not satisfy the requested schema.
	ErrInvalidResponse = errors.New("invalid response from language model")

	// ErrMissingAPIKey is returned when the AI service credential is not
	// configured. Surfaced distinctly so the caller can present it as a
	// configuration problem rather than a transient failure.
	ErrMissingAPIKey = errors.New("AI service API key is not configured")

	// ErrEmptyTopic is returned when generation is requested with an empty
	// topic.
	ErrEmptyTopic = errors.New("generation topic cannot be empty")
)
