package gemini

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"

	"google.golang.org/genai"

	"github.com/jrenard/flashdeck-api/internal/config"
	"github.com/jrenard/flashdeck-api/internal/domain"
	"github.com/jrenard/flashdeck-api/internal/generation"
)

// defaultMaxCards bounds the generated set when no limit is configured.
const defaultMaxCards = 10

// systemInstructionFor fixes the pedagogical contract requested of the model,
// including the configured upper bound on the set size.
func systemInstructionFor(maxCards int) string {
	return fmt.Sprintf(`You are an expert at creating effective educational flashcards.
Generate a set of 5 to %d flashcards based on the user's topic or image.
For each card, write one clear question and one direct answer.
Questions must encourage active recall.
Make sure the content is factually correct and relevant.`, maxCards)
}

// cardSchema is the JSON shape of one generated card.
type cardSchema struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// Generator implements generation.Generator against the Gemini API.
type Generator struct {
	logger      *slog.Logger
	config      config.LLMConfig
	model       string
	maxCards    int
	instruction string

	// The client is created on first use so that a missing API key is
	// reported at call time, not at startup.
	mu     sync.Mutex
	client *genai.Client
}

// Ensure Generator implements the generation.Generator interface.
var _ generation.Generator = (*Generator)(nil)

// NewGenerator creates a Gemini-backed flashcard generator. The API key may
// be absent at construction time; in that case every generation call fails
// with generation.ErrMissingAPIKey until the key is configured.
func NewGenerator(logger *slog.Logger, cfg config.LLMConfig) (*Generator, error) {
	if logger == nil {
		return nil, fmt.Errorf("logger cannot be nil")
	}

	model := cfg.ModelName
	if model == "" {
		model = "gemini-2.5-pro"
	}

	maxCards := cfg.MaxCards
	if maxCards <= 0 {
		maxCards = defaultMaxCards
	}

	return &Generator{
		logger:      logger,
		config:      cfg,
		model:       model,
		maxCards:    maxCards,
		instruction: systemInstructionFor(maxCards),
	}, nil
}

// getClient returns the shared Gemini client, creating it on first use.
// Returns generation.ErrMissingAPIKey when no credential is configured.
func (g *Generator) getClient(ctx context.Context) (*genai.Client, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.client != nil {
		return g.client, nil
	}

	if g.config.GeminiAPIKey == "" {
		return nil, generation.ErrMissingAPIKey
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  g.config.GeminiAPIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create Gemini client: %v",
			generation.ErrGenerationFailed, err)
	}

	g.client = client
	return g.client, nil
}

// GenerateFlashcards implements generation.Generator.
//
// It makes a single request with the fixed system instruction, a JSON array
// response schema, and the configured temperature. No retry is attempted: a
// failed call is reported upward immediately.
func (g *Generator) GenerateFlashcards(
	ctx context.Context,
	topic string,
	image *generation.Image,
) ([]domain.Flashcard, error) {
	if topic == "" {
		return nil, generation.ErrEmptyTopic
	}

	client, err := g.getClient(ctx)
	if err != nil {
		return nil, err
	}

	parts := []*genai.Part{
		genai.NewPartFromText(fmt.Sprintf("The topic is: %q.", topic)),
	}
	if image != nil {
		parts = append(parts, genai.NewPartFromBytes(image.Data, image.MimeType))
	}
	contents := []*genai.Content{genai.NewContentFromParts(parts, genai.RoleUser)}

	temperature := g.config.Temperature
	if temperature == 0 {
		temperature = 0.7
	}

	genConfig := &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(g.instruction, genai.RoleUser),
		Temperature:       genai.Ptr(temperature),
		ResponseMIMEType:  "application/json",
		ResponseSchema: &genai.Schema{
			Type:     genai.TypeArray,
			MaxItems: genai.Ptr(int64(g.maxCards)),
			Items: &genai.Schema{
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"question": {
						Type:        genai.TypeString,
						Description: "The clear, concise question on the front of the flashcard.",
					},
					"answer": {
						Type:        genai.TypeString,
						Description: "The direct, precise answer on the back of the flashcard.",
					},
				},
				Required: []string{"question", "answer"},
			},
		},
	}

	g.logger.InfoContext(ctx, "requesting flashcard generation",
		"model", g.model,
		"topic_length", len(topic),
		"has_image", image != nil)

	resp, err := client.Models.GenerateContent(ctx, g.model, contents, genConfig)
	if err != nil {
		g.logger.ErrorContext(ctx, "Gemini API call failed", "error", err)
		return nil, fmt.Errorf("%w: %v", generation.ErrGenerationFailed, err)
	}

	cards, err := parseResponse(resp)
	if err != nil {
		g.logger.WarnContext(ctx, "unusable Gemini response", "error", err)
		return nil, err
	}

	// The schema caps the set size, but the limit is enforced here too in
	// case the model overruns it.
	if len(cards) > g.maxCards {
		cards = cards[:g.maxCards]
	}

	g.logger.InfoContext(ctx, "flashcards generated", "card_count", len(cards))
	return cards, nil
}

// parseResponse converts the model response into domain flashcards.
// Every item must carry a non-empty question and answer; one bad item
// invalidates the whole response.
func parseResponse(resp *genai.GenerateContentResponse) ([]domain.Flashcard, error) {
	if resp == nil {
		return nil, fmt.Errorf("%w: nil response", generation.ErrInvalidResponse)
	}

	text := resp.Text()
	if text == "" {
		return nil, fmt.Errorf("%w: no content generated", generation.ErrInvalidResponse)
	}

	var parsed []cardSchema
	if err := json.Unmarshal([]byte(text), &parsed); err != nil {
		return nil, fmt.Errorf("%w: failed to parse JSON response: %v",
			generation.ErrInvalidResponse, err)
	}

	if len(parsed) == 0 {
		return nil, fmt.Errorf("%w: no cards in response", generation.ErrInvalidResponse)
	}

	cards := make([]domain.Flashcard, 0, len(parsed))
	for i, item := range parsed {
		card, err := domain.NewFlashcard(item.Question, item.Answer)
		if err != nil {
			return nil, fmt.Errorf("%w: card %d: %v", generation.ErrInvalidResponse, i, err)
		}
		cards = append(cards, card)
	}

	return cards, nil
}
