package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jrenard/flashdeck-api/internal/domain"
	"github.com/jrenard/flashdeck-api/internal/events"
	"github.com/jrenard/flashdeck-api/internal/generation"
	"github.com/jrenard/flashdeck-api/internal/mocks"
	"github.com/jrenard/flashdeck-api/internal/session"
)

type testEnv struct {
	router  http.Handler
	emitter *events.InMemoryEventEmitter
	decks   *mocks.MockDeckStore
	gen     *mocks.MockGenerator
}

// newTestEnv assembles the session-scoped routes the way the server does.
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	env := &testEnv{
		emitter: events.NewInMemoryEventEmitter(nil),
		decks:   mocks.NewMockDeckStore(),
		gen:     &mocks.MockGenerator{},
	}
	sessions := session.NewManager(env.emitter, env.gen, env.decks, nil)

	sessionHandler := NewSessionHandler(sessions, nil)
	setupHandler := NewSetupHandler(sessions, nil)
	studyHandler := NewStudyHandler(sessions, nil)
	deckHandler := NewDeckHandler(sessions, env.decks, nil)

	r := chi.NewRouter()
	r.Route("/api", func(r chi.Router) {
		r.Post("/sessions", sessionHandler.Create)
		r.Route("/sessions/{sessionID}", func(r chi.Router) {
			r.Get("/", sessionHandler.Get)
			r.Delete("/", sessionHandler.Delete)
			r.Post("/guest", sessionHandler.EnterGuest)

			r.Post("/setup", setupHandler.Start)
			r.Get("/setup", setupHandler.Get)
			r.Put("/setup", setupHandler.SetTopic)
			r.Delete("/setup", setupHandler.Cancel)
			r.Post("/setup/cards", setupHandler.AddCard)
			r.Patch("/setup/cards/{index}", setupHandler.EditCard)
			r.Delete("/setup/cards/{index}", setupHandler.DeleteCard)
			r.Post("/setup/generate", setupHandler.Generate)
			r.Post("/setup/commit", setupHandler.Commit)

			r.Get("/decks", deckHandler.ListForSession)
			r.Get("/decks/{deckID}", deckHandler.GetForSession)
			r.Delete("/decks/{deckID}", deckHandler.DeleteForSession)

			r.Post("/study", studyHandler.Start)
			r.Get("/study", studyHandler.Current)
			r.Post("/study/reveal", studyHandler.Reveal)
			r.Post("/study/advance", studyHandler.Advance)
			r.Delete("/study", studyHandler.Finish)
		})
	})
	env.router = r
	return env
}

func (e *testEnv) do(t *testing.T, method, path string, payload interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var body *bytes.Buffer
	if payload != nil {
		data, err := json.Marshal(payload)
		require.NoError(t, err)
		body = bytes.NewBuffer(data)
	} else {
		body = bytes.NewBuffer(nil)
	}

	req := httptest.NewRequest(method, path, body)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	recorder := httptest.NewRecorder()
	e.router.ServeHTTP(recorder, req)
	return recorder
}

func (e *testEnv) createGuestSession(t *testing.T) string {
	t.Helper()

	recorder := e.do(t, "POST", "/api/sessions", map[string]interface{}{"guest": true})
	require.Equal(t, http.StatusCreated, recorder.Code)

	var resp SessionResponse
	require.NoError(t, json.NewDecoder(recorder.Body).Decode(&resp))
	require.Equal(t, "setup", resp.State)
	require.True(t, resp.IsGuest)
	return resp.ID
}

func TestCreateSessionAnonymous(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	recorder := env.do(t, "POST", "/api/sessions", nil)
	require.Equal(t, http.StatusCreated, recorder.Code)

	var resp SessionResponse
	require.NoError(t, json.NewDecoder(recorder.Body).Decode(&resp))
	assert.Equal(t, "auth", resp.State)
	assert.False(t, resp.IsGuest)
}

func TestUnknownSessionIs404(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	recorder := env.do(t, "GET", "/api/sessions/nope", nil)
	assert.Equal(t, http.StatusNotFound, recorder.Code)
}

func TestSetupEndpointsRequireSetupState(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)

	// An anonymous session sits on the auth screen; setup is not reachable.
	recorder := env.do(t, "POST", "/api/sessions", nil)
	require.Equal(t, http.StatusCreated, recorder.Code)
	var resp SessionResponse
	require.NoError(t, json.NewDecoder(recorder.Body).Decode(&resp))

	recorder = env.do(t, "GET", "/api/sessions/"+resp.ID+"/setup", nil)
	assert.Equal(t, http.StatusConflict, recorder.Code)
}

func TestGuestFlowEndToEnd(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	env.gen.Cards = []domain.Flashcard{
		{Question: "Capital of Italy?", Answer: "Rome"},
		{Question: "Capital of Germany?", Answer: "Berlin"},
	}

	sessionID := env.createGuestSession(t)
	base := "/api/sessions/" + sessionID

	// Set the topic
	recorder := env.do(t, "PUT", base+"/setup", map[string]interface{}{"topic": "Capitals of Europe"})
	require.Equal(t, http.StatusOK, recorder.Code)

	// Add a manual card
	recorder = env.do(t, "POST", base+"/setup/cards", map[string]interface{}{
		"question": "Capital of France?",
		"answer":   "Paris",
	})
	require.Equal(t, http.StatusCreated, recorder.Code)

	// Generate cards; they are appended after the manual one
	recorder = env.do(t, "POST", base+"/setup/generate", nil)
	require.Equal(t, http.StatusOK, recorder.Code)

	var genResp GenerateResponse
	require.NoError(t, json.NewDecoder(recorder.Body).Decode(&genResp))
	assert.Len(t, genResp.Generated, 2)
	assert.Equal(t, 3, genResp.Total)

	recorder = env.do(t, "GET", base+"/setup", nil)
	require.Equal(t, http.StatusOK, recorder.Code)
	var setupResp SetupResponse
	require.NoError(t, json.NewDecoder(recorder.Body).Decode(&setupResp))
	require.Len(t, setupResp.Cards, 3)
	assert.Equal(t, "Capital of France?", setupResp.Cards[0].Question)

	// Commit starts the study walk
	recorder = env.do(t, "POST", base+"/setup/commit", nil)
	require.Equal(t, http.StatusCreated, recorder.Code)
	assert.Zero(t, env.decks.CreateCalls, "guest decks are never persisted")

	var commitResp struct {
		Deck DeckResponse `json:"deck"`
	}
	require.NoError(t, json.NewDecoder(recorder.Body).Decode(&commitResp))
	assert.Contains(t, commitResp.Deck.ID, "guest-")
	assert.Len(t, commitResp.Deck.Cards, 3)

	// First card, hidden answer
	recorder = env.do(t, "GET", base+"/study", nil)
	require.Equal(t, http.StatusOK, recorder.Code)
	var view map[string]interface{}
	require.NoError(t, json.NewDecoder(recorder.Body).Decode(&view))
	assert.Equal(t, float64(1), view["position"])
	assert.Equal(t, float64(3), view["total"])
	assert.NotContains(t, view, "answer")

	// Reveal, then walk off the end
	recorder = env.do(t, "POST", base+"/study/reveal", nil)
	require.Equal(t, http.StatusOK, recorder.Code)
	require.NoError(t, json.NewDecoder(recorder.Body).Decode(&view))
	assert.Equal(t, "Paris", view["answer"])

	for i := 0; i < 3; i++ {
		recorder = env.do(t, "POST", base+"/study/advance", nil)
		require.Equal(t, http.StatusOK, recorder.Code)
	}
	require.NoError(t, json.NewDecoder(recorder.Body).Decode(&view))
	assert.Equal(t, true, view["done"])

	// The guest is back on a fresh setup screen
	recorder = env.do(t, "GET", base, nil)
	require.Equal(t, http.StatusOK, recorder.Code)
	var snap SessionResponse
	require.NoError(t, json.NewDecoder(recorder.Body).Decode(&snap))
	assert.Equal(t, "setup", snap.State)
}

func TestCommitWithoutCardsIs400(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	sessionID := env.createGuestSession(t)
	base := "/api/sessions/" + sessionID

	recorder := env.do(t, "PUT", base+"/setup", map[string]interface{}{"topic": "Capitals"})
	require.Equal(t, http.StatusOK, recorder.Code)

	recorder = env.do(t, "POST", base+"/setup/commit", nil)
	assert.Equal(t, http.StatusBadRequest, recorder.Code)

	// Still on setup, data intact
	recorder = env.do(t, "GET", base+"/setup", nil)
	require.Equal(t, http.StatusOK, recorder.Code)
	var setupResp SetupResponse
	require.NoError(t, json.NewDecoder(recorder.Body).Decode(&setupResp))
	assert.Equal(t, "Capitals", setupResp.Topic)
}

func TestGenerateWithoutTopicIs400(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	sessionID := env.createGuestSession(t)

	recorder := env.do(t, "POST", "/api/sessions/"+sessionID+"/setup/generate", nil)
	assert.Equal(t, http.StatusBadRequest, recorder.Code)
	assert.Zero(t, env.gen.Calls)
}

func TestGenerateFailureStatusCodes(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		genErr     error
		wantStatus int
	}{
		{name: "missing API key", genErr: generation.ErrMissingAPIKey, wantStatus: http.StatusServiceUnavailable},
		{name: "model failure", genErr: generation.ErrGenerationFailed, wantStatus: http.StatusBadGateway},
		{name: "unusable response", genErr: generation.ErrInvalidResponse, wantStatus: http.StatusBadGateway},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			env := newTestEnv(t)
			env.gen.Err = tt.genErr
			sessionID := env.createGuestSession(t)
			base := "/api/sessions/" + sessionID

			recorder := env.do(t, "PUT", base+"/setup", map[string]interface{}{"topic": "Capitals"})
			require.Equal(t, http.StatusOK, recorder.Code)

			recorder = env.do(t, "POST", base+"/setup/generate", nil)
			assert.Equal(t, tt.wantStatus, recorder.Code)
		})
	}
}

func TestEditAndDeleteCards(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	sessionID := env.createGuestSession(t)
	base := "/api/sessions/" + sessionID

	for i := 0; i < 2; i++ {
		recorder := env.do(t, "POST", base+"/setup/cards", map[string]interface{}{
			"question": fmt.Sprintf("Q%d", i),
			"answer":   fmt.Sprintf("A%d", i),
		})
		require.Equal(t, http.StatusCreated, recorder.Code)
	}

	recorder := env.do(t, "PATCH", base+"/setup/cards/1", map[string]interface{}{
		"field": "answer",
		"value": "edited",
	})
	require.Equal(t, http.StatusOK, recorder.Code)
	var setupResp SetupResponse
	require.NoError(t, json.NewDecoder(recorder.Body).Decode(&setupResp))
	assert.Equal(t, "edited", setupResp.Cards[1].Answer)

	recorder = env.do(t, "DELETE", base+"/setup/cards/0", nil)
	require.Equal(t, http.StatusOK, recorder.Code)
	require.NoError(t, json.NewDecoder(recorder.Body).Decode(&setupResp))
	require.Len(t, setupResp.Cards, 1)
	assert.Equal(t, "Q1", setupResp.Cards[0].Question)

	// Out-of-range position
	recorder = env.do(t, "DELETE", base+"/setup/cards/9", nil)
	assert.Equal(t, http.StatusBadRequest, recorder.Code)

	// Unknown field
	recorder = env.do(t, "PATCH", base+"/setup/cards/0", map[string]interface{}{
		"field": "hint",
		"value": "x",
	})
	assert.Equal(t, http.StatusBadRequest, recorder.Code)
}

func TestDeleteSessionReleasesSubscription(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	sessionID := env.createGuestSession(t)
	require.Equal(t, 1, env.emitter.HandlerCount())

	recorder := env.do(t, "DELETE", "/api/sessions/"+sessionID, nil)
	assert.Equal(t, http.StatusNoContent, recorder.Code)
	assert.Equal(t, 0, env.emitter.HandlerCount())

	recorder = env.do(t, "GET", "/api/sessions/"+sessionID, nil)
	assert.Equal(t, http.StatusNotFound, recorder.Code)
}
