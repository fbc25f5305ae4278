package api

import (
	"encoding/base64"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/jrenard/flashdeck-api/internal/api/shared"
	"github.com/jrenard/flashdeck-api/internal/authoring"
	"github.com/jrenard/flashdeck-api/internal/generation"
	"github.com/jrenard/flashdeck-api/internal/session"
)

// SetupHandler handles the deck setup screen of a session: the working
// topic, the card list, generation, and the final commit.
type SetupHandler struct {
	sessions *session.Manager
	logger   *slog.Logger
}

// NewSetupHandler creates a new SetupHandler.
func NewSetupHandler(sessions *session.Manager, logger *slog.Logger) *SetupHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &SetupHandler{
		sessions: sessions,
		logger:   logger.With(slog.String("component", "setup_handler")),
	}
}

// Start handles POST /api/sessions/{sessionID}/setup, opening a fresh setup
// screen from the deck overview.
func (h *SetupHandler) Start(w http.ResponseWriter, r *http.Request) {
	s, ok := resolveSession(w, r, h.sessions)
	if !ok {
		return
	}

	if err := s.StartSetup(r.Context()); err != nil {
		status := MapErrorToStatusCode(err)
		shared.RespondWithErrorAndLog(w, r, status, GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, SetupResponse{Cards: []CardPayload{}})
}

// Get handles GET /api/sessions/{sessionID}/setup, returning the working
// topic and card list.
func (h *SetupHandler) Get(w http.ResponseWriter, r *http.Request) {
	ctrl, ok := h.authoring(w, r)
	if !ok {
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, newSetupResponse(ctrl))
}

// SetTopic handles PUT /api/sessions/{sessionID}/setup.
func (h *SetupHandler) SetTopic(w http.ResponseWriter, r *http.Request) {
	ctrl, ok := h.authoring(w, r)
	if !ok {
		return
	}

	var req SetupTopicRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := shared.ValidateRequest(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	ctrl.SetTopic(req.Topic)
	shared.RespondWithJSON(w, r, http.StatusOK, newSetupResponse(ctrl))
}

// AddCard handles POST /api/sessions/{sessionID}/setup/cards.
func (h *SetupHandler) AddCard(w http.ResponseWriter, r *http.Request) {
	ctrl, ok := h.authoring(w, r)
	if !ok {
		return
	}

	var req AddCardRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := shared.ValidateRequest(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	if err := ctrl.AddManualCard(req.Question, req.Answer); err != nil {
		status := MapErrorToStatusCode(err)
		shared.RespondWithErrorAndLog(w, r, status, GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusCreated, newSetupResponse(ctrl))
}

// EditCard handles PATCH /api/sessions/{sessionID}/setup/cards/{index}.
func (h *SetupHandler) EditCard(w http.ResponseWriter, r *http.Request) {
	ctrl, ok := h.authoring(w, r)
	if !ok {
		return
	}

	index, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid card position")
		return
	}

	var req EditCardRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := shared.ValidateRequest(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	if err := ctrl.EditCard(index, req.Field, req.Value); err != nil {
		status := MapErrorToStatusCode(err)
		shared.RespondWithErrorAndLog(w, r, status, GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, newSetupResponse(ctrl))
}

// DeleteCard handles DELETE /api/sessions/{sessionID}/setup/cards/{index}.
func (h *SetupHandler) DeleteCard(w http.ResponseWriter, r *http.Request) {
	ctrl, ok := h.authoring(w, r)
	if !ok {
		return
	}

	index, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid card position")
		return
	}

	if err := ctrl.DeleteCard(index); err != nil {
		status := MapErrorToStatusCode(err)
		shared.RespondWithErrorAndLog(w, r, status, GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, newSetupResponse(ctrl))
}

// Generate handles POST /api/sessions/{sessionID}/setup/generate. Generated
// cards are merged after the cards already in the working list.
func (h *SetupHandler) Generate(w http.ResponseWriter, r *http.Request) {
	ctrl, ok := h.authoring(w, r)
	if !ok {
		return
	}

	var req GenerateRequest
	if r.Body != nil && r.ContentLength != 0 {
		if err := shared.DecodeJSON(r, &req); err != nil {
			shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
			return
		}
		if err := shared.ValidateRequest(req); err != nil {
			shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
			return
		}
	}

	var image *generation.Image
	if req.ImageData != "" {
		data, err := base64.StdEncoding.DecodeString(req.ImageData)
		if err != nil {
			shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid image encoding")
			return
		}
		image = &generation.Image{MimeType: req.ImageMimeType, Data: data}
	}

	generated, err := ctrl.Generate(r.Context(), image)
	if err != nil {
		status := MapErrorToStatusCode(err)
		shared.RespondWithErrorAndLog(w, r, status, GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, GenerateResponse{
		Generated: newCardPayloads(generated),
		Total:     len(ctrl.Cards()),
	})
}

// Commit handles POST /api/sessions/{sessionID}/setup/commit. On success the
// session moves to studying the committed deck; on failure the working list
// is untouched and the session stays on setup.
func (h *SetupHandler) Commit(w http.ResponseWriter, r *http.Request) {
	s, ok := resolveSession(w, r, h.sessions)
	if !ok {
		return
	}

	deck, err := s.CommitSetup(r.Context())
	if err != nil {
		status := MapErrorToStatusCode(err)
		shared.RespondWithErrorAndLog(w, r, status, GetSafeErrorMessage(err), err)
		return
	}

	walk, err := s.Walk()
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError, GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusCreated, struct {
		Deck DeckResponse `json:"deck"`
		Card interface{}  `json:"card"`
	}{
		Deck: newDeckResponse(deck),
		Card: walk.Current(),
	})
}

// Cancel handles DELETE /api/sessions/{sessionID}/setup, abandoning the
// working list and returning to the deck overview.
func (h *SetupHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	s, ok := resolveSession(w, r, h.sessions)
	if !ok {
		return
	}

	if err := s.CancelSetup(r.Context()); err != nil {
		status := MapErrorToStatusCode(err)
		shared.RespondWithErrorAndLog(w, r, status, GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, newSessionResponse(s))
}

func (h *SetupHandler) authoring(w http.ResponseWriter, r *http.Request) (*authoring.Controller, bool) {
	s, ok := resolveSession(w, r, h.sessions)
	if !ok {
		return nil, false
	}
	ctrl, err := s.Authoring()
	if err != nil {
		status := MapErrorToStatusCode(err)
		shared.RespondWithErrorAndLog(w, r, status, GetSafeErrorMessage(err), err)
		return nil, false
	}
	return ctrl, true
}

func newSetupResponse(ctrl *authoring.Controller) SetupResponse {
	return SetupResponse{
		Topic: ctrl.Topic(),
		Cards: newCardPayloads(ctrl.Cards()),
	}
}
