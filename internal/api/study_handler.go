package api

import (
	"log/slog"
	"net/http"

	"github.com/jrenard/flashdeck-api/internal/api/shared"
	"github.com/jrenard/flashdeck-api/internal/session"
)

// StudyHandler handles the study screen of a session: starting a walk over a
// saved deck, revealing answers, and advancing through the cards.
type StudyHandler struct {
	sessions *session.Manager
	logger   *slog.Logger
}

// NewStudyHandler creates a new StudyHandler.
func NewStudyHandler(sessions *session.Manager, logger *slog.Logger) *StudyHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &StudyHandler{
		sessions: sessions,
		logger:   logger.With(slog.String("component", "study_handler")),
	}
}

// Start handles POST /api/sessions/{sessionID}/study, beginning a walk over
// one deck from the overview.
func (h *StudyHandler) Start(w http.ResponseWriter, r *http.Request) {
	s, ok := resolveSession(w, r, h.sessions)
	if !ok {
		return
	}

	var req StartStudyRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := shared.ValidateRequest(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	if err := s.StartStudy(r.Context(), req.DeckID); err != nil {
		status := MapErrorToStatusCode(err)
		shared.RespondWithErrorAndLog(w, r, status, GetSafeErrorMessage(err), err)
		return
	}

	walk, err := s.Walk()
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError, GetSafeErrorMessage(err), err)
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, walk.Current())
}

// Current handles GET /api/sessions/{sessionID}/study.
func (h *StudyHandler) Current(w http.ResponseWriter, r *http.Request) {
	s, ok := resolveSession(w, r, h.sessions)
	if !ok {
		return
	}

	walk, err := s.Walk()
	if err != nil {
		status := MapErrorToStatusCode(err)
		shared.RespondWithErrorAndLog(w, r, status, GetSafeErrorMessage(err), err)
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, walk.Current())
}

// Reveal handles POST /api/sessions/{sessionID}/study/reveal.
func (h *StudyHandler) Reveal(w http.ResponseWriter, r *http.Request) {
	s, ok := resolveSession(w, r, h.sessions)
	if !ok {
		return
	}

	view, err := s.RevealStudy(r.Context())
	if err != nil {
		status := MapErrorToStatusCode(err)
		shared.RespondWithErrorAndLog(w, r, status, GetSafeErrorMessage(err), err)
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, view)
}

// Advance handles POST /api/sessions/{sessionID}/study/advance. Advancing
// past the last card ends the walk; the response view carries Done so the
// client knows the session has moved on.
func (h *StudyHandler) Advance(w http.ResponseWriter, r *http.Request) {
	s, ok := resolveSession(w, r, h.sessions)
	if !ok {
		return
	}

	view, err := s.AdvanceStudy(r.Context())
	if err != nil {
		status := MapErrorToStatusCode(err)
		shared.RespondWithErrorAndLog(w, r, status, GetSafeErrorMessage(err), err)
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, view)
}

// Finish handles DELETE /api/sessions/{sessionID}/study, abandoning the walk
// early.
func (h *StudyHandler) Finish(w http.ResponseWriter, r *http.Request) {
	s, ok := resolveSession(w, r, h.sessions)
	if !ok {
		return
	}

	if err := s.FinishStudy(r.Context()); err != nil {
		status := MapErrorToStatusCode(err)
		shared.RespondWithErrorAndLog(w, r, status, GetSafeErrorMessage(err), err)
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, newSessionResponse(s))
}
