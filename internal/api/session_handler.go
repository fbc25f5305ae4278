package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/jrenard/flashdeck-api/internal/api/middleware"
	"github.com/jrenard/flashdeck-api/internal/api/shared"
	"github.com/jrenard/flashdeck-api/internal/session"
)

// SessionHandler handles the session lifecycle: opening a session, reading
// its state, entering guest mode, and closing it.
type SessionHandler struct {
	sessions *session.Manager
	logger   *slog.Logger
}

// NewSessionHandler creates a new SessionHandler.
func NewSessionHandler(sessions *session.Manager, logger *slog.Logger) *SessionHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &SessionHandler{
		sessions: sessions,
		logger:   logger.With(slog.String("component", "session_handler")),
	}
}

// Create handles POST /api/sessions. With a valid bearer token the session
// opens on the deck overview; with the guest flag it opens on deck setup;
// with neither it waits on the auth screen.
func (h *SessionHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateSessionRequest
	if r.Body != nil && r.ContentLength != 0 {
		if err := shared.DecodeJSON(r, &req); err != nil {
			shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
			return
		}
	}

	userID, _ := middleware.GetUserID(r)
	if req.Guest && userID != uuid.Nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Guest mode and a signed-in identity are mutually exclusive")
		return
	}

	s, err := h.sessions.Create(r.Context(), userID, req.Guest)
	if err != nil {
		status := MapErrorToStatusCode(err)
		shared.RespondWithErrorAndLog(w, r, status, GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusCreated, newSessionResponse(s))
}

// Get handles GET /api/sessions/{sessionID}.
func (h *SessionHandler) Get(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, newSessionResponse(s))
}

// EnterGuest handles POST /api/sessions/{sessionID}/guest.
func (h *SessionHandler) EnterGuest(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}

	if err := s.EnterGuest(r.Context()); err != nil {
		status := MapErrorToStatusCode(err)
		shared.RespondWithErrorAndLog(w, r, status, GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, newSessionResponse(s))
}

// Delete handles DELETE /api/sessions/{sessionID}, closing the session and
// releasing its event subscription.
func (h *SessionHandler) Delete(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")
	if err := h.sessions.Close(r.Context(), sessionID); err != nil {
		status := MapErrorToStatusCode(err)
		shared.RespondWithErrorAndLog(w, r, status, GetSafeErrorMessage(err), err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *SessionHandler) session(w http.ResponseWriter, r *http.Request) (*session.Session, bool) {
	return resolveSession(w, r, h.sessions)
}

// resolveSession resolves the {sessionID} route parameter, writing the error
// response itself when the session is unknown.
func resolveSession(w http.ResponseWriter, r *http.Request, sessions *session.Manager) (*session.Session, bool) {
	s, err := sessions.Get(chi.URLParam(r, "sessionID"))
	if err != nil {
		status := MapErrorToStatusCode(err)
		shared.RespondWithErrorAndLog(w, r, status, GetSafeErrorMessage(err), err)
		return nil, false
	}
	return s, true
}

func newSessionResponse(s *session.Session) SessionResponse {
	snap := s.Snapshot()
	return SessionResponse{
		ID:      snap.ID,
		State:   string(snap.State),
		UserID:  snap.UserID,
		IsGuest: snap.IsGuest,
	}
}
