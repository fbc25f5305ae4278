package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/jrenard/flashdeck-api/internal/api/middleware"
	"github.com/jrenard/flashdeck-api/internal/api/shared"
	"github.com/jrenard/flashdeck-api/internal/listing"
	"github.com/jrenard/flashdeck-api/internal/session"
	"github.com/jrenard/flashdeck-api/internal/store"
)

// DeckHandler handles deck reads and deletes.
//
// The session-scoped endpoints go through the session's listing controller so
// its snapshot stays consistent with what the client sees. The stateless
// endpoints under /api/decks hit the store directly and require a bearer
// token.
type DeckHandler struct {
	sessions  *session.Manager
	deckStore store.DeckStore
	logger    *slog.Logger
}

// NewDeckHandler creates a new DeckHandler.
func NewDeckHandler(sessions *session.Manager, deckStore store.DeckStore, logger *slog.Logger) *DeckHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &DeckHandler{
		sessions:  sessions,
		deckStore: deckStore,
		logger:    logger.With(slog.String("component", "deck_handler")),
	}
}

// ListForSession handles GET /api/sessions/{sessionID}/decks. Passing
// ?refresh=true refetches the snapshot from the store.
func (h *DeckHandler) ListForSession(w http.ResponseWriter, r *http.Request) {
	ctrl, ok := h.listing(w, r)
	if !ok {
		return
	}

	if r.URL.Query().Get("refresh") == "true" {
		if err := ctrl.Refresh(r.Context()); err != nil {
			status := MapErrorToStatusCode(err)
			shared.RespondWithErrorAndLog(w, r, status, "Failed to load decks", err)
			return
		}
	}

	decks, err := ctrl.Decks(r.Context())
	if err != nil {
		status := MapErrorToStatusCode(err)
		shared.RespondWithErrorAndLog(w, r, status, "Failed to load decks", err)
		return
	}

	summaries := make([]DeckSummary, len(decks))
	for i, deck := range decks {
		summaries[i] = newDeckSummary(deck)
	}
	shared.RespondWithJSON(w, r, http.StatusOK, summaries)
}

// GetForSession handles GET /api/sessions/{sessionID}/decks/{deckID}.
func (h *DeckHandler) GetForSession(w http.ResponseWriter, r *http.Request) {
	ctrl, ok := h.listing(w, r)
	if !ok {
		return
	}

	deck, err := ctrl.Get(chi.URLParam(r, "deckID"))
	if err != nil {
		status := MapErrorToStatusCode(err)
		shared.RespondWithErrorAndLog(w, r, status, GetSafeErrorMessage(err), err)
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, newDeckResponse(deck))
}

// DeleteForSession handles DELETE /api/sessions/{sessionID}/decks/{deckID}.
// Deleting a deck the store no longer has succeeds; any other failure leaves
// the overview unchanged.
func (h *DeckHandler) DeleteForSession(w http.ResponseWriter, r *http.Request) {
	ctrl, ok := h.listing(w, r)
	if !ok {
		return
	}

	if err := ctrl.Delete(r.Context(), chi.URLParam(r, "deckID")); err != nil {
		status := MapErrorToStatusCode(err)
		shared.RespondWithErrorAndLog(w, r, status, "Failed to delete deck", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// List handles GET /api/decks for an authenticated caller.
func (h *DeckHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r)
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Authentication required")
		return
	}

	decks, err := h.deckStore.ListByUser(r.Context(), userID)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError, "Failed to load decks", err)
		return
	}

	summaries := make([]DeckSummary, len(decks))
	for i, deck := range decks {
		summaries[i] = newDeckSummary(deck)
	}
	shared.RespondWithJSON(w, r, http.StatusOK, summaries)
}

// Get handles GET /api/decks/{deckID} for an authenticated caller.
func (h *DeckHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r)
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Authentication required")
		return
	}

	deck, err := h.deckStore.GetByID(r.Context(), userID, chi.URLParam(r, "deckID"))
	if err != nil {
		status := MapErrorToStatusCode(err)
		shared.RespondWithErrorAndLog(w, r, status, GetSafeErrorMessage(err), err)
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, newDeckResponse(deck))
}

// Delete handles DELETE /api/decks/{deckID} for an authenticated caller.
func (h *DeckHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r)
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Authentication required")
		return
	}

	if err := h.deckStore.Delete(r.Context(), userID, chi.URLParam(r, "deckID")); err != nil {
		status := MapErrorToStatusCode(err)
		shared.RespondWithErrorAndLog(w, r, status, GetSafeErrorMessage(err), err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *DeckHandler) listing(w http.ResponseWriter, r *http.Request) (*listing.Controller, bool) {
	s, ok := resolveSession(w, r, h.sessions)
	if !ok {
		return nil, false
	}
	ctrl, err := s.Listing()
	if err != nil {
		status := MapErrorToStatusCode(err)
		shared.RespondWithErrorAndLog(w, r, status, GetSafeErrorMessage(err), err)
		return nil, false
	}
	return ctrl, true
}
