package api

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/jrenard/flashdeck-api/internal/api/middleware"
	"github.com/jrenard/flashdeck-api/internal/api/shared"
	"github.com/jrenard/flashdeck-api/internal/domain"
	"github.com/jrenard/flashdeck-api/internal/events"
	"github.com/jrenard/flashdeck-api/internal/redact"
	"github.com/jrenard/flashdeck-api/internal/service/auth"
	"github.com/jrenard/flashdeck-api/internal/store"
)

// AuthHandler handles authentication-related API requests. Successful sign-in,
// sign-up, and sign-out publish identity events so live sessions follow the
// credential change.
type AuthHandler struct {
	userStore        store.UserStore
	jwtService       auth.JWTService
	passwordVerifier auth.PasswordVerifier
	emitter          events.EventEmitter
	logger           *slog.Logger
}

// NewAuthHandler creates a new AuthHandler with the given dependencies.
func NewAuthHandler(
	userStore store.UserStore,
	jwtService auth.JWTService,
	passwordVerifier auth.PasswordVerifier,
	emitter events.EventEmitter,
	logger *slog.Logger,
) *AuthHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &AuthHandler{
		userStore:        userStore,
		jwtService:       jwtService,
		passwordVerifier: passwordVerifier,
		emitter:          emitter,
		logger:           logger.With(slog.String("component", "auth_handler")),
	}
}

// Register handles POST /api/auth/register.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := shared.ValidateRequest(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	user, err := domain.NewUser(req.Email, req.Password)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, GetSafeErrorMessage(err), err)
		return
	}

	if err := h.userStore.Create(r.Context(), user); err != nil {
		if errors.Is(err, store.ErrEmailExists) {
			shared.RespondWithError(w, r, http.StatusConflict, "Email already exists")
			return
		}
		shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError, "Failed to create user", err)
		return
	}

	resp, err := h.issueTokens(r, user.ID)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError, "Failed to generate authentication token", err)
		return
	}

	h.publishIdentity(r, req.SessionID, user.ID)
	h.logger.InfoContext(r.Context(), "user registered", "user_id", user.ID)
	shared.RespondWithJSON(w, r, http.StatusCreated, resp)
}

// Login handles POST /api/auth/login.
//
// An unknown email and a wrong password produce the same response, so the
// endpoint cannot be used to probe which accounts exist.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := shared.ValidateRequest(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	user, err := h.userStore.GetByEmail(r.Context(), req.Email)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			shared.RespondWithError(w, r, http.StatusUnauthorized, "Invalid credentials")
			return
		}
		shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError, "Failed to authenticate user", err)
		return
	}

	if err := h.passwordVerifier.Compare(user.HashedPassword, req.Password); err != nil {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Invalid credentials")
		return
	}

	resp, err := h.issueTokens(r, user.ID)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError, "Failed to generate authentication token", err)
		return
	}

	h.publishIdentity(r, req.SessionID, user.ID)
	h.logger.InfoContext(r.Context(), "user logged in", "user_id", user.ID)
	shared.RespondWithJSON(w, r, http.StatusOK, resp)
}

// RefreshToken handles POST /api/auth/refresh. A valid refresh token yields a
// fresh token pair; no identity event is published because the identity did
// not change.
func (h *AuthHandler) RefreshToken(w http.ResponseWriter, r *http.Request) {
	var req RefreshTokenRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := shared.ValidateRequest(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	claims, err := h.jwtService.ValidateRefreshToken(r.Context(), req.RefreshToken)
	if err != nil {
		status := MapErrorToStatusCode(err)
		shared.RespondWithErrorAndLog(w, r, status, GetSafeErrorMessage(err), err, shared.WithElevatedLogLevel())
		return
	}

	resp, err := h.issueTokens(r, claims.UserID)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError, "Failed to generate authentication token", err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, resp)
}

// SignOut handles POST /api/auth/signout. Token issuance is stateless, so
// signing out only publishes the identity-cleared event; clients drop their
// tokens.
//
// The event is scoped to the named session, or, with a bearer token and no
// session named, to the caller's own sessions. With neither there is nothing
// to address and no event is published.
func (h *AuthHandler) SignOut(w http.ResponseWriter, r *http.Request) {
	var req SignOutRequest
	if r.Body != nil && r.ContentLength != 0 {
		if err := shared.DecodeJSON(r, &req); err != nil {
			shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
			return
		}
	}

	userID, _ := middleware.GetUserID(r)
	if req.SessionID == "" && userID == uuid.Nil {
		shared.RespondWithJSON(w, r, http.StatusOK, map[string]string{"status": "signed out"})
		return
	}

	event, err := events.NewIdentityEvent(events.TypeIdentityCleared, events.IdentityPayload{
		SessionID: req.SessionID,
		UserID:    userID,
	})
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError, "Failed to sign out", err)
		return
	}
	if err := h.emitter.EmitEvent(r.Context(), event); err != nil {
		h.logger.ErrorContext(r.Context(), "failed to publish identity cleared event",
			"error", redact.Error(err))
	}

	shared.RespondWithJSON(w, r, http.StatusOK, map[string]string{"status": "signed out"})
}

func (h *AuthHandler) issueTokens(r *http.Request, userID uuid.UUID) (AuthResponse, error) {
	accessToken, err := h.jwtService.GenerateToken(r.Context(), userID)
	if err != nil {
		return AuthResponse{}, err
	}
	refreshToken, err := h.jwtService.GenerateRefreshToken(r.Context(), userID)
	if err != nil {
		return AuthResponse{}, err
	}

	expiresAt := time.Now().Add(h.jwtService.AccessTokenLifetime()).UTC().Format(time.RFC3339)
	return AuthResponse{
		UserID:       userID,
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresAt:    expiresAt,
	}, nil
}

// publishIdentity announces an observed identity to the named session. With
// no session named nothing is published: an unaddressed observed identity
// must never reach other clients' sessions. Event delivery failures are
// logged but never fail the request; the caller already holds valid tokens.
func (h *AuthHandler) publishIdentity(r *http.Request, sessionID string, userID uuid.UUID) {
	if sessionID == "" {
		return
	}

	event, err := events.NewIdentityEvent(events.TypeIdentityObserved, events.IdentityPayload{
		SessionID: sessionID,
		UserID:    userID,
	})
	if err != nil {
		h.logger.ErrorContext(r.Context(), "failed to build identity event",
			"error", redact.Error(err))
		return
	}
	if err := h.emitter.EmitEvent(r.Context(), event); err != nil {
		h.logger.ErrorContext(r.Context(), "failed to publish identity event",
			"error", redact.Error(err))
	}
}
