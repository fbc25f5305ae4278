package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/jrenard/flashdeck-api/internal/mocks"
	"github.com/jrenard/flashdeck-api/internal/service/auth"
)

func TestAuthenticate(t *testing.T) {
	t.Parallel()

	userID := uuid.New()

	tests := []struct {
		name           string
		authHeader     string
		claims         *auth.Claims
		validateErr    error
		expectedStatus int
		expectedUserID uuid.UUID
	}{
		{
			name:           "valid token",
			authHeader:     "Bearer valid-token",
			claims:         &auth.Claims{UserID: userID},
			expectedStatus: http.StatusOK,
			expectedUserID: userID,
		},
		{
			name:           "missing auth header",
			authHeader:     "",
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "invalid auth format",
			authHeader:     "NotBearer",
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "expired token",
			authHeader:     "Bearer expired-token",
			validateErr:    auth.ErrExpiredToken,
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "invalid token",
			authHeader:     "Bearer invalid-token",
			validateErr:    auth.ErrInvalidToken,
			expectedStatus: http.StatusUnauthorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			jwtService := &mocks.MockJWTService{
				Claims: tt.claims,
				Err:    tt.validateErr,
			}
			authMiddleware := NewAuthMiddleware(jwtService)

			var capturedUserID uuid.UUID
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if id, ok := GetUserID(r); ok {
					capturedUserID = id
				}
				w.WriteHeader(http.StatusOK)
			})

			req := httptest.NewRequest("GET", "/protected", nil)
			if tt.authHeader != "" {
				req.Header.Set("Authorization", tt.authHeader)
			}
			recorder := httptest.NewRecorder()

			authMiddleware.Authenticate(next).ServeHTTP(recorder, req)

			assert.Equal(t, tt.expectedStatus, recorder.Code)
			if tt.expectedStatus == http.StatusOK {
				assert.Equal(t, tt.expectedUserID, capturedUserID)
			}
		})
	}
}

func TestMaybeAuthenticate(t *testing.T) {
	t.Parallel()

	userID := uuid.New()

	t.Run("anonymous request passes through", func(t *testing.T) {
		t.Parallel()

		authMiddleware := NewAuthMiddleware(&mocks.MockJWTService{})

		var hasIdentity bool
		next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, hasIdentity = GetUserID(r)
			w.WriteHeader(http.StatusOK)
		})

		recorder := httptest.NewRecorder()
		authMiddleware.MaybeAuthenticate(next).ServeHTTP(recorder, httptest.NewRequest("POST", "/sessions", nil))

		assert.Equal(t, http.StatusOK, recorder.Code)
		assert.False(t, hasIdentity)
	})

	t.Run("valid token carries identity", func(t *testing.T) {
		t.Parallel()

		authMiddleware := NewAuthMiddleware(&mocks.MockJWTService{
			Claims: &auth.Claims{UserID: userID},
		})

		var capturedUserID uuid.UUID
		next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			capturedUserID, _ = GetUserID(r)
			w.WriteHeader(http.StatusOK)
		})

		req := httptest.NewRequest("POST", "/sessions", nil)
		req.Header.Set("Authorization", "Bearer valid-token")
		recorder := httptest.NewRecorder()
		authMiddleware.MaybeAuthenticate(next).ServeHTTP(recorder, req)

		assert.Equal(t, http.StatusOK, recorder.Code)
		assert.Equal(t, userID, capturedUserID)
	})

	t.Run("present but invalid token is rejected", func(t *testing.T) {
		t.Parallel()

		authMiddleware := NewAuthMiddleware(&mocks.MockJWTService{Err: auth.ErrInvalidToken})

		next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
		})

		req := httptest.NewRequest("POST", "/sessions", nil)
		req.Header.Set("Authorization", "Bearer garbage")
		recorder := httptest.NewRecorder()
		authMiddleware.MaybeAuthenticate(next).ServeHTTP(recorder, req)

		assert.Equal(t, http.StatusUnauthorized, recorder.Code)
	})
}
