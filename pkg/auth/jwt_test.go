package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/jwtauth/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openmhealth/shimmock/config"
)

func TestJWTVerifier(t *testing.T) {
	cfg := &config.Config{
		Auth: config.AuthConfig{
			Secret: "test-secret",
		},
	}
	verifier, err := JWTVerifier(cfg)
	require.NoError(t, err)

	router := chi.NewRouter()
	router.Use(verifier)
	router.Use(jwtauth.Authenticator)
	router.Get("/api/configuration", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	t.Run("valid JWT token", func(t *testing.T) {
		tokenString, err := GenerateToken(cfg, time.Hour)
		require.NoError(t, err)
		req := httptest.NewRequest(http.MethodGet, "/api/configuration", nil)
		req.Header.Set("Authorization", "Bearer "+tokenString)
		res := httptest.NewRecorder()

		router.ServeHTTP(res, req)

		require.Equal(t, http.StatusOK, res.Code)
	})

	t.Run("token signed with another secret", func(t *testing.T) {
		tokenString, err := GenerateToken(&config.Config{Auth: config.AuthConfig{Secret: "other"}}, 0)
		require.NoError(t, err)
		req := httptest.NewRequest(http.MethodGet, "/api/configuration", nil)
		req.Header.Set("Authorization", "Bearer "+tokenString)
		res := httptest.NewRecorder()

		router.ServeHTTP(res, req)

		require.Equal(t, http.StatusUnauthorized, res.Code)
	})

	t.Run("missing JWT token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/configuration", nil)
		res := httptest.NewRecorder()

		router.ServeHTTP(res, req)

		require.Equal(t, http.StatusUnauthorized, res.Code)
	})
}

func TestJWTVerifierWithoutSecret(t *testing.T) {
	_, err := JWTVerifier(&config.Config{})
	assert.ErrorIs(t, err, ErrSecretNotSet)
}
