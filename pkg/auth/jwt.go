package auth

import (
	"errors"
	"net/http"

	"github.com/go-chi/jwtauth/v5"

	"github.com/openmhealth/shimmock/config"
)

const JwtAlg = "HS256"

var ErrSecretNotSet = errors.New(
	"auth secret not set. Ensure SHIMMOCK_AUTH_SECRET is set in your environment",
)

// JWTVerifier returns the middleware that reads and verifies a bearer token. It must be
// followed by jwtauth.Authenticator to reject requests without a valid token.
func JWTVerifier(cfg *config.Config) (func(http.Handler) http.Handler, error) {
	secret := []byte(cfg.Auth.Secret)
	if len(secret) == 0 {
		return nil, ErrSecretNotSet
	}
	tokenAuth := jwtauth.New(JwtAlg, secret, nil)
	return jwtauth.Verifier(tokenAuth), nil
}
