package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/openmhealth/shimmock/config"
)

const tokenSubject = "shimmock"

// GenerateToken signs a token the dev server accepts when auth.required is set. A ttl of
// 0 produces a token that never expires.
func GenerateToken(cfg *config.Config, ttl time.Duration) (string, error) {
	secret := []byte(cfg.Auth.Secret)
	if len(secret) == 0 {
		return "", ErrSecretNotSet
	}

	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:  tokenSubject,
		IssuedAt: jwt.NewNumericDate(now),
	}
	if ttl > 0 {
		claims.ExpiresAt = jwt.NewNumericDate(now.Add(ttl))
	}

	tokenString, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
	if err != nil {
		return "", fmt.Errorf("error generating auth token: %w", err)
	}

	return tokenString, nil
}
