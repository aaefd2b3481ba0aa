// Package auth owns the browser side of a session: the signed cookie, the
// session lookup on every request, and the navigation guard.
package auth

import (
	"crypto/rand"
	"crypto/sha256"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/hkdf"
)

const issuer = "gitorbit"

// SigningKey derives the cookie signing key from secret with HKDF-SHA256.
//
// An empty secret yields a random key: the server still works, but every
// restart signs everyone out.
func SigningKey(secret string) ([]byte, error) {
	key := make([]byte, 32)
	if secret == "" {
		if _, err := rand.Read(key); err != nil {
			return nil, fmt.Errorf("auth: generating random signing key: %w", err)
		}
		return key, nil
	}
	r := hkdf.New(sha256.New, []byte(secret), nil, []byte("gitorbit session cookie v1"))
	if _, err := io.ReadFull(r, key); err != nil {
		return nil, fmt.Errorf("auth: deriving signing key: %w", err)
	}
	return key, nil
}

// TokenService signs and verifies the session cookie.
//
// The cookie is an HS256 JWT whose subject is the session id. It carries no
// expiry: a session lasts until the user signs out or the row disappears.
type TokenService struct {
	key []byte
}

func NewTokenService(key []byte) (*TokenService, error) {
	if len(key) < 16 {
		return nil, errors.New("auth: signing key must be at least 16 bytes")
	}
	return &TokenService{key: key}, nil
}

// Generate signs a cookie value for sessionID.
func (s *TokenService) Generate(sessionID string) (string, error) {
	c := jwt.RegisteredClaims{
		Subject:  sessionID,
		IssuedAt: jwt.NewNumericDate(time.Now()),
		Issuer:   issuer,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, c)
	signed, err := token.SignedString(s.key)
	if err != nil {
		return "", fmt.Errorf("auth: signing token: %w", err)
	}
	return signed, nil
}

// Validate returns the session id of a cookie value this service signed.
func (s *TokenService) Validate(tokenStr string) (string, error) {
	token, err := jwt.ParseWithClaims(
		tokenStr,
		&jwt.RegisteredClaims{},
		func(token *jwt.Token) (any, error) {
			return s.key, nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(issuer),
	)
	if err != nil {
		return "", fmt.Errorf("auth: invalid token: %w", err)
	}

	c, ok := token.Claims.(*jwt.RegisteredClaims)
	if !ok || !token.Valid {
		return "", fmt.Errorf("auth: invalid token claims")
	}
	if c.Subject == "" {
		return "", fmt.Errorf("auth: token has no subject")
	}
	return c.Subject, nil
}
