package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/sakif/gitorbit/internal/apperror"
	"github.com/sakif/gitorbit/internal/model"
)

// AuthService validates the login and signup forms and exchanges them for a
// backend token.
//
//	AuthHandler (HTTP) → AuthService (validation) → API (POST /login, /signup)
//	                   ↘ auth.Sessions (stores the result, sets the cookie)
//
// WHAT THIS SERVICE DOES NOT DO:
//   - It does NOT set cookies or store sessions (that's the handler's job)
//   - It does NOT hash or check passwords; the backend owns credentials
type AuthService struct {
	backend Backend
	logger  *slog.Logger
}

func NewAuthService(backend Backend, logger *slog.Logger) *AuthService {
	return &AuthService{backend: backend, logger: logger}
}

// Login checks that both fields are present and calls POST /login. An empty
// field returns a validation error without sending anything.
func (s *AuthService) Login(ctx context.Context, email, password string) (*model.AuthResult, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return nil, apperror.ValidationFailed("email", "email is required")
	}
	if password == "" {
		return nil, apperror.ValidationFailed("password", "password is required")
	}

	res, err := s.backend("").Login(ctx, email, password)
	if err != nil {
		s.logger.Error("login failed", slog.String("email", email), slog.String("error", err.Error()))
		return nil, err
	}
	if err := checkAuthResult(res); err != nil {
		return nil, fmt.Errorf("service/auth: login: %w", err)
	}

	s.logger.Info("user signed in", slog.String("userID", res.UserID))
	return res, nil
}

// Signup is Login for a new account: email, username and password are all
// required.
func (s *AuthService) Signup(ctx context.Context, email, username, password string) (*model.AuthResult, error) {
	email = strings.TrimSpace(email)
	username = strings.TrimSpace(username)
	switch {
	case email == "":
		return nil, apperror.ValidationFailed("email", "email is required")
	case username == "":
		return nil, apperror.ValidationFailed("username", "username is required")
	case password == "":
		return nil, apperror.ValidationFailed("password", "password is required")
	}

	res, err := s.backend("").Signup(ctx, email, password, username)
	if err != nil {
		s.logger.Error("signup failed", slog.String("email", email), slog.String("error", err.Error()))
		return nil, err
	}
	if err := checkAuthResult(res); err != nil {
		return nil, fmt.Errorf("service/auth: signup: %w", err)
	}

	s.logger.Info("user signed up", slog.String("userID", res.UserID), slog.String("username", username))
	return res, nil
}

// checkAuthResult rejects a 2xx answer that did not carry both values the
// session needs.
func checkAuthResult(res *model.AuthResult) error {
	if res == nil || res.Token == "" || res.UserID == "" {
		return apperror.Upstream(0, "backend did not return a token and user id")
	}
	return nil
}
