// Run with: go test ./internal/apperror/ -v
package apperror

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

// TABLE-DRIVEN TESTS:
// Each case checks that errors.Is() identifies the error family, including
// through the extra wrapping the API client adds with fmt.Errorf("%w").
func TestErrorsIs(t *testing.T) {
	tests := []struct {
		name      string
		err       error
		target    error
		wantMatch bool
	}{
		{
			name:      "NotFound wraps ErrNotFound",
			err:       NotFound("repository", "abc123"),
			target:    ErrNotFound,
			wantMatch: true,
		},
		{
			name:      "ValidationFailed wraps ErrValidation",
			err:       ValidationFailed("name", "name is required"),
			target:    ErrValidation,
			wantMatch: true,
		},
		{
			name:      "Unauthorized wraps ErrUnauthorized",
			err:       Unauthorized("sign in first"),
			target:    ErrUnauthorized,
			wantMatch: true,
		},
		{
			name:      "Upstream 500 matches ErrUpstream",
			err:       Upstream(http.StatusInternalServerError, ""),
			target:    ErrUpstream,
			wantMatch: true,
		},
		{
			name:      "Upstream 404 matches ErrNotFound",
			err:       Upstream(http.StatusNotFound, "Repository not found"),
			target:    ErrNotFound,
			wantMatch: true,
		},
		{
			name:      "Upstream 403 matches ErrUnauthorized",
			err:       Upstream(http.StatusForbidden, ""),
			target:    ErrUnauthorized,
			wantMatch: true,
		},
		{
			name:      "Upstream 500 does NOT match ErrNotFound",
			err:       Upstream(http.StatusInternalServerError, ""),
			target:    ErrNotFound,
			wantMatch: false,
		},
		{
			name:      "Transport matches ErrTransport through extra wrapping",
			err:       fmt.Errorf("apiclient: get repository: %w", Transport("get repository", errors.New("connection refused"))),
			target:    ErrTransport,
			wantMatch: true,
		},
		{
			name:      "NotFound does NOT match ErrValidation",
			err:       NotFound("repository", "abc123"),
			target:    ErrValidation,
			wantMatch: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := errors.Is(tt.err, tt.target)
			if got != tt.wantMatch {
				t.Errorf("errors.Is(%v, %v) = %v, want %v", tt.err, tt.target, got, tt.wantMatch)
			}
		})
	}
}

func TestErrorMessages(t *testing.T) {
	tests := []struct {
		name        string
		err         *AppError
		wantMessage string
	}{
		{
			name:        "NotFound message includes resource and id",
			err:         NotFound("repository", "abc123"),
			wantMessage: "repository not found with id abc123",
		},
		{
			name:        "ValidationFailed uses custom message",
			err:         ValidationFailed("name", "Repository name is required"),
			wantMessage: "Repository name is required",
		},
		{
			name:        "Upstream keeps the backend message",
			err:         Upstream(http.StatusBadRequest, "User already exists"),
			wantMessage: "User already exists",
		},
		{
			name:        "Upstream without message falls back to the status",
			err:         Upstream(http.StatusBadGateway, ""),
			wantMessage: "backend returned status 502",
		},
		{
			name:        "Transport names the operation",
			err:         Transport("login", errors.New("dial tcp: refused")),
			wantMessage: "login: backend unreachable",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.wantMessage {
				t.Errorf("Error() = %q, want %q", got, tt.wantMessage)
			}
		})
	}
}

func TestUnwrap(t *testing.T) {
	err := NotFound("repository", "abc123")
	unwrapped := err.Unwrap()

	if unwrapped != ErrNotFound {
		t.Errorf("Unwrap() = %v, want %v", unwrapped, ErrNotFound)
	}
}

func TestValidationFailedField(t *testing.T) {
	err := ValidationFailed("email", "Please fill in all fields")

	if err.Field != "email" {
		t.Errorf("Field = %q, want %q", err.Field, "email")
	}
}

func TestStatusAndMessageOf(t *testing.T) {
	wrapped := fmt.Errorf("loading profile: %w", Upstream(http.StatusNotFound, "User not found!"))

	if got := StatusOf(wrapped); got != http.StatusNotFound {
		t.Errorf("StatusOf() = %d, want %d", got, http.StatusNotFound)
	}
	if got := MessageOf(wrapped, "fallback"); got != "User not found!" {
		t.Errorf("MessageOf() = %q, want %q", got, "User not found!")
	}
	if got := MessageOf(errors.New("plain"), "fallback"); got != "fallback" {
		t.Errorf("MessageOf(plain) = %q, want %q", got, "fallback")
	}
	if got := StatusOf(errors.New("plain")); got != 0 {
		t.Errorf("StatusOf(plain) = %d, want 0", got)
	}
}
