package service

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sakif/gitorbit/internal/apperror"
	"github.com/sakif/gitorbit/internal/model"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestLogin_ReturnsTokenAndUser(t *testing.T) {
	api := newFakeAPI()
	api.auth = &model.AuthResult{Token: "tok", UserID: "u1"}
	svc := NewAuthService(api.backend(), testLogger())

	res, err := svc.Login(context.Background(), "a@b.com", "x")
	require.NoError(t, err)
	assert.Equal(t, "tok", res.Token)
	assert.Equal(t, "u1", res.UserID)
}

func TestLogin_MissingFieldsSendNothing(t *testing.T) {
	tests := []struct {
		name, email, password, field string
	}{
		{"no email", "", "x", "email"},
		{"blank email", "   ", "x", "email"},
		{"no password", "a@b.com", "", "password"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			api := newFakeAPI()
			svc := NewAuthService(api.backend(), testLogger())

			_, err := svc.Login(context.Background(), tt.email, tt.password)

			require.ErrorIs(t, err, apperror.ErrValidation)
			var appErr *apperror.AppError
			require.True(t, errors.As(err, &appErr))
			assert.Equal(t, tt.field, appErr.Field)
			assert.Zero(t, api.called("Login"))
		})
	}
}

func TestLogin_BackendRejects(t *testing.T) {
	api := newFakeAPI()
	api.fail["Login"] = apperror.Upstream(401, "invalid credentials")
	svc := NewAuthService(api.backend(), testLogger())

	_, err := svc.Login(context.Background(), "a@b.com", "wrong")
	assert.ErrorIs(t, err, apperror.ErrUnauthorized)
	assert.Equal(t, "invalid credentials", apperror.MessageOf(err, ""))
}

func TestLogin_IncompleteAnswer(t *testing.T) {
	api := newFakeAPI()
	api.auth = &model.AuthResult{Token: "tok"}
	svc := NewAuthService(api.backend(), testLogger())

	_, err := svc.Login(context.Background(), "a@b.com", "x")
	assert.ErrorIs(t, err, apperror.ErrUpstream)
}

func TestSignup_RequiresUsername(t *testing.T) {
	api := newFakeAPI()
	svc := NewAuthService(api.backend(), testLogger())

	_, err := svc.Signup(context.Background(), "a@b.com", "", "x")
	assert.ErrorIs(t, err, apperror.ErrValidation)
	assert.Zero(t, api.called("Signup"))
}

func TestSignup_Success(t *testing.T) {
	api := newFakeAPI()
	api.auth = &model.AuthResult{Token: "tok", UserID: "u9"}
	svc := NewAuthService(api.backend(), testLogger())

	res, err := svc.Signup(context.Background(), "a@b.com", "alice", "x")
	require.NoError(t, err)
	assert.Equal(t, "u9", res.UserID)
	assert.Equal(t, 1, api.called("Signup"))
}
