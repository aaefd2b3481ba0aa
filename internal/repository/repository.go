// Package repository declares the storage interfaces the rest of the app
// depends on. The only durable state this frontend owns is the session table.
package repository

import (
	"context"

	"github.com/sakif/gitorbit/internal/model"
)

// SessionRepository persists signed-in sessions (token + user id) keyed by
// an opaque session id.
type SessionRepository interface {
	CreateSession(ctx context.Context, s *model.Session) error
	GetSession(ctx context.Context, id string) (*model.Session, error)
	DeleteSession(ctx context.Context, id string) error
}
