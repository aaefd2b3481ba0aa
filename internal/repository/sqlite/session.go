package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/rs/xid"

	"github.com/sakif/gitorbit/internal/apperror"
	"github.com/sakif/gitorbit/internal/model"
	"github.com/sakif/gitorbit/internal/repository"
)

// compile-time check that *DB implements repository.SessionRepository
var _ repository.SessionRepository = (*DB)(nil)

// CreateSession stores a new session and fills in its ID and CreatedAt.
func (db *DB) CreateSession(ctx context.Context, s *model.Session) error {
	if s.UserID == "" || s.Token == "" {
		return apperror.ValidationFailed("session", "session needs a user id and a token")
	}

	s.ID = xid.New().String()
	s.CreatedAt = time.Now().UTC()

	_, err := db.conn.ExecContext(ctx,
		`INSERT INTO sessions (id, user_id, token, created_at) VALUES (?, ?, ?, ?)`,
		s.ID, s.UserID, s.Token, s.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("sqlite: creating session for user %s: %w", s.UserID, err)
	}
	return nil
}

// GetSession returns apperror.ErrNotFound when no session has that id.
func (db *DB) GetSession(ctx context.Context, id string) (*model.Session, error) {
	var s model.Session
	err := db.conn.QueryRowContext(ctx,
		`SELECT id, user_id, token, created_at FROM sessions WHERE id = ?`, id,
	).Scan(&s.ID, &s.UserID, &s.Token, &s.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound("session", id)
		}
		return nil, fmt.Errorf("sqlite: getting session %s: %w", id, err)
	}
	return &s, nil
}

// DeleteSession removes a session. Deleting an unknown id is not an error:
// signing out twice must leave the browser signed out, not show a failure.
func (db *DB) DeleteSession(ctx context.Context, id string) error {
	if _, err := db.conn.ExecContext(ctx, `DELETE FROM sessions WHERE id = ?`, id); err != nil {
		return fmt.Errorf("sqlite: deleting session %s: %w", id, err)
	}
	return nil
}
