package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/sakif/gitorbit/internal/apperror"
	"github.com/sakif/gitorbit/internal/model"
	"github.com/sakif/gitorbit/internal/repository"
)

// CookieName is the name of the cookie holding the signed session id.
const CookieName = "session"

// cookieMaxAge keeps the browser cookie for 30 days. The session row itself
// has no expiry.
const cookieMaxAge = 30 * 24 * 60 * 60

// Sessions is the session store as seen from a request: it turns the cookie
// into a stored model.Session, and writes or clears the cookie on sign in and
// sign out.
//
// WHY NOT PUT THE BEARER TOKEN IN THE COOKIE?
// The cookie only names a row in the sessions table. The backend token stays
// on the server, so nothing readable by the browser can be replayed against
// the API directly.
type Sessions struct {
	store  repository.SessionRepository
	tokens *TokenService
	secure bool
	logger *slog.Logger
}

func NewSessions(store repository.SessionRepository, tokens *TokenService, secure bool, logger *slog.Logger) *Sessions {
	return &Sessions{store: store, tokens: tokens, secure: secure, logger: logger}
}

// Current returns the session named by the request's cookie. A missing,
// forged or dangling cookie all read as "not signed in".
func (s *Sessions) Current(r *http.Request) (*model.Session, bool) {
	cookie, err := r.Cookie(CookieName)
	if err != nil || cookie.Value == "" {
		return nil, false
	}

	id, err := s.tokens.Validate(cookie.Value)
	if err != nil {
		s.logger.Debug("rejecting session cookie", slog.String("error", err.Error()))
		return nil, false
	}

	sess, err := s.store.GetSession(r.Context(), id)
	if err != nil {
		if !errors.Is(err, apperror.ErrNotFound) {
			s.logger.Error("loading session",
				slog.String("sessionID", id),
				slog.String("error", err.Error()),
			)
		}
		return nil, false
	}
	return sess, true
}

// Begin stores a new session for userID and token and sets the cookie on w.
// Both values come from a successful login or signup.
func (s *Sessions) Begin(ctx context.Context, w http.ResponseWriter, userID, token string) (*model.Session, error) {
	sess := &model.Session{UserID: userID, Token: token}
	if err := s.store.CreateSession(ctx, sess); err != nil {
		return nil, err
	}

	value, err := s.tokens.Generate(sess.ID)
	if err != nil {
		return nil, fmt.Errorf("auth: signing session cookie: %w", err)
	}

	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    value,
		Path:     "/",
		MaxAge:   cookieMaxAge,
		HttpOnly: true,
		Secure:   s.secure,
		SameSite: http.SameSiteLaxMode,
	})
	return sess, nil
}

// End forgets the request's session and clears the cookie. It is safe to
// call without a session.
func (s *Sessions) End(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	s.clearCookie(w)

	sess, ok := s.Current(r)
	if !ok {
		return nil
	}
	return s.store.DeleteSession(ctx, sess.ID)
}

func (s *Sessions) clearCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   s.secure,
		SameSite: http.SameSiteLaxMode,
	})
}
