package auth

import (
	"context"
	"net/http"

	"github.com/sakif/gitorbit/internal/model"
)

// contextKey is an unexported type used for context keys in this package.
//
// WHY A CUSTOM TYPE FOR CONTEXT KEYS?
// context.WithValue uses any as the key type. A package-private type means
// only this package can create the key, so nothing else can shadow the
// session stored under it.
type contextKey string

const sessionKey contextKey = "session"

// Paths reachable without a session.
const (
	LoginPath  = "/auth"
	SignupPath = "/signup"
)

// Guard is the navigation guard in front of every page.
//
//   - no session, target is /auth or /signup → continue
//   - no session, any other target           → 303 to /auth
//   - session, target is /auth               → 303 to /
//   - session, anything else                 → continue with the session in the context
//
// MIDDLEWARE PATTERN IN GO:
// A middleware takes an http.Handler and returns a new http.Handler that
// wraps it. Chi applies them in a chain: req → M1 → M2 → Handler → M2 → M1 → resp.
//
// The decision is made once per request. A handler that signs the user in or
// out changes the cookie and then redirects, so the next request is judged
// with the new state.
func Guard(sessions *Sessions) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sess, ok := sessions.Current(r)
			public := isPublic(r.URL.Path)

			switch {
			case !ok && !public:
				http.Redirect(w, r, LoginPath, http.StatusSeeOther)
				return
			case ok && r.URL.Path == LoginPath:
				http.Redirect(w, r, "/", http.StatusSeeOther)
				return
			case ok:
				r = r.WithContext(WithSession(r.Context(), sess))
			}
			next.ServeHTTP(w, r)
		})
	}
}

func isPublic(path string) bool {
	return path == LoginPath || path == SignupPath
}

// WithSession returns a copy of ctx carrying sess.
func WithSession(ctx context.Context, sess *model.Session) context.Context {
	return context.WithValue(ctx, sessionKey, sess)
}

// SessionFromContext retrieves the signed-in session from the request context.
//
// Returns (nil, false) on the public pages when nobody is signed in.
//
// Usage in handlers:
//
//	sess, ok := auth.SessionFromContext(r.Context())
//	if !ok {
//	    // anonymous request
//	}
func SessionFromContext(ctx context.Context) (*model.Session, bool) {
	sess, ok := ctx.Value(sessionKey).(*model.Session)
	return sess, ok && sess != nil
}
