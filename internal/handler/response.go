package handler

// RESPONSE HELPERS:
// Every page handler ends in one of three ways:
//   h.show(...)     → render a page (with an optional notification)
//   h.fail(...)     → a load failed: log it, then render the error page
//   http.Redirect   → after sign in, sign out or repository creation
//
// ERROR MAPPING:
// The service layer returns apperror values; statusFor turns them into HTTP
// status codes. This is the only place that knows about both.

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/sakif/gitorbit/internal/apperror"
	"github.com/sakif/gitorbit/internal/auth"
)

// Pages bundles what every page handler needs to respond.
type Pages struct {
	render   *Renderer
	sessions *auth.Sessions
	logger   *slog.Logger
}

func NewPages(render *Renderer, sessions *auth.Sessions, logger *slog.Logger) Pages {
	return Pages{render: render, sessions: sessions, logger: logger}
}

// show renders a page. When flash is nil the one queued by a previous
// redirect, if any, is shown instead.
func (p Pages) show(w http.ResponseWriter, r *http.Request, status int, name, title string, data any, flash *Flash) {
	if flash == nil {
		flash = popFlash(w, r)
	}
	sess, _ := auth.SessionFromContext(r.Context())
	p.render.Render(w, status, name, Page{
		Title:   title,
		Session: sess,
		Flash:   flash,
		Data:    data,
	})
}

// errorPage is the data of the error template.
type errorPage struct {
	Status  int
	Message string
}

// fail handles an error from loading a page's core resource.
//
// A backend answering 401 to the session's token means the stored
// credential is useless, so the session is ended and the browser sent to
// sign in again. Anything else renders the error page: 404 when the
// resource does not exist, 502 when the backend failed or was unreachable.
func (p Pages) fail(w http.ResponseWriter, r *http.Request, err error, what string) {
	if apperror.StatusOf(err) == http.StatusUnauthorized {
		if endErr := p.sessions.End(r.Context(), w, r); endErr != nil {
			p.logger.Error("ending rejected session", slog.String("error", endErr.Error()))
		}
		setFlash(w, flashError("Your session has expired. Please sign in again."))
		http.Redirect(w, r, auth.LoginPath, http.StatusSeeOther)
		return
	}

	status := statusFor(err)
	msg := apperror.MessageOf(err, "Something went wrong.")
	switch status {
	case http.StatusNotFound:
		msg = what + " not found."
	case http.StatusBadGateway:
		msg = "Failed to load " + what + ". " + msg
	}

	p.logger.Error("page failed",
		slog.String("path", r.URL.Path),
		slog.Int("status", status),
		slog.String("error", err.Error()),
	)
	p.show(w, r, status, "error", what, errorPage{Status: status, Message: msg}, nil)
}

// statusFor maps a domain error to the status of the page that reports it.
func statusFor(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, apperror.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, apperror.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, apperror.ErrForbidden), apperror.StatusOf(err) == http.StatusForbidden:
		return http.StatusForbidden
	case errors.Is(err, apperror.ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, apperror.ErrConflict):
		return http.StatusConflict
	case errors.Is(err, apperror.ErrUpstream), errors.Is(err, apperror.ErrTransport):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// writeJSON sends a JSON response with the given status code.
//
// HEADER ORDER MATTERS:
// Headers and status must be set before the body: once Encode writes, the
// headers are on the wire and later changes are silently ignored.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			slog.Error("failed to encode JSON response", slog.String("error", err.Error()))
		}
	}
}

// HandleHealth answers the liveness check. It is mounted outside the guard.
func HandleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
