package handler

import (
	"log/slog"
	"net/http"

	"github.com/sakif/gitorbit/internal/apperror"
	"github.com/sakif/gitorbit/internal/auth"
	"github.com/sakif/gitorbit/internal/service"
)

// AuthHandler serves the sign in, sign up and sign out actions.
//
// HANDLER RESPONSIBILITIES:
//   - ShowLogin / Login   → GET and POST /auth
//   - ShowSignup / Signup → GET and POST /signup
//   - Logout              → POST /logout
//
// On success the backend's token and user id are handed to auth.Sessions,
// which stores them and sets the session cookie. That is the only place the
// signed-in identity is ever set.
type AuthHandler struct {
	Pages
	auth *service.AuthService
}

func NewAuthHandler(p Pages, svc *service.AuthService) *AuthHandler {
	return &AuthHandler{Pages: p, auth: svc}
}

type loginForm struct {
	Email string
}

type signupForm struct {
	Email    string
	Username string
}

func (h *AuthHandler) ShowLogin(w http.ResponseWriter, r *http.Request) {
	h.show(w, r, http.StatusOK, "login", "Sign in", loginForm{}, nil)
}

// Login handles POST /auth.
//
// FLOW:
//  1. Validate the form and call POST /login on the backend
//  2. Store the session and set the cookie
//  3. Redirect to the dashboard with a notification
//
// A failure re-renders the form with the email kept and the backend's
// message, if it sent one.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	email := r.PostFormValue("email")
	res, err := h.auth.Login(r.Context(), email, r.PostFormValue("password"))
	if err != nil {
		h.show(w, r, statusFor(err), "login", "Sign in", loginForm{Email: email},
			flashError(apperror.MessageOf(err, "Sign in failed. Please try again.")))
		return
	}

	if _, err := h.sessions.Begin(r.Context(), w, res.UserID, res.Token); err != nil {
		h.logger.Error("storing session", slog.String("userID", res.UserID), slog.String("error", err.Error()))
		h.show(w, r, http.StatusInternalServerError, "login", "Sign in", loginForm{Email: email},
			flashError("Could not start your session. Please try again."))
		return
	}

	setFlash(w, flashSuccess("Welcome back!"))
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (h *AuthHandler) ShowSignup(w http.ResponseWriter, r *http.Request) {
	h.show(w, r, http.StatusOK, "signup", "Sign up", signupForm{}, nil)
}

// Signup handles POST /signup. Same flow as Login.
func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	form := signupForm{Email: r.PostFormValue("email"), Username: r.PostFormValue("username")}
	res, err := h.auth.Signup(r.Context(), form.Email, form.Username, r.PostFormValue("password"))
	if err != nil {
		h.show(w, r, statusFor(err), "signup", "Sign up", form,
			flashError(apperror.MessageOf(err, "Sign up failed. Please try again.")))
		return
	}

	if _, err := h.sessions.Begin(r.Context(), w, res.UserID, res.Token); err != nil {
		h.logger.Error("storing session", slog.String("userID", res.UserID), slog.String("error", err.Error()))
		h.show(w, r, http.StatusInternalServerError, "signup", "Sign up", form,
			flashError("Could not start your session. Please try again."))
		return
	}

	setFlash(w, flashSuccess("Welcome to GitOrbit!"))
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// Logout handles POST /logout. It always ends up on the sign in page.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.sessions.End(r.Context(), w, r); err != nil {
		h.logger.Error("ending session", slog.String("error", err.Error()))
	}
	setFlash(w, flashSuccess("You have been signed out."))
	http.Redirect(w, r, auth.LoginPath, http.StatusSeeOther)
}
