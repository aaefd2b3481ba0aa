package handler

import (
	"encoding/base64"
	"net/http"
	"strings"
)

const flashCookie = "flash"

// Flash is a one-shot notification shown at the top of the next page.
type Flash struct {
	Kind    string // "success" or "error"
	Message string
}

func flashSuccess(msg string) *Flash { return &Flash{Kind: "success", Message: msg} }
func flashError(msg string) *Flash   { return &Flash{Kind: "error", Message: msg} }

// setFlash queues f for the page the browser loads next. Used before a
// redirect; a page rendered directly takes its flash in Page.Flash.
func setFlash(w http.ResponseWriter, f *Flash) {
	value := base64.RawURLEncoding.EncodeToString([]byte(f.Kind + "\n" + f.Message))
	http.SetCookie(w, &http.Cookie{
		Name:     flashCookie,
		Value:    value,
		Path:     "/",
		MaxAge:   60,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// popFlash returns the queued flash, if any, and clears it.
func popFlash(w http.ResponseWriter, r *http.Request) *Flash {
	c, err := r.Cookie(flashCookie)
	if err != nil || c.Value == "" {
		return nil
	}
	http.SetCookie(w, &http.Cookie{Name: flashCookie, Value: "", Path: "/", MaxAge: -1})

	raw, err := base64.RawURLEncoding.DecodeString(c.Value)
	if err != nil {
		return nil
	}
	kind, msg, ok := strings.Cut(string(raw), "\n")
	if !ok || (kind != "success" && kind != "error") {
		return nil
	}
	return &Flash{Kind: kind, Message: msg}
}
