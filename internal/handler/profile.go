package handler

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/sakif/gitorbit/internal/apperror"
	"github.com/sakif/gitorbit/internal/auth"
	"github.com/sakif/gitorbit/internal/service"
)

// ProfileHandler serves user pages, the follow button and bio edits.
type ProfileHandler struct {
	Pages
	profiles *service.ProfileService
}

func NewProfileHandler(p Pages, svc *service.ProfileService) *ProfileHandler {
	return &ProfileHandler{Pages: p, profiles: svc}
}

type profilePage struct {
	Profile *service.Profile
	Tab     string // "repositories" or "stars"
}

func profileTab(r *http.Request) string {
	if r.URL.Query().Get("tab") == "stars" {
		return "stars"
	}
	return "repositories"
}

// Show handles GET /user/{id}?tab=repositories|stars.
func (h *ProfileHandler) Show(w http.ResponseWriter, r *http.Request) {
	sess, _ := auth.SessionFromContext(r.Context())
	p, err := h.profiles.Load(r.Context(), sess, chi.URLParam(r, "id"))
	if err != nil {
		h.fail(w, r, err, "User")
		return
	}
	h.show(w, r, http.StatusOK, "profile", p.User.DisplayName(), profilePage{Profile: p, Tab: profileTab(r)}, nil)
}

// Follow handles the follow button of a profile page.
func (h *ProfileHandler) Follow(w http.ResponseWriter, r *http.Request) {
	sess, _ := auth.SessionFromContext(r.Context())
	p, err := h.profiles.ToggleFollow(r.Context(), sess, chi.URLParam(r, "id"))
	var done *Flash
	if err == nil && p != nil {
		done = flashSuccess("Unfollowed user")
		if p.Following {
			done = flashSuccess("Followed user")
		}
	}
	h.afterAction(w, r, p, err, "Failed to update follow status.", done)
}

// UpdateProfile handles POST /user/{id}/profile (field: bio).
func (h *ProfileHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	sess, _ := auth.SessionFromContext(r.Context())
	p, err := h.profiles.UpdateBio(r.Context(), sess, chi.URLParam(r, "id"), r.PostFormValue("bio"))
	if errors.Is(err, apperror.ErrValidation) && p == nil {
		h.redirectWithError(w, r, apperror.MessageOf(err, "Invalid profile."))
		return
	}
	h.afterAction(w, r, p, err, "Failed to update profile.", flashSuccess("Profile updated."))
}

func (h *ProfileHandler) afterAction(w http.ResponseWriter, r *http.Request, p *service.Profile, err error, failMsg string, ok *Flash) {
	if p == nil {
		h.fail(w, r, err, "User")
		return
	}
	page := profilePage{Profile: p, Tab: "repositories"}
	if err != nil {
		h.show(w, r, statusFor(err), "profile", p.User.DisplayName(), page, flashError(failMsg))
		return
	}
	h.show(w, r, http.StatusOK, "profile", p.User.DisplayName(), page, ok)
}

func (h *ProfileHandler) redirectWithError(w http.ResponseWriter, r *http.Request, msg string) {
	setFlash(w, flashError(msg))
	http.Redirect(w, r, "/user/"+chi.URLParam(r, "id"), http.StatusSeeOther)
}

// FollowFrom routes POST /user/{id}/follow: a form carrying from=dashboard
// came from a feed card and gets the dashboard back, anything else came from
// the profile page.
func FollowFrom(dash *DashboardHandler, profiles *ProfileHandler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.PostFormValue("from") == "dashboard" {
			dash.Follow(w, r)
			return
		}
		profiles.Follow(w, r)
	}
}
