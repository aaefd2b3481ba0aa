package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/sakif/gitorbit/internal/auth"
	"github.com/sakif/gitorbit/internal/model"
	"github.com/sakif/gitorbit/internal/service"
)

// DashboardHandler serves the home page and its star action.
type DashboardHandler struct {
	Pages
	dash *service.DashboardService
}

func NewDashboardHandler(p Pages, svc *service.DashboardService) *DashboardHandler {
	return &DashboardHandler{Pages: p, dash: svc}
}

type trendingRepo struct {
	Name    string
	Summary string
	Stars   string
}

// trending is a fixed showcase panel; there is no backend endpoint for it.
var trending = []trendingRepo{
	{Name: "facebook/react", Summary: "A declarative, efficient, and flexible JavaScript library for building user interfaces.", Stars: "200k"},
	{Name: "vuejs/vue", Summary: "The Progressive JavaScript Framework.", Stars: "190k"},
	{Name: "angular/angular", Summary: "One framework. Mobile & desktop.", Stars: "80k"},
}

type dashboardPage struct {
	Feed        []model.Repository
	Sidebar     []model.Repository
	MoreSidebar bool
	Query       string // ?q=, filters the feed
	Find        string // ?find=, filters the sidebar
	Trending    []trendingRepo
}

// newDashboardPage applies the two name filters and the sidebar paging to
// the loaded dashboard.
func newDashboardPage(d *service.Dashboard, r *http.Request) dashboardPage {
	q := r.URL.Query()
	p := dashboardPage{
		Feed:     service.FilterByName(d.Feed, q.Get("q")),
		Query:    q.Get("q"),
		Find:     q.Get("find"),
		Trending: trending,
	}
	mine := service.FilterByName(d.Mine, p.Find)
	if q.Get("more") == "1" {
		p.Sidebar = mine
	} else {
		p.Sidebar, p.MoreSidebar = service.FirstPage(mine, service.SidebarPageSize)
	}
	return p
}

// Show handles GET /.
func (h *DashboardHandler) Show(w http.ResponseWriter, r *http.Request) {
	sess, _ := auth.SessionFromContext(r.Context())
	d, err := h.dash.Load(r.Context(), sess)
	if err != nil {
		h.fail(w, r, err, "Dashboard")
		return
	}
	h.show(w, r, http.StatusOK, "dashboard", "Dashboard", newDashboardPage(d, r), nil)
}

// Star handles POST /repo/{id}/star and renders the dashboard with the star
// applied, or unchanged plus a notification when the backend refused.
func (h *DashboardHandler) Star(w http.ResponseWriter, r *http.Request) {
	sess, _ := auth.SessionFromContext(r.Context())
	d, err := h.dash.ToggleStar(r.Context(), sess, chi.URLParam(r, "id"))
	h.afterAction(w, r, d, err, "Failed to update star.")
}

// Follow handles a follow button on a feed card.
func (h *DashboardHandler) Follow(w http.ResponseWriter, r *http.Request) {
	sess, _ := auth.SessionFromContext(r.Context())
	d, err := h.dash.ToggleFollow(r.Context(), sess, chi.URLParam(r, "id"))
	h.afterAction(w, r, d, err, "Failed to update follow status.")
}

func (h *DashboardHandler) afterAction(w http.ResponseWriter, r *http.Request, d *service.Dashboard, err error, failMsg string) {
	if d == nil {
		h.fail(w, r, err, "Dashboard")
		return
	}
	if err != nil {
		h.show(w, r, statusFor(err), "dashboard", "Dashboard", newDashboardPage(d, r), flashError(failMsg))
		return
	}
	h.show(w, r, http.StatusOK, "dashboard", "Dashboard", newDashboardPage(d, r), nil)
}
