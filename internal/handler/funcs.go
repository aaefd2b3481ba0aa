package handler

import (
	"fmt"
	"html/template"
	"time"

	"github.com/sakif/gitorbit/internal/model"
	"github.com/sakif/gitorbit/internal/service"
	"github.com/sakif/gitorbit/internal/viewer"
)

func templateFuncs() template.FuncMap {
	return template.FuncMap{
		"languageColor": viewer.LanguageColor,
		"css":           func(s string) template.CSS { return template.CSS(s) },
		"timeAgo":       func(t time.Time) string { return timeAgo(t, time.Now()) },
		"followLabel":   service.FollowLabel,
		"inc":           func(i int) int { return i + 1 },
		"visibility": func(public bool) string {
			if public {
				return "Public"
			}
			return "Private"
		},
		"ownerName": func(u model.User) string { return u.DisplayName() },
		"starred":   func(r model.Repository, userID string) bool { return r.IsStarredBy(userID) },
		"followed":  func(u model.User, userID string) bool { return u.IsFollowedBy(userID) },
	}
}

// timeAgo renders t relative to now: "just now", "5 minutes ago",
// "yesterday", "3 months ago". The zero time renders as "".
func timeAgo(t, now time.Time) string {
	if t.IsZero() {
		return ""
	}
	d := now.Sub(t)
	switch {
	case d < time.Minute:
		return "just now"
	case d < time.Hour:
		return plural(int(d/time.Minute), "minute")
	case d < 24*time.Hour:
		return plural(int(d/time.Hour), "hour")
	case d < 48*time.Hour:
		return "yesterday"
	case d < 30*24*time.Hour:
		return plural(int(d/(24*time.Hour)), "day")
	case d < 365*24*time.Hour:
		return plural(int(d/(30*24*time.Hour)), "month")
	default:
		return plural(int(d/(365*24*time.Hour)), "year")
	}
}

func plural(n int, unit string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s ago", unit)
	}
	return fmt.Sprintf("%d %ss ago", n, unit)
}
