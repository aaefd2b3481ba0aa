package service

import (
	"context"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/sakif/gitorbit/internal/apperror"
	"github.com/sakif/gitorbit/internal/model"
)

// Dashboard is the view state of the home page: the feed of every
// repository and the sidebar of the visitor's own.
type Dashboard struct {
	Feed []model.Repository
	Mine []model.Repository
}

// ToggleStargazer flips userID's membership in the stargazers of repoID
// wherever that repository appears, and reports whether userID is now a
// stargazer. Applying it twice restores the original membership.
func (d *Dashboard) ToggleStargazer(repoID, userID string) bool {
	starred := !d.isStarred(repoID, userID)
	patch := func(repos []model.Repository) {
		for i := range repos {
			if repos[i].ID != repoID {
				continue
			}
			if starred {
				repos[i].Stargazers = repos[i].Stargazers.With(userID)
			} else {
				repos[i].Stargazers = repos[i].Stargazers.Without(userID)
			}
		}
	}
	patch(d.Feed)
	patch(d.Mine)
	return starred
}

func (d *Dashboard) isStarred(repoID, userID string) bool {
	for _, r := range d.Feed {
		if r.ID == repoID {
			return r.IsStarredBy(userID)
		}
	}
	for _, r := range d.Mine {
		if r.ID == repoID {
			return r.IsStarredBy(userID)
		}
	}
	return false
}

// IsFollowing reports whether userID follows ownerID according to the first
// feed card owned by ownerID.
func (d *Dashboard) IsFollowing(ownerID, userID string) bool {
	for _, r := range d.Feed {
		if r.Owner.ID == ownerID {
			return r.Owner.IsFollowedBy(userID)
		}
	}
	return false
}

// SetFollowing adds or removes userID from the followers of ownerID on every
// feed card that ownerID owns.
func (d *Dashboard) SetFollowing(ownerID, userID string, following bool) {
	for i := range d.Feed {
		owner := &d.Feed[i].Owner
		if owner.ID != ownerID {
			continue
		}
		if following {
			owner.Followers = owner.Followers.With(userID)
		} else {
			owner.Followers = owner.Followers.Without(userID)
		}
	}
}

// DashboardService loads the home page and applies its two actions.
type DashboardService struct {
	backend Backend
	logger  *slog.Logger
}

func NewDashboardService(backend Backend, logger *slog.Logger) *DashboardService {
	return &DashboardService{backend: backend, logger: logger}
}

// Load fetches the feed and the visitor's repositories concurrently.
func (s *DashboardService) Load(ctx context.Context, sess *model.Session) (*Dashboard, error) {
	api, err := s.backend.session(sess)
	if err != nil {
		return nil, err
	}
	var d Dashboard

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		repos, err := api.ListRepositories(gctx)
		d.Feed = repos
		return err
	})
	g.Go(func() error {
		repos, err := api.ListUserRepositories(gctx, sess.UserID)
		d.Mine = repos
		return err
	})
	if err := g.Wait(); err != nil {
		s.logger.Error("loading dashboard",
			slog.String("userID", sess.UserID),
			slog.String("error", err.Error()),
		)
		return nil, err
	}
	return &d, nil
}

// ToggleStar loads the dashboard, sends the star toggle for repoID and, once
// the backend accepted it, flips the visitor in that repository's
// stargazers. On failure the loaded dashboard comes back unpatched together
// with the error.
func (s *DashboardService) ToggleStar(ctx context.Context, sess *model.Session, repoID string) (*Dashboard, error) {
	d, err := s.Load(ctx, sess)
	if err != nil {
		return nil, err
	}

	if err := s.backend(sess.Token).ToggleStar(ctx, repoID, sess.UserID); err != nil {
		s.logger.Error("toggling star",
			slog.String("repoID", repoID),
			slog.String("error", err.Error()),
		)
		return d, err
	}

	starred := d.ToggleStargazer(repoID, sess.UserID)
	s.logger.Info("star toggled",
		slog.String("repoID", repoID),
		slog.Bool("starred", starred),
	)
	return d, nil
}

// ToggleFollow follows or unfollows the owner of feed cards, then patches
// every card of that owner.
func (s *DashboardService) ToggleFollow(ctx context.Context, sess *model.Session, ownerID string) (*Dashboard, error) {
	if _, err := s.backend.session(sess); err != nil {
		return nil, err
	}
	if ownerID == sess.UserID {
		return nil, apperror.ValidationFailed("user", "you cannot follow yourself")
	}

	d, err := s.Load(ctx, sess)
	if err != nil {
		return nil, err
	}

	following := d.IsFollowing(ownerID, sess.UserID)
	if err := follow(ctx, s.backend(sess.Token), ownerID, sess.UserID, following); err != nil {
		s.logger.Error("toggling follow",
			slog.String("targetID", ownerID),
			slog.String("error", err.Error()),
		)
		return d, err
	}

	d.SetFollowing(ownerID, sess.UserID, !following)
	return d, nil
}
