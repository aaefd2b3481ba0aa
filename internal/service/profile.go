package service

import (
	"context"
	"log/slog"
	"strings"
	"unicode/utf8"

	"golang.org/x/sync/errgroup"

	"github.com/sakif/gitorbit/internal/apperror"
	"github.com/sakif/gitorbit/internal/model"
)

// MaxBioLength bounds the bio textarea.
const MaxBioLength = 500

// Profile is the view state of a user page.
type Profile struct {
	User  *model.User
	Repos []model.Repository

	// Own is true when the visitor is looking at their own page.
	Own bool
	// Following is true when the visitor follows User.
	Following bool
}

// FollowLabel is the text of the follow button.
func (p *Profile) FollowLabel() string {
	return FollowLabel(p.Following)
}

// ProfileService loads user pages and applies follow and bio edits.
type ProfileService struct {
	backend Backend
	logger  *slog.Logger
}

func NewProfileService(backend Backend, logger *slog.Logger) *ProfileService {
	return &ProfileService{backend: backend, logger: logger}
}

// Load fetches the profile and the user's repositories concurrently.
func (s *ProfileService) Load(ctx context.Context, sess *model.Session, userID string) (*Profile, error) {
	api, err := s.backend.session(sess)
	if err != nil {
		return nil, err
	}
	var p Profile

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		u, err := api.GetProfile(gctx, userID)
		p.User = u
		return err
	})
	g.Go(func() error {
		repos, err := api.ListUserRepositories(gctx, userID)
		p.Repos = repos
		return err
	})
	if err := g.Wait(); err != nil {
		s.logger.Error("loading profile",
			slog.String("userID", userID),
			slog.String("error", err.Error()),
		)
		return nil, err
	}

	p.Own = userID == sess.UserID
	p.Following = p.User.IsFollowedBy(sess.UserID)
	return &p, nil
}

// ToggleFollow follows or unfollows userID and, after the backend confirmed
// it, adds or removes the visitor from the loaded followers.
func (s *ProfileService) ToggleFollow(ctx context.Context, sess *model.Session, userID string) (*Profile, error) {
	if _, err := s.backend.session(sess); err != nil {
		return nil, err
	}
	if userID == sess.UserID {
		return nil, apperror.ValidationFailed("user", "you cannot follow yourself")
	}

	p, err := s.Load(ctx, sess, userID)
	if err != nil {
		return nil, err
	}

	if err := follow(ctx, s.backend(sess.Token), userID, sess.UserID, p.Following); err != nil {
		s.logger.Error("toggling follow",
			slog.String("targetID", userID),
			slog.String("error", err.Error()),
		)
		return p, err
	}

	if p.Following {
		p.User.Followers = p.User.Followers.Without(sess.UserID)
	} else {
		p.User.Followers = p.User.Followers.With(sess.UserID)
	}
	p.Following = !p.Following
	return p, nil
}

// UpdateBio replaces the visitor's bio. The email is sent back unchanged.
func (s *ProfileService) UpdateBio(ctx context.Context, sess *model.Session, userID, bio string) (*Profile, error) {
	if _, err := s.backend.session(sess); err != nil {
		return nil, err
	}
	if userID != sess.UserID {
		return nil, apperror.Forbidden("you can only edit your own profile")
	}
	bio = strings.TrimSpace(bio)
	if utf8.RuneCountInString(bio) > MaxBioLength {
		return nil, apperror.ValidationFailed("bio", "bio is too long")
	}

	p, err := s.Load(ctx, sess, userID)
	if err != nil {
		return nil, err
	}

	updated, err := s.backend(sess.Token).UpdateProfile(ctx, userID, model.ProfileUpdate{
		Email: p.User.Email,
		Bio:   bio,
	})
	if err != nil {
		s.logger.Error("updating profile",
			slog.String("userID", userID),
			slog.String("error", err.Error()),
		)
		return p, err
	}

	p.User.Bio = bio
	if updated != nil && updated.Bio != "" {
		p.User.Bio = updated.Bio
	}
	return p, nil
}
