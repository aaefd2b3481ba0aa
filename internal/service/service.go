// Package service holds the view components' logic: what each page loads,
// how a user action is validated, which write it sends, and how the loaded
// view state is patched afterwards.
//
// THE THREE-LAYER ARCHITECTURE:
//
//	Handler (HTTP layer)     → parses forms, renders templates, sets cookies
//	Service (view logic)     → validates, calls the backend, patches view state
//	API client (remote data) → one HTTP request per call
//
// The service layer never sees an *http.Request. Everything it needs about
// the visitor arrives as a *model.Session, so the same logic can be tested
// with plain Go calls against a fake backend.
//
// ONE WRITE POLICY:
// Every action (star, follow, issue, profile edit) uses confirm-after-success:
// the view state is patched only once the backend accepted the write. When
// the call fails the loaded state is returned untouched along with the error.
package service

import (
	"context"
	"io"

	"github.com/sakif/gitorbit/internal/apperror"
	"github.com/sakif/gitorbit/internal/model"
)

// API is the backend surface the pages use. *apiclient.Client satisfies it.
type API interface {
	Login(ctx context.Context, email, password string) (*model.AuthResult, error)
	Signup(ctx context.Context, email, password, username string) (*model.AuthResult, error)

	ListRepositories(ctx context.Context) ([]model.Repository, error)
	ListUserRepositories(ctx context.Context, userID string) ([]model.Repository, error)
	GetRepository(ctx context.Context, id string) (*model.Repository, error)
	CreateRepository(ctx context.Context, repo model.NewRepository) (string, error)
	ToggleStar(ctx context.Context, repoID, userID string) error
	UploadFile(ctx context.Context, repoID, filename, dir string, content io.Reader) error
	GetFileContent(ctx context.Context, repoID, path string) (*model.FileContent, error)

	ListIssues(ctx context.Context, repoID string) ([]model.Issue, error)
	CreateIssue(ctx context.Context, repoID string, issue model.NewIssue) (*model.Issue, error)

	GetProfile(ctx context.Context, userID string) (*model.User, error)
	UpdateProfile(ctx context.Context, userID string, upd model.ProfileUpdate) (*model.User, error)
	Follow(ctx context.Context, targetID, currentUserID string) error
	Unfollow(ctx context.Context, targetID, currentUserID string) error
}

// Backend returns an API that acts with token as its bearer credential.
// An empty token gives the anonymous client used by login and signup.
type Backend func(token string) API

// session returns the API acting for sess. A missing session or one without
// a token is reported as unauthorized, which the pages answer by sending the
// browser to sign in.
func (b Backend) session(sess *model.Session) (API, error) {
	if sess == nil || sess.Token == "" {
		return nil, apperror.Unauthorized("sign in to continue")
	}
	return b(sess.Token), nil
}

// follow sends the follow or unfollow call that flips the relationship from
// its current state.
func follow(ctx context.Context, api API, targetID, currentUserID string, following bool) error {
	if following {
		return api.Unfollow(ctx, targetID, currentUserID)
	}
	return api.Follow(ctx, targetID, currentUserID)
}

// FollowLabel is the text of the follow button.
func FollowLabel(following bool) string {
	if following {
		return "Following"
	}
	return "Follow"
}
