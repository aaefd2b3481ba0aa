package apiclient

import (
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"

	"github.com/sakif/gitorbit/internal/apperror"
	"github.com/sakif/gitorbit/internal/model"
)

// Login exchanges email and password for a token and user id.
func (c *Client) Login(ctx context.Context, email, password string) (*model.AuthResult, error) {
	var res model.AuthResult
	if _, err := c.doJSON(ctx, "login", http.MethodPost, "/login",
		model.Credentials{Email: email, Password: password}, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// Signup creates an account and returns its token and user id.
func (c *Client) Signup(ctx context.Context, email, password, username string) (*model.AuthResult, error) {
	var res model.AuthResult
	if _, err := c.doJSON(ctx, "signup", http.MethodPost, "/signup",
		model.Credentials{Email: email, Password: password, Username: username}, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// ListRepositories returns every repository (GET /repo/all).
func (c *Client) ListRepositories(ctx context.Context) ([]model.Repository, error) {
	var repos []model.Repository
	if _, err := c.doJSON(ctx, "list repositories", http.MethodGet, "/repo/all", nil, &repos); err != nil {
		return nil, err
	}
	return repos, nil
}

// ListUserRepositories returns the repositories owned by userID.
func (c *Client) ListUserRepositories(ctx context.Context, userID string) ([]model.Repository, error) {
	var res struct {
		Repositories []model.Repository `json:"repositories"`
	}
	if _, err := c.doJSON(ctx, "list user repositories", http.MethodGet,
		"/repo/user/"+url.PathEscape(userID), nil, &res); err != nil {
		return nil, err
	}
	return res.Repositories, nil
}

// GetRepository returns one repository with its owner populated.
func (c *Client) GetRepository(ctx context.Context, id string) (*model.Repository, error) {
	var repo model.Repository
	if _, err := c.doJSON(ctx, "get repository", http.MethodGet, "/repo/"+url.PathEscape(id), nil, &repo); err != nil {
		return nil, err
	}
	return &repo, nil
}

// CreateRepository creates a repository and returns its new id. The backend
// answers 201; any other 2xx is treated as a failure since no id comes back.
func (c *Client) CreateRepository(ctx context.Context, repo model.NewRepository) (string, error) {
	if repo.Content == nil {
		repo.Content = []string{}
	}
	if repo.Issues == nil {
		repo.Issues = []string{}
	}
	var res struct {
		RepositoryID string `json:"repositoryID"`
	}
	status, err := c.doJSON(ctx, "create repository", http.MethodPost, "/repo/create", repo, &res)
	if err != nil {
		return "", err
	}
	if status != http.StatusCreated || res.RepositoryID == "" {
		return "", fmt.Errorf("apiclient: create repository: %w", apperror.Upstream(status, "repository was not created"))
	}
	return res.RepositoryID, nil
}

// ToggleStar stars or unstars a repository for userID.
func (c *Client) ToggleStar(ctx context.Context, repoID, userID string) error {
	body := struct {
		UserID string `json:"userID"`
	}{userID}
	_, err := c.doJSON(ctx, "toggle star", http.MethodPut, "/repo/star/"+url.PathEscape(repoID), body, nil)
	return err
}

// UploadFile sends one file as multipart form data (fields "file" and "path").
func (c *Client) UploadFile(ctx context.Context, repoID, filename, dir string, content io.Reader) error {
	pr, pw := io.Pipe()
	mw := multipart.NewWriter(pw)

	go func() {
		err := func() error {
			if err := mw.WriteField("path", dir); err != nil {
				return err
			}
			part, err := mw.CreateFormFile("file", filename)
			if err != nil {
				return err
			}
			if _, err := io.Copy(part, content); err != nil {
				return err
			}
			return mw.Close()
		}()
		pw.CloseWithError(err)
	}()

	_, err := c.do(ctx, "upload file", http.MethodPost, "/repo/upload/"+url.PathEscape(repoID),
		mw.FormDataContentType(), pr, true, nil)
	// Unblock the writer goroutine if the request ended before reading the body.
	pr.CloseWithError(io.ErrClosedPipe)
	return err
}

// GetFileContent returns the raw content and retrieval URL of one file.
func (c *Client) GetFileContent(ctx context.Context, repoID, path string) (*model.FileContent, error) {
	q := url.Values{"path": {path}}
	var res model.FileContent
	if _, err := c.doJSON(ctx, "get file content", http.MethodGet,
		"/repo/content/"+url.PathEscape(repoID)+"?"+q.Encode(), nil, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// ListIssues returns the issues of a repository.
func (c *Client) ListIssues(ctx context.Context, repoID string) ([]model.Issue, error) {
	var issues []model.Issue
	if _, err := c.doJSON(ctx, "list issues", http.MethodGet, "/issue/all/"+url.PathEscape(repoID), nil, &issues); err != nil {
		return nil, err
	}
	return issues, nil
}

// CreateIssue opens an issue and returns it as created.
func (c *Client) CreateIssue(ctx context.Context, repoID string, issue model.NewIssue) (*model.Issue, error) {
	var created model.Issue
	if _, err := c.doJSON(ctx, "create issue", http.MethodPost, "/issue/create/"+url.PathEscape(repoID), issue, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// GetProfile returns a user with stars and followers populated.
func (c *Client) GetProfile(ctx context.Context, userID string) (*model.User, error) {
	var u model.User
	if _, err := c.doJSON(ctx, "get profile", http.MethodGet, "/userProfile/"+url.PathEscape(userID), nil, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

// UpdateProfile replaces email and bio and returns the updated user.
func (c *Client) UpdateProfile(ctx context.Context, userID string, upd model.ProfileUpdate) (*model.User, error) {
	var u model.User
	if _, err := c.doJSON(ctx, "update profile", http.MethodPut, "/updateProfile/"+url.PathEscape(userID), upd, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

// Follow makes currentUserID follow targetID.
func (c *Client) Follow(ctx context.Context, targetID, currentUserID string) error {
	return c.socialCall(ctx, "follow", "/follow/", targetID, currentUserID)
}

// Unfollow reverses Follow.
func (c *Client) Unfollow(ctx context.Context, targetID, currentUserID string) error {
	return c.socialCall(ctx, "unfollow", "/unfollow/", targetID, currentUserID)
}

func (c *Client) socialCall(ctx context.Context, op, prefix, targetID, currentUserID string) error {
	body := struct {
		CurrentUserID string `json:"currentUserID"`
	}{currentUserID}
	_, err := c.doJSON(ctx, op, http.MethodPost, prefix+url.PathEscape(targetID), body, nil)
	return err
}
