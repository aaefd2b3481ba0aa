package service

import (
	"context"
	"io"
	"log/slog"
	"path"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/sakif/gitorbit/internal/apperror"
	"github.com/sakif/gitorbit/internal/model"
	"github.com/sakif/gitorbit/internal/viewer"
	"github.com/sakif/gitorbit/internal/viewstate"
)

// RepoDetail is the view state of a repository page.
type RepoDetail struct {
	Repo   *model.Repository
	Issues []model.Issue
}

// FileView is the view state of the file viewer page.
type FileView struct {
	Repo  *model.Repository
	Entry model.ContentEntry
	View  viewer.View
}

// RepoService covers repository creation, the repository page and the file
// viewer.
type RepoService struct {
	backend Backend
	logger  *slog.Logger
}

func NewRepoService(backend Backend, logger *slog.Logger) *RepoService {
	return &RepoService{backend: backend, logger: logger}
}

// Create validates the form and creates a repository owned by the visitor.
// It returns the new repository id. A blank name sends no request.
func (s *RepoService) Create(ctx context.Context, sess *model.Session, name, description string, public bool) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", apperror.ValidationFailed("name", "repository name is required")
	}

	api, err := s.backend.session(sess)
	if err != nil {
		return "", err
	}
	id, err := api.CreateRepository(ctx, model.NewRepository{
		Name:        name,
		Description: strings.TrimSpace(description),
		Public:      public,
		Owner:       sess.UserID,
	})
	if err != nil {
		s.logger.Error("creating repository",
			slog.String("name", name),
			slog.String("error", err.Error()),
		)
		return "", err
	}

	s.logger.Info("repository created", slog.String("id", id), slog.String("name", name))
	return id, nil
}

// Detail fetches the repository and its issues concurrently.
func (s *RepoService) Detail(ctx context.Context, sess *model.Session, id string) (*RepoDetail, error) {
	api, err := s.backend.session(sess)
	if err != nil {
		return nil, err
	}
	var d RepoDetail

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		repo, err := api.GetRepository(gctx, id)
		d.Repo = repo
		return err
	})
	g.Go(func() error {
		issues, err := api.ListIssues(gctx, id)
		d.Issues = issues
		return err
	})
	if err := g.Wait(); err != nil {
		s.logger.Error("loading repository",
			slog.String("repoID", id),
			slog.String("error", err.Error()),
		)
		return nil, err
	}
	return &d, nil
}

// AddIssue validates the issue form, creates the issue and appends the
// created record to the loaded list. Title and description are required.
func (s *RepoService) AddIssue(ctx context.Context, sess *model.Session, repoID, title, description string) (*RepoDetail, error) {
	title = strings.TrimSpace(title)
	description = strings.TrimSpace(description)
	if title == "" {
		return nil, apperror.ValidationFailed("title", "issue title is required")
	}
	if description == "" {
		return nil, apperror.ValidationFailed("description", "issue description is required")
	}

	d, err := s.Detail(ctx, sess, repoID)
	if err != nil {
		return nil, err
	}

	issue, err := s.backend(sess.Token).CreateIssue(ctx, repoID, model.NewIssue{Title: title, Description: description})
	if err != nil {
		s.logger.Error("creating issue",
			slog.String("repoID", repoID),
			slog.String("error", err.Error()),
		)
		return d, err
	}

	d.Issues = append(d.Issues, *issue)
	return d, nil
}

// Upload sends one file into dir of the repository and returns the page with
// the repository re-fetched.
//
// The page's own load and the upload run at the same time. Both loads of the
// repository go through a viewstate.Latest, so whichever order the two
// responses arrive in, the re-fetch issued after the upload is what the page
// shows.
func (s *RepoService) Upload(ctx context.Context, sess *model.Session, repoID, filename, dir string, content io.Reader) (*RepoDetail, error) {
	filename = path.Base(strings.TrimSpace(filename))
	if filename == "" || filename == "." || filename == "/" {
		return nil, apperror.ValidationFailed("file", "choose a file to upload")
	}

	api, err := s.backend.session(sess)
	if err != nil {
		return nil, err
	}
	var (
		latest viewstate.Latest[*model.Repository]
		issues []model.Issue
	)

	g, gctx := errgroup.WithContext(ctx)
	initial := latest.Begin()
	g.Go(func() error {
		repo, err := api.GetRepository(gctx, repoID)
		if err != nil {
			return err
		}
		latest.Commit(initial, repo)
		return nil
	})
	g.Go(func() error {
		var err error
		issues, err = api.ListIssues(gctx, repoID)
		return err
	})
	g.Go(func() error {
		if err := api.UploadFile(gctx, repoID, filename, dir, content); err != nil {
			return err
		}
		refetch := latest.Begin()
		repo, err := api.GetRepository(gctx, repoID)
		if err != nil {
			return err
		}
		latest.Commit(refetch, repo)
		return nil
	})
	if err := g.Wait(); err != nil {
		s.logger.Error("uploading file",
			slog.String("repoID", repoID),
			slog.String("file", filename),
			slog.String("error", err.Error()),
		)
		return nil, err
	}

	repo, _ := latest.Get()
	s.logger.Info("file uploaded", slog.String("repoID", repoID), slog.String("file", filename))
	return &RepoDetail{Repo: repo, Issues: issues}, nil
}

// OpenFile fetches the repository and the content of filePath, and picks how
// the file is shown from its extension.
func (s *RepoService) OpenFile(ctx context.Context, sess *model.Session, repoID, filePath string) (*FileView, error) {
	if filePath == "" {
		return nil, apperror.ValidationFailed("path", "file path is required")
	}

	api, err := s.backend.session(sess)
	if err != nil {
		return nil, err
	}
	var (
		repo    *model.Repository
		content *model.FileContent
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		repo, err = api.GetRepository(gctx, repoID)
		return err
	})
	g.Go(func() error {
		var err error
		content, err = api.GetFileContent(gctx, repoID, filePath)
		return err
	})
	if err := g.Wait(); err != nil {
		s.logger.Error("opening file",
			slog.String("repoID", repoID),
			slog.String("path", filePath),
			slog.String("error", err.Error()),
		)
		return nil, err
	}

	entry, ok := repo.FindFile(filePath)
	if !ok {
		entry = model.ContentEntry{Kind: model.KindFile, Name: path.Base(filePath), Path: filePath}
	}
	return &FileView{
		Repo:  repo,
		Entry: entry,
		View:  viewer.New(entry.Name, content.Content, content.DownloadURL),
	}, nil
}
