package service

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/sakif/gitorbit/internal/apperror"
	"github.com/sakif/gitorbit/internal/model"
)

// =========================================================================
// FAKE BACKEND
// =========================================================================
//
// fakeAPI is an in-memory stand-in for the remote backend. It keeps just
// enough state for the pages to load, records every write it receives, and
// can be told to fail a named call.

type fakeAPI struct {
	mu sync.Mutex

	repos  map[string]*model.Repository
	order  []string
	users  map[string]*model.User
	issues map[string][]model.Issue
	files  map[string]model.FileContent // key: repoID + ":" + path

	auth *model.AuthResult

	fail  map[string]error
	calls []string
	nextN int

	// hooks run inside a call, outside the lock, with the 1-based number of
	// that call. GetRepository runs its hook after reading the stored state,
	// UploadFile before changing it.
	hooks map[string]func(n int)
	seen  map[string]int
}

func newFakeAPI() *fakeAPI {
	return &fakeAPI{
		repos:  map[string]*model.Repository{},
		users:  map[string]*model.User{},
		issues: map[string][]model.Issue{},
		files:  map[string]model.FileContent{},
		fail:   map[string]error{},
		hooks:  map[string]func(int){},
		seen:   map[string]int{},
	}
}

func (f *fakeAPI) backend() Backend {
	return func(string) API { return f }
}

func (f *fakeAPI) addUser(u model.User) {
	f.users[u.ID] = &u
}

func (f *fakeAPI) addRepo(r model.Repository) {
	f.repos[r.ID] = &r
	f.order = append(f.order, r.ID)
}

// record notes the call and returns the injected failure for it, if any.
func (f *fakeAPI) record(name string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, name)
	return f.fail[name]
}

func (f *fakeAPI) runHook(name string) {
	f.mu.Lock()
	f.seen[name]++
	n, hook := f.seen[name], f.hooks[name]
	f.mu.Unlock()
	if hook != nil {
		hook(n)
	}
}

func (f *fakeAPI) called(name string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.calls {
		if c == name {
			n++
		}
	}
	return n
}

func (f *fakeAPI) Login(_ context.Context, email, password string) (*model.AuthResult, error) {
	if err := f.record("Login"); err != nil {
		return nil, err
	}
	return f.auth, nil
}

func (f *fakeAPI) Signup(_ context.Context, email, password, username string) (*model.AuthResult, error) {
	if err := f.record("Signup"); err != nil {
		return nil, err
	}
	return f.auth, nil
}

func (f *fakeAPI) ListRepositories(context.Context) ([]model.Repository, error) {
	if err := f.record("ListRepositories"); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]model.Repository, 0, len(f.order))
	for _, id := range f.order {
		out = append(out, *f.repos[id])
	}
	return out, nil
}

func (f *fakeAPI) ListUserRepositories(_ context.Context, userID string) ([]model.Repository, error) {
	if err := f.record("ListUserRepositories"); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []model.Repository
	for _, id := range f.order {
		if f.repos[id].Owner.ID == userID {
			out = append(out, *f.repos[id])
		}
	}
	return out, nil
}

func (f *fakeAPI) GetRepository(_ context.Context, id string) (*model.Repository, error) {
	if err := f.record("GetRepository"); err != nil {
		return nil, err
	}
	f.mu.Lock()
	r, ok := f.repos[id]
	if !ok {
		f.mu.Unlock()
		return nil, apperror.Upstream(404, "repository not found")
	}
	cp := *r
	cp.Content = append([]model.ContentEntry(nil), r.Content...)
	f.mu.Unlock()

	f.runHook("GetRepository")
	return &cp, nil
}

func (f *fakeAPI) CreateRepository(_ context.Context, repo model.NewRepository) (string, error) {
	if err := f.record("CreateRepository"); err != nil {
		return "", err
	}
	f.mu.Lock()
	f.nextN++
	id := fmt.Sprintf("repo-%d", f.nextN)
	f.mu.Unlock()
	f.addRepo(model.Repository{
		ID:          id,
		Name:        repo.Name,
		Description: repo.Description,
		Public:      repo.Public,
		Owner:       model.User{ID: repo.Owner},
	})
	return id, nil
}

// ToggleStar does not touch the stored repository: the pages must patch
// their own state, which is what these tests check.
func (f *fakeAPI) ToggleStar(_ context.Context, repoID, userID string) error {
	return f.record("ToggleStar")
}

func (f *fakeAPI) UploadFile(_ context.Context, repoID, filename, dir string, content io.Reader) error {
	if err := f.record("UploadFile"); err != nil {
		return err
	}
	f.runHook("UploadFile")
	if _, err := io.Copy(io.Discard, content); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	r := f.repos[repoID]
	p := filename
	if dir != "" {
		p = dir + "/" + filename
	}
	r.Content = append(r.Content, model.ContentEntry{Kind: model.KindFile, Name: filename, Path: p})
	return nil
}

func (f *fakeAPI) GetFileContent(_ context.Context, repoID, path string) (*model.FileContent, error) {
	if err := f.record("GetFileContent"); err != nil {
		return nil, err
	}
	fc, ok := f.files[repoID+":"+path]
	if !ok {
		return nil, apperror.Upstream(404, "file not found")
	}
	return &fc, nil
}

func (f *fakeAPI) ListIssues(_ context.Context, repoID string) ([]model.Issue, error) {
	if err := f.record("ListIssues"); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]model.Issue(nil), f.issues[repoID]...), nil
}

func (f *fakeAPI) CreateIssue(_ context.Context, repoID string, in model.NewIssue) (*model.Issue, error) {
	if err := f.record("CreateIssue"); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextN++
	issue := model.Issue{
		ID:          fmt.Sprintf("issue-%04d", f.nextN),
		Title:       in.Title,
		Description: in.Description,
		Repository:  repoID,
	}
	return &issue, nil
}

func (f *fakeAPI) GetProfile(_ context.Context, userID string) (*model.User, error) {
	if err := f.record("GetProfile"); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[userID]
	if !ok {
		return nil, apperror.Upstream(404, "user not found")
	}
	cp := *u
	return &cp, nil
}

func (f *fakeAPI) UpdateProfile(_ context.Context, userID string, upd model.ProfileUpdate) (*model.User, error) {
	if err := f.record("UpdateProfile"); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	u := f.users[userID]
	u.Email = upd.Email
	u.Bio = upd.Bio
	cp := *u
	return &cp, nil
}

func (f *fakeAPI) Follow(_ context.Context, targetID, currentUserID string) error {
	return f.record("Follow")
}

func (f *fakeAPI) Unfollow(_ context.Context, targetID, currentUserID string) error {
	return f.record("Unfollow")
}
