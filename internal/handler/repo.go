package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/sakif/gitorbit/internal/apperror"
	"github.com/sakif/gitorbit/internal/auth"
	"github.com/sakif/gitorbit/internal/service"
)

// MaxUploadSize caps the request body of a file upload.
const MaxUploadSize = 50 << 20

// RepoHandler serves repository creation, the repository page and the file
// viewer.
type RepoHandler struct {
	Pages
	repos *service.RepoService
}

func NewRepoHandler(p Pages, svc *service.RepoService) *RepoHandler {
	return &RepoHandler{Pages: p, repos: svc}
}

type createForm struct {
	Name        string
	Description string
	Public      bool
}

type repoPage struct {
	*service.RepoDetail
	Tab              string // "code" or "issues"
	IssueTitle       string
	IssueDescription string
}

func (h *RepoHandler) ShowCreate(w http.ResponseWriter, r *http.Request) {
	h.show(w, r, http.StatusOK, "create", "New repository", createForm{Public: true}, nil)
}

// Create handles POST /repo/create and redirects to the new repository.
func (h *RepoHandler) Create(w http.ResponseWriter, r *http.Request) {
	sess, _ := auth.SessionFromContext(r.Context())
	form := createForm{
		Name:        r.PostFormValue("name"),
		Description: r.PostFormValue("description"),
		Public:      r.PostFormValue("visibility") != "private",
	}

	id, err := h.repos.Create(r.Context(), sess, form.Name, form.Description, form.Public)
	if err != nil {
		if apperror.StatusOf(err) == http.StatusUnauthorized {
			h.fail(w, r, err, "Repository")
			return
		}
		h.show(w, r, statusFor(err), "create", "New repository", form,
			flashError(apperror.MessageOf(err, "Failed to create repository.")))
		return
	}

	setFlash(w, flashSuccess("Repository created."))
	http.Redirect(w, r, "/repo/"+id, http.StatusSeeOther)
}

// Show handles GET /repo/{id}?tab=code|issues.
func (h *RepoHandler) Show(w http.ResponseWriter, r *http.Request) {
	sess, _ := auth.SessionFromContext(r.Context())
	d, err := h.repos.Detail(r.Context(), sess, chi.URLParam(r, "id"))
	if err != nil {
		h.fail(w, r, err, "Repository")
		return
	}
	h.show(w, r, http.StatusOK, "repo", d.Repo.Name, repoPage{RepoDetail: d, Tab: repoTab(r)}, nil)
}

func repoTab(r *http.Request) string {
	if r.URL.Query().Get("tab") == "issues" {
		return "issues"
	}
	return "code"
}

// CreateIssue handles POST /repo/{id}/issues and shows the issues tab with
// the new issue appended.
func (h *RepoHandler) CreateIssue(w http.ResponseWriter, r *http.Request) {
	sess, _ := auth.SessionFromContext(r.Context())
	id := chi.URLParam(r, "id")
	title, description := r.PostFormValue("title"), r.PostFormValue("description")

	d, err := h.repos.AddIssue(r.Context(), sess, id, title, description)
	if errors.Is(err, apperror.ErrValidation) {
		// Nothing was sent; show the page with the form still filled in.
		var loadErr error
		if d, loadErr = h.repos.Detail(r.Context(), sess, id); loadErr != nil {
			h.fail(w, r, loadErr, "Repository")
			return
		}
		page := repoPage{RepoDetail: d, Tab: "issues", IssueTitle: title, IssueDescription: description}
		h.show(w, r, http.StatusBadRequest, "repo", d.Repo.Name, page, flashError(apperror.MessageOf(err, "Invalid issue.")))
		return
	}
	if d == nil {
		h.fail(w, r, err, "Repository")
		return
	}

	page := repoPage{RepoDetail: d, Tab: "issues"}
	if err != nil {
		page.IssueTitle, page.IssueDescription = title, description
		h.show(w, r, statusFor(err), "repo", d.Repo.Name, page, flashError("Failed to create issue."))
		return
	}
	h.show(w, r, http.StatusOK, "repo", d.Repo.Name, page, flashSuccess("Issue created."))
}

// Upload handles POST /repo/{id}/upload (multipart: file, path).
//
// On success the page shows the repository as re-fetched after the upload.
// On failure the browser goes back to the repository page with a
// notification.
func (h *RepoHandler) Upload(w http.ResponseWriter, r *http.Request) {
	sess, _ := auth.SessionFromContext(r.Context())
	id := chi.URLParam(r, "id")
	back := "/repo/" + id

	r.Body = http.MaxBytesReader(w, r.Body, MaxUploadSize)
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		h.logger.Warn("reading upload", slog.String("repoID", id), slog.String("error", err.Error()))
		setFlash(w, flashError("Upload failed: the file could not be read."))
		http.Redirect(w, r, back, http.StatusSeeOther)
		return
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile("file")
	if err != nil {
		setFlash(w, flashError("Choose a file to upload."))
		http.Redirect(w, r, back, http.StatusSeeOther)
		return
	}
	defer file.Close()

	d, err := h.repos.Upload(r.Context(), sess, id, header.Filename, r.FormValue("path"), file)
	if err != nil {
		if apperror.StatusOf(err) == http.StatusUnauthorized {
			h.fail(w, r, err, "Repository")
			return
		}
		setFlash(w, flashError("Upload failed: "+apperror.MessageOf(err, "please try again.")))
		http.Redirect(w, r, back, http.StatusSeeOther)
		return
	}
	h.show(w, r, http.StatusOK, "repo", d.Repo.Name, repoPage{RepoDetail: d, Tab: "code"}, flashSuccess("File uploaded."))
}

// ShowFile handles GET /repo/{id}/file?path=.
func (h *RepoHandler) ShowFile(w http.ResponseWriter, r *http.Request) {
	sess, _ := auth.SessionFromContext(r.Context())
	fv, err := h.repos.OpenFile(r.Context(), sess, chi.URLParam(r, "id"), r.URL.Query().Get("path"))
	if err != nil {
		h.fail(w, r, err, "File")
		return
	}
	h.show(w, r, http.StatusOK, "file", fv.Entry.Name, fv, nil)
}
