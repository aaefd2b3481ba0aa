package model

import (
	"encoding/json"
	"time"
)

// Repository is a named project container.
//
// The backend spells the stargazer field "startgazers"; both spellings are
// accepted on decode and the canonical one is written on encode.
type Repository struct {
	ID          string         `json:"_id"`
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Public      bool           `json:"visibility"`
	Owner       User           `json:"owner"`
	Language    string         `json:"language"`
	Stargazers  IDList         `json:"stargazers"`
	Content     []ContentEntry `json:"content"`
	CreatedAt   time.Time      `json:"createdAt"`
	UpdatedAt   time.Time      `json:"updatedAt"`
}

// UnmarshalJSON accepts a repository object or a bare id string.
func (r *Repository) UnmarshalJSON(data []byte) error {
	if id, ok := bareID(data); ok {
		*r = Repository{ID: id}
		return nil
	}
	type plain Repository
	var p struct {
		plain
		Startgazers IDList `json:"startgazers"`
	}
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*r = Repository(p.plain)
	if r.Stargazers == nil && p.Startgazers != nil {
		r.Stargazers = p.Startgazers
	}
	return nil
}

// IsStarredBy reports whether userID is a stargazer.
func (r *Repository) IsStarredBy(userID string) bool {
	return userID != "" && r.Stargazers.Contains(userID)
}

// Visibility is the label shown next to the repository name.
func (r *Repository) Visibility() string {
	if r.Public {
		return "Public"
	}
	return "Private"
}

// FindFile looks up a file entry by path.
func (r *Repository) FindFile(path string) (ContentEntry, bool) {
	for _, e := range r.Content {
		if e.Kind == KindFile && e.Path == path {
			return e, true
		}
	}
	return ContentEntry{}, false
}

// NewRepository is the payload of POST /repo/create.
type NewRepository struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Public      bool     `json:"visibility"`
	Owner       string   `json:"owner"`
	Content     []string `json:"content"`
	Issues      []string `json:"issues"`
}
