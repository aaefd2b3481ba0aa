package model

import "time"

// Issue belongs to one repository. The creator is implicit on the backend.
type Issue struct {
	ID          string    `json:"_id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Repository  string    `json:"repository"`
	CreatedAt   time.Time `json:"createdAt"`
}

// ShortID is the "#xxxx" label shown in issue lists.
func (i Issue) ShortID() string {
	if len(i.ID) <= 4 {
		return i.ID
	}
	return i.ID[len(i.ID)-4:]
}

// NewIssue is the payload of POST /issue/create/:repoId.
type NewIssue struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}
