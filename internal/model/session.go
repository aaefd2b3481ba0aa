package model

import "time"

// Session is the locally held identity of the signed-in user: the backend
// user id plus the opaque bearer token the backend issued at login.
//
// It is never validated for expiry on this side. The backend decides.
type Session struct {
	ID        string    `json:"id"        db:"id"`
	UserID    string    `json:"userId"    db:"user_id"`
	Token     string    `json:"-"         db:"token"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}

// Credentials is the payload of POST /login and POST /signup. Username is
// only sent on signup.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Username string `json:"username,omitempty"`
}

// AuthResult is what /login and /signup answer with.
type AuthResult struct {
	Token  string `json:"token"`
	UserID string `json:"userId"`
}

// FileContent is the answer of GET /repo/content/:id.
type FileContent struct {
	Content     string `json:"content"`
	DownloadURL string `json:"downloadUrl"`
}

// ProfileUpdate is the payload of PUT /updateProfile/:id.
type ProfileUpdate struct {
	Email string `json:"email"`
	Bio   string `json:"bio"`
}
