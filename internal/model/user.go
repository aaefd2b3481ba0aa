// Package model defines the records mirrored from the backend API.
//
// The client never owns these records: they are transient, possibly stale
// copies of server state. The JSON tags follow the backend's document
// layout (Mongo-style "_id" keys), and the custom decoders absorb the two
// shapes a reference can take on the wire: a bare id string, or a populated
// object.
package model

import (
	"bytes"
	"encoding/json"
	"slices"
)

// User is a platform account.
//
// Followers and Following are id sets. The backend sometimes populates them
// with whole user objects and sometimes sends plain ids; IDList flattens both
// to ids so the rest of the code only ever compares strings.
type User struct {
	ID        string       `json:"_id"`
	Username  string       `json:"username"`
	Email     string       `json:"email"`
	Bio       string       `json:"bio"`
	Followers IDList       `json:"followers"`
	Following IDList       `json:"followedUsers"`
	StarRepos []Repository `json:"starRepos"`
}

// UnmarshalJSON accepts either a user object or a bare id string.
func (u *User) UnmarshalJSON(data []byte) error {
	if id, ok := bareID(data); ok {
		*u = User{ID: id}
		return nil
	}
	type plain User
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*u = User(p)
	return nil
}

// IsFollowedBy reports whether userID is in the followers set.
func (u *User) IsFollowedBy(userID string) bool {
	return userID != "" && u.Followers.Contains(userID)
}

// DisplayName falls back to "user" when the owner was not populated.
func (u *User) DisplayName() string {
	if u.Username == "" {
		return "user"
	}
	return u.Username
}

// IDList is a set of user ids kept in server order.
type IDList []string

// UnmarshalJSON flattens a mixed array of id strings and {"_id": ...} objects.
func (l *IDList) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		*l = nil
		return nil
	}
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	ids := make(IDList, 0, len(raw))
	for _, item := range raw {
		if id, ok := bareID(item); ok {
			ids = append(ids, id)
			continue
		}
		var ref struct {
			ID string `json:"_id"`
		}
		if err := json.Unmarshal(item, &ref); err != nil {
			return err
		}
		if ref.ID != "" {
			ids = append(ids, ref.ID)
		}
	}
	*l = ids
	return nil
}

func (l IDList) Contains(id string) bool {
	return slices.Contains(l, id)
}

// Without returns a copy of l with every occurrence of id removed.
func (l IDList) Without(id string) IDList {
	out := make(IDList, 0, len(l))
	for _, v := range l {
		if v != id {
			out = append(out, v)
		}
	}
	return out
}

// With returns a copy of l with id appended.
func (l IDList) With(id string) IDList {
	out := make(IDList, len(l), len(l)+1)
	copy(out, l)
	return append(out, id)
}

// bareID reports whether data is a JSON string and returns it.
func bareID(data []byte) (string, bool) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || data[0] != '"' {
		return "", false
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return "", false
	}
	return s, true
}
