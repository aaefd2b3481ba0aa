package service

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sakif/gitorbit/internal/apperror"
	"github.com/sakif/gitorbit/internal/model"
)

func newProfileFixture() *fakeAPI {
	api := newFakeAPI()
	api.addUser(model.User{ID: "u1", Username: "alice", Email: "a@b.com"})
	api.addUser(model.User{ID: "u2", Username: "bob", Email: "b@b.com", Bio: "hi"})
	api.addRepo(model.Repository{ID: "r2", Name: "tools", Owner: model.User{ID: "u2"}})
	return api
}

func TestProfileLoad(t *testing.T) {
	api := newProfileFixture()
	svc := NewProfileService(api.backend(), testLogger())

	p, err := svc.Load(context.Background(), u1, "u2")
	require.NoError(t, err)
	assert.Equal(t, "bob", p.User.Username)
	assert.Len(t, p.Repos, 1)
	assert.False(t, p.Own)
	assert.Equal(t, "Follow", p.FollowLabel())

	own, err := svc.Load(context.Background(), u1, "u1")
	require.NoError(t, err)
	assert.True(t, own.Own)
}

func TestProfileLoad_NotFound(t *testing.T) {
	api := newProfileFixture()
	svc := NewProfileService(api.backend(), testLogger())

	_, err := svc.Load(context.Background(), u1, "ghost")
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}

// Following U2 as U1 adds U1 to U2's followers and flips the label.
func TestProfileToggleFollow_Follow(t *testing.T) {
	api := newProfileFixture()
	svc := NewProfileService(api.backend(), testLogger())

	p, err := svc.ToggleFollow(context.Background(), u1, "u2")
	require.NoError(t, err)
	assert.Equal(t, 1, api.called("Follow"))
	assert.True(t, p.User.Followers.Contains("u1"))
	assert.Equal(t, "Following", p.FollowLabel())
}

func TestProfileToggleFollow_Unfollow(t *testing.T) {
	api := newProfileFixture()
	api.users["u2"].Followers = model.IDList{"u1", "u3"}
	svc := NewProfileService(api.backend(), testLogger())

	p, err := svc.ToggleFollow(context.Background(), u1, "u2")
	require.NoError(t, err)
	assert.Equal(t, 1, api.called("Unfollow"))
	assert.Equal(t, model.IDList{"u3"}, p.User.Followers)
	assert.Equal(t, "Follow", p.FollowLabel())
}

func TestProfileToggleFollow_FailureLeavesFollowers(t *testing.T) {
	api := newProfileFixture()
	api.fail["Follow"] = apperror.Upstream(500, "")
	svc := NewProfileService(api.backend(), testLogger())

	p, err := svc.ToggleFollow(context.Background(), u1, "u2")
	require.Error(t, err)
	assert.False(t, p.User.Followers.Contains("u1"))
	assert.Equal(t, "Follow", p.FollowLabel())
}

func TestUpdateBio_KeepsEmail(t *testing.T) {
	api := newProfileFixture()
	svc := NewProfileService(api.backend(), testLogger())

	p, err := svc.UpdateBio(context.Background(), u1, "u1", "  gopher  ")
	require.NoError(t, err)
	assert.Equal(t, "gopher", p.User.Bio)
	assert.Equal(t, "a@b.com", api.users["u1"].Email)
	assert.Equal(t, "gopher", api.users["u1"].Bio)
}

func TestUpdateBio_OnlyOwnProfile(t *testing.T) {
	api := newProfileFixture()
	svc := NewProfileService(api.backend(), testLogger())

	_, err := svc.UpdateBio(context.Background(), u1, "u2", "pwned")
	assert.ErrorIs(t, err, apperror.ErrForbidden)
	assert.Zero(t, api.called("UpdateProfile"))
}

func TestUpdateBio_TooLong(t *testing.T) {
	api := newProfileFixture()
	svc := NewProfileService(api.backend(), testLogger())

	_, err := svc.UpdateBio(context.Background(), u1, "u1", strings.Repeat("x", MaxBioLength+1))
	assert.ErrorIs(t, err, apperror.ErrValidation)
}

// The limit counts characters, so a bio of two-byte runes may be longer
// than MaxBioLength bytes.
func TestUpdateBio_CountsCharacters(t *testing.T) {
	api := newProfileFixture()
	svc := NewProfileService(api.backend(), testLogger())

	bio := strings.Repeat("é", 300)
	p, err := svc.UpdateBio(context.Background(), u1, "u1", bio)
	require.NoError(t, err)
	assert.Equal(t, bio, p.User.Bio)
	assert.Equal(t, 1, api.called("UpdateProfile"))

	_, err = svc.UpdateBio(context.Background(), u1, "u1", strings.Repeat("é", MaxBioLength+1))
	assert.ErrorIs(t, err, apperror.ErrValidation)
	assert.Equal(t, 1, api.called("UpdateProfile"))
}
