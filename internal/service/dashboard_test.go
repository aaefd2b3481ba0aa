package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sakif/gitorbit/internal/apperror"
	"github.com/sakif/gitorbit/internal/model"
)

var u1 = &model.Session{ID: "s1", UserID: "u1", Token: "tok-1"}

func newDashboardFixture() *fakeAPI {
	api := newFakeAPI()
	api.addRepo(model.Repository{ID: "r1", Name: "demo", Owner: model.User{ID: "u1", Username: "alice"}})
	api.addRepo(model.Repository{ID: "r2", Name: "tools", Owner: model.User{ID: "u2", Username: "bob"}, Stargazers: model.IDList{"u3"}})
	api.addRepo(model.Repository{ID: "r3", Name: "Demo-site", Owner: model.User{ID: "u2", Username: "bob"}})
	return api
}

func TestDashboardLoad(t *testing.T) {
	api := newDashboardFixture()
	svc := NewDashboardService(api.backend(), testLogger())

	d, err := svc.Load(context.Background(), u1)
	require.NoError(t, err)
	assert.Len(t, d.Feed, 3)
	require.Len(t, d.Mine, 1)
	assert.Equal(t, "r1", d.Mine[0].ID)
}

func TestDashboardLoad_Failure(t *testing.T) {
	api := newDashboardFixture()
	api.fail["ListRepositories"] = apperror.Transport("list repositories", context.DeadlineExceeded)
	svc := NewDashboardService(api.backend(), testLogger())

	_, err := svc.Load(context.Background(), u1)
	assert.ErrorIs(t, err, apperror.ErrTransport)
}

func TestToggleStargazer_TwiceRestoresMembership(t *testing.T) {
	for _, start := range []model.IDList{nil, {"u3"}, {"u1", "u3"}} {
		d := &Dashboard{Feed: []model.Repository{{ID: "r1", Stargazers: start}}}
		before := d.Feed[0].IsStarredBy("u1")

		first := d.ToggleStargazer("r1", "u1")
		second := d.ToggleStargazer("r1", "u1")

		assert.Equal(t, !before, first)
		assert.Equal(t, before, second)
		assert.Equal(t, before, d.Feed[0].IsStarredBy("u1"))
		assert.True(t, d.Feed[0].Stargazers.Contains("u3") == start.Contains("u3"))
	}
}

func TestToggleStar_PatchesAfterSuccess(t *testing.T) {
	api := newDashboardFixture()
	svc := NewDashboardService(api.backend(), testLogger())

	d, err := svc.ToggleStar(context.Background(), u1, "r2")
	require.NoError(t, err)
	assert.Equal(t, 1, api.called("ToggleStar"))
	assert.True(t, d.Feed[1].IsStarredBy("u1"))
	assert.True(t, d.Feed[1].Stargazers.Contains("u3"))
}

func TestToggleStar_FailureLeavesStateUnchanged(t *testing.T) {
	api := newDashboardFixture()
	api.fail["ToggleStar"] = apperror.Upstream(500, "")
	svc := NewDashboardService(api.backend(), testLogger())

	d, err := svc.ToggleStar(context.Background(), u1, "r2")
	require.Error(t, err)
	require.NotNil(t, d)
	assert.False(t, d.Feed[1].IsStarredBy("u1"))
}

func TestToggleFollow_PatchesEveryCardOfOwner(t *testing.T) {
	api := newDashboardFixture()
	svc := NewDashboardService(api.backend(), testLogger())

	d, err := svc.ToggleFollow(context.Background(), u1, "u2")
	require.NoError(t, err)
	assert.Equal(t, 1, api.called("Follow"))
	assert.True(t, d.Feed[1].Owner.IsFollowedBy("u1"))
	assert.True(t, d.Feed[2].Owner.IsFollowedBy("u1"))
	assert.False(t, d.Feed[0].Owner.IsFollowedBy("u1"))
	assert.True(t, d.IsFollowing("u2", "u1"))
}

func TestToggleFollow_UnfollowsWhenFollowing(t *testing.T) {
	api := newFakeAPI()
	api.addRepo(model.Repository{ID: "r2", Owner: model.User{ID: "u2", Followers: model.IDList{"u1"}}})
	svc := NewDashboardService(api.backend(), testLogger())

	d, err := svc.ToggleFollow(context.Background(), u1, "u2")
	require.NoError(t, err)
	assert.Equal(t, 1, api.called("Unfollow"))
	assert.False(t, d.IsFollowing("u2", "u1"))
}

func TestToggleFollow_Self(t *testing.T) {
	api := newDashboardFixture()
	svc := NewDashboardService(api.backend(), testLogger())

	_, err := svc.ToggleFollow(context.Background(), u1, "u1")
	assert.ErrorIs(t, err, apperror.ErrValidation)
	assert.Zero(t, api.called("Follow"))
}
