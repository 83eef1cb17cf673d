package web_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/djasnowski/myrefell-sub008/internal/model"
)

func TestLeaderboardPage(t *testing.T) {
	ts := newWebTestServer(t)
	ctx := t.Context()

	var ids []model.PlayerID
	for _, name := range []string{"first", "second"} {
		sess, err := ts.app.AuthService.RegisterPlayer(ctx, name, "password123", name)
		require.NoError(t, err)
		_, err = ts.app.HouseService.CreateHouse(ctx, sess.PlayerID, "Hall", model.TierHouse, 1)
		require.NoError(t, err)
		ids = append(ids, sess.PlayerID)
	}

	// Public page, no sign-in needed
	rr := ts.get("/leaderboard")
	require.Equal(t, http.StatusOK, rr.Code)
	page := pageOf(t, rr)
	assert.Equal(t, "Leaderboard/Index", page.Component)
	assert.Equal(t, "houses", page.Props["tab"])
	assert.Equal(t, []any{"houses", "wealth"}, page.Props["tabs"])
	assert.Nil(t, page.Props["kingdom"])

	entries := propList(t, page.Props, "entries")
	require.Len(t, entries, 2)
	assert.Equal(t, "first", entries[0].(map[string]any)["username"])
	assert.EqualValues(t, 2, entries[1].(map[string]any)["rank"])

	// Banned players drop out and ranks close up
	p, err := ts.app.Storage.GetPlayer(ctx, ids[0])
	require.NoError(t, err)
	now := ts.app.MockClock.Now()
	p.BannedAt = &now
	require.NoError(t, ts.app.Storage.UpdatePlayer(ctx, p))

	page = pageOf(t, ts.visit("/leaderboard?tab=houses&kingdom=1"))
	assert.EqualValues(t, 1, page.Props["kingdom"])
	entries = propList(t, page.Props, "entries")
	require.Len(t, entries, 1)
	assert.Equal(t, "second", entries[0].(map[string]any)["username"])
	assert.EqualValues(t, 1, entries[0].(map[string]any)["rank"])

	page = pageOf(t, ts.visit("/leaderboard?kingdom=2"))
	assert.Empty(t, propList(t, page.Props, "entries"))

	page = pageOf(t, ts.visit("/leaderboard?tab=wealth"))
	assert.Equal(t, "wealth", page.Props["tab"])
	entries = propList(t, page.Props, "entries")
	require.Len(t, entries, 1)
	assert.Equal(t, "second", entries[0].(map[string]any)["username"])
}

func TestLeaderboardBadQuery(t *testing.T) {
	ts := newWebTestServer(t)

	rr := ts.get("/leaderboard?tab=fame")
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	page := pageOf(t, rr)
	assert.Equal(t, "Error", page.Component)
	assert.Equal(t, "unknown leaderboard tab", page.Props["message"])

	rr = ts.get("/leaderboard?kingdom=abc")
	assert.Equal(t, http.StatusNotFound, rr.Code)
}
