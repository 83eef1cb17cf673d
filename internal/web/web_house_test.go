package web_test

import (
	"net/http"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/djasnowski/myrefell-sub008/internal/catalog"
	"github.com/djasnowski/myrefell-sub008/internal/model"
)

// buildBedroom gives the signed-in player a cottage with a furnished bedroom
func (ts *webTestServer) buildBedroom() *model.House {
	ts.t.Helper()
	ctx := ts.t.Context()
	id := ts.playerID()

	h, err := ts.app.HouseService.CreateHouse(ctx, id, "Hearth", model.TierCottage, 1)
	require.NoError(ts.t, err)
	room, err := ts.app.HouseService.AddRoom(ctx, id, h.ID, model.RoomBedroom, 0, 0)
	require.NoError(ts.t, err)
	_, err = ts.app.HouseService.PlaceFurniture(ctx, id, h.ID, room.ID, catalog.FurnitureKey("wooden_bed"), model.HotspotBed)
	require.NoError(ts.t, err)
	return h
}

func TestEnergyPage(t *testing.T) {
	ts := newWebTestServer(t)
	ts.createGuestPlayer("Sleeper")
	ts.buildBedroom()

	rr := ts.get("/energy")
	require.Equal(t, http.StatusOK, rr.Code)
	page := pageOf(t, rr)
	assert.Equal(t, "Energy/Show", page.Component)
	assert.EqualValues(t, 100, page.Props["max_energy"])

	regen := propMap(t, page.Props, "regen")
	assert.EqualValues(t, 10, regen["base"])
	assert.EqualValues(t, 11, regen["total_gained"])
	bonuses := propList(t, regen, "bonuses")
	require.Len(t, bonuses, 1)
	assert.Equal(t, map[string]any{"source": "House (Bed)", "amount": "+10%"}, bonuses[0])
}

func TestEnergyRegen(t *testing.T) {
	ts := newWebTestServer(t)
	ts.createGuestPlayer("Sleeper")

	// Full energy gains nothing
	rr := ts.post("/energy/regen", url.Values{})
	require.Equal(t, http.StatusSeeOther, rr.Code)
	assert.Equal(t, "/energy", rr.Header().Get("Location"))
	assertFlash(t, pageOf(t, ts.followRedirect(rr)), "info", "already full")

	p, err := ts.app.Storage.GetPlayer(t.Context(), ts.playerID())
	require.NoError(t, err)
	p.Energy = 40
	require.NoError(t, ts.app.Storage.UpdatePlayer(t.Context(), p))

	rr = ts.post("/energy/regen", url.Values{})
	require.Equal(t, http.StatusSeeOther, rr.Code)
	page := pageOf(t, ts.followRedirect(rr))
	assertFlash(t, page, "success", "You recovered 10 energy.")
	assert.EqualValues(t, 50, page.Props["energy"])
}

func TestHousePages(t *testing.T) {
	ts := newWebTestServer(t)
	ts.createGuestPlayer("Builder")
	h := ts.buildBedroom()

	page := pageOf(t, ts.get("/houses"))
	assert.Equal(t, "Houses/Index", page.Component)
	houses := propList(t, page.Props, "houses")
	require.Len(t, houses, 1)
	assert.Equal(t, "Hearth", houses[0].(map[string]any)["name"])

	rr := ts.get("/houses/" + string(h.ID))
	require.Equal(t, http.StatusOK, rr.Code)
	page = pageOf(t, rr)
	assert.Equal(t, "Houses/Show", page.Component)
	house := propMap(t, page.Props, "house")
	assert.Equal(t, "cottage", house["tier"])
	assert.Equal(t, true, house["is_owner"])
	rooms := propList(t, house, "rooms")
	require.Len(t, rooms, 1)
	furniture := rooms[0].(map[string]any)["furniture"].([]any)
	require.Len(t, furniture, 1)
	assert.Equal(t, "wooden_bed", furniture[0].(map[string]any)["key"])
	assert.Len(t, propList(t, house, "energy_bonuses"), 1)

	rr = ts.get("/houses/h_missing")
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Equal(t, "That house does not exist.", pageOf(t, rr).Props["message"])
}
