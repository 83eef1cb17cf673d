package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/djasnowski/myrefell-sub008/internal/model"
	"github.com/djasnowski/myrefell-sub008/internal/storage"
)

// Epoch is the fixed time fixtures are created at
var Epoch = time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)

// NewPlayer returns a player standing in village 1 of kingdom 1 with
// 50/100 energy
func NewPlayer(id model.PlayerID, username string) *model.Player {
	return &model.Player{
		ID:              id,
		Username:        username,
		DisplayName:     username,
		Gold:            100,
		Energy:          50,
		MaxEnergy:       100,
		HomeLocation:    model.VillageLocation(1),
		CurrentLocation: model.VillageLocation(1),
		CreatedAt:       Epoch,
		UpdatedAt:       Epoch,
	}
}

// SeedRealm stores kingdoms 1 and 2 each with one barony and village
func SeedRealm(t *testing.T, store storage.Storage) {
	t.Helper()
	ctx := context.Background()
	require.NoError(t, store.SaveKingdom(ctx, model.Kingdom{ID: 1, Name: "Myrefell"}))
	require.NoError(t, store.SaveKingdom(ctx, model.Kingdom{ID: 2, Name: "Westmarch"}))
	require.NoError(t, store.SaveBarony(ctx, model.Barony{ID: 1, Name: "Ashford", KingdomID: 1}))
	require.NoError(t, store.SaveBarony(ctx, model.Barony{ID: 2, Name: "Greyhollow", KingdomID: 2}))
	require.NoError(t, store.SaveVillage(ctx, model.Village{ID: 1, Name: "Millbrook", BaronyID: 1}))
	require.NoError(t, store.SaveVillage(ctx, model.Village{ID: 2, Name: "Stonewick", BaronyID: 2}))
}

// CreatePlayer stores p and fails the test on error
func CreatePlayer(t *testing.T, store storage.Storage, p *model.Player) *model.Player {
	t.Helper()
	require.NoError(t, store.CreatePlayer(context.Background(), p))
	return p
}

// SetSkill stores a skill level for a player
func SetSkill(t *testing.T, store storage.Storage, playerID model.PlayerID, name model.SkillName, level int) {
	t.Helper()
	require.NoError(t, store.SaveSkill(context.Background(), model.Skill{PlayerID: playerID, Name: name, Level: level}))
}

// CreateHouse stores a house with the given rooms and returns it with Seq set
func CreateHouse(t *testing.T, store storage.Storage, h *model.House) *model.House {
	t.Helper()
	if h.Condition == 0 {
		h.Condition = 100
	}
	if h.KingdomID == 0 {
		h.KingdomID = 1
	}
	if h.Location.IsZero() {
		h.Location = model.KingdomLocation(h.KingdomID)
	}
	if h.CreatedAt.IsZero() {
		h.CreatedAt = Epoch
		h.UpdatedAt = Epoch
	}
	require.NoError(t, store.CreateHouse(context.Background(), h))
	return h
}

// Bedroom returns a bedroom at (x, y) holding one item on the bed hotspot
func Bedroom(houseID model.HouseID, roomID model.RoomID, x, y int, bedKey string) model.Room {
	room := model.Room{ID: roomID, HouseID: houseID, Type: model.RoomBedroom, GridX: x, GridY: y}
	if bedKey != "" {
		room.Furniture = []model.Furniture{{
			ID:          model.FurnitureID("f_" + string(roomID)),
			RoomID:      roomID,
			Key:         bedKey,
			HotspotSlug: model.HotspotBed,
			PlacedAt:    Epoch,
		}}
	}
	return room
}
