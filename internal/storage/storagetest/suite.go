// Package storagetest holds behaviour tests shared by every storage backend.
package storagetest

import (
	"context"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/djasnowski/myrefell-sub008/internal/model"
	"github.com/djasnowski/myrefell-sub008/internal/storage"
)

// Suite runs the storage contract against the backend returned by NewStorage.
// Embed it in a backend's own suite and set NewStorage before SetupTest runs.
type Suite struct {
	suite.Suite
	NewStorage func() storage.Storage

	Storage storage.Storage
	Ctx     context.Context
}

func (s *Suite) SetupTest() {
	s.Require().NotNil(s.NewStorage, "NewStorage must be set")
	s.Storage = s.NewStorage()
	s.Ctx = context.Background()
}

var created = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func newPlayer(id model.PlayerID, username string) *model.Player {
	return &model.Player{
		ID:              id,
		Username:        username,
		DisplayName:     username,
		Gold:            100,
		Energy:          50,
		MaxEnergy:       100,
		HomeLocation:    model.VillageLocation(1),
		CurrentLocation: model.VillageLocation(1),
		CreatedAt:       created,
		UpdatedAt:       created,
	}
}

func newHouse(id model.HouseID, owner model.PlayerID, kingdom model.KingdomID) *model.House {
	return &model.House{
		ID:        id,
		PlayerID:  owner,
		Name:      "Hearth " + string(id),
		Tier:      model.TierHouse,
		Condition: 100,
		KingdomID: kingdom,
		Location:  model.KingdomLocation(kingdom),
		CreatedAt: created,
		UpdatedAt: created,
	}
}

// Player tests

func (s *Suite) TestCreateAndGetPlayer() {
	p := newPlayer("p1", "alice")
	s.Require().NoError(s.Storage.CreatePlayer(s.Ctx, p))
	s.Equal(int64(1), p.Version)

	got, err := s.Storage.GetPlayer(s.Ctx, "p1")
	s.Require().NoError(err)
	s.Equal("alice", got.Username)
	s.Equal(50, got.Energy)
	s.Equal(model.VillageLocation(1), got.CurrentLocation)
	s.Equal(int64(1), got.Version)
	s.False(got.IsBanned())
}

func (s *Suite) TestGetPlayerNotFound() {
	_, err := s.Storage.GetPlayer(s.Ctx, "missing")
	s.ErrorIs(err, model.ErrPlayerNotFound)
	s.ErrorIs(err, model.ErrNotFound)
}

func (s *Suite) TestGetPlayerByUsernameIsCaseInsensitive() {
	s.Require().NoError(s.Storage.CreatePlayer(s.Ctx, newPlayer("p1", "Alice")))

	got, err := s.Storage.GetPlayerByUsername(s.Ctx, "alice")
	s.Require().NoError(err)
	s.Equal(model.PlayerID("p1"), got.ID)
}

func (s *Suite) TestCreatePlayerRejectsTakenUsername() {
	s.Require().NoError(s.Storage.CreatePlayer(s.Ctx, newPlayer("p1", "alice")))
	err := s.Storage.CreatePlayer(s.Ctx, newPlayer("p2", "ALICE"))
	s.ErrorIs(err, model.ErrUsernameTaken)
}

func (s *Suite) TestUpdatePlayerBumpsVersion() {
	p := newPlayer("p1", "alice")
	s.Require().NoError(s.Storage.CreatePlayer(s.Ctx, p))

	p.Energy = 75
	s.Require().NoError(s.Storage.UpdatePlayer(s.Ctx, p))
	s.Equal(int64(2), p.Version)

	got, err := s.Storage.GetPlayer(s.Ctx, "p1")
	s.Require().NoError(err)
	s.Equal(75, got.Energy)
	s.Equal(int64(2), got.Version)
}

func (s *Suite) TestUpdatePlayerStaleVersionConflicts() {
	p := newPlayer("p1", "alice")
	s.Require().NoError(s.Storage.CreatePlayer(s.Ctx, p))

	first, err := s.Storage.GetPlayer(s.Ctx, "p1")
	s.Require().NoError(err)
	second, err := s.Storage.GetPlayer(s.Ctx, "p1")
	s.Require().NoError(err)

	first.Energy = 60
	s.Require().NoError(s.Storage.UpdatePlayer(s.Ctx, first))

	second.Energy = 70
	err = s.Storage.UpdatePlayer(s.Ctx, second)
	s.ErrorIs(err, model.ErrVersionConflict)
	s.ErrorIs(err, model.ErrConflict)

	got, err := s.Storage.GetPlayer(s.Ctx, "p1")
	s.Require().NoError(err)
	s.Equal(60, got.Energy)
}

func (s *Suite) TestUpdateMissingPlayer() {
	err := s.Storage.UpdatePlayer(s.Ctx, newPlayer("ghost", "ghost"))
	s.ErrorIs(err, model.ErrPlayerNotFound)
}

func (s *Suite) TestBannedAtRoundTrips() {
	p := newPlayer("p1", "alice")
	banned := created.Add(time.Hour)
	p.BannedAt = &banned
	s.Require().NoError(s.Storage.CreatePlayer(s.Ctx, p))

	got, err := s.Storage.GetPlayer(s.Ctx, "p1")
	s.Require().NoError(err)
	s.Require().NotNil(got.BannedAt)
	s.True(banned.Equal(*got.BannedAt))
}

func (s *Suite) TestListPlayers() {
	s.Require().NoError(s.Storage.CreatePlayer(s.Ctx, newPlayer("p1", "alice")))
	s.Require().NoError(s.Storage.CreatePlayer(s.Ctx, newPlayer("p2", "bob")))

	players, err := s.Storage.ListPlayers(s.Ctx)
	s.Require().NoError(err)
	s.Len(players, 2)
}

// Registered player tests

func (s *Suite) TestSaveAndGetRegisteredPlayer() {
	rp := &model.RegisteredPlayer{
		PlayerID:     "p1",
		Username:     "alice",
		PasswordHash: "hash",
		CreatedAt:    created,
		UpdatedAt:    created,
	}
	s.Require().NoError(s.Storage.SaveRegisteredPlayer(s.Ctx, rp))

	got, err := s.Storage.GetRegisteredPlayer(s.Ctx, "p1")
	s.Require().NoError(err)
	s.Equal("hash", got.PasswordHash)

	byName, err := s.Storage.GetRegisteredPlayerByUsername(s.Ctx, "alice")
	s.Require().NoError(err)
	s.Equal(model.PlayerID("p1"), byName.PlayerID)

	_, err = s.Storage.GetRegisteredPlayerByUsername(s.Ctx, "nobody")
	s.ErrorIs(err, model.ErrPlayerNotFound)
}

// Skill tests

func (s *Suite) TestSkills() {
	s.Require().NoError(s.Storage.SaveSkill(s.Ctx, model.Skill{PlayerID: "p1", Name: model.SkillVitality, Level: 20}))
	s.Require().NoError(s.Storage.SaveSkill(s.Ctx, model.Skill{PlayerID: "p1", Name: model.SkillConstruction, Level: 5}))
	s.Require().NoError(s.Storage.SaveSkill(s.Ctx, model.Skill{PlayerID: "p2", Name: model.SkillVitality, Level: 99}))
	// overwrite
	s.Require().NoError(s.Storage.SaveSkill(s.Ctx, model.Skill{PlayerID: "p1", Name: model.SkillVitality, Level: 30}))

	skills, err := s.Storage.GetSkills(s.Ctx, "p1")
	s.Require().NoError(err)
	s.Len(skills, 2)
	s.Equal(30, model.SkillLevel(skills, model.SkillVitality))
	s.Equal(5, model.SkillLevel(skills, model.SkillConstruction))
	s.Equal(1, model.SkillLevel(skills, model.SkillMining))

	none, err := s.Storage.GetSkills(s.Ctx, "p3")
	s.Require().NoError(err)
	s.Empty(none)
}

// House tests

func (s *Suite) TestCreateHouseAssignsIncreasingSeq() {
	a := newHouse("h1", "p1", 1)
	b := newHouse("h2", "p2", 1)
	s.Require().NoError(s.Storage.CreateHouse(s.Ctx, a))
	s.Require().NoError(s.Storage.CreateHouse(s.Ctx, b))
	s.Greater(a.Seq, int64(0))
	s.Greater(b.Seq, a.Seq)
}

func (s *Suite) TestHouseAggregateRoundTrips() {
	h := newHouse("h1", "p1", 1)
	h.Rooms = []model.Room{{
		ID: "r1", HouseID: "h1", Type: model.RoomBedroom, GridX: 1, GridY: 0,
		Furniture: []model.Furniture{
			{ID: "f1", RoomID: "r1", Key: "wooden_bed", HotspotSlug: model.HotspotBed, PlacedAt: created},
		},
	}}
	s.Require().NoError(s.Storage.CreateHouse(s.Ctx, h))

	got, err := s.Storage.GetHouse(s.Ctx, "h1")
	s.Require().NoError(err)
	s.Equal(model.TierHouse, got.Tier)
	s.Equal(model.KingdomLocation(1), got.Location)
	s.Require().Len(got.Rooms, 1)
	s.Equal(model.RoomBedroom, got.Rooms[0].Type)
	s.Require().Len(got.Rooms[0].Furniture, 1)
	s.Equal("wooden_bed", got.Rooms[0].Furniture[0].Key)
	s.Equal(model.HotspotBed, got.Rooms[0].Furniture[0].HotspotSlug)
}

func (s *Suite) TestSaveHouseReplacesAggregate() {
	h := newHouse("h1", "p1", 1)
	h.Rooms = []model.Room{{ID: "r1", HouseID: "h1", Type: model.RoomBedroom}}
	s.Require().NoError(s.Storage.CreateHouse(s.Ctx, h))
	seq := h.Seq

	h.Rooms = append(h.Rooms, model.Room{ID: "r2", HouseID: "h1", Type: model.RoomKitchen, GridX: 1})
	h.Condition = 80
	s.Require().NoError(s.Storage.SaveHouse(s.Ctx, h))
	s.Equal(seq, h.Seq)

	got, err := s.Storage.GetHouse(s.Ctx, "h1")
	s.Require().NoError(err)
	s.Equal(80, got.Condition)
	s.Len(got.Rooms, 2)
	s.Equal(seq, got.Seq)
}

func (s *Suite) TestSaveMissingHouse() {
	err := s.Storage.SaveHouse(s.Ctx, newHouse("nope", "p1", 1))
	s.ErrorIs(err, model.ErrHouseNotFound)
}

func (s *Suite) TestReturnedHouseIsACopy() {
	h := newHouse("h1", "p1", 1)
	h.Rooms = []model.Room{{ID: "r1", HouseID: "h1", Type: model.RoomBedroom}}
	s.Require().NoError(s.Storage.CreateHouse(s.Ctx, h))

	got, err := s.Storage.GetHouse(s.Ctx, "h1")
	s.Require().NoError(err)
	got.Rooms[0].Type = model.RoomKitchen

	again, err := s.Storage.GetHouse(s.Ctx, "h1")
	s.Require().NoError(err)
	s.Equal(model.RoomBedroom, again.Rooms[0].Type)
}

func (s *Suite) TestListHousesFiltersAndOrders() {
	s.Require().NoError(s.Storage.CreateHouse(s.Ctx, newHouse("h-b", "p1", 1)))
	s.Require().NoError(s.Storage.CreateHouse(s.Ctx, newHouse("h-a", "p2", 1)))
	s.Require().NoError(s.Storage.CreateHouse(s.Ctx, newHouse("h-c", "p1", 2)))

	all, err := s.Storage.ListHouses(s.Ctx, storage.HouseFilter{})
	s.Require().NoError(err)
	s.Require().Len(all, 3)
	s.Equal(model.HouseID("h-b"), all[0].ID)
	s.Equal(model.HouseID("h-a"), all[1].ID)
	s.Equal(model.HouseID("h-c"), all[2].ID)

	mine, err := s.Storage.ListHouses(s.Ctx, storage.HouseFilter{PlayerID: "p1"})
	s.Require().NoError(err)
	s.Len(mine, 2)

	k1, err := s.Storage.ListHouses(s.Ctx, storage.HouseFilter{KingdomID: 1})
	s.Require().NoError(err)
	s.Len(k1, 2)

	both, err := s.Storage.ListHouses(s.Ctx, storage.HouseFilter{PlayerID: "p1", KingdomID: 2})
	s.Require().NoError(err)
	s.Require().Len(both, 1)
	s.Equal(model.HouseID("h-c"), both[0].ID)
}

func (s *Suite) TestDeleteHouse() {
	s.Require().NoError(s.Storage.CreateHouse(s.Ctx, newHouse("h1", "p1", 1)))
	s.Require().NoError(s.Storage.DeleteHouse(s.Ctx, "h1"))

	_, err := s.Storage.GetHouse(s.Ctx, "h1")
	s.ErrorIs(err, model.ErrHouseNotFound)

	houses, err := s.Storage.ListHouses(s.Ctx, storage.HouseFilter{})
	s.Require().NoError(err)
	s.Empty(houses)
}

// Realm tests

func (s *Suite) TestRealm() {
	s.Require().NoError(s.Storage.SaveKingdom(s.Ctx, model.Kingdom{ID: 2, Name: "Westmarch"}))
	s.Require().NoError(s.Storage.SaveKingdom(s.Ctx, model.Kingdom{ID: 1, Name: "Myrefell"}))
	s.Require().NoError(s.Storage.SaveBarony(s.Ctx, model.Barony{ID: 10, Name: "Ashford", KingdomID: 1}))
	s.Require().NoError(s.Storage.SaveVillage(s.Ctx, model.Village{ID: 100, Name: "Millbrook", BaronyID: 10}))

	k, err := s.Storage.GetKingdom(s.Ctx, 1)
	s.Require().NoError(err)
	s.Equal("Myrefell", k.Name)

	kingdoms, err := s.Storage.ListKingdoms(s.Ctx)
	s.Require().NoError(err)
	s.Require().Len(kingdoms, 2)
	s.Equal(model.KingdomID(1), kingdoms[0].ID)

	b, err := s.Storage.GetBarony(s.Ctx, 10)
	s.Require().NoError(err)
	s.Equal(model.KingdomID(1), b.KingdomID)

	v, err := s.Storage.GetVillage(s.Ctx, 100)
	s.Require().NoError(err)
	s.Equal(model.BaronyID(10), v.BaronyID)

	_, err = s.Storage.GetKingdom(s.Ctx, 99)
	s.ErrorIs(err, model.ErrKingdomNotFound)
	_, err = s.Storage.GetBarony(s.Ctx, 99)
	s.ErrorIs(err, model.ErrBaronyNotFound)
	_, err = s.Storage.GetVillage(s.Ctx, 99)
	s.ErrorIs(err, model.ErrVillageNotFound)
}

// World state tests

func (s *Suite) TestWorldState() {
	_, err := s.Storage.GetWorldState(s.Ctx)
	s.ErrorIs(err, model.ErrWorldStateNotFound)

	ws := model.WorldState{Year: 3, Season: model.SeasonSummer, Week: 4}
	s.Require().NoError(s.Storage.SaveWorldState(s.Ctx, ws))

	got, err := s.Storage.GetWorldState(s.Ctx)
	s.Require().NoError(err)
	s.Equal(ws, got)
}

func (s *Suite) TestSaveInvalidWorldState() {
	err := s.Storage.SaveWorldState(s.Ctx, model.WorldState{Year: 1, Season: "monsoon", Week: 1})
	s.ErrorIs(err, model.ErrInvalidWorldState)
}
