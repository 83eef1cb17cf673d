package house

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/djasnowski/myrefell-sub008/internal/catalog"
	"github.com/djasnowski/myrefell-sub008/internal/dependencies/mocks"
	"github.com/djasnowski/myrefell-sub008/internal/model"
	"github.com/djasnowski/myrefell-sub008/internal/storage/memory"
	"github.com/djasnowski/myrefell-sub008/internal/testutil"
)

type ServiceSuite struct {
	suite.Suite
	storage *memory.Storage
	clock   *mocks.MockClock
	ids     *mocks.MockIDs
	service *Service
	ctx     context.Context
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) SetupTest() {
	s.storage = memory.New()
	s.clock = mocks.NewMockClock(testutil.Epoch)
	s.ids = mocks.NewMockIDs()
	s.service = New(s.storage, catalog.MustDefault(), s.clock, s.ids, testutil.NopLogger())
	s.ctx = context.Background()

	testutil.SeedRealm(s.T(), s.storage)
	testutil.CreatePlayer(s.T(), s.storage, testutil.NewPlayer("alice", "alice"))
	testutil.CreatePlayer(s.T(), s.storage, testutil.NewPlayer("bob", "bob"))
}

func (s *ServiceSuite) newHouse(tier model.HouseTier) *model.House {
	h, err := s.service.CreateHouse(s.ctx, "alice", "Hearthstone", tier, 1)
	s.Require().NoError(err)
	return h
}

// CreateHouse tests

func (s *ServiceSuite) TestCreateHouse() {
	h := s.newHouse(model.TierCottage)

	s.Equal(model.HouseID("h_1"), h.ID)
	s.Equal(100, h.Condition)
	s.Equal(model.KingdomLocation(1), h.Location)
	s.Equal(int64(1), h.Seq)

	stored, err := s.storage.GetHouse(s.ctx, h.ID)
	s.Require().NoError(err)
	s.Equal("Hearthstone", stored.Name)
}

func (s *ServiceSuite) TestCreateHouseValidation() {
	_, err := s.service.CreateHouse(s.ctx, "alice", "  ", model.TierCottage, 1)
	s.ErrorIs(err, model.ErrEmptyName)

	_, err = s.service.CreateHouse(s.ctx, "alice", "Hut", model.HouseTier(9), 1)
	s.ErrorIs(err, model.ErrInvalidTier)

	_, err = s.service.CreateHouse(s.ctx, "alice", "Hut", model.TierCottage, 99)
	s.ErrorIs(err, model.ErrKingdomNotFound)

	_, err = s.service.CreateHouse(s.ctx, "nobody", "Hut", model.TierCottage, 1)
	s.ErrorIs(err, model.ErrPlayerNotFound)
}

// AddRoom tests

func (s *ServiceSuite) TestAddRoom() {
	h := s.newHouse(model.TierHouse)

	room, err := s.service.AddRoom(s.ctx, "alice", h.ID, model.RoomBedroom, 1, 1)
	s.Require().NoError(err)
	s.Equal(model.RoomBedroom, room.Type)

	stored, err := s.service.GetHouse(s.ctx, h.ID)
	s.Require().NoError(err)
	s.Require().Len(stored.Rooms, 1)
	s.Equal(room.ID, stored.Rooms[0].ID)
}

func (s *ServiceSuite) TestAddRoomRejectsTakenPosition() {
	h := s.newHouse(model.TierCottage)
	_, err := s.service.AddRoom(s.ctx, "alice", h.ID, model.RoomBedroom, 0, 0)
	s.Require().NoError(err)

	_, err = s.service.AddRoom(s.ctx, "alice", h.ID, model.RoomKitchen, 0, 0)
	s.ErrorIs(err, model.ErrGridPositionTaken)
	s.ErrorIs(err, model.ErrValidation)
}

func (s *ServiceSuite) TestAddRoomRejectsOutOfGrid() {
	h := s.newHouse(model.TierCottage) // 2x1
	_, err := s.service.AddRoom(s.ctx, "alice", h.ID, model.RoomBedroom, 0, 1)
	s.ErrorIs(err, model.ErrGridOutOfBounds)
}

func (s *ServiceSuite) TestAddRoomRespectsMinTier() {
	h := s.newHouse(model.TierHouse)
	_, err := s.service.AddRoom(s.ctx, "alice", h.ID, model.RoomSuperiorGarden, 0, 0)
	s.ErrorIs(err, model.ErrRoomNotAllowed)

	manor := s.newHouse(model.TierManor)
	_, err = s.service.AddRoom(s.ctx, "alice", manor.ID, model.RoomSuperiorGarden, 2, 1)
	s.NoError(err)
}

func (s *ServiceSuite) TestAddRoomRequiresOwner() {
	h := s.newHouse(model.TierCottage)
	_, err := s.service.AddRoom(s.ctx, "bob", h.ID, model.RoomBedroom, 0, 0)
	s.ErrorIs(err, model.ErrNotHouseOwner)
}

func (s *ServiceSuite) TestAddRoomUnknownType() {
	h := s.newHouse(model.TierCottage)
	_, err := s.service.AddRoom(s.ctx, "alice", h.ID, model.RoomType("dungeon"), 0, 0)
	s.ErrorIs(err, model.ErrInvalidRoomType)
}

// PlaceFurniture tests

func (s *ServiceSuite) TestPlaceFurniture() {
	h := s.newHouse(model.TierCottage)
	room, err := s.service.AddRoom(s.ctx, "alice", h.ID, model.RoomBedroom, 0, 0)
	s.Require().NoError(err)

	f, err := s.service.PlaceFurniture(s.ctx, "alice", h.ID, room.ID, "straw_bed", model.HotspotBed)
	s.Require().NoError(err)
	s.Equal("straw_bed", f.Key)
	s.Equal(testutil.Epoch, f.PlacedAt)

	stored, err := s.service.GetHouse(s.ctx, h.ID)
	s.Require().NoError(err)
	s.Equal(1, stored.FurnitureCount())
}

func (s *ServiceSuite) TestPlaceFurnitureWrongHotspotForRoom() {
	h := s.newHouse(model.TierCottage)
	kitchen, err := s.service.AddRoom(s.ctx, "alice", h.ID, model.RoomKitchen, 0, 0)
	s.Require().NoError(err)

	// bed only in bedroom
	_, err = s.service.PlaceFurniture(s.ctx, "alice", h.ID, kitchen.ID, "straw_bed", model.HotspotBed)
	s.ErrorIs(err, model.ErrInvalidHotspot)
}

func (s *ServiceSuite) TestPlaceFurnitureMustMatchCatalogHotspot() {
	h := s.newHouse(model.TierCottage)
	room, err := s.service.AddRoom(s.ctx, "alice", h.ID, model.RoomBedroom, 0, 0)
	s.Require().NoError(err)

	_, err = s.service.PlaceFurniture(s.ctx, "alice", h.ID, room.ID, "straw_bed", model.HotspotWardrobe)
	s.ErrorIs(err, model.ErrHotspotMismatch)
}

func (s *ServiceSuite) TestPlaceFurnitureHotspotOccupied() {
	h := s.newHouse(model.TierCottage)
	room, err := s.service.AddRoom(s.ctx, "alice", h.ID, model.RoomBedroom, 0, 0)
	s.Require().NoError(err)

	_, err = s.service.PlaceFurniture(s.ctx, "alice", h.ID, room.ID, "straw_bed", model.HotspotBed)
	s.Require().NoError(err)
	_, err = s.service.PlaceFurniture(s.ctx, "alice", h.ID, room.ID, "straw_bed", model.HotspotBed)
	s.ErrorIs(err, model.ErrHotspotOccupied)
}

func (s *ServiceSuite) TestPlaceFurnitureUnknownKey() {
	h := s.newHouse(model.TierCottage)
	room, err := s.service.AddRoom(s.ctx, "alice", h.ID, model.RoomBedroom, 0, 0)
	s.Require().NoError(err)

	_, err = s.service.PlaceFurniture(s.ctx, "alice", h.ID, room.ID, "golden_throne", model.HotspotBed)
	s.ErrorIs(err, model.ErrUnknownFurniture)
}

func (s *ServiceSuite) TestPlaceFurnitureNeedsConstructionLevel() {
	h := s.newHouse(model.TierCottage)
	room, err := s.service.AddRoom(s.ctx, "alice", h.ID, model.RoomBedroom, 0, 0)
	s.Require().NoError(err)

	_, err = s.service.PlaceFurniture(s.ctx, "alice", h.ID, room.ID, "wooden_bed", model.HotspotBed)
	s.ErrorIs(err, model.ErrSkillTooLow)

	testutil.SetSkill(s.T(), s.storage, "alice", model.SkillConstruction, 10)
	_, err = s.service.PlaceFurniture(s.ctx, "alice", h.ID, room.ID, "wooden_bed", model.HotspotBed)
	s.NoError(err)
}

func (s *ServiceSuite) TestPlaceFurnitureChecksOwnerBeforeSkill() {
	h := s.newHouse(model.TierCottage)
	room, err := s.service.AddRoom(s.ctx, "alice", h.ID, model.RoomBedroom, 0, 0)
	s.Require().NoError(err)

	// bob has no construction skill and does not own the house
	_, err = s.service.PlaceFurniture(s.ctx, "bob", h.ID, room.ID, "wooden_bed", model.HotspotBed)
	s.ErrorIs(err, model.ErrNotHouseOwner)
	s.NotErrorIs(err, model.ErrSkillTooLow)

	_, err = s.service.PlaceFurniture(s.ctx, "bob", h.ID, room.ID, "golden_throne", model.HotspotBed)
	s.ErrorIs(err, model.ErrNotHouseOwner)
}

func (s *ServiceSuite) TestPlaceFurnitureUnknownRoom() {
	h := s.newHouse(model.TierCottage)
	_, err := s.service.PlaceFurniture(s.ctx, "alice", h.ID, "r_missing", "straw_bed", model.HotspotBed)
	s.ErrorIs(err, model.ErrRoomNotFound)
}

// RemoveFurniture tests

func (s *ServiceSuite) TestRemoveFurniture() {
	h := s.newHouse(model.TierCottage)
	room, err := s.service.AddRoom(s.ctx, "alice", h.ID, model.RoomBedroom, 0, 0)
	s.Require().NoError(err)
	f, err := s.service.PlaceFurniture(s.ctx, "alice", h.ID, room.ID, "straw_bed", model.HotspotBed)
	s.Require().NoError(err)

	s.Require().NoError(s.service.RemoveFurniture(s.ctx, "alice", h.ID, f.ID))

	stored, err := s.service.GetHouse(s.ctx, h.ID)
	s.Require().NoError(err)
	s.Equal(0, stored.FurnitureCount())

	err = s.service.RemoveFurniture(s.ctx, "alice", h.ID, f.ID)
	s.ErrorIs(err, model.ErrFurnitureNotFound)
}

// ListHousesForPlayer tests

func (s *ServiceSuite) TestListHousesForPlayer() {
	first := s.newHouse(model.TierCottage)
	second := s.newHouse(model.TierHouse)
	_, err := s.service.CreateHouse(s.ctx, "bob", "Bob's", model.TierCottage, 2)
	s.Require().NoError(err)

	houses, err := s.service.ListHousesForPlayer(s.ctx, "alice")
	s.Require().NoError(err)
	s.Require().Len(houses, 2)
	s.Equal(first.ID, houses[0].ID)
	s.Equal(second.ID, houses[1].ID)
}

// Resolve tests

func (s *ServiceSuite) TestResolveFiltersByKind() {
	h := &model.House{
		ID: "h1", Tier: model.TierHouse,
		Rooms: []model.Room{
			testutil.Bedroom("h1", "r1", 0, 0, "straw_bed"),
			{ID: "r2", Type: model.RoomKitchen, GridX: 1, GridY: 0, Furniture: []model.Furniture{
				{ID: "f2", RoomID: "r2", Key: "clay_stove", HotspotSlug: model.HotspotStove},
			}},
		},
	}

	regen := s.service.Resolve(h, catalog.BonusEnergyRegen)
	s.Require().Len(regen, 1)
	s.Equal("House (Bed)", regen[0].Source())
	s.Equal("+5%", regen[0].Bonus.Format())

	cooking := s.service.Resolve(h, catalog.BonusCooking)
	s.Require().Len(cooking, 1)
	s.Equal(model.HotspotStove, cooking[0].Hotspot)
}

func (s *ServiceSuite) TestResolveAccumulatesAcrossRooms() {
	h := &model.House{
		ID: "h1", Tier: model.TierHouse,
		Rooms: []model.Room{
			testutil.Bedroom("h1", "r2", 1, 0, "wooden_bed"),
			testutil.Bedroom("h1", "r1", 0, 0, "straw_bed"),
		},
	}

	bonuses := s.service.Resolve(h, catalog.BonusEnergyRegen)
	s.Require().Len(bonuses, 2)
	// grid order, not insertion order
	s.Equal(catalog.FurnitureKey("straw_bed"), bonuses[0].Key)
	s.Equal(catalog.FurnitureKey("wooden_bed"), bonuses[1].Key)
}

func (s *ServiceSuite) TestResolveSkipsMissingCatalogEntries() {
	h := &model.House{
		ID: "h1", Tier: model.TierCottage,
		Rooms: []model.Room{testutil.Bedroom("h1", "r1", 0, 0, "retired_bed")},
	}
	s.Empty(s.service.Resolve(h, catalog.BonusEnergyRegen))
}

func (s *ServiceSuite) TestResolveIsReadOnly() {
	h := &model.House{
		ID: "h1", Tier: model.TierHouse,
		Rooms: []model.Room{
			testutil.Bedroom("h1", "r2", 1, 0, "wooden_bed"),
			testutil.Bedroom("h1", "r1", 0, 0, "straw_bed"),
		},
	}
	before := h.Clone()

	first := s.service.Resolve(h, catalog.BonusEnergyRegen)
	second := s.service.Resolve(h, catalog.BonusEnergyRegen)

	s.Equal(before, h)
	s.Equal(first, second)
}

func (s *ServiceSuite) TestResolveAllOrdersHousesByCreation() {
	older := &model.House{ID: "old", Seq: 1, Rooms: []model.Room{testutil.Bedroom("old", "r1", 0, 0, "straw_bed")}}
	newer := &model.House{ID: "new", Seq: 2, Rooms: []model.Room{testutil.Bedroom("new", "r2", 0, 0, "wooden_bed")}}

	bonuses := s.service.ResolveAll([]*model.House{newer, older}, catalog.BonusEnergyRegen)
	s.Require().Len(bonuses, 2)
	s.Equal(model.HouseID("old"), bonuses[0].HouseID)
	s.Equal(model.HouseID("new"), bonuses[1].HouseID)
}
