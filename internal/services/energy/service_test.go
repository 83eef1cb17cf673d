package energy

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"

	"github.com/djasnowski/myrefell-sub008/internal/catalog"
	"github.com/djasnowski/myrefell-sub008/internal/config"
	"github.com/djasnowski/myrefell-sub008/internal/dependencies/mocks"
	"github.com/djasnowski/myrefell-sub008/internal/model"
	"github.com/djasnowski/myrefell-sub008/internal/services/house"
	"github.com/djasnowski/myrefell-sub008/internal/storage"
	"github.com/djasnowski/myrefell-sub008/internal/storage/memory"
	"github.com/djasnowski/myrefell-sub008/internal/testutil"
)

type ServiceSuite struct {
	suite.Suite
	storage *memory.Storage
	clock   *mocks.MockClock
	houses  *house.Service
	service *Service
	ctx     context.Context
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) SetupTest() {
	s.storage = memory.New()
	s.clock = mocks.NewMockClock(testutil.Epoch)
	s.houses = house.New(s.storage, catalog.MustDefault(), s.clock, mocks.NewMockIDs(), testutil.NopLogger())
	s.service = New(s.storage, s.houses, config.DefaultBalance().Energy, s.clock, testutil.NopLogger())
	s.ctx = context.Background()

	testutil.CreatePlayer(s.T(), s.storage, testutil.NewPlayer("alice", "alice"))
}

func (s *ServiceSuite) giveHouse(id model.HouseID, rooms ...model.Room) {
	testutil.CreateHouse(s.T(), s.storage, &model.House{
		ID: id, PlayerID: "alice", Name: string(id), Tier: model.TierEstate, Rooms: rooms,
	})
}

func (s *ServiceSuite) TestNoSkillsNoHouseGivesBase() {
	gained, err := s.service.Regenerate(s.ctx, "alice")
	s.Require().NoError(err)
	s.Equal(10, gained)

	p, err := s.storage.GetPlayer(s.ctx, "alice")
	s.Require().NoError(err)
	s.Equal(60, p.Energy)
}

func (s *ServiceSuite) TestWoodenBedGivesEleven() {
	s.giveHouse("h1", testutil.Bedroom("h1", "r1", 0, 0, "wooden_bed"))

	gained, err := s.service.Regenerate(s.ctx, "alice")
	s.Require().NoError(err)
	s.Equal(11, gained)
}

func (s *ServiceSuite) TestStrawBedFloorsToBase() {
	s.giveHouse("h1", testutil.Bedroom("h1", "r1", 0, 0, "straw_bed"))

	info, err := s.service.RegenInfo(s.ctx, "alice")
	s.Require().NoError(err)
	// 10 * 1.05 = 10.5, floored
	s.Equal(10, info.TotalGained)
	s.Contains(info.Bonuses, model.RegenBonus{Source: "House (Bed)", Amount: "+5%"})
}

func (s *ServiceSuite) TestRegenInfoWithoutBonuses() {
	info, err := s.service.RegenInfo(s.ctx, "alice")
	s.Require().NoError(err)
	s.Equal(10, info.Base)
	s.Empty(info.Bonuses)
	s.Equal(10, info.TotalGained)
}

func (s *ServiceSuite) TestRegenInfoIsIdempotent() {
	s.giveHouse("h1", testutil.Bedroom("h1", "r1", 0, 0, "straw_bed"))
	testutil.SetSkill(s.T(), s.storage, "alice", model.SkillVitality, 25)

	first, err := s.service.RegenInfo(s.ctx, "alice")
	s.Require().NoError(err)
	second, err := s.service.RegenInfo(s.ctx, "alice")
	s.Require().NoError(err)
	s.Equal(first, second)

	p, err := s.storage.GetPlayer(s.ctx, "alice")
	s.Require().NoError(err)
	s.Equal(50, p.Energy)
	s.Equal(int64(1), p.Version)
}

func (s *ServiceSuite) TestSkillBonusesComeBeforeHouseBonuses() {
	s.giveHouse("h1", testutil.Bedroom("h1", "r1", 0, 0, "wooden_bed"))
	testutil.SetSkill(s.T(), s.storage, "alice", model.SkillVitality, 30)

	info, err := s.service.RegenInfo(s.ctx, "alice")
	s.Require().NoError(err)
	s.Equal([]model.RegenBonus{
		{Source: "Skill (Vitality)", Amount: "+3%"},
		{Source: "House (Bed)", Amount: "+10%"},
	}, info.Bonuses)
	// 10 * 113 / 100 = 11.3
	s.Equal(11, info.TotalGained)
}

func (s *ServiceSuite) TestPercentAndFlatStack() {
	s.giveHouse("h1",
		model.Room{ID: "r1", HouseID: "h1", Type: model.RoomBedroom, GridX: 0, GridY: 0, Furniture: []model.Furniture{
			{ID: "f1", RoomID: "r1", Key: "canopy_bed", HotspotSlug: model.HotspotBed},
			{ID: "f2", RoomID: "r1", Key: "candle_nightstand", HotspotSlug: model.HotspotNightstand},
		}},
		model.Room{ID: "r2", HouseID: "h1", Type: model.RoomLivingRoom, GridX: 1, GridY: 0, Furniture: []model.Furniture{
			{ID: "f3", RoomID: "r2", Key: "stone_fireplace", HotspotSlug: model.HotspotFireplace},
		}},
	)

	info, err := s.service.RegenInfo(s.ctx, "alice")
	s.Require().NoError(err)
	s.Equal([]model.RegenBonus{
		{Source: "House (Bed)", Amount: "+20%"},
		{Source: "House (Nightstand)", Amount: "+1"},
		{Source: "House (Fireplace)", Amount: "+2"},
	}, info.Bonuses)
	// floor(10 * 1.20) + 1 + 2
	s.Equal(15, info.TotalGained)
}

func (s *ServiceSuite) TestBonusesAccumulateAcrossHouses() {
	s.giveHouse("h1", testutil.Bedroom("h1", "r1", 0, 0, "straw_bed"))
	s.giveHouse("h2", testutil.Bedroom("h2", "r2", 0, 0, "straw_bed"))

	info, err := s.service.RegenInfo(s.ctx, "alice")
	s.Require().NoError(err)
	s.Len(info.Bonuses, 2)
	s.Equal(11, info.TotalGained)
}

func (s *ServiceSuite) TestMissingCatalogEntryDegradesToZero() {
	s.giveHouse("h1", testutil.Bedroom("h1", "r1", 0, 0, "retired_bed"))

	gained, err := s.service.Regenerate(s.ctx, "alice")
	s.Require().NoError(err)
	s.Equal(10, gained)
}

func (s *ServiceSuite) TestRegenerateClampsToMax() {
	p, err := s.storage.GetPlayer(s.ctx, "alice")
	s.Require().NoError(err)
	p.Energy = 95
	s.Require().NoError(s.storage.UpdatePlayer(s.ctx, p))

	gained, err := s.service.Regenerate(s.ctx, "alice")
	s.Require().NoError(err)
	s.Equal(5, gained)

	p, err = s.storage.GetPlayer(s.ctx, "alice")
	s.Require().NoError(err)
	s.Equal(100, p.Energy)

	gained, err = s.service.Regenerate(s.ctx, "alice")
	s.Require().NoError(err)
	s.Equal(0, gained)
}

func (s *ServiceSuite) TestMissingPlayer() {
	_, err := s.service.Regenerate(s.ctx, "ghost")
	s.ErrorIs(err, model.ErrPlayerNotFound)

	_, err = s.service.RegenInfo(s.ctx, "ghost")
	s.ErrorIs(err, model.ErrPlayerNotFound)
}

func (s *ServiceSuite) TestConcurrentRegenerationNeverExceedsMax() {
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = s.service.Regenerate(s.ctx, "alice")
		}()
	}
	wg.Wait()

	p, err := s.storage.GetPlayer(s.ctx, "alice")
	s.Require().NoError(err)
	s.Equal(100, p.Energy)
}

// conflictingStorage fails the first n player updates as if another
// process had written in between
type conflictingStorage struct {
	storage.Storage
	failures int
	calls    int
}

func (c *conflictingStorage) UpdatePlayer(ctx context.Context, p *model.Player) error {
	c.calls++
	if c.failures > 0 {
		c.failures--
		return model.ErrVersionConflict
	}
	return c.Storage.UpdatePlayer(ctx, p)
}

func (s *ServiceSuite) TestRegenerateRetriesVersionConflicts() {
	store := &conflictingStorage{Storage: s.storage, failures: 2}
	svc := New(store, s.houses, config.DefaultBalance().Energy, s.clock, testutil.NopLogger())

	gained, err := svc.Regenerate(s.ctx, "alice")
	s.Require().NoError(err)
	s.Equal(10, gained)
	s.Equal(3, store.calls)
}

func (s *ServiceSuite) TestRegenerateGivesUpAfterMaxAttempts() {
	store := &conflictingStorage{Storage: s.storage, failures: MaxAttempts}
	svc := New(store, s.houses, config.DefaultBalance().Energy, s.clock, testutil.NopLogger())

	_, err := svc.Regenerate(s.ctx, "alice")
	s.ErrorIs(err, model.ErrVersionConflict)
}

func TestBreakdown(t *testing.T) {
	percent := func(v int) Line { return Line{Source: "x", Bonus: catalog.Bonus{Mode: catalog.ModePercent, Value: v}} }
	flat := func(v int) Line { return Line{Source: "x", Bonus: catalog.Bonus{Mode: catalog.ModeFlat, Value: v}} }

	cases := []struct {
		name  string
		base  int
		lines []Line
		want  int
	}{
		{"base only", 10, nil, 10},
		{"ten percent", 10, []Line{percent(10)}, 11},
		{"five percent floors", 10, []Line{percent(5)}, 10},
		{"percents sum not compound", 10, []Line{percent(10), percent(10)}, 12},
		{"flat after percent", 10, []Line{flat(2), percent(15)}, 13},
		{"percent floor clamps at zero", 10, []Line{percent(-150)}, 0},
		{"never negative", 10, []Line{flat(-20)}, 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Breakdown(tc.base, tc.lines).TotalGained)
		})
	}
}
