package leaderboard

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"

	"github.com/djasnowski/myrefell-sub008/internal/config"
	"github.com/djasnowski/myrefell-sub008/internal/dependencies/mocks"
	"github.com/djasnowski/myrefell-sub008/internal/model"
	"github.com/djasnowski/myrefell-sub008/internal/storage/memory"
	"github.com/djasnowski/myrefell-sub008/internal/testutil"
)

func TestParseTab(t *testing.T) {
	tab, err := ParseTab("")
	assert.NoError(t, err)
	assert.Equal(t, TabHouses, tab)

	tab, err = ParseTab("Wealth")
	assert.NoError(t, err)
	assert.Equal(t, TabWealth, tab)

	_, err = ParseTab("kills")
	assert.ErrorIs(t, err, model.ErrInvalidLeaderboard)
	assert.ErrorIs(t, err, model.ErrValidation)
}

type ServiceSuite struct {
	suite.Suite
	storage *memory.Storage
	clock   *mocks.MockClock
	balance config.LeaderboardBalance
	service *Service
	ctx     context.Context
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) SetupTest() {
	s.storage = memory.New()
	s.clock = mocks.NewMockClock(testutil.Epoch)
	s.balance = config.DefaultBalance().Leaderboard
	s.service = New(s.storage, s.balance, s.clock, testutil.NopLogger())
	s.ctx = context.Background()
}

func (s *ServiceSuite) player(id model.PlayerID, gold int64) *model.Player {
	p := testutil.NewPlayer(id, string(id))
	p.Gold = gold
	return testutil.CreatePlayer(s.T(), s.storage, p)
}

func (s *ServiceSuite) house(id model.HouseID, owner model.PlayerID, tier model.HouseTier, condition int) *model.House {
	return testutil.CreateHouse(s.T(), s.storage, &model.House{
		ID: id, PlayerID: owner, Name: string(id), Tier: tier, Condition: condition,
	})
}

// setCondition bypasses the fixture, which treats zero as unset
func (s *ServiceSuite) setCondition(id model.HouseID, condition int) {
	h, err := s.storage.GetHouse(s.ctx, id)
	s.Require().NoError(err)
	h.Condition = condition
	s.Require().NoError(s.storage.SaveHouse(s.ctx, h))
}

func (s *ServiceSuite) ban(id model.PlayerID) {
	p, err := s.storage.GetPlayer(s.ctx, id)
	s.Require().NoError(err)
	at := s.clock.Now()
	p.BannedAt = &at
	s.Require().NoError(s.storage.UpdatePlayer(s.ctx, p))
}

func (s *ServiceSuite) TestHigherTierRanksFirst() {
	s.player("alice", 0)
	s.player("bob", 0)
	s.house("h1", "alice", model.TierCottage, 80)
	s.house("h2", "bob", model.TierHouse, 80)

	entries, err := s.service.RankHouses(s.ctx, nil)
	s.Require().NoError(err)
	s.Require().Len(entries, 2)
	s.Equal("bob", entries[0].Username)
	s.Equal(1, entries[0].Rank)
	s.Equal("alice", entries[1].Username)
	s.Equal(2, entries[1].Rank)
}

func (s *ServiceSuite) TestHigherTierBeatsFurnishedLowerTier() {
	s.player("alice", 0)
	s.player("bob", 0)
	furnished := &model.House{
		ID: "h1", PlayerID: "alice", Name: "h1", Tier: model.TierCottage, Condition: 10,
		Rooms: []model.Room{
			testutil.Bedroom("h1", "r1", 0, 0, "straw_bed"),
			testutil.Bedroom("h1", "r2", 1, 0, "wooden_bed"),
		},
	}
	testutil.CreateHouse(s.T(), s.storage, furnished)
	s.house("h2", "bob", model.TierHouse, 10)

	entries, err := s.service.RankHouses(s.ctx, nil)
	s.Require().NoError(err)
	s.Require().Len(entries, 2)
	s.Equal(model.HouseID("h2"), entries[0].HouseID)
	s.Equal(model.HouseID("h1"), entries[1].HouseID)
	s.Greater(entries[0].Score, entries[1].Score)
}

func (s *ServiceSuite) TestHigherTierRanksFirstAtZeroCondition() {
	s.player("alice", 0)
	s.player("bob", 0)
	// the cottage is created first so a tie-break would favour it
	s.house("h3", "alice", model.TierCottage, 50)
	s.house("h4", "bob", model.TierEstate, 50)
	s.setCondition("h3", 0)
	s.setCondition("h4", 0)

	entries, err := s.service.RankHouses(s.ctx, nil)
	s.Require().NoError(err)
	s.Require().Len(entries, 2)
	s.Equal(model.HouseID("h4"), entries[0].HouseID)
	s.Equal(model.HouseID("h3"), entries[1].HouseID)
	s.Greater(entries[0].Score, entries[1].Score)
}

func (s *ServiceSuite) TestScoreOrdersTierThenCondition() {
	worn := &model.House{Tier: model.TierManor, Condition: 0}
	pristine := &model.House{Tier: model.TierHouse, Condition: model.MaxCondition, Rooms: []model.Room{
		testutil.Bedroom("h", "r1", 0, 0, "straw_bed"),
	}}
	s.Greater(s.service.Score(worn), s.service.Score(pristine))

	for _, tier := range []model.HouseTier{model.TierCottage, model.TierHouse, model.TierManor} {
		low := &model.House{Tier: tier, Condition: 0}
		high := &model.House{Tier: tier + 1, Condition: 0}
		s.Greater(s.service.Score(high), s.service.Score(low), tier.String())
	}
}

func (s *ServiceSuite) TestBannedOwnerExcludedWithoutRankGap() {
	s.player("alice", 0)
	s.player("bob", 0)
	s.player("carol", 0)
	s.house("h1", "alice", model.TierEstate, 100)
	s.house("h2", "bob", model.TierHouse, 50)
	s.house("h3", "carol", model.TierCottage, 50)
	s.ban("alice")

	entries, err := s.service.RankHouses(s.ctx, nil)
	s.Require().NoError(err)
	s.Require().Len(entries, 2)
	for _, e := range entries {
		s.NotEqual("alice", e.Username)
	}
	s.Equal([]int{1, 2}, []int{entries[0].Rank, entries[1].Rank})
	s.Equal("bob", entries[0].Username)
}

func (s *ServiceSuite) TestTieBreaksByCreationOrder() {
	s.player("alice", 0)
	s.player("bob", 0)
	// bob's house is created first even though alice sorts first by name
	s.house("h_b", "bob", model.TierHouse, 60)
	s.house("h_a", "alice", model.TierHouse, 60)

	entries, err := s.service.RankHouses(s.ctx, nil)
	s.Require().NoError(err)
	s.Require().Len(entries, 2)
	s.Equal(entries[0].Score, entries[1].Score)
	s.Equal(model.HouseID("h_b"), entries[0].HouseID)
	s.Equal(model.HouseID("h_a"), entries[1].HouseID)
}

func (s *ServiceSuite) TestScoreGrowsWithConditionAndContents() {
	base := &model.House{Tier: model.TierManor, Condition: 50}
	better := &model.House{Tier: model.TierManor, Condition: 51}
	s.Greater(s.service.Score(better), s.service.Score(base))

	furnished := &model.House{Tier: model.TierManor, Condition: 50, Rooms: []model.Room{
		testutil.Bedroom("h", "r1", 0, 0, "straw_bed"),
	}}
	s.Equal(s.service.Score(base)+s.balance.RoomValue+s.balance.FurnitureValue, s.service.Score(furnished))
}

func (s *ServiceSuite) TestFilterByKingdom() {
	s.player("alice", 0)
	s.house("h1", "alice", model.TierCottage, 100)
	testutil.CreateHouse(s.T(), s.storage, &model.House{
		ID: "h2", PlayerID: "alice", Name: "west", Tier: model.TierEstate, KingdomID: 2,
	})

	kingdom := model.KingdomID(1)
	entries, err := s.service.RankHouses(s.ctx, &kingdom)
	s.Require().NoError(err)
	s.Require().Len(entries, 1)
	s.Equal(model.HouseID("h1"), entries[0].HouseID)
	s.Equal(model.KingdomID(1), entries[0].KingdomID)
}

func (s *ServiceSuite) TestOverdueUpkeepExcluded() {
	s.player("alice", 0)
	s.player("bob", 0)
	overdue := s.house("h1", "alice", model.TierEstate, 100)
	overdue.UpkeepDueAt = testutil.Epoch.Add(-s.balance.UpkeepGrace - time.Hour)
	s.Require().NoError(s.storage.SaveHouse(s.ctx, overdue))

	withinGrace := s.house("h2", "bob", model.TierCottage, 100)
	withinGrace.UpkeepDueAt = testutil.Epoch.Add(-time.Hour)
	s.Require().NoError(s.storage.SaveHouse(s.ctx, withinGrace))

	entries, err := s.service.RankHouses(s.ctx, nil)
	s.Require().NoError(err)
	s.Require().Len(entries, 1)
	s.Equal("bob", entries[0].Username)
}

func (s *ServiceSuite) TestLimit() {
	s.service = New(s.storage, config.LeaderboardBalance{
		TierWeights: s.balance.TierWeights,
		Limit:       2,
	}, s.clock, testutil.NopLogger())
	s.player("alice", 0)
	for _, id := range []model.HouseID{"h1", "h2", "h3"} {
		s.house(id, "alice", model.TierCottage, 50)
	}

	entries, err := s.service.RankHouses(s.ctx, nil)
	s.Require().NoError(err)
	s.Len(entries, 2)
}

func (s *ServiceSuite) TestEmpty() {
	entries, err := s.service.RankHouses(s.ctx, nil)
	s.Require().NoError(err)
	s.Empty(entries)
}

func (s *ServiceSuite) TestRankWealth() {
	s.player("alice", 500)
	s.player("bob", 900)
	s.player("carol", 500)
	s.player("dave", 10_000)
	s.ban("dave")

	entries, err := s.service.RankWealth(s.ctx)
	s.Require().NoError(err)
	s.Equal([]model.WealthEntry{
		{Rank: 1, Username: "bob", Score: 900},
		{Rank: 2, Username: "alice", Score: 500},
		{Rank: 3, Username: "carol", Score: 500},
	}, entries)
}
