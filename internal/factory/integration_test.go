package factory

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/djasnowski/myrefell-sub008/internal/catalog"
	"github.com/djasnowski/myrefell-sub008/internal/config"
	"github.com/djasnowski/myrefell-sub008/internal/model"
	"github.com/djasnowski/myrefell-sub008/internal/services/auth"
	"github.com/djasnowski/myrefell-sub008/internal/services/market"
	"github.com/djasnowski/myrefell-sub008/internal/testutil"
)

type IntegrationSuite struct {
	suite.Suite
	app *TestApp
	ctx context.Context
}

func TestIntegrationSuite(t *testing.T) {
	suite.Run(t, new(IntegrationSuite))
}

func (s *IntegrationSuite) SetupTest() {
	s.app = NewTestApp()
	s.ctx = context.Background()
}

func (s *IntegrationSuite) register(username string) model.PlayerID {
	sess, err := s.app.AuthService.RegisterPlayer(s.ctx, username, "password123", username)
	s.Require().NoError(err)
	return sess.PlayerID
}

func (s *IntegrationSuite) setConstruction(id model.PlayerID, level int) {
	s.Require().NoError(s.app.Storage.SaveSkill(s.ctx, model.Skill{
		PlayerID: id,
		Name:     model.SkillConstruction,
		Level:    level,
	}))
}

// Test: a player builds a bedroom, places a bed and regenerates faster
func (s *IntegrationSuite) TestFurnishedHouseBoostsRegen() {
	alice := s.register("alice")
	s.setConstruction(alice, 10)

	before, err := s.app.EnergyService.RegenInfo(s.ctx, alice)
	s.Require().NoError(err)
	s.Equal(10, before.TotalGained)
	s.Empty(before.Bonuses)

	h, err := s.app.HouseService.CreateHouse(s.ctx, alice, "Alice's Cottage", model.TierCottage, 1)
	s.Require().NoError(err)
	room, err := s.app.HouseService.AddRoom(s.ctx, alice, h.ID, model.RoomBedroom, 0, 0)
	s.Require().NoError(err)
	_, err = s.app.HouseService.PlaceFurniture(s.ctx, alice, h.ID, room.ID, catalog.FurnitureKey("wooden_bed"), model.HotspotBed)
	s.Require().NoError(err)

	after, err := s.app.EnergyService.RegenInfo(s.ctx, alice)
	s.Require().NoError(err)
	s.Equal(11, after.TotalGained)
	s.Equal([]model.RegenBonus{{Source: "House (Bed)", Amount: "+10%"}}, after.Bonuses)

	// New players start at full energy, so spend some first
	p, err := s.app.Storage.GetPlayer(s.ctx, alice)
	s.Require().NoError(err)
	p.Energy = 50
	s.Require().NoError(s.app.Storage.UpdatePlayer(s.ctx, p))

	gained, err := s.app.EnergyService.Regenerate(s.ctx, alice)
	s.Require().NoError(err)
	s.Equal(11, gained)

	p, err = s.app.Storage.GetPlayer(s.ctx, alice)
	s.Require().NoError(err)
	s.Equal(61, p.Energy)
}

// Test: the market is gated by where the player stands
func (s *IntegrationSuite) TestMarketRequiresTravel() {
	bob := s.register("bob")

	view, err := s.app.MarketService.View(s.ctx, bob, 1)
	s.Require().NoError(err)
	s.Equal(market.VariantNotHere, view.Variant)
	s.Equal("Millbrook", view.Access.CurrentName)
	s.Empty(view.Listings)

	_, err = s.app.LocationService.Travel(s.ctx, bob, model.KingdomLocation(1))
	s.Require().NoError(err)

	view, err = s.app.MarketService.View(s.ctx, bob, 1)
	s.Require().NoError(err)
	s.Equal(market.VariantOpen, view.Variant)
	s.NotEmpty(view.Listings)

	// Standing in kingdom 1 does not open kingdom 2's market
	view, err = s.app.MarketService.View(s.ctx, bob, 2)
	s.Require().NoError(err)
	s.Equal(market.VariantNotHere, view.Variant)
}

// Test: advancing the calendar into a closed season closes the market
func (s *IntegrationSuite) TestClosedSeason() {
	balance := config.DefaultBalance()
	balance.Market.ClosedSeasons = []model.Season{model.SeasonSummer}
	app := newWithDependencies(s.app.Storage, s.app.MockClock, s.app.MockIDs, balance, s.app.Catalog, auth.DefaultConfig(), testutil.NopLogger())

	sess, err := app.AuthService.CreateGuestPlayer(s.ctx, "Wanderer")
	s.Require().NoError(err)
	_, err = app.LocationService.Travel(s.ctx, sess.PlayerID, model.KingdomLocation(1))
	s.Require().NoError(err)

	view, err := app.MarketService.View(s.ctx, sess.PlayerID, 1)
	s.Require().NoError(err)
	s.Equal(market.VariantOpen, view.Variant)

	ws, err := app.WorldService.Advance(s.ctx, model.WeeksPerSeason)
	s.Require().NoError(err)
	s.Equal(model.SeasonSummer, ws.Season)

	view, err = app.MarketService.View(s.ctx, sess.PlayerID, 1)
	s.Require().NoError(err)
	s.Equal(market.VariantClosed, view.Variant)
	s.Equal(ws, view.World)
}

// Test: banned players vanish from the leaderboard without leaving a gap
func (s *IntegrationSuite) TestLeaderboardSkipsBanned() {
	ids := []model.PlayerID{s.register("first"), s.register("second"), s.register("third")}
	for i, id := range ids {
		s.app.MockClock.Advance(time.Minute)
		_, err := s.app.HouseService.CreateHouse(s.ctx, id, "Hall", model.TierManor-model.HouseTier(i%2), 1)
		s.Require().NoError(err)
	}

	p, err := s.app.Storage.GetPlayer(s.ctx, ids[0])
	s.Require().NoError(err)
	now := s.app.MockClock.Now()
	p.BannedAt = &now
	s.Require().NoError(s.app.Storage.UpdatePlayer(s.ctx, p))

	entries, err := s.app.LeaderboardService.RankHouses(s.ctx, nil)
	s.Require().NoError(err)
	s.Require().Len(entries, 2)
	s.Equal(1, entries[0].Rank)
	s.Equal("third", entries[0].Username)
	s.Equal(2, entries[1].Rank)
	s.Equal("second", entries[1].Username)
}

// Test: travel and regeneration write the same player record without
// tripping over each other
func (s *IntegrationSuite) TestConcurrentTravelAndRegen() {
	alice := s.register("alice")
	p, err := s.app.Storage.GetPlayer(s.ctx, alice)
	s.Require().NoError(err)
	p.Energy = 0
	s.Require().NoError(s.app.Storage.UpdatePlayer(s.ctx, p))

	const rounds = 10
	errs := make(chan error, 2*rounds)
	var wg sync.WaitGroup
	for i := range rounds {
		wg.Add(2)
		go func() {
			defer wg.Done()
			_, err := s.app.EnergyService.Regenerate(s.ctx, alice)
			errs <- err
		}()
		go func() {
			defer wg.Done()
			_, err := s.app.LocationService.Travel(s.ctx, alice, model.KingdomLocation(model.KingdomID(i%3+1)))
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		s.NoError(err)
	}

	final, err := s.app.Storage.GetPlayer(s.ctx, alice)
	s.Require().NoError(err)
	s.Equal(100, final.Energy)
	s.Equal(model.LocationKingdom, final.CurrentLocation.Type)
}

// Test: travel waits while regeneration holds the player
func (s *IntegrationSuite) TestTravelSharesRegenLock() {
	alice := s.register("alice")
	unlock := s.app.EnergyService.Locks().Lock(string(alice))

	done := make(chan error, 1)
	go func() {
		_, err := s.app.LocationService.Travel(s.ctx, alice, model.KingdomLocation(2))
		done <- err
	}()

	select {
	case <-done:
		s.Fail("travel ignored the regeneration lock")
	case <-time.After(50 * time.Millisecond):
	}
	unlock()
	s.NoError(<-done)
}
