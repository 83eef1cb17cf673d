package leaderboard

import (
	"context"
	"log/slog"
	"sort"
	"strings"

	"github.com/djasnowski/myrefell-sub008/internal/config"
	"github.com/djasnowski/myrefell-sub008/internal/dependencies/clock"
	"github.com/djasnowski/myrefell-sub008/internal/model"
	"github.com/djasnowski/myrefell-sub008/internal/storage"
)

// Tab names a leaderboard
type Tab string

const (
	TabHouses Tab = "houses"
	TabWealth Tab = "wealth"
)

// Tabs returns the leaderboards in display order
func Tabs() []Tab {
	return []Tab{TabHouses, TabWealth}
}

// ParseTab reads a tab name. An empty name selects the houses tab.
func ParseTab(s string) (Tab, error) {
	switch Tab(strings.ToLower(strings.TrimSpace(s))) {
	case "", TabHouses:
		return TabHouses, nil
	case TabWealth:
		return TabWealth, nil
	default:
		return "", model.ErrInvalidLeaderboard
	}
}

// Service ranks houses and players
type Service struct {
	storage storage.Storage
	balance config.LeaderboardBalance
	clock   clock.Clock
	logger  *slog.Logger
}

// New creates a new leaderboard Service
func New(
	storage storage.Storage,
	balance config.LeaderboardBalance,
	clock clock.Clock,
	logger *slog.Logger,
) *Service {
	return &Service{
		storage: storage,
		balance: balance,
		clock:   clock,
		logger:  logger.With(slog.String("component", "leaderboard-service")),
	}
}

// Score bands. Contents stay below conditionBand and a full condition
// range stays below tierBand, so tier outranks condition and condition
// outranks contents whatever the configured values.
const (
	conditionBand int64 = 10_000
	tierBand            = (model.MaxCondition + 1) * conditionBand
)

// Score values a house: tier first, then condition, then rooms and
// furniture. Strictly increasing tier weights keep a higher tier ahead at
// any condition, including zero.
func (s *Service) Score(h *model.House) int64 {
	contents := s.balance.RoomValue*int64(len(h.Rooms)) +
		s.balance.FurnitureValue*int64(h.FurnitureCount())
	contents = min(max(contents, 0), conditionBand-1)
	condition := min(max(int64(h.Condition), 0), model.MaxCondition)
	return s.balance.TierWeight(h.Tier)*tierBand + condition*conditionBand + contents
}

type scoredHouse struct {
	house *model.House
	owner *model.Player
	score int64
}

// RankHouses ranks houses by score, optionally within one kingdom.
// Houses of banned owners and houses with upkeep overdue past the grace
// period are dropped before ranks are assigned. Equal scores keep
// creation order.
func (s *Service) RankHouses(ctx context.Context, kingdomID *model.KingdomID) ([]model.HouseEntry, error) {
	filter := storage.HouseFilter{}
	if kingdomID != nil {
		filter.KingdomID = *kingdomID
	}
	houses, err := s.storage.ListHouses(ctx, filter)
	if err != nil {
		return nil, err
	}
	owners, err := s.playersByID(ctx)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	scored := make([]scoredHouse, 0, len(houses))
	for _, h := range houses {
		owner, ok := owners[h.PlayerID]
		if !ok {
			s.logger.Warn("house owner missing",
				slog.String("house_id", string(h.ID)),
				slog.String("player_id", string(h.PlayerID)),
			)
			continue
		}
		if owner.IsBanned() || h.UpkeepOverdue(now, s.balance.UpkeepGrace) {
			continue
		}
		scored = append(scored, scoredHouse{house: h, owner: owner, score: s.Score(h)})
	}

	sort.SliceStable(scored, func(i, j int) bool {
		if scored[i].score != scored[j].score {
			return scored[i].score > scored[j].score
		}
		return scored[i].house.Seq < scored[j].house.Seq
	})
	scored = limit(scored, s.balance.Limit)

	entries := make([]model.HouseEntry, len(scored))
	for i, sh := range scored {
		entries[i] = model.HouseEntry{
			Rank:      i + 1,
			Username:  sh.owner.Username,
			Score:     sh.score,
			HouseID:   sh.house.ID,
			HouseName: sh.house.Name,
			Tier:      sh.house.Tier.String(),
			KingdomID: sh.house.KingdomID,
		}
	}
	return entries, nil
}

// RankWealth ranks players by gold. Banned players are dropped; equal
// gold keeps the older account first.
func (s *Service) RankWealth(ctx context.Context) ([]model.WealthEntry, error) {
	players, err := s.storage.ListPlayers(ctx)
	if err != nil {
		return nil, err
	}

	eligible := make([]*model.Player, 0, len(players))
	for _, p := range players {
		if !p.IsBanned() {
			eligible = append(eligible, p)
		}
	}
	sort.SliceStable(eligible, func(i, j int) bool {
		a, b := eligible[i], eligible[j]
		if a.Gold != b.Gold {
			return a.Gold > b.Gold
		}
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.Before(b.CreatedAt)
		}
		return a.ID < b.ID
	})
	eligible = limit(eligible, s.balance.Limit)

	entries := make([]model.WealthEntry, len(eligible))
	for i, p := range eligible {
		entries[i] = model.WealthEntry{Rank: i + 1, Username: p.Username, Score: p.Gold}
	}
	return entries, nil
}

func (s *Service) playersByID(ctx context.Context) (map[model.PlayerID]*model.Player, error) {
	players, err := s.storage.ListPlayers(ctx)
	if err != nil {
		return nil, err
	}
	out := make(map[model.PlayerID]*model.Player, len(players))
	for _, p := range players {
		out[p.ID] = p
	}
	return out, nil
}

// limit truncates to n entries; n <= 0 means no limit
func limit[T any](items []T, n int) []T {
	if n > 0 && len(items) > n {
		return items[:n]
	}
	return items
}
