package energy

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/djasnowski/myrefell-sub008/internal/catalog"
	"github.com/djasnowski/myrefell-sub008/internal/config"
	"github.com/djasnowski/myrefell-sub008/internal/dependencies/clock"
	"github.com/djasnowski/myrefell-sub008/internal/model"
	"github.com/djasnowski/myrefell-sub008/internal/services/house"
	"github.com/djasnowski/myrefell-sub008/internal/services/keylock"
	"github.com/djasnowski/myrefell-sub008/internal/storage"
)

// MaxAttempts bounds retries after a version conflict
const MaxAttempts = 3

// Service computes and applies energy regeneration
type Service struct {
	storage storage.Storage
	houses  *house.Service
	balance config.EnergyBalance
	clock   clock.Clock
	locks   *keylock.Map
	logger  *slog.Logger
}

// New creates a new energy Service
func New(
	storage storage.Storage,
	houses *house.Service,
	balance config.EnergyBalance,
	clock clock.Clock,
	logger *slog.Logger,
) *Service {
	return &Service{
		storage: storage,
		houses:  houses,
		balance: balance,
		clock:   clock,
		locks:   keylock.New(),
		logger:  logger.With(slog.String("component", "energy-service")),
	}
}

// Locks exposes the per-player lock so other services spending energy
// serialise with regeneration
func (s *Service) Locks() *keylock.Map {
	return s.locks
}

// RegenInfo explains what one regeneration tick would give the player.
// It reads state only.
func (s *Service) RegenInfo(ctx context.Context, playerID model.PlayerID) (model.RegenInfo, error) {
	if _, err := s.storage.GetPlayer(ctx, playerID); err != nil {
		return model.RegenInfo{}, err
	}
	return s.compute(ctx, playerID)
}

// Regenerate applies one tick and returns the energy actually added, which
// is lower than the computed amount when the player is near MaxEnergy
func (s *Service) Regenerate(ctx context.Context, playerID model.PlayerID) (int, error) {
	unlock := s.locks.Lock(string(playerID))
	defer unlock()

	var lastErr error
	for attempt := 1; attempt <= MaxAttempts; attempt++ {
		player, err := s.storage.GetPlayer(ctx, playerID)
		if err != nil {
			return 0, err
		}
		info, err := s.compute(ctx, playerID)
		if err != nil {
			return 0, err
		}

		gained := player.AddEnergy(info.TotalGained)
		if gained == 0 {
			return 0, nil
		}
		player.UpdatedAt = s.clock.Now()

		err = s.storage.UpdatePlayer(ctx, player)
		if err == nil {
			s.logger.Debug("energy regenerated",
				slog.String("player_id", string(playerID)),
				slog.Int("gained", gained),
				slog.Int("energy", player.Energy),
			)
			return gained, nil
		}
		if !errors.Is(err, model.ErrVersionConflict) {
			return 0, err
		}
		lastErr = err
		s.logger.Warn("energy update conflicted, retrying",
			slog.String("player_id", string(playerID)),
			slog.Int("attempt", attempt),
		)
	}
	return 0, lastErr
}

// compute gathers skill bonuses then house bonuses and applies them to the
// base amount
func (s *Service) compute(ctx context.Context, playerID model.PlayerID) (model.RegenInfo, error) {
	skills, err := s.storage.GetSkills(ctx, playerID)
	if err != nil {
		return model.RegenInfo{}, err
	}
	houses, err := s.storage.ListHouses(ctx, storage.HouseFilter{PlayerID: playerID})
	if err != nil {
		return model.RegenInfo{}, err
	}

	var lines []Line
	for _, sb := range s.balance.SkillBonuses {
		points := model.SkillLevel(skills, sb.Skill) / sb.LevelsPerPoint
		if points == 0 {
			continue
		}
		lines = append(lines, Line{
			Source: fmt.Sprintf("Skill (%s)", sb.Skill.DisplayName()),
			Bonus:  catalog.Bonus{Mode: sb.Mode, Value: points},
		})
	}
	for _, rb := range s.houses.ResolveAll(houses, catalog.BonusEnergyRegen) {
		lines = append(lines, Line{Source: rb.Source(), Bonus: rb.Bonus})
	}

	return Breakdown(s.balance.BaseRegen, lines), nil
}

// Line is one labelled bonus feeding Breakdown
type Line struct {
	Source string
	Bonus  catalog.Bonus
}

// Breakdown sums percentages, applies them once to base with floor
// rounding, then adds flat bonuses:
//
//	gained = floor(base * (100 + Σpercent) / 100) + Σflat
//
// Σpercent is clamped at -100 and the result is never negative.
func Breakdown(base int, lines []Line) model.RegenInfo {
	info := model.RegenInfo{Base: base, Bonuses: []model.RegenBonus{}}

	percent, flat := 0, 0
	for _, l := range lines {
		switch l.Bonus.Mode {
		case catalog.ModePercent:
			percent += l.Bonus.Value
		case catalog.ModeFlat:
			flat += l.Bonus.Value
		default:
			continue
		}
		info.Bonuses = append(info.Bonuses, model.RegenBonus{
			Source: l.Source,
			Amount: l.Bonus.Format(),
		})
	}
	if percent < -100 {
		percent = -100
	}

	total := base*(100+percent)/100 + flat
	if total < 0 {
		total = 0
	}
	info.TotalGained = total
	return info
}
