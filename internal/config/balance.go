package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/djasnowski/myrefell-sub008/internal/catalog"
	"github.com/djasnowski/myrefell-sub008/internal/model"
)

// Balance holds gameplay balance configuration
type Balance struct {
	Energy      EnergyBalance      `yaml:"energy" json:"energy"`
	Leaderboard LeaderboardBalance `yaml:"leaderboard" json:"leaderboard"`
	Market      MarketBalance      `yaml:"market" json:"market"`
	NewPlayer   NewPlayerBalance   `yaml:"new_player" json:"new_player"`
}

// EnergyBalance tunes energy regeneration
type EnergyBalance struct {
	BaseRegen    int          `yaml:"base_regen" json:"base_regen"`
	SkillBonuses []SkillBonus `yaml:"skill_bonuses" json:"skill_bonuses"`
}

// SkillBonus grants one bonus point per LevelsPerPoint levels of Skill
type SkillBonus struct {
	Skill          model.SkillName   `yaml:"skill" json:"skill"`
	Mode           catalog.BonusMode `yaml:"mode" json:"mode"`
	LevelsPerPoint int               `yaml:"levels_per_point" json:"levels_per_point"`
}

// LeaderboardBalance tunes house valuation and eligibility
type LeaderboardBalance struct {
	TierWeights    map[string]int64 `yaml:"tier_weights" json:"tier_weights"`
	RoomValue      int64            `yaml:"room_value" json:"room_value"`
	FurnitureValue int64            `yaml:"furniture_value" json:"furniture_value"`
	UpkeepGrace    time.Duration    `yaml:"upkeep_grace" json:"upkeep_grace"`
	Limit          int              `yaml:"limit" json:"limit"`
}

// TierWeight returns the configured weight for a tier, or 0 if unset
func (l LeaderboardBalance) TierWeight(t model.HouseTier) int64 {
	return l.TierWeights[t.String()]
}

// MarketBalance tunes kingdom markets
type MarketBalance struct {
	ClosedSeasons     []model.Season       `yaml:"closed_seasons" json:"closed_seasons"`
	SeasonalModifiers map[model.Season]int `yaml:"seasonal_modifiers" json:"seasonal_modifiers"`
	Listings          []MarketListing      `yaml:"listings" json:"listings"`
}

// MarketListing is a base price list entry
type MarketListing struct {
	Item      string `yaml:"item" json:"item"`
	Name      string `yaml:"name" json:"name"`
	BasePrice int64  `yaml:"base_price" json:"base_price"`
}

// NewPlayerBalance sets the starting state of a player
type NewPlayerBalance struct {
	Gold        int64 `yaml:"gold" json:"gold"`
	Energy      int   `yaml:"energy" json:"energy"`
	MaxEnergy   int   `yaml:"max_energy" json:"max_energy"`
	HomeVillage int64 `yaml:"home_village" json:"home_village"`
}

// DefaultBalance returns the default balance configuration
func DefaultBalance() Balance {
	return Balance{
		Energy: EnergyBalance{
			BaseRegen: 10,
			SkillBonuses: []SkillBonus{
				{Skill: model.SkillVitality, Mode: catalog.ModePercent, LevelsPerPoint: 10},
			},
		},
		Leaderboard: LeaderboardBalance{
			TierWeights: map[string]int64{
				model.TierCottage.String(): 1,
				model.TierHouse.String():   2,
				model.TierManor.String():   4,
				model.TierEstate.String():  8,
			},
			RoomValue:      5,
			FurnitureValue: 2,
			UpkeepGrace:    7 * 24 * time.Hour,
			Limit:          100,
		},
		Market: MarketBalance{
			SeasonalModifiers: map[model.Season]int{
				model.SeasonWinter: 20,
			},
			Listings: []MarketListing{
				{Item: "bread", Name: "Bread", BasePrice: 5},
				{Item: "wheat", Name: "Wheat", BasePrice: 3},
				{Item: "timber", Name: "Timber", BasePrice: 12},
				{Item: "iron_ore", Name: "Iron Ore", BasePrice: 20},
				{Item: "cloth", Name: "Cloth", BasePrice: 15},
			},
		},
		NewPlayer: NewPlayerBalance{
			Gold:        100,
			Energy:      100,
			MaxEnergy:   100,
			HomeVillage: 1,
		},
	}
}

// LoadBalance reads a YAML balance file over the defaults. Keys missing
// from the file keep their default values.
func LoadBalance(path string) (Balance, error) {
	b := DefaultBalance()
	raw, err := os.ReadFile(path)
	if err != nil {
		return b, err
	}
	if err := yaml.Unmarshal(raw, &b); err != nil {
		return b, fmt.Errorf("balance.yaml: %w", err)
	}
	if err := b.Validate(); err != nil {
		return b, fmt.Errorf("balance.yaml: %w", err)
	}
	return b, nil
}

// Validate rejects balance values the engine cannot work with
func (b Balance) Validate() error {
	if b.Energy.BaseRegen < 0 {
		return fmt.Errorf("energy.base_regen must not be negative")
	}
	for _, sb := range b.Energy.SkillBonuses {
		if !sb.Skill.Valid() {
			return fmt.Errorf("energy.skill_bonuses: unknown skill %q", sb.Skill)
		}
		if sb.LevelsPerPoint <= 0 {
			return fmt.Errorf("energy.skill_bonuses: levels_per_point must be positive")
		}
		if sb.Mode != catalog.ModePercent && sb.Mode != catalog.ModeFlat {
			return fmt.Errorf("energy.skill_bonuses: unknown mode %q", sb.Mode)
		}
	}
	// Scores must grow with tier
	var prev int64 = -1
	for _, t := range model.ValidTiers() {
		w := b.Leaderboard.TierWeight(t)
		if w <= prev {
			return fmt.Errorf("leaderboard.tier_weights must increase with tier (%s)", t)
		}
		prev = w
	}
	for _, s := range b.Market.ClosedSeasons {
		if !s.Valid() {
			return fmt.Errorf("market.closed_seasons: unknown season %q", s)
		}
	}
	if b.NewPlayer.MaxEnergy <= 0 {
		return fmt.Errorf("new_player.max_energy must be positive")
	}
	return nil
}
