package storage

import (
	"context"

	"github.com/djasnowski/myrefell-sub008/internal/model"
)

// HouseFilter narrows ListHouses. Zero-valued fields match everything.
type HouseFilter struct {
	PlayerID  model.PlayerID
	KingdomID model.KingdomID
}

// Matches reports whether the house passes the filter
func (f HouseFilter) Matches(h *model.House) bool {
	if f.PlayerID != "" && h.PlayerID != f.PlayerID {
		return false
	}
	if f.KingdomID != 0 && h.KingdomID != f.KingdomID {
		return false
	}
	return true
}

// Storage defines the interface for data persistence.
//
// Implementations return copies: mutating a returned entity never changes
// stored state until it is written back.
type Storage interface {
	// Player operations
	// CreatePlayer stores a new player at version 1. Usernames are unique.
	CreatePlayer(ctx context.Context, player *model.Player) error
	GetPlayer(ctx context.Context, id model.PlayerID) (*model.Player, error)
	GetPlayerByUsername(ctx context.Context, username string) (*model.Player, error)
	// UpdatePlayer writes the player if its Version still matches the stored
	// one, then bumps Version. Otherwise it returns ErrVersionConflict.
	UpdatePlayer(ctx context.Context, player *model.Player) error
	ListPlayers(ctx context.Context) ([]*model.Player, error)

	// Registered player operations
	SaveRegisteredPlayer(ctx context.Context, rp *model.RegisteredPlayer) error
	GetRegisteredPlayer(ctx context.Context, playerID model.PlayerID) (*model.RegisteredPlayer, error)
	GetRegisteredPlayerByUsername(ctx context.Context, username string) (*model.RegisteredPlayer, error)

	// Skill operations
	SaveSkill(ctx context.Context, skill model.Skill) error
	GetSkills(ctx context.Context, playerID model.PlayerID) ([]model.Skill, error)

	// House operations. Houses are stored as whole aggregates (rooms and
	// furniture included) and listed in creation order.
	CreateHouse(ctx context.Context, house *model.House) error
	SaveHouse(ctx context.Context, house *model.House) error
	GetHouse(ctx context.Context, id model.HouseID) (*model.House, error)
	ListHouses(ctx context.Context, filter HouseFilter) ([]*model.House, error)
	DeleteHouse(ctx context.Context, id model.HouseID) error

	// Realm operations
	SaveKingdom(ctx context.Context, kingdom model.Kingdom) error
	GetKingdom(ctx context.Context, id model.KingdomID) (model.Kingdom, error)
	ListKingdoms(ctx context.Context) ([]model.Kingdom, error)
	SaveBarony(ctx context.Context, barony model.Barony) error
	GetBarony(ctx context.Context, id model.BaronyID) (model.Barony, error)
	SaveVillage(ctx context.Context, village model.Village) error
	GetVillage(ctx context.Context, id model.VillageID) (model.Village, error)

	// World state operations
	GetWorldState(ctx context.Context) (model.WorldState, error)
	SaveWorldState(ctx context.Context, state model.WorldState) error
}
