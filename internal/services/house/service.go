package house

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/djasnowski/myrefell-sub008/internal/catalog"
	"github.com/djasnowski/myrefell-sub008/internal/dependencies/clock"
	"github.com/djasnowski/myrefell-sub008/internal/dependencies/ids"
	"github.com/djasnowski/myrefell-sub008/internal/model"
	"github.com/djasnowski/myrefell-sub008/internal/services/keylock"
	"github.com/djasnowski/myrefell-sub008/internal/storage"
)

// Service manages house structure and resolves furniture bonuses
type Service struct {
	storage storage.Storage
	catalog *catalog.Catalog
	clock   clock.Clock
	ids     ids.Generator
	locks   *keylock.Map
	logger  *slog.Logger
}

// New creates a new house Service
func New(
	storage storage.Storage,
	cat *catalog.Catalog,
	clock clock.Clock,
	idGen ids.Generator,
	logger *slog.Logger,
) *Service {
	return &Service{
		storage: storage,
		catalog: cat,
		clock:   clock,
		ids:     idGen,
		locks:   keylock.New(),
		logger:  logger.With(slog.String("component", "house-service")),
	}
}

// Catalog returns the furniture catalog the service resolves against
func (s *Service) Catalog() *catalog.Catalog {
	return s.catalog
}

// CreateHouse builds an empty house for the player in a kingdom
func (s *Service) CreateHouse(
	ctx context.Context,
	playerID model.PlayerID,
	name string,
	tier model.HouseTier,
	kingdomID model.KingdomID,
) (*model.House, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, model.ErrEmptyName
	}
	if !tier.Valid() {
		return nil, model.ErrInvalidTier
	}
	if _, err := s.storage.GetPlayer(ctx, playerID); err != nil {
		return nil, err
	}
	if _, err := s.storage.GetKingdom(ctx, kingdomID); err != nil {
		return nil, err
	}

	now := s.clock.Now()
	house := &model.House{
		ID:        model.HouseID(s.ids.NewID("h_")),
		PlayerID:  playerID,
		Name:      name,
		Tier:      tier,
		Condition: 100,
		KingdomID: kingdomID,
		Location:  model.KingdomLocation(kingdomID),
		Rooms:     []model.Room{},
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.storage.CreateHouse(ctx, house); err != nil {
		return nil, err
	}

	s.logger.Info("house created",
		slog.String("house_id", string(house.ID)),
		slog.String("player_id", string(playerID)),
		slog.String("tier", tier.String()),
	)
	return house, nil
}

// AddRoom places a new room on a free grid cell of the player's house
func (s *Service) AddRoom(
	ctx context.Context,
	playerID model.PlayerID,
	houseID model.HouseID,
	roomType model.RoomType,
	x, y int,
) (*model.Room, error) {
	if !roomType.Valid() {
		return nil, model.ErrInvalidRoomType
	}

	var room model.Room
	err := s.mutate(ctx, playerID, houseID, func(h *model.House) error {
		if h.Tier < roomType.MinTier() {
			return model.ErrRoomNotAllowed
		}
		if !h.InGrid(x, y) {
			return model.ErrGridOutOfBounds
		}
		if h.RoomAt(x, y) != nil {
			return model.ErrGridPositionTaken
		}
		room = model.Room{
			ID:        model.RoomID(s.ids.NewID("r_")),
			HouseID:   h.ID,
			Type:      roomType,
			GridX:     x,
			GridY:     y,
			Furniture: []model.Furniture{},
		}
		h.Rooms = append(h.Rooms, room)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &room, nil
}

// PlaceFurniture puts a catalog item on a hotspot of a room
func (s *Service) PlaceFurniture(
	ctx context.Context,
	playerID model.PlayerID,
	houseID model.HouseID,
	roomID model.RoomID,
	key catalog.FurnitureKey,
	hotspot model.HotspotSlug,
) (*model.Furniture, error) {
	var placed model.Furniture
	err := s.mutate(ctx, playerID, houseID, func(h *model.House) error {
		// Runs after the ownership check so strangers learn nothing else
		def, err := s.catalog.Lookup(key)
		if err != nil {
			return model.ErrUnknownFurniture
		}
		skills, err := s.storage.GetSkills(ctx, playerID)
		if err != nil {
			return err
		}
		if model.SkillLevel(skills, model.SkillConstruction) < def.ConstructionLevel {
			return model.ErrSkillTooLow
		}

		room := h.Room(roomID)
		if room == nil {
			return model.ErrRoomNotFound
		}
		if !room.Type.AllowsHotspot(hotspot) {
			return model.ErrInvalidHotspot
		}
		if def.Hotspot != hotspot {
			return model.ErrHotspotMismatch
		}
		if room.FurnitureAt(hotspot) != nil {
			return model.ErrHotspotOccupied
		}
		placed = model.Furniture{
			ID:          model.FurnitureID(s.ids.NewID("f_")),
			RoomID:      room.ID,
			Key:         string(key),
			HotspotSlug: hotspot,
			PlacedAt:    s.clock.Now(),
		}
		room.Furniture = append(room.Furniture, placed)
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("furniture placed",
		slog.String("house_id", string(houseID)),
		slog.String("room_id", string(roomID)),
		slog.String("key", string(key)),
	)
	return &placed, nil
}

// RemoveFurniture takes an item out of the player's house
func (s *Service) RemoveFurniture(
	ctx context.Context,
	playerID model.PlayerID,
	houseID model.HouseID,
	furnitureID model.FurnitureID,
) error {
	return s.mutate(ctx, playerID, houseID, func(h *model.House) error {
		for ri := range h.Rooms {
			room := &h.Rooms[ri]
			for fi, f := range room.Furniture {
				if f.ID == furnitureID {
					room.Furniture = append(room.Furniture[:fi], room.Furniture[fi+1:]...)
					return nil
				}
			}
		}
		return model.ErrFurnitureNotFound
	})
}

// GetHouse returns a house with its rooms and furniture loaded
func (s *Service) GetHouse(ctx context.Context, id model.HouseID) (*model.House, error) {
	return s.storage.GetHouse(ctx, id)
}

// ListHousesForPlayer returns the player's houses in creation order
func (s *Service) ListHousesForPlayer(ctx context.Context, playerID model.PlayerID) ([]*model.House, error) {
	return s.storage.ListHouses(ctx, storage.HouseFilter{PlayerID: playerID})
}

// mutate loads the house under a per-house lock, checks ownership, applies
// fn and writes the aggregate back
func (s *Service) mutate(
	ctx context.Context,
	playerID model.PlayerID,
	houseID model.HouseID,
	fn func(h *model.House) error,
) error {
	unlock := s.locks.Lock(string(houseID))
	defer unlock()

	h, err := s.storage.GetHouse(ctx, houseID)
	if err != nil {
		return err
	}
	if h.PlayerID != playerID {
		return model.ErrNotHouseOwner
	}
	if err := fn(h); err != nil {
		return err
	}
	if err := h.Validate(); err != nil {
		return err
	}
	h.UpdatedAt = s.clock.Now()
	if err := s.storage.SaveHouse(ctx, h); err != nil {
		if errors.Is(err, model.ErrHouseNotFound) {
			return err
		}
		s.logger.Error("failed to save house",
			slog.String("house_id", string(houseID)),
			slog.String("error", err.Error()),
		)
		return err
	}
	return nil
}
