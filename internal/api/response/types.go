package response

import (
	"time"

	"github.com/djasnowski/myrefell-sub008/internal/catalog"
	"github.com/djasnowski/myrefell-sub008/internal/model"
	"github.com/djasnowski/myrefell-sub008/internal/services/auth"
)

// Player represents a player in API responses
type Player struct {
	ID              string         `json:"id"`
	Username        string         `json:"username"`
	DisplayName     string         `json:"display_name"`
	IsGuest         bool           `json:"is_guest"`
	Gold            int64          `json:"gold"`
	Energy          int            `json:"energy"`
	MaxEnergy       int            `json:"max_energy"`
	HomeLocation    model.Location `json:"home_location"`
	CurrentLocation model.Location `json:"current_location"`
}

// PlayerFromModel converts a model.Player to a response Player
func PlayerFromModel(p *model.Player) Player {
	return Player{
		ID:              string(p.ID),
		Username:        p.Username,
		DisplayName:     p.DisplayName,
		IsGuest:         p.IsGuest,
		Gold:            p.Gold,
		Energy:          p.Energy,
		MaxEnergy:       p.MaxEnergy,
		HomeLocation:    p.HomeLocation,
		CurrentLocation: p.CurrentLocation,
	}
}

// AuthResponse is the response for authentication endpoints
type AuthResponse struct {
	PlayerID     string    `json:"player_id"`
	Username     string    `json:"username"`
	SessionToken string    `json:"session_token"`
	ExpiresAt    time.Time `json:"expires_at"`
}

// AuthResponseFromSession creates an AuthResponse from a session
func AuthResponseFromSession(s *auth.Session) AuthResponse {
	return AuthResponse{
		PlayerID:     string(s.PlayerID),
		Username:     s.Username,
		SessionToken: s.Token,
		ExpiresAt:    s.ExpiresAt,
	}
}

// Energy is the player's energy and what the next regen tick gives
type Energy struct {
	Energy    int             `json:"energy"`
	MaxEnergy int             `json:"max_energy"`
	Regen     model.RegenInfo `json:"regen"`
}

// RegenResult is the response after a regen tick
type RegenResult struct {
	Gained    int `json:"gained"`
	Energy    int `json:"energy"`
	MaxEnergy int `json:"max_energy"`
}

// Furniture represents a placed item
type Furniture struct {
	ID      string `json:"id"`
	Key     string `json:"key"`
	Hotspot string `json:"hotspot"`
}

// Room represents a room and its furniture
type Room struct {
	ID        string      `json:"id"`
	Type      string      `json:"type"`
	X         int         `json:"x"`
	Y         int         `json:"y"`
	Hotspots  []string    `json:"hotspots"`
	Furniture []Furniture `json:"furniture"`
}

// RoomFromModel converts model.Room, furniture in hotspot order
func RoomFromModel(r model.Room) Room {
	hotspots := r.Type.Hotspots()
	out := Room{
		ID:        string(r.ID),
		Type:      string(r.Type),
		X:         r.GridX,
		Y:         r.GridY,
		Hotspots:  make([]string, len(hotspots)),
		Furniture: make([]Furniture, 0, len(r.Furniture)),
	}
	for i, h := range hotspots {
		out.Hotspots[i] = string(h)
	}
	for _, f := range r.SortedFurniture() {
		out.Furniture = append(out.Furniture, Furniture{
			ID:      string(f.ID),
			Key:     f.Key,
			Hotspot: string(f.HotspotSlug),
		})
	}
	return out
}

// House represents a house in API responses
type House struct {
	ID        string    `json:"id"`
	PlayerID  string    `json:"player_id"`
	Name      string    `json:"name"`
	Tier      string    `json:"tier"`
	Condition int       `json:"condition"`
	KingdomID int64     `json:"kingdom_id"`
	GridCols  int       `json:"grid_cols"`
	GridRows  int       `json:"grid_rows"`
	Rooms     []Room    `json:"rooms"`
	CreatedAt time.Time `json:"created_at"`
}

// HouseFromModel converts model.House, rooms in grid order
func HouseFromModel(h *model.House) House {
	cols, rows := h.Tier.GridSize()
	out := House{
		ID:        string(h.ID),
		PlayerID:  string(h.PlayerID),
		Name:      h.Name,
		Tier:      h.Tier.String(),
		Condition: h.Condition,
		KingdomID: int64(h.KingdomID),
		GridCols:  cols,
		GridRows:  rows,
		Rooms:     make([]Room, 0, len(h.Rooms)),
		CreatedAt: h.CreatedAt,
	}
	for _, r := range h.SortedRooms() {
		out.Rooms = append(out.Rooms, RoomFromModel(r))
	}
	return out
}

// HousesFromModel converts a list of houses
func HousesFromModel(houses []*model.House) []House {
	out := make([]House, len(houses))
	for i, h := range houses {
		out[i] = HouseFromModel(h)
	}
	return out
}

// CatalogItem represents one furniture catalog entry
type CatalogItem struct {
	Key               string            `json:"key"`
	Name              string            `json:"name"`
	Hotspot           string            `json:"hotspot"`
	ConstructionLevel int               `json:"construction_level"`
	Cost              int64             `json:"cost"`
	Bonuses           map[string]string `json:"bonuses"`
}

// CatalogItemFromDefinition converts a catalog definition
func CatalogItemFromDefinition(d catalog.Definition) CatalogItem {
	bonuses := make(map[string]string, len(d.Bonuses))
	for kind, b := range d.Bonuses {
		bonuses[string(kind)] = b.Format()
	}
	return CatalogItem{
		Key:               string(d.Key),
		Name:              d.Name,
		Hotspot:           string(d.Hotspot),
		ConstructionLevel: d.ConstructionLevel,
		Cost:              d.Cost,
		Bonuses:           bonuses,
	}
}

// Leaderboard is one tab of the leaderboard. Entries holds
// []model.HouseEntry or []model.WealthEntry depending on Tab.
type Leaderboard struct {
	Tab     string           `json:"tab"`
	Tabs    []string         `json:"tabs"`
	World   model.WorldState `json:"world"`
	Entries any              `json:"entries"`
}
