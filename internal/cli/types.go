package cli

import "time"

// Location is a "type:id" place in the realm
type Location struct {
	Type string `json:"type"`
	ID   int64  `json:"id"`
}

// Player is the signed-in player
type Player struct {
	ID              string   `json:"id"`
	Username        string   `json:"username"`
	DisplayName     string   `json:"display_name"`
	IsGuest         bool     `json:"is_guest"`
	Gold            int64    `json:"gold"`
	Energy          int      `json:"energy"`
	MaxEnergy       int      `json:"max_energy"`
	HomeLocation    Location `json:"home_location"`
	CurrentLocation Location `json:"current_location"`
}

// AuthResult is returned by guest, register and login
type AuthResult struct {
	PlayerID     string    `json:"player_id"`
	Username     string    `json:"username"`
	SessionToken string    `json:"session_token"`
	ExpiresAt    time.Time `json:"expires_at"`
}

// RegenBonus is one line of the regen breakdown
type RegenBonus struct {
	Source string `json:"source"`
	Amount string `json:"amount"`
}

// Energy is the player's energy and what the next tick yields
type Energy struct {
	Energy    int `json:"energy"`
	MaxEnergy int `json:"max_energy"`
	Regen     struct {
		Base        int          `json:"base"`
		Bonuses     []RegenBonus `json:"bonuses"`
		TotalGained int          `json:"total_gained"`
	} `json:"regen"`
}

// RegenResult is the outcome of one regen tick
type RegenResult struct {
	Gained    int `json:"gained"`
	Energy    int `json:"energy"`
	MaxEnergy int `json:"max_energy"`
}

// Furniture is an item placed on a hotspot
type Furniture struct {
	ID      string `json:"id"`
	Key     string `json:"key"`
	Hotspot string `json:"hotspot"`
}

// Room is one grid cell of a house
type Room struct {
	ID        string      `json:"id"`
	Type      string      `json:"type"`
	X         int         `json:"x"`
	Y         int         `json:"y"`
	Hotspots  []string    `json:"hotspots"`
	Furniture []Furniture `json:"furniture"`
}

// House is a player-owned house
type House struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Tier      string `json:"tier"`
	Condition int    `json:"condition"`
	KingdomID int64  `json:"kingdom_id"`
	GridCols  int    `json:"grid_cols"`
	GridRows  int    `json:"grid_rows"`
	Rooms     []Room `json:"rooms"`
}

// Houses is a list of houses
type Houses []House

// CatalogItem is one furniture definition
type CatalogItem struct {
	Key               string            `json:"key"`
	Name              string            `json:"name"`
	Hotspot           string            `json:"hotspot"`
	ConstructionLevel int               `json:"construction_level"`
	Cost              int64             `json:"cost"`
	Bonuses           map[string]string `json:"bonuses"`
}

// Catalog is a list of furniture definitions
type Catalog []CatalogItem

// World is the game calendar
type World struct {
	Year   int    `json:"year"`
	Season string `json:"season"`
	Week   int    `json:"week"`
}

// Kingdom is a top-level realm division
type Kingdom struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Kingdoms is a list of kingdoms
type Kingdoms []Kingdom

// Listing is one priced market item
type Listing struct {
	Item  string `json:"item"`
	Name  string `json:"name"`
	Price int64  `json:"price"`
}

// Market is a kingdom market as the player sees it
type Market struct {
	Variant string  `json:"variant"`
	Kingdom Kingdom `json:"kingdom"`
	World   World   `json:"world"`
	Access  struct {
		Allowed     bool   `json:"allowed"`
		CurrentName string `json:"current_name"`
		TargetName  string `json:"target_name"`
	} `json:"access"`
	Gold     int64     `json:"gold"`
	Listings []Listing `json:"listings"`
}

// LeaderboardEntry is one ranked row on either tab
type LeaderboardEntry struct {
	Rank      int    `json:"rank"`
	Username  string `json:"username"`
	Score     int64  `json:"score"`
	HouseName string `json:"house_name,omitempty"`
	Tier      string `json:"tier,omitempty"`
	KingdomID int64  `json:"kingdom_id,omitempty"`
}

// Leaderboard is one leaderboard tab
type Leaderboard struct {
	Tab     string             `json:"tab"`
	Tabs    []string           `json:"tabs"`
	World   World              `json:"world"`
	Entries []LeaderboardEntry `json:"entries"`
}

// HealthResult is the health check response
type HealthResult struct {
	Status string `json:"status"`
}
