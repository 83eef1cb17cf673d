package model

import (
	"sort"
	"strings"
	"time"
)

// HouseID uniquely identifies a house
type HouseID string

// RoomID uniquely identifies a room
type RoomID string

// FurnitureID uniquely identifies a placed furniture item
type FurnitureID string

// HouseTier is an ordered house-quality classification
type HouseTier int

const (
	TierCottage HouseTier = iota + 1
	TierHouse
	TierManor
	TierEstate
)

var tierNames = map[HouseTier]string{
	TierCottage: "cottage",
	TierHouse:   "house",
	TierManor:   "manor",
	TierEstate:  "estate",
}

// ValidTiers returns all tiers in ascending order
func ValidTiers() []HouseTier {
	return []HouseTier{TierCottage, TierHouse, TierManor, TierEstate}
}

// Valid returns true for a known tier
func (t HouseTier) Valid() bool {
	_, ok := tierNames[t]
	return ok
}

// String returns the tier slug
func (t HouseTier) String() string {
	if name, ok := tierNames[t]; ok {
		return name
	}
	return "unknown"
}

// ParseHouseTier converts a slug into a tier
func ParseHouseTier(s string) (HouseTier, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for t, name := range tierNames {
		if name == s {
			return t, nil
		}
	}
	return 0, ErrInvalidTier
}

// GridSize returns the room grid dimensions (columns, rows) for the tier
func (t HouseTier) GridSize() (cols, rows int) {
	switch t {
	case TierCottage:
		return 2, 1
	case TierHouse:
		return 2, 2
	case TierManor:
		return 3, 2
	case TierEstate:
		return 3, 3
	default:
		return 0, 0
	}
}

// RoomType constrains which hotspots furniture may occupy
type RoomType string

const (
	RoomBedroom        RoomType = "bedroom"
	RoomKitchen        RoomType = "kitchen"
	RoomLivingRoom     RoomType = "living_room"
	RoomGarden         RoomType = "garden"
	RoomSuperiorGarden RoomType = "superior_garden"
	RoomWorkshop       RoomType = "workshop"
)

// HotspotSlug names a placement point within a room
type HotspotSlug string

const (
	HotspotBed        HotspotSlug = "bed"
	HotspotWardrobe   HotspotSlug = "wardrobe"
	HotspotNightstand HotspotSlug = "nightstand"
	HotspotStove      HotspotSlug = "stove"
	HotspotCounter    HotspotSlug = "counter"
	HotspotPantry     HotspotSlug = "pantry"
	HotspotFireplace  HotspotSlug = "fireplace"
	HotspotTable      HotspotSlug = "table"
	HotspotBookshelf  HotspotSlug = "bookshelf"
	HotspotPlanter    HotspotSlug = "planter"
	HotspotBench      HotspotSlug = "bench"
	HotspotPool       HotspotSlug = "pool"
	HotspotFountain   HotspotSlug = "fountain"
	HotspotWorkbench  HotspotSlug = "workbench"
	HotspotToolrack   HotspotSlug = "toolrack"
)

// DisplayName returns the hotspot as shown to players, e.g. "Bed"
func (h HotspotSlug) DisplayName() string {
	return titleWords(string(h))
}

type roomRule struct {
	hotspots []HotspotSlug
	minTier  HouseTier
}

var roomRules = map[RoomType]roomRule{
	RoomBedroom:        {hotspots: []HotspotSlug{HotspotBed, HotspotWardrobe, HotspotNightstand}, minTier: TierCottage},
	RoomKitchen:        {hotspots: []HotspotSlug{HotspotStove, HotspotCounter, HotspotPantry}, minTier: TierCottage},
	RoomLivingRoom:     {hotspots: []HotspotSlug{HotspotFireplace, HotspotTable, HotspotBookshelf}, minTier: TierHouse},
	RoomGarden:         {hotspots: []HotspotSlug{HotspotPlanter, HotspotBench}, minTier: TierCottage},
	RoomSuperiorGarden: {hotspots: []HotspotSlug{HotspotPool, HotspotPlanter, HotspotFountain}, minTier: TierManor},
	RoomWorkshop:       {hotspots: []HotspotSlug{HotspotWorkbench, HotspotToolrack}, minTier: TierHouse},
}

// ValidRoomTypes returns all room types in display order
func ValidRoomTypes() []RoomType {
	return []RoomType{RoomBedroom, RoomKitchen, RoomLivingRoom, RoomGarden, RoomSuperiorGarden, RoomWorkshop}
}

// Valid returns true for a known room type
func (rt RoomType) Valid() bool {
	_, ok := roomRules[rt]
	return ok
}

// Hotspots returns the hotspots furniture may occupy in this room type
func (rt RoomType) Hotspots() []HotspotSlug {
	rule, ok := roomRules[rt]
	if !ok {
		return nil
	}
	out := make([]HotspotSlug, len(rule.hotspots))
	copy(out, rule.hotspots)
	return out
}

// AllowsHotspot returns true if the hotspot is valid for this room type
func (rt RoomType) AllowsHotspot(slug HotspotSlug) bool {
	for _, h := range roomRules[rt].hotspots {
		if h == slug {
			return true
		}
	}
	return false
}

// hotspotIndex orders hotspots within a room type
func (rt RoomType) hotspotIndex(slug HotspotSlug) int {
	for i, h := range roomRules[rt].hotspots {
		if h == slug {
			return i
		}
	}
	return len(roomRules[rt].hotspots)
}

// MinTier returns the lowest house tier that may contain this room type
func (rt RoomType) MinTier() HouseTier {
	return roomRules[rt].minTier
}

// Furniture is a catalog item placed on a room hotspot
type Furniture struct {
	ID          FurnitureID
	RoomID      RoomID
	Key         string // catalog key
	HotspotSlug HotspotSlug
	PlacedAt    time.Time
}

// Room belongs to exactly one house and sits on one grid cell
type Room struct {
	ID        RoomID
	HouseID   HouseID
	Type      RoomType
	GridX     int
	GridY     int
	Furniture []Furniture
}

// FurnitureAt returns the furniture on the hotspot, or nil if empty
func (r *Room) FurnitureAt(slug HotspotSlug) *Furniture {
	for i := range r.Furniture {
		if r.Furniture[i].HotspotSlug == slug {
			return &r.Furniture[i]
		}
	}
	return nil
}

// SortedFurniture returns the room's furniture in hotspot order
func (r *Room) SortedFurniture() []Furniture {
	out := make([]Furniture, len(r.Furniture))
	copy(out, r.Furniture)
	sort.SliceStable(out, func(i, j int) bool {
		return r.Type.hotspotIndex(out[i].HotspotSlug) < r.Type.hotspotIndex(out[j].HotspotSlug)
	})
	return out
}

// MaxCondition is a house in perfect repair
const MaxCondition = 100

// House is owned by exactly one player and holds an ordered set of rooms
type House struct {
	ID          HouseID
	PlayerID    PlayerID
	Name        string
	Tier        HouseTier
	Condition   int // 0..MaxCondition integrity
	KingdomID   KingdomID
	Location    Location
	UpkeepDueAt time.Time // zero means no upkeep due

	Rooms []Room

	// Seq is the storage-assigned creation sequence; lower is older
	Seq       int64
	CreatedAt time.Time
	UpdatedAt time.Time
}

// RoomAt returns the room at the grid position, or nil if empty
func (h *House) RoomAt(x, y int) *Room {
	for i := range h.Rooms {
		if h.Rooms[i].GridX == x && h.Rooms[i].GridY == y {
			return &h.Rooms[i]
		}
	}
	return nil
}

// Room returns the room with the given ID, or nil if not in this house
func (h *House) Room(id RoomID) *Room {
	for i := range h.Rooms {
		if h.Rooms[i].ID == id {
			return &h.Rooms[i]
		}
	}
	return nil
}

// InGrid returns true if the position is inside the tier's room grid
func (h *House) InGrid(x, y int) bool {
	cols, rows := h.Tier.GridSize()
	return x >= 0 && x < cols && y >= 0 && y < rows
}

// SortedRooms returns rooms in grid order (row, then column)
func (h *House) SortedRooms() []Room {
	out := make([]Room, len(h.Rooms))
	copy(out, h.Rooms)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].GridY != out[j].GridY {
			return out[i].GridY < out[j].GridY
		}
		return out[i].GridX < out[j].GridX
	})
	return out
}

// FurnitureCount returns the number of placed furniture items
func (h *House) FurnitureCount() int {
	n := 0
	for _, r := range h.Rooms {
		n += len(r.Furniture)
	}
	return n
}

// UpkeepOverdue reports whether upkeep is past due by more than grace at now
func (h *House) UpkeepOverdue(now time.Time, grace time.Duration) bool {
	if h.UpkeepDueAt.IsZero() {
		return false
	}
	return now.After(h.UpkeepDueAt.Add(grace))
}

// Clone returns a deep copy of the house aggregate
func (h *House) Clone() *House {
	c := *h
	c.Rooms = make([]Room, len(h.Rooms))
	for i, r := range h.Rooms {
		rc := r
		rc.Furniture = make([]Furniture, len(r.Furniture))
		copy(rc.Furniture, r.Furniture)
		c.Rooms[i] = rc
	}
	return &c
}

// Validate checks the structural invariants of the aggregate
func (h *House) Validate() error {
	if !h.Tier.Valid() {
		return ErrInvalidTier
	}
	if h.Condition < 0 || h.Condition > MaxCondition {
		return ErrInvalidCondition
	}
	seen := make(map[[2]int]bool, len(h.Rooms))
	for _, r := range h.Rooms {
		if !r.Type.Valid() {
			return ErrInvalidRoomType
		}
		if !h.InGrid(r.GridX, r.GridY) {
			return ErrGridOutOfBounds
		}
		pos := [2]int{r.GridX, r.GridY}
		if seen[pos] {
			return ErrGridPositionTaken
		}
		seen[pos] = true

		slots := make(map[HotspotSlug]bool, len(r.Furniture))
		for _, f := range r.Furniture {
			if !r.Type.AllowsHotspot(f.HotspotSlug) {
				return ErrInvalidHotspot
			}
			if slots[f.HotspotSlug] {
				return ErrHotspotOccupied
			}
			slots[f.HotspotSlug] = true
		}
	}
	return nil
}

// titleWords turns "superior_garden" into "Superior Garden"
func titleWords(s string) string {
	parts := strings.Split(s, "_")
	for i, p := range parts {
		if p == "" {
			continue
		}
		parts[i] = strings.ToUpper(p[:1]) + p[1:]
	}
	return strings.Join(parts, " ")
}
