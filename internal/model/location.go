package model

import (
	"fmt"
	"strconv"
	"strings"
)

// LocationType tags which realm entity a Location points at
type LocationType string

const (
	LocationVillage LocationType = "village"
	LocationBarony  LocationType = "barony"
	LocationKingdom LocationType = "kingdom"
)

// Valid returns true for the known location types
func (t LocationType) Valid() bool {
	switch t {
	case LocationVillage, LocationBarony, LocationKingdom:
		return true
	}
	return false
}

// Location is a tagged reference to a village, barony or kingdom.
// Two locations are equal only when both the type and the id match.
type Location struct {
	Type LocationType `json:"type"`
	ID   int64        `json:"id"`
}

// VillageLocation returns the location of a village
func VillageLocation(id VillageID) Location {
	return Location{Type: LocationVillage, ID: int64(id)}
}

// BaronyLocation returns the location of a barony
func BaronyLocation(id BaronyID) Location {
	return Location{Type: LocationBarony, ID: int64(id)}
}

// KingdomLocation returns the location of a kingdom
func KingdomLocation(id KingdomID) Location {
	return Location{Type: LocationKingdom, ID: int64(id)}
}

// Equal reports whether both locations reference the same entity
func (l Location) Equal(other Location) bool {
	return l.Type == other.Type && l.ID == other.ID
}

// IsZero returns true for the unset location
func (l Location) IsZero() bool {
	return l.Type == "" && l.ID == 0
}

// String renders the location as "type:id"
func (l Location) String() string {
	if l.IsZero() {
		return ""
	}
	return fmt.Sprintf("%s:%d", l.Type, l.ID)
}

// ParseLocation parses the "type:id" form produced by String
func ParseLocation(s string) (Location, error) {
	typ, id, ok := strings.Cut(s, ":")
	if !ok {
		return Location{}, ErrInvalidLocation
	}
	lt := LocationType(strings.ToLower(strings.TrimSpace(typ)))
	if !lt.Valid() {
		return Location{}, ErrInvalidLocation
	}
	n, err := strconv.ParseInt(strings.TrimSpace(id), 10, 64)
	if err != nil || n <= 0 {
		return Location{}, ErrInvalidLocation
	}
	return Location{Type: lt, ID: n}, nil
}
