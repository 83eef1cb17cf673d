package house

import (
	"errors"
	"fmt"
	"log/slog"
	"sort"

	"github.com/djasnowski/myrefell-sub008/internal/catalog"
	"github.com/djasnowski/myrefell-sub008/internal/model"
)

// ResolvedBonus is one furniture contribution to a bonus kind
type ResolvedBonus struct {
	HouseID  model.HouseID
	RoomID   model.RoomID
	RoomType model.RoomType
	Hotspot  model.HotspotSlug
	Key      catalog.FurnitureKey
	Bonus    catalog.Bonus
}

// Source labels the bonus for players, e.g. "House (Bed)"
func (r ResolvedBonus) Source() string {
	return fmt.Sprintf("House (%s)", r.Hotspot.DisplayName())
}

// Resolve walks rooms in grid order and their furniture in hotspot order,
// returning every bonus of the given kind. It never mutates the house.
// Each room contributes on its own, so two bedrooms with beds both count.
// Items missing from the catalog contribute nothing.
func (s *Service) Resolve(house *model.House, kind catalog.BonusKind) []ResolvedBonus {
	var out []ResolvedBonus
	for _, room := range house.SortedRooms() {
		seen := make(map[model.HotspotSlug]bool)
		for _, f := range room.SortedFurniture() {
			// first item on a hotspot wins
			if seen[f.HotspotSlug] {
				continue
			}
			seen[f.HotspotSlug] = true
			def, err := s.catalog.Lookup(catalog.FurnitureKey(f.Key))
			if err != nil {
				if errors.Is(err, model.ErrCatalogKeyNotFound) {
					s.logger.Warn("furniture missing from catalog",
						slog.String("house_id", string(house.ID)),
						slog.String("furniture_id", string(f.ID)),
						slog.String("key", f.Key),
					)
				}
				continue
			}
			bonus, ok := def.Bonus(kind)
			if !ok {
				continue
			}
			out = append(out, ResolvedBonus{
				HouseID:  house.ID,
				RoomID:   room.ID,
				RoomType: room.Type,
				Hotspot:  f.HotspotSlug,
				Key:      def.Key,
				Bonus:    bonus,
			})
		}
	}
	return out
}

// ResolveAll resolves bonuses across houses, oldest house first
func (s *Service) ResolveAll(houses []*model.House, kind catalog.BonusKind) []ResolvedBonus {
	ordered := make([]*model.House, len(houses))
	copy(ordered, houses)
	sort.SliceStable(ordered, func(i, j int) bool { return ordered[i].Seq < ordered[j].Seq })

	var out []ResolvedBonus
	for _, h := range ordered {
		out = append(out, s.Resolve(h, kind)...)
	}
	return out
}
