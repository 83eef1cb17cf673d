package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/djasnowski/myrefell-sub008/internal/model"
	"github.com/djasnowski/myrefell-sub008/internal/storage"
)

const houseColumns = `id, seq, player_id, name, tier, house_condition, kingdom_id,
	location_type, location_id, upkeep_due_at, created_at, updated_at`

// nextSeq bumps the named counter inside tx. The UPDATE takes a row lock on
// postgres so concurrent creators serialise.
func (s *Storage) nextSeq(ctx context.Context, tx *sql.Tx, name string) (int64, error) {
	res, err := s.exec(ctx, tx, `UPDATE counters SET value = value + 1 WHERE name = ?`, name)
	if err != nil {
		return 0, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}
	if n == 0 {
		if _, err := s.exec(ctx, tx, `INSERT INTO counters (name, value) VALUES (?, 1)`, name); err != nil {
			return 0, err
		}
		return 1, nil
	}
	var v int64
	err = s.queryRow(ctx, tx, `SELECT value FROM counters WHERE name = ?`, name).Scan(&v)
	return v, err
}

func (s *Storage) CreateHouse(ctx context.Context, house *model.House) error {
	return s.inTx(ctx, func(tx *sql.Tx) error {
		seq, err := s.nextSeq(ctx, tx, "house")
		if err != nil {
			return err
		}
		_, err = s.exec(ctx, tx, `INSERT INTO houses (`+houseColumns+`)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			string(house.ID), seq, string(house.PlayerID), house.Name, int(house.Tier), house.Condition,
			int64(house.KingdomID), string(house.Location.Type), house.Location.ID,
			toNanos(house.UpkeepDueAt), toNanos(house.CreatedAt), toNanos(house.UpdatedAt))
		if err != nil {
			return err
		}
		if err := s.insertRooms(ctx, tx, house); err != nil {
			return err
		}
		house.Seq = seq
		return nil
	})
}

// SaveHouse replaces the whole aggregate: the house row is updated and its
// rooms and furniture are rewritten
func (s *Storage) SaveHouse(ctx context.Context, house *model.House) error {
	return s.inTx(ctx, func(tx *sql.Tx) error {
		res, err := s.exec(ctx, tx, `UPDATE houses SET player_id = ?, name = ?, tier = ?, house_condition = ?,
			kingdom_id = ?, location_type = ?, location_id = ?, upkeep_due_at = ?, updated_at = ?
			WHERE id = ?`,
			string(house.PlayerID), house.Name, int(house.Tier), house.Condition,
			int64(house.KingdomID), string(house.Location.Type), house.Location.ID,
			toNanos(house.UpkeepDueAt), toNanos(house.UpdatedAt), string(house.ID))
		if err != nil {
			return err
		}
		n, err := res.RowsAffected()
		if err != nil {
			return err
		}
		if n == 0 {
			return model.ErrHouseNotFound
		}
		if err := s.deleteRooms(ctx, tx, house.ID); err != nil {
			return err
		}
		if err := s.insertRooms(ctx, tx, house); err != nil {
			return err
		}
		return s.queryRow(ctx, tx, `SELECT seq FROM houses WHERE id = ?`, string(house.ID)).Scan(&house.Seq)
	})
}

func (s *Storage) deleteRooms(ctx context.Context, tx *sql.Tx, id model.HouseID) error {
	if _, err := s.exec(ctx, tx, `DELETE FROM furniture WHERE house_id = ?`, string(id)); err != nil {
		return err
	}
	_, err := s.exec(ctx, tx, `DELETE FROM rooms WHERE house_id = ?`, string(id))
	return err
}

func (s *Storage) insertRooms(ctx context.Context, tx *sql.Tx, house *model.House) error {
	for _, r := range house.Rooms {
		_, err := s.exec(ctx, tx, `INSERT INTO rooms (id, house_id, room_type, grid_x, grid_y) VALUES (?, ?, ?, ?, ?)`,
			string(r.ID), string(house.ID), string(r.Type), r.GridX, r.GridY)
		if err != nil {
			if s.dialect.isUniqueViolation(err) {
				return model.ErrGridPositionTaken
			}
			return err
		}
		for _, f := range r.Furniture {
			_, err := s.exec(ctx, tx, `INSERT INTO furniture (id, room_id, house_id, item_key, hotspot, placed_at)
				VALUES (?, ?, ?, ?, ?, ?)`,
				string(f.ID), string(r.ID), string(house.ID), f.Key, string(f.HotspotSlug), toNanos(f.PlacedAt))
			if err != nil {
				if s.dialect.isUniqueViolation(err) {
					return model.ErrHotspotOccupied
				}
				return err
			}
		}
	}
	return nil
}

func scanHouse(row rowScanner) (*model.House, error) {
	var (
		h                  model.House
		tier               int
		kingdomID, locID   int64
		locType            string
		upkeep             sql.NullInt64
		created, updatedAt int64
	)
	err := row.Scan(&h.ID, &h.Seq, &h.PlayerID, &h.Name, &tier, &h.Condition, &kingdomID,
		&locType, &locID, &upkeep, &created, &updatedAt)
	if err != nil {
		return nil, err
	}
	h.Tier = model.HouseTier(tier)
	h.KingdomID = model.KingdomID(kingdomID)
	h.Location = model.Location{Type: model.LocationType(locType), ID: locID}
	if upkeep.Valid {
		h.UpkeepDueAt = fromNanos(upkeep.Int64)
	}
	h.CreatedAt = fromNanos(created)
	h.UpdatedAt = fromNanos(updatedAt)
	return &h, nil
}

func (s *Storage) GetHouse(ctx context.Context, id model.HouseID) (*model.House, error) {
	row := s.queryRow(ctx, s.db, `SELECT `+houseColumns+` FROM houses WHERE id = ?`, string(id))
	h, err := scanHouse(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, model.ErrHouseNotFound
	}
	if err != nil {
		return nil, err
	}
	if err := s.loadRooms(ctx, []*model.House{h}); err != nil {
		return nil, err
	}
	return h, nil
}

func (s *Storage) ListHouses(ctx context.Context, filter storage.HouseFilter) ([]*model.House, error) {
	var (
		where []string
		args  []any
	)
	if filter.PlayerID != "" {
		where = append(where, "player_id = ?")
		args = append(args, string(filter.PlayerID))
	}
	if filter.KingdomID != 0 {
		where = append(where, "kingdom_id = ?")
		args = append(args, int64(filter.KingdomID))
	}
	q := `SELECT ` + houseColumns + ` FROM houses`
	if len(where) > 0 {
		q += ` WHERE ` + strings.Join(where, " AND ")
	}
	q += ` ORDER BY seq`

	rows, err := s.query(ctx, s.db, q, args...)
	if err != nil {
		return nil, err
	}
	houses := []*model.House{}
	for rows.Next() {
		h, err := scanHouse(rows)
		if err != nil {
			rows.Close()
			return nil, err
		}
		houses = append(houses, h)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if err := s.loadRooms(ctx, houses); err != nil {
		return nil, err
	}
	return houses, nil
}

// loadRooms fills Rooms and Furniture for each house, one query per table
func (s *Storage) loadRooms(ctx context.Context, houses []*model.House) error {
	if len(houses) == 0 {
		return nil
	}
	byID := make(map[model.HouseID]*model.House, len(houses))
	placeholders := make([]string, len(houses))
	args := make([]any, len(houses))
	for i, h := range houses {
		byID[h.ID] = h
		placeholders[i] = "?"
		args[i] = string(h.ID)
	}
	in := "(" + strings.Join(placeholders, ", ") + ")"

	rows, err := s.query(ctx, s.db, `SELECT id, house_id, room_type, grid_x, grid_y FROM rooms
		WHERE house_id IN `+in+` ORDER BY grid_y, grid_x`, args...)
	if err != nil {
		return err
	}
	for rows.Next() {
		var r model.Room
		if err := rows.Scan(&r.ID, &r.HouseID, &r.Type, &r.GridX, &r.GridY); err != nil {
			rows.Close()
			return err
		}
		h := byID[r.HouseID]
		h.Rooms = append(h.Rooms, r)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return err
	}

	rows, err = s.query(ctx, s.db, `SELECT id, room_id, house_id, item_key, hotspot, placed_at FROM furniture
		WHERE house_id IN `+in+` ORDER BY placed_at, id`, args...)
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		var (
			f       model.Furniture
			houseID model.HouseID
			placed  int64
		)
		if err := rows.Scan(&f.ID, &f.RoomID, &houseID, &f.Key, &f.HotspotSlug, &placed); err != nil {
			return err
		}
		f.PlacedAt = fromNanos(placed)
		if room := byID[houseID].Room(f.RoomID); room != nil {
			room.Furniture = append(room.Furniture, f)
		}
	}
	return rows.Err()
}

func (s *Storage) DeleteHouse(ctx context.Context, id model.HouseID) error {
	return s.inTx(ctx, func(tx *sql.Tx) error {
		if err := s.deleteRooms(ctx, tx, id); err != nil {
			return err
		}
		_, err := s.exec(ctx, tx, `DELETE FROM houses WHERE id = ?`, string(id))
		return err
	})
}

// Realm operations

func (s *Storage) SaveKingdom(ctx context.Context, kingdom model.Kingdom) error {
	_, err := s.exec(ctx, s.db, `INSERT INTO kingdoms (id, name) VALUES (?, ?)
		ON CONFLICT (id) DO UPDATE SET name = excluded.name`, int64(kingdom.ID), kingdom.Name)
	return err
}

func (s *Storage) GetKingdom(ctx context.Context, id model.KingdomID) (model.Kingdom, error) {
	var k model.Kingdom
	err := s.queryRow(ctx, s.db, `SELECT id, name FROM kingdoms WHERE id = ?`, int64(id)).Scan(&k.ID, &k.Name)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Kingdom{}, model.ErrKingdomNotFound
	}
	return k, err
}

func (s *Storage) ListKingdoms(ctx context.Context) ([]model.Kingdom, error) {
	rows, err := s.query(ctx, s.db, `SELECT id, name FROM kingdoms ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	kingdoms := []model.Kingdom{}
	for rows.Next() {
		var k model.Kingdom
		if err := rows.Scan(&k.ID, &k.Name); err != nil {
			return nil, err
		}
		kingdoms = append(kingdoms, k)
	}
	return kingdoms, rows.Err()
}

func (s *Storage) SaveBarony(ctx context.Context, barony model.Barony) error {
	_, err := s.exec(ctx, s.db, `INSERT INTO baronies (id, name, kingdom_id) VALUES (?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET name = excluded.name, kingdom_id = excluded.kingdom_id`,
		int64(barony.ID), barony.Name, int64(barony.KingdomID))
	return err
}

func (s *Storage) GetBarony(ctx context.Context, id model.BaronyID) (model.Barony, error) {
	var b model.Barony
	err := s.queryRow(ctx, s.db, `SELECT id, name, kingdom_id FROM baronies WHERE id = ?`, int64(id)).
		Scan(&b.ID, &b.Name, &b.KingdomID)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Barony{}, model.ErrBaronyNotFound
	}
	return b, err
}

func (s *Storage) SaveVillage(ctx context.Context, village model.Village) error {
	_, err := s.exec(ctx, s.db, `INSERT INTO villages (id, name, barony_id) VALUES (?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET name = excluded.name, barony_id = excluded.barony_id`,
		int64(village.ID), village.Name, int64(village.BaronyID))
	return err
}

func (s *Storage) GetVillage(ctx context.Context, id model.VillageID) (model.Village, error) {
	var v model.Village
	err := s.queryRow(ctx, s.db, `SELECT id, name, barony_id FROM villages WHERE id = ?`, int64(id)).
		Scan(&v.ID, &v.Name, &v.BaronyID)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Village{}, model.ErrVillageNotFound
	}
	return v, err
}
