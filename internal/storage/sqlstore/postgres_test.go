package sqlstore

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/djasnowski/myrefell-sub008/internal/model"
	"github.com/djasnowski/myrefell-sub008/internal/storage"
)

func setupMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock, *Storage) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	return db, mock, NewWithDB(db, DialectPostgres)
}

func testPlayer() *model.Player {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	return &model.Player{
		ID: "p1", Username: "alice", DisplayName: "Alice",
		Energy: 40, MaxEnergy: 100, Version: 3,
		HomeLocation:    model.VillageLocation(1),
		CurrentLocation: model.KingdomLocation(1),
		CreatedAt:       now, UpdatedAt: now,
	}
}

func TestUpdatePlayerUsesVersionPredicate(t *testing.T) {
	db, mock, store := setupMockDB(t)
	defer db.Close()

	mock.ExpectExec(`(?s)UPDATE players SET .* WHERE id = \$15 AND version = \$16`).
		WillReturnResult(sqlmock.NewResult(0, 1))

	p := testPlayer()
	require.NoError(t, store.UpdatePlayer(context.Background(), p))
	assert.Equal(t, int64(4), p.Version)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdatePlayerStaleVersion(t *testing.T) {
	db, mock, store := setupMockDB(t)
	defer db.Close()

	mock.ExpectExec(`UPDATE players SET`).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(`SELECT 1 FROM players WHERE id = \$1`).
		WithArgs("p1").
		WillReturnRows(sqlmock.NewRows([]string{"?column?"}).AddRow(1))

	p := testPlayer()
	err := store.UpdatePlayer(context.Background(), p)
	assert.ErrorIs(t, err, model.ErrVersionConflict)
	assert.Equal(t, int64(3), p.Version)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdatePlayerMissing(t *testing.T) {
	db, mock, store := setupMockDB(t)
	defer db.Close()

	mock.ExpectExec(`UPDATE players SET`).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(`SELECT 1 FROM players`).WillReturnRows(sqlmock.NewRows([]string{"?column?"}))

	err := store.UpdatePlayer(context.Background(), testPlayer())
	assert.ErrorIs(t, err, model.ErrPlayerNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreatePlayerMapsUniqueViolation(t *testing.T) {
	db, mock, store := setupMockDB(t)
	defer db.Close()

	mock.ExpectExec(`INSERT INTO players`).
		WillReturnError(&pq.Error{Code: "23505", Message: "duplicate key value"})

	err := store.CreatePlayer(context.Background(), testPlayer())
	assert.ErrorIs(t, err, model.ErrUsernameTaken)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateHouseAllocatesSeqInTransaction(t *testing.T) {
	db, mock, store := setupMockDB(t)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE counters SET value = value \+ 1 WHERE name = \$1`).
		WithArgs("house").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(`SELECT value FROM counters WHERE name = \$1`).
		WithArgs("house").
		WillReturnRows(sqlmock.NewRows([]string{"value"}).AddRow(7))
	mock.ExpectExec(`INSERT INTO houses`).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`INSERT INTO rooms`).
		WithArgs("r1", "h1", "bedroom", 0, 0).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	h := &model.House{
		ID: "h1", PlayerID: "p1", Tier: model.TierCottage, Condition: 100,
		Rooms: []model.Room{{ID: "r1", HouseID: "h1", Type: model.RoomBedroom}},
	}
	require.NoError(t, store.CreateHouse(context.Background(), h))
	assert.Equal(t, int64(7), h.Seq)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSaveHouseMissingRollsBack(t *testing.T) {
	db, mock, store := setupMockDB(t)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE houses SET`).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	err := store.SaveHouse(context.Background(), &model.House{ID: "nope", Tier: model.TierCottage})
	assert.ErrorIs(t, err, model.ErrHouseNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListHousesBuildsFilter(t *testing.T) {
	db, mock, store := setupMockDB(t)
	defer db.Close()

	cols := []string{"id", "seq", "player_id", "name", "tier", "house_condition", "kingdom_id",
		"location_type", "location_id", "upkeep_due_at", "created_at", "updated_at"}
	mock.ExpectQuery(`FROM houses WHERE player_id = \$1 AND kingdom_id = \$2 ORDER BY seq`).
		WithArgs("p1", int64(2)).
		WillReturnRows(sqlmock.NewRows(cols).
			AddRow("h1", 1, "p1", "Hearth", 2, 90, 2, "kingdom", 2, nil, 0, 0))
	mock.ExpectQuery(`FROM rooms\s+WHERE house_id IN \(\$1\)`).
		WithArgs("h1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "house_id", "room_type", "grid_x", "grid_y"}).
			AddRow("r1", "h1", "bedroom", 0, 0))
	mock.ExpectQuery(`FROM furniture\s+WHERE house_id IN \(\$1\)`).
		WithArgs("h1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "room_id", "house_id", "item_key", "hotspot", "placed_at"}).
			AddRow("f1", "r1", "h1", "wooden_bed", "bed", 0))

	houses, err := store.ListHouses(context.Background(), storage.HouseFilter{PlayerID: "p1", KingdomID: 2})
	require.NoError(t, err)
	require.Len(t, houses, 1)
	assert.Equal(t, model.TierHouse, houses[0].Tier)
	require.Len(t, houses[0].Rooms, 1)
	require.Len(t, houses[0].Rooms[0].Furniture, 1)
	assert.Equal(t, "wooden_bed", houses[0].Rooms[0].Furniture[0].Key)
	assert.True(t, houses[0].UpkeepDueAt.IsZero())
	assert.NoError(t, mock.ExpectationsWereMet())
}
