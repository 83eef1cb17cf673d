package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/lib/pq"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

// Dialect selects driver name, placeholder style and error decoding
type Dialect int

const (
	DialectSQLite Dialect = iota
	DialectPostgres
)

func (d Dialect) String() string {
	if d == DialectPostgres {
		return "postgres"
	}
	return "sqlite"
}

// driverName is the database/sql driver registered for the dialect
func (d Dialect) driverName() string {
	if d == DialectPostgres {
		return "postgres"
	}
	return "sqlite"
}

// rebind rewrites ? placeholders to $1, $2... for postgres
func (d Dialect) rebind(query string) string {
	if d != DialectPostgres {
		return query
	}
	var b strings.Builder
	b.Grow(len(query) + 8)
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// isUniqueViolation reports whether err is a unique or primary key violation
func (d Dialect) isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "23505"
	}
	var liteErr *sqlite.Error
	if errors.As(err, &liteErr) {
		code := liteErr.Code()
		return code == sqlite3.SQLITE_CONSTRAINT_UNIQUE || code == sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY
	}
	return false
}

// schema is portable across SQLite and PostgreSQL. Timestamps are stored
// as Unix nanoseconds so both drivers round-trip them exactly.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS players (
		id TEXT PRIMARY KEY,
		username TEXT NOT NULL,
		username_lower TEXT UNIQUE,
		display_name TEXT NOT NULL,
		is_guest BOOLEAN NOT NULL,
		gold BIGINT NOT NULL,
		energy INTEGER NOT NULL,
		max_energy INTEGER NOT NULL,
		home_type TEXT NOT NULL,
		home_id BIGINT NOT NULL,
		current_type TEXT NOT NULL,
		current_id BIGINT NOT NULL,
		title_tier INTEGER NOT NULL,
		banned_at BIGINT,
		version BIGINT NOT NULL,
		created_at BIGINT NOT NULL,
		updated_at BIGINT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS registered_players (
		player_id TEXT PRIMARY KEY,
		username TEXT NOT NULL,
		username_lower TEXT NOT NULL UNIQUE,
		password_hash TEXT NOT NULL,
		created_at BIGINT NOT NULL,
		updated_at BIGINT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS skills (
		player_id TEXT NOT NULL,
		name TEXT NOT NULL,
		level INTEGER NOT NULL,
		xp BIGINT NOT NULL,
		PRIMARY KEY (player_id, name)
	)`,
	`CREATE TABLE IF NOT EXISTS counters (
		name TEXT PRIMARY KEY,
		value BIGINT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS houses (
		id TEXT PRIMARY KEY,
		seq BIGINT NOT NULL UNIQUE,
		player_id TEXT NOT NULL,
		name TEXT NOT NULL,
		tier INTEGER NOT NULL,
		house_condition INTEGER NOT NULL,
		kingdom_id BIGINT NOT NULL,
		location_type TEXT NOT NULL,
		location_id BIGINT NOT NULL,
		upkeep_due_at BIGINT,
		created_at BIGINT NOT NULL,
		updated_at BIGINT NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS houses_player_idx ON houses (player_id)`,
	`CREATE INDEX IF NOT EXISTS houses_kingdom_idx ON houses (kingdom_id)`,
	`CREATE TABLE IF NOT EXISTS rooms (
		id TEXT PRIMARY KEY,
		house_id TEXT NOT NULL,
		room_type TEXT NOT NULL,
		grid_x INTEGER NOT NULL,
		grid_y INTEGER NOT NULL,
		UNIQUE (house_id, grid_x, grid_y)
	)`,
	`CREATE TABLE IF NOT EXISTS furniture (
		id TEXT PRIMARY KEY,
		room_id TEXT NOT NULL,
		house_id TEXT NOT NULL,
		item_key TEXT NOT NULL,
		hotspot TEXT NOT NULL,
		placed_at BIGINT NOT NULL,
		UNIQUE (room_id, hotspot)
	)`,
	`CREATE TABLE IF NOT EXISTS kingdoms (
		id BIGINT PRIMARY KEY,
		name TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS baronies (
		id BIGINT PRIMARY KEY,
		name TEXT NOT NULL,
		kingdom_id BIGINT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS villages (
		id BIGINT PRIMARY KEY,
		name TEXT NOT NULL,
		barony_id BIGINT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS world_state (
		id INTEGER PRIMARY KEY,
		year INTEGER NOT NULL,
		season TEXT NOT NULL,
		week INTEGER NOT NULL
	)`,
}

// Migrate creates any missing tables
func Migrate(ctx context.Context, db *sql.DB) error {
	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}
	return nil
}
