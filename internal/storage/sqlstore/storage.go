// Package sqlstore persists game state in SQLite or PostgreSQL.
package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"

	"github.com/djasnowski/myrefell-sub008/internal/model"
	"github.com/djasnowski/myrefell-sub008/internal/storage"
)

// Storage is a SQL-backed implementation of the storage interface
type Storage struct {
	db      *sql.DB
	dialect Dialect
}

// Open connects to the database, applies the schema and returns the store
func Open(ctx context.Context, dialect Dialect, dsn string) (*Storage, error) {
	db, err := sql.Open(dialect.driverName(), dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if dialect == DialectSQLite {
		// SQLite allows a single writer
		db.SetMaxOpenConns(1)
		db.SetMaxIdleConns(1)
		db.SetConnMaxLifetime(0)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	if err := Migrate(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return NewWithDB(db, dialect), nil
}

// NewWithDB wraps an existing connection without migrating (for testing)
func NewWithDB(db *sql.DB, dialect Dialect) *Storage {
	return &Storage{db: db, dialect: dialect}
}

// Close closes the database connection
func (s *Storage) Close() error {
	return s.db.Close()
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

type rowScanner interface {
	Scan(dest ...any) error
}

func (s *Storage) exec(ctx context.Context, q querier, query string, args ...any) (sql.Result, error) {
	return q.ExecContext(ctx, s.dialect.rebind(query), args...)
}

func (s *Storage) query(ctx context.Context, q querier, query string, args ...any) (*sql.Rows, error) {
	return q.QueryContext(ctx, s.dialect.rebind(query), args...)
}

func (s *Storage) queryRow(ctx context.Context, q querier, query string, args ...any) *sql.Row {
	return q.QueryRowContext(ctx, s.dialect.rebind(query), args...)
}

// querier is satisfied by both *sql.DB and *sql.Tx
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// inTx runs fn in a transaction, committing on success
func (s *Storage) inTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}

// Time helpers

func toNanos(t time.Time) int64 {
	if t.IsZero() {
		return 0
	}
	return t.UnixNano()
}

func fromNanos(n int64) time.Time {
	if n == 0 {
		return time.Time{}
	}
	return time.Unix(0, n).UTC()
}

func nullNanos(t *time.Time) sql.NullInt64 {
	if t == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: t.UnixNano(), Valid: true}
}

func nullUsername(username string) sql.NullString {
	if username == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: strings.ToLower(username), Valid: true}
}

// Player operations

const playerColumns = `id, username, display_name, is_guest, gold, energy, max_energy,
	home_type, home_id, current_type, current_id, title_tier, banned_at, version, created_at, updated_at`

func scanPlayer(row rowScanner) (*model.Player, error) {
	var (
		p                  model.Player
		homeType, curType  string
		homeID, curID      int64
		bannedAt           sql.NullInt64
		createdAt, updated int64
	)
	err := row.Scan(&p.ID, &p.Username, &p.DisplayName, &p.IsGuest, &p.Gold, &p.Energy, &p.MaxEnergy,
		&homeType, &homeID, &curType, &curID, &p.TitleTier, &bannedAt, &p.Version, &createdAt, &updated)
	if err != nil {
		return nil, err
	}
	p.HomeLocation = model.Location{Type: model.LocationType(homeType), ID: homeID}
	p.CurrentLocation = model.Location{Type: model.LocationType(curType), ID: curID}
	if bannedAt.Valid {
		t := fromNanos(bannedAt.Int64)
		p.BannedAt = &t
	}
	p.CreatedAt = fromNanos(createdAt)
	p.UpdatedAt = fromNanos(updated)
	return &p, nil
}

func (s *Storage) CreatePlayer(ctx context.Context, player *model.Player) error {
	_, err := s.exec(ctx, s.db, `INSERT INTO players (id, username, username_lower, display_name, is_guest,
		gold, energy, max_energy, home_type, home_id, current_type, current_id, title_tier, banned_at,
		version, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		string(player.ID), player.Username, nullUsername(player.Username), player.DisplayName, player.IsGuest,
		player.Gold, player.Energy, player.MaxEnergy,
		string(player.HomeLocation.Type), player.HomeLocation.ID,
		string(player.CurrentLocation.Type), player.CurrentLocation.ID,
		player.TitleTier, nullNanos(player.BannedAt), int64(1),
		toNanos(player.CreatedAt), toNanos(player.UpdatedAt))
	if err != nil {
		if s.dialect.isUniqueViolation(err) {
			return model.ErrUsernameTaken
		}
		return err
	}
	player.Version = 1
	return nil
}

func (s *Storage) GetPlayer(ctx context.Context, id model.PlayerID) (*model.Player, error) {
	row := s.queryRow(ctx, s.db, `SELECT `+playerColumns+` FROM players WHERE id = ?`, string(id))
	p, err := scanPlayer(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, model.ErrPlayerNotFound
	}
	return p, err
}

func (s *Storage) GetPlayerByUsername(ctx context.Context, username string) (*model.Player, error) {
	row := s.queryRow(ctx, s.db, `SELECT `+playerColumns+` FROM players WHERE username_lower = ?`,
		strings.ToLower(username))
	p, err := scanPlayer(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, model.ErrPlayerNotFound
	}
	return p, err
}

// UpdatePlayer is a compare-and-swap on the version column
func (s *Storage) UpdatePlayer(ctx context.Context, player *model.Player) error {
	res, err := s.exec(ctx, s.db, `UPDATE players SET username = ?, username_lower = ?, display_name = ?,
		is_guest = ?, gold = ?, energy = ?, max_energy = ?, home_type = ?, home_id = ?,
		current_type = ?, current_id = ?, title_tier = ?, banned_at = ?, updated_at = ?,
		version = version + 1
		WHERE id = ? AND version = ?`,
		player.Username, nullUsername(player.Username), player.DisplayName, player.IsGuest,
		player.Gold, player.Energy, player.MaxEnergy,
		string(player.HomeLocation.Type), player.HomeLocation.ID,
		string(player.CurrentLocation.Type), player.CurrentLocation.ID,
		player.TitleTier, nullNanos(player.BannedAt), toNanos(player.UpdatedAt),
		string(player.ID), player.Version)
	if err != nil {
		if s.dialect.isUniqueViolation(err) {
			return model.ErrUsernameTaken
		}
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		var exists int
		err := s.queryRow(ctx, s.db, `SELECT 1 FROM players WHERE id = ?`, string(player.ID)).Scan(&exists)
		if errors.Is(err, sql.ErrNoRows) {
			return model.ErrPlayerNotFound
		}
		if err != nil {
			return err
		}
		return model.ErrVersionConflict
	}
	player.Version++
	return nil
}

func (s *Storage) ListPlayers(ctx context.Context) ([]*model.Player, error) {
	rows, err := s.query(ctx, s.db, `SELECT `+playerColumns+` FROM players ORDER BY created_at, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	players := []*model.Player{}
	for rows.Next() {
		p, err := scanPlayer(rows)
		if err != nil {
			return nil, err
		}
		players = append(players, p)
	}
	return players, rows.Err()
}

// Registered player operations

func (s *Storage) SaveRegisteredPlayer(ctx context.Context, rp *model.RegisteredPlayer) error {
	_, err := s.exec(ctx, s.db, `INSERT INTO registered_players
		(player_id, username, username_lower, password_hash, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT (player_id) DO UPDATE SET
			password_hash = excluded.password_hash,
			updated_at = excluded.updated_at`,
		string(rp.PlayerID), rp.Username, strings.ToLower(rp.Username), rp.PasswordHash,
		toNanos(rp.CreatedAt), toNanos(rp.UpdatedAt))
	if err != nil && s.dialect.isUniqueViolation(err) {
		return model.ErrUsernameTaken
	}
	return err
}

func (s *Storage) scanRegistered(row rowScanner) (*model.RegisteredPlayer, error) {
	var (
		rp               model.RegisteredPlayer
		created, updated int64
	)
	err := row.Scan(&rp.PlayerID, &rp.Username, &rp.PasswordHash, &created, &updated)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, model.ErrPlayerNotFound
	}
	if err != nil {
		return nil, err
	}
	rp.CreatedAt = fromNanos(created)
	rp.UpdatedAt = fromNanos(updated)
	return &rp, nil
}

func (s *Storage) GetRegisteredPlayer(ctx context.Context, playerID model.PlayerID) (*model.RegisteredPlayer, error) {
	return s.scanRegistered(s.queryRow(ctx, s.db, `SELECT player_id, username, password_hash, created_at, updated_at
		FROM registered_players WHERE player_id = ?`, string(playerID)))
}

func (s *Storage) GetRegisteredPlayerByUsername(ctx context.Context, username string) (*model.RegisteredPlayer, error) {
	return s.scanRegistered(s.queryRow(ctx, s.db, `SELECT player_id, username, password_hash, created_at, updated_at
		FROM registered_players WHERE username_lower = ?`, strings.ToLower(username)))
}

// Skill operations

func (s *Storage) SaveSkill(ctx context.Context, skill model.Skill) error {
	_, err := s.exec(ctx, s.db, `INSERT INTO skills (player_id, name, level, xp) VALUES (?, ?, ?, ?)
		ON CONFLICT (player_id, name) DO UPDATE SET level = excluded.level, xp = excluded.xp`,
		string(skill.PlayerID), string(skill.Name), skill.Level, skill.XP)
	return err
}

func (s *Storage) GetSkills(ctx context.Context, playerID model.PlayerID) ([]model.Skill, error) {
	rows, err := s.query(ctx, s.db, `SELECT name, level, xp FROM skills WHERE player_id = ?`, string(playerID))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	byName := make(map[model.SkillName]model.Skill)
	for rows.Next() {
		sk := model.Skill{PlayerID: playerID}
		if err := rows.Scan(&sk.Name, &sk.Level, &sk.XP); err != nil {
			return nil, err
		}
		byName[sk.Name] = sk
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	var skills []model.Skill
	for _, name := range model.ValidSkills() {
		if sk, ok := byName[name]; ok {
			skills = append(skills, sk)
		}
	}
	return skills, nil
}

// World state operations

func (s *Storage) GetWorldState(ctx context.Context) (model.WorldState, error) {
	var ws model.WorldState
	err := s.queryRow(ctx, s.db, `SELECT year, season, week FROM world_state WHERE id = 1`).
		Scan(&ws.Year, &ws.Season, &ws.Week)
	if errors.Is(err, sql.ErrNoRows) {
		return model.WorldState{}, model.ErrWorldStateNotFound
	}
	return ws, err
}

func (s *Storage) SaveWorldState(ctx context.Context, state model.WorldState) error {
	if err := state.Validate(); err != nil {
		return err
	}
	_, err := s.exec(ctx, s.db, `INSERT INTO world_state (id, year, season, week) VALUES (1, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET year = excluded.year, season = excluded.season, week = excluded.week`,
		state.Year, string(state.Season), state.Week)
	return err
}
