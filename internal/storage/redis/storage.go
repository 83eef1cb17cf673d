package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/djasnowski/myrefell-sub008/internal/model"
	"github.com/djasnowski/myrefell-sub008/internal/storage"
)

// Storage is a Redis-backed implementation of the storage interface
type Storage struct {
	client *redis.Client
	cfg    Config
}

// New creates a new Redis storage instance
func New(cfg Config) (*Storage, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, err
	}

	opts.PoolSize = cfg.PoolSize
	opts.MinIdleConns = cfg.MinIdleConns
	if cfg.DialTimeout > 0 {
		opts.DialTimeout = cfg.DialTimeout
	} else {
		cfg.DialTimeout = 5 * time.Second
	}

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), cfg.DialTimeout)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}

	return &Storage{
		client: client,
		cfg:    cfg,
	}, nil
}

// NewWithClient creates a Redis storage with an existing client (for testing)
func NewWithClient(client *redis.Client, cfg Config) *Storage {
	return &Storage{
		client: client,
		cfg:    cfg,
	}
}

// Close closes the Redis connection
func (s *Storage) Close() error {
	return s.client.Close()
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// playerTTL applies only to guests
func (s *Storage) playerTTL(p *model.Player) time.Duration {
	if p.IsGuest {
		return s.cfg.GuestPlayerTTL
	}
	return 0
}

// Player operations

func (s *Storage) CreatePlayer(ctx context.Context, player *model.Player) error {
	ttl := s.playerTTL(player)

	if player.Username != "" {
		ok, err := s.client.SetNX(ctx, usernameIndexKey(player.Username), string(player.ID), ttl).Result()
		if err != nil {
			return err
		}
		if !ok {
			return model.ErrUsernameTaken
		}
	}

	player.Version = 1
	data, err := json.Marshal(player)
	if err != nil {
		return err
	}

	pipe := s.client.Pipeline()
	pipe.Set(ctx, playerKey(player.ID), data, ttl)
	pipe.SAdd(ctx, playersIndexKey(), string(player.ID))
	_, err = pipe.Exec(ctx)
	return err
}

func (s *Storage) GetPlayer(ctx context.Context, id model.PlayerID) (*model.Player, error) {
	data, err := s.client.Get(ctx, playerKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrPlayerNotFound
		}
		return nil, err
	}

	var player model.Player
	if err := json.Unmarshal(data, &player); err != nil {
		return nil, err
	}
	return &player, nil
}

func (s *Storage) GetPlayerByUsername(ctx context.Context, username string) (*model.Player, error) {
	id, err := s.client.Get(ctx, usernameIndexKey(username)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrPlayerNotFound
		}
		return nil, err
	}
	return s.GetPlayer(ctx, model.PlayerID(id))
}

// UpdatePlayer runs a WATCH/MULTI transaction on the player key. A write
// from another client between the read and EXEC aborts the transaction,
// which is reported as a version conflict.
func (s *Storage) UpdatePlayer(ctx context.Context, player *model.Player) error {
	key := playerKey(player.ID)
	newIdx := usernameIndexKey(player.Username)

	var next *model.Player
	err := s.client.Watch(ctx, func(tx *redis.Tx) error {
		data, err := tx.Get(ctx, key).Bytes()
		if err != nil {
			if errors.Is(err, redis.Nil) {
				return model.ErrPlayerNotFound
			}
			return err
		}
		var current model.Player
		if err := json.Unmarshal(data, &current); err != nil {
			return err
		}
		if current.Version != player.Version {
			return model.ErrVersionConflict
		}

		renamed := !strings.EqualFold(current.Username, player.Username)
		if renamed && player.Username != "" {
			owner, err := tx.Get(ctx, newIdx).Result()
			if err != nil && !errors.Is(err, redis.Nil) {
				return err
			}
			if err == nil && owner != string(player.ID) {
				return model.ErrUsernameTaken
			}
		}

		next = player.Clone()
		next.Version++
		payload, err := json.Marshal(next)
		if err != nil {
			return err
		}
		ttl := s.playerTTL(next)

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, payload, ttl)
			if renamed {
				if current.Username != "" {
					pipe.Del(ctx, usernameIndexKey(current.Username))
				}
				if player.Username != "" {
					pipe.Set(ctx, newIdx, string(player.ID), ttl)
				}
			} else if player.Username != "" && ttl > 0 {
				pipe.Expire(ctx, newIdx, ttl)
			}
			return nil
		})
		return err
	}, key, newIdx)

	if errors.Is(err, redis.TxFailedErr) {
		return model.ErrVersionConflict
	}
	if err != nil {
		return err
	}
	player.Version = next.Version
	return nil
}

func (s *Storage) ListPlayers(ctx context.Context) ([]*model.Player, error) {
	ids, err := s.client.SMembers(ctx, playersIndexKey()).Result()
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return []*model.Player{}, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = playerKey(model.PlayerID(id))
	}
	values, err := s.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, err
	}

	players := make([]*model.Player, 0, len(values))
	var expired []interface{}
	for i, val := range values {
		if val == nil {
			expired = append(expired, ids[i]) // guest expired
			continue
		}
		var p model.Player
		if err := json.Unmarshal([]byte(val.(string)), &p); err != nil {
			return nil, err
		}
		players = append(players, &p)
	}
	if len(expired) > 0 {
		s.client.SRem(ctx, playersIndexKey(), expired...)
	}

	sort.Slice(players, func(i, j int) bool {
		if !players[i].CreatedAt.Equal(players[j].CreatedAt) {
			return players[i].CreatedAt.Before(players[j].CreatedAt)
		}
		return players[i].ID < players[j].ID
	})
	return players, nil
}

// Registered player operations

func (s *Storage) SaveRegisteredPlayer(ctx context.Context, rp *model.RegisteredPlayer) error {
	data, err := json.Marshal(rp)
	if err != nil {
		return err
	}

	// Use pipeline for atomic save + index update
	pipe := s.client.Pipeline()
	pipe.Set(ctx, registeredPlayerKey(rp.PlayerID), data, 0) // No TTL
	pipe.Set(ctx, loginIndexKey(rp.Username), string(rp.PlayerID), 0)
	_, err = pipe.Exec(ctx)
	return err
}

func (s *Storage) GetRegisteredPlayer(ctx context.Context, playerID model.PlayerID) (*model.RegisteredPlayer, error) {
	data, err := s.client.Get(ctx, registeredPlayerKey(playerID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrPlayerNotFound
		}
		return nil, err
	}

	var rp model.RegisteredPlayer
	if err := json.Unmarshal(data, &rp); err != nil {
		return nil, err
	}
	return &rp, nil
}

func (s *Storage) GetRegisteredPlayerByUsername(ctx context.Context, username string) (*model.RegisteredPlayer, error) {
	playerIDStr, err := s.client.Get(ctx, loginIndexKey(username)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrPlayerNotFound
		}
		return nil, err
	}

	return s.GetRegisteredPlayer(ctx, model.PlayerID(playerIDStr))
}

// Skill operations

func (s *Storage) SaveSkill(ctx context.Context, skill model.Skill) error {
	data, err := json.Marshal(skill)
	if err != nil {
		return err
	}
	return s.client.HSet(ctx, skillsKey(skill.PlayerID), string(skill.Name), data).Err()
}

func (s *Storage) GetSkills(ctx context.Context, playerID model.PlayerID) ([]model.Skill, error) {
	fields, err := s.client.HGetAll(ctx, skillsKey(playerID)).Result()
	if err != nil {
		return nil, err
	}

	var skills []model.Skill
	for _, name := range model.ValidSkills() {
		raw, ok := fields[string(name)]
		if !ok {
			continue
		}
		var sk model.Skill
		if err := json.Unmarshal([]byte(raw), &sk); err != nil {
			return nil, err
		}
		skills = append(skills, sk)
	}
	return skills, nil
}

// House operations

func (s *Storage) CreateHouse(ctx context.Context, house *model.House) error {
	seq, err := s.client.Incr(ctx, houseSeqKey()).Result()
	if err != nil {
		return err
	}
	house.Seq = seq

	data, err := json.Marshal(house)
	if err != nil {
		return err
	}

	pipe := s.client.Pipeline()
	pipe.Set(ctx, houseKey(house.ID), data, 0)
	pipe.ZAdd(ctx, housesIndexKey(), redis.Z{Score: float64(seq), Member: string(house.ID)})
	_, err = pipe.Exec(ctx)
	return err
}

func (s *Storage) SaveHouse(ctx context.Context, house *model.House) error {
	current, err := s.GetHouse(ctx, house.ID)
	if err != nil {
		return err
	}
	house.Seq = current.Seq

	data, err := json.Marshal(house)
	if err != nil {
		return err
	}
	ok, err := s.client.SetXX(ctx, houseKey(house.ID), data, 0).Result()
	if err != nil {
		return err
	}
	if !ok {
		return model.ErrHouseNotFound
	}
	return nil
}

func (s *Storage) GetHouse(ctx context.Context, id model.HouseID) (*model.House, error) {
	data, err := s.client.Get(ctx, houseKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrHouseNotFound
		}
		return nil, err
	}

	var house model.House
	if err := json.Unmarshal(data, &house); err != nil {
		return nil, err
	}
	return &house, nil
}

func (s *Storage) ListHouses(ctx context.Context, filter storage.HouseFilter) ([]*model.House, error) {
	// ZRANGE returns members in Seq order
	ids, err := s.client.ZRange(ctx, housesIndexKey(), 0, -1).Result()
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return []*model.House{}, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = houseKey(model.HouseID(id))
	}
	values, err := s.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, err
	}

	houses := make([]*model.House, 0, len(values))
	for _, val := range values {
		if val == nil {
			continue
		}
		var h model.House
		if err := json.Unmarshal([]byte(val.(string)), &h); err != nil {
			return nil, err
		}
		if filter.Matches(&h) {
			houses = append(houses, &h)
		}
	}
	return houses, nil
}

func (s *Storage) DeleteHouse(ctx context.Context, id model.HouseID) error {
	pipe := s.client.Pipeline()
	pipe.Del(ctx, houseKey(id))
	pipe.ZRem(ctx, housesIndexKey(), string(id))
	_, err := pipe.Exec(ctx)
	return err
}

// Realm operations

func (s *Storage) SaveKingdom(ctx context.Context, kingdom model.Kingdom) error {
	return s.hsetJSON(ctx, kingdomsKey(), int64(kingdom.ID), kingdom)
}

func (s *Storage) GetKingdom(ctx context.Context, id model.KingdomID) (model.Kingdom, error) {
	var k model.Kingdom
	err := s.hgetJSON(ctx, kingdomsKey(), int64(id), &k, model.ErrKingdomNotFound)
	return k, err
}

func (s *Storage) ListKingdoms(ctx context.Context) ([]model.Kingdom, error) {
	vals, err := s.client.HVals(ctx, kingdomsKey()).Result()
	if err != nil {
		return nil, err
	}
	kingdoms := make([]model.Kingdom, 0, len(vals))
	for _, v := range vals {
		var k model.Kingdom
		if err := json.Unmarshal([]byte(v), &k); err != nil {
			return nil, err
		}
		kingdoms = append(kingdoms, k)
	}
	sort.Slice(kingdoms, func(i, j int) bool { return kingdoms[i].ID < kingdoms[j].ID })
	return kingdoms, nil
}

func (s *Storage) SaveBarony(ctx context.Context, barony model.Barony) error {
	return s.hsetJSON(ctx, baroniesKey(), int64(barony.ID), barony)
}

func (s *Storage) GetBarony(ctx context.Context, id model.BaronyID) (model.Barony, error) {
	var b model.Barony
	err := s.hgetJSON(ctx, baroniesKey(), int64(id), &b, model.ErrBaronyNotFound)
	return b, err
}

func (s *Storage) SaveVillage(ctx context.Context, village model.Village) error {
	return s.hsetJSON(ctx, villagesKey(), int64(village.ID), village)
}

func (s *Storage) GetVillage(ctx context.Context, id model.VillageID) (model.Village, error) {
	var v model.Village
	err := s.hgetJSON(ctx, villagesKey(), int64(id), &v, model.ErrVillageNotFound)
	return v, err
}

func (s *Storage) hsetJSON(ctx context.Context, key string, id int64, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return s.client.HSet(ctx, key, strconv.FormatInt(id, 10), data).Err()
}

func (s *Storage) hgetJSON(ctx context.Context, key string, id int64, dst any, notFound error) error {
	data, err := s.client.HGet(ctx, key, strconv.FormatInt(id, 10)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return notFound
		}
		return err
	}
	return json.Unmarshal(data, dst)
}

// World state operations

func (s *Storage) GetWorldState(ctx context.Context) (model.WorldState, error) {
	data, err := s.client.Get(ctx, worldStateKey()).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return model.WorldState{}, model.ErrWorldStateNotFound
		}
		return model.WorldState{}, err
	}

	var ws model.WorldState
	if err := json.Unmarshal(data, &ws); err != nil {
		return model.WorldState{}, err
	}
	return ws, nil
}

func (s *Storage) SaveWorldState(ctx context.Context, state model.WorldState) error {
	if err := state.Validate(); err != nil {
		return err
	}
	data, err := json.Marshal(state)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, worldStateKey(), data, 0).Err()
}
