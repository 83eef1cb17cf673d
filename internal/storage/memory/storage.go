package memory

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/djasnowski/myrefell-sub008/internal/model"
	"github.com/djasnowski/myrefell-sub008/internal/storage"
)

// Storage is an in-memory implementation of the storage interface
type Storage struct {
	mu sync.RWMutex

	players           map[model.PlayerID]*model.Player
	usernameIndex     map[string]model.PlayerID
	registeredPlayers map[model.PlayerID]*model.RegisteredPlayer
	loginIndex        map[string]model.PlayerID
	skills            map[model.PlayerID]map[model.SkillName]model.Skill
	houses            map[model.HouseID]*model.House
	houseSeq          int64
	kingdoms          map[model.KingdomID]model.Kingdom
	baronies          map[model.BaronyID]model.Barony
	villages          map[model.VillageID]model.Village
	worldState        *model.WorldState
}

// New creates a new in-memory storage instance
func New() *Storage {
	return &Storage{
		players:           make(map[model.PlayerID]*model.Player),
		usernameIndex:     make(map[string]model.PlayerID),
		registeredPlayers: make(map[model.PlayerID]*model.RegisteredPlayer),
		loginIndex:        make(map[string]model.PlayerID),
		skills:            make(map[model.PlayerID]map[model.SkillName]model.Skill),
		houses:            make(map[model.HouseID]*model.House),
		kingdoms:          make(map[model.KingdomID]model.Kingdom),
		baronies:          make(map[model.BaronyID]model.Barony),
		villages:          make(map[model.VillageID]model.Village),
	}
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// Player operations

func (s *Storage) CreatePlayer(ctx context.Context, player *model.Player) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if player.Username != "" {
		if _, taken := s.usernameIndex[usernameKey(player.Username)]; taken {
			return model.ErrUsernameTaken
		}
		s.usernameIndex[usernameKey(player.Username)] = player.ID
	}
	player.Version = 1
	s.players[player.ID] = player.Clone()
	return nil
}

func (s *Storage) GetPlayer(ctx context.Context, id model.PlayerID) (*model.Player, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	player, ok := s.players[id]
	if !ok {
		return nil, model.ErrPlayerNotFound
	}
	return player.Clone(), nil
}

func (s *Storage) GetPlayerByUsername(ctx context.Context, username string) (*model.Player, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.usernameIndex[usernameKey(username)]
	if !ok {
		return nil, model.ErrPlayerNotFound
	}
	player, ok := s.players[id]
	if !ok {
		return nil, model.ErrPlayerNotFound
	}
	return player.Clone(), nil
}

func (s *Storage) UpdatePlayer(ctx context.Context, player *model.Player) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	current, ok := s.players[player.ID]
	if !ok {
		return model.ErrPlayerNotFound
	}
	if current.Version != player.Version {
		return model.ErrVersionConflict
	}
	if !strings.EqualFold(current.Username, player.Username) {
		if player.Username != "" {
			if _, taken := s.usernameIndex[usernameKey(player.Username)]; taken {
				return model.ErrUsernameTaken
			}
			s.usernameIndex[usernameKey(player.Username)] = player.ID
		}
		delete(s.usernameIndex, usernameKey(current.Username))
	}
	player.Version++
	s.players[player.ID] = player.Clone()
	return nil
}

func (s *Storage) ListPlayers(ctx context.Context) ([]*model.Player, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	players := make([]*model.Player, 0, len(s.players))
	for _, p := range s.players {
		players = append(players, p.Clone())
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
	s.mu.Lock()
	defer s.mu.Unlock()
	c := *rp
	s.registeredPlayers[rp.PlayerID] = &c
	s.loginIndex[usernameKey(rp.Username)] = rp.PlayerID
	return nil
}

func (s *Storage) GetRegisteredPlayer(ctx context.Context, playerID model.PlayerID) (*model.RegisteredPlayer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rp, ok := s.registeredPlayers[playerID]
	if !ok {
		return nil, model.ErrPlayerNotFound
	}
	c := *rp
	return &c, nil
}

func (s *Storage) GetRegisteredPlayerByUsername(ctx context.Context, username string) (*model.RegisteredPlayer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	playerID, ok := s.loginIndex[usernameKey(username)]
	if !ok {
		return nil, model.ErrPlayerNotFound
	}
	rp, ok := s.registeredPlayers[playerID]
	if !ok {
		return nil, model.ErrPlayerNotFound
	}
	c := *rp
	return &c, nil
}

// Skill operations

func (s *Storage) SaveSkill(ctx context.Context, skill model.Skill) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	bySkill, ok := s.skills[skill.PlayerID]
	if !ok {
		bySkill = make(map[model.SkillName]model.Skill)
		s.skills[skill.PlayerID] = bySkill
	}
	bySkill[skill.Name] = skill
	return nil
}

func (s *Storage) GetSkills(ctx context.Context, playerID model.PlayerID) ([]model.Skill, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var skills []model.Skill
	for _, name := range model.ValidSkills() {
		if sk, ok := s.skills[playerID][name]; ok {
			skills = append(skills, sk)
		}
	}
	return skills, nil
}

// House operations

func (s *Storage) CreateHouse(ctx context.Context, house *model.House) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.houseSeq++
	house.Seq = s.houseSeq
	s.houses[house.ID] = house.Clone()
	return nil
}

func (s *Storage) SaveHouse(ctx context.Context, house *model.House) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	current, ok := s.houses[house.ID]
	if !ok {
		return model.ErrHouseNotFound
	}
	house.Seq = current.Seq
	s.houses[house.ID] = house.Clone()
	return nil
}

func (s *Storage) GetHouse(ctx context.Context, id model.HouseID) (*model.House, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	house, ok := s.houses[id]
	if !ok {
		return nil, model.ErrHouseNotFound
	}
	return house.Clone(), nil
}

func (s *Storage) ListHouses(ctx context.Context, filter storage.HouseFilter) ([]*model.House, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var houses []*model.House
	for _, h := range s.houses {
		if filter.Matches(h) {
			houses = append(houses, h.Clone())
		}
	}
	sort.Slice(houses, func(i, j int) bool { return houses[i].Seq < houses[j].Seq })
	return houses, nil
}

func (s *Storage) DeleteHouse(ctx context.Context, id model.HouseID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.houses, id)
	return nil
}

// Realm operations

func (s *Storage) SaveKingdom(ctx context.Context, kingdom model.Kingdom) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.kingdoms[kingdom.ID] = kingdom
	return nil
}

func (s *Storage) GetKingdom(ctx context.Context, id model.KingdomID) (model.Kingdom, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	k, ok := s.kingdoms[id]
	if !ok {
		return model.Kingdom{}, model.ErrKingdomNotFound
	}
	return k, nil
}

func (s *Storage) ListKingdoms(ctx context.Context) ([]model.Kingdom, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	kingdoms := make([]model.Kingdom, 0, len(s.kingdoms))
	for _, k := range s.kingdoms {
		kingdoms = append(kingdoms, k)
	}
	sort.Slice(kingdoms, func(i, j int) bool { return kingdoms[i].ID < kingdoms[j].ID })
	return kingdoms, nil
}

func (s *Storage) SaveBarony(ctx context.Context, barony model.Barony) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.baronies[barony.ID] = barony
	return nil
}

func (s *Storage) GetBarony(ctx context.Context, id model.BaronyID) (model.Barony, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	b, ok := s.baronies[id]
	if !ok {
		return model.Barony{}, model.ErrBaronyNotFound
	}
	return b, nil
}

func (s *Storage) SaveVillage(ctx context.Context, village model.Village) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.villages[village.ID] = village
	return nil
}

func (s *Storage) GetVillage(ctx context.Context, id model.VillageID) (model.Village, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.villages[id]
	if !ok {
		return model.Village{}, model.ErrVillageNotFound
	}
	return v, nil
}

// World state operations

func (s *Storage) GetWorldState(ctx context.Context) (model.WorldState, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.worldState == nil {
		return model.WorldState{}, model.ErrWorldStateNotFound
	}
	return *s.worldState, nil
}

func (s *Storage) SaveWorldState(ctx context.Context, state model.WorldState) error {
	if err := state.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.worldState = &state
	return nil
}

func usernameKey(username string) string {
	return strings.ToLower(username)
}
