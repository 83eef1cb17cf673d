package redis

import (
	"fmt"
	"strings"

	"github.com/djasnowski/myrefell-sub008/internal/model"
)

// Key prefix for all game-related data
const keyPrefix = "myrefell"

// Key generation functions for each entity type

// playerKey returns the Redis key for a Player
func playerKey(id model.PlayerID) string {
	return fmt.Sprintf("%s:player:%s", keyPrefix, id)
}

// playersIndexKey returns the Redis key for the SET of all player IDs
func playersIndexKey() string {
	return fmt.Sprintf("%s:idx:players", keyPrefix)
}

// usernameIndexKey returns the Redis key for the username -> player_id index
func usernameIndexKey(username string) string {
	return fmt.Sprintf("%s:idx:username:%s", keyPrefix, strings.ToLower(username))
}

// registeredPlayerKey returns the Redis key for a RegisteredPlayer
func registeredPlayerKey(playerID model.PlayerID) string {
	return fmt.Sprintf("%s:registered_player:%s", keyPrefix, playerID)
}

// loginIndexKey returns the Redis key for the login username -> player_id index
func loginIndexKey(username string) string {
	return fmt.Sprintf("%s:idx:login:%s", keyPrefix, strings.ToLower(username))
}

// skillsKey returns the Redis key for the HASH of a player's skills
func skillsKey(playerID model.PlayerID) string {
	return fmt.Sprintf("%s:skills:%s", keyPrefix, playerID)
}

// houseKey returns the Redis key for a House aggregate
func houseKey(id model.HouseID) string {
	return fmt.Sprintf("%s:house:%s", keyPrefix, id)
}

// housesIndexKey returns the Redis key for the ZSET of house IDs scored by Seq
func housesIndexKey() string {
	return fmt.Sprintf("%s:idx:houses", keyPrefix)
}

// houseSeqKey returns the Redis key for the house creation counter
func houseSeqKey() string {
	return fmt.Sprintf("%s:seq:house", keyPrefix)
}

// kingdomsKey, baroniesKey and villagesKey hold one HASH per realm level
func kingdomsKey() string {
	return fmt.Sprintf("%s:realm:kingdoms", keyPrefix)
}

func baroniesKey() string {
	return fmt.Sprintf("%s:realm:baronies", keyPrefix)
}

func villagesKey() string {
	return fmt.Sprintf("%s:realm:villages", keyPrefix)
}

// worldStateKey returns the Redis key for the world calendar
func worldStateKey() string {
	return fmt.Sprintf("%s:world", keyPrefix)
}
