package redis

import (
	"fmt"

	"github.com/playsquare/lobbyd/internal/model"
)

// Key prefix for all lobby data
const keyPrefix = "lobbyd"

// playerKey returns the Redis key for a Player
func playerKey(id model.ClientID) string {
	return fmt.Sprintf("%s:player:%s", keyPrefix, id)
}

// playerNameIndexKey returns the Redis key for the playerName -> client_id index
func playerNameIndexKey(name string) string {
	return fmt.Sprintf("%s:idx:player_name:%s", keyPrefix, name)
}

// playerIdentIndexKey returns the Redis key for the playerIdent -> client_id index
func playerIdentIndexKey(ident string) string {
	return fmt.Sprintf("%s:idx:player_ident:%s", keyPrefix, ident)
}

// roomKey returns the Redis key for a Room
func roomKey(id model.RoomID) string {
	return fmt.Sprintf("%s:room:%s", keyPrefix, id)
}

// roomSetKey returns the Redis key for the SET of live room ids
func roomSetKey() string {
	return fmt.Sprintf("%s:rooms", keyPrefix)
}
