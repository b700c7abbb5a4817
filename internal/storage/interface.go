package storage

import (
	"context"

	"github.com/playsquare/lobbyd/internal/model"
)

// Storage defines the persistence interface behind the player and room
// registries. Implementations own their copies: values passed to Save are
// snapshotted, and values returned from Get are safe for the caller to mutate.
type Storage interface {
	// Player operations
	SavePlayer(ctx context.Context, player *model.Player) error
	GetPlayer(ctx context.Context, id model.ClientID) (*model.Player, error)
	GetPlayerByName(ctx context.Context, name string) (*model.Player, error)
	GetPlayerByIdent(ctx context.Context, ident string) (*model.Player, error)
	DeletePlayer(ctx context.Context, id model.ClientID) error

	// Room operations
	SaveRoom(ctx context.Context, room *model.Room) error
	GetRoom(ctx context.Context, id model.RoomID) (*model.Room, error)
	DeleteRoom(ctx context.Context, id model.RoomID) error
	RoomExists(ctx context.Context, id model.RoomID) (bool, error)
	ListRooms(ctx context.Context) ([]*model.Room, error)
}
