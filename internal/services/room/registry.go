// Package room owns the set of live rooms: creation, membership mutation, and
// the delete-on-empty lifecycle.
package room

import (
	"context"
	"errors"
	"log/slog"
	"sort"

	"github.com/playsquare/lobbyd/internal/dependencies/clock"
	"github.com/playsquare/lobbyd/internal/model"
	"github.com/playsquare/lobbyd/internal/storage"
)

// Registry manages room lifecycle and membership
type Registry struct {
	storage storage.Storage
	clock   clock.Clock
	logger  *slog.Logger
}

// NewRegistry creates a new room Registry
func NewRegistry(storage storage.Storage, clk clock.Clock, logger *slog.Logger) *Registry {
	return &Registry{
		storage: storage,
		clock:   clk,
		logger:  logger.With(slog.String("component", "room-registry")),
	}
}

// Create creates a room with the host as its first member. A creator is
// always also a member. A non-positive maxPlayers selects the default
// capacity; the id must not already be taken.
func (r *Registry) Create(ctx context.Context, id model.RoomID, name string, host model.ClientID, maxPlayers int) (*model.Room, error) {
	exists, err := r.storage.RoomExists(ctx, id)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, model.ErrRoomExists
	}

	if maxPlayers <= 0 {
		maxPlayers = model.DefaultRoomCapacity
	}

	room := &model.Room{
		ID:         id,
		RoomName:   name,
		HostID:     host,
		MaxPlayers: maxPlayers,
		Clients:    []model.ClientID{host},
		CreatedAt:  r.clock.Now(),
	}

	if err := r.storage.SaveRoom(ctx, room); err != nil {
		return nil, err
	}

	r.logger.Info("room created",
		slog.String("room_id", string(id)),
		slog.String("host_id", string(host)),
		slog.Int("max_players", maxPlayers))

	return room, nil
}

// Join adds a client to a room. Re-joining an existing member is a no-op
// success; joining a full room fails with ErrRoomFull.
func (r *Registry) Join(ctx context.Context, id model.RoomID, client model.ClientID) (*model.Room, error) {
	room, err := r.storage.GetRoom(ctx, id)
	if err != nil {
		return nil, err
	}

	if room.HasClient(client) {
		return room, nil
	}
	if room.IsFull() {
		return nil, model.ErrRoomFull
	}

	room.AddClient(client)
	if err := r.storage.SaveRoom(ctx, room); err != nil {
		return nil, err
	}

	r.logger.Info("client joined room",
		slog.String("room_id", string(id)),
		slog.String("client_id", string(client)),
		slog.Int("members", room.ClientCount()))

	return room, nil
}

// Leave removes a client from a room, reporting whether the room existed.
// A room emptied by the removal is deleted in the same operation; rooms never
// persist at zero members.
func (r *Registry) Leave(ctx context.Context, id model.RoomID, client model.ClientID) (bool, error) {
	room, err := r.storage.GetRoom(ctx, id)
	if err != nil {
		if errors.Is(err, model.ErrRoomNotFound) {
			return false, nil
		}
		return false, err
	}

	room.RemoveClient(client)

	if room.ClientCount() == 0 {
		if err := r.storage.DeleteRoom(ctx, id); err != nil {
			return true, err
		}
		r.logger.Info("room deleted", slog.String("room_id", string(id)))
		return true, nil
	}

	if err := r.storage.SaveRoom(ctx, room); err != nil {
		return true, err
	}
	return true, nil
}

// Members returns the member list of a room in join order
func (r *Registry) Members(ctx context.Context, id model.RoomID) ([]model.ClientID, error) {
	room, err := r.storage.GetRoom(ctx, id)
	if err != nil {
		return nil, err
	}
	return room.Clients, nil
}

// IsMember reports whether the client is in the room; an absent room is
// reported as false, not an error.
func (r *Registry) IsMember(ctx context.Context, id model.RoomID, client model.ClientID) (bool, error) {
	room, err := r.storage.GetRoom(ctx, id)
	if err != nil {
		if errors.Is(err, model.ErrRoomNotFound) {
			return false, nil
		}
		return false, err
	}
	return room.HasClient(client), nil
}

// Get returns a room by id
func (r *Registry) Get(ctx context.Context, id model.RoomID) (*model.Room, error) {
	return r.storage.GetRoom(ctx, id)
}

// RoomsByClient returns every room currently containing the client; used to
// drive disconnect cleanup.
func (r *Registry) RoomsByClient(ctx context.Context, client model.ClientID) ([]*model.Room, error) {
	rooms, err := r.storage.ListRooms(ctx)
	if err != nil {
		return nil, err
	}
	var member []*model.Room
	for _, room := range rooms {
		if room.HasClient(client) {
			member = append(member, room)
		}
	}
	sortRooms(member)
	return member, nil
}

// List returns all live rooms ordered by creation time
func (r *Registry) List(ctx context.Context) ([]*model.Room, error) {
	rooms, err := r.storage.ListRooms(ctx)
	if err != nil {
		return nil, err
	}
	sortRooms(rooms)
	return rooms, nil
}

// sortRooms orders by creation time with id as tiebreak, so listings are
// stable regardless of the backend's iteration order
func sortRooms(rooms []*model.Room) {
	sort.Slice(rooms, func(i, j int) bool {
		if rooms[i].CreatedAt.Equal(rooms[j].CreatedAt) {
			return rooms[i].ID < rooms[j].ID
		}
		return rooms[i].CreatedAt.Before(rooms[j].CreatedAt)
	})
}
