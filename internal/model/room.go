package model

import (
	"slices"
	"time"
)

// RoomID is a caller-supplied identifier for a room, unique while the room is live
type RoomID string

const (
	// MinRoomCapacity and MaxRoomCapacity bound the maxPlayers setting
	MinRoomCapacity = 1
	MaxRoomCapacity = 8
	// DefaultRoomCapacity applies when a create request omits maxPlayers
	DefaultRoomCapacity = 4
)

// Room is a bounded-capacity named group of connections sharing broadcast scope.
// Clients is the single source of truth for membership; it preserves join order
// and never contains duplicates.
type Room struct {
	ID         RoomID
	RoomName   string
	HostID     ClientID
	MaxPlayers int
	Clients    []ClientID
	CreatedAt  time.Time
}

// AddClient appends a client to the member list. Adding an existing member is
// a no-op, so join is idempotent.
func (r *Room) AddClient(id ClientID) {
	if r.HasClient(id) {
		return
	}
	r.Clients = append(r.Clients, id)
}

// RemoveClient removes a client from the member list if present
func (r *Room) RemoveClient(id ClientID) {
	for i, c := range r.Clients {
		if c == id {
			r.Clients = append(r.Clients[:i], r.Clients[i+1:]...)
			return
		}
	}
}

// HasClient reports whether the client is a member of the room
func (r *Room) HasClient(id ClientID) bool {
	return slices.Contains(r.Clients, id)
}

// IsFull reports whether the room has reached its capacity
func (r *Room) IsFull() bool {
	return len(r.Clients) >= r.MaxPlayers
}

// ClientCount returns the number of members
func (r *Room) ClientCount() int {
	return len(r.Clients)
}
