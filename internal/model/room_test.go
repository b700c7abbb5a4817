package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAddClientIsIdempotent(t *testing.T) {
	room := &Room{ID: "room-1", MaxPlayers: 4}

	room.AddClient("client-1")
	room.AddClient("client-1")

	assert.Equal(t, []ClientID{"client-1"}, room.Clients)
}

func TestAddClientPreservesJoinOrder(t *testing.T) {
	room := &Room{ID: "room-1", MaxPlayers: 4}

	room.AddClient("client-1")
	room.AddClient("client-2")
	room.AddClient("client-3")

	assert.Equal(t, []ClientID{"client-1", "client-2", "client-3"}, room.Clients)
}

func TestRemoveClient(t *testing.T) {
	room := &Room{
		ID:      "room-1",
		Clients: []ClientID{"client-1", "client-2", "client-3"},
	}

	room.RemoveClient("client-2")
	assert.Equal(t, []ClientID{"client-1", "client-3"}, room.Clients)

	room.RemoveClient("not-a-member")
	assert.Equal(t, []ClientID{"client-1", "client-3"}, room.Clients)
}

func TestIsFull(t *testing.T) {
	room := &Room{ID: "room-1", MaxPlayers: 2}

	assert.False(t, room.IsFull())

	room.AddClient("client-1")
	assert.False(t, room.IsFull())

	room.AddClient("client-2")
	assert.True(t, room.IsFull())
}

func TestHasClient(t *testing.T) {
	room := &Room{Clients: []ClientID{"client-1"}}

	assert.True(t, room.HasClient("client-1"))
	assert.False(t, room.HasClient("client-2"))
}
