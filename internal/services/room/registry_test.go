package room

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/playsquare/lobbyd/internal/dependencies/mocks"
	"github.com/playsquare/lobbyd/internal/model"
	"github.com/playsquare/lobbyd/internal/storage/memory"
	"github.com/playsquare/lobbyd/internal/testutil"
)

type RegistrySuite struct {
	suite.Suite
	storage  *memory.Storage
	clock    *mocks.MockClock
	registry *Registry
	ctx      context.Context
}

func TestRegistrySuite(t *testing.T) {
	suite.Run(t, new(RegistrySuite))
}

func (s *RegistrySuite) SetupTest() {
	s.storage = memory.New()
	s.clock = mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	s.registry = NewRegistry(s.storage, s.clock, testutil.NopLogger())
	s.ctx = context.Background()
}

// Create tests

func (s *RegistrySuite) TestCreateSucceeds() {
	room, err := s.registry.Create(s.ctx, "room-1", "General", "client-1", 4)
	s.Require().NoError(err)

	s.Equal(model.RoomID("room-1"), room.ID)
	s.Equal("General", room.RoomName)
	s.Equal(model.ClientID("client-1"), room.HostID)
	s.Equal(4, room.MaxPlayers)
	s.Equal([]model.ClientID{"client-1"}, room.Clients)
	s.Equal(s.clock.Now(), room.CreatedAt)
}

func (s *RegistrySuite) TestCreateAppliesDefaultCapacity() {
	room, err := s.registry.Create(s.ctx, "room-1", "General", "client-1", 0)
	s.Require().NoError(err)
	s.Equal(model.DefaultRoomCapacity, room.MaxPlayers)
}

func (s *RegistrySuite) TestCreateRejectsDuplicateID() {
	_, err := s.registry.Create(s.ctx, "room-1", "General", "client-1", 4)
	s.Require().NoError(err)

	_, err = s.registry.Create(s.ctx, "room-1", "Other", "client-2", 4)
	s.ErrorIs(err, model.ErrRoomExists)
}

func (s *RegistrySuite) TestRejectedCreateDoesNotMutateExistingRoom() {
	_, err := s.registry.Create(s.ctx, "room-1", "General", "client-1", 4)
	s.Require().NoError(err)

	_, err = s.registry.Create(s.ctx, "room-1", "Other", "client-2", 8)
	s.Require().ErrorIs(err, model.ErrRoomExists)

	room, err := s.registry.Get(s.ctx, "room-1")
	s.Require().NoError(err)
	s.Equal("General", room.RoomName)
	s.Equal(model.ClientID("client-1"), room.HostID)
	s.Equal(4, room.MaxPlayers)
}

// Join tests

func (s *RegistrySuite) TestJoinSucceeds() {
	_, err := s.registry.Create(s.ctx, "room-1", "General", "client-1", 4)
	s.Require().NoError(err)

	room, err := s.registry.Join(s.ctx, "room-1", "client-2")
	s.Require().NoError(err)
	s.Equal([]model.ClientID{"client-1", "client-2"}, room.Clients)
}

func (s *RegistrySuite) TestJoinNonexistentRoom() {
	_, err := s.registry.Join(s.ctx, "room-1", "client-1")
	s.ErrorIs(err, model.ErrRoomNotFound)
}

func (s *RegistrySuite) TestJoinFullRoom() {
	_, err := s.registry.Create(s.ctx, "room-1", "General", "client-1", 2)
	s.Require().NoError(err)
	_, err = s.registry.Join(s.ctx, "room-1", "client-2")
	s.Require().NoError(err)

	_, err = s.registry.Join(s.ctx, "room-1", "client-3")
	s.Require().ErrorIs(err, model.ErrRoomFull)

	// The rejected join must not have mutated membership
	members, err := s.registry.Members(s.ctx, "room-1")
	s.Require().NoError(err)
	s.Equal([]model.ClientID{"client-1", "client-2"}, members)
}

func (s *RegistrySuite) TestJoinIsIdempotentForMembers() {
	_, err := s.registry.Create(s.ctx, "room-1", "General", "client-1", 2)
	s.Require().NoError(err)
	_, err = s.registry.Join(s.ctx, "room-1", "client-2")
	s.Require().NoError(err)

	// Re-joining a full room succeeds for an existing member
	room, err := s.registry.Join(s.ctx, "room-1", "client-2")
	s.Require().NoError(err)
	s.Equal([]model.ClientID{"client-1", "client-2"}, room.Clients)
}

// Leave tests

func (s *RegistrySuite) TestLeaveRemovesMember() {
	_, err := s.registry.Create(s.ctx, "room-1", "General", "client-1", 4)
	s.Require().NoError(err)
	_, err = s.registry.Join(s.ctx, "room-1", "client-2")
	s.Require().NoError(err)

	existed, err := s.registry.Leave(s.ctx, "room-1", "client-1")
	s.Require().NoError(err)
	s.True(existed)

	members, err := s.registry.Members(s.ctx, "room-1")
	s.Require().NoError(err)
	s.Equal([]model.ClientID{"client-2"}, members)
}

func (s *RegistrySuite) TestLeaveDeletesEmptyRoom() {
	_, err := s.registry.Create(s.ctx, "room-1", "General", "client-1", 4)
	s.Require().NoError(err)

	existed, err := s.registry.Leave(s.ctx, "room-1", "client-1")
	s.Require().NoError(err)
	s.True(existed)

	_, err = s.registry.Get(s.ctx, "room-1")
	s.ErrorIs(err, model.ErrRoomNotFound)
}

func (s *RegistrySuite) TestRoomIDReusableAfterDeletion() {
	_, err := s.registry.Create(s.ctx, "room-1", "General", "client-1", 4)
	s.Require().NoError(err)

	_, err = s.registry.Leave(s.ctx, "room-1", "client-1")
	s.Require().NoError(err)

	room, err := s.registry.Create(s.ctx, "room-1", "Reborn", "client-2", 4)
	s.Require().NoError(err)
	s.Equal("Reborn", room.RoomName)
	s.Equal(model.ClientID("client-2"), room.HostID)
}

func (s *RegistrySuite) TestLeaveNonexistentRoom() {
	existed, err := s.registry.Leave(s.ctx, "room-1", "client-1")
	s.Require().NoError(err)
	s.False(existed)
}

// Query tests

func (s *RegistrySuite) TestIsMember() {
	_, err := s.registry.Create(s.ctx, "room-1", "General", "client-1", 4)
	s.Require().NoError(err)

	isMember, err := s.registry.IsMember(s.ctx, "room-1", "client-1")
	s.Require().NoError(err)
	s.True(isMember)

	isMember, err = s.registry.IsMember(s.ctx, "room-1", "client-2")
	s.Require().NoError(err)
	s.False(isMember)

	isMember, err = s.registry.IsMember(s.ctx, "nonexistent", "client-1")
	s.Require().NoError(err)
	s.False(isMember)
}

func (s *RegistrySuite) TestRoomsByClient() {
	_, err := s.registry.Create(s.ctx, "room-1", "One", "client-1", 4)
	s.Require().NoError(err)
	s.clock.Advance(time.Minute)
	_, err = s.registry.Create(s.ctx, "room-2", "Two", "client-2", 4)
	s.Require().NoError(err)
	_, err = s.registry.Join(s.ctx, "room-2", "client-1")
	s.Require().NoError(err)
	s.clock.Advance(time.Minute)
	_, err = s.registry.Create(s.ctx, "room-3", "Three", "client-2", 4)
	s.Require().NoError(err)

	rooms, err := s.registry.RoomsByClient(s.ctx, "client-1")
	s.Require().NoError(err)
	s.Require().Len(rooms, 2)
	s.Equal(model.RoomID("room-1"), rooms[0].ID)
	s.Equal(model.RoomID("room-2"), rooms[1].ID)
}

func (s *RegistrySuite) TestListOrdersByCreationTime() {
	_, err := s.registry.Create(s.ctx, "room-b", "B", "client-1", 4)
	s.Require().NoError(err)
	s.clock.Advance(time.Minute)
	_, err = s.registry.Create(s.ctx, "room-a", "A", "client-2", 4)
	s.Require().NoError(err)

	rooms, err := s.registry.List(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(rooms, 2)
	s.Equal(model.RoomID("room-b"), rooms[0].ID)
	s.Equal(model.RoomID("room-a"), rooms[1].ID)
}
