package protocol

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRegisterPlayerRequestValidate(t *testing.T) {
	valid := RegisterPlayerRequest{PlayerName: "Alice", PlayerIdent: "alice@example.com"}
	assert.NoError(t, valid.Validate())

	missingName := RegisterPlayerRequest{PlayerIdent: "alice@example.com"}
	assert.Error(t, missingName.Validate())

	missingIdent := RegisterPlayerRequest{PlayerName: "Alice"}
	assert.Error(t, missingIdent.Validate())
}

func TestCreateRoomRequestValidate(t *testing.T) {
	valid := CreateRoomRequest{ID: "room-1", RoomName: "General"}
	assert.NoError(t, valid.Validate())

	withCapacity := CreateRoomRequest{ID: "room-1", RoomName: "General", MaxPlayers: 8}
	assert.NoError(t, withCapacity.Validate())

	missingID := CreateRoomRequest{RoomName: "General"}
	assert.Error(t, missingID.Validate())

	missingName := CreateRoomRequest{ID: "room-1"}
	assert.Error(t, missingName.Validate())

	tooLarge := CreateRoomRequest{ID: "room-1", RoomName: "General", MaxPlayers: 9}
	assert.Error(t, tooLarge.Validate())

	negative := CreateRoomRequest{ID: "room-1", RoomName: "General", MaxPlayers: -1}
	assert.Error(t, negative.Validate())
}

func TestRelayRequestValidate(t *testing.T) {
	valid := RelayRequest{RoomID: "room-1", Message: "hello"}
	assert.NoError(t, valid.Validate())

	// The message payload is opaque and may be absent
	noMessage := RelayRequest{RoomID: "room-1"}
	assert.NoError(t, noMessage.Validate())

	missingRoom := RelayRequest{Message: "hello"}
	assert.Error(t, missingRoom.Validate())
}

func TestValidationFailureMessage(t *testing.T) {
	err := &ValidationFailure{Field: "roomId", Reason: "is required"}
	assert.Equal(t, "roomId is required", err.Error())
}
