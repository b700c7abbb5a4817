package protocol

import (
	"fmt"

	"github.com/playsquare/lobbyd/internal/model"
)

// ValidationFailure describes a malformed request field. It is distinct from
// the business-rule errors in the model package and maps to the "validation"
// envelope status.
type ValidationFailure struct {
	Field  string
	Reason string
}

func (e *ValidationFailure) Error() string {
	return fmt.Sprintf("%s %s", e.Field, e.Reason)
}

// RegisterPlayerRequest is the payload for registerPlayer
type RegisterPlayerRequest struct {
	PlayerName  string `json:"playerName"`
	PlayerIdent string `json:"playerIdent"`
}

// Validate checks request shape
func (r *RegisterPlayerRequest) Validate() error {
	if r.PlayerName == "" {
		return &ValidationFailure{Field: "playerName", Reason: "is required"}
	}
	if r.PlayerIdent == "" {
		return &ValidationFailure{Field: "playerIdent", Reason: "is required"}
	}
	return nil
}

// CreateRoomRequest is the payload for createRoom
type CreateRoomRequest struct {
	ID         string `json:"id"`
	RoomName   string `json:"roomName"`
	MaxPlayers int    `json:"maxPlayers,omitempty"`
}

// Validate checks request shape. A zero MaxPlayers means the default applies.
func (r *CreateRoomRequest) Validate() error {
	if r.ID == "" {
		return &ValidationFailure{Field: "id", Reason: "is required"}
	}
	if r.RoomName == "" {
		return &ValidationFailure{Field: "roomName", Reason: "is required"}
	}
	if r.MaxPlayers != 0 && (r.MaxPlayers < model.MinRoomCapacity || r.MaxPlayers > model.MaxRoomCapacity) {
		return &ValidationFailure{
			Field:  "maxPlayers",
			Reason: fmt.Sprintf("must be between %d and %d", model.MinRoomCapacity, model.MaxRoomCapacity),
		}
	}
	return nil
}

// JoinRoomRequest is the payload for joinRoom
type JoinRoomRequest struct {
	ID string `json:"id"`
}

// Validate checks request shape
func (r *JoinRoomRequest) Validate() error {
	if r.ID == "" {
		return &ValidationFailure{Field: "id", Reason: "is required"}
	}
	return nil
}

// RelayRequest is the payload for the relay events (roomMessage,
// roomPlayerOptions, roomPlayerOptionsChanged, roomGameOptions). Message is
// opaque to the coordinator and forwarded as-is.
type RelayRequest struct {
	RoomID  string `json:"roomId"`
	Message any    `json:"message"`
}

// Validate checks request shape
func (r *RelayRequest) Validate() error {
	if r.RoomID == "" {
		return &ValidationFailure{Field: "roomId", Reason: "is required"}
	}
	return nil
}

// RoomMembersRequest is the payload for roomMembers
type RoomMembersRequest struct {
	RoomID string `json:"roomId"`
}

// Validate checks request shape
func (r *RoomMembersRequest) Validate() error {
	if r.RoomID == "" {
		return &ValidationFailure{Field: "roomId", Reason: "is required"}
	}
	return nil
}
