// Package protocol defines the event vocabulary and message envelopes
// exchanged with connected clients. The vocabulary is closed: every inbound
// request, success emission, and error emission uses one of the names below.
package protocol

// Inbound request events
const (
	EventRegisterPlayer       = "registerPlayer"
	EventListRooms            = "listRooms"
	EventCreateRoom           = "createRoom"
	EventJoinRoom             = "joinRoom"
	EventRoomMessage          = "roomMessage"
	EventPlayerOptions        = "roomPlayerOptions"
	EventPlayerOptionsChanged = "roomPlayerOptionsChanged"
	EventGameOptions          = "roomGameOptions"
	EventRoomMembers          = "roomMembers"
)

// Outbound success events
const (
	EventConnected        = "connected"
	EventPlayerRegistered = "playerRegistered"
	EventRoomList         = "roomList"
	EventRoomCreated      = "roomCreated"
	EventRoomJoined       = "roomJoined"
	EventRoomUserLeft     = "roomUserLeft"
)

// Outbound error events, one per failable request
const (
	EventRegisterPlayerError = "registerPlayerError"
	EventListRoomsError      = "listRoomsError"
	EventCreateRoomError     = "createRoomError"
	EventJoinRoomError       = "joinRoomError"
	EventRoomMessageError    = "roomMessageError"
	EventRoomMembersError    = "roomMembersError"
	EventInvalidMessage      = "invalidMessage"
)
