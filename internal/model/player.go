package model

import "time"

// ClientID is the transport-assigned identifier for a live connection.
// It is the primary key for room membership and player registration.
type ClientID string

// Player is a registered profile associated with a connection
type Player struct {
	ID           ClientID
	PlayerName   string
	PlayerIdent  string
	RegisteredAt time.Time
}
