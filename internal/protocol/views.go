package protocol

import "github.com/playsquare/lobbyd/internal/model"

// PlayerView is the player projection returned to clients
type PlayerView struct {
	ID          string `json:"id"`
	PlayerName  string `json:"playerName"`
	PlayerIdent string `json:"playerIdent"`
}

// PlayerViewFromModel converts a model.Player
func PlayerViewFromModel(p *model.Player) PlayerView {
	return PlayerView{
		ID:          string(p.ID),
		PlayerName:  p.PlayerName,
		PlayerIdent: p.PlayerIdent,
	}
}

// RoomView is the room projection returned to clients, optionally enriched
// with resolved host and member player projections.
type RoomView struct {
	ID         string       `json:"id"`
	RoomName   string       `json:"roomName"`
	HostID     string       `json:"hostId"`
	MaxPlayers int          `json:"maxPlayers"`
	Clients    []string     `json:"clients"`
	Host       *PlayerView  `json:"host,omitempty"`
	Players    []PlayerView `json:"players,omitempty"`
}

// RoomViewFromModel converts a model.Room without player enrichment
func RoomViewFromModel(r *model.Room) RoomView {
	clients := make([]string, len(r.Clients))
	for i, c := range r.Clients {
		clients[i] = string(c)
	}
	return RoomView{
		ID:         string(r.ID),
		RoomName:   r.RoomName,
		HostID:     string(r.HostID),
		MaxPlayers: r.MaxPlayers,
		Clients:    clients,
	}
}

// EnrichedRoomView converts a model.Room and resolves host and member
// projections from the given players. Players missing from the registry are
// simply omitted.
func EnrichedRoomView(r *model.Room, players []*model.Player) RoomView {
	view := RoomViewFromModel(r)
	views := make([]PlayerView, 0, len(players))
	for _, p := range players {
		pv := PlayerViewFromModel(p)
		if p.ID == r.HostID {
			host := pv
			view.Host = &host
		}
		views = append(views, pv)
	}
	view.Players = views
	return view
}

// RoomMessagePayload is the broadcast payload for relayed events
type RoomMessagePayload struct {
	Sender  string `json:"sender"`
	RoomID  string `json:"roomId"`
	Message any    `json:"message"`
}

// RoomJoinedPayload is broadcast to existing members when a client joins
type RoomJoinedPayload struct {
	Room   RoomView    `json:"room"`
	Player *PlayerView `json:"player,omitempty"`
}

// UserLeftPayload is broadcast to remaining members when a client leaves
type UserLeftPayload struct {
	ClientID string `json:"clientId"`
	RoomID   string `json:"roomId"`
}

// ConnectedPayload tells a freshly accepted connection its assigned id
type ConnectedPayload struct {
	ClientID string `json:"clientId"`
}

// RoomMembersPayload is the response to a member list query
type RoomMembersPayload struct {
	RoomID  string   `json:"roomId"`
	Clients []string `json:"clients"`
}
