// Package handler contains the read-only HTTP discovery endpoints. All state
// mutation happens over the websocket protocol; this surface only lists it.
package handler

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/playsquare/lobbyd/internal/api/apierr"
	"github.com/playsquare/lobbyd/internal/model"
	"github.com/playsquare/lobbyd/internal/protocol"
	"github.com/playsquare/lobbyd/internal/services/player"
	"github.com/playsquare/lobbyd/internal/services/room"
)

// RoomHandler serves room discovery endpoints
type RoomHandler struct {
	rooms   *room.Registry
	players *player.Registry
}

// NewRoomHandler creates a new room handler
func NewRoomHandler(rooms *room.Registry, players *player.Registry) *RoomHandler {
	return &RoomHandler{
		rooms:   rooms,
		players: players,
	}
}

// List handles GET /api/v1/rooms
func (h *RoomHandler) List(w http.ResponseWriter, r *http.Request) {
	rooms, err := h.rooms.List(r.Context())
	if err != nil {
		apierr.WriteError(w, err)
		return
	}

	views := make([]protocol.RoomView, 0, len(rooms))
	for _, rm := range rooms {
		players, err := h.players.FindMany(r.Context(), rm.Clients)
		if err != nil {
			apierr.WriteError(w, err)
			return
		}
		views = append(views, protocol.EnrichedRoomView(rm, players))
	}

	writeJSON(w, http.StatusOK, views)
}

// Members handles GET /api/v1/rooms/{id}/members
func (h *RoomHandler) Members(w http.ResponseWriter, r *http.Request) {
	id := model.RoomID(mux.Vars(r)["id"])

	members, err := h.rooms.Members(r.Context(), id)
	if err != nil {
		apierr.WriteError(w, err)
		return
	}

	clients := make([]string, len(members))
	for i, m := range members {
		clients[i] = string(m)
	}

	writeJSON(w, http.StatusOK, protocol.RoomMembersPayload{
		RoomID:  string(id),
		Clients: clients,
	})
}

// writeJSON writes a JSON response
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		_ = json.NewEncoder(w).Encode(data)
	}
}
