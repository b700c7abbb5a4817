// Package session implements the coordinator that sits between the transport
// layer and the registries: it checks business preconditions on inbound
// requests, mutates registry state, and decides which envelopes go to whom.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/playsquare/lobbyd/internal/model"
	"github.com/playsquare/lobbyd/internal/protocol"
	"github.com/playsquare/lobbyd/internal/services/player"
	"github.com/playsquare/lobbyd/internal/services/room"
)

// Emitter is the outbound half of the transport boundary. The coordinator
// resolves room membership itself (the room registry is the single source of
// truth), so per-room fan-out is expressed as EmitMany over a member list.
type Emitter interface {
	// Emit sends an envelope to one connection
	Emit(id model.ClientID, message any)
	// EmitMany sends an envelope to each of the given connections
	EmitMany(ids []model.ClientID, message any)
}

// Coordinator orchestrates the player and room registries and the broadcast
// protocol. It is invoked from a single dispatch loop; handlers run to
// completion and never yield mid-mutation.
type Coordinator struct {
	players *player.Registry
	rooms   *room.Registry
	emitter Emitter
	logger  *slog.Logger

	handlers map[string]handlerFunc
}

type handlerFunc func(ctx context.Context, clientID model.ClientID, data json.RawMessage)

// NewCoordinator creates a Coordinator with its event dispatch table
func NewCoordinator(players *player.Registry, rooms *room.Registry, emitter Emitter, logger *slog.Logger) *Coordinator {
	c := &Coordinator{
		players: players,
		rooms:   rooms,
		emitter: emitter,
		logger:  logger.With(slog.String("component", "session")),
	}

	c.handlers = map[string]handlerFunc{
		protocol.EventRegisterPlayer:       c.handleRegisterPlayer,
		protocol.EventListRooms:            c.handleListRooms,
		protocol.EventCreateRoom:           c.handleCreateRoom,
		protocol.EventJoinRoom:             c.handleJoinRoom,
		protocol.EventRoomMembers:          c.handleRoomMembers,
		protocol.EventRoomMessage:          c.relayHandler(protocol.EventRoomMessage),
		protocol.EventPlayerOptions:        c.relayHandler(protocol.EventPlayerOptions),
		protocol.EventPlayerOptionsChanged: c.relayHandler(protocol.EventPlayerOptionsChanged),
		protocol.EventGameOptions:          c.relayHandler(protocol.EventGameOptions),
	}

	return c
}

// HandleMessage dispatches one inbound frame to its handler. Unknown events
// are rejected with a validation envelope; a failed request never affects
// other connections.
func (c *Coordinator) HandleMessage(ctx context.Context, clientID model.ClientID, msg protocol.ClientMessage) {
	handler, ok := c.handlers[msg.Event]
	if !ok {
		c.logger.Warn("unknown event",
			slog.String("client_id", string(clientID)),
			slog.String("event", msg.Event))
		c.emitter.Emit(clientID, protocol.ValidationError(protocol.EventInvalidMessage,
			fmt.Sprintf("unknown event %q", msg.Event)))
		return
	}
	handler(ctx, clientID, msg.Data)
}

// HandleDisconnect cascades a connection teardown: the client leaves every
// room it belongs to (remaining members are notified, emptied rooms are
// deleted), then its player registration is removed.
func (c *Coordinator) HandleDisconnect(ctx context.Context, clientID model.ClientID) {
	rooms, err := c.rooms.RoomsByClient(ctx, clientID)
	if err != nil {
		c.logger.Error("disconnect cleanup failed",
			slog.String("client_id", string(clientID)),
			slog.Any("error", err))
		return
	}

	for _, r := range rooms {
		if _, err := c.rooms.Leave(ctx, r.ID, clientID); err != nil {
			c.logger.Error("leave on disconnect failed",
				slog.String("client_id", string(clientID)),
				slog.String("room_id", string(r.ID)),
				slog.Any("error", err))
			continue
		}

		remaining := make([]model.ClientID, 0, len(r.Clients))
		for _, member := range r.Clients {
			if member != clientID {
				remaining = append(remaining, member)
			}
		}
		c.emitter.EmitMany(remaining, protocol.Success(protocol.EventRoomUserLeft, protocol.UserLeftPayload{
			ClientID: string(clientID),
			RoomID:   string(r.ID),
		}))
	}

	if err := c.players.Remove(ctx, clientID); err != nil {
		c.logger.Error("player removal on disconnect failed",
			slog.String("client_id", string(clientID)),
			slog.Any("error", err))
	}

	c.logger.Info("client disconnected",
		slog.String("client_id", string(clientID)),
		slog.Int("rooms_left", len(rooms)))
}

func (c *Coordinator) handleRegisterPlayer(ctx context.Context, clientID model.ClientID, data json.RawMessage) {
	var req protocol.RegisterPlayerRequest
	if !c.decode(clientID, protocol.EventRegisterPlayerError, data, &req) {
		return
	}

	p, err := c.players.Register(ctx, clientID, req.PlayerName, req.PlayerIdent)
	if err != nil {
		if errors.Is(err, model.ErrPlayerExists) {
			c.emitter.Emit(clientID, protocol.BusinessError(protocol.EventRegisterPlayerError,
				fmt.Sprintf("player %s already exists", req.PlayerName)))
			return
		}
		c.internalError(clientID, protocol.EventRegisterPlayerError, err)
		return
	}

	c.emitter.Emit(clientID, protocol.Success(protocol.EventPlayerRegistered, protocol.PlayerViewFromModel(p)))
}

func (c *Coordinator) handleListRooms(ctx context.Context, clientID model.ClientID, _ json.RawMessage) {
	rooms, err := c.rooms.List(ctx)
	if err != nil {
		c.internalError(clientID, protocol.EventListRoomsError, err)
		return
	}

	views := make([]protocol.RoomView, 0, len(rooms))
	for _, r := range rooms {
		view, err := c.enrich(ctx, r)
		if err != nil {
			c.internalError(clientID, protocol.EventListRoomsError, err)
			return
		}
		views = append(views, view)
	}

	c.emitter.Emit(clientID, protocol.Success(protocol.EventRoomList, views))
}

func (c *Coordinator) handleCreateRoom(ctx context.Context, clientID model.ClientID, data json.RawMessage) {
	var req protocol.CreateRoomRequest
	if !c.decode(clientID, protocol.EventCreateRoomError, data, &req) {
		return
	}

	r, err := c.rooms.Create(ctx, model.RoomID(req.ID), req.RoomName, clientID, req.MaxPlayers)
	if err != nil {
		if errors.Is(err, model.ErrRoomExists) {
			c.emitter.Emit(clientID, protocol.BusinessError(protocol.EventCreateRoomError,
				fmt.Sprintf("room %s already exists", req.ID)))
			return
		}
		c.internalError(clientID, protocol.EventCreateRoomError, err)
		return
	}

	view, err := c.enrich(ctx, r)
	if err != nil {
		c.internalError(clientID, protocol.EventCreateRoomError, err)
		return
	}

	c.emitter.Emit(clientID, protocol.Success(protocol.EventRoomCreated, view))
}

func (c *Coordinator) handleJoinRoom(ctx context.Context, clientID model.ClientID, data json.RawMessage) {
	var req protocol.JoinRoomRequest
	if !c.decode(clientID, protocol.EventJoinRoomError, data, &req) {
		return
	}

	r, err := c.rooms.Join(ctx, model.RoomID(req.ID), clientID)
	if err != nil {
		switch {
		case errors.Is(err, model.ErrRoomNotFound):
			c.emitter.Emit(clientID, protocol.BusinessError(protocol.EventJoinRoomError,
				fmt.Sprintf("room %s does not exist", req.ID)))
		case errors.Is(err, model.ErrRoomFull):
			c.emitter.Emit(clientID, protocol.BusinessError(protocol.EventJoinRoomError,
				fmt.Sprintf("room %s is full", req.ID)))
		default:
			c.internalError(clientID, protocol.EventJoinRoomError, err)
		}
		return
	}

	view, err := c.enrich(ctx, r)
	if err != nil {
		c.internalError(clientID, protocol.EventJoinRoomError, err)
		return
	}

	// Acknowledge the requester, then notify the room's existing members
	c.emitter.Emit(clientID, protocol.Success(protocol.EventRoomJoined, view))

	joined := protocol.RoomJoinedPayload{Room: view}
	if p, err := c.players.Find(ctx, clientID); err == nil {
		pv := protocol.PlayerViewFromModel(p)
		joined.Player = &pv
	}
	c.emitter.EmitMany(othersOf(r, clientID), protocol.Success(protocol.EventRoomJoined, joined))
}

func (c *Coordinator) handleRoomMembers(ctx context.Context, clientID model.ClientID, data json.RawMessage) {
	var req protocol.RoomMembersRequest
	if !c.decode(clientID, protocol.EventRoomMembersError, data, &req) {
		return
	}

	members, err := c.rooms.Members(ctx, model.RoomID(req.RoomID))
	if err != nil {
		if errors.Is(err, model.ErrRoomNotFound) {
			c.emitter.Emit(clientID, protocol.BusinessError(protocol.EventRoomMembersError,
				fmt.Sprintf("room %s does not exist", req.RoomID)))
			return
		}
		c.internalError(clientID, protocol.EventRoomMembersError, err)
		return
	}

	clients := make([]string, len(members))
	for i, m := range members {
		clients[i] = string(m)
	}
	c.emitter.Emit(clientID, protocol.Success(protocol.EventRoomMembers, protocol.RoomMembersPayload{
		RoomID:  req.RoomID,
		Clients: clients,
	}))
}

// relayHandler builds the handler for the pure-relay events. Relays mutate no
// state: the room is only a broadcast scope, and the payload is forwarded
// opaquely to every member except the sender.
func (c *Coordinator) relayHandler(event string) handlerFunc {
	return func(ctx context.Context, clientID model.ClientID, data json.RawMessage) {
		var req protocol.RelayRequest
		if !c.decode(clientID, protocol.EventRoomMessageError, data, &req) {
			return
		}

		r, err := c.rooms.Get(ctx, model.RoomID(req.RoomID))
		if err != nil || !r.HasClient(clientID) {
			if err != nil && !errors.Is(err, model.ErrRoomNotFound) {
				c.internalError(clientID, protocol.EventRoomMessageError, err)
				return
			}
			c.emitter.Emit(clientID, protocol.BusinessError(protocol.EventRoomMessageError,
				fmt.Sprintf("you are not part of room %s", req.RoomID)))
			return
		}

		c.emitter.EmitMany(othersOf(r, clientID), protocol.Success(event, protocol.RoomMessagePayload{
			Sender:  string(clientID),
			RoomID:  req.RoomID,
			Message: req.Message,
		}))
	}
}

// decode unmarshals and shape-validates a request payload, emitting a
// validation envelope on failure
func (c *Coordinator) decode(clientID model.ClientID, errorEvent string, data json.RawMessage, req interface{ Validate() error }) bool {
	if err := json.Unmarshal(data, req); err != nil {
		c.emitter.Emit(clientID, protocol.ValidationError(errorEvent, "malformed request payload"))
		return false
	}
	if err := req.Validate(); err != nil {
		c.emitter.Emit(clientID, protocol.ValidationError(errorEvent, fmt.Sprintf("invalid request: %v", err)))
		return false
	}
	return true
}

// enrich builds a room view with host and member projections resolved from
// the player registry
func (c *Coordinator) enrich(ctx context.Context, r *model.Room) (protocol.RoomView, error) {
	players, err := c.players.FindMany(ctx, r.Clients)
	if err != nil {
		return protocol.RoomView{}, err
	}
	return protocol.EnrichedRoomView(r, players), nil
}

// internalError reports an unexpected registry failure to the requester
func (c *Coordinator) internalError(clientID model.ClientID, event string, err error) {
	c.logger.Error("request failed",
		slog.String("client_id", string(clientID)),
		slog.String("event", event),
		slog.Any("error", err))
	c.emitter.Emit(clientID, protocol.BusinessError(event, "internal error"))
}

// othersOf returns the room's members excluding the given client
func othersOf(r *model.Room, except model.ClientID) []model.ClientID {
	others := make([]model.ClientID, 0, len(r.Clients))
	for _, member := range r.Clients {
		if member != except {
			others = append(others, member)
		}
	}
	return others
}
