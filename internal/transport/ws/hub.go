// Package ws is the websocket transport: it accepts connections, assigns
// connection identities, and funnels every inbound event through a single
// dispatch queue so the session coordinator runs one event at a time.
package ws

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/playsquare/lobbyd/internal/model"
	"github.com/playsquare/lobbyd/internal/protocol"
)

const queueSize = 1024

// Dispatcher consumes the hub's event stream. It is invoked from a single
// goroutine, one event to completion at a time.
type Dispatcher interface {
	HandleMessage(ctx context.Context, clientID model.ClientID, msg protocol.ClientMessage)
	HandleDisconnect(ctx context.Context, clientID model.ClientID)
}

// event is one entry in the dispatch queue; a nil msg marks a disconnect
type event struct {
	clientID model.ClientID
	msg      *protocol.ClientMessage
}

// Hub owns all live connections and implements the coordinator's Emitter
type Hub struct {
	logger   *slog.Logger
	upgrader websocket.Upgrader

	mu    sync.RWMutex
	conns map[model.ClientID]*Conn

	queue chan event
	done  chan struct{}
}

// NewHub creates a connection hub
func NewHub(logger *slog.Logger) *Hub {
	return &Hub{
		logger: logger.With(slog.String("component", "ws")),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				// Origin policy is deferred to the deployment's proxy
				return true
			},
		},
		conns: make(map[model.ClientID]*Conn),
		queue: make(chan event, queueSize),
		done:  make(chan struct{}),
	}
}

// Run consumes the dispatch queue until the context is cancelled. Every
// registry mutation in the process happens on this goroutine.
func (h *Hub) Run(ctx context.Context, dispatcher Dispatcher) {
	h.logger.Info("dispatch loop started")
	for {
		select {
		case ev := <-h.queue:
			if ev.msg == nil {
				dispatcher.HandleDisconnect(ctx, ev.clientID)
				h.remove(ev.clientID)
			} else {
				dispatcher.HandleMessage(ctx, ev.clientID, *ev.msg)
			}

		case <-ctx.Done():
			h.closeAll()
			h.logger.Info("dispatch loop stopped")
			return
		}
	}
}

// ServeWS upgrades an HTTP request to a websocket connection, assigns it a
// connection identity, and starts its pumps
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) {
	sock, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Error("websocket upgrade failed", slog.Any("error", err))
		return
	}

	id := model.ClientID(uuid.NewString())
	conn := newConn(id, sock, h)

	h.mu.Lock()
	h.conns[id] = conn
	total := len(h.conns)
	h.mu.Unlock()

	go conn.writePump()

	// Tell the client its assigned identity before any reads begin, so the
	// connected frame cannot race the disconnect cleanup path
	h.emitToConn(conn, protocol.Success(protocol.EventConnected, protocol.ConnectedPayload{
		ClientID: string(id),
	}))

	go conn.readPump()

	h.logger.Info("client connected",
		slog.String("client_id", string(id)),
		slog.Int("total_clients", total))
}

// Emit sends an envelope to one connection. Part of the session Emitter
// contract.
func (h *Hub) Emit(id model.ClientID, message any) {
	h.mu.RLock()
	conn := h.conns[id]
	h.mu.RUnlock()
	if conn == nil {
		return
	}
	h.emitToConn(conn, message)
}

// EmitMany sends an envelope to each of the given connections
func (h *Hub) EmitMany(ids []model.ClientID, message any) {
	raw, err := json.Marshal(message)
	if err != nil {
		h.logger.Error("marshal outbound envelope failed", slog.Any("error", err))
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, id := range ids {
		if conn := h.conns[id]; conn != nil {
			h.push(conn, raw)
		}
	}
}

// ClientCount returns the number of live connections
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.conns)
}

func (h *Hub) emitToConn(conn *Conn, message any) {
	raw, err := json.Marshal(message)
	if err != nil {
		h.logger.Error("marshal outbound envelope failed", slog.Any("error", err))
		return
	}
	h.push(conn, raw)
}

// push queues bytes without blocking; a slow client loses messages rather
// than stalling the dispatch loop
func (h *Hub) push(conn *Conn, raw []byte) {
	select {
	case conn.send <- raw:
	default:
		h.logger.Warn("message dropped - client buffer full",
			slog.String("client_id", string(conn.id)))
	}
}

func (h *Hub) enqueueMessage(id model.ClientID, msg protocol.ClientMessage) {
	select {
	case h.queue <- event{clientID: id, msg: &msg}:
	case <-h.done:
	}
}

func (h *Hub) enqueueDisconnect(id model.ClientID) {
	select {
	case h.queue <- event{clientID: id}:
	case <-h.done:
	}
}

func (h *Hub) remove(id model.ClientID) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if conn, ok := h.conns[id]; ok {
		delete(h.conns, id)
		close(conn.send)
	}
}

func (h *Hub) closeAll() {
	close(h.done)
	h.mu.Lock()
	defer h.mu.Unlock()
	for id, conn := range h.conns {
		close(conn.send)
		_ = conn.sock.Close()
		delete(h.conns, id)
	}
}
