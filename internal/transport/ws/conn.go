package ws

import (
	"encoding/json"
	"log/slog"
	"time"

	"github.com/gorilla/websocket"

	"github.com/playsquare/lobbyd/internal/model"
	"github.com/playsquare/lobbyd/internal/protocol"
)

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Time allowed to read the next pong from the peer
	pongWait = 60 * time.Second

	// Ping interval; must be shorter than pongWait
	pingPeriod = 54 * time.Second

	// Buffer size for outgoing messages
	sendBufferSize = 256

	// Maximum inbound frame size
	maxMessageSize = 64 * 1024
)

// Conn is one live client connection: a websocket plus its outbound queue
type Conn struct {
	id   model.ClientID
	sock *websocket.Conn
	send chan []byte
	hub  *Hub
}

func newConn(id model.ClientID, sock *websocket.Conn, hub *Hub) *Conn {
	return &Conn{
		id:   id,
		sock: sock,
		send: make(chan []byte, sendBufferSize),
		hub:  hub,
	}
}

// readPump reads frames from the peer and feeds them into the hub's single
// dispatch queue. When the connection drops, for any reason, it enqueues the
// disconnect event so cleanup runs on the same queue as every other mutation.
func (c *Conn) readPump() {
	defer func() {
		c.hub.enqueueDisconnect(c.id)
		_ = c.sock.Close()
	}()

	c.sock.SetReadLimit(maxMessageSize)
	_ = c.sock.SetReadDeadline(time.Now().Add(pongWait))
	c.sock.SetPongHandler(func(string) error {
		return c.sock.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, raw, err := c.sock.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.hub.logger.Warn("websocket read error",
					slog.String("client_id", string(c.id)),
					slog.Any("error", err))
			}
			return
		}

		var msg protocol.ClientMessage
		if err := json.Unmarshal(raw, &msg); err != nil || msg.Event == "" {
			c.hub.emitToConn(c, protocol.ValidationError(protocol.EventInvalidMessage, "malformed frame"))
			continue
		}

		c.hub.enqueueMessage(c.id, msg)
	}
}

// writePump drains the outbound queue and keeps the connection alive with
// pings
func (c *Conn) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.sock.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			_ = c.sock.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// Hub closed the channel
				_ = c.sock.WriteMessage(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
				return
			}
			if err := c.sock.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}

		case <-ticker.C:
			_ = c.sock.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.sock.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
