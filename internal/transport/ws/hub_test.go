package ws

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/suite"

	"github.com/playsquare/lobbyd/internal/dependencies/clock"
	"github.com/playsquare/lobbyd/internal/protocol"
	"github.com/playsquare/lobbyd/internal/services/player"
	"github.com/playsquare/lobbyd/internal/services/room"
	"github.com/playsquare/lobbyd/internal/services/session"
	"github.com/playsquare/lobbyd/internal/storage/memory"
	"github.com/playsquare/lobbyd/internal/testutil"
)

// frame is the generic shape of an outbound envelope as seen on the wire
type frame struct {
	Status  string          `json:"status"`
	Event   string          `json:"event"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

type HubSuite struct {
	suite.Suite
	hub    *Hub
	server *httptest.Server
	cancel context.CancelFunc
}

func TestHubSuite(t *testing.T) {
	suite.Run(t, new(HubSuite))
}

func (s *HubSuite) SetupTest() {
	logger := testutil.NopLogger()
	store := memory.New()
	clk := clock.New()
	players := player.NewRegistry(store, clk, logger)
	rooms := room.NewRegistry(store, clk, logger)

	s.hub = NewHub(logger)
	coordinator := session.NewCoordinator(players, rooms, s.hub, logger)

	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel
	go s.hub.Run(ctx, coordinator)

	s.server = httptest.NewServer(http.HandlerFunc(s.hub.ServeWS))
}

func (s *HubSuite) TearDownTest() {
	s.server.Close()
	s.cancel()
}

// dial opens a connection and consumes the connected frame, returning the
// socket and its assigned client id
func (s *HubSuite) dial() (*websocket.Conn, string) {
	url := "ws" + strings.TrimPrefix(s.server.URL, "http")
	sock, resp, err := websocket.DefaultDialer.Dial(url, nil)
	s.Require().NoError(err)
	if resp != nil {
		_ = resp.Body.Close()
	}
	s.T().Cleanup(func() { _ = sock.Close() })

	f := s.readFrame(sock)
	s.Require().Equal(protocol.EventConnected, f.Event)

	var payload protocol.ConnectedPayload
	s.Require().NoError(json.Unmarshal(f.Data, &payload))
	s.Require().NotEmpty(payload.ClientID)

	return sock, payload.ClientID
}

func (s *HubSuite) readFrame(sock *websocket.Conn) frame {
	s.Require().NoError(sock.SetReadDeadline(time.Now().Add(2 * time.Second)))
	_, raw, err := sock.ReadMessage()
	s.Require().NoError(err)

	var f frame
	s.Require().NoError(json.Unmarshal(raw, &f))
	return f
}

func (s *HubSuite) send(sock *websocket.Conn, event string, payload any) {
	data, err := json.Marshal(payload)
	s.Require().NoError(err)
	s.Require().NoError(sock.WriteJSON(protocol.ClientMessage{Event: event, Data: data}))
}

func (s *HubSuite) TestConnectAssignsDistinctIdentities() {
	_, id1 := s.dial()
	_, id2 := s.dial()

	s.NotEqual(id1, id2)
	s.Equal(2, s.hub.ClientCount())
}

func (s *HubSuite) TestRegisterAndCreateRoom() {
	sock, _ := s.dial()

	s.send(sock, protocol.EventRegisterPlayer, map[string]string{
		"playerName":  "Alice",
		"playerIdent": "alice@example.com",
	})
	f := s.readFrame(sock)
	s.Equal(protocol.EventPlayerRegistered, f.Event)

	s.send(sock, protocol.EventCreateRoom, map[string]any{
		"id":       "room-1",
		"roomName": "General",
	})
	f = s.readFrame(sock)
	s.Equal(protocol.EventRoomCreated, f.Event)

	var view protocol.RoomView
	s.Require().NoError(json.Unmarshal(f.Data, &view))
	s.Equal("room-1", view.ID)
	s.Require().NotNil(view.Host)
	s.Equal("Alice", view.Host.PlayerName)
}

func (s *HubSuite) TestRelayBetweenConnections() {
	host, hostID := s.dial()
	guest, guestID := s.dial()

	s.send(host, protocol.EventCreateRoom, map[string]any{"id": "room-1", "roomName": "General"})
	s.Require().Equal(protocol.EventRoomCreated, s.readFrame(host).Event)

	s.send(guest, protocol.EventJoinRoom, map[string]string{"id": "room-1"})
	s.Require().Equal(protocol.EventRoomJoined, s.readFrame(guest).Event)
	// The host sees the join broadcast
	s.Require().Equal(protocol.EventRoomJoined, s.readFrame(host).Event)

	s.send(guest, protocol.EventRoomMessage, map[string]any{
		"roomId":  "room-1",
		"message": "hello",
	})

	f := s.readFrame(host)
	s.Equal(protocol.EventRoomMessage, f.Event)

	var payload protocol.RoomMessagePayload
	s.Require().NoError(json.Unmarshal(f.Data, &payload))
	s.Equal(guestID, payload.Sender)
	s.Equal("hello", payload.Message)
	s.NotEqual(hostID, payload.Sender)
}

func (s *HubSuite) TestMalformedFrameIsRejected() {
	sock, _ := s.dial()

	s.Require().NoError(sock.WriteMessage(websocket.TextMessage, []byte("not json")))

	f := s.readFrame(sock)
	s.Equal(protocol.StatusValidation, f.Status)
	s.Equal(protocol.EventInvalidMessage, f.Event)
}

func (s *HubSuite) TestDisconnectNotifiesRoomMembers() {
	host, _ := s.dial()
	guest, guestID := s.dial()

	s.send(host, protocol.EventCreateRoom, map[string]any{"id": "room-1", "roomName": "General"})
	s.Require().Equal(protocol.EventRoomCreated, s.readFrame(host).Event)

	s.send(guest, protocol.EventJoinRoom, map[string]string{"id": "room-1"})
	s.Require().Equal(protocol.EventRoomJoined, s.readFrame(guest).Event)
	s.Require().Equal(protocol.EventRoomJoined, s.readFrame(host).Event)

	s.Require().NoError(guest.Close())

	f := s.readFrame(host)
	s.Equal(protocol.EventRoomUserLeft, f.Event)

	var payload protocol.UserLeftPayload
	s.Require().NoError(json.Unmarshal(f.Data, &payload))
	s.Equal(guestID, payload.ClientID)
	s.Equal("room-1", payload.RoomID)
}
