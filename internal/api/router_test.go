package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/playsquare/lobbyd/internal/api/apierr"
	"github.com/playsquare/lobbyd/internal/dependencies/mocks"
	"github.com/playsquare/lobbyd/internal/protocol"
	"github.com/playsquare/lobbyd/internal/services/player"
	"github.com/playsquare/lobbyd/internal/services/room"
	"github.com/playsquare/lobbyd/internal/storage/memory"
	"github.com/playsquare/lobbyd/internal/testutil"
	"github.com/playsquare/lobbyd/internal/transport/ws"
)

type RouterSuite struct {
	suite.Suite
	players *player.Registry
	rooms   *room.Registry
	router  http.Handler
	ctx     context.Context
}

func TestRouterSuite(t *testing.T) {
	suite.Run(t, new(RouterSuite))
}

func (s *RouterSuite) SetupTest() {
	logger := testutil.NopLogger()
	store := memory.New()
	clk := mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))

	s.players = player.NewRegistry(store, clk, logger)
	s.rooms = room.NewRegistry(store, clk, logger)

	s.router = NewRouter(RouterConfig{
		Logger:         logger,
		RoomRegistry:   s.rooms,
		PlayerRegistry: s.players,
		Hub:            ws.NewHub(logger),
	})
	s.ctx = context.Background()
}

func (s *RouterSuite) get(path string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func (s *RouterSuite) TestHealth() {
	rec := s.get("/health")

	s.Equal(http.StatusOK, rec.Code)
	s.JSONEq(`{"status":"ok"}`, rec.Body.String())
}

func (s *RouterSuite) TestListRoomsEmpty() {
	rec := s.get("/api/v1/rooms")

	s.Equal(http.StatusOK, rec.Code)
	s.JSONEq(`[]`, rec.Body.String())
}

func (s *RouterSuite) TestListRooms() {
	_, err := s.players.Register(s.ctx, "client-1", "Alice", "ident-a")
	s.Require().NoError(err)
	_, err = s.rooms.Create(s.ctx, "room-1", "General", "client-1", 4)
	s.Require().NoError(err)

	rec := s.get("/api/v1/rooms")
	s.Require().Equal(http.StatusOK, rec.Code)

	var views []protocol.RoomView
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &views))
	s.Require().Len(views, 1)
	s.Equal("room-1", views[0].ID)
	s.Equal([]string{"client-1"}, views[0].Clients)
	s.Require().NotNil(views[0].Host)
	s.Equal("Alice", views[0].Host.PlayerName)
}

func (s *RouterSuite) TestRoomMembers() {
	_, err := s.rooms.Create(s.ctx, "room-1", "General", "client-1", 4)
	s.Require().NoError(err)
	_, err = s.rooms.Join(s.ctx, "room-1", "client-2")
	s.Require().NoError(err)

	rec := s.get("/api/v1/rooms/room-1/members")
	s.Require().Equal(http.StatusOK, rec.Code)

	var payload protocol.RoomMembersPayload
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &payload))
	s.Equal("room-1", payload.RoomID)
	s.Equal([]string{"client-1", "client-2"}, payload.Clients)
}

func (s *RouterSuite) TestRoomMembersNotFound() {
	rec := s.get("/api/v1/rooms/nowhere/members")
	s.Require().Equal(http.StatusNotFound, rec.Code)

	var resp apierr.ErrorResponse
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &resp))
	s.Equal(apierr.CodeRoomNotFound, resp.Error.Code)
}
