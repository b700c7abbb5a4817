package api

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/playsquare/lobbyd/internal/api/apierr"
	"github.com/playsquare/lobbyd/internal/api/handler"
	"github.com/playsquare/lobbyd/internal/middleware"
	"github.com/playsquare/lobbyd/internal/services/player"
	"github.com/playsquare/lobbyd/internal/services/room"
	"github.com/playsquare/lobbyd/internal/transport/ws"
)

// RouterConfig holds configuration for the router
type RouterConfig struct {
	Logger         *slog.Logger
	RoomRegistry   *room.Registry
	PlayerRegistry *player.Registry
	Hub            *ws.Hub
}

// NewRouter creates the HTTP router: the websocket endpoint plus the
// read-only discovery API
func NewRouter(cfg RouterConfig) http.Handler {
	r := mux.NewRouter()

	roomHandler := handler.NewRoomHandler(cfg.RoomRegistry, cfg.PlayerRegistry)

	loggingMiddleware := middleware.Logging(cfg.Logger)
	recoveryMiddleware := middleware.Recovery(cfg.Logger, func(w http.ResponseWriter, r *http.Request, _ any) {
		apierr.WriteError(w, nil)
	})

	// Websocket endpoint; logging middleware is skipped so long-lived
	// connections don't each hold a pending access log entry
	r.HandleFunc("/ws", cfg.Hub.ServeWS)

	api := r.PathPrefix("/api/v1").Subrouter()
	api.Use(recoveryMiddleware)
	api.Use(loggingMiddleware)

	api.HandleFunc("/rooms", roomHandler.List).Methods(http.MethodGet)
	api.HandleFunc("/rooms/{id}/members", roomHandler.Members).Methods(http.MethodGet)

	r.HandleFunc("/health", healthHandler).Methods(http.MethodGet)

	return r
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}
