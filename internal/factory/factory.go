package factory

import (
	"errors"
	"io"
	"log/slog"

	"github.com/playsquare/lobbyd/internal/dependencies/clock"
	"github.com/playsquare/lobbyd/internal/services/player"
	"github.com/playsquare/lobbyd/internal/services/room"
	"github.com/playsquare/lobbyd/internal/services/session"
	"github.com/playsquare/lobbyd/internal/storage"
	"github.com/playsquare/lobbyd/internal/storage/memory"
	redisstorage "github.com/playsquare/lobbyd/internal/storage/redis"
	"github.com/playsquare/lobbyd/internal/transport/ws"
)

// Storage type constants
const (
	StorageTypeMemory = "memory"
	StorageTypeRedis  = "redis"
)

// App contains all wired application components
type App struct {
	// Storage
	Storage storage.Storage

	// External dependencies
	Clock clock.Clock

	// Services
	PlayerRegistry *player.Registry
	RoomRegistry   *room.Registry
	Coordinator    *session.Coordinator
	Hub            *ws.Hub
}

// Config holds configuration for the application factory
type Config struct {
	// Logger is the application logger (optional)
	// If nil, a no-op logger is used
	Logger *slog.Logger
	// StorageType selects the storage backend ("memory" or "redis")
	// If empty, defaults to "memory"
	StorageType string
	// RedisConfig holds Redis connection settings (required if StorageType is "redis")
	RedisConfig *redisstorage.Config
}

// New creates a new application with all dependencies wired
func New(cfg Config) (*App, error) {
	// Use no-op logger if not provided
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}

	// Create storage based on type
	var store storage.Storage
	storageType := cfg.StorageType
	if storageType == "" {
		storageType = StorageTypeMemory
	}

	switch storageType {
	case StorageTypeMemory:
		store = memory.New()
	case StorageTypeRedis:
		if cfg.RedisConfig == nil {
			return nil, errors.New("RedisConfig required when StorageType is redis")
		}
		redisStore, err := redisstorage.New(*cfg.RedisConfig)
		if err != nil {
			return nil, err
		}
		store = redisStore
	default:
		return nil, errors.New("invalid StorageType: must be 'memory' or 'redis'")
	}

	clk := clock.New()

	return newWithDependencies(store, clk, logger), nil
}

// newWithDependencies creates an App with the given dependencies (useful for testing)
func newWithDependencies(store storage.Storage, clk clock.Clock, logger *slog.Logger) *App {
	playerRegistry := player.NewRegistry(store, clk, logger)
	roomRegistry := room.NewRegistry(store, clk, logger)

	// The hub is both the transport and the coordinator's emitter; the
	// coordinator is the hub's dispatcher. Construction order breaks the
	// cycle: the hub takes its dispatcher at Run time, not here.
	hub := ws.NewHub(logger)
	coordinator := session.NewCoordinator(playerRegistry, roomRegistry, hub, logger)

	return &App{
		Storage:        store,
		Clock:          clk,
		PlayerRegistry: playerRegistry,
		RoomRegistry:   roomRegistry,
		Coordinator:    coordinator,
		Hub:            hub,
	}
}
