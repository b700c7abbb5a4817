// Package player owns the registry of player profiles keyed by connection
// identity.
package player

import (
	"context"
	"errors"
	"log/slog"

	"github.com/playsquare/lobbyd/internal/dependencies/clock"
	"github.com/playsquare/lobbyd/internal/model"
	"github.com/playsquare/lobbyd/internal/storage"
)

// Registry manages player registration and lookup
type Registry struct {
	storage storage.Storage
	clock   clock.Clock
	logger  *slog.Logger
}

// NewRegistry creates a new player Registry
func NewRegistry(storage storage.Storage, clk clock.Clock, logger *slog.Logger) *Registry {
	return &Registry{
		storage: storage,
		clock:   clk,
		logger:  logger.With(slog.String("component", "player-registry")),
	}
}

// Register creates a player profile for a connection. The client id, player
// name, and player ident must each be unused across all currently registered
// players; rejection has no side effects.
func (r *Registry) Register(ctx context.Context, id model.ClientID, name, ident string) (*model.Player, error) {
	if _, err := r.storage.GetPlayer(ctx, id); err == nil {
		return nil, model.ErrPlayerExists
	} else if !errors.Is(err, model.ErrPlayerNotFound) {
		return nil, err
	}

	if _, err := r.storage.GetPlayerByName(ctx, name); err == nil {
		return nil, model.ErrPlayerExists
	} else if !errors.Is(err, model.ErrPlayerNotFound) {
		return nil, err
	}

	if _, err := r.storage.GetPlayerByIdent(ctx, ident); err == nil {
		return nil, model.ErrPlayerExists
	} else if !errors.Is(err, model.ErrPlayerNotFound) {
		return nil, err
	}

	player := &model.Player{
		ID:           id,
		PlayerName:   name,
		PlayerIdent:  ident,
		RegisteredAt: r.clock.Now(),
	}

	if err := r.storage.SavePlayer(ctx, player); err != nil {
		return nil, err
	}

	r.logger.Info("player registered",
		slog.String("client_id", string(id)),
		slog.String("player_name", name))

	return player, nil
}

// Find returns the player registered for the given connection
func (r *Registry) Find(ctx context.Context, id model.ClientID) (*model.Player, error) {
	return r.storage.GetPlayer(ctx, id)
}

// FindMany resolves a sequence of client ids to player profiles, silently
// omitting ids with no registered player.
func (r *Registry) FindMany(ctx context.Context, ids []model.ClientID) ([]*model.Player, error) {
	players := make([]*model.Player, 0, len(ids))
	for _, id := range ids {
		player, err := r.storage.GetPlayer(ctx, id)
		if err != nil {
			if errors.Is(err, model.ErrPlayerNotFound) {
				continue
			}
			return nil, err
		}
		players = append(players, player)
	}
	return players, nil
}

// Remove deletes the player registered for the given connection, if any
func (r *Registry) Remove(ctx context.Context, id model.ClientID) error {
	return r.storage.DeletePlayer(ctx, id)
}
