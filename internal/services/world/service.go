package world

import (
	"context"
	"errors"
	"log/slog"

	"github.com/djasnowski/myrefell-sub008/internal/model"
	"github.com/djasnowski/myrefell-sub008/internal/storage"
)

// Service reads and advances the world calendar
type Service struct {
	storage storage.Storage
	logger  *slog.Logger
}

// New creates a new world Service
func New(storage storage.Storage, logger *slog.Logger) *Service {
	return &Service{
		storage: storage,
		logger:  logger.With(slog.String("component", "world-service")),
	}
}

// Current returns the calendar snapshot for this request. A world that was
// never seeded reads as the default calendar.
func (s *Service) Current(ctx context.Context) (model.WorldState, error) {
	ws, err := s.storage.GetWorldState(ctx)
	if errors.Is(err, model.ErrWorldStateNotFound) {
		s.logger.Warn("world state missing, using default")
		return model.DefaultWorldState(), nil
	}
	return ws, err
}

// Advance moves the calendar forward by weeks and stores it
func (s *Service) Advance(ctx context.Context, weeks int) (model.WorldState, error) {
	if weeks < 1 {
		return model.WorldState{}, model.ErrInvalidWorldState
	}
	ws, err := s.Current(ctx)
	if err != nil {
		return model.WorldState{}, err
	}
	for i := 0; i < weeks; i++ {
		ws = ws.Next()
	}
	if err := s.storage.SaveWorldState(ctx, ws); err != nil {
		return model.WorldState{}, err
	}
	s.logger.Info("world advanced",
		slog.Int("year", ws.Year),
		slog.String("season", string(ws.Season)),
		slog.Int("week", ws.Week),
	)
	return ws, nil
}
