package location

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/djasnowski/myrefell-sub008/internal/model"
	"github.com/djasnowski/myrefell-sub008/internal/services/keylock"
	"github.com/djasnowski/myrefell-sub008/internal/storage"
)

// IsAtLocation reports whether the player currently stands at target.
// Both the location type and id must match.
func IsAtLocation(p *model.Player, target model.Location) bool {
	if p == nil || target.IsZero() {
		return false
	}
	return p.CurrentLocation.Equal(target)
}

// Access is the outcome of a soft location gate. A denied access is a
// normal result the caller renders differently, not an error.
type Access struct {
	Allowed     bool           `json:"allowed"`
	Current     model.Location `json:"current"`
	CurrentName string         `json:"current_name"`
	Target      model.Location `json:"target"`
	TargetName  string         `json:"target_name"`
}

// MaxAttempts bounds Travel retries after a version conflict
const MaxAttempts = 3

// Service resolves location names and checks location gates
type Service struct {
	storage storage.Storage
	locks   *keylock.Map
	logger  *slog.Logger
}

// New creates a new location Service. locks is the per-player lock shared
// with every other writer of the player record; nil gets a private one.
func New(storage storage.Storage, locks *keylock.Map, logger *slog.Logger) *Service {
	if locks == nil {
		locks = keylock.New()
	}
	return &Service{
		storage: storage,
		locks:   locks,
		logger:  logger.With(slog.String("component", "location-service")),
	}
}

// Check compares the player's position with target and resolves both
// names for display
func (s *Service) Check(ctx context.Context, p *model.Player, target model.Location) (Access, error) {
	access := Access{
		Allowed: IsAtLocation(p, target),
		Current: p.CurrentLocation,
		Target:  target,
	}

	var err error
	if access.TargetName, err = s.Name(ctx, target); err != nil {
		return Access{}, err
	}
	// An unresolvable current location only degrades the label
	if access.CurrentName, err = s.Name(ctx, p.CurrentLocation); err != nil {
		if !errors.Is(err, model.ErrNotFound) && !errors.Is(err, model.ErrInvalidLocation) {
			return Access{}, err
		}
		s.logger.Warn("player location does not resolve",
			slog.String("player_id", string(p.ID)),
			slog.String("location", p.CurrentLocation.String()),
		)
		access.CurrentName = "Unknown"
	}

	if !access.Allowed {
		s.logger.Debug("location gate denied",
			slog.String("player_id", string(p.ID)),
			slog.String("current", access.Current.String()),
			slog.String("target", target.String()),
		)
	}
	return access, nil
}

// Name returns the display name of the realm entity a location points at
func (s *Service) Name(ctx context.Context, loc model.Location) (string, error) {
	switch loc.Type {
	case model.LocationVillage:
		v, err := s.storage.GetVillage(ctx, model.VillageID(loc.ID))
		if err != nil {
			return "", err
		}
		return v.Name, nil
	case model.LocationBarony:
		b, err := s.storage.GetBarony(ctx, model.BaronyID(loc.ID))
		if err != nil {
			return "", err
		}
		return b.Name, nil
	case model.LocationKingdom:
		k, err := s.storage.GetKingdom(ctx, model.KingdomID(loc.ID))
		if err != nil {
			return "", err
		}
		return k.Name, nil
	default:
		return "", fmt.Errorf("%w: %q", model.ErrInvalidLocation, loc.String())
	}
}

// Travel moves the player to target. The target must exist in the realm.
func (s *Service) Travel(ctx context.Context, playerID model.PlayerID, target model.Location) (*model.Player, error) {
	if !target.Type.Valid() {
		return nil, model.ErrInvalidLocation
	}
	if _, err := s.Name(ctx, target); err != nil {
		return nil, err
	}
	unlock := s.locks.Lock(string(playerID))
	defer unlock()

	var lastErr error
	for attempt := 1; attempt <= MaxAttempts; attempt++ {
		player, err := s.storage.GetPlayer(ctx, playerID)
		if err != nil {
			return nil, err
		}
		if IsAtLocation(player, target) {
			return player, nil
		}

		from := player.CurrentLocation
		player.CurrentLocation = target
		err = s.storage.UpdatePlayer(ctx, player)
		if err == nil {
			s.logger.Info("player travelled",
				slog.String("player_id", string(playerID)),
				slog.String("from", from.String()),
				slog.String("to", target.String()),
			)
			return player, nil
		}
		if !errors.Is(err, model.ErrVersionConflict) {
			return nil, err
		}
		lastErr = err
		s.logger.Warn("travel conflicted, retrying",
			slog.String("player_id", string(playerID)),
			slog.Int("attempt", attempt),
		)
	}
	return nil, lastErr
}
