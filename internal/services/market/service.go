package market

import (
	"context"
	"log/slog"
	"slices"

	"github.com/djasnowski/myrefell-sub008/internal/config"
	"github.com/djasnowski/myrefell-sub008/internal/model"
	"github.com/djasnowski/myrefell-sub008/internal/services/location"
	"github.com/djasnowski/myrefell-sub008/internal/services/world"
	"github.com/djasnowski/myrefell-sub008/internal/storage"
)

// Variant selects which market view a player gets
type Variant string

const (
	VariantOpen    Variant = "open"
	VariantNotHere Variant = "not_here"
	VariantClosed  Variant = "closed"
)

// Component returns the page component rendering the variant
func (v Variant) Component() string {
	switch v {
	case VariantNotHere:
		return "Market/NotHere"
	case VariantClosed:
		return "Market/Closed"
	default:
		return "Market/Index"
	}
}

// Listing is one priced item on an open market
type Listing struct {
	Item  string `json:"item"`
	Name  string `json:"name"`
	Price int64  `json:"price"`
}

// View is everything a market page needs. Listings are only filled for
// the open variant.
type View struct {
	Variant  Variant          `json:"variant"`
	Kingdom  model.Kingdom    `json:"kingdom"`
	World    model.WorldState `json:"world"`
	Access   location.Access  `json:"access"`
	Gold     int64            `json:"gold"`
	Listings []Listing        `json:"listings"`
}

// Service gates kingdom markets by location and season
type Service struct {
	storage   storage.Storage
	locations *location.Service
	world     *world.Service
	balance   config.MarketBalance
	logger    *slog.Logger
}

// New creates a new market Service
func New(
	storage storage.Storage,
	locations *location.Service,
	world *world.Service,
	balance config.MarketBalance,
	logger *slog.Logger,
) *Service {
	return &Service{
		storage:   storage,
		locations: locations,
		world:     world,
		balance:   balance,
		logger:    logger.With(slog.String("component", "market-service")),
	}
}

// View builds the market page for a player visiting a kingdom. Only a
// missing kingdom or player is an error; a player standing elsewhere or a
// closed season selects another variant.
func (s *Service) View(ctx context.Context, playerID model.PlayerID, kingdomID model.KingdomID) (*View, error) {
	kingdom, err := s.storage.GetKingdom(ctx, kingdomID)
	if err != nil {
		return nil, err
	}
	player, err := s.storage.GetPlayer(ctx, playerID)
	if err != nil {
		return nil, err
	}
	ws, err := s.world.Current(ctx)
	if err != nil {
		return nil, err
	}
	access, err := s.locations.Check(ctx, player, model.KingdomLocation(kingdomID))
	if err != nil {
		return nil, err
	}

	view := &View{
		Kingdom:  kingdom,
		World:    ws,
		Access:   access,
		Gold:     player.Gold,
		Listings: []Listing{},
	}
	switch {
	case !access.Allowed:
		view.Variant = VariantNotHere
	case slices.Contains(s.balance.ClosedSeasons, ws.Season):
		view.Variant = VariantClosed
	default:
		view.Variant = VariantOpen
		view.Listings = s.Prices(ws)
	}

	s.logger.Debug("market viewed",
		slog.String("player_id", string(playerID)),
		slog.Int64("kingdom_id", int64(kingdomID)),
		slog.String("variant", string(view.Variant)),
	)
	return view, nil
}

// Prices applies the season's modifier to the configured base prices.
// Prices never drop below 1.
func (s *Service) Prices(ws model.WorldState) []Listing {
	mod := s.balance.SeasonalModifiers[ws.Season]
	out := make([]Listing, 0, len(s.balance.Listings))
	for _, l := range s.balance.Listings {
		price := l.BasePrice * int64(100+mod) / 100
		if price < 1 {
			price = 1
		}
		out = append(out, Listing{Item: l.Item, Name: l.Name, Price: price})
	}
	return out
}
