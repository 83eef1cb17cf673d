package seed

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/djasnowski/myrefell-sub008/internal/model"
	"github.com/djasnowski/myrefell-sub008/internal/storage"
)

//go:embed data/realm.yaml
var defaultRealmYAML []byte

// Realm is the reference data a fresh world starts from
type Realm struct {
	Kingdoms []model.Kingdom
	Baronies []model.Barony
	Villages []model.Village
	World    model.WorldState
}

type realmFile struct {
	Kingdoms []struct {
		ID   int64  `yaml:"id"`
		Name string `yaml:"name"`
	} `yaml:"kingdoms"`
	Baronies []struct {
		ID        int64  `yaml:"id"`
		Name      string `yaml:"name"`
		KingdomID int64  `yaml:"kingdom_id"`
	} `yaml:"baronies"`
	Villages []struct {
		ID       int64  `yaml:"id"`
		Name     string `yaml:"name"`
		BaronyID int64  `yaml:"barony_id"`
	} `yaml:"villages"`
	World struct {
		Year   int    `yaml:"year"`
		Season string `yaml:"season"`
		Week   int    `yaml:"week"`
	} `yaml:"world"`
}

// Default returns the embedded realm
func Default() (*Realm, error) {
	return Parse(defaultRealmYAML)
}

// LoadFile reads a realm from a YAML file
func LoadFile(path string) (*Realm, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(raw)
}

// Parse decodes and validates a realm document
func Parse(raw []byte) (*Realm, error) {
	var f realmFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("realm: %w", err)
	}

	r := &Realm{
		World: model.WorldState{Year: f.World.Year, Season: model.Season(f.World.Season), Week: f.World.Week},
	}
	for _, k := range f.Kingdoms {
		r.Kingdoms = append(r.Kingdoms, model.Kingdom{ID: model.KingdomID(k.ID), Name: k.Name})
	}
	for _, b := range f.Baronies {
		r.Baronies = append(r.Baronies, model.Barony{ID: model.BaronyID(b.ID), Name: b.Name, KingdomID: model.KingdomID(b.KingdomID)})
	}
	for _, v := range f.Villages {
		r.Villages = append(r.Villages, model.Village{ID: model.VillageID(v.ID), Name: v.Name, BaronyID: model.BaronyID(v.BaronyID)})
	}
	if err := r.Validate(); err != nil {
		return nil, fmt.Errorf("realm: %w", err)
	}
	return r, nil
}

// Validate checks that ids are unique and every parent exists
func (r *Realm) Validate() error {
	if len(r.Kingdoms) == 0 {
		return errors.New("at least one kingdom is required")
	}
	kingdoms := make(map[model.KingdomID]bool)
	for _, k := range r.Kingdoms {
		if k.ID <= 0 || k.Name == "" {
			return fmt.Errorf("kingdom %d: id and name are required", k.ID)
		}
		if kingdoms[k.ID] {
			return fmt.Errorf("kingdom %d: duplicate id", k.ID)
		}
		kingdoms[k.ID] = true
	}
	baronies := make(map[model.BaronyID]bool)
	for _, b := range r.Baronies {
		if b.ID <= 0 || b.Name == "" {
			return fmt.Errorf("barony %d: id and name are required", b.ID)
		}
		if baronies[b.ID] {
			return fmt.Errorf("barony %d: duplicate id", b.ID)
		}
		if !kingdoms[b.KingdomID] {
			return fmt.Errorf("barony %d: unknown kingdom %d", b.ID, b.KingdomID)
		}
		baronies[b.ID] = true
	}
	villages := make(map[model.VillageID]bool)
	for _, v := range r.Villages {
		if v.ID <= 0 || v.Name == "" {
			return fmt.Errorf("village %d: id and name are required", v.ID)
		}
		if villages[v.ID] {
			return fmt.Errorf("village %d: duplicate id", v.ID)
		}
		if !baronies[v.BaronyID] {
			return fmt.Errorf("village %d: unknown barony %d", v.ID, v.BaronyID)
		}
		villages[v.ID] = true
	}
	return r.World.Validate()
}

// Apply writes the realm into storage. Reference data is upserted; the
// world calendar is only written when none is stored yet, so restarts
// never rewind time.
func Apply(ctx context.Context, store storage.Storage, r *Realm, logger *slog.Logger) error {
	for _, k := range r.Kingdoms {
		if err := store.SaveKingdom(ctx, k); err != nil {
			return err
		}
	}
	for _, b := range r.Baronies {
		if err := store.SaveBarony(ctx, b); err != nil {
			return err
		}
	}
	for _, v := range r.Villages {
		if err := store.SaveVillage(ctx, v); err != nil {
			return err
		}
	}

	_, err := store.GetWorldState(ctx)
	switch {
	case errors.Is(err, model.ErrWorldStateNotFound):
		if err := store.SaveWorldState(ctx, r.World); err != nil {
			return err
		}
		logger.Info("world state seeded", slog.String("world", r.World.String()))
	case err != nil:
		return err
	}

	logger.Info("realm seeded",
		slog.Int("kingdoms", len(r.Kingdoms)),
		slog.Int("baronies", len(r.Baronies)),
		slog.Int("villages", len(r.Villages)),
	)
	return nil
}
