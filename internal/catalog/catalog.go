package catalog

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"sort"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"gopkg.in/yaml.v3"

	"github.com/djasnowski/myrefell-sub008/internal/model"
)

//go:embed data/furniture.yaml
var defaultFurnitureYAML []byte

//go:embed data/furniture.schema.json
var furnitureSchemaJSON string

const schemaURL = "furniture.schema.json"

// FurnitureKey identifies a catalog entry
type FurnitureKey string

// BonusKind names the gameplay effect a bonus feeds into
type BonusKind string

const (
	BonusEnergyRegen BonusKind = "energy_regen_bonus"
	BonusCooking     BonusKind = "cooking_bonus"
	BonusFarming     BonusKind = "farming_bonus"
	BonusStorage     BonusKind = "storage_bonus"
	BonusCrafting    BonusKind = "crafting_bonus"
)

// BonusMode says how a bonus value is applied
type BonusMode string

const (
	ModePercent BonusMode = "percent"
	ModeFlat    BonusMode = "flat"
)

// Bonus is a single effect contributed by a furniture item
type Bonus struct {
	Mode  BonusMode `yaml:"mode" json:"mode"`
	Value int       `yaml:"value" json:"value"`
}

// Format renders the bonus as a signed string, e.g. "+5%" or "+2"
func (b Bonus) Format() string {
	suffix := ""
	if b.Mode == ModePercent {
		suffix = "%"
	}
	return fmt.Sprintf("%+d%s", b.Value, suffix)
}

// Definition is the static description of one furniture item
type Definition struct {
	Key               FurnitureKey        `yaml:"key" json:"key"`
	Name              string              `yaml:"name" json:"name"`
	Hotspot           model.HotspotSlug   `yaml:"hotspot" json:"hotspot"`
	ConstructionLevel int                 `yaml:"construction_level" json:"construction_level"`
	Cost              int64               `yaml:"cost" json:"cost"`
	Bonuses           map[BonusKind]Bonus `yaml:"bonuses" json:"bonuses"`
}

// Bonus returns the definition's bonus of the given kind
func (d Definition) Bonus(kind BonusKind) (Bonus, bool) {
	b, ok := d.Bonuses[kind]
	return b, ok
}

type catalogFile struct {
	Furniture []Definition `yaml:"furniture"`
}

// Catalog is an immutable furniture lookup table built once at startup
type Catalog struct {
	byKey map[FurnitureKey]Definition
	keys  []FurnitureKey
}

// Default returns the catalog embedded in the binary
func Default() (*Catalog, error) {
	return Parse(defaultFurnitureYAML)
}

// MustDefault is Default for package init and tests
func MustDefault() *Catalog {
	c, err := Default()
	if err != nil {
		panic(fmt.Sprintf("embedded furniture catalog: %v", err))
	}
	return c
}

// LoadFile reads and validates a catalog YAML file
func LoadFile(path string) (*Catalog, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	c, err := Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return c, nil
}

// Parse validates YAML catalog data against the schema and builds a Catalog
func Parse(raw []byte) (*Catalog, error) {
	if err := validate(raw); err != nil {
		return nil, err
	}

	var file catalogFile
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return nil, fmt.Errorf("furniture catalog: %w", err)
	}
	return New(file.Furniture)
}

// New builds a catalog from definitions, rejecting duplicates and hotspots
// that no room type offers
func New(defs []Definition) (*Catalog, error) {
	c := &Catalog{byKey: make(map[FurnitureKey]Definition, len(defs))}
	for _, d := range defs {
		if _, dup := c.byKey[d.Key]; dup {
			return nil, fmt.Errorf("furniture catalog: duplicate key %q", d.Key)
		}
		if !hotspotExists(d.Hotspot) {
			return nil, fmt.Errorf("furniture catalog: %q uses unknown hotspot %q", d.Key, d.Hotspot)
		}
		if d.ConstructionLevel == 0 {
			d.ConstructionLevel = 1
		}
		bonuses := make(map[BonusKind]Bonus, len(d.Bonuses))
		for k, b := range d.Bonuses {
			bonuses[k] = b
		}
		d.Bonuses = bonuses
		c.byKey[d.Key] = d
		c.keys = append(c.keys, d.Key)
	}
	sort.Slice(c.keys, func(i, j int) bool { return c.keys[i] < c.keys[j] })
	return c, nil
}

// Lookup returns the definition for key, or ErrCatalogKeyNotFound
func (c *Catalog) Lookup(key FurnitureKey) (Definition, error) {
	d, ok := c.byKey[key]
	if !ok {
		return Definition{}, fmt.Errorf("%w: %s", model.ErrCatalogKeyNotFound, key)
	}
	return cloneDefinition(d), nil
}

// Keys returns all catalog keys in sorted order
func (c *Catalog) Keys() []FurnitureKey {
	out := make([]FurnitureKey, len(c.keys))
	copy(out, c.keys)
	return out
}

// Len returns the number of entries
func (c *Catalog) Len() int {
	return len(c.keys)
}

// ForHotspot returns every definition that fits the hotspot, sorted by key
func (c *Catalog) ForHotspot(slug model.HotspotSlug) []Definition {
	var out []Definition
	for _, k := range c.keys {
		if d := c.byKey[k]; d.Hotspot == slug {
			out = append(out, cloneDefinition(d))
		}
	}
	return out
}

func cloneDefinition(d Definition) Definition {
	bonuses := make(map[BonusKind]Bonus, len(d.Bonuses))
	for k, b := range d.Bonuses {
		bonuses[k] = b
	}
	d.Bonuses = bonuses
	return d
}

func hotspotExists(slug model.HotspotSlug) bool {
	for _, rt := range model.ValidRoomTypes() {
		if rt.AllowsHotspot(slug) {
			return true
		}
	}
	return false
}

func validate(raw []byte) error {
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource(schemaURL, bytes.NewReader([]byte(furnitureSchemaJSON))); err != nil {
		return err
	}
	schema, err := compiler.Compile(schemaURL)
	if err != nil {
		return err
	}

	// Round-trip through JSON so the validator sees plain JSON values
	var doc any
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return fmt.Errorf("furniture catalog: %w", err)
	}
	asJSON, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("furniture catalog: %w", err)
	}
	var value any
	dec := json.NewDecoder(bytes.NewReader(asJSON))
	dec.UseNumber()
	if err := dec.Decode(&value); err != nil {
		return fmt.Errorf("furniture catalog: %w", err)
	}
	if err := schema.Validate(value); err != nil {
		return fmt.Errorf("furniture catalog: %w", err)
	}
	return nil
}
