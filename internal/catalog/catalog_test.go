package catalog

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"github.com/stretchr/testify/suite"

	"github.com/djasnowski/myrefell-sub008/internal/model"
)

type CatalogSuite struct {
	suite.Suite
	catalog *Catalog
}

func TestCatalogSuite(t *testing.T) {
	suite.Run(t, new(CatalogSuite))
}

func (s *CatalogSuite) SetupTest() {
	c, err := Default()
	s.Require().NoError(err)
	s.catalog = c
}

func (s *CatalogSuite) TestDefaultCatalogHasBeds() {
	straw, err := s.catalog.Lookup("straw_bed")
	s.Require().NoError(err)
	s.Equal(model.HotspotBed, straw.Hotspot)
	bonus, ok := straw.Bonus(BonusEnergyRegen)
	s.True(ok)
	s.Equal(Bonus{Mode: ModePercent, Value: 5}, bonus)

	wooden, err := s.catalog.Lookup("wooden_bed")
	s.Require().NoError(err)
	bonus, ok = wooden.Bonus(BonusEnergyRegen)
	s.True(ok)
	s.Equal(10, bonus.Value)
}

func (s *CatalogSuite) TestLookupMissingKey() {
	_, err := s.catalog.Lookup("golden_throne")
	s.ErrorIs(err, model.ErrCatalogKeyNotFound)
	s.ErrorIs(err, model.ErrNotFound)
}

func (s *CatalogSuite) TestLookupReturnsCopy() {
	d, err := s.catalog.Lookup("straw_bed")
	s.Require().NoError(err)
	d.Bonuses[BonusEnergyRegen] = Bonus{Mode: ModePercent, Value: 99}

	again, err := s.catalog.Lookup("straw_bed")
	s.Require().NoError(err)
	s.Equal(5, again.Bonuses[BonusEnergyRegen].Value)
}

func (s *CatalogSuite) TestForHotspot() {
	beds := s.catalog.ForHotspot(model.HotspotBed)
	s.Len(beds, 4)
	for _, d := range beds {
		s.Equal(model.HotspotBed, d.Hotspot)
	}
}

func (s *CatalogSuite) TestKeysSorted() {
	keys := s.catalog.Keys()
	s.Equal(s.catalog.Len(), len(keys))
	for i := 1; i < len(keys); i++ {
		s.Less(string(keys[i-1]), string(keys[i]))
	}
}

func (s *CatalogSuite) TestBonusFormat() {
	s.Equal("+5%", Bonus{Mode: ModePercent, Value: 5}.Format())
	s.Equal("+2", Bonus{Mode: ModeFlat, Value: 2}.Format())
	s.Equal("-3%", Bonus{Mode: ModePercent, Value: -3}.Format())
}

func (s *CatalogSuite) TestParseRejectsUnknownBonusKind() {
	raw := []byte(`
furniture:
  - key: odd_bed
    name: Odd Bed
    hotspot: bed
    bonuses:
      luck_bonus: { mode: percent, value: 5 }
`)
	_, err := Parse(raw)
	s.Error(err)
}

func (s *CatalogSuite) TestParseRejectsBadMode() {
	raw := []byte(`
furniture:
  - key: odd_bed
    name: Odd Bed
    hotspot: bed
    bonuses:
      energy_regen_bonus: { mode: double, value: 5 }
`)
	_, err := Parse(raw)
	s.Error(err)
}

func (s *CatalogSuite) TestParseRejectsUnknownHotspot() {
	raw := []byte(`
furniture:
  - key: sky_bed
    name: Sky Bed
    hotspot: ceiling
`)
	_, err := Parse(raw)
	s.Error(err)
}

func (s *CatalogSuite) TestParseRejectsDuplicateKey() {
	raw := []byte(`
furniture:
  - key: straw_bed
    name: Straw Bed
    hotspot: bed
  - key: straw_bed
    name: Straw Bed Again
    hotspot: bed
`)
	_, err := Parse(raw)
	s.Error(err)
}

func (s *CatalogSuite) TestSchemaRejectsFractionalLevel() {
	raw := []byte(`
furniture:
  - key: half_bed
    name: Half Bed
    hotspot: bed
    construction_level: 2.5
`)
	_, err := Parse(raw)
	s.Require().Error(err)
	var verr *jsonschema.ValidationError
	s.ErrorAs(err, &verr)
}

func (s *CatalogSuite) TestSchemaRejectsUnknownField() {
	raw := []byte(`
furniture:
  - key: loud_bed
    name: Loud Bed
    hotspot: bed
    colour: red
`)
	_, err := Parse(raw)
	s.Require().Error(err)
	var verr *jsonschema.ValidationError
	s.ErrorAs(err, &verr)
}

func (s *CatalogSuite) TestSchemaAcceptsIntegerLevel() {
	raw := []byte(`
furniture:
  - key: oak_bed
    name: Oak Bed
    hotspot: bed
    construction_level: 20
    cost: 150
    bonuses:
      energy_regen_bonus: { mode: percent, value: 15 }
`)
	c, err := Parse(raw)
	s.Require().NoError(err)
	d, err := c.Lookup("oak_bed")
	s.Require().NoError(err)
	s.Equal(20, d.ConstructionLevel)
}

func (s *CatalogSuite) TestParseDefaultsConstructionLevel() {
	raw := []byte(`
furniture:
  - key: plain_bench
    name: Plain Bench
    hotspot: bench
`)
	c, err := Parse(raw)
	s.Require().NoError(err)
	d, err := c.Lookup("plain_bench")
	s.Require().NoError(err)
	s.Equal(1, d.ConstructionLevel)
	_, ok := d.Bonus(BonusEnergyRegen)
	s.False(ok)
}

func (s *CatalogSuite) TestLoadFile() {
	path := filepath.Join(s.T().TempDir(), "furniture.yaml")
	err := os.WriteFile(path, []byte(`
furniture:
  - key: hay_bed
    name: Hay Bed
    hotspot: bed
    bonuses:
      energy_regen_bonus: { mode: percent, value: 3 }
`), 0o600)
	s.Require().NoError(err)

	c, err := LoadFile(path)
	s.Require().NoError(err)
	s.Equal(1, c.Len())
}

func (s *CatalogSuite) TestLoadFileMissing() {
	_, err := LoadFile(filepath.Join(s.T().TempDir(), "nope.yaml"))
	s.Error(err)
}
