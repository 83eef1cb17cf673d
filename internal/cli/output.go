package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/olekukonko/tablewriter"
)

// Output handles formatting output based on the configured format
type Output struct {
	format string
	w      io.Writer
}

// NewOutput creates a new Output formatter
func NewOutput(format string, w io.Writer) *Output {
	return &Output{format: format, w: w}
}

// Print outputs data in the configured format
func (o *Output) Print(data any) {
	if o.format == "json" {
		o.printJSON(data)
	} else {
		o.printText(data)
	}
}

// PrintMessage outputs a simple message
func (o *Output) PrintMessage(msg string) {
	if o.format == "json" {
		o.printJSON(map[string]string{"message": msg})
	} else {
		fmt.Fprintln(o.w, msg)
	}
}

func (o *Output) printJSON(data any) {
	enc := json.NewEncoder(o.w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(data)
}

func (o *Output) printText(data any) {
	switch v := data.(type) {
	case Player:
		o.printPlayer(v)
	case AuthResult:
		o.printAuthResult(v)
	case Energy:
		o.printEnergy(v)
	case RegenResult:
		fmt.Fprintf(o.w, "Recovered %d energy (%d/%d)\n", v.Gained, v.Energy, v.MaxEnergy)
	case House:
		o.printHouse(v)
	case Houses:
		o.printHouses(v)
	case Catalog:
		o.printCatalog(v)
	case Market:
		o.printMarket(v)
	case Leaderboard:
		o.printLeaderboard(v)
	case World:
		fmt.Fprintln(o.w, worldText(v))
	case Kingdoms:
		o.table([]string{"ID", "Kingdom"}, func(t *tablewriter.Table) {
			for _, k := range v {
				_ = t.Append([]string{strconv.FormatInt(k.ID, 10), k.Name})
			}
		})
	case HealthResult:
		fmt.Fprintf(o.w, "Server status: %s\n", v.Status)
	default:
		// Fallback to JSON for unknown types
		o.printJSON(data)
	}
}

// table renders rows under header
func (o *Output) table(header []string, rows func(t *tablewriter.Table)) {
	t := tablewriter.NewTable(o.w, tablewriter.WithHeader(header))
	rows(t)
	_ = t.Render()
}

func (o *Output) printPlayer(p Player) {
	kind := "registered"
	if p.IsGuest {
		kind = "guest"
	}
	fmt.Fprintf(o.w, "%s (%s, %s)\n", p.DisplayName, p.Username, kind)
	fmt.Fprintf(o.w, "  ID:       %s\n", p.ID)
	fmt.Fprintf(o.w, "  Gold:     %d\n", p.Gold)
	fmt.Fprintf(o.w, "  Energy:   %d/%d\n", p.Energy, p.MaxEnergy)
	fmt.Fprintf(o.w, "  Location: %s:%d (home %s:%d)\n",
		p.CurrentLocation.Type, p.CurrentLocation.ID, p.HomeLocation.Type, p.HomeLocation.ID)
}

func (o *Output) printAuthResult(a AuthResult) {
	fmt.Fprintf(o.w, "Signed in as %s\n", a.Username)
	fmt.Fprintf(o.w, "  Player ID: %s\n", a.PlayerID)
	fmt.Fprintf(o.w, "  Expires:   %s\n", a.ExpiresAt.Format("2006-01-02 15:04 MST"))
}

func (o *Output) printEnergy(e Energy) {
	fmt.Fprintf(o.w, "Energy: %d/%d\n", e.Energy, e.MaxEnergy)
	fmt.Fprintf(o.w, "Next regen: +%d\n", e.Regen.TotalGained)
	o.table([]string{"Source", "Amount"}, func(t *tablewriter.Table) {
		_ = t.Append([]string{"Base", "+" + strconv.Itoa(e.Regen.Base)})
		for _, b := range e.Regen.Bonuses {
			_ = t.Append([]string{b.Source, b.Amount})
		}
	})
}

func (o *Output) printHouse(h House) {
	fmt.Fprintf(o.w, "%s [%s] %s, %s\n", h.Name, h.ID, h.Tier, houseGrid(h))
	fmt.Fprintf(o.w, "  Kingdom: %d  Condition: %d%%\n", h.KingdomID, h.Condition)
	o.table([]string{"Room", "Type", "Cell", "Furniture"}, func(t *tablewriter.Table) {
		for _, r := range h.Rooms {
			items := make([]string, 0, len(r.Furniture))
			for _, f := range r.Furniture {
				items = append(items, f.Hotspot+"="+f.Key)
			}
			_ = t.Append([]string{r.ID, r.Type, fmt.Sprintf("%d,%d", r.X, r.Y), strings.Join(items, " ")})
		}
	})
}

func (o *Output) printHouses(hs Houses) {
	if len(hs) == 0 {
		fmt.Fprintln(o.w, "No houses yet")
		return
	}
	o.table([]string{"ID", "Name", "Tier", "Grid", "Rooms", "Kingdom"}, func(t *tablewriter.Table) {
		for _, h := range hs {
			_ = t.Append([]string{h.ID, h.Name, h.Tier, houseGrid(h), strconv.Itoa(len(h.Rooms)), strconv.FormatInt(h.KingdomID, 10)})
		}
	})
}

func (o *Output) printCatalog(c Catalog) {
	o.table([]string{"Key", "Name", "Hotspot", "Level", "Cost", "Bonuses"}, func(t *tablewriter.Table) {
		for _, item := range c {
			kinds := make([]string, 0, len(item.Bonuses))
			for k := range item.Bonuses {
				kinds = append(kinds, k)
			}
			sort.Strings(kinds)
			bonuses := make([]string, len(kinds))
			for i, k := range kinds {
				bonuses[i] = k + " " + item.Bonuses[k]
			}
			_ = t.Append([]string{
				item.Key, item.Name, item.Hotspot,
				strconv.Itoa(item.ConstructionLevel),
				strconv.FormatInt(item.Cost, 10),
				strings.Join(bonuses, ", "),
			})
		}
	})
}

func (o *Output) printMarket(m Market) {
	fmt.Fprintf(o.w, "%s market, %s\n", m.Kingdom.Name, worldText(m.World))
	switch m.Variant {
	case "not_here":
		fmt.Fprintf(o.w, "You are in %s. Travel to %s to trade here.\n", m.Access.CurrentName, m.Access.TargetName)
	case "closed":
		fmt.Fprintf(o.w, "The market is closed for %s.\n", m.World.Season)
	default:
		fmt.Fprintf(o.w, "Gold: %d\n", m.Gold)
		o.table([]string{"Item", "Price"}, func(t *tablewriter.Table) {
			for _, l := range m.Listings {
				_ = t.Append([]string{l.Name, strconv.FormatInt(l.Price, 10)})
			}
		})
	}
}

func (o *Output) printLeaderboard(l Leaderboard) {
	fmt.Fprintf(o.w, "Leaderboard: %s (%s)\n", l.Tab, worldText(l.World))
	if len(l.Entries) == 0 {
		fmt.Fprintln(o.w, "No entries")
		return
	}
	if l.Tab == "wealth" {
		o.table([]string{"Rank", "Player", "Gold"}, func(t *tablewriter.Table) {
			for _, e := range l.Entries {
				_ = t.Append([]string{strconv.Itoa(e.Rank), e.Username, strconv.FormatInt(e.Score, 10)})
			}
		})
		return
	}
	o.table([]string{"Rank", "Player", "House", "Tier", "Kingdom", "Score"}, func(t *tablewriter.Table) {
		for _, e := range l.Entries {
			_ = t.Append([]string{
				strconv.Itoa(e.Rank), e.Username, e.HouseName, e.Tier,
				strconv.FormatInt(e.KingdomID, 10), strconv.FormatInt(e.Score, 10),
			})
		}
	})
}

func houseGrid(h House) string {
	return fmt.Sprintf("%dx%d", h.GridCols, h.GridRows)
}

func worldText(w World) string {
	season := w.Season
	if season != "" {
		season = strings.ToUpper(season[:1]) + season[1:]
	}
	return fmt.Sprintf("Year %d, %s, Week %d", w.Year, season, w.Week)
}
