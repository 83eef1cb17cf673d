package report

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/djasnowski/myrefell-sub008/internal/model"
)

// Sheet names used in the leaderboard workbook
const (
	SheetHouses = "Houses"
	SheetWealth = "Wealth"
)

// ContentType is the MIME type of the exported workbook
const ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

var (
	housesHeader = []string{"Rank", "Player", "House", "Tier", "Kingdom", "Score"}
	wealthHeader = []string{"Rank", "Player", "Gold"}
)

// Leaderboard is the data exported to a workbook
type Leaderboard struct {
	World  model.WorldState
	Houses []model.HouseEntry
	Wealth []model.WealthEntry
}

// ExportXLSX renders both leaderboards into an xlsx workbook
func ExportXLSX(lb Leaderboard) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#E6F3FF"}, Pattern: 1},
		Alignment: &excelize.Alignment{
			Horizontal: "center",
			Vertical:   "center",
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create header style: %w", err)
	}

	houseRows := make([][]any, len(lb.Houses))
	for i, e := range lb.Houses {
		houseRows[i] = []any{e.Rank, e.Username, e.HouseName, e.Tier, int64(e.KingdomID), e.Score}
	}
	wealthRows := make([][]any, len(lb.Wealth))
	for i, e := range lb.Wealth {
		wealthRows[i] = []any{e.Rank, e.Username, e.Score}
	}

	if err := writeSheet(f, SheetHouses, housesHeader, houseRows, headerStyle); err != nil {
		return nil, err
	}
	if err := writeSheet(f, SheetWealth, wealthHeader, wealthRows, headerStyle); err != nil {
		return nil, err
	}
	f.DeleteSheet("Sheet1")

	index, err := f.GetSheetIndex(SheetHouses)
	if err != nil {
		return nil, err
	}
	f.SetActiveSheet(index)

	if err := f.SetDocProps(&excelize.DocProperties{
		Title:   "Myrefell leaderboard",
		Subject: lb.World.String(),
		Creator: "myrefell",
	}); err != nil {
		return nil, fmt.Errorf("failed to set properties: %w", err)
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}
	return bytes.Clone(buf.Bytes()), nil
}

func writeSheet(f *excelize.File, name string, header []string, rows [][]any, headerStyle int) error {
	if _, err := f.NewSheet(name); err != nil {
		return fmt.Errorf("failed to create sheet %s: %w", name, err)
	}

	for col, h := range header {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(name, cell, h); err != nil {
			return fmt.Errorf("failed to set header cell %s: %w", cell, err)
		}
	}
	last, err := excelize.CoordinatesToCellName(len(header), 1)
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(name, "A1", last, headerStyle); err != nil {
		return fmt.Errorf("failed to set header style: %w", err)
	}

	for r, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, r+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(name, cell, &row); err != nil {
			return fmt.Errorf("failed to write row %d: %w", r+2, err)
		}
	}

	lastCol, _ := excelize.ColumnNumberToName(len(header))
	return f.SetColWidth(name, "A", lastCol, 16)
}
