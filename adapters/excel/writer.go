package excel

import (
	"fmt"
	"io"

	"beerdash/domain/brewery"

	"github.com/xuri/excelize/v2"
)

// StatsSheet is the sheet name used for exported brewery tables
const StatsSheet = "Breweries"

// WriteStats writes the brewery table as an xlsx workbook
func WriteStats(w io.Writer, entries []brewery.Entry) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", StatsSheet); err != nil {
		return fmt.Errorf("failed to name sheet: %w", err)
	}

	header := []interface{}{"brewery", brewery.MetricBeerCount.Label(), brewery.MetricAvgABV.Label(), "abv_color"}
	if err := f.SetSheetRow(StatsSheet, "A1", &header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	for i, e := range entries {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		row := []interface{}{e.Brewery, e.BeerCount, e.AvgABV, e.Tier.Label()}
		if err := f.SetSheetRow(StatsSheet, cell, &row); err != nil {
			return fmt.Errorf("failed to write row %d: %w", i+2, err)
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to encode workbook: %w", err)
	}
	return nil
}
