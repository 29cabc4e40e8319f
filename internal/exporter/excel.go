package exporter

import (
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"

	"screener/pkg/contracts/domain"
)

const summarySheet = "Summary"

// maxSheetName is the spreadsheet format's sheet name limit.
const maxSheetName = 31

// WriteSelectionWorkbook streams a selection result as an xlsx workbook:
// one raw sheet per strategy file plus the combined daily summary sheet.
func WriteSelectionWorkbook(w io.Writer, result *domain.SelectionResult) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := writeSummarySheet(f, result.Summary); err != nil {
		return err
	}

	for _, file := range result.Files {
		if err := writeTableSheet(f, sheetName(file.Strategy), file.Table); err != nil {
			return err
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

func writeSummarySheet(f *excelize.File, summary domain.Summary) error {
	// NewFile starts with a default sheet; rename it to the summary sheet.
	defaultSheet := f.GetSheetName(0)
	if err := f.SetSheetName(defaultSheet, summarySheet); err != nil {
		return fmt.Errorf("failed to name summary sheet: %w", err)
	}

	header := []interface{}{"date", "open", "high", "low", "volume", "amount"}
	for _, strategy := range summary.Strategies {
		header = append(header,
			strategy+"_signal",
			strategy+"_position",
			strategy+"_hold_days",
		)
	}
	header = append(header, "position_summary")

	if err := setRow(f, summarySheet, 1, header); err != nil {
		return err
	}

	for i, row := range summary.Rows {
		cells := []interface{}{row.Date, row.Open, row.High, row.Low, row.Volume, row.Amount}
		for _, strategy := range summary.Strategies {
			cells = append(cells,
				row.Strategies[strategy+"_signal"],
				row.Strategies[strategy+"_position"],
				row.Strategies[strategy+"_hold_days"],
			)
		}
		cells = append(cells, row.PositionSummary)

		if err := setRow(f, summarySheet, i+2, cells); err != nil {
			return err
		}
	}

	return nil
}

func writeTableSheet(f *excelize.File, name string, table domain.Table) error {
	if _, err := f.NewSheet(name); err != nil {
		return fmt.Errorf("failed to create sheet %s: %w", name, err)
	}

	for i, row := range table.Rows {
		cells := make([]interface{}, len(row))
		for j, cell := range row {
			cells[j] = cell
		}
		if err := setRow(f, name, i+1, cells); err != nil {
			return err
		}
	}

	return nil
}

func setRow(f *excelize.File, sheet string, row int, cells []interface{}) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	if err := f.SetSheetRow(sheet, cell, &cells); err != nil {
		return fmt.Errorf("failed to write row %d of sheet %s: %w", row, sheet, err)
	}
	return nil
}

// sheetName trims a strategy name to a legal, non-empty sheet name.
func sheetName(strategy string) string {
	name := strings.TrimSpace(strategy)
	if name == "" || strings.EqualFold(name, summarySheet) {
		name = name + "_raw"
	}
	if len(name) > maxSheetName {
		name = name[:maxSheetName]
	}
	return name
}
