package exporter

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"screener/pkg/contracts/domain"
)

func testResult() *domain.SelectionResult {
	return &domain.SelectionResult{
		ID: "600519",
		Files: []domain.StrategyTable{
			{
				FileName: "600519_1_StratA.csv",
				Strategy: "StratA",
				Table: domain.Table{Rows: [][]string{
					{"date", "signal", "position", "hold_days"},
					{"2024-01-02", "buy", "100", "2"},
				}},
			},
		},
		Summary: domain.Summary{
			Strategies: []string{"StratA"},
			Rows: []domain.SummaryRow{
				{
					Date: "2024-01-02",
					Open: "10.5",
					Strategies: map[string]string{
						"StratA_signal":    "buy",
						"StratA_position":  "100",
						"StratA_hold_days": "2",
					},
					PositionSummary: 100.0,
				},
			},
		},
	}
}

func TestWriteSelectionWorkbook(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteSelectionWorkbook(&buf, testResult()))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{"Summary", "StratA"}, f.GetSheetList())

	header, err := f.GetRows("Summary")
	require.NoError(t, err)
	require.Len(t, header, 2)
	assert.Equal(t,
		[]string{"date", "open", "high", "low", "volume", "amount",
			"StratA_signal", "StratA_position", "StratA_hold_days",
			"position_summary"},
		header[0])

	date, err := f.GetCellValue("Summary", "A2")
	require.NoError(t, err)
	assert.Equal(t, "2024-01-02", date)

	total, err := f.GetCellValue("Summary", "J2")
	require.NoError(t, err)
	assert.Equal(t, "100", total)

	raw, err := f.GetRows("StratA")
	require.NoError(t, err)
	require.Len(t, raw, 2)
	assert.Equal(t, []string{"date", "signal", "position", "hold_days"}, raw[0])
	assert.Equal(t, []string{"2024-01-02", "buy", "100", "2"}, raw[1])
}

func TestWriteSelectionWorkbookEmptyResult(t *testing.T) {
	var buf bytes.Buffer
	result := &domain.SelectionResult{ID: "600519"}

	require.NoError(t, WriteSelectionWorkbook(&buf, result))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{"Summary"}, f.GetSheetList())
}

func TestSheetName(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "plain name passes through", input: "StratA", expected: "StratA"},
		{name: "whitespace trimmed", input: "  StratA  ", expected: "StratA"},
		{name: "empty name gets a placeholder", input: "", expected: "_raw"},
		{name: "summary collision avoided", input: "Summary", expected: "Summary_raw"},
		{name: "long name truncated", input: "AVeryLongStrategyNameThatExceedsTheLimit", expected: "AVeryLongStrategyNameThatExceed"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := sheetName(tt.input)
			assert.Equal(t, tt.expected, got)
			assert.LessOrEqual(t, len(got), maxSheetName)
		})
	}
}
