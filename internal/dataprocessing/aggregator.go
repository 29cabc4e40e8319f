package dataprocessing

import (
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"screener/pkg/contracts/domain"
)

// volatilityControlStrategy positions are reported in a different unit than
// the other strategies and are normalized by this divisor before they enter
// the position summary.
const (
	volatilityControlStrategy = "VolatilityControlStrategy"
	volatilityControlDivisor  = 2000
)

// marketColumns are the fixed market fields copied verbatim from whichever
// file supplies them. Last writer wins across files.
var marketColumns = []string{"open", "high", "low", "volume", "amount"}

// positionCleaner strips thousands separators and percent signs before the
// position value is parsed.
var positionCleaner = strings.NewReplacer(",", "", "%", "")

// StrategyName derives the strategy name from a CSV file name. The selection
// script writes <id>_<n>_<strategy>.csv; a name with exactly three underscore
// segments yields the third one, anything else falls back to the whole stem.
func StrategyName(fileName string) string {
	stem := strings.TrimSuffix(filepath.Base(fileName), filepath.Ext(fileName))
	parts := strings.Split(stem, "_")
	if len(parts) == 3 {
		return parts[2]
	}
	return stem
}

// FindColumnContaining scans header columns in index order and returns the
// cell of the first column whose normalized name contains token and whose
// cell exists in the row. The matching is deliberately fuzzy: the strategy
// files name their columns inconsistently ("signal", "buy_signal",
// "hold_days", ...) and substring matching is the honest contract.
func FindColumnContaining(header []string, row []string, token string) (string, bool) {
	for i, name := range header {
		if !strings.Contains(strings.ToLower(strings.TrimSpace(name)), token) {
			continue
		}
		if i < len(row) {
			return row[i], true
		}
	}
	return "", false
}

// Aggregate merges per-strategy tables into one row per date. Market fields
// are copied verbatim, per-strategy signal/position/hold-days values are
// recorded under strategy-qualified keys, and each strategy contributes a
// normalized, rounded position value to the date's position summary.
func Aggregate(files []domain.StrategyTable) domain.Summary {
	rows := make(map[string]*domain.SummaryRow)
	var dateOrder []string

	var strategies []string
	seen := make(map[string]bool)

	for _, file := range files {
		table := file.Table
		if len(table.Rows) < 2 {
			// Header-only or empty file: contributes nothing, not an error.
			continue
		}

		if !seen[file.Strategy] {
			seen[file.Strategy] = true
			strategies = append(strategies, file.Strategy)
		}

		header := table.Header()
		columns := table.ColumnIndex()
		dateIdx, hasDateColumn := columns["date"]

		for _, record := range table.DataRows() {
			date := rowDate(record, dateIdx, hasDateColumn)
			if date == "" {
				continue
			}

			row, ok := rows[date]
			if !ok {
				row = &domain.SummaryRow{
					Date:       date,
					Strategies: make(map[string]string),
				}
				rows[date] = row
				dateOrder = append(dateOrder, date)
			}

			for _, field := range marketColumns {
				idx, exists := columns[field]
				if !exists || idx >= len(record) {
					continue
				}
				setMarketField(row, field, record[idx])
			}

			signal, _ := FindColumnContaining(header, record, "signal")
			position, _ := FindColumnContaining(header, record, "position")
			hold, holdPresent := FindColumnContaining(header, record, "hold")

			row.Strategies[file.Strategy+"_signal"] = signal
			row.Strategies[file.Strategy+"_position"] = position
			row.Strategies[file.Strategy+"_hold_days"] = hold

			row.PositionSummary += contribution(file.Strategy, position, hold, holdPresent)
		}
	}

	sort.Strings(dateOrder)

	summary := domain.Summary{Strategies: strategies}
	for _, date := range dateOrder {
		summary.Rows = append(summary.Rows, *rows[date])
	}
	return summary
}

// rowDate prefers the column literally named "date", falling back to the
// row's first cell. Dates are kept as literal strings; callers rely on the
// upstream ISO format being lexically sortable.
func rowDate(record []string, dateIdx int, hasDateColumn bool) string {
	if hasDateColumn && dateIdx < len(record) {
		return strings.TrimSpace(record[dateIdx])
	}
	if len(record) > 0 {
		return strings.TrimSpace(record[0])
	}
	return ""
}

func setMarketField(row *domain.SummaryRow, field, value string) {
	switch field {
	case "open":
		row.Open = value
	case "high":
		row.High = value
	case "low":
		row.Low = value
	case "volume":
		row.Volume = value
	case "amount":
		row.Amount = value
	}
}

// contribution computes one strategy's normalized share of a date's position
// summary: the position value with separators stripped, scaled for the
// volatility-control strategy, forced to zero when hold days reads exactly
// zero, and rounded to one decimal place.
func contribution(strategy, position, hold string, holdPresent bool) float64 {
	cleaned := positionCleaner.Replace(strings.TrimSpace(position))
	value, err := decimal.NewFromString(cleaned)
	if err != nil {
		value = decimal.Zero
	}

	if strings.EqualFold(strategy, volatilityControlStrategy) {
		value = value.Div(decimal.NewFromInt(volatilityControlDivisor))
	}

	// A hold-days reading of exactly zero flags "no active hold" and
	// overrides any nonzero position value.
	if holdPresent {
		if holdDays, atoiErr := strconv.Atoi(strings.TrimSpace(hold)); atoiErr == nil && holdDays == 0 {
			value = decimal.Zero
		}
	}

	result, _ := value.Round(1).Float64()
	return result
}
