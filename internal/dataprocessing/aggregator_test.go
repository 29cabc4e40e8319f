package dataprocessing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"screener/pkg/contracts/domain"
)

func TestStrategyName(t *testing.T) {
	tests := []struct {
		name     string
		fileName string
		expected string
	}{
		{
			name:     "three underscore segments",
			fileName: "AAPL_x_MyStrategy.csv",
			expected: "MyStrategy",
		},
		{
			name:     "numeric middle token",
			fileName: "600519_3_MovingAverageStrategy.csv",
			expected: "MovingAverageStrategy",
		},
		{
			name:     "no underscores falls back to stem",
			fileName: "weird.csv",
			expected: "weird",
		},
		{
			name:     "two segments fall back to stem",
			fileName: "AAPL_extra.csv",
			expected: "AAPL_extra",
		},
		{
			name:     "four segments fall back to stem",
			fileName: "a_b_c_d.csv",
			expected: "a_b_c_d",
		},
		{
			name:     "path prefix is ignored",
			fileName: "selection/600519_1_BoxBreakoutStrategy.csv",
			expected: "BoxBreakoutStrategy",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, StrategyName(tt.fileName))
		})
	}
}

func TestFindColumnContaining(t *testing.T) {
	header := []string{"date", "Buy_Signal", "position_size", "hold_days"}
	row := []string{"2024-01-02", "buy", "500", "3"}

	tests := []struct {
		name     string
		token    string
		row      []string
		expected string
		found    bool
	}{
		{name: "signal substring", token: "signal", row: row, expected: "buy", found: true},
		{name: "position substring", token: "position", row: row, expected: "500", found: true},
		{name: "hold matches hold_days", token: "hold", row: row, expected: "3", found: true},
		{name: "no matching column", token: "missing", row: row, found: false},
		{name: "cell absent in short row", token: "hold", row: []string{"2024-01-02"}, found: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			value, found := FindColumnContaining(header, tt.row, tt.token)
			assert.Equal(t, tt.found, found)
			assert.Equal(t, tt.expected, value)
		})
	}
}

func strategyTable(fileName string, rows [][]string) domain.StrategyTable {
	return domain.StrategyTable{
		FileName: fileName,
		Strategy: StrategyName(fileName),
		Table:    domain.Table{Rows: rows},
	}
}

func TestAggregateJoinsFilesByDate(t *testing.T) {
	files := []domain.StrategyTable{
		strategyTable("X_a_Strat1.csv", [][]string{
			{"date", "open", "high", "signal", "position", "hold_days"},
			{"2024-01-02", "10.0", "11.0", "buy", "100", "2"},
		}),
		strategyTable("X_b_Strat2.csv", [][]string{
			{"date", "low", "signal", "position", "hold_days"},
			{"2024-01-02", "9.5", "sell", "200.4", "1"},
		}),
	}

	summary := Aggregate(files)

	require.Len(t, summary.Rows, 1, "both files share one date")
	assert.Equal(t, []string{"Strat1", "Strat2"}, summary.Strategies)

	row := summary.Rows[0]
	assert.Equal(t, "2024-01-02", row.Date)
	assert.Equal(t, "10.0", row.Open)
	assert.Equal(t, "11.0", row.High)
	assert.Equal(t, "9.5", row.Low)
	assert.Equal(t, "buy", row.Strategies["Strat1_signal"])
	assert.Equal(t, "100", row.Strategies["Strat1_position"])
	assert.Equal(t, "2", row.Strategies["Strat1_hold_days"])
	assert.Equal(t, "sell", row.Strategies["Strat2_signal"])
	assert.Equal(t, "200.4", row.Strategies["Strat2_position"])
	assert.Equal(t, "1", row.Strategies["Strat2_hold_days"])

	// 100.0 rounds to 100.0, 200.4 rounds to 200.4
	assert.InDelta(t, 300.4, row.PositionSummary, 1e-9)
}

func TestAggregateSortsDatesAscending(t *testing.T) {
	files := []domain.StrategyTable{
		strategyTable("X_a_Strat1.csv", [][]string{
			{"date", "position", "hold_days"},
			{"2024-01-03", "1", "1"},
			{"2024-01-01", "2", "1"},
			{"2024-01-02", "3", "1"},
		}),
	}

	summary := Aggregate(files)

	require.Len(t, summary.Rows, 3)
	assert.Equal(t, "2024-01-01", summary.Rows[0].Date)
	assert.Equal(t, "2024-01-02", summary.Rows[1].Date)
	assert.Equal(t, "2024-01-03", summary.Rows[2].Date)
}

func TestAggregateVolatilityControlScaling(t *testing.T) {
	tests := []struct {
		name     string
		fileName string
		position string
		expected float64
	}{
		{
			name:     "position divided by 2000",
			fileName: "X_6_VolatilityControlStrategy.csv",
			position: "4000",
			expected: 2.0,
		},
		{
			name:     "case-insensitive strategy match",
			fileName: "X_6_volatilitycontrolstrategy.csv",
			position: "4000",
			expected: 2.0,
		},
		{
			name:     "other strategies unscaled",
			fileName: "X_1_MovingAverageStrategy.csv",
			position: "4000",
			expected: 4000.0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			files := []domain.StrategyTable{
				strategyTable(tt.fileName, [][]string{
					{"date", "position"},
					{"2024-01-02", tt.position},
				}),
			}

			summary := Aggregate(files)
			require.Len(t, summary.Rows, 1)
			assert.InDelta(t, tt.expected, summary.Rows[0].PositionSummary, 1e-9)
		})
	}
}

func TestAggregateHoldDaysZeroOverride(t *testing.T) {
	tests := []struct {
		name     string
		hold     string
		position string
		expected float64
	}{
		{name: "zero hold forces zero", hold: "0", position: "500", expected: 0.0},
		{name: "positive hold keeps position", hold: "3", position: "500", expected: 500.0},
		{name: "non-numeric hold keeps position", hold: "n/a", position: "500", expected: 500.0},
		{name: "empty hold keeps position", hold: "", position: "500", expected: 500.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			files := []domain.StrategyTable{
				strategyTable("X_1_Strat.csv", [][]string{
					{"date", "position", "hold_days"},
					{"2024-01-02", tt.position, tt.hold},
				}),
			}

			summary := Aggregate(files)
			require.Len(t, summary.Rows, 1)
			assert.InDelta(t, tt.expected, summary.Rows[0].PositionSummary, 1e-9)
		})
	}
}

func TestAggregatePositionParsing(t *testing.T) {
	tests := []struct {
		name     string
		position string
		expected float64
	}{
		{name: "empty position is zero", position: "", expected: 0.0},
		{name: "unparseable position is zero", position: "abc", expected: 0.0},
		{name: "thousands separators stripped", position: "1,234.56", expected: 1234.6},
		{name: "percent sign stripped", position: "42.35%", expected: 42.4},
		{name: "negative position", position: "-10.04", expected: -10.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			files := []domain.StrategyTable{
				strategyTable("X_1_Strat.csv", [][]string{
					{"date", "position"},
					{"2024-01-02", tt.position},
				}),
			}

			summary := Aggregate(files)
			require.Len(t, summary.Rows, 1)
			assert.InDelta(t, tt.expected, summary.Rows[0].PositionSummary, 1e-9)
		})
	}
}

func TestAggregateEdgeCases(t *testing.T) {
	t.Run("header-only file contributes nothing", func(t *testing.T) {
		files := []domain.StrategyTable{
			strategyTable("X_1_Strat.csv", [][]string{
				{"date", "position"},
			}),
		}

		summary := Aggregate(files)
		assert.Empty(t, summary.Rows)
		assert.Empty(t, summary.Strategies)
	})

	t.Run("empty file contributes nothing", func(t *testing.T) {
		files := []domain.StrategyTable{
			strategyTable("X_1_Strat.csv", nil),
		}

		summary := Aggregate(files)
		assert.Empty(t, summary.Rows)
	})

	t.Run("date falls back to first cell without date column", func(t *testing.T) {
		files := []domain.StrategyTable{
			strategyTable("X_1_Strat.csv", [][]string{
				{"day", "position"},
				{"2024-01-05", "7"},
			}),
		}

		summary := Aggregate(files)
		require.Len(t, summary.Rows, 1)
		assert.Equal(t, "2024-01-05", summary.Rows[0].Date)
	})

	t.Run("rows without usable date are skipped", func(t *testing.T) {
		files := []domain.StrategyTable{
			strategyTable("X_1_Strat.csv", [][]string{
				{"date", "position"},
				{"", "100"},
				{"2024-01-02", "50"},
			}),
		}

		summary := Aggregate(files)
		require.Len(t, summary.Rows, 1)
		assert.Equal(t, "2024-01-02", summary.Rows[0].Date)
	})

	t.Run("market field last writer wins", func(t *testing.T) {
		files := []domain.StrategyTable{
			strategyTable("X_a_Strat1.csv", [][]string{
				{"date", "open"},
				{"2024-01-02", "10.0"},
			}),
			strategyTable("X_b_Strat2.csv", [][]string{
				{"date", "open"},
				{"2024-01-02", "10.5"},
			}),
		}

		summary := Aggregate(files)
		require.Len(t, summary.Rows, 1)
		assert.Equal(t, "10.5", summary.Rows[0].Open)
	})

	t.Run("short rows leave market fields blank", func(t *testing.T) {
		files := []domain.StrategyTable{
			strategyTable("X_1_Strat.csv", [][]string{
				{"date", "open", "high", "position"},
				{"2024-01-02", "10.0"},
			}),
		}

		summary := Aggregate(files)
		require.Len(t, summary.Rows, 1)
		assert.Equal(t, "10.0", summary.Rows[0].Open)
		assert.Empty(t, summary.Rows[0].High)
	})

	t.Run("duplicate strategy listed once", func(t *testing.T) {
		files := []domain.StrategyTable{
			strategyTable("X_a_Strat.csv", [][]string{
				{"date", "position"},
				{"2024-01-02", "1"},
			}),
			strategyTable("X_b_Strat.csv", [][]string{
				{"date", "position"},
				{"2024-01-03", "2"},
			}),
		}

		summary := Aggregate(files)
		assert.Equal(t, []string{"Strat"}, summary.Strategies)
	})
}

func TestAggregateContributionRounding(t *testing.T) {
	// Each file's contribution is rounded to one decimal before it is
	// added to the running summary.
	files := []domain.StrategyTable{
		strategyTable("X_a_Strat1.csv", [][]string{
			{"date", "position"},
			{"2024-01-02", "0.26"},
		}),
		strategyTable("X_b_Strat2.csv", [][]string{
			{"date", "position"},
			{"2024-01-02", "0.24"},
		}),
	}

	summary := Aggregate(files)
	require.Len(t, summary.Rows, 1)
	// 0.26 -> 0.3, 0.24 -> 0.2
	assert.InDelta(t, 0.5, summary.Rows[0].PositionSummary, 1e-9)
}
