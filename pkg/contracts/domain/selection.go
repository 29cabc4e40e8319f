package domain

import "time"

// ScriptRun captures one invocation of an external screening script.
// A non-zero exit code is informational, not an application error.
type ScriptRun struct {
	Command  string        `json:"command"`
	Args     []string      `json:"args,omitempty"`
	Output   []string      `json:"output,omitempty"`
	ExitCode int           `json:"exit_code"`
	TimedOut bool          `json:"timed_out,omitempty"`
	Duration time.Duration `json:"duration_ns,omitempty"`
}

// StrategyTable is one per-strategy CSV file as discovered on disk.
type StrategyTable struct {
	FileName string    `json:"file_name"`
	Strategy string    `json:"strategy"`
	ModTime  time.Time `json:"mod_time"`
	Table    Table     `json:"table"`
}

// SummaryRow is the cross-strategy view of a single trading day.
// Market fields hold whatever the source files supplied, verbatim;
// Strategies is keyed by "<strategy>_signal", "<strategy>_position"
// and "<strategy>_hold_days".
type SummaryRow struct {
	Date            string            `json:"date"`
	Open            string            `json:"open,omitempty"`
	High            string            `json:"high,omitempty"`
	Low             string            `json:"low,omitempty"`
	Volume          string            `json:"volume,omitempty"`
	Amount          string            `json:"amount,omitempty"`
	Strategies      map[string]string `json:"strategies,omitempty"`
	PositionSummary float64           `json:"position_summary"`
}

// Summary is the per-date aggregate across every discovered strategy file.
// Rows are ordered by ascending date string; Strategies preserves
// first-seen order for stable column layout.
type Summary struct {
	Strategies []string     `json:"strategies"`
	Rows       []SummaryRow `json:"rows"`
}

// SelectionResult is the full single-stock flow response.
type SelectionResult struct {
	ID      string          `json:"id"`
	Script  *ScriptRun      `json:"script,omitempty"`
	Files   []StrategyTable `json:"files"`
	Summary Summary         `json:"summary"`
}

// BatchCategoryResult is one fixed screening-stage file from the batch flow.
type BatchCategoryResult struct {
	ID       string    `json:"id"`
	Title    string    `json:"title"`
	FileName string    `json:"file_name"`
	ModTime  time.Time `json:"mod_time"`
	Table    Table     `json:"table"`
}

// BatchResult is the batch flow response: five independently rendered
// screening stages, no cross-file join.
type BatchResult struct {
	Script     *ScriptRun            `json:"script,omitempty"`
	Categories []BatchCategoryResult `json:"categories"`
}
