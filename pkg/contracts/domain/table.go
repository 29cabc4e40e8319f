package domain

import "strings"

// Table is an in-memory CSV table. Row 0, when present, is the header row.
// Rows are kept exactly as parsed; short rows are legal and simply have
// fewer cells than the header.
type Table struct {
	Rows [][]string `json:"rows"`
}

// Empty reports whether the table has no rows at all.
func (t Table) Empty() bool {
	return len(t.Rows) == 0
}

// Header returns the header row, or nil for an empty table.
func (t Table) Header() []string {
	if t.Empty() {
		return nil
	}
	return t.Rows[0]
}

// DataRows returns every row after the header.
func (t Table) DataRows() [][]string {
	if len(t.Rows) < 2 {
		return nil
	}
	return t.Rows[1:]
}

// ColumnIndex builds a case-insensitive, trimmed column-name to index map
// from the header row. The first occurrence of a duplicated name wins.
func (t Table) ColumnIndex() map[string]int {
	index := make(map[string]int)
	for i, name := range t.Header() {
		key := strings.ToLower(strings.TrimSpace(name))
		if key == "" {
			continue
		}
		if _, exists := index[key]; !exists {
			index[key] = i
		}
	}
	return index
}
