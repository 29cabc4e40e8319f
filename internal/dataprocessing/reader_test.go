package dataprocessing

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadFileMissingFile(t *testing.T) {
	table, err := ReadFile(filepath.Join(t.TempDir(), "does_not_exist.csv"))

	require.NoError(t, err, "a missing file is not an error")
	assert.True(t, table.Empty())
}

func TestReadFileRoundTrip(t *testing.T) {
	rows := [][]string{
		{"date", "note", "position"},
		{"2024-01-02", "contains, a comma", "100"},
		{"2024-01-03", "embedded\nnewline", "200"},
		{"2024-01-04", `doubled ""quote""`, "300"},
	}

	path := filepath.Join(t.TempDir(), "roundtrip.csv")
	f, err := os.Create(path)
	require.NoError(t, err)

	writer := csv.NewWriter(f)
	require.NoError(t, writer.WriteAll(rows))
	writer.Flush()
	require.NoError(t, writer.Error())
	require.NoError(t, f.Close())

	table, err := ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, rows, table.Rows, "quoted fields must survive the round trip")
}

func TestReadToleratesShortRows(t *testing.T) {
	input := "date,open,position\n2024-01-02,10.0\n2024-01-03,11.0,500\n"

	table, err := Read(strings.NewReader(input))
	require.NoError(t, err)

	require.Len(t, table.Rows, 3)
	assert.Len(t, table.Rows[1], 2)
	assert.Len(t, table.Rows[2], 3)
}

func TestReadStripsUTF8BOM(t *testing.T) {
	input := "\xEF\xBB\xBFdate,position\n2024-01-02,100\n"

	table, err := Read(strings.NewReader(input))
	require.NoError(t, err)

	require.Len(t, table.Rows, 2)
	assert.Equal(t, "date", table.Rows[0][0], "BOM must not leak into the first column name")
}

func TestReadEmptyInput(t *testing.T) {
	table, err := Read(strings.NewReader(""))

	require.NoError(t, err)
	assert.True(t, table.Empty())
}

func TestTableColumnIndex(t *testing.T) {
	table, err := Read(strings.NewReader("Date, Open ,OPEN,position\n2024-01-02,10,11,5\n"))
	require.NoError(t, err)

	index := table.ColumnIndex()
	assert.Equal(t, 0, index["date"], "names are lowercased")
	assert.Equal(t, 1, index["open"], "names are trimmed and the first duplicate wins")
	assert.Equal(t, 3, index["position"])
}
