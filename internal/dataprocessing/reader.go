package dataprocessing

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"

	"screener/pkg/contracts/domain"
)

// utf8BOM is the byte order mark the screening scripts prepend when writing
// with utf-8-sig encoding.
var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// ReadFile reads a CSV file into a Table. A missing file is not an error;
// it simply yields an empty table. The file handle is released on every
// exit path.
func ReadFile(path string) (domain.Table, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return domain.Table{}, nil
		}
		return domain.Table{}, fmt.Errorf("failed to open csv file %s: %w", path, err)
	}
	defer f.Close()

	return Read(f)
}

// Read parses CSV records from r honoring standard quoting rules: quoted
// fields may contain delimiters and embedded newlines, and a doubled quote
// inside a quoted field is a literal quote. Rows may have varying cell
// counts; a malformed row is skipped rather than failing the whole table.
func Read(r io.Reader) (domain.Table, error) {
	br := bufio.NewReader(r)
	stripBOM(br)

	reader := csv.NewReader(br)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	var rows [][]string
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			var parseErr *csv.ParseError
			if errors.As(err, &parseErr) {
				// Best-effort: keep whatever fields were recovered.
				if len(record) > 0 {
					rows = append(rows, record)
				}
				continue
			}
			return domain.Table{Rows: rows}, fmt.Errorf("failed to read csv record: %w", err)
		}
		rows = append(rows, record)
	}

	return domain.Table{Rows: rows}, nil
}

// stripBOM consumes a leading UTF-8 byte order mark if present.
func stripBOM(br *bufio.Reader) {
	peeked, err := br.Peek(len(utf8BOM))
	if err != nil {
		return
	}
	if peeked[0] == utf8BOM[0] && peeked[1] == utf8BOM[1] && peeked[2] == utf8BOM[2] {
		br.Discard(len(utf8BOM))
	}
}
