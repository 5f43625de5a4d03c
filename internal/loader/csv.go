// Package loader reads mobile-push CSV exports from disk and routes each one
// through the normalizer.
package loader

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"pushmetrics/internal/table"
)

// ErrEmptyFile is returned for input without a header row.
var ErrEmptyFile = errors.New("empty file: no header row")

const utf8BOM = "\ufeff"

// ReadCSV reads a header row and all records into a raw table of text cells.
// Ragged rows are padded with missing cells. A UTF-8 byte order mark on the
// first header cell is dropped; header names are otherwise kept verbatim.
func ReadCSV(r io.Reader) (*table.Table, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, ErrEmptyFile
	}

	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], utf8BOM)
	}

	var rows [][]string

	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}

		if err != nil {
			return nil, fmt.Errorf("read row %d: %w", len(rows)+1, err)
		}

		rows = append(rows, rec)
	}

	return table.FromStrings(header, rows), nil
}
