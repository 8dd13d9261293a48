package helpers

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"

	"github.com/spektr-org/scholar/engine"
)

// ============================================================================
// CSV HELPER -- roster decoding and Sheets-ready result export
// ============================================================================
// Consumer reads the CSV from wherever it lives; this helper converts the raw
// bytes into Students, and rendered tables back into CSV.
// ============================================================================

// ParseRosterCSV parses a roster with a header row (see RosterColumns).
// Only the id column is required; unknown columns are ignored.
// Errors carry the 1-based line number of the offending row.
func ParseRosterCSV(data []byte) ([]engine.Student, error) {
	reader := csv.NewReader(bytes.NewReader(data))
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("failed to read CSV headers: empty input")
		}
		return nil, fmt.Errorf("failed to read CSV headers: %w", err)
	}

	dec, err := newRosterDecoder(header)
	if err != nil {
		return nil, err
	}

	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read CSV row: %w", err)
		}
		line, _ := reader.FieldPos(0)
		if err := dec.add(line, row); err != nil {
			return nil, err
		}
	}
	return dec.students, nil
}

// EncodeRosterCSV writes students in the format ParseRosterCSV reads.
func EncodeRosterCSV(w io.Writer, students []engine.Student) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(RosterColumns); err != nil {
		return err
	}
	if err := cw.WriteAll(rosterRows(students)); err != nil {
		return err
	}
	return cw.Error()
}

// WriteTableCSV writes the table's column labels then its rows.
func WriteTableCSV(w io.Writer, table *engine.TableData) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(table.Headers()); err != nil {
		return err
	}
	for _, row := range table.Rows {
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteResultCSV writes the tabular form of an Execute result.
func WriteResultCSV(w io.Writer, result *engine.Result) error {
	return WriteTableCSV(w, ResultTable(result))
}
