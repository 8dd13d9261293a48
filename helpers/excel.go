package helpers

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/spektr-org/scholar/engine"
)

// ============================================================================
// EXCEL HELPER -- XLSX rosters in, XLSX reports out
// ============================================================================

// ErrNoTables is returned by WriteXLSX when called without tables.
var ErrNoTables = errors.New("no tables to write")

// maxSheetName is Excel's sheet name length limit.
const maxSheetName = 31

// ParseRosterXLSX reads a roster from the first worksheet of a workbook.
// Same columns and merge rules as ParseRosterCSV; line numbers are sheet rows.
func ParseRosterXLSX(r io.Reader) ([]engine.Student, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to open excel file: %w", err)
	}
	defer f.Close()

	sheet := f.GetSheetName(0)
	if sheet == "" {
		return nil, errors.New("excel file does not contain any sheets")
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to get rows from sheet %s: %w", sheet, err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("failed to read headers: sheet %s is empty", sheet)
	}

	dec, err := newRosterDecoder(rows[0])
	if err != nil {
		return nil, err
	}
	for i, row := range rows[1:] {
		if err := dec.add(i+2, row); err != nil {
			return nil, err
		}
	}
	return dec.students, nil
}

// WriteXLSX writes one worksheet per table: header row, data rows, then the
// summary label if any. Number columns are stored as numbers when they parse.
func WriteXLSX(w io.Writer, tables ...*engine.TableData) error {
	if len(tables) == 0 {
		return ErrNoTables
	}

	f := excelize.NewFile()
	defer f.Close()

	used := make(map[string]bool)
	for i, table := range tables {
		name := uniqueSheetName(sheetName(table.Title, i), used)
		if i == 0 {
			if err := f.SetSheetName(f.GetSheetName(0), name); err != nil {
				return err
			}
		} else if _, err := f.NewSheet(name); err != nil {
			return err
		}
		if err := writeSheet(f, name, table); err != nil {
			return fmt.Errorf("sheet %s: %w", name, err)
		}
	}

	f.SetActiveSheet(0)
	return f.Write(w)
}

func writeSheet(f *excelize.File, sheet string, table *engine.TableData) error {
	for c, h := range table.Headers() {
		cell, _ := excelize.CoordinatesToCellName(c+1, 1)
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return err
		}
	}

	for r, row := range table.Rows {
		for c, v := range row {
			cell, _ := excelize.CoordinatesToCellName(c+1, r+2)
			if err := f.SetCellValue(sheet, cell, cellValue(table, c, v)); err != nil {
				return err
			}
		}
	}

	if table.Summary != nil && table.Summary.Label != "" {
		cell, _ := excelize.CoordinatesToCellName(1, len(table.Rows)+2)
		if err := f.SetCellValue(sheet, cell, table.Summary.Label); err != nil {
			return err
		}
	}
	return nil
}

// cellValue stores number-column values as float64 (thousands separators
// stripped) and everything else as text.
func cellValue(table *engine.TableData, col int, v string) any {
	if col >= len(table.Columns) || table.Columns[col].Type != "number" {
		return v
	}
	if n, err := strconv.ParseFloat(strings.ReplaceAll(v, ",", ""), 64); err == nil {
		return n
	}
	return v
}

// sheetName derives a valid worksheet name from a table title.
func sheetName(title string, index int) string {
	name := strings.Map(func(r rune) rune {
		if strings.ContainsRune(`:\/?*[]`, r) {
			return '_'
		}
		return r
	}, title)
	name = strings.Trim(strings.TrimSpace(name), "'")
	if runes := []rune(name); len(runes) > maxSheetName {
		name = string(runes[:maxSheetName])
	}
	if name == "" {
		name = fmt.Sprintf("Sheet%d", index+1)
	}
	return name
}

// uniqueSheetName suffixes duplicates; Excel compares names case-insensitively.
func uniqueSheetName(name string, used map[string]bool) string {
	candidate := name
	for n := 2; used[strings.ToLower(candidate)]; n++ {
		suffix := fmt.Sprintf(" (%d)", n)
		base := []rune(name)
		if len(base)+len(suffix) > maxSheetName {
			base = base[:maxSheetName-len(suffix)]
		}
		candidate = string(base) + suffix
	}
	used[strings.ToLower(candidate)] = true
	return candidate
}
