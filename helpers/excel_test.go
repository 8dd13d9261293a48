package helpers

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/spektr-org/scholar/engine"
)

func openWorkbook(t *testing.T, data []byte) *excelize.File {
	t.Helper()
	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	t.Cleanup(func() { _ = f.Close() })
	return f
}

func TestWriteXLSX(t *testing.T) {
	byMajor, err := engine.Execute(engine.QuerySpec{Intent: "table", GroupBy: []string{"Major"}, Title: "GPA by major"}, SampleStudents())
	require.NoError(t, err)
	bands := engine.BuildBandsTable("GPA bands", engine.GPADistributionByMajor(SampleStudents()))

	var buf bytes.Buffer
	require.NoError(t, WriteXLSX(&buf, byMajor.TableData, bands))

	f := openWorkbook(t, buf.Bytes())
	assert.Equal(t, []string{"GPA by major", "GPA bands"}, f.GetSheetList())

	rows, err := f.GetRows("GPA by major")
	require.NoError(t, err)
	require.Len(t, rows, 4)
	assert.Equal(t, []string{"Major", "Average GPA", "Count"}, rows[0])
	assert.Equal(t, []string{"Computer Science", "3.85", "2"}, rows[1])
	assert.Equal(t, "Total (2 groups)", rows[3][0])

	// number columns are stored as numbers
	cellType, err := f.GetCellType("GPA by major", "B2")
	require.NoError(t, err)
	assert.NotEqual(t, excelize.CellTypeSharedString, cellType)
}

func TestWriteXLSXNoTables(t *testing.T) {
	assert.ErrorIs(t, WriteXLSX(&bytes.Buffer{}), ErrNoTables)
}

func TestSheetNames(t *testing.T) {
	assert.Equal(t, "Sheet3", sheetName("", 2))
	assert.Equal(t, "GPA_Major", sheetName("GPA/Major", 0))
	assert.Equal(t, "quoted", sheetName("'quoted'", 0))
	assert.Len(t, []rune(sheetName(strings.Repeat("x", 50), 0)), maxSheetName)

	used := map[string]bool{}
	assert.Equal(t, "Report", uniqueSheetName("Report", used))
	assert.Equal(t, "report (2)", uniqueSheetName("report", used))
	assert.Equal(t, "Report (3)", uniqueSheetName("Report", used))

	long := strings.Repeat("y", maxSheetName)
	assert.Equal(t, long, uniqueSheetName(long, used))
	second := uniqueSheetName(long, used)
	assert.Len(t, second, maxSheetName)
	assert.True(t, strings.HasSuffix(second, " (2)"))
}

func TestParseRosterXLSX(t *testing.T) {
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	rows := append([][]string{RosterColumns}, rosterRows(SampleStudents())...)
	for r, row := range rows {
		for c, v := range row {
			cell, err := excelize.CoordinatesToCellName(c+1, r+1)
			require.NoError(t, err)
			require.NoError(t, f.SetCellValue(sheet, cell, v))
		}
	}
	var buf bytes.Buffer
	require.NoError(t, f.Write(&buf))
	require.NoError(t, f.Close())

	students, err := ParseRosterXLSX(&buf)
	require.NoError(t, err)
	assert.Equal(t, SampleStudents(), students)
}

func TestParseRosterXLSXErrors(t *testing.T) {
	_, err := ParseRosterXLSX(strings.NewReader("not a workbook"))
	assert.Error(t, err)

	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	require.NoError(t, f.SetCellValue(sheet, "A1", "id"))
	require.NoError(t, f.SetCellValue(sheet, "A2", "1"))
	require.NoError(t, f.SetCellValue(sheet, "A3", "two"))
	var buf bytes.Buffer
	require.NoError(t, f.Write(&buf))

	_, err = ParseRosterXLSX(&buf)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "line 3")
}
