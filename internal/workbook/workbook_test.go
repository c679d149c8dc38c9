package workbook

import (
	"bytes"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestWorkbook_ValueTypes(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()

	sheet := "Sheet1"
	require.NoError(t, f.SetCellValue(sheet, "A1", "P-001"))
	require.NoError(t, f.SetCellValue(sheet, "A2", 100))
	require.NoError(t, f.SetCellValue(sheet, "A3", 10.1))
	require.NoError(t, f.SetCellValue(sheet, "A4", true))
	require.NoError(t, f.SetCellValue(sheet, "A5", time.Date(2023, time.September, 24, 0, 0, 0, 0, time.UTC)))

	wb, err := FromFile(f)
	require.NoError(t, err)
	require.Equal(t, sheet, wb.SheetName())

	v, err := wb.Value("A1")
	require.NoError(t, err)
	require.Equal(t, "P-001", v)

	v, err = wb.Value("A2")
	require.NoError(t, err)
	require.Equal(t, int64(100), v)

	v, err = wb.Value("A3")
	require.NoError(t, err)
	require.Equal(t, 10.1, v)

	v, err = wb.Value("A4")
	require.NoError(t, err)
	require.Equal(t, true, v)

	v, err = wb.Value("A5")
	require.NoError(t, err)
	ts, ok := v.(time.Time)
	require.True(t, ok, "expected time.Time, got %T", v)
	require.Equal(t, 2023, ts.Year())
	require.Equal(t, time.September, ts.Month())
	require.Equal(t, 24, ts.Day())

	v, err = wb.Value("Z99")
	require.NoError(t, err)
	require.Nil(t, v)
}

func TestWorkbook_ActiveSheet(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()

	idx, err := f.NewSheet("Report")
	require.NoError(t, err)
	require.NoError(t, f.SetCellValue("Report", "B1", "P-002"))
	require.NoError(t, f.SetCellValue("Sheet1", "B1", "ignored"))
	f.SetActiveSheet(idx)

	wb, err := FromFile(f)
	require.NoError(t, err)
	require.Equal(t, "Report", wb.SheetName())

	v, err := wb.Value("B1")
	require.NoError(t, err)
	require.Equal(t, "P-002", v)
}

func TestOpen_RoundTrip(t *testing.T) {
	f := excelize.NewFile()
	require.NoError(t, f.SetCellValue("Sheet1", "C10", 42))
	path := filepath.Join(t.TempDir(), "book.xlsx")
	require.NoError(t, f.SaveAs(path))
	require.NoError(t, f.Close())

	wb, err := Open(path)
	require.NoError(t, err)
	defer wb.Close()

	v, err := wb.Value("C10")
	require.NoError(t, err)
	require.Equal(t, int64(42), v)
}

func TestOpenReader_InvalidFormat(t *testing.T) {
	_, err := OpenReader(bytes.NewBufferString("not a workbook"))
	require.ErrorIs(t, err, ErrInvalidFormat)
}

func TestIsDateFormatCode(t *testing.T) {
	require.True(t, isDateFormatCode("yyyy-mm-dd"))
	require.True(t, isDateFormatCode("[$-409]d-mmm-yy;@"))
	require.False(t, isDateFormatCode("#,##0.00"))
	require.False(t, isDateFormatCode(`0.00" days"`))
	require.True(t, isBuiltInDateFormat(14))
	require.False(t, isBuiltInDateFormat(2))
}
