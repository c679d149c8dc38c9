// Package workbook reads typed cell values from the active sheet of an xlsx file.
package workbook

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
)

// ErrInvalidFormat indicates the input is not a readable xlsx workbook.
var ErrInvalidFormat = errors.New("invalid xlsx format")

// ErrNoActiveSheet indicates the workbook has no active worksheet.
var ErrNoActiveSheet = errors.New("workbook has no active sheet")

// Workbook is an open workbook bound to its active sheet.
type Workbook struct {
	file     *excelize.File
	sheet    string
	date1904 bool
}

// Open opens the workbook at path.
func Open(path string) (*Workbook, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidFormat, err)
	}
	return bind(f)
}

// OpenReader opens a workbook from a stream, such as an uploaded file.
func OpenReader(r io.Reader) (*Workbook, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidFormat, err)
	}
	return bind(f)
}

// FromFile wraps an already open excelize file. The caller keeps ownership
// of f unless Close is called on the returned workbook.
func FromFile(f *excelize.File) (*Workbook, error) {
	return bind(f)
}

func bind(f *excelize.File) (*Workbook, error) {
	name := f.GetSheetName(f.GetActiveSheetIndex())
	if name == "" {
		f.Close()
		return nil, ErrNoActiveSheet
	}

	wb := &Workbook{file: f, sheet: name}
	if props, err := f.GetWorkbookProps(); err == nil && props.Date1904 != nil {
		wb.date1904 = *props.Date1904
	}
	return wb, nil
}

// SheetName returns the name of the active sheet.
func (w *Workbook) SheetName() string { return w.sheet }

// Close releases the underlying file.
func (w *Workbook) Close() error { return w.file.Close() }

// Value returns the content of cell on the active sheet as one of:
// nil (empty), int64, float64, string, bool or time.Time (date formatted numbers).
func (w *Workbook) Value(cell string) (any, error) {
	raw, err := w.file.GetCellValue(w.sheet, cell, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("read %s!%s: %w", w.sheet, cell, err)
	}
	if raw == "" {
		return nil, nil
	}

	typ, err := w.file.GetCellType(w.sheet, cell)
	if err != nil {
		return nil, fmt.Errorf("read type of %s!%s: %w", w.sheet, cell, err)
	}

	switch typ {
	case excelize.CellTypeSharedString, excelize.CellTypeInlineString,
		excelize.CellTypeFormula, excelize.CellTypeError:
		return raw, nil
	case excelize.CellTypeBool:
		return raw == "1" || strings.EqualFold(raw, "true"), nil
	case excelize.CellTypeDate:
		if t, err := time.Parse(time.RFC3339, raw); err == nil {
			return t, nil
		}
		return raw, nil
	}

	if i, err := strconv.ParseInt(raw, 10, 64); err == nil {
		if w.isDateCell(cell) {
			return w.serialToTime(float64(i))
		}
		return i, nil
	}
	if f, err := strconv.ParseFloat(raw, 64); err == nil {
		if w.isDateCell(cell) {
			return w.serialToTime(f)
		}
		return f, nil
	}
	return raw, nil
}

func (w *Workbook) serialToTime(serial float64) (any, error) {
	t, err := excelize.ExcelDateToTime(serial, w.date1904)
	if err != nil {
		return nil, fmt.Errorf("convert date serial %v: %w", serial, err)
	}
	return t, nil
}

func (w *Workbook) isDateCell(cell string) bool {
	styleID, err := w.file.GetCellStyle(w.sheet, cell)
	if err != nil || styleID == 0 {
		return false
	}
	style, err := w.file.GetStyle(styleID)
	if err != nil || style == nil {
		return false
	}
	if style.CustomNumFmt != nil {
		return isDateFormatCode(*style.CustomNumFmt)
	}
	return isBuiltInDateFormat(style.NumFmt)
}

// isBuiltInDateFormat reports whether id is one of the date or time number
// formats predefined by the OOXML spreadsheet format.
func isBuiltInDateFormat(id int) bool {
	switch {
	case id >= 14 && id <= 22,
		id >= 27 && id <= 36,
		id >= 45 && id <= 47,
		id >= 50 && id <= 58:
		return true
	}
	return false
}

// isDateFormatCode reports whether a custom number format renders a date.
func isDateFormatCode(code string) bool {
	var b strings.Builder
	inQuote, inBracket := false, false
	for _, r := range code {
		switch {
		case r == '"':
			inQuote = !inQuote
		case inQuote:
		case r == '[':
			inBracket = true
		case r == ']':
			inBracket = false
		case inBracket:
		default:
			b.WriteRune(r)
		}
	}
	plain := strings.ToLower(b.String())
	return strings.ContainsAny(plain, "ydh")
}
