package ingest

import (
	"fmt"
	"io"
	"log/slog"
	"strconv"

	"github.com/shopspring/decimal"
)

// Sheet gives access to cell values by A1 address.
type Sheet interface {
	Value(cell string) (any, error)
}

// Window is the block of expense rows scanned by AggregateExpense.
type Window struct {
	FirstRow     int
	LastRow      int
	FactorCol    string
	BaseCol      string
	ExtensionCol string
}

// WarningReason classifies a skipped or degraded row.
type WarningReason string

const (
	ReasonEmptyRow       WarningReason = "empty_row"
	ReasonMissingValues  WarningReason = "missing_values"
	ReasonDivisionByZero WarningReason = "division_by_zero"
	ReasonCoercion       WarningReason = "coercion"
	ReasonReadError      WarningReason = "read_error"
)

// RowWarning is a non-fatal problem found while scanning one row.
type RowWarning struct {
	Row    int           `json:"row"`
	Reason WarningReason `json:"reason"`
	Detail string        `json:"detail,omitempty"`
}

func (w RowWarning) String() string {
	if w.Detail == "" {
		return fmt.Sprintf("row %d: %s", w.Row, w.Reason)
	}
	return fmt.Sprintf("row %d: %s: %s", w.Row, w.Reason, w.Detail)
}

// AggregateResult is the rounded expense total plus everything that was skipped.
type AggregateResult struct {
	Total    decimal.Decimal
	Counted  int
	Warnings []RowWarning
}

// AggregateExpense sums factor/base*extension over every row of the window
// and rounds the total half away from zero to two places. A bad row is
// recorded as a warning and never stops the scan.
func AggregateExpense(sheet Sheet, window Window, logger *slog.Logger) AggregateResult {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	total := decimal.Zero
	result := AggregateResult{}
	warn := func(w RowWarning) {
		result.Warnings = append(result.Warnings, w)
		if w.Reason == ReasonEmptyRow {
			logger.Debug("skipping expense row", "row", w.Row, "reason", w.Reason)
			return
		}
		logger.Warn("skipping expense row", "row", w.Row, "reason", w.Reason, "detail", w.Detail)
	}

	for row := window.FirstRow; row <= window.LastRow; row++ {
		n := strconv.Itoa(row)
		values := make([]any, 3)
		var readErr error
		for i, col := range []string{window.FactorCol, window.BaseCol, window.ExtensionCol} {
			values[i], readErr = sheet.Value(col + n)
			if readErr != nil {
				break
			}
		}
		if readErr != nil {
			warn(RowWarning{Row: row, Reason: ReasonReadError, Detail: readErr.Error()})
			continue
		}

		factorRaw, baseRaw, extRaw := values[0], values[1], values[2]
		if factorRaw == nil || baseRaw == nil || extRaw == nil {
			reason := ReasonMissingValues
			if factorRaw == nil && baseRaw == nil && extRaw == nil {
				reason = ReasonEmptyRow
			}
			warn(RowWarning{Row: row, Reason: reason})
			continue
		}

		nums := make([]decimal.Decimal, 3)
		for i, raw := range values {
			d, err := CoerceDecimal(raw)
			if err != nil {
				warn(RowWarning{Row: row, Reason: ReasonCoercion, Detail: err.Error()})
			}
			nums[i] = d
		}
		factor, base, extension := nums[0], nums[1], nums[2]

		if base.IsZero() {
			warn(RowWarning{Row: row, Reason: ReasonDivisionByZero})
			continue
		}

		total = total.Add(factor.Div(base).Mul(extension))
		result.Counted++
	}

	result.Total = total.Round(2)
	return result
}
