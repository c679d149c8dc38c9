// Package ingest turns a progress report worksheet into a reconciled project record.
package ingest

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/rpggio/powermason/internal/config"
	"github.com/rpggio/powermason/internal/domain/project"
	"github.com/shopspring/decimal"
)

// Pipeline stages reported by IngestionError.
const (
	StageOpenWorkbook   = "open_workbook"
	StageReadFixedCells = "read_fixed_cells"
	StageReconcile      = "reconcile"
)

var hundred = decimal.NewFromInt(100)

// Reconciler persists the derived project fields.
type Reconciler interface {
	Reconcile(ctx context.Context, req project.ReconcileRequest) (*project.ReconcileResult, error)
}

// Layout holds the fixed cell addresses and the expense row window.
type Layout struct {
	ProjID                   string
	Name                     string
	Location                 string
	StartDate                string
	ReportDate               string
	AccomplishedToDate       string
	AccomplishedBeforePeriod string
	ApprovedContract         string
	ProgressReportLabel      string
	Window                   Window
}

// LayoutFromConfig builds a Layout from the ingest configuration section.
func LayoutFromConfig(cfg config.IngestConfig) Layout {
	return Layout{
		ProjID:                   cfg.Cells.ProjID,
		Name:                     cfg.Cells.Name,
		Location:                 cfg.Cells.Location,
		StartDate:                cfg.Cells.StartDate,
		ReportDate:               cfg.Cells.ReportDate,
		AccomplishedToDate:       cfg.Cells.AccomplishedToDate,
		AccomplishedBeforePeriod: cfg.Cells.AccomplishedBeforePeriod,
		ApprovedContract:         cfg.Cells.ApprovedContract,
		ProgressReportLabel:      cfg.Cells.ProgressReportLabel,
		Window: Window{
			FirstRow:     cfg.FirstRow,
			LastRow:      cfg.LastRow,
			FactorCol:    cfg.FactorColumn,
			BaseCol:      cfg.BaseColumn,
			ExtensionCol: cfg.ExtensionCol,
		},
	}
}

// DefaultLayout is the layout of the standard progress report template.
func DefaultLayout() Layout {
	return LayoutFromConfig(config.DefaultIngest())
}

// RawSheetValues are the header cells exactly as read from the sheet.
type RawSheetValues struct {
	ProjID                   any
	Name                     any
	Location                 any
	StartDate                any
	ReportDate               any
	AccomplishedToDate       any
	AccomplishedBeforePeriod any
	ApprovedContract         any
	ProgressReportLabel      any
}

// Options carries per-call context for an ingestion.
type Options struct {
	// ActingUser is recorded as the creator of new projects.
	ActingUser *string
	// Source names the uploaded file for the activity log.
	Source string
}

// Result describes a successful ingestion.
type Result struct {
	Outcome   project.Outcome
	Project   *project.Project
	Aggregate AggregateResult
	// ReportDateUnknown is set when the report date cell could not be parsed.
	ReportDateUnknown bool
}

// Service runs the ingestion pipeline.
type Service struct {
	projects Reconciler
	layout   Layout
	logger   *slog.Logger
}

// NewService creates a new ingestion service.
func NewService(projects Reconciler, layout Layout, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Service{projects: projects, layout: layout, logger: logger}
}

// Ingest reads the sheet, derives the project figures and reconciles them
// with the store. Nothing is written unless every required step succeeds.
func (s *Service) Ingest(ctx context.Context, sheet Sheet, opts Options) (*Result, error) {
	raw, err := s.readFixedCells(sheet)
	if err != nil {
		return nil, &IngestionError{Stage: StageReadFixedCells, Err: err}
	}

	if err := validateRequired(raw); err != nil {
		return nil, err
	}

	agg := AggregateExpense(sheet, s.layout.Window, s.logger)

	startDate, err := ResolveDate(raw.StartDate)
	if err != nil {
		return nil, fmt.Errorf("start date: %w", err)
	}

	var reportDate *time.Time
	if rd, err := ResolveDate(raw.ReportDate); err != nil {
		s.logger.Warn("report date unreadable, storing as unknown", "value", raw.ReportDate, "error", err)
	} else {
		reportDate = &rd
	}

	before := s.decimalField("accomplished_before_period", raw.AccomplishedBeforePeriod).Round(2)
	contract := s.decimalField("approved_contract", raw.ApprovedContract)
	thisPeriod := decimal.Zero
	if !contract.IsZero() {
		thisPeriod = agg.Total.Div(contract).Mul(hundred).Round(2)
	}
	toDate := thisPeriod.Add(before)

	if sheetToDate, err := CoerceDecimal(raw.AccomplishedToDate); err == nil && raw.AccomplishedToDate != nil &&
		!sheetToDate.Round(2).Equal(toDate) {
		s.logger.Debug("sheet accomplished-to-date differs from derived value",
			"sheet", sheetToDate.String(), "derived", toDate.StringFixed(2))
	}

	location := cellString(raw.Location)
	req := project.ReconcileRequest{
		ProjID:                   cellString(raw.ProjID),
		Name:                     cellString(raw.Name),
		Location:                 &location,
		StartDate:                startDate,
		ReportDate:               reportDate,
		ProgressReportMonthYear:  progressLabel(raw.ProgressReportLabel),
		AccomplishedToDate:       toDate,
		AccomplishedBeforePeriod: before,
		AccomplishedThisPeriod:   thisPeriod,
		ApprovedContract:         contract,
		TotalExpense:             agg.Total,
		CreatedBy:                opts.ActingUser,
		Source:                   opts.Source,
		Warnings:                 reportableWarnings(agg.Warnings),
	}

	rec, err := s.projects.Reconcile(ctx, req)
	if err != nil {
		if errors.Is(err, project.ErrInvalidInput) {
			return nil, err
		}
		return nil, &IngestionError{Stage: StageReconcile, Err: err}
	}

	return &Result{
		Outcome:           rec.Outcome,
		Project:           rec.Project,
		Aggregate:         agg,
		ReportDateUnknown: reportDate == nil,
	}, nil
}

func (s *Service) readFixedCells(sheet Sheet) (RawSheetValues, error) {
	var raw RawSheetValues
	cells := []struct {
		addr string
		dst  *any
	}{
		{s.layout.ProjID, &raw.ProjID},
		{s.layout.Name, &raw.Name},
		{s.layout.Location, &raw.Location},
		{s.layout.StartDate, &raw.StartDate},
		{s.layout.ReportDate, &raw.ReportDate},
		{s.layout.AccomplishedToDate, &raw.AccomplishedToDate},
		{s.layout.AccomplishedBeforePeriod, &raw.AccomplishedBeforePeriod},
		{s.layout.ApprovedContract, &raw.ApprovedContract},
		{s.layout.ProgressReportLabel, &raw.ProgressReportLabel},
	}
	for _, c := range cells {
		v, err := sheet.Value(c.addr)
		if err != nil {
			return RawSheetValues{}, fmt.Errorf("cell %s: %w", c.addr, err)
		}
		*c.dst = v
	}
	return raw, nil
}

func (s *Service) decimalField(name string, v any) decimal.Decimal {
	d, err := CoerceDecimal(v)
	if err != nil {
		s.logger.Warn("decimal coercion failed, using zero", "field", name, "error", err)
	}
	return d
}

func validateRequired(raw RawSheetValues) error {
	var missing []string
	for _, f := range []struct {
		name  string
		value any
	}{
		{"proj_id", raw.ProjID},
		{"name", raw.Name},
		{"location", raw.Location},
		{"start_date", raw.StartDate},
		{"report_date", raw.ReportDate},
	} {
		if f.value == nil {
			missing = append(missing, f.name)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: %s", ErrMissingRequiredField, strings.Join(missing, ", "))
	}
	return nil
}

// cellString renders an identifier or label cell as text.
func cellString(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(t)
	case int64:
		return strconv.FormatInt(t, 10)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case time.Time:
		return t.Format("2006-01-02")
	default:
		return strings.TrimSpace(fmt.Sprint(t))
	}
}

func progressLabel(v any) *string {
	if v == nil {
		return nil
	}
	var label string
	if t, ok := v.(time.Time); ok {
		// Spreadsheet apps turn "September 2023" into a date.
		label = t.Format("January 2006")
	} else {
		label = cellString(v)
	}
	if label == "" {
		return nil
	}
	return &label
}

func reportableWarnings(warnings []RowWarning) []string {
	var out []string
	for _, w := range warnings {
		if w.Reason == ReasonEmptyRow {
			continue
		}
		out = append(out, w.String())
	}
	return out
}
