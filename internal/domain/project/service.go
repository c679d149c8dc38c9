package project

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rpggio/powermason/internal/domain/activity"
	"github.com/rpggio/powermason/internal/repository"
	"github.com/shopspring/decimal"
)

// Service handles project operations.
type Service struct {
	repo   Repository
	logger *slog.Logger
	now    func() time.Time
}

// NewService creates a new project service.
func NewService(repo Repository, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Service{repo: repo, logger: logger, now: time.Now}
}

// ReconcileRequest carries the extracted and derived fields of one import.
type ReconcileRequest struct {
	ProjID                   string
	Name                     string
	Location                 *string
	StartDate                time.Time
	ReportDate               *time.Time
	ProgressReportMonthYear  *string
	AccomplishedToDate       decimal.Decimal
	AccomplishedBeforePeriod decimal.Decimal
	AccomplishedThisPeriod   decimal.Decimal
	ApprovedContract         decimal.Decimal
	TotalExpense             decimal.Decimal
	CreatedBy                *string

	// Source and Warnings are recorded in the activity log only.
	Source   string
	Warnings []string
}

// ReconcileResult reports which branch the upsert took.
type ReconcileResult struct {
	Outcome Outcome
	Project *Project
}

// Reconcile creates the project or overwrites the existing one with the same
// ProjID. Both branches commit atomically together with an activity entry.
func (s *Service) Reconcile(ctx context.Context, req ReconcileRequest) (*ReconcileResult, error) {
	if err := validateReconcile(req); err != nil {
		return nil, err
	}

	now := s.now().UTC()
	proj := &Project{
		ID:                       uuid.NewString(),
		ProjID:                   strings.TrimSpace(req.ProjID),
		Name:                     req.Name,
		Location:                 req.Location,
		StartDate:                req.StartDate,
		ReportDate:               req.ReportDate,
		ProgressReportMonthYear:  req.ProgressReportMonthYear,
		AccomplishedToDate:       req.AccomplishedToDate,
		AccomplishedBeforePeriod: req.AccomplishedBeforePeriod,
		AccomplishedThisPeriod:   req.AccomplishedThisPeriod,
		ApprovedContract:         req.ApprovedContract,
		TotalExpense:             req.TotalExpense,
		Status:                   StatusOnTrack,
		CreatedBy:                req.CreatedBy,
		CreatedAt:                now,
		UpdatedAt:                now,
	}

	details := ""
	if len(req.Warnings) > 0 {
		data, err := json.Marshal(map[string][]string{"warnings": req.Warnings})
		if err != nil {
			return nil, fmt.Errorf("encoding activity details: %w", err)
		}
		details = string(data)
	}
	entry := &activity.ActivityEntry{
		ID:        uuid.NewString(),
		ProjID:    proj.ProjID,
		Summary:   fmt.Sprintf("imported %s (%s)", proj.ProjID, proj.Name),
		Details:   details,
		Source:    req.Source,
		UserID:    req.CreatedBy,
		CreatedAt: now,
	}

	outcome, err := s.repo.Upsert(ctx, proj, entry)
	if err != nil {
		if errors.Is(err, repository.ErrForeignKeyViolation) {
			return nil, fmt.Errorf("%w: unknown user", ErrInvalidInput)
		}
		return nil, fmt.Errorf("reconciling project: %w", err)
	}

	s.logger.Info("project reconciled", "proj_id", proj.ProjID, "outcome", outcome, "warnings", len(req.Warnings))
	return &ReconcileResult{Outcome: outcome, Project: proj}, nil
}

// Get fetches a project by its business key.
func (s *Service) Get(ctx context.Context, projID string) (*Project, error) {
	proj, err := s.repo.Get(ctx, projID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, fmt.Errorf("getting project: %w", err)
	}
	return proj, nil
}

// List returns project summaries.
func (s *Service) List(ctx context.Context, opts ListOptions) ([]ProjectSummary, error) {
	if opts.Limit < 0 || opts.Offset < 0 {
		return nil, ErrInvalidInput
	}
	return s.repo.List(ctx, opts)
}

func validateReconcile(req ReconcileRequest) error {
	if strings.TrimSpace(req.ProjID) == "" || strings.TrimSpace(req.Name) == "" {
		return ErrInvalidInput
	}
	if req.StartDate.IsZero() {
		return ErrInvalidInput
	}
	for _, d := range []decimal.Decimal{
		req.AccomplishedToDate,
		req.AccomplishedBeforePeriod,
		req.AccomplishedThisPeriod,
		req.ApprovedContract,
		req.TotalExpense,
	} {
		if d.IsNegative() {
			return fmt.Errorf("%w: negative amount %s", ErrInvalidInput, d)
		}
	}
	if !req.AccomplishedToDate.Equal(req.AccomplishedThisPeriod.Add(req.AccomplishedBeforePeriod)) {
		return fmt.Errorf("%w: accomplished to date does not add up", ErrInvalidInput)
	}
	return nil
}
