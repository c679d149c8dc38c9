package project

import (
	"time"

	"github.com/shopspring/decimal"
)

// Status is the delivery state of a project.
type Status string

const (
	StatusOnTrack   Status = "on-track"
	StatusDelayed   Status = "delayed"
	StatusCompleted Status = "completed"
)

// Valid reports whether s is a known status.
func (s Status) Valid() bool {
	switch s {
	case StatusOnTrack, StatusDelayed, StatusCompleted:
		return true
	}
	return false
}

// Outcome tells whether a reconciliation inserted or overwrote a project.
type Outcome string

const (
	OutcomeCreated Outcome = "created"
	OutcomeUpdated Outcome = "updated"
)

// Project is the persisted progress and financial record of a construction project.
// ProjID is the business key; ID is a surrogate key assigned on first insert.
type Project struct {
	ID                       string          `json:"id"`
	ProjID                   string          `json:"proj_id"`
	Name                     string          `json:"name"`
	Location                 *string         `json:"location,omitempty"`
	StartDate                time.Time       `json:"start_date"`
	ReportDate               *time.Time      `json:"report_date,omitempty"`
	ProgressReportMonthYear  *string         `json:"progress_report_month_year,omitempty"`
	AccomplishedToDate       decimal.Decimal `json:"accomplished_to_date"`
	AccomplishedBeforePeriod decimal.Decimal `json:"accomplished_before_period"`
	AccomplishedThisPeriod   decimal.Decimal `json:"accomplished_this_period"`
	ApprovedContract         decimal.Decimal `json:"approved_contract"`
	TotalExpense             decimal.Decimal `json:"total_expense"`
	Status                   Status          `json:"status"`
	CreatedBy                *string         `json:"created_by,omitempty"`
	Revision                 int64           `json:"revision"`
	CreatedAt                time.Time       `json:"created_at"`
	UpdatedAt                time.Time       `json:"updated_at"`
}

// ProjectSummary is a lightweight representation for listing
type ProjectSummary struct {
	ProjID                 string          `json:"proj_id"`
	Name                   string          `json:"name"`
	Location               *string         `json:"location,omitempty"`
	ReportDate             *time.Time      `json:"report_date,omitempty"`
	AccomplishedToDate     decimal.Decimal `json:"accomplished_to_date"`
	AccomplishedThisPeriod decimal.Decimal `json:"accomplished_this_period"`
	Status                 Status          `json:"status"`
	UpdatedAt              time.Time       `json:"updated_at"`
}
