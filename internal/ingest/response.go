package ingest

import (
	"context"
	"fmt"

	"github.com/rpggio/powermason/internal/domain/project"
)

// Notification levels.
const (
	LevelSuccess = "success"
	LevelWarning = "warning"
	LevelError   = "error"
)

const (
	projectsTab  = "projects"
	projectsPath = "/projects"
	uploadView   = "import_form"
)

// Notification is a user-facing message.
type Notification struct {
	Level   string `json:"level"`
	Message string `json:"message"`
}

// Response is what the presentation layer renders after an upload: either a
// redirect to the project listing or the upload form again.
type Response struct {
	Form          any              `json:"form"`
	ActiveTab     string           `json:"active_tab"`
	View          string           `json:"view,omitempty"`
	Redirect      string           `json:"redirect,omitempty"`
	Notifications []Notification   `json:"notifications"`
	Project       *project.Project `json:"project,omitempty"`
	Warnings      []RowWarning     `json:"warnings,omitempty"`
}

// OK reports whether the response represents a successful import.
func (r Response) OK() bool {
	return r.Redirect != ""
}

// Handle runs Ingest and converts its outcome into a Response. It never
// returns an error: failures become an error notification on the form.
func (s *Service) Handle(ctx context.Context, sheet Sheet, opts Options) Response {
	res, err := s.Ingest(ctx, sheet, opts)
	if err != nil {
		s.logger.Error("workbook import failed", "source", opts.Source, "error", err)
		return ErrorResponse(err)
	}
	return SuccessResponse(res)
}

// SuccessResponse builds the redirect response for a completed import.
func SuccessResponse(res *Result) Response {
	verb := "created"
	if res.Outcome == project.OutcomeUpdated {
		verb = "updated"
	}

	notes := []Notification{{
		Level:   LevelSuccess,
		Message: fmt.Sprintf("Project %s %s successfully.", res.Project.ProjID, verb),
	}}

	var warnings []RowWarning
	for _, w := range res.Aggregate.Warnings {
		if w.Reason != ReasonEmptyRow {
			warnings = append(warnings, w)
		}
	}
	if len(warnings) > 0 {
		notes = append(notes, Notification{
			Level:   LevelWarning,
			Message: fmt.Sprintf("%d expense row(s) were skipped or defaulted to zero.", len(warnings)),
		})
	}
	if res.ReportDateUnknown {
		notes = append(notes, Notification{
			Level:   LevelWarning,
			Message: "Report date could not be read and was left blank.",
		})
	}

	return Response{
		ActiveTab:     projectsTab,
		Redirect:      projectsPath,
		Notifications: notes,
		Project:       res.Project,
		Warnings:      warnings,
	}
}

// ErrorResponse builds the form response for a failed import.
func ErrorResponse(err error) Response {
	return Response{
		Form:      nil,
		ActiveTab: projectsTab,
		View:      uploadView,
		Notifications: []Notification{{
			Level:   LevelError,
			Message: "Error importing workbook: " + err.Error(),
		}},
	}
}
