package ingest

import (
	"context"
	"errors"
	"testing"

	"github.com/rpggio/powermason/internal/domain/project"
	"github.com/rpggio/powermason/internal/repository/mocks"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestHandle_Created(t *testing.T) {
	rec := new(mocks.Reconciler)
	rec.On("Reconcile", mock.Anything, mock.Anything).
		Return(&project.ReconcileResult{Outcome: project.OutcomeCreated, Project: &project.Project{ProjID: "P-001"}}, nil)

	svc := NewService(rec, DefaultLayout(), nil)
	resp := svc.Handle(context.Background(), validSheet(), Options{})

	require.True(t, resp.OK())
	require.Equal(t, "/projects", resp.Redirect)
	require.Equal(t, "projects", resp.ActiveTab)
	require.Len(t, resp.Notifications, 1)
	require.Equal(t, LevelSuccess, resp.Notifications[0].Level)
	require.Equal(t, "Project P-001 created successfully.", resp.Notifications[0].Message)
}

func TestHandle_UpdatedWithWarnings(t *testing.T) {
	rec := new(mocks.Reconciler)
	rec.On("Reconcile", mock.Anything, mock.Anything).
		Return(&project.ReconcileResult{Outcome: project.OutcomeUpdated, Project: &project.Project{ProjID: "P-001"}}, nil)

	sheet := validSheet()
	sheet.setRow(12, 1.0, 0.0, 1.0)

	svc := NewService(rec, DefaultLayout(), nil)
	resp := svc.Handle(context.Background(), sheet, Options{})

	require.True(t, resp.OK())
	require.Equal(t, "Project P-001 updated successfully.", resp.Notifications[0].Message)
	require.Len(t, resp.Notifications, 2)
	require.Equal(t, LevelWarning, resp.Notifications[1].Level)
	require.Equal(t, []RowWarning{{Row: 12, Reason: ReasonDivisionByZero}}, resp.Warnings)
}

func TestHandle_Failure(t *testing.T) {
	sheet := validSheet()
	sheet.cells["B3"] = nil

	rec := new(mocks.Reconciler)
	svc := NewService(rec, DefaultLayout(), nil)
	resp := svc.Handle(context.Background(), sheet, Options{})

	require.False(t, resp.OK())
	require.Nil(t, resp.Form)
	require.Equal(t, "projects", resp.ActiveTab)
	require.Equal(t, "import_form", resp.View)
	require.Len(t, resp.Notifications, 1)
	require.Equal(t, LevelError, resp.Notifications[0].Level)
	require.Contains(t, resp.Notifications[0].Message, "location")
	rec.AssertNotCalled(t, "Reconcile", mock.Anything, mock.Anything)
}

func TestErrorResponse_OpenFailure(t *testing.T) {
	resp := ErrorResponse(&IngestionError{Stage: StageOpenWorkbook, Err: errors.New("zip: not a valid zip file")})
	require.Equal(t, "import_form", resp.View)
	require.Contains(t, resp.Notifications[0].Message, "open_workbook")
}
