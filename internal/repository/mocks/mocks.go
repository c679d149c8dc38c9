package mocks

import (
	"context"

	"github.com/rpggio/powermason/internal/domain/activity"
	"github.com/rpggio/powermason/internal/domain/project"
	"github.com/stretchr/testify/mock"
)

// ProjectRepository is a mock for project.Repository.
type ProjectRepository struct {
	mock.Mock
}

func (m *ProjectRepository) Upsert(ctx context.Context, proj *project.Project, entry *activity.ActivityEntry) (project.Outcome, error) {
	args := m.Called(ctx, proj, entry)
	return args.Get(0).(project.Outcome), args.Error(1)
}

func (m *ProjectRepository) Get(ctx context.Context, projID string) (*project.Project, error) {
	args := m.Called(ctx, projID)
	if proj, ok := args.Get(0).(*project.Project); ok {
		return proj, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *ProjectRepository) List(ctx context.Context, opts project.ListOptions) ([]project.ProjectSummary, error) {
	args := m.Called(ctx, opts)
	if list, ok := args.Get(0).([]project.ProjectSummary); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

// ActivityRepository is a mock for activity.Repository.
type ActivityRepository struct {
	mock.Mock
}

func (m *ActivityRepository) List(ctx context.Context, opts activity.ListActivityOptions) ([]activity.ActivityEntry, error) {
	args := m.Called(ctx, opts)
	if entries, ok := args.Get(0).([]activity.ActivityEntry); ok {
		return entries, args.Error(1)
	}
	return nil, args.Error(1)
}

// Reconciler is a mock for ingest.Reconciler.
type Reconciler struct {
	mock.Mock
}

func (m *Reconciler) Reconcile(ctx context.Context, req project.ReconcileRequest) (*project.ReconcileResult, error) {
	args := m.Called(ctx, req)
	if res, ok := args.Get(0).(*project.ReconcileResult); ok {
		return res, args.Error(1)
	}
	return nil, args.Error(1)
}
