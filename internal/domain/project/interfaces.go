package project

import (
	"context"

	"github.com/rpggio/powermason/internal/domain/activity"
)

// Repository provides persistence for projects.
type Repository interface {
	// Upsert inserts proj, or overwrites the derived fields of the project
	// sharing its ProjID, and appends entry in the same transaction.
	Upsert(ctx context.Context, proj *Project, entry *activity.ActivityEntry) (Outcome, error)
	Get(ctx context.Context, projID string) (*Project, error)
	List(ctx context.Context, opts ListOptions) ([]ProjectSummary, error)
}
