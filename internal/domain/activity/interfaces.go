package activity

import "context"

// Repository provides read access to the activity log. Entries are written
// by the project repository inside the reconciliation transaction.
type Repository interface {
	List(ctx context.Context, opts ListActivityOptions) ([]ActivityEntry, error)
}
