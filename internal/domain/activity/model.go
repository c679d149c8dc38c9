package activity

import "time"

// ActivityType represents the type of activity event
type ActivityType string

const (
	TypeProjectCreated ActivityType = "project_created"
	TypeProjectUpdated ActivityType = "project_updated"
)

// ActivityEntry records one successful workbook import.
type ActivityEntry struct {
	ID           string       `json:"id"`
	ProjID       string       `json:"proj_id"`
	ActivityType ActivityType `json:"type"`
	Summary      string       `json:"summary"`
	Details      string       `json:"details,omitempty"` // JSON string
	Source       string       `json:"source,omitempty"`
	UserID       *string      `json:"user_id,omitempty"`
	CreatedAt    time.Time    `json:"created_at"`
}
