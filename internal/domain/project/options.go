package project

// ListOptions provides filtering options for listing projects.
type ListOptions struct {
	// Search matches proj_id, name, location and the progress report label.
	Search   string
	Location string
	Limit    int
	Offset   int
}
