package types

// Status is a type for the lifecycle status of a row in the database.
// Rows are soft deleted by flipping this to StatusDeleted; queries filter
// on StatusPublished.
type Status string

const (
	StatusPublished Status = "published"
	StatusArchived  Status = "archived"
	StatusDeleted   Status = "deleted"
)
