package spider

import (
	"context"
	"time"
)

// Run records one crawl started from a seed.
type Run struct {
	ID         string    `json:"id"`
	Seed       string    `json:"seed"`
	State      string    `json:"state"`
	Persisted  int       `json:"persisted"`
	StartedAt  time.Time `json:"startedAt"`
	FinishedAt time.Time `json:"finishedAt"`
}

// Validate returns an error if the run contains invalid fields.
func (r *Run) Validate() error {
	if r.ID == "" {
		return Errorf(EINVALID, "run ID required")
	}
	if r.Seed == "" {
		return Errorf(EINVALID, "run seed required")
	}
	return nil
}

// RunService represents a service for recording crawl runs.
type RunService interface {
	// CreateRun records the start of a run.
	CreateRun(ctx context.Context, run *Run) error

	// FindRunByID retrieves a run by ID.
	// Returns ENOTFOUND if run does not exist.
	FindRunByID(ctx context.Context, id string) (*Run, error)

	// FindRuns retrieves runs matching the filter, newest first.
	FindRuns(ctx context.Context, filter RunFilter) ([]*Run, error)

	// FinishRun records the terminal state of a run.
	// Returns ENOTFOUND if run does not exist.
	FinishRun(ctx context.Context, id string, upd RunUpdate) (*Run, error)
}

// RunFilter represents a filter for FindRuns.
type RunFilter struct {
	Seed *string `json:"seed"`

	Offset int `json:"offset"`
	Limit  int `json:"limit"`
}

// RunUpdate represents the fields recorded when a run finishes.
type RunUpdate struct {
	State     string `json:"state"`
	Persisted int    `json:"persisted"`
}

// ResourceFilter represents a filter for reading back persisted resources.
type ResourceFilter struct {
	RunID *string `json:"runId"`
	URI   *string `json:"uri"`

	Offset int `json:"offset"`
	Limit  int `json:"limit"`
}

// ResourceFinder reads back persisted resources.
type ResourceFinder interface {
	// FindResources retrieves resources matching the filter in
	// persistence order.
	FindResources(ctx context.Context, filter ResourceFilter) ([]*Resource, error)
}
