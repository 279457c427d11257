package spider

import "context"

// ResourceStore persists fetched resources.
// Ownership of the resource transfers to the store on Persist.
type ResourceStore interface {
	Persist(ctx context.Context, res *Resource) error

	// Count returns the number of resources persisted during this run.
	Count() int
}
