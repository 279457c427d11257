package spider

import "context"

// Traversal selects the order in which a Frontier yields URIs.
type Traversal int

// Supported traversal orders.
const (
	BreadthFirst Traversal = iota
	DepthFirst
)

// String returns the flag-friendly name of the traversal.
func (t Traversal) String() string {
	switch t {
	case BreadthFirst:
		return "bfs"
	case DepthFirst:
		return "dfs"
	default:
		return "unknown"
	}
}

// ParseTraversal parses "bfs" or "dfs".
func ParseTraversal(s string) (Traversal, error) {
	switch s {
	case "bfs", "breadth-first":
		return BreadthFirst, nil
	case "dfs", "depth-first":
		return DepthFirst, nil
	}
	return 0, Errorf(EINVALID, "unknown traversal %q", s)
}

// Frontier holds discovered URIs that have not been fetched yet.
// Each pushed entry is yielded by Pop exactly once.
type Frontier interface {
	// Push enqueues uri at the given depth.
	// Returns EINVALID if depth exceeds MaxDepth and EQUEUEFULL if the
	// frontier has reached its size bound.
	Push(ctx context.Context, uri URI, depth int) error

	// Pop returns the next URI according to the frontier's ordering policy.
	// The bool result is false when the frontier is exhausted.
	Pop(ctx context.Context) (URI, bool, error)

	// MaxDepth returns the deepest depth the frontier accepts.
	MaxDepth() int
}
