// Package crawl provides the crawl control loop and the frontier discipline
// around it: visited-set bookkeeping, depth accounting, discovery
// de-duplication, filter gating and cooperative cancellation.
package crawl

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/fwojciec/spider"
	"github.com/google/uuid"
)

// TerminalState indicates why a crawl run ended.
// Every state is a normal termination, not an error.
type TerminalState int

const (
	FrontierExhausted TerminalState = iota
	DownloadLimitReached
	UserStopped
)

// String returns a human-readable name for the state.
func (s TerminalState) String() string {
	switch s {
	case FrontierExhausted:
		return "frontier exhausted"
	case DownloadLimitReached:
		return "download limit reached"
	case UserStopped:
		return "user stopped"
	default:
		return "unknown"
	}
}

// Result holds the outcome of a crawl run.
type Result struct {
	RunID     string
	State     TerminalState
	Persisted int
	Failed    int
	Filtered  int
	Dropped   int
}

// Engine orchestrates a crawl run. It owns the visited set and the
// persisted count; the collaborators are supplied by the caller and are
// never inspected beyond their interfaces.
//
// Run must not be called concurrently on the same Engine. Stop is safe to
// call from any goroutine.
type Engine struct {
	Fetcher     spider.Fetcher
	Store       spider.ResourceStore
	Frontier    spider.Frontier
	Extractors  []spider.LinkExtractor
	PreFilters  []spider.PreFilter
	PostFilters []spider.PostFilter
	Notifier    spider.Notifier

	// DownloadLimit caps the number of persisted resources. Zero means no limit.
	DownloadLimit int

	// RunID identifies the next run. When empty each run gets a fresh UUID.
	RunID string

	running   atomic.Bool
	stop      atomic.Bool
	visited   *visitedSet
	persisted int
}

// Stop requests a graceful stop. It takes effect at the next iteration
// boundary; an in-flight fetch always completes first.
func (e *Engine) Stop() {
	e.stop.Store(true)
}

// Run crawls from seed until the frontier is exhausted, the download limit
// is reached, or a stop is requested through Stop or ctx.
//
// An invalid seed is reported as EINVALID before any fetch happens.
// Failures of the Frontier or ResourceStore backends abort the run and are
// returned together with the partial result.
func (e *Engine) Run(ctx context.Context, seed string) (*Result, error) {
	seedURI, err := spider.ParseURI(seed)
	if err != nil {
		return nil, err
	}

	if !e.running.CompareAndSwap(false, true) {
		return nil, spider.Errorf(spider.ECONFLICT, "crawl already running")
	}
	defer e.running.Store(false)

	e.stop.Store(false)
	e.visited = newVisitedSet()
	e.persisted = 0
	result := &Result{RunID: e.RunID}
	if result.RunID == "" {
		result.RunID = uuid.New().String()
	}

	// Collaborators run on a context that ignores cancellation so that the
	// current iteration always completes; ctx is consulted at boundaries.
	work := context.WithoutCancel(ctx)

	if err := e.Frontier.Push(work, seedURI, 0); err != nil {
		return nil, fmt.Errorf("enqueue seed: %w", err)
	}
	e.visited.add(seedURI, 0)

	for {
		if e.stop.Load() || ctx.Err() != nil {
			e.notify(spider.Event{Type: spider.EventUserStopped, URI: seedURI})
			result.State = UserStopped
			return result, nil
		}

		uri, ok, err := e.Frontier.Pop(work)
		if err != nil {
			return result, fmt.Errorf("pop frontier: %w", err)
		}
		if !ok {
			result.State = FrontierExhausted
			return result, nil
		}

		if e.DownloadLimit > 0 && e.persisted >= e.DownloadLimit {
			result.State = DownloadLimitReached
			return result, nil
		}

		res, outcome := e.fetch(work, uri)
		switch outcome {
		case fetchFailed:
			result.Failed++
			continue
		case fetchRejected:
			result.Filtered++
			continue
		}

		depth := res.DepthFound
		if err := e.Store.Persist(work, res); err != nil {
			return result, fmt.Errorf("persist %s: %w", uri, err)
		}
		e.persisted++
		result.Persisted = e.persisted
		e.notify(spider.Event{Type: spider.EventResourcePersisted, URI: uri, Depth: depth})

		nextDepth := depth + 1
		if nextDepth > e.Frontier.MaxDepth() {
			continue
		}

		filtered, dropped, err := e.enqueue(work, Discover(res, e.Extractors), nextDepth)
		result.Filtered += filtered
		result.Dropped += dropped
		if err != nil {
			return result, err
		}
	}
}

type fetchOutcome int

const (
	fetched fetchOutcome = iota
	fetchFailed
	fetchRejected
)

// fetch retrieves uri and applies the post-fetch filters.
// post-request is emitted on every path once the request was attempted.
func (e *Engine) fetch(ctx context.Context, uri spider.URI) (*spider.Resource, fetchOutcome) {
	depth, ok := e.visited.depth(uri)
	if !ok {
		// Entries left in an external frontier by an earlier run.
		e.visited.add(uri, 0)
	}

	e.notify(spider.Event{Type: spider.EventPreRequest, URI: uri, Depth: depth})

	res, err := e.Fetcher.Fetch(ctx, uri)
	if err == nil && res == nil {
		err = spider.Errorf(spider.EINTERNAL, "fetcher returned no resource for %s", uri)
	}
	if err != nil {
		e.notify(spider.Event{Type: spider.EventRequestError, URI: uri, Depth: depth, Message: err.Error()})
		e.notify(spider.Event{Type: spider.EventPostRequest, URI: uri, Depth: depth})
		return nil, fetchFailed
	}

	res.URI = uri
	res.DepthFound = depth
	e.notify(spider.Event{Type: spider.EventPostRequest, URI: uri, Depth: depth})

	for _, f := range e.PostFilters {
		if f.MatchResource(res) {
			e.notify(spider.Event{Type: spider.EventFilteredPostFetch, URI: uri, Depth: depth})
			return nil, fetchRejected
		}
	}
	return res, fetched
}

// enqueue gates discovered candidates through the visited set and the
// pre-fetch filters and pushes survivors at depth. Every evaluated
// candidate is recorded as visited, including ones shed because the
// frontier is full; the remainder of the batch is then dropped.
func (e *Engine) enqueue(ctx context.Context, candidates []spider.URI, depth int) (filtered, dropped int, err error) {
	for i, uri := range candidates {
		if e.visited.has(uri) {
			continue
		}

		if e.preFiltered(uri) {
			e.visited.add(uri, depth)
			e.notify(spider.Event{Type: spider.EventFilteredPreFetch, URI: uri, Depth: depth})
			filtered++
			continue
		}

		if err := e.Frontier.Push(ctx, uri, depth); err != nil {
			if spider.ErrorCode(err) != spider.EQUEUEFULL {
				return filtered, dropped, fmt.Errorf("push %s: %w", uri, err)
			}
			e.visited.add(uri, depth)
			dropped++
			for _, rest := range candidates[i+1:] {
				if !e.visited.has(rest) {
					dropped++
				}
			}
			return filtered, dropped, nil
		}
		e.visited.add(uri, depth)
	}
	return filtered, dropped, nil
}

func (e *Engine) preFiltered(uri spider.URI) bool {
	for _, f := range e.PreFilters {
		if f.MatchURI(uri) {
			return true
		}
	}
	return false
}

// notify delivers e to the notifier. A panicking notifier never aborts the loop.
func (e *Engine) notify(ev spider.Event) {
	if e.Notifier == nil {
		return
	}
	if ev.Time.IsZero() {
		ev.Time = time.Now()
	}
	defer func() { _ = recover() }()
	e.Notifier.Notify(ev)
}
