package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/fwojciec/spider"
	"github.com/fwojciec/spider/bloom"
	"github.com/fwojciec/spider/crawl"
	"github.com/fwojciec/spider/etree"
	"github.com/fwojciec/spider/filter"
	spiderfs "github.com/fwojciec/spider/fs"
	"github.com/fwojciec/spider/goquery"
	"github.com/fwojciec/spider/htmltomarkdown"
	spiderhttp "github.com/fwojciec/spider/http"
	spiderprom "github.com/fwojciec/spider/prometheus"
	"github.com/fwojciec/spider/readability"
	spiderredis "github.com/fwojciec/spider/redis"
	"github.com/fwojciec/spider/rod"
	spiderslog "github.com/fwojciec/spider/slog"
	"github.com/fwojciec/spider/sqlite"
	"github.com/fwojciec/spider/trafilatura"
	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"
)

// Bloom filter sizing for --dedupe-content.
const (
	dedupeCapacity = 100_000
	dedupeFPRate   = 0.001
)

// Run executes the crawl command.
func (c *CrawlCmd) Run(deps *Dependencies) error {
	seed, err := spider.ParseURI(c.URL)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", spider.ErrorMessage(err))
		return err
	}

	policy := &Policy{}
	if c.Config != "" {
		if policy, err = LoadPolicy(c.Config); err != nil {
			fmt.Fprintf(deps.Stderr, "error: %s\n", spider.ErrorMessage(err))
			return err
		}
		c.apply(policy)
	}
	if c.UserAgent == "" {
		c.UserAgent = spiderhttp.DefaultUserAgent
	}

	traversal, err := spider.ParseTraversal(c.Traversal)
	if err != nil {
		return err
	}

	runID := uuid.New().String()
	ctx := deps.Ctx
	cleanup := context.WithoutCancel(ctx)

	fetcher, closeFetcher, err := c.fetcher(deps)
	if err != nil {
		return err
	}
	defer closeFetcher()

	frontier, queueLen, closeFrontier, err := c.frontier(ctx, runID, traversal)
	if err != nil {
		return err
	}
	defer closeFrontier()

	preFilters, err := c.preFilters(seed, policy)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", spider.ErrorMessage(err))
		return err
	}

	extractors, err := c.extractors()
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", spider.ErrorMessage(err))
		return err
	}

	if err := deps.Runs.CreateRun(ctx, &spider.Run{ID: runID, Seed: seed.String()}); err != nil {
		return fmt.Errorf("record run: %w", err)
	}

	store, finish := c.store(deps, runID, seed)
	counted := &countingStore{next: spiderslog.NewLoggingStore(store, deps.Logger)}

	stats := crawl.NewStats()
	dispatcher := crawl.NewDispatcher(spiderslog.NewEventLogger(deps.Logger), stats)
	dispatcher.OnPanic = func(e spider.Event, err error) {
		deps.Logger.Error("listener failed", "event", e.Type, "uri", e.URI, "err", err)
	}

	var metrics *spiderprom.Metrics
	if c.MetricsAddr != "" {
		metrics = spiderprom.NewMetrics(spiderprom.WithQueueLength(queueLen))
		async := crawl.NewAsyncNotifier(metrics, crawl.DefaultAsyncBuffer)
		defer async.Close()
		dispatcher.Subscribe(async)
	}

	engine := &crawl.Engine{
		Fetcher:       fetcher,
		Store:         counted,
		Frontier:      frontier,
		Extractors:    extractors,
		PreFilters:    preFilters,
		PostFilters:   c.postFilters(),
		Notifier:      dispatcher,
		DownloadLimit: c.Limit,
		RunID:         runID,
	}

	result, runErr := c.run(ctx, engine, seed, metrics, deps)

	if err := finish(runErr); err != nil && runErr == nil {
		runErr = fmt.Errorf("finish store: %w", err)
	}

	upd := spider.RunUpdate{State: "failed"}
	if result != nil {
		upd.Persisted = result.Persisted
		if runErr == nil {
			upd.State = result.State.String()
		}
	}
	if _, err := deps.Runs.FinishRun(cleanup, runID, upd); err != nil {
		deps.Logger.Error("record run result", "run", runID, "err", err)
	}

	if result != nil {
		c.printSummary(deps, result, stats, counted.Bytes())
	}
	if runErr != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", spider.ErrorMessage(runErr))
		return runErr
	}
	return nil
}

// run executes engine and, when metrics is set, serves it alongside.
// A metrics server that fails to start stops the crawl.
func (c *CrawlCmd) run(ctx context.Context, engine *crawl.Engine, seed spider.URI, metrics *spiderprom.Metrics, deps *Dependencies) (*crawl.Result, error) {
	if metrics == nil {
		return engine.Run(ctx, seed.String())
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", metrics.Handler())
	srv := &http.Server{Addr: c.MetricsAddr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	g, gctx := errgroup.WithContext(ctx)
	var result *crawl.Result
	g.Go(func() error {
		deps.Logger.Info("metrics server starting", "addr", c.MetricsAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("metrics server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
			defer cancel()
			_ = srv.Shutdown(shutdownCtx)
		}()
		var err error
		result, err = engine.Run(gctx, seed.String())
		return err
	})
	err := g.Wait()
	return result, err
}

// fetcher builds the fetch chain: transport, retries, politeness and logging.
func (c *CrawlCmd) fetcher(deps *Dependencies) (spider.Fetcher, func(), error) {
	var base spider.Fetcher
	closeFn := func() {}

	if c.Browser {
		opts := []rod.Option{rod.WithFetchTimeout(c.Timeout)}
		if c.ChromeBin != "" {
			opts = append(opts, rod.WithBrowserOptions(rod.WithBrowserBin(c.ChromeBin)))
		}
		f, err := rod.NewFetcher(opts...)
		if err != nil {
			fmt.Fprintln(deps.Stderr, "Hint: Chrome or Chromium must be installed")
			return nil, nil, fmt.Errorf("failed to start browser: %w", err)
		}
		base, closeFn = f, func() { _ = f.Close() }
	} else {
		base = spiderhttp.NewFetcher(
			spiderhttp.WithTimeout(c.Timeout),
			spiderhttp.WithUserAgent(c.UserAgent),
		)
	}

	fetcher := base
	if c.Retries > 0 {
		r := crawl.NewRetryFetcher(fetcher)
		r.Delays = backoff(c.Retries)
		r.OnRetry = func(uri spider.URI, attempt int, err error) {
			deps.Logger.Debug("retry", "uri", uri, "attempt", attempt, "err", err)
		}
		fetcher = r
	}
	if c.Rate > 0 {
		fetcher = &crawl.LimitedFetcher{Fetcher: fetcher, Limiter: crawl.NewDomainLimiter(c.Rate)}
	}
	return spiderslog.NewLoggingFetcher(fetcher, deps.Logger), closeFn, nil
}

// backoff returns n exponentially growing delays starting at one second.
func backoff(n int) []time.Duration {
	delays := make([]time.Duration, n)
	for i := range delays {
		delays[i] = time.Second << i
	}
	return delays
}

// frontier builds the in-memory frontier, or a Redis list keyed by run
// when --redis is set. The returned length func feeds the metrics gauge.
func (c *CrawlCmd) frontier(ctx context.Context, runID string, traversal spider.Traversal) (spider.Frontier, func() int, func(), error) {
	if c.Redis == "" {
		f := crawl.NewFrontier(c.Depth, crawl.WithTraversal(traversal), crawl.WithMaxSize(c.MaxQueue))
		return f, f.Len, func() {}, nil
	}

	client := goredis.NewClient(&goredis.Options{Addr: c.Redis})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, nil, nil, fmt.Errorf("connect to redis at %s: %w", c.Redis, err)
	}

	f := spiderredis.NewFrontier(client, c.Depth,
		spiderredis.WithKey(spiderredis.DefaultKey+":"+runID),
		spiderredis.WithTraversal(traversal),
		spiderredis.WithMaxSize(c.MaxQueue),
	)
	queueLen := func() int {
		n, _ := f.Len(context.WithoutCancel(ctx))
		return n
	}
	closeFn := func() {
		_ = f.Clear(context.WithoutCancel(ctx))
		_ = client.Close()
	}
	return f, queueLen, closeFn, nil
}

// store builds the resource store. finish commits file output when the
// run succeeded and discards it otherwise.
func (c *CrawlCmd) store(deps *Dependencies, runID string, seed spider.URI) (spider.ResourceStore, func(runErr error) error) {
	noop := func(error) error { return nil }

	name := c.Name
	if name == "" {
		name = strings.ReplaceAll(seed.Host(), ":", "_")
	}

	switch c.Store {
	case "memory":
		return crawl.NewMemoryStore(), noop
	case "raw":
		s := spiderfs.NewRawStore(c.Out, name)
		return s, atomicFinish(s)
	case "markdown":
		var extractor spider.Extractor = trafilatura.NewExtractor()
		if c.Extractor == "readability" {
			extractor = readability.NewExtractor(readability.WithPageURL(seed.URL()))
		}
		converter := htmltomarkdown.NewConverter(htmltomarkdown.WithDomain(seed.Scheme() + "://" + seed.Host()))
		s := spiderfs.NewMarkdownStore(c.Out, name, extractor, converter)
		return s, atomicFinish(s)
	default:
		return sqlite.NewResourceStore(deps.DB, runID), noop
	}
}

type committer interface {
	Commit() error
	Abort() error
}

func atomicFinish(s committer) func(error) error {
	return func(runErr error) error {
		if runErr != nil {
			return s.Abort()
		}
		return s.Commit()
	}
}

func (c *CrawlCmd) preFilters(seed spider.URI, policy *Policy) ([]spider.PreFilter, error) {
	filters := []spider.PreFilter{filter.NewSchemeFilter()}

	hosts := policy.Hosts
	if c.SameHost {
		hosts = append([]string{seed.Hostname()}, hosts...)
	}
	if len(hosts) > 0 {
		filters = append(filters, filter.NewHostFilter(hosts, policy.Subdomains))
	}
	if c.UnderSeed {
		filters = append(filters, filter.NewBaseURIFilter(seed))
	}
	if c.NoFragments {
		filters = append(filters, filter.FragmentFilter{})
	}
	if c.NoQuery {
		filters = append(filters, filter.QueryFilter{})
	}
	if len(c.Include) > 0 || len(c.Exclude) > 0 {
		p, err := filter.NewPatternFilter(c.Include, c.Exclude)
		if err != nil {
			return nil, err
		}
		filters = append(filters, p)
	}
	if c.Robots {
		filters = append(filters, spiderhttp.NewRobotsFilter(c.UserAgent, c.Timeout))
	}
	return filters, nil
}

func (c *CrawlCmd) postFilters() []spider.PostFilter {
	var filters []spider.PostFilter
	if c.MaxSize > 0 {
		filters = append(filters, filter.MaxSizeFilter{Max: c.MaxSize})
	}
	if len(c.ContentTypes) > 0 {
		filters = append(filters, filter.NewContentTypeFilter(c.ContentTypes...))
	}
	if c.DedupeContent {
		filters = append(filters, bloom.NewDuplicateContentFilter(dedupeCapacity, dedupeFPRate))
	}
	return filters
}

// extractors returns the CSS extractors for HTML followed by the XPath
// extractor for XML documents such as sitemaps.
func (c *CrawlCmd) extractors() ([]spider.LinkExtractor, error) {
	selectors := c.Select
	if len(selectors) == 0 {
		selectors = []string{goquery.DefaultSelector}
	}

	var extractors []spider.LinkExtractor
	for _, sel := range selectors {
		extractors = append(extractors, goquery.NewCSSExtractor(sel))
	}

	x, err := etree.NewXPathExtractor(c.XPath...)
	if err != nil {
		return nil, err
	}
	return append(extractors, x), nil
}

func (c *CrawlCmd) printSummary(deps *Dependencies, result *crawl.Result, stats *crawl.Stats, bytes int) {
	fmt.Fprintf(deps.Stdout, "Run %s\n", result.RunID)
	fmt.Fprintf(deps.Stdout, "%s (%s)\n", crawl.FormatResult(result), crawl.FormatBytes(bytes))

	failed := stats.Failed()
	uris := make([]spider.URI, 0, len(failed))
	for uri := range failed {
		uris = append(uris, uri)
	}
	sort.Slice(uris, func(i, j int) bool { return uris[i].String() < uris[j].String() })
	for _, uri := range uris {
		fmt.Fprintf(deps.Stdout, "  failed %s: %s\n", crawl.TruncateURL(uri.String(), 70), failed[uri])
	}
}

// countingStore tallies persisted body bytes for the summary.
type countingStore struct {
	next spider.ResourceStore

	mu    sync.Mutex
	bytes int
}

func (s *countingStore) Persist(ctx context.Context, res *spider.Resource) error {
	if err := s.next.Persist(ctx, res); err != nil {
		return err
	}
	s.mu.Lock()
	s.bytes += len(res.Body)
	s.mu.Unlock()
	return nil
}

func (s *countingStore) Count() int {
	return s.next.Count()
}

func (s *countingStore) Bytes() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.bytes
}
