package sqlite

import (
	"context"
	"encoding/hex"
	"strings"
	"sync"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/fwojciec/spider"
	"github.com/google/uuid"
)

// Compile-time interface verification.
var _ spider.ResourceStore = (*ResourceStore)(nil)

// ResourceStore persists the resources of a single run.
type ResourceStore struct {
	db    *DB
	runID string

	mu    sync.Mutex
	count int
}

// NewResourceStore creates a store that files resources under runID.
// The run must already exist.
func NewResourceStore(db *DB, runID string) *ResourceStore {
	return &ResourceStore{db: db, runID: runID}
}

// hashContent computes xxHash of content and returns hex string.
func hashContent(content []byte) string {
	h := xxhash.Sum64(content)
	b := make([]byte, 8)
	b[0] = byte(h >> 56)
	b[1] = byte(h >> 48)
	b[2] = byte(h >> 40)
	b[3] = byte(h >> 32)
	b[4] = byte(h >> 24)
	b[5] = byte(h >> 16)
	b[6] = byte(h >> 8)
	b[7] = byte(h)
	return hex.EncodeToString(b)
}

// Persist stores res. Persisting the same URI twice in a run is ECONFLICT.
func (s *ResourceStore) Persist(ctx context.Context, res *spider.Resource) error {
	if res == nil || res.URI.IsZero() {
		return spider.Errorf(spider.EINVALID, "resource URI required")
	}

	fetchedAt := res.FetchedAt
	if fetchedAt.IsZero() {
		fetchedAt = time.Now()
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO resources (id, run_id, uri, depth, status_code, content_type, body, content_hash, position, fetched_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, uuid.New().String(), s.runID, res.URI.String(), res.DepthFound, res.StatusCode, res.ContentType,
		res.Body, hashContent(res.Body), s.count, fetchedAt.UTC().Format(time.RFC3339))
	if err != nil {
		if isUniqueViolation(err) {
			return spider.Errorf(spider.ECONFLICT, "resource %s already persisted", res.URI)
		}
		return err
	}

	s.count++
	return nil
}

// Count returns the number of resources persisted through this store.
func (s *ResourceStore) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.count
}

// FindResources retrieves persisted resources in persistence order.
// Headers are not stored.
func (s *ResourceStore) FindResources(ctx context.Context, filter spider.ResourceFilter) ([]*spider.Resource, error) {
	return FindResources(ctx, s.db, filter)
}

// Compile-time interface verification.
var _ spider.ResourceFinder = (*ResourceService)(nil)

// ResourceService reads back resources across runs.
type ResourceService struct {
	db *DB
}

// NewResourceService creates a new ResourceService.
func NewResourceService(db *DB) *ResourceService {
	return &ResourceService{db: db}
}

// FindResources retrieves resources matching filter.
func (s *ResourceService) FindResources(ctx context.Context, filter spider.ResourceFilter) ([]*spider.Resource, error) {
	return FindResources(ctx, s.db, filter)
}

// FindResources retrieves persisted resources matching filter from db.
func FindResources(ctx context.Context, db *DB, filter spider.ResourceFilter) ([]*spider.Resource, error) {
	var query strings.Builder
	var args []any

	query.WriteString("SELECT uri, depth, status_code, content_type, body, fetched_at FROM resources WHERE 1=1")

	if filter.RunID != nil {
		query.WriteString(" AND run_id = ?")
		args = append(args, *filter.RunID)
	}
	if filter.URI != nil {
		query.WriteString(" AND uri = ?")
		args = append(args, *filter.URI)
	}

	query.WriteString(" ORDER BY run_id, position")
	appendPagination(&query, &args, filter.Limit, filter.Offset)

	rows, err := db.QueryContext(ctx, query.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var resources []*spider.Resource
	for rows.Next() {
		var res spider.Resource
		var uri, fetchedAt string

		if err := rows.Scan(&uri, &res.DepthFound, &res.StatusCode, &res.ContentType, &res.Body, &fetchedAt); err != nil {
			return nil, err
		}
		if res.URI, err = spider.ParseURI(uri); err != nil {
			return nil, err
		}
		if res.FetchedAt, err = parseRFC3339(fetchedAt, "fetched_at"); err != nil {
			return nil, err
		}
		resources = append(resources, &res)
	}
	return resources, rows.Err()
}

// FindResourceByURI retrieves the resource persisted for uri in this run.
func (s *ResourceStore) FindResourceByURI(ctx context.Context, uri spider.URI) (*spider.Resource, error) {
	runID, raw := s.runID, uri.String()
	resources, err := FindResources(ctx, s.db, spider.ResourceFilter{RunID: &runID, URI: &raw, Limit: 1})
	if err != nil {
		return nil, err
	}
	if len(resources) == 0 {
		return nil, spider.Errorf(spider.ENOTFOUND, "resource not found")
	}
	return resources[0], nil
}
