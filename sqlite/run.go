package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/fwojciec/spider"
)

// Compile-time interface verification.
var _ spider.RunService = (*RunService)(nil)

// RunService implements spider.RunService using SQLite.
type RunService struct {
	db *DB
}

// NewRunService creates a new RunService.
func NewRunService(db *DB) *RunService {
	return &RunService{db: db}
}

// CreateRun records the start of a run.
func (s *RunService) CreateRun(ctx context.Context, run *spider.Run) error {
	if err := run.Validate(); err != nil {
		return err
	}

	run.StartedAt = time.Now().UTC().Truncate(time.Second)

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO runs (id, seed, started_at)
		VALUES (?, ?, ?)
	`, run.ID, run.Seed, run.StartedAt.Format(time.RFC3339))
	if isUniqueViolation(err) {
		return spider.Errorf(spider.ECONFLICT, "run %s already exists", run.ID)
	}
	return err
}

// FindRunByID retrieves a run by ID.
func (s *RunService) FindRunByID(ctx context.Context, id string) (*spider.Run, error) {
	run, err := scanRun(s.db.QueryRowContext(ctx, `
		SELECT id, seed, state, persisted, started_at, finished_at
		FROM runs
		WHERE id = ?
	`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, spider.Errorf(spider.ENOTFOUND, "run not found")
	}
	return run, err
}

// FindRuns retrieves runs matching the filter, newest first.
func (s *RunService) FindRuns(ctx context.Context, filter spider.RunFilter) ([]*spider.Run, error) {
	var query strings.Builder
	var args []any

	query.WriteString("SELECT id, seed, state, persisted, started_at, finished_at FROM runs WHERE 1=1")

	if filter.Seed != nil {
		query.WriteString(" AND seed = ?")
		args = append(args, *filter.Seed)
	}

	query.WriteString(" ORDER BY started_at DESC, rowid DESC")
	appendPagination(&query, &args, filter.Limit, filter.Offset)

	rows, err := s.db.QueryContext(ctx, query.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []*spider.Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

// FinishRun records the terminal state of a run.
func (s *RunService) FinishRun(ctx context.Context, id string, upd spider.RunUpdate) (*spider.Run, error) {
	finishedAt := time.Now().UTC().Truncate(time.Second)

	result, err := s.db.ExecContext(ctx, `
		UPDATE runs SET state = ?, persisted = ?, finished_at = ?
		WHERE id = ?
	`, upd.State, upd.Persisted, finishedAt.Format(time.RFC3339), id)
	if err != nil {
		return nil, err
	}

	n, err := result.RowsAffected()
	if err != nil {
		return nil, err
	}
	if n == 0 {
		return nil, spider.Errorf(spider.ENOTFOUND, "run not found")
	}

	return s.FindRunByID(ctx, id)
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(row scanner) (*spider.Run, error) {
	var run spider.Run
	var startedAt, finishedAt string

	if err := row.Scan(&run.ID, &run.Seed, &run.State, &run.Persisted, &startedAt, &finishedAt); err != nil {
		return nil, err
	}

	var err error
	if run.StartedAt, err = parseRFC3339(startedAt, "started_at"); err != nil {
		return nil, err
	}
	if finishedAt != "" {
		if run.FinishedAt, err = parseRFC3339(finishedAt, "finished_at"); err != nil {
			return nil, err
		}
	}
	return &run, nil
}
