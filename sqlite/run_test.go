package sqlite_test

import (
	"context"
	"testing"

	"github.com/fwojciec/spider"
	"github.com/fwojciec/spider/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openDB(t *testing.T) *sqlite.DB {
	t.Helper()
	db := sqlite.NewDB(":memory:")
	require.NoError(t, db.Open())
	t.Cleanup(func() { db.Close() })
	return db
}

func TestRunService(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("creates and finds a run", func(t *testing.T) {
		t.Parallel()

		svc := sqlite.NewRunService(openDB(t))
		run := &spider.Run{ID: "run-1", Seed: "https://example.com/"}

		require.NoError(t, svc.CreateRun(ctx, run))
		got, err := svc.FindRunByID(ctx, "run-1")

		require.NoError(t, err)
		assert.Equal(t, "https://example.com/", got.Seed)
		assert.Equal(t, run.StartedAt, got.StartedAt)
		assert.True(t, got.FinishedAt.IsZero())
	})

	t.Run("rejects an invalid run", func(t *testing.T) {
		t.Parallel()

		svc := sqlite.NewRunService(openDB(t))
		err := svc.CreateRun(ctx, &spider.Run{ID: "run-1"})

		assert.Equal(t, spider.EINVALID, spider.ErrorCode(err))
	})

	t.Run("rejects a duplicate run ID", func(t *testing.T) {
		t.Parallel()

		svc := sqlite.NewRunService(openDB(t))
		require.NoError(t, svc.CreateRun(ctx, &spider.Run{ID: "run-1", Seed: "https://a.test/"}))

		err := svc.CreateRun(ctx, &spider.Run{ID: "run-1", Seed: "https://b.test/"})

		assert.Equal(t, spider.ECONFLICT, spider.ErrorCode(err))
	})

	t.Run("returns ENOTFOUND for an unknown run", func(t *testing.T) {
		t.Parallel()

		svc := sqlite.NewRunService(openDB(t))
		_, err := svc.FindRunByID(ctx, "missing")

		assert.Equal(t, spider.ENOTFOUND, spider.ErrorCode(err))
	})

	t.Run("records the terminal state", func(t *testing.T) {
		t.Parallel()

		svc := sqlite.NewRunService(openDB(t))
		require.NoError(t, svc.CreateRun(ctx, &spider.Run{ID: "run-1", Seed: "https://a.test/"}))

		run, err := svc.FinishRun(ctx, "run-1", spider.RunUpdate{State: "frontier exhausted", Persisted: 7})

		require.NoError(t, err)
		assert.Equal(t, "frontier exhausted", run.State)
		assert.Equal(t, 7, run.Persisted)
		assert.False(t, run.FinishedAt.IsZero())
	})

	t.Run("returns ENOTFOUND when finishing an unknown run", func(t *testing.T) {
		t.Parallel()

		svc := sqlite.NewRunService(openDB(t))
		_, err := svc.FinishRun(ctx, "missing", spider.RunUpdate{})

		assert.Equal(t, spider.ENOTFOUND, spider.ErrorCode(err))
	})

	t.Run("filters and paginates runs", func(t *testing.T) {
		t.Parallel()

		svc := sqlite.NewRunService(openDB(t))
		require.NoError(t, svc.CreateRun(ctx, &spider.Run{ID: "r1", Seed: "https://a.test/"}))
		require.NoError(t, svc.CreateRun(ctx, &spider.Run{ID: "r2", Seed: "https://b.test/"}))
		require.NoError(t, svc.CreateRun(ctx, &spider.Run{ID: "r3", Seed: "https://a.test/"}))

		seed := "https://a.test/"
		runs, err := svc.FindRuns(ctx, spider.RunFilter{Seed: &seed})
		require.NoError(t, err)
		assert.Len(t, runs, 2)

		runs, err = svc.FindRuns(ctx, spider.RunFilter{Limit: 1})
		require.NoError(t, err)
		require.Len(t, runs, 1)
		assert.Equal(t, "r3", runs[0].ID)

		runs, err = svc.FindRuns(ctx, spider.RunFilter{Offset: 2})
		require.NoError(t, err)
		require.Len(t, runs, 1)
		assert.Equal(t, "r1", runs[0].ID)
	})
}
