package memory_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lpellaton/jobscout/internal/jobs"
	"github.com/lpellaton/jobscout/internal/storage/memory"
)

func TestInsertAndExists(t *testing.T) {
	t.Parallel()

	repo := memory.New()
	ctx := context.Background()

	exists, err := repo.Exists(ctx, "https://example.com/1")
	require.NoError(t, err)
	assert.False(t, exists)

	id, err := repo.Insert(ctx, jobs.Posting{URL: "https://example.com/1", Title: "a"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), id)

	exists, err = repo.Exists(ctx, "https://example.com/1")
	require.NoError(t, err)
	assert.True(t, exists)

	_, err = repo.Insert(ctx, jobs.Posting{URL: "https://example.com/1", Title: "again"})
	assert.ErrorIs(t, err, jobs.ErrDuplicateURL)
}

func TestUpdateStatus(t *testing.T) {
	t.Parallel()

	repo := memory.New()
	ctx := context.Background()

	id, err := repo.Insert(ctx, jobs.Posting{URL: "u", FilterStatus: jobs.StatusUnprocessed})
	require.NoError(t, err)

	require.NoError(t, repo.UpdateStatus(ctx, id, jobs.StatusPassed, ""))

	stored, err := repo.ListByStatus(ctx, jobs.StatusPassed)
	require.NoError(t, err)
	require.Len(t, stored, 1)
	assert.Equal(t, id, stored[0].ID)

	assert.Error(t, repo.UpdateStatus(ctx, 999, jobs.StatusPassed, ""), "unknown id must fail")
}

func TestAllFingerprints(t *testing.T) {
	t.Parallel()

	repo := memory.New()
	ctx := context.Background()

	_, err := repo.Insert(ctx, jobs.Posting{URL: "a", ContentFingerprint: "fp-a"})
	require.NoError(t, err)
	_, err = repo.Insert(ctx, jobs.Posting{URL: "b", ContentFingerprint: "fp-b"})
	require.NoError(t, err)
	_, err = repo.Insert(ctx, jobs.Posting{URL: "c"})
	require.NoError(t, err)

	fps, err := repo.AllFingerprints(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[string]bool{"fp-a": true, "fp-b": true}, fps)
}

func TestCountsAndListOrder(t *testing.T) {
	t.Parallel()

	repo := memory.New()
	ctx := context.Background()

	for _, p := range []jobs.Posting{
		{URL: "1", FilterStatus: jobs.StatusPassed, Source: "rss"},
		{URL: "2", FilterStatus: jobs.StatusPassed, Source: "jobup"},
		{URL: "3", FilterStatus: jobs.StatusRejected, Source: "rss"},
	} {
		_, err := repo.Insert(ctx, p)
		require.NoError(t, err)
	}

	n, err := repo.CountByStatus(ctx, jobs.StatusPassed)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	stored, err := repo.ListByStatus(ctx, jobs.StatusPassed)
	require.NoError(t, err)
	require.Len(t, stored, 2)
	assert.Equal(t, "1", stored[0].URL, "insert order preserved")
	assert.Equal(t, "2", stored[1].URL)

	counts, err := repo.SourceCounts(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"rss": 2, "jobup": 1}, counts)
}

func TestLastScraped(t *testing.T) {
	t.Parallel()

	repo := memory.New()
	ctx := context.Background()

	last, err := repo.LastScraped(ctx)
	require.NoError(t, err)
	assert.Nil(t, last)

	older := time.Date(2026, 8, 20, 0, 0, 0, 0, time.UTC)
	newer := time.Date(2026, 8, 24, 0, 0, 0, 0, time.UTC)
	_, err = repo.Insert(ctx, jobs.Posting{URL: "1", DateScraped: newer})
	require.NoError(t, err)
	_, err = repo.Insert(ctx, jobs.Posting{URL: "2", DateScraped: older})
	require.NoError(t, err)

	last, err = repo.LastScraped(ctx)
	require.NoError(t, err)
	require.NotNil(t, last)
	assert.Equal(t, newer, *last)
}
