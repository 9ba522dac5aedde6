// Package postgres_test contains unit tests for the postgres repository.
package postgres_test

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lpellaton/jobscout/internal/jobs"
	"github.com/lpellaton/jobscout/internal/storage/postgres"
)

func newMockRepo(t *testing.T) (*postgres.Repository, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)

	repo, err := postgres.NewWithPool(mock)
	require.NoError(t, err)
	return repo, mock
}

func TestNewWithPoolRequiresPool(t *testing.T) {
	t.Parallel()

	_, err := postgres.NewWithPool(nil)
	require.Error(t, err)
}

func TestNewRequiresDSN(t *testing.T) {
	t.Parallel()

	_, err := postgres.New(context.Background(), postgres.Config{})
	require.Error(t, err)
}

func TestInitSchema(t *testing.T) {
	t.Parallel()
	repo, mock := newMockRepo(t)

	mock.ExpectExec("CREATE TABLE IF NOT EXISTS postings").
		WillReturnResult(pgxmock.NewResult("CREATE", 0))

	require.NoError(t, repo.InitSchema(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestExists(t *testing.T) {
	t.Parallel()
	repo, mock := newMockRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT EXISTS (SELECT 1 FROM postings WHERE url = $1)`)).
		WithArgs("https://example.com/1").
		WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(true))

	exists, err := repo.Exists(context.Background(), "https://example.com/1")
	require.NoError(t, err)
	assert.True(t, exists)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestInsertReturnsID(t *testing.T) {
	t.Parallel()
	repo, mock := newMockRepo(t)

	scraped := time.Date(2026, 8, 24, 12, 0, 0, 0, time.UTC)
	posting := jobs.Posting{
		URL:                "https://example.com/1",
		ContentFingerprint: "fp",
		Title:              "Process Engineer",
		Company:            "Givaudan",
		City:               "Geneva",
		Canton:             "GE",
		Description:        "desc",
		Source:             "rss",
		DateScraped:        scraped,
		FilterStatus:       jobs.StatusUnprocessed,
	}

	mock.ExpectQuery("INSERT INTO postings").
		WithArgs(
			posting.URL, posting.ContentFingerprint, posting.Title, posting.Company,
			posting.City, posting.Canton, posting.Description, posting.Qualifications,
			posting.LanguageRequirements, posting.ExperienceLevel,
			posting.Deadline, posting.DatePosted, posting.Source, posting.DateScraped,
			string(posting.FilterStatus), posting.FilterReason,
		).
		WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(int64(7)))

	id, err := repo.Insert(context.Background(), posting)
	require.NoError(t, err)
	assert.Equal(t, int64(7), id)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestInsertUniqueViolationMapsToDuplicate(t *testing.T) {
	t.Parallel()
	repo, mock := newMockRepo(t)

	mock.ExpectQuery("INSERT INTO postings").
		WithArgs(
			pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(),
			pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(),
			pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(),
			pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(),
		).
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "postings_url_key"})

	_, err := repo.Insert(context.Background(), jobs.Posting{URL: "https://example.com/1"})
	assert.ErrorIs(t, err, jobs.ErrDuplicateURL)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestInsertOtherErrorPassesThrough(t *testing.T) {
	t.Parallel()
	repo, mock := newMockRepo(t)

	mock.ExpectQuery("INSERT INTO postings").
		WillReturnError(errors.New("connection reset"))

	_, err := repo.Insert(context.Background(), jobs.Posting{URL: "u"})
	require.Error(t, err)
	assert.NotErrorIs(t, err, jobs.ErrDuplicateURL)
}

func TestUpdateStatus(t *testing.T) {
	t.Parallel()
	repo, mock := newMockRepo(t)

	mock.ExpectExec("UPDATE postings SET filter_status").
		WithArgs("passed", "", int64(3)).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	require.NoError(t, repo.UpdateStatus(context.Background(), 3, jobs.StatusPassed, ""))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateStatusUnknownID(t *testing.T) {
	t.Parallel()
	repo, mock := newMockRepo(t)

	mock.ExpectExec("UPDATE postings SET filter_status").
		WithArgs("passed", "", int64(99)).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	err := repo.UpdateStatus(context.Background(), 99, jobs.StatusPassed, "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestAllFingerprints(t *testing.T) {
	t.Parallel()
	repo, mock := newMockRepo(t)

	mock.ExpectQuery("SELECT content_fingerprint FROM postings").
		WillReturnRows(pgxmock.NewRows([]string{"content_fingerprint"}).
			AddRow("fp-a").
			AddRow("fp-b"))

	fps, err := repo.AllFingerprints(context.Background())
	require.NoError(t, err)
	assert.Equal(t, map[string]bool{"fp-a": true, "fp-b": true}, fps)
}

func TestCountByStatus(t *testing.T) {
	t.Parallel()
	repo, mock := newMockRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT COUNT(*) FROM postings WHERE filter_status = $1`)).
		WithArgs("ambiguous").
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(4))

	n, err := repo.CountByStatus(context.Background(), jobs.StatusAmbiguous)
	require.NoError(t, err)
	assert.Equal(t, 4, n)
}

func TestListByStatusScansRows(t *testing.T) {
	t.Parallel()
	repo, mock := newMockRepo(t)

	scraped := time.Date(2026, 8, 24, 12, 0, 0, 0, time.UTC)
	columns := []string{
		"id", "url", "content_fingerprint", "title", "company", "city", "canton",
		"description", "qualifications", "language_requirements", "experience_level",
		"deadline", "date_posted", "source", "date_scraped", "filter_status", "filter_reason",
	}
	mock.ExpectQuery("SELECT(.|\n)+FROM postings WHERE filter_status").
		WithArgs("passed").
		WillReturnRows(pgxmock.NewRows(columns).AddRow(
			int64(1), "https://example.com/1", "fp", "Process Engineer", "Givaudan",
			"Geneva", "GE", "desc", "", "English", "Entry level",
			(*time.Time)(nil), (*time.Time)(nil), "rss", scraped, "passed", "",
		))

	postings, err := repo.ListByStatus(context.Background(), jobs.StatusPassed)
	require.NoError(t, err)
	require.Len(t, postings, 1)
	assert.Equal(t, int64(1), postings[0].ID)
	assert.Equal(t, jobs.StatusPassed, postings[0].FilterStatus)
	assert.Equal(t, scraped, postings[0].DateScraped)
	assert.Nil(t, postings[0].Deadline)
}

func TestSourceCounts(t *testing.T) {
	t.Parallel()
	repo, mock := newMockRepo(t)

	mock.ExpectQuery("SELECT source, COUNT").
		WillReturnRows(pgxmock.NewRows([]string{"source", "count"}).
			AddRow("rss", 10).
			AddRow("jobup", 3))

	counts, err := repo.SourceCounts(context.Background())
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"rss": 10, "jobup": 3}, counts)
}

func TestLastScraped(t *testing.T) {
	t.Parallel()
	repo, mock := newMockRepo(t)

	last := time.Date(2026, 8, 24, 12, 0, 0, 0, time.UTC)
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT MAX(date_scraped) FROM postings`)).
		WillReturnRows(pgxmock.NewRows([]string{"max"}).AddRow(&last))

	got, err := repo.LastScraped(context.Background())
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, last, *got)
}
