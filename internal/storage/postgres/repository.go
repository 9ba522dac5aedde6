// Package postgres provides the Postgres-backed posting repository.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/lpellaton/jobscout/internal/jobs"
)

const uniqueViolation = "23505"

// Schema is the DDL applied by the init command. Idempotent.
const Schema = `
CREATE TABLE IF NOT EXISTS postings (
	id                    BIGSERIAL PRIMARY KEY,
	url                   TEXT      NOT NULL UNIQUE,
	content_fingerprint   TEXT      NOT NULL DEFAULT '',
	title                 TEXT      NOT NULL,
	company               TEXT      NOT NULL DEFAULT '',
	city                  TEXT      NOT NULL DEFAULT '',
	canton                TEXT      NOT NULL DEFAULT '',
	description           TEXT      NOT NULL DEFAULT '',
	qualifications        TEXT      NOT NULL DEFAULT '',
	language_requirements TEXT      NOT NULL DEFAULT '',
	experience_level      TEXT      NOT NULL DEFAULT '',
	deadline              TIMESTAMPTZ,
	date_posted           TIMESTAMPTZ,
	source                TEXT      NOT NULL,
	date_scraped          TIMESTAMPTZ NOT NULL,
	filter_status         TEXT      NOT NULL DEFAULT 'unprocessed',
	filter_reason         TEXT      NOT NULL DEFAULT ''
);
CREATE INDEX IF NOT EXISTS postings_filter_status_idx ON postings (filter_status);
CREATE INDEX IF NOT EXISTS postings_fingerprint_idx ON postings (content_fingerprint);
`

// Config controls the connection pool.
type Config struct {
	DSN      string
	MaxConns int32
	MinConns int32
}

type dbPool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Close()
}

// Repository implements jobs.Repository on a pgx pool.
type Repository struct {
	pool dbPool
}

// New connects a Repository using the provided config.
func New(ctx context.Context, cfg Config) (*Repository, error) {
	if cfg.DSN == "" {
		return nil, fmt.Errorf("db.dsn is required")
	}
	poolCfg, err := pgxpool.ParseConfig(cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("parse postgres dsn: %w", err)
	}
	if cfg.MaxConns > 0 {
		poolCfg.MaxConns = cfg.MaxConns
	}
	if cfg.MinConns > 0 {
		poolCfg.MinConns = cfg.MinConns
	}
	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	return &Repository{pool: pool}, nil
}

// NewWithPool constructs a Repository from an existing pool (primarily for
// testing with pgxmock).
func NewWithPool(pool dbPool) (*Repository, error) {
	if pool == nil {
		return nil, fmt.Errorf("pool is required")
	}
	return &Repository{pool: pool}, nil
}

// Close releases the underlying pool resources.
func (r *Repository) Close() {
	if r == nil || r.pool == nil {
		return
	}
	r.pool.Close()
}

// InitSchema applies the schema DDL.
func (r *Repository) InitSchema(ctx context.Context) error {
	if _, err := r.pool.Exec(ctx, Schema); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}
	return nil
}

// Exists reports whether a posting with the URL is stored.
func (r *Repository) Exists(ctx context.Context, url string) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM postings WHERE url = $1)`, url,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("query url exists: %w", err)
	}
	return exists, nil
}

// Insert stores a posting and returns its id. A unique-constraint violation
// on url maps to jobs.ErrDuplicateURL; callers treat it as a duplicate, not
// a crash. The constraint is the last line of defense against races the
// in-memory dedup set cannot see.
func (r *Repository) Insert(ctx context.Context, p jobs.Posting) (int64, error) {
	var id int64
	err := r.pool.QueryRow(ctx, `
INSERT INTO postings (
	url, content_fingerprint, title, company, city, canton,
	description, qualifications, language_requirements, experience_level,
	deadline, date_posted, source, date_scraped, filter_status, filter_reason
) VALUES (
	$1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16
) RETURNING id`,
		p.URL, p.ContentFingerprint, p.Title, p.Company, p.City, p.Canton,
		p.Description, p.Qualifications, p.LanguageRequirements, p.ExperienceLevel,
		p.Deadline, p.DatePosted, p.Source, p.DateScraped, string(p.FilterStatus), p.FilterReason,
	).Scan(&id)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return 0, jobs.ErrDuplicateURL
		}
		return 0, fmt.Errorf("insert posting: %w", err)
	}
	return id, nil
}

// UpdateStatus sets the filter disposition for a posting. One independent
// transaction per posting; no cross-posting rollback.
func (r *Repository) UpdateStatus(ctx context.Context, id int64, status jobs.FilterStatus, reason string) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE postings SET filter_status = $1, filter_reason = $2 WHERE id = $3`,
		string(status), reason, id,
	)
	if err != nil {
		return fmt.Errorf("update filter status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("posting %d not found", id)
	}
	return nil
}

// AllFingerprints returns every stored content fingerprint. Used to seed
// the in-run dedup set.
func (r *Repository) AllFingerprints(ctx context.Context) (map[string]bool, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT content_fingerprint FROM postings WHERE content_fingerprint <> ''`)
	if err != nil {
		return nil, fmt.Errorf("query fingerprints: %w", err)
	}
	defer rows.Close()

	out := make(map[string]bool)
	for rows.Next() {
		var fp string
		if err := rows.Scan(&fp); err != nil {
			return nil, fmt.Errorf("scan fingerprint: %w", err)
		}
		out[fp] = true
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate fingerprints: %w", err)
	}
	return out, nil
}

// CountByStatus counts postings with the given disposition.
func (r *Repository) CountByStatus(ctx context.Context, status jobs.FilterStatus) (int, error) {
	var n int
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM postings WHERE filter_status = $1`, string(status),
	).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count by status: %w", err)
	}
	return n, nil
}

const selectColumns = `
	id, url, content_fingerprint, title, company, city, canton,
	description, qualifications, language_requirements, experience_level,
	deadline, date_posted, source, date_scraped, filter_status, filter_reason`

// ListByStatus returns postings with the given disposition in insert order.
func (r *Repository) ListByStatus(ctx context.Context, status jobs.FilterStatus) ([]jobs.Posting, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT`+selectColumns+` FROM postings WHERE filter_status = $1 ORDER BY id`,
		string(status),
	)
	if err != nil {
		return nil, fmt.Errorf("query by status: %w", err)
	}
	defer rows.Close()

	var out []jobs.Posting
	for rows.Next() {
		p, err := scanPosting(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate postings: %w", err)
	}
	return out, nil
}

// SourceCounts returns the number of stored postings per source.
func (r *Repository) SourceCounts(ctx context.Context) (map[string]int, error) {
	rows, err := r.pool.Query(ctx, `SELECT source, COUNT(*) FROM postings GROUP BY source`)
	if err != nil {
		return nil, fmt.Errorf("query source counts: %w", err)
	}
	defer rows.Close()

	out := make(map[string]int)
	for rows.Next() {
		var source string
		var n int
		if err := rows.Scan(&source, &n); err != nil {
			return nil, fmt.Errorf("scan source count: %w", err)
		}
		out[source] = n
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate source counts: %w", err)
	}
	return out, nil
}

// LastScraped returns the most recent scrape timestamp, or nil when the
// table is empty.
func (r *Repository) LastScraped(ctx context.Context) (*time.Time, error) {
	var last *time.Time
	err := r.pool.QueryRow(ctx, `SELECT MAX(date_scraped) FROM postings`).Scan(&last)
	if err != nil {
		return nil, fmt.Errorf("query last scraped: %w", err)
	}
	return last, nil
}

func scanPosting(rows pgx.Rows) (jobs.Posting, error) {
	var p jobs.Posting
	var status string
	err := rows.Scan(
		&p.ID, &p.URL, &p.ContentFingerprint, &p.Title, &p.Company, &p.City, &p.Canton,
		&p.Description, &p.Qualifications, &p.LanguageRequirements, &p.ExperienceLevel,
		&p.Deadline, &p.DatePosted, &p.Source, &p.DateScraped, &status, &p.FilterReason,
	)
	if err != nil {
		return jobs.Posting{}, fmt.Errorf("scan posting: %w", err)
	}
	p.FilterStatus = jobs.FilterStatus(status)
	return p, nil
}
