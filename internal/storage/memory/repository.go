// Package memory provides an in-memory Repository for development and tests.
package memory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/lpellaton/jobscout/internal/jobs"
)

// Repository implements jobs.Repository with maps behind a mutex.
type Repository struct {
	mu     sync.RWMutex
	nextID int64
	byID   map[int64]jobs.Posting
	byURL  map[string]int64
}

// New constructs an empty Repository.
func New() *Repository {
	return &Repository{
		nextID: 1,
		byID:   make(map[int64]jobs.Posting),
		byURL:  make(map[string]int64),
	}
}

// Exists reports whether a posting with the URL is stored.
func (r *Repository) Exists(_ context.Context, url string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.byURL[url]
	return ok, nil
}

// Insert stores a posting, enforcing URL uniqueness like the database
// constraint would.
func (r *Repository) Insert(_ context.Context, posting jobs.Posting) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byURL[posting.URL]; ok {
		return 0, jobs.ErrDuplicateURL
	}
	id := r.nextID
	r.nextID++
	posting.ID = id
	r.byID[id] = posting
	r.byURL[posting.URL] = id
	return id, nil
}

// UpdateStatus sets the filter disposition for a stored posting.
func (r *Repository) UpdateStatus(_ context.Context, id int64, status jobs.FilterStatus, reason string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	posting, ok := r.byID[id]
	if !ok {
		return fmt.Errorf("posting %d not found", id)
	}
	posting.FilterStatus = status
	posting.FilterReason = reason
	r.byID[id] = posting
	return nil
}

// AllFingerprints returns the set of stored content fingerprints.
func (r *Repository) AllFingerprints(_ context.Context) (map[string]bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make(map[string]bool, len(r.byID))
	for _, p := range r.byID {
		if p.ContentFingerprint != "" {
			out[p.ContentFingerprint] = true
		}
	}
	return out, nil
}

// CountByStatus counts stored postings with the given disposition.
func (r *Repository) CountByStatus(_ context.Context, status jobs.FilterStatus) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	n := 0
	for _, p := range r.byID {
		if p.FilterStatus == status {
			n++
		}
	}
	return n, nil
}

// ListByStatus returns stored postings with the given disposition.
func (r *Repository) ListByStatus(_ context.Context, status jobs.FilterStatus) ([]jobs.Posting, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []jobs.Posting
	for id := int64(1); id < r.nextID; id++ {
		if p, ok := r.byID[id]; ok && p.FilterStatus == status {
			out = append(out, p)
		}
	}
	return out, nil
}

// SourceCounts returns the number of stored postings per source.
func (r *Repository) SourceCounts(_ context.Context) (map[string]int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make(map[string]int)
	for _, p := range r.byID {
		out[p.Source]++
	}
	return out, nil
}

// LastScraped returns the most recent scrape timestamp, or nil when empty.
func (r *Repository) LastScraped(_ context.Context) (*time.Time, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var last *time.Time
	for _, p := range r.byID {
		if last == nil || p.DateScraped.After(*last) {
			ts := p.DateScraped
			last = &ts
		}
	}
	return last, nil
}
