// Package dedup detects duplicate postings via content fingerprints.
//
// Two postings with equal fingerprints are considered the same real-world
// job regardless of URL, which catches re-posts and cross-source mirrors.
package dedup

import (
	"crypto/sha256"
	"encoding/hex"
	"regexp"
	"strings"
	"sync"
)

const descriptionPrefixLen = 500

var (
	punctRe      = regexp.MustCompile(`[!-/:-@\[-` + "`" + `{-~]`)
	whitespaceRe = regexp.MustCompile(`\s+`)
)

// normalize lowercases, strips punctuation, and collapses whitespace so the
// fingerprint ignores formatting noise.
func normalize(text string) string {
	text = strings.ToLower(strings.TrimSpace(text))
	text = punctRe.ReplaceAllString(text, "")
	text = whitespaceRe.ReplaceAllString(text, " ")
	return text
}

// Fingerprint returns the SHA-256 hex digest of the normalized title,
// company, and first 500 characters of the description, concatenated in
// that fixed order. Pure and deterministic.
func Fingerprint(title, company, description string) string {
	if len(description) > descriptionPrefixLen {
		description = description[:descriptionPrefixLen]
	}
	combined := normalize(title) + normalize(company) + normalize(description)
	sum := sha256.Sum256([]byte(combined))
	return hex.EncodeToString(sum[:])
}

// Tracker holds the fingerprints seen so far in a run. It is seeded from
// storage at run start and appended to as postings are admitted; multiple
// workers share one Tracker, so check-and-add is atomic.
type Tracker struct {
	mu   sync.Mutex
	seen map[string]bool
}

// NewTracker builds a Tracker seeded with already-stored fingerprints.
func NewTracker(seed map[string]bool) *Tracker {
	seen := make(map[string]bool, len(seed))
	for fp := range seed {
		seen[fp] = true
	}
	return &Tracker{seen: seen}
}

// AdmitIfNew records the fingerprint and returns true if it was unseen.
// Returns false for duplicates.
func (t *Tracker) AdmitIfNew(fingerprint string) bool {
	if fingerprint == "" {
		return false
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.seen[fingerprint] {
		return false
	}
	t.seen[fingerprint] = true
	return true
}

// Contains reports whether the fingerprint has been seen.
func (t *Tracker) Contains(fingerprint string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.seen[fingerprint]
}
