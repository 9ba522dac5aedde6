// Package sources contains the adapters that turn external job boards and
// feeds into raw postings. Adapters are thin: transport policy (robots,
// rate limiting, retries) lives behind the shared fetcher.
package sources

import (
	"bytes"
	"context"
	"fmt"

	"github.com/mmcdole/gofeed"

	"github.com/lpellaton/jobscout/internal/jobs"
)

// RSSAdapter reads a syndicated feed of postings. Many Swiss job boards
// expose saved searches as RSS or Atom; gofeed handles both.
type RSSAdapter struct {
	name    string
	url     string
	fetcher jobs.Fetcher
	parser  *gofeed.Parser
}

// NewRSS builds an adapter for one feed URL.
func NewRSS(name, url string, fetcher jobs.Fetcher) *RSSAdapter {
	return &RSSAdapter{
		name:    name,
		url:     url,
		fetcher: fetcher,
		parser:  gofeed.NewParser(),
	}
}

// Name identifies the adapter in summaries and metrics.
func (a *RSSAdapter) Name() string {
	return a.name
}

// FetchRaw downloads and parses the feed. Items without a link are
// dropped; everything else is passed through for normalization.
func (a *RSSAdapter) FetchRaw(ctx context.Context) ([]jobs.RawPosting, error) {
	body, err := a.fetcher.Fetch(ctx, a.url)
	if err != nil {
		return nil, fmt.Errorf("fetch feed %s: %w", a.url, err)
	}

	feed, err := a.parser.Parse(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("parse feed %s: %w", a.url, err)
	}

	var out []jobs.RawPosting
	for _, item := range feed.Items {
		if item == nil || item.Link == "" {
			continue
		}
		raw := jobs.RawPosting{
			Title:       item.Title,
			Description: item.Description,
			URL:         item.Link,
			Source:      a.name,
		}
		if raw.Description == "" {
			raw.Description = item.Content
		}
		if item.Published != "" {
			raw.DatePosted = item.Published
		}
		if len(item.Authors) > 0 && item.Authors[0] != nil {
			raw.Company = item.Authors[0].Name
		}
		out = append(out, raw)
	}
	return out, nil
}
