package sources

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"

	"github.com/lpellaton/jobscout/internal/jobs"
)

// JobupConfig drives the search adapter.
type JobupConfig struct {
	BaseURL  string
	Query    string
	Location string
	MaxPages int
}

// JobupAdapter walks jobup.ch search result pages and reads each detail
// page's JSON-LD JobPosting block, which carries structured fields the
// rendered HTML does not expose consistently.
type JobupAdapter struct {
	cfg     JobupConfig
	fetcher jobs.Fetcher
	logger  *zap.Logger
}

// NewJobup builds the adapter.
func NewJobup(cfg JobupConfig, fetcher jobs.Fetcher, logger *zap.Logger) *JobupAdapter {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://www.jobup.ch"
	}
	if cfg.MaxPages <= 0 {
		cfg.MaxPages = 5
	}
	return &JobupAdapter{cfg: cfg, fetcher: fetcher, logger: logger}
}

// Name identifies the adapter in summaries and metrics.
func (a *JobupAdapter) Name() string {
	return "jobup"
}

// FetchRaw pages through search results until a page yields no new detail
// links or MaxPages is reached. A detail page that fails to fetch or parse
// is logged and skipped; the search itself failing is an adapter error.
func (a *JobupAdapter) FetchRaw(ctx context.Context) ([]jobs.RawPosting, error) {
	seen := make(map[string]bool)
	var out []jobs.RawPosting

	for page := 1; page <= a.cfg.MaxPages; page++ {
		links, err := a.searchPage(ctx, page)
		if err != nil {
			if page == 1 {
				return nil, err
			}
			a.logger.Warn("search page failed, stopping pagination",
				zap.Int("page", page), zap.Error(err))
			break
		}

		fresh := 0
		for _, link := range links {
			if seen[link] {
				continue
			}
			seen[link] = true
			fresh++

			raw, err := a.detailPage(ctx, link)
			if err != nil {
				a.logger.Warn("detail page skipped", zap.String("url", link), zap.Error(err))
				continue
			}
			out = append(out, raw)
		}
		if fresh == 0 {
			break
		}
	}
	return out, nil
}

func (a *JobupAdapter) searchURL(page int) string {
	q := url.Values{}
	if a.cfg.Query != "" {
		q.Set("term", a.cfg.Query)
	}
	if a.cfg.Location != "" {
		q.Set("location", a.cfg.Location)
	}
	q.Set("page", fmt.Sprintf("%d", page))
	return strings.TrimRight(a.cfg.BaseURL, "/") + "/en/jobs/?" + q.Encode()
}

// searchPage returns the absolute detail URLs found on one result page.
func (a *JobupAdapter) searchPage(ctx context.Context, page int) ([]string, error) {
	body, err := a.fetcher.Fetch(ctx, a.searchURL(page))
	if err != nil {
		return nil, fmt.Errorf("fetch search page %d: %w", page, err)
	}
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("parse search page %d: %w", page, err)
	}

	base, err := url.Parse(a.cfg.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}

	var links []string
	doc.Find(`a[href*="/jobs/detail/"]`).Each(func(_ int, s *goquery.Selection) {
		href, ok := s.Attr("href")
		if !ok {
			return
		}
		ref, err := url.Parse(href)
		if err != nil {
			return
		}
		links = append(links, base.ResolveReference(ref).String())
	})
	return links, nil
}

// jsonLD mirrors the schema.org JobPosting fields we consume. jobLocation
// appears as either a single object or an array in the wild.
type jsonLD struct {
	Type               string `json:"@type"`
	Title              string `json:"title"`
	Description        string `json:"description"`
	DatePosted         string `json:"datePosted"`
	ValidThrough       string `json:"validThrough"`
	HiringOrganization struct {
		Name string `json:"name"`
	} `json:"hiringOrganization"`
	JobLocation json.RawMessage `json:"jobLocation"`
}

type jsonLDLocation struct {
	Address struct {
		Locality string `json:"addressLocality"`
	} `json:"address"`
}

func (a *JobupAdapter) detailPage(ctx context.Context, link string) (jobs.RawPosting, error) {
	body, err := a.fetcher.Fetch(ctx, link)
	if err != nil {
		return jobs.RawPosting{}, err
	}
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return jobs.RawPosting{}, fmt.Errorf("parse detail page: %w", err)
	}

	var posting *jsonLD
	doc.Find(`script[type="application/ld+json"]`).EachWithBreak(func(_ int, s *goquery.Selection) bool {
		var ld jsonLD
		if err := json.Unmarshal([]byte(s.Text()), &ld); err != nil {
			return true
		}
		if ld.Type != "JobPosting" {
			return true
		}
		posting = &ld
		return false
	})
	if posting == nil {
		return jobs.RawPosting{}, fmt.Errorf("no JobPosting JSON-LD block")
	}

	raw := jobs.RawPosting{
		Title:       posting.Title,
		Company:     posting.HiringOrganization.Name,
		Location:    firstLocality(posting.JobLocation),
		Description: stripHTML(posting.Description),
		DatePosted:  posting.DatePosted,
		Deadline:    posting.ValidThrough,
		URL:         link,
		Source:      a.Name(),
	}
	return raw, nil
}

// firstLocality tolerates both the object and array forms of jobLocation.
func firstLocality(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var many []jsonLDLocation
	if err := json.Unmarshal(raw, &many); err == nil {
		if len(many) > 0 {
			return many[0].Address.Locality
		}
		return ""
	}
	var one jsonLDLocation
	if err := json.Unmarshal(raw, &one); err == nil {
		return one.Address.Locality
	}
	return ""
}

// stripHTML flattens the HTML fragment descriptions JSON-LD carries into
// plain text for classification.
func stripHTML(fragment string) string {
	if fragment == "" {
		return ""
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(fragment))
	if err != nil {
		return fragment
	}
	return strings.TrimSpace(doc.Text())
}
