package sources

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/gocolly/colly/v2"
	"go.uber.org/zap"

	"github.com/lpellaton/jobscout/internal/jobs"
)

// CareerPageConfig describes one company career page and the CSS selectors
// that locate postings on it.
type CareerPageConfig struct {
	Name                string
	Company             string
	URL                 string
	ItemSelector        string
	TitleSelector       string
	LinkSelector        string
	LocationSelector    string
	DescriptionSelector string
}

// CareerPageOptions carries the politeness settings shared with the core
// fetcher so colly traffic behaves the same way.
type CareerPageOptions struct {
	UserAgent     string
	Delay         time.Duration
	Timeout       time.Duration
	RespectRobots bool
}

// CareerPageAdapter scrapes a single company career page with colly. The
// listing page yields title and link per item; when DescriptionSelector is
// set, each linked detail page is visited for the full text.
type CareerPageAdapter struct {
	cfg    CareerPageConfig
	opts   CareerPageOptions
	logger *zap.Logger
}

// NewCareerPage builds the adapter.
func NewCareerPage(cfg CareerPageConfig, opts CareerPageOptions, logger *zap.Logger) *CareerPageAdapter {
	return &CareerPageAdapter{cfg: cfg, opts: opts, logger: logger}
}

// Name identifies the adapter in summaries and metrics.
func (a *CareerPageAdapter) Name() string {
	return a.cfg.Name
}

// FetchRaw crawls the career page. Individual detail pages that fail are
// logged and skipped; only a failure of the listing page itself fails the
// adapter.
func (a *CareerPageAdapter) FetchRaw(ctx context.Context) ([]jobs.RawPosting, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	listing := colly.NewCollector(colly.UserAgent(a.opts.UserAgent))
	listing.IgnoreRobotsTxt = !a.opts.RespectRobots
	if a.opts.Timeout > 0 {
		listing.SetRequestTimeout(a.opts.Timeout)
	}
	if err := listing.Limit(&colly.LimitRule{DomainGlob: "*", Delay: a.opts.Delay}); err != nil {
		return nil, fmt.Errorf("configure limit rule: %w", err)
	}

	var (
		mu   sync.Mutex
		out  []jobs.RawPosting
		errs []error
	)

	detail := listing.Clone()
	detail.OnHTML(a.cfg.DescriptionSelector, func(e *colly.HTMLElement) {
		url := e.Request.URL.String()
		mu.Lock()
		defer mu.Unlock()
		for i := range out {
			if out[i].URL == url {
				out[i].Description = strings.TrimSpace(e.Text)
				return
			}
		}
	})
	detail.OnError(func(r *colly.Response, err error) {
		a.logger.Warn("career page detail failed",
			zap.String("source", a.cfg.Name),
			zap.String("url", r.Request.URL.String()),
			zap.Error(err),
		)
	})

	listing.OnHTML(a.cfg.ItemSelector, func(e *colly.HTMLElement) {
		href := e.ChildAttr(a.cfg.LinkSelector, "href")
		if href == "" {
			return
		}
		raw := jobs.RawPosting{
			Title:    strings.TrimSpace(e.ChildText(a.cfg.TitleSelector)),
			Company:  a.cfg.Company,
			Location: strings.TrimSpace(e.ChildText(a.cfg.LocationSelector)),
			URL:      e.Request.AbsoluteURL(href),
			Source:   a.cfg.Name,
		}
		if raw.Title == "" {
			return
		}
		mu.Lock()
		out = append(out, raw)
		mu.Unlock()

		if a.cfg.DescriptionSelector != "" {
			if err := detail.Visit(raw.URL); err != nil {
				a.logger.Debug("detail visit skipped", zap.String("url", raw.URL), zap.Error(err))
			}
		}
	})
	listing.OnError(func(r *colly.Response, err error) {
		mu.Lock()
		errs = append(errs, fmt.Errorf("fetch %s: %w", r.Request.URL, err))
		mu.Unlock()
	})

	if err := listing.Visit(a.cfg.URL); err != nil {
		return nil, fmt.Errorf("visit career page %s: %w", a.cfg.URL, err)
	}
	listing.Wait()
	detail.Wait()

	if len(errs) > 0 {
		return nil, errs[0]
	}
	return out, nil
}
