// Package pipeline sequences normalization, deduplication, classification,
// and the judgment fallback over a batch of postings, and owns every filter
// status transition written to storage.
package pipeline

import (
	"context"
	"errors"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/lpellaton/jobscout/internal/dedup"
	"github.com/lpellaton/jobscout/internal/jobs"
	"github.com/lpellaton/jobscout/internal/metrics"
	"github.com/lpellaton/jobscout/internal/normalize"
)

type outcome int

const (
	outcomePassed outcome = iota
	outcomeRejected
	outcomeAmbiguous
	outcomeDuplicate
	outcomeError
)

// Orchestrator drives the classification pipeline. Classification and
// deduplication run inside a bounded worker pool so a posting blocked on
// the judgment service never stalls the others.
type Orchestrator struct {
	repo        jobs.Repository
	classifier  jobs.Classifier
	judge       jobs.Judge
	normalizer  *normalize.Normalizer
	concurrency int
	logger      *zap.Logger
}

// New builds an Orchestrator. A nil judge disables the fallback stage.
func New(
	repo jobs.Repository,
	classifier jobs.Classifier,
	judge jobs.Judge,
	normalizer *normalize.Normalizer,
	concurrency int,
	logger *zap.Logger,
) *Orchestrator {
	if concurrency <= 0 {
		concurrency = 1
	}
	return &Orchestrator{
		repo:        repo,
		classifier:  classifier,
		judge:       judge,
		normalizer:  normalizer,
		concurrency: concurrency,
		logger:      logger,
	}
}

// Harvest runs every source adapter, one worker per source, and returns the
// normalized postings. A failing source is logged and isolated; it never
// prevents the others from contributing.
func (o *Orchestrator) Harvest(ctx context.Context, adapters []jobs.SourceAdapter) ([]jobs.Posting, jobs.HarvestSummary) {
	var (
		mu        sync.Mutex
		collected []jobs.Posting
		summary   jobs.HarvestSummary
		wg        sync.WaitGroup
	)

	for _, adapter := range adapters {
		wg.Add(1)
		go func(a jobs.SourceAdapter) {
			defer wg.Done()
			raws, err := a.FetchRaw(ctx)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				summary.SourcesFailed = append(summary.SourcesFailed, a.Name())
				o.logger.Warn("source failed", zap.String("source", a.Name()), zap.Error(err))
				return
			}
			summary.SourcesSucceeded = append(summary.SourcesSucceeded, a.Name())
			for _, raw := range raws {
				if raw.URL == "" {
					continue
				}
				if raw.Source == "" {
					raw.Source = a.Name()
				}
				collected = append(collected, o.normalizer.Normalize(raw))
			}
			o.logger.Info("source finished",
				zap.String("source", a.Name()),
				zap.Int("postings", len(raws)),
			)
		}(adapter)
	}
	wg.Wait()

	summary.Collected = len(collected)
	return collected, summary
}

// Run processes a batch of postings: dedup against storage, rule
// classification, optional judgment fallback, then one independent
// persistence transaction per posting. The summary counts partition the
// input exactly; a failure on one posting never aborts the rest.
func (o *Orchestrator) Run(ctx context.Context, postings []jobs.Posting) (jobs.Summary, error) {
	summary := jobs.Summary{RunID: uuid.NewString()}

	seed, err := o.repo.AllFingerprints(ctx)
	if err != nil {
		return summary, err
	}
	tracker := dedup.NewTracker(seed)

	var (
		mu sync.Mutex
		wg sync.WaitGroup
	)
	work := make(chan jobs.Posting)

	workers := o.concurrency
	if workers > len(postings) && len(postings) > 0 {
		workers = len(postings)
	}
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for posting := range work {
				result := o.process(ctx, tracker, posting)
				mu.Lock()
				switch result {
				case outcomePassed:
					summary.Passed++
				case outcomeRejected:
					summary.Rejected++
				case outcomeAmbiguous:
					summary.Ambiguous++
				case outcomeDuplicate:
					summary.Duplicates++
				case outcomeError:
					summary.Errors++
				}
				mu.Unlock()
			}
		}()
	}

	for _, posting := range postings {
		work <- posting
	}
	close(work)
	wg.Wait()

	o.logger.Info("pipeline run complete",
		zap.String("run_id", summary.RunID),
		zap.Int("passed", summary.Passed),
		zap.Int("rejected", summary.Rejected),
		zap.Int("ambiguous", summary.Ambiguous),
		zap.Int("duplicates", summary.Duplicates),
		zap.Int("errors", summary.Errors),
	)
	return summary, nil
}

// process handles one posting end-to-end. Exactly one worker touches a
// given posting, so no synchronization is needed beyond the shared dedup
// tracker and the summary counters.
func (o *Orchestrator) process(ctx context.Context, tracker *dedup.Tracker, posting jobs.Posting) outcome {
	// URL check first: cheapest, no fingerprint computation needed.
	exists, err := o.repo.Exists(ctx, posting.URL)
	if err != nil {
		o.logger.Error("url lookup failed", zap.String("url", posting.URL), zap.Error(err))
		metrics.ObservePosting(posting.Source, "error")
		return outcomeError
	}
	if exists {
		o.logger.Debug("url duplicate skipped", zap.String("url", posting.URL))
		metrics.ObservePosting(posting.Source, "duplicate")
		return outcomeDuplicate
	}

	posting.ContentFingerprint = dedup.Fingerprint(posting.Title, posting.Company, posting.Description)
	if !tracker.AdmitIfNew(posting.ContentFingerprint) {
		o.logger.Debug("content duplicate skipped", zap.String("url", posting.URL))
		metrics.ObservePosting(posting.Source, "duplicate")
		return outcomeDuplicate
	}

	id, err := o.repo.Insert(ctx, posting)
	if err != nil {
		if errors.Is(err, jobs.ErrDuplicateURL) {
			// Lost a race; the unique constraint is the final safety net.
			metrics.ObservePosting(posting.Source, "duplicate")
			return outcomeDuplicate
		}
		o.logger.Error("insert failed", zap.String("url", posting.URL), zap.Error(err))
		metrics.ObservePosting(posting.Source, "error")
		return outcomeError
	}

	decision := o.decide(ctx, posting)

	if err := o.repo.UpdateStatus(ctx, id, decision.Status, decision.Reason); err != nil {
		o.logger.Error("status update failed",
			zap.String("url", posting.URL),
			zap.Int64("id", id),
			zap.Error(err),
		)
		metrics.ObservePosting(posting.Source, "error")
		return outcomeError
	}

	metrics.ObservePosting(posting.Source, string(decision.Status))
	switch decision.Status {
	case jobs.StatusPassed:
		return outcomePassed
	case jobs.StatusRejected:
		return outcomeRejected
	default:
		return outcomeAmbiguous
	}
}

// decide runs the rule stage and, for ambiguous outcomes with the fallback
// enabled, the judgment stage. Only ambiguous postings ever reach the
// judge; a judge error keeps the rule stage's ambiguous disposition.
func (o *Orchestrator) decide(ctx context.Context, posting jobs.Posting) jobs.Decision {
	decision := o.classifier.Classify(posting)
	if decision.Status != jobs.StatusAmbiguous || o.judge == nil {
		return decision
	}

	verdict, err := o.judge.Judge(ctx, posting)
	if err != nil {
		o.logger.Warn("judgment fallback failed; posting stays ambiguous",
			zap.String("url", posting.URL),
			zap.Error(err),
		)
		return decision
	}
	return verdict
}

// Reclassify re-runs the decision stages over postings already in storage
// with the given status. Re-entry is explicit and idempotent: dedup is not
// consulted because the postings are already admitted.
func (o *Orchestrator) Reclassify(ctx context.Context, status jobs.FilterStatus) (jobs.Summary, error) {
	summary := jobs.Summary{RunID: uuid.NewString()}

	postings, err := o.repo.ListByStatus(ctx, status)
	if err != nil {
		return summary, err
	}

	for _, posting := range postings {
		decision := o.decide(ctx, posting)
		if err := o.repo.UpdateStatus(ctx, posting.ID, decision.Status, decision.Reason); err != nil {
			o.logger.Error("status update failed", zap.Int64("id", posting.ID), zap.Error(err))
			summary.Errors++
			continue
		}
		switch decision.Status {
		case jobs.StatusPassed:
			summary.Passed++
		case jobs.StatusRejected:
			summary.Rejected++
		default:
			summary.Ambiguous++
		}
	}

	o.logger.Info("reclassification complete",
		zap.String("run_id", summary.RunID),
		zap.String("input_status", string(status)),
		zap.Int("passed", summary.Passed),
		zap.Int("rejected", summary.Rejected),
		zap.Int("ambiguous", summary.Ambiguous),
		zap.Int("errors", summary.Errors),
	)
	return summary, nil
}
