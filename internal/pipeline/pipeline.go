// Package pipeline runs fetch cycles: fetch both metadata resources,
// normalize them, store the results and optionally publish them.
package pipeline

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/couchcryptid/geomag-metadata-service/internal/domain"
	"github.com/couchcryptid/geomag-metadata-service/internal/observability"
	"github.com/couchcryptid/geomag-metadata-service/internal/store"
)

// Fetcher retrieves the raw metadata resources.
type Fetcher interface {
	FetchObservatories(ctx context.Context) (domain.ObservatoriesPayload, error)
	FetchDefinitives(ctx context.Context) (domain.DefinitivePayload, error)
}

// Publisher forwards normalized observatory records downstream.
type Publisher interface {
	Publish(ctx context.Context, records []domain.ObservatoryRecord, fetchedAt time.Time) error
}

// Pipeline orchestrates fetch cycles. It is the only writer of its store.
type Pipeline struct {
	fetcher   Fetcher
	store     *store.Store
	publisher Publisher
	logger    *slog.Logger
	metrics   *observability.Metrics
	reload    chan struct{}
}

// New creates a Pipeline. publisher may be nil to disable publishing.
func New(f Fetcher, s *store.Store, publisher Publisher, logger *slog.Logger, metrics *observability.Metrics) *Pipeline {
	return &Pipeline{
		fetcher:   f,
		store:     s,
		publisher: publisher,
		logger:    logger,
		metrics:   metrics,
		reload:    make(chan struct{}, 1),
	}
}

// CheckReadiness returns nil once both resources have loaded.
func (p *Pipeline) CheckReadiness(ctx context.Context) error {
	return p.store.CheckReadiness(ctx)
}

// Reload requests a new fetch cycle. Requests made while one is already
// queued are coalesced; Reload reports whether this call queued a cycle.
func (p *Pipeline) Reload() bool {
	select {
	case p.reload <- struct{}{}:
		return true
	default:
		return false
	}
}

// Run starts a cycle immediately and another on every reload request until
// ctx is cancelled. A reload that arrives mid-cycle supersedes the running
// cycle, whose late results are discarded by the store.
func (p *Pipeline) Run(ctx context.Context) error {
	p.logger.Info("pipeline started")
	p.metrics.PipelineRunning.Set(1)
	defer p.metrics.PipelineRunning.Set(0)

	for {
		cycleCtx, cancel := context.WithCancel(ctx)
		done := make(chan struct{})
		go func() {
			defer close(done)
			p.Cycle(cycleCtx)
		}()

		select {
		case <-ctx.Done():
			cancel()
			<-done
			p.logger.Info("pipeline stopping", "reason", ctx.Err())
			return nil
		case <-p.reload:
			p.logger.Info("reload requested, superseding running cycle")
			cancel()
			<-done
			continue
		case <-done:
			cancel()
		}

		select {
		case <-ctx.Done():
			p.logger.Info("pipeline stopping", "reason", ctx.Err())
			return nil
		case <-p.reload:
			p.logger.Info("reload requested")
		}
	}
}

// Cycle runs one fetch cycle and returns when both resources have settled.
// The two resources are fetched concurrently and each writes only its own
// slot of the store.
func (p *Pipeline) Cycle(ctx context.Context) {
	gen := p.store.Begin()
	for _, r := range domain.Resources() {
		p.metrics.ResourceState.WithLabelValues(string(r)).Set(float64(domain.StateLoading))
	}
	p.logger.Debug("fetch cycle started", "generation", gen)

	var wg sync.WaitGroup
	wg.Go(func() { p.loadObservatories(ctx, gen) })
	wg.Go(func() { p.loadDefinitives(ctx, gen) })
	wg.Wait()
}

func (p *Pipeline) loadObservatories(ctx context.Context, gen uint64) {
	const res = domain.ResourceObservatories
	start := time.Now()
	payload, err := p.fetcher.FetchObservatories(ctx)
	p.metrics.FetchDuration.WithLabelValues(string(res)).Observe(time.Since(start).Seconds())
	if err != nil {
		p.fail(ctx, gen, res, err)
		return
	}
	p.metrics.FetchRequests.WithLabelValues(string(res), "success").Inc()

	records, report := domain.NormalizeObservatories(payload.Data)
	for _, issue := range report.Issues {
		p.logger.Warn("skipping observatory entry", "error", issue)
	}
	data := store.ObservatoryData{
		Observatories: records,
		Institutes:    domain.NormalizeInstitutes(payload.Data),
		Contacts:      domain.NormalizeContacts(payload.Data),
		Report:        report,
	}
	if !p.store.PutObservatories(ctx, gen, data) {
		p.discard(res, gen)
		return
	}

	p.metrics.ResourceState.WithLabelValues(string(res)).Set(float64(domain.StateLoaded))
	p.metrics.Records.WithLabelValues("observatories").Set(float64(len(records)))
	p.metrics.Records.WithLabelValues("institutes").Set(float64(len(data.Institutes)))
	p.metrics.Records.WithLabelValues("contacts").Set(float64(len(data.Contacts)))
	p.metrics.DroppedEntries.WithLabelValues("no_membership").Add(float64(report.DroppedNoMembership))
	p.metrics.DroppedEntries.WithLabelValues("duplicate").Add(float64(report.DroppedDuplicate))
	p.metrics.DroppedEntries.WithLabelValues("invalid").Add(float64(len(report.Issues)))
	p.metrics.MissingLocation.Set(float64(report.MissingLocation))
	p.logger.Info("observatories loaded",
		"entries", report.Entries,
		"kept", report.Kept,
		"dropped", report.Dropped(),
		"missing_location", report.MissingLocation,
		"institutes", len(data.Institutes),
		"contacts", len(data.Contacts),
	)

	p.publish(ctx, records, p.store.Snapshot().Status(res).UpdatedAt)
}

func (p *Pipeline) loadDefinitives(ctx context.Context, gen uint64) {
	const res = domain.ResourceDefinitives
	start := time.Now()
	payload, err := p.fetcher.FetchDefinitives(ctx)
	p.metrics.FetchDuration.WithLabelValues(string(res)).Observe(time.Since(start).Seconds())
	if err != nil {
		p.fail(ctx, gen, res, err)
		return
	}
	p.metrics.FetchRequests.WithLabelValues(string(res), "success").Inc()

	data := store.NewDefinitiveData(domain.NormalizeDefinitives(payload))
	if !p.store.PutDefinitives(ctx, gen, data) {
		p.discard(res, gen)
		return
	}

	p.metrics.ResourceState.WithLabelValues(string(res)).Set(float64(domain.StateLoaded))
	p.metrics.Records.WithLabelValues("definitives").Set(float64(len(data.Rows)))
	p.logger.Info("definitives loaded", "years", len(data.Catalogue), "rows", len(data.Rows))
}

func (p *Pipeline) fail(ctx context.Context, gen uint64, res domain.Resource, err error) {
	p.metrics.FetchRequests.WithLabelValues(string(res), "error").Inc()
	if !p.store.Fail(ctx, gen, res, err) {
		p.discard(res, gen)
		return
	}
	p.metrics.ResourceState.WithLabelValues(string(res)).Set(float64(domain.StateErrored))
	p.logger.Error("fetch failed", "resource", res, "error", err)
}

func (p *Pipeline) discard(res domain.Resource, gen uint64) {
	p.metrics.StaleResults.Inc()
	p.logger.Debug("discarding stale result", "resource", res, "generation", gen)
}

// publish forwards records to the publisher. Failures are logged and counted
// but never fail the cycle.
func (p *Pipeline) publish(ctx context.Context, records []domain.ObservatoryRecord, fetchedAt time.Time) {
	if p.publisher == nil {
		return
	}
	if err := p.publisher.Publish(ctx, records, fetchedAt); err != nil {
		p.metrics.PublishErrors.Inc()
		p.logger.Error("publish observatories failed", "error", err, "count", len(records))
		return
	}
	p.metrics.PublishedRecords.Add(float64(len(records)))
}
