// Package orchestrator fans retrieval out across the flagged domains. Every
// domain runs in its own goroutine; a failing or panicking domain is isolated
// to an empty result so the remaining domains still reach the caller.
package orchestrator

import (
	"context"
	"fmt"
	"sync"
	"time"

	"crm-context-engine/internal/common/config"
	"crm-context-engine/internal/common/logger"
	"crm-context-engine/internal/common/metrics"
	"crm-context-engine/internal/engine/finance"
	"crm-context-engine/internal/engine/intent"
	"crm-context-engine/internal/engine/retrieval"
)

// Result aggregates everything one context build retrieved: per-domain record
// lists (empty on isolated failure), per-domain aggregate metadata, and the
// optional calculator outputs.
type Result struct {
	Domains  map[string][]retrieval.Record
	Meta     map[string]map[string]interface{}
	Forecast *finance.ForecastResult
	Ratios   *finance.RatiosResult
}

type Orchestrator struct {
	registry   *retrieval.Registry
	calculator *finance.Calculator
	cfg        config.EngineConfig
	log        logger.Logger
}

func New(registry *retrieval.Registry, calculator *finance.Calculator, cfg config.EngineConfig, log logger.Logger) *Orchestrator {
	return &Orchestrator{
		registry:   registry,
		calculator: calculator,
		cfg:        cfg,
		log:        log,
	}
}

// Gather retrieves all flagged domains for every query part concurrently and
// merges the parts by record ID, first occurrence wins. Partial results are
// folded in query order after the fan-out completes, so the merged order
// never depends on goroutine scheduling. The calculators run in the same
// fan-out when any part asks for them.
func (o *Orchestrator) Gather(ctx context.Context, queries []retrieval.Query) *Result {
	result := &Result{
		Domains: map[string][]retrieval.Record{},
		Meta:    map[string]map[string]interface{}{},
	}
	if len(queries) == 0 {
		return result
	}

	var (
		wg sync.WaitGroup
		mu sync.Mutex
	)

	partial := make([]map[string][]retrieval.Record, len(queries))
	partialMeta := make([]map[string]map[string]interface{}, len(queries))
	for i := range queries {
		partial[i] = map[string][]retrieval.Record{}
		partialMeta[i] = map[string]map[string]interface{}{}
	}

	for qi, q := range queries {
		limit := o.limitFor(q.Intent)
		for name, flagged := range q.Intent.Domains {
			if !flagged {
				continue
			}
			fetch, ok := o.registry.Fetcher(name)
			if !ok {
				continue
			}
			wg.Add(1)
			go func(qi int, domain string, q retrieval.Query) {
				defer wg.Done()
				records, meta, err := o.fetchIsolated(ctx, domain, fetch, q, limit)

				mu.Lock()
				defer mu.Unlock()
				if err != nil {
					// A failed domain still shows up, with an empty list.
					partial[qi][domain] = []retrieval.Record{}
					return
				}
				partial[qi][domain] = records
				if len(meta) > 0 {
					partialMeta[qi][domain] = meta
				}
			}(qi, name, q)
		}
	}

	first := queries[0]
	if it := firstWith(queries, func(i *intent.Intent) bool { return i.NeedsForecast }); it != nil {
		wg.Add(1)
		go func() {
			defer wg.Done()
			fc := o.calculator.Forecast(ctx, first.TenantID, it.ForecastDays, first.Now)
			if fc.Err != nil {
				metrics.CalculatorFailures.WithLabelValues("forecast").Inc()
				o.log.Error("cash-flow forecast failed", map[string]interface{}{
					"tenant_id": first.TenantID,
					"error":     fc.Err.Error(),
				})
			}
			mu.Lock()
			result.Forecast = &fc
			mu.Unlock()
		}()
	}
	if it := firstWith(queries, func(i *intent.Intent) bool { return i.NeedsRatios }); it != nil {
		wg.Add(1)
		go func() {
			defer wg.Done()
			start, end := o.ratioWindow(it, first.Now)
			r := o.calculator.Ratios(ctx, first.TenantID, start, end)
			if r.Err != nil {
				metrics.CalculatorFailures.WithLabelValues("ratios").Inc()
				o.log.Error("financial ratios failed", map[string]interface{}{
					"tenant_id": first.TenantID,
					"error":     r.Err.Error(),
				})
			}
			mu.Lock()
			result.Ratios = &r
			mu.Unlock()
		}()
	}

	wg.Wait()

	for qi := range queries {
		for domain, records := range partial[qi] {
			if _, exists := result.Domains[domain]; !exists {
				result.Domains[domain] = []retrieval.Record{}
			}
			result.Domains[domain] = mergeRecords(result.Domains[domain], records)
			if meta := partialMeta[qi][domain]; len(meta) > 0 && result.Meta[domain] == nil {
				result.Meta[domain] = meta
			}
		}
	}
	return result
}

// fetchIsolated runs one domain fetch, converting errors and panics into an
// observed, logged failure.
func (o *Orchestrator) fetchIsolated(ctx context.Context, domain string, fetch retrieval.FetchFunc, q retrieval.Query, limit int) (records []retrieval.Record, meta map[string]interface{}, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
		if err != nil {
			metrics.DomainRetrievalFailures.WithLabelValues(domain).Inc()
			o.log.Error("domain retrieval failed", map[string]interface{}{
				"domain":    domain,
				"tenant_id": q.TenantID,
				"error":     err.Error(),
			})
		}
	}()

	start := time.Now()
	records, meta, err = fetch(ctx, q, limit)
	metrics.DomainRetrievalDuration.WithLabelValues(domain).Observe(time.Since(start).Seconds())
	return records, meta, err
}

// limitFor picks the per-domain record cap: wide for counting, generous for
// listings, tight for plain lookups.
func (o *Orchestrator) limitFor(it *intent.Intent) int {
	switch {
	case it.IsCounting:
		return o.cfg.CountingLimit
	case it.IsListing:
		if it.RequestedCount > 0 && it.RequestedCount < o.cfg.ListingLimit {
			return it.RequestedCount
		}
		return o.cfg.ListingLimit
	default:
		return o.cfg.DefaultLimit
	}
}

func (o *Orchestrator) ratioWindow(it *intent.Intent, now time.Time) (time.Time, time.Time) {
	if it.TimeRange != nil {
		return it.TimeRange.Start, it.TimeRange.End
	}
	days := o.cfg.RatiosPeriod
	if days <= 0 {
		days = 30
	}
	return now.AddDate(0, 0, -days), now
}

func firstWith(queries []retrieval.Query, pred func(*intent.Intent) bool) *intent.Intent {
	for _, q := range queries {
		if pred(q.Intent) {
			return q.Intent
		}
	}
	return nil
}

func mergeRecords(dst, src []retrieval.Record) []retrieval.Record {
	seen := make(map[string]bool, len(dst))
	for _, r := range dst {
		seen[r.ID] = true
	}
	for _, r := range src {
		if !seen[r.ID] {
			seen[r.ID] = true
			dst = append(dst, r)
		}
	}
	return dst
}
