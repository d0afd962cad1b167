// Package engine wires the context pipeline: classify the query, gather the
// flagged domains concurrently, run the conditional calculators, serialize
// the bounded context text. Only malformed inputs fail a build; everything
// else degrades to a best-effort context string.
package engine

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"strings"
	"time"

	"crm-context-engine/internal/common/config"
	"crm-context-engine/internal/common/database"
	stderrors "crm-context-engine/internal/common/errors"
	"crm-context-engine/internal/common/logger"
	"crm-context-engine/internal/common/metrics"
	"crm-context-engine/internal/engine/finance"
	"crm-context-engine/internal/engine/intent"
	"crm-context-engine/internal/engine/orchestrator"
	"crm-context-engine/internal/engine/render"
	"crm-context-engine/internal/engine/retrieval"
	"crm-context-engine/internal/store"

	"github.com/redis/go-redis/v9"
)

// Engine is the public entry point of the context core.
type Engine struct {
	classifier *intent.Classifier
	orch       *orchestrator.Orchestrator
	renderer   *render.Renderer
	cache      *database.RedisClient
	cacheTTL   time.Duration
	log        logger.Logger
	now        func() time.Time
}

// New builds the engine. cache may be nil to disable the context cache.
func New(reader store.Reader, cache *database.RedisClient, cfg *config.Config, log logger.Logger) *Engine {
	registry := retrieval.New(reader)
	calculator := finance.NewCalculator(reader)

	ttl := time.Duration(cfg.Engine.CacheTTLSeconds) * time.Second
	if ttl <= 0 {
		cache = nil
	}

	return &Engine{
		classifier: intent.NewClassifier(cfg.Capabilities, cfg.Engine.ForecastDays),
		orch:       orchestrator.New(registry, calculator, cfg.Engine, log),
		renderer:   render.New(cfg.Engine.ContextBudget),
		cache:      cache,
		cacheTTL:   ttl,
		log:        log,
		now:        time.Now,
	}
}

// WithClock overrides the clock for the engine and its classifier, for tests.
func (e *Engine) WithClock(now func() time.Time) *Engine {
	e.now = now
	e.classifier.WithClock(now)
	return e
}

// BuildContext turns one free-text query into the bounded context text.
// Only Fatal input errors are returned; retrieval and calculator failures
// degrade to missing or zeroed sections.
func (e *Engine) BuildContext(ctx context.Context, tenantID, query string) (string, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		metrics.ContextBuilds.WithLabelValues("invalid").Inc()
		return "", stderrors.NewInvalidQueryError("empty query text")
	}
	if strings.TrimSpace(tenantID) == "" {
		metrics.ContextBuilds.WithLabelValues("invalid").Inc()
		return "", stderrors.NewInvalidTenantError("empty tenant id")
	}

	start := time.Now()
	key := cacheKey(tenantID, query)

	if cached, ok := e.cacheGet(ctx, key); ok {
		metrics.ContextBuilds.WithLabelValues("cached").Inc()
		return cached, nil
	}

	it := e.classifier.Classify(query)
	now := e.now()

	queries := []retrieval.Query{{TenantID: tenantID, Raw: query, Intent: it, Now: now}}
	if len(it.SubQueries) > 1 {
		// Each sub-question is gathered with its own narrower intent so that
		// filters from one part do not leak into the other.
		queries = queries[:0]
		for _, part := range it.SubQueries {
			queries = append(queries, retrieval.Query{
				TenantID: tenantID,
				Raw:      part,
				Intent:   e.classifier.Classify(part),
				Now:      now,
			})
		}
	}

	result := e.orch.Gather(ctx, queries)
	text := e.renderer.Render(it, result)

	metrics.ContextBuilds.WithLabelValues("ok").Inc()
	metrics.ContextBuildDuration.Observe(time.Since(start).Seconds())
	metrics.ContextSizeBytes.Observe(float64(len(text)))

	e.cacheSet(ctx, key, text)
	return text, nil
}

func (e *Engine) cacheGet(ctx context.Context, key string) (string, bool) {
	if e.cache == nil {
		return "", false
	}
	val, err := e.cache.Get(ctx, key)
	switch {
	case err == nil:
		metrics.ContextCacheHits.WithLabelValues("hit").Inc()
		return val, true
	case errors.Is(err, redis.Nil):
		metrics.ContextCacheHits.WithLabelValues("miss").Inc()
	default:
		metrics.ContextCacheHits.WithLabelValues("error").Inc()
		e.log.Warn("context cache read failed", map[string]interface{}{
			"error": err.Error(),
		})
	}
	return "", false
}

func (e *Engine) cacheSet(ctx context.Context, key, text string) {
	if e.cache == nil {
		return
	}
	if err := e.cache.Set(ctx, key, text, e.cacheTTL); err != nil {
		e.log.Warn("context cache write failed", map[string]interface{}{
			"error": err.Error(),
		})
	}
}

func cacheKey(tenantID, query string) string {
	sum := sha256.Sum256([]byte(strings.ToLower(query)))
	return "context:" + tenantID + ":" + hex.EncodeToString(sum[:16])
}
