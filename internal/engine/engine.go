// internal/engine/engine.go

// Package engine orchestrates one analysis call: normalize raw events, score
// the credit factors, run pattern diagnostics, predict the bounded score and
// derive insights, then write the result through the external cache. The
// engine is stateless per call and safe for concurrent use; the only shared
// state is the read-only predictor, swapped atomically on explicit reload.
package engine

import (
	"context"
	"encoding/json"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"credit-engine/internal/common/config"
	"credit-engine/internal/common/logger"
	"credit-engine/internal/common/metrics"
	"credit-engine/internal/factors"
	"credit-engine/internal/insights"
	"credit-engine/internal/models"
	"credit-engine/internal/normalizer"
	"credit-engine/internal/patterns"
	"credit-engine/internal/predictor"
)

// cacheWriteTimeout bounds the fire-and-forget cache write so a stalled
// cache cannot leak goroutines.
const cacheWriteTimeout = 2 * time.Second

// Store is the injected key-value collaborator used to memoize results.
// A cache miss on Get must be reported via a distinguishable error; the
// redis client's Nil error qualifies.
type Store interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error
}

// IsMissFunc lets the engine recognize a store's cache-miss error without
// depending on a concrete client.
type IsMissFunc func(error) bool

type Engine struct {
	cfg      *config.Config
	log      logger.Logger
	store    Store // nil disables caching entirely
	isMiss   IsMissFunc
	norm     *normalizer.Normalizer
	analyzer *patterns.Analyzer
	pred     atomic.Pointer[predictor.Predictor]
}

// New wires an engine. store may be nil when no cache is deployed; isMiss
// may be nil when store is nil.
func New(cfg *config.Config, pred *predictor.Predictor, store Store, isMiss IsMissFunc, log logger.Logger) *Engine {
	e := &Engine{
		cfg:      cfg,
		log:      log,
		store:    store,
		isMiss:   isMiss,
		norm:     normalizer.New(log),
		analyzer: patterns.New(cfg.Analysis, log),
	}
	e.pred.Store(pred)
	return e
}

// SwapPredictor atomically replaces the scoring strategy, used by the
// scheduled estimator reload. In-flight analyses finish on the predictor
// they started with.
func (e *Engine) SwapPredictor(p *predictor.Predictor) {
	e.pred.Store(p)
}

// Mode reports the active scoring strategy ("trained" or "fallback").
func (e *Engine) Mode() string {
	return e.pred.Load().Mode()
}

// AnalyzeUser runs the full pipeline for one user. It always returns a
// complete analysis: missing data surfaces as neutral defaults, low
// confidence and insufficient-data markers, never as an error.
func (e *Engine) AnalyzeUser(ctx context.Context, userID string, bundle models.EventBundle) *models.Analysis {
	start := time.Now()
	now := start.UTC()
	pred := e.pred.Load()

	m := e.norm.Normalize(bundle, now)
	factorScores := factors.Calculate(m, now)
	patternSummaries := e.analyzer.Analyze(bundle)
	outcome := pred.Score(factorScores, m)

	result := models.ScoreResult{
		UserID:          userID,
		AnalysisID:      uuid.NewString(),
		CreditScore:     outcome.Score,
		Rating:          outcome.Rating,
		Confidence:      outcome.Confidence,
		Factors:         factorScores,
		RiskIndicators:  insights.RiskIndicators(m, e.cfg.Analysis.Risk),
		Recommendations: insights.Recommendations(factorScores, m, e.cfg.Analysis.Risk),
		ComputedAt:      now,
		ModelVersion:    outcome.ModelVersion,
	}

	e.log.Info("analysis complete", map[string]interface{}{
		"userId":     userID,
		"analysisId": result.AnalysisID,
		"score":      result.CreditScore,
		"rating":     result.Rating,
		"confidence": result.Confidence,
		"mode":       pred.Mode(),
	})

	metrics.AnalysesCompleted.WithLabelValues(pred.Mode()).Inc()
	metrics.AnalysisDuration.Observe(time.Since(start).Seconds())

	e.cacheResult(ctx, result)

	return &models.Analysis{
		Result:   result,
		Patterns: patternSummaries,
	}
}

// CachedScore returns the memoized result for a user, or nil on a miss.
func (e *Engine) CachedScore(ctx context.Context, userID string) (*models.ScoreResult, error) {
	if e.store == nil {
		return nil, nil
	}
	raw, err := e.store.Get(ctx, e.cacheKey(userID))
	if err != nil {
		if e.isMiss != nil && e.isMiss(err) {
			return nil, nil
		}
		return nil, err
	}
	var result models.ScoreResult
	if err := json.Unmarshal([]byte(raw), &result); err != nil {
		// A corrupt cache entry is treated as a miss; the caller will
		// recompute and overwrite it.
		e.log.Warn("discarding corrupt cached score", map[string]interface{}{
			"userId": userID,
			"error":  err.Error(),
		})
		return nil, nil
	}
	return &result, nil
}

// cacheResult writes the score through the cache without blocking the
// response path. Failures are logged and swallowed; scoring never depends
// on cache availability.
func (e *Engine) cacheResult(ctx context.Context, result models.ScoreResult) {
	if e.store == nil {
		return
	}
	payload, err := json.Marshal(result)
	if err != nil {
		e.log.Error("marshal score for cache", map[string]interface{}{
			"userId": result.UserID,
			"error":  err.Error(),
		})
		return
	}
	key := e.cacheKey(result.UserID)
	ttl := e.cfg.Cache.TTL()

	go func() {
		writeCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), cacheWriteTimeout)
		defer cancel()
		if err := e.store.Set(writeCtx, key, string(payload), ttl); err != nil {
			metrics.CacheWriteFailures.Inc()
			e.log.Warn("cache write failed", map[string]interface{}{
				"userId": result.UserID,
				"key":    key,
				"error":  err.Error(),
			})
		}
	}()
}

func (e *Engine) cacheKey(userID string) string {
	return e.cfg.Cache.KeyPrefix + ":" + userID
}
