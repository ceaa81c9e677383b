// internal/predictor/predictor.go

// Package predictor turns factor scores and normalized metrics into the
// final bounded credit score. The scoring strategy is a two-variant mode
// fixed at construction: trained (a loaded regression estimator) or fallback
// (the deterministic weighted-sum formula). Any trained-path failure
// recovers locally with the fallback formula, so the caller always receives
// a score.
package predictor

import (
	"math"

	"credit-engine/internal/common/logger"
	"credit-engine/internal/common/metrics"
	"credit-engine/internal/models"
)

// FallbackVersion tags results produced by the deterministic formula.
const FallbackVersion = "fallback-1.0"

// Confidence components. Completeness is measured from the data; recency and
// consistency are fixed priors until per-category freshness tracking lands.
const (
	confidenceRecency     = 0.8
	confidenceConsistency = 0.7
	completenessPerSlot   = 0.2
)

// defaultScore is returned by the fallback formula in the (guarded,
// should-not-occur) case of a zero total weight.
const defaultScore = 600

// mode is the scoring strategy. Exactly two variants exist; there is no
// nullable estimator checked ad hoc at call sites.
type mode interface {
	name() string
}

type trainedMode struct {
	est Estimator
}

func (trainedMode) name() string { return "trained" }

type fallbackMode struct{}

func (fallbackMode) name() string { return "fallback" }

type Predictor struct {
	mode mode
	log  logger.Logger
}

// NewTrained builds a predictor around a loaded estimator.
func NewTrained(est Estimator, log logger.Logger) *Predictor {
	return &Predictor{mode: trainedMode{est: est}, log: log}
}

// NewFallback builds a predictor that always uses the deterministic formula.
func NewFallback(log logger.Logger) *Predictor {
	return &Predictor{mode: fallbackMode{}, log: log}
}

// Mode reports the active scoring strategy.
func (p *Predictor) Mode() string {
	return p.mode.name()
}

// Outcome is the predictor's contribution to a ScoreResult.
type Outcome struct {
	Score        int
	Rating       models.Rating
	Confidence   float64
	ModelVersion string
}

// Score produces the clamped credit score, rating and confidence for one
// analysis.
func (p *Predictor) Score(factors []models.CreditFactor, m models.FinancialMetrics) Outcome {
	var raw float64
	var version string

	switch md := p.mode.(type) {
	case trainedMode:
		feats := FeatureVector(factors, m)
		v, err := md.est.Predict(feats)
		if err != nil {
			p.log.Warn("estimator failed, scoring with fallback formula", map[string]interface{}{
				"error": err.Error(),
			})
			metrics.FallbackScores.Inc()
			raw = FallbackScore(factors)
			version = FallbackVersion
		} else {
			raw = v
			version = md.est.Version()
		}
	case fallbackMode:
		metrics.FallbackScores.Inc()
		raw = FallbackScore(factors)
		version = FallbackVersion
	}

	score := clampScore(raw)
	return Outcome{
		Score:        score,
		Rating:       models.RatingFor(score),
		Confidence:   Confidence(m),
		ModelVersion: version,
	}
}

// FeatureVector assembles the fixed-order inputs for the trained estimator:
// the five factor raw scores followed by the behavioral metrics.
func FeatureVector(factors []models.CreditFactor, m models.FinancialMetrics) []float64 {
	byName := make(map[models.FactorName]float64, len(factors))
	for _, f := range factors {
		byName[f.Name] = f.Score
	}
	factorScore := func(name models.FactorName) float64 {
		if v, ok := byName[name]; ok {
			return v
		}
		return 0.5
	}

	return []float64{
		factorScore(models.FactorPaymentHistory),
		factorScore(models.FactorCreditUtilization),
		factorScore(models.FactorCreditLength),
		factorScore(models.FactorNewCredit),
		factorScore(models.FactorCreditMix),
		m.Income.Stability,
		m.Expenditure.Volatility,
		m.Loans.Utilization,
		float64(m.Loans.DefaultedLoans),
		float64(m.Loans.ActiveLoans),
	}
}

// FallbackScore is the deterministic weighted-sum formula:
// 300 + 550 * (sum of weighted scores / sum of weights). It has no hidden
// randomness; identical inputs always produce identical scores.
func FallbackScore(factors []models.CreditFactor) float64 {
	var weighted, weightSum float64
	for _, f := range factors {
		weighted += f.WeightedScore
		weightSum += f.Weight
	}
	if weightSum <= 0 {
		return defaultScore
	}
	normalized := weighted / weightSum
	return models.MinCreditScore + normalized*(models.MaxCreditScore-models.MinCreditScore)
}

// Confidence averages data completeness with the recency and consistency
// priors. Averaging (not multiplying) makes a single missing signal degrade
// confidence linearly rather than catastrophically.
func Confidence(m models.FinancialMetrics) float64 {
	completeness := completenessPerSlot * float64(m.PresentCategories())
	return (completeness + confidenceRecency + confidenceConsistency) / 3
}

func clampScore(raw float64) int {
	if math.IsNaN(raw) {
		return defaultScore
	}
	score := int(math.Round(raw))
	if score < models.MinCreditScore {
		return models.MinCreditScore
	}
	if score > models.MaxCreditScore {
		return models.MaxCreditScore
	}
	return score
}
