// internal/models/score.go
package models

import "time"

// FactorName identifies one of the five weighted credit factors.
type FactorName string

const (
	FactorPaymentHistory    FactorName = "payment_history"
	FactorCreditUtilization FactorName = "credit_utilization"
	FactorCreditLength      FactorName = "credit_length"
	FactorNewCredit         FactorName = "new_credit"
	FactorCreditMix         FactorName = "credit_mix"
)

// Fixed factor weights, summing to 1.0. These never change at runtime; only
// each factor's raw score varies per user.
const (
	WeightPaymentHistory    = 0.35
	WeightCreditUtilization = 0.30
	WeightCreditLength      = 0.15
	WeightNewCredit         = 0.10
	WeightCreditMix         = 0.10
)

// FactorWeight returns the fixed weight for a factor name.
func FactorWeight(name FactorName) float64 {
	switch name {
	case FactorPaymentHistory:
		return WeightPaymentHistory
	case FactorCreditUtilization:
		return WeightCreditUtilization
	case FactorCreditLength:
		return WeightCreditLength
	case FactorNewCredit:
		return WeightNewCredit
	case FactorCreditMix:
		return WeightCreditMix
	}
	return 0
}

// CreditFactor is one weighted sub-score of the final credit score.
type CreditFactor struct {
	Name          FactorName `json:"name"`
	Score         float64    `json:"score"`  // raw score in [0,1]
	Weight        float64    `json:"weight"` // fixed constant
	WeightedScore float64    `json:"weighted_score"`
}

// Score range bounds. Rating bands are fixed, non-overlapping and cover the
// full [300,850] range.
const (
	MinCreditScore = 300
	MaxCreditScore = 850
)

// Rating is the qualitative band a score falls in.
type Rating string

const (
	RatingExcellent Rating = "excellent" // [750,850]
	RatingGood      Rating = "good"      // [700,749]
	RatingFair      Rating = "fair"      // [650,699]
	RatingPoor      Rating = "poor"      // [600,649]
	RatingVeryPoor  Rating = "very_poor" // [300,599]
)

// RatingFor maps a clamped credit score onto its band.
func RatingFor(score int) Rating {
	switch {
	case score >= 750:
		return RatingExcellent
	case score >= 700:
		return RatingGood
	case score >= 650:
		return RatingFair
	case score >= 600:
		return RatingPoor
	default:
		return RatingVeryPoor
	}
}

// RiskSeverity grades a risk indicator.
type RiskSeverity string

const (
	RiskHigh   RiskSeverity = "high"
	RiskMedium RiskSeverity = "medium"
)

// RiskIndicator is a detected behavioral risk with a one-line recommendation.
type RiskIndicator struct {
	Type           string       `json:"type"`
	Severity       RiskSeverity `json:"severity"`
	Description    string       `json:"description"`
	Recommendation string       `json:"recommendation"`
}

// Priority orders recommendations.
type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

// Rank returns a sortable rank for a priority; lower sorts first.
func (p Priority) Rank() int {
	switch p {
	case PriorityHigh:
		return 0
	case PriorityMedium:
		return 1
	default:
		return 2
	}
}

// Recommendation is one actionable credit-improvement suggestion.
type Recommendation struct {
	Category    string   `json:"category"`
	Priority    Priority `json:"priority"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	ActionItems []string `json:"action_items,omitempty"`
}

// ScoreResult is the complete output of one analysis call. It is created
// fresh per request; the engine holds no long-lived state beyond constants
// and an optional loaded estimator.
type ScoreResult struct {
	UserID          string           `json:"user_id"`
	AnalysisID      string           `json:"analysis_id"`
	CreditScore     int              `json:"credit_score"` // always clamped to [300,850]
	Rating          Rating           `json:"credit_rating"`
	Confidence      float64          `json:"confidence_score"` // [0,1]
	Factors         []CreditFactor   `json:"credit_factors"`
	RiskIndicators  []RiskIndicator  `json:"risk_indicators"`
	Recommendations []Recommendation `json:"recommendations"`
	ComputedAt      time.Time        `json:"computed_at"`
	ModelVersion    string           `json:"model_version"`
}

// Analysis pairs the score with the per-category pattern diagnostics.
type Analysis struct {
	Result   ScoreResult                      `json:"result"`
	Patterns map[EventCategory]PatternSummary `json:"patterns"`
}
