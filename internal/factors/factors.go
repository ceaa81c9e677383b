// internal/factors/factors.go

// Package factors maps normalized financial metrics onto the five weighted
// credit factors. The calculation is a pure function called once per
// analysis; weights are fixed constants and only raw scores vary per user.
package factors

import (
	"time"

	"credit-engine/internal/models"
	"credit-engine/internal/stats"
)

// Defaults used when a signal has no supporting data at all. These mirror
// the neutral priors the scoring model was bootstrapped with.
const (
	defaultCreditLength = 0.7
	defaultNewCredit    = 0.8
	defaultCreditMix    = 0.6
)

// fullLengthYears is the credit-history age at which the length factor
// saturates.
const fullLengthYears = 5.0

// Calculate derives the five credit factors from normalized metrics. The
// reference time anchors the history-length and recent-credit signals.
func Calculate(m models.FinancialMetrics, now time.Time) []models.CreditFactor {
	return []models.CreditFactor{
		newFactor(models.FactorPaymentHistory, paymentHistoryScore(m)),
		newFactor(models.FactorCreditUtilization, utilizationScore(m)),
		newFactor(models.FactorCreditLength, creditLengthScore(m, now)),
		newFactor(models.FactorNewCredit, newCreditScore(m)),
		newFactor(models.FactorCreditMix, creditMixScore(m)),
	}
}

func newFactor(name models.FactorName, raw float64) models.CreditFactor {
	raw = stats.Clamp(raw, 0, 1)
	weight := models.FactorWeight(name)
	return models.CreditFactor{
		Name:          name,
		Score:         raw,
		Weight:        weight,
		WeightedScore: raw * weight,
	}
}

// paymentHistoryScore is the mean per-loan on-time ratio from the
// normalizer; 0.5 (neutral) for a user with no loans.
func paymentHistoryScore(m models.FinancialMetrics) float64 {
	return m.Loans.PaymentHistoryScore
}

// utilizationScore rewards low utilization: 1 - utilization.
func utilizationScore(m models.FinancialMetrics) float64 {
	return 1 - m.Loans.Utilization
}

// creditLengthScore scales the age of the oldest dated activity over a
// five-year horizon. Without any dated activity there is nothing to measure
// and the neutral default applies.
func creditLengthScore(m models.FinancialMetrics, now time.Time) float64 {
	if m.OldestActivity == nil {
		return defaultCreditLength
	}
	age := now.Sub(*m.OldestActivity)
	if age < 0 {
		return defaultCreditLength
	}
	years := age.Hours() / (24 * 365)
	return stats.Clamp(years/fullLengthYears, 0, 1)
}

// newCreditScore penalizes loans opened in the trailing 90 days, 0.1 per
// recent loan with a 0.3 floor. A user with no loans at all keeps the
// neutral default.
func newCreditScore(m models.FinancialMetrics) float64 {
	if m.Loans.TotalLoans == 0 {
		return defaultNewCredit
	}
	score := 1 - 0.1*float64(m.Loans.RecentlyOpened)
	if score < 0.3 {
		score = 0.3
	}
	return score
}

// creditMixScore rewards diversity of product relationships: active credit,
// a repaid-loan track record, and a deposit relationship each count. With no
// credit or deposit activity at all the neutral default applies.
func creditMixScore(m models.FinancialMetrics) float64 {
	kinds := 0
	if m.Loans.ActiveLoans > 0 {
		kinds++
	}
	if m.Loans.ClosedLoans > 0 {
		kinds++
	}
	if m.Deposits.Frequency > 0 {
		kinds++
	}
	if kinds == 0 {
		return defaultCreditMix
	}
	return stats.Clamp(0.4+0.2*float64(kinds), 0, 1)
}

// TotalWeighted sums the weighted scores; with the fixed weights the result
// is directly the [0,1] blend the fallback formula scales into score range.
func TotalWeighted(factors []models.CreditFactor) (weighted, weightSum float64) {
	for _, f := range factors {
		weighted += f.WeightedScore
		weightSum += f.Weight
	}
	return weighted, weightSum
}
