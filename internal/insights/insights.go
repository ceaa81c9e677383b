// internal/insights/insights.go

// Package insights derives human-readable risk indicators and prioritized
// recommendations from factor scores and normalized metrics. Everything here
// is a pure function over its inputs; ordering is priority-first and stable
// so identical inputs always render identically.
package insights

import (
	"sort"

	"credit-engine/internal/common/config"
	"credit-engine/internal/models"
)

// Recommendation trigger thresholds.
const (
	paymentHistoryTarget = 0.8
	utilizationTarget    = 0.7
)

// RiskIndicators scans the normalized metrics for the four behavioral risk
// signals, each tagged with a severity and a one-line recommendation.
func RiskIndicators(m models.FinancialMetrics, th config.RiskThresholds) []models.RiskIndicator {
	var out []models.RiskIndicator

	if m.Income.Frequency > 0 && m.Income.Stability < th.IncomeStability {
		out = append(out, models.RiskIndicator{
			Type:           "income_instability",
			Severity:       models.RiskMedium,
			Description:    "Irregular income patterns detected",
			Recommendation: "Consider diversifying income sources",
		})
	}

	if m.Expenditure.Volatility > th.ExpenditureVolatility {
		out = append(out, models.RiskIndicator{
			Type:           "expenditure_volatility",
			Severity:       models.RiskHigh,
			Description:    "High expenditure volatility detected",
			Recommendation: "Create a budget and track expenses",
		})
	}

	if m.Loans.DefaultedLoans > 0 {
		out = append(out, models.RiskIndicator{
			Type:           "loan_defaults",
			Severity:       models.RiskHigh,
			Description:    "Previous loan defaults detected",
			Recommendation: "Focus on improving payment history",
		})
	}

	if m.Loans.Utilization > th.LoanUtilization {
		out = append(out, models.RiskIndicator{
			Type:           "high_loan_utilization",
			Severity:       models.RiskMedium,
			Description:    "High loan utilization detected",
			Recommendation: "Consider paying down existing loans",
		})
	}

	return out
}

// Recommendations produces the prioritized improvement list from factor
// scores and income stability.
func Recommendations(factors []models.CreditFactor, m models.FinancialMetrics, th config.RiskThresholds) []models.Recommendation {
	byName := make(map[models.FactorName]float64, len(factors))
	for _, f := range factors {
		byName[f.Name] = f.Score
	}

	var out []models.Recommendation

	if byName[models.FactorPaymentHistory] < paymentHistoryTarget {
		out = append(out, models.Recommendation{
			Category:    "payment_history",
			Priority:    models.PriorityHigh,
			Title:       "Improve Payment History",
			Description: "Make all loan payments on time to improve your credit score",
			ActionItems: []string{
				"Set up automatic payments",
				"Create payment reminders",
				"Pay at least the minimum amount due",
			},
		})
	}

	if byName[models.FactorCreditUtilization] < utilizationTarget {
		out = append(out, models.Recommendation{
			Category:    "credit_utilization",
			Priority:    models.PriorityMedium,
			Title:       "Reduce Credit Utilization",
			Description: "Keep your credit utilization below 30%",
			ActionItems: []string{
				"Pay down existing balances",
				"Request credit limit increases",
				"Avoid taking on new debt",
			},
		})
	}

	if m.Income.Frequency > 0 && m.Income.Stability < th.IncomeStability {
		out = append(out, models.Recommendation{
			Category:    "income_stability",
			Priority:    models.PriorityMedium,
			Title:       "Stabilize Income",
			Description: "Work on creating more stable income sources",
			ActionItems: []string{
				"Diversify income sources",
				"Build emergency savings",
				"Consider part-time work",
			},
		})
	}

	// Priority-first, construction order within a priority.
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Priority.Rank() < out[j].Priority.Rank()
	})
	return out
}
