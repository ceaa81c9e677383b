// internal/insights/insights_test.go
package insights

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"credit-engine/internal/common/config"
	"credit-engine/internal/models"
)

var thresholds = config.Default().Analysis.Risk

func factor(name models.FactorName, score float64) models.CreditFactor {
	w := models.FactorWeight(name)
	return models.CreditFactor{Name: name, Score: score, Weight: w, WeightedScore: score * w}
}

func indicatorTypes(out []models.RiskIndicator) []string {
	types := make([]string, len(out))
	for i, ind := range out {
		types[i] = ind.Type
	}
	return types
}

func TestRiskIndicatorsCleanProfile(t *testing.T) {
	var m models.FinancialMetrics
	m.Income.Frequency = 12
	m.Income.Stability = 0.9
	m.Expenditure.Volatility = 0.2
	m.Loans.Utilization = 0.3

	assert.Empty(t, RiskIndicators(m, thresholds))
}

func TestRiskIndicatorsNoDataIsNotInstability(t *testing.T) {
	// Zero income events leaves stability at its zero value; that is
	// unknown, not unstable.
	var m models.FinancialMetrics
	out := RiskIndicators(m, thresholds)
	assert.NotContains(t, indicatorTypes(out), "income_instability")
}

func TestRiskIndicatorsAllFire(t *testing.T) {
	var m models.FinancialMetrics
	m.Income.Frequency = 12
	m.Income.Stability = 0.4
	m.Expenditure.Volatility = 0.9
	m.Loans.DefaultedLoans = 1
	m.Loans.Utilization = 0.95

	out := RiskIndicators(m, thresholds)
	require.Len(t, out, 4)
	assert.ElementsMatch(t, []string{
		"income_instability",
		"expenditure_volatility",
		"loan_defaults",
		"high_loan_utilization",
	}, indicatorTypes(out))
}

func TestRiskIndicatorSeverities(t *testing.T) {
	var m models.FinancialMetrics
	m.Expenditure.Volatility = 0.9
	m.Loans.DefaultedLoans = 2

	out := RiskIndicators(m, thresholds)
	require.Len(t, out, 2)
	for _, ind := range out {
		assert.Equal(t, models.RiskHigh, ind.Severity)
		assert.NotEmpty(t, ind.Description)
		assert.NotEmpty(t, ind.Recommendation)
	}
}

func TestRecommendationsGoodProfile(t *testing.T) {
	factors := []models.CreditFactor{
		factor(models.FactorPaymentHistory, 0.9),
		factor(models.FactorCreditUtilization, 0.8),
	}
	var m models.FinancialMetrics
	m.Income.Frequency = 12
	m.Income.Stability = 0.9

	assert.Empty(t, Recommendations(factors, m, thresholds))
}

func TestRecommendationsOrderedByPriority(t *testing.T) {
	factors := []models.CreditFactor{
		factor(models.FactorPaymentHistory, 0.5),
		factor(models.FactorCreditUtilization, 0.5),
	}
	var m models.FinancialMetrics
	m.Income.Frequency = 12
	m.Income.Stability = 0.4

	out := Recommendations(factors, m, thresholds)
	require.Len(t, out, 3)

	// High priority first, then mediums in construction order.
	assert.Equal(t, "payment_history", out[0].Category)
	assert.Equal(t, models.PriorityHigh, out[0].Priority)
	assert.Equal(t, "credit_utilization", out[1].Category)
	assert.Equal(t, "income_stability", out[2].Category)

	for _, rec := range out {
		assert.NotEmpty(t, rec.Title)
		assert.NotEmpty(t, rec.Description)
		assert.NotEmpty(t, rec.ActionItems)
	}
}

func TestRecommendationsNoIncomeDataSkipsStability(t *testing.T) {
	factors := []models.CreditFactor{
		factor(models.FactorPaymentHistory, 0.9),
		factor(models.FactorCreditUtilization, 0.9),
	}
	var m models.FinancialMetrics // zero income events

	assert.Empty(t, Recommendations(factors, m, thresholds))
}
