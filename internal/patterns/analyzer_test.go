// internal/patterns/analyzer_test.go
package patterns

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"credit-engine/internal/common/config"
	"credit-engine/internal/common/logger"
	"credit-engine/internal/models"
)

// ==========================
// Test Helper Functions
// ==========================

var testNow = time.Date(2025, time.June, 15, 0, 0, 0, 0, time.UTC)

func newAnalyzer(t *testing.T) *Analyzer {
	return New(config.Default().Analysis, logger.NewTestLogger(t))
}

func event(amount float64, ts time.Time) models.FinancialEvent {
	return models.FinancialEvent{
		Amount:    decimal.NewFromFloat(amount),
		Timestamp: ts,
	}
}

func monthlySeries(amounts []float64) []models.FinancialEvent {
	out := make([]models.FinancialEvent, len(amounts))
	for i, a := range amounts {
		out[i] = event(a, testNow.AddDate(0, i-len(amounts), 0))
	}
	return out
}

func dailySeries(amounts []float64) []models.FinancialEvent {
	out := make([]models.FinancialEvent, len(amounts))
	for i, a := range amounts {
		out[i] = event(a, testNow.AddDate(0, 0, i-len(amounts)))
	}
	return out
}

// ==========================
// Tests
// ==========================

func TestAnalyzeCoversAllCategories(t *testing.T) {
	out := newAnalyzer(t).Analyze(models.EventBundle{})
	require.Len(t, out, 4)
	for _, cat := range []models.EventCategory{
		models.CategoryIncome, models.CategoryDeposit,
		models.CategoryExpenditure, models.CategoryWithdrawal,
	} {
		summary, ok := out[cat]
		require.True(t, ok, "missing category %s", cat)
		assert.True(t, summary.InsufficientData)
	}
}

func TestInsufficientDataBelowThreshold(t *testing.T) {
	nine := monthlySeries([]float64{1, 2, 3, 4, 5, 6, 7, 8, 9})
	out := newAnalyzer(t).Analyze(models.EventBundle{Incomes: nine})

	summary := out[models.CategoryIncome]
	assert.True(t, summary.InsufficientData)
	assert.Equal(t, 9, summary.DataPoints)
	assert.Nil(t, summary.Trend)
	assert.Nil(t, summary.Seasonality)
	assert.Nil(t, summary.Frequency)
	assert.Nil(t, summary.Anomalies)
}

func TestThresholdIsInclusive(t *testing.T) {
	ten := monthlySeries([]float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10})
	out := newAnalyzer(t).Analyze(models.EventBundle{Incomes: ten})

	summary := out[models.CategoryIncome]
	assert.False(t, summary.InsufficientData)
	assert.Equal(t, 10, summary.DataPoints)
	require.NotNil(t, summary.Trend)
	require.NotNil(t, summary.Seasonality)
	require.NotNil(t, summary.Frequency)
}

func TestSignificantIncreasingTrend(t *testing.T) {
	amounts := make([]float64, 12)
	for i := range amounts {
		amounts[i] = 1000 + 100*float64(i)
	}
	out := newAnalyzer(t).Analyze(models.EventBundle{Incomes: monthlySeries(amounts)})

	trend := out[models.CategoryIncome].Trend
	require.NotNil(t, trend)
	assert.Equal(t, models.TrendIncreasing, trend.Direction)
	assert.True(t, trend.Significant)
	assert.Greater(t, trend.Slope, 0.0)
	assert.InDelta(t, 1.0, trend.RSquared, 1e-9)
}

func TestSignificantDecreasingTrend(t *testing.T) {
	amounts := make([]float64, 12)
	for i := range amounts {
		amounts[i] = 5000 - 200*float64(i)
	}
	out := newAnalyzer(t).Analyze(models.EventBundle{Expenditures: monthlySeries(amounts)})

	trend := out[models.CategoryExpenditure].Trend
	require.NotNil(t, trend)
	assert.Equal(t, models.TrendDecreasing, trend.Direction)
	assert.True(t, trend.Significant)
}

func TestFlatSeriesIsStable(t *testing.T) {
	amounts := make([]float64, 12)
	for i := range amounts {
		amounts[i] = 1000
	}
	out := newAnalyzer(t).Analyze(models.EventBundle{Incomes: monthlySeries(amounts)})

	trend := out[models.CategoryIncome].Trend
	require.NotNil(t, trend)
	assert.Equal(t, models.TrendStable, trend.Direction)
	assert.False(t, trend.Significant)
	assert.Equal(t, 1.0, trend.PValue)
}

func TestSeasonalityDetectsPeakMonth(t *testing.T) {
	// Two years of monthly data with December triple the baseline.
	events := make([]models.FinancialEvent, 0, 24)
	for year := 2023; year <= 2024; year++ {
		for m := time.January; m <= time.December; m++ {
			amount := 1000.0
			if m == time.December {
				amount = 3000
			}
			events = append(events, event(amount, time.Date(year, m, 5, 0, 0, 0, 0, time.UTC)))
		}
	}
	out := newAnalyzer(t).Analyze(models.EventBundle{Expenditures: events})

	seasonality := out[models.CategoryExpenditure].Seasonality
	require.NotNil(t, seasonality)
	assert.True(t, seasonality.HasSeasonality)
	assert.Equal(t, time.December, seasonality.PeakMonth)
	assert.Greater(t, seasonality.Index[time.December], seasonality.Index[time.January])
}

func TestNoSeasonalityOnUniformAmounts(t *testing.T) {
	events := make([]models.FinancialEvent, 0, 24)
	for year := 2023; year <= 2024; year++ {
		for m := time.January; m <= time.December; m++ {
			events = append(events, event(1000, time.Date(year, m, 5, 0, 0, 0, 0, time.UTC)))
		}
	}
	out := newAnalyzer(t).Analyze(models.EventBundle{Expenditures: events})

	seasonality := out[models.CategoryExpenditure].Seasonality
	require.NotNil(t, seasonality)
	assert.False(t, seasonality.HasSeasonality)
}

func TestFrequencyRegularGapsAreConsistent(t *testing.T) {
	amounts := make([]float64, 12)
	for i := range amounts {
		amounts[i] = 1000
	}
	out := newAnalyzer(t).Analyze(models.EventBundle{Incomes: monthlySeries(amounts)})

	freq := out[models.CategoryIncome].Frequency
	require.NotNil(t, freq)
	assert.Greater(t, freq.AverageGapDays, 27.0)
	assert.Less(t, freq.AverageGapDays, 32.0)
	assert.Greater(t, freq.Consistency, 0.9)
}

func TestAnomalySingleSpikeFlaggedHigh(t *testing.T) {
	amounts := make([]float64, 0, 21)
	for i := 0; i < 20; i++ {
		amounts = append(amounts, 1000)
	}
	amounts = append(amounts, 50000)
	out := newAnalyzer(t).Analyze(models.EventBundle{Withdrawals: dailySeries(amounts)})

	anomalies := out[models.CategoryWithdrawal].Anomalies
	require.Len(t, anomalies, 1)
	assert.Equal(t, 50000.0, anomalies[0].Amount)
	assert.Equal(t, models.SeverityHigh, anomalies[0].Severity)
}

func TestNoAnomaliesOnConstantSeries(t *testing.T) {
	amounts := make([]float64, 15)
	for i := range amounts {
		amounts[i] = 1000
	}
	out := newAnalyzer(t).Analyze(models.EventBundle{Withdrawals: dailySeries(amounts)})

	assert.Empty(t, out[models.CategoryWithdrawal].Anomalies)
}

func TestAnomalyRobustToModerateVariation(t *testing.T) {
	amounts := []float64{950, 1020, 980, 1100, 900, 1050, 990, 1010, 970, 1030, 1060, 940}
	out := newAnalyzer(t).Analyze(models.EventBundle{Withdrawals: dailySeries(amounts)})

	assert.Empty(t, out[models.CategoryWithdrawal].Anomalies)
}
