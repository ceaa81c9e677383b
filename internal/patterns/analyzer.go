// internal/patterns/analyzer.go

// Package patterns runs the per-category time-series diagnostics: linear
// trend with a significance gate, calendar-month seasonality, event-frequency
// statistics and amount-outlier anomalies.
package patterns

import (
	"sort"

	"credit-engine/internal/common/config"
	"credit-engine/internal/common/logger"
	"credit-engine/internal/models"
	"credit-engine/internal/stats"
)

// trendAlpha is the significance level for calling a trend direction.
const trendAlpha = 0.05

type Analyzer struct {
	minPoints         int
	seasonalityStdDev float64
	log               logger.Logger
}

func New(cfg config.AnalysisConfig, log logger.Logger) *Analyzer {
	return &Analyzer{
		minPoints:         cfg.MinDataPoints,
		seasonalityStdDev: cfg.SeasonalityStdDev,
		log:               log,
	}
}

// Analyze produces a PatternSummary for every event category in the bundle.
// Categories below the minimum data-point threshold short-circuit with an
// explicit insufficient-data marker instead of attempting statistics on too
// few samples.
func (a *Analyzer) Analyze(bundle models.EventBundle) map[models.EventCategory]models.PatternSummary {
	out := map[models.EventCategory]models.PatternSummary{
		models.CategoryIncome:      a.analyzeSeries(models.CategoryIncome, bundle.Incomes),
		models.CategoryDeposit:     a.analyzeSeries(models.CategoryDeposit, bundle.Deposits),
		models.CategoryExpenditure: a.analyzeSeries(models.CategoryExpenditure, bundle.Expenditures),
		models.CategoryWithdrawal:  a.analyzeSeries(models.CategoryWithdrawal, bundle.Withdrawals),
	}
	return out
}

func (a *Analyzer) analyzeSeries(category models.EventCategory, events []models.FinancialEvent) models.PatternSummary {
	if len(events) < a.minPoints {
		return models.PatternSummary{
			Category:         category,
			DataPoints:       len(events),
			InsufficientData: true,
		}
	}

	sorted := make([]models.FinancialEvent, len(events))
	copy(sorted, events)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Timestamp.Before(sorted[j].Timestamp)
	})

	amounts := make([]float64, len(sorted))
	for i, e := range sorted {
		amounts[i] = e.AmountValue()
	}

	trend := analyzeTrend(amounts)
	seasonality := analyzeSeasonality(sorted, a.seasonalityStdDev)
	frequency := analyzeFrequency(sorted)
	anomalies := detectAnomalies(sorted, amounts)

	a.log.Debug("category patterns analyzed", map[string]interface{}{
		"category":   category,
		"dataPoints": len(sorted),
		"trend":      trend.Direction,
		"anomalies":  len(anomalies),
	})

	return models.PatternSummary{
		Category:    category,
		DataPoints:  len(sorted),
		Trend:       &trend,
		Seasonality: &seasonality,
		Frequency:   &frequency,
		Anomalies:   anomalies,
	}
}

// analyzeFrequency summarizes the day gaps between consecutive events.
// Consistency is 1 - cv of the gaps, guarded against a zero mean gap.
func analyzeFrequency(sorted []models.FinancialEvent) models.Frequency {
	gaps := make([]float64, 0, len(sorted)-1)
	for i := 1; i < len(sorted); i++ {
		gaps = append(gaps, sorted[i].Timestamp.Sub(sorted[i-1].Timestamp).Hours()/24)
	}

	mean := stats.Mean(gaps)
	std := stats.SampleStdDev(gaps)
	consistency := 0.0
	if mean > 0 {
		consistency = stats.Clamp(1-std/mean, 0, 1)
	}
	return models.Frequency{
		AverageGapDays: mean,
		GapStdDev:      std,
		Consistency:    consistency,
	}
}
