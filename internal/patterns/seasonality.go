// internal/patterns/seasonality.go
package patterns

import (
	"time"

	"credit-engine/internal/models"
	"credit-engine/internal/stats"
)

// analyzeSeasonality groups amounts by calendar month and indexes each
// month's mean against the overall mean of the monthly means. Seasonality is
// declared when the index values spread beyond the configured stddev.
func analyzeSeasonality(sorted []models.FinancialEvent, stdDevThreshold float64) models.Seasonality {
	sums := make(map[time.Month]float64)
	counts := make(map[time.Month]int)
	for _, e := range sorted {
		m := e.Timestamp.Month()
		sums[m] += e.AmountValue()
		counts[m]++
	}

	monthlyMeans := make(map[time.Month]float64, len(sums))
	var meanValues []float64
	for m, total := range sums {
		mean := total / float64(counts[m])
		monthlyMeans[m] = mean
		meanValues = append(meanValues, mean)
	}

	overall := stats.Mean(meanValues)
	index := make(map[time.Month]float64, len(monthlyMeans))
	var indexValues []float64
	var peak, low time.Month
	peakVal, lowVal := -1.0, -1.0
	for m := time.January; m <= time.December; m++ {
		mean, ok := monthlyMeans[m]
		if !ok {
			continue
		}
		idx := 0.0
		if overall > 0 {
			idx = mean / overall
		}
		index[m] = idx
		indexValues = append(indexValues, idx)
		if peakVal < 0 || idx > peakVal {
			peakVal, peak = idx, m
		}
		if lowVal < 0 || idx < lowVal {
			lowVal, low = idx, m
		}
	}

	return models.Seasonality{
		Index:          index,
		PeakMonth:      peak,
		LowMonth:       low,
		HasSeasonality: stats.SampleStdDev(indexValues) > stdDevThreshold,
	}
}
