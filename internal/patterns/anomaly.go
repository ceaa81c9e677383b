// internal/patterns/anomaly.go
package patterns

import (
	"math"
	"sort"

	"credit-engine/internal/models"
	"credit-engine/internal/stats"
)

const (
	// modifiedZThreshold flags outliers on the robust (median/MAD) score.
	modifiedZThreshold = 3.5
	// zThreshold is the plain z-score cutoff used when MAD degenerates to
	// zero (more than half the amounts identical).
	zThreshold = 3.0
)

// detectAnomalies flags events whose amount is an outlier relative to the
// category's own distribution. Severity is high above the 95th percentile,
// medium otherwise.
func detectAnomalies(sorted []models.FinancialEvent, amounts []float64) []models.Anomaly {
	if len(amounts) < 3 {
		return nil
	}

	ascending := make([]float64, len(amounts))
	copy(ascending, amounts)
	sort.Float64s(ascending)

	p95 := stats.Percentile(ascending, 0.95)
	median := stats.Median(ascending)
	mad := medianAbsDeviation(amounts, median)

	var outlier func(v float64) bool
	if mad > 0 {
		outlier = func(v float64) bool {
			return math.Abs(0.6745*(v-median)/mad) > modifiedZThreshold
		}
	} else {
		mean := stats.Mean(amounts)
		std := stats.StdDev(amounts)
		if std == 0 {
			return nil
		}
		outlier = func(v float64) bool {
			return math.Abs(v-mean)/std > zThreshold
		}
	}

	var anomalies []models.Anomaly
	for i, e := range sorted {
		v := amounts[i]
		if !outlier(v) {
			continue
		}
		severity := models.SeverityMedium
		if v > p95 {
			severity = models.SeverityHigh
		}
		anomalies = append(anomalies, models.Anomaly{
			Timestamp: e.Timestamp,
			Amount:    v,
			Severity:  severity,
		})
	}
	return anomalies
}

func medianAbsDeviation(values []float64, median float64) float64 {
	devs := make([]float64, len(values))
	for i, v := range values {
		devs[i] = math.Abs(v - median)
	}
	sort.Float64s(devs)
	return stats.Median(devs)
}
