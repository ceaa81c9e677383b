// internal/patterns/trend.go
package patterns

import (
	"math"

	"credit-engine/internal/models"
	"credit-engine/internal/stats"
)

// analyzeTrend fits amount against sequence index by ordinary least squares.
// A direction is only called when the regression p-value clears the
// significance gate; otherwise the trend reports stable.
func analyzeTrend(amounts []float64) models.Trend {
	x := make([]float64, len(amounts))
	for i := range x {
		x[i] = float64(i)
	}

	reg := stats.LinReg(x, amounts)

	direction := models.TrendStable
	significant := reg.PValue < trendAlpha
	if significant {
		if reg.Slope > 0 {
			direction = models.TrendIncreasing
		} else {
			direction = models.TrendDecreasing
		}
	}

	return models.Trend{
		Direction:   direction,
		Slope:       reg.Slope,
		RSquared:    reg.RSquared,
		PValue:      reg.PValue,
		Strength:    math.Abs(reg.R),
		Significant: significant,
	}
}
