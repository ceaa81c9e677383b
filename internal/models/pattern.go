// internal/models/pattern.go
package models

import "time"

// TrendDirection is the outcome of the trend significance test.
type TrendDirection string

const (
	TrendIncreasing TrendDirection = "increasing"
	TrendDecreasing TrendDirection = "decreasing"
	TrendStable     TrendDirection = "stable"
)

// Trend is the linear-trend diagnostic for one category's amount series.
// Direction is only "increasing" or "decreasing" when the regression is
// statistically significant.
type Trend struct {
	Direction   TrendDirection `json:"direction"`
	Slope       float64        `json:"slope"`
	RSquared    float64        `json:"r_squared"`
	PValue      float64        `json:"p_value"`
	Strength    float64        `json:"strength"` // |correlation coefficient|
	Significant bool           `json:"significant"`
}

// Seasonality is the calendar-month index for one category. Index values are
// each month's mean amount divided by the overall mean.
type Seasonality struct {
	Index          map[time.Month]float64 `json:"seasonality_index"`
	PeakMonth      time.Month             `json:"peak_month"`
	LowMonth       time.Month             `json:"low_month"`
	HasSeasonality bool                   `json:"has_seasonality"`
}

// Frequency summarizes inter-event day gaps.
type Frequency struct {
	AverageGapDays float64 `json:"average_frequency_days"`
	GapStdDev      float64 `json:"frequency_std"`
	Consistency    float64 `json:"frequency_consistency"` // 1 - cv, guarded
}

// AnomalySeverity grades a flagged outlier.
type AnomalySeverity string

const (
	SeverityHigh   AnomalySeverity = "high"
	SeverityMedium AnomalySeverity = "medium"
)

// Anomaly is a single outlier event by amount.
type Anomaly struct {
	Timestamp time.Time       `json:"timestamp"`
	Amount    float64         `json:"amount"`
	Severity  AnomalySeverity `json:"severity"`
}

// PatternSummary is the full time-series diagnostic for one category. When a
// category has fewer than the configured minimum data points it short-circuits
// with InsufficientData set and no statistics; callers must treat that as
// "unknown", not "bad".
type PatternSummary struct {
	Category         EventCategory `json:"category"`
	DataPoints       int           `json:"data_points"`
	InsufficientData bool          `json:"insufficient_data,omitempty"`
	Trend            *Trend        `json:"trend,omitempty"`
	Seasonality      *Seasonality  `json:"seasonality,omitempty"`
	Frequency        *Frequency    `json:"frequency,omitempty"`
	Anomalies        []Anomaly     `json:"anomalies,omitempty"`
}
