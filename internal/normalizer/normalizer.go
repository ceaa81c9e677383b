// internal/normalizer/normalizer.go

// Package normalizer turns raw per-category event sequences into the typed
// aggregate metrics consumed by the factor calculator, pattern analyzer and
// score predictor. A category with zero events yields zero-valued metrics
// with neutral defaults; downstream stages treat "no data" as a valid,
// low-confidence input rather than an error path.
package normalizer

import (
	"sort"
	"time"

	"credit-engine/internal/common/logger"
	"credit-engine/internal/models"
	"credit-engine/internal/stats"
)

// recentLoanWindow bounds the "recently opened" loan count feeding the
// new-credit factor.
const recentLoanWindow = 90 * 24 * time.Hour

// growthWindow is how many trailing points form the "recent" side of the
// simple growth estimate.
const growthWindow = 3

type Normalizer struct {
	log logger.Logger
}

func New(log logger.Logger) *Normalizer {
	return &Normalizer{log: log}
}

// Normalize computes all category metrics fresh for one analysis call.
// The reference time `now` anchors recency windows so results are
// reproducible in tests.
func (n *Normalizer) Normalize(bundle models.EventBundle, now time.Time) models.FinancialMetrics {
	m := models.FinancialMetrics{
		Income:      n.incomeMetrics(bundle.Incomes),
		Deposits:    n.depositMetrics(bundle.Deposits),
		Expenditure: n.expenditureMetrics(bundle.Expenditures),
		Withdrawals: n.withdrawalMetrics(bundle.Withdrawals),
		Loans:       n.loanMetrics(bundle.Loans, now),
	}
	m.OldestActivity = oldestActivity(bundle)

	n.log.Debug("normalized event bundle", map[string]interface{}{
		"incomes":      m.Income.Frequency,
		"deposits":     m.Deposits.Frequency,
		"expenditures": m.Expenditure.Frequency,
		"withdrawals":  m.Withdrawals.Frequency,
		"loans":        m.Loans.TotalLoans,
	})
	return m
}

func (n *Normalizer) incomeMetrics(events []models.FinancialEvent) models.IncomeMetrics {
	if len(events) == 0 {
		return models.IncomeMetrics{}
	}

	sorted := sortedByTime(events)
	amounts := amountsOf(sorted)
	total := sum(amounts)

	stability := 1.0 // fewer than 2 points is treated as perfectly stable
	if len(amounts) > 1 {
		mean := stats.Mean(amounts)
		if mean > 0 {
			stability = stats.Clamp(1-stats.StdDev(amounts)/mean, 0, 1)
		} else {
			stability = 0
		}
	}

	last := sorted[len(sorted)-1].Timestamp
	return models.IncomeMetrics{
		Total:          total,
		AverageMonthly: total / float64(len(amounts)),
		Stability:      stability,
		Growth:         simpleGrowth(amounts),
		Frequency:      len(amounts),
		LastDate:       &last,
	}
}

// simpleGrowth compares the mean of the trailing points against the mean of
// everything earlier. Guarded: zero when there is no earlier history or the
// earlier mean is not positive.
func simpleGrowth(amounts []float64) float64 {
	if len(amounts) <= growthWindow {
		return 0
	}
	recent := stats.Mean(amounts[len(amounts)-growthWindow:])
	earlier := stats.Mean(amounts[:len(amounts)-growthWindow])
	if earlier <= 0 {
		return 0
	}
	return (recent - earlier) / earlier
}

func (n *Normalizer) depositMetrics(events []models.FinancialEvent) models.DepositMetrics {
	if len(events) == 0 {
		return models.DepositMetrics{}
	}

	sorted := sortedByTime(events)
	amounts := amountsOf(sorted)
	total := sum(amounts)

	consistency := 1.0
	if len(amounts) > 1 {
		mean := stats.Mean(amounts)
		if mean > 0 {
			consistency = stats.Clamp(1-stats.StdDev(amounts)/mean, 0, 1)
		} else {
			consistency = 0
		}
	}

	last := sorted[len(sorted)-1].Timestamp
	return models.DepositMetrics{
		Total:       total,
		Average:     total / float64(len(amounts)),
		Consistency: consistency,
		Frequency:   len(amounts),
		LastDate:    &last,
	}
}

func (n *Normalizer) expenditureMetrics(events []models.FinancialEvent) models.ExpenditureMetrics {
	if len(events) == 0 {
		return models.ExpenditureMetrics{}
	}

	sorted := sortedByTime(events)
	amounts := amountsOf(sorted)
	total := sum(amounts)
	mean := total / float64(len(amounts))

	// Raw coefficient of variation, deliberately unclamped: a volatility
	// above 1 is a meaningful signal for the risk indicators.
	volatility := 0.0
	if len(amounts) > 1 && mean > 0 {
		volatility = stats.StdDev(amounts) / mean
	}

	categories := make(map[string]models.LabelBreakdown)
	for _, e := range sorted {
		label := e.Label
		if label == "" {
			label = "other"
		}
		b := categories[label]
		b.Total += e.AmountValue()
		b.Count++
		categories[label] = b
	}
	for label, b := range categories {
		b.Average = b.Total / float64(b.Count)
		categories[label] = b
	}

	p95 := stats.Percentile(sortedCopy(amounts), 0.95)
	var highValue []models.HighValueFlag
	for _, e := range sorted {
		if e.AmountValue() > p95 {
			highValue = append(highValue, models.HighValueFlag{
				Timestamp: e.Timestamp,
				Amount:    e.AmountValue(),
				Label:     e.Label,
			})
		}
	}

	last := sorted[len(sorted)-1].Timestamp
	return models.ExpenditureMetrics{
		Total:      total,
		Average:    mean,
		Volatility: volatility,
		Categories: categories,
		HighValue:  highValue,
		Frequency:  len(amounts),
		LastDate:   &last,
	}
}

func (n *Normalizer) withdrawalMetrics(events []models.FinancialEvent) models.WithdrawalMetrics {
	if len(events) == 0 {
		return models.WithdrawalMetrics{}
	}

	sorted := sortedByTime(events)
	amounts := amountsOf(sorted)
	total := sum(amounts)

	times := make([]time.Time, len(sorted))
	for i, e := range sorted {
		times[i] = e.Timestamp
	}

	last := sorted[len(sorted)-1].Timestamp
	return models.WithdrawalMetrics{
		Total:     total,
		Average:   total / float64(len(amounts)),
		Frequency: len(amounts),
		Amounts:   amounts,
		Times:     times,
		LastDate:  &last,
	}
}

func (n *Normalizer) loanMetrics(loans []models.LoanRecord, now time.Time) models.LoanMetrics {
	if len(loans) == 0 {
		// Neutral payment history for a user with no loans at all.
		return models.LoanMetrics{PaymentHistoryScore: 0.5}
	}

	m := models.LoanMetrics{TotalLoans: len(loans)}

	var totalLimit float64
	var paymentScores []float64
	for _, loan := range loans {
		m.TotalAmount += loan.Amount.InexactFloat64()
		totalLimit += loan.EffectiveCreditLimit().InexactFloat64()

		if len(loan.Payments) == 0 {
			// No payment history yet: neutral, not punitive.
			paymentScores = append(paymentScores, 0.5)
		} else {
			onTime := 0
			for _, p := range loan.Payments {
				if p.OnTime {
					onTime++
				}
			}
			paymentScores = append(paymentScores, float64(onTime)/float64(len(loan.Payments)))
		}

		switch loan.Status {
		case models.LoanActive:
			m.ActiveLoans++
		case models.LoanClosed:
			m.ClosedLoans++
		case models.LoanDefaulted:
			m.DefaultedLoans++
		}

		if !loan.OpenedAt.IsZero() && now.Sub(loan.OpenedAt) <= recentLoanWindow && !loan.OpenedAt.After(now) {
			m.RecentlyOpened++
		}
	}

	m.PaymentHistoryScore = stats.Mean(paymentScores)
	m.AverageAmount = m.TotalAmount / float64(len(loans))
	if totalLimit > 0 {
		m.Utilization = stats.Clamp(m.TotalAmount/totalLimit, 0, 1)
	}
	return m
}

func oldestActivity(bundle models.EventBundle) *time.Time {
	var oldest time.Time
	consider := func(t time.Time) {
		if t.IsZero() {
			return
		}
		if oldest.IsZero() || t.Before(oldest) {
			oldest = t
		}
	}
	for _, seq := range [][]models.FinancialEvent{
		bundle.Incomes, bundle.Deposits, bundle.Expenditures, bundle.Withdrawals,
	} {
		for _, e := range seq {
			consider(e.Timestamp)
		}
	}
	for _, l := range bundle.Loans {
		consider(l.OpenedAt)
	}
	if oldest.IsZero() {
		return nil
	}
	return &oldest
}

func sortedByTime(events []models.FinancialEvent) []models.FinancialEvent {
	out := make([]models.FinancialEvent, len(events))
	copy(out, events)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Timestamp.Before(out[j].Timestamp)
	})
	return out
}

func amountsOf(events []models.FinancialEvent) []float64 {
	out := make([]float64, len(events))
	for i, e := range events {
		out[i] = e.AmountValue()
	}
	return out
}

func sortedCopy(values []float64) []float64 {
	out := make([]float64, len(values))
	copy(out, values)
	sort.Float64s(out)
	return out
}

func sum(values []float64) float64 {
	s := 0.0
	for _, v := range values {
		s += v
	}
	return s
}
