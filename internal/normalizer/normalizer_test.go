// internal/normalizer/normalizer_test.go
package normalizer

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"credit-engine/internal/common/logger"
	"credit-engine/internal/models"
)

// ==========================
// Test Helper Functions
// ==========================

var testNow = time.Date(2025, time.June, 15, 0, 0, 0, 0, time.UTC)

func newNormalizer(t *testing.T) *Normalizer {
	return New(logger.NewTestLogger(t))
}

func event(amount float64, ts time.Time) models.FinancialEvent {
	return models.FinancialEvent{
		Amount:    decimal.NewFromFloat(amount),
		Timestamp: ts,
	}
}

func labeledEvent(amount float64, ts time.Time, label string) models.FinancialEvent {
	e := event(amount, ts)
	e.Label = label
	return e
}

func monthlyEvents(amounts []float64) []models.FinancialEvent {
	out := make([]models.FinancialEvent, len(amounts))
	for i, a := range amounts {
		out[i] = event(a, testNow.AddDate(0, i-len(amounts), 0))
	}
	return out
}

func onTimePayments(n int, late int) []models.LoanPayment {
	out := make([]models.LoanPayment, 0, n+late)
	for i := 0; i < n; i++ {
		out = append(out, models.LoanPayment{
			Amount: decimal.NewFromInt(100),
			PaidAt: testNow.AddDate(0, -i, 0),
			OnTime: true,
		})
	}
	for i := 0; i < late; i++ {
		out = append(out, models.LoanPayment{
			Amount: decimal.NewFromInt(100),
			PaidAt: testNow.AddDate(0, -i, -5),
			OnTime: false,
		})
	}
	return out
}

// ==========================
// Tests
// ==========================

func TestNormalizeEmptyBundle(t *testing.T) {
	m := newNormalizer(t).Normalize(models.EventBundle{}, testNow)

	assert.Equal(t, 0, m.Income.Frequency)
	assert.Equal(t, 0, m.Deposits.Frequency)
	assert.Equal(t, 0, m.Expenditure.Frequency)
	assert.Equal(t, 0, m.Withdrawals.Frequency)
	assert.Equal(t, 0, m.Loans.TotalLoans)
	// No loans is neutral payment history, not a penalty.
	assert.Equal(t, 0.5, m.Loans.PaymentHistoryScore)
	assert.Equal(t, 0.0, m.Loans.Utilization)
	assert.Nil(t, m.OldestActivity)
}

func TestIncomeStabilityConstantSeries(t *testing.T) {
	m := newNormalizer(t).Normalize(models.EventBundle{
		Incomes: monthlyEvents([]float64{5000, 5000, 5000, 5000, 5000, 5000}),
	}, testNow)

	assert.Equal(t, 1.0, m.Income.Stability)
	assert.Equal(t, 30000.0, m.Income.Total)
	assert.Equal(t, 5000.0, m.Income.AverageMonthly)
	assert.Equal(t, 6, m.Income.Frequency)
}

func TestIncomeStabilityVolatileSeriesIsClamped(t *testing.T) {
	m := newNormalizer(t).Normalize(models.EventBundle{
		Incomes: monthlyEvents([]float64{100, 10000, 100, 10000, 100, 10000}),
	}, testNow)

	assert.GreaterOrEqual(t, m.Income.Stability, 0.0)
	assert.LessOrEqual(t, m.Income.Stability, 1.0)
	assert.Less(t, m.Income.Stability, 0.5)
}

func TestIncomeSingleEventIsStable(t *testing.T) {
	m := newNormalizer(t).Normalize(models.EventBundle{
		Incomes: []models.FinancialEvent{event(5000, testNow.AddDate(0, -1, 0))},
	}, testNow)

	assert.Equal(t, 1.0, m.Income.Stability)
	assert.Equal(t, 0.0, m.Income.Growth)
}

func TestIncomeGrowth(t *testing.T) {
	// Earlier mean 100, trailing-3 mean 200: growth 1.0.
	m := newNormalizer(t).Normalize(models.EventBundle{
		Incomes: monthlyEvents([]float64{100, 100, 100, 200, 200, 200}),
	}, testNow)

	assert.InDelta(t, 1.0, m.Income.Growth, 1e-12)
}

func TestIncomeGrowthNeedsHistory(t *testing.T) {
	m := newNormalizer(t).Normalize(models.EventBundle{
		Incomes: monthlyEvents([]float64{100, 200, 300}),
	}, testNow)

	assert.Equal(t, 0.0, m.Income.Growth)
}

func TestExpenditureVolatilityAndCategories(t *testing.T) {
	events := []models.FinancialEvent{
		labeledEvent(100, testNow.AddDate(0, -3, 0), "groceries"),
		labeledEvent(300, testNow.AddDate(0, -2, 0), "groceries"),
		labeledEvent(200, testNow.AddDate(0, -1, 0), ""),
	}
	m := newNormalizer(t).Normalize(models.EventBundle{Expenditures: events}, testNow)

	assert.Equal(t, 600.0, m.Expenditure.Total)
	assert.Equal(t, 200.0, m.Expenditure.Average)
	assert.Greater(t, m.Expenditure.Volatility, 0.0)

	groceries := m.Expenditure.Categories["groceries"]
	assert.Equal(t, 400.0, groceries.Total)
	assert.Equal(t, 2, groceries.Count)
	assert.Equal(t, 200.0, groceries.Average)

	// Unlabeled spend lands in "other".
	other := m.Expenditure.Categories["other"]
	assert.Equal(t, 1, other.Count)
	assert.Equal(t, 200.0, other.Total)
}

func TestExpenditureHighValueFlags(t *testing.T) {
	events := make([]models.FinancialEvent, 0, 21)
	for i := 0; i < 20; i++ {
		events = append(events, event(100, testNow.AddDate(0, 0, -i-1)))
	}
	spike := event(1000, testNow.AddDate(0, 0, -21))
	events = append(events, spike)

	m := newNormalizer(t).Normalize(models.EventBundle{Expenditures: events}, testNow)

	assert.Len(t, m.Expenditure.HighValue, 1)
	assert.Equal(t, 1000.0, m.Expenditure.HighValue[0].Amount)
}

func TestWithdrawalsKeepRawSeries(t *testing.T) {
	events := monthlyEvents([]float64{50, 75, 25})
	m := newNormalizer(t).Normalize(models.EventBundle{Withdrawals: events}, testNow)

	assert.Equal(t, 150.0, m.Withdrawals.Total)
	assert.Equal(t, []float64{50, 75, 25}, m.Withdrawals.Amounts)
	assert.Len(t, m.Withdrawals.Times, 3)
	// Series is sorted ascending by time.
	assert.True(t, m.Withdrawals.Times[0].Before(m.Withdrawals.Times[2]))
}

func TestLoanPaymentHistoryAllOnTime(t *testing.T) {
	loans := []models.LoanRecord{{
		Amount:   decimal.NewFromInt(5000),
		Status:   models.LoanActive,
		OpenedAt: testNow.AddDate(-1, 0, 0),
		Payments: onTimePayments(6, 0),
	}}
	m := newNormalizer(t).Normalize(models.EventBundle{Loans: loans}, testNow)

	assert.Equal(t, 1.0, m.Loans.PaymentHistoryScore)
	assert.Equal(t, 1, m.Loans.ActiveLoans)
}

func TestLoanPaymentHistoryMixedLoans(t *testing.T) {
	loans := []models.LoanRecord{
		{
			Amount:   decimal.NewFromInt(5000),
			Status:   models.LoanActive,
			OpenedAt: testNow.AddDate(-1, 0, 0),
			Payments: onTimePayments(2, 2), // 0.5
		},
		{
			Amount:   decimal.NewFromInt(2000),
			Status:   models.LoanClosed,
			OpenedAt: testNow.AddDate(-2, 0, 0),
			Payments: onTimePayments(1, 0), // 1.0
		},
	}
	m := newNormalizer(t).Normalize(models.EventBundle{Loans: loans}, testNow)

	// Per-loan ratios averaged, not pooled payments.
	assert.InDelta(t, 0.75, m.Loans.PaymentHistoryScore, 1e-12)
	assert.Equal(t, 1, m.Loans.ActiveLoans)
	assert.Equal(t, 1, m.Loans.ClosedLoans)
}

func TestLoanWithoutPaymentsIsNeutral(t *testing.T) {
	loans := []models.LoanRecord{{
		Amount:   decimal.NewFromInt(5000),
		Status:   models.LoanActive,
		OpenedAt: testNow.AddDate(0, -1, 0),
	}}
	m := newNormalizer(t).Normalize(models.EventBundle{Loans: loans}, testNow)

	assert.Equal(t, 0.5, m.Loans.PaymentHistoryScore)
}

func TestLoanUtilization(t *testing.T) {
	loans := []models.LoanRecord{{
		Amount:      decimal.NewFromInt(5000),
		CreditLimit: decimal.NewFromInt(10000),
		Status:      models.LoanActive,
		OpenedAt:    testNow.AddDate(-1, 0, 0),
	}}
	m := newNormalizer(t).Normalize(models.EventBundle{Loans: loans}, testNow)

	assert.InDelta(t, 0.5, m.Loans.Utilization, 1e-12)
}

func TestLoanUtilizationDefaultsToFullWithoutLimit(t *testing.T) {
	loans := []models.LoanRecord{{
		Amount:   decimal.NewFromInt(5000),
		Status:   models.LoanActive,
		OpenedAt: testNow.AddDate(-1, 0, 0),
	}}
	m := newNormalizer(t).Normalize(models.EventBundle{Loans: loans}, testNow)

	assert.Equal(t, 1.0, m.Loans.Utilization)
}

func TestRecentlyOpenedLoans(t *testing.T) {
	loans := []models.LoanRecord{
		{Amount: decimal.NewFromInt(1000), Status: models.LoanActive, OpenedAt: testNow.AddDate(0, 0, -30)},
		{Amount: decimal.NewFromInt(1000), Status: models.LoanActive, OpenedAt: testNow.AddDate(0, 0, -120)},
	}
	m := newNormalizer(t).Normalize(models.EventBundle{Loans: loans}, testNow)

	assert.Equal(t, 1, m.Loans.RecentlyOpened)
}

func TestDefaultedLoansCounted(t *testing.T) {
	loans := []models.LoanRecord{
		{Amount: decimal.NewFromInt(1000), Status: models.LoanDefaulted, OpenedAt: testNow.AddDate(-2, 0, 0)},
	}
	m := newNormalizer(t).Normalize(models.EventBundle{Loans: loans}, testNow)

	assert.Equal(t, 1, m.Loans.DefaultedLoans)
}

func TestOldestActivitySpansCategories(t *testing.T) {
	oldest := testNow.AddDate(-3, 0, 0)
	bundle := models.EventBundle{
		Incomes:  []models.FinancialEvent{event(100, testNow.AddDate(0, -1, 0))},
		Deposits: []models.FinancialEvent{event(100, oldest)},
		Loans: []models.LoanRecord{
			{Amount: decimal.NewFromInt(1000), Status: models.LoanActive, OpenedAt: testNow.AddDate(-1, 0, 0)},
		},
	}
	m := newNormalizer(t).Normalize(bundle, testNow)

	assert.NotNil(t, m.OldestActivity)
	assert.True(t, m.OldestActivity.Equal(oldest))
}
