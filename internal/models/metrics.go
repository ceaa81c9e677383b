// internal/models/metrics.go
package models

import "time"

// IncomeMetrics aggregates a user's income events.
type IncomeMetrics struct {
	Total          float64    `json:"total_income"`
	AverageMonthly float64    `json:"average_monthly_income"`
	Stability      float64    `json:"income_stability"` // 1 - cv, clamped [0,1]
	Growth         float64    `json:"income_growth"`
	Frequency      int        `json:"income_frequency"`
	LastDate       *time.Time `json:"last_income_date,omitempty"`
}

// DepositMetrics aggregates a user's deposit events.
type DepositMetrics struct {
	Total       float64    `json:"total_deposits"`
	Average     float64    `json:"average_deposit"`
	Consistency float64    `json:"deposit_consistency"` // 1 - cv, clamped [0,1]
	Frequency   int        `json:"deposit_frequency"`
	LastDate    *time.Time `json:"last_deposit_date,omitempty"`
}

// LabelBreakdown is the per-label slice of expenditure activity.
type LabelBreakdown struct {
	Total   float64 `json:"total"`
	Average float64 `json:"average"`
	Count   int     `json:"count"`
}

// HighValueFlag marks a single expenditure above the user's own 95th
// percentile amount.
type HighValueFlag struct {
	Timestamp time.Time `json:"timestamp"`
	Amount    float64   `json:"amount"`
	Label     string    `json:"label,omitempty"`
}

// ExpenditureMetrics aggregates a user's expenditure events. Volatility here
// is the raw coefficient of variation with no upper clamp, unlike the
// stability scores above.
type ExpenditureMetrics struct {
	Total      float64                   `json:"total_expenditure"`
	Average    float64                   `json:"average_expenditure"`
	Volatility float64                   `json:"expenditure_volatility"`
	Categories map[string]LabelBreakdown `json:"expenditure_categories,omitempty"`
	HighValue  []HighValueFlag           `json:"high_value_transactions,omitempty"`
	Frequency  int                       `json:"expenditure_frequency"`
	LastDate   *time.Time                `json:"last_expenditure_date,omitempty"`
}

// WithdrawalMetrics aggregates withdrawal events. The raw amount and time
// series are retained for downstream pattern analysis.
type WithdrawalMetrics struct {
	Total     float64     `json:"total_withdrawals"`
	Average   float64     `json:"average_withdrawal"`
	Frequency int         `json:"withdrawal_frequency"`
	Amounts   []float64   `json:"withdrawal_amounts,omitempty"`
	Times     []time.Time `json:"withdrawal_times,omitempty"`
	LastDate  *time.Time  `json:"last_withdrawal_date,omitempty"`
}

// LoanMetrics aggregates loan records and their payment histories.
type LoanMetrics struct {
	TotalLoans          int     `json:"total_loans"`
	TotalAmount         float64 `json:"total_loan_amount"`
	AverageAmount       float64 `json:"average_loan_amount"`
	PaymentHistoryScore float64 `json:"payment_history_score"` // mean of per-loan on-time ratios, 0.5 when unknown
	Utilization         float64 `json:"loan_utilization"`      // clamped [0,1]
	ActiveLoans         int     `json:"active_loans"`
	ClosedLoans         int     `json:"closed_loans"`
	DefaultedLoans      int     `json:"defaulted_loans"`
	RecentlyOpened      int     `json:"recently_opened_loans"` // opened in the trailing 90 days
}

// FinancialMetrics bundles the per-category aggregates computed fresh on every
// analysis call. Zero-valued category metrics mean "no data", never an error.
type FinancialMetrics struct {
	Income         IncomeMetrics      `json:"income"`
	Deposits       DepositMetrics     `json:"deposits"`
	Expenditure    ExpenditureMetrics `json:"expenditure"`
	Withdrawals    WithdrawalMetrics  `json:"withdrawals"`
	Loans          LoanMetrics        `json:"loans"`
	OldestActivity *time.Time         `json:"oldest_activity,omitempty"`
}

// PresentCategories counts how many of the five categories carry any data.
// Used for the data-completeness component of confidence scoring.
func (m FinancialMetrics) PresentCategories() int {
	n := 0
	if m.Income.Frequency > 0 {
		n++
	}
	if m.Deposits.Frequency > 0 {
		n++
	}
	if m.Expenditure.Frequency > 0 {
		n++
	}
	if m.Withdrawals.Frequency > 0 {
		n++
	}
	if m.Loans.TotalLoans > 0 {
		n++
	}
	return n
}
