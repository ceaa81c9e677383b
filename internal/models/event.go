// internal/models/event.go
package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// EventCategory identifies the kind of financial event.
type EventCategory string

const (
	CategoryIncome      EventCategory = "income"
	CategoryDeposit     EventCategory = "deposit"
	CategoryExpenditure EventCategory = "expenditure"
	CategoryWithdrawal  EventCategory = "withdrawal"
	CategoryLoanPayment EventCategory = "loan_payment"
)

// FinancialEvent is a single dated entry in a user's financial history.
// Events are owned by the calling ledger and passed in by value; the engine
// never mutates them. Amounts are non-negative and already validated by the
// caller.
type FinancialEvent struct {
	Category  EventCategory   `json:"category,omitempty"`
	Amount    decimal.Decimal `json:"amount"`
	Timestamp time.Time       `json:"timestamp"`
	Label     string          `json:"label,omitempty"` // expenditure category label
}

// AmountValue returns the event amount as a float64 for statistical work.
func (e FinancialEvent) AmountValue() float64 {
	return e.Amount.InexactFloat64()
}

// LoanStatus is the lifecycle state of a loan.
type LoanStatus string

const (
	LoanActive    LoanStatus = "active"
	LoanClosed    LoanStatus = "closed"
	LoanDefaulted LoanStatus = "defaulted"
)

// LoanPayment is a single repayment on a loan.
type LoanPayment struct {
	Amount decimal.Decimal `json:"amount"`
	PaidAt time.Time       `json:"paid_at"`
	OnTime bool            `json:"on_time"`
}

// LoanRecord describes a loan and its ordered payment history. The engine
// only reads these to derive payment-history and utilization metrics.
type LoanRecord struct {
	Amount      decimal.Decimal `json:"amount"`
	CreditLimit decimal.Decimal `json:"credit_limit,omitempty"`
	Status      LoanStatus      `json:"status"`
	OpenedAt    time.Time       `json:"opened_at"`
	Payments    []LoanPayment   `json:"payments,omitempty"`
}

// EffectiveCreditLimit returns the recorded credit limit, defaulting to the
// loan amount when no explicit limit was set.
func (l LoanRecord) EffectiveCreditLimit() decimal.Decimal {
	if l.CreditLimit.IsZero() {
		return l.Amount
	}
	return l.CreditLimit
}

// EventBundle is the per-user input to an analysis call. Sequences may arrive
// unordered; the engine sorts what it needs.
type EventBundle struct {
	Incomes      []FinancialEvent `json:"incomes"`
	Deposits     []FinancialEvent `json:"deposits"`
	Expenditures []FinancialEvent `json:"expenditures"`
	Withdrawals  []FinancialEvent `json:"withdrawals"`
	Loans        []LoanRecord     `json:"loans"`
}
