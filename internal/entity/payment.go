package entity

import (
	"github.com/shopspring/decimal"
)

type PaymentStatus string

const (
	PaymentStatusFullyPaid     PaymentStatus = "fully_paid"
	PaymentStatusPartiallyPaid PaymentStatus = "partially_paid"
	PaymentStatusUnpaid        PaymentStatus = "unpaid"
)

var (
	hundred = decimal.NewFromInt(100)
	fifty   = decimal.NewFromInt(50)
)

// PaymentProgress is the classification of a client's payment state.
// Percent is unclamped, so overpayment reads over 100; BarPercent is
// capped at 100 for progress indicators.
type PaymentProgress struct {
	Status     PaymentStatus
	Percent    decimal.Decimal
	BarPercent decimal.Decimal
}

// PercentLabel renders the unclamped percentage with one decimal place,
// e.g. "60.0%".
func (p PaymentProgress) PercentLabel() string {
	return p.Percent.StringFixed(1) + "%"
}

// ClassifyPayment maps paid and monthly amounts to a tri-state status and
// progress ratio. Validation rejects non-positive monthly amounts at the
// input boundary; for rows that predate that rule a non-positive monthly
// amount classifies as fully paid with zero percent instead of dividing
// by zero.
func ClassifyPayment(paid, monthly decimal.Decimal) PaymentProgress {
	if !monthly.IsPositive() {
		return PaymentProgress{
			Status:     PaymentStatusFullyPaid,
			Percent:    decimal.Zero,
			BarPercent: decimal.Zero,
		}
	}

	percent := paid.Div(monthly).Mul(hundred)

	p := PaymentProgress{
		Percent:    percent,
		BarPercent: decimal.Min(percent, hundred),
	}

	switch {
	case percent.GreaterThanOrEqual(hundred):
		p.Status = PaymentStatusFullyPaid
	case percent.GreaterThanOrEqual(fifty):
		p.Status = PaymentStatusPartiallyPaid
	default:
		p.Status = PaymentStatusUnpaid
	}

	return p
}
