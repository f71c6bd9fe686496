package entity

import (
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/shopspring/decimal"
)

// Client is a managed client record. RemainingAmount is derived by the
// store as monthly_amount - paid_amount and is never written directly.
type Client struct {
	ID               uuid.UUID
	OwnerID          uuid.UUID
	FullName         string
	MonthlyAmount    decimal.Decimal
	PaidAmount       decimal.Decimal
	RemainingAmount  decimal.Decimal
	ServiceStartDate time.Time
	NextPaymentDue   time.Time
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// ClientFields are the four user-editable fields. Update replaces all of
// them at once.
type ClientFields struct {
	FullName         string
	MonthlyAmount    decimal.Decimal
	PaidAmount       decimal.Decimal
	ServiceStartDate time.Time
	NextPaymentDue   time.Time
}

func (c Client) Progress() PaymentProgress {
	return ClassifyPayment(c.PaidAmount, c.MonthlyAmount)
}

// Dashboard is the summary over all clients of one owner. Totals are
// recomputed from the current collection on every request, never cached.
type Dashboard struct {
	TotalClients   int
	TotalRevenue   decimal.Decimal
	TotalPaid      decimal.Decimal
	TotalRemaining decimal.Decimal
	Clients        []Client
}

func NewDashboard(clients []Client) Dashboard {
	d := Dashboard{
		TotalClients:   len(clients),
		TotalRevenue:   decimal.Zero,
		TotalPaid:      decimal.Zero,
		TotalRemaining: decimal.Zero,
		Clients:        clients,
	}

	for _, c := range clients {
		d.TotalRevenue = d.TotalRevenue.Add(c.MonthlyAmount)
		d.TotalPaid = d.TotalPaid.Add(c.PaidAmount)
		d.TotalRemaining = d.TotalRemaining.Add(c.RemainingAmount)
	}

	return d
}
