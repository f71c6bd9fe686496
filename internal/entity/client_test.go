package entity_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/samandr77/agencydesk/internal/entity"
)

func TestNewDashboard(t *testing.T) {
	t.Parallel()

	clients := []entity.Client{
		{
			FullName:        "Acme LLC",
			MonthlyAmount:   decimal.RequireFromString("1000.00"),
			PaidAmount:      decimal.RequireFromString("600.00"),
			RemainingAmount: decimal.RequireFromString("400.00"),
		},
		{
			FullName:        "Globex",
			MonthlyAmount:   decimal.RequireFromString("2500.50"),
			PaidAmount:      decimal.RequireFromString("2500.50"),
			RemainingAmount: decimal.Zero,
		},
		{
			FullName:        "Initech",
			MonthlyAmount:   decimal.RequireFromString("99.99"),
			PaidAmount:      decimal.Zero,
			RemainingAmount: decimal.RequireFromString("99.99"),
		},
	}

	d := entity.NewDashboard(clients)

	require.Equal(t, 3, d.TotalClients)
	require.Equal(t, "3600.49", d.TotalRevenue.StringFixed(2))
	require.Equal(t, "3100.50", d.TotalPaid.StringFixed(2))
	require.Equal(t, "499.99", d.TotalRemaining.StringFixed(2))
	require.Equal(t, clients, d.Clients)
}

func TestNewDashboard_Empty(t *testing.T) {
	t.Parallel()

	d := entity.NewDashboard(nil)

	require.Zero(t, d.TotalClients)
	require.True(t, d.TotalRevenue.IsZero())
	require.True(t, d.TotalPaid.IsZero())
	require.True(t, d.TotalRemaining.IsZero())
}

func TestClient_Progress(t *testing.T) {
	t.Parallel()

	c := entity.Client{
		MonthlyAmount: decimal.NewFromInt(800),
		PaidAmount:    decimal.NewFromInt(400),
	}

	p := c.Progress()
	require.Equal(t, entity.PaymentStatusPartiallyPaid, p.Status)
	require.Equal(t, "50.0%", p.PercentLabel())
}
