package repository

const (
	selectClient = `SELECT
		id,
		owner_id,
		full_name,
		monthly_amount,
		paid_amount,
		remaining_amount,
		service_start_date,
		next_payment_due,
		created_at,
		updated_at
	FROM clients`
)

var clientColumns = []string{
	"id",
	"owner_id",
	"full_name",
	"monthly_amount",
	"paid_amount",
	"remaining_amount",
	"service_start_date",
	"next_payment_due",
	"created_at",
	"updated_at",
}
