package repository

import (
	"context"
	"errors"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/gofrs/uuid/v5"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/samandr77/agencydesk/internal/entity"
)

type ClientRepository struct {
	db *pgxpool.Pool
}

func NewClientRepository(pool *pgxpool.Pool) *ClientRepository {
	return &ClientRepository{
		db: pool,
	}
}

// List returns all clients of one owner, newest first.
func (r *ClientRepository) List(ctx context.Context, ownerID uuid.UUID) ([]entity.Client, error) {
	stmt := sq.Select(clientColumns...).
		From("clients").
		Where(sq.Eq{"owner_id": ownerID}).
		OrderBy("created_at DESC").
		PlaceholderFormat(sq.Dollar)

	sql, args, err := stmt.ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	clients := make([]entity.Client, 0)

	for rows.Next() {
		client, err := scanClient(rows)
		if err != nil {
			return nil, err
		}

		clients = append(clients, client)
	}

	return clients, rows.Err()
}

func (r *ClientRepository) Client(ctx context.Context, ownerID, id uuid.UUID) (entity.Client, error) {
	q := selectClient + " WHERE id = $1 AND owner_id = $2"
	return scanClient(r.db.QueryRow(ctx, q, id, ownerID))
}

// Create inserts a client. The store assigns created_at, updated_at and
// the derived remaining_amount; they are read back into the returned value.
func (r *ClientRepository) Create(ctx context.Context, client entity.Client) (entity.Client, error) {
	const q = `
	INSERT INTO clients (
		id,
		owner_id,
		full_name,
		monthly_amount,
		paid_amount,
		service_start_date,
		next_payment_due
	)
	VALUES ($1, $2, $3, $4, $5, $6, $7)
	RETURNING remaining_amount, created_at, updated_at
	`

	err := r.db.QueryRow(
		ctx,
		q,
		client.ID,
		client.OwnerID,
		client.FullName,
		client.MonthlyAmount,
		client.PaidAmount,
		client.ServiceStartDate,
		client.NextPaymentDue,
	).Scan(&client.RemainingAmount, &client.CreatedAt, &client.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23514" {
			return entity.Client{}, entity.ErrInvalidArgument
		}

		return entity.Client{}, err
	}

	return client, nil
}

// Update replaces the four editable fields. A missing id and an id owned
// by someone else are indistinguishable to the caller: both are ErrNotFound.
func (r *ClientRepository) Update(
	ctx context.Context,
	ownerID, id uuid.UUID,
	fields entity.ClientFields,
) (entity.Client, error) {
	const q = `
	UPDATE clients SET
		full_name = $1,
		monthly_amount = $2,
		paid_amount = $3,
		service_start_date = $4,
		next_payment_due = $5,
		updated_at = now()
	WHERE id = $6 AND owner_id = $7
	RETURNING ` + returningClient

	client, err := scanClient(r.db.QueryRow(
		ctx,
		q,
		fields.FullName,
		fields.MonthlyAmount,
		fields.PaidAmount,
		fields.ServiceStartDate,
		fields.NextPaymentDue,
		id,
		ownerID,
	))
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23514" {
			return entity.Client{}, entity.ErrInvalidArgument
		}

		return entity.Client{}, err
	}

	return client, nil
}

func (r *ClientRepository) Delete(ctx context.Context, ownerID, id uuid.UUID) error {
	const q = `DELETE FROM clients WHERE id = $1 AND owner_id = $2`

	result, err := r.db.Exec(ctx, q, id, ownerID)
	if err != nil {
		return err
	}

	if result.RowsAffected() == 0 {
		return entity.ErrNotFound
	}

	return nil
}

// Overdue returns clients across all owners whose next payment date has
// passed and who still owe something.
func (r *ClientRepository) Overdue(ctx context.Context, asOf time.Time) ([]entity.Client, error) {
	stmt := sq.Select(clientColumns...).
		From("clients").
		Where(sq.Lt{"next_payment_due": asOf}).
		Where(sq.Gt{"remaining_amount": 0}).
		OrderBy("next_payment_due ASC").
		PlaceholderFormat(sq.Dollar)

	sql, args, err := stmt.ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var clients []entity.Client

	for rows.Next() {
		client, err := scanClient(rows)
		if err != nil {
			return nil, err
		}

		clients = append(clients, client)
	}

	return clients, rows.Err()
}

const returningClient = `
		id,
		owner_id,
		full_name,
		monthly_amount,
		paid_amount,
		remaining_amount,
		service_start_date,
		next_payment_due,
		created_at,
		updated_at`

func scanClient(row pgx.Row) (client entity.Client, err error) {
	err = row.Scan(
		&client.ID,
		&client.OwnerID,
		&client.FullName,
		&client.MonthlyAmount,
		&client.PaidAmount,
		&client.RemainingAmount,
		&client.ServiceStartDate,
		&client.NextPaymentDue,
		&client.CreatedAt,
		&client.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return entity.Client{}, entity.ErrNotFound
		}

		return entity.Client{}, err
	}

	return client, nil
}
