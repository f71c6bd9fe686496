package repository

import (
	"context"
	"errors"
	"time"

	"github.com/gofrs/uuid/v5"
	pgx "github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/samandr77/agencydesk/internal/entity"
)

// SessionRepository stores issued refresh tokens so they can be revoked
// on logout.
type SessionRepository struct {
	db *pgxpool.Pool
}

func NewSessionRepository(pool *pgxpool.Pool) *SessionRepository {
	return &SessionRepository{db: pool}
}

func (r *SessionRepository) SaveRefreshToken(ctx context.Context, userID uuid.UUID, token string, expiresAt time.Time) error {
	const q = `INSERT INTO sessions (user_id, refresh_token, refresh_token_expire) VALUES ($1, $2, $3)`

	_, err := r.db.Exec(ctx, q, userID, token, expiresAt.Unix())
	if err != nil {
		return err
	}

	return nil
}

// FindRefreshToken reports whether the token is stored and unexpired.
func (r *SessionRepository) FindRefreshToken(ctx context.Context, token string) error {
	var foundToken string

	const q = `
	SELECT refresh_token
	FROM sessions
	WHERE refresh_token = $1
	AND refresh_token_expire > EXTRACT(EPOCH FROM NOW())`

	err := r.db.QueryRow(ctx, q, token).Scan(&foundToken)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return entity.ErrNotFound
		}

		return err
	}

	return nil
}

func (r *SessionRepository) DeleteRefreshToken(ctx context.Context, token string) error {
	const q = `DELETE FROM sessions WHERE refresh_token = $1`

	_, err := r.db.Exec(ctx, q, token)
	if err != nil {
		return err
	}

	return nil
}

func (r *SessionRepository) DeleteByUserID(ctx context.Context, userID uuid.UUID) error {
	const q = `DELETE FROM sessions WHERE user_id = $1`

	_, err := r.db.Exec(ctx, q, userID)
	if err != nil {
		return err
	}

	return nil
}

func (r *SessionRepository) CleanExpired(ctx context.Context) error {
	const q = `DELETE FROM sessions WHERE refresh_token_expire <= EXTRACT(EPOCH FROM NOW())`

	_, err := r.db.Exec(ctx, q)
	if err != nil {
		return err
	}

	return nil
}
