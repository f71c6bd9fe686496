package repository_test

import (
	"context"
	"testing"
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/stretchr/testify/require"

	"github.com/samandr77/agencydesk/internal/entity"
	"github.com/samandr77/agencydesk/internal/repository"
)

func TestSessionRepository_RefreshTokenRoundTrip(t *testing.T) {
	t.Parallel()

	pool := newPool(t)
	repo := repository.NewSessionRepository(pool)

	userID := uuid.Must(uuid.NewV4())
	token := uuid.Must(uuid.NewV4()).String()

	err := repo.SaveRefreshToken(context.Background(), userID, token, time.Now().Add(time.Hour))
	require.NoError(t, err)

	err = repo.FindRefreshToken(context.Background(), token)
	require.NoError(t, err)

	err = repo.DeleteRefreshToken(context.Background(), token)
	require.NoError(t, err)

	err = repo.FindRefreshToken(context.Background(), token)
	require.ErrorIs(t, err, entity.ErrNotFound)
}

func TestSessionRepository_FindRefreshToken_Expired(t *testing.T) {
	t.Parallel()

	pool := newPool(t)
	repo := repository.NewSessionRepository(pool)

	token := uuid.Must(uuid.NewV4()).String()

	err := repo.SaveRefreshToken(context.Background(), uuid.Must(uuid.NewV4()), token, time.Now().Add(-time.Minute))
	require.NoError(t, err)

	err = repo.FindRefreshToken(context.Background(), token)
	require.ErrorIs(t, err, entity.ErrNotFound)
}

func TestSessionRepository_DeleteByUserID(t *testing.T) {
	t.Parallel()

	pool := newPool(t)
	repo := repository.NewSessionRepository(pool)

	userID := uuid.Must(uuid.NewV4())
	tokens := []string{
		uuid.Must(uuid.NewV4()).String(),
		uuid.Must(uuid.NewV4()).String(),
	}

	for _, token := range tokens {
		err := repo.SaveRefreshToken(context.Background(), userID, token, time.Now().Add(time.Hour))
		require.NoError(t, err)
	}

	err := repo.DeleteByUserID(context.Background(), userID)
	require.NoError(t, err)

	for _, token := range tokens {
		err = repo.FindRefreshToken(context.Background(), token)
		require.ErrorIs(t, err, entity.ErrNotFound)
	}
}

func TestSessionRepository_CleanExpired(t *testing.T) {
	t.Parallel()

	pool := newPool(t)
	repo := repository.NewSessionRepository(pool)

	expired := uuid.Must(uuid.NewV4()).String()
	live := uuid.Must(uuid.NewV4()).String()

	err := repo.SaveRefreshToken(context.Background(), uuid.Must(uuid.NewV4()), expired, time.Now().Add(-time.Hour))
	require.NoError(t, err)

	err = repo.SaveRefreshToken(context.Background(), uuid.Must(uuid.NewV4()), live, time.Now().Add(time.Hour))
	require.NoError(t, err)

	err = repo.CleanExpired(context.Background())
	require.NoError(t, err)

	// Unexpired sessions survive the sweep.
	err = repo.FindRefreshToken(context.Background(), live)
	require.NoError(t, err)
}
