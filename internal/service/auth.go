package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/gofrs/uuid/v5"
	jwt "github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/samandr77/agencydesk/internal/entity"
	"github.com/samandr77/agencydesk/pkg/config"
)

//go:generate go run go.uber.org/mock/mockgen@latest -source=auth.go -destination=../mocks/auth.go -package=mocks

type UserRepository interface {
	CreateUser(ctx context.Context, user entity.User) (entity.User, error)
	UserByEmail(ctx context.Context, email string) (entity.User, error)
	UserByID(ctx context.Context, id uuid.UUID) (entity.User, error)
}

type SessionRepository interface {
	SaveRefreshToken(ctx context.Context, userID uuid.UUID, token string, expiresAt time.Time) error
	FindRefreshToken(ctx context.Context, token string) error
	DeleteRefreshToken(ctx context.Context, token string) error
	DeleteByUserID(ctx context.Context, userID uuid.UUID) error
	CleanExpired(ctx context.Context) error
}

// Auth issues and validates the tokens that gate every client operation.
type Auth struct {
	cfg      config.JWT
	users    UserRepository
	sessions SessionRepository
}

func NewAuth(cfg config.JWT, users UserRepository, sessions SessionRepository) *Auth {
	return &Auth{
		cfg:      cfg,
		users:    users,
		sessions: sessions,
	}
}

func (a *Auth) SignUp(ctx context.Context, email, password string) (entity.UserTokens, error) {
	if err := ValidateEmail(email); err != nil {
		return entity.UserTokens{}, err
	}

	if err := ValidatePassword(password); err != nil {
		return entity.UserTokens{}, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return entity.UserTokens{}, fmt.Errorf("hash password: %w", err)
	}

	user, err := a.users.CreateUser(ctx, entity.User{
		ID:           uuid.Must(uuid.NewV4()),
		Email:        email,
		PasswordHash: string(hash),
	})
	if err != nil {
		return entity.UserTokens{}, fmt.Errorf("create user: %w", err)
	}

	slog.InfoContext(ctx, "user registered", "user_id", user.ID)

	return a.issueTokens(ctx, user)
}

// Login verifies credentials. Unknown email and wrong password are
// indistinguishable to the caller, so accounts cannot be enumerated.
func (a *Auth) Login(ctx context.Context, email, password string) (entity.UserTokens, error) {
	user, err := a.users.UserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, entity.ErrNotFound) {
			return entity.UserTokens{}, entity.ErrInvalidCredentials
		}

		return entity.UserTokens{}, fmt.Errorf("get user by email: %w", err)
	}

	err = bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password))
	if err != nil {
		slog.WarnContext(ctx, "failed login attempt", "user_id", user.ID)
		return entity.UserTokens{}, entity.ErrInvalidCredentials
	}

	return a.issueTokens(ctx, user)
}

// Refresh rotates a refresh token: the presented token must be stored and
// unexpired, and is revoked before new tokens are issued.
func (a *Auth) Refresh(ctx context.Context, refreshToken string) (entity.UserTokens, error) {
	claims, err := a.parseToken(refreshToken)
	if err != nil {
		return entity.UserTokens{}, err
	}

	err = a.sessions.FindRefreshToken(ctx, refreshToken)
	if err != nil {
		if errors.Is(err, entity.ErrNotFound) {
			return entity.UserTokens{}, entity.ErrUnauthenticated
		}

		return entity.UserTokens{}, fmt.Errorf("find refresh token: %w", err)
	}

	user, err := a.users.UserByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, entity.ErrNotFound) {
			return entity.UserTokens{}, entity.ErrUnauthenticated
		}

		return entity.UserTokens{}, fmt.Errorf("get user by id: %w", err)
	}

	err = a.sessions.DeleteRefreshToken(ctx, refreshToken)
	if err != nil {
		return entity.UserTokens{}, fmt.Errorf("delete refresh token: %w", err)
	}

	return a.issueTokens(ctx, user)
}

// Logout revokes every refresh token of the user.
func (a *Auth) Logout(ctx context.Context, userID uuid.UUID) error {
	err := a.sessions.DeleteByUserID(ctx, userID)
	if err != nil {
		return fmt.Errorf("delete user sessions: %w", err)
	}

	slog.InfoContext(ctx, "user logged out", "user_id", userID)

	return nil
}

// User is the current-identity query behind the bearer middleware.
func (a *Auth) User(ctx context.Context, accessToken string) (entity.User, error) {
	claims, err := a.parseToken(accessToken)
	if err != nil {
		return entity.User{}, err
	}

	return entity.User{
		ID:    claims.UserID,
		Email: claims.Email,
	}, nil
}

// CleanExpiredSessions drops stale refresh tokens. Runs on a schedule.
func (a *Auth) CleanExpiredSessions(ctx context.Context) error {
	return a.sessions.CleanExpired(ctx)
}

func (a *Auth) parseToken(token string) (entity.UserJwtClaims, error) {
	var claims entity.UserJwtClaims

	parsed, err := jwt.ParseWithClaims(token, &claims, func(token *jwt.Token) (any, error) {
		_, ok := token.Method.(*jwt.SigningMethodHMAC)
		if !ok {
			return nil, fmt.Errorf("unexpected signing method %q", token.Method.Alg())
		}

		return []byte(a.cfg.Secret), nil
	})
	if err != nil || !parsed.Valid {
		return entity.UserJwtClaims{}, entity.ErrUnauthenticated
	}

	return claims, nil
}

func (a *Auth) issueTokens(ctx context.Context, user entity.User) (entity.UserTokens, error) {
	now := time.Now()
	accessExpiresAt := now.Add(a.cfg.AccessTokenExpiry)
	refreshExpiresAt := now.Add(a.cfg.RefreshTokenExpiry)

	jti := uuid.Must(uuid.NewV4()).String()

	accessToken, err := a.signToken(user, jti, now, accessExpiresAt)
	if err != nil {
		return entity.UserTokens{}, fmt.Errorf("sign access token: %w", err)
	}

	refreshToken, err := a.signToken(user, jti, now, refreshExpiresAt)
	if err != nil {
		return entity.UserTokens{}, fmt.Errorf("sign refresh token: %w", err)
	}

	err = a.sessions.SaveRefreshToken(ctx, user.ID, refreshToken, refreshExpiresAt)
	if err != nil {
		return entity.UserTokens{}, fmt.Errorf("save refresh token: %w", err)
	}

	return entity.UserTokens{
		AccessToken:     accessToken,
		RefreshToken:    refreshToken,
		RefreshTokenTTL: a.cfg.RefreshTokenExpiry,
	}, nil
}

func (a *Auth) signToken(user entity.User, jti string, issuedAt, expiresAt time.Time) (string, error) {
	return jwt.NewWithClaims(jwt.SigningMethodHS256,
		entity.UserJwtClaims{
			UserID: user.ID,
			Email:  user.Email,
			RegisteredClaims: jwt.RegisteredClaims{
				ID:        jti,
				IssuedAt:  jwt.NewNumericDate(issuedAt),
				ExpiresAt: jwt.NewNumericDate(expiresAt),
			},
		}).SignedString([]byte(a.cfg.Secret))
}
