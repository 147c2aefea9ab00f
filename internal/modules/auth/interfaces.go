package auth

import (
	"context"
	"time"

	"bookclub/internal/domain"
	"bookclub/internal/pkg/jwt"

	"github.com/google/uuid"
)

// UserRepositoryInterface lists only the methods the auth service uses.
type UserRepositoryInterface interface {
	Create(ctx context.Context, u *domain.User) error
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	FindByEmailOrUsername(ctx context.Context, email, username string) (*domain.User, error)
}

type RoleRepositoryInterface interface {
	Exists(ctx context.Context, id uuid.UUID) (bool, error)
}

// RefreshTokenRepositoryInterface stores the single refresh token of each user.
type RefreshTokenRepositoryInterface interface {
	FindByToken(ctx context.Context, token string) (*domain.RefreshToken, error)
	Upsert(ctx context.Context, userID uuid.UUID, token string, expiry time.Time) error
}

// TokenSigner issues and verifies one class of token (access or refresh).
type TokenSigner interface {
	GenerateToken(userID, roleID string) (string, error)
	ValidateToken(token string) (*jwt.Claims, error)
}
