package auth

import (
	"context"
	"errors"
	"time"

	"bookclub/internal/domain"
	"bookclub/internal/pkg/password"
	"bookclub/internal/pkg/validator"
	"bookclub/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Service contains all business logic for authentication
type Service struct {
	users         UserRepositoryInterface
	roles         RoleRepositoryInterface
	refreshTokens RefreshTokenRepositoryInterface
	access        TokenSigner
	refresh       TokenSigner
	refreshTTL    time.Duration
	now           func() time.Time
}

func NewService(
	users UserRepositoryInterface,
	roles RoleRepositoryInterface,
	refreshTokens RefreshTokenRepositoryInterface,
	access TokenSigner,
	refresh TokenSigner,
	refreshTTL time.Duration,
) *Service {
	return &Service{
		users:         users,
		roles:         roles,
		refreshTokens: refreshTokens,
		access:        access,
		refresh:       refresh,
		refreshTTL:    refreshTTL,
		now:           time.Now,
	}
}

func (s *Service) Register(ctx context.Context, req RegisterRequest) (*UserSummary, error) {
	if errs := validator.Validate(req); errs != nil {
		return nil, newValidationError(errs...)
	}

	roleID, err := uuid.Parse(req.RoleID)
	if err != nil {
		return nil, newValidationError("roleId must be a valid UUID")
	}
	ok, err := s.roles.Exists(ctx, roleID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, newValidationError("roleId must reference an existing role")
	}

	existing, err := s.users.FindByEmailOrUsername(ctx, req.Email, req.Username)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	if existing != nil {
		return nil, ErrConflict
	}

	hash, err := password.Hash(req.Password)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		ID:           uuid.New(),
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: hash,
		RoleID:       roleID,
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrConflict
		}
		return nil, err
	}

	// the stored email is normalized; the response echoes what was submitted
	return &UserSummary{
		ID:       user.ID.String(),
		Username: user.Username,
		Email:    req.Email,
		RoleID:   user.RoleID.String(),
	}, nil
}

// Login verifies credentials and rotates the user's stored refresh token.
// Unknown email and wrong password yield the same ErrInvalidCredentials.
func (s *Service) Login(ctx context.Context, req LoginRequest) (*TokenPair, error) {
	if errs := validator.Validate(req); errs != nil {
		return nil, newValidationError(errs...)
	}

	user, err := s.users.FindByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if !password.Verify(req.Password, user.PasswordHash) {
		return nil, ErrInvalidCredentials
	}

	userID := user.ID.String()
	roleID := user.RoleID.String()

	accessToken, err := s.access.GenerateToken(userID, roleID)
	if err != nil {
		return nil, err
	}
	refreshToken, err := s.refresh.GenerateToken(userID, roleID)
	if err != nil {
		return nil, err
	}

	if err := s.refreshTokens.Upsert(ctx, user.ID, refreshToken, s.now().Add(s.refreshTTL)); err != nil {
		return nil, err
	}

	return &TokenPair{AccessToken: accessToken, RefreshToken: refreshToken}, nil
}

// Refresh exchanges the stored refresh token for a new access token.
// The token must still be the one persisted for its user; a token replaced
// by a later login is rejected even if its signature is valid. The stored
// token is left untouched.
func (s *Service) Refresh(ctx context.Context, req RefreshRequest) (*AccessToken, error) {
	if errs := validator.Validate(req); errs != nil {
		return nil, newValidationError(errs...)
	}

	if _, err := s.refreshTokens.FindByToken(ctx, req.Token); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidRefreshToken
		}
		return nil, err
	}

	claims, err := s.refresh.ValidateToken(req.Token)
	if err != nil {
		return nil, ErrRefreshTokenExpired
	}

	// Refresh-issued access tokens carry only the user id.
	accessToken, err := s.access.GenerateToken(claims.UserID, "")
	if err != nil {
		return nil, err
	}

	return &AccessToken{AccessToken: accessToken}, nil
}
