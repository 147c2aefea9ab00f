package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"bookclub/internal/domain"
	"bookclub/internal/pkg/jwt"
	"bookclub/internal/pkg/password"
	"bookclub/internal/repository"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// Mock User Repository implementing the interface
type mockUserRepo struct {
	mock.Mock
}

func (m *mockUserRepo) Create(ctx context.Context, u *domain.User) error {
	args := m.Called(ctx, u)
	return args.Error(0)
}

func (m *mockUserRepo) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *mockUserRepo) FindByEmailOrUsername(ctx context.Context, email, username string) (*domain.User, error) {
	args := m.Called(ctx, email, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

type mockRoleRepo struct {
	mock.Mock
}

func (m *mockRoleRepo) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

// Mock Refresh Token Repository
type mockRefreshTokenRepo struct {
	mock.Mock
}

func (m *mockRefreshTokenRepo) FindByToken(ctx context.Context, token string) (*domain.RefreshToken, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.RefreshToken), args.Error(1)
}

func (m *mockRefreshTokenRepo) Upsert(ctx context.Context, userID uuid.UUID, token string, expiry time.Time) error {
	args := m.Called(ctx, userID, token, expiry)
	return args.Error(0)
}

const (
	accessSecret  = "access-secret"
	refreshSecret = "refresh-secret"
)

type fixture struct {
	users   *mockUserRepo
	roles   *mockRoleRepo
	tokens  *mockRefreshTokenRepo
	access  *jwt.Service
	refresh *jwt.Service
	service *Service
}

func newFixture() *fixture {
	f := &fixture{
		users:   new(mockUserRepo),
		roles:   new(mockRoleRepo),
		tokens:  new(mockRefreshTokenRepo),
		access:  jwt.New(accessSecret, 24*time.Hour),
		refresh: jwt.New(refreshSecret, 7*24*time.Hour),
	}
	f.service = NewService(f.users, f.roles, f.tokens, f.access, f.refresh, 7*24*time.Hour)
	return f
}

func validRegisterRequest(roleID uuid.UUID) RegisterRequest {
	return RegisterRequest{
		Username: "john_doe",
		Email:    "john@x.com",
		Password: "secret1",
		RoleID:   roleID.String(),
	}
}

func TestService_Register_Success(t *testing.T) {
	f := newFixture()
	roleID := uuid.New()

	f.roles.On("Exists", mock.Anything, roleID).Return(true, nil)
	f.users.On("FindByEmailOrUsername", mock.Anything, "john@x.com", "john_doe").Return(nil, gorm.ErrRecordNotFound)
	f.users.On("Create", mock.Anything, mock.MatchedBy(func(u *domain.User) bool {
		return u.ID != uuid.Nil &&
			u.Username == "john_doe" &&
			u.RoleID == roleID &&
			u.PasswordHash != "secret1" &&
			password.Verify("secret1", u.PasswordHash)
	})).Return(nil)

	user, err := f.service.Register(context.Background(), validRegisterRequest(roleID))

	require.NoError(t, err)
	assert.Equal(t, "john_doe", user.Username)
	assert.Equal(t, "john@x.com", user.Email)
	assert.Equal(t, roleID.String(), user.RoleID)
	_, err = uuid.Parse(user.ID)
	assert.NoError(t, err)

	f.users.AssertExpectations(t)
	f.roles.AssertExpectations(t)
	f.tokens.AssertNotCalled(t, "Upsert", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestService_Register_ValidationCollectsAll(t *testing.T) {
	f := newFixture()

	_, err := f.service.Register(context.Background(), RegisterRequest{
		Username: "jo",
		Email:    "bad",
		Password: "123",
		RoleID:   "not-a-uuid",
	})

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Len(t, verr.Errors, 4)
	f.users.AssertNotCalled(t, "FindByEmailOrUsername", mock.Anything, mock.Anything, mock.Anything)
}

func TestService_Register_UnknownRole(t *testing.T) {
	f := newFixture()
	roleID := uuid.New()
	f.roles.On("Exists", mock.Anything, roleID).Return(false, nil)

	_, err := f.service.Register(context.Background(), validRegisterRequest(roleID))

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, []string{"roleId must reference an existing role"}, verr.Errors)
}

func TestService_Register_Conflict(t *testing.T) {
	f := newFixture()
	roleID := uuid.New()
	f.roles.On("Exists", mock.Anything, roleID).Return(true, nil)
	f.users.On("FindByEmailOrUsername", mock.Anything, "john@x.com", "john_doe").Return(&domain.User{ID: uuid.New()}, nil)

	_, err := f.service.Register(context.Background(), validRegisterRequest(roleID))

	assert.ErrorIs(t, err, ErrConflict)
	f.users.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestService_Register_ConflictOnInsertRace(t *testing.T) {
	f := newFixture()
	roleID := uuid.New()
	f.roles.On("Exists", mock.Anything, roleID).Return(true, nil)
	f.users.On("FindByEmailOrUsername", mock.Anything, mock.Anything, mock.Anything).Return(nil, gorm.ErrRecordNotFound)
	f.users.On("Create", mock.Anything, mock.Anything).Return(repository.ErrDuplicate)

	_, err := f.service.Register(context.Background(), validRegisterRequest(roleID))

	assert.ErrorIs(t, err, ErrConflict)
}

func TestService_Register_StoreFailure(t *testing.T) {
	f := newFixture()
	roleID := uuid.New()
	boom := errors.New("connection refused")
	f.roles.On("Exists", mock.Anything, roleID).Return(true, nil)
	f.users.On("FindByEmailOrUsername", mock.Anything, mock.Anything, mock.Anything).Return(nil, boom)

	_, err := f.service.Register(context.Background(), validRegisterRequest(roleID))

	assert.ErrorIs(t, err, boom)
}

func storedUser(t *testing.T, plain string) *domain.User {
	t.Helper()
	hash, err := password.Hash(plain)
	require.NoError(t, err)
	return &domain.User{
		ID:           uuid.New(),
		Username:     "john_doe",
		Email:        "john@x.com",
		PasswordHash: hash,
		RoleID:       uuid.New(),
	}
}

func TestService_Login_Success(t *testing.T) {
	f := newFixture()
	user := storedUser(t, "secret1")

	f.users.On("FindByEmail", mock.Anything, "john@x.com").Return(user, nil)
	f.tokens.On("Upsert", mock.Anything, user.ID, mock.AnythingOfType("string"), mock.MatchedBy(func(exp time.Time) bool {
		return exp.Sub(time.Now()) > 7*24*time.Hour-time.Minute
	})).Return(nil)

	tokens, err := f.service.Login(context.Background(), LoginRequest{Email: "john@x.com", Password: "secret1"})
	require.NoError(t, err)

	access, err := f.access.ValidateToken(tokens.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, user.ID.String(), access.UserID)
	assert.Equal(t, user.RoleID.String(), access.RoleID)

	refresh, err := f.refresh.ValidateToken(tokens.RefreshToken)
	require.NoError(t, err)
	assert.Equal(t, user.ID.String(), refresh.UserID)
	assert.Equal(t, user.RoleID.String(), refresh.RoleID)

	_, err = f.access.ValidateToken(tokens.RefreshToken)
	assert.ErrorIs(t, err, jwt.ErrTokenSignature)

	f.tokens.AssertCalled(t, "Upsert", mock.Anything, user.ID, tokens.RefreshToken, mock.Anything)
}

func TestService_Login_SameErrorForUnknownEmailAndWrongPassword(t *testing.T) {
	f := newFixture()
	user := storedUser(t, "secret1")

	f.users.On("FindByEmail", mock.Anything, "john@x.com").Return(user, nil)
	f.users.On("FindByEmail", mock.Anything, "ghost@x.com").Return(nil, gorm.ErrRecordNotFound)

	_, wrongPassword := f.service.Login(context.Background(), LoginRequest{Email: "john@x.com", Password: "nope"})
	_, unknownEmail := f.service.Login(context.Background(), LoginRequest{Email: "ghost@x.com", Password: "secret1"})

	assert.ErrorIs(t, wrongPassword, ErrInvalidCredentials)
	assert.ErrorIs(t, unknownEmail, ErrInvalidCredentials)
	assert.Equal(t, wrongPassword.Error(), unknownEmail.Error())
	f.tokens.AssertNotCalled(t, "Upsert", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestService_Login_Validation(t *testing.T) {
	f := newFixture()

	_, err := f.service.Login(context.Background(), LoginRequest{Email: "not-an-email"})

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, []string{"email must be a valid email", "password is required"}, verr.Errors)
}

func TestService_Login_UpsertFailure(t *testing.T) {
	f := newFixture()
	user := storedUser(t, "secret1")
	boom := errors.New("disk full")

	f.users.On("FindByEmail", mock.Anything, "john@x.com").Return(user, nil)
	f.tokens.On("Upsert", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(boom)

	_, err := f.service.Login(context.Background(), LoginRequest{Email: "john@x.com", Password: "secret1"})
	assert.ErrorIs(t, err, boom)
}

func TestService_Refresh_Success(t *testing.T) {
	f := newFixture()
	userID := uuid.New()
	raw, err := f.refresh.GenerateToken(userID.String(), uuid.NewString())
	require.NoError(t, err)

	f.tokens.On("FindByToken", mock.Anything, raw).Return(&domain.RefreshToken{UserID: userID, Token: raw}, nil)

	for i := 0; i < 2; i++ {
		res, err := f.service.Refresh(context.Background(), RefreshRequest{Token: raw})
		require.NoError(t, err)

		claims, err := f.access.ValidateToken(res.AccessToken)
		require.NoError(t, err)
		assert.Equal(t, userID.String(), claims.UserID)
		assert.Empty(t, claims.RoleID)
		assert.WithinDuration(t, time.Now().Add(24*time.Hour), claims.ExpiresAt.Time, time.Minute)
	}
	f.tokens.AssertNumberOfCalls(t, "FindByToken", 2)
}

func TestService_Refresh_NotStored(t *testing.T) {
	f := newFixture()
	raw, err := f.refresh.GenerateToken(uuid.NewString(), uuid.NewString())
	require.NoError(t, err)

	f.tokens.On("FindByToken", mock.Anything, raw).Return(nil, gorm.ErrRecordNotFound)

	_, err = f.service.Refresh(context.Background(), RefreshRequest{Token: raw})
	assert.ErrorIs(t, err, ErrInvalidRefreshToken)
}

func TestService_Refresh_StoredButInvalidSignature(t *testing.T) {
	f := newFixture()
	forged, err := jwt.New("other-secret", time.Hour).GenerateToken(uuid.NewString(), "")
	require.NoError(t, err)

	f.tokens.On("FindByToken", mock.Anything, forged).Return(&domain.RefreshToken{Token: forged}, nil)

	_, err = f.service.Refresh(context.Background(), RefreshRequest{Token: forged})
	assert.ErrorIs(t, err, ErrRefreshTokenExpired)
}

func TestService_Refresh_StoredButExpired(t *testing.T) {
	f := newFixture()
	old := f.refresh.WithClock(func() time.Time { return time.Now().Add(-8 * 24 * time.Hour) })
	raw, err := old.GenerateToken(uuid.NewString(), "")
	require.NoError(t, err)

	f.tokens.On("FindByToken", mock.Anything, raw).Return(&domain.RefreshToken{Token: raw}, nil)

	_, err = f.service.Refresh(context.Background(), RefreshRequest{Token: raw})
	assert.ErrorIs(t, err, ErrRefreshTokenExpired)
}

func TestService_Refresh_MissingToken(t *testing.T) {
	f := newFixture()

	_, err := f.service.Refresh(context.Background(), RefreshRequest{})

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, []string{"token is required"}, verr.Errors)
}
