package auth

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwalitptl/clinic-api/internal/email"
	"github.com/jwalitptl/clinic-api/internal/model"
	"github.com/jwalitptl/clinic-api/pkg/auth"
	apperrors "github.com/jwalitptl/clinic-api/pkg/errors"
	"github.com/jwalitptl/clinic-api/pkg/logger"
	"github.com/jwalitptl/clinic-api/pkg/security"
)

type fakeUserRepo struct {
	byID       map[uuid.UUID]*model.User
	byUsername map[string]*model.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{
		byID:       make(map[uuid.UUID]*model.User),
		byUsername: make(map[string]*model.User),
	}
}

func (f *fakeUserRepo) Create(ctx context.Context, u *model.User) error {
	u.Touch()
	copied := *u
	f.byID[u.ID] = &copied
	f.byUsername[u.Username] = &copied
	return nil
}

func (f *fakeUserRepo) Get(ctx context.Context, id uuid.UUID) (*model.User, error) {
	u, ok := f.byID[id]
	if !ok {
		return nil, apperrors.NotFound("user")
	}
	copied := *u
	return &copied, nil
}

func (f *fakeUserRepo) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	u, ok := f.byUsername[username]
	if !ok {
		return nil, apperrors.NotFound("user")
	}
	copied := *u
	return &copied, nil
}

func (f *fakeUserRepo) UsernameExists(ctx context.Context, username string) (bool, error) {
	_, ok := f.byUsername[username]
	return ok, nil
}

func (f *fakeUserRepo) EmailExists(ctx context.Context, addr string) (bool, error) {
	for _, u := range f.byID {
		if u.Email == addr {
			return true, nil
		}
	}
	return false, nil
}

func newTestService() (*Service, *fakeUserRepo) {
	repo := newFakeUserRepo()
	jwtSvc := auth.NewJWTService(auth.Config{
		Secret:        "test-secret",
		RefreshSecret: "test-refresh-secret",
		Expiry:        time.Hour,
		RefreshExpiry: 24 * time.Hour,
	})
	log := logger.NewLogger(&logger.Config{Level: logger.ErrorLevel, Output: io.Discard})
	svc := NewService(repo, jwtSvc, security.NewBcryptHasher(4), email.NewService(email.Config{}), log)
	return svc, repo
}

func registerRequest() *model.RegisterRequest {
	return &model.RegisterRequest{
		Username:        "jdoe",
		Email:           "jdoe@example.com",
		FirstName:       "John",
		LastName:        "Doe",
		Password:        "s3cretpass",
		ConfirmPassword: "s3cretpass",
	}
}

func TestRegister(t *testing.T) {
	svc, _ := newTestService()

	user, err := svc.Register(context.Background(), registerRequest())
	require.NoError(t, err)
	assert.Equal(t, "jdoe", user.Username)
	assert.NotEqual(t, uuid.Nil, user.ID)
	assert.NotEqual(t, "s3cretpass", user.PasswordHash)
}

func TestRegisterPasswordMismatch(t *testing.T) {
	svc, _ := newTestService()

	req := registerRequest()
	req.ConfirmPassword = "different"
	_, err := svc.Register(context.Background(), req)
	require.Error(t, err)
	appErr, ok := apperrors.As(err)
	require.True(t, ok)
	assert.Contains(t, appErr.Fields, "confirm_password")
}

func TestRegisterShortPassword(t *testing.T) {
	svc, _ := newTestService()

	req := registerRequest()
	req.Password = "short"
	req.ConfirmPassword = "short"
	_, err := svc.Register(context.Background(), req)
	require.Error(t, err)
	appErr, ok := apperrors.As(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.ErrValidation, appErr.Code)
	assert.Contains(t, appErr.Fields, "password")
}

func TestRegisterDuplicateUsername(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	_, err := svc.Register(ctx, registerRequest())
	require.NoError(t, err)

	req := registerRequest()
	req.Email = "other@example.com"
	_, err = svc.Register(ctx, req)
	require.Error(t, err)
	appErr, ok := apperrors.As(err)
	require.True(t, ok)
	assert.Contains(t, appErr.Fields, "username")
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	_, err := svc.Register(ctx, registerRequest())
	require.NoError(t, err)

	req := registerRequest()
	req.Username = "jdoe2"
	_, err = svc.Register(ctx, req)
	require.Error(t, err)
	appErr, ok := apperrors.As(err)
	require.True(t, ok)
	assert.Contains(t, appErr.Fields, "email")
}

func TestLogin(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	_, err := svc.Register(ctx, registerRequest())
	require.NoError(t, err)

	tokens, err := svc.Login(ctx, &model.LoginRequest{Username: "jdoe", Password: "s3cretpass"})
	require.NoError(t, err)
	assert.NotEmpty(t, tokens.AccessToken)
	assert.NotEmpty(t, tokens.RefreshToken)

	claims, err := svc.ValidateToken(ctx, tokens.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "jdoe@example.com", claims.Email)
}

func TestLoginBadCredentials(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	_, err := svc.Register(ctx, registerRequest())
	require.NoError(t, err)

	_, err = svc.Login(ctx, &model.LoginRequest{Username: "jdoe", Password: "wrong"})
	assert.True(t, apperrors.IsCode(err, apperrors.ErrUnauthorized))

	_, err = svc.Login(ctx, &model.LoginRequest{Username: "nobody", Password: "s3cretpass"})
	assert.True(t, apperrors.IsCode(err, apperrors.ErrUnauthorized))
}

func TestRefresh(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	_, err := svc.Register(ctx, registerRequest())
	require.NoError(t, err)

	tokens, err := svc.Login(ctx, &model.LoginRequest{Username: "jdoe", Password: "s3cretpass"})
	require.NoError(t, err)

	refreshed, err := svc.Refresh(ctx, &model.RefreshTokenRequest{RefreshToken: tokens.RefreshToken})
	require.NoError(t, err)
	assert.NotEmpty(t, refreshed.AccessToken)

	// An access token is not a valid refresh token.
	_, err = svc.Refresh(ctx, &model.RefreshTokenRequest{RefreshToken: tokens.AccessToken})
	assert.True(t, apperrors.IsCode(err, apperrors.ErrUnauthorized))
}
