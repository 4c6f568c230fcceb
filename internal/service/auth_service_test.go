package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Reena-coderrr/Ai-margeting-agents-sub001/internal/entitlement"
	"github.com/Reena-coderrr/Ai-margeting-agents-sub001/internal/model/dto"
	"github.com/Reena-coderrr/Ai-margeting-agents-sub001/internal/pkg/jwt"
)

func setupAuthService(t *testing.T) (*AuthService, *testEnv, func()) {
	t.Helper()

	env, cleanup := setupServices(t)
	return NewAuthService(env.accounts, env.repo, env.cfg), env, cleanup
}

func TestAuthService_Register_Success(t *testing.T) {
	service, env, cleanup := setupAuthService(t)
	defer cleanup()

	resp, err := service.Register(context.Background(), &dto.RegisterRequest{
		Email:    "newuser@example.com",
		Password: "password123",
	})
	require.NoError(t, err)
	require.NotEmpty(t, resp.AccountID)

	account, err := env.repo.GetByEmail(context.Background(), "newuser@example.com")
	require.NoError(t, err)
	assert.Equal(t, resp.AccountID, account.ID.String())
	assert.Equal(t, entitlement.RoleStandard, account.Role)
	assert.NotEqual(t, "password123", account.PasswordHash)
}

func TestAuthService_Register_DuplicateEmail(t *testing.T) {
	service, _, cleanup := setupAuthService(t)
	defer cleanup()
	ctx := context.Background()

	req := &dto.RegisterRequest{Email: "duplicate@example.com", Password: "password123"}
	_, err := service.Register(ctx, req)
	require.NoError(t, err)

	_, err = service.Register(ctx, req)
	assert.ErrorIs(t, err, ErrEmailExists)
}

func TestAuthService_Login_Success(t *testing.T) {
	service, env, cleanup := setupAuthService(t)
	defer cleanup()
	ctx := context.Background()

	_, err := service.Register(ctx, &dto.RegisterRequest{Email: "login@example.com", Password: "password123"})
	require.NoError(t, err)

	resp, err := service.Login(ctx, &dto.LoginRequest{Email: "Login@Example.com", Password: "password123"})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Token)
	assert.NotEmpty(t, resp.ExpiresAt)
	require.NotNil(t, resp.Account)
	assert.Equal(t, "login@example.com", resp.Account.Email)
	assert.Equal(t, "trial", resp.Account.Subscription.Plan)

	claims, err := jwt.ParseToken(resp.Token, env.cfg.JWT.Secret)
	require.NoError(t, err)
	assert.Equal(t, resp.Account.ID, claims.AccountID.String())
}

func TestAuthService_Login_WrongPassword(t *testing.T) {
	service, _, cleanup := setupAuthService(t)
	defer cleanup()
	ctx := context.Background()

	_, err := service.Register(ctx, &dto.RegisterRequest{Email: "wrongpass@example.com", Password: "password123"})
	require.NoError(t, err)

	resp, err := service.Login(ctx, &dto.LoginRequest{Email: "wrongpass@example.com", Password: "wrongpassword"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	assert.Nil(t, resp)
}

func TestAuthService_Login_UnknownEmail(t *testing.T) {
	service, _, cleanup := setupAuthService(t)
	defer cleanup()

	resp, err := service.Login(context.Background(), &dto.LoginRequest{Email: "nobody@example.com", Password: "password123"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	assert.Nil(t, resp)
}

func TestAuthService_Login_SuspendedAccountStillLogsIn(t *testing.T) {
	service, env, cleanup := setupAuthService(t)
	defer cleanup()
	ctx := context.Background()

	reg, err := service.Register(ctx, &dto.RegisterRequest{Email: "suspended@example.com", Password: "password123"})
	require.NoError(t, err)

	account, err := env.repo.GetByEmail(ctx, "suspended@example.com")
	require.NoError(t, err)
	_, err = env.accounts.Suspend(ctx, account.ID, nil)
	require.NoError(t, err)

	resp, err := service.Login(ctx, &dto.LoginRequest{Email: "suspended@example.com", Password: "password123"})
	require.NoError(t, err)
	assert.Equal(t, reg.AccountID, resp.Account.ID)
	assert.False(t, resp.Account.Active)
}
