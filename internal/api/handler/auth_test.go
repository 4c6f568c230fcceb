package handler

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Reena-coderrr/Ai-margeting-agents-sub001/internal/model/dto"
	"github.com/Reena-coderrr/Ai-margeting-agents-sub001/internal/pkg/jwt"
	"github.com/Reena-coderrr/Ai-margeting-agents-sub001/internal/pkg/response"
)

func setupAuthRouter(t *testing.T) (*gin.Engine, *handlerEnv, func()) {
	t.Helper()

	env, cleanup := setupHandlerEnv(t)
	handler := NewAuthHandler(env.auth)

	router := gin.New()
	router.POST("/register", handler.Register)
	router.POST("/login", handler.Login)
	return router, env, cleanup
}

func TestAuthHandler_Register_Success(t *testing.T) {
	router, _, cleanup := setupAuthRouter(t)
	defer cleanup()

	w := performRequest(router, "POST", "/register", dto.RegisterRequest{
		Email:    "test@example.com",
		Password: "password123",
	})
	resp := parseResponse(t, w)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, response.CodeSuccess, resp.Code)
	assert.NotEmpty(t, dataMap(t, resp)["account_id"])
}

func TestAuthHandler_Register_DuplicateEmail(t *testing.T) {
	router, _, cleanup := setupAuthRouter(t)
	defer cleanup()

	req := dto.RegisterRequest{
		Email:    "test@example.com",
		Password: "password123",
	}

	w := performRequest(router, "POST", "/register", req)
	require.Equal(t, response.CodeSuccess, parseResponse(t, w).Code)

	w = performRequest(router, "POST", "/register", req)
	resp := parseResponse(t, w)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, response.CodeDuplicateAction, resp.Code)
}

func TestAuthHandler_Register_InvalidRequest(t *testing.T) {
	router, _, cleanup := setupAuthRouter(t)
	defer cleanup()

	tests := []struct {
		name string
		body interface{}
	}{
		{name: "bad email", body: map[string]string{"email": "invalid-email", "password": "password123"}},
		{name: "short password", body: map[string]string{"email": "a@example.com", "password": "short"}},
		{name: "empty body", body: map[string]string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := performRequest(router, "POST", "/register", tt.body)
			resp := parseResponse(t, w)
			assert.Equal(t, response.CodeParamError, resp.Code)
		})
	}
}

func TestAuthHandler_Login_Success(t *testing.T) {
	router, env, cleanup := setupAuthRouter(t)
	defer cleanup()

	w := performRequest(router, "POST", "/register", dto.RegisterRequest{
		Email:    "login@example.com",
		Password: "password123",
	})
	require.Equal(t, response.CodeSuccess, parseResponse(t, w).Code)

	w = performRequest(router, "POST", "/login", dto.LoginRequest{
		Email:    "login@example.com",
		Password: "password123",
	})
	resp := parseResponse(t, w)

	assert.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, response.CodeSuccess, resp.Code)

	data := dataMap(t, resp)
	token, ok := data["token"].(string)
	require.True(t, ok)
	claims, err := jwt.ParseToken(token, env.cfg.JWT.Secret)
	require.NoError(t, err)

	account, ok := data["account"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, claims.AccountID.String(), account["id"])
}

func TestAuthHandler_Login_InvalidCredentials(t *testing.T) {
	router, _, cleanup := setupAuthRouter(t)
	defer cleanup()

	w := performRequest(router, "POST", "/login", dto.LoginRequest{
		Email:    "nonexistent@example.com",
		Password: "wrongpassword",
	})
	resp := parseResponse(t, w)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, response.CodeAuthFailed, resp.Code)
}

func TestAuthHandler_Login_InvalidRequest(t *testing.T) {
	router, _, cleanup := setupAuthRouter(t)
	defer cleanup()

	w := performRequest(router, "POST", "/login", map[string]string{})
	resp := parseResponse(t, w)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, response.CodeParamError, resp.Code)
}
