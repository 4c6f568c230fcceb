package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/Reena-coderrr/Ai-margeting-agents-sub001/config"
	"github.com/Reena-coderrr/Ai-margeting-agents-sub001/internal/api/middleware"
	"github.com/Reena-coderrr/Ai-margeting-agents-sub001/internal/entitlement"
	"github.com/Reena-coderrr/Ai-margeting-agents-sub001/internal/model"
	"github.com/Reena-coderrr/Ai-margeting-agents-sub001/internal/pkg/locker"
	"github.com/Reena-coderrr/Ai-margeting-agents-sub001/internal/pkg/logger"
	"github.com/Reena-coderrr/Ai-margeting-agents-sub001/internal/pkg/response"
	"github.com/Reena-coderrr/Ai-margeting-agents-sub001/internal/repository"
	"github.com/Reena-coderrr/Ai-margeting-agents-sub001/internal/service"
	"github.com/Reena-coderrr/Ai-margeting-agents-sub001/internal/testutil"
)

func init() {
	gin.SetMode(gin.TestMode)
}

var start = time.Date(2024, 3, 10, 9, 30, 0, 0, time.UTC)

type handlerEnv struct {
	db           *gorm.DB
	cfg          *config.Config
	clock        *entitlement.FakeClock
	events       *repository.UsageEventRepository
	accounts     *service.AccountService
	entitlements *service.EntitlementService
	auth         *service.AuthService
}

func setupHandlerEnv(t *testing.T, opts ...service.EntitlementOption) (*handlerEnv, func()) {
	t.Helper()

	db := testutil.SetupTestDB(t)
	repo := repository.NewAccountRepository(db)
	lk := locker.NewMemoryLocker()
	clock := entitlement.NewFakeClock(start)
	cfg := &config.Config{
		JWT: config.JWTConfig{
			Secret:      "test-secret-key",
			ExpireHours: 24,
		},
		Subscription: config.SubscriptionConfig{TrialDays: 7},
		Entitlement: config.EntitlementConfig{
			MaxRetries: 3,
			RetryDelay: time.Millisecond,
			LockWait:   time.Second,
		},
	}
	log := logger.Discard()

	accounts := service.NewAccountService(repo, lk, clock, cfg, log)
	env := &handlerEnv{
		db:           db,
		cfg:          cfg,
		clock:        clock,
		events:       repository.NewUsageEventRepository(db),
		accounts:     accounts,
		entitlements: service.NewEntitlementService(repo, lk, clock, cfg, log, opts...),
		auth:         service.NewAuthService(accounts, repo, cfg),
	}

	cleanup := func() {
		testutil.CleanupTestDB(t, db)
	}
	return env, cleanup
}

func (e *handlerEnv) createAccount(t *testing.T, role entitlement.Role) *model.Account {
	t.Helper()
	account, err := e.accounts.Create(context.Background(), uuid.NewString()[:8]+"@example.com", "hash", role)
	require.NoError(t, err)
	return account
}

func mockAuth(accountID uuid.UUID) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(middleware.AccountIDKey, accountID)
		c.Next()
	}
}

func performRequest(r http.Handler, method, path string, body interface{}) *httptest.ResponseRecorder {
	var reqBody *bytes.Buffer
	if body != nil {
		jsonBytes, _ := json.Marshal(body)
		reqBody = bytes.NewBuffer(jsonBytes)
	} else {
		reqBody = bytes.NewBuffer(nil)
	}

	req := httptest.NewRequest(method, path, reqBody)
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func parseResponse(t *testing.T, w *httptest.ResponseRecorder) response.Response {
	var resp response.Response
	err := json.Unmarshal(w.Body.Bytes(), &resp)
	require.NoError(t, err)
	return resp
}

func dataMap(t *testing.T, resp response.Response) map[string]interface{} {
	t.Helper()
	data, ok := resp.Data.(map[string]interface{})
	require.True(t, ok, "data is %T", resp.Data)
	return data
}
