package middleware

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/Reena-coderrr/Ai-margeting-agents-sub001/internal/entitlement"
	"github.com/Reena-coderrr/Ai-margeting-agents-sub001/internal/pkg/jwt"
	"github.com/Reena-coderrr/Ai-margeting-agents-sub001/internal/pkg/response"
	"github.com/Reena-coderrr/Ai-margeting-agents-sub001/internal/service"
)

const (
	AccountIDKey = "accountID"
)

// Auth JWT middleware. The account id from the token is stored under AccountIDKey.
func Auth(jwtSecret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			response.AuthError(c, "missing authorization header")
			c.Abort()
			return
		}

		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		if tokenString == authHeader {
			response.AuthError(c, "authorization header must use the Bearer scheme")
			c.Abort()
			return
		}

		claims, err := jwt.ParseToken(tokenString, jwtSecret)
		if err != nil {
			if errors.Is(err, jwt.ErrExpiredToken) {
				response.AuthError(c, "token has expired")
			} else {
				response.AuthError(c, "invalid token")
			}
			c.Abort()
			return
		}

		c.Set(AccountIDKey, claims.AccountID)
		c.Next()
	}
}

// GetAccountID returns the authenticated account id.
func GetAccountID(c *gin.Context) (uuid.UUID, bool) {
	v, exists := c.Get(AccountIDKey)
	if !exists {
		return uuid.Nil, false
	}
	id, ok := v.(uuid.UUID)
	return id, ok
}

// RequireAdmin lets only administrator accounts through. Must run after Auth.
func RequireAdmin(accounts *service.AccountService) gin.HandlerFunc {
	return func(c *gin.Context) {
		accountID, ok := GetAccountID(c)
		if !ok {
			response.AuthError(c, "")
			c.Abort()
			return
		}

		account, err := accounts.Get(c.Request.Context(), accountID)
		if err != nil {
			if errors.Is(err, service.ErrAccountNotFound) {
				response.AuthError(c, "account no longer exists")
			} else {
				response.ServerError(c, "")
			}
			c.Abort()
			return
		}

		if account.Role != entitlement.RoleAdministrator || !account.Active {
			response.PermissionError(c, "administrator access required")
			c.Abort()
			return
		}

		c.Next()
	}
}
