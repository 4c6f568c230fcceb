package middleware

import (
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Reena-coderrr/Ai-margeting-agents-sub001/internal/pkg/logger"
)

// RequestLogger writes one access log line per request.
func RequestLogger(log *slog.Logger) gin.HandlerFunc {
	log = log.With(logger.Component("http"))
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		attrs := []any{
			slog.String("method", c.Request.Method),
			slog.String("path", c.FullPath()),
			slog.Int("status", c.Writer.Status()),
			logger.Duration(time.Since(start)),
			slog.String("client_ip", c.ClientIP()),
		}
		if id, ok := GetAccountID(c); ok {
			attrs = append(attrs, logger.AccountID(id.String()))
		}
		if len(c.Errors) > 0 {
			attrs = append(attrs, slog.String("errors", c.Errors.String()))
		}

		switch {
		case c.Writer.Status() >= 500:
			log.Error("request", attrs...)
		default:
			log.Info("request", attrs...)
		}
	}
}
