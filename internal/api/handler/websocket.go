package handler

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/Reena-coderrr/Ai-margeting-agents-sub001/internal/pkg/jwt"
	"github.com/Reena-coderrr/Ai-margeting-agents-sub001/internal/pkg/logger"
	"github.com/Reena-coderrr/Ai-margeting-agents-sub001/internal/pkg/ws"
)

type WebSocketHandler struct {
	hub       *ws.Hub
	jwtSecret string
	upgrader  websocket.Upgrader
	log       *slog.Logger
}

// NewWebSocketHandler accepts upgrades from allowedOrigins; "*" allows any
// origin. Requests without an Origin header are allowed.
func NewWebSocketHandler(hub *ws.Hub, jwtSecret string, allowedOrigins []string, log *slog.Logger) *WebSocketHandler {
	allowed := make(map[string]struct{}, len(allowedOrigins))
	for _, o := range allowedOrigins {
		allowed[o] = struct{}{}
	}
	_, anyOrigin := allowed["*"]

	return &WebSocketHandler{
		hub:       hub,
		jwtSecret: jwtSecret,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				if origin == "" || anyOrigin {
					return true
				}
				_, ok := allowed[origin]
				return ok
			},
		},
		log: log.With(logger.Component("ws")),
	}
}

// Handle upgrades the connection and streams the caller's usage events.
// Browsers cannot set headers on websocket requests, so the token travels in
// the query string.
// GET /api/v1/ws?token=xxx
func (h *WebSocketHandler) Handle(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing token"})
		return
	}

	claims, err := jwt.ParseToken(token, h.jwtSecret)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.Warn("websocket upgrade failed", logger.AccountID(claims.AccountID.String()), logger.Error(err))
		return
	}

	client := &ws.Client{
		AccountID: claims.AccountID,
		Conn:      conn,
	}
	h.hub.Register(client)

	// Reads only detect the disconnect.
	go func() {
		defer func() {
			h.hub.Unregister(client)
			conn.Close()
		}()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}
