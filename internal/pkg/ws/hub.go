package ws

import (
	"encoding/json"
	"log/slog"
	"sync"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/Reena-coderrr/Ai-margeting-agents-sub001/internal/pkg/logger"
)

type Hub struct {
	// An account may hold several connections (tabs, reconnects).
	clients map[uuid.UUID]map[*Client]struct{}
	mu      sync.RWMutex
	log     *slog.Logger
}

type Client struct {
	AccountID uuid.UUID
	Conn      *websocket.Conn
	mu        sync.Mutex // serializes writes
}

type Message struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

func NewHub(log *slog.Logger) *Hub {
	return &Hub{
		clients: make(map[uuid.UUID]map[*Client]struct{}),
		log:     log.With(logger.Component("ws_hub")),
	}
}

func (h *Hub) Register(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.clients[client.AccountID] == nil {
		h.clients[client.AccountID] = make(map[*Client]struct{})
	}
	h.clients[client.AccountID][client] = struct{}{}

	h.log.Debug("websocket connected",
		logger.AccountID(client.AccountID.String()),
		slog.Int("account_conns", len(h.clients[client.AccountID])))
}

func (h *Hub) Unregister(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if conns, ok := h.clients[client.AccountID]; ok {
		delete(conns, client)
		if len(conns) == 0 {
			delete(h.clients, client.AccountID)
		}
	}
	h.log.Debug("websocket disconnected", logger.AccountID(client.AccountID.String()))
}

// SendToAccount writes msg to every connection of accountID. Offline accounts
// are not an error.
func (h *Hub) SendToAccount(accountID uuid.UUID, msg *Message) error {
	data, err := json.Marshal(msg)
	if err != nil {
		return err
	}

	h.mu.RLock()
	conns, ok := h.clients[accountID]
	if !ok {
		h.mu.RUnlock()
		return nil
	}
	clients := make([]*Client, 0, len(conns))
	for c := range conns {
		clients = append(clients, c)
	}
	h.mu.RUnlock()

	for _, c := range clients {
		c.mu.Lock()
		err := c.Conn.WriteMessage(websocket.TextMessage, data)
		c.mu.Unlock()
		if err != nil {
			h.log.Warn("websocket write failed", logger.AccountID(accountID.String()), logger.Error(err))
		}
	}
	return nil
}

func (h *Hub) IsOnline(accountID uuid.UUID) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	conns, ok := h.clients[accountID]
	return ok && len(conns) > 0
}

func (h *Hub) ConnectionCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	total := 0
	for _, conns := range h.clients {
		total += len(conns)
	}
	return total
}
