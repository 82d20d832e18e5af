// Package websocket pushes realtime balance updates to connected clients.
package websocket

import (
	"encoding/json"
	"log/slog"
	"sync"

	"github.com/velmoney/velmo_app/internal/core/domain"
	"github.com/velmoney/velmo_app/internal/dto"
)

// Hub tracks connected clients per user and fans balance updates out to them.
// A user may hold several connections (multiple tabs or devices).
type Hub struct {
	mu      sync.RWMutex
	clients map[string]map[*Client]struct{}
	logger  *slog.Logger
}

func NewHub(logger *slog.Logger) *Hub {
	return &Hub{
		clients: make(map[string]map[*Client]struct{}),
		logger:  logger,
	}
}

func (h *Hub) register(userID string, client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.clients[userID] == nil {
		h.clients[userID] = make(map[*Client]struct{})
	}
	h.clients[userID][client] = struct{}{}
}

func (h *Hub) unregister(userID string, client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.clients[userID] == nil {
		return
	}
	delete(h.clients[userID], client)
	if len(h.clients[userID]) == 0 {
		delete(h.clients, userID)
	}
}

// NotifyBalanceChange sends the account's new balance to every connection the
// owning user has open. Slow clients are skipped rather than blocked on.
func (h *Hub) NotifyBalanceChange(userID string, account domain.Account) {
	payload, err := json.Marshal(dto.ToBalanceResponse(&account))
	if err != nil {
		h.logger.Error("Failed to marshal balance update", slog.String("error", err.Error()))
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for client := range h.clients[userID] {
		select {
		case client.send <- payload:
		default:
		}
	}
}
