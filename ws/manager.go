package ws

import (
	"sync"

	"devcraft_backend/internal/lifecycle"
	"devcraft_backend/internal/logger"
	"devcraft_backend/internal/models"
)

// ThreadChangedEvent - сигнал "тред изменился". Полезной нагрузки нет:
// клиент перечитывает тред по REST, хаб не дублирует данные.
type ThreadChangedEvent struct {
	Type      string  `json:"type"`
	ProjectID *string `json:"project_id,omitempty"`
	RequestID *string `json:"request_id,omitempty"`
}

// WebSocketManager - хаб подключений. Клиенты подписываются на треды
// (project:<id> / request:<id>), админы получают все сигналы.
type WebSocketManager struct {
	clients    map[*Client]bool
	register   chan *Client
	unregister chan *Client
	mu         sync.RWMutex
}

func NewWebSocketManager() *WebSocketManager {
	return &WebSocketManager{
		clients:    make(map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
	}
}

func (manager *WebSocketManager) Run() {
	for {
		select {
		case client := <-manager.register:
			manager.mu.Lock()
			manager.clients[client] = true
			total := len(manager.clients)
			manager.mu.Unlock()
			logger.Debug("WS клиент подключен", "user_id", client.UserID, "total", total)

		case client := <-manager.unregister:
			manager.mu.Lock()
			if _, ok := manager.clients[client]; ok {
				close(client.Send)
				delete(manager.clients, client)
			}
			total := len(manager.clients)
			manager.mu.Unlock()
			logger.Debug("WS клиент отключен", "user_id", client.UserID, "total", total)
		}
	}
}

// NotifyThread рассылает сигнал об изменении треда. Реализует
// services.ThreadNotifier.
func (manager *WebSocketManager) NotifyThread(key lifecycle.ThreadKey) {
	event := ThreadChangedEvent{
		Type:      "thread_changed",
		ProjectID: key.ProjectID,
		RequestID: key.RequestID,
	}

	manager.mu.RLock()
	defer manager.mu.RUnlock()

	for client := range manager.clients {
		if !client.wantsThread(key) {
			continue
		}
		select {
		case client.Send <- event:
		default:
			// Канал заполнен, клиент отключается
			go func(c *Client) { manager.unregister <- c }(client)
		}
	}
}

// GetClientCount возвращает количество подключенных клиентов
func (manager *WebSocketManager) GetClientCount() int {
	manager.mu.RLock()
	defer manager.mu.RUnlock()
	return len(manager.clients)
}

// wantsThread решает, адресован ли сигнал этому клиенту
func (c *Client) wantsThread(key lifecycle.ThreadKey) bool {
	if c.Role == models.UserRoleAdmin {
		return true
	}

	c.subMu.RLock()
	defer c.subMu.RUnlock()

	if key.ProjectID != nil && c.subscriptions["project:"+*key.ProjectID] {
		return true
	}
	if key.RequestID != nil && c.subscriptions["request:"+*key.RequestID] {
		return true
	}
	return false
}
