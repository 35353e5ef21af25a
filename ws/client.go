package ws

import (
	"encoding/json"
	"sync"

	"devcraft_backend/internal/logger"
	"devcraft_backend/internal/models"

	"github.com/gorilla/websocket"
)

// IncomingWSMessage - команда клиента хабу
type IncomingWSMessage struct {
	Action string          `json:"action"`
	Data   json.RawMessage `json:"data"`
}

type Client struct {
	UserID string
	Role   models.UserRole
	Conn   *websocket.Conn
	Send   chan any

	manager       *WebSocketManager
	subscriptions map[string]bool
	subMu         sync.RWMutex
}

func (c *Client) readPump() {
	defer func() {
		c.manager.unregister <- c
		c.Conn.Close()
	}()

	for {
		_, msgBytes, err := c.Conn.ReadMessage()
		if err != nil {
			break
		}

		var msg IncomingWSMessage
		if err := json.Unmarshal(msgBytes, &msg); err != nil {
			logger.Debug("WS: нечитаемое сообщение", "user_id", c.UserID, "error", err)
			continue
		}

		c.handleMessage(msg)
	}
}

func (c *Client) writePump() {
	for msg := range c.Send {
		if err := c.Conn.WriteJSON(msg); err != nil {
			break
		}
	}
}

type threadPayload struct {
	ProjectID *string `json:"project_id"`
	RequestID *string `json:"request_id"`
}

// handleMessage - команды подписки. Запись сообщений идет через REST,
// хаб только сигналит об изменениях.
func (c *Client) handleMessage(msg IncomingWSMessage) {
	switch msg.Action {
	case "subscribe":
		c.updateSubscription(msg.Data, true)
	case "unsubscribe":
		c.updateSubscription(msg.Data, false)
	default:
		logger.Debug("WS: неизвестное действие", "action", msg.Action, "user_id", c.UserID)
	}
}

func (c *Client) updateSubscription(data json.RawMessage, subscribe bool) {
	var payload threadPayload
	if err := json.Unmarshal(data, &payload); err != nil {
		logger.Debug("WS: некорректный payload подписки", "user_id", c.UserID, "error", err)
		return
	}

	var keys []string
	if payload.ProjectID != nil && *payload.ProjectID != "" {
		keys = append(keys, "project:"+*payload.ProjectID)
	}
	if payload.RequestID != nil && *payload.RequestID != "" {
		keys = append(keys, "request:"+*payload.RequestID)
	}
	if len(keys) == 0 {
		return
	}

	c.subMu.Lock()
	for _, key := range keys {
		if subscribe {
			c.subscriptions[key] = true
		} else {
			delete(c.subscriptions, key)
		}
	}
	c.subMu.Unlock()
}
