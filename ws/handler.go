package ws

import (
	"net/http"

	"devcraft_backend/internal/logger"
	"devcraft_backend/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		// TODO: ограничить origin доменом фронтенда при деплое
		return true
	},
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

type WebSocketHandler struct {
	Manager *WebSocketManager
}

func NewWebSocketHandler(manager *WebSocketManager) *WebSocketHandler {
	return &WebSocketHandler{
		Manager: manager,
	}
}

// ServeWS апгрейдит соединение. Личность берется из auth middleware,
// не из query-параметров.
func (h *WebSocketHandler) ServeWS(c *gin.Context) {
	userIDVal, exists := c.Get("userID")
	userID, _ := userIDVal.(string)
	if !exists || userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	role := models.UserRoleClient
	if roleVal, ok := c.Get("role"); ok {
		if r, ok := roleVal.(models.UserRole); ok {
			role = r
		}
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		logger.WithError(err).Warn("WS: не удалось апгрейдить соединение", "user_id", userID)
		return
	}

	client := &Client{
		UserID:        userID,
		Role:          role,
		Conn:          conn,
		Send:          make(chan any, 256),
		manager:       h.Manager,
		subscriptions: make(map[string]bool),
	}

	h.Manager.register <- client

	go client.readPump()
	go client.writePump()
}
