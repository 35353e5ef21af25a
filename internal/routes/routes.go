package routes

import (
	"devcraft_backend/internal/handlers"
	"devcraft_backend/internal/logger"
	"devcraft_backend/internal/middleware"
	"devcraft_backend/ws"

	"github.com/gin-gonic/gin"
)

// RegisterRoutes регистрирует все HTTP и WebSocket маршруты.
func RegisterRoutes(
	ginRouter *gin.Engine,
	appHandlers *handlers.AppHandlers,
	wsHandler *ws.WebSocketHandler,
) {
	// Регистрация HTTP API v1
	api := ginRouter.Group("/api/v1")
	{
		appHandlers.AuthHandler.RegisterRoutes(api)
		appHandlers.CatalogHandler.RegisterRoutes(api)
		appHandlers.RequestHandler.RegisterRoutes(api)
		appHandlers.CheckoutHandler.RegisterRoutes(api)
		appHandlers.ProjectHandler.RegisterRoutes(api)
		appHandlers.MessageHandler.RegisterRoutes(api)
	}

	// Регистрация WebSocket
	wsGroup := ginRouter.Group("/ws")
	wsGroup.Use(middleware.AuthMiddleware())
	{
		wsGroup.GET("", wsHandler.ServeWS)
	}
	logger.Info("WebSocket route /ws registered")
}
