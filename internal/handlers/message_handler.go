package handlers

import (
	"net/http"

	"devcraft_backend/internal/middleware"
	"devcraft_backend/internal/services"
	"devcraft_backend/internal/services/dto"

	"github.com/gin-gonic/gin"
)

type MessageHandler struct {
	*BaseHandler
	messageService services.MessageService
}

func NewMessageHandler(base *BaseHandler, messageService services.MessageService) *MessageHandler {
	return &MessageHandler{
		BaseHandler:    base,
		messageService: messageService,
	}
}

func (h *MessageHandler) RegisterRoutes(r *gin.RouterGroup) {
	messages := r.Group("/messages")
	messages.Use(middleware.AuthMiddleware())
	{
		messages.POST("", h.Send)
		messages.GET("/thread", h.GetThread)
		messages.PUT("/thread/read", h.MarkRead)
	}
}

func (h *MessageHandler) Send(c *gin.Context) {
	actor, ok := h.GetActor(c)
	if !ok {
		return
	}

	var req dto.SendMessageRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	message, err := h.messageService.Send(h.GetDB(c), actor, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, message)
}

func (h *MessageHandler) GetThread(c *gin.Context) {
	actor, ok := h.GetActor(c)
	if !ok {
		return
	}

	var query dto.ThreadQuery
	if !h.BindAndValidate_Query(c, &query) {
		return
	}

	thread, err := h.messageService.GetThread(h.GetDB(c), actor, &query)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, thread)
}

func (h *MessageHandler) MarkRead(c *gin.Context) {
	actor, ok := h.GetActor(c)
	if !ok {
		return
	}

	var query dto.ThreadQuery
	if !h.BindAndValidate_Query(c, &query) {
		return
	}

	if err := h.messageService.MarkThreadRead(h.GetDB(c), actor, &query); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Thread marked as read"})
}
