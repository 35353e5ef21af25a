package handlers

import (
	"net/http"

	"devcraft_backend/internal/middleware"
	"devcraft_backend/internal/models"
	"devcraft_backend/internal/services"
	"devcraft_backend/internal/services/dto"
	"devcraft_backend/pkg/apperrors"

	"github.com/gin-gonic/gin"
)

type RequestHandler struct {
	*BaseHandler
	requestService services.RequestService
}

func NewRequestHandler(base *BaseHandler, requestService services.RequestService) *RequestHandler {
	return &RequestHandler{
		BaseHandler:    base,
		requestService: requestService,
	}
}

func (h *RequestHandler) RegisterRoutes(r *gin.RouterGroup) {
	// Публичная форма: анонимы проходят, вошедшим заявка привязывается
	public := r.Group("/requests")
	public.Use(middleware.OptionalAuthMiddleware())
	{
		public.POST("", h.Submit)
	}

	// Клиентские маршруты
	client := r.Group("/requests")
	client.Use(middleware.AuthMiddleware())
	{
		client.GET("/my", h.ListMy)
		client.GET("/:requestId", h.GetRequest)
		client.POST("/:requestId/attachment", h.UploadAttachment)
	}

	// Админ-маршруты
	admin := r.Group("/admin/requests")
	admin.Use(middleware.AuthMiddleware(), middleware.RoleMiddleware(models.UserRoleAdmin))
	{
		admin.GET("", h.ListAdmin)
		admin.GET("/stats", h.Stats)
		admin.PUT("/:requestId/status", h.UpdateStatus)
		admin.POST("/:requestId/approve", h.Approve)
	}
}

func (h *RequestHandler) Submit(c *gin.Context) {
	var req dto.SubmitRequestRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	request, err := h.requestService.Submit(h.GetDB(c), h.OptionalUserID(c), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, request)
}

func (h *RequestHandler) ListMy(c *gin.Context) {
	actor, ok := h.GetActor(c)
	if !ok {
		return
	}

	requests, err := h.requestService.ListMy(h.GetDB(c), actor.UserID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"requests": requests})
}

func (h *RequestHandler) GetRequest(c *gin.Context) {
	actor, ok := h.GetActor(c)
	if !ok {
		return
	}

	request, err := h.requestService.GetByID(h.GetDB(c), actor, c.Param("requestId"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, request)
}

func (h *RequestHandler) UploadAttachment(c *gin.Context) {
	actor, ok := h.GetActor(c)
	if !ok {
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		apperrors.HandleError(c, apperrors.NewBadRequestError("Missing file in form data"))
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		apperrors.HandleError(c, apperrors.InternalError(err))
		return
	}
	defer file.Close()

	request, err := h.requestService.UploadAttachment(
		c.Request.Context(),
		h.GetDB(c),
		actor,
		c.Param("requestId"),
		fileHeader.Filename,
		fileHeader.Header.Get("Content-Type"),
		fileHeader.Size,
		file,
	)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, request)
}

func (h *RequestHandler) ListAdmin(c *gin.Context) {
	var query dto.RequestListQuery
	if !h.BindAndValidate_Query(c, &query) {
		return
	}

	requests, err := h.requestService.ListAdmin(h.GetDB(c), &query)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"requests": requests})
}

func (h *RequestHandler) Stats(c *gin.Context) {
	stats, err := h.requestService.Stats(h.GetDB(c))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, stats)
}

func (h *RequestHandler) UpdateStatus(c *gin.Context) {
	actor, ok := h.GetActor(c)
	if !ok {
		return
	}

	var req dto.UpdateRequestStatusRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	request, err := h.requestService.UpdateStatus(h.GetDB(c), actor, c.Param("requestId"), req.Status, req.Price)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, request)
}

// Approve - одобрение с ценой одним действием (шоткат поверх UpdateStatus)
func (h *RequestHandler) Approve(c *gin.Context) {
	actor, ok := h.GetActor(c)
	if !ok {
		return
	}

	var req dto.ApproveRequestRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	request, err := h.requestService.UpdateStatus(h.GetDB(c), actor, c.Param("requestId"), models.RequestStatusApproved, &req.Price)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, request)
}
