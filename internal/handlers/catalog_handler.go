package handlers

import (
	"net/http"

	"devcraft_backend/internal/middleware"
	"devcraft_backend/internal/models"
	"devcraft_backend/internal/services"
	"devcraft_backend/internal/services/dto"

	"github.com/gin-gonic/gin"
)

type CatalogHandler struct {
	*BaseHandler
	catalogService services.CatalogService
}

func NewCatalogHandler(base *BaseHandler, catalogService services.CatalogService) *CatalogHandler {
	return &CatalogHandler{
		BaseHandler:    base,
		catalogService: catalogService,
	}
}

func (h *CatalogHandler) RegisterRoutes(r *gin.RouterGroup) {
	// Публичная витрина
	public := r.Group("/services")
	{
		public.GET("", h.ListPublic)
		public.GET("/:serviceId", h.GetService)
	}

	// Админ CMS
	admin := r.Group("/admin/services")
	admin.Use(middleware.AuthMiddleware(), middleware.RoleMiddleware(models.UserRoleAdmin))
	{
		admin.GET("", h.ListAll)
		admin.POST("", h.CreateService)
		admin.PUT("/:serviceId", h.UpdateService)
		admin.PUT("/:serviceId/status", h.UpdateServiceStatus)
		admin.DELETE("/:serviceId", h.DeleteService)
	}
}

func (h *CatalogHandler) ListPublic(c *gin.Context) {
	var query dto.ServiceListQuery
	if !h.BindAndValidate_Query(c, &query) {
		return
	}

	services, err := h.catalogService.ListPublic(h.GetDB(c), query.Category)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"services": services})
}

func (h *CatalogHandler) GetService(c *gin.Context) {
	service, err := h.catalogService.GetByID(h.GetDB(c), c.Param("serviceId"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, service)
}

func (h *CatalogHandler) ListAll(c *gin.Context) {
	services, err := h.catalogService.ListAll(h.GetDB(c))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"services": services})
}

func (h *CatalogHandler) CreateService(c *gin.Context) {
	var req dto.CreateServiceRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	service, err := h.catalogService.Create(h.GetDB(c), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, service)
}

func (h *CatalogHandler) UpdateService(c *gin.Context) {
	var req dto.UpdateServiceRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	service, err := h.catalogService.Update(h.GetDB(c), c.Param("serviceId"), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, service)
}

func (h *CatalogHandler) UpdateServiceStatus(c *gin.Context) {
	var req dto.UpdateServiceStatusRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	if err := h.catalogService.UpdateStatus(h.GetDB(c), c.Param("serviceId"), req.Status); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Status updated"})
}

func (h *CatalogHandler) DeleteService(c *gin.Context) {
	if err := h.catalogService.Delete(h.GetDB(c), c.Param("serviceId")); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Service deleted"})
}
