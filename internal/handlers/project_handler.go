package handlers

import (
	"net/http"

	"devcraft_backend/internal/middleware"
	"devcraft_backend/internal/models"
	"devcraft_backend/internal/services"
	"devcraft_backend/internal/services/dto"

	"github.com/gin-gonic/gin"
)

type ProjectHandler struct {
	*BaseHandler
	projectService services.ProjectService
}

func NewProjectHandler(base *BaseHandler, projectService services.ProjectService) *ProjectHandler {
	return &ProjectHandler{
		BaseHandler:    base,
		projectService: projectService,
	}
}

func (h *ProjectHandler) RegisterRoutes(r *gin.RouterGroup) {
	// Клиентские маршруты
	projects := r.Group("/projects")
	projects.Use(middleware.AuthMiddleware())
	{
		projects.GET("/my", h.ListMy)
		projects.GET("/:projectId", h.GetProject)
	}

	// Админ-маршруты: канбан и финансы
	admin := r.Group("/admin/projects")
	admin.Use(middleware.AuthMiddleware(), middleware.RoleMiddleware(models.UserRoleAdmin))
	{
		admin.GET("/board", h.Board)
		admin.PUT("/:projectId/advance", h.Advance)
		admin.GET("/finance", h.Finance)
	}
}

func (h *ProjectHandler) ListMy(c *gin.Context) {
	actor, ok := h.GetActor(c)
	if !ok {
		return
	}

	projects, err := h.projectService.ListMy(h.GetDB(c), actor.UserID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"projects": projects})
}

func (h *ProjectHandler) GetProject(c *gin.Context) {
	actor, ok := h.GetActor(c)
	if !ok {
		return
	}

	project, err := h.projectService.GetByID(h.GetDB(c), actor, c.Param("projectId"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, project)
}

func (h *ProjectHandler) Board(c *gin.Context) {
	board, err := h.projectService.Board(h.GetDB(c))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, board)
}

func (h *ProjectHandler) Advance(c *gin.Context) {
	actor, ok := h.GetActor(c)
	if !ok {
		return
	}

	var req dto.AdvanceProjectRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	project, err := h.projectService.Advance(h.GetDB(c), actor, c.Param("projectId"), req.Status)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, project)
}

func (h *ProjectHandler) Finance(c *gin.Context) {
	from, to, err := ParseQueryDateRange(c, 365)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	finance, err := h.projectService.Finance(h.GetDB(c), &from, &to)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, finance)
}
