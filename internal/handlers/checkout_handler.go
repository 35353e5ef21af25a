package handlers

import (
	"net/http"

	"devcraft_backend/internal/middleware"
	"devcraft_backend/internal/services"
	"devcraft_backend/internal/services/dto"

	"github.com/gin-gonic/gin"
)

type CheckoutHandler struct {
	*BaseHandler
	checkoutService services.CheckoutService
}

func NewCheckoutHandler(base *BaseHandler, checkoutService services.CheckoutService) *CheckoutHandler {
	return &CheckoutHandler{
		BaseHandler:     base,
		checkoutService: checkoutService,
	}
}

func (h *CheckoutHandler) RegisterRoutes(r *gin.RouterGroup) {
	checkout := r.Group("/checkout")
	checkout.Use(middleware.AuthMiddleware())
	{
		checkout.POST("", h.Checkout)
	}
}

func (h *CheckoutHandler) Checkout(c *gin.Context) {
	actor, ok := h.GetActor(c)
	if !ok {
		return
	}

	var req dto.CheckoutRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	resp, err := h.checkoutService.Checkout(c.Request.Context(), h.GetDB(c), actor, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, resp)
}
