package handlers

import (
	"fmt"
	"time"

	"devcraft_backend/internal/lifecycle"
	"devcraft_backend/internal/logger"
	"devcraft_backend/internal/models"
	"devcraft_backend/internal/validator"
	"devcraft_backend/pkg/apperrors"
	"devcraft_backend/pkg/contextkeys"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type BaseHandler struct {
	validator *validator.Validator
}

func NewBaseHandler(v *validator.Validator) *BaseHandler {
	return &BaseHandler{
		validator: v,
	}
}

// GetDB извлекает *gorm.DB (пул или транзакцию) из gin.Context.
// Вызывается в каждом хендлере, который обращается к сервисам.
func (h *BaseHandler) GetDB(c *gin.Context) *gorm.DB {
	dbKey := string(contextkeys.DBContextKey)

	val, ok := c.Get(dbKey)
	if !ok {
		// Этого не должно случиться, если DBMiddleware настроен
		logger.CtxError(c.Request.Context(), "critical error: db key not found in context", "key", dbKey)
		panic("critical error: DBMiddleware did not set the db key")
	}

	db, ok := val.(*gorm.DB)
	if !ok {
		logger.CtxError(c.Request.Context(), "critical error: db in context is not *gorm.DB", "key", dbKey, "type", fmt.Sprintf("%T", val))
		panic("critical error: db in context has incorrect type")
	}

	return db
}

func (h *BaseHandler) BindAndValidate_JSON(c *gin.Context, obj interface{}) bool {
	ctx := c.Request.Context()

	if err := c.ShouldBind(obj); err != nil {
		logger.CtxWithError(ctx, "Failed to bind JSON body", err, "path", c.Request.URL.Path)
		apperrors.HandleError(c, apperrors.NewBadRequestError("Invalid request body: "+err.Error()))
		return false
	}

	if err := h.validator.Validate(obj); err != nil {
		if vErr, ok := err.(*validator.ValidationError); ok {
			logger.CtxWarn(ctx, "Validation failed", "errors", vErr.Errors, "path", c.Request.URL.Path)
			apperrors.HandleError(c, apperrors.ValidationError(vErr.Errors))
		} else {
			logger.CtxWithError(ctx, "Internal validator error", err, "path", c.Request.URL.Path)
			apperrors.HandleError(c, apperrors.InternalError(err))
		}
		return false
	}
	return true
}

func (h *BaseHandler) BindAndValidate_Query(c *gin.Context, obj interface{}) bool {
	ctx := c.Request.Context()

	if err := c.ShouldBindQuery(obj); err != nil {
		logger.CtxWithError(ctx, "Failed to bind query params", err, "path", c.Request.URL.Path)
		apperrors.HandleError(c, apperrors.NewBadRequestError("Invalid query parameters: "+err.Error()))
		return false
	}

	if err := h.validator.Validate(obj); err != nil {
		if vErr, ok := err.(*validator.ValidationError); ok {
			logger.CtxWarn(ctx, "Validation failed (query)", "errors", vErr.Errors, "path", c.Request.URL.Path)
			apperrors.HandleError(c, apperrors.ValidationError(vErr.Errors))
		} else {
			logger.CtxWithError(ctx, "Internal validator error (query)", err, "path", c.Request.URL.Path)
			apperrors.HandleError(c, apperrors.InternalError(err))
		}
		return false
	}
	return true
}

func (h *BaseHandler) HandleServiceError(c *gin.Context, err error) {
	ctx := c.Request.Context()

	var appErr *apperrors.AppError
	if apperrors.As(err, &appErr) {
		logger.CtxWarn(ctx, "Service error",
			"error", appErr.Message,
			"details", appErr.Details,
			"path", c.Request.URL.Path,
		)
		apperrors.HandleError(c, appErr)
	} else {
		logger.CtxWithError(ctx, "Internal server error", err, "path", c.Request.URL.Path)
		apperrors.HandleError(c, apperrors.InternalError(err))
	}
}

func (h *BaseHandler) GetAndAuthorizeUserID(c *gin.Context) (string, bool) {
	ctx := c.Request.Context()

	userIDVal, exists := c.Get("userID")
	if !exists {
		logger.CtxWarn(ctx, "Unauthorized access: userID not found in context",
			"path", c.Request.URL.Path,
			"ip", c.ClientIP(),
		)
		apperrors.HandleError(c, apperrors.NewUnauthorizedError("User not authenticated"))
		return "", false
	}

	userIDStr, ok := userIDVal.(string)
	if !ok || userIDStr == "" {
		logger.CtxWarn(ctx, "Unauthorized access: invalid userID in context",
			"path", c.Request.URL.Path,
			"ip", c.ClientIP(),
		)
		apperrors.HandleError(c, apperrors.NewUnauthorizedError("Invalid user ID in context"))
		return "", false
	}

	return userIDStr, true
}

// GetActor строит lifecycle.Actor из контекста аутентификации.
// Политика получает личность явно, а не читает ее из окружения сама.
func (h *BaseHandler) GetActor(c *gin.Context) (lifecycle.Actor, bool) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return lifecycle.Actor{}, false
	}

	role := models.UserRoleClient
	if roleVal, exists := c.Get("role"); exists {
		switch v := roleVal.(type) {
		case models.UserRole:
			role = v
		case string:
			role = models.UserRole(v)
		}
	}

	return lifecycle.Actor{UserID: userID, Role: role}, true
}

// OptionalUserID возвращает id пользователя, если запрос аутентифицирован.
// Для анонимных запросов (публичная форма заявки) возвращает nil.
func (h *BaseHandler) OptionalUserID(c *gin.Context) *string {
	if userIDVal, exists := c.Get("userID"); exists {
		if id, ok := userIDVal.(string); ok && id != "" {
			return &id
		}
	}
	return nil
}

func ParseQueryDateRange(c *gin.Context, defaultDaysAgo int) (time.Time, time.Time, error) {
	dateFromStr := c.Query("date_from")
	dateToStr := c.Query("date_to")

	dateTo := time.Now()
	dateFrom := dateTo.AddDate(0, 0, -defaultDaysAgo)

	var err error
	if dateFromStr != "" {
		dateFrom, err = time.Parse(time.RFC3339, dateFromStr)
		if err != nil {
			return time.Time{}, time.Time{}, apperrors.NewBadRequestError("Invalid date_from format. Use RFC3339 (YYYY-MM-DDTHH:MM:SSZ)")
		}
	}

	if dateToStr != "" {
		dateTo, err = time.Parse(time.RFC3339, dateToStr)
		if err != nil {
			return time.Time{}, time.Time{}, apperrors.NewBadRequestError("Invalid date_to format. Use RFC3339 (YYYY-MM-DDTHH:MM:SSZ)")
		}
	}

	if dateFrom.After(dateTo) {
		return time.Time{}, time.Time{}, apperrors.NewBadRequestError("date_from cannot be after date_to")
	}

	return dateFrom, dateTo, nil
}
