package validator

import (
	"log"

	"devcraft_backend/internal/models"

	"github.com/go-playground/validator/v10"
)

// registerCustomRules регистрирует все кастомные функции валидации в
// переданном экземпляре валидатора.
func registerCustomRules(v *validator.Validate) {
	mustRegister := func(tag string, fn validator.Func) {
		if err := v.RegisterValidation(tag, fn); err != nil {
			// Если правило не удалось зарегистрировать, приложение
			// не должно запускаться, так как это критическая ошибка.
			log.Fatalf("failed to register custom validation tag '%s': %v", tag, err)
		}
	}

	// 'is-user-role': роль пользователя
	mustRegister("is-user-role", validateUserRole)

	// 'is-request-status': статус заявки
	mustRegister("is-request-status", validateRequestStatus)

	// 'is-project-status': колонка канбана проекта
	mustRegister("is-project-status", validateProjectStatus)

	// 'is-purchase-kind': тип покупки в чекауте
	mustRegister("is-purchase-kind", validatePurchaseKind)
}

// --- Функции валидации ---

func validateUserRole(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if value == "" {
		return true // 'required' обрабатывает пустые
	}

	switch models.UserRole(value) {
	case models.UserRoleClient, models.UserRoleAdmin:
		return true
	default:
		return false
	}
}

func validateRequestStatus(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if value == "" {
		return true
	}
	for _, s := range models.ValidRequestStatuses {
		if models.RequestStatus(value) == s {
			return true
		}
	}
	return false
}

func validateProjectStatus(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if value == "" {
		return true
	}
	for _, s := range models.ValidProjectStatuses {
		if models.ProjectStatus(value) == s {
			return true
		}
	}
	return false
}

func validatePurchaseKind(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if value == "" {
		return true
	}
	switch models.PurchaseKind(value) {
	case models.PurchaseKindCatalog, models.PurchaseKindRequest:
		return true
	default:
		return false
	}
}
