package lifecycle

import "devcraft_backend/internal/models"

// Actor - явная личность вызывающего. Передается в каждую функцию политики
// вместо чтения из глобального контекста, чтобы политика оставалась чистой
// и тестируемой.
type Actor struct {
	UserID string
	Role   models.UserRole
}

func (a Actor) IsAdmin() bool {
	return a.Role == models.UserRoleAdmin
}

// SenderType возвращает тип отправителя для сообщений треда
func (a Actor) SenderType() models.SenderType {
	if a.IsAdmin() {
		return models.SenderTypeAdmin
	}
	return models.SenderTypeClient
}
