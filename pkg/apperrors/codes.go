package apperrors

// ErrorCode - тип для кодов ошибок
type ErrorCode string

// Общие, не-доменные коды ошибок
const (
	// Системные и неизвестные ошибки
	CodeInternalError ErrorCode = "INTERNAL_ERROR"
	CodeUnknownError  ErrorCode = "UNKNOWN_ERROR"

	// Общие ошибки бизнес-логики (используются фабриками)
	CodeNotFound         ErrorCode = "NOT_FOUND"
	CodeAlreadyExists    ErrorCode = "ALREADY_EXISTS"
	CodeValidationFailed ErrorCode = "VALIDATION_FAILED"
	CodeConflict         ErrorCode = "CONFLICT"
	CodeInvalidOperation ErrorCode = "INVALID_OPERATION"

	// Аутентификация и Авторизация (они сквозные)
	CodeUnauthorized       ErrorCode = "UNAUTHORIZED"
	CodeForbidden          ErrorCode = "FORBIDDEN"
	CodeInvalidCredentials ErrorCode = "INVALID_CREDENTIALS"
	CodeInvalidToken       ErrorCode = "INVALID_TOKEN"
	CodeTokenExpired       ErrorCode = "TOKEN_EXPIRED"
)

// Коды жизненного цикла заказов (заявки и проекты)
const (
	// Переход не разрешен из текущего статуса
	CodeInvalidState ErrorCode = "INVALID_STATE"

	// Для целевого статуса не хватает обязательного поля
	// (например, approved без approved_price)
	CodeMissingField ErrorCode = "MISSING_FIELD"

	// Повторная конвертация уже сконвертированной заявки
	CodeAlreadyConverted ErrorCode = "ALREADY_CONVERTED"

	// Не-админ пытается выполнить админ-переход
	CodeNotAuthorized ErrorCode = "NOT_AUTHORIZED"

	// Ошибка удаленного хранилища; причина сохраняется в Err для логов
	CodeRemoteFailure ErrorCode = "REMOTE_FAILURE"
)
