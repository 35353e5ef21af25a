package apperrors

import (
	"net/http"
)

/*
Этот файл содержит фабрики и предопределенные переменные
для ошибок жизненного цикла заказов и общих доменных ошибок.
*/

// =========================================================================
// Фабричные ФУНКЦИИ (Используются для оборачивания ошибок, напр. из репозитория)
// =========================================================================

// ErrNotFound - фабрика для ошибки "не найдено" (404)
func ErrNotFound(err error) *AppError {
	return Wrap(err, CodeNotFound, "resource", "Resource not found", http.StatusNotFound)
}

// ErrAlreadyExists - фабрика для ошибки "уже существует" (409)
func ErrAlreadyExists(err error) *AppError {
	return Wrap(err, CodeAlreadyExists, "resource", "Resource already exists", http.StatusConflict)
}

// ErrRemoteFailure - фабрика для ошибок удаленного хранилища (502).
// Причина сохраняется целиком: вызывающая сторона решает,
// нужна ли ручная сверка (см. reconcile worker).
func ErrRemoteFailure(err error, domain, message string) *AppError {
	return Wrap(err, CodeRemoteFailure, domain, message, http.StatusBadGateway)
}

// =========================================================================
// Фабричные ФУНКЦИИ (Для создания новых ошибок жизненного цикла)
// =========================================================================

// ErrInvalidState - переход не разрешен из текущего статуса (409)
func ErrInvalidState(domain, message string) *AppError {
	return New(CodeInvalidState, domain, message, http.StatusConflict)
}

// ErrMissingField - не хватает обязательного поля для целевого статуса (400)
func ErrMissingField(domain, message string) *AppError {
	return New(CodeMissingField, domain, message, http.StatusBadRequest)
}

// ErrNotAuthorized - актор не имеет права на этот переход (403)
func ErrNotAuthorized(domain, message string) *AppError {
	return New(CodeNotAuthorized, domain, message, http.StatusForbidden)
}

// =========================================================================
// Предопределенные ПЕРЕМЕННЫЕ (Для частых, статичных ошибок)
// =========================================================================

// ErrInsufficientPermissions - используется, когда не-админ пытается выполнить админ-действие.
var ErrInsufficientPermissions = New(
	CodeForbidden,
	"auth",
	"Insufficient permissions",
	http.StatusForbidden,
)

// --- Заявки (custom requests) ---

// ErrRequestAlreadyConverted - повторная конвертация заявки.
// Второй вызов конвертации должен падать, а не создавать второй проект.
var ErrRequestAlreadyConverted = New(
	CodeAlreadyConverted,
	"request",
	"Custom request is already converted to a project",
	http.StatusConflict,
)

// ErrRequestRejected - заявка отклонена, дальнейшие переходы запрещены.
var ErrRequestRejected = New(
	CodeInvalidState,
	"request",
	"Custom request is rejected, no further transitions allowed",
	http.StatusConflict,
)

// ErrApprovedPriceRequired - approved требует положительную цену атомарно с переходом.
var ErrApprovedPriceRequired = New(
	CodeMissingField,
	"request",
	"Approved price must be set and greater than zero",
	http.StatusBadRequest,
)

// --- Проекты ---

// ErrProjectStepSkipped - канбан разрешает только шаг вперед.
var ErrProjectStepSkipped = New(
	CodeInvalidState,
	"project",
	"Project status can only advance one stage forward",
	http.StatusConflict,
)

// ErrProjectAmountImmutable - сумма проекта фиксируется при создании.
var ErrProjectAmountImmutable = New(
	CodeInvalidOperation,
	"project",
	"Project amount is immutable after creation",
	http.StatusBadRequest,
)

// --- Сообщения ---

// ErrThreadKeyMissing - у сообщения должен быть ровно один ключ треда.
var ErrThreadKeyMissing = New(
	CodeValidationFailed,
	"message",
	"Exactly one of request_id or project_id must be set",
	http.StatusBadRequest,
)
