package services

import (
	"devcraft_backend/internal/email"
	"devcraft_backend/internal/storage"
)

// ServiceContainer содержит все сервисы приложения.
type ServiceContainer struct {
	AuthService      AuthService
	CatalogService   CatalogService
	RequestService   RequestService
	CheckoutService  CheckoutService
	ProjectService   ProjectService
	MessageService   MessageService
	ReconcileService ReconcileService
	EmailService     email.Provider
	Storage          storage.Storage
}
