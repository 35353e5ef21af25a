package models

type UserStatus string
type UserRole string
type RequestStatus string
type ProjectStatus string
type ServiceStatus string
type SenderType string
type PaymentStatus string
type PurchaseKind string

const (
	UserStatusPending   UserStatus = "pending"
	UserStatusActive    UserStatus = "active"
	UserStatusSuspended UserStatus = "suspended"

	UserRoleClient UserRole = "client"
	UserRoleAdmin  UserRole = "admin"

	// Жизненный цикл заявки: pending -> reviewing -> approved -> converted,
	// rejected достижим из pending и reviewing. converted и rejected - терминальные.
	RequestStatusPending   RequestStatus = "pending"
	RequestStatusReviewing RequestStatus = "reviewing"
	RequestStatusApproved  RequestStatus = "approved"
	RequestStatusRejected  RequestStatus = "rejected"
	RequestStatusConverted RequestStatus = "converted"

	// Жизненный цикл проекта: строго линейный, только шаг вперед
	ProjectStatusPending    ProjectStatus = "pending"
	ProjectStatusInProgress ProjectStatus = "in_progress"
	ProjectStatusReview     ProjectStatus = "review"
	ProjectStatusCompleted  ProjectStatus = "completed"

	ServiceStatusActive   ServiceStatus = "active"
	ServiceStatusInactive ServiceStatus = "inactive"

	SenderTypeClient SenderType = "client"
	SenderTypeAdmin  SenderType = "admin"

	PaymentStatusPending PaymentStatus = "pending"
	PaymentStatusPaid    PaymentStatus = "paid"
	PaymentStatusFailed  PaymentStatus = "failed"

	// Явный дискриминант вместо "gig-подобных" подставных объектов в чекауте
	PurchaseKindCatalog PurchaseKind = "catalog"
	PurchaseKindRequest PurchaseKind = "custom_request"
)

// ValidRequestStatuses - все статусы заявки (для валидатора)
var ValidRequestStatuses = []RequestStatus{
	RequestStatusPending,
	RequestStatusReviewing,
	RequestStatusApproved,
	RequestStatusRejected,
	RequestStatusConverted,
}

// ValidProjectStatuses - порядок колонок канбана
var ValidProjectStatuses = []ProjectStatus{
	ProjectStatusPending,
	ProjectStatusInProgress,
	ProjectStatusReview,
	ProjectStatusCompleted,
}
