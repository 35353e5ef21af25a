package models

import "time"

// PaymentTransaction - журнал симулированных платежей.
// Reference указывает на оплаченную сущность (service id или request id).
type PaymentTransaction struct {
	BaseModel
	UserID    string        `gorm:"index;not null"`
	Amount    float64       `gorm:"not null"`
	Currency  string        `gorm:"type:varchar(10)"`
	Kind      PurchaseKind  `gorm:"type:varchar(30);not null"`
	Reference string        `gorm:"index;not null"`
	Status    PaymentStatus `gorm:"type:varchar(20);default:'pending'"`
	PaidAt    *time.Time
}
