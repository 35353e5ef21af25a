package models

// Project - оплачиваемая единица работы со своим конвейером доставки.
// Amount фиксируется при создании и больше не меняется.
type Project struct {
	BaseModel
	ClientID    string  `gorm:"index;not null"`
	ServiceID   *string `gorm:"index"` // nil для проектов из кастомных заявок
	Title       string  `gorm:"not null"`
	Description string  `gorm:"type:text"`
	Amount      float64 `gorm:"not null"`
	Status      ProjectStatus `gorm:"type:varchar(20);default:'pending';index"`

	// Ключ идемпотентности конверсии: заявка, из которой создан проект.
	// По нему reconcile worker чинит оборванную обратную ссылку.
	ConvertedFromRequestID *string `gorm:"uniqueIndex"`
}
