package models

// Message - сообщение в треде заказа. Ровно один из RequestID/ProjectID
// заполнен - это ключ треда. Append-only, порядок по created_at ASC.
type Message struct {
	BaseModel
	ProjectID  *string    `gorm:"index"`
	RequestID  *string    `gorm:"index"`
	SenderID   string     `gorm:"index;not null"`
	SenderType SenderType `gorm:"type:varchar(20);not null"`
	Text       string     `gorm:"type:text;not null"`
	Read       bool       `gorm:"default:false"`
}
