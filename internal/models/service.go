package models

import "gorm.io/datatypes"

// Service - позиция каталога (CMS). Живет своим циклом active/inactive
// и в жизненный цикл заказа сама по себе не входит.
type Service struct {
	BaseModel
	Category    string         `gorm:"type:varchar(50);index;not null"`
	Title       string         `gorm:"not null"`
	Description string         `gorm:"type:text"`
	Price       float64        `gorm:"not null"`
	Features    datatypes.JSON `gorm:"type:jsonb"`
	Image       string
	Status      ServiceStatus `gorm:"type:varchar(20);default:'active'"`
}
