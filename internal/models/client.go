package models

// Client - связка 1:1 между учеткой и владельцем проектов/биллинга.
// Создается лениво при первой покупке, см. CheckoutService.
type Client struct {
	BaseModel
	UserID string `gorm:"uniqueIndex;not null"`

	Projects []Project `gorm:"foreignKey:ClientID"`
}
