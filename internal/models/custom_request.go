package models

// CustomRequest - клиентская заявка на индивидуальный проект.
// Инварианты:
//   - ApprovedPrice заполнен тогда и только тогда, когда статус approved или converted
//   - ConvertedProjectID заполнен тогда и только тогда, когда статус converted
//
// Заявки никогда не удаляются.
type CustomRequest struct {
	BaseModel
	UserID         *string `gorm:"index"` // nil для анонимных отправок
	Category       string  `gorm:"type:varchar(50);not null"`
	Name           string  `gorm:"not null"`
	Email          string  `gorm:"not null"`
	Details        *string `gorm:"type:text"`
	Budget         *string
	Timeline       *string
	AttachmentName *string
	AttachmentPath *string
	Status         RequestStatus `gorm:"type:varchar(20);default:'pending';index"`
	ApprovedPrice  *float64
	// Обратная ссылка на проект; ставится только конверсией и далее неизменна
	ConvertedProjectID *string `gorm:"index"`
}

// CategoryLabels - человекочитаемые названия категорий (заголовок проекта
// при конверсии строится из них)
var CategoryLabels = map[string]string{
	"web":     "Web Platform",
	"mobile":  "Mobile App",
	"ai":      "AI Solution",
	"design":  "Product Design",
	"devops":  "DevOps & Cloud",
	"consult": "Consulting",
}

// CategoryLabel возвращает название категории или саму категорию, если она неизвестна
func CategoryLabel(category string) string {
	if label, ok := CategoryLabels[category]; ok {
		return label
	}
	return category
}
