package repositories

import (
	"devcraft_backend/internal/models"

	"gorm.io/gorm"
)

type PaymentRepository interface {
	Create(db *gorm.DB, tx *models.PaymentTransaction) error
	FindByUser(db *gorm.DB, userID string) ([]models.PaymentTransaction, error)
	FindRecent(db *gorm.DB, limit int) ([]models.PaymentTransaction, error)
}

type PaymentRepositoryImpl struct{}

func NewPaymentRepository() PaymentRepository {
	return &PaymentRepositoryImpl{}
}

func (r *PaymentRepositoryImpl) Create(db *gorm.DB, tx *models.PaymentTransaction) error {
	return db.Create(tx).Error
}

func (r *PaymentRepositoryImpl) FindByUser(db *gorm.DB, userID string) ([]models.PaymentTransaction, error) {
	var txs []models.PaymentTransaction
	err := db.Where("user_id = ?", userID).Order("created_at DESC").Find(&txs).Error
	return txs, err
}

func (r *PaymentRepositoryImpl) FindRecent(db *gorm.DB, limit int) ([]models.PaymentTransaction, error) {
	var txs []models.PaymentTransaction
	err := db.Order("created_at DESC").Limit(limit).Find(&txs).Error
	return txs, err
}
