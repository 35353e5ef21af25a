package repositories

import (
	"errors"

	"devcraft_backend/internal/models"

	"gorm.io/gorm"
)

var ErrClientNotFound = errors.New("client not found")

type ClientRepository interface {
	FindByID(db *gorm.DB, id string) (*models.Client, error)
	FindByUserID(db *gorm.DB, userID string) (*models.Client, error)
	Create(db *gorm.DB, client *models.Client) error
	// GetOrCreate возвращает клиента для userID, создавая запись лениво
	// при первой покупке
	GetOrCreate(db *gorm.DB, userID string) (*models.Client, error)
}

type ClientRepositoryImpl struct{}

func NewClientRepository() ClientRepository {
	return &ClientRepositoryImpl{}
}

func (r *ClientRepositoryImpl) FindByID(db *gorm.DB, id string) (*models.Client, error) {
	var client models.Client
	if err := db.First(&client, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrClientNotFound
		}
		return nil, err
	}
	return &client, nil
}

func (r *ClientRepositoryImpl) FindByUserID(db *gorm.DB, userID string) (*models.Client, error) {
	var client models.Client
	if err := db.First(&client, "user_id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrClientNotFound
		}
		return nil, err
	}
	return &client, nil
}

func (r *ClientRepositoryImpl) Create(db *gorm.DB, client *models.Client) error {
	return db.Create(client).Error
}

func (r *ClientRepositoryImpl) GetOrCreate(db *gorm.DB, userID string) (*models.Client, error) {
	client, err := r.FindByUserID(db, userID)
	if err == nil {
		return client, nil
	}
	if !errors.Is(err, ErrClientNotFound) {
		return nil, err
	}

	client = &models.Client{UserID: userID}
	if err := db.Create(client).Error; err != nil {
		return nil, err
	}
	return client, nil
}
