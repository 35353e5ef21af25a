package repositories

import (
	"errors"

	"devcraft_backend/internal/lifecycle"
	"devcraft_backend/internal/models"

	"gorm.io/gorm"
)

var ErrMessageNotFound = errors.New("message not found")

type MessageRepository interface {
	Create(db *gorm.DB, message *models.Message) error
	// FindByThread возвращает весь тред по ключу, порядок created_at ASC.
	// Для сконвертированной заявки ключ несет оба id, так что
	// до-конверсионная история попадает в выборку.
	FindByThread(db *gorm.DB, key lifecycle.ThreadKey) ([]models.Message, error)
	MarkThreadRead(db *gorm.DB, key lifecycle.ThreadKey, readerType models.SenderType) error
	CountUnread(db *gorm.DB, key lifecycle.ThreadKey, readerType models.SenderType) (int64, error)
}

type MessageRepositoryImpl struct{}

func NewMessageRepository() MessageRepository {
	return &MessageRepositoryImpl{}
}

func (r *MessageRepositoryImpl) Create(db *gorm.DB, message *models.Message) error {
	return db.Create(message).Error
}

// threadScope строит WHERE по ключу треда
func threadScope(db *gorm.DB, key lifecycle.ThreadKey) *gorm.DB {
	switch {
	case key.ProjectID != nil && key.RequestID != nil:
		return db.Where("project_id = ? OR request_id = ?", *key.ProjectID, *key.RequestID)
	case key.ProjectID != nil:
		return db.Where("project_id = ?", *key.ProjectID)
	default:
		return db.Where("request_id = ?", *key.RequestID)
	}
}

func (r *MessageRepositoryImpl) FindByThread(db *gorm.DB, key lifecycle.ThreadKey) ([]models.Message, error) {
	if err := key.Validate(); err != nil {
		return nil, err
	}

	var messages []models.Message
	err := threadScope(db.Model(&models.Message{}), key).
		Order("created_at ASC").
		Find(&messages).Error
	return messages, err
}

// MarkThreadRead помечает прочитанными сообщения противоположной стороны
func (r *MessageRepositoryImpl) MarkThreadRead(db *gorm.DB, key lifecycle.ThreadKey, readerType models.SenderType) error {
	if err := key.Validate(); err != nil {
		return err
	}

	return threadScope(db.Model(&models.Message{}), key).
		Where("sender_type <> ?", readerType).
		Where("read = ?", false).
		Update("read", true).Error
}

func (r *MessageRepositoryImpl) CountUnread(db *gorm.DB, key lifecycle.ThreadKey, readerType models.SenderType) (int64, error) {
	if err := key.Validate(); err != nil {
		return 0, err
	}

	var count int64
	err := threadScope(db.Model(&models.Message{}), key).
		Where("sender_type <> ?", readerType).
		Where("read = ?", false).
		Count(&count).Error
	return count, err
}
