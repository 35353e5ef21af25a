package repositories

import (
	"errors"

	"devcraft_backend/internal/models"

	"gorm.io/gorm"
)

var (
	ErrUserNotFound      = errors.New("user not found")
	ErrUserAlreadyExists = errors.New("user already exists")
)

type UserRepository interface {
	// User operations
	FindByID(db *gorm.DB, id string) (*models.User, error)
	FindByEmail(db *gorm.DB, email string) (*models.User, error)
	Create(db *gorm.DB, user *models.User) error
	Update(db *gorm.DB, user *models.User) error
	FindByVerificationToken(db *gorm.DB, token string) (*models.User, error)
	CountByRole(db *gorm.DB, role models.UserRole) (int64, error)

	// RefreshToken operations
	CreateRefreshToken(db *gorm.DB, token *models.RefreshToken) error
	FindRefreshToken(db *gorm.DB, token string) (*models.RefreshToken, error)
	DeleteRefreshToken(db *gorm.DB, token string) error
	DeleteUserRefreshTokens(db *gorm.DB, userID string) error
	CleanExpiredRefreshTokens(db *gorm.DB) error
}

type UserRepositoryImpl struct{}

func NewUserRepository() UserRepository {
	return &UserRepositoryImpl{}
}

func (r *UserRepositoryImpl) FindByID(db *gorm.DB, id string) (*models.User, error) {
	var user models.User
	if err := db.First(&user, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (r *UserRepositoryImpl) FindByEmail(db *gorm.DB, email string) (*models.User, error) {
	var user models.User
	if err := db.First(&user, "email = ?", email).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (r *UserRepositoryImpl) Create(db *gorm.DB, user *models.User) error {
	return db.Create(user).Error
}

func (r *UserRepositoryImpl) Update(db *gorm.DB, user *models.User) error {
	return db.Save(user).Error
}

func (r *UserRepositoryImpl) FindByVerificationToken(db *gorm.DB, token string) (*models.User, error) {
	var user models.User
	if err := db.First(&user, "verification_token = ?", token).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (r *UserRepositoryImpl) CountByRole(db *gorm.DB, role models.UserRole) (int64, error) {
	var count int64
	err := db.Model(&models.User{}).Where("role = ?", role).Count(&count).Error
	return count, err
}

func (r *UserRepositoryImpl) CreateRefreshToken(db *gorm.DB, token *models.RefreshToken) error {
	return db.Create(token).Error
}

func (r *UserRepositoryImpl) FindRefreshToken(db *gorm.DB, token string) (*models.RefreshToken, error) {
	var rt models.RefreshToken
	if err := db.First(&rt, "token = ?", token).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, gorm.ErrRecordNotFound
		}
		return nil, err
	}
	return &rt, nil
}

func (r *UserRepositoryImpl) DeleteRefreshToken(db *gorm.DB, token string) error {
	return db.Delete(&models.RefreshToken{}, "token = ?", token).Error
}

func (r *UserRepositoryImpl) DeleteUserRefreshTokens(db *gorm.DB, userID string) error {
	return db.Delete(&models.RefreshToken{}, "user_id = ?", userID).Error
}

func (r *UserRepositoryImpl) CleanExpiredRefreshTokens(db *gorm.DB) error {
	return db.Delete(&models.RefreshToken{}, "expires_at < now()").Error
}
