package services

import (
	"crypto/rand"
	"encoding/hex"
	"time"

	"devcraft_backend/internal/auth"
	"devcraft_backend/internal/config"
	"devcraft_backend/internal/email"
	"devcraft_backend/internal/logger"
	"devcraft_backend/internal/models"
	"devcraft_backend/internal/repositories"
	"devcraft_backend/internal/services/dto"
	"devcraft_backend/pkg/apperrors"

	"gorm.io/gorm"
)

type AuthService interface {
	Register(db *gorm.DB, req *dto.RegisterRequest) (*dto.UserDTO, error)
	Login(db *gorm.DB, req *dto.LoginRequest) (*dto.AuthResponse, error)
	RefreshToken(db *gorm.DB, refreshToken string) (*dto.AuthResponse, error)
	Logout(db *gorm.DB, refreshToken string) error
	VerifyEmail(db *gorm.DB, token string) error
}

type AuthServiceImpl struct {
	userRepo      repositories.UserRepository
	emailProvider email.Provider
}

func NewAuthService(userRepo repositories.UserRepository, emailProvider email.Provider) AuthService {
	return &AuthServiceImpl{
		userRepo:      userRepo,
		emailProvider: emailProvider,
	}
}

// Register - регистрация нового клиента.
// Роль всегда client: админы заводятся только сидом при старте.
func (s *AuthServiceImpl) Register(db *gorm.DB, req *dto.RegisterRequest) (*dto.UserDTO, error) {
	if err := auth.ValidatePassword(req.Password); err != nil {
		return nil, apperrors.NewBadRequestError(err.Error())
	}

	if _, err := s.userRepo.FindByEmail(db, req.Email); err == nil {
		return nil, apperrors.ErrAlreadyExists(nil).WithDetails("email is already registered")
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	user := &models.User{
		Name:              req.Name,
		Email:             req.Email,
		PasswordHash:      hash,
		Role:              models.UserRoleClient,
		Status:            models.UserStatusActive,
		IsVerified:        false,
		VerificationToken: generateRandomToken(),
	}

	if err := s.userRepo.Create(db, user); err != nil {
		return nil, apperrors.ErrRemoteFailure(err, "auth", "Failed to create user")
	}

	s.sendVerificationEmail(user)

	resp := dto.UserToDTO(user)
	return &resp, nil
}

// Login - аутентификация пользователя
func (s *AuthServiceImpl) Login(db *gorm.DB, req *dto.LoginRequest) (*dto.AuthResponse, error) {
	user, err := s.userRepo.FindByEmail(db, req.Email)
	if err != nil {
		if apperrors.Is(err, repositories.ErrUserNotFound) {
			return nil, apperrors.NewUnauthorizedError("Invalid email or password")
		}
		return nil, apperrors.ErrRemoteFailure(err, "auth", "Failed to look up user")
	}

	if !auth.CheckPasswordHash(req.Password, user.PasswordHash) {
		return nil, apperrors.NewUnauthorizedError("Invalid email or password")
	}

	if user.Status == models.UserStatusSuspended {
		return nil, apperrors.NewForbiddenError("Account is suspended")
	}

	return s.issueTokens(db, user)
}

// RefreshToken - обновление access token по refresh token с ротацией
func (s *AuthServiceImpl) RefreshToken(db *gorm.DB, refreshToken string) (*dto.AuthResponse, error) {
	token, err := s.userRepo.FindRefreshToken(db, refreshToken)
	if err != nil {
		return nil, apperrors.NewUnauthorizedError("Invalid refresh token")
	}

	if time.Now().After(token.ExpiresAt) {
		_ = s.userRepo.DeleteRefreshToken(db, refreshToken)
		return nil, apperrors.NewUnauthorizedError("Refresh token expired")
	}

	user, err := s.userRepo.FindByID(db, token.UserID)
	if err != nil {
		return nil, apperrors.NewUnauthorizedError("Invalid refresh token")
	}

	if user.Status == models.UserStatusSuspended {
		return nil, apperrors.NewForbiddenError("Account is suspended")
	}

	// Ротация: старый токен умирает вместе с выпуском нового
	if err := s.userRepo.DeleteRefreshToken(db, refreshToken); err != nil {
		return nil, apperrors.ErrRemoteFailure(err, "auth", "Failed to rotate refresh token")
	}

	return s.issueTokens(db, user)
}

// Logout - выход (удаление refresh token)
func (s *AuthServiceImpl) Logout(db *gorm.DB, refreshToken string) error {
	return s.userRepo.DeleteRefreshToken(db, refreshToken)
}

// VerifyEmail - подтверждение email по токену из письма
func (s *AuthServiceImpl) VerifyEmail(db *gorm.DB, token string) error {
	user, err := s.userRepo.FindByVerificationToken(db, token)
	if err != nil {
		return apperrors.NewBadRequestError("Invalid verification token")
	}

	user.IsVerified = true
	user.VerificationToken = ""
	if err := s.userRepo.Update(db, user); err != nil {
		return apperrors.ErrRemoteFailure(err, "auth", "Failed to verify user")
	}
	return nil
}

func (s *AuthServiceImpl) issueTokens(db *gorm.DB, user *models.User) (*dto.AuthResponse, error) {
	accessToken, err := auth.GenerateToken(user.ID, string(user.Role))
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	refreshToken := generateRandomToken()
	rt := &models.RefreshToken{
		UserID:    user.ID,
		Token:     refreshToken,
		ExpiresAt: time.Now().Add(7 * 24 * time.Hour),
	}
	if err := s.userRepo.CreateRefreshToken(db, rt); err != nil {
		return nil, apperrors.ErrRemoteFailure(err, "auth", "Failed to store refresh token")
	}

	return &dto.AuthResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		User:         dto.UserToDTO(user),
	}, nil
}

// sendVerificationEmail - отправка письма с токеном, лучшая попытка:
// регистрация не падает из-за недоступного SMTP
func (s *AuthServiceImpl) sendVerificationEmail(user *models.User) {
	if s.emailProvider == nil {
		return
	}

	cfg := config.GetConfig()
	link := cfg.Server.Host + "/verify?token=" + user.VerificationToken

	err := s.emailProvider.SendTemplate(
		[]string{user.Email},
		"Подтвердите ваш email",
		email.TemplateVerification,
		email.TemplateData{"Link": link},
	)
	if err != nil {
		logger.WithError(err).Warn("Не удалось отправить письмо верификации", "user_id", user.ID)
	}
}

func generateRandomToken() string {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		// crypto/rand на исправной системе не падает
		panic(err)
	}
	return hex.EncodeToString(b)
}
