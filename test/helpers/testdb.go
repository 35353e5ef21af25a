package helpers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"testing"
	"time"

	"devcraft_backend/internal/models"

	"github.com/stretchr/testify/assert"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// CreateUser создает пользователя в транзакции с автоматическим хешированием пароля
func CreateUser(t *testing.T, db *gorm.DB, user *models.User) error {
	if user.PasswordHash != "" && !strings.HasPrefix(user.PasswordHash, "$2a$") {
		rawPassword := user.PasswordHash
		hashedPassword, err := bcrypt.GenerateFromPassword([]byte(rawPassword), bcrypt.DefaultCost)
		if err != nil {
			t.Fatalf("Не удалось хешировать пароль: %v", err)
		}
		user.PasswordHash = string(hashedPassword)
	}

	if user.Status == "" {
		user.Status = models.UserStatusActive
	}
	user.IsVerified = true

	result := db.Create(user)
	if result.Error != nil {
		t.Logf("ОШИБКА: не удалось создать пользователя %s: %v", user.Email, result.Error)
		return result.Error
	}

	return nil
}

// CreateAndLoginUser создает пользователя и логинит его через API
func CreateAndLoginUser(t *testing.T, ts *TestServer, tx *gorm.DB, name, email, password string, role models.UserRole) (string, *models.User) {
	user := &models.User{
		Name:         name,
		Email:        email,
		PasswordHash: password, // Сырой пароль, хешируется в CreateUser
		Role:         role,
	}
	err := CreateUser(t, tx, user)
	assert.NoError(t, err, "Создание тестового пользователя не должно вызывать ошибку")

	loginBody := map[string]interface{}{
		"email":    email,
		"password": password,
	}

	res, bodyStr := ts.SendRequest(t, http.MethodPost, "/api/v1/auth/login", "", loginBody)
	assert.Equal(t, http.StatusOK, res.StatusCode, "Логин должен быть успешным. Ответ: "+bodyStr)

	var loginResponse struct {
		Token string `json:"access_token"`
	}
	err = json.Unmarshal([]byte(bodyStr), &loginResponse)
	assert.NoError(t, err, "Не удалось распарсить JSON")
	assert.NotEmpty(t, loginResponse.Token, "Токен не должен быть пустым")

	return loginResponse.Token, user
}

// CreateAndLoginClient создает клиента с уникальным email
func CreateAndLoginClient(t *testing.T, ts *TestServer, tx *gorm.DB) (string, *models.User) {
	email := fmt.Sprintf("client_%d@test.com", time.Now().UnixNano())
	return CreateAndLoginUser(t, ts, tx, "Test Client", email, "password123", models.UserRoleClient)
}

// CreateAndLoginAdmin создает администратора с уникальным email
func CreateAndLoginAdmin(t *testing.T, ts *TestServer, tx *gorm.DB) (string, *models.User) {
	email := fmt.Sprintf("admin_%d@test.com", time.Now().UnixNano())
	return CreateAndLoginUser(t, ts, tx, "Test Admin", email, "password123", models.UserRoleAdmin)
}

// CreateTestService создает позицию каталога в транзакции
func CreateTestService(t *testing.T, tx *gorm.DB, category, title string, price float64) models.Service {
	service := models.Service{
		Category:    category,
		Title:       title,
		Description: "Test description",
		Price:       price,
		Status:      models.ServiceStatusActive,
	}
	if err := tx.Create(&service).Error; err != nil {
		t.Fatalf("Failed to create test service: %v", err)
	}
	return service
}

// CreateTestRequest создает заявку в транзакции
func CreateTestRequest(t *testing.T, tx *gorm.DB, userID *string, category string, status models.RequestStatus, price *float64) models.CustomRequest {
	request := models.CustomRequest{
		UserID:        userID,
		Category:      category,
		Name:          "Test Requester",
		Email:         "requester@test.com",
		Status:        status,
		ApprovedPrice: price,
	}
	if err := tx.Create(&request).Error; err != nil {
		t.Fatalf("Failed to create test request: %v", err)
	}
	return request
}

// CreateTestClient создает клиентскую запись для пользователя
func CreateTestClient(t *testing.T, tx *gorm.DB, userID string) models.Client {
	client := models.Client{UserID: userID}
	if err := tx.Create(&client).Error; err != nil {
		t.Fatalf("Failed to create test client: %v", err)
	}
	return client
}

// CreateTestProject создает проект в транзакции
func CreateTestProject(t *testing.T, tx *gorm.DB, clientID, title string, amount float64, status models.ProjectStatus) models.Project {
	project := models.Project{
		ClientID: clientID,
		Title:    title,
		Amount:   amount,
		Status:   status,
	}
	if err := tx.Create(&project).Error; err != nil {
		t.Fatalf("Failed to create test project: %v", err)
	}
	return project
}
