package integration_test

import (
	"encoding/json"
	"net/http"
	"testing"

	"devcraft_backend/internal/models"
	"devcraft_backend/test/helpers"

	"github.com/stretchr/testify/assert"
)

// TestAuthFlow - проверяет регистрацию и последующий логин
func TestAuthFlow(t *testing.T) {
	// 1. Подготовка (Arrange)
	ts := GetTestServer(t)
	tx := ts.BeginTransaction(t)
	defer ts.RollbackTransaction(t, tx)

	registerBody := map[string]interface{}{
		"name":     "Новый Клиент",
		"email":    "client@test.com",
		"password": "super_password123",
	}

	// 2. Действие: Регистрация (Act)
	regRes, regBodyStr := ts.SendRequest(t, "POST", "/api/v1/auth/register", "", registerBody)

	// 3. Проверка: Регистрация (Assert)
	assert.Equal(t, http.StatusCreated, regRes.StatusCode)
	assert.Contains(t, regBodyStr, "client@test.com")
	// Роль всегда client, с клиента она не принимается
	assert.Contains(t, regBodyStr, `"role":"client"`)
	t.Logf("РЕГИСТРАЦИЯ: Успешно. Ответ: %s", regBodyStr)

	// --- Шаг 2: Логин ---
	loginBody := map[string]interface{}{
		"email":    "client@test.com",
		"password": "super_password123",
	}
	logRes, logBodyStr := ts.SendRequest(t, "POST", "/api/v1/auth/login", "", loginBody)

	assert.Equal(t, http.StatusOK, logRes.StatusCode)
	assert.Contains(t, logBodyStr, "access_token")
	assert.Contains(t, logBodyStr, "refresh_token")
	t.Logf("ЛОГИН: Успешно. Ответ: %s", logBodyStr)
}

// TestRegister_DuplicateEmail - проверяет защиту от дубликатов
func TestRegister_DuplicateEmail(t *testing.T) {
	ts := GetTestServer(t)
	tx := ts.BeginTransaction(t)
	defer ts.RollbackTransaction(t, tx)

	_, user := helpers.CreateAndLoginClient(t, ts, tx)

	registerBody := map[string]interface{}{
		"name":     "Дубликат",
		"email":    user.Email,
		"password": "super_password123",
	}
	res, bodyStr := ts.SendRequest(t, "POST", "/api/v1/auth/register", "", registerBody)

	assert.Equal(t, http.StatusConflict, res.StatusCode)
	t.Logf("ДУБЛИКАТ: Успешно отклонен (409). Ответ: %s", bodyStr)
}

// TestLogin_WrongPassword - неверный пароль дает 401 без деталей
func TestLogin_WrongPassword(t *testing.T) {
	ts := GetTestServer(t)
	tx := ts.BeginTransaction(t)
	defer ts.RollbackTransaction(t, tx)

	_, user := helpers.CreateAndLoginClient(t, ts, tx)

	loginBody := map[string]interface{}{
		"email":    user.Email,
		"password": "definitely_wrong",
	}
	res, bodyStr := ts.SendRequest(t, "POST", "/api/v1/auth/login", "", loginBody)

	assert.Equal(t, http.StatusUnauthorized, res.StatusCode)
	assert.Contains(t, bodyStr, "Invalid email or password")
}

// TestLogin_SuspendedAccount - заблокированная учетка не логинится
func TestLogin_SuspendedAccount(t *testing.T) {
	ts := GetTestServer(t)
	tx := ts.BeginTransaction(t)
	defer ts.RollbackTransaction(t, tx)

	suspended := &models.User{
		Name:         "Suspended",
		Email:        "suspended@test.com",
		PasswordHash: "password123",
		Role:         models.UserRoleClient,
		Status:       models.UserStatusSuspended,
	}
	err := helpers.CreateUser(t, tx, suspended)
	assert.NoError(t, err)

	loginBody := map[string]interface{}{
		"email":    "suspended@test.com",
		"password": "password123",
	}
	res, bodyStr := ts.SendRequest(t, "POST", "/api/v1/auth/login", "", loginBody)

	assert.Equal(t, http.StatusForbidden, res.StatusCode)
	assert.Contains(t, bodyStr, "suspended")
}

// TestRefreshToken_Rotation - refresh выдает новую пару, старый токен умирает
func TestRefreshToken_Rotation(t *testing.T) {
	ts := GetTestServer(t)
	tx := ts.BeginTransaction(t)
	defer ts.RollbackTransaction(t, tx)

	_, user := helpers.CreateAndLoginClient(t, ts, tx)

	loginBody := map[string]interface{}{
		"email":    user.Email,
		"password": "password123",
	}
	_, logBodyStr := ts.SendRequest(t, "POST", "/api/v1/auth/login", "", loginBody)

	var authResp struct {
		RefreshToken string `json:"refresh_token"`
	}
	err := json.Unmarshal([]byte(logBodyStr), &authResp)
	assert.NoError(t, err)
	assert.NotEmpty(t, authResp.RefreshToken)

	// Первый refresh - успех
	refreshBody := map[string]interface{}{"refresh_token": authResp.RefreshToken}
	res1, body1 := ts.SendRequest(t, "POST", "/api/v1/auth/refresh", "", refreshBody)
	assert.Equal(t, http.StatusOK, res1.StatusCode)
	assert.Contains(t, body1, "access_token")

	// Повтор со СТАРЫМ токеном - отказ (ротация)
	res2, body2 := ts.SendRequest(t, "POST", "/api/v1/auth/refresh", "", refreshBody)
	assert.Equal(t, http.StatusUnauthorized, res2.StatusCode)
	t.Logf("РОТАЦИЯ: Старый refresh token мертв. Ответ: %s", body2)
}
