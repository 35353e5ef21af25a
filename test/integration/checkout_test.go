package integration_test

import (
	"encoding/json"
	"net/http"
	"testing"

	"devcraft_backend/internal/lifecycle"
	"devcraft_backend/internal/models"
	"devcraft_backend/test/helpers"

	"github.com/stretchr/testify/assert"
)

// TestCheckout_CatalogService - покупка из каталога создает проект и транзакцию
func TestCheckout_CatalogService(t *testing.T) {
	ts := GetTestServer(t)
	tx := ts.BeginTransaction(t)
	defer ts.RollbackTransaction(t, tx)

	clientToken, user := helpers.CreateAndLoginClient(t, ts, tx)
	service := helpers.CreateTestService(t, tx, "web", "Landing Page", 900)

	checkoutBody := map[string]interface{}{
		"kind":       "catalog",
		"service_id": service.ID,
	}
	res, bodyStr := ts.SendRequest(t, "POST", "/api/v1/checkout", clientToken, checkoutBody)

	assert.Equal(t, http.StatusCreated, res.StatusCode)
	t.Logf("ЧЕКАУТ КАТАЛОГА: Успешно. Ответ: %s", bodyStr)

	var resp struct {
		Project struct {
			ID     string  `json:"id"`
			Title  string  `json:"title"`
			Amount float64 `json:"amount"`
			Status string  `json:"status"`
		} `json:"project"`
		Transaction struct {
			Amount float64 `json:"amount"`
			Status string  `json:"status"`
			Kind   string  `json:"kind"`
		} `json:"transaction"`
	}
	assert.NoError(t, json.Unmarshal([]byte(bodyStr), &resp))
	assert.Equal(t, "Landing Page", resp.Project.Title)
	assert.Equal(t, 900.0, resp.Project.Amount)
	assert.Equal(t, "pending", resp.Project.Status)
	assert.Equal(t, "paid", resp.Transaction.Status)
	assert.Equal(t, "catalog", resp.Transaction.Kind)

	// Клиентская запись создана лениво
	var client models.Client
	assert.NoError(t, tx.First(&client, "user_id = ?", user.ID).Error)
}

// TestCheckout_InactiveService - неактивную позицию купить нельзя
func TestCheckout_InactiveService(t *testing.T) {
	ts := GetTestServer(t)
	tx := ts.BeginTransaction(t)
	defer ts.RollbackTransaction(t, tx)

	clientToken, _ := helpers.CreateAndLoginClient(t, ts, tx)
	service := helpers.CreateTestService(t, tx, "web", "Old Offer", 500)
	assert.NoError(t, tx.Model(&service).Update("status", models.ServiceStatusInactive).Error)

	checkoutBody := map[string]interface{}{
		"kind":       "catalog",
		"service_id": service.ID,
	}
	res, _ := ts.SendRequest(t, "POST", "/api/v1/checkout", clientToken, checkoutBody)
	assert.Equal(t, http.StatusConflict, res.StatusCode)
}

// TestCheckout_RequestConversion - оплата одобренной заявки рождает проект
func TestCheckout_RequestConversion(t *testing.T) {
	ts := GetTestServer(t)
	tx := ts.BeginTransaction(t)
	defer ts.RollbackTransaction(t, tx)

	clientToken, user := helpers.CreateAndLoginClient(t, ts, tx)
	price := 3200.0
	request := helpers.CreateTestRequest(t, tx, &user.ID, "ai", models.RequestStatusApproved, &price)

	checkoutBody := map[string]interface{}{
		"kind":       "custom_request",
		"request_id": request.ID,
	}
	res, bodyStr := ts.SendRequest(t, "POST", "/api/v1/checkout", clientToken, checkoutBody)

	assert.Equal(t, http.StatusCreated, res.StatusCode)
	t.Logf("КОНВЕРСИЯ: Успешно. Ответ: %s", bodyStr)

	var resp struct {
		Project struct {
			ID                     string  `json:"id"`
			Title                  string  `json:"title"`
			Amount                 float64 `json:"amount"`
			ConvertedFromRequestID string  `json:"converted_from_request_id"`
		} `json:"project"`
	}
	assert.NoError(t, json.Unmarshal([]byte(bodyStr), &resp))
	// Заголовок из человекочитаемого названия категории, сумма из одобренной цены
	assert.Equal(t, "AI Solution", resp.Project.Title)
	assert.Equal(t, price, resp.Project.Amount)
	assert.Equal(t, request.ID, resp.Project.ConvertedFromRequestID)

	// Заявка помечена converted с обратной ссылкой, инварианты целы
	var check models.CustomRequest
	assert.NoError(t, tx.First(&check, "id = ?", request.ID).Error)
	assert.Equal(t, models.RequestStatusConverted, check.Status)
	assert.NotNil(t, check.ConvertedProjectID)
	assert.Equal(t, resp.Project.ID, *check.ConvertedProjectID)
	assert.NoError(t, lifecycle.CheckRequestInvariants(&check))
}

// TestCheckout_DoubleConversion - вторая оплата не создает второй проект
func TestCheckout_DoubleConversion(t *testing.T) {
	ts := GetTestServer(t)
	tx := ts.BeginTransaction(t)
	defer ts.RollbackTransaction(t, tx)

	clientToken, user := helpers.CreateAndLoginClient(t, ts, tx)
	price := 1000.0
	request := helpers.CreateTestRequest(t, tx, &user.ID, "web", models.RequestStatusApproved, &price)

	checkoutBody := map[string]interface{}{
		"kind":       "custom_request",
		"request_id": request.ID,
	}

	res1, _ := ts.SendRequest(t, "POST", "/api/v1/checkout", clientToken, checkoutBody)
	assert.Equal(t, http.StatusCreated, res1.StatusCode)

	res2, body2 := ts.SendRequest(t, "POST", "/api/v1/checkout", clientToken, checkoutBody)
	assert.Equal(t, http.StatusConflict, res2.StatusCode)
	assert.Contains(t, body2, "already converted")
	t.Logf("ДВОЙНАЯ КОНВЕРСИЯ: Отклонена (409). Ответ: %s", body2)

	// Проект ровно один
	var count int64
	tx.Model(&models.Project{}).Where("converted_from_request_id = ?", request.ID).Count(&count)
	assert.Equal(t, int64(1), count)
}

// TestCheckout_NotApprovedRequest - до approved платить не за что
func TestCheckout_NotApprovedRequest(t *testing.T) {
	ts := GetTestServer(t)
	tx := ts.BeginTransaction(t)
	defer ts.RollbackTransaction(t, tx)

	clientToken, user := helpers.CreateAndLoginClient(t, ts, tx)
	request := helpers.CreateTestRequest(t, tx, &user.ID, "web", models.RequestStatusReviewing, nil)

	checkoutBody := map[string]interface{}{
		"kind":       "custom_request",
		"request_id": request.ID,
	}
	res, bodyStr := ts.SendRequest(t, "POST", "/api/v1/checkout", clientToken, checkoutBody)

	assert.Equal(t, http.StatusConflict, res.StatusCode)
	assert.Contains(t, bodyStr, "approved")
}

// TestCheckout_RejectedRequest - отклоненная заявка не оплачивается
func TestCheckout_RejectedRequest(t *testing.T) {
	ts := GetTestServer(t)
	tx := ts.BeginTransaction(t)
	defer ts.RollbackTransaction(t, tx)

	clientToken, user := helpers.CreateAndLoginClient(t, ts, tx)
	request := helpers.CreateTestRequest(t, tx, &user.ID, "web", models.RequestStatusRejected, nil)

	checkoutBody := map[string]interface{}{
		"kind":       "custom_request",
		"request_id": request.ID,
	}
	res, _ := ts.SendRequest(t, "POST", "/api/v1/checkout", clientToken, checkoutBody)
	assert.Equal(t, http.StatusConflict, res.StatusCode)
}

// TestCheckout_ForeignRequest - чужую заявку оплатить нельзя
func TestCheckout_ForeignRequest(t *testing.T) {
	ts := GetTestServer(t)
	tx := ts.BeginTransaction(t)
	defer ts.RollbackTransaction(t, tx)

	_, owner := helpers.CreateAndLoginClient(t, ts, tx)
	strangerToken, _ := helpers.CreateAndLoginClient(t, ts, tx)
	price := 700.0
	request := helpers.CreateTestRequest(t, tx, &owner.ID, "web", models.RequestStatusApproved, &price)

	checkoutBody := map[string]interface{}{
		"kind":       "custom_request",
		"request_id": request.ID,
	}
	res, _ := ts.SendRequest(t, "POST", "/api/v1/checkout", strangerToken, checkoutBody)
	assert.Equal(t, http.StatusForbidden, res.StatusCode)
}

// TestCheckout_KindMismatch - kind и id должны соответствовать друг другу
func TestCheckout_KindMismatch(t *testing.T) {
	ts := GetTestServer(t)
	tx := ts.BeginTransaction(t)
	defer ts.RollbackTransaction(t, tx)

	clientToken, _ := helpers.CreateAndLoginClient(t, ts, tx)

	// catalog без service_id
	res1, _ := ts.SendRequest(t, "POST", "/api/v1/checkout", clientToken, map[string]interface{}{"kind": "catalog"})
	assert.Equal(t, http.StatusBadRequest, res1.StatusCode)

	// custom_request без request_id
	res2, _ := ts.SendRequest(t, "POST", "/api/v1/checkout", clientToken, map[string]interface{}{"kind": "custom_request"})
	assert.Equal(t, http.StatusBadRequest, res2.StatusCode)

	// неизвестный kind
	res3, _ := ts.SendRequest(t, "POST", "/api/v1/checkout", clientToken, map[string]interface{}{"kind": "subscription"})
	assert.Equal(t, http.StatusBadRequest, res3.StatusCode)
}
