package integration_test

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	"devcraft_backend/internal/models"
	"devcraft_backend/test/helpers"

	"github.com/stretchr/testify/assert"
)

// TestSubmitRequest_Anonymous - публичная форма работает без логина
func TestSubmitRequest_Anonymous(t *testing.T) {
	ts := GetTestServer(t)
	tx := ts.BeginTransaction(t)
	defer ts.RollbackTransaction(t, tx)

	submitBody := map[string]interface{}{
		"category": "web",
		"name":     "Аноним",
		"email":    "anon@test.com",
		"details":  "Нужен сайт",
		"budget":   "$5k-10k",
	}
	res, bodyStr := ts.SendRequest(t, "POST", "/api/v1/requests", "", submitBody)

	assert.Equal(t, http.StatusCreated, res.StatusCode)
	assert.Contains(t, bodyStr, `"status":"pending"`)
	assert.Contains(t, bodyStr, `"category_label":"Web Platform"`)
	assert.NotContains(t, bodyStr, `"user_id"`)
	t.Logf("АНОНИМНАЯ ЗАЯВКА: Успешно. Ответ: %s", bodyStr)
}

// TestSubmitRequest_Authenticated - заявка вошедшего привязывается к нему
func TestSubmitRequest_Authenticated(t *testing.T) {
	ts := GetTestServer(t)
	tx := ts.BeginTransaction(t)
	defer ts.RollbackTransaction(t, tx)

	token, user := helpers.CreateAndLoginClient(t, ts, tx)

	submitBody := map[string]interface{}{
		"category": "mobile",
		"name":     user.Name,
		"email":    user.Email,
	}
	res, bodyStr := ts.SendRequest(t, "POST", "/api/v1/requests", token, submitBody)

	assert.Equal(t, http.StatusCreated, res.StatusCode)
	assert.Contains(t, bodyStr, fmt.Sprintf(`"user_id":"%s"`, user.ID))

	// Заявка видна в "моих"
	myRes, myBodyStr := ts.SendRequest(t, "GET", "/api/v1/requests/my", token, nil)
	assert.Equal(t, http.StatusOK, myRes.StatusCode)
	assert.Contains(t, myBodyStr, `"category":"mobile"`)
}

// TestRequestStatusFlow - pending -> reviewing -> approved с ценой
func TestRequestStatusFlow(t *testing.T) {
	ts := GetTestServer(t)
	tx := ts.BeginTransaction(t)
	defer ts.RollbackTransaction(t, tx)

	adminToken, _ := helpers.CreateAndLoginAdmin(t, ts, tx)
	_, client := helpers.CreateAndLoginClient(t, ts, tx)
	request := helpers.CreateTestRequest(t, tx, &client.ID, "ai", models.RequestStatusPending, nil)

	statusURL := "/api/v1/admin/requests/" + request.ID + "/status"

	// pending -> reviewing
	res1, body1 := ts.SendRequest(t, "PUT", statusURL, adminToken, map[string]interface{}{"status": "reviewing"})
	assert.Equal(t, http.StatusOK, res1.StatusCode)
	assert.Contains(t, body1, `"status":"reviewing"`)

	// reviewing -> approved БЕЗ цены - отказ, статус не меняется
	res2, body2 := ts.SendRequest(t, "PUT", statusURL, adminToken, map[string]interface{}{"status": "approved"})
	assert.Equal(t, http.StatusBadRequest, res2.StatusCode)
	t.Logf("APPROVE БЕЗ ЦЕНЫ: Отклонено (400). Ответ: %s", body2)

	var check models.CustomRequest
	assert.NoError(t, tx.First(&check, "id = ?", request.ID).Error)
	assert.Equal(t, models.RequestStatusReviewing, check.Status)

	// reviewing -> approved С ценой
	res3, body3 := ts.SendRequest(t, "PUT", statusURL, adminToken, map[string]interface{}{"status": "approved", "price": 2500.0})
	assert.Equal(t, http.StatusOK, res3.StatusCode)
	assert.Contains(t, body3, `"approved_price":2500`)

	// approved -> reviewing (откат) запрещен
	res4, _ := ts.SendRequest(t, "PUT", statusURL, adminToken, map[string]interface{}{"status": "reviewing"})
	assert.Equal(t, http.StatusConflict, res4.StatusCode)
}

// TestRequestStatus_IdempotentRepeat - повтор текущего статуса это no-op успех
func TestRequestStatus_IdempotentRepeat(t *testing.T) {
	ts := GetTestServer(t)
	tx := ts.BeginTransaction(t)
	defer ts.RollbackTransaction(t, tx)

	adminToken, _ := helpers.CreateAndLoginAdmin(t, ts, tx)
	request := helpers.CreateTestRequest(t, tx, nil, "web", models.RequestStatusReviewing, nil)

	statusURL := "/api/v1/admin/requests/" + request.ID + "/status"
	res, bodyStr := ts.SendRequest(t, "PUT", statusURL, adminToken, map[string]interface{}{"status": "reviewing"})

	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.Contains(t, bodyStr, `"status":"reviewing"`)
}

// TestRequestStatus_ConvertedUnreachableByAdmin - в converted нельзя перевести руками
func TestRequestStatus_ConvertedUnreachableByAdmin(t *testing.T) {
	ts := GetTestServer(t)
	tx := ts.BeginTransaction(t)
	defer ts.RollbackTransaction(t, tx)

	adminToken, _ := helpers.CreateAndLoginAdmin(t, ts, tx)
	price := 1000.0
	request := helpers.CreateTestRequest(t, tx, nil, "web", models.RequestStatusApproved, &price)

	statusURL := "/api/v1/admin/requests/" + request.ID + "/status"
	res, bodyStr := ts.SendRequest(t, "PUT", statusURL, adminToken, map[string]interface{}{"status": "converted"})

	assert.Equal(t, http.StatusConflict, res.StatusCode)
	assert.Contains(t, bodyStr, "payment conversion")
}

// TestRequestStatus_ForbiddenForClient - клиент не может менять статусы
func TestRequestStatus_ForbiddenForClient(t *testing.T) {
	ts := GetTestServer(t)
	tx := ts.BeginTransaction(t)
	defer ts.RollbackTransaction(t, tx)

	clientToken, client := helpers.CreateAndLoginClient(t, ts, tx)
	request := helpers.CreateTestRequest(t, tx, &client.ID, "web", models.RequestStatusPending, nil)

	statusURL := "/api/v1/admin/requests/" + request.ID + "/status"
	res, _ := ts.SendRequest(t, "PUT", statusURL, clientToken, map[string]interface{}{"status": "reviewing"})

	assert.Equal(t, http.StatusForbidden, res.StatusCode)
}

// TestApproveShortcut - POST /approve это переход в approved с ценой
func TestApproveShortcut(t *testing.T) {
	ts := GetTestServer(t)
	tx := ts.BeginTransaction(t)
	defer ts.RollbackTransaction(t, tx)

	adminToken, _ := helpers.CreateAndLoginAdmin(t, ts, tx)
	request := helpers.CreateTestRequest(t, tx, nil, "design", models.RequestStatusPending, nil)

	approveURL := "/api/v1/admin/requests/" + request.ID + "/approve"
	res, bodyStr := ts.SendRequest(t, "POST", approveURL, adminToken, map[string]interface{}{"price": 1500.0})

	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.Contains(t, bodyStr, `"status":"approved"`)
	assert.Contains(t, bodyStr, `"approved_price":1500`)
}

// TestRequestStats - счетчики по статусам для дашборда
func TestRequestStats(t *testing.T) {
	ts := GetTestServer(t)
	tx := ts.BeginTransaction(t)
	defer ts.RollbackTransaction(t, tx)

	adminToken, _ := helpers.CreateAndLoginAdmin(t, ts, tx)
	helpers.CreateTestRequest(t, tx, nil, "web", models.RequestStatusPending, nil)
	helpers.CreateTestRequest(t, tx, nil, "mobile", models.RequestStatusPending, nil)
	helpers.CreateTestRequest(t, tx, nil, "ai", models.RequestStatusRejected, nil)

	res, bodyStr := ts.SendRequest(t, "GET", "/api/v1/admin/requests/stats", adminToken, nil)
	assert.Equal(t, http.StatusOK, res.StatusCode)

	var stats struct {
		Counts map[string]int64 `json:"counts"`
		Total  int64            `json:"total"`
	}
	assert.NoError(t, json.Unmarshal([]byte(bodyStr), &stats))
	assert.Equal(t, int64(2), stats.Counts["pending"])
	assert.Equal(t, int64(1), stats.Counts["rejected"])
	assert.Equal(t, int64(3), stats.Total)
}

// TestGetRequest_OwnershipEnforced - чужую заявку клиент не видит
func TestGetRequest_OwnershipEnforced(t *testing.T) {
	ts := GetTestServer(t)
	tx := ts.BeginTransaction(t)
	defer ts.RollbackTransaction(t, tx)

	_, owner := helpers.CreateAndLoginClient(t, ts, tx)
	strangerToken, _ := helpers.CreateAndLoginClient(t, ts, tx)
	request := helpers.CreateTestRequest(t, tx, &owner.ID, "web", models.RequestStatusPending, nil)

	res, _ := ts.SendRequest(t, "GET", "/api/v1/requests/"+request.ID, strangerToken, nil)
	assert.Equal(t, http.StatusForbidden, res.StatusCode)
}
