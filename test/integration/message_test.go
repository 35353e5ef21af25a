package integration_test

import (
	"encoding/json"
	"net/http"
	"testing"

	"devcraft_backend/internal/models"
	"devcraft_backend/test/helpers"

	"github.com/stretchr/testify/assert"
)

// TestMessaging_RequestThread - переписка по заявке до конверсии
func TestMessaging_RequestThread(t *testing.T) {
	ts := GetTestServer(t)
	tx := ts.BeginTransaction(t)
	defer ts.RollbackTransaction(t, tx)

	adminToken, _ := helpers.CreateAndLoginAdmin(t, ts, tx)
	clientToken, user := helpers.CreateAndLoginClient(t, ts, tx)
	request := helpers.CreateTestRequest(t, tx, &user.ID, "web", models.RequestStatusReviewing, nil)

	// Клиент пишет в тред заявки
	sendBody := map[string]interface{}{
		"request_id": request.ID,
		"text":       "Когда будет оценка?",
	}
	res1, body1 := ts.SendRequest(t, "POST", "/api/v1/messages", clientToken, sendBody)
	assert.Equal(t, http.StatusCreated, res1.StatusCode)
	assert.Contains(t, body1, `"sender_type":"client"`)

	// Админ отвечает
	replyBody := map[string]interface{}{
		"request_id": request.ID,
		"text":       "Завтра пришлем смету",
	}
	res2, body2 := ts.SendRequest(t, "POST", "/api/v1/messages", adminToken, replyBody)
	assert.Equal(t, http.StatusCreated, res2.StatusCode)
	assert.Contains(t, body2, `"sender_type":"admin"`)

	// Клиент видит оба сообщения и одно непрочитанное (от админа)
	res3, body3 := ts.SendRequest(t, "GET", "/api/v1/messages/thread?request_id="+request.ID, clientToken, nil)
	assert.Equal(t, http.StatusOK, res3.StatusCode)

	var thread struct {
		Messages []struct {
			Text string `json:"text"`
		} `json:"messages"`
		Unread int64 `json:"unread"`
	}
	assert.NoError(t, json.Unmarshal([]byte(body3), &thread))
	assert.Len(t, thread.Messages, 2)
	assert.Equal(t, int64(1), thread.Unread)

	// После отметки прочитанным счетчик обнуляется
	res4, _ := ts.SendRequest(t, "PUT", "/api/v1/messages/thread/read?request_id="+request.ID, clientToken, nil)
	assert.Equal(t, http.StatusOK, res4.StatusCode)

	_, body5 := ts.SendRequest(t, "GET", "/api/v1/messages/thread?request_id="+request.ID, clientToken, nil)
	assert.NoError(t, json.Unmarshal([]byte(body5), &thread))
	assert.Equal(t, int64(0), thread.Unread)
}

// TestMessaging_ThreadSurvivesConversion - история заявки видна из треда проекта
func TestMessaging_ThreadSurvivesConversion(t *testing.T) {
	ts := GetTestServer(t)
	tx := ts.BeginTransaction(t)
	defer ts.RollbackTransaction(t, tx)

	clientToken, user := helpers.CreateAndLoginClient(t, ts, tx)
	price := 2000.0
	request := helpers.CreateTestRequest(t, tx, &user.ID, "mobile", models.RequestStatusApproved, &price)

	// Сообщение до конверсии
	sendBody := map[string]interface{}{
		"request_id": request.ID,
		"text":       "Сообщение до оплаты",
	}
	res1, _ := ts.SendRequest(t, "POST", "/api/v1/messages", clientToken, sendBody)
	assert.Equal(t, http.StatusCreated, res1.StatusCode)

	// Оплата конвертирует заявку в проект
	checkoutBody := map[string]interface{}{
		"kind":       "custom_request",
		"request_id": request.ID,
	}
	res2, body2 := ts.SendRequest(t, "POST", "/api/v1/checkout", clientToken, checkoutBody)
	assert.Equal(t, http.StatusCreated, res2.StatusCode)

	var checkout struct {
		Project struct {
			ID string `json:"id"`
		} `json:"project"`
	}
	assert.NoError(t, json.Unmarshal([]byte(body2), &checkout))

	// Сообщение после конверсии адресуется проекту
	sendBody2 := map[string]interface{}{
		"project_id": checkout.Project.ID,
		"text":       "Сообщение после оплаты",
	}
	res3, _ := ts.SendRequest(t, "POST", "/api/v1/messages", clientToken, sendBody2)
	assert.Equal(t, http.StatusCreated, res3.StatusCode)

	// Тред проекта содержит ОБА сообщения - история не потерялась
	res4, body4 := ts.SendRequest(t, "GET", "/api/v1/messages/thread?project_id="+checkout.Project.ID, clientToken, nil)
	assert.Equal(t, http.StatusOK, res4.StatusCode)

	var thread struct {
		Messages []struct {
			Text string `json:"text"`
		} `json:"messages"`
	}
	assert.NoError(t, json.Unmarshal([]byte(body4), &thread))
	assert.Len(t, thread.Messages, 2)
	assert.Equal(t, "Сообщение до оплаты", thread.Messages[0].Text)
	assert.Equal(t, "Сообщение после оплаты", thread.Messages[1].Text)

	// Адресация по старому request_id ведет в тот же тред
	res5, body5 := ts.SendRequest(t, "GET", "/api/v1/messages/thread?request_id="+request.ID, clientToken, nil)
	assert.Equal(t, http.StatusOK, res5.StatusCode)
	assert.NoError(t, json.Unmarshal([]byte(body5), &thread))
	assert.Len(t, thread.Messages, 2)
	t.Logf("НЕПРЕРЫВНОСТЬ ТРЕДА: История пережила конверсию")
}

// TestMessaging_ForeignThreadForbidden - чужой тред закрыт
func TestMessaging_ForeignThreadForbidden(t *testing.T) {
	ts := GetTestServer(t)
	tx := ts.BeginTransaction(t)
	defer ts.RollbackTransaction(t, tx)

	_, owner := helpers.CreateAndLoginClient(t, ts, tx)
	strangerToken, _ := helpers.CreateAndLoginClient(t, ts, tx)
	request := helpers.CreateTestRequest(t, tx, &owner.ID, "web", models.RequestStatusPending, nil)

	res, _ := ts.SendRequest(t, "GET", "/api/v1/messages/thread?request_id="+request.ID, strangerToken, nil)
	assert.Equal(t, http.StatusForbidden, res.StatusCode)

	sendBody := map[string]interface{}{
		"request_id": request.ID,
		"text":       "Не мое дело",
	}
	res2, _ := ts.SendRequest(t, "POST", "/api/v1/messages", strangerToken, sendBody)
	assert.Equal(t, http.StatusForbidden, res2.StatusCode)
}

// TestMessaging_ThreadKeyRequired - без ключа треда запрос не проходит
func TestMessaging_ThreadKeyRequired(t *testing.T) {
	ts := GetTestServer(t)
	tx := ts.BeginTransaction(t)
	defer ts.RollbackTransaction(t, tx)

	clientToken, _ := helpers.CreateAndLoginClient(t, ts, tx)

	sendBody := map[string]interface{}{"text": "В никуда"}
	res, bodyStr := ts.SendRequest(t, "POST", "/api/v1/messages", clientToken, sendBody)

	assert.Equal(t, http.StatusBadRequest, res.StatusCode)
	assert.Contains(t, bodyStr, "request_id or project_id")
}
