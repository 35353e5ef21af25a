package integration_test

import (
	"encoding/json"
	"net/http"
	"testing"

	"devcraft_backend/internal/models"
	"devcraft_backend/test/helpers"

	"github.com/stretchr/testify/assert"
)

// TestProjectBoard - канбан группирует проекты по всем четырем колонкам
func TestProjectBoard(t *testing.T) {
	ts := GetTestServer(t)
	tx := ts.BeginTransaction(t)
	defer ts.RollbackTransaction(t, tx)

	adminToken, _ := helpers.CreateAndLoginAdmin(t, ts, tx)
	_, user := helpers.CreateAndLoginClient(t, ts, tx)
	client := helpers.CreateTestClient(t, tx, user.ID)

	helpers.CreateTestProject(t, tx, client.ID, "Site A", 1000, models.ProjectStatusPending)
	helpers.CreateTestProject(t, tx, client.ID, "Site B", 2000, models.ProjectStatusInProgress)
	helpers.CreateTestProject(t, tx, client.ID, "Site C", 3000, models.ProjectStatusCompleted)

	res, bodyStr := ts.SendRequest(t, "GET", "/api/v1/admin/projects/board", adminToken, nil)
	assert.Equal(t, http.StatusOK, res.StatusCode)

	var board struct {
		Columns []struct {
			Status   string `json:"status"`
			Projects []struct {
				Title string `json:"title"`
			} `json:"projects"`
		} `json:"columns"`
	}
	assert.NoError(t, json.Unmarshal([]byte(bodyStr), &board))

	// Все колонки присутствуют даже пустые, порядок конвейера фиксирован
	assert.Len(t, board.Columns, 4)
	assert.Equal(t, "pending", board.Columns[0].Status)
	assert.Equal(t, "in_progress", board.Columns[1].Status)
	assert.Equal(t, "review", board.Columns[2].Status)
	assert.Equal(t, "completed", board.Columns[3].Status)

	assert.Len(t, board.Columns[0].Projects, 1)
	assert.Len(t, board.Columns[2].Projects, 0)
	assert.Equal(t, "Site C", board.Columns[3].Projects[0].Title)
}

// TestProjectAdvance_OneStepForward - проект двигается строго на шаг вперед
func TestProjectAdvance_OneStepForward(t *testing.T) {
	ts := GetTestServer(t)
	tx := ts.BeginTransaction(t)
	defer ts.RollbackTransaction(t, tx)

	adminToken, _ := helpers.CreateAndLoginAdmin(t, ts, tx)
	_, user := helpers.CreateAndLoginClient(t, ts, tx)
	client := helpers.CreateTestClient(t, tx, user.ID)
	project := helpers.CreateTestProject(t, tx, client.ID, "Stepper", 1000, models.ProjectStatusPending)

	advanceURL := "/api/v1/admin/projects/" + project.ID + "/advance"

	// Скачок через колонку запрещен
	res1, body1 := ts.SendRequest(t, "PUT", advanceURL, adminToken, map[string]interface{}{"status": "review"})
	assert.Equal(t, http.StatusConflict, res1.StatusCode)
	t.Logf("СКАЧОК: Отклонен (409). Ответ: %s", body1)

	// Шаг вперед разрешен
	res2, body2 := ts.SendRequest(t, "PUT", advanceURL, adminToken, map[string]interface{}{"status": "in_progress"})
	assert.Equal(t, http.StatusOK, res2.StatusCode)
	assert.Contains(t, body2, `"status":"in_progress"`)

	// Откат назад запрещен
	res3, _ := ts.SendRequest(t, "PUT", advanceURL, adminToken, map[string]interface{}{"status": "pending"})
	assert.Equal(t, http.StatusConflict, res3.StatusCode)

	// Дошли до конца конвейера
	res4, _ := ts.SendRequest(t, "PUT", advanceURL, adminToken, map[string]interface{}{"status": "review"})
	assert.Equal(t, http.StatusOK, res4.StatusCode)
	res5, _ := ts.SendRequest(t, "PUT", advanceURL, adminToken, map[string]interface{}{"status": "completed"})
	assert.Equal(t, http.StatusOK, res5.StatusCode)

	// completed - терминальный статус
	res6, body6 := ts.SendRequest(t, "PUT", advanceURL, adminToken, map[string]interface{}{"status": "completed"})
	assert.Equal(t, http.StatusConflict, res6.StatusCode)
	assert.Contains(t, body6, "already completed")
}

// TestProjectAdvance_ForbiddenForClient - клиент не двигает доску
func TestProjectAdvance_ForbiddenForClient(t *testing.T) {
	ts := GetTestServer(t)
	tx := ts.BeginTransaction(t)
	defer ts.RollbackTransaction(t, tx)

	clientToken, user := helpers.CreateAndLoginClient(t, ts, tx)
	client := helpers.CreateTestClient(t, tx, user.ID)
	project := helpers.CreateTestProject(t, tx, client.ID, "Locked", 500, models.ProjectStatusPending)

	advanceURL := "/api/v1/admin/projects/" + project.ID + "/advance"
	res, _ := ts.SendRequest(t, "PUT", advanceURL, clientToken, map[string]interface{}{"status": "in_progress"})
	assert.Equal(t, http.StatusForbidden, res.StatusCode)
}

// TestProjectListMy - клиент видит только свои проекты
func TestProjectListMy(t *testing.T) {
	ts := GetTestServer(t)
	tx := ts.BeginTransaction(t)
	defer ts.RollbackTransaction(t, tx)

	tokenA, userA := helpers.CreateAndLoginClient(t, ts, tx)
	_, userB := helpers.CreateAndLoginClient(t, ts, tx)
	clientA := helpers.CreateTestClient(t, tx, userA.ID)
	clientB := helpers.CreateTestClient(t, tx, userB.ID)

	helpers.CreateTestProject(t, tx, clientA.ID, "Mine", 1000, models.ProjectStatusPending)
	helpers.CreateTestProject(t, tx, clientB.ID, "Not Mine", 2000, models.ProjectStatusPending)

	res, bodyStr := ts.SendRequest(t, "GET", "/api/v1/projects/my", tokenA, nil)
	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.Contains(t, bodyStr, "Mine")
	assert.NotContains(t, bodyStr, "Not Mine")
}

// TestProjectListMy_NoPurchases - клиент без покупок получает пустой список
func TestProjectListMy_NoPurchases(t *testing.T) {
	ts := GetTestServer(t)
	tx := ts.BeginTransaction(t)
	defer ts.RollbackTransaction(t, tx)

	token, _ := helpers.CreateAndLoginClient(t, ts, tx)

	res, bodyStr := ts.SendRequest(t, "GET", "/api/v1/projects/my", token, nil)
	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.Contains(t, bodyStr, `"projects":[]`)
}

// TestFinanceOverview - агрегаты по оплатам плюс последние транзакции
func TestFinanceOverview(t *testing.T) {
	ts := GetTestServer(t)
	tx := ts.BeginTransaction(t)
	defer ts.RollbackTransaction(t, tx)

	adminToken, _ := helpers.CreateAndLoginAdmin(t, ts, tx)
	clientToken, _ := helpers.CreateAndLoginClient(t, ts, tx)
	service := helpers.CreateTestService(t, tx, "web", "Shop", 1200)

	checkoutBody := map[string]interface{}{
		"kind":       "catalog",
		"service_id": service.ID,
	}
	res, _ := ts.SendRequest(t, "POST", "/api/v1/checkout", clientToken, checkoutBody)
	assert.Equal(t, http.StatusCreated, res.StatusCode)

	finRes, finBodyStr := ts.SendRequest(t, "GET", "/api/v1/admin/projects/finance", adminToken, nil)
	assert.Equal(t, http.StatusOK, finRes.StatusCode)

	var finance struct {
		Stats struct {
			TotalRevenue   float64 `json:"total_revenue"`
			PendingRevenue float64 `json:"pending_revenue"`
			ProjectCount   int64   `json:"project_count"`
		} `json:"stats"`
		RecentTransactions []struct {
			Amount float64 `json:"amount"`
		} `json:"recent_transactions"`
	}
	assert.NoError(t, json.Unmarshal([]byte(finBodyStr), &finance))
	// Свежекупленный проект еще не завершен - выручка в pending
	assert.Equal(t, 1200.0, finance.Stats.PendingRevenue)
	assert.Equal(t, int64(1), finance.Stats.ProjectCount)
	assert.Len(t, finance.RecentTransactions, 1)
	assert.Equal(t, 1200.0, finance.RecentTransactions[0].Amount)
}
