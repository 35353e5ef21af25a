package integration_test

import (
	"testing"

	"devcraft_backend/internal/models"
	"devcraft_backend/internal/repositories"
	"devcraft_backend/internal/services"
	"devcraft_backend/test/helpers"

	"github.com/stretchr/testify/assert"
)

// TestReconcileSweep_RepairsOrphanedConversion - сверка дочиняет заявку,
// у которой проект уже создан, а обратная ссылка потерялась
func TestReconcileSweep_RepairsOrphanedConversion(t *testing.T) {
	ts := GetTestServer(t)
	tx := ts.BeginTransaction(t)
	defer ts.RollbackTransaction(t, tx)

	_, user := helpers.CreateAndLoginClient(t, ts, tx)
	client := helpers.CreateTestClient(t, tx, user.ID)

	// Оборванное состояние: approved заявка + проект со ссылкой на нее,
	// но без converted/converted_project_id на стороне заявки
	price := 1500.0
	request := helpers.CreateTestRequest(t, tx, &user.ID, "web", models.RequestStatusApproved, &price)
	project := models.Project{
		ClientID:               client.ID,
		Title:                  "Web Platform",
		Amount:                 price,
		Status:                 models.ProjectStatusPending,
		ConvertedFromRequestID: &request.ID,
	}
	assert.NoError(t, tx.Create(&project).Error)

	svc := services.NewReconcileService(repositories.NewRequestRepository(), repositories.NewProjectRepository())

	repaired, err := svc.Sweep(tx)
	assert.NoError(t, err)
	assert.Equal(t, 1, repaired)

	var check models.CustomRequest
	assert.NoError(t, tx.First(&check, "id = ?", request.ID).Error)
	assert.Equal(t, models.RequestStatusConverted, check.Status)
	assert.NotNil(t, check.ConvertedProjectID)
	assert.Equal(t, project.ID, *check.ConvertedProjectID)

	// Повторный проход ничего не находит
	repaired, err = svc.Sweep(tx)
	assert.NoError(t, err)
	assert.Equal(t, 0, repaired)
}

// TestReconcileSweep_IgnoresHealthyState - здоровые данные сверка не трогает
func TestReconcileSweep_IgnoresHealthyState(t *testing.T) {
	ts := GetTestServer(t)
	tx := ts.BeginTransaction(t)
	defer ts.RollbackTransaction(t, tx)

	_, user := helpers.CreateAndLoginClient(t, ts, tx)
	helpers.CreateTestRequest(t, tx, &user.ID, "web", models.RequestStatusPending, nil)
	price := 900.0
	helpers.CreateTestRequest(t, tx, &user.ID, "ai", models.RequestStatusApproved, &price)

	svc := services.NewReconcileService(repositories.NewRequestRepository(), repositories.NewProjectRepository())

	repaired, err := svc.Sweep(tx)
	assert.NoError(t, err)
	assert.Equal(t, 0, repaired)
}
