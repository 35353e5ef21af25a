package lifecycle

import (
	"testing"

	"devcraft_backend/internal/models"
	"devcraft_backend/pkg/apperrors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func admin() Actor {
	return Actor{UserID: "admin-1", Role: models.UserRoleAdmin}
}

func client() Actor {
	return Actor{UserID: "client-1", Role: models.UserRoleClient}
}

func price(v float64) *float64 { return &v }

func pendingRequest() *models.CustomRequest {
	userID := "client-1"
	return &models.CustomRequest{
		UserID:   &userID,
		Category: "web",
		Name:     "Test Client",
		Email:    "client@test.com",
		Status:   models.RequestStatusPending,
	}
}

func TestRequestTransition_HappyPath(t *testing.T) {
	req := pendingRequest()

	// pending -> reviewing
	changed, err := ApplyRequestTransition(admin(), req, models.RequestStatusReviewing, nil)
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Equal(t, models.RequestStatusReviewing, req.Status)

	// reviewing -> approved с ценой
	changed, err = ApplyRequestTransition(admin(), req, models.RequestStatusApproved, price(15000))
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Equal(t, models.RequestStatusApproved, req.Status)
	require.NotNil(t, req.ApprovedPrice)
	assert.Equal(t, 15000.0, *req.ApprovedPrice)

	assert.NoError(t, CheckRequestInvariants(req))
}

func TestRequestTransition_PendingStraightToApproved(t *testing.T) {
	req := pendingRequest()

	changed, err := ApplyRequestTransition(admin(), req, models.RequestStatusApproved, price(500))
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Equal(t, models.RequestStatusApproved, req.Status)
}

func TestRequestTransition_ApproveWithoutPrice(t *testing.T) {
	req := pendingRequest()
	req.Status = models.RequestStatusReviewing

	// Без цены
	changed, err := ApplyRequestTransition(admin(), req, models.RequestStatusApproved, nil)
	assert.False(t, changed)
	assert.True(t, apperrors.IsCode(err, apperrors.CodeMissingField))
	// Статус не изменился
	assert.Equal(t, models.RequestStatusReviewing, req.Status)
	assert.Nil(t, req.ApprovedPrice)

	// С нулевой ценой
	changed, err = ApplyRequestTransition(admin(), req, models.RequestStatusApproved, price(0))
	assert.False(t, changed)
	assert.True(t, apperrors.IsCode(err, apperrors.CodeMissingField))
	assert.Equal(t, models.RequestStatusReviewing, req.Status)
}

func TestRequestTransition_AdminOnly(t *testing.T) {
	req := pendingRequest()

	changed, err := ApplyRequestTransition(client(), req, models.RequestStatusReviewing, nil)
	assert.False(t, changed)
	assert.True(t, apperrors.IsCode(err, apperrors.CodeNotAuthorized))
	assert.Equal(t, models.RequestStatusPending, req.Status)
}

func TestRequestTransition_Idempotent(t *testing.T) {
	req := pendingRequest()
	req.Status = models.RequestStatusReviewing

	// Повтор того же статуса - no-op успех, не ошибка
	changed, err := ApplyRequestTransition(admin(), req, models.RequestStatusReviewing, nil)
	assert.NoError(t, err)
	assert.False(t, changed)
	assert.Equal(t, models.RequestStatusReviewing, req.Status)
}

func TestRequestTransition_RejectedIsTerminal(t *testing.T) {
	req := pendingRequest()
	req.Status = models.RequestStatusRejected

	for _, target := range []models.RequestStatus{
		models.RequestStatusReviewing,
		models.RequestStatusApproved,
	} {
		changed, err := ApplyRequestTransition(admin(), req, target, price(100))
		assert.False(t, changed)
		// Переход обязан упасть с InvalidState, а не тихо проглотиться
		assert.True(t, apperrors.IsCode(err, apperrors.CodeInvalidState), "rejected -> %s must fail", target)
	}
}

func TestRequestTransition_ConvertedNotReachableDirectly(t *testing.T) {
	// Прямой admin-переход в converted запрещен из любого статуса,
	// включая approved (туда ведет только оплата)
	for _, from := range models.ValidRequestStatuses {
		req := pendingRequest()
		req.Status = from

		changed, err := ApplyRequestTransition(admin(), req, models.RequestStatusConverted, nil)
		assert.False(t, changed)
		assert.True(t, apperrors.IsCode(err, apperrors.CodeInvalidState), "direct %s -> converted must fail", from)
	}
}

func TestValidateConversion(t *testing.T) {
	req := pendingRequest()
	req.Status = models.RequestStatusApproved
	req.ApprovedPrice = price(15000)

	assert.NoError(t, ValidateConversion(req))

	// reviewing -> converted напрямую (мимо approved) - InvalidState
	req.Status = models.RequestStatusReviewing
	err := ValidateConversion(req)
	assert.True(t, apperrors.IsCode(err, apperrors.CodeInvalidState))

	// Вторая конверсия - AlreadyConverted
	req.Status = models.RequestStatusConverted
	err = ValidateConversion(req)
	assert.True(t, apperrors.IsCode(err, apperrors.CodeAlreadyConverted))

	// approved без привязанного пользователя
	req.Status = models.RequestStatusApproved
	req.UserID = nil
	err = ValidateConversion(req)
	assert.True(t, apperrors.IsCode(err, apperrors.CodeMissingField))
}

func TestApplyConversion(t *testing.T) {
	req := pendingRequest()
	req.Status = models.RequestStatusApproved
	req.ApprovedPrice = price(15000)

	require.NoError(t, ApplyConversion(req, "project-42"))
	assert.Equal(t, models.RequestStatusConverted, req.Status)
	require.NotNil(t, req.ConvertedProjectID)
	assert.Equal(t, "project-42", *req.ConvertedProjectID)
	assert.NoError(t, CheckRequestInvariants(req))

	// Повторная конверсия не должна пройти
	err := ApplyConversion(req, "project-43")
	assert.True(t, apperrors.IsCode(err, apperrors.CodeAlreadyConverted))
	assert.Equal(t, "project-42", *req.ConvertedProjectID, "ссылка на проект неизменна")
}

func TestProjectAdvance_OneStepForward(t *testing.T) {
	project := &models.Project{ClientID: "c1", Amount: 15000, Status: models.ProjectStatusPending}

	require.NoError(t, ApplyProjectAdvance(admin(), project, models.ProjectStatusInProgress))
	assert.Equal(t, models.ProjectStatusInProgress, project.Status)

	require.NoError(t, ApplyProjectAdvance(admin(), project, models.ProjectStatusReview))
	require.NoError(t, ApplyProjectAdvance(admin(), project, models.ProjectStatusCompleted))
	assert.Equal(t, models.ProjectStatusCompleted, project.Status)
}

func TestProjectAdvance_NoSkipNoBack(t *testing.T) {
	project := &models.Project{ClientID: "c1", Amount: 100, Status: models.ProjectStatusPending}

	// pending -> completed (скачок)
	err := ApplyProjectAdvance(admin(), project, models.ProjectStatusCompleted)
	assert.True(t, apperrors.IsCode(err, apperrors.CodeInvalidState))
	assert.Equal(t, models.ProjectStatusPending, project.Status)

	// in_progress -> completed (скачок через review)
	project.Status = models.ProjectStatusInProgress
	err = ApplyProjectAdvance(admin(), project, models.ProjectStatusCompleted)
	assert.True(t, apperrors.IsCode(err, apperrors.CodeInvalidState))

	// Откат назад
	err = ApplyProjectAdvance(admin(), project, models.ProjectStatusPending)
	assert.True(t, apperrors.IsCode(err, apperrors.CodeInvalidState))

	// Из completed хода нет
	project.Status = models.ProjectStatusCompleted
	err = ApplyProjectAdvance(admin(), project, models.ProjectStatusCompleted)
	assert.True(t, apperrors.IsCode(err, apperrors.CodeInvalidState))
}

func TestProjectAdvance_AdminOnly(t *testing.T) {
	project := &models.Project{ClientID: "c1", Amount: 100, Status: models.ProjectStatusPending}

	err := ApplyProjectAdvance(client(), project, models.ProjectStatusInProgress)
	assert.True(t, apperrors.IsCode(err, apperrors.CodeNotAuthorized))
	assert.Equal(t, models.ProjectStatusPending, project.Status)
}
