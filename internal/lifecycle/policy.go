package lifecycle

import (
	"fmt"

	"devcraft_backend/internal/models"
	"devcraft_backend/pkg/apperrors"
)

// Политика переходов заявок и проектов. Здесь нет ни БД, ни контекста -
// только правила. Сервисы применяют результат к хранилищу.

// requestTransitions - разрешенные админ-переходы заявки.
// converted здесь отсутствует намеренно: в него можно попасть только
// через конверсию по факту оплаты (ApplyConversion), не админ-действием.
var requestTransitions = map[models.RequestStatus][]models.RequestStatus{
	models.RequestStatusPending:   {models.RequestStatusReviewing, models.RequestStatusApproved, models.RequestStatusRejected},
	models.RequestStatusReviewing: {models.RequestStatusApproved, models.RequestStatusRejected},
	models.RequestStatusApproved:  {},
	models.RequestStatusRejected:  {},
	models.RequestStatusConverted: {},
}

func requestTransitionAllowed(from, to models.RequestStatus) bool {
	for _, t := range requestTransitions[from] {
		if t == to {
			return true
		}
	}
	return false
}

// ApplyRequestTransition применяет админ-переход заявки в target.
// Возвращает changed=false для идемпотентного повтора (target совпадает
// с текущим статусом) - это успех, а не ошибка.
//
// При target=approved цена обязана прийти атомарно с переходом:
// nil или <= 0 отклоняются с MISSING_FIELD, статус не меняется.
func ApplyRequestTransition(actor Actor, req *models.CustomRequest, target models.RequestStatus, approvedPrice *float64) (bool, error) {
	if !actor.IsAdmin() {
		return false, apperrors.ErrNotAuthorized("request", "Only admin can change request status")
	}

	if target == models.RequestStatusConverted {
		// Прямой admin-переход в converted запрещен всегда,
		// даже если заявка уже converted
		return false, apperrors.ErrInvalidState("request",
			"Status 'converted' is reachable only through payment conversion")
	}

	if req.Status == target {
		// Идемпотентный повтор - no-op успех
		return false, nil
	}

	if !requestTransitionAllowed(req.Status, target) {
		return false, apperrors.ErrInvalidState("request",
			fmt.Sprintf("Transition %s -> %s is not allowed", req.Status, target))
	}

	if target == models.RequestStatusApproved {
		if approvedPrice == nil || *approvedPrice <= 0 {
			return false, apperrors.ErrApprovedPriceRequired
		}
		req.ApprovedPrice = approvedPrice
	}

	req.Status = target
	return true, nil
}

// ValidateConversion проверяет, что заявка готова к конверсии по факту оплаты.
// Требования: статус approved, положительная ApprovedPrice, привязанный пользователь.
func ValidateConversion(req *models.CustomRequest) error {
	switch req.Status {
	case models.RequestStatusConverted:
		// Вторая конверсия обязана упасть, а не создать второй проект
		return apperrors.ErrRequestAlreadyConverted
	case models.RequestStatusApproved:
		// ok
	case models.RequestStatusRejected:
		return apperrors.ErrRequestRejected
	default:
		return apperrors.ErrInvalidState("request",
			fmt.Sprintf("Conversion requires status 'approved', current is '%s'", req.Status))
	}

	if req.ApprovedPrice == nil || *req.ApprovedPrice <= 0 {
		return apperrors.ErrApprovedPriceRequired
	}
	if req.UserID == nil || *req.UserID == "" {
		return apperrors.ErrMissingField("request", "Request has no linked user account")
	}
	return nil
}

// ApplyConversion помечает заявку сконвертированной. Ссылка на проект
// после этого неизменна.
func ApplyConversion(req *models.CustomRequest, projectID string) error {
	if err := ValidateConversion(req); err != nil {
		return err
	}
	req.Status = models.RequestStatusConverted
	req.ConvertedProjectID = &projectID
	return nil
}

// NextProjectStatus возвращает следующую колонку канбана.
// ok=false для completed (дальше хода нет).
func NextProjectStatus(s models.ProjectStatus) (models.ProjectStatus, bool) {
	order := models.ValidProjectStatuses
	for i, st := range order {
		if st == s && i+1 < len(order) {
			return order[i+1], true
		}
	}
	return "", false
}

// ApplyProjectAdvance продвигает проект ровно на один шаг вперед.
// Любой другой целевой статус (скачок, откат, повтор текущего)
// отклоняется с INVALID_STATE.
func ApplyProjectAdvance(actor Actor, project *models.Project, target models.ProjectStatus) error {
	if !actor.IsAdmin() {
		return apperrors.ErrNotAuthorized("project", "Only admin can move projects on the board")
	}

	next, ok := NextProjectStatus(project.Status)
	if !ok {
		return apperrors.ErrInvalidState("project", "Project is already completed")
	}
	if target != next {
		return apperrors.ErrProjectStepSkipped
	}

	project.Status = target
	return nil
}

// CheckRequestInvariants проверяет инварианты заявки (для тестов и сверки):
// ApprovedPrice заполнен <=> статус approved/converted,
// ConvertedProjectID заполнен <=> статус converted.
func CheckRequestInvariants(req *models.CustomRequest) error {
	priced := req.ApprovedPrice != nil
	shouldBePriced := req.Status == models.RequestStatusApproved || req.Status == models.RequestStatusConverted
	if priced != shouldBePriced {
		return fmt.Errorf("approved_price presence (%v) inconsistent with status %s", priced, req.Status)
	}

	linked := req.ConvertedProjectID != nil
	if linked != (req.Status == models.RequestStatusConverted) {
		return fmt.Errorf("converted_project_id presence (%v) inconsistent with status %s", linked, req.Status)
	}
	return nil
}
