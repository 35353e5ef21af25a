package lifecycle

import (
	"devcraft_backend/internal/models"
	"devcraft_backend/pkg/apperrors"
)

// ThreadKey - ключ треда переписки по одному заказу. Обе стороны (клиент
// и админ) обязаны получать один и тот же ключ для одного заказа, иначе
// переписка развалится на два треда.
//
// Для заявки, сконвертированной в проект, ключ несет оба id: история,
// написанная до конверсии (по request_id), остается видимой после нее.
type ThreadKey struct {
	ProjectID *string
	RequestID *string
}

// ThreadForRequest возвращает ключ треда заявки.
// После конверсии ключ дополняется id проекта, чтобы совпадать
// с ключом, который резолвится со стороны проекта.
func ThreadForRequest(req *models.CustomRequest) ThreadKey {
	id := req.ID
	key := ThreadKey{RequestID: &id}
	if req.Status == models.RequestStatusConverted && req.ConvertedProjectID != nil {
		key.ProjectID = req.ConvertedProjectID
	}
	return key
}

// ThreadForProject возвращает ключ треда проекта.
// Для проекта, созданного из заявки, включается и request_id -
// иначе конверсия осиротила бы до-конверсионную историю.
func ThreadForProject(p *models.Project) ThreadKey {
	id := p.ID
	return ThreadKey{ProjectID: &id, RequestID: p.ConvertedFromRequestID}
}

// WriteKey возвращает ключ для записи нового сообщения: ровно одно из
// полей project_id/request_id. Пишем в проект, если он уже существует.
func (k ThreadKey) WriteKey() (projectID, requestID *string) {
	if k.ProjectID != nil {
		return k.ProjectID, nil
	}
	return nil, k.RequestID
}

// Validate проверяет, что ключ указывает хотя бы на одну сущность
func (k ThreadKey) Validate() error {
	if k.ProjectID == nil && k.RequestID == nil {
		return apperrors.ErrThreadKeyMissing
	}
	return nil
}

// Matches сообщает, принадлежит ли сообщение треду
func (k ThreadKey) Matches(m *models.Message) bool {
	if k.ProjectID != nil && m.ProjectID != nil && *k.ProjectID == *m.ProjectID {
		return true
	}
	if k.RequestID != nil && m.RequestID != nil && *k.RequestID == *m.RequestID {
		return true
	}
	return false
}
