package services

import (
	"devcraft_backend/internal/lifecycle"
	"devcraft_backend/internal/models"
	"devcraft_backend/internal/repositories"
	"devcraft_backend/internal/services/dto"
	"devcraft_backend/pkg/apperrors"

	"gorm.io/gorm"
)

// ThreadNotifier получает сигнал "тред изменился" после записи.
// Реализуется ws-хабом; полезной нагрузки нет, клиенты перечитывают тред.
type ThreadNotifier interface {
	NotifyThread(key lifecycle.ThreadKey)
}

// MessageService - переписка по заказам. Ключ треда резолвится через
// lifecycle: заявка и рожденный из нее проект дают один и тот же тред,
// до-конверсионная история не теряется.
type MessageService interface {
	Send(db *gorm.DB, actor lifecycle.Actor, req *dto.SendMessageRequest) (*dto.MessageResponse, error)
	GetThread(db *gorm.DB, actor lifecycle.Actor, query *dto.ThreadQuery) (*dto.ThreadResponse, error)
	MarkThreadRead(db *gorm.DB, actor lifecycle.Actor, query *dto.ThreadQuery) error

	// SetNotifier подключает ws-хаб после сборки сервисов.
	// Хаб живет на уровне роутера, сервисы собираются раньше него.
	SetNotifier(n ThreadNotifier)
}

type MessageServiceImpl struct {
	messageRepo repositories.MessageRepository
	requestRepo repositories.RequestRepository
	projectRepo repositories.ProjectRepository
	clientRepo  repositories.ClientRepository
	notifier    ThreadNotifier
}

func NewMessageService(
	messageRepo repositories.MessageRepository,
	requestRepo repositories.RequestRepository,
	projectRepo repositories.ProjectRepository,
	clientRepo repositories.ClientRepository,
	notifier ThreadNotifier,
) MessageService {
	return &MessageServiceImpl{
		messageRepo: messageRepo,
		requestRepo: requestRepo,
		projectRepo: projectRepo,
		clientRepo:  clientRepo,
		notifier:    notifier,
	}
}

func (s *MessageServiceImpl) SetNotifier(n ThreadNotifier) {
	s.notifier = n
}

func (s *MessageServiceImpl) Send(db *gorm.DB, actor lifecycle.Actor, req *dto.SendMessageRequest) (*dto.MessageResponse, error) {
	key, err := s.resolveThread(db, actor, req.ProjectID, req.RequestID)
	if err != nil {
		return nil, err
	}

	// Запись адресуется в проект, если он уже существует
	projectID, requestID := key.WriteKey()

	message := &models.Message{
		ProjectID:  projectID,
		RequestID:  requestID,
		SenderID:   actor.UserID,
		SenderType: actor.SenderType(),
		Text:       req.Text,
	}
	if err := s.messageRepo.Create(db, message); err != nil {
		return nil, apperrors.ErrRemoteFailure(err, "message", "Failed to create message")
	}

	if s.notifier != nil {
		s.notifier.NotifyThread(key)
	}

	resp := dto.MessageToDTO(message)
	return &resp, nil
}

func (s *MessageServiceImpl) GetThread(db *gorm.DB, actor lifecycle.Actor, query *dto.ThreadQuery) (*dto.ThreadResponse, error) {
	key, err := s.resolveThread(db, actor, query.ProjectID, query.RequestID)
	if err != nil {
		return nil, err
	}

	messages, err := s.messageRepo.FindByThread(db, key)
	if err != nil {
		return nil, apperrors.ErrRemoteFailure(err, "message", "Failed to load thread")
	}

	unread, err := s.messageRepo.CountUnread(db, key, actor.SenderType())
	if err != nil {
		return nil, apperrors.ErrRemoteFailure(err, "message", "Failed to count unread")
	}

	out := make([]dto.MessageResponse, 0, len(messages))
	for i := range messages {
		out = append(out, dto.MessageToDTO(&messages[i]))
	}
	return &dto.ThreadResponse{Messages: out, Unread: unread}, nil
}

func (s *MessageServiceImpl) MarkThreadRead(db *gorm.DB, actor lifecycle.Actor, query *dto.ThreadQuery) error {
	key, err := s.resolveThread(db, actor, query.ProjectID, query.RequestID)
	if err != nil {
		return err
	}

	if err := s.messageRepo.MarkThreadRead(db, key, actor.SenderType()); err != nil {
		return apperrors.ErrRemoteFailure(err, "message", "Failed to mark thread read")
	}

	if s.notifier != nil {
		s.notifier.NotifyThread(key)
	}
	return nil
}

// resolveThread находит ключ треда по любому из двух id и проверяет доступ.
// Обе стороны одного заказа обязаны получить один и тот же ключ.
func (s *MessageServiceImpl) resolveThread(db *gorm.DB, actor lifecycle.Actor, projectID, requestID *string) (lifecycle.ThreadKey, error) {
	switch {
	case projectID != nil && *projectID != "":
		project, err := s.projectRepo.FindByID(db, *projectID)
		if err != nil {
			if apperrors.Is(err, repositories.ErrProjectNotFound) {
				return lifecycle.ThreadKey{}, apperrors.ErrNotFound(err)
			}
			return lifecycle.ThreadKey{}, apperrors.ErrRemoteFailure(err, "message", "Failed to load project")
		}
		if err := s.authorizeProject(db, actor, project); err != nil {
			return lifecycle.ThreadKey{}, err
		}
		return lifecycle.ThreadForProject(project), nil

	case requestID != nil && *requestID != "":
		request, err := s.requestRepo.FindByID(db, *requestID)
		if err != nil {
			if apperrors.Is(err, repositories.ErrRequestNotFound) {
				return lifecycle.ThreadKey{}, apperrors.ErrNotFound(err)
			}
			return lifecycle.ThreadKey{}, apperrors.ErrRemoteFailure(err, "message", "Failed to load request")
		}
		if !actor.IsAdmin() {
			if request.UserID == nil || *request.UserID != actor.UserID {
				return lifecycle.ThreadKey{}, apperrors.ErrNotAuthorized("message", "Request belongs to another user")
			}
		}
		return lifecycle.ThreadForRequest(request), nil

	default:
		return lifecycle.ThreadKey{}, apperrors.ErrThreadKeyMissing
	}
}

func (s *MessageServiceImpl) authorizeProject(db *gorm.DB, actor lifecycle.Actor, project *models.Project) error {
	if actor.IsAdmin() {
		return nil
	}
	client, err := s.clientRepo.FindByUserID(db, actor.UserID)
	if err != nil || client.ID != project.ClientID {
		return apperrors.ErrNotAuthorized("message", "Project belongs to another client")
	}
	return nil
}
