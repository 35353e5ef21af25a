package services

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"time"

	"devcraft_backend/internal/config"
	"devcraft_backend/internal/email"
	"devcraft_backend/internal/lifecycle"
	"devcraft_backend/internal/logger"
	"devcraft_backend/internal/models"
	"devcraft_backend/internal/repositories"
	"devcraft_backend/internal/services/dto"
	"devcraft_backend/internal/storage"
	"devcraft_backend/pkg/apperrors"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// RequestService - жизненный цикл заявок до конверсии.
// Конверсией по факту оплаты занимается CheckoutService.
type RequestService interface {
	// Submit принимает заявку с публичной формы. userID nil для анонимов.
	Submit(db *gorm.DB, userID *string, req *dto.SubmitRequestRequest) (*dto.RequestResponse, error)
	GetByID(db *gorm.DB, actor lifecycle.Actor, id string) (*dto.RequestResponse, error)
	ListMy(db *gorm.DB, userID string) ([]dto.RequestResponse, error)
	ListAdmin(db *gorm.DB, query *dto.RequestListQuery) ([]dto.RequestResponse, error)
	// UpdateStatus проводит админ-переход через lifecycle-политику.
	// При target=approved price обязан прийти тем же вызовом.
	UpdateStatus(db *gorm.DB, actor lifecycle.Actor, id string, target models.RequestStatus, price *float64) (*dto.RequestResponse, error)
	Stats(db *gorm.DB) (*dto.RequestStatsResponse, error)
	// UploadAttachment сохраняет вложение заявки в storage
	UploadAttachment(ctx context.Context, db *gorm.DB, actor lifecycle.Actor, id, filename, contentType string, size int64, reader io.Reader) (*dto.RequestResponse, error)
}

type RequestServiceImpl struct {
	requestRepo   repositories.RequestRepository
	emailProvider email.Provider
	store         storage.Storage
}

func NewRequestService(requestRepo repositories.RequestRepository, emailProvider email.Provider, store storage.Storage) RequestService {
	return &RequestServiceImpl{
		requestRepo:   requestRepo,
		emailProvider: emailProvider,
		store:         store,
	}
}

func (s *RequestServiceImpl) Submit(db *gorm.DB, userID *string, req *dto.SubmitRequestRequest) (*dto.RequestResponse, error) {
	request := &models.CustomRequest{
		UserID:   userID,
		Category: req.Category,
		Name:     req.Name,
		Email:    req.Email,
		Details:  req.Details,
		Budget:   req.Budget,
		Timeline: req.Timeline,
		Status:   models.RequestStatusPending,
	}

	if err := s.requestRepo.Create(db, request); err != nil {
		return nil, apperrors.ErrRemoteFailure(err, "request", "Failed to create request")
	}

	s.notify(request, email.TemplateRequestReceived, "Мы получили вашу заявку")

	resp := dto.RequestToDTO(request)
	return &resp, nil
}

func (s *RequestServiceImpl) GetByID(db *gorm.DB, actor lifecycle.Actor, id string) (*dto.RequestResponse, error) {
	request, err := s.loadOwned(db, actor, id)
	if err != nil {
		return nil, err
	}
	resp := dto.RequestToDTO(request)
	return &resp, nil
}

func (s *RequestServiceImpl) ListMy(db *gorm.DB, userID string) ([]dto.RequestResponse, error) {
	requests, err := s.requestRepo.FindAll(db, repositories.RequestFilter{UserID: userID})
	if err != nil {
		return nil, apperrors.ErrRemoteFailure(err, "request", "Failed to list requests")
	}
	return requestsToDTO(requests), nil
}

func (s *RequestServiceImpl) ListAdmin(db *gorm.DB, query *dto.RequestListQuery) ([]dto.RequestResponse, error) {
	filter := repositories.RequestFilter{Search: query.Search}
	if query.Status != "" {
		filter.Status = models.RequestStatus(query.Status)
	}

	requests, err := s.requestRepo.FindAll(db, filter)
	if err != nil {
		return nil, apperrors.ErrRemoteFailure(err, "request", "Failed to list requests")
	}
	return requestsToDTO(requests), nil
}

func (s *RequestServiceImpl) UpdateStatus(db *gorm.DB, actor lifecycle.Actor, id string, target models.RequestStatus, price *float64) (*dto.RequestResponse, error) {
	request, err := s.requestRepo.FindByID(db, id)
	if err != nil {
		if apperrors.Is(err, repositories.ErrRequestNotFound) {
			return nil, apperrors.ErrNotFound(err)
		}
		return nil, apperrors.ErrRemoteFailure(err, "request", "Failed to load request")
	}

	changed, err := lifecycle.ApplyRequestTransition(actor, request, target, price)
	if err != nil {
		return nil, err
	}

	if changed {
		if err := s.requestRepo.Save(db, request); err != nil {
			return nil, apperrors.ErrRemoteFailure(err, "request", "Failed to save request")
		}

		switch target {
		case models.RequestStatusApproved:
			s.notify(request, email.TemplateRequestApproved, "Ваша заявка одобрена")
		case models.RequestStatusRejected:
			s.notify(request, email.TemplateRequestRejected, "По вашей заявке принято решение")
		}
	}

	resp := dto.RequestToDTO(request)
	return &resp, nil
}

func (s *RequestServiceImpl) Stats(db *gorm.DB) (*dto.RequestStatsResponse, error) {
	counts, err := s.requestRepo.CountByStatus(db)
	if err != nil {
		return nil, apperrors.ErrRemoteFailure(err, "request", "Failed to count requests")
	}

	var total int64
	for _, c := range counts {
		total += c
	}
	return &dto.RequestStatsResponse{Counts: counts, Total: total}, nil
}

func (s *RequestServiceImpl) UploadAttachment(ctx context.Context, db *gorm.DB, actor lifecycle.Actor, id, filename, contentType string, size int64, reader io.Reader) (*dto.RequestResponse, error) {
	cfg := config.GetConfig()
	if size > cfg.Upload.MaxSize {
		return nil, apperrors.NewBadRequestError(
			fmt.Sprintf("Attachment exceeds the %d byte limit", cfg.Upload.MaxSize))
	}
	if !allowedContentType(cfg.Upload.AllowedTypes, contentType) {
		return nil, apperrors.NewBadRequestError("Attachment type is not allowed: " + contentType)
	}

	request, err := s.loadOwned(db, actor, id)
	if err != nil {
		return nil, err
	}

	// Имя в хранилище своё, оригинальное остается в AttachmentName
	path := fmt.Sprintf("requests/%s/%s%s", request.ID, uuid.NewString(), filepath.Ext(filename))
	if err := s.store.Save(ctx, path, reader, contentType); err != nil {
		return nil, apperrors.ErrRemoteFailure(err, "request", "Failed to store attachment")
	}

	request.AttachmentName = &filename
	request.AttachmentPath = &path
	if err := s.requestRepo.Save(db, request); err != nil {
		return nil, apperrors.ErrRemoteFailure(err, "request", "Failed to save request")
	}

	resp := dto.RequestToDTO(request)
	if url, err := s.store.GetSignedURL(ctx, path, 15*time.Minute); err == nil {
		resp.AttachmentURL = &url
	}
	return &resp, nil
}

// loadOwned возвращает заявку, если actor имеет к ней доступ:
// админ - к любой, клиент - только к своей.
func (s *RequestServiceImpl) loadOwned(db *gorm.DB, actor lifecycle.Actor, id string) (*models.CustomRequest, error) {
	request, err := s.requestRepo.FindByID(db, id)
	if err != nil {
		if apperrors.Is(err, repositories.ErrRequestNotFound) {
			return nil, apperrors.ErrNotFound(err)
		}
		return nil, apperrors.ErrRemoteFailure(err, "request", "Failed to load request")
	}

	if !actor.IsAdmin() {
		if request.UserID == nil || *request.UserID != actor.UserID {
			return nil, apperrors.ErrNotAuthorized("request", "Request belongs to another user")
		}
	}
	return request, nil
}

func (s *RequestServiceImpl) notify(request *models.CustomRequest, template, subject string) {
	if s.emailProvider == nil || request.Email == "" {
		return
	}

	cfg := config.GetConfig()
	data := email.TemplateData{
		"Name":     request.Name,
		"Category": models.CategoryLabel(request.Category),
		"Currency": cfg.Payment.Currency,
	}
	if request.ApprovedPrice != nil {
		data["Price"] = *request.ApprovedPrice
	}

	if err := s.emailProvider.SendTemplate([]string{request.Email}, subject, template, data); err != nil {
		logger.WithError(err).Warn("Не удалось отправить письмо по заявке",
			"request_id", request.ID, "template", template)
	}
}

func allowedContentType(allowed []string, contentType string) bool {
	for _, t := range allowed {
		if t == contentType {
			return true
		}
	}
	return false
}

func requestsToDTO(requests []models.CustomRequest) []dto.RequestResponse {
	out := make([]dto.RequestResponse, 0, len(requests))
	for i := range requests {
		out = append(out, dto.RequestToDTO(&requests[i]))
	}
	return out
}
