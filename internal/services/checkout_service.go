package services

import (
	"context"
	"time"

	"devcraft_backend/internal/config"
	"devcraft_backend/internal/lifecycle"
	"devcraft_backend/internal/logger"
	"devcraft_backend/internal/models"
	"devcraft_backend/internal/payment"
	"devcraft_backend/internal/repositories"
	"devcraft_backend/internal/services/dto"
	"devcraft_backend/pkg/apperrors"

	"gorm.io/gorm"
)

// CheckoutService - оплата и порождение проекта. Две ветки покупки
// выбираются явным дискриминантом Kind:
//   - catalog: прямая покупка услуги из каталога
//   - custom_request: конверсия одобренной заявки
//
// Конверсия выполняется в одной транзакции, чтобы частичный сбой не
// оставил converted-заявку без проекта.
type CheckoutService interface {
	Checkout(ctx context.Context, db *gorm.DB, actor lifecycle.Actor, req *dto.CheckoutRequest) (*dto.CheckoutResponse, error)
}

type CheckoutServiceImpl struct {
	serviceRepo repositories.ServiceRepository
	requestRepo repositories.RequestRepository
	clientRepo  repositories.ClientRepository
	projectRepo repositories.ProjectRepository
	paymentRepo repositories.PaymentRepository
	provider    payment.Provider
}

func NewCheckoutService(
	serviceRepo repositories.ServiceRepository,
	requestRepo repositories.RequestRepository,
	clientRepo repositories.ClientRepository,
	projectRepo repositories.ProjectRepository,
	paymentRepo repositories.PaymentRepository,
	provider payment.Provider,
) CheckoutService {
	return &CheckoutServiceImpl{
		serviceRepo: serviceRepo,
		requestRepo: requestRepo,
		clientRepo:  clientRepo,
		projectRepo: projectRepo,
		paymentRepo: paymentRepo,
		provider:    provider,
	}
}

func (s *CheckoutServiceImpl) Checkout(ctx context.Context, db *gorm.DB, actor lifecycle.Actor, req *dto.CheckoutRequest) (*dto.CheckoutResponse, error) {
	switch req.Kind {
	case models.PurchaseKindCatalog:
		if req.ServiceID == nil || *req.ServiceID == "" {
			return nil, apperrors.ErrMissingField("checkout", "service_id is required for catalog purchase")
		}
		return s.checkoutCatalog(ctx, db, actor, *req.ServiceID)
	case models.PurchaseKindRequest:
		if req.RequestID == nil || *req.RequestID == "" {
			return nil, apperrors.ErrMissingField("checkout", "request_id is required for request purchase")
		}
		return s.checkoutRequest(ctx, db, actor, *req.RequestID)
	default:
		return nil, apperrors.NewBadRequestError("Unknown purchase kind: " + string(req.Kind))
	}
}

// checkoutCatalog - прямая покупка услуги из каталога
func (s *CheckoutServiceImpl) checkoutCatalog(ctx context.Context, db *gorm.DB, actor lifecycle.Actor, serviceID string) (*dto.CheckoutResponse, error) {
	service, err := s.serviceRepo.FindByID(db, serviceID)
	if err != nil {
		if apperrors.Is(err, repositories.ErrServiceNotFound) {
			return nil, apperrors.ErrNotFound(err)
		}
		return nil, apperrors.ErrRemoteFailure(err, "checkout", "Failed to load service")
	}
	if service.Status != models.ServiceStatusActive {
		return nil, apperrors.ErrInvalidState("checkout", "Service is not available for purchase")
	}

	if _, err := s.charge(ctx, actor.UserID, service.Price, service.ID); err != nil {
		return nil, err
	}

	var project *models.Project
	var tx *models.PaymentTransaction

	err = db.Transaction(func(txDB *gorm.DB) error {
		client, err := s.clientRepo.GetOrCreate(txDB, actor.UserID)
		if err != nil {
			return apperrors.ErrRemoteFailure(err, "checkout", "Failed to resolve client")
		}

		project = &models.Project{
			ClientID:    client.ID,
			ServiceID:   &service.ID,
			Title:       service.Title,
			Description: service.Description,
			Amount:      service.Price,
			Status:      models.ProjectStatusPending,
		}
		if err := s.projectRepo.Create(txDB, project); err != nil {
			return apperrors.ErrRemoteFailure(err, "checkout", "Failed to create project")
		}

		tx = s.transactionRecord(actor.UserID, service.Price, models.PurchaseKindCatalog, service.ID)
		if err := s.paymentRepo.Create(txDB, tx); err != nil {
			return apperrors.ErrRemoteFailure(err, "checkout", "Failed to record payment")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.CtxInfo(ctx, "Покупка из каталога завершена",
		"user_id", actor.UserID, "service_id", service.ID, "project_id", project.ID)

	return &dto.CheckoutResponse{
		Project:     dto.ProjectToDTO(project),
		Transaction: dto.TransactionToDTO(tx),
	}, nil
}

// checkoutRequest - конверсия одобренной заявки по факту оплаты
func (s *CheckoutServiceImpl) checkoutRequest(ctx context.Context, db *gorm.DB, actor lifecycle.Actor, requestID string) (*dto.CheckoutResponse, error) {
	request, err := s.requestRepo.FindByID(db, requestID)
	if err != nil {
		if apperrors.Is(err, repositories.ErrRequestNotFound) {
			return nil, apperrors.ErrNotFound(err)
		}
		return nil, apperrors.ErrRemoteFailure(err, "checkout", "Failed to load request")
	}

	// Оплатить конверсию может только владелец заявки
	if request.UserID == nil || *request.UserID != actor.UserID {
		return nil, apperrors.ErrNotAuthorized("checkout", "Request belongs to another user")
	}

	// Валидация до списания денег: повторная конверсия и невалидный
	// статус отбиваются еще до обращения к провайдеру
	if err := lifecycle.ValidateConversion(request); err != nil {
		return nil, err
	}
	amount := *request.ApprovedPrice

	if _, err := s.charge(ctx, actor.UserID, amount, request.ID); err != nil {
		return nil, err
	}

	var project *models.Project
	var tx *models.PaymentTransaction

	err = db.Transaction(func(txDB *gorm.DB) error {
		// Перечитываем внутри транзакции: конкурирующий чекаут мог
		// успеть сконвертировать заявку после прохождения оплаты
		fresh, err := s.requestRepo.FindByID(txDB, requestID)
		if err != nil {
			return apperrors.ErrRemoteFailure(err, "checkout", "Failed to reload request")
		}
		if err := lifecycle.ValidateConversion(fresh); err != nil {
			return err
		}

		// Ключ идемпотентности: уже существующий проект с этим
		// request_id означает наполовину завершенную конверсию
		if existing, err := s.projectRepo.FindByRequestID(txDB, requestID); err == nil {
			if applyErr := lifecycle.ApplyConversion(fresh, existing.ID); applyErr != nil {
				return applyErr
			}
			if saveErr := s.requestRepo.Save(txDB, fresh); saveErr != nil {
				return apperrors.ErrRemoteFailure(saveErr, "checkout", "Failed to repair request backlink")
			}
			project = existing
			tx = s.transactionRecord(actor.UserID, amount, models.PurchaseKindRequest, requestID)
			return s.paymentRepo.Create(txDB, tx)
		}

		client, err := s.clientRepo.GetOrCreate(txDB, actor.UserID)
		if err != nil {
			return apperrors.ErrRemoteFailure(err, "checkout", "Failed to resolve client")
		}

		description := ""
		if fresh.Details != nil {
			description = *fresh.Details
		}

		project = &models.Project{
			ClientID:               client.ID,
			Title:                  models.CategoryLabel(fresh.Category),
			Description:            description,
			Amount:                 amount,
			Status:                 models.ProjectStatusPending,
			ConvertedFromRequestID: &fresh.ID,
		}
		if err := s.projectRepo.Create(txDB, project); err != nil {
			return apperrors.ErrRemoteFailure(err, "checkout", "Failed to create project")
		}

		if err := lifecycle.ApplyConversion(fresh, project.ID); err != nil {
			return err
		}
		if err := s.requestRepo.Save(txDB, fresh); err != nil {
			return apperrors.ErrRemoteFailure(err, "checkout", "Failed to mark request converted")
		}

		tx = s.transactionRecord(actor.UserID, amount, models.PurchaseKindRequest, requestID)
		if err := s.paymentRepo.Create(txDB, tx); err != nil {
			return apperrors.ErrRemoteFailure(err, "checkout", "Failed to record payment")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.CtxInfo(ctx, "Заявка сконвертирована в проект",
		"user_id", actor.UserID, "request_id", requestID, "project_id", project.ID)

	return &dto.CheckoutResponse{
		Project:     dto.ProjectToDTO(project),
		Transaction: dto.TransactionToDTO(tx),
	}, nil
}

func (s *CheckoutServiceImpl) charge(ctx context.Context, userID string, amount float64, reference string) (*payment.ChargeResult, error) {
	cfg := config.GetConfig()

	result, err := s.provider.Charge(ctx, payment.ChargeRequest{
		UserID:    userID,
		Amount:    amount,
		Currency:  cfg.Payment.Currency,
		Reference: reference,
	})
	if err != nil {
		return nil, apperrors.ErrRemoteFailure(err, "checkout", "Payment provider error")
	}
	if !result.Succeeded {
		return nil, apperrors.NewBadRequestError("Payment was declined")
	}
	return result, nil
}

func (s *CheckoutServiceImpl) transactionRecord(userID string, amount float64, kind models.PurchaseKind, reference string) *models.PaymentTransaction {
	now := time.Now()
	return &models.PaymentTransaction{
		UserID:    userID,
		Amount:    amount,
		Currency:  config.GetConfig().Payment.Currency,
		Kind:      kind,
		Reference: reference,
		Status:    models.PaymentStatusPaid,
		PaidAt:    &now,
	}
}
