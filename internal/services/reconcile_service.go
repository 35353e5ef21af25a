package services

import (
	"devcraft_backend/internal/lifecycle"
	"devcraft_backend/internal/logger"
	"devcraft_backend/internal/repositories"

	"gorm.io/gorm"
)

// ReconcileService чинит оборванные конверсии: проект создан и помечен
// converted_from_request_id, но заявка осталась approved без обратной
// ссылки (сбой между шагами конверсии до того, как она стала
// транзакционной, либо ручное вмешательство в БД).
type ReconcileService interface {
	// Sweep возвращает число починенных заявок
	Sweep(db *gorm.DB) (int, error)
}

type ReconcileServiceImpl struct {
	requestRepo repositories.RequestRepository
	projectRepo repositories.ProjectRepository
}

func NewReconcileService(requestRepo repositories.RequestRepository, projectRepo repositories.ProjectRepository) ReconcileService {
	return &ReconcileServiceImpl{
		requestRepo: requestRepo,
		projectRepo: projectRepo,
	}
}

func (s *ReconcileServiceImpl) Sweep(db *gorm.DB) (int, error) {
	orphaned, err := s.requestRepo.FindApprovedWithoutBacklink(db)
	if err != nil {
		return 0, err
	}

	repaired := 0
	for i := range orphaned {
		request := &orphaned[i]

		project, err := s.projectRepo.FindByRequestID(db, request.ID)
		if err != nil {
			logger.WithError(err).Warn("Сверка: проект по заявке не найден", "request_id", request.ID)
			continue
		}

		if err := lifecycle.ApplyConversion(request, project.ID); err != nil {
			logger.WithError(err).Warn("Сверка: заявка не проходит конверсию",
				"request_id", request.ID, "project_id", project.ID)
			continue
		}

		if err := s.requestRepo.Save(db, request); err != nil {
			logger.WithError(err).Error("Сверка: не удалось сохранить заявку", "request_id", request.ID)
			continue
		}

		logger.Info("Сверка: обратная ссылка восстановлена",
			"request_id", request.ID, "project_id", project.ID)
		repaired++
	}

	return repaired, nil
}
