package services

import (
	"time"

	"devcraft_backend/internal/lifecycle"
	"devcraft_backend/internal/models"
	"devcraft_backend/internal/repositories"
	"devcraft_backend/internal/services/dto"
	"devcraft_backend/pkg/apperrors"

	"gorm.io/gorm"
)

// ProjectService - конвейер доставки: списки, канбан, продвижение карточек
// и финансовая сводка.
type ProjectService interface {
	GetByID(db *gorm.DB, actor lifecycle.Actor, id string) (*dto.ProjectResponse, error)
	ListMy(db *gorm.DB, userID string) ([]dto.ProjectResponse, error)
	// Board возвращает все проекты, сгруппированные по колонкам
	// в порядке конвейера
	Board(db *gorm.DB) (*dto.BoardResponse, error)
	// Advance двигает проект ровно на одну колонку вперед
	Advance(db *gorm.DB, actor lifecycle.Actor, id string, target models.ProjectStatus) (*dto.ProjectResponse, error)
	Finance(db *gorm.DB, from, to *time.Time) (*dto.FinanceResponse, error)
}

type ProjectServiceImpl struct {
	projectRepo repositories.ProjectRepository
	clientRepo  repositories.ClientRepository
	paymentRepo repositories.PaymentRepository
}

func NewProjectService(
	projectRepo repositories.ProjectRepository,
	clientRepo repositories.ClientRepository,
	paymentRepo repositories.PaymentRepository,
) ProjectService {
	return &ProjectServiceImpl{
		projectRepo: projectRepo,
		clientRepo:  clientRepo,
		paymentRepo: paymentRepo,
	}
}

func (s *ProjectServiceImpl) GetByID(db *gorm.DB, actor lifecycle.Actor, id string) (*dto.ProjectResponse, error) {
	project, err := s.loadOwned(db, actor, id)
	if err != nil {
		return nil, err
	}
	resp := dto.ProjectToDTO(project)
	return &resp, nil
}

func (s *ProjectServiceImpl) ListMy(db *gorm.DB, userID string) ([]dto.ProjectResponse, error) {
	client, err := s.clientRepo.FindByUserID(db, userID)
	if err != nil {
		if apperrors.Is(err, repositories.ErrClientNotFound) {
			// Клиент без покупок - пустой список, не ошибка
			return []dto.ProjectResponse{}, nil
		}
		return nil, apperrors.ErrRemoteFailure(err, "project", "Failed to resolve client")
	}

	projects, err := s.projectRepo.FindByClient(db, client.ID)
	if err != nil {
		return nil, apperrors.ErrRemoteFailure(err, "project", "Failed to list projects")
	}
	return projectsToDTO(projects), nil
}

func (s *ProjectServiceImpl) Board(db *gorm.DB) (*dto.BoardResponse, error) {
	projects, err := s.projectRepo.FindAll(db)
	if err != nil {
		return nil, apperrors.ErrRemoteFailure(err, "project", "Failed to list projects")
	}

	byStatus := make(map[models.ProjectStatus][]dto.ProjectResponse)
	for i := range projects {
		p := &projects[i]
		byStatus[p.Status] = append(byStatus[p.Status], dto.ProjectToDTO(p))
	}

	board := &dto.BoardResponse{Columns: make([]dto.BoardColumn, 0, len(models.ValidProjectStatuses))}
	for _, status := range models.ValidProjectStatuses {
		column := dto.BoardColumn{Status: status, Projects: byStatus[status]}
		if column.Projects == nil {
			column.Projects = []dto.ProjectResponse{}
		}
		board.Columns = append(board.Columns, column)
	}
	return board, nil
}

func (s *ProjectServiceImpl) Advance(db *gorm.DB, actor lifecycle.Actor, id string, target models.ProjectStatus) (*dto.ProjectResponse, error) {
	project, err := s.projectRepo.FindByID(db, id)
	if err != nil {
		if apperrors.Is(err, repositories.ErrProjectNotFound) {
			return nil, apperrors.ErrNotFound(err)
		}
		return nil, apperrors.ErrRemoteFailure(err, "project", "Failed to load project")
	}

	if err := lifecycle.ApplyProjectAdvance(actor, project, target); err != nil {
		return nil, err
	}

	if err := s.projectRepo.Save(db, project); err != nil {
		return nil, apperrors.ErrRemoteFailure(err, "project", "Failed to save project")
	}

	resp := dto.ProjectToDTO(project)
	return &resp, nil
}

func (s *ProjectServiceImpl) Finance(db *gorm.DB, from, to *time.Time) (*dto.FinanceResponse, error) {
	stats, err := s.projectRepo.GetFinanceStats(db, from, to)
	if err != nil {
		return nil, apperrors.ErrRemoteFailure(err, "project", "Failed to compute finance stats")
	}

	recent, err := s.paymentRepo.FindRecent(db, 20)
	if err != nil {
		return nil, apperrors.ErrRemoteFailure(err, "project", "Failed to load transactions")
	}

	txs := make([]dto.TransactionResponse, 0, len(recent))
	for i := range recent {
		txs = append(txs, dto.TransactionToDTO(&recent[i]))
	}

	return &dto.FinanceResponse{Stats: *stats, RecentTransactions: txs}, nil
}

// loadOwned возвращает проект, если actor имеет к нему доступ:
// админ - к любому, клиент - только к своему.
func (s *ProjectServiceImpl) loadOwned(db *gorm.DB, actor lifecycle.Actor, id string) (*models.Project, error) {
	project, err := s.projectRepo.FindByID(db, id)
	if err != nil {
		if apperrors.Is(err, repositories.ErrProjectNotFound) {
			return nil, apperrors.ErrNotFound(err)
		}
		return nil, apperrors.ErrRemoteFailure(err, "project", "Failed to load project")
	}

	if !actor.IsAdmin() {
		client, err := s.clientRepo.FindByUserID(db, actor.UserID)
		if err != nil || client.ID != project.ClientID {
			return nil, apperrors.ErrNotAuthorized("project", "Project belongs to another client")
		}
	}
	return project, nil
}

func projectsToDTO(projects []models.Project) []dto.ProjectResponse {
	out := make([]dto.ProjectResponse, 0, len(projects))
	for i := range projects {
		out = append(out, dto.ProjectToDTO(&projects[i]))
	}
	return out
}
