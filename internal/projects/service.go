package projects

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

var (
	ErrNotFound      = errors.New("project not found")
	ErrInvalidStage  = errors.New("invalid stage")
	ErrInvalidStatus = errors.New("invalid status")
	ErrStageBackward = errors.New("stage cannot move backward")
)

type Service struct {
	repo     Repository
	location *time.Location
	log      *slog.Logger
}

func NewService(repo Repository, location *time.Location, log *slog.Logger) *Service {
	return &Service{
		repo:     repo,
		location: location,
		log:      log,
	}
}

func (s *Service) Create(ctx context.Context, req CreateRequest) (Project, error) {
	now := time.Now().In(s.location)
	project := Project{
		ID:                 primitive.NewObjectID().Hex(),
		CustomerName:       strings.TrimSpace(req.CustomerName),
		Email:              strings.TrimSpace(req.Email),
		Phone:              strings.TrimSpace(req.Phone),
		Address:            strings.TrimSpace(req.Address),
		SystemSizeKW:       req.SystemSizeKW,
		ValueUSD:           req.ValueUSD,
		Stage:              1,
		Status:             StatusActive,
		MonitoringSystemID: strings.TrimSpace(req.MonitoringSystemID),
		SaleDate:           strings.TrimSpace(req.SaleDate),
		CreatedAt:          now,
		UpdatedAt:          now,
	}

	if err := s.repo.Create(ctx, project); err != nil {
		return Project{}, err
	}
	return project, nil
}

func (s *Service) List(ctx context.Context, filter ListFilter, limit, offset int64) ([]Project, int64, error) {
	filter.Status = strings.ToLower(strings.TrimSpace(filter.Status))
	if filter.Status != "" && !IsValidStatus(filter.Status) {
		return nil, 0, ErrInvalidStatus
	}
	if filter.Stage != 0 && !IsValidStage(filter.Stage) {
		return nil, 0, ErrInvalidStage
	}

	items, err := s.repo.List(ctx, filter, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.repo.Count(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (Project, error) {
	project, err := s.repo.GetByID(ctx, strings.TrimSpace(id))
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return Project{}, ErrNotFound
		}
		return Project{}, err
	}
	return project, nil
}

func (s *Service) Update(ctx context.Context, id string, req UpdateRequest) (Project, error) {
	status := strings.ToLower(strings.TrimSpace(req.Status))
	if !IsValidStatus(status) {
		return Project{}, ErrInvalidStatus
	}

	project := Project{
		ID:                 strings.TrimSpace(id),
		CustomerName:       strings.TrimSpace(req.CustomerName),
		Email:              strings.TrimSpace(req.Email),
		Phone:              strings.TrimSpace(req.Phone),
		Address:            strings.TrimSpace(req.Address),
		SystemSizeKW:       req.SystemSizeKW,
		ValueUSD:           req.ValueUSD,
		Status:             status,
		MonitoringSystemID: strings.TrimSpace(req.MonitoringSystemID),
		UpdatedAt:          time.Now().In(s.location),
	}

	updated, err := s.repo.Update(ctx, project)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return Project{}, ErrNotFound
		}
		return Project{}, err
	}
	return updated, nil
}

// AdvanceStage moves a project forward and appends the transition to the
// stage history. The history insert is a secondary write: its failure is
// logged and the advance still stands.
func (s *Service) AdvanceStage(ctx context.Context, id string, req StageAdvanceRequest) (Project, error) {
	id = strings.TrimSpace(id)
	if !IsValidStage(req.Stage) {
		return Project{}, ErrInvalidStage
	}

	current, err := s.GetByID(ctx, id)
	if err != nil {
		return Project{}, err
	}
	if req.Stage <= current.Stage {
		return Project{}, ErrStageBackward
	}

	now := time.Now().In(s.location)
	updated, err := s.repo.SetStage(ctx, id, req.Stage, now)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return Project{}, ErrNotFound
		}
		return Project{}, err
	}

	entry := StageHistoryEntry{
		ID:        primitive.NewObjectID().Hex(),
		ProjectID: id,
		FromStage: current.Stage,
		ToStage:   req.Stage,
		Note:      strings.TrimSpace(req.Note),
		CreatedAt: now,
	}
	if err := s.repo.InsertStageHistory(ctx, entry); err != nil {
		s.log.Warn("stage history write failed",
			slog.String("project_id", id),
			slog.String("error", err.Error()),
		)
	}

	return updated, nil
}

func (s *Service) History(ctx context.Context, id string) ([]StageHistoryEntry, error) {
	id = strings.TrimSpace(id)
	if _, err := s.GetByID(ctx, id); err != nil {
		return nil, err
	}
	return s.repo.HistoryForProject(ctx, id)
}
