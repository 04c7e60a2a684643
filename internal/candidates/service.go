package candidates

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

var (
	ErrNotFound      = errors.New("candidate not found")
	ErrInvalidStatus = errors.New("invalid status")
)

type Service struct {
	repo     Repository
	location *time.Location
}

func NewService(repo Repository, location *time.Location) *Service {
	return &Service{repo: repo, location: location}
}

func (s *Service) Create(ctx context.Context, req CreateRequest) (Candidate, error) {
	now := time.Now().In(s.location)
	candidate := Candidate{
		ID:        primitive.NewObjectID().Hex(),
		FirstName: strings.TrimSpace(req.FirstName),
		LastName:  strings.TrimSpace(req.LastName),
		Email:     strings.ToLower(strings.TrimSpace(req.Email)),
		Phone:     strings.TrimSpace(req.Phone),
		Position:  strings.TrimSpace(req.Position),
		ResumeURL: strings.TrimSpace(req.ResumeURL),
		Status:    StatusApplied,
		Notes:     strings.TrimSpace(req.Notes),
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.repo.Create(ctx, candidate); err != nil {
		return Candidate{}, err
	}
	return candidate, nil
}

func (s *Service) List(ctx context.Context, filter ListFilter, limit, offset int64) ([]Candidate, int64, error) {
	filter.Status = strings.ToLower(strings.TrimSpace(filter.Status))
	if filter.Status != "" && !IsValidStatus(filter.Status) {
		return nil, 0, ErrInvalidStatus
	}
	filter.Position = strings.TrimSpace(filter.Position)

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

func (s *Service) GetByID(ctx context.Context, id string) (Candidate, error) {
	candidate, err := s.repo.GetByID(ctx, strings.TrimSpace(id))
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return Candidate{}, ErrNotFound
		}
		return Candidate{}, err
	}
	return candidate, nil
}

func (s *Service) Update(ctx context.Context, id string, req UpdateRequest) (Candidate, error) {
	status := strings.ToLower(strings.TrimSpace(req.Status))
	if !IsValidStatus(status) {
		return Candidate{}, ErrInvalidStatus
	}

	candidate := Candidate{
		ID:        strings.TrimSpace(id),
		FirstName: strings.TrimSpace(req.FirstName),
		LastName:  strings.TrimSpace(req.LastName),
		Email:     strings.ToLower(strings.TrimSpace(req.Email)),
		Phone:     strings.TrimSpace(req.Phone),
		Position:  strings.TrimSpace(req.Position),
		ResumeURL: strings.TrimSpace(req.ResumeURL),
		Status:    status,
		Notes:     strings.TrimSpace(req.Notes),
		UpdatedAt: time.Now().In(s.location),
	}

	updated, err := s.repo.Update(ctx, candidate)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return Candidate{}, ErrNotFound
		}
		return Candidate{}, err
	}
	return updated, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, strings.TrimSpace(id)); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return ErrNotFound
		}
		return err
	}
	return nil
}
