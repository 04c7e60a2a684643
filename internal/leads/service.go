package leads

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

var (
	ErrNotFound      = errors.New("lead not found")
	ErrInvalidStatus = errors.New("invalid status")
	ErrIncomplete    = errors.New("final submission missing contact fields")
)

// EmailNotifier sends sales-team emails. Implementations are best-effort;
// callers dispatch them off the request path.
type EmailNotifier interface {
	SendLeadNotification(ctx context.Context, lead Lead) (string, error)
	SendDisqualifiedNotification(ctx context.Context, lead DisqualifiedLead) (string, error)
}

type SMSNotifier interface {
	SendDisqualifiedAlert(ctx context.Context, lead DisqualifiedLead) error
}

// ConversionNotifier reports a completed lead to an ad or analytics platform.
type ConversionNotifier interface {
	SendLeadEvent(ctx context.Context, lead Lead) error
}

type Service struct {
	repo      Repository
	location  *time.Location
	mailer    EmailNotifier
	sms       SMSNotifier
	pixel     ConversionNotifier
	analytics ConversionNotifier
}

func NewService(repo Repository, location *time.Location, mailer EmailNotifier, sms SMSNotifier, pixel, analytics ConversionNotifier) *Service {
	return &Service{
		repo:      repo,
		location:  location,
		mailer:    mailer,
		sms:       sms,
		pixel:     pixel,
		analytics: analytics,
	}
}

// Submit persists one partial or final write for a session. Final writes
// require the contact block to be present.
func (s *Service) Submit(ctx context.Context, req SubmitRequest) (Lead, error) {
	now := time.Now().In(s.location)
	lead := Lead{
		ID:          primitive.NewObjectID().Hex(),
		SessionID:   strings.TrimSpace(req.SessionID),
		Zip:         strings.TrimSpace(req.Zip),
		Utility:     strings.TrimSpace(req.Utility),
		AvgBill:     strings.TrimSpace(req.AvgBill),
		Homeowner:   strings.ToLower(strings.TrimSpace(req.Homeowner)),
		Credit:      strings.TrimSpace(req.Credit),
		Shading:     strings.ToLower(strings.TrimSpace(req.Shading)),
		FirstName:   strings.TrimSpace(req.FirstName),
		LastName:    strings.TrimSpace(req.LastName),
		Email:       strings.TrimSpace(req.Email),
		Phone:       strings.TrimSpace(req.Phone),
		Street:      strings.TrimSpace(req.Street),
		City:        strings.TrimSpace(req.City),
		State:       strings.TrimSpace(req.State),
		TCPAConsent: req.TCPAConsent,
		SMSConsent:  req.SMSConsent,
		CurrentStep: req.CurrentStep,
		IsPartial:   req.IsPartial,
		Status:      StatusNew,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if !req.IsPartial {
		if lead.FirstName == "" || lead.LastName == "" || lead.Email == "" || lead.Phone == "" {
			return Lead{}, ErrIncomplete
		}
		lead.CompletedAt = &now
	}

	return s.repo.UpsertBySession(ctx, lead)
}

func (s *Service) CreateDisqualified(ctx context.Context, req DisqualifiedRequest) (DisqualifiedLead, error) {
	lead := DisqualifiedLead{
		ID:                     primitive.NewObjectID().Hex(),
		SessionID:              strings.TrimSpace(req.SessionID),
		FirstName:              strings.TrimSpace(req.FirstName),
		LastName:               strings.TrimSpace(req.LastName),
		Phone:                  strings.TrimSpace(req.Phone),
		Email:                  strings.TrimSpace(req.Email),
		Zip:                    strings.TrimSpace(req.Zip),
		Utility:                strings.TrimSpace(req.Utility),
		AvgBill:                strings.TrimSpace(req.AvgBill),
		DisqualificationReason: strings.TrimSpace(req.DisqualificationReason),
		CreatedAt:              time.Now().In(s.location),
	}

	if err := s.repo.InsertDisqualified(ctx, lead); err != nil {
		return DisqualifiedLead{}, err
	}
	return lead, nil
}

func (s *Service) ListAdmin(ctx context.Context, filter ListFilter, limit, offset int64) ([]Lead, int64, error) {
	filter.Status = strings.ToLower(strings.TrimSpace(filter.Status))
	if filter.Status != "" && !IsValidStatus(filter.Status) {
		return nil, 0, ErrInvalidStatus
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

func (s *Service) ListDisqualifiedAdmin(ctx context.Context, limit, offset int64) ([]DisqualifiedLead, error) {
	return s.repo.ListDisqualified(ctx, limit, offset)
}

func (s *Service) GetAdminByID(ctx context.Context, id string) (Lead, error) {
	lead, err := s.repo.GetByID(ctx, strings.TrimSpace(id))
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return Lead{}, ErrNotFound
		}
		return Lead{}, err
	}
	return lead, nil
}

func (s *Service) UpdateStatus(ctx context.Context, id, status string) (Lead, error) {
	id = strings.TrimSpace(id)
	status = strings.ToLower(strings.TrimSpace(status))
	if !IsValidStatus(status) {
		return Lead{}, ErrInvalidStatus
	}

	updated, err := s.repo.UpdateStatus(ctx, id, status, time.Now().In(s.location))
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return Lead{}, ErrNotFound
		}
		return Lead{}, err
	}
	return updated, nil
}

func (s *Service) NotifyNewLead(ctx context.Context, lead Lead) error {
	if s.mailer == nil {
		return nil
	}
	_, err := s.mailer.SendLeadNotification(ctx, lead)
	return err
}

func (s *Service) NotifyDisqualified(ctx context.Context, lead DisqualifiedLead) error {
	if s.mailer == nil {
		return nil
	}
	_, err := s.mailer.SendDisqualifiedNotification(ctx, lead)
	return err
}

func (s *Service) NotifyDisqualifiedSMS(ctx context.Context, lead DisqualifiedLead) error {
	if s.sms == nil {
		return nil
	}
	return s.sms.SendDisqualifiedAlert(ctx, lead)
}

func (s *Service) NotifyPixel(ctx context.Context, lead Lead) error {
	if s.pixel == nil {
		return nil
	}
	return s.pixel.SendLeadEvent(ctx, lead)
}

func (s *Service) NotifyAnalytics(ctx context.Context, lead Lead) error {
	if s.analytics == nil {
		return nil
	}
	return s.analytics.SendLeadEvent(ctx, lead)
}
