package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"careops/internal/availability"
	"careops/internal/data/entity"
	"careops/internal/data/repository"
	"careops/internal/dto/request"
	"careops/internal/dto/response"
	"careops/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	defaultDurationMinutes = 30
	defaultServiceColor    = "#3B82F6"
)

// CatalogService manages the services a workspace offers and their weekly
// availability.
type CatalogService interface {
	ListServices(ctx context.Context, workspaceID uuid.UUID) ([]response.ServiceResponse, error)
	CreateService(ctx context.Context, workspaceID uuid.UUID, req *request.CreateServiceRequest) (*response.ServiceResponse, error)
	UpdateService(ctx context.Context, workspaceID uuid.UUID, serviceID string, req *request.UpdateServiceRequest) (*response.ServiceResponse, error)
	DeactivateService(ctx context.Context, workspaceID uuid.UUID, serviceID string) error
	SetAvailability(ctx context.Context, workspaceID uuid.UUID, serviceID string, req *request.SetAvailabilityRequest) (*response.ServiceResponse, error)
}

type catalogService struct {
	repo *repository.Repository
	now  func() time.Time
	log  *zap.Logger
}

func NewCatalogService(repo *repository.Repository, log *zap.Logger) CatalogService {
	return &catalogService{
		repo: repo,
		now:  time.Now,
		log:  log.With(zap.String("service", "catalog")),
	}
}

func (s *catalogService) ListServices(ctx context.Context, workspaceID uuid.UUID) ([]response.ServiceResponse, error) {
	return listWithRules(ctx, s.repo, workspaceID)
}

func (s *catalogService) CreateService(ctx context.Context, workspaceID uuid.UUID, req *request.CreateServiceRequest) (*response.ServiceResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Create service validation failed", zap.Any("errors", errs))
		return nil, invalidInput("validation failed: %s", utils.FormatValidationErrors(errs))
	}

	service := &entity.Service{
		Base:            entity.NewBase(s.now()),
		WorkspaceID:     workspaceID,
		Name:            strings.TrimSpace(req.Name),
		Description:     req.Description,
		DurationMinutes: req.DurationMinutes,
		Location:        req.Location,
		Price:           req.Price,
		Color:           req.Color,
		IsActive:        true,
	}
	if service.DurationMinutes == 0 {
		service.DurationMinutes = defaultDurationMinutes
	}
	if service.Color == "" {
		service.Color = defaultServiceColor
	}

	rules, err := buildRules(service.ID, req.Availability, service.CreatedAt)
	if err != nil {
		return nil, err
	}

	if err := s.repo.Service.Create(ctx, service); err != nil {
		return nil, fmt.Errorf("create service: %w", err)
	}
	if len(rules) > 0 {
		if err := s.repo.Availability.ReplaceForService(ctx, service.ID, rules); err != nil {
			return nil, fmt.Errorf("create availability of service %s: %w", service.ID.String(), err)
		}
	}

	s.log.Info("Service created",
		zap.String("service_id", service.ID.String()),
		zap.String("workspace_id", workspaceID.String()),
		zap.Int("rules", len(rules)),
	)

	resp := response.ServiceToResponse(service, rules)
	return &resp, nil
}

func (s *catalogService) UpdateService(ctx context.Context, workspaceID uuid.UUID, serviceID string, req *request.UpdateServiceRequest) (*response.ServiceResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return nil, invalidInput("validation failed: %s", utils.FormatValidationErrors(errs))
	}

	service, err := s.ownedService(ctx, workspaceID, serviceID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		service.Name = strings.TrimSpace(*req.Name)
	}
	if req.Description != nil {
		service.Description = req.Description
	}
	if req.DurationMinutes != nil {
		service.DurationMinutes = *req.DurationMinutes
	}
	if req.Location != nil {
		service.Location = req.Location
	}
	if req.Price != nil {
		service.Price = req.Price
	}
	if req.Color != nil {
		service.Color = *req.Color
	}
	service.UpdatedAt = s.now()

	if err := s.repo.Service.Update(ctx, service); err != nil {
		if errors.Is(err, repository.ErrNoRowsAffected) {
			return nil, notFound("Service not found")
		}
		return nil, fmt.Errorf("update service %s: %w", serviceID, err)
	}

	rules, err := s.repo.Availability.FindActiveByService(ctx, service.ID)
	if err != nil {
		return nil, fmt.Errorf("load availability of service %s: %w", serviceID, err)
	}

	resp := response.ServiceToResponse(service, rules)
	return &resp, nil
}

// DeactivateService hides the service from listings and slot queries.
// Existing bookings are kept.
func (s *catalogService) DeactivateService(ctx context.Context, workspaceID uuid.UUID, serviceID string) error {
	service, err := s.ownedService(ctx, workspaceID, serviceID)
	if err != nil {
		return err
	}

	if err := s.repo.Service.Deactivate(ctx, service.ID); err != nil {
		if errors.Is(err, repository.ErrNoRowsAffected) {
			return notFound("Service not found")
		}
		return fmt.Errorf("deactivate service %s: %w", serviceID, err)
	}

	s.log.Info("Service deactivated", zap.String("service_id", serviceID))
	return nil
}

func (s *catalogService) SetAvailability(ctx context.Context, workspaceID uuid.UUID, serviceID string, req *request.SetAvailabilityRequest) (*response.ServiceResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return nil, invalidInput("validation failed: %s", utils.FormatValidationErrors(errs))
	}

	service, err := s.ownedService(ctx, workspaceID, serviceID)
	if err != nil {
		return nil, err
	}

	rules, err := buildRules(service.ID, req.Rules, s.now())
	if err != nil {
		return nil, err
	}

	if err := s.repo.Availability.ReplaceForService(ctx, service.ID, rules); err != nil {
		return nil, fmt.Errorf("replace availability of service %s: %w", serviceID, err)
	}

	s.log.Info("Availability replaced",
		zap.String("service_id", serviceID),
		zap.Int("rules", len(rules)),
	)

	resp := response.ServiceToResponse(service, rules)
	return &resp, nil
}

func (s *catalogService) ownedService(ctx context.Context, workspaceID uuid.UUID, serviceID string) (*entity.Service, error) {
	id, err := uuid.Parse(serviceID)
	if err != nil {
		return nil, invalidInput("Invalid service ID")
	}
	return findActiveService(ctx, s.repo, workspaceID, id)
}

// buildRules validates every rule before anything is written.
func buildRules(serviceID uuid.UUID, reqs []request.AvailabilityRuleRequest, now time.Time) ([]*entity.AvailabilityRule, error) {
	rules := make([]*entity.AvailabilityRule, 0, len(reqs))
	for i, r := range reqs {
		if r.DayOfWeek == nil {
			return nil, invalidInput("rule %d: day_of_week is required", i)
		}
		rule := availability.Rule{DayOfWeek: *r.DayOfWeek, Start: r.StartTime, End: r.EndTime}
		if _, _, err := availability.ValidateRule(rule); err != nil {
			return nil, invalidInput("rule %d: %v", i, err)
		}
		rules = append(rules, &entity.AvailabilityRule{
			BaseSimple: entity.BaseSimple{ID: uuid.New(), CreatedAt: now},
			ServiceID:  serviceID,
			DayOfWeek:  rule.DayOfWeek,
			StartTime:  rule.Start,
			EndTime:    rule.End,
			IsActive:   true,
		})
	}
	return rules, nil
}

// listWithRules loads the active services of a workspace and their active
// rules in two queries.
func listWithRules(ctx context.Context, repo *repository.Repository, workspaceID uuid.UUID) ([]response.ServiceResponse, error) {
	services, err := repo.Service.FindActiveByWorkspace(ctx, workspaceID)
	if err != nil {
		return nil, fmt.Errorf("list services: %w", err)
	}

	ids := make([]uuid.UUID, len(services))
	for i, svc := range services {
		ids[i] = svc.ID
	}

	byService := make(map[uuid.UUID][]*entity.AvailabilityRule)
	if len(ids) > 0 {
		rules, err := repo.Availability.FindActiveByServices(ctx, ids)
		if err != nil {
			return nil, fmt.Errorf("list availability: %w", err)
		}
		for _, r := range rules {
			byService[r.ServiceID] = append(byService[r.ServiceID], r)
		}
	}

	out := make([]response.ServiceResponse, 0, len(services))
	for _, svc := range services {
		out = append(out, response.ServiceToResponse(svc, byService[svc.ID]))
	}
	return out, nil
}
