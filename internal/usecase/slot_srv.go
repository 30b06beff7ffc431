package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"careops/internal/availability"
	"careops/internal/data/entity"
	"careops/internal/data/repository"
	"careops/internal/dto/response"
	"careops/pkg/metrics"
	"careops/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type SlotService interface {
	// ComputeSlots lists the open slots of a service on date (YYYY-MM-DD,
	// business-local). Unknown or inactive services return ErrNotFound, a
	// malformed or out of range date returns ErrInvalidInput.
	ComputeSlots(ctx context.Context, serviceID, date string) (*response.SlotsResponse, error)
	// ComputeWorkspaceSlots is ComputeSlots restricted to one workspace.
	ComputeWorkspaceSlots(ctx context.Context, workspaceID uuid.UUID, serviceID, date string) (*response.SlotsResponse, error)
	// ComputePublicSlots resolves the workspace from its public slug.
	ComputePublicSlots(ctx context.Context, slug, serviceID, date string) (*response.SlotsResponse, error)
}

type slotService struct {
	repo       *repository.Repository
	booking    utils.BookingConfig
	defaultLoc *time.Location
	now        func() time.Time
	log        *zap.Logger
}

func NewSlotService(repo *repository.Repository, config *utils.Config, log *zap.Logger) SlotService {
	return &slotService{
		repo:       repo,
		booking:    config.Booking,
		defaultLoc: defaultLocation(config),
		now:        time.Now,
		log:        log.With(zap.String("service", "slot")),
	}
}

func (s *slotService) ComputeSlots(ctx context.Context, serviceID, date string) (*response.SlotsResponse, error) {
	return s.compute(ctx, uuid.Nil, serviceID, date)
}

func (s *slotService) ComputeWorkspaceSlots(ctx context.Context, workspaceID uuid.UUID, serviceID, date string) (*response.SlotsResponse, error) {
	return s.compute(ctx, workspaceID, serviceID, date)
}

func (s *slotService) ComputePublicSlots(ctx context.Context, slug, serviceID, date string) (*response.SlotsResponse, error) {
	ws, err := s.repo.Workspace.FindBySlug(ctx, slug)
	if err != nil {
		metrics.RecordSlotQuery("error")
		return nil, fmt.Errorf("find workspace %s: %w", slug, err)
	}
	if ws == nil || !ws.IsActive {
		metrics.RecordSlotQuery("not_found")
		return nil, notFound("Workspace not found")
	}
	return s.compute(ctx, ws.ID, serviceID, date)
}

func (s *slotService) compute(ctx context.Context, workspaceID uuid.UUID, serviceID, date string) (*response.SlotsResponse, error) {
	resp, err := s.slots(ctx, workspaceID, serviceID, date)
	switch {
	case errors.Is(err, ErrNotFound):
		metrics.RecordSlotQuery("not_found")
	case errors.Is(err, ErrInvalidInput):
		metrics.RecordSlotQuery("invalid")
	case err != nil:
		metrics.RecordSlotQuery("error")
	case len(resp.Slots) == 0:
		metrics.RecordSlotQuery("empty")
	default:
		metrics.RecordSlotQuery("ok")
	}
	return resp, err
}

func (s *slotService) slots(ctx context.Context, workspaceID uuid.UUID, serviceID, date string) (*response.SlotsResponse, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	id, err := uuid.Parse(serviceID)
	if err != nil {
		return nil, invalidInput("Invalid service ID")
	}
	day, err := availability.ParseDate(date)
	if err != nil {
		return nil, invalidInput("Invalid date format. Use YYYY-MM-DD")
	}

	service, err := findActiveService(ctx, s.repo, workspaceID, id)
	if err != nil {
		return nil, err
	}

	loc, err := workspaceLocation(ctx, s.repo, service.WorkspaceID, s.defaultLoc)
	if err != nil {
		return nil, err
	}

	now := s.now()
	if dateBeyond(day, now.In(loc), s.booking.MaxDaysAhead) {
		return nil, invalidInput("Date is outside the supported range of %d days", s.booking.MaxDaysAhead)
	}

	rules, err := s.repo.Availability.FindActiveByService(ctx, service.ID)
	if err != nil {
		s.log.Error("Failed to load availability rules",
			zap.Error(err),
			zap.String("service_id", serviceID),
		)
		return nil, fmt.Errorf("load availability of service %s: %w", serviceID, err)
	}

	from, to := day.Bounds(loc)
	booked, err := s.repo.Booking.FindOccupying(ctx, service.ID, from, to)
	if err != nil {
		s.log.Error("Failed to load bookings",
			zap.Error(err),
			zap.String("service_id", serviceID),
			zap.String("date", day.String()),
		)
		return nil, fmt.Errorf("load bookings of service %s on %s: %w", serviceID, day, err)
	}

	slots, err := availability.Compute(availability.Input{
		Date:     day,
		Duration: service.Duration(),
		Rules:    toRules(rules),
		Busy:     toBusy(booked),
		Location: loc,
		Now:      now,
		LeadTime: s.booking.LeadTime,
	})
	if err != nil {
		s.log.Warn("Stored availability is not computable",
			zap.Error(err),
			zap.String("service_id", serviceID),
		)
		return nil, invalidInput("Service availability is misconfigured: %v", err)
	}

	return response.SlotsToResponse(slots, day, service.Name), nil
}

// dateBeyond reports whether day lies more than maxDays after the local
// calendar day of now.
func dateBeyond(day availability.Date, now time.Time, maxDays int) bool {
	if maxDays <= 0 {
		return false
	}
	return availability.DateOf(now).AddDays(maxDays).Before(day)
}

// findActiveService returns the service when it exists, is active and,
// for a non-nil workspaceID, belongs to that workspace.
func findActiveService(ctx context.Context, repo *repository.Repository, workspaceID, id uuid.UUID) (*entity.Service, error) {
	service, err := repo.Service.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("find service %s: %w", id.String(), err)
	}
	if service == nil || !service.IsActive {
		return nil, notFound("Service not found")
	}
	if workspaceID != uuid.Nil && service.WorkspaceID != workspaceID {
		return nil, notFound("Service not found")
	}
	return service, nil
}

func workspaceLocation(ctx context.Context, repo *repository.Repository, workspaceID uuid.UUID, fallback *time.Location) (*time.Location, error) {
	ws, err := repo.Workspace.FindByID(ctx, workspaceID)
	if err != nil {
		return nil, fmt.Errorf("find workspace %s: %w", workspaceID.String(), err)
	}
	if ws == nil {
		return fallback, nil
	}
	return ws.Location(fallback), nil
}

func toRules(rules []*entity.AvailabilityRule) []availability.Rule {
	out := make([]availability.Rule, 0, len(rules))
	for _, r := range rules {
		out = append(out, availability.Rule{
			DayOfWeek: r.DayOfWeek,
			Start:     r.StartTime,
			End:       r.EndTime,
		})
	}
	return out
}

// toBusy keeps each booking's stored end, the bound CreateIfFree checks,
// even when the service duration has changed since it was booked.
func toBusy(bookings []*entity.Booking) []availability.Interval {
	out := make([]availability.Interval, 0, len(bookings))
	for _, b := range bookings {
		out = append(out, availability.Interval{Start: b.StartsAt, End: b.EndsAt})
	}
	return out
}
