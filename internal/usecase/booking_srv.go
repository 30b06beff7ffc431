package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"careops/internal/availability"
	"careops/internal/calendar"
	"careops/internal/data/entity"
	"careops/internal/data/repository"
	"careops/internal/dto/request"
	"careops/internal/dto/response"
	"careops/pkg/metrics"
	"careops/pkg/notify"
	"careops/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	msgSlotTaken       = "Time slot already booked"
	msgSlotUnavailable = "This time slot is no longer available"
	notifyTimeout      = 15 * time.Second
)

type BookingService interface {
	// Dashboard (session scoped)
	CreateBooking(ctx context.Context, workspaceID uuid.UUID, req *request.CreateBookingRequest) (*response.BookingResponse, error)
	UpdateStatus(ctx context.Context, workspaceID uuid.UUID, bookingID string, req *request.UpdateBookingStatusRequest) (*response.BookingResponse, error)
	ListBookings(ctx context.Context, workspaceID uuid.UUID, req *request.BookingListRequest) (*response.PaginatedResponse[response.BookingDetailResponse], error)
	TodayBookings(ctx context.Context, workspaceID uuid.UUID) ([]response.BookingDetailResponse, error)
	GetCalendar(ctx context.Context, workspaceID uuid.UUID, bookingID string) (*response.CalendarResponse, error)
	ExportBookings(ctx context.Context, workspaceID uuid.UUID, req *request.BookingListRequest) ([]byte, string, error)

	// Public booking page
	CreatePublicBooking(ctx context.Context, slug string, req *request.PublicBookingRequest) (*response.PublicBookingResponse, error)
}

type bookingService struct {
	repo       *repository.Repository
	notifier   notify.Sender
	booking    utils.BookingConfig
	defaultLoc *time.Location
	now        func() time.Time
	log        *zap.Logger
}

func NewBookingService(repo *repository.Repository, config *utils.Config, notifier notify.Sender, log *zap.Logger) BookingService {
	return &bookingService{
		repo:       repo,
		notifier:   notifier,
		booking:    config.Booking,
		defaultLoc: defaultLocation(config),
		now:        time.Now,
		log:        log.With(zap.String("service", "booking")),
	}
}

func (s *bookingService) CreateBooking(ctx context.Context, workspaceID uuid.UUID, req *request.CreateBookingRequest) (*response.BookingResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Create booking validation failed", zap.Any("errors", errs))
		return nil, invalidInput("validation failed: %s", utils.FormatValidationErrors(errs))
	}

	start, err := parseStart(req.BookingDate)
	if err != nil {
		return nil, err
	}

	service, err := findActiveService(ctx, s.repo, workspaceID, uuid.MustParse(req.ServiceID))
	if err != nil {
		return nil, err
	}

	contact, err := s.repo.Contact.FindByID(ctx, uuid.MustParse(req.ContactID))
	if err != nil {
		return nil, fmt.Errorf("find contact %s: %w", req.ContactID, err)
	}
	if contact == nil || contact.WorkspaceID != workspaceID {
		return nil, notFound("Contact not found")
	}

	ws, err := s.repo.Workspace.FindByID(ctx, workspaceID)
	if err != nil {
		return nil, fmt.Errorf("find workspace %s: %w", workspaceID.String(), err)
	}

	booking := s.newBooking(workspaceID, contact.ID, service, start, req.Notes)
	if err := s.insert(ctx, booking, msgSlotTaken); err != nil {
		return nil, err
	}
	metrics.RecordBookingCreated("internal")

	s.log.Info("Booking created",
		zap.String("booking_id", booking.ID.String()),
		zap.String("service_id", service.ID.String()),
		zap.Time("starts_at", booking.StartsAt),
	)

	s.confirm(ctx, ws, bookingDetail(booking, contact, service))

	resp := response.BookingToResponse(booking)
	return &resp, nil
}

func (s *bookingService) CreatePublicBooking(ctx context.Context, slug string, req *request.PublicBookingRequest) (*response.PublicBookingResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Public booking validation failed", zap.Any("errors", errs))
		return nil, invalidInput("validation failed: %s", utils.FormatValidationErrors(errs))
	}
	if strings.TrimSpace(req.CustomerEmail) == "" && strings.TrimSpace(req.CustomerPhone) == "" {
		return nil, invalidInput("Email or phone is required")
	}

	ws, err := s.repo.Workspace.FindBySlug(ctx, slug)
	if err != nil {
		return nil, fmt.Errorf("find workspace %s: %w", slug, err)
	}
	if ws == nil || !ws.IsActive {
		return nil, notFound("Workspace not found")
	}

	start, err := parseStart(req.BookingDate)
	if err != nil {
		return nil, err
	}

	service, err := findActiveService(ctx, s.repo, ws.ID, uuid.MustParse(req.ServiceID))
	if err != nil {
		return nil, err
	}

	if err := s.ensureOffered(ctx, ws, service, start); err != nil {
		return nil, err
	}

	contact, err := s.resolveContact(ctx, ws.ID, req)
	if err != nil {
		return nil, err
	}

	booking := s.newBooking(ws.ID, contact.ID, service, start, req.Notes)
	if err := s.insert(ctx, booking, msgSlotUnavailable); err != nil {
		return nil, err
	}
	metrics.RecordBookingCreated("public")

	s.log.Info("Public booking created",
		zap.String("booking_id", booking.ID.String()),
		zap.String("workspace", slug),
		zap.String("service_id", service.ID.String()),
		zap.Time("starts_at", booking.StartsAt),
	)

	s.confirm(ctx, ws, bookingDetail(booking, contact, service))

	return &response.PublicBookingResponse{
		ID:      booking.ID.String(),
		Service: service.Name,
		Date:    booking.StartsAt,
		EndTime: booking.EndsAt,
		Message: "Your booking has been confirmed!",
	}, nil
}

func (s *bookingService) UpdateStatus(ctx context.Context, workspaceID uuid.UUID, bookingID string, req *request.UpdateBookingStatusRequest) (*response.BookingResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return nil, invalidInput("validation failed: %s", utils.FormatValidationErrors(errs))
	}

	detail, err := s.findBooking(ctx, workspaceID, bookingID)
	if err != nil {
		return nil, err
	}

	next := entity.BookingStatus(req.Status)
	if !detail.Status.CanTransitionTo(next) {
		return nil, invalidInput("Cannot change booking status from %s to %s", detail.Status, next)
	}

	if err := s.repo.Booking.UpdateStatus(ctx, detail.ID, next); err != nil {
		if errors.Is(err, repository.ErrNoRowsAffected) {
			return nil, notFound("Booking not found")
		}
		return nil, fmt.Errorf("update booking %s status: %w", bookingID, err)
	}
	metrics.RecordStatusChange(string(next))

	s.log.Info("Booking status changed",
		zap.String("booking_id", bookingID),
		zap.String("from", string(detail.Status)),
		zap.String("to", string(next)),
	)

	detail.Status = next
	detail.UpdatedAt = s.now()
	resp := response.BookingToResponse(&detail.Booking)
	return &resp, nil
}

func (s *bookingService) ListBookings(ctx context.Context, workspaceID uuid.UUID, req *request.BookingListRequest) (*response.PaginatedResponse[response.BookingDetailResponse], error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return nil, invalidInput("validation failed: %s", utils.FormatValidationErrors(errs))
	}

	filter, err := s.filter(ctx, workspaceID, req)
	if err != nil {
		return nil, err
	}
	filter.Limit = req.Limit()
	filter.Offset = req.Offset()

	bookings, err := s.repo.Booking.List(ctx, workspaceID, filter)
	if err != nil {
		return nil, fmt.Errorf("list bookings: %w", err)
	}
	total, err := s.repo.Booking.Count(ctx, workspaceID, filter)
	if err != nil {
		return nil, fmt.Errorf("count bookings: %w", err)
	}

	return response.NewPaginatedResponse(toDetailResponses(bookings), req.Page, req.Limit(), total), nil
}

func (s *bookingService) TodayBookings(ctx context.Context, workspaceID uuid.UUID) ([]response.BookingDetailResponse, error) {
	loc, err := workspaceLocation(ctx, s.repo, workspaceID, s.defaultLoc)
	if err != nil {
		return nil, err
	}

	from, to := availability.DateOf(s.now().In(loc)).Bounds(loc)
	bookings, err := s.repo.Booking.List(ctx, workspaceID, entity.BookingFilter{From: &from, To: &to})
	if err != nil {
		return nil, fmt.Errorf("list today's bookings: %w", err)
	}

	return toDetailResponses(bookings), nil
}

func (s *bookingService) GetCalendar(ctx context.Context, workspaceID uuid.UUID, bookingID string) (*response.CalendarResponse, error) {
	detail, err := s.findBooking(ctx, workspaceID, bookingID)
	if err != nil {
		return nil, err
	}

	event := bookingEvent(detail)
	return &response.CalendarResponse{
		ICS:        calendar.ICS(event, s.now()),
		GoogleLink: calendar.GoogleLink(event),
	}, nil
}

func (s *bookingService) ExportBookings(ctx context.Context, workspaceID uuid.UUID, req *request.BookingListRequest) ([]byte, string, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return nil, "", invalidInput("validation failed: %s", utils.FormatValidationErrors(errs))
	}

	loc, err := workspaceLocation(ctx, s.repo, workspaceID, s.defaultLoc)
	if err != nil {
		return nil, "", err
	}
	filter, err := s.filter(ctx, workspaceID, req)
	if err != nil {
		return nil, "", err
	}

	bookings, err := s.repo.Booking.List(ctx, workspaceID, filter)
	if err != nil {
		return nil, "", fmt.Errorf("list bookings for export: %w", err)
	}

	buf, err := bookingsWorkbook(bookings, loc)
	if err != nil {
		s.log.Error("Failed to build bookings workbook", zap.Error(err))
		return nil, "", fmt.Errorf("build bookings workbook: %w", err)
	}

	filename := fmt.Sprintf("bookings_%s.xlsx", availability.DateOf(s.now().In(loc)))
	s.log.Info("Bookings exported",
		zap.String("workspace_id", workspaceID.String()),
		zap.Int("rows", len(bookings)),
	)
	return buf.Bytes(), filename, nil
}

func (s *bookingService) newBooking(workspaceID, contactID uuid.UUID, service *entity.Service, start time.Time, notes *string) *entity.Booking {
	return &entity.Booking{
		Base:        entity.NewBase(s.now()),
		WorkspaceID: workspaceID,
		ContactID:   contactID,
		ServiceID:   service.ID,
		StartsAt:    start,
		EndsAt:      start.Add(service.Duration()),
		Status:      entity.BookingStatusConfirmed,
		Notes:       notes,
	}
}

// insert maps a lost race for the slot to ErrConflict with conflictMsg.
func (s *bookingService) insert(ctx context.Context, booking *entity.Booking, conflictMsg string) error {
	err := s.repo.Booking.CreateIfFree(ctx, booking)
	if errors.Is(err, repository.ErrSlotTaken) {
		metrics.RecordBookingConflict()
		s.log.Warn("Booking conflict",
			zap.String("service_id", booking.ServiceID.String()),
			zap.Time("starts_at", booking.StartsAt),
		)
		return conflict(conflictMsg)
	}
	if err != nil {
		s.log.Error("Failed to create booking",
			zap.Error(err),
			zap.String("service_id", booking.ServiceID.String()),
		)
		return fmt.Errorf("create booking: %w", err)
	}
	return nil
}

// ensureOffered rejects public requests for a start the service does not
// offer: outside its rules, in the past, within the lead time or beyond
// the booking horizon. Existing bookings are left to CreateIfFree.
func (s *bookingService) ensureOffered(ctx context.Context, ws *entity.Workspace, service *entity.Service, start time.Time) error {
	loc := ws.Location(s.defaultLoc)
	now := s.now()
	day := availability.DateOf(start.In(loc))

	if dateBeyond(day, now.In(loc), s.booking.MaxDaysAhead) {
		return invalidInput("Date is outside the supported range of %d days", s.booking.MaxDaysAhead)
	}

	rules, err := s.repo.Availability.FindActiveByService(ctx, service.ID)
	if err != nil {
		return fmt.Errorf("load availability of service %s: %w", service.ID.String(), err)
	}

	slots, err := availability.Compute(availability.Input{
		Date:     day,
		Duration: service.Duration(),
		Rules:    toRules(rules),
		Location: loc,
		Now:      now,
		LeadTime: s.booking.LeadTime,
	})
	if err != nil {
		return invalidInput("Service availability is misconfigured: %v", err)
	}

	for _, slot := range slots {
		if slot.Start.Equal(start) {
			return nil
		}
	}
	return invalidInput("%s", msgSlotUnavailable)
}

// resolveContact matches by email, then phone, and creates the contact
// when neither is known.
func (s *bookingService) resolveContact(ctx context.Context, workspaceID uuid.UUID, req *request.PublicBookingRequest) (*entity.Contact, error) {
	email := strings.TrimSpace(req.CustomerEmail)
	phone := strings.TrimSpace(req.CustomerPhone)

	if email != "" {
		contact, err := s.repo.Contact.FindByEmail(ctx, workspaceID, email)
		if err != nil {
			return nil, fmt.Errorf("find contact by email: %w", err)
		}
		if contact != nil {
			return contact, nil
		}
	}
	if phone != "" {
		contact, err := s.repo.Contact.FindByPhone(ctx, workspaceID, phone)
		if err != nil {
			return nil, fmt.Errorf("find contact by phone: %w", err)
		}
		if contact != nil {
			return contact, nil
		}
	}

	name := strings.TrimSpace(req.CustomerName)
	if name == "" {
		return nil, invalidInput("Customer name is required")
	}

	contact := &entity.Contact{
		Base:        entity.NewBase(s.now()),
		WorkspaceID: workspaceID,
		Name:        name,
		Email:       optional(email),
		Phone:       optional(phone),
		Source:      entity.ContactSourceBooking,
	}
	if err := s.repo.Contact.Create(ctx, contact); err != nil {
		return nil, fmt.Errorf("create contact: %w", err)
	}
	return contact, nil
}

func (s *bookingService) findBooking(ctx context.Context, workspaceID uuid.UUID, bookingID string) (*entity.BookingDetail, error) {
	id, err := uuid.Parse(bookingID)
	if err != nil {
		return nil, invalidInput("Invalid booking ID")
	}
	detail, err := s.repo.Booking.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("find booking %s: %w", bookingID, err)
	}
	if detail == nil || detail.WorkspaceID != workspaceID {
		return nil, notFound("Booking not found")
	}
	return detail, nil
}

// filter turns the inclusive local date range into absolute bounds.
func (s *bookingService) filter(ctx context.Context, workspaceID uuid.UUID, req *request.BookingListRequest) (entity.BookingFilter, error) {
	var f entity.BookingFilter
	if req.Status != "" {
		status := entity.BookingStatus(req.Status)
		f.Status = &status
	}
	if req.DateFrom == "" && req.DateTo == "" {
		return f, nil
	}

	loc, err := workspaceLocation(ctx, s.repo, workspaceID, s.defaultLoc)
	if err != nil {
		return f, err
	}
	if req.DateFrom != "" {
		day, err := availability.ParseDate(req.DateFrom)
		if err != nil {
			return f, invalidInput("Invalid date_from. Use YYYY-MM-DD")
		}
		from, _ := day.Bounds(loc)
		f.From = &from
	}
	if req.DateTo != "" {
		day, err := availability.ParseDate(req.DateTo)
		if err != nil {
			return f, invalidInput("Invalid date_to. Use YYYY-MM-DD")
		}
		_, to := day.Bounds(loc)
		f.To = &to
	}
	if f.From != nil && f.To != nil && !f.From.Before(*f.To) {
		return f, invalidInput("date_from must not be after date_to")
	}
	return f, nil
}

// confirm is best effort; the booking stands whether or not delivery
// succeeds.
func (s *bookingService) confirm(ctx context.Context, ws *entity.Workspace, detail *entity.BookingDetail) {
	if s.notifier == nil {
		return
	}
	loc := s.defaultLoc
	if ws != nil {
		loc = ws.Location(s.defaultLoc)
	}

	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), notifyTimeout)
	defer cancel()

	if err := s.notifier.Send(ctx, "confirmation", confirmationMessage(ws, detail, loc, s.now())); err != nil {
		s.log.Warn("Failed to send booking confirmation",
			zap.Error(err),
			zap.String("booking_id", detail.ID.String()),
		)
	}
}

func parseStart(value string) (time.Time, error) {
	start, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}, invalidInput("Invalid booking_date, expected RFC 3339 timestamp")
	}
	return start.UTC(), nil
}

func toDetailResponses(bookings []*entity.BookingDetail) []response.BookingDetailResponse {
	out := make([]response.BookingDetailResponse, 0, len(bookings))
	for _, b := range bookings {
		out = append(out, response.BookingDetailToResponse(b))
	}
	return out
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
