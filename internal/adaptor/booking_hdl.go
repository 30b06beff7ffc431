package adaptor

import (
	"encoding/json"
	"net/http"

	"careops/internal/calendar"
	"careops/internal/dto/request"
	"careops/internal/usecase"
	"careops/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type BookingHandler struct {
	service usecase.BookingService
	slots   usecase.SlotService
	log     *zap.Logger
}

func NewBookingHandler(service usecase.BookingService, slots usecase.SlotService, log *zap.Logger) *BookingHandler {
	return &BookingHandler{
		service: service,
		slots:   slots,
		log:     log.With(zap.String("handler", "booking")),
	}
}

// GetSlots handles GET /api/bookings/slots/{service_id}?date=YYYY-MM-DD
func (h *BookingHandler) GetSlots(w http.ResponseWriter, r *http.Request) {
	date := r.URL.Query().Get("date")
	if date == "" {
		utils.ResponseBadRequest(w, "Query parameter date is required", nil)
		return
	}

	slots, err := h.slots.ComputeSlots(r.Context(), chi.URLParam(r, "service_id"), date)
	if err != nil {
		handleServiceError(w, h.log, err, "get slots")
		return
	}

	utils.ResponseSuccess(w, "success", slots)
}

// ListBookings handles GET /api/bookings
func (h *BookingHandler) ListBookings(w http.ResponseWriter, r *http.Request) {
	session, ok := sessionOrUnauthorized(w, r)
	if !ok {
		return
	}

	req := listRequest(r)
	if validationErrors := utils.ValidateStruct(req); len(validationErrors) > 0 {
		utils.ResponseBadRequest(w, "Validation failed", validationErrors)
		return
	}

	bookings, err := h.service.ListBookings(r.Context(), session.WorkspaceID, req)
	if err != nil {
		handleServiceError(w, h.log, err, "list bookings")
		return
	}

	utils.ResponseSuccess(w, "success", bookings)
}

// TodayBookings handles GET /api/bookings/today
func (h *BookingHandler) TodayBookings(w http.ResponseWriter, r *http.Request) {
	session, ok := sessionOrUnauthorized(w, r)
	if !ok {
		return
	}

	bookings, err := h.service.TodayBookings(r.Context(), session.WorkspaceID)
	if err != nil {
		handleServiceError(w, h.log, err, "today bookings")
		return
	}

	utils.ResponseSuccess(w, "success", map[string]any{
		"bookings": bookings,
		"count":    len(bookings),
	})
}

// CreateBooking handles POST /api/bookings
func (h *BookingHandler) CreateBooking(w http.ResponseWriter, r *http.Request) {
	session, ok := sessionOrUnauthorized(w, r)
	if !ok {
		return
	}

	var req request.CreateBookingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	if validationErrors := utils.ValidateStruct(req); len(validationErrors) > 0 {
		utils.ResponseBadRequest(w, "Validation failed", validationErrors)
		return
	}

	booking, err := h.service.CreateBooking(r.Context(), session.WorkspaceID, &req)
	if err != nil {
		handleServiceError(w, h.log, err, "create booking")
		return
	}

	utils.ResponseCreated(w, "Booking created", booking)
}

// UpdateStatus handles PUT /api/bookings/{id}/status
func (h *BookingHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	session, ok := sessionOrUnauthorized(w, r)
	if !ok {
		return
	}

	var req request.UpdateBookingStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	if validationErrors := utils.ValidateStruct(req); len(validationErrors) > 0 {
		utils.ResponseBadRequest(w, "Validation failed", validationErrors)
		return
	}

	booking, err := h.service.UpdateStatus(r.Context(), session.WorkspaceID, chi.URLParam(r, "id"), &req)
	if err != nil {
		handleServiceError(w, h.log, err, "update booking status")
		return
	}

	utils.ResponseSuccess(w, "Booking status updated", booking)
}

// GetCalendar handles GET /api/bookings/{id}/calendar. With ?format=ics
// the event is served as a download instead of JSON.
func (h *BookingHandler) GetCalendar(w http.ResponseWriter, r *http.Request) {
	session, ok := sessionOrUnauthorized(w, r)
	if !ok {
		return
	}

	bookingID := chi.URLParam(r, "id")
	cal, err := h.service.GetCalendar(r.Context(), session.WorkspaceID, bookingID)
	if err != nil {
		handleServiceError(w, h.log, err, "get booking calendar")
		return
	}

	if r.URL.Query().Get("format") == "ics" {
		utils.ResponseFile(w, calendar.ContentType, "booking-"+bookingID+".ics", []byte(cal.ICS))
		return
	}

	utils.ResponseSuccess(w, "success", cal)
}

// ExportBookings handles GET /api/bookings/export
func (h *BookingHandler) ExportBookings(w http.ResponseWriter, r *http.Request) {
	session, ok := sessionOrUnauthorized(w, r)
	if !ok {
		return
	}

	req := listRequest(r)
	if validationErrors := utils.ValidateStruct(req); len(validationErrors) > 0 {
		utils.ResponseBadRequest(w, "Validation failed", validationErrors)
		return
	}

	body, filename, err := h.service.ExportBookings(r.Context(), session.WorkspaceID, req)
	if err != nil {
		handleServiceError(w, h.log, err, "export bookings")
		return
	}

	utils.ResponseFile(w, xlsxContentType, filename, body)
}

// listRequest reads filters and paging from the query string. limit is
// accepted as an alias of per_page.
func listRequest(r *http.Request) *request.BookingListRequest {
	query := r.URL.Query()
	perPage := utils.ParseInt(query.Get("per_page"), 0)
	if perPage == 0 {
		perPage = utils.ParseInt(query.Get("limit"), 20)
	}
	return &request.BookingListRequest{
		PaginatedRequest: request.PaginatedRequest{
			Page:    utils.ParseInt(query.Get("page"), 1),
			PerPage: perPage,
		},
		Status:   query.Get("status"),
		DateFrom: query.Get("date_from"),
		DateTo:   query.Get("date_to"),
	}
}
