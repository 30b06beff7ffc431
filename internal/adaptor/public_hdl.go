package adaptor

import (
	"encoding/json"
	"net/http"

	"careops/internal/dto/request"
	"careops/internal/usecase"
	"careops/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// PublicHandler serves the unauthenticated booking page.
type PublicHandler struct {
	page     usecase.PublicService
	slots    usecase.SlotService
	bookings usecase.BookingService
	log      *zap.Logger
}

func NewPublicHandler(page usecase.PublicService, slots usecase.SlotService, bookings usecase.BookingService, log *zap.Logger) *PublicHandler {
	return &PublicHandler{
		page:     page,
		slots:    slots,
		bookings: bookings,
		log:      log.With(zap.String("handler", "public")),
	}
}

// GetBookingPage handles GET /api/public/booking/{slug}
func (h *PublicHandler) GetBookingPage(w http.ResponseWriter, r *http.Request) {
	page, err := h.page.GetBookingPage(r.Context(), chi.URLParam(r, "slug"))
	if err != nil {
		handleServiceError(w, h.log, err, "get booking page")
		return
	}

	utils.ResponseSuccess(w, "success", page)
}

// GetSlots handles GET /api/public/booking/{slug}/slots/{service_id}
func (h *PublicHandler) GetSlots(w http.ResponseWriter, r *http.Request) {
	date := r.URL.Query().Get("date")
	if date == "" {
		utils.ResponseBadRequest(w, "Query parameter date is required", nil)
		return
	}

	slots, err := h.slots.ComputePublicSlots(r.Context(), chi.URLParam(r, "slug"), chi.URLParam(r, "service_id"), date)
	if err != nil {
		handleServiceError(w, h.log, err, "get public slots")
		return
	}

	utils.ResponseSuccess(w, "success", slots)
}

// CreateBooking handles POST /api/public/booking/{slug}
func (h *PublicHandler) CreateBooking(w http.ResponseWriter, r *http.Request) {
	var req request.PublicBookingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	if validationErrors := utils.ValidateStruct(req); len(validationErrors) > 0 {
		utils.ResponseBadRequest(w, "Validation failed", validationErrors)
		return
	}

	booking, err := h.bookings.CreatePublicBooking(r.Context(), chi.URLParam(r, "slug"), &req)
	if err != nil {
		handleServiceError(w, h.log, err, "create public booking")
		return
	}

	utils.ResponseCreated(w, booking.Message, booking)
}
