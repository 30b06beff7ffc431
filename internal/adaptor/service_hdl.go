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

type ServiceHandler struct {
	service usecase.CatalogService
	log     *zap.Logger
}

func NewServiceHandler(service usecase.CatalogService, log *zap.Logger) *ServiceHandler {
	return &ServiceHandler{
		service: service,
		log:     log.With(zap.String("handler", "service")),
	}
}

// ListServices handles GET /api/services
func (h *ServiceHandler) ListServices(w http.ResponseWriter, r *http.Request) {
	session, ok := sessionOrUnauthorized(w, r)
	if !ok {
		return
	}

	services, err := h.service.ListServices(r.Context(), session.WorkspaceID)
	if err != nil {
		handleServiceError(w, h.log, err, "list services")
		return
	}

	utils.ResponseSuccess(w, "success", services)
}

// CreateService handles POST /api/services (owner)
func (h *ServiceHandler) CreateService(w http.ResponseWriter, r *http.Request) {
	session, ok := sessionOrUnauthorized(w, r)
	if !ok {
		return
	}

	var req request.CreateServiceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	if validationErrors := utils.ValidateStruct(req); len(validationErrors) > 0 {
		utils.ResponseBadRequest(w, "Validation failed", validationErrors)
		return
	}

	service, err := h.service.CreateService(r.Context(), session.WorkspaceID, &req)
	if err != nil {
		handleServiceError(w, h.log, err, "create service")
		return
	}

	utils.ResponseCreated(w, "Service created", service)
}

// UpdateService handles PUT /api/services/{id} (owner)
func (h *ServiceHandler) UpdateService(w http.ResponseWriter, r *http.Request) {
	session, ok := sessionOrUnauthorized(w, r)
	if !ok {
		return
	}

	var req request.UpdateServiceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	if validationErrors := utils.ValidateStruct(req); len(validationErrors) > 0 {
		utils.ResponseBadRequest(w, "Validation failed", validationErrors)
		return
	}

	service, err := h.service.UpdateService(r.Context(), session.WorkspaceID, chi.URLParam(r, "id"), &req)
	if err != nil {
		handleServiceError(w, h.log, err, "update service")
		return
	}

	utils.ResponseSuccess(w, "Service updated", service)
}

// DeleteService handles DELETE /api/services/{id} (owner). The service is
// deactivated, not removed.
func (h *ServiceHandler) DeleteService(w http.ResponseWriter, r *http.Request) {
	session, ok := sessionOrUnauthorized(w, r)
	if !ok {
		return
	}

	if err := h.service.DeactivateService(r.Context(), session.WorkspaceID, chi.URLParam(r, "id")); err != nil {
		handleServiceError(w, h.log, err, "deactivate service")
		return
	}

	utils.ResponseSuccess(w, "Service deactivated", nil)
}

// SetAvailability handles POST /api/services/{id}/availability (owner)
func (h *ServiceHandler) SetAvailability(w http.ResponseWriter, r *http.Request) {
	session, ok := sessionOrUnauthorized(w, r)
	if !ok {
		return
	}

	var req request.SetAvailabilityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	if validationErrors := utils.ValidateStruct(req); len(validationErrors) > 0 {
		utils.ResponseBadRequest(w, "Validation failed", validationErrors)
		return
	}

	service, err := h.service.SetAvailability(r.Context(), session.WorkspaceID, chi.URLParam(r, "id"), &req)
	if err != nil {
		handleServiceError(w, h.log, err, "set availability")
		return
	}

	utils.ResponseSuccess(w, "Availability updated", service)
}
