package adaptor

import (
	"context"
	"errors"
	"net/http"

	"careops/internal/usecase"
	"careops/pkg/utils"

	"go.uber.org/zap"
)

type Handler struct {
	Booking *BookingHandler
	Service *ServiceHandler
	Public  *PublicHandler
}

func NewHandler(service *usecase.Service, log *zap.Logger) *Handler {
	return &Handler{
		Booking: NewBookingHandler(service.Booking, service.Slot, log),
		Service: NewServiceHandler(service.Catalog, log),
		Public:  NewPublicHandler(service.Public, service.Slot, service.Booking, log),
	}
}

// handleServiceError maps use case errors onto HTTP responses. Client
// errors log at warn, anything unexpected at error with a generic body.
func handleServiceError(w http.ResponseWriter, log *zap.Logger, err error, operation string) {
	switch {
	case errors.Is(err, usecase.ErrNotFound):
		log.Warn(operation+" failed - not found",
			zap.Error(err),
			zap.String("operation", operation))
		utils.ResponseNotFound(w, usecase.Message(err, "Not found"))

	case errors.Is(err, usecase.ErrInvalidInput):
		log.Warn("Invalid input for "+operation,
			zap.Error(err),
			zap.String("operation", operation))
		utils.ResponseBadRequest(w, usecase.Message(err, "Invalid input"), nil)

	case errors.Is(err, usecase.ErrConflict):
		log.Warn(operation+" failed - conflict",
			zap.Error(err),
			zap.String("operation", operation))
		utils.ResponseConflict(w, usecase.Message(err, "Conflict"))

	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		log.Warn(operation+" aborted",
			zap.Error(err),
			zap.String("operation", operation))
		utils.ResponseJSON(w, http.StatusServiceUnavailable, false, "Request cancelled", nil, nil)

	default:
		log.Error(operation+" failed",
			zap.Error(err),
			zap.String("operation", operation))
		utils.ResponseInternalError(w, "Internal server error")
	}
}

// sessionOrUnauthorized writes 401 when the auth middleware did not run.
func sessionOrUnauthorized(w http.ResponseWriter, r *http.Request) (*utils.Session, bool) {
	session, ok := utils.GetSessionFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return nil, false
	}
	return session, true
}
