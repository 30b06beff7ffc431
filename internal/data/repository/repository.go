package repository

import (
	"errors"

	"careops/pkg/database"

	"go.uber.org/zap"
)

// ErrNoRowsAffected marks an update whose target row does not exist.
var ErrNoRowsAffected = errors.New("no rows affected")

type Repository struct {
	Workspace    WorkspaceRepository
	User         UserRepository
	Session      SessionRepository
	Contact      ContactRepository
	Service      ServiceRepository
	Availability AvailabilityRepository
	Booking      BookingRepository
}

func NewRepository(db database.PgxIface, log *zap.Logger) *Repository {
	return &Repository{
		Workspace:    NewWorkspaceRepository(db, log),
		User:         NewUserRepository(db, log),
		Session:      NewSessionRepository(db, log),
		Contact:      NewContactRepository(db, log),
		Service:      NewServiceRepository(db, log),
		Availability: NewAvailabilityRepository(db, log),
		Booking:      NewBookingRepository(db, log),
	}
}
