package entity

import (
	"time"

	"github.com/google/uuid"
)

// Service is a bookable offering. Price is in cents.
type Service struct {
	Base
	WorkspaceID     uuid.UUID `db:"workspace_id"`
	Name            string    `db:"name"`
	Description     *string   `db:"description"`
	DurationMinutes int       `db:"duration_minutes"`
	Location        *string   `db:"location"`
	Price           *int      `db:"price"`
	Color           string    `db:"color"`
	IsActive        bool      `db:"is_active"`
}

func (s *Service) Duration() time.Duration {
	return time.Duration(s.DurationMinutes) * time.Minute
}
