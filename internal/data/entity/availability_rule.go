package entity

import "github.com/google/uuid"

// AvailabilityRule is a weekly open window. DayOfWeek counts Monday as 0;
// StartTime and EndTime are HH:MM in the workspace time zone.
type AvailabilityRule struct {
	BaseSimple
	ServiceID uuid.UUID `db:"service_id"`
	DayOfWeek int       `db:"day_of_week"`
	StartTime string    `db:"start_time"`
	EndTime   string    `db:"end_time"`
	IsActive  bool      `db:"is_active"`
}
