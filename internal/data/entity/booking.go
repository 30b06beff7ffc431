package entity

import (
	"time"

	"github.com/google/uuid"
)

type BookingStatus string

const (
	BookingStatusPending   BookingStatus = "pending"
	BookingStatusConfirmed BookingStatus = "confirmed"
	BookingStatusCompleted BookingStatus = "completed"
	BookingStatusCancelled BookingStatus = "cancelled"
	BookingStatusNoShow    BookingStatus = "no_show"
)

// OccupyingStatuses are the statuses that block a slot.
var OccupyingStatuses = []BookingStatus{BookingStatusPending, BookingStatusConfirmed}

var bookingTransitions = map[BookingStatus][]BookingStatus{
	BookingStatusPending:   {BookingStatusConfirmed, BookingStatusCancelled},
	BookingStatusConfirmed: {BookingStatusCompleted, BookingStatusNoShow, BookingStatusCancelled},
}

func (s BookingStatus) Valid() bool {
	switch s {
	case BookingStatusPending, BookingStatusConfirmed, BookingStatusCompleted,
		BookingStatusCancelled, BookingStatusNoShow:
		return true
	}
	return false
}

func (s BookingStatus) CanTransitionTo(next BookingStatus) bool {
	for _, allowed := range bookingTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

type Booking struct {
	Base
	WorkspaceID  uuid.UUID     `db:"workspace_id"`
	ContactID    uuid.UUID     `db:"contact_id"`
	ServiceID    uuid.UUID     `db:"service_id"`
	StartsAt     time.Time     `db:"booking_date"`
	EndsAt       time.Time     `db:"end_time"`
	Status       BookingStatus `db:"status"`
	Notes        *string       `db:"notes"`
	ReminderSent bool          `db:"reminder_sent"`
}

// BookingDetail is a booking joined with the names the API and exports
// show.
type BookingDetail struct {
	Booking
	ContactName  string  `db:"contact_name"`
	ContactEmail *string `db:"contact_email"`
	ContactPhone *string `db:"contact_phone"`
	ServiceName  string  `db:"service_name"`
	Location     *string `db:"location"`
}

type BookingFilter struct {
	Status *BookingStatus
	From   *time.Time
	To     *time.Time
	Limit  int
	Offset int
}
