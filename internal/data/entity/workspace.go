package entity

import "time"

type Workspace struct {
	Base
	Name                       string  `db:"name"`
	Slug                       string  `db:"slug"`
	Timezone                   string  `db:"timezone"`
	ContactEmail               *string `db:"contact_email"`
	Phone                      *string `db:"phone"`
	Address                    *string `db:"address"`
	IsActive                   bool    `db:"is_active"`
	ReminderMessage            *string `db:"reminder_message"`
	BookingConfirmationMessage *string `db:"booking_confirmation_message"`
}

// Location resolves the workspace time zone, falling back to fallback when
// the stored name is empty or unknown.
func (w *Workspace) Location(fallback *time.Location) *time.Location {
	if w.Timezone == "" {
		return fallback
	}
	loc, err := time.LoadLocation(w.Timezone)
	if err != nil {
		return fallback
	}
	return loc
}
