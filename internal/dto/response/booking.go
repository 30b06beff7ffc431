package response

import (
	"time"

	"careops/internal/data/entity"
)

type BookingResponse struct {
	ID           string               `json:"id"`
	WorkspaceID  string               `json:"workspace_id"`
	ContactID    string               `json:"contact_id"`
	ServiceID    string               `json:"service_id"`
	Status       entity.BookingStatus `json:"status"`
	BookingDate  time.Time            `json:"booking_date"`
	EndTime      time.Time            `json:"end_time"`
	Notes        *string              `json:"notes,omitempty"`
	ReminderSent bool                 `json:"reminder_sent"`
	CreatedAt    time.Time            `json:"created_at"`
}

// BookingDetailResponse adds the contact and service names shown in lists.
type BookingDetailResponse struct {
	BookingResponse
	ContactName  string  `json:"contact_name"`
	ContactEmail *string `json:"contact_email,omitempty"`
	ContactPhone *string `json:"contact_phone,omitempty"`
	ServiceName  string  `json:"service_name"`
	Location     *string `json:"location,omitempty"`
}

// PublicBookingResponse is what a customer sees after booking.
type PublicBookingResponse struct {
	ID      string    `json:"id"`
	Service string    `json:"service"`
	Date    time.Time `json:"date"`
	EndTime time.Time `json:"end_time"`
	Message string    `json:"message"`
}

type CalendarResponse struct {
	ICS        string `json:"ics"`
	GoogleLink string `json:"google_link"`
}

func BookingToResponse(b *entity.Booking) BookingResponse {
	return BookingResponse{
		ID:           b.ID.String(),
		WorkspaceID:  b.WorkspaceID.String(),
		ContactID:    b.ContactID.String(),
		ServiceID:    b.ServiceID.String(),
		Status:       b.Status,
		BookingDate:  b.StartsAt,
		EndTime:      b.EndsAt,
		Notes:        b.Notes,
		ReminderSent: b.ReminderSent,
		CreatedAt:    b.CreatedAt,
	}
}

func BookingDetailToResponse(d *entity.BookingDetail) BookingDetailResponse {
	return BookingDetailResponse{
		BookingResponse: BookingToResponse(&d.Booking),
		ContactName:     d.ContactName,
		ContactEmail:    d.ContactEmail,
		ContactPhone:    d.ContactPhone,
		ServiceName:     d.ServiceName,
		Location:        d.Location,
	}
}
