package request

// CreateBookingRequest books an existing contact from the dashboard.
type CreateBookingRequest struct {
	ContactID   string  `json:"contact_id" validate:"required,uuid"`
	ServiceID   string  `json:"service_id" validate:"required,uuid"`
	BookingDate string  `json:"booking_date" validate:"required,datetime=2006-01-02T15:04:05Z07:00"`
	Notes       *string `json:"notes,omitempty" validate:"omitempty,max=2000"`
}

// PublicBookingRequest is submitted from the public booking page. The
// contact is matched by email, then phone, and created when neither
// matches.
type PublicBookingRequest struct {
	ServiceID     string  `json:"service_id" validate:"required,uuid"`
	BookingDate   string  `json:"booking_date" validate:"required,datetime=2006-01-02T15:04:05Z07:00"`
	CustomerName  string  `json:"customer_name" validate:"omitempty,max=255"`
	CustomerEmail string  `json:"customer_email" validate:"omitempty,email,max=255"`
	CustomerPhone string  `json:"customer_phone" validate:"omitempty,max=32"`
	Notes         *string `json:"notes,omitempty" validate:"omitempty,max=2000"`
}

type UpdateBookingStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=pending confirmed completed cancelled no_show"`
}

// BookingListRequest is read from the query string of the list and export
// endpoints. Dates are business-local YYYY-MM-DD, both inclusive.
type BookingListRequest struct {
	PaginatedRequest
	Status   string `json:"status" validate:"omitempty,oneof=pending confirmed completed cancelled no_show"`
	DateFrom string `json:"date_from" validate:"omitempty,datetime=2006-01-02"`
	DateTo   string `json:"date_to" validate:"omitempty,datetime=2006-01-02"`
}
