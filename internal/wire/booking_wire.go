package wire

import (
	"careops/internal/adaptor"

	"github.com/go-chi/chi/v5"
)

func wireBooking(r chi.Router, bookingHandler *adaptor.BookingHandler, deps *routeDeps) {
	// Slot lookup is open so embedded widgets can query it without a session.
	r.With(deps.limiter.Middleware()).Get("/api/bookings/slots/{service_id}", bookingHandler.GetSlots)

	r.Route("/api/bookings", func(r chi.Router) {
		r.Use(deps.auth())

		r.Get("/", bookingHandler.ListBookings)
		r.Post("/", bookingHandler.CreateBooking)
		r.Get("/today", bookingHandler.TodayBookings)
		r.Get("/export", bookingHandler.ExportBookings)
		r.Put("/{id}/status", bookingHandler.UpdateStatus)
		r.Get("/{id}/calendar", bookingHandler.GetCalendar)
	})
}
