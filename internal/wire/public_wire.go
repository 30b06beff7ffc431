package wire

import (
	"careops/internal/adaptor"

	"github.com/go-chi/chi/v5"
)

func wirePublic(r chi.Router, publicHandler *adaptor.PublicHandler, deps *routeDeps) {
	r.Route("/api/public/booking/{slug}", func(r chi.Router) {
		r.Use(deps.limiter.Middleware())

		r.Get("/", publicHandler.GetBookingPage)
		r.Post("/", publicHandler.CreateBooking)
		r.Get("/slots/{service_id}", publicHandler.GetSlots)
	})
}
