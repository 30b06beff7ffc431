package wire

import (
	"careops/internal/adaptor"
	"careops/pkg/middleware"

	"github.com/go-chi/chi/v5"
)

func wireService(r chi.Router, serviceHandler *adaptor.ServiceHandler, deps *routeDeps) {
	r.Route("/api/services", func(r chi.Router) {
		r.Use(deps.auth())

		r.Get("/", serviceHandler.ListServices)

		// Catalog changes are owner only
		r.Group(func(r chi.Router) {
			r.Use(middleware.Owner(deps.repo.User, deps.log))

			r.Post("/", serviceHandler.CreateService)
			r.Put("/{id}", serviceHandler.UpdateService)
			r.Delete("/{id}", serviceHandler.DeleteService)
			r.Post("/{id}/availability", serviceHandler.SetAvailability)
		})
	})
}
