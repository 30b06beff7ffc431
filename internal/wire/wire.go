package wire

import (
	"net/http"
	"time"

	"careops/internal/adaptor"
	"careops/internal/data/repository"
	"careops/internal/usecase"
	"careops/pkg/middleware"
	"careops/pkg/notify"
	"careops/pkg/utils"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// App holds what main needs after wiring.
type App struct {
	Router  *chi.Mux
	Service *usecase.Service
	Limiter *middleware.RateLimiter
}

// Wiring builds the use cases, handlers and router. cache may be nil when
// Redis is not configured.
func Wiring(repo *repository.Repository, config *utils.Config, notifier notify.Sender, cache middleware.SessionCache, logger *zap.Logger) *App {
	service := usecase.NewService(repo, config, notifier, logger)
	handler := adaptor.NewHandler(service, logger)
	limiter := middleware.NewRateLimiter(config.Rate.RPS, config.Rate.Burst, 10*time.Minute)

	deps := &routeDeps{
		repo:    repo,
		cache:   cache,
		limiter: limiter,
		log:     logger,
	}

	return &App{
		Router:  setupRouter(handler, deps),
		Service: service,
		Limiter: limiter,
	}
}

// routeDeps is what the per-area wire functions need for middleware.
type routeDeps struct {
	repo    *repository.Repository
	cache   middleware.SessionCache
	limiter *middleware.RateLimiter
	log     *zap.Logger
}

func (d *routeDeps) auth() func(http.Handler) http.Handler {
	return middleware.AuthSession(d.repo.Session, d.cache, d.log)
}

func setupRouter(handler *adaptor.Handler, deps *routeDeps) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.Logger(deps.log))
	r.Use(middleware.Recover(deps.log))
	r.Use(middleware.CORS())
	r.Use(middleware.Metrics())

	wireBooking(r, handler.Booking, deps)
	wireService(r, handler.Service, deps)
	wirePublic(r, handler.Public, deps)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})
	r.Handle("/metrics", promhttp.Handler())

	return r
}
