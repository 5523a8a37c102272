package wire

import (
	"net/http"

	"otp-registration/internal/adaptor"
	"otp-registration/internal/data/repository"
	"otp-registration/internal/usecase"
	"otp-registration/pkg/metrics"
	"otp-registration/pkg/middleware"
	"otp-registration/pkg/utils"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

// App holds the router and the long-lived pieces main needs to run.
type App struct {
	Router  *chi.Mux
	Service *usecase.Service
	Limiter *middleware.IPRateLimiter
}

// Wiring builds services, handlers and routes.
func Wiring(
	repo *repository.Repository,
	deps usecase.Collaborators,
	gatherer prometheus.Gatherer,
	config *utils.Config,
	logger *zap.Logger,
) *App {
	service := usecase.NewService(repo, deps, config, logger)
	handler := adaptor.NewHandler(service, logger)
	limiter := middleware.NewIPRateLimiter(config.RateLimit.RequestsPerMinute, config.RateLimit.Burst, logger)

	router := setupRouter(handler, service, limiter, gatherer, config, logger)

	return &App{
		Router:  router,
		Service: service,
		Limiter: limiter,
	}
}

func setupRouter(
	handler *adaptor.Handler,
	service *usecase.Service,
	limiter *middleware.IPRateLimiter,
	gatherer prometheus.Gatherer,
	config *utils.Config,
	logger *zap.Logger,
) *chi.Mux {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.Logger(logger))
	r.Use(middleware.Recover(logger))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   config.CORS.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Retry-After"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	wireOTP(r, handler.OTP, limiter)
	wireRegister(r, handler.Registration, service.Session, logger)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})
	r.Method(http.MethodGet, "/metrics", metrics.Handler(gatherer))

	return r
}
