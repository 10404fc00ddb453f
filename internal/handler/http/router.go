package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/ShaikhZaamir/vendor-portal/internal/service"
	"github.com/ShaikhZaamir/vendor-portal/pkg/health"
	"github.com/ShaikhZaamir/vendor-portal/pkg/middleware"
)

// Services bundles the business logic the router exposes.
type Services struct {
	Auth     *service.AuthService
	Vendors  *service.VendorService
	Reviews  *service.ReviewService
	Products *service.ProductService
	Media    *service.MediaService
}

// RouterConfig holds everything besides the services that shapes the router.
type RouterConfig struct {
	ServiceName string
	CORS        middleware.CORSConfig

	// TokenValidator verifies bearer tokens on /api/v1/me routes.
	TokenValidator middleware.TokenValidator

	// ReviewLimiter throttles review submissions per client IP.
	ReviewLimiter middleware.Limiter

	// AdminAllowedCIDRs restricts /api/v1/admin when non-empty.
	AdminAllowedCIDRs []string
	PprofAllowedCIDRs []string

	// Files, when set, is mounted at /media/* to serve uploaded files.
	Files http.Handler

	Health *health.Handler
}

// NewRouter creates a chi router with all vendor portal routes registered.
func NewRouter(svc Services, cfg RouterConfig, logger *slog.Logger) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.CORS(cfg.CORS))
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.RequestLogging(logger))
	r.Use(middleware.Tracing(cfg.ServiceName))
	r.Use(middleware.RequestLogger(logger))
	r.Use(middleware.PrometheusMetrics(cfg.ServiceName))

	// Health check endpoints
	r.Get("/health/live", cfg.Health.LivenessHandler())
	r.Get("/health/ready", cfg.Health.ReadinessHandler())
	r.Handle("/metrics", promhttp.Handler())
	middleware.RegisterPprof(r, cfg.PprofAllowedCIDRs, logger)

	if cfg.Files != nil {
		r.Handle("/media/*", cfg.Files)
	}

	authHandler := NewAuthHandler(svc.Auth, logger)
	vendorHandler := NewVendorHandler(svc.Vendors, logger)
	reviewHandler := NewReviewHandler(svc.Reviews, logger)
	productHandler := NewProductHandler(svc.Products, logger)
	uploadHandler := NewUploadHandler(svc.Media, logger)

	r.Route("/api/v1", func(r chi.Router) {
		// Auth endpoints (public)
		r.Route("/auth", func(r chi.Router) {
			r.Use(middleware.ContentTypeJSON)
			r.Post("/register", authHandler.Register)
			r.Post("/login", authHandler.Login)
		})

		// Public directory and reviews
		r.Route("/vendors", func(r chi.Router) {
			r.Get("/", vendorHandler.List)
			r.Get("/{id}", vendorHandler.Get)
			r.Get("/{id}/reviews", reviewHandler.List)
			r.With(
				middleware.ContentTypeJSON,
				middleware.RateLimit(cfg.ReviewLimiter, time.Minute, logger),
			).Post("/{id}/reviews", reviewHandler.Submit)
		})

		r.Route("/admin", func(r chi.Router) {
			if len(cfg.AdminAllowedCIDRs) > 0 {
				r.Use(middleware.IPAllowlist(cfg.AdminAllowedCIDRs, logger))
			}
			r.Get("/vendors", vendorHandler.AdminList)
		})

		// Vendor-scoped endpoints (auth required)
		r.Route("/me", func(r chi.Router) {
			r.Use(middleware.Auth(cfg.TokenValidator))
			r.Use(middleware.CacheControl("no-store"))

			r.Post("/uploads", uploadHandler.Upload)

			r.Group(func(r chi.Router) {
				r.Use(middleware.ContentTypeJSON)

				r.Get("/profile", vendorHandler.MyProfile)
				r.Put("/profile", vendorHandler.UpdateProfile)
				r.Put("/logo", vendorHandler.UpdateLogo)

				r.Get("/products", productHandler.List)
				r.Post("/products", productHandler.Create)
				r.Get("/products/{id}", productHandler.Get)
				r.Put("/products/{id}", productHandler.Update)
				r.Delete("/products/{id}", productHandler.Delete)
				r.Put("/products/{id}/image", productHandler.UpdateImage)
			})
		})
	})

	return r
}
