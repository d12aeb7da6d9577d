package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/solehaus/wholesale-backend/api/controllers"
	"github.com/solehaus/wholesale-backend/api/middleware"
	"github.com/solehaus/wholesale-backend/internal/auth"
	"github.com/solehaus/wholesale-backend/internal/listings"
	"github.com/solehaus/wholesale-backend/pkg/auth/session"
	"github.com/solehaus/wholesale-backend/pkg/config"
	"github.com/solehaus/wholesale-backend/pkg/db"
	"github.com/solehaus/wholesale-backend/pkg/logger"
	"github.com/solehaus/wholesale-backend/pkg/metrics"
)

// Params bundles what the router needs. RateStore, Redis, Gatherer and
// HTTPMetrics may be nil.
type Params struct {
	Config          *config.Config
	Logger          *logger.Logger
	DB              db.Pinger
	Redis           db.Pinger
	RateStore       middleware.RateLimiterStore
	BuyerCodec      *session.Codec
	AdminCodec      *session.Codec
	AuthService     auth.Service
	ListingsService listings.Service
	HTTPMetrics     *metrics.HTTPMetrics
	Gatherer        prometheus.Gatherer
}

func NewRouter(p Params) http.Handler {
	cfg, logg := p.Config, p.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.Metrics(p.HTTPMetrics),
		middleware.CORS(cfg.CORS.AllowedOrigins),
	)

	secure := cfg.Session.SecureCookies(cfg.App)
	buyerCookie := controllers.CookieSettings{MaxAge: p.BuyerCodec.MaxAge(), Secure: secure}
	adminCookie := controllers.CookieSettings{MaxAge: p.AdminCodec.MaxAge(), Secure: secure}

	buyerLoginPolicy := middleware.NewAuthRateLimitPolicy(
		"buyer_login",
		cfg.AuthRateLimit.LoginWindow,
		cfg.AuthRateLimit.LoginIPLimit,
		cfg.AuthRateLimit.LoginEmailLimit,
	)
	adminLoginPolicy := middleware.NewAuthRateLimitPolicy(
		"admin_login",
		cfg.AuthRateLimit.LoginWindow,
		cfg.AuthRateLimit.LoginIPLimit,
		0,
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, map[string]db.Pinger{
			"db":    p.DB,
			"redis": p.Redis,
		}))
	})
	if p.Gatherer != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(p.Gatherer, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.BuyerSession(p.BuyerCodec, logg))

		r.Route("/auth", func(r chi.Router) {
			r.With(middleware.AuthRateLimit(buyerLoginPolicy, p.RateStore, logg)).Post("/login", controllers.BuyerLogin(p.AuthService, buyerCookie, logg))
			r.Post("/logout", controllers.BuyerLogout(buyerCookie))
			r.With(middleware.RequireBuyer(logg)).Get("/me", controllers.BuyerMe(p.AuthService, logg))
		})

		r.Route("/listings", func(r chi.Router) {
			r.Get("/", controllers.ListListings(p.ListingsService, logg))
			r.Get("/{listingId}", controllers.GetListing(p.ListingsService, logg))
			r.With(middleware.RequireBuyer(logg)).Post("/{listingId}/quote", controllers.QuoteListing(p.ListingsService, logg))
		})
	})

	r.Route("/api/admin/v1", func(r chi.Router) {
		r.Use(middleware.AdminSession(p.AdminCodec, logg))

		r.Route("/auth", func(r chi.Router) {
			r.With(middleware.AuthRateLimit(adminLoginPolicy, p.RateStore, logg)).Post("/login", controllers.AdminLogin(p.AuthService, adminCookie, logg))
			r.Post("/logout", controllers.AdminLogout(adminCookie))
		})

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAdmin(logg))
			r.Put("/listings/{listingId}/pricing", controllers.AdminUpdatePricing(p.ListingsService, logg))
		})
	})

	return r
}
