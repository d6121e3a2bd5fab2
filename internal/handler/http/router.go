package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/screenhall/web/internal/backend"
	"github.com/screenhall/web/internal/notify"
	"github.com/screenhall/web/internal/proxy"
	"github.com/screenhall/web/internal/service"
	"github.com/screenhall/web/pkg/health"
	"github.com/screenhall/web/pkg/middleware"
)

// RouterDeps bundles everything the router wires together.
type RouterDeps struct {
	Checkout      *service.CheckoutService
	Backend       *backend.Client
	Poller        *notify.Poller
	AdminProxy    *proxy.AdminProxy
	HealthHandler *health.Handler
	Logger        *slog.Logger
	JWTSecret     string
	CookieMaxAge  time.Duration
	SecureCookies bool
	CORS          middleware.CORSConfig
}

// NewRouter creates the chi router with all routes registered.
func NewRouter(deps RouterDeps) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.Recovery(deps.Logger))
	r.Use(chimw.Compress(5))
	r.Use(chimw.Timeout(30 * time.Second))
	r.Use(middleware.CORS(deps.CORS))
	r.Use(middleware.RequestLogging(deps.Logger))
	r.Use(middleware.PrometheusMetrics("web"))
	r.Use(middleware.Tracing("web"))
	r.Use(middleware.RequestLogger(deps.Logger))
	r.Use(middleware.OptionalAuth(deps.JWTSecret))

	// Health check endpoints
	r.Get("/health/live", deps.HealthHandler.LivenessHandler())
	r.Get("/health/ready", deps.HealthHandler.ReadinessHandler())
	r.Get("/metrics", func(w http.ResponseWriter, r *http.Request) {
		promhttp.Handler().ServeHTTP(w, r)
	})

	checkoutHandler := NewCheckoutHandler(deps.Checkout, deps.Logger)
	catalogHandler := NewCatalogHandler(deps.Backend, deps.Poller, deps.Logger)
	authHandler := NewAuthHandler(deps.Backend, deps.CookieMaxAge, deps.SecureCookies, deps.Logger)
	bookingsHandler := NewBookingsHandler(deps.Backend, deps.Logger)
	notificationsHandler := NewNotificationsHandler(deps.Backend, deps.Poller, deps.Logger)

	// Browse surfaces are public and cacheable.
	r.Group(func(r chi.Router) {
		r.Use(middleware.CacheControl(60))

		r.Get("/api/v1/home", catalogHandler.Home)
		r.Get("/api/v1/movies", catalogHandler.ListMovies)
		r.Get("/api/v1/movies/{movieId}", catalogHandler.GetMovie)
		r.Get("/api/v1/cinemas", catalogHandler.ListCinemas)
		r.Get("/api/v1/showtimes", catalogHandler.ListShowtimes)
		r.Get("/api/v1/concessions", catalogHandler.ListConcessions)
		r.Get("/api/v1/promotions", catalogHandler.ListPromotions)
	})

	r.Get("/api/v1/status", notificationsHandler.Status)

	// Auth
	r.Route("/api/v1/auth", func(r chi.Router) {
		r.Use(ContentTypeJSON)

		r.Post("/login", authHandler.Login)
		r.Post("/register", authHandler.Register)
		r.Post("/logout", authHandler.Logout)
		r.Get("/me", authHandler.Me)
	})

	// Checkout wizard. The session itself is anonymous; only Confirm
	// demands an authenticated caller, and it handles that itself so it
	// can reply with a login redirect hint instead of the bare 401.
	r.Route("/api/v1/checkout", func(r chi.Router) {
		r.Use(ContentTypeJSON)

		r.Post("/", checkoutHandler.Start)
		r.Get("/{sessionId}", checkoutHandler.Get)
		r.Delete("/{sessionId}", checkoutHandler.Abandon)

		r.Post("/{sessionId}/seats/{seatId}", checkoutHandler.ToggleSeat)
		r.Post("/{sessionId}/concessions", checkoutHandler.AddConcession)
		r.Delete("/{sessionId}/concessions/{concessionId}", checkoutHandler.RemoveConcession)
		r.Put("/{sessionId}/promotion", checkoutHandler.SelectPromotion)
		r.Post("/{sessionId}/continue", checkoutHandler.Continue)
		r.Post("/{sessionId}/back", checkoutHandler.Back)
		r.Post("/{sessionId}/confirm", checkoutHandler.Confirm)
	})

	// Authenticated user surfaces
	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth())

		r.Get("/api/v1/bookings", bookingsHandler.List)
		r.Get("/api/v1/bookings/{bookingId}", bookingsHandler.Get)
		r.Get("/api/v1/bookings/{bookingId}/qr", bookingsHandler.QRCode)
		r.Get("/api/v1/notifications", notificationsHandler.List)
	})

	// Admin back-office proxied straight to the backend.
	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth())
		r.Use(middleware.RequireRole("admin"))

		r.Handle("/api/v1/admin/*", deps.AdminProxy)
	})

	return r
}
