package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/dmejorado/agentic-checkout/api/controllers"
	checkoutcontrollers "github.com/dmejorado/agentic-checkout/api/controllers/checkout"
	"github.com/dmejorado/agentic-checkout/api/middleware"
	"github.com/dmejorado/agentic-checkout/internal/session"
	"github.com/dmejorado/agentic-checkout/pkg/config"
	"github.com/dmejorado/agentic-checkout/pkg/logger"
)

// NewRouter assembles the full HTTP surface.
func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	sessionService session.Service,
	pingers map[string]controllers.Pinger,
) http.Handler {
	r := chi.NewRouter()

	r.Use(
		middleware.Recoverer(logg),
		middleware.HeaderEcho(logg),
		middleware.Logging(logg),
		middleware.CORS(cfg.App.CORSOrigins),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive())
		r.Get("/ready", controllers.HealthReady(logg, pingers))
	})

	r.Handle("/metrics", promhttp.Handler())

	r.Route("/checkout_sessions", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.Checkout.APIKey, logg))
		r.Post("/", checkoutcontrollers.Create(sessionService, logg))
		r.Route("/{checkout_session_id}", func(r chi.Router) {
			r.Get("/", checkoutcontrollers.Get(sessionService, logg))
			r.Post("/", checkoutcontrollers.Update(sessionService, logg))
			r.Post("/cancel", checkoutcontrollers.Cancel(sessionService, logg))
			r.Post("/complete", checkoutcontrollers.Complete(sessionService, logg))
		})
	})

	return r
}
