package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/minsukoh/vesture-backend/api/controllers"
	"github.com/minsukoh/vesture-backend/api/middleware"
	"github.com/minsukoh/vesture-backend/internal/cart"
	"github.com/minsukoh/vesture-backend/internal/orders"
	"github.com/minsukoh/vesture-backend/internal/payments"
	"github.com/minsukoh/vesture-backend/internal/users"
	"github.com/minsukoh/vesture-backend/pkg/config"
	"github.com/minsukoh/vesture-backend/pkg/logger"
	"github.com/minsukoh/vesture-backend/pkg/redis"
)

// Deps carries everything the router wires into handlers.
type Deps struct {
	Config      *config.Config
	Logger      *logger.Logger
	Redis       *redis.Client
	Registry    *prometheus.Registry
	Directory   users.Directory
	CartService cart.Service
	Orders      orders.Service
	Payments    payments.Service
	Readiness   map[string]controllers.Pinger
}

func NewRouter(deps Deps) http.Handler {
	cfg := deps.Config
	logg := deps.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, deps.Readiness))
	})

	if deps.Registry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(deps.Registry, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, deps.Directory, logg))
		if deps.Redis != nil {
			r.Use(middleware.Idempotency(deps.Redis, logg))
		}

		r.Route("/cart", func(r chi.Router) {
			r.Get("/", controllers.CartList(deps.CartService, logg))
			r.Post("/", controllers.CartAdd(deps.CartService, logg))
			r.Patch("/{lineId}", controllers.CartUpdateQuantity(deps.CartService, logg))
			r.Delete("/{lineId}", controllers.CartRemove(deps.CartService, logg))
			r.Post("/remove-by-options", controllers.CartRemoveByOptions(deps.CartService, logg))
		})

		paymentPolicy := middleware.NewRateLimitPolicy(
			"payment",
			cfg.RateLimit.PaymentWindow,
			cfg.RateLimit.PaymentIPLimit,
			cfg.RateLimit.PaymentUserLimit,
		)
		r.Route("/payments", func(r chi.Router) {
			if deps.Redis != nil {
				r.Use(middleware.RateLimit(paymentPolicy, deps.Redis, logg))
			}
			r.Post("/ready", controllers.PaymentReady(deps.Payments, logg))
			r.Post("/complete", controllers.PaymentComplete(deps.Payments, logg))
		})

		r.Route("/orders", func(r chi.Router) {
			r.Get("/", controllers.OrdersList(deps.Orders, logg))
			r.Get("/{orderUid}", controllers.OrderDetail(deps.Orders, logg))
		})
	})

	return r
}
