package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/angelmondragon/storefront-core/api/controllers"
	"github.com/angelmondragon/storefront-core/api/middleware"
	"github.com/angelmondragon/storefront-core/pkg/config"
	"github.com/angelmondragon/storefront-core/pkg/logger"
	"github.com/angelmondragon/storefront-core/pkg/store"
)

// Dependencies bundles what the router mounts.
type Dependencies struct {
	Config   *config.Config
	Logger   *logger.Logger
	Shell    controllers.Shell
	Gatherer prometheus.Gatherer
	Ready    map[string]store.Pinger
}

func NewRouter(deps Dependencies) http.Handler {
	cfg := deps.Config
	logg := deps.Logger
	shell := deps.Shell

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, deps.Ready))
	})

	if deps.Gatherer != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(deps.Gatherer, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Identity(shell, logg))

		r.Route("/cart", func(r chi.Router) {
			r.Get("/", controllers.CartFetch(shell))
			r.Delete("/", controllers.CartClear(shell))
			r.Post("/items", controllers.CartAddItem(shell, logg))
			r.Patch("/items/{productId}", controllers.CartUpdateItem(shell, logg))
			r.Delete("/items/{productId}", controllers.CartRemoveItem(shell))
		})

		r.Route("/session", func(r chi.Router) {
			r.Get("/", controllers.SessionCurrent(shell))
			r.Delete("/", controllers.SessionLogout(shell))
			r.Post("/login", controllers.SessionLogin(shell, logg))
		})

		r.Get("/guard", controllers.GuardCheck(shell, logg))
		r.Post("/checkout", controllers.CheckoutComplete(shell, logg))
		r.Get("/orders", controllers.OrdersList(shell, logg))

		r.With(middleware.RequireView(shell, "admin/dashboard", logg)).
			Get("/admin/dashboard", controllers.AdminDashboard(shell, logg))
		r.With(middleware.RequireView(shell, "user/dashboard", logg)).
			Get("/user/dashboard", controllers.UserDashboard(shell, logg))
	})

	return r
}
