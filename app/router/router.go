package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"storefront-orders/app/controller"
)

type Controllers struct {
	Health   *controller.HealthController
	Cart     *controller.CartController
	Checkout *controller.CheckoutController
	Order    *controller.OrderController
}

// Options configures the middleware stack
type Options struct {
	JWTSecret string
	// RequestLogging enables chi's access log; tests keep it off
	RequestLogging bool
}

// New builds the HTTP handler for the storefront API
func New(controllers *Controllers, opts Options, logger *zap.SugaredLogger) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	if opts.RequestLogging {
		r.Use(middleware.Logger)
	}
	r.Use(middleware.Recoverer)

	// Ping endpoint
	r.Get("/ping", controllers.Health.Ping)

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", controllers.Health.Health)

		// Sync feed authenticates with its own token
		r.Get("/sync/orders", controllers.Order.SyncOrders)

		r.Group(func(r chi.Router) {
			r.Use(controller.AuthMiddleware(opts.JWTSecret, logger))

			r.Route("/cart", func(r chi.Router) {
				r.Get("/", controllers.Cart.GetCart)
				r.Get("/total", controllers.Cart.Total)
				r.Post("/add", controllers.Cart.Add)
				r.Post("/update", controllers.Cart.Update)
				r.Post("/remove", controllers.Cart.Remove)
				r.Post("/clear", controllers.Cart.Clear)
			})

			r.Post("/checkout", controllers.Checkout.Checkout)

			r.Get("/orders", controllers.Order.ListOrders)
			r.Get("/orders/{orderID}", controllers.Order.GetOrder)
		})
	})

	return r
}
