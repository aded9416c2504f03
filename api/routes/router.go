package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/dmarquezf/bazaar-backend/api/controllers"
	"github.com/dmarquezf/bazaar-backend/api/middleware"
	"github.com/dmarquezf/bazaar-backend/internal/auth"
	cartsvc "github.com/dmarquezf/bazaar-backend/internal/cart"
	checkoutsvc "github.com/dmarquezf/bazaar-backend/internal/checkout"
	ordersvc "github.com/dmarquezf/bazaar-backend/internal/orders"
	productsvc "github.com/dmarquezf/bazaar-backend/internal/products"
	usersvc "github.com/dmarquezf/bazaar-backend/internal/users"
	vendorsvc "github.com/dmarquezf/bazaar-backend/internal/vendors"
	"github.com/dmarquezf/bazaar-backend/pkg/config"
	"github.com/dmarquezf/bazaar-backend/pkg/db"
	"github.com/dmarquezf/bazaar-backend/pkg/logger"
	"github.com/dmarquezf/bazaar-backend/pkg/metrics"
	"github.com/dmarquezf/bazaar-backend/pkg/redis"
	"github.com/dmarquezf/bazaar-backend/pkg/token"
)

// RouterParams bundles everything the HTTP surface depends on.
type RouterParams struct {
	Config      *config.Config
	Logger      *logger.Logger
	DB          *db.Client
	Redis       *redis.Client
	Tokens      *token.Store
	HTTPMetrics *metrics.HTTPMetrics
	Registry    prometheus.Gatherer

	Auth     auth.Service
	Users    usersvc.Service
	Vendors  vendorsvc.Service
	Products productsvc.Service
	Cart     cartsvc.Service
	Orders   ordersvc.Service
	Checkout checkoutsvc.Service
}

func NewRouter(p RouterParams) http.Handler {
	r := chi.NewRouter()

	r.Use(
		middleware.Recoverer(p.Logger),
		middleware.RequestID(p.Logger),
		middleware.Logging(p.Logger, p.HTTPMetrics),
		middleware.CORS(),
	)

	requireToken := middleware.Auth(p.Tokens, p.Logger)
	requireUser := middleware.RequireUser(p.Logger)
	requireVendor := middleware.RequireVendor(p.Logger)

	r.Get("/status", controllers.Status(p.Config, p.DB, p.Redis, p.Logger))
	r.Get("/stats", controllers.Stats(p.DB, p.Logger))

	if p.Registry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(p.Registry, promhttp.HandlerOpts{}))
	}

	r.With(middleware.ConnectRateLimit(p.Config.AuthRateLimit, p.Redis, p.Logger)).
		Get("/connect", controllers.Connect(p.Auth, p.Logger))
	r.With(requireToken).Get("/disconnect", controllers.Disconnect(p.Auth, p.Logger))

	r.Route("/users", func(r chi.Router) {
		r.Post("/", controllers.RegisterUser(p.Users, p.Logger))

		r.Group(func(r chi.Router) {
			r.Use(requireToken, requireUser)
			r.Get("/me", controllers.CurrentUser(p.Users, p.Logger))
			r.Post("/cart", controllers.AddCartItem(p.Cart, p.Logger))
			r.Delete("/cart/{productId}", controllers.RemoveCartItem(p.Cart, p.Logger))
			r.Get("/cart/checkout", controllers.CheckoutView(p.Cart, p.Logger))
			r.Post("/orders", controllers.CommitOrder(p.Checkout, p.Logger))
			r.Get("/orders", controllers.ListUserOrders(p.Orders, p.Logger))
			r.Get("/deliveries", controllers.ListUserDeliveries(p.Orders, p.Logger))
		})
	})

	r.Route("/vendors", func(r chi.Router) {
		r.Get("/", controllers.ListVendors(p.Vendors, p.Logger))
		r.Post("/", controllers.RegisterVendor(p.Vendors, p.Logger))

		r.Group(func(r chi.Router) {
			r.Use(requireToken, requireVendor)
			r.Get("/me", controllers.CurrentVendor(p.Vendors, p.Logger))
			r.Post("/products", controllers.VendorCreateProduct(p.Products, p.Logger))
			r.Get("/products", controllers.VendorListProducts(p.Products, p.Logger))
			r.Put("/products/{id}", controllers.VendorUpdateProduct(p.Products, p.Logger))
			r.Delete("/products/{id}", controllers.VendorDeleteProduct(p.Products, p.Logger))
			r.Get("/deliveries", controllers.ListVendorDeliveries(p.Orders, p.Logger))
		})
	})

	r.Route("/products", func(r chi.Router) {
		r.Get("/", controllers.ListProducts(p.Products, p.Logger))
		r.Get("/{id}", controllers.GetProduct(p.Products, p.Logger))
	})

	return r
}
