package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/angelmondragon/ferremas-backend/api/controllers"
	"github.com/angelmondragon/ferremas-backend/api/middleware"
	"github.com/angelmondragon/ferremas-backend/internal/auth"
	"github.com/angelmondragon/ferremas-backend/internal/cart"
	"github.com/angelmondragon/ferremas-backend/internal/checkout"
	"github.com/angelmondragon/ferremas-backend/internal/dispatch"
	"github.com/angelmondragon/ferremas-backend/internal/inventory"
	"github.com/angelmondragon/ferremas-backend/internal/payments"
	"github.com/angelmondragon/ferremas-backend/internal/receipts"
	"github.com/angelmondragon/ferremas-backend/internal/sales"
	"github.com/angelmondragon/ferremas-backend/internal/sucursales"
	"github.com/angelmondragon/ferremas-backend/internal/users"
	"github.com/angelmondragon/ferremas-backend/pkg/config"
	"github.com/angelmondragon/ferremas-backend/pkg/enums"
	"github.com/angelmondragon/ferremas-backend/pkg/logger"
	"github.com/angelmondragon/ferremas-backend/pkg/metrics"
	pkgredis "github.com/angelmondragon/ferremas-backend/pkg/redis"
)

// Dependencies carries everything the router binds to a route. Nil stores
// disable rate limiting and idempotency.
type Dependencies struct {
	DB          controllers.Pinger
	Redis       controllers.Pinger
	RateLimits  middleware.RateLimitStore
	Idempotency pkgredis.IdempotencyStore
	HTTPMetrics *metrics.HTTPMetrics
	Gatherer    prometheus.Gatherer

	Auth       auth.Service
	Users      users.Service
	Inventory  inventory.Service
	Sales      sales.Service
	Cart       cart.Service
	Checkout   checkout.Service
	Dispatch   dispatch.Service
	Payments   payments.Service
	Sucursales sucursales.Service
	Receipts   receipts.Service
}

func NewRouter(cfg *config.Config, logg *logger.Logger, deps Dependencies) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.Metrics(deps.HTTPMetrics),
		middleware.CORS(cfg.HTTP.AllowedOrigins),
	)

	loginPolicy := middleware.NewAuthRateLimitPolicy(
		"login",
		cfg.AuthRateLimit.LoginWindow,
		cfg.AuthRateLimit.LoginIPLimit,
		cfg.AuthRateLimit.LoginEmailLimit,
	)
	registerPolicy := middleware.NewAuthRateLimitPolicy(
		"register",
		cfg.AuthRateLimit.RegisterWindow,
		cfg.AuthRateLimit.RegisterIPLimit,
		cfg.AuthRateLimit.RegisterEmailLimit,
	)

	authenticated := middleware.Auth(deps.Auth, logg)
	idempotent := middleware.Idempotency(deps.Idempotency, logg)
	requireRole := func(roles ...enums.Role) func(http.Handler) http.Handler {
		return middleware.RequireRole(logg, roles...)
	}

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, map[string]controllers.Pinger{
			"db":    deps.DB,
			"redis": deps.Redis,
		}))
	})
	r.Handle("/metrics", metrics.Handler(deps.Gatherer))

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.With(middleware.AuthRateLimit(loginPolicy, deps.RateLimits, logg)).Post("/token", controllers.AuthToken(deps.Auth, logg))
			r.Post("/refresh", controllers.AuthRefresh(deps.Auth, logg))
			r.Post("/logout", controllers.AuthLogout(deps.Auth, logg))
			r.With(authenticated).Get("/me", controllers.Me(logg))
		})

		r.Route("/users", func(r chi.Router) {
			r.With(middleware.AuthRateLimit(registerPolicy, deps.RateLimits, logg)).
				Post("/", controllers.UsersRegister(deps.Users, logg))

			r.Group(func(r chi.Router) {
				r.Use(authenticated)
				r.Get("/me", controllers.Me(logg))
				r.Get("/", controllers.UsersList(deps.Users, logg))
				r.Get("/{userId}", controllers.UsersGet(deps.Users, logg))
				r.Put("/{userId}", controllers.UsersUpdate(deps.Users, logg))
				r.Delete("/{userId}", controllers.UsersDelete(deps.Users, logg))
			})
		})

		r.Route("/inventory", func(r chi.Router) {
			r.Get("/", controllers.InventoryList(deps.Inventory, logg))
			r.Get("/{itemId}", controllers.InventoryGet(deps.Inventory, logg))

			r.Group(func(r chi.Router) {
				r.Use(authenticated, requireRole(enums.RoleBodega))
				r.Post("/", controllers.InventoryCreate(deps.Inventory, logg))
				r.Put("/{itemId}", controllers.InventoryUpdate(deps.Inventory, logg))
				r.Delete("/{itemId}", controllers.InventoryWithdraw(deps.Inventory, logg))
			})
		})

		r.Route("/sales", func(r chi.Router) {
			r.Get("/", controllers.SalesList(deps.Sales, logg))
			r.Get("/{saleId}", controllers.SalesGet(deps.Sales, logg))

			r.Group(func(r chi.Router) {
				r.Use(authenticated, requireRole(enums.RoleVendedor))
				r.Post("/", controllers.SalesCreate(deps.Sales, logg))
				r.Put("/{saleId}", controllers.SalesUpdate(deps.Sales, logg))
				r.Delete("/{saleId}", controllers.SalesDelete(deps.Sales, logg))
			})
		})

		r.Route("/cart", func(r chi.Router) {
			r.Use(authenticated, requireRole(enums.RoleCliente))
			r.Get("/", controllers.CartList(deps.Cart, logg))
			r.Post("/", controllers.CartAdd(deps.Cart, logg))
			r.Delete("/", controllers.CartClear(deps.Cart, logg))
			r.Get("/summary", controllers.CartSummary(deps.Cart, logg))
			r.Patch("/{cartItemId}", controllers.CartUpdateQuantity(deps.Cart, logg))
			r.Delete("/{cartItemId}", controllers.CartRemove(deps.Cart, logg))
		})

		r.Route("/checkout", func(r chi.Router) {
			r.Use(authenticated, requireRole(enums.RoleCliente))
			r.With(idempotent).Post("/", controllers.CheckoutStart(deps.Checkout, logg))
			r.With(idempotent).Post("/confirm", controllers.CheckoutConfirm(deps.Checkout, logg))
		})

		r.Route("/dispatch", func(r chi.Router) {
			r.Use(authenticated, requireRole(enums.RoleCliente))
			r.Post("/", controllers.DispatchCreate(deps.Dispatch, logg))
			r.Get("/", controllers.DispatchList(deps.Dispatch, logg))
			r.Get("/{dispatchId}", controllers.DispatchGet(deps.Dispatch, logg))
			r.Put("/{dispatchId}", controllers.DispatchUpdate(deps.Dispatch, logg))
			r.Delete("/{dispatchId}", controllers.DispatchDelete(deps.Dispatch, logg))
		})

		r.Route("/payments", func(r chi.Router) {
			r.Use(authenticated)
			r.Get("/{paymentId}", controllers.PaymentsGet(deps.Payments, logg))

			r.Group(func(r chi.Router) {
				r.Use(requireRole(enums.RoleCliente))
				r.With(idempotent).Post("/", controllers.PaymentsCreate(deps.Payments, logg))
				r.Get("/", controllers.PaymentsList(deps.Payments, logg))
			})
		})

		r.Route("/sucursales", func(r chi.Router) {
			r.Use(authenticated, requireRole(enums.RoleAdministrador))
			r.Post("/", controllers.SucursalesCreate(deps.Sucursales, logg))
			r.Get("/", controllers.SucursalesList(deps.Sucursales, logg))
			r.Get("/{sucursalId}", controllers.SucursalesGet(deps.Sucursales, logg))
			r.Put("/{sucursalId}", controllers.SucursalesUpdate(deps.Sucursales, logg))
			r.Delete("/{sucursalId}", controllers.SucursalesDelete(deps.Sucursales, logg))
		})

		r.Route("/receipts", func(r chi.Router) {
			r.Use(authenticated, requireRole(enums.RoleCliente))
			r.Get("/", controllers.ReceiptsList(deps.Receipts, logg))
			r.Get("/{boletaId}", controllers.ReceiptsGet(deps.Receipts, logg))
		})
	})

	return r
}
