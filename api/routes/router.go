package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/casatienda/storefront-backend/api/controllers"
	"github.com/casatienda/storefront-backend/api/middleware"
	"github.com/casatienda/storefront-backend/internal/affiliate"
	"github.com/casatienda/storefront-backend/internal/auth"
	"github.com/casatienda/storefront-backend/internal/buttons"
	"github.com/casatienda/storefront-backend/internal/orders"
	product "github.com/casatienda/storefront-backend/internal/products"
	"github.com/casatienda/storefront-backend/pkg/auth/session"
	"github.com/casatienda/storefront-backend/pkg/config"
	"github.com/casatienda/storefront-backend/pkg/logger"
)

// Deps bundles everything the router wires into handlers.
type Deps struct {
	Config   *config.Config
	Logger   *logger.Logger
	Database controllers.Pinger
	Cache    controllers.Pinger
	Sessions session.AccessSessionChecker
	Registry *prometheus.Registry

	AuthService      auth.Service
	ProductService   product.Service
	OrderService     orders.Service
	AffiliateService affiliate.Service
	ButtonService    buttons.Service
}

func NewRouter(deps Deps) http.Handler {
	cfg := deps.Config
	logg := deps.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, deps.Database, deps.Cache))
	})

	if deps.Registry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(deps.Registry, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", controllers.AuthRegister(deps.AuthService, logg))
			r.Post("/login", controllers.AuthLogin(deps.AuthService, logg))
			r.Post("/refresh", controllers.AuthRefresh(deps.AuthService, logg))
			r.With(middleware.Auth(cfg.JWT, deps.Sessions, logg)).
				Post("/logout", controllers.AuthLogout(deps.AuthService, logg))
		})

		r.Route("/products", func(r chi.Router) {
			r.Get("/", controllers.PublicListProducts(deps.ProductService, logg))
			r.Get("/{productId}", controllers.PublicGetProduct(deps.ProductService, logg))
		})
		r.Get("/buttons", controllers.PublicListButtons(deps.ButtonService, logg))

		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(cfg.JWT, deps.Sessions, logg))

			r.Route("/orders", func(r chi.Router) {
				r.Post("/", controllers.SubmitOrder(deps.OrderService, logg))
				r.Get("/", controllers.MyOrders(deps.OrderService, logg))
				r.Get("/{orderId}", controllers.OrderDetail(deps.OrderService, logg))
			})

			r.Route("/affiliate", func(r chi.Router) {
				r.Get("/stats", controllers.AffiliateDashboard(deps.AffiliateService, cfg.App.PublicBaseURL, logg))
				r.Get("/referrals", controllers.MyReferrals(deps.AffiliateService, logg))
			})
		})
	})

	r.Route("/api/admin/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, deps.Sessions, logg))
		r.Use(middleware.RequireRole("admin", logg))

		r.Route("/products", func(r chi.Router) {
			r.Get("/", controllers.AdminListProducts(deps.ProductService, logg))
			r.Post("/", controllers.AdminCreateProduct(deps.ProductService, logg))
			r.Patch("/{productId}", controllers.AdminUpdateProduct(deps.ProductService, logg))
			r.Delete("/{productId}", controllers.AdminDeleteProduct(deps.ProductService, logg))
		})

		r.Route("/referrals", func(r chi.Router) {
			r.Get("/", controllers.AdminListReferrals(deps.AffiliateService, logg))
			r.Patch("/{referralId}/status", controllers.AdminUpdateReferralStatus(deps.AffiliateService, logg))
		})

		r.Route("/buttons", func(r chi.Router) {
			r.Get("/", controllers.AdminListButtons(deps.ButtonService, logg))
			r.Post("/", controllers.AdminCreateButton(deps.ButtonService, logg))
			r.Patch("/{buttonId}", controllers.AdminUpdateButton(deps.ButtonService, logg))
			r.Delete("/{buttonId}", controllers.AdminDeleteButton(deps.ButtonService, logg))
		})

		r.Get("/orders/{orderId}", controllers.OrderDetail(deps.OrderService, logg))
	})

	return r
}
