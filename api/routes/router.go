package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/angelmondragon/bazaar-backend/api/controllers"
	"github.com/angelmondragon/bazaar-backend/api/middleware"
	"github.com/angelmondragon/bazaar-backend/internal/bundles"
	"github.com/angelmondragon/bazaar-backend/internal/catalog"
	checkoutsvc "github.com/angelmondragon/bazaar-backend/internal/checkout"
	"github.com/angelmondragon/bazaar-backend/internal/identity"
	"github.com/angelmondragon/bazaar-backend/pkg/config"
	"github.com/angelmondragon/bazaar-backend/pkg/logger"
	"github.com/angelmondragon/bazaar-backend/pkg/metrics"
)

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	metricsHandler http.Handler,
	httpMetrics *metrics.HTTPMetrics,
	storage controllers.Pinger,
	cat *catalog.Catalog,
	carts controllers.CartProvider,
	builder *bundles.Builder,
	checkoutService checkoutsvc.Service,
	identityService identity.Service,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.AccessLog(logg, httpMetrics),
		middleware.CORS(cfg.CORS.AllowedOrigins),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, storage, logg))
	})

	if metricsHandler != nil {
		r.Method(http.MethodGet, "/metrics", metricsHandler)
	}

	r.Route("/api/v1/catalog", func(r chi.Router) {
		r.Get("/products", controllers.CatalogProducts(cat, logg))
		r.Get("/products/{productId}", controllers.CatalogProduct(cat, logg))
		r.Get("/bundles", controllers.CatalogBundles(cat, logg))
		r.Get("/bundles/{bundleId}", controllers.CatalogBundle(cat, logg))
		r.Get("/facets", controllers.CatalogFacets(cat, logg))
	})

	r.Group(func(r chi.Router) {
		r.Use(middleware.CartSession(logg))

		r.Route("/api/v1/cart", func(r chi.Router) {
			r.Get("/", controllers.CartGet(carts, logg))
			r.Delete("/", controllers.CartClear(carts, logg))
			r.Post("/items", controllers.CartAddItem(carts, cat, logg))
			r.Patch("/items/{kind}/{itemId}", controllers.CartUpdateItem(carts, logg))
			r.Delete("/items/{kind}/{itemId}", controllers.CartRemoveItem(carts, logg))
		})

		r.Route("/api/v1/bundle-builder", func(r chi.Router) {
			r.Get("/", controllers.BundleBuilderView(builder, logg))
			r.Patch("/", controllers.BundleBuilderRename(builder, logg))
			r.Post("/products", controllers.BundleBuilderAddProduct(builder, logg))
			r.Delete("/products/{productId}", controllers.BundleBuilderRemoveProduct(builder, logg))
			r.Post("/commit", controllers.BundleBuilderCommit(builder, carts, logg))
		})

		r.Route("/api/v1/checkout", func(r chi.Router) {
			r.Get("/summary", controllers.CheckoutSummary(checkoutService, logg))
			r.Post("/", controllers.CheckoutSubmit(checkoutService, logg))
		})
	})

	r.Route("/api/v1/auth", func(r chi.Router) {
		r.Post("/login", controllers.AuthLogin(identityService, logg))
		r.Post("/signup", controllers.AuthSignup(identityService, logg))
		r.With(middleware.Auth(cfg.JWT, logg)).Get("/me", controllers.AuthMe())
	})

	return r
}
