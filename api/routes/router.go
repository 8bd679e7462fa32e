package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/angelmondragon/carpenter-backend/api/controllers"
	quotationcontrollers "github.com/angelmondragon/carpenter-backend/api/controllers/quotation"
	"github.com/angelmondragon/carpenter-backend/api/middleware"
	"github.com/angelmondragon/carpenter-backend/internal/auth"
	"github.com/angelmondragon/carpenter-backend/internal/catalog"
	"github.com/angelmondragon/carpenter-backend/internal/contact"
	"github.com/angelmondragon/carpenter-backend/internal/content"
	"github.com/angelmondragon/carpenter-backend/internal/quotation"
	"github.com/angelmondragon/carpenter-backend/pkg/config"
	"github.com/angelmondragon/carpenter-backend/pkg/db"
	"github.com/angelmondragon/carpenter-backend/pkg/logger"
	"github.com/angelmondragon/carpenter-backend/pkg/metrics"
	"github.com/angelmondragon/carpenter-backend/pkg/redis"
)

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	httpMetrics *metrics.HTTPMetrics,
	gatherer prometheus.Gatherer,
	dbP db.Pinger,
	redisClient *redis.Client,
	catalogService catalog.Service,
	contentService content.Service,
	cartService quotation.Carts,
	quotationService quotation.Submitter,
	contactService contact.Service,
	authService auth.Service,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.RequestID(logg),
		middleware.Recoverer(logg),
		middleware.Logging(logg, httpMetrics),
		middleware.CORS(cfg.CORS.AllowedOrigins),
	)

	// a nil *redis.Client inside an interface is not nil, so disabled Redis
	// is passed down as untyped nil
	var (
		redisPinger controllers.Pinger
		rateStore   middleware.RateLimiterStore
		idemStore   middleware.IdempotencyStore
	)
	if redisClient != nil {
		redisPinger, rateStore, idemStore = redisClient, redisClient, redisClient
	}

	submissionPolicy := middleware.NewRateLimitPolicy(
		"submission",
		cfg.RateLimit.SubmissionWindow,
		cfg.RateLimit.SubmissionIPLimit,
		0,
	).WithMessageBody()
	loginPolicy := middleware.NewRateLimitPolicy(
		"login",
		cfg.RateLimit.LoginWindow,
		cfg.RateLimit.LoginIPLimit,
		cfg.RateLimit.LoginEmailLimit,
	)
	submissionIdempotency := middleware.Idempotency(idemStore, middleware.IdempotencyOptions{
		TTL:         cfg.RateLimit.IdempotencyTTL,
		MessageBody: true,
	}, logg)
	adminIdempotency := middleware.Idempotency(idemStore, middleware.IdempotencyOptions{
		TTL: cfg.RateLimit.IdempotencyTTL,
	}, logg)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, dbP, redisPinger))
	})
	r.Handle("/metrics", metrics.Handler(gatherer))

	r.Get("/pages/{slug}", controllers.RenderPage(contentService, logg))

	r.Route("/api", func(r chi.Router) {
		r.Get("/public/products", controllers.ListProducts(catalogService, cfg.Catalog, logg))
		r.Get("/categories", controllers.ListCategories(catalogService, cfg.Catalog, logg))
		r.Route("/products/{id}", func(r chi.Router) {
			r.Get("/", controllers.GetProduct(catalogService, cfg.Catalog, logg))
			r.With(middleware.AdminAuth(cfg.JWT, logg)).Patch("/", controllers.PatchProduct(catalogService, logg))
		})

		r.Get("/pages/{slug}", controllers.GetPage(contentService, cfg.Catalog, logg))
		r.Get("/globals/{slug}", controllers.GetGlobal(contentService, cfg.Catalog, logg))

		r.Group(func(r chi.Router) {
			r.Use(middleware.RateLimit(submissionPolicy, rateStore, logg))
			r.Use(submissionIdempotency)
			r.Post("/quotation", controllers.SubmitQuotation(quotationService, logg))
			r.Post("/contact", controllers.SubmitContact(contactService, logg))
		})

		r.Route("/v1/quotation/{cartId}", func(r chi.Router) {
			r.Get("/", quotationcontrollers.GetCart(cartService, logg))
			r.Delete("/", quotationcontrollers.ClearCart(cartService, logg))
			r.Post("/items", quotationcontrollers.AddItem(cartService, logg))
			r.Patch("/items/{lineId}", quotationcontrollers.UpdateItem(cartService, logg))
			r.Delete("/items/{lineId}", quotationcontrollers.RemoveItem(cartService, logg))
		})

		r.Route("/admin", func(r chi.Router) {
			r.With(middleware.RateLimit(loginPolicy, rateStore, logg)).Post("/login", controllers.AdminLogin(authService, logg))

			r.Group(func(r chi.Router) {
				r.Use(middleware.AdminAuth(cfg.JWT, logg))
				r.Use(adminIdempotency)
				r.Post("/products", controllers.AdminCreateProduct(catalogService, logg))
				r.Patch("/products/{id}", controllers.PatchProduct(catalogService, logg))
				r.Post("/categories", controllers.AdminCreateCategory(catalogService, logg))
				r.Post("/media", controllers.AdminCreateMedia(catalogService, logg))
				r.Get("/pages", controllers.ListPages(contentService, logg))
				r.Put("/pages/{slug}", controllers.AdminPutPage(contentService, logg))
				r.Put("/globals/{slug}", controllers.AdminPutGlobal(contentService, logg))
			})
		})
	})

	return r
}
