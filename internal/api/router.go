package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/nikhilbhutani/storefront/internal/api/handlers"
	"github.com/nikhilbhutani/storefront/internal/api/middleware"
	"github.com/nikhilbhutani/storefront/internal/audit"
	"github.com/nikhilbhutani/storefront/internal/auth"
	"github.com/nikhilbhutani/storefront/internal/cache"
	"github.com/nikhilbhutani/storefront/internal/cart"
	"github.com/nikhilbhutani/storefront/internal/catalog"
	"github.com/nikhilbhutani/storefront/internal/checkout"
	"github.com/nikhilbhutani/storefront/internal/config"
	"github.com/nikhilbhutani/storefront/internal/identity"
	"github.com/nikhilbhutani/storefront/internal/models"
	"github.com/nikhilbhutani/storefront/internal/order"
	"github.com/nikhilbhutani/storefront/internal/payment"
	"github.com/nikhilbhutani/storefront/internal/pricing"
	"github.com/nikhilbhutani/storefront/internal/queue"
	"github.com/nikhilbhutani/storefront/internal/tenant"
	"github.com/nikhilbhutani/storefront/internal/webhook"
)

type Router struct {
	mux   *chi.Mux
	db    *pgxpool.Pool
	redis *redis.Client
	cfg   *config.Config
	ts    *tenant.Service
	authn *auth.Middleware
}

func NewRouter(db *pgxpool.Pool, rdb *redis.Client, cfg *config.Config) *Router {
	c := cache.NewCache(rdb)
	ts := tenant.NewService(db, c)
	classifier := identity.NewClassifier(
		identity.NewJWTVerifier(cfg.Auth.JWTSecret),
		identity.NewPgDirectory(db),
	)
	return &Router{
		mux:   chi.NewRouter(),
		db:    db,
		redis: rdb,
		cfg:   cfg,
		ts:    ts,
		authn: auth.NewMiddleware(classifier),
	}
}

func (rt *Router) Setup() http.Handler {
	r := rt.mux

	// Global middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Logging)
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.CORS([]string{"*"}))

	rl := middleware.NewRateLimiter(100, 200)
	r.Use(rl.Limit)

	// Health endpoints (no auth)
	health := handlers.NewHealthHandler(rt.db, rt.redis)
	r.Get("/healthz", health.Healthz)
	r.Get("/readyz", health.Readyz)

	// Initialize services
	c := cache.NewCache(rt.redis)
	catalogSvc := catalog.NewService(rt.db, c)
	orderSvc := order.NewService(order.NewPgStore(rt.db))
	auditSvc := audit.NewService(rt.db)
	queueClient := queue.NewClient(rt.cfg.Redis)
	webhookSvc := webhook.NewService(rt.db, queueClient)

	carts := cart.NewStore(
		cart.NewCodec(rt.cfg.Cart.Secret),
		rt.cfg.Cart.CookieName,
		rt.cfg.Cart.MaxAgeDays,
		rt.cfg.Checkout.Currency,
	)

	policy := pricing.ForName(rt.cfg.Checkout.PricingPolicy, rt.cfg.Checkout.TaxRate, rt.cfg.Checkout.FlatShipping)
	engine := checkout.NewEngine(rt.ts, checkout.NewPgStore(rt.db), policy)

	provider := payment.ProviderForName(rt.cfg.Payment.Provider)
	paymentSvc := payment.NewService(payment.NewPgStore(rt.db), provider)

	// API v1
	r.Route("/api/v1", func(r chi.Router) {
		// Public storefront surface. Identity is optional here: guests
		// browse, carry a signed cart cookie and check out by email.
		r.Route("/shops/{slug}", func(r chi.Router) {
			shopH := handlers.NewStorefrontHandler(rt.ts, catalogSvc)
			r.Get("/", shopH.GetShop)
			r.Get("/products", shopH.ListProducts)
			r.Get("/products/{id}", shopH.GetProduct)

			cartH := handlers.NewCartHandler(rt.ts, catalogSvc, carts)
			r.Route("/cart", func(r chi.Router) {
				r.Get("/", cartH.Get)
				r.Post("/items", cartH.AddItem)
				r.Put("/items/{productID}", cartH.UpdateItem)
				r.Delete("/items/{productID}", cartH.RemoveItem)
				r.Delete("/", cartH.Clear)
			})

			checkoutH := handlers.NewCheckoutHandler(engine, carts, webhookSvc)
			r.Post("/checkout", checkoutH.Checkout)

			paymentH := handlers.NewPaymentHandler(rt.ts, paymentSvc, webhookSvc)
			r.Post("/orders/{orderID}/payment", paymentH.Process)

			// Invite acceptance needs an identity but no membership yet.
			memberH := handlers.NewMembershipHandler(rt.ts, auditSvc)
			r.With(rt.authn.Authenticate).Post("/memberships/accept", memberH.Accept)
		})

		// Merchant admin surface. Every route group carries the access
		// gate with the weakest role that may use it.
		r.Route("/admin/shops/{slug}", func(r chi.Router) {
			r.Use(rt.authn.Authenticate)

			productH := handlers.NewProductHandler(rt.ts, catalogSvc, auditSvc)
			r.Route("/products", func(r chi.Router) {
				r.With(rt.authn.Require(identity.UserTypeMerchantAdmin, models.RoleViewer)).
					Get("/", productH.List)
				r.Group(func(r chi.Router) {
					r.Use(rt.authn.Require(identity.UserTypeMerchantAdmin, models.RoleStaff, models.RoleEditor))
					r.Post("/", productH.Create)
					r.Put("/{id}", productH.Update)
					r.Delete("/{id}", productH.Delete)
				})
			})

			orderH := handlers.NewOrderHandler(rt.ts, orderSvc, webhookSvc, auditSvc)
			r.Route("/orders", func(r chi.Router) {
				r.Group(func(r chi.Router) {
					r.Use(rt.authn.Require(identity.UserTypeMerchantAdmin, models.RoleViewer))
					r.Get("/", orderH.List)
					r.Get("/{id}", orderH.Get)
				})
				r.With(rt.authn.Require(identity.UserTypeMerchantAdmin, models.RoleStaff, models.RoleEditor)).
					Put("/{id}/status", orderH.UpdateStatus)
				r.With(rt.authn.Require(identity.UserTypeMerchantAdmin, models.RoleAdmin)).
					Post("/{id}/cancel", orderH.Cancel)
			})

			memberH := handlers.NewMembershipHandler(rt.ts, auditSvc)
			r.Route("/members", func(r chi.Router) {
				r.With(rt.authn.Require(identity.UserTypeMerchantAdmin, models.RoleViewer)).
					Get("/", memberH.List)
				r.Group(func(r chi.Router) {
					r.Use(rt.authn.Require(identity.UserTypeMerchantAdmin, models.RoleOwner, models.RoleAdmin))
					r.Post("/", memberH.Invite)
					r.Put("/{userID}/role", memberH.ChangeRole)
					r.Delete("/{userID}", memberH.Revoke)
				})
			})

			webhookH := handlers.NewWebhookHandler(rt.ts, webhookSvc)
			r.Route("/webhooks", func(r chi.Router) {
				r.Use(rt.authn.Require(identity.UserTypeMerchantAdmin, models.RoleAdmin))
				r.Post("/", webhookH.Create)
				r.Get("/", webhookH.List)
				r.Delete("/{id}", webhookH.Delete)
			})

			adminH := handlers.NewAdminHandler(rt.ts, auditSvc)
			r.With(rt.authn.Require(identity.UserTypeMerchantAdmin, models.RoleAdmin)).
				Get("/audit", adminH.AuditLogs)
		})

		// Platform surface: tenant lifecycle.
		r.Route("/platform/tenants", func(r chi.Router) {
			r.Use(rt.authn.Authenticate)
			r.Use(rt.authn.RequirePlatformAdmin)

			tenantH := handlers.NewTenantHandler(rt.ts)
			r.Post("/", tenantH.Create)
			r.Put("/{id}/status", tenantH.UpdateStatus)
		})
	})

	return r
}
