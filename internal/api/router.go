package api

import (
	"database/sql"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/crazyplay/storefront-service/internal/api/handlers"
	"github.com/crazyplay/storefront-service/internal/api/middleware"
	"github.com/crazyplay/storefront-service/internal/cache"
	"github.com/crazyplay/storefront-service/internal/models"
	"github.com/crazyplay/storefront-service/internal/repository"
	"github.com/crazyplay/storefront-service/internal/service"
	"github.com/crazyplay/storefront-service/internal/ws"
)

// Config carries the knobs main reads from the environment.
type Config struct {
	JWTSecret      []byte
	TokenTTL       time.Duration
	PromoCacheSize int
	PromoCacheTTL  time.Duration
}

// NewRouter builds the HTTP surface: public storefront endpoints, the
// websocket subscribe endpoint, and the JWT-guarded admin subtree.
func NewRouter(db *sql.DB, cfg Config) http.Handler {
	if cfg.PromoCacheSize <= 0 {
		cfg.PromoCacheSize = 256
	}
	if cfg.PromoCacheTTL <= 0 {
		cfg.PromoCacheTTL = 30 * time.Second
	}
	if cfg.TokenTTL <= 0 {
		cfg.TokenTTL = 12 * time.Hour
	}

	promoRepo := repository.NewPromoRepo(db)
	settingsRepo := repository.NewSettingsRepo(db)
	orderRepo := repository.NewOrderRepo(db)
	messageRepo := repository.NewMessageRepo(db)
	catalogRepo := repository.NewCatalogRepo(db)
	adminRepo := repository.NewAdminRepo(db)

	hub := ws.NewHub()

	promoSvc := service.NewPromoService(promoRepo, cache.NewPromoCache(cfg.PromoCacheSize, cfg.PromoCacheTTL))
	discountSvc := service.NewDiscountService(settingsRepo)
	checkoutSvc := service.NewCheckoutService(promoSvc, catalogRepo, orderRepo, settingsRepo)
	messageSvc := service.NewMessageService(messageRepo, orderRepo, hub)
	authSvc := service.NewAuthService(adminRepo, cfg.JWTSecret, cfg.TokenTTL)

	promoHandler := handlers.NewPromoHandler(promoSvc, promoRepo)
	discountHandler := handlers.NewDiscountHandler(discountSvc)
	orderHandler := handlers.NewOrderHandler(checkoutSvc, orderRepo)
	messageHandler := handlers.NewMessageHandler(messageSvc, hub)
	catalogHandler := handlers.NewCatalogHandler(catalogRepo, discountSvc)
	authHandler := handlers.NewAuthHandler(authSvc)

	r := chi.NewRouter()
	r.Use(middleware.Logger)

	// health
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	// public storefront
	r.Get("/packages", catalogHandler.ListPublic(models.OrderPackage))
	r.Get("/courses", catalogHandler.ListPublic(models.OrderCourse))
	r.Get("/discounts", discountHandler.GetAll)
	r.Post("/promos/validate", promoHandler.Validate)
	r.Post("/auth/login", authHandler.Login)

	r.Route("/orders", func(r chi.Router) {
		r.Get("/lookup", orderHandler.Lookup)
		r.Post("/{kind}", orderHandler.Place)
		r.Route("/{kind}/{id}/messages", func(r chi.Router) {
			r.Get("/", messageHandler.Thread)
			r.Post("/", messageHandler.SendAs(models.SenderCustomer))
			r.Post("/read", messageHandler.MarkRead)
		})
	})

	// the customer banner polls unread admin replies on its own orders
	r.Get("/messages/unread-counts", messageHandler.CustomerUnreadCounts)

	// live thread updates
	r.Get("/ws/orders/{kind}/{id}/messages", messageHandler.Subscribe)

	// admin, token required
	r.Route("/admin", func(r chi.Router) {
		r.Use(middleware.RequireAdmin(authSvc))

		r.Post("/auth/password", authHandler.ChangePassword)

		r.Route("/promos", func(r chi.Router) {
			r.Get("/", promoHandler.List)
			r.Post("/", promoHandler.Create)
			r.Put("/{id}", promoHandler.Update)
			r.Delete("/{id}", promoHandler.Delete)
		})

		r.Put("/discounts/{category}", discountHandler.Save)

		r.Route("/orders/{kind}", func(r chi.Router) {
			r.Get("/", orderHandler.List)
			r.Patch("/{id}/status", orderHandler.UpdateStatus)
			r.Delete("/{id}", orderHandler.Delete)
			r.Post("/{id}/messages", messageHandler.SendAs(models.SenderAdmin))
		})

		r.Get("/messages/unread-counts", messageHandler.UnreadCounts(models.SenderCustomer))
		r.Delete("/messages/{id}", messageHandler.Delete)

		r.Route("/catalog/{kind}", func(r chi.Router) {
			r.Get("/", catalogHandler.ListAdmin)
			r.Post("/", catalogHandler.Create)
			r.Put("/{id}", catalogHandler.Update)
			r.Delete("/{id}", catalogHandler.Delete)
		})
	})

	return r
}
