package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/camvault/dealer-ledger/internal/config"
	"github.com/camvault/dealer-ledger/internal/delivery/http/handler"
	"github.com/camvault/dealer-ledger/internal/delivery/http/middleware"
	"github.com/camvault/dealer-ledger/internal/delivery/http/request"
	"github.com/camvault/dealer-ledger/internal/delivery/http/response"
	"github.com/camvault/dealer-ledger/internal/pkg/logger"
)

// Router holds HTTP handlers and router configuration
type Router struct {
	productHandler     *handler.ProductHandler
	dealerHandler      *handler.DealerHandler
	transactionHandler *handler.TransactionHandler
	logger             *logger.Logger
	cfg                *config.Config
}

// NewRouter creates a new HTTP router
func NewRouter(
	productHandler *handler.ProductHandler,
	dealerHandler *handler.DealerHandler,
	transactionHandler *handler.TransactionHandler,
	cfg *config.Config,
	log *logger.Logger,
) *Router {
	return &Router{
		productHandler:     productHandler,
		dealerHandler:      dealerHandler,
		transactionHandler: transactionHandler,
		logger:             log,
		cfg:                cfg,
	}
}

// Setup configures and returns the HTTP router
func (rt *Router) Setup() http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(middleware.Recovery(rt.logger))
	r.Use(middleware.Logger(rt.logger))
	r.Use(chimw.Timeout(rt.cfg.Server.RequestTimeout))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   rt.cfg.Server.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", request.ActorHeader},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	r.Get("/health", rt.healthCheck)
	r.Get("/swagger/*", httpSwagger.WrapHandler)

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/products", func(r chi.Router) {
			r.Post("/", rt.productHandler.Create)
			r.Get("/", rt.productHandler.List)
			r.Post("/bulk-upload", rt.productHandler.BulkUpload)
			r.Get("/{id}", rt.productHandler.GetByID)
			r.Put("/{id}", rt.productHandler.Update)
			r.Delete("/{id}", rt.productHandler.Delete)
			r.Get("/{id}/price-history", rt.productHandler.PriceHistory)
		})

		r.Route("/dealers/{dealerID}", func(r chi.Router) {
			r.Post("/transactions", rt.dealerHandler.CreateTransaction)
			r.Get("/transactions", rt.dealerHandler.ListTransactions)
			r.Get("/stats", rt.dealerHandler.Stats)
			r.Get("/inventory", rt.dealerHandler.Inventory)
		})

		r.Route("/transactions/{id}", func(r chi.Router) {
			r.Get("/", rt.transactionHandler.GetByID)
			r.Post("/verify-payment", rt.transactionHandler.VerifyPayment)
			r.Post("/cancel", rt.transactionHandler.Cancel)
			r.Get("/cod-advance", rt.transactionHandler.CODAdvance)
		})
	})

	return r
}

// healthCheck handles health check requests
func (rt *Router) healthCheck(w http.ResponseWriter, r *http.Request) {
	response.JSON(w, http.StatusOK, map[string]string{
		"status": "healthy",
	})
}
