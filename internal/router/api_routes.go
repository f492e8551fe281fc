package router

import (
	"freight-web/internal/config"
	"freight-web/internal/handler"
	"freight-web/internal/middleware"
	"freight-web/internal/repository"
	"freight-web/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/hibiken/asynq"
	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
)

func SetupAPIRoutes(
	router fiber.Router,
	db *sqlx.DB,
	redis *redis.Client,
	cfg *config.Config,
) {
	// Initialize repositories
	rateCardRepo := repository.NewRateCardRepository(db)
	carrierRepo := repository.NewCarrierRepository(db)
	sessionRepo := repository.NewImportSessionRepository(db)

	// Initialize services
	importService := service.NewRateTableImportService(rateCardRepo)
	quoteService := service.NewQuoteService(rateCardRepo, carrierRepo, cfg.PrefixMatchLimit)
	pricingService := service.NewPricingService(service.DefaultMarginBands())

	// Initialize Asynq client (optional - only if Redis is available)
	var asynqClient *asynq.Client
	if redis != nil {
		asynqClient = asynq.NewClient(asynq.RedisClientOpt{
			Addr:     cfg.AsynqRedisAddr,
			Password: cfg.AsynqRedisPassword,
			DB:       cfg.AsynqRedisDB,
		})
	}

	// Initialize handlers
	importHandler := handler.NewImportHandler(importService, sessionRepo, carrierRepo, cfg)
	quoteHandler := handler.NewQuoteHandler(quoteService)
	pricingHandler := handler.NewPricingHandler(pricingService, asynqClient)
	rateCardHandler := handler.NewRateCardHandler(rateCardRepo)

	// Public routes
	quotes := router.Group("/quotes")
	quotes.Post("/calculate", quoteHandler.Calculate)

	// Protected routes
	protected := router.Group("", middleware.AuthMiddleware(cfg))

	rateTables := protected.Group("/rate-tables")
	rateTables.Get("/", rateCardHandler.GetRateCards)
	rateTables.Get("/template", rateCardHandler.DownloadTemplate)
	rateTables.Get("/sessions", importHandler.GetSessions)
	rateTables.Post("/import", importHandler.ImportSelfService)
	rateTables.Post("/import-admin", middleware.RequireAdmin(), importHandler.ImportAdminAssisted)

	pricing := protected.Group("/pricing")
	pricing.Post("/analyze", pricingHandler.Analyze)
}
