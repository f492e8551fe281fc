package router

import (
	"freight-web/internal/config"

	"github.com/gofiber/fiber/v2"
	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
)

func Setup(app *fiber.App, db *sqlx.DB, redis *redis.Client, cfg *config.Config) {
	// Health check
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status": "ok",
			"app":    cfg.AppName,
		})
	})

	// Web routes (HTML)
	web := app.Group("")
	setupWebRoutes(web)

	// API routes (JSON)
	api := app.Group("/api/v1")
	SetupAPIRoutes(api, db, redis, cfg)
}

func setupWebRoutes(router fiber.Router) {
	router.Get("/", func(c *fiber.Ctx) error {
		return c.Render("dashboard/index", fiber.Map{
			"Title": "Dashboard",
		})
	})

	router.Get("/quotes", func(c *fiber.Ctx) error {
		return c.Render("quotes/index", fiber.Map{
			"Title": "Cotação de Frete",
		})
	})

	router.Get("/rate-tables", func(c *fiber.Ctx) error {
		return c.Render("ratetables/index", fiber.Map{
			"Title": "Tabelas de Frete",
		})
	})

	router.Get("/rate-tables/import", func(c *fiber.Ctx) error {
		return c.Render("ratetables/import", fiber.Map{
			"Title": "Importar Tabela",
		})
	})

	router.Get("/pricing", func(c *fiber.Ctx) error {
		return c.Render("pricing/index", fiber.Map{
			"Title": "Análise de Preço",
		})
	})
}
