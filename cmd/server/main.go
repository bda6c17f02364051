package main

import (
	"log"

	"ecoulement_app_go/config"
	"ecoulement_app_go/db"
	"ecoulement_app_go/handlers"
	"ecoulement_app_go/middleware"
	"ecoulement_app_go/models"
	"ecoulement_app_go/services"
	"ecoulement_app_go/services/hubeau"
	"ecoulement_app_go/services/jobs"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize database
	if err := db.Initialize(cfg.DBPath, cfg.Environment); err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	// Run migrations
	if err := db.AutoMigrate(
		&models.Region{},
		&models.Departement{},
		&models.Commune{},
		&models.Bassin{},
		&models.CoursEau{},
		&models.Station{},
		&models.Observation{},
		&models.Campagne{},
	); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Initialize FTS5 search tables and triggers
	if err := services.InitializeFTS5(db.DB); err != nil {
		log.Fatalf("Failed to initialize FTS5: %v", err)
	}

	// Initialize storage provider (R2 or local fallback)
	services.InitializeStorage(cfg)

	// Compute asset version hashes for cache busting
	middleware.InitAssetVersions()

	// Shared Hub'eau API client for live observation fallback
	handlers.HubeauClient = hubeau.NewClient(cfg.HubeauBaseURL)

	// Create Echo instance
	e := echo.New()

	renderer, err := handlers.NewTemplateRenderer("templates/pages/*.html")
	if err != nil {
		log.Fatalf("Failed to parse templates: %v", err)
	}
	e.Renderer = renderer

	// Middleware
	e.Use(echomiddleware.RequestLogger())
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins: cfg.AllowedOrigins,
	}))

	// Make config available to handlers
	e.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			c.Set("config", cfg)
			return next(c)
		}
	})

	// Static files
	e.Static("/static", "static")

	// Pages
	e.GET("/", handlers.HomeHandler)
	e.GET("/region/:code", handlers.RegionHandler)
	e.GET("/departement/:code", handlers.DepartementHandler)
	e.GET("/commune/:code", handlers.CommuneHandler)
	e.GET("/station/:code", handlers.StationHandler)
	e.GET("/stations", handlers.StationsExplorerHandler)
	e.GET("/graphique", handlers.ChartHandler)
	e.GET("/sitemap.xml", handlers.GetSitemapHandler)

	// JSON / HTMX API
	api := e.Group("/api")
	api.Use(middleware.APIRateLimiter.Middleware())
	{
		api.GET("/regions", handlers.GetRegionsHandler)
		api.GET("/departements", handlers.GetDepartementsHandler)
		api.GET("/communes", handlers.GetCommunesHandler)
		api.GET("/stations", handlers.GetStationsHandler)
		api.GET("/search", handlers.SearchHandler)
		api.GET("/flow-stats", handlers.GetFlowStatsHandler)
		api.GET("/health", handlers.HealthHandler)
	}

	// Dataset exports
	exports := e.Group("/export")
	exports.Use(middleware.ExportRateLimiter.Middleware())
	{
		exports.GET("/stations.csv", handlers.ExportStationsCSVHandler)
		exports.GET("/stations.xlsx", handlers.ExportStationsXLSXHandler)
	}

	// PDF factsheets
	e.GET("/station/:code/pdf", handlers.StationPDFHandler, middleware.PDFRateLimiter.Middleware())

	// Start the scheduled observation cache refresh
	scheduler := jobs.StartScheduler(db.DB, handlers.HubeauClient, cfg)
	defer scheduler.Stop()

	// Start server
	log.Printf("Server starting on port %s", cfg.ServerPort)
	if err := e.Start(":" + cfg.ServerPort); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
