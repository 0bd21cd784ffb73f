package main

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/ipotrack/ipo-backend/config"
	"github.com/ipotrack/ipo-backend/database"
	"github.com/ipotrack/ipo-backend/handlers"
	"github.com/ipotrack/ipo-backend/services"
	"github.com/sirupsen/logrus"
)

func main() {
	// Load config
	cfg := config.LoadConfig()

	if level, err := logrus.ParseLevel(cfg.LogLevel); err == nil {
		logrus.SetLevel(level)
	}

	// Connect to database
	if err := database.Connect(cfg.DatabaseURL); err != nil {
		logrus.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.Close()

	// Run migrations
	if err := database.Migrate("database/schema.sql"); err != nil {
		logrus.Warnf("Migration warning: %v", err)
	}

	// Services
	authService := services.NewAuthService(database.DB, cfg.JWTSecret, cfg.AccessTokenTTL, cfg.RefreshTokenTTL)
	companyService := services.NewCompanyService(database.DB)
	ipoService := services.NewIPOService(database.DB)
	statsService := services.NewStatsService(database.DB)
	activityService := services.NewActivityService(database.DB)
	documentService := services.NewDocumentService(database.DB, cfg.UploadDir)
	newsService := services.NewNewsService(database.DB)

	// Handlers
	auth := handlers.NewAuthMiddleware(authService)
	authHandler := handlers.NewAuthHandler(authService)
	companyHandler := handlers.NewCompanyHandler(companyService)
	ipoHandler := handlers.NewIPOHandler(ipoService)
	adminHandler := handlers.NewAdminHandler(statsService, activityService)
	documentHandler := handlers.NewDocumentHandler(documentService)
	newsHandler := handlers.NewNewsHandler(newsService)

	// Setup Fiber
	app := fiber.New()

	// Middleware
	app.Use(fiberlogger.New())
	app.Use(cors.New())

	// Health check endpoint
	app.Get("/health", func(c *fiber.Ctx) error {
		stats := database.GetConnectionStats()
		return c.JSON(fiber.Map{
			"status":    "ok",
			"timestamp": time.Now().Unix(),
			"database": fiber.Map{
				"open_connections": stats.OpenConnections,
				"in_use":           stats.InUse,
				"idle":             stats.Idle,
			},
		})
	})

	// Routes
	api := app.Group("/api/v1")

	// Auth Routes
	api.Post("/auth/register", authHandler.Register)
	api.Post("/auth/login", authHandler.Login)
	api.Post("/auth/token/refresh", authHandler.RefreshToken)
	api.Get("/auth/profile", auth.RequireAuth, authHandler.Profile)

	// Company Routes
	api.Get("/companies", companyHandler.ListCompanies)
	api.Get("/companies/:id", companyHandler.GetCompany)
	api.Get("/companies/:id/ipos", companyHandler.GetCompanyIPOs)
	api.Post("/companies", auth.RequireAdmin, companyHandler.CreateCompany)
	api.Put("/companies/:id", auth.RequireAdmin, companyHandler.UpdateCompany)
	api.Delete("/companies/:id", auth.RequireAdmin, companyHandler.DeleteCompany)

	// IPO Routes
	api.Get("/ipos", ipoHandler.GetIPOs)
	api.Get("/ipos/upcoming", ipoHandler.GetUpcomingIPOs)
	api.Get("/ipos/open", ipoHandler.GetOpenIPOs)
	api.Get("/ipos/featured", ipoHandler.GetFeaturedIPOs)
	api.Get("/ipos/search", ipoHandler.SearchIPOs)
	api.Get("/ipos/:id", ipoHandler.GetIPOByID)
	api.Post("/ipos", auth.RequireAdmin, ipoHandler.CreateIPO)
	api.Put("/ipos/:id", auth.RequireAdmin, ipoHandler.UpdateIPO)
	api.Delete("/ipos/:id", auth.RequireAdmin, ipoHandler.DeleteIPO)

	// Document Routes
	api.Get("/ipos/:id/documents", documentHandler.ListDocuments)
	api.Get("/documents/:docID/download", documentHandler.DownloadDocument)
	api.Post("/ipos/:id/documents", auth.RequireAdmin, documentHandler.UploadDocument)
	api.Delete("/documents/:docID", auth.RequireAdmin, documentHandler.DeleteDocument)

	// News Routes
	api.Get("/ipos/:id/news", newsHandler.ListNews)
	api.Post("/ipos/:id/news", auth.RequireAdmin, newsHandler.CreateNews)
	api.Delete("/news/:newsID", auth.RequireAdmin, newsHandler.DeleteNews)

	// Admin Dashboard Routes
	admin := api.Group("/admin", auth.RequireAdmin)
	admin.Get("/stats", adminHandler.GetStats)
	admin.Get("/activity", adminHandler.GetActivity)

	// Start server
	logrus.Infof("Server starting on port %s", cfg.ServerPort)
	if err := app.Listen(":" + cfg.ServerPort); err != nil {
		logrus.Fatalf("Server failed to start: %v", err)
	}
}
