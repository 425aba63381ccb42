package main

import (
	"context"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"github.com/Beikwaw/RezTek/internal/handler"
	"github.com/Beikwaw/RezTek/internal/inventory"
	"github.com/Beikwaw/RezTek/internal/maintenance"
	"github.com/Beikwaw/RezTek/internal/middleware"
	"github.com/Beikwaw/RezTek/internal/model"
	"github.com/Beikwaw/RezTek/internal/realtime"
	"github.com/Beikwaw/RezTek/internal/storage"
	"github.com/Beikwaw/RezTek/pkg/config"
	"github.com/Beikwaw/RezTek/pkg/database"
	"github.com/Beikwaw/RezTek/pkg/jwtutil"
	"github.com/Beikwaw/RezTek/pkg/logger"
	"github.com/Beikwaw/RezTek/prometheus"
)

func main() {
	// Load configuration from .env file and environment variables
	cfg, err := config.Load("reztek-portal")
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger with config
	if err := logger.InitLogger(cfg); err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	log := logger.GetLogger()
	log.Info("Starting maintenance portal...", zap.String("environment", cfg.Server.Env))

	// Initialize database
	db, err := database.InitDB(&cfg.DB)
	if err != nil {
		log.Fatal("Failed to initialize database", zap.Error(err))
	}
	log.Info("Database connection established")

	if err := database.MigrateModels(
		&model.Tenant{},
		&model.Admin{},
		&model.MaintenanceRequest{},
		&model.Feedback{},
		&model.StockItem{},
		&model.StockTransaction{},
	); err != nil {
		log.Fatal("Failed to run migrations", zap.Error(err))
	}

	// Initialize JWT utility
	jwtutil.Initialize(&cfg.JWT)
	log.Info("JWT utility initialized")

	// Initialize object store for request images
	imageStore, err := storage.NewImageStore(context.Background(), &cfg.Storage, log)
	if err != nil {
		log.Fatal("Failed to initialize image store", zap.Error(err))
	}
	log.Info("Image store initialized", zap.String("endpoint", cfg.Storage.Endpoint))

	// Change feed hub and the two engines
	hub := realtime.NewHub(log)
	requestEngine := maintenance.NewEngine(db, log, hub)
	stockEngine := inventory.NewEngine(db, log, hub)
	handler.Init(requestEngine, stockEngine, imageStore, hub, cfg.Admin)

	// Initialize Echo framework
	e := echo.New()

	// Apply global middleware - order matters
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.CORS())
	e.Use(middleware.RequestIDMiddleware)
	e.Use(logger.Middleware())
	e.Use(prometheus.MetricsMiddleware())

	// Public routes - no authentication required
	e.GET("/health", handler.HealthCheck)
	e.GET("/metrics", handler.MetricsHandler)

	// Authentication routes
	auth := e.Group("/auth")
	auth.POST("/signup", handler.Signup)
	auth.POST("/login", handler.Login)

	// API routes - all require authentication
	api := e.Group("/api")
	api.Use(middleware.AuthMiddleware)

	// Realtime dashboard feed
	api.GET("/ws", handler.ChangeFeed)

	// Tenant profile
	api.GET("/profile", handler.GetProfile, middleware.RequireTenant)
	api.PATCH("/profile", handler.UpdateProfile, middleware.RequireTenant)

	// Tenant maintenance requests
	tenantRequests := api.Group("/requests", middleware.RequireTenant)
	tenantRequests.POST("", handler.CreateRequest)
	tenantRequests.GET("", handler.ListMyRequests)
	tenantRequests.POST("/:id/feedback", handler.SubmitFeedback)
	tenantRequests.POST("/:id/image", handler.UploadRequestImage)
	api.GET("/requests/:id", handler.GetRequest)

	// Admin surface
	admin := api.Group("/admin", middleware.RequireAdmin)
	admin.GET("/requests", handler.AdminListRequests)
	admin.PATCH("/requests/:id/status", handler.ChangeRequestStatus)
	admin.GET("/feedback", handler.AdminListFeedback)
	admin.GET("/tenants", handler.ListTenants)

	// Stock inventory
	admin.POST("/stock", handler.CreateStockItem)
	admin.GET("/stock", handler.ListStockItems)
	admin.PUT("/stock/:id", handler.UpdateStockItem)
	admin.DELETE("/stock/:id", handler.DeleteStockItem)
	admin.POST("/stock/:id/adjust", handler.AdjustStockQuantity)
	admin.GET("/stock/transactions", handler.ListStockTransactions)
	admin.GET("/stock/low-stock", handler.ListLowStock)

	// CSV reports
	admin.GET("/reports/requests.csv", handler.RequestsReport)
	admin.GET("/reports/stock.csv", handler.StockReport)
	admin.GET("/reports/feedback.csv", handler.FeedbackReport)

	// Start server
	log.Info("Starting server", zap.String("port", cfg.Server.Port))
	if err := e.Start(":" + cfg.Server.Port); err != nil {
		log.Fatal("Failed to start server", zap.Error(err))
	}
}
