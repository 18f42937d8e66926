package main

import (
	"garage-service/internal/handler"
	mid "garage-service/internal/middleware"
	"garage-service/internal/notify"
	"garage-service/internal/service"
	"garage-service/internal/store"
	"garage-service/pkg/config"
	"garage-service/pkg/database"
	"garage-service/pkg/jwtutil"
	"garage-service/pkg/logger"
	"garage-service/prometheus"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

func main() {
	// Load .env file; fall back to process environment when absent.
	_ = godotenv.Load()

	appConfig, err := config.Load()
	if err != nil {
		// Can't use structured logger yet since it's not initialized
		panic("Failed to load configuration: " + err.Error())
	}

	if err := logger.InitLogger(&logger.Config{
		Level:       appConfig.Log.Level,
		Environment: appConfig.Server.Env,
		ServiceName: "garage-service",
	}); err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	log := logger.GetLogger()
	defer log.Sync()

	log.Info("Starting garage-service",
		zap.String("environment", appConfig.Server.Env),
		zap.String("port", appConfig.Server.Port))

	jwtutil.Initialize(&appConfig.JWT)
	log.Info("JWT utility initialized")

	prometheus.InitMetrics(appConfig)
	log.Info("Prometheus metrics initialized",
		zap.String("metrics_prefix", appConfig.Metrics.Prefix))

	db, err := database.InitDB(appConfig)
	if err != nil {
		log.Fatal("Failed to initialize database", zap.Error(err))
	}
	defer database.Close()
	log.Info("Database connection established")

	// Reorder notification sink
	var notifier service.Notifier
	switch appConfig.Notifier.Kind {
	case "redis":
		redisNotifier, err := notify.NewRedisNotifier(
			appConfig.Redis.Addr,
			appConfig.Redis.Password,
			appConfig.Notifier.Channel,
		)
		if err != nil {
			log.Fatal("Failed to connect reorder notifier to Redis", zap.Error(err))
		}
		defer redisNotifier.Close()
		notifier = redisNotifier
		log.Info("Reorder notifications published to Redis",
			zap.String("addr", appConfig.Redis.Addr),
			zap.String("channel", appConfig.Notifier.Channel))
	default:
		notifier = notify.NewLogNotifier(log)
		log.Info("Reorder notifications written to log")
	}

	// Core services share one explicitly constructed store handle
	st := store.NewGormStore(db)
	reorder := service.NewReorderEvaluator(st, notifier)
	ledger := service.NewStockLedger(st, reorder)
	products := service.NewProductService(st)

	productHandler := handler.NewProductHandler(products)
	inventoryHandler := handler.NewInventoryHandler(ledger, reorder)

	e := echo.New()
	e.HideBanner = true

	e.Use(middleware.Recover())
	e.Use(mid.RequestIDMiddleware)
	e.Use(mid.MetricsMiddleware)

	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
	e.GET("/health", handler.Health)

	staff := mid.RequireRole(jwtutil.RoleAdmin, jwtutil.RoleTechnical)
	adminOnly := mid.RequireRole(jwtutil.RoleAdmin)

	// Product API routes
	productAPI := e.Group("/api/products", mid.AuthMiddleware, staff)
	productAPI.GET("", productHandler.ListProducts)
	productAPI.GET("/:id", productHandler.GetProduct)
	productAPI.POST("", productHandler.CreateProduct)
	productAPI.PUT("/:id", productHandler.UpdateProduct)
	productAPI.DELETE("/:id", productHandler.DeleteProduct)

	// Inventory API routes; overwriting stock is an admin correction
	inventoryAPI := e.Group("/api/inventory", mid.AuthMiddleware, staff)
	inventoryAPI.PATCH("/:id/stock", inventoryHandler.SetStock, adminOnly)
	inventoryAPI.POST("/:id/restock", inventoryHandler.Restock)
	inventoryAPI.POST("/:id/deduct", inventoryHandler.Deduct)
	inventoryAPI.GET("/reorder", inventoryHandler.ListReorder)

	// Category API routes
	categoryAPI := e.Group("/api/categories", mid.AuthMiddleware, staff)
	categoryAPI.GET("", handler.ListCategories)
	categoryAPI.GET("/:id", handler.GetCategory)
	categoryAPI.POST("", handler.CreateCategory)
	categoryAPI.PUT("/:id", handler.UpdateCategory)
	categoryAPI.DELETE("/:id", handler.DeleteCategory)

	// Repair service API routes
	serviceAPI := e.Group("/api/services", mid.AuthMiddleware, staff)
	serviceAPI.GET("", handler.ListServices)
	serviceAPI.GET("/:id", handler.GetService)
	serviceAPI.POST("", handler.CreateService)
	serviceAPI.PUT("/:id", handler.UpdateService)
	serviceAPI.DELETE("/:id", handler.DeleteService)

	port := appConfig.Server.Port
	log.Info("Starting server", zap.String("port", port))
	if err := e.Start(":" + port); err != nil {
		log.Fatal("Server error", zap.Error(err))
	}
}
