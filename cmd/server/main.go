package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	activityapp "github.com/harvesthub/backend/internal/application/activity"
	catalogapp "github.com/harvesthub/backend/internal/application/catalog"
	customerapp "github.com/harvesthub/backend/internal/application/customer"
	identityapp "github.com/harvesthub/backend/internal/application/identity"
	inventoryapp "github.com/harvesthub/backend/internal/application/inventory"
	orderapp "github.com/harvesthub/backend/internal/application/order"
	reportapp "github.com/harvesthub/backend/internal/application/report"
	"github.com/harvesthub/backend/internal/domain/shared"
	"github.com/harvesthub/backend/internal/infrastructure/auth"
	"github.com/harvesthub/backend/internal/infrastructure/changefeed"
	"github.com/harvesthub/backend/internal/infrastructure/config"
	applogger "github.com/harvesthub/backend/internal/infrastructure/logger"
	"github.com/harvesthub/backend/internal/infrastructure/persistence"
	"github.com/harvesthub/backend/internal/infrastructure/storage"
	"github.com/harvesthub/backend/internal/infrastructure/telemetry"
	"github.com/harvesthub/backend/internal/interfaces/http/handler"
	"github.com/harvesthub/backend/internal/interfaces/http/middleware"
	"github.com/harvesthub/backend/internal/interfaces/http/router"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	log := applogger.New(cfg.Log)
	defer func() {
		_ = log.Sync()
	}()

	log.Info("Starting HarvestHub Admin API",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	// Tracing
	tracerProvider, err := telemetry.NewTracerProvider(context.Background(), cfg.Telemetry, log)
	if err != nil {
		log.Fatal("Failed to initialize tracing", zap.Error(err))
	}
	defer func() {
		if err := tracerProvider.Shutdown(context.Background()); err != nil {
			log.Error("Error shutting down tracer provider", zap.Error(err))
		}
	}()

	// Metrics
	meterProvider, err := telemetry.NewMeterProvider(context.Background(), cfg.Telemetry, log)
	if err != nil {
		log.Fatal("Failed to initialize metrics", zap.Error(err))
	}
	defer func() {
		if err := meterProvider.Shutdown(context.Background()); err != nil {
			log.Error("Error shutting down meter provider", zap.Error(err))
		}
	}()

	// Database
	gormLogLevel := applogger.MapGormLogLevel(cfg.Log.Level)
	db, err := persistence.NewDatabaseWithLogger(&cfg.Database, log, gormLogLevel)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	if cfg.Telemetry.Enabled && cfg.Telemetry.DBTraceEnabled {
		if err := db.EnableTracing(); err != nil {
			log.Warn("Failed to enable database tracing", zap.Error(err))
		}
	}
	log.Info("Database connected")

	// Change feed notifier. Redis fans notifications out across
	// instances; a single instance can run on the in-memory notifier.
	var notifier shared.Notifier
	redisNotifier, err := changefeed.NewRedisNotifier(cfg.Redis, log)
	if err != nil {
		log.Warn("Redis unavailable, falling back to in-memory change feed", zap.Error(err))
		memNotifier := changefeed.NewMemoryNotifier()
		defer func() {
			_ = memNotifier.Close()
		}()
		notifier = memNotifier
	} else {
		defer func() {
			if err := redisNotifier.Close(); err != nil {
				log.Error("Error closing Redis notifier", zap.Error(err))
			}
		}()
		notifier = redisNotifier
	}

	// Object storage for product images
	var objectStorage catalogapp.ObjectStorage
	if cfg.Storage.Enabled {
		s3Storage, err := storage.NewS3ObjectStorage(&cfg.Storage, storage.WithLogger(log))
		if err != nil {
			log.Fatal("Failed to initialize object storage", zap.Error(err))
		}
		objectStorage = s3Storage
		log.Info("Object storage enabled", zap.String("bucket", cfg.Storage.Bucket))
	}

	// Repositories
	orderRepo := persistence.NewGormOrderRepository(db.DB)
	txnRepo := persistence.NewGormTransactionRepository(db.DB)
	productRepo := persistence.NewGormProductRepository(db.DB)
	categoryRepo := persistence.NewGormCategoryRepository(db.DB)
	inventoryRepo := persistence.NewGormInventoryRepository(db.DB)
	profileRepo := persistence.NewGormProfileRepository(db.DB)
	activityRepo := persistence.NewGormActivityRepository(db.DB)
	userRepo := persistence.NewGormUserRepository(db.DB)
	txManager := persistence.NewGormTxManager(db.DB)

	// Application services
	jwtService := auth.NewJWTService(cfg.JWT)
	authService := identityapp.NewAuthService(userRepo, jwtService)
	orderService := orderapp.NewService(orderRepo, txnRepo, productRepo, activityRepo, txManager, notifier)
	productService := catalogapp.NewProductService(productRepo, categoryRepo, activityRepo, objectStorage, notifier)
	categoryService := catalogapp.NewCategoryService(categoryRepo, productRepo, activityRepo, notifier)
	inventoryService := inventoryapp.NewService(inventoryRepo, productRepo, activityRepo, notifier)
	customerService := customerapp.NewService(profileRepo, orderRepo)
	reportService := reportapp.NewService(productRepo, orderRepo, profileRepo, inventoryRepo)
	activityService := activityapp.NewService(activityRepo)

	// HTTP handlers
	authHandler := handler.NewAuthHandler(authService)
	orderHandler := handler.NewOrderHandler(orderService)
	productHandler := handler.NewProductHandler(productService)
	categoryHandler := handler.NewCategoryHandler(categoryService)
	inventoryHandler := handler.NewInventoryHandler(inventoryService)
	customerHandler := handler.NewCustomerHandler(customerService)
	reportHandler := handler.NewReportHandler(reportService)
	activityHandler := handler.NewActivityHandler(activityService)
	changeFeedHandler := handler.NewChangeFeedHandler(notifier, handler.WithChangeFeedLogger(log))
	systemHandler := handler.NewSystemHandler(db)

	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	middleware.SetupValidator()

	engine := gin.New()

	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	engine.Use(middleware.RequestID())
	engine.Use(applogger.Recovery(log))
	engine.Use(applogger.GinMiddleware(log))
	engine.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     cfg.HTTP.CORSAllowOrigins,
		AllowMethods:     cfg.HTTP.CORSAllowMethods,
		AllowHeaders:     cfg.HTTP.CORSAllowHeaders,
		ExposeHeaders:    []string{"X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))
	if cfg.Telemetry.Enabled {
		engine.Use(middleware.TracingWithConfig(middleware.TracingConfig{
			ServiceName: cfg.Telemetry.ServiceName,
			Enabled:     true,
		}))
	}
	engine.Use(middleware.HTTPMetrics(meterProvider))
	jwtConfig := middleware.DefaultJWTConfig(jwtService)
	jwtConfig.Logger = log
	engine.Use(middleware.JWTAuthMiddlewareWithConfig(jwtConfig))

	// Liveness probes outside API versioning
	engine.GET("/health", systemHandler.Health)
	engine.GET("/ready", systemHandler.Ready)

	// Route groups
	authRoutes := router.NewDomainGroup("auth", "/auth")
	authRoutes.POST("/login", authHandler.Login)
	authRoutes.POST("/refresh", authHandler.Refresh)
	authRoutes.POST("/users", authHandler.CreateUser)

	orderRoutes := router.NewDomainGroup("orders", "/orders")
	orderRoutes.POST("", orderHandler.Create)
	orderRoutes.GET("", orderHandler.List)
	orderRoutes.GET("/:id", orderHandler.Get)
	orderRoutes.PATCH("/:id/status", orderHandler.ChangeStatus)
	orderRoutes.POST("/:id/refunds", orderHandler.Refund)
	orderRoutes.GET("/:id/transactions", orderHandler.Transactions)

	productRoutes := router.NewDomainGroup("products", "/products")
	productRoutes.POST("", productHandler.Create)
	productRoutes.GET("", productHandler.List)
	productRoutes.GET("/:id", productHandler.Get)
	productRoutes.PUT("/:id", productHandler.Update)
	productRoutes.POST("/:id/archive", productHandler.Archive)
	productRoutes.POST("/:id/images", productHandler.UploadImage)
	productRoutes.DELETE("/:id/images", productHandler.RemoveImage)

	categoryRoutes := router.NewDomainGroup("categories", "/categories")
	categoryRoutes.POST("", categoryHandler.Create)
	categoryRoutes.GET("", categoryHandler.List)
	categoryRoutes.GET("/:id", categoryHandler.Get)
	categoryRoutes.PUT("/:id", categoryHandler.Update)
	categoryRoutes.DELETE("/:id", categoryHandler.Delete)

	inventoryRoutes := router.NewDomainGroup("inventory", "/inventory")
	inventoryRoutes.GET("", inventoryHandler.List)
	inventoryRoutes.GET("/low-stock", inventoryHandler.LowStock)
	inventoryRoutes.GET("/products/:productId", inventoryHandler.GetByProduct)
	inventoryRoutes.POST("/products/:productId/adjust", inventoryHandler.Adjust)
	inventoryRoutes.PUT("/products/:productId", inventoryHandler.SetStock)

	customerRoutes := router.NewDomainGroup("customers", "/customers")
	customerRoutes.GET("", customerHandler.List)
	customerRoutes.GET("/summary", customerHandler.Summary)
	customerRoutes.GET("/:id", customerHandler.Get)

	reportRoutes := router.NewDomainGroup("reports", "/dashboard")
	reportRoutes.GET("", reportHandler.Dashboard)

	activityRoutes := router.NewDomainGroup("activity", "/activity")
	activityRoutes.GET("", activityHandler.List)
	activityRoutes.GET("/:entityType/:entityId", activityHandler.ListForEntity)

	changeRoutes := router.NewDomainGroup("changes", "/changes")
	changeRoutes.GET("/stream", changeFeedHandler.Stream)

	systemRoutes := router.NewDomainGroup("system", "/system")
	systemRoutes.GET("/info", systemHandler.Info)
	systemRoutes.GET("/health", systemHandler.Health)

	r := router.NewRouter(engine)
	r.Register(authRoutes).
		Register(orderRoutes).
		Register(productRoutes).
		Register(categoryRoutes).
		Register(inventoryRoutes).
		Register(customerRoutes).
		Register(reportRoutes).
		Register(activityRoutes).
		Register(changeRoutes).
		Register(systemRoutes)
	r.Setup()

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}
