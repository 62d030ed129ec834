package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/outdoor-rental/service-rental/internal/application"
	"github.com/outdoor-rental/service-rental/internal/common/auth"
	"github.com/outdoor-rental/service-rental/internal/common/cache"
	"github.com/outdoor-rental/service-rental/internal/common/database"
	"github.com/outdoor-rental/service-rental/internal/common/health"
	"github.com/outdoor-rental/service-rental/internal/common/kafka"
	"github.com/outdoor-rental/service-rental/internal/common/logger"
	"github.com/outdoor-rental/service-rental/internal/common/middleware"
	"github.com/outdoor-rental/service-rental/internal/config"
	bookingDomain "github.com/outdoor-rental/service-rental/internal/domain/booking"
	productDomain "github.com/outdoor-rental/service-rental/internal/domain/product"
	rentalEvents "github.com/outdoor-rental/service-rental/internal/events"
	"github.com/outdoor-rental/service-rental/internal/handler"
	"github.com/outdoor-rental/service-rental/internal/repository"
)

const serviceName = "service-rental"

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log, err := logger.NewNamed(cfg.AppEnv, serviceName)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	log.Info("starting "+serviceName,
		zap.String("port", cfg.Port),
		zap.String("env", cfg.AppEnv),
	)

	// Connect to database
	dbConfig := database.PostgresConfig{
		Host:     cfg.DBConfig.Host,
		Port:     cfg.DBConfig.Port,
		User:     cfg.DBConfig.User,
		Password: cfg.DBConfig.Password,
		DBName:   cfg.DBConfig.DBName,
		SSLMode:  cfg.DBConfig.SSLMode,
	}
	db, err := database.Connect(dbConfig, log)
	if err != nil {
		log.Fatal("failed to connect to database", zap.Error(err))
	}

	// Run database migrations
	if cfg.AppEnv == "development" {
		if err := db.AutoMigrate(
			&repository.UserModel{},
			&repository.ProductModel{},
			&repository.BookingModel{},
			&repository.BlogPostModel{},
			&repository.SettingsModel{},
			&repository.BookingActivityModel{},
		); err != nil {
			log.Fatal("failed to run auto-migration", zap.Error(err))
		}
		log.Info("database migration completed (dev auto-migrate)")
	} else {
		if err := database.RunMigrations(dbConfig.DatabaseURL(), cfg.MigrationsDir, log); err != nil {
			log.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	// Connect to Redis (optional)
	rdb, err := cache.Connect(cfg.RedisConfig.Addr, cfg.RedisConfig.Password, cfg.RedisConfig.DB)
	if err != nil {
		log.Fatal("failed to connect to redis", zap.Error(err))
	}
	if rdb != nil {
		defer func() { _ = rdb.Close() }()
		log.Info("redis cache enabled", zap.String("addr", cfg.RedisConfig.Addr))
	}

	// Initialize JWT manager
	jwtManager := auth.NewJWTManager(
		cfg.JWTConfig.Secret,
		time.Duration(cfg.JWTConfig.AccessTTLH)*time.Hour,
	)

	// Initialize Kafka producer
	var publisher kafka.Publisher = kafka.NopPublisher{}
	if len(cfg.KafkaConfig.Brokers) > 0 {
		publisher = kafka.NewProducer(cfg.KafkaConfig.Brokers, log)
	} else {
		log.Warn("no kafka brokers configured, booking events are not published")
	}
	defer func() { _ = publisher.Close() }()

	// Initialize repositories
	userRepo := repository.NewGormUserRepository(db)
	bookingRepo := repository.NewGormBookingRepository(db)
	blogRepo := repository.NewGormBlogRepository(db)
	settingsRepo := repository.NewGormSettingsRepository(db)
	activityRepo := repository.NewGormActivityRepository(db)

	var productRepo productDomain.ProductRepository = repository.NewGormProductRepository(db)
	if rdb != nil {
		productRepo = repository.NewCachedProductRepository(productRepo, rdb, log)
	}

	// Initialize pricing strategy
	pricingStrategy := bookingDomain.NewDailyRatePricing(productRepo)

	// Initialize application services
	bookingService := application.NewBookingService(
		bookingRepo,
		productRepo,
		userRepo,
		pricingStrategy,
		publisher,
		cfg.KafkaConfig.Topic,
		log,
	)
	productService := application.NewProductService(productRepo, log)
	authService := application.NewAuthService(userRepo, jwtManager, log)
	blogService := application.NewBlogService(blogRepo, log)
	settingsService := application.NewSettingsService(settingsRepo, log)
	statsService := application.NewStatsService(bookingRepo, productRepo, userRepo, log)
	activityService := application.NewActivityService(activityRepo, log)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Bootstrap admin account
	if cfg.AdminEmail != "" && cfg.AdminPassword != "" {
		if err := authService.EnsureAdmin(ctx, cfg.AdminEmail, cfg.AdminPassword, cfg.AdminName); err != nil {
			log.Fatal("failed to bootstrap admin account", zap.Error(err))
		}
	}

	// Start booking activity consumer in a goroutine
	if len(cfg.KafkaConfig.Brokers) > 0 {
		activityConsumer := rentalEvents.NewBookingActivityConsumer(
			cfg.KafkaConfig.Brokers,
			cfg.KafkaGroupID,
			cfg.KafkaConfig.Topic,
			activityService,
			log,
		)
		defer func() { _ = activityConsumer.Close() }()

		go func() {
			log.Info("starting booking activity consumer")
			if err := activityConsumer.Start(ctx); err != nil && err != context.Canceled {
				log.Error("booking activity consumer error", zap.Error(err))
			}
		}()
	}

	// Setup Gin router
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()

	// Apply global middleware
	router.Use(middleware.RecoveryMiddleware(log))
	router.Use(middleware.LoggerMiddleware(log))
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.CORSMiddleware(cfg.CORSOrigins))
	router.Use(middleware.SecurityHeadersMiddleware())

	// Register health check routes
	healthHandler := health.NewHandler(db, serviceName)
	healthHandler.RegisterRoutes(router)

	// Register API routes
	api := router.Group("/api")
	authLimiter := middleware.RateLimiter(rdb, "auth", 5, time.Minute, log)
	authMW := middleware.AuthMiddleware(jwtManager, authService)

	handler.NewAuthHandler(authService).RegisterRoutes(api, authMW, authLimiter)
	handler.NewProductHandler(productService).RegisterRoutes(api, authMW)
	handler.NewBookingHandler(bookingService).RegisterRoutes(api, authMW)
	handler.NewAdminBookingHandler(bookingService, activityService, statsService).RegisterRoutes(api, authMW)
	handler.NewBlogHandler(blogService).RegisterRoutes(api, authMW)
	handler.NewSettingsHandler(settingsService).RegisterRoutes(api, authMW)

	// Create HTTP server
	srv := &http.Server{
		Addr:         cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		log.Info("HTTP server starting", zap.String("addr", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down " + serviceName + "...")

	// Cancel the consumer context
	cancel()

	// Shutdown HTTP server with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server forced shutdown", zap.Error(err))
	}

	log.Info(serviceName + " stopped")
}
