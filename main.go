package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/devmazaharul/fcommerce/cart"
	"github.com/devmazaharul/fcommerce/config"
	"github.com/devmazaharul/fcommerce/controllers"
	"github.com/devmazaharul/fcommerce/database"
	"github.com/devmazaharul/fcommerce/events"
	"github.com/devmazaharul/fcommerce/logger"
	"github.com/devmazaharul/fcommerce/middleware"
	aws_pkg "github.com/devmazaharul/fcommerce/pkg/aws"
	"github.com/devmazaharul/fcommerce/repository"
	"github.com/devmazaharul/fcommerce/routes"
	"github.com/devmazaharul/fcommerce/services"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("config load failed: " + err.Error())
	}

	log, err := logger.Initialize(cfg.AppEnv)
	if err != nil {
		panic("failed to initialize logger: " + err.Error())
	}
	defer func() { _ = logger.Log.Sync() }()

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	// --- Database ---
	db, err := database.ConnectPostgres(cfg.PostgresDSN(), log)
	if err != nil {
		log.Fatal("DB connection failed", zap.Error(err))
	}

	// --- Cart storage ---
	var cartStorage cart.Storage
	switch cfg.CartStorage {
	case "memory":
		log.Warn("Using in-memory cart storage; carts are lost on restart")
		cartStorage = repository.NewMemoryCartStorage()
	default:
		rdb, err := database.ConnectRedis(ctx, cfg.RedisURL, log)
		if err != nil {
			log.Fatal("Redis connection failed", zap.Error(err))
		}
		defer rdb.Close()
		cartStorage = repository.NewRedisCartStorage(rdb, cfg.CartTTL)
	}
	carts := cart.NewRegistry(cartStorage, cfg.CartMaxQty, cfg.CartIdleTTL, log)
	defer carts.Close()

	// --- AWS ---
	var (
		awsCfgLoaded bool
		presigner    services.ImagePresigner
		metrics      aws_pkg.MetricsRecorder = aws_pkg.NoopMetrics{}
	)
	awsCfg, err := aws_pkg.LoadAWSConfig(ctx)
	if err != nil {
		log.Warn("AWS config unavailable; S3 uploads, SNS events and metrics are disabled", zap.Error(err))
	} else {
		awsCfgLoaded = true
	}
	if awsCfgLoaded && cfg.S3Bucket != "" {
		presigner = aws_pkg.NewPresigner(awsCfg, cfg.S3Bucket)
	}
	if awsCfgLoaded && cfg.CloudWatchEnabled {
		metrics = aws_pkg.NewMetricsClient(awsCfg, cfg.MetricsNamespace)
	}

	// --- Events ---
	var publisher events.Publisher = events.NoopPublisher{}
	switch cfg.EventsBackend {
	case "kafka":
		publisher = events.NewKafkaPublisher(cfg.KafkaBrokers, cfg.OrderEventsTopic, log)
	case "sns":
		if !awsCfgLoaded {
			log.Fatal("EVENTS_BACKEND=sns requires AWS config")
		}
		publisher = events.NewSNSPublisher(aws_pkg.NewSNSClient(awsCfg), cfg.OrderSNSTopicArn, log)
	}
	defer publisher.Close()

	// --- Services ---
	tokens, err := services.NewTokenService(cfg.JWTSecret, cfg.SessionTTL, log)
	if err != nil {
		log.Fatal("Token service init failed", zap.Error(err))
	}
	productRepo := repository.NewGormProductRepository(db)
	orderRepo := repository.NewGormOrderRepository(db)
	adminRepo := repository.NewGormAdminRepository(db)

	productService := services.NewProductService(productRepo, log)
	orderService := services.NewOrderService(orderRepo, productRepo, publisher, metrics, log)
	authService := services.NewAuthService(adminRepo, tokens, log)
	uploadService := services.NewUploadService(presigner, cfg.S3PublicBaseURL, log)

	if err := authService.EnsureAdmin(ctx, cfg.AdminEmail, cfg.AdminPassword, ""); err != nil {
		log.Fatal("Bootstrap admin failed", zap.Error(err))
	}

	if err := controllers.RegisterValidators(); err != nil {
		log.Fatal("Validator registration failed", zap.Error(err))
	}

	// --- HTTP router ---
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(
		middleware.Recovery(log),
		middleware.RequestID(),
		middleware.RequestLogger(log),
		middleware.SecurityHeaders(),
		middleware.CORS(cfg.AllowedOrigins),
		middleware.RateLimit(middleware.NewRateLimiter(ctx, rate.Every(time.Minute/100), 50, 5*time.Minute)),
		middleware.RequestTimeout(30*time.Second),
	)
	if cfg.CloudWatchEnabled {
		r.Use(middleware.Metrics(metrics, "fcommerce"))
	}

	guardCfg := middleware.DefaultGuardConfig()
	guardCfg.VerifyTimeout = cfg.GuardVerifyTimeout
	guardCfg.CookieSecure = cfg.CookieSecure
	r.Use(middleware.RouteGuard(tokens, guardCfg, log))

	productController := controllers.NewProductController(productService, uploadService)
	cartController := controllers.NewCartController(carts, productService)
	checkoutController := controllers.NewCheckoutController(carts, orderService)
	authController := controllers.NewAuthController(authService, cfg.SessionTTL, cfg.CookieSecure)
	orderController := controllers.NewOrderController(orderService)

	routes.RegisterHealthRoutes(r)
	routes.RegisterStorefrontRoutes(r, productController, cartController, checkoutController, cfg.CartTTL, cfg.CookieSecure)
	routes.RegisterAdminRoutes(r, authController, orderController, productController)

	// --- HTTP server ---
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		log.Info("fcommerce started", zap.String("port", cfg.Port), zap.String("env", cfg.AppEnv))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("server failed", zap.Error(err))
		}
	}()

	// --- Graceful shutdown ---
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Initiating graceful shutdown...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server shutdown error", zap.Error(err))
	}
	if err := database.Close(db); err != nil {
		log.Error("Database close error", zap.Error(err))
	}
	log.Info("fcommerce stopped gracefully")
}
