package main

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/GuruprasadLokhande/Vastrashahi-Project/common/auth"
	apperrors "github.com/GuruprasadLokhande/Vastrashahi-Project/common/errors"
	applog "github.com/GuruprasadLokhande/Vastrashahi-Project/common/logger"
	commonmw "github.com/GuruprasadLokhande/Vastrashahi-Project/common/middleware"
	"github.com/GuruprasadLokhande/Vastrashahi-Project/controllers"
	"github.com/GuruprasadLokhande/Vastrashahi-Project/database"
	"github.com/GuruprasadLokhande/Vastrashahi-Project/media"
	"github.com/GuruprasadLokhande/Vastrashahi-Project/models"
	awspkg "github.com/GuruprasadLokhande/Vastrashahi-Project/pkg/aws"
	"github.com/GuruprasadLokhande/Vastrashahi-Project/repository"
	"github.com/GuruprasadLokhande/Vastrashahi-Project/routes"
	"github.com/GuruprasadLokhande/Vastrashahi-Project/sender"
	"github.com/GuruprasadLokhande/Vastrashahi-Project/services"
	sdkaws "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
	"gorm.io/gorm"
)

const serviceName = "vastrashahi-backend"

func main() {
	cfg, err := LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config load failed: %v\n", err)
		os.Exit(1)
	}

	// --- AWS + logging ---
	awsCfg, awsErr := awspkg.LoadAWSConfig(context.Background())
	var logSink io.Writer
	if cfg.CloudWatchEnabled && awsErr == nil {
		cw, err := awspkg.NewCloudWatchLogsClient(context.Background(), awsCfg, cfg.CloudWatchGroup, serviceName)
		if err != nil {
			fmt.Fprintf(os.Stderr, "cloudwatch logs disabled: %v\n", err)
		} else {
			logSink = cw
		}
	}
	logger := applog.Initialize(cfg.Env, logSink)
	defer logger.Sync()
	if awsErr != nil {
		logger.Warn("AWS config unavailable, AWS integrations disabled", zap.Error(awsErr))
	}
	awsReady := awsErr == nil

	// --- Databases ---
	mongoCtx, cancelMongo := context.WithTimeout(context.Background(), 10*time.Second)
	mongoClient, db, err := database.ConnectMongo(mongoCtx, cfg.MongoURI, cfg.MongoDBName)
	cancelMongo()
	if err != nil {
		logger.Fatal("MongoDB connection failed", zap.Error(err))
	}
	indexCtx, cancelIndex := context.WithTimeout(context.Background(), 30*time.Second)
	if err := database.EnsureIndexes(indexCtx, db); err != nil {
		logger.Warn("Failed to ensure indexes", zap.Error(err))
	}
	cancelIndex()

	cacheRedis := database.NewCacheClient(cfg.RedisURL)
	sessionRedis, err := database.NewSessionClient(cfg.RedisURL)
	if err != nil {
		logger.Fatal("Invalid REDIS_URL", zap.Error(err))
	}

	var (
		pg               *gorm.DB
		notificationLogs repository.NotificationLogRepository
	)
	if cfg.Postgres.Enabled() {
		pg, err = database.ConnectPostgres(cfg.Postgres, logger, &models.NotificationLog{})
		if err != nil {
			logger.Warn("Mail audit log disabled", zap.Error(err))
		} else {
			notificationLogs = repository.NewNotificationLogRepository(pg)
		}
	}

	// --- Infrastructure clients ---
	metrics := awspkg.NewMetricsClient(awsCfg, cfg.MetricsNamespace, cfg.CloudWatchEnabled && awsReady)

	var emailSender sender.EmailSender = sender.NewLogSender(logger)
	if cfg.SMTP.Configured() {
		smtpSender, err := sender.NewSMTPSender(cfg.SMTP)
		if err != nil {
			logger.Fatal("Failed to init SMTP sender", zap.Error(err))
		}
		emailSender = smtpSender
	} else {
		logger.Warn("SMTP not configured, mail is only logged")
	}
	mailer := sender.NewAuditedSender(emailSender, notificationLogs, logger)

	imageStore, presigner, err := newImageStore(cfg, awsCfg, awsReady)
	if err != nil {
		logger.Fatal("Failed to init image store", zap.Error(err))
	}

	var snsPublisher awspkg.SNSPublisher
	if cfg.OrderEventsTopicARN != "" && awsReady {
		snsPublisher = awspkg.NewSNSClient(awsCfg)
	}

	// --- Dependency injection ---
	adminRepo := repository.NewAdminRepository(db)
	userRepo := repository.NewUserRepository(db)
	productRepo := repository.NewProductRepository(db)
	categoryRepo := repository.NewCategoryRepository(db)
	brandRepo := repository.NewBrandRepository(db)
	orderRepo := repository.NewOrderRepository(db)
	couponRepo := repository.NewCouponRepository(db)
	reviewRepo := repository.NewReviewRepository(db)
	sessionStore := repository.NewSessionStore(sessionRedis)

	tokens := auth.NewTokenService(cfg.TokenSecret)
	sessions := services.NewSessions(tokens, sessionStore, adminRepo, userRepo, logger)

	productService := services.NewProductService(productRepo, categoryRepo, brandRepo, reviewRepo, logger)
	categoryService := services.NewCategoryService(categoryRepo, productRepo, logger)
	brandService := services.NewBrandService(brandRepo, logger)
	couponService := services.NewCouponService(couponRepo, logger)
	events := services.NewEventPublisher(snsPublisher, cfg.OrderEventsTopicARN, logger)
	orderService := services.NewOrderService(orderRepo, productRepo, couponService, sessionStore, events, metrics, logger)
	paymentService := services.NewPaymentService(cfg.StripeSecretKey, cfg.StripeCurrency, logger)
	reviewService := services.NewReviewService(reviewRepo, productRepo, userRepo, orderRepo, logger)
	adminService := services.NewAdminService(adminRepo, sessions, mailer, cfg.VerifySecret, cfg.AdminURL, logger)
	userService := services.NewUserService(userRepo, sessions, mailer, cfg.ProviderTokenSecret, cfg.ClientURL, logger)
	dashboardService := services.NewDashboardService(orderRepo, productRepo, userRepo, logger)

	cache := controllers.NewCacheManager(cacheRedis, metrics, logger)
	handlers := routes.Controllers{
		Admin:    controllers.NewAdminController(adminService, dashboardService),
		User:     controllers.NewUserController(userService, sessions),
		Category: controllers.NewCategoryController(categoryService, cache),
		Brand:    controllers.NewBrandController(brandService, cache),
		Product:  controllers.NewProductController(productService, cache),
		Order:    controllers.NewOrderController(orderService, paymentService, cache),
		Coupon:   controllers.NewCouponController(couponService),
		Review:   controllers.NewReviewController(reviewService, cache),
		Media:    controllers.NewMediaController(imageStore, presigner, metrics),
	}

	// --- HTTP server & middleware ---
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	limiter := commonmw.NewRateLimiter(rate.Limit(cfg.RateLimitRPS), cfg.RateLimitBurst, 10*time.Minute)
	stopSweeper := make(chan struct{})
	go limiter.Run(stopSweeper)

	httpMetrics := commonmw.NewHTTPMetrics(prometheus.DefaultRegisterer)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(commonmw.Timeout(30 * time.Second))
	r.Use(applog.RequestID(), commonmw.RequestLogger(logger))
	r.Use(commonmw.SecurityHeaders())
	r.Use(commonmw.CORS(cfg.AllowedOrigins))
	r.Use(commonmw.RateLimitMiddleware(limiter))
	r.Use(commonmw.MetricsMiddleware(metrics, serviceName))
	r.Use(commonmw.PrometheusMiddleware(httpMetrics))
	r.Use(apperrors.ErrorMiddleware())

	routes.RegisterRoutes(r, handlers, tokens)

	r.GET("/health", func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		if err := mongoClient.Ping(ctx, nil); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "DOWN", "error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "OK"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// --- Order mail worker ---
	workerCtx, stopWorker := context.WithCancel(context.Background())
	defer stopWorker()
	workerDone := make(chan struct{})
	if cfg.OrderEventsQueueURL != "" && awsReady {
		consumer := awspkg.NewSQSConsumer(awsCfg, cfg.OrderEventsQueueURL, logger)
		worker := services.NewOrderMailWorker(consumer, mailer, logger)
		go func() {
			defer close(workerDone)
			worker.Start(workerCtx)
		}()
	} else {
		close(workerDone)
	}

	srv := &http.Server{Addr: ":" + cfg.Port, Handler: r}
	go func() {
		logger.Info("Vastrashahi backend starting", zap.String("port", cfg.Port), zap.String("env", cfg.Env))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// --- Graceful shutdown ---
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutting down Vastrashahi backend...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server forced to shutdown", zap.Error(err))
	}

	stopWorker()
	select {
	case <-workerDone:
	case <-shutdownCtx.Done():
		logger.Warn("Order mail worker did not stop in time")
	}
	close(stopSweeper)

	if err := cacheRedis.Close(); err != nil {
		logger.Error("Failed to close cache redis", zap.Error(err))
	}
	if err := sessionRedis.Close(); err != nil {
		logger.Error("Failed to close session redis", zap.Error(err))
	}
	if err := database.ClosePostgres(pg); err != nil {
		logger.Error("Failed to close PostgreSQL", zap.Error(err))
	}
	if err := database.DisconnectMongo(mongoClient); err != nil {
		logger.Error("Failed to disconnect MongoDB", zap.Error(err))
	}

	logger.Info("Vastrashahi backend stopped gracefully")
}

// newImageStore picks the upload backend. Only the S3 store can presign direct uploads.
func newImageStore(cfg *Config, awsCfg sdkaws.Config, awsReady bool) (media.ImageStore, media.Presigner, error) {
	if cfg.ImageStore == "s3" {
		if !awsReady {
			return nil, nil, fmt.Errorf("IMAGE_STORE=s3 needs a working AWS config")
		}
		store := media.NewS3Store(awspkg.NewS3Client(awsCfg), cfg.S3)
		return store, store, nil
	}
	store, err := media.NewCloudinaryStore(cfg.Cloudinary)
	if err != nil {
		return nil, nil, err
	}
	return store, nil, nil
}
