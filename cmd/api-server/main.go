package main

import (
	"context"
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/tutorlink/tutorlink-api/api/swagger"
	"github.com/tutorlink/tutorlink-api/internal/dto"
	"github.com/tutorlink/tutorlink-api/internal/handler"
	"github.com/tutorlink/tutorlink-api/internal/middleware"
	"github.com/tutorlink/tutorlink-api/internal/models"
	"github.com/tutorlink/tutorlink-api/internal/repository"
	"github.com/tutorlink/tutorlink-api/internal/service"
	"github.com/tutorlink/tutorlink-api/pkg/cache"
	"github.com/tutorlink/tutorlink-api/pkg/config"
	"github.com/tutorlink/tutorlink-api/pkg/database"
	"github.com/tutorlink/tutorlink-api/pkg/logger"
	corsmiddleware "github.com/tutorlink/tutorlink-api/pkg/middleware/cors"
	reqidmiddleware "github.com/tutorlink/tutorlink-api/pkg/middleware/requestid"
)

// @title TutorLink API
// @version 1.0.0
// @description Tutoring marketplace booking and availability service
// @BasePath /api/v1
// @schemes http

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect to postgres", "error", err)
	}
	defer db.Close()

	if cfg.Database.AutoMigrate {
		if err := database.Migrate(db, cfg.Database); err != nil {
			logr.Sugar().Fatalw("failed to run migrations", "error", err)
		}
	}

	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		logr.Sugar().Warnw("redis unavailable, calendar caching disabled", "error", err)
		redisClient = nil
	}

	// Repositories.
	userRepo := repository.NewUserRepository(db)
	tutorRepo := repository.NewTutorRepository(db)
	availabilityRepo := repository.NewAvailabilityRepository(db)
	bookingRepo := repository.NewBookingRepository(db)
	walletRepo := repository.NewWalletRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)
	cacheRepo := repository.NewCacheRepository(redisClient, logr)

	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		if err := dto.RegisterValidations(v); err != nil {
			logr.Sugar().Fatalw("failed to register request validators", "error", err)
		}
	}

	// Services.
	metricsSvc := service.NewMetricsService()
	validate := validator.New()

	authSvc := service.NewAuthService(userRepo, validate, logr, service.AuthConfig{
		AccessTokenSecret:  cfg.JWT.Secret,
		AccessTokenExpiry:  cfg.JWT.Expiration,
		RefreshTokenExpiry: cfg.JWT.RefreshExpiration,
		Issuer:             "tutorlink-api",
	})

	calendarSvc := service.NewCalendarService(availabilityRepo, bookingRepo, cacheRepo, cfg.Booking.CalendarCacheTTL, metricsSvc, logr)
	availabilitySvc := service.NewAvailabilityService(availabilityRepo, cacheRepo, logr)
	tutorSvc := service.NewTutorService(tutorRepo, logr)
	walletSvc := service.NewWalletService(walletRepo, cfg.Wallet.Currency, cfg.Wallet.CommissionRate, cfg.Wallet.PlatformAccountID, logr)

	notificationSvc := service.NewNotificationService(notificationRepo, logr)
	notifyQueue := notificationSvc.AttachQueue(cfg.Booking.NotifyWorkers, cfg.Booking.NotifyBuffer)
	notifyQueue.Start(context.Background())
	defer notifyQueue.Stop()

	bookingSvc := service.NewBookingService(bookingRepo, tutorRepo, userRepo, calendarSvc, walletSvc, notificationSvc, cacheRepo, metricsSvc, logr)
	bookingSvc.SetRecentLimit(cfg.Booking.RecentLimit)
	exportSvc := service.NewExportService(bookingRepo, userRepo, cfg.Exports.Enabled, logr)

	// Handlers.
	authHandler := handler.NewAuthHandler(authSvc)
	tutorHandler := handler.NewTutorHandler(tutorSvc)
	availabilityHandler := handler.NewAvailabilityHandler(availabilitySvc)
	calendarHandler := handler.NewCalendarHandler(calendarSvc)
	bookingHandler := handler.NewBookingHandler(bookingSvc)
	walletHandler := handler.NewWalletHandler(walletSvc)
	notificationHandler := handler.NewNotificationHandler(notificationSvc)
	exportHandler := handler.NewExportHandler(exportSvc)
	metricsHandler := handler.NewMetricsHandler(metricsSvc)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsSvc))

	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", func(c *gin.Context) {
		if err := db.PingContext(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "db unavailable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})
	r.GET("/metrics", metricsHandler.Prometheus)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)

	auth := api.Group("/auth")
	{
		auth.POST("/register", authHandler.Register)
		auth.POST("/login", authHandler.Login)
		auth.POST("/refresh", authHandler.Refresh)
		auth.POST("/logout", middleware.JWT(authSvc), authHandler.Logout)
	}

	tutors := api.Group("/tutors")
	{
		tutors.GET("", tutorHandler.Search)
		tutors.GET("/me", middleware.JWT(authSvc), middleware.RequireRoles(models.RoleTutor), tutorHandler.MyProfile)
		tutors.PUT("/me", middleware.JWT(authSvc), middleware.RequireRoles(models.RoleTutor), tutorHandler.UpsertProfile)
		tutors.GET("/:id/calendar", middleware.JWT(authSvc), calendarHandler.Month)
	}

	availability := api.Group("/availability", middleware.JWT(authSvc), middleware.RequireRoles(models.RoleTutor))
	{
		availability.GET("", availabilityHandler.Get)
		availability.PUT("", availabilityHandler.Update)
	}

	bookings := api.Group("/bookings", middleware.JWT(authSvc))
	{
		bookings.POST("", middleware.RequireRoles(models.RoleStudent), bookingHandler.Create)
		bookings.GET("", bookingHandler.ListMine)
		bookings.GET("/history", middleware.RequireRoles(models.RoleTutor), bookingHandler.History)
		bookings.GET("/upcoming", middleware.RequireRoles(models.RoleTutor), bookingHandler.Upcoming)
		bookings.GET("/:id", bookingHandler.Get)
		bookings.POST("/:id/respond", middleware.RequireRoles(models.RoleTutor), bookingHandler.Respond)
		bookings.POST("/:id/cancel", bookingHandler.Cancel)
		bookings.POST("/:id/reschedule", middleware.RequireRoles(models.RoleStudent), bookingHandler.RequestReschedule)
		bookings.POST("/:id/reschedule/respond", middleware.RequireRoles(models.RoleTutor), bookingHandler.RespondReschedule)
	}

	wallet := api.Group("/wallet", middleware.JWT(authSvc))
	{
		wallet.GET("", walletHandler.Balance)
		wallet.POST("/topup", walletHandler.TopUp)
		wallet.GET("/transactions", walletHandler.Transactions)
	}

	notifications := api.Group("/notifications", middleware.JWT(authSvc))
	{
		notifications.GET("", notificationHandler.List)
		notifications.POST("/:id/read", notificationHandler.MarkRead)
	}

	admin := api.Group("/admin", middleware.JWT(authSvc), middleware.RequireRoles(models.RoleAdmin))
	{
		admin.GET("/tutors/pending", tutorHandler.PendingApproval)
		admin.POST("/tutors/:id/approval", tutorHandler.Decide)
		admin.GET("/tutors/:id/bookings/export", exportHandler.BookingHistory)
	}

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}
