package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/u1krsh/EduPay/internal/auth"
	"github.com/u1krsh/EduPay/internal/db"
	"github.com/u1krsh/EduPay/internal/di"
	"github.com/u1krsh/EduPay/internal/domain"
	"github.com/u1krsh/EduPay/internal/events"
	"github.com/u1krsh/EduPay/internal/service"
	"github.com/u1krsh/EduPay/pkg/config"
	"github.com/u1krsh/EduPay/pkg/database"
	"github.com/u1krsh/EduPay/pkg/logger"
	"github.com/u1krsh/EduPay/pkg/redis"
	"github.com/u1krsh/EduPay/pkg/telemetry"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logLevel := "info"
	if cfg.App.Debug {
		logLevel = "debug"
	}
	logCfg := &logger.Config{
		Level:       logLevel,
		ServiceName: cfg.App.Name,
		Development: cfg.IsDevelopment(),
	}
	if err := logger.Init(logCfg); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	appLog := logger.Get()
	appLog.Info("Starting EduPay API...")

	ctx := context.Background()

	// Telemetry
	if _, err := telemetry.Init(ctx, &telemetry.Config{
		Enabled:       cfg.OTel.Enabled,
		ServiceName:   cfg.OTel.ServiceName,
		Environment:   cfg.App.Environment,
		CollectorAddr: cfg.OTel.CollectorAddr,
		SampleRatio:   cfg.OTel.SampleRatio,
	}); err != nil {
		appLog.Fatal("Telemetry init failed", zap.Error(err))
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = telemetry.Shutdown(shutdownCtx)
	}()

	// Database
	pg, err := database.NewPostgres(ctx, &database.PostgresConfig{
		Host:            cfg.Database.Host,
		Port:            cfg.Database.Port,
		User:            cfg.Database.User,
		Password:        cfg.Database.Password,
		Database:        cfg.Database.DBName,
		SSLMode:         cfg.Database.SSLMode,
		MaxConns:        cfg.Database.MaxConns,
		MinConns:        cfg.Database.MinConns,
		MaxConnLifetime: cfg.Database.ConnMaxLifetime,
		MaxConnIdleTime: cfg.Database.ConnMaxIdleTime,
		ConnectTimeout:  5 * time.Second,
		MaxRetries:      3,
		RetryInterval:   time.Second,
		EnableTracing:   cfg.OTel.Enabled,
	})
	if err != nil {
		appLog.Fatal("Database connection failed", zap.Error(err))
	}
	defer pg.Close()

	if err := db.RunMigrations(ctx, pg.Pool()); err != nil {
		appLog.Fatal("Migrations failed", zap.Error(err))
	}
	appLog.Info("Database ready")

	// Redis, only when something needs it
	var redisClient *redis.Client
	if cfg.Redis.Enabled {
		redisClient, err = redis.NewClient(ctx, &redis.Config{
			Host:         cfg.Redis.Host,
			Port:         cfg.Redis.Port,
			Password:     cfg.Redis.Password,
			DB:           cfg.Redis.DB,
			PoolSize:     cfg.Redis.PoolSize,
			MinIdleConns: cfg.Redis.MinIdleConns,
			DialTimeout:  cfg.Redis.DialTimeout,
			ReadTimeout:  cfg.Redis.ReadTimeout,
			WriteTimeout: cfg.Redis.WriteTimeout,
		})
		if err != nil {
			appLog.Fatal("Redis connection failed", zap.Error(err))
		}
		defer redisClient.Close()
		appLog.Info("Redis connected")
	}

	// Kafka producer, optional
	var producer *events.Producer
	if cfg.Kafka.Enabled {
		producer, err = events.NewProducer(ctx, &events.ProducerConfig{
			Brokers:  cfg.Kafka.Brokers,
			ClientID: cfg.Kafka.ClientID,
		})
		if err != nil {
			appLog.Fatal("Kafka connection failed", zap.Error(err))
		}
		defer producer.Close()
		appLog.Info("Kafka producer ready")
	}

	// Auth subsystem: token service, login guard, rate limiters. State
	// stores are redis-backed when available so lockouts and windows
	// survive restarts and span replicas.
	tokens := auth.NewTokenService(&auth.TokenConfig{
		AccessSecret:    cfg.JWT.AccessSecret,
		RefreshSecret:   cfg.JWT.RefreshSecret,
		AccessTokenTTL:  cfg.JWT.AccessTokenTTL,
		RefreshTokenTTL: cfg.JWT.RefreshTokenTTL,
		Issuer:          cfg.JWT.Issuer,
		Audience:        cfg.JWT.Audience,
	})

	const janitorInterval = time.Minute

	var attemptStore auth.AttemptStore
	if redisClient != nil {
		attemptStore = auth.NewRedisAttemptStore(redisClient, "login:")
	} else {
		memStore := auth.NewMemoryAttemptStore(janitorInterval)
		defer memStore.Stop()
		attemptStore = memStore
	}
	guard := auth.NewLoginGuard(attemptStore, auth.GuardConfig{
		MaxAttempts:     cfg.Login.MaxAttempts,
		LockoutDuration: cfg.Login.LockoutDuration,
	})

	newWindowStore := func(prefix string) auth.WindowStore {
		if cfg.RateLimit.UseRedis && redisClient != nil {
			return auth.NewRedisWindowStore(redisClient, prefix)
		}
		memStore := auth.NewMemoryWindowStore(janitorInterval)
		return memStore
	}
	apiLimiter := auth.NewLimiter(newWindowStore("rl:api:"), cfg.RateLimit.Max, cfg.RateLimit.Window)
	authLimiter := auth.NewLimiter(newWindowStore("rl:auth:"), cfg.RateLimit.AuthMax, cfg.RateLimit.AuthWindow)

	container := di.NewContainer(&di.ContainerConfig{
		DB:         pg,
		Redis:      redisClient,
		Producer:   producer,
		Tokens:     tokens,
		Guard:      guard,
		BcryptCost: cfg.Login.BcryptCost,
	})

	// Public registration only creates professors; the initial admin account
	// is seeded from configuration.
	if cfg.Admin.Email != "" {
		if err := container.AuthService.EnsureAdmin(ctx, cfg.Admin.Email, cfg.Admin.Password, cfg.Admin.Name); err != nil {
			appLog.Fatal("Admin seeding failed", zap.Error(err))
		}
	}

	// Background sweep of expired refresh token rows
	janitorCtx, stopJanitors := context.WithCancel(ctx)
	defer stopJanitors()
	go service.NewTokenJanitor(container.RefreshTokenRepo, time.Hour).Start(janitorCtx)

	if cfg.IsDevelopment() {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	if cfg.OTel.Enabled {
		router.Use(telemetry.TracingMiddleware(cfg.OTel.ServiceName))
	}
	if cfg.RateLimit.Enabled {
		router.Use(auth.RateLimit(apiLimiter))
	}

	router.GET("/health", container.HealthHandler.Health)
	router.GET("/ready", container.HealthHandler.Ready)

	v1 := router.Group("/api/v1")
	{
		authGroup := v1.Group("/auth")
		{
			// Public endpoints get the stricter auth limiter on top of the
			// global one
			public := authGroup.Group("")
			if cfg.RateLimit.Enabled {
				public.Use(auth.RateLimit(authLimiter))
			}
			public.POST("/register", container.AuthHandler.Register)
			public.POST("/login", container.AuthHandler.Login)
			public.POST("/refresh", container.AuthHandler.Refresh)
			public.POST("/logout", container.AuthHandler.Logout)

			protected := authGroup.Group("")
			protected.Use(auth.Authenticate(tokens))
			{
				protected.GET("/me", container.AuthHandler.Me)
				protected.POST("/logout-all", container.AuthHandler.LogoutAll)
				protected.POST("/change-password", container.AuthHandler.ChangePassword)
			}
		}

		professors := v1.Group("/professors")
		professors.Use(auth.Authenticate(tokens), auth.Authorize(domain.RoleAdmin))
		{
			professors.GET("", container.AuthHandler.Professors)
		}

		sessions := v1.Group("/sessions")
		sessions.Use(auth.Authenticate(tokens))
		{
			sessions.POST("", container.SessionHandler.Create)
			sessions.GET("", container.SessionHandler.List)
			sessions.GET("/:id", container.SessionHandler.Get)
			sessions.PUT("/:id", container.SessionHandler.Update)
			sessions.DELETE("/:id", container.SessionHandler.Delete)

			admin := sessions.Group("")
			admin.Use(auth.Authorize(domain.RoleAdmin))
			{
				admin.POST("/:id/approve", container.SessionHandler.Approve)
				admin.POST("/:id/reject", container.SessionHandler.Reject)
			}
		}

		payments := v1.Group("/payments")
		payments.Use(auth.Authenticate(tokens))
		{
			payments.GET("", container.PaymentHandler.List)
			payments.GET("/:id", container.PaymentHandler.Get)

			admin := payments.Group("")
			admin.Use(auth.Authorize(domain.RoleAdmin))
			{
				admin.POST("", container.PaymentHandler.Create)
				admin.POST("/:id/complete", container.PaymentHandler.MarkPaid)
			}
		}

		notifications := v1.Group("/notifications")
		notifications.Use(auth.Authenticate(tokens))
		{
			notifications.GET("", container.NotificationHandler.List)
			notifications.GET("/unread-count", container.NotificationHandler.UnreadCount)
			notifications.GET("/stream", container.NotificationHandler.Stream)
			notifications.POST("/:id/read", container.NotificationHandler.MarkRead)
			notifications.POST("/read-all", container.NotificationHandler.MarkAllRead)
		}

		analytics := v1.Group("/analytics")
		analytics.Use(auth.Authenticate(tokens))
		{
			analytics.GET("/earnings", container.AnalyticsHandler.Earnings)

			admin := analytics.Group("")
			admin.Use(auth.Authorize(domain.RoleAdmin))
			{
				admin.GET("/overview", container.AnalyticsHandler.Overview)
				admin.GET("/activity", container.AnalyticsHandler.Activity)
			}
		}
	}

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadTimeout:       cfg.Server.ReadTimeout,
		WriteTimeout:      cfg.Server.WriteTimeout,
		IdleTimeout:       cfg.Server.IdleTimeout,
		ReadHeaderTimeout: 2 * time.Second,
	}

	go func() {
		appLog.Info("EduPay API listening", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			appLog.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	appLog.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		appLog.Fatal("Server forced to shutdown", zap.Error(err))
	}

	appLog.Info("Server exited gracefully")
}
