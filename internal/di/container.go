package di

import (
	"github.com/u1krsh/EduPay/internal/auth"
	"github.com/u1krsh/EduPay/internal/events"
	"github.com/u1krsh/EduPay/internal/handler"
	"github.com/u1krsh/EduPay/internal/notify"
	"github.com/u1krsh/EduPay/internal/repository"
	"github.com/u1krsh/EduPay/internal/service"
	"github.com/u1krsh/EduPay/pkg/database"
	"github.com/u1krsh/EduPay/pkg/redis"
)

// Container holds all dependencies for the application
type Container struct {
	// Infrastructure
	DB       *database.PostgresDB
	Redis    *redis.Client
	Hub      *notify.Hub
	Producer *events.Producer

	// Auth subsystem
	Tokens *auth.TokenService
	Guard  *auth.LoginGuard

	// Repositories
	UserRepo         repository.UserRepository
	RefreshTokenRepo repository.RefreshTokenRepository
	SessionRepo      repository.SessionRepository
	PaymentRepo      repository.PaymentRepository
	NotificationRepo repository.NotificationRepository
	ActivityRepo     repository.ActivityLogRepository
	AnalyticsRepo    repository.AnalyticsRepository

	// Services
	ActivityService     *service.ActivityService
	NotificationService *service.NotificationService
	AuthService         service.AuthService
	SessionService      service.SessionService
	PaymentService      service.PaymentService
	AnalyticsService    *service.AnalyticsService

	// Handlers
	HealthHandler       *handler.HealthHandler
	AuthHandler         *handler.AuthHandler
	SessionHandler      *handler.SessionHandler
	PaymentHandler      *handler.PaymentHandler
	NotificationHandler *handler.NotificationHandler
	AnalyticsHandler    *handler.AnalyticsHandler
}

// ContainerConfig contains configuration for building the container
type ContainerConfig struct {
	DB         *database.PostgresDB
	Redis      *redis.Client
	Producer   *events.Producer
	Tokens     *auth.TokenService
	Guard      *auth.LoginGuard
	BcryptCost int
}

// NewContainer creates a new dependency injection container
func NewContainer(cfg *ContainerConfig) *Container {
	c := &Container{
		DB:       cfg.DB,
		Redis:    cfg.Redis,
		Hub:      notify.NewHub(),
		Producer: cfg.Producer,
		Tokens:   cfg.Tokens,
		Guard:    cfg.Guard,
	}

	pool := cfg.DB.Pool()

	// Repositories
	c.UserRepo = repository.NewPostgresUserRepository(pool)
	c.RefreshTokenRepo = repository.NewPostgresRefreshTokenRepository(pool)
	c.SessionRepo = repository.NewPostgresSessionRepository(pool)
	c.PaymentRepo = repository.NewPostgresPaymentRepository(pool)
	c.NotificationRepo = repository.NewPostgresNotificationRepository(pool)
	c.ActivityRepo = repository.NewPostgresActivityLogRepository(pool)
	c.AnalyticsRepo = repository.NewPostgresAnalyticsRepository(pool)

	// Services
	c.ActivityService = service.NewActivityService(c.ActivityRepo)
	c.NotificationService = service.NewNotificationService(c.NotificationRepo, c.Hub)
	c.AuthService = service.NewAuthService(
		c.UserRepo,
		c.RefreshTokenRepo,
		c.Tokens,
		c.Guard,
		c.ActivityService,
		&service.AuthServiceConfig{BcryptCost: cfg.BcryptCost},
	)
	c.SessionService = service.NewSessionService(
		c.SessionRepo,
		c.UserRepo,
		c.NotificationService,
		c.Producer,
		c.ActivityService,
	)
	c.PaymentService = service.NewPaymentService(
		c.PaymentRepo,
		c.SessionRepo,
		c.NotificationService,
		c.Producer,
		c.ActivityService,
	)
	c.AnalyticsService = service.NewAnalyticsService(c.AnalyticsRepo)

	// Handlers
	c.HealthHandler = handler.NewHealthHandler(c.DB, c.Redis)
	c.AuthHandler = handler.NewAuthHandler(c.AuthService)
	c.SessionHandler = handler.NewSessionHandler(c.SessionService)
	c.PaymentHandler = handler.NewPaymentHandler(c.PaymentService)
	c.NotificationHandler = handler.NewNotificationHandler(c.NotificationService)
	c.AnalyticsHandler = handler.NewAnalyticsHandler(c.AnalyticsService, c.ActivityService)

	return c
}
