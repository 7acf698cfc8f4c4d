package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"storerate/internal/config"
	"storerate/internal/database"
	"storerate/internal/handlers"
	"storerate/internal/logging"
	"storerate/internal/maintenance"
	"storerate/internal/metrics"
	"storerate/internal/middleware"
	"storerate/internal/notify"
	"storerate/internal/repositories"
	"storerate/internal/services"
	"storerate/pkg/mailer"
	"storerate/pkg/rabbitmq"
)

// App is the HTTP application together with the pieces background jobs need.
type App struct {
	Fiber   *fiber.App
	Users   repositories.UserRepository
	Limiter *middleware.RateLimiter
}

// NewApp wires repositories, services and handlers onto a new fiber app.
// checks are reported by /api/health/ready in addition to the database.
func NewApp(cfg *config.Config, db *gorm.DB, log *logrus.Logger, notifier handlers.ResetNotifier, checks map[string]handlers.Pinger) *App {
	// --- Repositories ---
	userRepo := repositories.NewGORMUserRepository(db)
	storeRepo := repositories.NewGORMStoreRepository(db)
	ratingRepo := repositories.NewGORMRatingRepository(db)

	// --- Services ---
	hasher := services.NewBcryptHasher(cfg.BcryptCost)
	tokens := services.NewTokenManager(cfg.JWTSecret, cfg.JWTExpires)
	authService := services.NewAuthService(userRepo, storeRepo, hasher, tokens, cfg.ResetTokenTTL)
	userService := services.NewUserService(userRepo, storeRepo, ratingRepo, hasher)
	storeService := services.NewStoreService(storeRepo, userRepo, ratingRepo)
	ratingService := services.NewRatingService(ratingRepo, storeRepo)
	dashboardService := services.NewDashboardService(userRepo, storeRepo, ratingRepo)

	// --- Handlers ---
	validate := handlers.NewValidator()
	readiness := map[string]handlers.Pinger{
		"database": func(ctx context.Context) error { return database.Ping(ctx, db) },
	}
	for name, check := range checks {
		readiness[name] = check
	}

	app := fiber.New(fiber.Config{
		AppName:      "storerate",
		ErrorHandler: handlers.ErrorHandler(log),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	})

	// --- Middleware ---
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(logger.New(logger.Config{
		Format: "${time} ${locals:requestid} ${status} - ${latency} ${method} ${path}\n",
		Output: log.Out,
	}))
	app.Use(helmet.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.FrontendURL,
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
	}))
	app.Use(metrics.Middleware())

	app.Get("/metrics", metrics.Handler())

	// --- API Routes ---
	limiter := middleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst, log)
	api := app.Group("/api")
	handlers.NewHealthHandler(readiness).RegisterRoutes(api)
	handlers.NewAuthHandler(authService, notifier, validate, log).RegisterRoutes(api, limiter.Handler())
	handlers.NewUserHandler(userService, authService, validate).RegisterRoutes(api)
	handlers.NewStoreHandler(storeService, authService, validate).RegisterRoutes(api)
	handlers.NewRatingHandler(ratingService, authService, validate).RegisterRoutes(api)
	handlers.NewDashboardHandler(dashboardService, authService).RegisterRoutes(api)

	app.Use(handlers.NotFound)

	return &App{Fiber: app, Users: userRepo, Limiter: limiter}
}

func main() {
	// --- Configuration ---
	cfg, err := config.Load()
	if err != nil {
		logrus.Fatalf("Failed to load configuration: %v", err)
	}
	log := logging.New(cfg.LogLevel, cfg.LogFormat)

	// --- Database ---
	db, err := database.Open(cfg.DBDriver, cfg.DatabaseDSN, log)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.Close(db)
	if err := database.Migrate(db); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// --- Mail delivery ---
	var m mailer.Mailer = mailer.NewLogMailer(log)
	if cfg.SMTP.Host != "" {
		m = mailer.NewSMTPMailer(mailer.SMTPConfig{
			Host:     cfg.SMTP.Host,
			Port:     cfg.SMTP.Port,
			Username: cfg.SMTP.Username,
			Password: cfg.SMTP.Password,
			From:     cfg.SMTP.From,
		})
	}
	deliverer := notify.NewDeliverer(m, cfg.FrontendURL, cfg.ResetTokenTTL)

	checks := map[string]handlers.Pinger{}
	direct := notify.NewDirectNotifier(deliverer, log)
	var notifier handlers.ResetNotifier = direct

	// With a broker, reset emails go through the queue and a consumer in this
	// process sends them.
	if cfg.RabbitMQURL != "" {
		mqClient, err := rabbitmq.NewClient(rabbitmq.Config{URL: cfg.RabbitMQURL, Queue: cfg.MailQueue}, log)
		if err != nil {
			log.Fatalf("Failed to initialize RabbitMQ client: %v", err)
		}
		defer mqClient.Close()
		notifier = notify.NewQueueNotifier(mqClient)
		checks["rabbitmq"] = mqClient.Ping

		worker := notify.NewWorker(deliverer, log)
		go func() {
			if err := worker.Run(ctx, mqClient); err != nil {
				log.WithError(err).Error("mail consumer stopped")
			}
		}()
	}

	application := NewApp(cfg, db, log, notifier, checks)

	// --- Maintenance ---
	scheduler, err := maintenance.NewScheduler(cfg.MaintenanceSchedule, application.Users, application.Limiter, log)
	if err != nil {
		log.Fatalf("Failed to configure maintenance: %v", err)
	}
	scheduler.Start()
	defer scheduler.Stop()

	// --- Start HTTP Server ---
	go func() {
		log.Infof("Starting server on port %s", cfg.AppPort)
		if err := application.Fiber.Listen(cfg.AppPort); err != nil {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	<-ctx.Done()
	log.Info("Shutting down server...")

	if err := application.Fiber.ShutdownWithTimeout(10 * time.Second); err != nil {
		log.Errorf("Error during Fiber shutdown: %v", err)
	}
	direct.Wait()
	log.Info("Server gracefully stopped")
}
