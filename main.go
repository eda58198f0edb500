package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/rs/zerolog"
	"github.com/spf13/viper"
	"github.com/streadway/amqp"
	"gorm.io/gorm"

	"storerating/internal/config"
	"storerating/internal/database"
	"storerating/internal/handlers"
	"storerating/internal/metrics"
	"storerating/internal/middleware"
	"storerating/internal/models"
	"storerating/internal/repositories"
	"storerating/internal/services"
	"storerating/pkg/logger"
	"storerating/pkg/rabbitmq"
)

// application bundles the HTTP app with the resources it must release.
type application struct {
	app *fiber.App
	db  *gorm.DB
	mq  *rabbitmq.Client
}

// Close releases the database pool and the broker connection.
func (a *application) Close() error {
	var errs []error
	if a.mq != nil {
		errs = append(errs, a.mq.Close())
	}
	if a.db != nil {
		errs = append(errs, database.Close(a.db))
	}
	return errors.Join(errs...)
}

// newApplication wires configuration, storage, services and routes.
func newApplication(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*application, error) {
	db, err := database.Open(cfg.Database)
	if err != nil {
		return nil, err
	}
	a := &application{db: db}

	if err := database.Migrate(db); err != nil {
		_ = a.Close()
		return nil, err
	}

	// --- Initialize Repositories ---
	userRepo := repositories.NewGORMUserRepository(db)
	storeRepo := repositories.NewGORMStoreRepository(db)
	ratingRepo := repositories.NewGORMRatingRepository(db)

	// --- Initialize RabbitMQ Client ---
	var events services.EventPublisher
	if cfg.RabbitMQURL != "" {
		mq, err := rabbitmq.NewClient(rabbitmq.Config{URL: cfg.RabbitMQURL}, log)
		if err != nil {
			_ = a.Close()
			return nil, err
		}
		a.mq = mq
		events = mq
		if err := mq.Consume(ratingEventLogger(log)); err != nil {
			_ = a.Close()
			return nil, err
		}
	} else {
		log.Info().Msg("RABBITMQ_URL not set, rating events disabled")
	}

	// --- Initialize Services ---
	m := metrics.New()
	authService := services.NewAuthService(userRepo, services.AuthOptions{
		JWTSecret:        cfg.JWTSecret,
		TokenTTL:         cfg.JWTTTL,
		BcryptCost:       cfg.BcryptCost,
		AllowAdminSignup: cfg.AllowAdminSignup,
		Logger:           log,
	})
	storeService := services.NewStoreService(storeRepo, userRepo, ratingRepo, events, m, log)
	adminService := services.NewAdminService(userRepo, storeRepo, ratingRepo, cfg.BcryptCost, log)

	if cfg.Admin.Email != "" {
		created, err := adminService.EnsureAdmin(ctx, cfg.Admin.Name, cfg.Admin.Email, cfg.Admin.Password)
		if err != nil {
			_ = a.Close()
			return nil, fmt.Errorf("failed to bootstrap admin account: %w", err)
		}
		if created {
			log.Info().Str("email", cfg.Admin.Email).Msg("bootstrap admin account created")
		}
	}

	// --- Initialize Fiber App ---
	app := fiber.New(fiber.Config{
		AppName:               "storerating",
		ErrorHandler:          handlers.NewErrorHandler(log),
		DisableStartupMessage: true,
	})

	// --- Middleware ---
	app.Use(requestid.New())
	app.Use(middleware.RequestLogger(log, m))
	app.Use(recover.New())

	auth := middleware.AuthRequired(authService, log)

	// --- Routes ---
	handlers.NewHealthHandler(func() error { return database.Ping(db) }).RegisterRoutes(app)
	app.Get("/metrics", adaptor.HTTPHandler(m.Handler()))
	handlers.NewAuthHandler(authService).RegisterRoutes(app)
	handlers.NewStoreHandler(storeService).RegisterRoutes(app, auth, middleware.RequireRole(models.RoleStoreOwner))
	handlers.NewAdminHandler(adminService, storeService).RegisterRoutes(app, auth, middleware.RequireRole(models.RoleAdmin))

	a.app = app
	return a, nil
}

// ratingEventLogger acknowledges rating events after logging them.
func ratingEventLogger(log zerolog.Logger) func(amqp.Delivery) error {
	return func(msg amqp.Delivery) error {
		log.Info().
			Uint64("delivery_tag", msg.DeliveryTag).
			RawJSON("event", msg.Body).
			Msg("rating event received")
		return nil
	}
}

func main() {
	// --- Configuration ---
	if err := config.LoadDotEnv(); err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}
	v := viper.New()
	config.SetDefaults(v)
	v.AutomaticEnv()

	cfg, err := config.Load(v)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(logger.Options{
		ServiceName: "storerating",
		Level:       cfg.LogLevel,
		Format:      cfg.LogFormat,
	})

	startCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	a, err := newApplication(startCtx, cfg, log)
	cancel()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to start")
	}

	// Graceful shutdown handling
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		log.Info().Str("addr", cfg.AppPort).Msg("starting server")
		if err := a.app.Listen(cfg.AppPort); err != nil {
			log.Fatal().Err(err).Msg("server failed to start")
		}
	}()

	<-quit
	log.Info().Msg("shutting down server")

	if err := a.app.ShutdownWithTimeout(10 * time.Second); err != nil {
		log.Error().Err(err).Msg("error during Fiber shutdown")
	}
	if err := a.Close(); err != nil {
		log.Error().Err(err).Msg("error releasing resources")
	}
	log.Info().Msg("server gracefully stopped")
}
