package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"frangapp/internal/application"
	"frangapp/internal/config"
	"frangapp/internal/db"
	"frangapp/internal/deposit"
	"frangapp/internal/email"
	"frangapp/internal/locale"
	"frangapp/internal/logger"
	"frangapp/internal/payment"
	"frangapp/internal/plan"
	"frangapp/internal/server"
	"frangapp/internal/settings"
	"frangapp/internal/user"

	"github.com/redis/go-redis/v9"
)

// @title FrangApp API
// @version 1.0
// @description Balance top-ups for user applications.
// @host localhost:8080
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	logger.Init()
	logger.Info("Starting FrangApp")

	cfg, err := config.Load()
	if err != nil {
		logger.Fatalf("Failed to load config: %v", err)
	}

	database, err := db.Connect(cfg.DatabaseURL)
	if err != nil {
		logger.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.Close()
	logger.Info("Database connected")

	if err := db.RunMigrations(database, cfg.MigrationsPath); err != nil {
		logger.Fatalf("Failed to run migrations: %v", err)
	}
	logger.Info("Migrations completed")

	rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	defer rdb.Close()

	catalog, err := locale.NewCatalog(cfg.DefaultLocale)
	if err != nil {
		logger.Fatalf("Failed to load language packs: %v", err)
	}

	store := settings.NewCachedStore(settings.NewRepository(database), rdb, cfg.SettingsCacheTTL)

	emailService := email.New(email.Config{
		From:     cfg.EmailFrom,
		FromName: cfg.EmailFromName,
		SMTPHost: cfg.SMTPHost,
		SMTPPort: cfg.SMTPPort,
		SMTPUser: cfg.SMTPUser,
		SMTPPass: cfg.SMTPPass,
		OpsEmail: cfg.OpsEmail,
	}, rdb)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go emailService.Start(ctx)

	gateway := payment.NewStripeGateway(store, payment.StripeConfig{
		SecretKey: cfg.StripeSecretKey,
		Timeout:   cfg.PaymentTimeout,
	})

	users := user.NewRepository(database)
	depositService := deposit.NewService(deposit.Deps{
		Ledger:     deposit.NewLedger(database),
		Gateway:    gateway,
		Settings:   store,
		Translator: catalog,
		Notifier:   emailService,
		Users:      users,
	})

	handlers := server.Handlers{
		User:          user.NewHandler(user.NewService(users, cfg.JWTSecret, cfg.JWTRefreshSecret)),
		Plan:          plan.NewHandler(plan.NewService(plan.NewRepository(database), store)),
		Application:   application.NewHandler(application.NewRepository(database)),
		Deposit:       deposit.NewHandler(depositService, catalog),
		Configuration: locale.NewHandler(locale.NewService(catalog, store, cfg.BaseURL), catalog),
		Settings:      settings.NewHandler(store),
	}

	health := func(ctx context.Context) error {
		if err := database.PingContext(ctx); err != nil {
			return err
		}
		return rdb.Ping(ctx).Err()
	}

	srv := server.New(cfg, catalog, handlers, emailService, health)

	serverErrChan := make(chan error, 1)
	go func() {
		logger.Infof("Server starting on port %s", cfg.Port)
		if err := srv.Start(cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErrChan <- err
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case sig := <-sigChan:
		logger.Infof("Received signal: %v", sig)
	case err := <-serverErrChan:
		logger.Errorf("Server error: %v", err)
	}

	logger.Info("Shutting down gracefully...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Errorf("Error during server shutdown: %v", err)
	}
	cancel()

	logger.Info("Server stopped")
}
