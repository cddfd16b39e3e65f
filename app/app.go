package app

import (
	"errors"
	"fmt"
	"jobify-api/internal/auth"
	"jobify-api/internal/config"
	"jobify-api/internal/controller"
	"jobify-api/internal/gateway/stripeapi"
	"jobify-api/internal/repo"
	"jobify-api/internal/service"
	"jobify-api/internal/worker"
	"jobify-api/pkg/http_server"
	"jobify-api/pkg/postgres"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/golang-migrate/migrate/v4"
	pgmigrate "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/labstack/echo"
)

func runMigrations(pg *postgres.Postgres, sourceUrl string, databaseName string, logger *slog.Logger) error {
	driver, err := pgmigrate.WithInstance(pg.Database, &pgmigrate.Config{DatabaseName: databaseName})
	if err != nil {
		return err
	}

	migrations, err := migrate.NewWithDatabaseInstance(sourceUrl, databaseName, driver)
	if err != nil {
		return err
	}

	if err := migrations.Up(); err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			logger.Info("no change made by migration scripts")
			return nil
		}

		return err
	}

	return nil
}

func Run(configPath string, envFile string) error {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg, err := config.Load(configPath, envFile)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	logger.Info("connecting database")
	postgresDB, err := postgres.NewDB(cfg.PostgresConn)
	if err != nil {
		return err
	}
	defer postgresDB.Close()

	logger.Info("running migrations", slog.String("source", cfg.MigrationsPath))
	if err := runMigrations(postgresDB, cfg.MigrationsPath, cfg.PostgresDatabase, logger); err != nil {
		return fmt.Errorf("migrations: %w", err)
	}

	tokens := auth.NewTokens(cfg.JWTSecret, cfg.TokenDuration)
	repositories := repo.NewRepositories(postgresDB)
	services := service.NewServices(repositories, service.Dependencies{
		Payments:       stripeapi.New(cfg.Stripe.SecretKey),
		Tokens:         tokens,
		Logger:         logger,
		PublicBaseURL:  cfg.PublicBaseURL,
		ApplicationFee: cfg.Stripe.ApplicationFee,
	})

	if cfg.Reconcile.Schedule != "" {
		reconciler, err := worker.NewReconcileWorker(cfg.Reconcile.Schedule, cfg.Reconcile.BatchSize,
			repositories.ContractPayment, services.Payment, logger)
		if err != nil {
			return err
		}
		reconciler.Start()
		defer reconciler.Stop()
		logger.Info("payment reconciliation scheduled", slog.String("schedule", cfg.Reconcile.Schedule))
	}

	handler := echo.New()
	controller.SetupRoutesHandlers(handler, services, tokens, logger)

	logger.Info("starting server", slog.String("address", cfg.ServerAddress))
	httpServer := http_server.New(handler, cfg.ServerAddress,
		http_server.WriteTimeout(cfg.WriteTimeout),
		http_server.ShutdownTimeout(cfg.ShutdownTimeout),
	)

	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt, syscall.SIGTERM)

	select {
	case s := <-interrupt:
		logger.Info("got signal", slog.String("signal", s.String()))
	case err := <-httpServer.Notify():
		logger.Error("server stopped", slog.Any("error", err))
	}

	logger.Info("shutting down")
	if err := httpServer.Shutdown(); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	logger.Info("successful shutdown")

	return nil
}
