package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"ecomstore/internal/config"
	"ecomstore/internal/database"
	"ecomstore/internal/logger"
	"ecomstore/internal/services"
	"ecomstore/pkg/rabbitmq"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

func main() {
	configFile := pflag.StringP("config", "c", "", "path to a config file (.env, .yaml, .json)")
	pflag.Parse()

	cfg, err := config.Load(viper.New(), *configFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(cfg.LogLevel, cfg.LogEncoding)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to build logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	if err := run(cfg, log); err != nil {
		log.Fatal("server stopped with error", zap.Error(err))
	}
}

func run(cfg *config.Config, log *zap.Logger) error {
	// --- Database ---
	db, err := database.Open(cfg, log)
	if err != nil {
		return err
	}
	defer func() {
		if err := database.Close(db); err != nil {
			log.Warn("failed to close database", zap.Error(err))
		}
	}()
	log.Info("database ready", zap.String("driver", cfg.DBDriver))

	// --- RabbitMQ (optional) ---
	// publisher stays a nil interface when events are disabled
	var publisher services.EventPublisher
	if cfg.EventsEnabled() {
		mqClient, err := rabbitmq.NewClient(rabbitmq.Config{
			URL:      cfg.RabbitMQURL,
			Exchange: cfg.RabbitMQExchange,
		}, log)
		if err != nil {
			return err
		}
		defer mqClient.Close()
		publisher = mqClient

		if cfg.RabbitMQConsume {
			if err := mqClient.ConsumeOrderEvents(rabbitmq.LogOrderEvent(log.Named("events"))); err != nil {
				log.Error("failed to start order event consumer", zap.Error(err))
			}
		}
	} else {
		log.Info("RABBITMQ_URL not set, order events disabled")
	}

	app := newApp(db, publisher, log)

	// --- HTTP server with graceful shutdown ---
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	listenErr := make(chan error, 1)
	go func() {
		log.Info("starting server", zap.String("addr", cfg.AppPort))
		listenErr <- app.Listen(cfg.AppPort)
	}()

	select {
	case err := <-listenErr:
		return fmt.Errorf("server failed to start: %w", err)
	case sig := <-quit:
		log.Info("shutting down server", zap.String("signal", sig.String()))
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := app.ShutdownWithContext(ctx); err != nil {
		log.Error("error during shutdown", zap.Error(err))
	}
	log.Info("server gracefully stopped")
	return nil
}
