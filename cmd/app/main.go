package main

import (
	"context"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/TemirB/orders-cache/internal/application"
	"github.com/TemirB/orders-cache/internal/application/service"
	"github.com/TemirB/orders-cache/internal/application/subscriber"
	"github.com/TemirB/orders-cache/internal/config"
	"github.com/TemirB/orders-cache/internal/database"
	"github.com/TemirB/orders-cache/internal/httpapi"
	"github.com/TemirB/orders-cache/internal/kafka"
	"github.com/TemirB/orders-cache/internal/observability"
	"github.com/TemirB/orders-cache/internal/rabbitmq"
)

const recentObservations = 256

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger, err := newLogger(cfg.Env, cfg.LogLevel)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pool, err := database.Connect(ctx, cfg.DSN(), logger.Named("postgres"))
	if err != nil {
		logger.Fatal("Can't connect to postgres", zap.Error(err))
	}
	defer pool.Close()

	repo := database.New(pool)
	if err := repo.Migrate(ctx); err != nil {
		logger.Fatal("Can't migrate orders table", zap.Error(err))
	}

	bootCtx, cancel := context.WithTimeout(ctx, cfg.BootstrapTimeout)
	orders, err := application.Bootstrap(bootCtx, repo, logger)
	cancel()
	if err != nil {
		logger.Fatal("Can't restore cache", zap.Error(err))
	}

	sub, closer, err := subscribe(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("Can't subscribe to channel",
			zap.String("driver", cfg.Bus.Driver),
			zap.String("channel", cfg.Bus.Channel),
			zap.Error(err),
		)
	}
	defer closer.Close()

	metrics := observability.NewInmem(recentObservations)
	server := httpapi.New(
		service.New(orders, logger.Named("service"), metrics),
		logger.Named("http"),
		metrics,
	)
	server.ShutdownTimeout = cfg.ShutdownTimeout

	ln, err := server.Listen(cfg.HTTPAddr)
	if err != nil {
		logger.Fatal("Can't bind query interface", zap.String("addr", cfg.HTTPAddr), zap.Error(err))
	}

	app := &application.App{
		Subscription: sub,
		Handler:      subscriber.NewHandler(repo, orders, logger.Named("handler"), metrics),
		Server:       server,
		Logger:       logger,
	}
	if err := app.Run(ctx, ln); err != nil {
		logger.Fatal("Service failed", zap.Error(err))
	}
}

func newLogger(env, level string) (*zap.Logger, error) {
	lvl, err := zap.ParseAtomicLevel(level)
	if err != nil {
		return nil, err
	}
	cfg := zap.NewProductionConfig()
	if env == "dev" {
		cfg = zap.NewDevelopmentConfig()
	}
	cfg.Level = lvl
	return cfg.Build()
}

func subscribe(ctx context.Context, cfg config.Config, logger *zap.Logger) (subscriber.Subscription, io.Closer, error) {
	if cfg.Bus.Driver == config.DriverRabbitMQ {
		sub, err := rabbitmq.Subscribe(cfg.RabbitMQ.URL, cfg.Bus.Channel, logger.Named("rabbitmq"))
		if err != nil {
			return nil, nil, err
		}
		return sub, sub, nil
	}

	if err := kafka.EnsureTopic(ctx, cfg.Kafka.Brokers, cfg.Bus.Channel, cfg.Kafka.Partitions, logger.Named("kafka")); err != nil {
		return nil, nil, err
	}
	reader := kafka.NewReader(cfg.Kafka.Brokers, cfg.Bus.Channel, cfg.Kafka.Group)
	sub := kafka.NewSubscription(reader, logger.Named("kafka"))
	return sub, sub, nil
}
