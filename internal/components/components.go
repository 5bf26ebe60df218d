package components

import (
	"context"
	"fmt"
	"os"

	"log/slog"

	"github.com/wobin1/citizen-safety-backend/internal/api"
	"github.com/wobin1/citizen-safety-backend/internal/config"
	"github.com/wobin1/citizen-safety-backend/internal/notify"
	"github.com/wobin1/citizen-safety-backend/internal/redis"
	"github.com/wobin1/citizen-safety-backend/internal/service"
	"github.com/wobin1/citizen-safety-backend/internal/storage/postgres"
	"github.com/wobin1/citizen-safety-backend/internal/ws"
	"github.com/wobin1/citizen-safety-backend/pkg/logger"
)

const notifyQueueKey = "notifications:queue"

type Components struct {
	logger     *slog.Logger
	HttpServer *api.Server
	Postgres   *postgres.Postgres
	Redis      *redis.Redis
	Hub        *ws.Hub
	Notifier   *notify.Sender
}

func InitComponents(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Components, error) {
	logger.Info("Initializing Postgres")
	storage, err := postgres.NewPostgres(ctx, cfg, logger)
	if err != nil {
		logger.Error("Failed to init postgres", slog.Any("error", err))
		return nil, fmt.Errorf("failed to init postgres: %w", err)
	}

	logger.Info("Initializing Redis")
	redisClient, err := redis.NewRedis(ctx, cfg, logger)
	if err != nil {
		storage.Pool.Close()
		return nil, fmt.Errorf("failed to init redis: %w", err)
	}

	notifyQueue := redis.NewNotifyQueue(redisClient.Client, notifyQueueKey)
	notifier := notify.NewSender(logger, cfg.Push, notifyQueue)

	hub := ws.NewHub(logger)
	dispatcher := service.NewDispatcher(hub, notifyQueue, storage.User, logger)

	alertSvc := service.NewAlertService(storage.Alert, dispatcher, logger)
	emergencySvc := service.NewEmergencyService(storage.Emergency, hub, logger)
	incidentSvc := service.NewIncidentService(storage.Incident, logger)

	srv := service.NewService(alertSvc, emergencySvc, incidentSvc)

	httpServer := api.NewServer(cfg, logger, srv, hub)
	logger.Info("Initialized server")

	return &Components{
		logger:     logger,
		HttpServer: httpServer,
		Postgres:   storage,
		Redis:      redisClient,
		Hub:        hub,
		Notifier:   notifier,
	}, nil
}

func SetupLogger(env string) *slog.Logger {
	switch env {
	case "local":
		return logger.SetupPrettySlog()
	case "dev":
		return slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
				Level: slog.LevelDebug,
			}),
		)
	case "prod":
		return slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
				Level: slog.LevelInfo,
			}),
		)
	default:
		return slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
				Level: slog.LevelInfo,
			}),
		)
	}
}

func (c *Components) ShutdownAll() {
	c.logger.Info("Shutting down components")

	c.Postgres.Pool.Close()
	if c.Redis != nil {
		if err := c.Redis.Close(); err != nil {
			c.logger.Error("Redis close failed", slog.String("err", err.Error()))
		}
	}

	c.logger.Info("All components stopped")
}
