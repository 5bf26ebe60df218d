package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"log/slog"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/wobin1/citizen-safety-backend/internal/api/handlers/http/alerts"
	"github.com/wobin1/citizen-safety-backend/internal/api/handlers/http/emergency"
	"github.com/wobin1/citizen-safety-backend/internal/api/handlers/http/incidents"
	"github.com/wobin1/citizen-safety-backend/internal/api/handlers/http/system"
	wsapi "github.com/wobin1/citizen-safety-backend/internal/api/handlers/ws"
	"github.com/wobin1/citizen-safety-backend/internal/config"
	"github.com/wobin1/citizen-safety-backend/internal/middleware"
	"github.com/wobin1/citizen-safety-backend/internal/service"
	"github.com/wobin1/citizen-safety-backend/internal/ws"
)

type Server struct {
	logger *slog.Logger
	router *chi.Mux
	cfg    config.Config
}

func NewServer(cfg *config.Config, logger *slog.Logger, svc *service.Service, hub *ws.Hub) *Server {
	alertHandler := alerts.NewHandler(logger, svc.AlertService)
	emergencyHandler := emergency.NewHandler(logger, svc.EmergencyService)
	incidentHandler := incidents.NewHandler(logger, svc.IncidentService)
	systemHandler := system.NewHandler(logger)
	streamHandler := wsapi.NewHandler(logger, hub, cfg.Auth.JWTSecret, cfg.WS.WriteTimeout, cfg.WS.MaxMessageSize)

	r := InitRouter(cfg, alertHandler, emergencyHandler, incidentHandler, systemHandler, streamHandler, logger)

	return &Server{
		logger: logger,
		router: r,
		cfg:    *cfg,
	}
}

func InitRouter(
	cfg *config.Config,
	alertHandler *alerts.Handler,
	emergencyHandler *emergency.Handler,
	incidentHandler *incidents.Handler,
	systemHandler *system.Handler,
	streamHandler *wsapi.Handler,
	logger *slog.Logger,
) *chi.Mux {
	r := chi.NewMux()

	r.Use(chimw.RequestID)
	r.Use(chimw.Recoverer)
	r.Use(chimw.Logger)

	r.Route("/api/v1", func(api chi.Router) {
		// ALERTS
		api.Route("/alerts", func(ar chi.Router) {
			ar.Use(middleware.Auth(cfg.Auth.JWTSecret, logger))

			ar.Post("/trigger", alertHandler.Trigger)
			ar.Get("/", alertHandler.List)
			ar.Get("/active", alertHandler.ListActive)

			ar.Route("/{id}", func(rr chi.Router) {
				rr.Get("/", alertHandler.Get)
				rr.Post("/resolve", alertHandler.Resolve)
			})
		})

		// EMERGENCIES
		api.Route("/emergencies", func(er chi.Router) {
			er.Use(middleware.Auth(cfg.Auth.JWTSecret, logger))
			er.Use(middleware.Limit(10, 20, 5*time.Minute, logger))

			er.Post("/", emergencyHandler.Submit)
			er.Get("/", emergencyHandler.List)

			er.Route("/{id}", func(rr chi.Router) {
				rr.Get("/", emergencyHandler.Get)
				rr.Post("/validate", emergencyHandler.Validate)
				rr.Post("/cancel", emergencyHandler.Cancel)
			})
		})

		// INCIDENTS
		api.Route("/incidents", func(ir chi.Router) {
			ir.Use(middleware.Auth(cfg.Auth.JWTSecret, logger))
			ir.Use(middleware.Limit(10, 20, 5*time.Minute, logger))

			ir.Post("/", incidentHandler.Report)
			ir.Get("/", incidentHandler.List)

			ir.Route("/{id}", func(rr chi.Router) {
				rr.Get("/", incidentHandler.Get)
				rr.Post("/status", incidentHandler.UpdateStatus)
			})
		})

		// SYSTEM
		api.Get("/health", systemHandler.SystemHealth)
	})

	// Token auth happens inside the handler; the upgrade cannot carry headers
	// from browser clients.
	r.Get("/ws/alerts", streamHandler.Stream)

	return r
}

func (s *Server) Run(ctx context.Context) error {
	port := s.cfg.Http.Port
	if !strings.HasPrefix(port, ":") {
		port = ":" + port
	}

	srv := &http.Server{
		Addr:         port,
		Handler:      s.router,
		ReadTimeout:  s.cfg.Http.ReadTimeout,
		WriteTimeout: s.cfg.Http.WriteTimeout,
		IdleTimeout:  30 * time.Second,
	}

	errChan := make(chan error, 1)

	go func() {
		s.logger.Info("starting HTTP server",
			slog.String("addr", srv.Addr),
			slog.Duration("read_timeout", s.cfg.Http.ReadTimeout),
			slog.Duration("write_timeout", s.cfg.Http.WriteTimeout),
		)

		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- fmt.Errorf("ListenAndServe error: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		s.logger.Info("shutting down HTTP server", slog.String("reason", ctx.Err().Error()))

		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.Http.ShutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			s.logger.Error("server shutdown failed", slog.Any("error", err))
			return err
		}
		return nil

	case err := <-errChan:
		return err
	}
}
