// Package notify drains queued push notifications and delivers them to the
// external push/SMS/email gateway. Delivery is best effort: failures are
// logged and the notification is abandoned after bounded retries.
package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"log/slog"

	"github.com/wobin1/citizen-safety-backend/internal/config"
	"github.com/wobin1/citizen-safety-backend/internal/domain"
	"github.com/wobin1/citizen-safety-backend/internal/redis"
	"github.com/wobin1/citizen-safety-backend/pkg/e"
)

type Sender struct {
	logger     *slog.Logger
	cfg        config.PushConfig
	queue      *redis.NotifyQueue
	http       *http.Client
	retryDelay time.Duration
}

func NewSender(logger *slog.Logger, cfg config.PushConfig, q *redis.NotifyQueue) *Sender {
	return &Sender{
		logger:     logger,
		cfg:        cfg,
		queue:      q,
		http:       &http.Client{Timeout: 5 * time.Second},
		retryDelay: time.Second,
	}
}

func (s *Sender) Run(ctx context.Context) {
	if s.cfg.Disabled {
		s.logger.Warn("push sender disabled, notifications will queue but never send")
	}
	s.logger.Info("push sender STARTED", slog.String("gateway", s.cfg.GatewayURL))

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("push sender STOPPED", slog.String("reason", ctx.Err().Error()))
			return
		default:
		}

		payload, err := s.queue.BRPop(ctx, 5*time.Second)
		if err != nil {
			if errors.Is(err, e.ErrQueueEmpty) {
				continue
			}
			if ctx.Err() != nil {
				continue
			}
			s.logger.Error("BRPop failed", slog.Any("error", err))
			time.Sleep(500 * time.Millisecond)
			continue
		}

		if s.cfg.Disabled {
			s.logger.Debug("push disabled, dropping notification", slog.String("title", payload.Title))
			continue
		}

		s.logger.Info("sending push notification",
			slog.String("title", payload.Title),
			slog.Int("tokens", len(payload.Tokens)),
		)
		s.sendWithRetry(ctx, payload)
	}
}

func (s *Sender) sendWithRetry(ctx context.Context, p domain.PushNotification) {
	const maxRetries = 3

	body, err := json.Marshal(p)
	if err != nil {
		s.logger.Error("marshal push payload failed", slog.String("error", err.Error()))
		return
	}

	for attempt := 1; attempt <= maxRetries; attempt++ {
		if ctx.Err() != nil {
			s.logger.Info("stop retries due to context cancel")
			return
		}
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.cfg.GatewayURL, bytes.NewReader(body))
		if err != nil {
			s.logger.Error("create gateway request failed", slog.String("error", err.Error()))
			return
		}

		req.Header.Set("Content-Type", "application/json")

		resp, err := s.http.Do(req)
		if err == nil && resp.StatusCode >= 200 && resp.StatusCode < 300 {
			_ = resp.Body.Close()
			return
		}
		if resp != nil {
			_ = resp.Body.Close()
		}

		reason := "unknown"
		if err != nil {
			reason = err.Error()
		} else if resp != nil {
			reason = resp.Status
		}

		s.logger.Warn("push gateway call failed",
			slog.Int("attempt", attempt),
			slog.String("gateway", s.cfg.GatewayURL),
			slog.String("reason", reason),
		)

		// No backoff after the last attempt; the notification is abandoned.
		if attempt < maxRetries {
			time.Sleep(time.Duration(attempt) * s.retryDelay)
		}
	}
}
