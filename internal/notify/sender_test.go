package notify

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"log/slog"

	"github.com/wobin1/citizen-safety-backend/internal/config"
	"github.com/wobin1/citizen-safety-backend/internal/domain"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestSender(gatewayURL string, retryDelay time.Duration) *Sender {
	s := NewSender(testLogger(), config.PushConfig{GatewayURL: gatewayURL}, nil)
	s.retryDelay = retryDelay
	return s
}

func TestSendWithRetry_StopsAfterSuccess(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	s := newTestSender(srv.URL, 10*time.Millisecond)
	s.sendWithRetry(context.Background(), domain.PushNotification{Title: "t"})

	if got := calls.Load(); got != 1 {
		t.Fatalf("expected 1 gateway call, got %d", got)
	}
}

func TestSendWithRetry_RetriesOnFailure(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	s := newTestSender(srv.URL, 10*time.Millisecond)
	s.sendWithRetry(context.Background(), domain.PushNotification{Title: "t"})

	if got := calls.Load(); got != 3 {
		t.Fatalf("expected 3 gateway calls, got %d", got)
	}
}

func TestSendWithRetry_NoSleepAfterFinalAttempt(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	delay := 50 * time.Millisecond
	s := newTestSender(srv.URL, delay)

	start := time.Now()
	s.sendWithRetry(context.Background(), domain.PushNotification{Title: "t"})
	elapsed := time.Since(start)

	if got := calls.Load(); got != 3 {
		t.Fatalf("expected 3 gateway calls, got %d", got)
	}

	// Backoff runs between attempts only: delay + 2*delay. A trailing
	// 3*delay sleep would push elapsed past 5*delay.
	if elapsed >= 5*delay {
		t.Fatalf("send took %v, suggests backoff after the final attempt", elapsed)
	}
}

func TestSendWithRetry_ContextCancelStopsRetries(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	s := newTestSender(srv.URL, 50*time.Millisecond)

	go func() {
		time.Sleep(20 * time.Millisecond)
		cancel()
	}()

	s.sendWithRetry(ctx, domain.PushNotification{Title: "t"})

	if got := calls.Load(); got >= 3 {
		t.Fatalf("expected retries to stop on cancel, got %d calls", got)
	}
}
