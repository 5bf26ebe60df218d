package middleware_test

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"log/slog"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/wobin1/citizen-safety-backend/internal/domain"
	"github.com/wobin1/citizen-safety-backend/internal/middleware"
)

const testSecret = "auth-test-secret"

func signToken(t *testing.T, secret string, claims jwt.MapClaims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return signed
}

func TestParseToken_OK(t *testing.T) {
	userID := uuid.New()
	tokenStr := signToken(t, testSecret, jwt.MapClaims{
		"sub":  userID.String(),
		"role": "emergency_service",
		"exp":  time.Now().Add(time.Hour).Unix(),
	})

	actor, err := middleware.ParseToken(testSecret, tokenStr)
	if err != nil {
		t.Fatalf("ParseToken: %v", err)
	}
	if actor.ID != userID {
		t.Errorf("expected id %s, got %s", userID, actor.ID)
	}
	if actor.Role != domain.RoleEmergencyService {
		t.Errorf("expected role emergency_service, got %s", actor.Role)
	}
	if !actor.IsStaff() {
		t.Errorf("expected staff actor")
	}
}

func TestParseToken_WrongSecret(t *testing.T) {
	tokenStr := signToken(t, "other-secret", jwt.MapClaims{
		"sub":  uuid.New().String(),
		"role": "citizen",
	})

	if _, err := middleware.ParseToken(testSecret, tokenStr); err == nil {
		t.Fatal("expected error for wrong secret")
	}
}

func TestParseToken_MissingRole(t *testing.T) {
	tokenStr := signToken(t, testSecret, jwt.MapClaims{
		"sub": uuid.New().String(),
	})

	if _, err := middleware.ParseToken(testSecret, tokenStr); err == nil {
		t.Fatal("expected error for missing role")
	}
}

func TestParseToken_Expired(t *testing.T) {
	tokenStr := signToken(t, testSecret, jwt.MapClaims{
		"sub":  uuid.New().String(),
		"role": "citizen",
		"exp":  time.Now().Add(-time.Hour).Unix(),
	})

	if _, err := middleware.ParseToken(testSecret, tokenStr); err == nil {
		t.Fatal("expected error for expired token")
	}
}

func TestAuth_InjectsActor(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	userID := uuid.New()
	tokenStr := signToken(t, testSecret, jwt.MapClaims{
		"sub":  userID.String(),
		"role": "citizen",
		"exp":  time.Now().Add(time.Hour).Unix(),
	})

	var got domain.Actor
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		actor, ok := middleware.ActorFromContext(r.Context())
		if !ok {
			t.Fatal("actor missing from context")
		}
		got = actor
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+tokenStr)
	rec := httptest.NewRecorder()

	middleware.Auth(testSecret, logger)(next).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if got.ID != userID {
		t.Errorf("expected id %s, got %s", userID, got.ID)
	}
}

func TestAuth_RejectsMissingHeader(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("next handler must not run")
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()

	middleware.Auth(testSecret, logger)(next).ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}
