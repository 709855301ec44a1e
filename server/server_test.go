package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/kbukum/meetscribe/component"
	apperrors "github.com/kbukum/meetscribe/errors"
	"github.com/kbukum/meetscribe/logger"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	cfg := Config{Host: "127.0.0.1"}
	cfg.ApplyDefaults()
	cfg.Port = 0
	s := New(cfg, logger.Nop())
	gin.SetMode(gin.TestMode)
	return s
}

func TestConfigDefaults(t *testing.T) {
	var cfg Config
	cfg.ApplyDefaults()

	if cfg.Port != 3000 {
		t.Errorf("expected port 3000, got %d", cfg.Port)
	}
	if cfg.WriteTimeout <= 60 {
		t.Errorf("write timeout %d must exceed the provider timeout", cfg.WriteTimeout)
	}
	if len(cfg.CORS.AllowedMethods) != 2 || cfg.CORS.AllowedMethods[0] != "POST" {
		t.Errorf("unexpected CORS methods: %v", cfg.CORS.AllowedMethods)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults should validate: %v", err)
	}
}

func TestConfigValidate(t *testing.T) {
	cfg := Config{Port: 70000}
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for out-of-range port")
	}
	cfg = Config{Port: 80, ReadTimeout: -1}
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for negative timeout")
	}
}

func TestHandlerMiddlewareStack(t *testing.T) {
	s := newTestServer(t)
	s.ApplyDefaults("meetscribe", nil)
	s.GinEngine().GET("/boom", func(c *gin.Context) { panic("boom") })
	s.GinEngine().GET("/fail", func(c *gin.Context) {
		RespondWithError(c, apperrors.Validation("bad input"))
	})

	h := s.Handler()

	t.Run("options on unknown path", func(t *testing.T) {
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, httptest.NewRequest(http.MethodOptions, "/anything", http.NoBody))
		if rr.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rr.Code)
		}
		if rr.Header().Get("Access-Control-Allow-Origin") != "*" {
			t.Error("expected CORS headers on preflight")
		}
		if rr.Header().Get("X-Request-Id") == "" {
			t.Error("expected request id header")
		}
	})

	t.Run("panic becomes json 500", func(t *testing.T) {
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/boom", http.NoBody))
		if rr.Code != http.StatusInternalServerError {
			t.Fatalf("expected 500, got %d", rr.Code)
		}
	})

	t.Run("app error rendered", func(t *testing.T) {
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/fail", http.NoBody))
		if rr.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rr.Code)
		}
		var body apperrors.ErrorResponse
		if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
			t.Fatalf("invalid JSON: %v", err)
		}
		if body.Code != apperrors.ErrCodeInvalidInput || body.Error != "bad input" {
			t.Errorf("unexpected body: %+v", body)
		}
	})
}

func TestRespondWithErrorWrapsPlainErrors(t *testing.T) {
	gin.SetMode(gin.TestMode)
	rr := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rr)

	RespondWithError(c, errors.New("disk full"))

	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rr.Code)
	}
	var body apperrors.ErrorResponse
	_ = json.Unmarshal(rr.Body.Bytes(), &body)
	if body.Code != apperrors.ErrCodeInternal {
		t.Errorf("expected INTERNAL_ERROR, got %s", body.Code)
	}
}

func TestStartStop(t *testing.T) {
	s := newTestServer(t)
	s.ApplyDefaults("meetscribe", nil)
	comp := NewComponent(s)

	if h := comp.Health(context.Background()); h.Status != component.StatusUnhealthy {
		t.Errorf("expected unhealthy before start, got %s", h.Status)
	}
	if err := comp.Start(context.Background()); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	defer func() { _ = comp.Stop(context.Background()) }()

	if h := comp.Health(context.Background()); h.Status != component.StatusHealthy {
		t.Errorf("expected healthy after start, got %s", h.Status)
	}

	resp, err := http.Get("http://" + s.Addr() + "/health")
	if err != nil {
		t.Fatalf("GET /health failed: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if comp.Describe().Details != s.Addr() {
		t.Errorf("describe should report bound address")
	}
}
