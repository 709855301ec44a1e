package app

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/kbukum/meetscribe/component"
	"github.com/kbukum/meetscribe/config"
	"github.com/kbukum/meetscribe/logger"
)

func TestConfigDefaults(t *testing.T) {
	cfg := &Config{}
	cfg.ApplyDefaults()

	if cfg.Name != ServiceName {
		t.Errorf("expected name %s, got %s", ServiceName, cfg.Name)
	}
	if cfg.Provider.BaseURL != "https://api.lemonfox.ai/v1" {
		t.Errorf("unexpected base url %s", cfg.Provider.BaseURL)
	}
	if cfg.Provider.Timeout != 60*time.Second {
		t.Errorf("unexpected timeout %v", cfg.Provider.Timeout)
	}
	if cfg.Provider.TranscriptionModel != "whisper-1" {
		t.Errorf("unexpected model %s", cfg.Provider.TranscriptionModel)
	}
	if cfg.Analysis.MaxBodySize != "2MB" {
		t.Errorf("unexpected analysis limit %s", cfg.Analysis.MaxBodySize)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("defaults should validate: %v", err)
	}
}

func TestConfigValidateWriteTimeout(t *testing.T) {
	cfg := &Config{}
	cfg.ApplyDefaults()
	cfg.Server.WriteTimeout = 30

	err := cfg.Validate()
	if err == nil || !strings.Contains(err.Error(), "write_timeout") {
		t.Fatalf("expected write timeout error, got %v", err)
	}
}

func TestLoadConfigAliases(t *testing.T) {
	t.Setenv("WHISPER_API_KEY", "sk-test")
	t.Setenv("PORT", "8088")

	cfg := &Config{}
	err := config.LoadConfig(ServiceName, cfg,
		config.WithConfigFile("/nonexistent/config.yml"),
		config.WithEnvFile("/nonexistent/.env"),
		config.WithEnvAlias("WHISPER_API_KEY", "provider.api_key"),
		config.WithEnvAlias("PORT", "server.port"),
	)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Provider.APIKey != "sk-test" {
		t.Errorf("expected alias credential, got %q", cfg.Provider.APIKey)
	}
	if cfg.Server.Port != 8088 {
		t.Errorf("expected alias port, got %d", cfg.Server.Port)
	}
}

func TestNewServerWiring(t *testing.T) {
	gin.SetMode(gin.TestMode)
	cfg := &Config{}
	cfg.ApplyDefaults()
	cfg.Upload.TempDir = t.TempDir()

	var checkers []component.Checker
	srv, err := NewServer(cfg, logger.Nop(), nil, func(c component.Checker) {
		checkers = append(checkers, c)
	})
	if err != nil {
		t.Fatalf("NewServer: %v", err)
	}

	if len(checkers) != 2 {
		t.Fatalf("expected 2 provider checks, got %d", len(checkers))
	}
	for _, c := range checkers {
		if h := c.Health(context.Background()); h.Status != component.StatusDegraded {
			t.Errorf("%s: expected degraded without a key, got %s", c.Name(), h.Status)
		}
	}

	rr := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/transcribe", http.NoBody))
	if rr.Code != http.StatusInternalServerError {
		t.Errorf("expected configuration error, got %d", rr.Code)
	}
}
