package bootstrap

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/kbukum/meetscribe/component"
	"github.com/kbukum/meetscribe/config"
	"github.com/kbukum/meetscribe/logger"
)

type testConfig struct {
	config.ServiceConfig
}

type mockComponent struct {
	name     string
	startErr error
	started  bool
	stopped  bool
	health   component.Health
}

func (m *mockComponent) Name() string { return m.name }
func (m *mockComponent) Start(ctx context.Context) error {
	m.started = true
	return m.startErr
}
func (m *mockComponent) Stop(ctx context.Context) error {
	m.stopped = true
	return nil
}
func (m *mockComponent) Health(ctx context.Context) component.Health { return m.health }

func newTestConfig(name string) *testConfig {
	return &testConfig{ServiceConfig: config.ServiceConfig{Name: name, Version: "1.0.0"}}
}

func TestNewAppAppliesDefaults(t *testing.T) {
	app, err := NewApp(newTestConfig("meetscribe"), WithLogger(logger.Nop()))
	if err != nil {
		t.Fatalf("NewApp failed: %v", err)
	}
	if app.Name != "meetscribe" || app.Version != "1.0.0" {
		t.Errorf("unexpected identity %q %q", app.Name, app.Version)
	}
	if app.Cfg.Environment != "development" {
		t.Errorf("expected default environment, got %q", app.Cfg.Environment)
	}
	if app.Components == nil || app.Logger == nil {
		t.Error("expected registry and logger")
	}
}

func TestNewAppValidationError(t *testing.T) {
	if _, err := NewApp(newTestConfig("")); err == nil {
		t.Fatal("expected validation error for empty name")
	}
}

func TestRunLifecycle(t *testing.T) {
	app, err := NewApp(newTestConfig("meetscribe"), WithLogger(logger.Nop()), WithGracefulTimeout(time.Second))
	if err != nil {
		t.Fatalf("NewApp failed: %v", err)
	}

	comp := &mockComponent{name: "http", health: component.Health{Name: "http", Status: component.StatusHealthy}}
	var order []string
	app.OnConfigure(func(ctx context.Context, a *App[*testConfig]) error {
		order = append(order, "configure")
		return a.RegisterComponent(comp)
	})
	app.OnStart(func(ctx context.Context) error { order = append(order, "start"); return nil })
	app.OnReady(func(ctx context.Context) error { order = append(order, "ready"); return nil })
	app.OnStop(func(ctx context.Context) error { order = append(order, "stop"); return nil })

	ctx, cancel := context.WithCancel(context.Background())
	app.OnReady(func(ctx context.Context) error { cancel(); return nil })

	if err := app.Run(ctx); err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if !comp.started || !comp.stopped {
		t.Errorf("component lifecycle incomplete: started=%v stopped=%v", comp.started, comp.stopped)
	}
	want := []string{"configure", "start", "ready", "stop"}
	if len(order) != len(want) {
		t.Fatalf("order = %v, want %v", order, want)
	}
	for i := range want {
		if order[i] != want[i] {
			t.Fatalf("order = %v, want %v", order, want)
		}
	}
}

func TestRunStartFailure(t *testing.T) {
	app, _ := NewApp(newTestConfig("meetscribe"), WithLogger(logger.Nop()))
	ok := &mockComponent{name: "telemetry"}
	bad := &mockComponent{name: "http", startErr: errors.New("bind: address in use")}
	_ = app.RegisterComponent(ok)
	_ = app.RegisterComponent(bad)

	if err := app.Run(context.Background()); err == nil {
		t.Fatal("expected start failure")
	}
	if !ok.stopped {
		t.Error("expected started component to be stopped after failure")
	}
}

func TestReadyCheck(t *testing.T) {
	app, _ := NewApp(newTestConfig("meetscribe"), WithLogger(logger.Nop()))
	_ = app.RegisterComponent(&mockComponent{name: "http", health: component.Health{Name: "http", Status: component.StatusUnhealthy, Message: "down"}})

	if err := app.ReadyCheck(context.Background()); err == nil {
		t.Fatal("expected ready check error")
	}
}
