package component

import (
	"context"
	"errors"
	"testing"
)

// mockComponent implements Component for testing.
type mockComponent struct {
	name       string
	startErr   error
	stopErr    error
	health     Health
	startOrder *[]string
	stopOrder  *[]string
}

func (m *mockComponent) Name() string { return m.name }
func (m *mockComponent) Start(ctx context.Context) error {
	if m.startOrder != nil {
		*m.startOrder = append(*m.startOrder, m.name)
	}
	return m.startErr
}
func (m *mockComponent) Stop(ctx context.Context) error {
	if m.stopOrder != nil {
		*m.stopOrder = append(*m.stopOrder, m.name)
	}
	return m.stopErr
}
func (m *mockComponent) Health(ctx context.Context) Health {
	return m.health
}

type mockChecker struct{ name string }

func (m mockChecker) Name() string { return m.name }
func (m mockChecker) Health(ctx context.Context) Health {
	return Health{Name: m.name, Status: StatusDegraded}
}

func TestRegisterDuplicate(t *testing.T) {
	r := NewRegistry()
	if err := r.Register(&mockComponent{name: "http"}); err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	if err := r.Register(&mockComponent{name: "http"}); err == nil {
		t.Fatal("expected error for duplicate registration")
	}
}

func TestStartStopOrder(t *testing.T) {
	var started, stopped []string
	r := NewRegistry()
	for _, name := range []string{"telemetry", "http"} {
		_ = r.Register(&mockComponent{name: name, startOrder: &started, stopOrder: &stopped})
	}

	if err := r.StartAll(context.Background()); err != nil {
		t.Fatalf("StartAll failed: %v", err)
	}
	if err := r.StopAll(context.Background()); err != nil {
		t.Fatalf("StopAll failed: %v", err)
	}

	if len(started) != 2 || started[0] != "telemetry" || started[1] != "http" {
		t.Errorf("unexpected start order: %v", started)
	}
	if len(stopped) != 2 || stopped[0] != "http" || stopped[1] != "telemetry" {
		t.Errorf("unexpected stop order: %v", stopped)
	}
}

func TestStartFailureSkipsUnstartedOnStop(t *testing.T) {
	var started, stopped []string
	r := NewRegistry()
	_ = r.Register(&mockComponent{name: "a", startOrder: &started, stopOrder: &stopped})
	_ = r.Register(&mockComponent{name: "b", startErr: errors.New("boom"), startOrder: &started, stopOrder: &stopped})
	_ = r.Register(&mockComponent{name: "c", startOrder: &started, stopOrder: &stopped})

	if err := r.StartAll(context.Background()); err == nil {
		t.Fatal("expected start error")
	}
	_ = r.StopAll(context.Background())

	if len(started) != 2 {
		t.Errorf("expected c not to start, got %v", started)
	}
	if len(stopped) != 1 || stopped[0] != "a" {
		t.Errorf("expected only a to stop, got %v", stopped)
	}
}

func TestStopAllCollectsErrors(t *testing.T) {
	r := NewRegistry()
	_ = r.Register(&mockComponent{name: "a", stopErr: errors.New("stuck")})
	_ = r.StartAll(context.Background())

	if err := r.StopAll(context.Background()); err == nil {
		t.Fatal("expected shutdown error")
	}
}

func TestHealthAllIncludesCheckers(t *testing.T) {
	r := NewRegistry()
	_ = r.Register(&mockComponent{name: "http", health: Health{Name: "http", Status: StatusHealthy}})
	r.RegisterChecker(mockChecker{name: "transcription"})

	got := r.HealthAll(context.Background())
	if len(got) != 2 {
		t.Fatalf("expected 2 health entries, got %d", len(got))
	}
	if got[0].Status != StatusHealthy || got[1].Name != "transcription" || got[1].Status != StatusDegraded {
		t.Errorf("unexpected health: %+v", got)
	}
}

func TestGetAndAll(t *testing.T) {
	r := NewRegistry()
	c := &mockComponent{name: "http"}
	_ = r.Register(c)

	if r.Get("http") != c {
		t.Error("Get returned wrong component")
	}
	if r.Get("missing") != nil {
		t.Error("expected nil for unknown component")
	}
	if len(r.All()) != 1 {
		t.Error("expected one component")
	}
}
