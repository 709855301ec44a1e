package observability

import (
	"context"
	"errors"
	"fmt"

	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"github.com/kbukum/meetscribe/component"
)

const componentName = "telemetry"

var _ component.Component = (*Component)(nil)

// Component installs the OTLP tracer and meter providers on Start and
// flushes them on Stop. Disabled config makes it a no-op.
type Component struct {
	cfg     Config
	service string
	version string
	env     string

	tp *sdktrace.TracerProvider
	mp *sdkmetric.MeterProvider
}

// NewComponent creates the telemetry component.
func NewComponent(cfg Config, service, version, environment string) *Component {
	cfg.ApplyDefaults()
	return &Component{cfg: cfg, service: service, version: version, env: environment}
}

// Name returns the component name.
func (c *Component) Name() string { return componentName }

// Start initializes exporters when enabled.
func (c *Component) Start(ctx context.Context) error {
	if !c.cfg.Enabled {
		return nil
	}

	tp, err := InitTracer(ctx, TracerConfig{
		ServiceName:    c.service,
		ServiceVersion: c.version,
		Environment:    c.env,
		Endpoint:       c.cfg.Endpoint,
		Insecure:       c.cfg.Insecure,
		SampleRate:     c.cfg.SampleRate,
	})
	if err != nil {
		return fmt.Errorf("init tracer: %w", err)
	}
	c.tp = tp

	mp, err := InitMeter(ctx, MeterConfig{
		ServiceName:    c.service,
		ServiceVersion: c.version,
		Environment:    c.env,
		Endpoint:       c.cfg.Endpoint,
		Insecure:       c.cfg.Insecure,
		Interval:       c.cfg.ExportInterval,
	})
	if err != nil {
		_ = tp.Shutdown(ctx)
		c.tp = nil
		return fmt.Errorf("init meter: %w", err)
	}
	c.mp = mp
	return nil
}

// Stop flushes and shuts down the providers.
func (c *Component) Stop(ctx context.Context) error {
	var errs []error
	if c.mp != nil {
		errs = append(errs, c.mp.Shutdown(ctx))
	}
	if c.tp != nil {
		errs = append(errs, c.tp.Shutdown(ctx))
	}
	return errors.Join(errs...)
}

// Health reports whether export is active.
func (c *Component) Health(ctx context.Context) component.Health {
	h := component.Health{Name: componentName, Status: component.StatusHealthy}
	if !c.cfg.Enabled {
		h.Message = "disabled"
	}
	return h
}

// Describe returns summary info logged at startup.
func (c *Component) Describe() component.Description {
	details := "disabled"
	if c.cfg.Enabled {
		details = "otlp http " + c.cfg.Endpoint
	}
	return component.Description{Name: "Telemetry", Type: "telemetry", Details: details}
}
