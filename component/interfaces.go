// Package component defines the lifecycle contract shared by the long-lived
// parts of the service (HTTP server, telemetry exporters, provider clients)
// and a registry that starts them in order and stops them in reverse.
package component

import "context"

// HealthStatus represents the health state of a component.
type HealthStatus string

const (
	StatusHealthy   HealthStatus = "healthy"
	StatusUnhealthy HealthStatus = "unhealthy"
	StatusDegraded  HealthStatus = "degraded"
)

// Health holds health information for a component.
type Health struct {
	Name    string       `json:"name"`
	Status  HealthStatus `json:"status"`
	Message string       `json:"message,omitempty"`
}

// Component represents a lifecycle-managed part of the service.
type Component interface {
	// Name returns the unique name of the component for registration.
	Name() string

	// Start initializes and starts the component.
	Start(ctx context.Context) error

	// Stop gracefully shuts down the component and releases resources.
	Stop(ctx context.Context) error

	// Health returns the current health status of the component.
	Health(ctx context.Context) Health
}

// Checker is the health-only half of Component. Provider clients implement
// it so they show up in /health without owning a lifecycle.
type Checker interface {
	Name() string
	Health(ctx context.Context) Health
}

// Description holds summary information logged at startup.
type Description struct {
	// Name is the display name. If empty, the component's Name() is used.
	Name string
	// Type categorizes the component: "server", "telemetry", "provider".
	Type string
	// Details is a one-liner such as "0.0.0.0:3000".
	Details string
}

// Describable is optionally implemented by components to self-report
// how they are configured.
type Describable interface {
	Describe() Description
}
