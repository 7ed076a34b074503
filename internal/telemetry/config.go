// Package telemetry provides OpenTelemetry metrics for the connection
// synchronization server, exported over OTLP HTTP.
package telemetry

import (
	"fmt"
	"strings"
)

const (
	// DefaultServiceName is the default service name for telemetry
	DefaultServiceName = "connsync-api"

	// DefaultEndpoint is the default OTLP endpoint for telemetry
	DefaultEndpoint = "localhost:4318"
)

// Config represents the telemetry configuration
type Config struct {
	// Enabled controls whether telemetry is enabled globally
	// When false, no telemetry providers are initialized
	Enabled bool `yaml:"enabled"`

	// ServiceName is the name of the service for telemetry identification
	// Defaults to "connsync-api" if not specified
	ServiceName string `yaml:"serviceName,omitempty"`

	// ServiceVersion is the version of the service for telemetry identification
	// Defaults to the application version if not specified
	ServiceVersion string `yaml:"serviceVersion,omitempty"`

	// Endpoint is the OTLP collector endpoint for metrics
	// Defaults to "localhost:4318" if not specified
	// Format: "host:port" for HTTP (uses the /v1/metrics path automatically)
	Endpoint string `yaml:"endpoint,omitempty"`

	// Insecure allows HTTP connections instead of HTTPS
	// Should only be true for development/testing environments
	Insecure bool `yaml:"insecure,omitempty"`
}

// GetServiceName returns the configured service name or the default
func (c *Config) GetServiceName() string {
	if c == nil || c.ServiceName == "" {
		return DefaultServiceName
	}
	return c.ServiceName
}

// GetEndpoint returns the configured OTLP endpoint or the default
func (c *Config) GetEndpoint() string {
	if c == nil || c.Endpoint == "" {
		return DefaultEndpoint
	}
	return c.Endpoint
}

// IsEnabled reports whether telemetry should be initialized
func (c *Config) IsEnabled() bool {
	return c != nil && c.Enabled
}

// Validate checks the telemetry configuration for consistency
func (c *Config) Validate() error {
	if c == nil || !c.Enabled {
		return nil
	}
	if strings.Contains(c.Endpoint, "://") {
		return fmt.Errorf("telemetry endpoint must be host:port without a scheme, got %q", c.Endpoint)
	}
	return nil
}
