// Package config provides configuration loading and management for the
// connection synchronization server.
package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/spacebridge/connsync-server/internal/telemetry"
)

// EnvPrefix is the prefix for environment variables read by the server.
const EnvPrefix = "CONNSYNC"

const (
	defaultServerAddress        = ":8080"
	defaultOrchestratorTimeout  = 10 * time.Second
	defaultReconcileInterval    = 5 * time.Minute
	defaultDatabaseSSLMode      = "require"
	defaultDatabaseMaxOpenConns = 25
)

// Option defines the interface for configuration options
type Option func(*loaderConfig) error

// loaderConfig defines the configuration for loading a configuration
type loaderConfig struct {
	path string
}

// WithConfigPath loads configuration from a YAML file
func WithConfigPath(path string) Option {
	return func(cfg *loaderConfig) error {
		if path == "" {
			return fmt.Errorf("path is required")
		}

		// Resolve symlinks to prevent symlink attacks.
		// Note that this calls filepath.Clean internally.
		realPath, err := filepath.EvalSymlinks(path)
		if err != nil {
			return fmt.Errorf("failed to evaluate symlinks: %w", err)
		}

		// Validate the path to prevent path traversal attacks
		if !filepath.IsAbs(realPath) {
			if !filepath.IsLocal(realPath) {
				return fmt.Errorf("path is not local or contains invalid traversal: %s", path)
			}
		}

		cfg.path = realPath
		return nil
	}
}

// Config represents the root configuration structure
type Config struct {
	Server         ServerConfig          `yaml:"server,omitempty"`
	Orchestrator   OrchestratorConfig    `yaml:"orchestrator"`
	Database       *DatabaseConfig       `yaml:"database"`
	Reconciliation *ReconciliationConfig `yaml:"reconciliation,omitempty"`
	Telemetry      *telemetry.Config     `yaml:"telemetry,omitempty"`
}

// ServerConfig defines the HTTP listener settings
type ServerConfig struct {
	// Address is the listen address for the REST API (host:port)
	Address string `yaml:"address,omitempty"`
}

// GetAddress returns the listen address, defaulting to ":8080"
func (s *ServerConfig) GetAddress() string {
	if s.Address == "" {
		return defaultServerAddress
	}
	return s.Address
}

// OrchestratorConfig defines how to reach the remote connection-orchestration
// service that owns the live broker sessions.
type OrchestratorConfig struct {
	// Endpoint is the base URL of the orchestrator API
	// Example: "http://orchestrator.internal:9800"
	Endpoint string `yaml:"endpoint"`

	// Timeout bounds every orchestrator call (e.g., "10s").
	// Defaults to 10s if not specified.
	Timeout string `yaml:"timeout,omitempty"`
}

// GetTimeout returns the parsed orchestrator call timeout
func (o *OrchestratorConfig) GetTimeout() (time.Duration, error) {
	if o.Timeout == "" {
		return defaultOrchestratorTimeout, nil
	}
	d, err := time.ParseDuration(o.Timeout)
	if err != nil {
		return 0, fmt.Errorf("invalid orchestrator timeout: %w", err)
	}
	return d, nil
}

// ReconciliationConfig defines the background reconciliation settings
type ReconciliationConfig struct {
	// Interval between reconciliation passes (e.g., "5m").
	// Defaults to 5m if not specified.
	Interval string `yaml:"interval,omitempty"`
}

// GetInterval returns the parsed reconciliation interval
func (r *ReconciliationConfig) GetInterval() (time.Duration, error) {
	if r == nil || r.Interval == "" {
		return defaultReconcileInterval, nil
	}
	d, err := time.ParseDuration(r.Interval)
	if err != nil {
		return 0, fmt.Errorf("invalid reconciliation interval: %w", err)
	}
	return d, nil
}

// DatabaseConfig defines database connection settings
type DatabaseConfig struct {
	// Host is the database server hostname or IP address
	Host string `yaml:"host"`

	// Port is the database server port
	Port int `yaml:"port"`

	// User is the database username
	User string `yaml:"user"`

	// PasswordFile is the path to a file containing the database password
	// This is the recommended approach for production deployments
	// The file should contain only the password with optional trailing whitespace
	PasswordFile string `yaml:"passwordFile,omitempty"`

	// Database is the database name
	Database string `yaml:"database"`

	// SSLMode is the SSL mode for the connection (disable, require, verify-ca, verify-full)
	SSLMode string `yaml:"sslMode,omitempty"`

	// MaxOpenConns is the maximum number of open connections to the database
	MaxOpenConns int32 `yaml:"maxOpenConns,omitempty"`

	// ConnMaxLifetime is the maximum lifetime of a connection (e.g., "1h", "30m")
	ConnMaxLifetime string `yaml:"connMaxLifetime,omitempty"`
}

// GetPassword returns the database password using the following priority:
// 1. Read from PasswordFile if specified
// 2. Read from CONNSYNC_DATABASE_PASSWORD environment variable
//
// The password from file will have leading/trailing whitespace trimmed.
func (d *DatabaseConfig) GetPassword() (string, error) {
	// Priority 1: Read from file if specified
	if d.PasswordFile != "" {
		// Use filepath.Clean to prevent path traversal attacks
		cleanPath := filepath.Clean(d.PasswordFile)

		data, err := os.ReadFile(cleanPath)
		if err != nil {
			return "", fmt.Errorf("failed to read password from file %s: %w", d.PasswordFile, err)
		}

		// Trim whitespace (including newlines) from file content
		password := strings.TrimSpace(string(data))
		return password, nil
	}

	// Priority 2: Check environment variable
	if envPassword := os.Getenv(EnvPrefix + "_DATABASE_PASSWORD"); envPassword != "" {
		return envPassword, nil
	}

	return "", fmt.Errorf(
		"no database password configured: set passwordFile or %s_DATABASE_PASSWORD environment variable",
		EnvPrefix,
	)
}

// GetSSLMode returns the SSL mode, defaulting to "require"
func (d *DatabaseConfig) GetSSLMode() string {
	if d.SSLMode == "" {
		return defaultDatabaseSSLMode
	}
	return d.SSLMode
}

// GetMaxOpenConns returns the maximum pool size, defaulting to 25
func (d *DatabaseConfig) GetMaxOpenConns() int32 {
	if d.MaxOpenConns == 0 {
		return defaultDatabaseMaxOpenConns
	}
	return d.MaxOpenConns
}

// GetConnectionString builds a PostgreSQL connection string with proper password handling.
// The password is URL-escaped to handle special characters safely.
func (d *DatabaseConfig) GetConnectionString() (string, error) {
	password, err := d.GetPassword()
	if err != nil {
		return "", err
	}

	// URL-escape the password to handle special characters
	escapedPassword := url.QueryEscape(password)

	connString := fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User,
		escapedPassword,
		d.Host,
		d.Port,
		d.Database,
		d.GetSSLMode(),
	)

	return connString, nil
}

// LoadConfig loads and parses configuration from a YAML file
func LoadConfig(opts ...Option) (*Config, error) {
	loaderCfg := &loaderConfig{}
	for _, opt := range opts {
		if err := opt(loaderCfg); err != nil {
			return nil, err
		}
	}

	// As of now, this is required because there's no other options to load
	// configuration. Once we add more options, we can remove this check.
	if loaderCfg.path == "" {
		return nil, fmt.Errorf("path is required")
	}

	// Read the entire file into memory
	data, err := os.ReadFile(loaderCfg.path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Parse YAML content
	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse YAML config: %w", err)
	}

	// Validate the config
	if err := config.validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// validate performs validation on the configuration
func (c *Config) validate() error {
	if c == nil {
		return fmt.Errorf("config cannot be nil")
	}

	if err := c.validateOrchestrator(); err != nil {
		return err
	}

	if err := c.validateDatabase(); err != nil {
		return err
	}

	if _, err := c.Reconciliation.GetInterval(); err != nil {
		return err
	}

	return nil
}

func (c *Config) validateOrchestrator() error {
	if c.Orchestrator.Endpoint == "" {
		return fmt.Errorf("orchestrator.endpoint is required")
	}

	parsed, err := url.Parse(c.Orchestrator.Endpoint)
	if err != nil {
		return fmt.Errorf("orchestrator.endpoint is not a valid URL: %w", err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return fmt.Errorf("orchestrator.endpoint must use http or https, got %q", parsed.Scheme)
	}

	if _, err := c.Orchestrator.GetTimeout(); err != nil {
		return err
	}

	return nil
}

func (c *Config) validateDatabase() error {
	if c.Database == nil {
		return fmt.Errorf("database configuration is required")
	}
	if c.Database.Host == "" {
		return fmt.Errorf("database.host is required")
	}
	if c.Database.Port == 0 {
		return fmt.Errorf("database.port is required")
	}
	if c.Database.User == "" {
		return fmt.Errorf("database.user is required")
	}
	if c.Database.Database == "" {
		return fmt.Errorf("database.database is required")
	}
	if c.Database.ConnMaxLifetime != "" {
		if _, err := time.ParseDuration(c.Database.ConnMaxLifetime); err != nil {
			return fmt.Errorf("database.connMaxLifetime must be a valid duration: %w", err)
		}
	}
	return nil
}
