// Package config provides configuration types and validation for mockserver.
//
// The mock surface is deliberately fixed: it binds localhost:8081 and nothing
// about its responses is configurable. The remaining knobs cover ambient
// concerns (logging, drain timeout, the optional admin API).
package config

import (
	"errors"
	"fmt"
	"net"
	"os"
	"strings"
	"time"
)

const (
	DefaultHost              = "localhost"
	DefaultPort              = 8081
	DefaultDrainTimeout      = 5 * time.Second
	DefaultReadHeaderTimeout = 10 * time.Second
	DefaultAdminHost         = "127.0.0.1"
	DefaultAdminPort         = 8082

	// EnvLogLevel overrides Logging.Level when set.
	EnvLogLevel = "MOCKSERVER_LOG_LEVEL"
)

// Default returns the configuration the mock server runs with out of the box.
func Default() *Config {
	cfg := &Config{
		Server: ServerConfig{
			Host: DefaultHost,
			Port: DefaultPort,
		},
		Admin: AdminConfig{
			Host: DefaultAdminHost,
			Port: DefaultAdminPort,
		},
	}
	// The defaults are always valid; Validate only fills the normalized fields.
	_ = cfg.Validate()
	return cfg
}

// ApplyEnv applies environment overrides.
func (cfg *Config) ApplyEnv() {
	if v := strings.TrimSpace(os.Getenv(EnvLogLevel)); v != "" {
		cfg.Logging.Level = v
	}
}

// Validate validates and normalizes the configuration.
func (cfg *Config) Validate() error {
	if cfg.Server.Host == "" {
		cfg.Server.Host = DefaultHost
	}
	if !IsLoopback(cfg.Server.Host) {
		return fmt.Errorf("server.host %q is not a loopback address", cfg.Server.Host)
	}
	// Port 0 lets the kernel pick; used by tests running several instances.
	if cfg.Server.Port < 0 || cfg.Server.Port > 65535 {
		return errors.New("server.port must be 0..65535")
	}

	if cfg.Server.DrainTimeout == "" {
		cfg.Server.DrainTimeout = DefaultDrainTimeout.String()
	}
	if _, err := time.ParseDuration(cfg.Server.DrainTimeout); err != nil {
		return fmt.Errorf("server.drain_timeout: %w", err)
	}
	if cfg.Server.ReadHeaderTimeout == "" {
		cfg.Server.ReadHeaderTimeout = DefaultReadHeaderTimeout.String()
	}
	if _, err := time.ParseDuration(cfg.Server.ReadHeaderTimeout); err != nil {
		return fmt.Errorf("server.read_header_timeout: %w", err)
	}

	// Normalize logging
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "INFO"
	}
	cfg.Logging.Level = strings.ToUpper(cfg.Logging.Level)
	if cfg.Logging.ExtraFields == nil {
		cfg.Logging.ExtraFields = map[string]string{}
	}

	// Normalize admin API
	if cfg.Admin.Host == "" {
		cfg.Admin.Host = DefaultAdminHost
	}
	if cfg.Admin.Enabled {
		if cfg.Admin.Port < 0 || cfg.Admin.Port > 65535 {
			return errors.New("admin.port must be 0..65535")
		}
		if cfg.Admin.Port != 0 && cfg.Admin.Port == cfg.Server.Port && cfg.Admin.Host == cfg.Server.Host {
			return errors.New("admin.port must differ from server.port")
		}
	}

	return nil
}

// DrainTimeoutDuration returns the parsed drain timeout, falling back to the default.
func (s ServerConfig) DrainTimeoutDuration() time.Duration {
	if d, err := time.ParseDuration(s.DrainTimeout); err == nil && d > 0 {
		return d
	}
	return DefaultDrainTimeout
}

// ReadHeaderTimeoutDuration returns the parsed read header timeout, falling back to the default.
func (s ServerConfig) ReadHeaderTimeoutDuration() time.Duration {
	if d, err := time.ParseDuration(s.ReadHeaderTimeout); err == nil && d > 0 {
		return d
	}
	return DefaultReadHeaderTimeout
}

// IsLoopback reports whether host names the local loopback interface.
func IsLoopback(host string) bool {
	if strings.EqualFold(host, "localhost") {
		return true
	}
	ip := net.ParseIP(strings.Trim(host, "[]"))
	return ip != nil && ip.IsLoopback()
}
