// Package config loads and validates the disputeflow.yaml configuration:
// HTTP server settings, the agent platform gateway, the logical agent
// roster, and persistence.
package config

import (
	"fmt"
	"os"
	"time"
)

// Config is the validated, ready-to-use service configuration.
type Config struct {
	Server      ServerConfig      `yaml:"server"`
	Gateway     GatewayConfig     `yaml:"gateway"`
	Agents      AgentsConfig      `yaml:"agents"`
	Persistence PersistenceConfig `yaml:"persistence"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port int `yaml:"port"`
}

// GatewayConfig holds the agent platform endpoint settings. The API key is
// referenced indirectly via the environment variable named in APIKeyEnv so
// secrets never appear in YAML.
type GatewayConfig struct {
	BaseURL   string        `yaml:"base_url"`
	Timeout   time.Duration `yaml:"timeout"`
	APIKeyEnv string        `yaml:"api_key_env"`
}

// APIKey resolves the platform API key from the environment. Empty when the
// endpoint is unauthenticated.
func (g GatewayConfig) APIKey() string {
	if g.APIKeyEnv == "" {
		return ""
	}
	return os.Getenv(g.APIKeyEnv)
}

// AgentsConfig maps the six logical agent roles to platform agent IDs.
type AgentsConfig struct {
	Intake       string `yaml:"intake"`
	Lookup       string `yaml:"lookup"`
	Compliance   string `yaml:"compliance"`
	Synthesis    string `yaml:"synthesis"`
	Resolution   string `yaml:"resolution"`
	Orchestrator string `yaml:"orchestrator"`
}

// PersistenceConfig toggles the PostgreSQL write-behind store. The in-memory
// workflow is authoritative either way.
type PersistenceConfig struct {
	Enabled bool `yaml:"enabled"`
}

// defaults returns the built-in configuration that user YAML is merged over.
func defaults() *Config {
	return &Config{
		Server: ServerConfig{Port: 8080},
		Gateway: GatewayConfig{
			Timeout:   60 * time.Second,
			APIKeyEnv: "AGENT_PLATFORM_API_KEY",
		},
		Persistence: PersistenceConfig{Enabled: false},
	}
}

// validate checks the merged configuration for required fields.
func validate(cfg *Config) error {
	if cfg.Gateway.BaseURL == "" {
		return fmt.Errorf("gateway.base_url is required")
	}
	if cfg.Gateway.Timeout <= 0 {
		return fmt.Errorf("gateway.timeout must be positive")
	}
	if cfg.Server.Port <= 0 || cfg.Server.Port > 65535 {
		return fmt.Errorf("server.port must be between 1 and 65535")
	}

	roles := map[string]string{
		"intake":       cfg.Agents.Intake,
		"lookup":       cfg.Agents.Lookup,
		"compliance":   cfg.Agents.Compliance,
		"synthesis":    cfg.Agents.Synthesis,
		"resolution":   cfg.Agents.Resolution,
		"orchestrator": cfg.Agents.Orchestrator,
	}
	for role, id := range roles {
		if id == "" {
			return fmt.Errorf("agents.%s is required", role)
		}
	}
	return nil
}
