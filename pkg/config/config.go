// Package config provides unified configuration for the fragen SDK and CLI.
//
// Configuration is loaded with a layered approach:
//  1. Built-in defaults
//  2. YAML config file (discovered or explicitly specified)
//  3. Environment variable overrides (FRAGEN_ prefix)
//  4. Backward-compatible env var mapping (OPENAI_* variables)
//  5. File reference resolution (_file suffix fields)
//  6. Validation
package config

import "time"

// Config holds all configuration for the fragen client.
type Config struct {
	API           APIConfig           `yaml:"api"`
	Auth          AuthConfig          `yaml:"auth"`
	Chat          ChatConfig          `yaml:"chat"`
	MCP           MCPConfig           `yaml:"mcp"`
	Observability ObservabilityConfig `yaml:"observability"`
	Debug         DebugConfig         `yaml:"debug"`
}

// APIConfig holds settings for the upstream API endpoint.
type APIConfig struct {
	BaseURL        string        `yaml:"base_url"`        // default: "https://api.openai.com/v1"
	Organization   string        `yaml:"organization"`    // optional OpenAI-Organization header
	RequestTimeout time.Duration `yaml:"request_timeout"` // default: 120s, non-streaming requests only
}

// AuthConfig holds authentication settings.
type AuthConfig struct {
	Type         string             `yaml:"type"` // "apikey", "oauth", or "service_token", default: "apikey"
	APIKey       string             `yaml:"api_key"`
	APIKeyFile   string             `yaml:"api_key_file"` // _file variant for api_key
	OAuth        OAuthConfig        `yaml:"oauth"`
	ServiceToken ServiceTokenConfig `yaml:"service_token"`
}

// OAuthConfig holds client-credentials grant settings for type=oauth.
type OAuthConfig struct {
	TokenURL         string   `yaml:"token_url"`
	ClientID         string   `yaml:"client_id"`
	ClientSecret     string   `yaml:"client_secret"`
	ClientSecretFile string   `yaml:"client_secret_file"` // _file variant for client_secret
	Scopes           []string `yaml:"scopes"`
}

// ServiceTokenConfig holds self-minted JWT settings for type=service_token.
type ServiceTokenConfig struct {
	Secret     string        `yaml:"secret"`
	SecretFile string        `yaml:"secret_file"` // _file variant for secret
	Issuer     string        `yaml:"issuer"`
	Subject    string        `yaml:"subject"`
	Audience   string        `yaml:"audience"`
	TTL        time.Duration `yaml:"ttl"` // default: 15m
}

// ChatConfig holds chat completion defaults.
type ChatConfig struct {
	DefaultModel string `yaml:"default_model"` // default: "gpt-4o-mini"
}

// ObservabilityConfig holds monitoring and instrumentation settings.
type ObservabilityConfig struct {
	Metrics MetricsConfig `yaml:"metrics"`
}

// MetricsConfig holds Prometheus metrics settings.
type MetricsConfig struct {
	Enabled bool `yaml:"enabled"` // default: true
}

// DebugConfig holds diagnostic logging settings. Environment variables
// FRAGEN_DEBUG and FRAGEN_LOG_LEVEL take precedence over these fields.
type DebugConfig struct {
	Categories string `yaml:"categories"` // comma-separated, or "all"
	Level      string `yaml:"level"`      // "trace", "debug", "info", "warn", "error"
}

// MCPConfig holds MCP (Model Context Protocol) server settings.
type MCPConfig struct {
	Servers []MCPServerConfig `yaml:"servers"`
}

// MCPServerConfig describes a single MCP server connection.
type MCPServerConfig struct {
	Name      string            `yaml:"name"`
	Transport string            `yaml:"transport"` // "sse" or "streamable-http"
	URL       string            `yaml:"url"`
	Headers   map[string]string `yaml:"headers"`
}

// Defaults returns a Config with all default values filled in.
func Defaults() Config {
	return Config{
		API: APIConfig{
			BaseURL:        "https://api.openai.com/v1",
			RequestTimeout: 120 * time.Second,
		},
		Auth: AuthConfig{
			Type: "apikey",
			ServiceToken: ServiceTokenConfig{
				TTL: 15 * time.Minute,
			},
		},
		Chat: ChatConfig{
			DefaultModel: "gpt-4o-mini",
		},
		Observability: ObservabilityConfig{
			Metrics: MetricsConfig{
				Enabled: true,
			},
		},
	}
}
