package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Load loads configuration from a layered set of sources.
//
// The loading order is:
//  1. Built-in defaults
//  2. YAML config file (explicit path, FRAGEN_CONFIG env, ./fragen.yaml, ~/.config/fragen/config.yaml)
//  3. Environment variable overrides
//  4. File reference resolution (_file suffix)
//  5. Validation
func Load(configPath string) (*Config, error) {
	// Start with defaults.
	cfg := Defaults()

	// Discover and load YAML config file.
	filePath := discoverConfigFile(configPath)
	if filePath != "" {
		if err := loadYAMLFile(filePath, &cfg); err != nil {
			return nil, fmt.Errorf("loading config file %s: %w", filePath, err)
		}
	}

	// Apply environment variable overrides.
	applyEnvOverrides(&cfg)

	// Resolve _file references.
	if err := resolveFileReferences(&cfg); err != nil {
		return nil, fmt.Errorf("resolving file references: %w", err)
	}

	// Validate.
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}

	return &cfg, nil
}

// discoverConfigFile finds the config file path using the discovery order:
// 1. Explicit configPath argument
// 2. FRAGEN_CONFIG environment variable
// 3. ./fragen.yaml in the current directory
// 4. ~/.config/fragen/config.yaml
//
// Returns empty string if no config file is found.
func discoverConfigFile(configPath string) string {
	// Explicit path takes priority.
	if configPath != "" {
		return configPath
	}

	// Check FRAGEN_CONFIG env var.
	if envPath := os.Getenv("FRAGEN_CONFIG"); envPath != "" {
		return envPath
	}

	// Check common locations.
	candidates := []string{"fragen.yaml"}
	if home, err := os.UserHomeDir(); err == nil {
		candidates = append(candidates, filepath.Join(home, ".config", "fragen", "config.yaml"))
	}
	for _, path := range candidates {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	return ""
}

// loadYAMLFile reads and parses a YAML file into the Config struct.
// Fields not present in the YAML retain their current (default) values.
func loadYAMLFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, cfg)
}

// applyEnvOverrides maps environment variables to config fields.
// FRAGEN_* variables are the canonical names; the OPENAI_* variables are
// honored for compatibility with existing tooling.
func applyEnvOverrides(cfg *Config) {
	// Compatibility env vars, applied first so FRAGEN_* wins on conflict.
	if v := os.Getenv("OPENAI_API_KEY"); v != "" {
		cfg.Auth.APIKey = v
	}
	if v := os.Getenv("OPENAI_BASE_URL"); v != "" {
		cfg.API.BaseURL = v
	}
	if v := os.Getenv("OPENAI_ORGANIZATION"); v != "" {
		cfg.API.Organization = v
	}

	if v := os.Getenv("FRAGEN_BASE_URL"); v != "" {
		cfg.API.BaseURL = v
	}
	if v := os.Getenv("FRAGEN_ORGANIZATION"); v != "" {
		cfg.API.Organization = v
	}
	if v := os.Getenv("FRAGEN_REQUEST_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.API.RequestTimeout = d
		}
	}
	if v := os.Getenv("FRAGEN_AUTH_TYPE"); v != "" {
		cfg.Auth.Type = v
	}
	if v := os.Getenv("FRAGEN_API_KEY"); v != "" {
		cfg.Auth.APIKey = v
	}
	if v := os.Getenv("FRAGEN_MODEL"); v != "" {
		cfg.Chat.DefaultModel = v
	}

	// FRAGEN_MCP_SERVERS: JSON array of MCP server configs.
	if v := os.Getenv("FRAGEN_MCP_SERVERS"); v != "" {
		servers, err := parseMCPServersJSON(v)
		if err == nil && len(servers) > 0 {
			cfg.MCP.Servers = servers
		}
	}
}

// parseMCPServersJSON parses a JSON array of MCP server configurations.
func parseMCPServersJSON(jsonStr string) ([]MCPServerConfig, error) {
	var servers []MCPServerConfig
	if err := json.Unmarshal([]byte(jsonStr), &servers); err != nil {
		return nil, fmt.Errorf("parsing MCP servers JSON: %w", err)
	}
	return servers, nil
}

// resolveFileReferences reads _file fields and populates the corresponding value fields.
// For each field ending in _file, if the value field is empty and the file field is set,
// the file is read, whitespace is trimmed, and the value field is populated.
func resolveFileReferences(cfg *Config) error {
	// auth.api_key_file -> auth.api_key
	if cfg.Auth.APIKeyFile != "" && cfg.Auth.APIKey == "" {
		val, err := readSecretFile(cfg.Auth.APIKeyFile)
		if err != nil {
			return fmt.Errorf("auth.api_key_file: %w", err)
		}
		cfg.Auth.APIKey = val
	}

	// auth.oauth.client_secret_file -> auth.oauth.client_secret
	if cfg.Auth.OAuth.ClientSecretFile != "" && cfg.Auth.OAuth.ClientSecret == "" {
		val, err := readSecretFile(cfg.Auth.OAuth.ClientSecretFile)
		if err != nil {
			return fmt.Errorf("auth.oauth.client_secret_file: %w", err)
		}
		cfg.Auth.OAuth.ClientSecret = val
	}

	// auth.service_token.secret_file -> auth.service_token.secret
	if cfg.Auth.ServiceToken.SecretFile != "" && cfg.Auth.ServiceToken.Secret == "" {
		val, err := readSecretFile(cfg.Auth.ServiceToken.SecretFile)
		if err != nil {
			return fmt.Errorf("auth.service_token.secret_file: %w", err)
		}
		cfg.Auth.ServiceToken.Secret = val
	}

	return nil
}

// readSecretFile reads a file and returns its content with surrounding whitespace trimmed.
func readSecretFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(data)), nil
}
