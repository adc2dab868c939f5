package config

import (
	"errors"
	"fmt"
)

// Validate checks the configuration for required fields and valid values.
// Returns an error with a descriptive field path on failure.
func (c *Config) Validate() error {
	var errs []error

	// api.base_url is required.
	if c.API.BaseURL == "" {
		errs = append(errs, fmt.Errorf("api.base_url is required"))
	}

	// auth.type must be a known value.
	switch c.Auth.Type {
	case "apikey", "oauth", "service_token":
		// valid
	default:
		errs = append(errs, fmt.Errorf("auth.type must be \"apikey\", \"oauth\", or \"service_token\", got %q", c.Auth.Type))
	}

	// type=oauth requires the token endpoint and client credentials.
	if c.Auth.Type == "oauth" {
		if c.Auth.OAuth.TokenURL == "" {
			errs = append(errs, fmt.Errorf("auth.oauth.token_url is required when auth.type is \"oauth\""))
		}
		if c.Auth.OAuth.ClientID == "" {
			errs = append(errs, fmt.Errorf("auth.oauth.client_id is required when auth.type is \"oauth\""))
		}
		if c.Auth.OAuth.ClientSecret == "" && c.Auth.OAuth.ClientSecretFile == "" {
			errs = append(errs, fmt.Errorf("auth.oauth.client_secret or auth.oauth.client_secret_file is required when auth.type is \"oauth\""))
		}
	}

	// type=service_token requires a signing secret.
	if c.Auth.Type == "service_token" {
		if c.Auth.ServiceToken.Secret == "" && c.Auth.ServiceToken.SecretFile == "" {
			errs = append(errs, fmt.Errorf("auth.service_token.secret or auth.service_token.secret_file is required when auth.type is \"service_token\""))
		}
		if c.Auth.ServiceToken.TTL <= 0 {
			errs = append(errs, fmt.Errorf("auth.service_token.ttl must be > 0, got %v", c.Auth.ServiceToken.TTL))
		}
	}

	// api.request_timeout must be positive.
	if c.API.RequestTimeout <= 0 {
		errs = append(errs, fmt.Errorf("api.request_timeout must be > 0, got %v", c.API.RequestTimeout))
	}

	// mcp.servers entries need a name, transport, and URL.
	for i, srv := range c.MCP.Servers {
		if srv.Name == "" {
			errs = append(errs, fmt.Errorf("mcp.servers[%d].name is required", i))
		}
		switch srv.Transport {
		case "sse", "streamable-http":
			// valid
		default:
			errs = append(errs, fmt.Errorf("mcp.servers[%d].transport must be \"sse\" or \"streamable-http\", got %q", i, srv.Transport))
		}
		if srv.URL == "" {
			errs = append(errs, fmt.Errorf("mcp.servers[%d].url is required", i))
		}
	}

	return errors.Join(errs...)
}
