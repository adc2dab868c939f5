// Package cli implements the fragen command line interface: an
// interactive streaming chat, plus small commands for models,
// moderation, and embeddings.
package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/fragen-dev/fragen/pkg/auth"
	"github.com/fragen-dev/fragen/pkg/client"
	"github.com/fragen-dev/fragen/pkg/config"
	"github.com/fragen-dev/fragen/pkg/debug"
)

var (
	configPath string
	modelFlag  string
)

var rootCmd = &cobra.Command{
	Use:   "fragen",
	Short: "Talk to OpenAI-compatible APIs from the terminal",
	Long: `fragen is a command line client for OpenAI-compatible APIs.

Examples:
  fragen chat
  fragen chat --model gpt-4o
  fragen models
  fragen moderate "some text to check"
  fragen embed "a sentence to embed"`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to the config file")
	rootCmd.PersistentFlags().StringVarP(&modelFlag, "model", "m", "", "Model to use (overrides config)")

	rootCmd.AddCommand(chatCmd)
	rootCmd.AddCommand(modelsCmd)
	rootCmd.AddCommand(moderateCmd)
	rootCmd.AddCommand(embedCmd)
}

// SetVersion sets the version shown by --version.
func SetVersion(v string) {
	rootCmd.Version = v
}

// Execute is the entry point called from main.
func Execute() error {
	return rootCmd.Execute()
}

// loadConfig loads the layered configuration and initializes debug logging.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("configuration error: %w", err)
	}
	debug.Init(cfg.Debug.Categories, cfg.Debug.Level)
	return cfg, nil
}

// newAPIClient builds the HTTP API client from the loaded configuration,
// selecting the token provider that matches the configured auth type.
func newAPIClient(cfg *config.Config) (*client.Client, error) {
	tokens, err := tokenProvider(cfg)
	if err != nil {
		return nil, err
	}

	opts := []client.Option{
		client.WithBaseURL(cfg.API.BaseURL),
		client.WithTimeout(cfg.API.RequestTimeout),
	}
	if cfg.API.Organization != "" {
		opts = append(opts, client.WithOrganization(cfg.API.Organization))
	}
	return client.New(tokens, opts...), nil
}

func tokenProvider(cfg *config.Config) (auth.TokenProvider, error) {
	switch cfg.Auth.Type {
	case "oauth":
		return auth.NewOAuthClientCredentials(
			cfg.Auth.OAuth.TokenURL,
			cfg.Auth.OAuth.ClientID,
			cfg.Auth.OAuth.ClientSecret,
			cfg.Auth.OAuth.Scopes,
		), nil
	case "service_token":
		return auth.NewServiceToken(auth.ServiceTokenConfig{
			Secret:   []byte(cfg.Auth.ServiceToken.Secret),
			Issuer:   cfg.Auth.ServiceToken.Issuer,
			Subject:  cfg.Auth.ServiceToken.Subject,
			Audience: cfg.Auth.ServiceToken.Audience,
			TTL:      cfg.Auth.ServiceToken.TTL,
		})
	default:
		if cfg.Auth.APIKey != "" {
			return auth.APIKey(cfg.Auth.APIKey), nil
		}
		return auth.FromEnv()
	}
}

// model returns the model to use: the --model flag if set, otherwise
// the configured default.
func model(cfg *config.Config) string {
	if modelFlag != "" {
		return modelFlag
	}
	return cfg.Chat.DefaultModel
}
