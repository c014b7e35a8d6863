package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/listoapp/listo/internal/config"
)

// configView is the YAML shape printed by the config command.
type configView struct {
	ServerPort     string  `yaml:"server_port"`
	BaseURL        string  `yaml:"base_url"`
	FrontendURL    string  `yaml:"frontend_url"`
	AIProvider     string  `yaml:"ai_provider"`
	AIModel        string  `yaml:"ai_model,omitempty"`
	AIBaseURL      string  `yaml:"ai_base_url,omitempty"`
	OpenAIKey      string  `yaml:"openai_api_key"`
	MatchThreshold float64 `yaml:"match_threshold"`
	RateLimit      string  `yaml:"rate_limit"`
	RedisURL       string  `yaml:"redis_url,omitempty"`
	RabbitMQURL    string  `yaml:"rabbitmq_url,omitempty"`
	OIDCIssuer     string  `yaml:"oidc_issuer,omitempty"`
	OIDCJWKSURL    string  `yaml:"oidc_jwks_url,omitempty"`
	OTELEnabled    bool    `yaml:"otel_enabled"`
	OTELEndpoint   string  `yaml:"otel_endpoint,omitempty"`
}

// NewConfigCmd creates the config command.
func NewConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration",
		Long:  "Load configuration from the environment and print it as YAML with secrets redacted",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}

			view := configView{
				ServerPort:     cfg.ServerPort,
				BaseURL:        cfg.BaseURL,
				FrontendURL:    cfg.FrontendURL,
				AIProvider:     cfg.AIProvider,
				AIModel:        cfg.AIModel,
				AIBaseURL:      cfg.AIBaseURL,
				OpenAIKey:      redact(cfg.OpenAIKey),
				MatchThreshold: cfg.MatchThreshold,
				RateLimit:      cfg.RateLimit,
				RedisURL:       redact(cfg.RedisURL),
				RabbitMQURL:    redact(cfg.RabbitMQURL),
				OIDCIssuer:     cfg.OIDCIssuer,
				OIDCJWKSURL:    cfg.OIDCJWKSURL,
				OTELEnabled:    cfg.OTELEnabled,
				OTELEndpoint:   cfg.OTELEndpoint,
			}

			out, err := yaml.Marshal(view)
			if err != nil {
				return fmt.Errorf("failed to render config: %w", err)
			}

			_, err = os.Stdout.Write(out)
			return err
		},
	}
}

// redact hides all but a short prefix of a secret-bearing value.
func redact(value string) string {
	if value == "" {
		return ""
	}
	if len(value) <= 8 {
		return "********"
	}
	return value[:4] + "****"
}
