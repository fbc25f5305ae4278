package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// Defaults applied before file and environment values are read.
const (
	defaultPort               = 8080
	defaultLogLevel           = "info"
	defaultTokenLifetimeMin   = 60
	defaultRefreshLifetimeMin = 10080 // 7 days
	defaultModelName          = "gemini-2.5-pro"
	defaultGenerationTemp     = 0.7
	defaultMaxGeneratedCards  = 10
)

// Load configuration from environment variables and optionally a config file.
// Environment variables (prefix FLASHDECK_, e.g. FLASHDECK_DATABASE_URL)
// take precedence over values from config.yaml in the working directory.
// Returns a populated Config struct or an error if loading/validation fails.
func Load() (*Config, error) {
	v := viper.New()

	v.SetDefault("server.port", defaultPort)
	v.SetDefault("server.log_level", defaultLogLevel)
	v.SetDefault("auth.token_lifetime_minutes", defaultTokenLifetimeMin)
	v.SetDefault("auth.refresh_token_lifetime_minutes", defaultRefreshLifetimeMin)
	v.SetDefault("auth.bcrypt_cost", 0) // 0 means bcrypt.DefaultCost
	v.SetDefault("llm.model_name", defaultModelName)
	v.SetDefault("llm.temperature", defaultGenerationTemp)
	v.SetDefault("llm.max_cards", defaultMaxGeneratedCards)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	if err := v.ReadInConfig(); err != nil {
		// A missing config file is fine; env vars alone can configure the app.
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	v.SetEnvPrefix("FLASHDECK")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// The Gemini key follows the conventional unprefixed name as well.
	if err := v.BindEnv("llm.gemini_api_key", "FLASHDECK_LLM_GEMINI_API_KEY", "GEMINI_API_KEY"); err != nil {
		return nil, fmt.Errorf("failed to bind environment variable: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := validator.New().Struct(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}
