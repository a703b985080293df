package config

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"   validate:"required"`
	Database DatabaseConfig `mapstructure:"database" validate:"required"`
	Auth     AuthConfig     `mapstructure:"auth"     validate:"required"`
	Quota    QuotaConfig    `mapstructure:"quota"    validate:"required"`
	LLM      LLMConfig      `mapstructure:"llm"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port     int    `mapstructure:"port"      validate:"required,gt=0,lt=65536"`
	LogLevel string `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`
}

// DatabaseConfig contains all database-related configuration settings.
type DatabaseConfig struct {
	URL string `mapstructure:"url" validate:"required"`
}

// AuthConfig contains all authentication and authorization settings.
type AuthConfig struct {
	JWTSecret            string `mapstructure:"jwt_secret"             validate:"required,min=32"`
	TokenLifetimeMinutes int    `mapstructure:"token_lifetime_minutes" validate:"required,gt=0"`
}

// QuotaConfig contains the deck quota settings applied to users without an
// unlimited entitlement.
type QuotaConfig struct {
	FreeDeckLimit int `mapstructure:"free_deck_limit" validate:"required,gt=0"`
}

// LLMConfig contains all LLM integration related settings. The group is
// optional: without an API key the card-generation endpoint is disabled and
// everything else works normally.
type LLMConfig struct {
	GeminiAPIKey      string `mapstructure:"gemini_api_key"`
	ModelName         string `mapstructure:"model_name"`
	MaxRetries        int    `mapstructure:"max_retries"`
	RetryDelaySeconds int    `mapstructure:"retry_delay_seconds"`
}
