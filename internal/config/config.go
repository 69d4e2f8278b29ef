package config

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server     ServerConfig     `mapstructure:"server" validate:"required"`
	Database   DatabaseConfig   `mapstructure:"database" validate:"required"`
	Auth       AuthConfig       `mapstructure:"auth" validate:"required"`
	LLM        LLMConfig        `mapstructure:"llm" validate:"required"`
	Quota      QuotaConfig      `mapstructure:"quota"`
	Generation GenerationConfig `mapstructure:"generation"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port     int    `mapstructure:"port" validate:"required,gt=0,lt=65536"`
	LogLevel string `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`
}

// DatabaseConfig contains all database-related configuration settings.
type DatabaseConfig struct {
	URL string `mapstructure:"url" validate:"required,url"`
}

// AuthConfig contains all authentication and authorization settings.
type AuthConfig struct {
	JWTSecret                   string `mapstructure:"jwt_secret" validate:"required,min=32"`
	TokenLifetimeMinutes        int    `mapstructure:"token_lifetime_minutes" validate:"gte=0"`
	RefreshTokenLifetimeMinutes int    `mapstructure:"refresh_token_lifetime_minutes" validate:"gte=0"`
	BcryptCost                  int    `mapstructure:"bcrypt_cost" validate:"gte=0,lte=31"`
}

// LLMConfig contains all settings for the model-backed generation pipeline.
type LLMConfig struct {
	GeminiAPIKey      string `mapstructure:"gemini_api_key" validate:"required"`
	ModelName         string `mapstructure:"model_name" validate:"required"`
	MaxRetries        int    `mapstructure:"max_retries" validate:"gte=0"`
	RetryDelaySeconds int    `mapstructure:"retry_delay_seconds" validate:"gte=0"`
}

// QuotaConfig overrides per-tier generation quota limits. Empty values fall
// back to the built-in tier configuration.
type QuotaConfig struct {
	FreeMaxPerPeriod int `mapstructure:"free_max_per_period" validate:"gte=0"`
	PlusMaxPerPeriod int `mapstructure:"plus_max_per_period" validate:"gte=0"`
	ProMaxPerPeriod  int `mapstructure:"pro_max_per_period" validate:"gte=0"`
}

// GenerationConfig contains orchestration settings for content generation.
type GenerationConfig struct {
	// SourceURL is the base URL of the external dictionary source used by
	// the source-first pipeline.
	SourceURL string `mapstructure:"source_url" validate:"omitempty,url"`

	// TimeoutSeconds bounds one generation call end to end.
	TimeoutSeconds int `mapstructure:"timeout_seconds" validate:"gte=0"`

	// MinConfidence is the threshold below which candidates are dropped.
	MinConfidence float64 `mapstructure:"min_confidence" validate:"gte=0,lte=1"`

	// SourceFirstCap and ModelFirstCap are the per-call term caps of the
	// two pipelines.
	SourceFirstCap int `mapstructure:"source_first_cap" validate:"gte=0"`
	ModelFirstCap  int `mapstructure:"model_first_cap" validate:"gte=0"`
}
