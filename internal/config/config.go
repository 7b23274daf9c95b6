package config

import (
	"flag"
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	pkgRetry "github.com/sensai/assist-backend/internal/pkg/retry"
)

// Config holds the application configuration
type Config struct {
	// Server configuration
	ServerAddr string `env:"SERVER_ADDR" envDefault:":8000"`

	// Database configuration. Empty DATABASE_URL disables the usage store.
	DatabaseURL         string        `env:"DATABASE_URL"`
	DBMaxConns          int           `env:"DB_MAX_CONNS" envDefault:"25"`
	DBMinConns          int           `env:"DB_MIN_CONNS" envDefault:"5"`
	DBMaxConnLifetime   time.Duration `env:"DB_MAX_CONN_LIFETIME" envDefault:"1h"`
	DBMaxConnIdleTime   time.Duration `env:"DB_MAX_CONN_IDLE_TIME" envDefault:"30m"`
	DBHealthCheckPeriod time.Duration `env:"DB_HEALTH_CHECK_PERIOD" envDefault:"1m"`

	// Pipeline configuration
	PipelineCfg PipelineConfig `envPrefix:"PIPELINE_"`

	// Provider configurations
	AnthropicCfg AnthropicConfig `envPrefix:"ANTHROPIC_"`
	GeminiCfg    GeminiConfig    `envPrefix:"GEMINI_"`
	OpenAICfg    OpenAIConfig    `envPrefix:"OPENAI_"`

	// Usage accounting
	UsageCfg UsageConfig `envPrefix:"USAGE_"`

	// CORS origins allowed to call the API (browser extension pages)
	AllowedOrigins []string `env:"ALLOWED_ORIGINS" envSeparator:"," envDefault:"https://leetcode.com"`

	// Logging configuration
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`

	// Mock configuration
	EnableMocks bool `env:"ENABLE_MOCKS" envDefault:"false"`

	// Environment (set from flag, not from env var)
	Environment string
}

// PipelineConfig holds the tiered-pipeline knobs with their spec defaults.
type PipelineConfig struct {
	UseEvaluation  bool          `env:"USE_EVALUATION" envDefault:"false"`
	MaxAttempts    int           `env:"MAX_ATTEMPTS" envDefault:"3"`
	ScoreThreshold float64       `env:"SCORE_THRESHOLD" envDefault:"3.0"`
	OverallTimeout time.Duration `env:"TIMEOUT" envDefault:"30s"`
	PrimaryEnabled bool          `env:"PRIMARY_ENABLED" envDefault:"true"`
}

// AnthropicConfig configures the primary generator.
type AnthropicConfig struct {
	APIKey         string          `env:"API_KEY"`
	Model          string          `env:"MODEL" envDefault:"claude-3-5-sonnet-20241022"`
	MaxTokens      int64           `env:"MAX_TOKENS" envDefault:"1024"`
	RequestTimeout time.Duration   `env:"TIMEOUT" envDefault:"10s"`
	Retry          pkgRetry.Config `envPrefix:"RETRY_"`
}

// GeminiConfig configures the fallback generator.
type GeminiConfig struct {
	APIKey          string        `env:"API_KEY"`
	Model           string        `env:"MODEL" envDefault:"gemini-2.5-flash"`
	MaxOutputTokens int32         `env:"MAX_OUTPUT_TOKENS" envDefault:"1024"`
	RequestTimeout  time.Duration `env:"TIMEOUT" envDefault:"10s"`
}

// OpenAIConfig configures the evaluator.
type OpenAIConfig struct {
	BaseURL        string          `env:"BASE_URL" envDefault:"https://api.openai.com"`
	Endpoint       string          `env:"ENDPOINT" envDefault:"/v1/chat/completions"`
	APIKey         string          `env:"API_KEY"`
	Model          string          `env:"MODEL" envDefault:"gpt-4o-mini"`
	MaxTokens      int             `env:"MAX_TOKENS" envDefault:"400"`
	RequestTimeout time.Duration   `env:"TIMEOUT" envDefault:"10s"`
	Retry          pkgRetry.Config `envPrefix:"RETRY_"`
}

// UsageConfig holds usage accounting limits. Zero disables the daily cap.
type UsageConfig struct {
	DailyLimit int `env:"DAILY_LIMIT" envDefault:"0"`
}

func LoadConfig() (*Config, error) {
	envFlag := flag.String("env", "local", "Environment to run (local, prod, or custom)")
	flag.Parse()

	envFile := getEnvFile(*envFlag)
	// Try to load env file, but don't fail if it's missing.
	// In containerized/prod environments variables are usually set externally.
	if err := godotenv.Load(envFile); err != nil {
		fmt.Printf("Warning: could not load %s file (this is ok if env vars are set externally): %v\n", envFile, err)
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}

	cfg.Environment = *envFlag

	if err := validateConfig(cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

func validateConfig(cfg *Config) error {
	var errors []string

	if cfg.PipelineCfg.MaxAttempts < 1 || cfg.PipelineCfg.MaxAttempts > 10 {
		errors = append(errors, fmt.Sprintf("PIPELINE_MAX_ATTEMPTS must be between 1 and 10, got %d", cfg.PipelineCfg.MaxAttempts))
	}

	if cfg.PipelineCfg.ScoreThreshold < 1 || cfg.PipelineCfg.ScoreThreshold > 5 {
		errors = append(errors, fmt.Sprintf("PIPELINE_SCORE_THRESHOLD must be between 1 and 5, got %g", cfg.PipelineCfg.ScoreThreshold))
	}

	if cfg.PipelineCfg.OverallTimeout < time.Second || cfg.PipelineCfg.OverallTimeout > 5*time.Minute {
		errors = append(errors, fmt.Sprintf("PIPELINE_TIMEOUT must be between 1s and 5m, got %s", cfg.PipelineCfg.OverallTimeout))
	}

	if !cfg.EnableMocks {
		if cfg.AnthropicCfg.APIKey == "" && cfg.PipelineCfg.PrimaryEnabled {
			errors = append(errors, "ANTHROPIC_API_KEY is required when the primary pipeline is enabled")
		}
		if cfg.GeminiCfg.APIKey == "" {
			errors = append(errors, "GEMINI_API_KEY is required for the fallback pipeline")
		}
		if cfg.OpenAICfg.APIKey == "" && cfg.PipelineCfg.UseEvaluation {
			errors = append(errors, "OPENAI_API_KEY is required when evaluation is enabled")
		}
	}

	if cfg.DatabaseURL != "" {
		if cfg.DBMaxConns < 1 || cfg.DBMaxConns > 200 {
			errors = append(errors, fmt.Sprintf("DB_MAX_CONNS must be between 1 and 200, got %d", cfg.DBMaxConns))
		}
		if cfg.DBMinConns < 0 || cfg.DBMinConns > cfg.DBMaxConns {
			errors = append(errors, fmt.Sprintf("DB_MIN_CONNS must be between 0 and DB_MAX_CONNS(%d), got %d", cfg.DBMaxConns, cfg.DBMinConns))
		}
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration validation errors:\n  - %s", strings.Join(errors, "\n  - "))
	}

	return nil
}

func getEnvFile(environment string) string {
	switch environment {
	case "prod", "production":
		return ".env.prod"
	case "local", "dev", "development":
		return ".env.local"
	default:
		return fmt.Sprintf(".env.%s", environment)
	}
}
