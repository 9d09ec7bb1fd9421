// Package config loads the tool configuration from the environment, an
// optional .env file, and an optional config.yaml.
//
// The result is a plain struct constructed once at startup and passed into
// each component. Nothing in this package keeps mutable state after Load
// returns.
package config

import (
	"fmt"
	"log/slog"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration for the tool. Mapstructure tags map
// environment variables and config file keys.
type Config struct {
	// Figma API.
	FigmaToken  string `mapstructure:"FIGMA_ACCESS_TOKEN"`
	FigmaFileID string `mapstructure:"FIGMA_FILE_ID"`

	// LLM provider selection: "bedrock" (default) or "openai".
	LLMProvider string `mapstructure:"LLM_PROVIDER"`

	// AWS Bedrock.
	AWSAccessKeyID     string `mapstructure:"AWS_ACCESS_KEY_ID"`
	AWSSecretAccessKey string `mapstructure:"AWS_SECRET_ACCESS_KEY"`
	AWSRegion          string `mapstructure:"AWS_REGION"`
	BedrockModelID     string `mapstructure:"BEDROCK_MODEL_ID"`

	// OpenAI-compatible endpoint (alternate provider).
	OpenAIKey     string `mapstructure:"OPENAI_API_KEY"`
	OpenAIModel   string `mapstructure:"OPENAI_MODEL"`
	OpenAIBaseURL string `mapstructure:"OPENAI_BASE_URL"`

	// VerifySSL controls TLS certificate verification for outbound calls.
	// Verification is on by default; only an explicit "false" disables it.
	VerifySSL bool `mapstructure:"VERIFY_SSL"`

	// Output.
	OutputDir string `mapstructure:"OUTPUT_DIR"`

	// HistoryDB is the path of the SQLite run-history database.
	HistoryDB string `mapstructure:"HISTORY_DB"`

	// PromptFile optionally points to a YAML file overriding the built-in
	// prompt templates per scenario type.
	PromptFile string `mapstructure:"PROMPT_FILE"`

	LogLevel string `mapstructure:"LOG_LEVEL"`
}

// Load reads configuration from a .env file, the environment, and an
// optional config.yaml in the working directory. envPath overrides the
// default ".env" location; a missing default file is not an error.
func Load(envPath string) (Config, error) {
	if envPath != "" {
		if err := godotenv.Load(envPath); err != nil {
			return Config{}, fmt.Errorf("config: load %s: %w", envPath, err)
		}
	} else {
		_ = godotenv.Load()
	}

	v := viper.New()
	v.AddConfigPath(".")
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AutomaticEnv()

	// Defaults also register the keys so AutomaticEnv picks them up during
	// Unmarshal.
	v.SetDefault("FIGMA_ACCESS_TOKEN", "")
	v.SetDefault("FIGMA_FILE_ID", "")
	v.SetDefault("LLM_PROVIDER", "bedrock")
	v.SetDefault("AWS_ACCESS_KEY_ID", "")
	v.SetDefault("AWS_SECRET_ACCESS_KEY", "")
	v.SetDefault("AWS_REGION", "us-east-1")
	v.SetDefault("BEDROCK_MODEL_ID", "anthropic.claude-3-sonnet-20240229-v1:0")
	v.SetDefault("OPENAI_API_KEY", "")
	v.SetDefault("OPENAI_MODEL", "gpt-4o-mini")
	v.SetDefault("OPENAI_BASE_URL", "")
	v.SetDefault("VERIFY_SSL", true)
	v.SetDefault("OUTPUT_DIR", "output")
	v.SetDefault("HISTORY_DB", "db/history.db")
	v.SetDefault("PROMPT_FILE", "")
	v.SetDefault("LOG_LEVEL", "info")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return Config{}, fmt.Errorf("config: read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("config: decode: %w", err)
	}
	return cfg, nil
}

// ValidateFigma reports a configuration error before any network call if the
// Figma token is missing.
func (c Config) ValidateFigma() error {
	if c.FigmaToken == "" {
		return fmt.Errorf("config: FIGMA_ACCESS_TOKEN is required (set it in .env or pass -token)")
	}
	return nil
}

// ValidateLLM reports missing provider credentials before any network call.
func (c Config) ValidateLLM() error {
	switch c.LLMProvider {
	case "", "bedrock":
		if c.AWSAccessKeyID == "" || c.AWSSecretAccessKey == "" {
			return fmt.Errorf("config: AWS_ACCESS_KEY_ID and AWS_SECRET_ACCESS_KEY are required for the bedrock provider")
		}
	case "openai":
		if c.OpenAIKey == "" {
			return fmt.Errorf("config: OPENAI_API_KEY is required for the openai provider")
		}
	default:
		return fmt.Errorf("config: unknown LLM_PROVIDER %q", c.LLMProvider)
	}
	return nil
}

// SlogLevel maps the configured log level string to a slog.Level.
func (c Config) SlogLevel() slog.Level {
	switch c.LogLevel {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
