package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	// Default values
	DefaultLogLevel       = "info"
	DefaultEmbedModel     = "text-embedding-ada-002"
	DefaultReasoningModel = "gpt-4"
	DefaultExtractModel   = "sfdr_template_extraction_paid_version_only_1_page"
	DefaultCallTimeout    = 60 * time.Second
	DefaultPollInterval   = 2 * time.Second
)

// Config holds all configuration for the SFDR validator
type Config struct {
	// Input / output
	InputPath  string
	OutputPath string

	// Embedding service (OpenAI /v1/embeddings format)
	EmbeddingEndpoint string
	EmbeddingModel    string
	EmbeddingAPIKey   string

	// Reasoning service (chat/completions format)
	ReasoningEndpoint string
	ReasoningModel    string
	ReasoningAPIKey   string

	// Structured table-extraction service
	DocIntelEndpoint string
	DocIntelKey      string
	ExtractModelID   string

	// Optional persistence (empty DSN disables the run store)
	DatabaseDSN string

	// Session embedding cache (empty path keeps the cache in memory only)
	EmbeddingCachePath string

	// Application configuration
	LogLevel     string
	CallTimeout  time.Duration
	PollInterval time.Duration
}

// DefaultConfig returns a configuration with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		OutputPath:     "validation_results.xlsx",
		EmbeddingModel: DefaultEmbedModel,
		ReasoningModel: DefaultReasoningModel,
		ExtractModelID: DefaultExtractModel,
		LogLevel:       DefaultLogLevel,
		CallTimeout:    DefaultCallTimeout,
		PollInterval:   DefaultPollInterval,
	}
}

// LoadFromFlags parses command line flags and returns a configuration
func LoadFromFlags() (*Config, error) {
	cfg := DefaultConfig()

	setupViperEnvironment(cfg)
	defineCommandLineFlags(cfg)
	bindFlagsToViper()
	setupUsageMessage()

	pflag.Parse()

	populateConfigFromViper(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// setupViperEnvironment configures viper with environment variables and defaults
func setupViperEnvironment(cfg *Config) {
	viper.SetEnvPrefix("SFDR")
	viper.AutomaticEnv()

	viper.SetDefault("input", cfg.InputPath)
	viper.SetDefault("output", cfg.OutputPath)
	viper.SetDefault("embedding_endpoint", cfg.EmbeddingEndpoint)
	viper.SetDefault("embedding_model", cfg.EmbeddingModel)
	viper.SetDefault("embedding_api_key", cfg.EmbeddingAPIKey)
	viper.SetDefault("reasoning_endpoint", cfg.ReasoningEndpoint)
	viper.SetDefault("reasoning_model", cfg.ReasoningModel)
	viper.SetDefault("reasoning_api_key", cfg.ReasoningAPIKey)
	viper.SetDefault("docintel_endpoint", cfg.DocIntelEndpoint)
	viper.SetDefault("docintel_key", cfg.DocIntelKey)
	viper.SetDefault("extract_model_id", cfg.ExtractModelID)
	viper.SetDefault("database_dsn", cfg.DatabaseDSN)
	viper.SetDefault("embedding_cache", cfg.EmbeddingCachePath)
	viper.SetDefault("loglevel", cfg.LogLevel)
	viper.SetDefault("call_timeout", cfg.CallTimeout)
	viper.SetDefault("poll_interval", cfg.PollInterval)
}

// defineCommandLineFlags sets up all command line flags
func defineCommandLineFlags(cfg *Config) {
	pflag.String("input", cfg.InputPath, "Path to the PDF file containing SFDR templates")
	pflag.String("output", cfg.OutputPath, "Path for the XLSX validation report")
	pflag.String("embedding-endpoint", cfg.EmbeddingEndpoint, "Base URL of the embedding service")
	pflag.String("embedding-model", cfg.EmbeddingModel, "Embedding model name")
	pflag.String("reasoning-endpoint", cfg.ReasoningEndpoint, "Base URL of the reasoning service")
	pflag.String("reasoning-model", cfg.ReasoningModel, "Reasoning model name")
	pflag.String("docintel-endpoint", cfg.DocIntelEndpoint, "Base URL of the table-extraction service")
	pflag.String("extract-model-id", cfg.ExtractModelID, "Extraction model identifier for the table-extraction service")
	pflag.String("database-dsn", cfg.DatabaseDSN, "Postgres DSN for storing validation runs (optional)")
	pflag.String("embedding-cache", cfg.EmbeddingCachePath, "SQLite file for the embedding cache (optional)")
	pflag.String("loglevel", cfg.LogLevel, "Log level (debug, info, warn, error)")
	pflag.Duration("call-timeout", cfg.CallTimeout, "Per-call timeout for external services")
	pflag.Duration("poll-interval", cfg.PollInterval, "Poll interval for the table-extraction service")
}

// bindFlagsToViper binds command line flags to viper configuration
func bindFlagsToViper() {
	_ = viper.BindPFlag("input", pflag.Lookup("input"))
	_ = viper.BindPFlag("output", pflag.Lookup("output"))
	_ = viper.BindPFlag("embedding_endpoint", pflag.Lookup("embedding-endpoint"))
	_ = viper.BindPFlag("embedding_model", pflag.Lookup("embedding-model"))
	_ = viper.BindPFlag("reasoning_endpoint", pflag.Lookup("reasoning-endpoint"))
	_ = viper.BindPFlag("reasoning_model", pflag.Lookup("reasoning-model"))
	_ = viper.BindPFlag("docintel_endpoint", pflag.Lookup("docintel-endpoint"))
	_ = viper.BindPFlag("extract_model_id", pflag.Lookup("extract-model-id"))
	_ = viper.BindPFlag("database_dsn", pflag.Lookup("database-dsn"))
	_ = viper.BindPFlag("embedding_cache", pflag.Lookup("embedding-cache"))
	_ = viper.BindPFlag("loglevel", pflag.Lookup("loglevel"))
	_ = viper.BindPFlag("call_timeout", pflag.Lookup("call-timeout"))
	_ = viper.BindPFlag("poll_interval", pflag.Lookup("poll-interval"))
}

// setupUsageMessage configures the custom usage message
func setupUsageMessage() {
	pflag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage of %s:\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "\nSFDR Template Validator - extracts and validates SFDR disclosure templates\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		pflag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nEnvironment Variables (override file defaults, overridden by flags):\n")
		fmt.Fprintf(os.Stderr, "  SFDR_INPUT               Input PDF path\n")
		fmt.Fprintf(os.Stderr, "  SFDR_OUTPUT              Output XLSX path\n")
		fmt.Fprintf(os.Stderr, "  SFDR_EMBEDDING_ENDPOINT  Embedding service base URL\n")
		fmt.Fprintf(os.Stderr, "  SFDR_EMBEDDING_API_KEY   Embedding service API key\n")
		fmt.Fprintf(os.Stderr, "  SFDR_REASONING_ENDPOINT  Reasoning service base URL\n")
		fmt.Fprintf(os.Stderr, "  SFDR_REASONING_API_KEY   Reasoning service API key\n")
		fmt.Fprintf(os.Stderr, "  SFDR_DOCINTEL_ENDPOINT   Table-extraction service base URL\n")
		fmt.Fprintf(os.Stderr, "  SFDR_DOCINTEL_KEY        Table-extraction service API key\n")
		fmt.Fprintf(os.Stderr, "  SFDR_DATABASE_DSN        Postgres DSN for run persistence\n")
	}
}

// populateConfigFromViper fills the config struct with values from viper
func populateConfigFromViper(cfg *Config) {
	cfg.InputPath = viper.GetString("input")
	cfg.OutputPath = viper.GetString("output")
	cfg.EmbeddingEndpoint = viper.GetString("embedding_endpoint")
	cfg.EmbeddingModel = viper.GetString("embedding_model")
	cfg.EmbeddingAPIKey = viper.GetString("embedding_api_key")
	cfg.ReasoningEndpoint = viper.GetString("reasoning_endpoint")
	cfg.ReasoningModel = viper.GetString("reasoning_model")
	cfg.ReasoningAPIKey = viper.GetString("reasoning_api_key")
	cfg.DocIntelEndpoint = viper.GetString("docintel_endpoint")
	cfg.DocIntelKey = viper.GetString("docintel_key")
	cfg.ExtractModelID = viper.GetString("extract_model_id")
	cfg.DatabaseDSN = viper.GetString("database_dsn")
	cfg.EmbeddingCachePath = viper.GetString("embedding_cache")
	cfg.LogLevel = viper.GetString("loglevel")
	cfg.CallTimeout = viper.GetDuration("call_timeout")
	cfg.PollInterval = viper.GetDuration("poll_interval")
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.InputPath == "" {
		return errors.New("input PDF path cannot be empty")
	}
	if _, err := os.Stat(c.InputPath); err != nil {
		return fmt.Errorf("cannot access input PDF %s: %w", c.InputPath, err)
	}
	if c.OutputPath == "" {
		return errors.New("output path cannot be empty")
	}
	if c.EmbeddingEndpoint == "" {
		return errors.New("embedding endpoint is required")
	}
	if c.ReasoningEndpoint == "" {
		return errors.New("reasoning endpoint is required")
	}
	if c.DocIntelEndpoint == "" {
		return errors.New("table-extraction endpoint is required")
	}
	if c.CallTimeout <= 0 {
		return errors.New("call timeout must be positive")
	}

	validLogLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLogLevels[c.LogLevel] {
		return fmt.Errorf("invalid log level: %s (must be one of: debug, info, warn, error)", c.LogLevel)
	}

	return nil
}
