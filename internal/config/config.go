package config

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"
)

type Config struct {
	Port     string
	LogLevel slog.Level
	LogFile  string

	// S3
	S3Endpoint        string
	S3AccessKeyID     string
	S3SecretAccessKey string
	S3BucketName      string
	S3UseSSL          bool

	// Extraction vendor (ADE)
	ExtractionBaseURL string
	ExtractionAPIKey  string
	ParseModel        string
	ExtractModel      string

	// Bedrock reasoning agent. The agent identifiers may be empty; the
	// reasoning stage then returns an in-band error report instead of
	// calling out, so a partially configured deployment still serves
	// uploads and extraction.
	AWSRegion           string
	BedrockAgentID      string
	BedrockAgentAliasID string

	// Upload limits
	MaxFileSize int64

	// The agent may make nested tool calls, so this is minutes, not seconds.
	ReasoningTimeout time.Duration
}

func Load() (*Config, error) {
	cfg := &Config{
		Port:              getEnv("PORT", "8080"),
		LogLevel:          parseLogLevel(getEnv("LOG_LEVEL", "info")),
		LogFile:           getEnv("LOG_FILE", ""),
		S3Endpoint:        getEnv("S3_ENDPOINT", "localhost:9000"),
		S3AccessKeyID:     getEnv("S3_ACCESS_KEY_ID", "minioadmin"),
		S3SecretAccessKey: getEnv("S3_SECRET_ACCESS_KEY", "minioadmin"),
		S3BucketName:      getEnv("S3_UPLOADS_BUCKET", "openomi-uploads-dev"),
		S3UseSSL:          getEnv("S3_USE_SSL", "false") == "true",

		ExtractionBaseURL: getEnv("ADE_BASE_URL", "https://api.landing.ai/v1/ade"),
		ExtractionAPIKey:  getEnv("ADE_API_KEY", ""),
		ParseModel:        getEnv("ADE_PARSE_MODEL", "dpt-2-latest"),
		ExtractModel:      getEnv("ADE_EXTRACT_MODEL", "extract-latest"),

		AWSRegion:           getEnv("AWS_REGION", "us-east-1"),
		BedrockAgentID:      getEnv("BEDROCK_AGENT_ID", ""),
		BedrockAgentAliasID: getEnv("BEDROCK_AGENT_ALIAS_ID", ""),

		MaxFileSize:      10 * 1024 * 1024,
		ReasoningTimeout: parseDuration(getEnv("REASONING_TIMEOUT", "5m")),
	}

	if cfg.ExtractionAPIKey == "" {
		return nil, fmt.Errorf("ADE_API_KEY is required")
	}

	return cfg, nil
}

// AgentConfigured reports whether both Bedrock agent identifiers are set.
func (c *Config) AgentConfigured() bool {
	return c.BedrockAgentID != "" && c.BedrockAgentAliasID != ""
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func parseLogLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func parseDuration(s string) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil || d <= 0 {
		return 5 * time.Minute
	}
	return d
}
